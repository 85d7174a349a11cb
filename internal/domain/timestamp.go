package domain

import (
	"fmt"
	"time"
)

// TimeFormat is the canonical serialization form for timestamps. Storing
// and reloading a table through this format is lossless for valid times.
const TimeFormat = time.RFC3339Nano

// timeLayouts are tried in order when coercing loosely formatted source
// timestamps. Sources in the wild mix zoned and naive forms.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp coerces a cell value to a timestamp. The bool is false
// when the value is absent, null, or unparsable; callers treat that as a
// null timestamp, never as an error.
func ParseTimestamp(v any) (time.Time, bool) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return x, true
	case string:
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, x); err == nil {
				return ts, true
			}
		}
		return time.Time{}, false
	case float64:
		// JSON numbers: epoch seconds or milliseconds.
		if x > 1e12 {
			return time.UnixMilli(int64(x)).UTC(), true
		}
		return time.Unix(int64(x), 0).UTC(), true
	case int64:
		if x > 1e12 {
			return time.UnixMilli(x).UTC(), true
		}
		return time.Unix(x, 0).UTC(), true
	default:
		return time.Time{}, false
	}
}

// FormatTimestamp renders a timestamp in the canonical form, UTC.
func FormatTimestamp(ts time.Time) string {
	return ts.UTC().Format(TimeFormat)
}

// CellString renders any cell value for display or serialization.
// Null cells render as the empty string.
func CellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return FormatTimestamp(x)
	case float64:
		return trimFloat(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func trimFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}
