// Package features prepares a numeric feature matrix from a combined
// table for the external classifier-training collaborator. Model
// training itself happens outside this engine.
package features

import (
	"context"
	"strconv"
	"strings"
	"unicode"

	"github.com/vburojevic/errlens/internal/domain"
)

// Matrix is the tabular input handed to a Trainer: one numeric row per
// error record plus the target label the models should predict.
type Matrix struct {
	Columns []string
	Rows    [][]float64
	Target  string   // target column name (errorType or errorCode)
	Labels  []string // target value per row
}

// Empty reports whether no usable rows were produced.
func (m *Matrix) Empty() bool { return m == nil || len(m.Rows) == 0 }

// Trainer is the external classifier-training capability. It consumes
// the feature matrix and reports accuracy per trained model.
type Trainer interface {
	Train(ctx context.Context, m *Matrix) (map[string]float64, error)
}

// categoricalColumns are label-encoded when present.
var categoricalColumns = []string{
	"type",
	domain.ColSource,
	"header_businessCode",
	"header_domain",
	"header_channel",
	"header_countryCode",
	"body_merchantCategoryCode",
}

// Prepare derives temporal, shape, and categorical features from the
// combined table. Rows without a target value are skipped; everything
// else degrades to zero-valued features rather than failing.
func Prepare(combined *domain.Table) *Matrix {
	target := combined.ErrorColumn()
	if target == "" || combined.Empty() {
		return &Matrix{Target: target}
	}

	hasTimestamp := combined.HasColumn(domain.ColTimestamp)
	hasRawData := combined.HasColumn("rawData")
	amountCol := ""
	for _, c := range []string{"body_transactionAmount", "transactionAmount"} {
		if combined.HasColumn(c) {
			amountCol = c
			break
		}
	}
	var categoricals []string
	for _, c := range categoricalColumns {
		if combined.HasColumn(c) {
			categoricals = append(categoricals, c)
		}
	}

	m := &Matrix{Target: target}
	if hasTimestamp {
		m.Columns = append(m.Columns, "hour", "day_of_week", "day_of_month", "month")
	}
	if hasRawData {
		m.Columns = append(m.Columns, "rawData_length", "rawData_is_numeric", "rawData_has_letters")
	}
	if amountCol != "" {
		m.Columns = append(m.Columns, "transactionAmount")
	}
	for _, c := range categoricals {
		m.Columns = append(m.Columns, c+"_encoded")
	}
	if len(m.Columns) == 0 {
		return m
	}

	encoders := map[string]map[string]float64{}
	for _, row := range combined.Rows {
		label := domain.CellString(row[target])
		if label == "" {
			continue
		}

		var vec []float64
		if hasTimestamp {
			if ts, ok := domain.ParseTimestamp(row[domain.ColTimestamp]); ok {
				vec = append(vec,
					float64(ts.Hour()),
					float64(ts.Weekday()),
					float64(ts.Day()),
					float64(ts.Month()))
			} else {
				vec = append(vec, 0, 0, 0, 0)
			}
		}
		if hasRawData {
			raw := domain.CellString(row["rawData"])
			vec = append(vec,
				float64(len(raw)),
				boolFeature(isNumeric(raw)),
				boolFeature(hasLetters(raw)))
		}
		if amountCol != "" {
			vec = append(vec, numericValue(row[amountCol]))
		}
		for _, c := range categoricals {
			vec = append(vec, encode(encoders, c, domain.CellString(row[c])))
		}

		m.Rows = append(m.Rows, vec)
		m.Labels = append(m.Labels, label)
	}
	return m
}

// encode label-encodes a categorical value, assigning codes in
// first-seen order.
func encode(encoders map[string]map[string]float64, column, value string) float64 {
	enc, ok := encoders[column]
	if !ok {
		enc = map[string]float64{}
		encoders[column] = enc
	}
	code, ok := enc[value]
	if !ok {
		code = float64(len(enc))
		enc[value] = code
	}
	return code
}

func numericValue(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			return f
		}
	}
	return 0
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func hasLetters(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
