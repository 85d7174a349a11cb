// Package narrative builds the analysis prompt handed to an external
// explanation generator for a single normalized error record. The
// generator itself (an LLM or anything else) is a collaborator; this
// package makes no assumption about what it does with the record.
package narrative

import (
	"context"
	"fmt"
	"strings"

	"github.com/vburojevic/errlens/internal/domain"
)

// Generator is the external free-text explanation capability.
type Generator interface {
	Explain(ctx context.Context, prompt string) (string, error)
}

// BuildPrompt renders a single normalized record into an analysis prompt.
// Identifier and detail fields are resolved through the same fallback
// chains used elsewhere: errorType else errorCode, errorDetails else
// errorMessage.
func BuildPrompt(record domain.Record) string {
	errorType := firstNonEmpty(record, domain.ColErrorType, domain.ColErrorCode)
	details := firstNonEmpty(record, domain.ColErrorDetails, domain.ColErrorMessage)
	if errorType == "" {
		errorType = "Unknown"
	}
	if details == "" {
		details = "N/A"
	}

	var b strings.Builder
	b.WriteString("You are an expert data analyst specializing in error pattern analysis.\n\n")
	b.WriteString("Analyze the following error record and provide a detailed analysis:\n\n")
	b.WriteString("Error Record:\n")
	fmt.Fprintf(&b, "- Error Type/Code: %s\n", errorType)
	fmt.Fprintf(&b, "- Error Details: %s\n", details)
	fmt.Fprintf(&b, "- Collection: %s\n", valueOr(record, domain.ColSource, "Unknown"))
	fmt.Fprintf(&b, "- Timestamp: %s\n", valueOr(record, domain.ColTimestamp, "N/A"))

	// Source-specific context, only when the record carries it.
	if v := domain.CellString(record["rawData"]); v != "" {
		fmt.Fprintf(&b, "- Raw Data: %s\n", v)
	}
	if v := domain.CellString(record["header_domain"]); v != "" {
		fmt.Fprintf(&b, "- Domain: %s\n", v)
		fmt.Fprintf(&b, "- Channel: %s\n", valueOr(record, "header_channel", "N/A"))
		fmt.Fprintf(&b, "- Country Code: %s\n", valueOr(record, "header_countryCode", "N/A"))
	}
	if v := domain.CellString(record["body_transactionAmount"]); v != "" {
		fmt.Fprintf(&b, "- Transaction Amount: %s\n", v)
		fmt.Fprintf(&b, "- Merchant Identifier: %s\n", valueOr(record, "body_merchantIdentifier", "N/A"))
	}

	b.WriteString("\nPlease provide a comprehensive analysis covering:\n")
	b.WriteString("1. The likely reason for this error\n")
	b.WriteString("2. Why this error is occurring\n")
	b.WriteString("3. Potential root causes\n")
	b.WriteString("4. Recommendations to prevent this error\n")
	return b.String()
}

func firstNonEmpty(record domain.Record, keys ...string) string {
	for _, k := range keys {
		if v := domain.CellString(record[k]); v != "" {
			return v
		}
	}
	return ""
}

func valueOr(record domain.Record, key, fallback string) string {
	if v := domain.CellString(record[key]); v != "" {
		return v
	}
	return fallback
}
