package narrative

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vburojevic/errlens/internal/domain"
)

func TestBuildPromptFlatRecord(t *testing.T) {
	prompt := BuildPrompt(domain.Record{
		domain.ColErrorType: "TIMEOUT",
		domain.ColSource:    "flat",
		domain.ColTimestamp: time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		"rawData":           `{"k":"v"}`,
	})

	assert.Contains(t, prompt, "- Error Type/Code: TIMEOUT")
	assert.Contains(t, prompt, "- Error Details: N/A")
	assert.Contains(t, prompt, "- Collection: flat")
	assert.Contains(t, prompt, "- Timestamp: 2024-03-15T10:30:00Z")
	assert.Contains(t, prompt, `- Raw Data: {"k":"v"}`)
	assert.NotContains(t, prompt, "- Domain:")
	assert.NotContains(t, prompt, "- Transaction Amount:")
}

func TestBuildPromptNestedRecord(t *testing.T) {
	prompt := BuildPrompt(domain.Record{
		domain.ColErrorCode:      "AUTH_FAILED",
		domain.ColErrorDetails:   "token expired",
		domain.ColSource:         "nested",
		"header_domain":          "payments",
		"header_channel":         "web",
		"body_transactionAmount": 99.5,
	})

	assert.Contains(t, prompt, "- Error Type/Code: AUTH_FAILED")
	assert.Contains(t, prompt, "- Error Details: token expired")
	assert.Contains(t, prompt, "- Domain: payments")
	assert.Contains(t, prompt, "- Channel: web")
	assert.Contains(t, prompt, "- Country Code: N/A")
	assert.Contains(t, prompt, "- Transaction Amount: 99.5")
	assert.Contains(t, prompt, "- Merchant Identifier: N/A")
}

func TestBuildPromptFallbackChains(t *testing.T) {
	t.Run("errorType wins over errorCode", func(t *testing.T) {
		prompt := BuildPrompt(domain.Record{
			domain.ColErrorType: "E1",
			domain.ColErrorCode: "C1",
		})
		assert.Contains(t, prompt, "- Error Type/Code: E1")
	})

	t.Run("errorMessage used when errorDetails absent", func(t *testing.T) {
		prompt := BuildPrompt(domain.Record{
			domain.ColErrorType:    "E1",
			domain.ColErrorMessage: "boom",
		})
		assert.Contains(t, prompt, "- Error Details: boom")
	})

	t.Run("empty record", func(t *testing.T) {
		prompt := BuildPrompt(domain.Record{})
		assert.Contains(t, prompt, "- Error Type/Code: Unknown")
		assert.Contains(t, prompt, "- Collection: Unknown")
		assert.Contains(t, prompt, "- Timestamp: N/A")
	})
}
