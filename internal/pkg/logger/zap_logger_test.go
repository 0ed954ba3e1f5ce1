package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScrubMasksSensitiveText(t *testing.T) {
	message, details := scrub("contact seller at seller@shop.co.ke", map[string]interface{}{
		"card":  "paid with 1234-5678-9012-3456",
		"count": 3,
	})

	assert.NotContains(t, message, "seller@shop.co.ke")
	assert.Contains(t, message, "EMAIL_REDACTED")

	card, _ := details["card"].(string)
	assert.NotContains(t, card, "1234-5678-9012-3456")
	assert.Contains(t, card, "CREDIT_CARD_REDACTED")

	// Non-string values pass through untouched.
	assert.Equal(t, 3, details["count"])
}

func TestScrubHandlesNilDetails(t *testing.T) {
	message, details := scrub("plain message", nil)

	assert.Equal(t, "plain message", message)
	assert.NotNil(t, details)
	assert.Empty(t, details)
}
