// Package safety holds input/output guardrails: injection stripping for
// user queries, sensitive-data redaction for logs and price sanity
// bounds.
package safety

import (
	"regexp"
	"strings"
)

const maxInputLength = 10000

// MaxReasonablePrice bounds price validation; anything above is treated
// as a scrape artifact.
const MaxReasonablePrice = 10_000_000

var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<script.*?>.*?</script>`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)on\w+\s*=`),
	regexp.MustCompile(`(?i)eval\s*\(`),
	regexp.MustCompile(`(?i)document\.cookie`),
	regexp.MustCompile(`(?i)window\.location`),
	regexp.MustCompile(`(?i)select\s+.*\s+from`),
	regexp.MustCompile(`(?i)drop\s+table`),
	regexp.MustCompile(`(?i)insert\s+into`),
	regexp.MustCompile(`(?i)delete\s+from`),
}

var sensitivePatterns = map[string]*regexp.Regexp{
	"CREDIT_CARD":  regexp.MustCompile(`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`),
	"PHONE_NUMBER": regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`),
	"EMAIL":        regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
}

// SanitizeInput strips injection-looking fragments from a user query
// and caps its length.
func SanitizeInput(text string) string {
	for _, p := range dangerousPatterns {
		text = p.ReplaceAllString(text, "[REDACTED]")
	}
	if len(text) > maxInputLength {
		text = text[:maxInputLength]
	}
	return strings.TrimSpace(text)
}

// Redact masks sensitive data before text reaches logs or outbound
// events.
func Redact(text string) string {
	for label, p := range sensitivePatterns {
		text = p.ReplaceAllString(text, "["+label+"_REDACTED]")
	}
	return text
}

// ValidPrice reports whether a scraped price is usable.
func ValidPrice(price float64) bool {
	return price > 0 && price <= MaxReasonablePrice
}
