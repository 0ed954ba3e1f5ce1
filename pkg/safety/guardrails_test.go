package safety

import (
	"strings"
	"testing"
)

func TestSanitizeInputStripsInjection(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"clean query", "samsung galaxy s23", "samsung galaxy s23"},
		{"script tag", "phone <script>alert(1)</script>", "phone [REDACTED]"},
		{"sql fragment", "laptop; DROP TABLE products", "laptop; [REDACTED] products"},
		{"js scheme", "javascript:steal()", "[REDACTED]steal()"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeInput(tt.input); got != tt.want {
				t.Fatalf("SanitizeInput(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeInputCapsLength(t *testing.T) {
	long := strings.Repeat("a", 20000)
	if got := SanitizeInput(long); len(got) != 10000 {
		t.Fatalf("len = %d, want 10000", len(got))
	}
}

func TestRedactSensitiveData(t *testing.T) {
	in := "card 4111-1111-1111-1111 reach me at buyer@example.com"
	got := Redact(in)
	if strings.Contains(got, "4111") || strings.Contains(got, "example.com") {
		t.Fatalf("sensitive data survived: %q", got)
	}
	if !strings.Contains(got, "[CREDIT_CARD_REDACTED]") || !strings.Contains(got, "[EMAIL_REDACTED]") {
		t.Fatalf("missing redaction markers: %q", got)
	}
}

func TestValidPrice(t *testing.T) {
	for _, bad := range []float64{0, -10, 10_000_001} {
		if ValidPrice(bad) {
			t.Fatalf("ValidPrice(%v) = true, want false", bad)
		}
	}
	if !ValidPrice(14999) {
		t.Fatal("ValidPrice(14999) = false, want true")
	}
}
