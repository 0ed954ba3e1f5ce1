package verify

import (
	"context"
	"testing"
)

func TestHeuristicVerification(t *testing.T) {
	c := NewClient("", "", 0)
	ctx := context.Background()

	tests := []struct {
		name     string
		seller   string
		wantRisk string
		wantSafe bool
		wantRec  string
	}{
		{"incorporated clean name", "Safari Electronics Ltd", "low", true, "review"},
		{"unincorporated", "Corner Shop Nairobi", "medium", true, "review"},
		{"generic and unincorporated", "Global Imports Kenya", "high", false, "review"},
		{"blacklisted", "Quick Imports", "high", false, "reject"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := c.VerifySeller(ctx, tt.seller, "jumia")
			if err != nil {
				t.Fatal(err)
			}
			if res.RiskLevel != tt.wantRisk {
				t.Fatalf("risk = %q, want %q", res.RiskLevel, tt.wantRisk)
			}
			if res.IsSafe != tt.wantSafe {
				t.Fatalf("safe = %v, want %v", res.IsSafe, tt.wantSafe)
			}
			if res.Recommendation != tt.wantRec {
				t.Fatalf("recommendation = %q, want %q", res.Recommendation, tt.wantRec)
			}
			// Heuristic mode never claims registry verification.
			if res.IsVerified {
				t.Fatal("heuristic check should not mark the seller verified")
			}
		})
	}
}

func TestBlacklistMatchIsSubstring(t *testing.T) {
	c := NewClient("", "", 0)
	res, err := c.VerifySeller(context.Background(), "THE QUICK IMPORTS SHOP", "kilimall")
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsBlacklisted || res.Recommendation != "reject" {
		t.Fatalf("res = %+v, want blacklisted reject", res)
	}
}
