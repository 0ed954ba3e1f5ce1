package forecast

import (
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestHeuristicUniformPrices(t *testing.T) {
	h := &Heuristic{Now: fixedNow}
	f := h.Forecast([]float64{100, 100, 100})

	if f.CurrentPrice != 100 {
		t.Fatalf("current = %v, want 100", f.CurrentPrice)
	}
	// Zero variance: full confidence, nothing to save.
	if f.Confidence != 1.0 {
		t.Fatalf("confidence = %v, want 1.0", f.Confidence)
	}
	if f.SavingsPotential != 0 {
		t.Fatalf("savings = %v, want 0", f.SavingsPotential)
	}
	// Last price equals the mean, so the rule reports "up".
	if f.Trend != TrendUp {
		t.Fatalf("trend = %q, want up", f.Trend)
	}
	if got := f.BestBuyDate; !got.Equal(fixedNow().Add(72 * time.Hour)) {
		t.Fatalf("best buy date = %v", got)
	}
}

func TestHeuristicTrendDown(t *testing.T) {
	h := &Heuristic{Now: fixedNow}
	f := h.Forecast([]float64{200, 150, 100})

	if f.Trend != TrendDown {
		t.Fatalf("trend = %q, want down", f.Trend)
	}
	if f.Predicted7d >= f.CurrentPrice {
		t.Fatalf("7d prediction %v should be below current %v", f.Predicted7d, f.CurrentPrice)
	}
	if f.Predicted30d >= f.Predicted7d {
		t.Fatalf("30d prediction %v should be below 7d %v", f.Predicted30d, f.Predicted7d)
	}
	if f.SavingsPotential != 100 {
		t.Fatalf("savings = %v, want 100", f.SavingsPotential)
	}
}

func TestHeuristicTrendUp(t *testing.T) {
	h := &Heuristic{Now: fixedNow}
	f := h.Forecast([]float64{100, 150, 200})

	if f.Trend != TrendUp {
		t.Fatalf("trend = %q, want up", f.Trend)
	}
	if f.Predicted7d <= f.CurrentPrice || f.Predicted30d <= f.Predicted7d {
		t.Fatalf("predictions should rise: current=%v 7d=%v 30d=%v",
			f.CurrentPrice, f.Predicted7d, f.Predicted30d)
	}
}

func TestHeuristicSinglePrice(t *testing.T) {
	h := &Heuristic{Now: fixedNow}
	f := h.Forecast([]float64{500})

	if f.Trend != TrendStable {
		t.Fatalf("trend = %q, want stable for a single point", f.Trend)
	}
	if f.Predicted7d != 500 || f.Predicted30d != 500 {
		t.Fatalf("stable trend should keep predictions flat, got %v/%v", f.Predicted7d, f.Predicted30d)
	}
}

func TestHeuristicConfidenceFloor(t *testing.T) {
	h := &Heuristic{Now: fixedNow}
	// Wildly spread prices: relative stddev approaches 1 but
	// confidence must not dip below 0.5.
	f := h.Forecast([]float64{1, 1000, 2, 2000, 3})

	if f.Confidence < 0.5 || f.Confidence > 1 {
		t.Fatalf("confidence = %v, want within [0.5, 1]", f.Confidence)
	}
}

func TestHeuristicConfidenceInterval(t *testing.T) {
	h := &Heuristic{Now: fixedNow}
	f := h.Forecast([]float64{100, 200})

	if f.ConfidenceLow >= f.CurrentPrice || f.ConfidenceHigh <= f.CurrentPrice {
		t.Fatalf("interval (%v, %v) should bracket current %v",
			f.ConfidenceLow, f.ConfidenceHigh, f.CurrentPrice)
	}
}
