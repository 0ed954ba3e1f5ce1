// Package forecast holds the price forecasting strategy used by the
// price analysis stage. The heuristic implementation is a placeholder
// for a fitted time-series model; the stage only depends on the
// Strategy interface so a real model can be swapped in without touching
// pipeline control flow.
package forecast

import (
	"math"
	"time"
)

// Trend directions reported by a forecast.
const (
	TrendUp      = "up"
	TrendDown    = "down"
	TrendStable  = "stable"
	TrendUnknown = "unknown"
)

// Forecast is the strategy output. Prices are in the same currency as
// the input samples.
type Forecast struct {
	CurrentPrice     float64
	Predicted7d      float64
	Predicted30d     float64
	ConfidenceLow    float64
	ConfidenceHigh   float64
	Trend            string
	Recommendation   string
	BestBuyDate      time.Time
	SavingsPotential float64
	Confidence       float64
}

// Strategy computes a forecast from an ordered series of observed
// prices (oldest first; the last sample is treated as most recent).
// Implementations may assume prices is non-empty and strictly positive,
// the stage filters before calling.
type Strategy interface {
	Forecast(prices []float64) Forecast
}

// Heuristic is the placeholder strategy: mean price, last-vs-mean
// trend, variance-derived confidence and fixed trend multipliers.
type Heuristic struct {
	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func NewHeuristic() *Heuristic {
	return &Heuristic{Now: time.Now}
}

func (h *Heuristic) Forecast(prices []float64) Forecast {
	mean := meanOf(prices)

	trend := TrendStable
	if len(prices) >= 2 {
		if prices[len(prices)-1] < mean {
			trend = TrendDown
		} else {
			trend = TrendUp
		}
	}

	// Confidence degrades with relative spread, floored at 0.5.
	confidence := 1.0
	if mean > 0 {
		confidence = 1 - stddevOf(prices, mean)/mean
	}
	confidence = clamp(math.Max(0.5, confidence), 0, 1)

	mul7, mul30 := 1.0, 1.0
	recommendation := "Buy now - price is steady"
	switch trend {
	case TrendDown:
		mul7, mul30 = 0.95, 0.90
		recommendation = "Wait - price is trending down"
	case TrendUp:
		mul7, mul30 = 1.05, 1.10
		recommendation = "Buy now - price is trending up"
	}

	lo, hi := prices[0], prices[0]
	for _, p := range prices {
		lo = math.Min(lo, p)
		hi = math.Max(hi, p)
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}

	return Forecast{
		CurrentPrice:     round2(mean),
		Predicted7d:      round2(mean * mul7),
		Predicted30d:     round2(mean * mul30),
		ConfidenceLow:    round2(mean * 0.9),
		ConfidenceHigh:   round2(mean * 1.1),
		Trend:            trend,
		Recommendation:   recommendation,
		BestBuyDate:      now().Add(72 * time.Hour),
		SavingsPotential: round2(hi - lo),
		Confidence:       confidence,
	}
}

func meanOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddevOf(xs []float64, mean float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var sq float64
	for _, x := range xs {
		sq += (x - mean) * (x - mean)
	}
	return math.Sqrt(sq / float64(len(xs)))
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
