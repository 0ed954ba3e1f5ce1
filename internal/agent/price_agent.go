package agent

import (
	"context"
	"time"

	"ai-procurement-be/internal/entity"
	"ai-procurement-be/internal/pkg/logger"
	"ai-procurement-be/pkg/forecast"
	"ai-procurement-be/pkg/resilience"
)

// PriceAgent turns the collected price points into a forecast. The
// strategy is pluggable so a fitted model can replace the heuristic
// without touching the stage's control flow.
type PriceAgent struct {
	strategy forecast.Strategy
	guard    *ToolGuard
	monitor  *resilience.SystemMonitor
	log      logger.ILogger
}

func NewPriceAgent(strategy forecast.Strategy, guard *ToolGuard, monitor *resilience.SystemMonitor, log logger.ILogger) *PriceAgent {
	if strategy == nil {
		strategy = forecast.NewHeuristic()
	}
	if guard == nil {
		guard = &ToolGuard{}
	}
	return &PriceAgent{strategy: strategy, guard: guard, monitor: monitor, log: log}
}

func (a *PriceAgent) Name() string { return "price_analysis" }

func (a *PriceAgent) Run(ctx context.Context, state *entity.PipelineState) error {
	start := time.Now()
	defer func() {
		a.monitor.RecordRequest(a.Name(), time.Since(start))
	}()

	prices := make([]float64, 0, len(state.MarketData))
	for _, point := range state.MarketData {
		if point.PriceKES > 0 {
			prices = append(prices, point.PriceKES)
		}
	}
	if len(prices) == 0 {
		a.monitor.RecordError(a.Name())
		state.AddError("price analysis skipped: no positive prices in market data")
		state.PriceAnalysis = entity.EmptyForecast()
		state.Step = "price_analysis_skipped"
		return nil
	}

	var fc forecast.Forecast
	err := a.guard.Invoke(func() error {
		fc = a.strategy.Forecast(prices)
		return nil
	})
	if err != nil {
		a.monitor.RecordError(a.Name())
		state.AddError("price analysis failed: " + err.Error())
		state.PriceAnalysis = entity.EmptyForecast()
		state.Step = "price_analysis_failed"
		return nil
	}

	best := fc.BestBuyDate
	state.PriceAnalysis = entity.PriceForecast{
		CurrentPrice:     fc.CurrentPrice,
		PredictedPrice7d: fc.Predicted7d,
		Predicted30d:     fc.Predicted30d,
		ConfidenceLow:    fc.ConfidenceLow,
		ConfidenceHigh:   fc.ConfidenceHigh,
		Trend:            entity.Trend(fc.Trend),
		Recommendation:   fc.Recommendation,
		BestBuyDate:      &best,
		SavingsPotential: fc.SavingsPotential,
		Confidence:       fc.Confidence,
	}
	state.Step = "price_analysis_complete"
	a.log.Info("agent.price", "price analysis complete", map[string]interface{}{
		"query":         state.Query,
		"samples":       len(prices),
		"trend":         fc.Trend,
		"current_price": fc.CurrentPrice,
	})
	return nil
}
