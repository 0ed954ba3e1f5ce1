package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-procurement-be/internal/entity"
	"ai-procurement-be/internal/pkg/logger"
	"ai-procurement-be/pkg/resilience"
)

func newPriceAgent() *PriceAgent {
	return NewPriceAgent(nil, nil, resilience.NewSystemMonitor(), logger.Nop{})
}

func statePoints(prices ...float64) []entity.PricePoint {
	points := make([]entity.PricePoint, 0, len(prices))
	for i, p := range prices {
		points = append(points, entity.PricePoint{
			Platform: "jumia",
			Seller:   string(rune('A' + i)),
			PriceKES: p,
		})
	}
	return points
}

func TestPriceAgentEmptyMarketDataDegrades(t *testing.T) {
	agent := newPriceAgent()
	state := entity.NewPipelineState("laptop", entity.CategoryElectronics, nil)

	require.NoError(t, agent.Run(context.Background(), state))

	assert.Equal(t, 0.0, state.PriceAnalysis.CurrentPrice)
	assert.Equal(t, entity.TrendUnknown, state.PriceAnalysis.Trend)
	assert.Equal(t, "price_analysis_skipped", state.Step)
	require.Len(t, state.Errors, 1)
	assert.Contains(t, state.Errors[0], "no positive prices")
}

func TestPriceAgentFiltersNonPositivePrices(t *testing.T) {
	agent := newPriceAgent()
	state := entity.NewPipelineState("laptop", entity.CategoryElectronics, nil)
	state.MarketData = statePoints(0, 0, 0)

	require.NoError(t, agent.Run(context.Background(), state))
	assert.Equal(t, entity.TrendUnknown, state.PriceAnalysis.Trend)
	assert.NotEmpty(t, state.Errors)
}

func TestPriceAgentUniformPrices(t *testing.T) {
	agent := newPriceAgent()
	state := entity.NewPipelineState("laptop", entity.CategoryElectronics, nil)
	state.MarketData = statePoints(100, 100, 100)

	require.NoError(t, agent.Run(context.Background(), state))

	fc := state.PriceAnalysis
	assert.Equal(t, 100.0, fc.CurrentPrice)
	assert.InDelta(t, 1.0, fc.Confidence, 1e-9, "zero variance means full confidence")
	assert.Equal(t, 0.0, fc.SavingsPotential)
	assert.Equal(t, "price_analysis_complete", state.Step)
	assert.Empty(t, state.Errors)
	require.NotNil(t, fc.BestBuyDate)
}

func TestPriceAgentTrendDown(t *testing.T) {
	agent := newPriceAgent()
	state := entity.NewPipelineState("laptop", entity.CategoryElectronics, nil)
	state.MarketData = statePoints(200, 150, 100)

	require.NoError(t, agent.Run(context.Background(), state))

	fc := state.PriceAnalysis
	assert.Equal(t, entity.TrendDown, fc.Trend)
	assert.Equal(t, 100.0, fc.SavingsPotential)
	assert.Less(t, fc.PredictedPrice7d, fc.CurrentPrice)
	assert.Less(t, fc.Predicted30d, fc.PredictedPrice7d)
}

func TestPriceAgentMixedZeroAndPositive(t *testing.T) {
	agent := newPriceAgent()
	state := entity.NewPipelineState("laptop", entity.CategoryElectronics, nil)
	state.MarketData = statePoints(0, 100, 0, 200)

	require.NoError(t, agent.Run(context.Background(), state))
	// Only the two positive samples feed the forecast.
	assert.Equal(t, 150.0, state.PriceAnalysis.CurrentPrice)
}
