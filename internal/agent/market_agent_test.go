package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-procurement-be/internal/entity"
	"ai-procurement-be/internal/pkg/logger"
	"ai-procurement-be/pkg/resilience"
	"ai-procurement-be/pkg/scraper"
)

type fakeSearcher struct {
	result *scraper.SearchResult
	err    error
	calls  int

	lastPreference string
	lastPlatforms  []string
}

func (f *fakeSearcher) Search(_ context.Context, query, preference string, platforms []string) (*scraper.SearchResult, error) {
	f.calls++
	f.lastPreference = preference
	f.lastPlatforms = platforms
	if f.err != nil {
		return nil, f.err
	}
	if f.result == nil {
		return &scraper.SearchResult{Query: query}, nil
	}
	return f.result, nil
}

func newMarketAgent(searcher Searcher) *MarketAgent {
	return NewMarketAgent(searcher, &ToolGuard{}, resilience.NewSystemMonitor(), logger.Nop{}, nil, "")
}

func TestMarketAgentMapsResultsToPricePoints(t *testing.T) {
	searcher := &fakeSearcher{result: &scraper.SearchResult{
		AllResults: []scraper.Product{
			{Platform: "jumia", Seller: "TechHub Ltd", Price: 45000, URL: "https://example.test/a", Availability: "in_stock"},
			{Seller: "", Price: -10}, // missing fields default, negative clamps to 0
		},
	}}
	agent := newMarketAgent(searcher)
	state := entity.NewPipelineState("laptop", entity.CategoryElectronics, nil)

	require.NoError(t, agent.Run(context.Background(), state))

	require.Len(t, state.MarketData, 2)
	assert.Equal(t, "jumia", state.MarketData[0].Platform)
	assert.Equal(t, "TechHub Ltd", state.MarketData[0].Seller)
	assert.Equal(t, 45000.0, state.MarketData[0].PriceKES)
	assert.Equal(t, entity.AvailabilityInStock, state.MarketData[0].Availability)

	assert.Equal(t, "Unknown", state.MarketData[1].Platform)
	assert.Equal(t, "Unknown", state.MarketData[1].Seller)
	assert.Equal(t, 0.0, state.MarketData[1].PriceKES)
	assert.Equal(t, entity.AvailabilityUnknown, state.MarketData[1].Availability)

	assert.Equal(t, "market_data_collected", state.Step)
	assert.Empty(t, state.Errors)
}

func TestMarketAgentDropsOutOfBoundsPrices(t *testing.T) {
	searcher := &fakeSearcher{result: &scraper.SearchResult{
		AllResults: []scraper.Product{
			{Platform: "jumia", Seller: "A", Price: 100},
			{Platform: "jumia", Seller: "B", Price: 50_000_000}, // absurd, dropped
		},
	}}
	agent := newMarketAgent(searcher)
	state := entity.NewPipelineState("tv", entity.CategoryElectronics, nil)

	require.NoError(t, agent.Run(context.Background(), state))
	require.Len(t, state.MarketData, 1)
	assert.Equal(t, "A", state.MarketData[0].Seller)
}

func TestMarketAgentDegradesOnSearchFailure(t *testing.T) {
	searcher := &fakeSearcher{err: resilience.Transient(errors.New("scrape timeout"))}
	agent := newMarketAgent(searcher)
	state := entity.NewPipelineState("phone", entity.CategoryGeneral, nil)

	require.NoError(t, agent.Run(context.Background(), state))

	assert.Empty(t, state.MarketData)
	assert.NotNil(t, state.MarketData, "degraded value must be an empty slice, not nil")
	assert.Equal(t, "market_data_failed", state.Step)
	require.Len(t, state.Errors, 1)
	assert.Contains(t, state.Errors[0], "market data collection failed")
}

func TestMarketAgentReadsPreferenceAndPlatformsFromCollectedData(t *testing.T) {
	searcher := &fakeSearcher{}
	agent := newMarketAgent(searcher)
	state := entity.NewPipelineState("shoes", entity.CategoryFashion, map[string]any{
		"preference": scraper.PreferBestRated,
		"platforms":  []string{"jumia", "kilimall"},
	})

	require.NoError(t, agent.Run(context.Background(), state))
	assert.Equal(t, scraper.PreferBestRated, searcher.lastPreference)
	assert.Equal(t, []string{"jumia", "kilimall"}, searcher.lastPlatforms)
}

func TestMarketAgentDefaultsPreferenceAndPlatforms(t *testing.T) {
	searcher := &fakeSearcher{}
	agent := newMarketAgent(searcher)
	state := entity.NewPipelineState("shoes", entity.CategoryFashion, nil)

	require.NoError(t, agent.Run(context.Background(), state))
	assert.Equal(t, scraper.PreferCheapest, searcher.lastPreference)
	assert.Equal(t, []string{"jumia"}, searcher.lastPlatforms)
}

func TestMarketAgentUsesConfiguredDefaultPreference(t *testing.T) {
	searcher := &fakeSearcher{}
	agent := NewMarketAgent(searcher, &ToolGuard{}, resilience.NewSystemMonitor(), logger.Nop{}, nil, scraper.PreferDiscount)
	state := entity.NewPipelineState("shoes", entity.CategoryFashion, nil)

	require.NoError(t, agent.Run(context.Background(), state))
	assert.Equal(t, scraper.PreferDiscount, searcher.lastPreference)

	// An explicit per-run preference still wins over the configured one.
	state = entity.NewPipelineState("shoes", entity.CategoryFashion, map[string]any{
		"preference": scraper.PreferBestRated,
	})
	require.NoError(t, agent.Run(context.Background(), state))
	assert.Equal(t, scraper.PreferBestRated, searcher.lastPreference)
}

func TestMarketAgentStampsMissingTimestamps(t *testing.T) {
	searcher := &fakeSearcher{result: &scraper.SearchResult{
		AllResults: []scraper.Product{{Platform: "jumia", Seller: "A", Price: 100}},
	}}
	agent := newMarketAgent(searcher)
	state := entity.NewPipelineState("tv", entity.CategoryElectronics, nil)

	before := time.Now()
	require.NoError(t, agent.Run(context.Background(), state))
	require.Len(t, state.MarketData, 1)
	assert.False(t, state.MarketData[0].Timestamp.Before(before))
}
