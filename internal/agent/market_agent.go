package agent

import (
	"context"
	"fmt"
	"time"

	"ai-procurement-be/internal/entity"
	"ai-procurement-be/internal/pkg/logger"
	"ai-procurement-be/pkg/resilience"
	"ai-procurement-be/pkg/safety"
	"ai-procurement-be/pkg/scraper"
)

// Searcher is the multi-platform search tool consumed by the market
// stage. *scraper.Aggregator satisfies it.
type Searcher interface {
	Search(ctx context.Context, query, preference string, platforms []string) (*scraper.SearchResult, error)
}

// MarketAgent collects raw offers from the marketplace scrapers and
// normalises them into price points on the state.
type MarketAgent struct {
	searcher Searcher
	guard    *ToolGuard
	monitor  *resilience.SystemMonitor
	log      logger.ILogger

	defaultPlatforms  []string
	defaultPreference string
}

func NewMarketAgent(searcher Searcher, guard *ToolGuard, monitor *resilience.SystemMonitor, log logger.ILogger, defaultPlatforms []string, defaultPreference string) *MarketAgent {
	if len(defaultPlatforms) == 0 {
		defaultPlatforms = []string{"jumia"}
	}
	if defaultPreference == "" {
		defaultPreference = scraper.PreferCheapest
	}
	return &MarketAgent{
		searcher:          searcher,
		guard:             guard,
		monitor:           monitor,
		log:               log,
		defaultPlatforms:  defaultPlatforms,
		defaultPreference: defaultPreference,
	}
}

func (a *MarketAgent) Name() string { return "market_intelligence" }

func (a *MarketAgent) Run(ctx context.Context, state *entity.PipelineState) error {
	start := time.Now()
	defer func() {
		a.monitor.RecordRequest(a.Name(), time.Since(start))
	}()

	preference := state.CollectedString("preference", a.defaultPreference)
	platforms := state.CollectedStrings("platforms", a.defaultPlatforms)

	var result *scraper.SearchResult
	err := a.guard.Invoke(func() error {
		var searchErr error
		result, searchErr = a.searcher.Search(ctx, state.Query, preference, platforms)
		return searchErr
	})
	if err != nil {
		a.monitor.RecordError(a.Name())
		state.AddError(fmt.Sprintf("market data collection failed: %v", err))
		state.MarketData = []entity.PricePoint{}
		state.Step = "market_data_failed"
		a.log.Warn("agent.market", "search degraded to empty result", map[string]interface{}{
			"query": state.Query,
			"error": err.Error(),
		})
		return nil
	}

	points := make([]entity.PricePoint, 0, len(result.AllResults))
	dropped := 0
	for _, raw := range result.AllResults {
		point, ok := a.toPricePoint(raw)
		if !ok {
			dropped++
			continue
		}
		points = append(points, point)
	}
	if dropped > 0 {
		a.log.Warn("agent.market", "dropped malformed search results", map[string]interface{}{
			"query":   state.Query,
			"dropped": dropped,
		})
	}

	state.MarketData = points
	state.Step = "market_data_collected"
	a.log.Info("agent.market", "market data collected", map[string]interface{}{
		"query":     state.Query,
		"platforms": platforms,
		"points":    len(points),
	})
	return nil
}

// toPricePoint validates and defaults one raw scraper item. Missing
// platform/seller become "Unknown" and a missing price becomes 0; an
// out-of-bounds price marks the item malformed and it is dropped.
func (a *MarketAgent) toPricePoint(raw scraper.Product) (entity.PricePoint, bool) {
	price := raw.Price
	if price < 0 {
		price = 0
	}
	if price > 0 && !safety.ValidPrice(price) {
		return entity.PricePoint{}, false
	}

	platform := raw.Platform
	if platform == "" {
		platform = "Unknown"
	}
	seller := raw.Seller
	if seller == "" {
		seller = "Unknown"
	}

	ts := raw.ScrapedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	return entity.PricePoint{
		Platform:        platform,
		Seller:          seller,
		PriceKES:        price,
		OriginalPrice:   raw.OriginalPrice,
		DiscountPercent: raw.DiscountPercent,
		Availability:    toAvailability(raw.Availability),
		URL:             raw.URL,
		Rating:          raw.Rating,
		Timestamp:       ts,
	}, true
}

func toAvailability(s string) entity.Availability {
	switch entity.Availability(s) {
	case entity.AvailabilityInStock, entity.AvailabilityOutOfStock, entity.AvailabilityLimited:
		return entity.Availability(s)
	default:
		return entity.AvailabilityUnknown
	}
}
