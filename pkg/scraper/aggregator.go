package scraper

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Aggregator fans one query out to every requested platform client,
// merges the results and ranks them by the caller's preference.
type Aggregator struct {
	clients map[string]Client
	cache   ResponseCache
}

func NewAggregator(cache ResponseCache, clients ...Client) *Aggregator {
	byName := make(map[string]Client, len(clients))
	for _, c := range clients {
		byName[c.Platform()] = c
	}
	return &Aggregator{clients: byName, cache: cache}
}

// Platforms lists the registered platform names.
func (a *Aggregator) Platforms() []string {
	names := make([]string, 0, len(a.clients))
	for name := range a.clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Search runs the query against the named platforms concurrently.
// Platform failures are recorded in PlatformStats, never returned as
// an error: a search only fails when no platform is known at all.
func (a *Aggregator) Search(ctx context.Context, query, preference string, platforms []string) (*SearchResult, error) {
	started := time.Now()

	if len(platforms) == 0 {
		platforms = a.Platforms()
	}

	known := make([]Client, 0, len(platforms))
	stats := make(map[string]PlatformStat, len(platforms))
	for _, name := range platforms {
		if c, ok := a.clients[name]; ok {
			known = append(known, c)
		} else {
			stats[name] = PlatformStat{Error: "unknown platform"}
		}
	}
	if len(known) == 0 {
		return nil, fmt.Errorf("no known platforms in %v", platforms)
	}

	var (
		mu      sync.Mutex
		results []Product
		wg      sync.WaitGroup
	)

	for _, client := range known {
		wg.Add(1)
		go func(client Client) {
			defer wg.Done()
			stat, products := a.searchOne(ctx, client, query)

			mu.Lock()
			stats[client.Platform()] = stat
			results = append(results, products...)
			mu.Unlock()
		}(client)
	}
	wg.Wait()

	rankResults(results, preference)

	res := &SearchResult{
		Query:         query,
		AllResults:    results,
		TotalResults:  len(results),
		PlatformStats: stats,
		ExecutionTime: time.Since(started).Seconds(),
	}
	if len(results) > 0 {
		best := results[0]
		res.BestOption = &best
	}
	return res, nil
}

func (a *Aggregator) searchOne(ctx context.Context, client Client, query string) (PlatformStat, []Product) {
	platform := client.Platform()
	started := time.Now()

	if a.cache != nil {
		if cached, ok := a.cache.Get(ctx, platform, query); ok {
			return PlatformStat{
				Count:     len(cached),
				Elapsed:   time.Since(started).Seconds(),
				FromCache: true,
			}, cached
		}
	}

	products, err := client.Search(ctx, query)
	stat := PlatformStat{
		Count:   len(products),
		Elapsed: time.Since(started).Seconds(),
	}
	if err != nil {
		stat.Error = err.Error()
		return stat, nil
	}

	if a.cache != nil && len(products) > 0 {
		a.cache.Set(ctx, platform, query, products)
	}
	return stat, products
}

// rankResults orders products so the first entry is the best option
// under the given preference. Cheapest is the default.
func rankResults(products []Product, preference string) {
	switch preference {
	case PreferBestRated:
		sort.SliceStable(products, func(i, j int) bool {
			return ratingOf(products[i]) > ratingOf(products[j])
		})
	case PreferDiscount:
		sort.SliceStable(products, func(i, j int) bool {
			return discountOf(products[i]) > discountOf(products[j])
		})
	default: // PreferCheapest
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	}
}

func ratingOf(p Product) float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

func discountOf(p Product) float64 {
	if p.DiscountPercent != nil {
		return *p.DiscountPercent
	}
	if p.OriginalPrice != nil && *p.OriginalPrice > p.Price && *p.OriginalPrice > 0 {
		return (*p.OriginalPrice - p.Price) / *p.OriginalPrice * 100
	}
	return 0
}
