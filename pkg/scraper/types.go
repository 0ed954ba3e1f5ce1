// Package scraper is the product search tool boundary: platform
// clients, a shared response cache and the multi-platform aggregator.
// Marketplace markup is deliberately parsed permissively; the pipeline
// treats anything this package returns as untrusted input and maps it
// through a validating boundary.
package scraper

import "time"

// Product is the typed result schema every platform client normalises
// into. Optional fields are pointers; the pipeline defaults anything
// missing at its own boundary.
type Product struct {
	Platform        string    `json:"platform"`
	Name            string    `json:"name"`
	Price           float64   `json:"price"`
	Currency        string    `json:"currency"`
	URL             string    `json:"url"`
	Seller          string    `json:"seller"`
	ImageURL        string    `json:"image_url,omitempty"`
	Rating          *float64  `json:"rating,omitempty"`
	ReviewsCount    *int      `json:"reviews_count,omitempty"`
	OriginalPrice   *float64  `json:"original_price,omitempty"`
	DiscountPercent *float64  `json:"discount_percent,omitempty"`
	Availability    string    `json:"availability"`
	ScrapedAt       time.Time `json:"scraped_at"`
}

// PlatformStat summarises one platform's contribution to a search.
type PlatformStat struct {
	Count     int     `json:"count"`
	Elapsed   float64 `json:"elapsed_seconds"`
	Error     string  `json:"error,omitempty"`
	FromCache bool    `json:"from_cache"`
}

// SearchResult is the aggregator's answer to one query.
type SearchResult struct {
	Query         string                  `json:"query"`
	AllResults    []Product               `json:"all_results"`
	TotalResults  int                     `json:"total_results"`
	BestOption    *Product                `json:"best_option,omitempty"`
	PlatformStats map[string]PlatformStat `json:"platform_stats"`
	ExecutionTime float64                 `json:"execution_time"`
}

// Preferences accepted by the aggregator's ranking step.
const (
	PreferCheapest  = "cheapest"
	PreferBestRated = "best_rated"
	PreferDiscount  = "biggest_discount"
)
