// Package currency converts between KES and the major invoice
// currencies. Live CBK rates are an external collaborator; this client
// serves the cached/fallback table and refreshes lazily.
package currency

import (
	"strings"
	"sync"
	"time"
)

// fallbackRates are units of KES per one unit of foreign currency.
var fallbackRates = map[string]float64{
	"USD": 130.50,
	"EUR": 142.00,
	"GBP": 165.00,
}

const cacheTTL = time.Hour

// RateSource fetches a live KES rate for a currency code. Returning an
// error falls back to the static table.
type RateSource interface {
	FetchKESRate(code string) (float64, error)
}

// Converter caches rates for an hour and falls back to the static
// table when no source is configured or the source fails.
type Converter struct {
	source RateSource

	mu        sync.Mutex
	cache     map[string]float64
	lastFetch time.Time

	now func() time.Time
}

func NewConverter(source RateSource) *Converter {
	return &Converter{
		source: source,
		cache:  make(map[string]float64),
		now:    time.Now,
	}
}

// Rate returns KES per one unit of code.
func (c *Converter) Rate(code string) float64 {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "KES" {
		return 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if rate, ok := c.cache[code]; ok && c.now().Sub(c.lastFetch) < cacheTTL {
		return rate
	}

	if c.source != nil {
		if rate, err := c.source.FetchKESRate(code); err == nil && rate > 0 {
			c.cache[code] = rate
			c.lastFetch = c.now()
			return rate
		}
	}

	if rate, ok := fallbackRates[code]; ok {
		return rate
	}
	return fallbackRates["USD"]
}

// ToKES converts an amount in the given currency to KES.
func (c *Converter) ToKES(amount float64, code string) float64 {
	return amount * c.Rate(code)
}

// FromKES converts a KES amount into the given currency.
func (c *Converter) FromKES(amount float64, code string) float64 {
	rate := c.Rate(code)
	if rate == 0 {
		return 0
	}
	return amount / rate
}
