package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"ai-procurement-be/internal/entity"
)

// VerificationCache remembers seller compliance reports so repeated
// sellers across runs skip the registry round trip.
type VerificationCache struct {
	cache *cache.Cache
}

func NewVerificationCache(ttl time.Duration) *VerificationCache {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	return &VerificationCache{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *VerificationCache) Save(sellerKey string, report *entity.ComplianceReport) {
	r.cache.Set(sellerKey, report, cache.DefaultExpiration)
}

func (r *VerificationCache) Get(sellerKey string) (*entity.ComplianceReport, bool) {
	if x, found := r.cache.Get(sellerKey); found {
		return x.(*entity.ComplianceReport), true
	}
	return nil, false
}

func (r *VerificationCache) Flush() {
	r.cache.Flush()
}
