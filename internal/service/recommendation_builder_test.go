package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-procurement-be/internal/entity"
)

func offer(platform, seller string, price float64) entity.PricePoint {
	return entity.PricePoint{Platform: platform, Seller: seller, PriceKES: price, Availability: entity.AvailabilityInStock}
}

func baseResult() *entity.WorkflowResult {
	return &entity.WorkflowResult{
		Query:    "laptop",
		Category: entity.CategoryGeneral,
		MarketData: []entity.PricePoint{
			offer("jumia", "TechHub", 52000),
			offer("kilimall", "GadgetWorld", 48000),
			offer("jumia", "CheapDeals", 45000),
		},
		PriceAnalysis: entity.PriceForecast{
			CurrentPrice: 48333,
			Trend:        entity.TrendStable,
			Confidence:   0.9,
		},
		ComplianceChecks: map[string]entity.ComplianceReport{},
		Errors:           []string{},
	}
}

func TestBuildPrefersRecommendedSellerOverCheapest(t *testing.T) {
	result := baseResult()
	result.ComplianceChecks["kilimall:GadgetWorld"] = entity.ComplianceReport{
		Seller:      entity.SellerInfo{Name: "GadgetWorld", RiskLevel: entity.RiskLow},
		Recommended: true,
	}

	rec := NewRecommendationBuilder(nil, nil).Build(result)

	require.NotNil(t, rec.BestOption)
	assert.Equal(t, "GadgetWorld", rec.BestOption.Seller)
	assert.Len(t, rec.Alternatives, 2)
	// Cheapest unvetted offer stays first among the runners-up.
	assert.Equal(t, "CheapDeals", rec.Alternatives[0].Seller)
}

func TestBuildFallsBackToCheapestWhenNoSellerIsVetted(t *testing.T) {
	rec := NewRecommendationBuilder(nil, nil).Build(baseResult())

	require.NotNil(t, rec.BestOption)
	assert.Equal(t, "CheapDeals", rec.BestOption.Seller)
	require.NotNil(t, rec.BestOption.PriceUSD)
	assert.Greater(t, *rec.BestOption.PriceUSD, 0.0)
}

func TestBuildConfidenceDiscounts(t *testing.T) {
	// Unvetted best seller costs 0.2, each degraded step costs 0.1.
	result := baseResult()
	result.Errors = []string{"market data collection failed"}

	rec := NewRecommendationBuilder(nil, nil).Build(result)

	assert.InDelta(t, 0.6, rec.ConfidenceScore, 0.001)
	assert.False(t, rec.HumanApprovalNeeded)
}

func TestBuildFlagsLowConfidenceForApproval(t *testing.T) {
	result := baseResult()
	result.Errors = []string{"one", "two"}

	rec := NewRecommendationBuilder(nil, nil).Build(result)

	assert.Less(t, rec.ConfidenceScore, 0.6)
	assert.True(t, rec.HumanApprovalNeeded)
	assert.Contains(t, rec.ApprovalReason, "auto-approval bar")
}

func TestBuildFlagsHighRiskBestSeller(t *testing.T) {
	result := baseResult()
	result.ComplianceChecks["jumia:CheapDeals"] = entity.ComplianceReport{
		Seller:      entity.SellerInfo{Name: "CheapDeals", RiskLevel: entity.RiskCritical},
		Recommended: false,
	}

	rec := NewRecommendationBuilder(nil, nil).Build(result)

	assert.True(t, rec.HumanApprovalNeeded)
	assert.Contains(t, rec.ApprovalReason, "CheapDeals")
}

func TestBuildNoViableOffers(t *testing.T) {
	result := baseResult()
	result.MarketData = []entity.PricePoint{offer("jumia", "Ghost", 0)}

	rec := NewRecommendationBuilder(nil, nil).Build(result)

	assert.Nil(t, rec.BestOption)
	assert.Zero(t, rec.ConfidenceScore)
	assert.Contains(t, rec.FinalRecommendation, "No viable offers")
	assert.True(t, rec.HumanApprovalNeeded)
}

func TestBuildTaxOnlyForElectronics(t *testing.T) {
	general := NewRecommendationBuilder(nil, nil).Build(baseResult())
	assert.Nil(t, general.TaxImplications)

	result := baseResult()
	result.Category = entity.CategoryElectronics
	electronics := NewRecommendationBuilder(nil, nil).Build(result)

	require.NotNil(t, electronics.TaxImplications)
	assert.Equal(t, 45000.0, electronics.TaxImplications.CIFValue)
	assert.Greater(t, electronics.TaxImplications.TotalLandedCost, 45000.0)
}

func TestBuildTrendDownSuggestsWaiting(t *testing.T) {
	result := baseResult()
	result.PriceAnalysis.Trend = entity.TrendDown

	rec := NewRecommendationBuilder(nil, nil).Build(result)

	assert.Contains(t, rec.FinalRecommendation, "trending down")
}
