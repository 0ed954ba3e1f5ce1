package entity

import (
	"fmt"
	"strings"
	"time"
)

// ProductCategory classifies a query for downstream tools (tax bands,
// scraper category filters).
type ProductCategory string

const (
	CategoryElectronics ProductCategory = "electronics"
	CategoryFashion     ProductCategory = "fashion"
	CategoryHome        ProductCategory = "home"
	CategoryBeauty      ProductCategory = "beauty"
	CategoryGroceries   ProductCategory = "groceries"
	CategorySeeds       ProductCategory = "seeds"
	CategoryGeneral     ProductCategory = "general"
)

// ParseProductCategory maps free-form input to a known category,
// falling back to "general".
func ParseProductCategory(s string) ProductCategory {
	switch ProductCategory(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryElectronics, CategoryFashion, CategoryHome,
		CategoryBeauty, CategoryGroceries, CategorySeeds:
		return ProductCategory(strings.ToLower(strings.TrimSpace(s)))
	default:
		return CategoryGeneral
	}
}

type Availability string

const (
	AvailabilityInStock    Availability = "in_stock"
	AvailabilityOutOfStock Availability = "out_of_stock"
	AvailabilityLimited    Availability = "limited"
	AvailabilityUnknown    Availability = "unknown"
)

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendStable  Trend = "stable"
	TrendUnknown Trend = "unknown"
)

// PricePoint is one observed offer for the queried product.
type PricePoint struct {
	Platform        string       `json:"platform"`
	Seller          string       `json:"seller"`
	PriceKES        float64      `json:"price_kes"`
	PriceUSD        *float64     `json:"price_usd,omitempty"`
	OriginalPrice   *float64     `json:"original_price,omitempty"`
	DiscountPercent *float64     `json:"discount_percentage,omitempty"`
	Availability    Availability `json:"availability"`
	DeliveryDays    *int         `json:"delivery_days,omitempty"`
	ShippingCost    float64      `json:"shipping_cost"`
	URL             string       `json:"url,omitempty"`
	Rating          *float64     `json:"rating,omitempty"`
	Timestamp       time.Time    `json:"timestamp"`
}

// SellerKey is the deduplication identity for repeated observations of
// the same seller on the same platform.
func (p PricePoint) SellerKey() string {
	return fmt.Sprintf("%s:%s", p.Platform, p.Seller)
}

type SellerInfo struct {
	Name               string    `json:"name"`
	Platform           string    `json:"platform"`
	RegistrationNumber *string   `json:"registration_number,omitempty"`
	IsVerified         bool      `json:"is_verified"`
	Rating             *float64  `json:"rating,omitempty"`
	ReviewCount        int       `json:"review_count"`
	Location           *string   `json:"location,omitempty"`
	YearsActive        *int      `json:"years_active,omitempty"`
	RiskFlags          []string  `json:"risk_flags,omitempty"`
	RiskLevel          RiskLevel `json:"risk_level"`
}

type ComplianceReport struct {
	Seller            SellerInfo `json:"seller"`
	IsRegistered      bool       `json:"is_registered"`
	HasFakeReviews    bool       `json:"has_fake_reviews"`
	CounterfeitRisk   RiskLevel  `json:"counterfeit_risk"`
	ReturnPolicyScore int        `json:"return_policy_score"`
	WarrantyValid     bool       `json:"warranty_valid"`
	Recommended       bool       `json:"recommended"`
	Warnings          []string   `json:"warnings"`
}

type PriceForecast struct {
	CurrentPrice     float64    `json:"current_price"`
	PredictedPrice7d float64    `json:"predicted_price_7d"`
	Predicted30d     float64    `json:"predicted_price_30d"`
	ConfidenceLow    float64    `json:"confidence_low"`
	ConfidenceHigh   float64    `json:"confidence_high"`
	Trend            Trend      `json:"trend"`
	Recommendation   string     `json:"recommendation"`
	BestBuyDate      *time.Time `json:"best_buy_date,omitempty"`
	SavingsPotential float64    `json:"savings_potential"`
	Confidence       float64    `json:"confidence"`
}

// EmptyForecast is the degraded default written when the price stage
// cannot produce an analysis.
func EmptyForecast() PriceForecast {
	return PriceForecast{Trend: TrendUnknown, Recommendation: "No price data available"}
}

type TaxCalculation struct {
	CIFValue        float64            `json:"cif_value"`
	ImportDuty      float64            `json:"import_duty"`
	ExciseDuty      float64            `json:"excise_duty"`
	VAT             float64            `json:"vat"`
	TotalTax        float64            `json:"total_tax"`
	TotalLandedCost float64            `json:"total_landed_cost"`
	Breakdown       map[string]float64 `json:"breakdown,omitempty"`
}

type ProcurementRecommendation struct {
	ProductName          string                      `json:"product_name"`
	Category             ProductCategory             `json:"category"`
	BestOption           *PricePoint                 `json:"best_option,omitempty"`
	Alternatives         []PricePoint                `json:"alternatives"`
	PriceForecast        PriceForecast               `json:"price_forecast"`
	ComplianceSummary    map[string]ComplianceReport `json:"compliance_summary"`
	TaxImplications      *TaxCalculation             `json:"tax_implications,omitempty"`
	FinalRecommendation  string                      `json:"final_recommendation"`
	ConfidenceScore      float64                     `json:"confidence_score"`
	GeneratedAt          time.Time                   `json:"generated_at"`
	HumanApprovalNeeded  bool                        `json:"human_approval_required"`
	ApprovalReason       string                      `json:"approval_reason,omitempty"`
}
