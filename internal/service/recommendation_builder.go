package service

import (
	"fmt"
	"math"
	"sort"
	"time"

	"ai-procurement-be/internal/entity"
	"ai-procurement-be/pkg/currency"
	"ai-procurement-be/pkg/tax"
)

// approvalConfidenceFloor is the auto-approval bar; anything below it
// goes to a human reviewer.
const approvalConfidenceFloor = 0.6

// RecommendationBuilder merges a run's market, price and compliance
// outputs into the final recommendation.
type RecommendationBuilder struct {
	taxCalc   *tax.Calculator
	converter *currency.Converter
}

func NewRecommendationBuilder(taxCalc *tax.Calculator, converter *currency.Converter) *RecommendationBuilder {
	if taxCalc == nil {
		taxCalc = tax.NewCalculator(tax.DefaultConfig())
	}
	if converter == nil {
		converter = currency.NewConverter(nil)
	}
	return &RecommendationBuilder{taxCalc: taxCalc, converter: converter}
}

func (b *RecommendationBuilder) Build(result *entity.WorkflowResult) entity.ProcurementRecommendation {
	rec := entity.ProcurementRecommendation{
		ProductName:       result.Query,
		Category:          result.Category,
		Alternatives:      []entity.PricePoint{},
		PriceForecast:     result.PriceAnalysis,
		ComplianceSummary: result.ComplianceChecks,
		GeneratedAt:       time.Now(),
	}

	best, alternatives := b.pickOffers(result)
	rec.BestOption = best
	rec.Alternatives = alternatives

	rec.ConfidenceScore = b.confidence(result, best)
	rec.FinalRecommendation = b.summary(result, best)

	if best != nil {
		usd := b.converter.FromKES(best.PriceKES, "USD")
		rec.BestOption.PriceUSD = &usd
		if result.Category == entity.CategoryElectronics {
			rec.TaxImplications = b.taxes(best.PriceKES)
		}
	}

	if rec.ConfidenceScore < approvalConfidenceFloor {
		rec.HumanApprovalNeeded = true
		rec.ApprovalReason = fmt.Sprintf("confidence %.2f below the %.2f auto-approval bar", rec.ConfidenceScore, approvalConfidenceFloor)
	}
	if best != nil {
		if report, ok := result.ComplianceChecks[best.SellerKey()]; ok {
			if report.Seller.RiskLevel == entity.RiskHigh || report.Seller.RiskLevel == entity.RiskCritical {
				rec.HumanApprovalNeeded = true
				rec.ApprovalReason = fmt.Sprintf("best seller %s carries %s risk", best.Seller, report.Seller.RiskLevel)
			}
		}
	}

	return rec
}

// pickOffers prefers the cheapest offer from a recommended seller, then
// the cheapest overall; up to three runners-up become alternatives.
func (b *RecommendationBuilder) pickOffers(result *entity.WorkflowResult) (*entity.PricePoint, []entity.PricePoint) {
	viable := make([]entity.PricePoint, 0, len(result.MarketData))
	for _, point := range result.MarketData {
		if point.PriceKES > 0 {
			viable = append(viable, point)
		}
	}
	if len(viable) == 0 {
		return nil, []entity.PricePoint{}
	}

	sort.SliceStable(viable, func(i, j int) bool {
		return viable[i].PriceKES < viable[j].PriceKES
	})

	bestIdx := 0
	for i, point := range viable {
		if report, ok := result.ComplianceChecks[point.SellerKey()]; ok && report.Recommended {
			bestIdx = i
			break
		}
	}

	best := viable[bestIdx]
	alternatives := make([]entity.PricePoint, 0, 3)
	for i, point := range viable {
		if i == bestIdx {
			continue
		}
		alternatives = append(alternatives, point)
		if len(alternatives) == 3 {
			break
		}
	}
	return &best, alternatives
}

// confidence starts from the forecast's own confidence and discounts it
// for an unvetted best seller and for every degradation the run logged.
func (b *RecommendationBuilder) confidence(result *entity.WorkflowResult, best *entity.PricePoint) float64 {
	if best == nil {
		return 0
	}
	score := result.PriceAnalysis.Confidence
	if score == 0 {
		score = 0.5
	}

	report, ok := result.ComplianceChecks[best.SellerKey()]
	if !ok || !report.Recommended {
		score -= 0.2
	}
	score -= 0.1 * float64(len(result.Errors))

	return math.Round(math.Max(0.1, math.Min(score, 1.0))*100) / 100
}

func (b *RecommendationBuilder) summary(result *entity.WorkflowResult, best *entity.PricePoint) string {
	if best == nil {
		return fmt.Sprintf("No viable offers found for %q; re-run once the marketplaces are reachable.", result.Query)
	}
	msg := fmt.Sprintf("Buy from %s on %s at KES %.2f.", best.Seller, best.Platform, best.PriceKES)
	if result.PriceAnalysis.Trend == entity.TrendDown {
		msg = fmt.Sprintf("Prices for %q are trending down; consider waiting. Current best: %s on %s at KES %.2f.",
			result.Query, best.Seller, best.Platform, best.PriceKES)
	}
	if len(result.Errors) > 0 {
		msg += fmt.Sprintf(" Note: run completed with %d degraded step(s).", len(result.Errors))
	}
	return msg
}

func (b *RecommendationBuilder) taxes(cif float64) *entity.TaxCalculation {
	breakdown := b.taxCalc.CalculateImport(cif, true)
	return &entity.TaxCalculation{
		CIFValue:        breakdown.CIFValue,
		ImportDuty:      breakdown.ImportDuty,
		VAT:             breakdown.VAT,
		TotalTax:        breakdown.TotalTax,
		TotalLandedCost: breakdown.TotalLandedCost,
		Breakdown: map[string]float64{
			"import_duty":  breakdown.ImportDuty,
			"railway_levy": breakdown.RailwayLevy,
			"idf_fee":      breakdown.IDFFee,
			"vat":          breakdown.VAT,
		},
	}
}
