package agent

import (
	"context"
	"fmt"
	"sort"
	"time"

	"ai-procurement-be/internal/entity"
	"ai-procurement-be/internal/pkg/logger"
	"ai-procurement-be/internal/repository/memory"
	"ai-procurement-be/pkg/resilience"
	"ai-procurement-be/pkg/verify"
)

const warningTruncateLen = 120

// ComplianceAgent verifies every distinct seller observed in the market
// data. A failed verification degrades that one seller's report, it
// never drops other sellers from the map.
type ComplianceAgent struct {
	verifier verify.Verifier
	guard    *ToolGuard
	cache    *memory.VerificationCache
	monitor  *resilience.SystemMonitor
	log      logger.ILogger
}

func NewComplianceAgent(verifier verify.Verifier, guard *ToolGuard, cache *memory.VerificationCache, monitor *resilience.SystemMonitor, log logger.ILogger) *ComplianceAgent {
	if cache == nil {
		cache = memory.NewVerificationCache(0)
	}
	return &ComplianceAgent{
		verifier: verifier,
		guard:    guard,
		cache:    cache,
		monitor:  monitor,
		log:      log,
	}
}

func (a *ComplianceAgent) Name() string { return "compliance_audit" }

func (a *ComplianceAgent) Run(ctx context.Context, state *entity.PipelineState) error {
	start := time.Now()
	defer func() {
		a.monitor.RecordRequest(a.Name(), time.Since(start))
	}()

	if len(state.MarketData) == 0 {
		a.monitor.RecordError(a.Name())
		state.AddError("compliance audit skipped: no market data to check")
		state.ComplianceChecks = map[string]entity.ComplianceReport{}
		state.Step = "compliance_check_skipped"
		return nil
	}

	sellers := dedupeSellers(state.MarketData)
	keys := make([]string, 0, len(sellers))
	for key := range sellers {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	checks := make(map[string]entity.ComplianceReport, len(sellers))
	degraded := 0
	for _, key := range keys {
		point := sellers[key]
		if cached, ok := a.cache.Get(key); ok {
			checks[key] = *cached
			continue
		}

		report, err := a.verifyOne(ctx, point)
		if err != nil {
			degraded++
			a.monitor.RecordError(a.Name())
			state.AddError(fmt.Sprintf("verification failed for %s: %s", key, truncate(err.Error(), warningTruncateLen)))
			checks[key] = degradedReport(point, err)
			continue
		}
		a.cache.Save(key, report)
		checks[key] = *report
	}

	state.ComplianceChecks = checks
	state.Step = "compliance_check_complete"
	a.log.Info("agent.compliance", "compliance audit complete", map[string]interface{}{
		"query":    state.Query,
		"sellers":  len(checks),
		"degraded": degraded,
	})
	return nil
}

func (a *ComplianceAgent) verifyOne(ctx context.Context, point entity.PricePoint) (*entity.ComplianceReport, error) {
	var result *verify.Result
	err := a.guard.Invoke(func() error {
		var verifyErr error
		result, verifyErr = a.verifier.VerifySeller(ctx, point.Seller, point.Platform)
		return verifyErr
	})
	if err != nil {
		return nil, err
	}
	report := toReport(point, result)
	return &report, nil
}

// dedupeSellers collapses the market data to one price point per seller
// key. On duplicates the lowest-priced observation wins, so downstream
// consumers see the offer a buyer would actually take.
func dedupeSellers(points []entity.PricePoint) map[string]entity.PricePoint {
	out := make(map[string]entity.PricePoint, len(points))
	for _, point := range points {
		key := point.SellerKey()
		existing, ok := out[key]
		if !ok || point.PriceKES < existing.PriceKES {
			out[key] = point
		}
	}
	return out
}

func toReport(point entity.PricePoint, result *verify.Result) entity.ComplianceReport {
	warnings := make([]string, 0, len(result.Flags))
	for _, flag := range result.Flags {
		warnings = append(warnings, truncate(flag, warningTruncateLen))
	}
	if result.IsBlacklisted {
		warnings = append(warnings, "seller appears on the procurement blacklist")
	}

	risk := toRiskLevel(result.RiskLevel)
	if result.IsBlacklisted {
		risk = entity.RiskCritical
	}

	return entity.ComplianceReport{
		Seller: entity.SellerInfo{
			Name:       point.Seller,
			Platform:   point.Platform,
			IsVerified: result.IsVerified,
			Rating:     point.Rating,
			RiskFlags:  result.Flags,
			RiskLevel:  risk,
		},
		IsRegistered:    result.IsVerified,
		CounterfeitRisk: risk,
		WarrantyValid:   result.IsVerified,
		Recommended:     result.Recommendation == "approve",
		Warnings:        warnings,
	}
}

// degradedReport is the entry a seller receives when verification could
// not complete after retries and the breaker.
func degradedReport(point entity.PricePoint, err error) entity.ComplianceReport {
	return entity.ComplianceReport{
		Seller: entity.SellerInfo{
			Name:       point.Seller,
			Platform:   point.Platform,
			IsVerified: false,
			RiskLevel:  entity.RiskMedium,
		},
		CounterfeitRisk: entity.RiskMedium,
		Recommended:     false,
		Warnings:        []string{"verification unavailable: " + truncate(err.Error(), warningTruncateLen)},
	}
}

func toRiskLevel(s string) entity.RiskLevel {
	switch entity.RiskLevel(s) {
	case entity.RiskLow, entity.RiskMedium, entity.RiskHigh, entity.RiskCritical:
		return entity.RiskLevel(s)
	default:
		return entity.RiskMedium
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
