package service

import (
	"ai-procurement-be/internal/dto"
	"ai-procurement-be/pkg/resilience"
)

type IMonitorService interface {
	Stats() *dto.SystemStatsResponse
	Breakers() []dto.BreakerStatus
	Health() *dto.HealthResponse
}

// NamedLimiter pairs a shared rate limiter with its dependency class
// for the stats endpoint.
type NamedLimiter struct {
	Name     string
	MaxCalls int
	Limiter  *resilience.RateLimiter
}

type monitorService struct {
	monitor  *resilience.SystemMonitor
	breakers []*resilience.CircuitBreaker
	limiters []NamedLimiter
}

func NewMonitorService(monitor *resilience.SystemMonitor, breakers []*resilience.CircuitBreaker, limiters []NamedLimiter) IMonitorService {
	return &monitorService{
		monitor:  monitor,
		breakers: breakers,
		limiters: limiters,
	}
}

func (s *monitorService) Breakers() []dto.BreakerStatus {
	breakers := make([]dto.BreakerStatus, 0, len(s.breakers))
	for _, b := range s.breakers {
		failures, _ := b.Counts()
		breakers = append(breakers, dto.BreakerStatus{
			Name:     b.Name(),
			State:    string(b.State()),
			Failures: failures,
		})
	}
	return breakers
}

func (s *monitorService) Stats() *dto.SystemStatsResponse {
	breakers := s.Breakers()

	limiters := make([]dto.LimiterStatus, 0, len(s.limiters))
	for _, l := range s.limiters {
		limiters = append(limiters, dto.LimiterStatus{
			Name:     l.Name,
			InFlight: l.Limiter.InFlight(),
			MaxCalls: l.MaxCalls,
		})
	}

	return &dto.SystemStatsResponse{
		Stats:    s.monitor.Stats(),
		Breakers: breakers,
		Limiters: limiters,
	}
}

func (s *monitorService) Health() *dto.HealthResponse {
	health := s.monitor.HealthCheck()
	stats := s.monitor.Stats()
	return &dto.HealthResponse{
		Status:           health.Status,
		ErrorRatePercent: health.ErrorRatePercent,
		TotalRequests:    health.TotalRequests,
		UptimeSeconds:    stats.UptimeSeconds,
	}
}
