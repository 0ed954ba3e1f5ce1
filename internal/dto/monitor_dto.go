package dto

import "ai-procurement-be/pkg/resilience"

type BreakerStatus struct {
	Name     string `json:"name"`
	State    string `json:"state"`
	Failures int    `json:"consecutive_failures"`
}

type LimiterStatus struct {
	Name     string `json:"name"`
	InFlight int    `json:"calls_in_window"`
	MaxCalls int    `json:"max_calls"`
}

type SystemStatsResponse struct {
	Stats    resilience.Stats `json:"stats"`
	Breakers []BreakerStatus  `json:"breakers"`
	Limiters []LimiterStatus  `json:"rate_limiters"`
}

type HealthResponse struct {
	Status           string  `json:"status"`
	ErrorRatePercent float64 `json:"error_rate_percent"`
	TotalRequests    int64   `json:"total_requests"`
	UptimeSeconds    float64 `json:"uptime_seconds"`
}
