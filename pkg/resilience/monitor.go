package resilience

import (
	"sync"
	"time"
)

// SystemMonitor aggregates process-wide request/error/retry counters
// and latency samples. It is observability plumbing only: no workflow
// decision depends on its state, and reads are eventually consistent.
type SystemMonitor struct {
	mu sync.Mutex

	startTime     time.Time
	totalRequests int64
	totalErrors   int64
	totalRetries  int64
	requestsByOp  map[string]int64
	errorsByOp    map[string]int64
	latencies     []time.Duration

	now func() time.Time
}

func NewSystemMonitor() *SystemMonitor {
	return &SystemMonitor{
		startTime:    time.Now(),
		requestsByOp: make(map[string]int64),
		errorsByOp:   make(map[string]int64),
		now:          time.Now,
	}
}

// RecordRequest counts one completed request for op with its latency.
func (m *SystemMonitor) RecordRequest(op string, latency time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalRequests++
	m.requestsByOp[op]++
	if latency > 0 {
		m.latencies = append(m.latencies, latency)
	}
}

// RecordError counts one failure for op.
func (m *SystemMonitor) RecordError(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalErrors++
	m.errorsByOp[op]++
}

// RecordRetry counts one retry attempt for op.
func (m *SystemMonitor) RecordRetry(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalRetries++
}

// Stats is a point-in-time snapshot of the monitor's counters.
type Stats struct {
	UptimeSeconds    float64          `json:"uptime_seconds"`
	TotalRequests    int64            `json:"total_requests"`
	TotalErrors      int64            `json:"total_errors"`
	TotalRetries     int64            `json:"total_retries"`
	ErrorRatePercent float64          `json:"error_rate_percent"`
	AvgLatencyMs     float64          `json:"avg_response_time_ms"`
	RequestsByOp     map[string]int64 `json:"requests_by_type"`
	ErrorsByOp       map[string]int64 `json:"errors_by_type"`
	Timestamp        time.Time        `json:"timestamp"`
}

func (m *SystemMonitor) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	var avg float64
	if len(m.latencies) > 0 {
		var sum time.Duration
		for _, l := range m.latencies {
			sum += l
		}
		avg = float64(sum.Milliseconds()) / float64(len(m.latencies))
	}

	var errorRate float64
	if m.totalRequests > 0 {
		errorRate = float64(m.totalErrors) / float64(m.totalRequests) * 100
	}

	reqs := make(map[string]int64, len(m.requestsByOp))
	for k, v := range m.requestsByOp {
		reqs[k] = v
	}
	errs := make(map[string]int64, len(m.errorsByOp))
	for k, v := range m.errorsByOp {
		errs[k] = v
	}

	return Stats{
		UptimeSeconds:    m.now().Sub(m.startTime).Seconds(),
		TotalRequests:    m.totalRequests,
		TotalErrors:      m.totalErrors,
		TotalRetries:     m.totalRetries,
		ErrorRatePercent: errorRate,
		AvgLatencyMs:     avg,
		RequestsByOp:     reqs,
		ErrorsByOp:       errs,
		Timestamp:        m.now(),
	}
}

// Health summarises the monitor into a coarse status for the health
// endpoint.
type Health struct {
	Healthy          bool      `json:"healthy"`
	Status           string    `json:"status"`
	ErrorRatePercent float64   `json:"error_rate_percent"`
	TotalErrors      int64     `json:"total_errors"`
	TotalRequests    int64     `json:"total_requests"`
	Timestamp        time.Time `json:"timestamp"`
}

func (m *SystemMonitor) HealthCheck() Health {
	stats := m.Stats()

	status := "HEALTHY"
	healthy := stats.ErrorRatePercent < 5.0 && stats.TotalRequests > 0
	if !healthy {
		if stats.ErrorRatePercent < 10 {
			status = "DEGRADED"
		} else {
			status = "UNHEALTHY"
		}
	}

	return Health{
		Healthy:          healthy,
		Status:           status,
		ErrorRatePercent: stats.ErrorRatePercent,
		TotalErrors:      stats.TotalErrors,
		TotalRequests:    stats.TotalRequests,
		Timestamp:        stats.Timestamp,
	}
}
