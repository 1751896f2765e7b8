// Package health implements the Health Monitor: a rolling window of
// processing times, an error counter, and a derived status enum, guarded
// by a single mutex like this SDK's other process-lifetime state owners.
package health

import (
	"sync"
	"time"
)

// Status is the derived system health status.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusCritical  Status = "critical"
	StatusEmergency Status = "emergency"
)

const windowSize = 100

// Config configures the Monitor.
type Config struct {
	Now func() time.Time
}

// Monitor tracks uptime, assessment counts, error counts, and a rolling
// window of recent processing times.
type Monitor struct {
	mu sync.RWMutex

	startedAt time.Time
	now       func() time.Time

	window   [windowSize]float64
	count    int
	next     int
	total    int64
	errors   int64
	queueLen int
}

// New constructs a Monitor, starting its uptime clock now.
func New(cfg Config) *Monitor {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Monitor{startedAt: cfg.Now(), now: cfg.Now}
}

// RecordSample records one completed assessment's processing time.
func (m *Monitor) RecordSample(processingMs float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.window[m.next] = processingMs
	m.next = (m.next + 1) % windowSize
	if m.count < windowSize {
		m.count++
	}
	m.total++
}

// RecordError increments the error counter; called whenever a persistence
// or processing failure is swallowed elsewhere in the pipeline.
func (m *Monitor) RecordError() {
	m.mu.Lock()
	m.errors++
	m.mu.Unlock()
}

// SetQueueLength records the current depth of any internal async
// persistence queue, used by the degraded-status threshold.
func (m *Monitor) SetQueueLength(n int) {
	m.mu.Lock()
	m.queueLen = n
	m.mu.Unlock()
}

// SystemHealth is the public snapshot returned by get_health().
type SystemHealth struct {
	Status            Status        `json:"status"`
	Uptime            time.Duration `json:"uptime"`
	TotalAssessments  int64         `json:"total_assessments"`
	ErrorCount        int64         `json:"error_count"`
	ErrorRate         float64       `json:"error_rate"`
	AvgProcessingMs   float64       `json:"avg_processing_time_ms"`
	QueueLength       int           `json:"queue_length"`
}

// Snapshot computes the current SystemHealth, including the derived
// status per spec 4.12's fixed thresholds.
func (m *Monitor) Snapshot() SystemHealth {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sum float64
	for i := 0; i < m.count; i++ {
		sum += m.window[i]
	}
	avg := 0.0
	if m.count > 0 {
		avg = sum / float64(m.count)
	}

	errorRate := 0.0
	if m.total > 0 {
		errorRate = float64(m.errors) / float64(m.total)
	}

	return SystemHealth{
		Status:           deriveStatus(errorRate, avg, m.queueLen),
		Uptime:           m.now().Sub(m.startedAt),
		TotalAssessments: m.total,
		ErrorCount:       m.errors,
		ErrorRate:        errorRate,
		AvgProcessingMs:  avg,
		QueueLength:      m.queueLen,
	}
}

func deriveStatus(errorRate, avgMs float64, queueLen int) Status {
	switch {
	case errorRate > 0.5:
		return StatusEmergency
	case errorRate > 0.2 || avgMs > 500:
		return StatusCritical
	case errorRate > 0.05 || avgMs > 100 || queueLen > 50:
		return StatusDegraded
	default:
		return StatusHealthy
	}
}
