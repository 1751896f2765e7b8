package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSnapshot_HealthyWithNoSamples(t *testing.T) {
	m := New(Config{Now: time.Now})
	s := m.Snapshot()

	assert.Equal(t, StatusHealthy, s.Status)
	assert.Equal(t, int64(0), s.TotalAssessments)
}

func TestSnapshot_AveragesRollingWindow(t *testing.T) {
	m := New(Config{Now: time.Now})
	m.RecordSample(10)
	m.RecordSample(20)
	m.RecordSample(30)

	s := m.Snapshot()
	assert.InDelta(t, 20.0, s.AvgProcessingMs, 1e-9)
	assert.Equal(t, int64(3), s.TotalAssessments)
}

func TestSnapshot_WindowEvictsOldestBeyondCapacity(t *testing.T) {
	m := New(Config{Now: time.Now})
	for i := 0; i < windowSize; i++ {
		m.RecordSample(0)
	}
	m.RecordSample(1000)

	s := m.Snapshot()
	assert.InDelta(t, 1000.0/windowSize, s.AvgProcessingMs, 1e-6)
}

func TestDeriveStatus_Thresholds(t *testing.T) {
	assert.Equal(t, StatusHealthy, deriveStatus(0, 0, 0))
	assert.Equal(t, StatusDegraded, deriveStatus(0.06, 0, 0))
	assert.Equal(t, StatusDegraded, deriveStatus(0, 150, 0))
	assert.Equal(t, StatusDegraded, deriveStatus(0, 0, 51))
	assert.Equal(t, StatusCritical, deriveStatus(0.3, 0, 0))
	assert.Equal(t, StatusCritical, deriveStatus(0, 600, 0))
	assert.Equal(t, StatusEmergency, deriveStatus(0.6, 0, 0))
}

func TestSnapshot_ErrorRateReflectsRecordError(t *testing.T) {
	m := New(Config{Now: time.Now})
	m.RecordSample(0)
	m.RecordSample(0)
	m.RecordError()

	s := m.Snapshot()
	assert.InDelta(t, 0.5, s.ErrorRate, 1e-9)
	assert.Equal(t, StatusCritical, s.Status)
}

func TestSnapshot_UptimeReflectsElapsedClock(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := start
	m := New(Config{Now: func() time.Time { return clock }})

	clock = start.Add(5 * time.Minute)
	s := m.Snapshot()
	assert.Equal(t, 5*time.Minute, s.Uptime)
}
