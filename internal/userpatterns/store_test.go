package userpatterns

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDampeningForCount_Thresholds(t *testing.T) {
	assert.Equal(t, 1.0, dampeningForCount(0))
	assert.Equal(t, 1.0, dampeningForCount(5))
	assert.Equal(t, 0.85, dampeningForCount(6))
	assert.Equal(t, 0.85, dampeningForCount(10))
	assert.Equal(t, 0.7, dampeningForCount(11))
	assert.Equal(t, 0.7, dampeningForCount(20))
	assert.Equal(t, 0.5, dampeningForCount(21))
}

func TestRecordFalsePositive_IncrementsCountAndBumpsDeliveryFrequency(t *testing.T) {
	s := New(Config{})
	at := time.Date(2026, 1, 1, 14, 0, 0, 0, time.UTC)

	s.RecordFalsePositive("motion", at)

	snap := s.Snapshot()
	assert.Equal(t, 1, snap.FalsePositiveHistory["motion"])
	assert.InDelta(t, 0.3+0.05, snap.DeliveryFrequency, 1e-9)
	assert.Len(t, snap.DismissalTimestamps, 1)
}

func TestRecordFalsePositive_NonDeliveryEventDoesNotBumpFrequency(t *testing.T) {
	s := New(Config{})
	s.RecordFalsePositive("glassbreak", time.Now())

	snap := s.Snapshot()
	assert.InDelta(t, 0.3, snap.DeliveryFrequency, 1e-9)
}

func TestDampeningFactor_ReflectsAccumulatedFalsePositives(t *testing.T) {
	s := New(Config{})
	for i := 0; i < 6; i++ {
		s.RecordFalsePositive("motion", time.Now())
	}
	assert.Equal(t, 0.85, s.DampeningFactor("motion"))
	assert.Equal(t, 1.0, s.DampeningFactor("door"))
}

func TestDeliveryInsights_DefaultsWhenNoHistory(t *testing.T) {
	s := New(Config{})
	insights := s.DeliveryInsights(time.Now())

	assert.Equal(t, 14, insights.PeakHour)
	assert.Equal(t, time.Wednesday, insights.PeakWeekday)
}

func TestDeliveryInsights_PicksMostFrequentHourAndWeekday(t *testing.T) {
	s := New(Config{})
	now := time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC) // a Thursday

	s.RecordFalsePositive("motion", time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC))  // Monday
	s.RecordFalsePositive("motion", time.Date(2026, 1, 6, 9, 0, 0, 0, time.UTC))  // Tuesday
	s.RecordFalsePositive("motion", time.Date(2026, 1, 6, 17, 0, 0, 0, time.UTC)) // Tuesday

	insights := s.DeliveryInsights(now)
	assert.Equal(t, 9, insights.PeakHour)
}

func TestDeliveryInsights_IgnoresEntriesOlderThanSevenDays(t *testing.T) {
	s := New(Config{})
	now := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
	s.RecordFalsePositive("motion", now.AddDate(0, 0, -30))

	insights := s.DeliveryInsights(now)
	assert.Equal(t, 14, insights.PeakHour)
}

func TestNew_ReportsPersistErrorWhenStoreUnopenable(t *testing.T) {
	blocked := t.TempDir() + "/blocked"
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0o644))

	var reported int
	New(Config{DataDir: blocked}, WithOnPersistError(func() { reported++ }))

	assert.Equal(t, 1, reported)
}
