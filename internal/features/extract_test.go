package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novinsdk/sentinel-go/internal/model"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestExtract_NightHourHasNegativeCosine(t *testing.T) {
	// 02:00 UTC is firmly nighttime; hour_cos must read below -0.5 for the
	// rule engine's time_night condition to fire.
	now := time.Date(2026, 1, 15, 2, 0, 0, 0, time.UTC)
	req := &model.Request{Timestamp: "", HomeMode: model.HomeModeAway}
	f := Extract(req, fixedClock(now))
	assert.Less(t, f.Get("hour_cos"), -0.5)
}

func TestExtract_OccupancyOneHot(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	req := &model.Request{HomeMode: model.HomeModeAway}
	f := Extract(req, fixedClock(now))
	assert.Equal(t, 1.0, f.Get("away_mode"))
	assert.Equal(t, 0.0, f.Get("home_mode"))
	assert.Equal(t, 0.0, f.Get("vacation_mode"))
}

func TestExtract_EventTypeOneHotAndGlassSubstring(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	req := &model.Request{
		Events: []model.Event{{Type: "GlassBreakSensorV2", Confidence: 0.9}},
	}
	f := Extract(req, fixedClock(now))
	assert.Equal(t, 1.0, f.Get("event_glassbreak"))
	assert.Equal(t, 0.0, f.Get("event_motion"))
}

func TestExtract_CrimeRatesClampedToUnitInterval(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	req := &model.Request{
		CrimeContext: &model.CrimeContext{CrimeRate24h: 5.0},
	}
	f := Extract(req, fixedClock(now))
	assert.Equal(t, 1.0, f.Get("crime_rate_24h"))
}

func TestParseTimestamp_FallsBackToNowOnGarbage(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	got := ParseTimestamp("not-a-timestamp", fixedClock(now))
	assert.True(t, got.Equal(now))
}

func TestParseTimestamp_ParsesUnixSeconds(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	got := ParseTimestamp("1700000000", fixedClock(now))
	assert.False(t, got.Equal(now))
}

func TestExtractVector_IsDeterministic(t *testing.T) {
	f := model.NamedFeatures{"hour_sin": 0.5, "event_motion": 1}
	v1 := ExtractVector(f)
	v2 := ExtractVector(f)
	assert.Equal(t, v1, v2)
}

func TestNormalizeEventType_PrioritizesMotionAndGlassSubstrings(t *testing.T) {
	require.Equal(t, "motion", NormalizeEventType("PIR_MOTION_SENSOR"))
	require.Equal(t, "glassbreak", NormalizeEventType("glass_break_v3"))
	require.Equal(t, "door", NormalizeEventType("door"))
}
