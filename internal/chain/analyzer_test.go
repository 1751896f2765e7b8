package chain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novinsdk/sentinel-go/internal/model"
)

func newTestAnalyzer(start time.Time) *Analyzer {
	clock := start
	return NewAnalyzer(Config{
		Window:     60 * time.Second,
		MaxEntries: 100,
		Now:        func() time.Time { return clock },
	})
}

func ev(typ, location string, at time.Time) model.SecurityEvent {
	return model.SecurityEvent{Type: typ, Location: location, Timestamp: at}
}

func TestAnalyze_PackageDelivery(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	a := newTestAnalyzer(base)

	a.Analyze(ev("doorbell", "front_door", base))
	p := a.Analyze(ev("motion", "front_door", base.Add(5*time.Second)))

	require.NotNil(t, p)
	assert.Equal(t, model.ChainPackageDelivery, p.Name)
	assert.Less(t, p.ThreatDelta, 0.0)
}

func TestAnalyze_PackageDelivery_SuppressedByFollowUpActivity(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	a := newTestAnalyzer(base)

	a.Analyze(ev("doorbell", "front_door", base))
	a.Analyze(ev("motion", "front_door", base.Add(5*time.Second)))
	p := a.Analyze(ev("motion", "front_door", base.Add(10*time.Second)))

	// The trailing motion within 20s of the delivery motion means it no
	// longer looks like a drop-off.
	assert.Nil(t, p)
}

func TestAnalyze_IntrusionSequence(t *testing.T) {
	base := time.Date(2026, 1, 1, 2, 0, 0, 0, time.UTC)
	a := newTestAnalyzer(base)

	a.Analyze(ev("motion", "backyard", base))
	a.Analyze(ev("window", "backyard", base.Add(10*time.Second)))
	p := a.Analyze(ev("motion", "living_room", base.Add(20*time.Second)))

	require.NotNil(t, p)
	assert.Equal(t, model.ChainIntrusionSequence, p.Name)
	assert.Greater(t, p.ThreatDelta, 0.0)
}

func TestAnalyze_ForcedEntry(t *testing.T) {
	base := time.Date(2026, 1, 1, 2, 0, 0, 0, time.UTC)
	a := newTestAnalyzer(base)

	a.Analyze(ev("door", "front_door", base))
	a.Analyze(ev("door", "front_door", base.Add(3*time.Second)))
	p := a.Analyze(ev("window", "front_door", base.Add(6*time.Second)))

	require.NotNil(t, p)
	assert.Equal(t, model.ChainForcedEntry, p.Name)
}

func TestAnalyze_ActiveBreakIn(t *testing.T) {
	base := time.Date(2026, 1, 1, 2, 0, 0, 0, time.UTC)
	a := newTestAnalyzer(base)

	a.Analyze(ev("glass_break", "living_room", base))
	p := a.Analyze(ev("motion", "living_room", base.Add(5*time.Second)))

	require.NotNil(t, p)
	assert.Equal(t, model.ChainActiveBreakIn, p.Name)
	assert.InDelta(t, 0.7, p.ThreatDelta, 1e-9)
}

func TestAnalyze_ProwlerActivity(t *testing.T) {
	base := time.Date(2026, 1, 1, 2, 0, 0, 0, time.UTC)
	a := newTestAnalyzer(base)

	a.Analyze(ev("motion", "front_yard", base))
	a.Analyze(ev("motion", "backyard", base.Add(5*time.Second)))
	p := a.Analyze(ev("motion", "driveway", base.Add(10*time.Second)))

	require.NotNil(t, p)
	assert.Equal(t, model.ChainProwlerActivity, p.Name)
}

func TestAnalyze_NoPatternReturnsNil(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	a := newTestAnalyzer(base)

	p := a.Analyze(ev("motion", "front_door", base))
	assert.Nil(t, p)
}

func TestSnapshot_EvictsEntriesOutsideWindow(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	a := NewAnalyzer(Config{
		Window:     10 * time.Second,
		MaxEntries: 100,
		Now:        func() time.Time { return base.Add(61 * time.Second) },
	})
	a.buffer = append(a.buffer, ev("motion", "front_door", base))

	snap := a.Snapshot()
	assert.Empty(t, snap)
}

func TestEvictLocked_CapsAtMaxEntries(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	a := NewAnalyzer(Config{
		Window:     time.Hour,
		MaxEntries: 3,
		Now:        func() time.Time { return base },
	})
	for i := 0; i < 5; i++ {
		a.Analyze(ev("motion", "front_door", base))
	}
	assert.Len(t, a.Snapshot(), 3)
}

func TestFormatForContext_EmptyBufferReturnsEmptyString(t *testing.T) {
	a := newTestAnalyzer(time.Now())
	assert.Equal(t, "", a.FormatForContext())
}
