package explain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/novinsdk/sentinel-go/internal/model"
)

func TestGenerate_ChainPatternTakesPriorityOverMotion(t *testing.T) {
	in := Input{
		ThreatLevel: model.ThreatElevated,
		Chain:       &model.ChainPattern{Name: model.ChainActiveBreakIn},
		Motion:      &model.MotionFeatures{ActivityType: model.ActivityRunning},
		EventType:   "glassbreak",
	}
	e := Generate(in)

	assert.Contains(t, e.Reasoning, "active break-in")
	assert.Equal(t, ToneUrgent, e.Tone)
}

func TestGenerate_MotionTakesPriorityOverLevelFallback(t *testing.T) {
	in := Input{
		ThreatLevel: model.ThreatStandard,
		Motion:      &model.MotionFeatures{ActivityType: model.ActivityLoitering},
		EventType:   "motion",
	}
	e := Generate(in)

	assert.Contains(t, e.Reasoning, "loitering")
}

func TestGenerate_FallsBackToLevelReasoningWhenNoChainOrMotion(t *testing.T) {
	in := Input{ThreatLevel: model.ThreatCritical, EventType: "door"}
	e := Generate(in)

	assert.Contains(t, e.Reasoning, "critical")
	assert.Equal(t, ToneUrgent, e.Tone)
}

func TestGenerate_PackageDeliveryChainIsReassuringEvenAtStandardLevel(t *testing.T) {
	in := Input{
		ThreatLevel: model.ThreatStandard,
		Chain:       &model.ChainPattern{Name: model.ChainPackageDelivery},
		EventType:   "motion",
	}
	e := Generate(in)

	assert.Equal(t, ToneReassuring, e.Tone)
	assert.Equal(t, "No action needed; this looks routine.", e.Recommendation)
}

func TestGenerate_ContextIncludesZoneTimeAndHomeMode(t *testing.T) {
	in := Input{
		ThreatLevel: model.ThreatLow,
		EventType:   "motion",
		Zone:        &model.Zone{Name: "Front Door", Type: model.ZoneEntry, RiskScore: 0.6},
		IsNight:     true,
		HomeMode:    model.HomeModeAway,
	}
	e := Generate(in)

	assert.Contains(t, e.Context, "location: Front Door (entry, risk 0.60)")
	assert.Contains(t, e.Context, "time: nighttime hours")
	assert.Contains(t, e.Context, "home mode: away")
}

func TestGenerate_DeliveryPatternNoteOnlyWhenFrequent(t *testing.T) {
	in := Input{
		ThreatLevel:  model.ThreatLow,
		EventType:    "motion",
		UserPatterns: &model.UserPatterns{DeliveryFrequency: 0.9},
	}
	e := Generate(in)

	assert.Contains(t, e.Context, "this household frequently receives deliveries")
}

func TestGenerate_RecentActivityIncludedWhenPresent(t *testing.T) {
	in := Input{
		ThreatLevel:    model.ThreatLow,
		EventType:      "motion",
		RecentActivity: "recent activity: motion@driveway, motion@front_door",
	}
	e := Generate(in)

	assert.Contains(t, e.Context, "recent activity: motion@driveway, motion@front_door")
}

func TestGenerate_RecentActivityOmittedWhenEmpty(t *testing.T) {
	in := Input{ThreatLevel: model.ThreatLow, EventType: "motion"}
	e := Generate(in)

	for _, c := range e.Context {
		assert.NotContains(t, c, "recent activity")
	}
}

func TestGenerate_SummaryUppercasesThreatLevel(t *testing.T) {
	in := Input{ThreatLevel: model.ThreatElevated, EventType: "motion"}
	e := Generate(in)
	assert.Equal(t, "ELEVATED threat (motion event)", e.Summary)
}
