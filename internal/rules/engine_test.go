package rules

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novinsdk/sentinel-go/internal/model"
)

func TestLoad_EmptyPathUsesBuiltinRules(t *testing.T) {
	e, err := Load("")
	require.NoError(t, err)
	assert.Len(t, e.rules, len(builtinRules))
}

func TestLoad_MissingFileFallsBackToBuiltin(t *testing.T) {
	e, err := Load("/nonexistent/rules.json")
	require.NoError(t, err)
	assert.Len(t, e.rules, len(builtinRules))
}

func TestEvaluate_NightEntryFiresAlone(t *testing.T) {
	e, err := Load("")
	require.NoError(t, err)

	f := model.NamedFeatures{"hour_cos": -1, "event_door": 1}
	r := e.Evaluate(f)

	assert.Equal(t, []string{"night_entry"}, r.Triggered)
	assert.InDelta(t, 0.7, r.Score, 1e-9)
	assert.Equal(t, model.ThreatElevated, r.Level)
	assert.InDelta(t, 0.5+0.5/6.0, r.Confidence, 1e-9)
}

func TestEvaluate_DaytimeBaselineFiresAlone(t *testing.T) {
	e, err := Load("")
	require.NoError(t, err)

	f := model.NamedFeatures{"hour_cos": 1}
	r := e.Evaluate(f)

	assert.Equal(t, []string{"baseline"}, r.Triggered)
	assert.InDelta(t, 0.2, r.Score, 1e-9)
	assert.Equal(t, model.ThreatLow, r.Level)
}

func TestEvaluate_NoRuleFiresDefaultsToPointFive(t *testing.T) {
	e, err := Load("")
	require.NoError(t, err)

	f := model.NamedFeatures{"hour_cos": -1}
	r := e.Evaluate(f)

	assert.Empty(t, r.Triggered)
	assert.InDelta(t, 0.5, r.Score, 1e-9)
	assert.InDelta(t, 0.5, r.Confidence, 1e-9)
	assert.Equal(t, model.ThreatStandard, r.Level)
}

func TestEvaluate_FireAlarmFiresAloneAtCriticalScore(t *testing.T) {
	e, err := Load("")
	require.NoError(t, err)

	f := model.NamedFeatures{"hour_cos": -1, "event_fire": 1}
	r := e.Evaluate(f)

	assert.Equal(t, []string{"fire_alarm"}, r.Triggered)
	assert.InDelta(t, 0.98, r.Score, 1e-9)
	assert.Equal(t, model.ThreatCritical, r.Level)
}

func TestEvaluate_PartialConditionMatchBelowThresholdDoesNotFire(t *testing.T) {
	e, err := Load("")
	require.NoError(t, err)

	// night_entry needs both time_night and event_door; only one matches
	// (50% < 70% threshold), so it must not fire.
	f := model.NamedFeatures{"hour_cos": -1, "event_door": 0}
	r := e.Evaluate(f)

	assert.NotContains(t, r.Triggered, "night_entry")
}

func TestRuleConfidence_BoostsAndCaps(t *testing.T) {
	f := model.NamedFeatures{
		"crime_rate_24h":   0.5,
		"sensor_count":     1,
		"event_confidence": 0.9,
		"away_mode":        1,
	}
	assert.InDelta(t, 1.0, ruleConfidence(f), 1e-9)
}

func TestBand_Thresholds(t *testing.T) {
	assert.Equal(t, model.ThreatLow, band(0.0))
	assert.Equal(t, model.ThreatStandard, band(0.4))
	assert.Equal(t, model.ThreatElevated, band(0.7))
	assert.Equal(t, model.ThreatCritical, band(0.9))
}

func TestEvaluateCondition_EventPrefixThreshold(t *testing.T) {
	f := model.NamedFeatures{"event_motion": 0.6}
	assert.True(t, evaluateCondition("event_motion", f))
	assert.False(t, evaluateCondition("event_unknown", f))
}

func TestReload_SwapsInNewRuleSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	custom := []Rule{{Name: "always_critical", Conditions: []string{"event_motion"}, Weight: 1, Score: 0.99}}
	data, err := json.Marshal(custom)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	e, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "always_critical", e.rules[0].Name)

	updated := []Rule{{Name: "always_low", Conditions: []string{"event_motion"}, Weight: 1, Score: 0.1}}
	data, err = json.Marshal(updated)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	require.NoError(t, e.Reload(path))
	assert.Equal(t, "always_low", e.rules[0].Name)
}

func TestReload_EmptyPathIsNoop(t *testing.T) {
	e, err := Load("")
	require.NoError(t, err)
	require.NoError(t, e.Reload(""))
	assert.Len(t, e.rules, len(builtinRules))
}

func TestReload_UnreadableFileReturnsErrorAndKeepsExistingRules(t *testing.T) {
	e, err := Load("")
	require.NoError(t, err)

	assert.Error(t, e.Reload("/nonexistent/rules.json"))
	assert.Len(t, e.rules, len(builtinRules))
}

func TestReload_MalformedJSONReturnsErrorAndKeepsExistingRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	e, err := Load("")
	require.NoError(t, err)

	assert.Error(t, e.Reload(path))
	assert.Len(t, e.rules, len(builtinRules))
}
