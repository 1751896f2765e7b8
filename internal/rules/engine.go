// Package rules implements the Rule Engine: loading a declarative rule set
// from a packaged JSON resource (or a minimal built-in fallback), matching
// a closed vocabulary of conditions against NamedFeatures, and producing a
// weighted score with per-rule confidence.
package rules

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/novinsdk/sentinel-go/internal/model"
)

// Rule is one declarative rule loaded from the rules resource.
type Rule struct {
	Name        string   `json:"name"`
	Conditions  []string `json:"conditions"`
	Weight      float64  `json:"weight"`
	Score       float64  `json:"score"`
	Description string   `json:"description,omitempty"`
}

// Result is the Rule Engine's output.
type Result struct {
	Score      float64
	Confidence float64
	Triggered  []string
	Level      model.ThreatLevel
}

// Engine holds the loaded rule set. The set is swapped under mu by Reload
// so a config.Watcher can hot-reload the rules resource without disrupting
// in-flight Evaluate calls.
type Engine struct {
	mu    sync.RWMutex
	rules []Rule
}

// builtinRules is the minimal fallback set used when the packaged resource
// is absent, per spec 4.5.
var builtinRules = []Rule{
	{Name: "night_entry", Conditions: []string{"time_night", "event_door"}, Weight: 1.5, Score: 0.7},
	{Name: "glassbreak_alert", Conditions: []string{"event_glassbreak"}, Weight: 2.5, Score: 0.95},
	{Name: "fire_alarm", Conditions: []string{"event_fire"}, Weight: 3.0, Score: 0.98},
	{Name: "away_motion", Conditions: []string{"away_mode", "event_motion"}, Weight: 1.8, Score: 0.75},
	{Name: "high_crime_activity", Conditions: []string{"high_crime", "event_motion"}, Weight: 1.6, Score: 0.7},
	{Name: "baseline", Conditions: []string{"time_day"}, Weight: 0.5, Score: 0.2},
}

// Load reads a JSON array of Rule from path. If path is empty or the file
// is absent, Load returns the built-in fallback set — absence is
// non-fatal per spec 6.
func Load(path string) (*Engine, error) {
	if path == "" {
		return &Engine{rules: builtinRules}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Engine{rules: builtinRules}, nil
		}
		return nil, err
	}
	var loaded []Rule
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, err
	}
	if len(loaded) == 0 {
		loaded = builtinRules
	}
	return &Engine{rules: loaded}, nil
}

// Reload re-reads path and swaps in the new rule set atomically. An
// unreadable or malformed file leaves the existing rule set in place — a
// bad edit mid-write should not blank out the engine.
func (e *Engine) Reload(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var loaded []Rule
	if err := json.Unmarshal(data, &loaded); err != nil {
		return err
	}
	if len(loaded) == 0 {
		return nil
	}
	e.mu.Lock()
	e.rules = loaded
	e.mu.Unlock()
	return nil
}

// Evaluate scores a feature map against every loaded rule, per spec 4.5:
// a rule fires when ≥70% of its conditions match; risk score is the
// weight·confidence-weighted average of fired rules' scores, defaulting
// to 0.5 when none fire.
func (e *Engine) Evaluate(f model.NamedFeatures) Result {
	e.mu.RLock()
	rules := e.rules
	e.mu.RUnlock()

	var weightedSum, weightSum float64
	var triggered []string

	for _, r := range rules {
		matched := 0
		for _, cond := range r.Conditions {
			if evaluateCondition(cond, f) {
				matched++
			}
		}
		if len(r.Conditions) == 0 {
			continue
		}
		ratio := float64(matched) / float64(len(r.Conditions))
		if ratio < 0.7 {
			continue
		}

		conf := ruleConfidence(f)
		triggered = append(triggered, r.Name)
		weightedSum += r.Weight * conf * r.Score
		weightSum += r.Weight * conf
	}

	score := 0.5
	if weightSum > 0 {
		score = weightedSum / weightSum
	}

	return Result{
		Score:      score,
		Confidence: overallConfidence(len(triggered), len(rules)),
		Triggered:  triggered,
		Level:      band(score),
	}
}

// ruleConfidence starts at 0.7 and adds +0.1 for each boosting signal,
// capped to [0.3, 1.0].
func ruleConfidence(f model.NamedFeatures) float64 {
	conf := 0.7
	if f.Get("crime_rate_24h") > 0.2 {
		conf += 0.1
	}
	if f.Get("sensor_count") > 0.5 {
		conf += 0.1
	}
	if f.Get("event_confidence") > 0.7 {
		conf += 0.1
	}
	if f.Get("away_mode") > 0 {
		conf += 0.1
	}
	if conf < 0.3 {
		conf = 0.3
	}
	if conf > 1.0 {
		conf = 1.0
	}
	return conf
}

func overallConfidence(triggeredCount, totalRules int) float64 {
	if totalRules == 0 {
		return 0.5
	}
	return 0.5 + 0.5*float64(triggeredCount)/float64(totalRules)
}

// band maps a fused/rule score onto the spec 4.5 assessment bands.
func band(score float64) model.ThreatLevel {
	switch {
	case score >= 0.9:
		return model.ThreatCritical
	case score >= 0.7:
		return model.ThreatElevated
	case score >= 0.4:
		return model.ThreatStandard
	default:
		return model.ThreatLow
	}
}

// Band exposes the fixed score→level mapping for reuse by the fusion and
// orchestrator stages.
func Band(score float64) model.ThreatLevel { return band(score) }
