// Package cot implements the Chain-of-Thought Scorer: a deterministic
// five-step reasoning chain (observe → time context → occupancy → event
// severity → external context) producing a score and a human-readable
// trace, independent of the Bayesian/rule paths so the three reasoners can
// disagree and be fused.
package cot

import (
	"fmt"

	"github.com/novinsdk/sentinel-go/internal/model"
)

// Result is the CoT Scorer's output.
type Result struct {
	Score      float64
	Confidence float64
	Trace      []string
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Score runs the fixed five-step chain against the extracted features and
// primary event, per spec 4.6.
func Score(f model.NamedFeatures, homeMode model.HomeMode, eventType string, rawSensorsTriggered int) Result {
	score := 0.5
	conf := 0.5
	trace := []string{fmt.Sprintf("observe event: %s", eventType)}

	// Step 2: time context.
	if f.Get("hour_cos") < -0.5 {
		score += 0.3
		conf += 0.1
		trace = append(trace, "time context: night (+0.3)")
	} else {
		score -= 0.1
		conf += 0.05
		trace = append(trace, "time context: day (-0.1)")
	}

	// Step 3: occupancy.
	switch homeMode {
	case model.HomeModeAway, model.HomeModeVacation:
		score += 0.4
		conf += 0.1
		trace = append(trace, "occupancy: away (+0.4)")
	case model.HomeModeHome:
		score -= 0.2
		conf += 0.05
		trace = append(trace, "occupancy: home (-0.2)")
	default:
		trace = append(trace, "occupancy: unknown (+0.0)")
	}

	// Step 4: event severity.
	trustLevel := f.Get("user_trust_level")
	switch eventType {
	case "glassbreak":
		score += 0.6
		conf += 0.15
		trace = append(trace, "event severity: glassbreak (+0.6)")
	case "motion":
		if f.Get("event_confidence") > 0.8 {
			score += 0.3
			trace = append(trace, "event severity: motion, high confidence (+0.3)")
		} else {
			score += 0.1
			trace = append(trace, "event severity: motion, low confidence (+0.1)")
		}
		conf += 0.1
	case "door", "window":
		score += 0.4
		conf += 0.1
		trace = append(trace, "event severity: door/window (+0.4)")
	case "face":
		if trustLevel < 0.3 {
			score += 0.5
			trace = append(trace, "event severity: unrecognized face (+0.5)")
		} else {
			score -= 0.3
			trace = append(trace, "event severity: trusted face (-0.3)")
		}
		conf += 0.1
	case "pet":
		score -= 0.4
		conf += 0.1
		trace = append(trace, "event severity: pet (-0.4)")
	case "fire":
		score += 0.65
		conf += 0.2
		trace = append(trace, "event severity: fire (+0.65)")
	default:
		score += 0.1
		trace = append(trace, "event severity: other (+0.1)")
	}

	// Step 5: external context.
	crimeAdj := f.Get("crime_rate_24h") * 0.3
	score += crimeAdj
	trace = append(trace, fmt.Sprintf("external: crime rate contribution (+%.3f)", crimeAdj))

	if rawSensorsTriggered > 2 {
		score += 0.1
		conf += 0.05
		trace = append(trace, "external: multiple sensors (+0.1)")
	} else {
		score -= 0.1
		trace = append(trace, "external: single sensor (-0.1)")
	}

	return Result{
		Score:      clamp(score, 0, 1),
		Confidence: clamp(conf, 0.3, 1.0),
		Trace:      trace,
	}
}
