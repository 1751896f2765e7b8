// Package explain implements the Explanation Engine: a pure function
// mapping the pipeline's intermediate results onto a human-readable
// summary, reasoning, context bullets, recommendation and tone, per spec
// 4.9. Priority order for the headline reasoning is chain-pattern >
// motion-activity > threat-level fallback.
package explain

import (
	"fmt"
	"strings"

	"github.com/novinsdk/sentinel-go/internal/model"
)

// Tone is the emotional register of the explanation, consumed by
// notification surfaces that style alerts differently.
type Tone string

const (
	ToneUrgent      Tone = "urgent"
	ToneAlerting    Tone = "alerting"
	ToneReassuring  Tone = "reassuring"
	ToneInformative Tone = "informative"
)

// Explanation is the Explanation Engine's output.
type Explanation struct {
	Summary        string
	Reasoning      string
	Context        []string
	Recommendation string
	Tone           Tone
}

// Input bundles everything the Explanation Engine needs; it touches no
// shared state and performs no I/O.
type Input struct {
	ThreatLevel    model.ThreatLevel
	Confidence     float64
	Chain          *model.ChainPattern
	Motion         *model.MotionFeatures
	Zone           *model.Zone
	EventType      string
	HomeMode       model.HomeMode
	IsNight        bool
	UserPatterns   *model.UserPatterns
	RecentActivity string
}

// Generate builds the explanation for one assessment.
func Generate(in Input) Explanation {
	reasoning := reasoningFor(in)
	tone := toneFor(in)
	context := contextFor(in)

	return Explanation{
		Summary:        summaryFor(in),
		Reasoning:      reasoning,
		Context:        context,
		Recommendation: recommendationFor(in, tone),
		Tone:           tone,
	}
}

func toneFor(in Input) Tone {
	switch {
	case in.ThreatLevel == model.ThreatCritical:
		return ToneUrgent
	case in.Chain != nil && in.Chain.Name == model.ChainActiveBreakIn:
		return ToneUrgent
	case in.ThreatLevel == model.ThreatElevated:
		return ToneAlerting
	case in.Chain != nil && in.Chain.Name == model.ChainIntrusionSequence:
		return ToneAlerting
	case in.Chain != nil && in.Chain.Name == model.ChainPackageDelivery:
		return ToneReassuring
	case in.ThreatLevel == model.ThreatLow:
		return ToneReassuring
	default:
		return ToneInformative
	}
}

// reasoningFor applies the fixed priority order: chain-pattern,
// motion-activity, threat-level fallback.
func reasoningFor(in Input) string {
	if in.Chain != nil {
		return chainReasoning(in.Chain)
	}
	if in.Motion != nil && in.Motion.ActivityType != "" && in.Motion.ActivityType != model.ActivityUnknown {
		return motionReasoning(in.Motion)
	}
	return levelReasoning(in.ThreatLevel, in.EventType)
}

func chainReasoning(c *model.ChainPattern) string {
	switch c.Name {
	case model.ChainPackageDelivery:
		return "Detected a doorbell-then-motion sequence consistent with a package delivery."
	case model.ChainIntrusionSequence:
		return "Detected motion, entry-point activity, then further motion — a classic intrusion sequence."
	case model.ChainForcedEntry:
		return "Multiple door/window events in rapid succession suggest forced entry."
	case model.ChainActiveBreakIn:
		return "Glass-break followed immediately by motion indicates an active break-in."
	case model.ChainProwlerActivity:
		return "Motion detected across multiple distinct locations in a short window, consistent with someone surveying the property."
	default:
		return c.Reasoning
	}
}

func motionReasoning(m *model.MotionFeatures) string {
	switch m.ActivityType {
	case model.ActivityRunning:
		return "Motion analysis classified the activity as running."
	case model.ActivityLoitering:
		return "Motion analysis classified the activity as loitering."
	case model.ActivityPackageDrop:
		return "Motion analysis classified the activity as a brief package drop."
	case model.ActivityPet:
		return "Motion analysis classified the activity as a pet."
	case model.ActivityVehicle:
		return "Motion analysis classified the activity as a vehicle."
	case model.ActivityWalking:
		return "Motion analysis classified the activity as walking."
	case model.ActivityStationary:
		return "Motion analysis classified the activity as stationary."
	default:
		return "Motion analysis did not find a distinct activity pattern."
	}
}

func levelReasoning(level model.ThreatLevel, eventType string) string {
	switch level {
	case model.ThreatCritical:
		return fmt.Sprintf("A %s event was assessed as critical based on the combined evidence.", eventType)
	case model.ThreatElevated:
		return fmt.Sprintf("A %s event was assessed as elevated risk.", eventType)
	case model.ThreatStandard:
		return fmt.Sprintf("A %s event falls within standard risk.", eventType)
	default:
		return fmt.Sprintf("A %s event was assessed as low risk.", eventType)
	}
}

func summaryFor(in Input) string {
	return fmt.Sprintf("%s threat (%s event)", strings.ToUpper(string(in.ThreatLevel)), in.EventType)
}

func contextFor(in Input) []string {
	var ctx []string
	if in.Zone != nil {
		ctx = append(ctx, fmt.Sprintf("location: %s (%s, risk %.2f)", in.Zone.Name, in.Zone.Type, in.Zone.RiskScore))
	}
	if in.IsNight {
		ctx = append(ctx, "time: nighttime hours")
	} else {
		ctx = append(ctx, "time: daytime hours")
	}
	ctx = append(ctx, fmt.Sprintf("home mode: %s", in.HomeMode))
	if in.UserPatterns != nil && in.UserPatterns.DeliveryFrequency > 0.5 {
		ctx = append(ctx, "this household frequently receives deliveries")
	}
	if in.RecentActivity != "" {
		ctx = append(ctx, in.RecentActivity)
	}
	return ctx
}

func recommendationFor(in Input, tone Tone) string {
	switch tone {
	case ToneUrgent:
		return "Review the live feed immediately and consider contacting authorities."
	case ToneAlerting:
		return "Review recent activity and verify the area is secure."
	case ToneReassuring:
		return "No action needed; this looks routine."
	default:
		return "No immediate action needed; continue monitoring."
	}
}
