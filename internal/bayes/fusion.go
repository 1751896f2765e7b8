// Package bayes implements the Bayesian Fusion step: a fixed evidence
// likelihood table, numerically stable log-odds accumulation, and the
// rule–Bayes fusion that produces the pipeline's final score.
package bayes

import (
	"math"

	"github.com/novinsdk/sentinel-go/internal/model"
)

const (
	epsilon  = 1e-9
	baseRate = 0.05
)

// likelihoodEntry is one row of the fixed evidence table from spec 4.7.
type likelihoodEntry struct {
	name              string
	threatLikelihood  float64
	noThreatLikelihood float64
	weight            float64
	// strength computes the continuous present∈[0,1] value for this
	// factor from the extracted features; emit returns false to suppress
	// the factor entirely (e.g. unknown_face gated on trust level).
	strength func(f model.NamedFeatures) (present float64, emit bool)
}

var evidenceTable = []likelihoodEntry{
	{
		name: "night", threatLikelihood: 0.80, noThreatLikelihood: 0.30, weight: 1.5,
		strength: func(f model.NamedFeatures) (float64, bool) {
			if f.Get("hour_cos") < -0.5 {
				return 1, true
			}
			return 0, true
		},
	},
	{
		name: "high_crime", threatLikelihood: 0.90, noThreatLikelihood: 0.10, weight: 2.0,
		strength: func(f model.NamedFeatures) (float64, bool) {
			return linear(f.Get("crime_rate_24h"), 0.2, 1.0), true
		},
	},
	{
		name: "glass_break", threatLikelihood: 0.95, noThreatLikelihood: 0.05, weight: 2.5,
		strength: func(f model.NamedFeatures) (float64, bool) {
			return f.Get("event_glassbreak"), true
		},
	},
	{
		name: "fire", threatLikelihood: 0.97, noThreatLikelihood: 0.03, weight: 3.0,
		strength: func(f model.NamedFeatures) (float64, bool) {
			return f.Get("event_fire"), true
		},
	},
	{
		name: "away_mode", threatLikelihood: 0.90, noThreatLikelihood: 0.10, weight: 2.0,
		strength: func(f model.NamedFeatures) (float64, bool) {
			return f.Get("away_mode"), true
		},
	},
	{
		name: "unknown_face", threatLikelihood: 0.90, noThreatLikelihood: 0.05, weight: 2.2,
		strength: func(f model.NamedFeatures) (float64, bool) {
			if f.Get("user_trust_level") >= 0.5 {
				return 0, false
			}
			return f.Get("event_face"), true
		},
	},
	{
		name: "pet", threatLikelihood: 0.10, noThreatLikelihood: 0.90, weight: 0.5,
		strength: func(f model.NamedFeatures) (float64, bool) {
			return f.Get("event_pet"), true
		},
	},
	{
		name: "multiple_sensors", threatLikelihood: 0.70, noThreatLikelihood: 0.30, weight: 1.2,
		strength: func(f model.NamedFeatures) (float64, bool) {
			return f.Get("sensor_count"), true
		},
	},
	{
		name: "high_risk_user", threatLikelihood: 0.75, noThreatLikelihood: 0.25, weight: 1.3,
		strength: func(f model.NamedFeatures) (float64, bool) {
			return f.Get("user_risk_score"), true
		},
	},
	{
		name: "unusual_activity", threatLikelihood: 0.65, noThreatLikelihood: 0.35, weight: 1.0,
		strength: func(f model.NamedFeatures) (float64, bool) {
			return 1 - f.Get("activity_consistency"), true
		},
	},
}

func linear(v, lo, hi float64) float64 {
	if hi == lo {
		return 0
	}
	scaled := (v - lo) / (hi - lo)
	if scaled < 0 {
		return 0
	}
	if scaled > 1 {
		return 1
	}
	return scaled
}

// Evidence extracts an EvidenceFactor for every table row except those whose
// strength function suppresses emission (unknown_face once the user's trust
// level reaches 0.5). Factors at or below the 0.1 activation threshold are
// still returned, with their computed present value, for auditability, but
// do not contribute to the log-odds accumulation in Fuse.
func Evidence(f model.NamedFeatures) []model.EvidenceFactor {
	factors := make([]model.EvidenceFactor, 0, len(evidenceTable))
	for _, e := range evidenceTable {
		present, emit := e.strength(f)
		if !emit {
			continue
		}
		factors = append(factors, model.EvidenceFactor{
			Name:               e.name,
			Present:            present,
			ThreatLikelihood:   e.threatLikelihood,
			NoThreatLikelihood: e.noThreatLikelihood,
			Weight:             e.weight,
		})
	}
	return factors
}

// bayesianProbability accumulates in log-odds from a base rate of 0.05,
// applying clamped likelihood ratios for every factor whose present value
// exceeds 0.1, then converts back via the logistic function.
func bayesianProbability(factors []model.EvidenceFactor) float64 {
	logit := math.Log(baseRate / (1 - baseRate))
	for _, fac := range factors {
		if fac.Present <= 0.1 {
			continue
		}
		ratio := fac.ThreatLikelihood / fac.NoThreatLikelihood
		if ratio < epsilon {
			ratio = epsilon
		}
		logit += math.Log(ratio) * fac.Weight * fac.Present
	}
	return logistic(logit)
}

func logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Fuse combines the Bayesian posterior over factors with the rule engine's
// score, per spec 4.7's diversity-weighted fusion and soft score caps.
func Fuse(factors []model.EvidenceFactor, ruleScore float64) model.FusionResult {
	bayesScore := bayesianProbability(factors)

	var weightSum float64
	for _, fac := range factors {
		weightSum += fac.Weight
	}
	diversity := 0.0
	if len(factors) > 0 {
		diversity = weightSum / float64(len(factors))
	}

	var bayesWeight, ruleWeight float64
	if diversity > 1.2 {
		bayesWeight, ruleWeight = 0.65, 0.35
	} else {
		bayesWeight, ruleWeight = 0.55, 0.45
	}

	fused := bayesWeight*bayesScore + ruleWeight*ruleScore

	agreement := 1 - math.Abs(bayesScore-ruleScore)
	confidence := 0.6*agreement + 0.4*math.Min(1, diversity/2)

	if fused > 0.95 && confidence > 0.8 {
		fused = 0.95
	}
	if fused < 0.05 && confidence > 0.8 {
		fused = 0.05
	}

	return model.FusionResult{
		FinalScore:           clamp(fused, 0, 1),
		Confidence:           clamp(confidence, 0, 1),
		BayesianContribution: bayesScore,
		RuleContribution:     ruleScore,
	}
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
