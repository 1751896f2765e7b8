// Package motion implements the Motion Analyzer: deriving activity
// classification from raw samples or event metadata, and a trapezoidal
// fuzzy-membership kernel producing an intent score used by the
// explanation engine and fusion step.
package motion

import (
	"math"

	"github.com/novinsdk/sentinel-go/internal/model"
)

// AnalyzeSamples computes MotionFeatures from a raw sample series. sampleRate
// is unused beyond documenting intent (duration is supplied directly by the
// caller, matching how event metadata already carries duration_s).
func AnalyzeSamples(samples []float64, sampleRate float64, durationS float64) model.MotionFeatures {
	var sumSquares, peak float64
	for _, x := range samples {
		sq := x * x
		sumSquares += sq
		if math.Abs(x) > peak {
			peak = math.Abs(x)
		}
	}
	n := float64(len(samples))
	var energy, vectorNorm, mean float64
	if n > 0 {
		energy = clamp(math.Sqrt(sumSquares/n), 0, 1)
		vectorNorm = math.Sqrt(sumSquares)
		for _, x := range samples {
			mean += x
		}
		mean /= n
	}
	var varianceSum float64
	for _, x := range samples {
		diff := x - mean
		varianceSum += diff * diff
	}
	variance := 0.0
	if n > 0 {
		variance = varianceSum / n
	}

	mf := model.MotionFeatures{
		DurationS:     durationS,
		Energy:        energy,
		PeakIntensity: clamp(peak, 0, 1),
		VectorNorm:    vectorNorm,
		Variance:      variance,
	}
	mf.ActivityType, mf.Confidence = classify(durationS, energy, variance, peak)
	return mf
}

// AnalyzeMetadata derives MotionFeatures directly from event metadata when
// no raw sample series is available, treating intensity as a peak/energy
// proxy and leaving variance at its zero value: package_drop then depends on
// duration and energy alone, and pet (which needs variance > 0.15) is never
// returned.
func AnalyzeMetadata(durationS, energy, intensity float64) model.MotionFeatures {
	mf := model.MotionFeatures{
		DurationS:     durationS,
		Energy:        clamp(energy, 0, 1),
		PeakIntensity: clamp(intensity, 0, 1),
	}
	mf.ActivityType, mf.Confidence = classify(durationS, mf.Energy, 0, mf.PeakIntensity)
	return mf
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

// classify applies the fixed-order decision list from spec 4.3; first
// match wins.
func classify(duration, energy, variance, peak float64) (model.ActivityType, float64) {
	switch {
	case energy < 0.1 && duration < 2:
		return model.ActivityStationary, 0.95
	case duration < 10 && energy < 0.4 && variance < 0.1:
		return model.ActivityPackageDrop, 0.88
	case duration < 15 && energy < 0.5 && variance > 0.15:
		return model.ActivityPet, 0.82
	case duration > 30 && energy > 0.3 && energy < 0.6 && variance < 0.12:
		return model.ActivityLoitering, 0.85
	case energy > 0.7 || peak > 0.8:
		return model.ActivityRunning, 0.90
	case energy > 0.85 && duration > 5:
		return model.ActivityVehicle, 0.75
	case energy > 0.3 && energy < 0.7 && duration > 5:
		return model.ActivityWalking, 0.80
	default:
		return model.ActivityUnknown, 0.50
	}
}
