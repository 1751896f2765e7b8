// Package temporal implements the Temporal Dampener: a small, pure
// time-of-day and home-mode modifier applied to the fused score before
// user-pattern dampening, per the component table's "time-of-day /
// home-mode modifiers" responsibility.
package temporal

import "github.com/novinsdk/sentinel-go/internal/model"

// modifier is a named multiplicative adjustment; the names of the ones that
// fired are reported in Result.Modifiers.
type modifier struct {
	name   string
	factor float64
}

// Result carries the dampened score alongside the names of the modifiers
// that produced it. The orchestrator uses only Score.
type Result struct {
	Score     float64
	Modifiers []string
}

// Apply multiplies score by time-of-day and home-mode factors, then
// reclamps to [0,1]. Night hours and away/vacation modes amplify; daylight
// hours and home mode attenuate; unknown mode is neutral.
func Apply(score float64, f model.NamedFeatures, mode model.HomeMode) Result {
	mods := make([]modifier, 0, 2)

	if f.Get("hour_cos") < -0.5 {
		mods = append(mods, modifier{"night_amplify", 1.10})
	} else if f.Get("is_daylight") > 0 {
		mods = append(mods, modifier{"daylight_attenuate", 0.95})
	}

	switch mode {
	case model.HomeModeAway:
		mods = append(mods, modifier{"away_amplify", 1.10})
	case model.HomeModeVacation:
		mods = append(mods, modifier{"vacation_amplify", 1.15})
	case model.HomeModeHome:
		mods = append(mods, modifier{"home_attenuate", 0.90})
	}

	out := score
	names := make([]string, 0, len(mods))
	for _, m := range mods {
		out *= m.factor
		names = append(names, m.name)
	}

	return Result{Score: clamp(out, 0, 1), Modifiers: names}
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
