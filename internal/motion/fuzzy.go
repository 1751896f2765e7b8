package motion

import "github.com/novinsdk/sentinel-go/internal/model"

// trapezoid is a standard trapezoidal membership function: 0 below a, rising
// linearly to 1 over [a,b], flat at 1 over [b,c], falling linearly to 0 over
// [c,d], 0 above d.
func trapezoid(x, a, b, c, d float64) float64 {
	switch {
	case x < a || x > d:
		return 0
	case x >= b && x <= c:
		return 1
	case x < b:
		return (x - a) / (b - a)
	default:
		return (d - x) / (d - c)
	}
}

func durationShort(d float64) float64  { return trapezoid(d, 0, 0, 5, 15) }
func durationMedium(d float64) float64 { return trapezoid(d, 5, 15, 25, 40) }
func durationLong(d float64) float64   { return trapezoid(d, 25, 40, 120, 240) }

func energyLow(e float64) float64    { return trapezoid(e, 0, 0, 0.2, 0.4) }
func energyMedium(e float64) float64 { return trapezoid(e, 0.2, 0.4, 0.55, 0.7) }
func energyHigh(e float64) float64   { return trapezoid(e, 0.55, 0.7, 1, 1) }

func zoneEntry(risk float64) float64     { return trapezoid(risk, 0.3, 0.5, 0.7, 0.9) }
func zonePerimeter(risk float64) float64 { return trapezoid(risk, 0, 0, 0.3, 0.5) }
func zoneInterior(risk float64) float64  { return trapezoid(risk, 0.6, 0.8, 1, 1) }

func dayMembership(hour int) float64 {
	return trapezoid(float64(hour), 6, 8, 18, 20)
}
func nightMembership(hour int) float64 {
	return 1 - dayMembership(hour)
}

func modeHome(mode model.HomeMode) float64 {
	if mode == model.HomeModeHome {
		return 1
	}
	return 0
}
func modeAway(mode model.HomeMode) float64 {
	if mode == model.HomeModeAway {
		return 1
	}
	return 0
}
func modeVacation(mode model.HomeMode) float64 {
	if mode == model.HomeModeVacation {
		return 1
	}
	return 0
}

// FuzzyAssess computes trapezoidal memberships over duration, energy, zone
// risk, hour, and home mode, then fires four linguistic rules (delivery,
// loitering, prowler, pet) per spec 4.3.
func FuzzyAssess(durationS, energy, zoneRisk float64, hour int, mode model.HomeMode, activityHint model.ActivityType) model.FuzzyAssessment {
	dShort, dMedium, dLong := durationShort(durationS), durationMedium(durationS), durationLong(durationS)
	eLow, eMedium, eHigh := energyLow(energy), energyMedium(energy), energyHigh(energy)
	zEntry, zPerim, zInterior := zoneEntry(zoneRisk), zonePerimeter(zoneRisk), zoneInterior(zoneRisk)
	day, night := dayMembership(hour), nightMembership(hour)
	home, away, vacation := modeHome(mode), modeAway(mode), modeVacation(mode)

	petHint := 0.0
	if activityHint == model.ActivityPet {
		petHint = 1.0
	}

	// delivery: short visit at the entry zone during the day, while home.
	delivery := min3(dShort, zEntry, day) * (0.5 + 0.5*home)
	// loitering: medium/long low-to-medium-energy presence near the
	// perimeter, heavier weight while away.
	loitering := min3(max2(dMedium, dLong), eLow+eMedium-eLow*eMedium, zPerim) * (0.4 + 0.6*(away+vacation))
	// prowler: high energy or long duration near the perimeter at night
	// while unoccupied.
	prowler := min3(max2(eHigh, dLong), night, zPerim+zEntry-zPerim*zEntry) * (0.3 + 0.7*(away+vacation))
	// pet: short, low-energy, interior motion with an explicit pet hint.
	pet := min3(dShort, eLow, zInterior) * (0.2 + 0.8*petHint)

	intentScore := normalize4(delivery, loitering, prowler, pet)
	crispThreat := 0.2*delivery + 0.1*pet + 0.5*loitering + 0.75*prowler

	return model.FuzzyAssessment{
		DeliveryScore:  clamp(delivery, 0, 1),
		LoiteringScore: clamp(loitering, 0, 1),
		ProwlerScore:   clamp(prowler, 0, 1),
		PetScore:       clamp(pet, 0, 1),
		IntentScore:    intentScore,
		CrispThreat:    clamp(crispThreat, 0, 1),
	}
}

func min3(a, b, c float64) float64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func max2(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func normalize4(a, b, c, d float64) float64 {
	sum := a + b + c + d
	if sum <= 0 {
		return 0
	}
	return clamp((a*0.2+b*0.5+c*0.75+d*0.1)/sum, 0, 1)
}
