package motion

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/novinsdk/sentinel-go/internal/model"
)

func TestTrapezoid_Shape(t *testing.T) {
	assert.Equal(t, 0.0, trapezoid(-1, 0, 1, 2, 3))
	assert.Equal(t, 0.5, trapezoid(0.5, 0, 1, 2, 3))
	assert.Equal(t, 1.0, trapezoid(1.5, 0, 1, 2, 3))
	assert.Equal(t, 0.5, trapezoid(2.5, 0, 1, 2, 3))
	assert.Equal(t, 0.0, trapezoid(4, 0, 1, 2, 3))
}

func TestFuzzyAssess_ShortEntryDaytimeHomeFiresDelivery(t *testing.T) {
	fa := FuzzyAssess(2, 0.1, 0.6, 12, model.HomeModeHome, model.ActivityUnknown)
	assert.InDelta(t, 1.0, fa.DeliveryScore, 1e-9)
	assert.Equal(t, 0.0, fa.LoiteringScore)
	assert.Equal(t, 0.0, fa.ProwlerScore)
	assert.InDelta(t, 0.2, fa.CrispThreat, 1e-9)
}

func TestFuzzyAssess_LongHighEnergyPerimeterNightAwayFiresProwler(t *testing.T) {
	fa := FuzzyAssess(100, 0.9, 0.4, 2, model.HomeModeAway, model.ActivityUnknown)
	assert.InDelta(t, 0.75, fa.ProwlerScore, 1e-9)
	assert.Equal(t, 0.0, fa.DeliveryScore)
	assert.Equal(t, 0.0, fa.LoiteringScore)
	assert.InDelta(t, 0.5625, fa.CrispThreat, 1e-9)
}

func TestFuzzyAssess_PetHintBoostsPetScore(t *testing.T) {
	fa := FuzzyAssess(3, 0.1, 0.8, 12, model.HomeModeHome, model.ActivityPet)
	assert.InDelta(t, 1.0, fa.PetScore, 1e-9)
	assert.InDelta(t, 0.2, fa.CrispThreat, 1e-9)
}

func TestFuzzyAssess_AllZeroInputsYieldZeroIntentAndThreat(t *testing.T) {
	fa := FuzzyAssess(0, 0, 0, 12, model.HomeModeHome, model.ActivityUnknown)
	assert.Equal(t, 0.0, fa.IntentScore)
	assert.Equal(t, 0.0, fa.CrispThreat)
}
