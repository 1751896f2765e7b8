package zones

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/novinsdk/sentinel-go/internal/model"
)

func TestDefaultZones_ClassifiesKnownNamesAndAliases(t *testing.T) {
	c := New(DefaultZones)

	z := c.Classify("Front Door")
	assert.Equal(t, "front_door", z.Name)
	assert.Equal(t, model.ZoneEntry, z.Type)

	z = c.Classify("rear_entrance")
	assert.Equal(t, "back_door", z.Name)

	z = c.Classify("bedroom_camera")
	assert.Equal(t, "bedroom", z.Name)
	assert.InDelta(t, 0.9, z.RiskScore, 1e-9)
}

func TestDefaultZones_AllRiskScoresAreBounded(t *testing.T) {
	for _, z := range DefaultZones {
		assert.GreaterOrEqual(t, z.RiskScore, 0.0)
		assert.LessOrEqual(t, z.RiskScore, 1.0)
		assert.NotEmpty(t, z.Name)
	}
}
