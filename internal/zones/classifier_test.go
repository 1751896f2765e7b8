package zones

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/novinsdk/sentinel-go/internal/model"
)

func testZones() []model.Zone {
	return []model.Zone{
		{Name: "Front Door", RiskScore: 0.6, Type: model.ZoneEntry, Aliases: []string{"main entrance"}},
		{Name: "Backyard", RiskScore: 0.4, Type: model.ZonePerimeter},
	}
}

func TestClassify_ExactNameCaseAndSeparatorInsensitive(t *testing.T) {
	c := New(testZones())
	z := c.Classify("front-door")
	assert.Equal(t, "Front Door", z.Name)
}

func TestClassify_Alias(t *testing.T) {
	c := New(testZones())
	z := c.Classify("Main Entrance")
	assert.Equal(t, "Front Door", z.Name)
}

func TestClassify_SubstringContains(t *testing.T) {
	c := New(testZones())
	z := c.Classify("backyard_camera_1")
	assert.Equal(t, "Backyard", z.Name)
}

func TestClassify_UnknownFallback(t *testing.T) {
	c := New(testZones())
	z := c.Classify("attic")
	assert.Equal(t, UnknownZone, z)
}

func TestEscalationMultiplier(t *testing.T) {
	seq := []model.ZoneType{model.ZonePerimeter, model.ZoneEntry}
	m := EscalationMultiplier(seq)
	assert.InDelta(t, 1.8, m, 1e-9)
}

func TestEscalationMultiplier_CompoundsThenCaps(t *testing.T) {
	seq := []model.ZoneType{model.ZonePerimeter, model.ZoneEntry, model.ZoneInterior}
	m := EscalationMultiplier(seq)
	assert.Equal(t, 3.0, m, "perimeter->entry->interior compounds past the 3.0 cap")
}

func TestEscalationMultiplier_CapsAtThree(t *testing.T) {
	seq := []model.ZoneType{
		model.ZonePerimeter, model.ZoneEntry, model.ZoneInterior,
		model.ZonePerimeter, model.ZoneEntry, model.ZoneInterior,
	}
	m := EscalationMultiplier(seq)
	assert.Equal(t, 3.0, m)
}
