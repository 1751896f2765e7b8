// Package zones implements the Zone Classifier: mapping a free-text
// location string onto a configured canonical Zone, and scoring
// perimeter/entry/interior escalation across a sequence of zones.
package zones

import (
	"strings"

	"github.com/novinsdk/sentinel-go/internal/model"
)

// UnknownZone is returned when a location matches nothing in the
// configured set.
var UnknownZone = model.Zone{Name: "unknown", RiskScore: 0.5, Type: model.ZonePublicArea}

// Classifier holds an immutable configured set of zones, normalized for
// lookup. It is safe for concurrent use since it is never mutated after
// construction.
type Classifier struct {
	byName map[string]model.Zone
	order  []model.Zone
}

// New builds a Classifier from a configured zone list. Per spec 3, zone
// names and aliases must be unique across the set; callers are expected to
// supply a validated configuration (duplicates silently keep the
// first-registered owner, matching a fixed load order being the simplest
// well-defined behavior).
func New(configured []model.Zone) *Classifier {
	c := &Classifier{byName: make(map[string]model.Zone, len(configured)*2), order: configured}
	for _, z := range configured {
		key := normalize(z.Name)
		if _, exists := c.byName[key]; !exists {
			c.byName[key] = z
		}
		for _, alias := range z.Aliases {
			aliasKey := normalize(alias)
			if _, exists := c.byName[aliasKey]; !exists {
				c.byName[aliasKey] = z
			}
		}
	}
	return c
}

// normalize lowercases, trims, and replaces separators with underscores so
// lookups are case- and separator-insensitive.
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	replacer := strings.NewReplacer(" ", "_", "-", "_")
	return replacer.Replace(s)
}

// Classify resolves a free-text location to a Zone: exact name, then
// alias, then substring-contains on a canonical name, then UnknownZone.
func (c *Classifier) Classify(location string) model.Zone {
	if location == "" {
		return UnknownZone
	}
	key := normalize(location)

	if z, ok := c.byName[key]; ok {
		return z
	}
	for _, z := range c.order {
		if strings.Contains(normalize(z.Name), key) || strings.Contains(key, normalize(z.Name)) {
			return z
		}
	}
	return UnknownZone
}

// EscalationMultiplier scores a sequence of zone types per spec 4.2:
// perimeter→entry (1.8), entry→interior (2.0), perimeter→perimeter (1.4),
// multiplicatively, capped at 3.0. The sequence carries zone types only, so
// any two consecutive perimeter elements count as a perimeter→perimeter step.
func EscalationMultiplier(sequence []model.ZoneType) float64 {
	multiplier := 1.0
	for i := 1; i < len(sequence); i++ {
		prev, cur := sequence[i-1], sequence[i]
		switch {
		case prev == model.ZonePerimeter && cur == model.ZoneEntry:
			multiplier *= 1.8
		case prev == model.ZoneEntry && cur == model.ZoneInterior:
			multiplier *= 2.0
		case prev == model.ZonePerimeter && cur == model.ZonePerimeter:
			multiplier *= 1.4
		}
		if multiplier > 3.0 {
			multiplier = 3.0
		}
	}
	return multiplier
}
