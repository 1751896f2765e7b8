package zones

import "github.com/novinsdk/sentinel-go/internal/model"

// DefaultZones is the built-in zone set used when no configured zones are
// supplied, covering the common residential perimeter/entry/interior
// layout referenced throughout spec 4.2 and 4.3.
var DefaultZones = []model.Zone{
	{Name: "front_door", RiskScore: 0.6, Type: model.ZoneEntry, Aliases: []string{"front_entrance", "main_door"}},
	{Name: "back_door", RiskScore: 0.6, Type: model.ZoneEntry, Aliases: []string{"rear_door", "rear_entrance"}},
	{Name: "garage", RiskScore: 0.5, Type: model.ZoneGarage},
	{Name: "driveway", RiskScore: 0.3, Type: model.ZonePerimeter},
	{Name: "backyard", RiskScore: 0.4, Type: model.ZonePerimeter, Aliases: []string{"back_yard"}},
	{Name: "front_yard", RiskScore: 0.3, Type: model.ZonePerimeter},
	{Name: "living_room", RiskScore: 0.8, Type: model.ZoneInterior},
	{Name: "bedroom", RiskScore: 0.9, Type: model.ZoneInterior},
	{Name: "hallway", RiskScore: 0.5, Type: model.ZoneTransition},
	{Name: "sidewalk", RiskScore: 0.2, Type: model.ZonePublicArea, Aliases: []string{"street"}},
	{Name: "safe_room", RiskScore: 1.0, Type: model.ZoneRestricted},
}
