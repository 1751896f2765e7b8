package rules

import "github.com/novinsdk/sentinel-go/internal/model"

// evaluateCondition matches a single condition name from the closed
// vocabulary in spec 4.5 against the extracted features.
func evaluateCondition(cond string, f model.NamedFeatures) bool {
	switch cond {
	// Temporal
	case "time_night":
		return f.Get("hour_cos") < -0.5
	case "time_day":
		return f.Get("hour_cos") >= -0.5
	case "recent_event":
		return f.Get("hours_since_last_event") < 0.1
	case "unusual_hour":
		return f.Get("hour_cos") < -0.5 && f.Get("is_weekend") == 0

	// Spatial
	case "high_crime":
		return f.Get("crime_rate_24h") > 0.2
	case "low_crime":
		return f.Get("crime_rate_24h") < 0.05

	// Behavioral
	case "away_mode":
		return f.Get("away_mode") > 0
	case "high_risk_user":
		return f.Get("user_risk_score") > 0.6
	case "unusual_activity":
		return f.Get("activity_consistency") < 0.3

	// Sensor
	case "multiple_sensors":
		return f.Get("sensor_count") > 0.5
	case "high_confidence":
		return f.Get("event_confidence") > 0.7

	default:
		// event_* prefix: threshold 0.5 on the corresponding feature.
		if len(cond) > 6 && cond[:6] == "event_" {
			return f.Get(cond) > 0.5
		}
		return false
	}
}
