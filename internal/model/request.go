// Package model holds the data-model types shared across the assessment
// pipeline: the inbound request shape, named feature vectors, zones,
// motion features, chain events, evidence factors, fusion results, user
// patterns and audit records.
package model

import "time"

// HomeMode is the occupancy context supplied with a request.
type HomeMode string

const (
	HomeModeHome    HomeMode = "home"
	HomeModeAway    HomeMode = "away"
	HomeModeVacation HomeMode = "vacation"
	HomeModeUnknown HomeMode = "unknown"
)

// EventMetadata carries the optional per-event fields used by feature
// extraction and motion analysis.
type EventMetadata struct {
	DurationS        float64 `json:"duration,omitempty"`
	Energy           float64 `json:"energy,omitempty"`
	Intensity        float64 `json:"intensity,omitempty"`
	SensorsTriggered int     `json:"sensors_triggered,omitempty"`
	IsKnown          *bool   `json:"is_known,omitempty"`
	SoundType        string  `json:"sound_type,omitempty"`
	Room             string  `json:"room,omitempty"`
}

// Event is a single sensor observation within a request.
type Event struct {
	Type       string         `json:"type" validate:"required"`
	Confidence float64        `json:"confidence" validate:"min=0,max=1"`
	Metadata   *EventMetadata `json:"metadata,omitempty"`
}

// CrimeContext summarizes locally reported incident rates.
type CrimeContext struct {
	CrimeRate24h     float64 `json:"crime_rate_24h,omitempty"`
	CrimeRate7d      float64 `json:"crime_rate_7d,omitempty"`
	CrimeRate30d     float64 `json:"crime_rate_30d,omitempty"`
	NearbyIncidents  int     `json:"nearby_incidents,omitempty"`
	AvgSeverity      float64 `json:"avg_severity,omitempty"`
}

// Weather captures ambient conditions at assessment time.
type Weather struct {
	TemperatureC  float64 `json:"temperature,omitempty"`
	HumidityPct   float64 `json:"humidity,omitempty"`
	PrecipMM      float64 `json:"precipitation,omitempty"`
	WindSpeedKPH  float64 `json:"wind_speed,omitempty"`
}

// ActivityRecord is one entry of a user's recent activity history, used for
// consistency scoring.
type ActivityRecord struct {
	Timestamp time.Time `json:"timestamp"`
}

// UserRiskProfile carries precomputed trust/risk signals about the
// occupant, independent of any single event.
type UserRiskProfile struct {
	RiskScore  float64 `json:"risk_score,omitempty"`
	TrustLevel float64 `json:"trust_level,omitempty"`
}

// Location is either a free-text zone name or a lat/lon pair. Exactly one
// form is expected to be populated by the caller.
type Location struct {
	Zone      string   `json:"zone,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Request is the top-level inbound assessment request.
type Request struct {
	Timestamp       string           `json:"timestamp,omitempty"`
	HomeMode        HomeMode         `json:"home_mode,omitempty" validate:"omitempty,oneof=home away vacation unknown"`
	Location        *Location        `json:"location,omitempty"`
	Events          []Event          `json:"events,omitempty"`
	CrimeContext    *CrimeContext    `json:"crime_context,omitempty"`
	Weather         *Weather         `json:"weather,omitempty"`
	ActivityHistory []ActivityRecord `json:"activity_history,omitempty"`
	UserRiskProfile *UserRiskProfile `json:"user_risk_profile,omitempty"`

	// Raw fields accepted as a top-level-event fallback per spec 4.1, used
	// only when Events is empty.
	Type       string         `json:"type,omitempty"`
	Confidence float64        `json:"confidence,omitempty"`
	Metadata   *EventMetadata `json:"metadata,omitempty"`
}

// PrimaryEvent returns the event to analyze: the first of Events, or a
// synthesized one from the request's top-level fields if Events is empty.
func (r *Request) PrimaryEvent() Event {
	if len(r.Events) > 0 {
		return r.Events[0]
	}
	return Event{Type: r.Type, Confidence: r.Confidence, Metadata: r.Metadata}
}
