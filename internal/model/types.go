package model

import "time"

// NamedFeatures is the extracted, bounded numeric feature map consumed by
// every downstream reasoner.
type NamedFeatures map[string]float64

// Get returns the value for name, or 0 if absent.
func (f NamedFeatures) Get(name string) float64 {
	return f[name]
}

// ZoneType classifies the physical risk profile of a location.
type ZoneType string

const (
	ZoneEntry      ZoneType = "entry"
	ZonePerimeter  ZoneType = "perimeter"
	ZoneInterior   ZoneType = "interior"
	ZonePublicArea ZoneType = "public_area"
	ZoneGarage     ZoneType = "garage"
	ZoneRestricted ZoneType = "restricted"
	ZoneTransition ZoneType = "transition"
	ZoneOutdoor    ZoneType = "outdoor"
)

// Geofence bounds a zone spatially; optional.
type Geofence struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	RadiusM   float64 `json:"radius_m"`
}

// Zone is a configured named location with a risk profile.
type Zone struct {
	Name          string    `json:"name"`
	RiskScore     float64   `json:"risk_score"`
	Type          ZoneType  `json:"type"`
	Aliases       []string  `json:"aliases,omitempty"`
	AdjacentZones []string  `json:"adjacent_zones,omitempty"`
	Geofence      *Geofence `json:"geofence,omitempty"`
}

// ActivityType is the motion classification result.
type ActivityType string

const (
	ActivityStationary  ActivityType = "stationary"
	ActivityWalking     ActivityType = "walking"
	ActivityRunning     ActivityType = "running"
	ActivityVehicle     ActivityType = "vehicle"
	ActivityPet         ActivityType = "pet"
	ActivityPackageDrop ActivityType = "package_drop"
	ActivityLoitering   ActivityType = "loitering"
	ActivityUnknown     ActivityType = "unknown"
)

// MotionFeatures summarizes a motion observation, whether derived from raw
// samples or from event metadata alone.
type MotionFeatures struct {
	DurationS    float64      `json:"duration_s"`
	Energy       float64      `json:"energy"`
	PeakIntensity float64     `json:"peak_intensity"`
	VectorNorm   float64      `json:"vector_norm"`
	Variance     float64      `json:"variance"`
	ActivityType ActivityType `json:"activity_type"`
	Confidence   float64      `json:"confidence"`
}

// FuzzyAssessment is the output of the trapezoidal fuzzy-membership kernel.
type FuzzyAssessment struct {
	DeliveryScore  float64 `json:"delivery_score"`
	LoiteringScore float64 `json:"loitering_score"`
	ProwlerScore   float64 `json:"prowler_score"`
	PetScore       float64 `json:"pet_score"`
	IntentScore    float64 `json:"intent_score"`
	CrispThreat    float64 `json:"crisp_threat"`
}

// SecurityEvent is a single element of the event-chain sliding buffer.
type SecurityEvent struct {
	Type       string         `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	Location   string         `json:"location"`
	Confidence float64        `json:"confidence"`
	Metadata   *EventMetadata `json:"metadata,omitempty"`
}

// ChainPatternName enumerates the five recognized event sequences.
type ChainPatternName string

const (
	ChainPackageDelivery   ChainPatternName = "package_delivery"
	ChainIntrusionSequence ChainPatternName = "intrusion_sequence"
	ChainForcedEntry       ChainPatternName = "forced_entry"
	ChainActiveBreakIn     ChainPatternName = "active_break_in"
	ChainProwlerActivity   ChainPatternName = "prowler_activity"
)

// ChainPattern is a detected multi-event sequence.
type ChainPattern struct {
	Name        ChainPatternName `json:"name"`
	Events      []SecurityEvent  `json:"events"`
	ThreatDelta float64          `json:"threat_delta"`
	Confidence  float64          `json:"confidence"`
	Reasoning   string           `json:"reasoning"`
}

// EvidenceFactor is one named Bayesian observation.
type EvidenceFactor struct {
	Name              string  `json:"name"`
	Present           float64 `json:"present"`
	ThreatLikelihood  float64 `json:"threat_likelihood"`
	NoThreatLikelihood float64 `json:"no_threat_likelihood"`
	Weight            float64 `json:"weight"`
}

// FusionResult is the output of the Bayesian-rule fusion step.
type FusionResult struct {
	FinalScore           float64  `json:"final_score"`
	Confidence           float64  `json:"confidence"`
	Explanation          []string `json:"explanation"`
	BayesianContribution float64  `json:"bayesian_contribution"`
	RuleContribution     float64  `json:"rule_contribution"`
}

// ThreatLevel is the bounded output band.
type ThreatLevel string

const (
	ThreatLow       ThreatLevel = "low"
	ThreatStandard  ThreatLevel = "standard"
	ThreatElevated  ThreatLevel = "elevated"
	ThreatCritical  ThreatLevel = "critical"
)

// UserPatterns is the persisted, per-instance learned state described in
// spec 3 and mutated only by the User Patterns component.
type UserPatterns struct {
	DeliveryFrequency    float64            `json:"delivery_frequency"`
	FalsePositiveHistory map[string]int     `json:"false_positive_history"`
	DismissalTimestamps  []time.Time        `json:"dismissal_timestamps"`
	TotalEventsAssessed  int64              `json:"total_events_assessed"`
	TotalUserInteractions int64             `json:"total_user_interactions"`
	LastUpdated          time.Time          `json:"last_updated"`
	LearningRate         float64            `json:"learning_rate"`
}

// FusionBreakdown records each stage's contribution to the final score for
// audit purposes.
type FusionBreakdown struct {
	Bayesian   float64 `json:"bayesian"`
	Rule       float64 `json:"rule"`
	MentalModel float64 `json:"mental_model"`
	Temporal   float64 `json:"temporal"`
	Chain      float64 `json:"chain"`
	Final      float64 `json:"final"`
}

// AuditRecord is one structured entry of the audit-trail ring.
type AuditRecord struct {
	RequestID        string          `json:"request_id"`
	Timestamp        time.Time       `json:"timestamp"`
	InputHash        string          `json:"input_hash"`
	ConfigVersion    string          `json:"config_version"`
	SDKMode          string          `json:"sdk_mode"`
	EventType        string          `json:"event_type"`
	Location         string          `json:"location"`
	RuleScore        float64         `json:"rule_score"`
	CoTScore         float64         `json:"cot_score"`
	RulesTriggered   []string        `json:"rules_triggered"`
	ChainPattern     string          `json:"chain_pattern,omitempty"`
	MotionActivity   string          `json:"motion_activity,omitempty"`
	ZoneRisk         float64         `json:"zone_risk"`
	ThreatLevel      ThreatLevel     `json:"threat_level"`
	FinalScore       float64         `json:"final_score"`
	Confidence       float64         `json:"confidence"`
	ProcessingTimeMs float64         `json:"processing_time_ms"`
	Fusion           FusionBreakdown `json:"fusion"`
}

// SecurityAssessment is the public result returned by assess().
type SecurityAssessment struct {
	ThreatLevel       ThreatLevel `json:"threat_level"`
	Confidence        float64     `json:"confidence"`
	ProcessingTimeMs  float64     `json:"processing_time_ms"`
	Reasoning         string      `json:"reasoning"`
	RequestID         string      `json:"request_id"`
	Timestamp         time.Time   `json:"timestamp"`
	Summary           string      `json:"summary,omitempty"`
	DetailedReasoning string      `json:"detailed_reasoning,omitempty"`
	Context           []string    `json:"context,omitempty"`
	Recommendation    string      `json:"recommendation,omitempty"`

	// EventType and internal fields feed ToPI(); not part of the canonical
	// JSON tag set consumers rely on, but exported for package boundaries.
	EventType string `json:"-"`
}
