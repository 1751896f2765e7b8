package model

import "math"

// PITransport is the alternate toPI() serialization shape: a compact,
// sorted-key representation used by external bridges that prefer a nested
// transport-independent envelope over the canonical SecurityAssessment
// JSON tags.
type PITransport struct {
	EventType string `json:"event_type"`
	Meta      struct {
		RequestID string `json:"request_id"`
		Timestamp string `json:"timestamp"`
	} `json:"meta"`
	Processing struct {
		TimeMs float64 `json:"time_ms"`
	} `json:"processing"`
	Threat struct {
		ConfidencePct float64 `json:"confidence_pct"`
		Level        string  `json:"level"`
	} `json:"threat"`
}

// ToPI converts a SecurityAssessment into the alternate toPI() shape. The
// fields of PITransport and of its nested structs are declared in
// lexicographic key order, and json.Marshal emits struct fields in
// declaration order, so the encoded keys come out sorted at every level.
func ToPI(a SecurityAssessment) PITransport {
	var pi PITransport
	pi.EventType = a.EventType
	pi.Threat.Level = string(a.ThreatLevel)
	pi.Threat.ConfidencePct = math.Round(a.Confidence*10000) / 100
	pi.Processing.TimeMs = a.ProcessingTimeMs
	pi.Meta.RequestID = a.RequestID
	pi.Meta.Timestamp = a.Timestamp.UTC().Format("2006-01-02T15:04:05Z07:00")
	return pi
}
