// Package sentinel is the SDK's public surface: an explicitly constructed
// handle wrapping the assessment pipeline, per spec 9's redesign away
// from a process-wide singleton. The host owns the handle's lifetime;
// a package-level registry is offered only for ergonomic call-sites that
// don't want to thread a handle through.
package sentinel

import (
	"context"
	"sync"
	"time"

	"github.com/novinsdk/sentinel-go/internal/config"
	"github.com/novinsdk/sentinel-go/internal/health"
	"github.com/novinsdk/sentinel-go/internal/model"
	"github.com/novinsdk/sentinel-go/internal/orchestrator"
	"github.com/novinsdk/sentinel-go/internal/sentinelerr"
)

// SecurityAssessment is the public result shape returned by Assess, per
// spec 6's Result shape.
type SecurityAssessment = model.SecurityAssessment

// SystemHealth is the public result shape returned by GetHealth.
type SystemHealth = health.SystemHealth

// PITransport is the alternate toPI() serialization from spec 6.
type PITransport = model.PITransport

// SDK is the instantiable, testable handle around the assessment
// pipeline. The zero value is not usable; construct with Initialize.
type SDK struct {
	orch *orchestrator.Orchestrator
}

// Initialize constructs and returns a ready SDK handle. cfg may be nil, in
// which case configuration is loaded from the environment per spec 6.
func Initialize(cfg *config.Config) (*SDK, error) {
	var err error
	if cfg == nil {
		cfg, err = config.Load()
		if err != nil {
			return nil, sentinelerr.Internal(err)
		}
	}
	orch, err := orchestrator.New(*cfg)
	if err != nil {
		return nil, err
	}
	return &SDK{orch: orch}, nil
}

// Close releases the SDK's background resources (audit write-back,
// persisted state handles).
func (s *SDK) Close() {
	s.orch.Close()
}

// Assess runs the full pipeline against requestJSON, blocking until the
// result is ready. The core is CPU-bound; no internal suspension occurs.
func (s *SDK) Assess(ctx context.Context, requestJSON string) (SecurityAssessment, error) {
	if s == nil || s.orch == nil {
		return SecurityAssessment{}, sentinelerr.NotInitialized()
	}
	return s.orch.Assess(ctx, requestJSON)
}

// AssessAsync offloads Assess to a worker goroutine, returning a channel
// that receives exactly one result, per spec 9's future-returning form.
func (s *SDK) AssessAsync(ctx context.Context, requestJSON string) <-chan AssessResult {
	out := make(chan AssessResult, 1)
	go func() {
		defer close(out)
		result, err := s.Assess(ctx, requestJSON)
		out <- AssessResult{Assessment: result, Err: err}
	}()
	return out
}

// AssessResult bundles an Assess outcome for the async channel form.
type AssessResult struct {
	Assessment SecurityAssessment
	Err        error
}

// RecordFeedback applies a user-marked false positive to the User
// Patterns store.
func (s *SDK) RecordFeedback(eventType string, wasFalsePositive bool, at time.Time) {
	if s == nil || s.orch == nil {
		return
	}
	s.orch.RecordFeedback(eventType, wasFalsePositive, at)
}

// GetHealth returns the current SystemHealth snapshot.
func (s *SDK) GetHealth() SystemHealth {
	if s == nil || s.orch == nil {
		return SystemHealth{Status: health.StatusEmergency}
	}
	return s.orch.GetHealth()
}

// ExportAuditTrails serializes the full audit ring as pretty-printed JSON.
func (s *SDK) ExportAuditTrails() (string, error) {
	if s == nil || s.orch == nil {
		return "", sentinelerr.NotInitialized()
	}
	return s.orch.ExportAuditTrails()
}

// ToPI converts a SecurityAssessment into the alternate toPI()
// serialization from spec 6.
func ToPI(a SecurityAssessment) PITransport {
	return model.ToPI(a)
}

// --- Optional package-level registry, for call-sites that prefer a
// global handle over threading one through explicitly. ---

var (
	defaultMu  sync.RWMutex
	defaultSDK *SDK
)

// SetDefault installs sdk as the package-level default handle.
func SetDefault(sdk *SDK) {
	defaultMu.Lock()
	defaultSDK = sdk
	defaultMu.Unlock()
}

// Default returns the package-level default handle, or nil if none was
// installed via SetDefault.
func Default() *SDK {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultSDK
}
