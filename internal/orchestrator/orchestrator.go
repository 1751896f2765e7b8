// Package orchestrator wires every pipeline component behind the public
// assess() entry point, per spec 4.13: rate-limit → parse/validate →
// extract features → {rule engine, CoT, chain analyzer, motion, zone} →
// fuse → dampen → band → explain → audit → health.
package orchestrator

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/novinsdk/sentinel-go/internal/audit"
	"github.com/novinsdk/sentinel-go/internal/bayes"
	"github.com/novinsdk/sentinel-go/internal/chain"
	"github.com/novinsdk/sentinel-go/internal/config"
	"github.com/novinsdk/sentinel-go/internal/cot"
	"github.com/novinsdk/sentinel-go/internal/explain"
	"github.com/novinsdk/sentinel-go/internal/features"
	"github.com/novinsdk/sentinel-go/internal/health"
	"github.com/novinsdk/sentinel-go/internal/model"
	"github.com/novinsdk/sentinel-go/internal/motion"
	"github.com/novinsdk/sentinel-go/internal/ratelimit"
	"github.com/novinsdk/sentinel-go/internal/rules"
	"github.com/novinsdk/sentinel-go/internal/sentinelerr"
	"github.com/novinsdk/sentinel-go/internal/temporal"
	"github.com/novinsdk/sentinel-go/internal/userpatterns"
	"github.com/novinsdk/sentinel-go/internal/zones"
)

var validate = validator.New()

// Orchestrator is the explicitly constructed handle the host owns, per
// spec 9's singleton-to-handle redesign. It is safe for concurrent use:
// assess() is stateless per call and contends only briefly on its five
// shared component owners.
type Orchestrator struct {
	cfg     config.Config
	mode    config.Mode
	now     func() time.Time
	rules   *rules.Engine
	zones   *zones.Classifier
	chain   *chain.Analyzer
	rate    *ratelimit.Bucket
	hp      *health.Monitor
	up      *userpatterns.Store
	at      *audit.Trail
	watcher *config.Watcher
}

// Option customizes construction, primarily for test injection of a fixed
// clock or a configured zone set.
type Option func(*buildOpts)

type buildOpts struct {
	now   func() time.Time
	zones []model.Zone
}

// WithClock injects a fixed clock, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(o *buildOpts) { o.now = now }
}

// WithZones overrides the built-in default zone set.
func WithZones(z []model.Zone) Option {
	return func(o *buildOpts) { o.zones = z }
}

// New constructs an Orchestrator, loading rules, opening persisted state
// stores under cfg.DataDir, and starting the audit write-back goroutine.
func New(cfg config.Config, opts ...Option) (*Orchestrator, error) {
	o := buildOpts{now: time.Now, zones: zones.DefaultZones}
	for _, opt := range opts {
		opt(&o)
	}

	ruleEngine, err := rules.Load(cfg.RulesPath)
	if err != nil {
		return nil, sentinelerr.Internal(err)
	}

	watcher, err := config.NewWatcher(cfg.RulesPath, func() {
		_ = ruleEngine.Reload(cfg.RulesPath)
	})
	if err != nil {
		return nil, sentinelerr.Internal(err)
	}

	hp := health.New(health.Config{Now: o.now})

	return &Orchestrator{
		cfg:     cfg,
		mode:    cfg.Mode,
		now:     o.now,
		rules:   ruleEngine,
		zones:   zones.New(o.zones),
		chain:   chain.NewAnalyzer(chain.Config{DataDir: cfg.DataDir, Now: o.now}),
		rate:    ratelimit.New(ratelimit.Config{MaxTokens: cfg.RateBurst, RefillRate: cfg.RateRefill, Now: o.now}),
		hp:      hp,
		up:      userpatterns.New(userpatterns.Config{DataDir: cfg.DataDir}, userpatterns.WithOnPersistError(hp.RecordError)),
		at:      audit.New(cfg.DataDir, audit.WithOnPersistError(hp.RecordError)),
		watcher: watcher,
	}, nil
}

// Close releases the audit trail's write-back goroutine, the rules file
// watcher, and the database handle.
func (o *Orchestrator) Close() {
	o.watcher.Stop()
	o.at.Close()
}

// GetHealth returns the current SystemHealth snapshot.
func (o *Orchestrator) GetHealth() health.SystemHealth {
	return o.hp.Snapshot()
}

// ExportAuditTrails serializes the full audit ring as pretty-printed JSON.
func (o *Orchestrator) ExportAuditTrails() (string, error) {
	return o.at.Export()
}

// RecordFeedback applies a user-marked false positive to the User
// Patterns store, per spec 4.8.
func (o *Orchestrator) RecordFeedback(eventType string, wasFalsePositive bool, at time.Time) {
	if !wasFalsePositive {
		return
	}
	o.up.RecordFalsePositive(eventType, at)
}

// Assess runs the full pipeline against a raw JSON request body.
func (o *Orchestrator) Assess(ctx context.Context, requestJSON string) (model.SecurityAssessment, error) {
	start := o.now()

	if o.mode == config.ModeEmergency {
		return o.emergencyResult(start), nil
	}

	if !o.rate.Allow(1.0) {
		return model.SecurityAssessment{}, sentinelerr.RateLimited()
	}

	req, err := parseAndValidate(requestJSON)
	if err != nil {
		return model.SecurityAssessment{}, err
	}

	assessment, rec, err := o.run(ctx, req, start)
	if err != nil {
		o.hp.RecordError()
		return model.SecurityAssessment{}, err
	}

	o.at.Record(rec)
	o.up.RecordAssessment()
	o.hp.RecordSample(assessment.ProcessingTimeMs)
	o.hp.SetQueueLength(o.at.QueueLength())

	return assessment, nil
}

func parseAndValidate(requestJSON string) (*model.Request, error) {
	var req model.Request
	if err := json.Unmarshal([]byte(requestJSON), &req); err != nil {
		return nil, sentinelerr.InvalidInput("malformed JSON: " + err.Error())
	}
	ev := req.PrimaryEvent()
	if ev.Type == "" {
		return nil, sentinelerr.InvalidInput("request has no event")
	}
	if err := validate.Struct(&req); err != nil {
		return nil, sentinelerr.InvalidInput(err.Error())
	}
	for i := range req.Events {
		if err := validate.Struct(&req.Events[i]); err != nil {
			return nil, sentinelerr.InvalidInput(err.Error())
		}
	}
	return &req, nil
}

func (o *Orchestrator) run(ctx context.Context, req *model.Request, start time.Time) (model.SecurityAssessment, model.AuditRecord, error) {
	ts := features.ParseTimestamp(req.Timestamp, o.now)
	f := features.Extract(req, o.now)
	ev := req.PrimaryEvent()

	locationStr := ""
	if req.Location != nil {
		locationStr = req.Location.Zone
	}

	var ruleResult rules.Result
	var cotResult cot.Result
	var chainPattern *model.ChainPattern
	var motionFeatures model.MotionFeatures
	var fuzzy model.FuzzyAssessment
	var zone model.Zone

	if o.mode == config.ModeMinimal {
		ruleResult = o.rules.Evaluate(f)
		zone = o.zones.Classify(locationStr)
	} else {
		g, _ := errgroup.WithContext(ctx)
		g.Go(func() error {
			ruleResult = o.rules.Evaluate(f)
			return nil
		})
		g.Go(func() error {
			cotResult = cot.Score(f, req.HomeMode, normalizeEventType(ev.Type), sensorsTriggered(ev))
			return nil
		})
		g.Go(func() error {
			chainPattern = o.chain.Analyze(model.SecurityEvent{
				Type:       ev.Type,
				Timestamp:  ts,
				Location:   locationStr,
				Confidence: ev.Confidence,
				Metadata:   ev.Metadata,
			})
			return nil
		})
		g.Go(func() error {
			zone = o.zones.Classify(locationStr)
			return nil
		})
		g.Go(func() error {
			duration, energy, intensity := eventMotionInputs(ev)
			motionFeatures = motionAnalyze(duration, energy, intensity)
			return nil
		})
		_ = g.Wait()

		duration, energy, _ := eventMotionInputs(ev)
		fuzzy = fuzzyAssess(duration, energy, zone.RiskScore, ts.Hour(), req.HomeMode, motionFeatures.ActivityType)
	}

	var fused model.FusionResult
	switch o.mode {
	case config.ModeMinimal:
		fused = model.FusionResult{FinalScore: ruleResult.Score, Confidence: ruleResult.Confidence, BayesianContribution: ruleResult.Score, RuleContribution: ruleResult.Score}
	default:
		evidence := bayes.Evidence(f)
		fused = bayes.Fuse(evidence, ruleResult.Score)
		// Blend in the CoT confidence as a light tiebreaker on confidence, keeping
		// the Bayesian/rule fusion as the authoritative score per spec 4.7.
		fused.Confidence = clamp(0.85*fused.Confidence+0.15*cotResult.Confidence, 0, 1)
	}

	if chainPattern != nil {
		fused.FinalScore = clamp(fused.FinalScore+chainPattern.ThreatDelta, 0, 1)
	}

	if o.mode != config.ModeMinimal {
		if mult := o.zoneEscalationMultiplier(); mult > 1.0 {
			fused.FinalScore = clamp(fused.FinalScore*mult, 0, 1)
		}
	}

	normalizedType := normalizeEventType(ev.Type)
	damp := temporal.Apply(fused.FinalScore, f, req.HomeMode)
	score := damp.Score

	// Fire is a life-safety signal, not an intrusion-risk one: occupancy
	// and historical false-positive dampening don't apply to it.
	if isLifeSafetyEvent(normalizedType) {
		score = fused.FinalScore
	} else if o.mode != config.ModeDegraded && o.mode != config.ModeMinimal {
		score *= o.up.DampeningFactor(normalizedType)
	}

	if math.IsNaN(score) || math.IsInf(score, 0) || math.IsNaN(fused.Confidence) || math.IsInf(fused.Confidence, 0) {
		return model.SecurityAssessment{}, model.AuditRecord{}, sentinelerr.ProcessingFailed("non-finite score or confidence")
	}

	level := rules.Band(score)

	var recentActivity string
	if o.mode != config.ModeMinimal {
		recentActivity = o.chain.FormatForContext()
	}

	explanation := explain.Generate(explain.Input{
		ThreatLevel:    level,
		Confidence:     fused.Confidence,
		Chain:          chainPattern,
		Motion:         &motionFeatures,
		Zone:           &zone,
		EventType:      normalizedType,
		HomeMode:       req.HomeMode,
		IsNight:        f.Get("hour_cos") < -0.5,
		UserPatterns:   patternsOrNil(o, req),
		RecentActivity: recentActivity,
	})

	requestID := uuid.NewString()
	processingMs := float64(o.now().Sub(start).Microseconds()) / 1000.0

	assessment := model.SecurityAssessment{
		ThreatLevel:       level,
		Confidence:        clamp(fused.Confidence, 0, 1),
		ProcessingTimeMs:  processingMs,
		Reasoning:         explanation.Reasoning,
		RequestID:         requestID,
		Timestamp:         o.now(),
		Summary:           explanation.Summary,
		DetailedReasoning: explanation.Reasoning,
		Context:           explanation.Context,
		Recommendation:    explanation.Recommendation,
		EventType:         normalizedType,
	}

	chainName := ""
	if chainPattern != nil {
		chainName = string(chainPattern.Name)
	}
	motionName := string(motionFeatures.ActivityType)

	rec := model.AuditRecord{
		RequestID:        requestID,
		Timestamp:        assessment.Timestamp,
		InputHash:        audit.InputHash(req),
		ConfigVersion:    o.cfg.ConfigVersion,
		SDKMode:          string(o.mode),
		EventType:        assessment.EventType,
		Location:         locationStr,
		RuleScore:        ruleResult.Score,
		CoTScore:         cotResult.Score,
		RulesTriggered:   ruleResult.Triggered,
		ChainPattern:     chainName,
		MotionActivity:   motionName,
		ZoneRisk:         zone.RiskScore,
		ThreatLevel:      level,
		FinalScore:       score,
		Confidence:        assessment.Confidence,
		ProcessingTimeMs: processingMs,
		Fusion: model.FusionBreakdown{
			Bayesian:    fused.BayesianContribution,
			Rule:        fused.RuleContribution,
			MentalModel: cotResult.Score,
			Temporal:    damp.Score,
			Chain:       fuzzy.CrispThreat,
			Final:       score,
		},
	}

	return assessment, rec, nil
}

func patternsOrNil(o *Orchestrator, req *model.Request) *model.UserPatterns {
	if o.mode == config.ModeDegraded || o.mode == config.ModeMinimal {
		return nil
	}
	patterns := o.up.Snapshot()
	return &patterns
}

func (o *Orchestrator) emergencyResult(start time.Time) model.SecurityAssessment {
	return model.SecurityAssessment{
		ThreatLevel:      model.ThreatStandard,
		Confidence:       0.5,
		ProcessingTimeMs: float64(o.now().Sub(start).Microseconds()) / 1000.0,
		Reasoning:        "emergency fallback: assessment pipeline degraded to a fixed standard result",
		RequestID:        uuid.NewString(),
		Timestamp:        o.now(),
	}
}

func normalizeEventType(raw string) string {
	return features.NormalizeEventType(raw)
}

func sensorsTriggered(ev model.Event) int {
	if ev.Metadata == nil {
		return 1
	}
	if ev.Metadata.SensorsTriggered == 0 {
		return 1
	}
	return ev.Metadata.SensorsTriggered
}

func eventMotionInputs(ev model.Event) (duration, energy, intensity float64) {
	if ev.Metadata == nil {
		return 0, 0, 0
	}
	return ev.Metadata.DurationS, ev.Metadata.Energy, ev.Metadata.Intensity
}

func motionAnalyze(durationS, energy, intensity float64) model.MotionFeatures {
	return motion.AnalyzeMetadata(durationS, energy, intensity)
}

func fuzzyAssess(durationS, energy, zoneRisk float64, hour int, mode model.HomeMode, activityHint model.ActivityType) model.FuzzyAssessment {
	return motion.FuzzyAssess(durationS, energy, zoneRisk, hour, mode, activityHint)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// isLifeSafetyEvent reports whether eventType represents an absolute danger
// signal whose risk does not depend on occupancy or historical
// false-positive rate, per the fire scenario in spec 8.
func isLifeSafetyEvent(eventType string) bool {
	return eventType == "fire"
}

// zoneEscalationMultiplier classifies the chain buffer's buffered events
// into a zone-type sequence and scores perimeter→entry→interior escalation
// across it, per spec 4.2. A buffer of zero or one event never escalates.
// Consecutive events that classify to the same zone count as one visit, so
// perimeter→perimeter escalation only applies between different zones.
func (o *Orchestrator) zoneEscalationMultiplier() float64 {
	events := o.chain.Snapshot()
	if len(events) < 2 {
		return 1.0
	}
	sequence := make([]model.ZoneType, 0, len(events))
	prevName := ""
	for i, e := range events {
		z := o.zones.Classify(e.Location)
		if i > 0 && z.Name == prevName {
			continue
		}
		prevName = z.Name
		sequence = append(sequence, z.Type)
	}
	return zones.EscalationMultiplier(sequence)
}
