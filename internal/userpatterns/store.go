// Package userpatterns implements the User Patterns component: per-event
// false-positive counts, a learned dampening factor, and delivery
// frequency/insight tracking, persisted asynchronously the way the rest of
// the process-lifetime state owners in this SDK are.
package userpatterns

import (
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/novinsdk/sentinel-go/internal/kvstore"
	"github.com/novinsdk/sentinel-go/internal/model"
)

const (
	maxDismissalHistory = 1000
	storeKey            = "user_patterns"
)

// Config configures the Store.
type Config struct {
	DataDir      string
	LearningRate float64 // Default: 0.05
}

// DefaultConfig returns the spec-mandated defaults.
func DefaultConfig() Config {
	return Config{LearningRate: 0.05}
}

// Store owns the persisted UserPatterns state behind a single RWMutex, the
// shape every process-lifetime owner in this SDK uses.
type Store struct {
	mu             sync.RWMutex
	state          model.UserPatterns
	kv             *kvstore.Store
	dirty          bool
	onPersistError func()
}

// Option customizes Store construction.
type Option func(*Store)

// WithOnPersistError registers a callback invoked whenever a persistence
// operation (open, load, or save) fails, so the caller can feed it to the
// Health Monitor's error count.
func WithOnPersistError(fn func()) Option {
	return func(s *Store) { s.onPersistError = fn }
}

// New constructs a Store with the given config, loading any prior snapshot
// from the shared key-value store rooted at cfg.DataDir.
func New(cfg Config, opts ...Option) *Store {
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = 0.05
	}

	s := &Store{
		state: model.UserPatterns{
			DeliveryFrequency:    0.3,
			FalsePositiveHistory: make(map[string]int),
			LearningRate:         cfg.LearningRate,
			LastUpdated:          time.Now(),
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	if cfg.DataDir != "" {
		kv, err := kvstore.Open(cfg.DataDir)
		if err != nil {
			log.Warn().Err(err).Msg("failed to open user patterns store")
			s.reportPersistError()
		} else {
			s.kv = kv
			if err := s.loadFromDisk(); err != nil {
				log.Warn().Err(err).Msg("failed to load user patterns")
			}
		}
	}

	return s
}

// reportPersistError notifies the registered hook, if any, that a
// persistence operation failed.
func (s *Store) reportPersistError() {
	if s.onPersistError != nil {
		s.onPersistError()
	}
}

// RecordFalsePositive applies spec 4.8's feedback rule: increment the
// per-event-type count, bump delivery_frequency for doorbell/motion
// dismissals, and append a bounded dismissal timestamp.
func (s *Store) RecordFalsePositive(eventType string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.FalsePositiveHistory == nil {
		s.state.FalsePositiveHistory = make(map[string]int)
	}
	s.state.FalsePositiveHistory[eventType]++

	lower := strings.ToLower(eventType)
	if strings.Contains(lower, "doorbell") || strings.Contains(lower, "motion") {
		s.state.DeliveryFrequency += s.state.LearningRate
		if s.state.DeliveryFrequency > 1.0 {
			s.state.DeliveryFrequency = 1.0
		}
	}

	s.state.DismissalTimestamps = append(s.state.DismissalTimestamps, at)
	if len(s.state.DismissalTimestamps) > maxDismissalHistory {
		s.state.DismissalTimestamps = s.state.DismissalTimestamps[len(s.state.DismissalTimestamps)-maxDismissalHistory:]
	}

	s.state.TotalUserInteractions++
	s.state.LastUpdated = time.Now()
	s.dirty = true

	go s.saveIfDirty()
}

// RecordAssessment increments the total-events counter; called once per
// successful assess(), whatever threat level it produced.
func (s *Store) RecordAssessment() {
	s.mu.Lock()
	s.state.TotalEventsAssessed++
	s.dirty = true
	s.mu.Unlock()
	go s.saveIfDirty()
}

// DampeningFactor returns the multiplicative attenuation for eventType's
// current false-positive count, per spec 4.8's fixed thresholds.
func (s *Store) DampeningFactor(eventType string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := s.state.FalsePositiveHistory[eventType]
	return dampeningForCount(count)
}

func dampeningForCount(count int) float64 {
	switch {
	case count > 20:
		return 0.5
	case count > 10:
		return 0.7
	case count > 5:
		return 0.85
	default:
		return 1.0
	}
}

// DeliveryInsights is the peak hour/weekday computed from the last 7 days
// of dismissal timestamps, defaulting to (14, Wednesday) when empty.
type DeliveryInsights struct {
	PeakHour    int
	PeakWeekday time.Weekday
}

// DeliveryInsights computes insight into when deliveries are typically
// dismissed, over the trailing 7 days.
func (s *Store) DeliveryInsights(now time.Time) DeliveryInsights {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := now.AddDate(0, 0, -7)
	hourCounts := make(map[int]int)
	weekdayCounts := make(map[time.Weekday]int)
	var n int
	for _, ts := range s.state.DismissalTimestamps {
		if ts.Before(cutoff) {
			continue
		}
		hourCounts[ts.Hour()]++
		weekdayCounts[ts.Weekday()]++
		n++
	}

	if n == 0 {
		return DeliveryInsights{PeakHour: 14, PeakWeekday: time.Wednesday}
	}

	return DeliveryInsights{
		PeakHour:    peakKey(hourCounts, 14),
		PeakWeekday: time.Weekday(peakKey(weekdayCountsToInt(weekdayCounts), int(time.Wednesday))),
	}
}

func weekdayCountsToInt(m map[time.Weekday]int) map[int]int {
	out := make(map[int]int, len(m))
	for k, v := range m {
		out[int(k)] = v
	}
	return out
}

func peakKey(counts map[int]int, def int) int {
	best, bestCount := def, -1
	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best
}

// Snapshot returns a copy of the current persisted state.
func (s *Store) Snapshot() model.UserPatterns {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := s.state
	cp.FalsePositiveHistory = make(map[string]int, len(s.state.FalsePositiveHistory))
	for k, v := range s.state.FalsePositiveHistory {
		cp.FalsePositiveHistory[k] = v
	}
	cp.DismissalTimestamps = append([]time.Time(nil), s.state.DismissalTimestamps...)
	return cp
}

func (s *Store) saveIfDirty() {
	s.mu.Lock()
	if !s.dirty || s.kv == nil {
		s.mu.Unlock()
		return
	}
	s.dirty = false
	s.mu.Unlock()

	if err := s.saveToDisk(); err != nil {
		log.Warn().Err(err).Msg("failed to persist user patterns")
		s.reportPersistError()
		s.mu.Lock()
		s.dirty = true
		s.mu.Unlock()
	}
}

func (s *Store) saveToDisk() error {
	if s.kv == nil {
		return nil
	}
	s.mu.RLock()
	data, err := json.Marshal(s.state)
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	return s.kv.Put(storeKey, data)
}

func (s *Store) loadFromDisk() error {
	if s.kv == nil {
		return nil
	}
	data, ok, err := s.kv.Get(storeKey)
	if err != nil {
		s.reportPersistError()
		return err
	}
	if !ok {
		return nil
	}

	var state model.UserPatterns
	if err := json.Unmarshal(data, &state); err != nil {
		// Corruption is handled by reinitializing to defaults, per spec 6.
		log.Warn().Err(err).Msg("user patterns record corrupt, reinitializing to defaults")
		s.reportPersistError()
		return nil
	}
	if state.FalsePositiveHistory == nil {
		state.FalsePositiveHistory = make(map[string]int)
	}
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	return nil
}

// ForceSave immediately persists the current state, bypassing the dirty
// check.
func (s *Store) ForceSave() error {
	s.mu.Lock()
	s.dirty = false
	s.mu.Unlock()
	return s.saveToDisk()
}
