// Package chain implements the Event Chain Analyzer: a single process-wide
// sliding time-window buffer of recent SecurityEvents, scanned on every
// call for five named multi-event sequence patterns. The buffer is a pure
// sliding window — no per-pattern state machine is retained between calls,
// detectors simply re-scan the current snapshot.
package chain

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/novinsdk/sentinel-go/internal/model"
)

const (
	defaultWindow     = 60 * time.Second
	defaultMaxEntries = 100
)

// Config configures the Analyzer.
type Config struct {
	Window     time.Duration // Default: 60s
	MaxEntries int           // Default: 100
	DataDir    string
	Now        func() time.Time // injectable clock; defaults to time.Now
}

// DefaultConfig returns the spec-mandated defaults.
func DefaultConfig() Config {
	return Config{Window: defaultWindow, MaxEntries: defaultMaxEntries}
}

// Analyzer holds the shared sliding-window buffer behind an internal lock.
type Analyzer struct {
	mu      sync.Mutex
	buffer  []model.SecurityEvent
	window  time.Duration
	maxSize int
	dataDir string
	now     func() time.Time
}

// NewAnalyzer constructs an Analyzer, defaulting any unset config field and
// loading a prior buffer snapshot from dataDir if configured.
func NewAnalyzer(cfg Config) *Analyzer {
	if cfg.Window <= 0 {
		cfg.Window = defaultWindow
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = defaultMaxEntries
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	a := &Analyzer{
		buffer:  make([]model.SecurityEvent, 0, cfg.MaxEntries),
		window:  cfg.Window,
		maxSize: cfg.MaxEntries,
		dataDir: cfg.DataDir,
		now:     cfg.Now,
	}

	if cfg.DataDir != "" {
		if err := a.loadFromDisk(); err != nil {
			log.Warn().Err(err).Msg("failed to load chain buffer from disk")
		}
	}

	return a
}

// Analyze appends event to the buffer, evicts stale entries, caps buffer
// size, then runs the five pattern detectors in fixed order, returning the
// first match.
func (a *Analyzer) Analyze(event model.SecurityEvent) *model.ChainPattern {
	a.mu.Lock()
	defer a.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = a.now()
	}
	a.buffer = append(a.buffer, event)
	a.evictLocked()

	snapshot := make([]model.SecurityEvent, len(a.buffer))
	copy(snapshot, a.buffer)

	go func() {
		if err := a.saveToDisk(); err != nil {
			log.Warn().Err(err).Msg("failed to persist chain buffer")
		}
	}()

	return detect(snapshot, a.now())
}

func (a *Analyzer) evictLocked() {
	cutoff := a.now().Add(-a.window)
	kept := a.buffer[:0]
	for _, e := range a.buffer {
		if e.Timestamp.After(cutoff) {
			kept = append(kept, e)
		}
	}
	a.buffer = kept

	if len(a.buffer) > a.maxSize {
		a.buffer = a.buffer[len(a.buffer)-a.maxSize:]
	}
}

// Snapshot returns a defensive copy of the current buffer contents, after
// evicting stale entries.
func (a *Analyzer) Snapshot() []model.SecurityEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.evictLocked()
	out := make([]model.SecurityEvent, len(a.buffer))
	copy(out, a.buffer)
	return out
}

func isType(e model.SecurityEvent, substr string) bool {
	return strings.Contains(strings.ToLower(e.Type), substr)
}

func isDoorOrWindow(e model.SecurityEvent) bool {
	return isType(e, "door") || isType(e, "window")
}

func isMotion(e model.SecurityEvent) bool { return isType(e, "motion") }
func isGlass(e model.SecurityEvent) bool  { return isType(e, "glass") }
func isDoorbell(e model.SecurityEvent) bool {
	return isType(e, "doorbell") || isType(e, "chime")
}

// detect runs the fixed-order pattern checks against a time-ordered
// snapshot and returns the first match.
func detect(events []model.SecurityEvent, nowRef time.Time) *model.ChainPattern {
	if p := detectPackageDelivery(events); p != nil {
		return p
	}
	if p := detectIntrusionSequence(events); p != nil {
		return p
	}
	if p := detectForcedEntry(events, nowRef); p != nil {
		return p
	}
	if p := detectActiveBreakIn(events); p != nil {
		return p
	}
	if p := detectProwlerActivity(events, nowRef); p != nil {
		return p
	}
	return nil
}

// detectPackageDelivery: consecutive pair (doorbell|chime) -> motion at the
// same location, 2≤Δt≤30s, and no subsequent event at that location within
// 20s of the motion event.
func detectPackageDelivery(events []model.SecurityEvent) *model.ChainPattern {
	for i := 0; i+1 < len(events); i++ {
		bell, motion := events[i], events[i+1]
		if !isDoorbell(bell) || !isMotion(motion) || bell.Location != motion.Location {
			continue
		}
		dt := motion.Timestamp.Sub(bell.Timestamp)
		if dt < 2*time.Second || dt > 30*time.Second {
			continue
		}
		followedUp := false
		for j := i + 2; j < len(events); j++ {
			if events[j].Location != motion.Location {
				continue
			}
			if events[j].Timestamp.Sub(motion.Timestamp) <= 20*time.Second {
				followedUp = true
				break
			}
		}
		if followedUp {
			continue
		}
		return &model.ChainPattern{
			Name:        model.ChainPackageDelivery,
			Events:      []model.SecurityEvent{bell, motion},
			ThreatDelta: -0.4,
			Confidence:  0.85,
			Reasoning:   "doorbell followed by brief motion with no further activity resembles a delivery drop-off",
		}
	}
	return nil
}

// detectIntrusionSequence: motion -> (door|window) -> motion, each Δt≤30s.
func detectIntrusionSequence(events []model.SecurityEvent) *model.ChainPattern {
	for i := 0; i+2 < len(events); i++ {
		m1, dw, m2 := events[i], events[i+1], events[i+2]
		if !isMotion(m1) || !isDoorOrWindow(dw) || !isMotion(m2) {
			continue
		}
		if dw.Timestamp.Sub(m1.Timestamp) > 30*time.Second {
			continue
		}
		if m2.Timestamp.Sub(dw.Timestamp) > 30*time.Second {
			continue
		}
		return &model.ChainPattern{
			Name:        model.ChainIntrusionSequence,
			Events:      []model.SecurityEvent{m1, dw, m2},
			ThreatDelta: 0.5,
			Confidence:  0.90,
			Reasoning:   "motion, then a door/window event, then further motion suggests entry in progress",
		}
	}
	return nil
}

// detectForcedEntry: ≥3 door/window events in the trailing 15s.
func detectForcedEntry(events []model.SecurityEvent, nowRef time.Time) *model.ChainPattern {
	cutoff := nowRef.Add(-15 * time.Second)
	var matched []model.SecurityEvent
	for _, e := range events {
		if isDoorOrWindow(e) && e.Timestamp.After(cutoff) {
			matched = append(matched, e)
		}
	}
	if len(matched) < 3 {
		return nil
	}
	return &model.ChainPattern{
		Name:        model.ChainForcedEntry,
		Events:      matched,
		ThreatDelta: 0.6,
		Confidence:  0.92,
		Reasoning:   "three or more door/window triggers within 15 seconds suggests forced entry",
	}
}

// detectActiveBreakIn: glass -> motion within 20s.
func detectActiveBreakIn(events []model.SecurityEvent) *model.ChainPattern {
	for i := 0; i+1 < len(events); i++ {
		g, m := events[i], events[i+1]
		if !isGlass(g) || !isMotion(m) {
			continue
		}
		if m.Timestamp.Sub(g.Timestamp) > 20*time.Second {
			continue
		}
		return &model.ChainPattern{
			Name:        model.ChainActiveBreakIn,
			Events:      []model.SecurityEvent{g, m},
			ThreatDelta: 0.7,
			Confidence:  0.95,
			Reasoning:   "glass break immediately followed by motion indicates an active break-in",
		}
	}
	return nil
}

// detectProwlerActivity: motion in ≥3 distinct locations in the trailing 60s.
func detectProwlerActivity(events []model.SecurityEvent, nowRef time.Time) *model.ChainPattern {
	cutoff := nowRef.Add(-60 * time.Second)
	locations := make(map[string]model.SecurityEvent)
	for _, e := range events {
		if isMotion(e) && e.Timestamp.After(cutoff) {
			locations[e.Location] = e
		}
	}
	if len(locations) < 3 {
		return nil
	}
	matched := make([]model.SecurityEvent, 0, len(locations))
	for _, e := range locations {
		matched = append(matched, e)
	}
	return &model.ChainPattern{
		Name:        model.ChainProwlerActivity,
		Events:      matched,
		ThreatDelta: 0.45,
		Confidence:  0.88,
		Reasoning:   "motion detected in three or more distinct locations within a minute suggests prowler activity",
	}
}

// FormatForContext renders the currently buffered events as a short,
// human-readable summary for the Explanation Engine's context[] field.
func (a *Analyzer) FormatForContext() string {
	events := a.Snapshot()
	if len(events) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("recent activity: ")
	limit := len(events)
	if limit > 5 {
		limit = 5
	}
	for i, e := range events[len(events)-limit:] {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s@%s", e.Type, e.Location)
	}
	return b.String()
}

func (a *Analyzer) saveToDisk() error {
	if a.dataDir == "" {
		return nil
	}
	a.mu.Lock()
	snapshot := make([]model.SecurityEvent, len(a.buffer))
	copy(snapshot, a.buffer)
	a.mu.Unlock()

	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	path := filepath.Join(a.dataDir, "chain_buffer.json")
	tmpPath := path + ".tmp"
	if err := os.MkdirAll(a.dataDir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

func (a *Analyzer) loadFromDisk() error {
	path := filepath.Join(a.dataDir, "chain_buffer.json")
	if st, err := os.Stat(path); err == nil {
		const maxOnDiskBytes = 10 << 20
		if st.Size() > maxOnDiskBytes {
			return fmt.Errorf("chain buffer file too large (%d bytes)", st.Size())
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var events []model.SecurityEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return err
	}
	a.buffer = events
	a.evictLocked()
	return nil
}
