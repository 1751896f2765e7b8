// Package audit implements the Audit Trail: a bounded in-memory ring of
// AuditRecords with a privacy-safe canonical input hash, serialized
// asynchronously to the shared key-value store via a dedicated
// serialization queue, per spec 4.10.
package audit

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/novinsdk/sentinel-go/internal/canonicaljson"
	"github.com/novinsdk/sentinel-go/internal/kvstore"
	"github.com/novinsdk/sentinel-go/internal/model"
)

const (
	maxRecords = 1000
	storeKey   = "audit_trail"
)

// Trail owns the in-memory audit ring and its asynchronous write-back.
type Trail struct {
	mu      sync.RWMutex
	records []model.AuditRecord
	kv      *kvstore.Store

	writeQueue     chan model.AuditRecord
	wg             sync.WaitGroup
	onPersistError func()
}

// Option customizes Trail construction.
type Option func(*Trail)

// WithOnPersistError registers a callback invoked whenever a persistence
// operation (open, load, save, or a full write-back queue) fails, so the
// caller can feed it to the Health Monitor's error count.
func WithOnPersistError(fn func()) Option {
	return func(t *Trail) { t.onPersistError = fn }
}

// New constructs a Trail, loading any prior ring from dataDir and starting
// its dedicated write-back goroutine.
func New(dataDir string, opts ...Option) *Trail {
	t := &Trail{
		writeQueue: make(chan model.AuditRecord, 256),
	}
	for _, opt := range opts {
		opt(t)
	}

	if dataDir != "" {
		kv, err := kvstore.Open(dataDir)
		if err != nil {
			log.Warn().Err(err).Msg("failed to open audit trail store")
			t.reportPersistError()
		} else {
			t.kv = kv
			t.loadFromDisk()
		}
	}

	t.wg.Add(1)
	go t.writeLoop()

	return t
}

// reportPersistError notifies the registered hook, if any, that a
// persistence operation failed.
func (t *Trail) reportPersistError() {
	if t.onPersistError != nil {
		t.onPersistError()
	}
}

// QueueLength returns the current depth of the write-back queue, for the
// Health Monitor's queue-length threshold.
func (t *Trail) QueueLength() int {
	return len(t.writeQueue)
}

// InputHash computes SHA-256 over the canonical sorted-keys JSON encoding
// of req, used as the record's privacy-safe identifier.
func InputHash(req any) string {
	hash, err := canonicaljson.Hash(req)
	if err != nil {
		log.Warn().Err(err).Msg("failed to hash audit input")
		return ""
	}
	return hash
}

// Record appends rec to the in-memory ring (trimming to the last
// maxRecords) and enqueues it for asynchronous persistence. Record never
// blocks on I/O and never returns an error: persistence failures are
// swallowed and counted by the Health Monitor via the onPersistError hook.
func (t *Trail) Record(rec model.AuditRecord) {
	t.mu.Lock()
	t.records = append(t.records, rec)
	if len(t.records) > maxRecords {
		t.records = t.records[len(t.records)-maxRecords:]
	}
	t.mu.Unlock()

	select {
	case t.writeQueue <- rec:
	default:
		log.Warn().Msg("audit write-back queue full, dropping persistence for this record")
		t.reportPersistError()
	}
}

// Lookup returns the record with the given request_id, if present in the
// in-memory ring.
func (t *Trail) Lookup(requestID string) (model.AuditRecord, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for i := len(t.records) - 1; i >= 0; i-- {
		if t.records[i].RequestID == requestID {
			return t.records[i], true
		}
	}
	return model.AuditRecord{}, false
}

// Export serializes the full in-memory ring as pretty-printed JSON.
func (t *Trail) Export() (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	data, err := json.MarshalIndent(t.records, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// writeLoop is the dedicated serialization queue: every enqueued record
// triggers a full-ring re-persist, off the assess() critical path.
func (t *Trail) writeLoop() {
	defer t.wg.Done()
	for range t.writeQueue {
		if t.kv == nil {
			continue
		}
		if err := t.saveToDisk(); err != nil {
			log.Warn().Err(err).Msg("failed to persist audit trail")
			t.reportPersistError()
		}
	}
}

func (t *Trail) saveToDisk() error {
	t.mu.RLock()
	data, err := json.Marshal(t.records)
	t.mu.RUnlock()
	if err != nil {
		return err
	}
	return t.kv.Put(storeKey, data)
}

func (t *Trail) loadFromDisk() {
	data, ok, err := t.kv.Get(storeKey)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read audit trail")
		t.reportPersistError()
		return
	}
	if !ok {
		return
	}
	var records []model.AuditRecord
	if err := json.Unmarshal(data, &records); err != nil {
		// Corruption is handled by reinitializing to defaults, per spec 6.
		log.Warn().Err(err).Msg("audit trail record corrupt, reinitializing to defaults")
		t.reportPersistError()
		return
	}
	t.mu.Lock()
	t.records = records
	t.mu.Unlock()
}

// Close stops the write-back goroutine, flushing any queued records first.
func (t *Trail) Close() {
	close(t.writeQueue)
	t.wg.Wait()
	if t.kv != nil {
		t.kv.Close()
	}
}
