// Package ratelimit implements the Rate Limiter: a token bucket gating
// assess() calls, guarded by a single mutex the way the rest of this SDK's
// shared mutable components serialize their state.
package ratelimit

import (
	"sync"
	"time"
)

// Config configures the bucket.
type Config struct {
	MaxTokens  float64 // burst capacity, default 100
	RefillRate float64 // tokens/s, default 100
	Now        func() time.Time
}

// DefaultConfig returns the spec-mandated defaults.
func DefaultConfig() Config {
	return Config{MaxTokens: 100, RefillRate: 100}
}

// Bucket is a token-bucket limiter. All mutation is serialized on mu, the
// "internal queue" the spec describes.
type Bucket struct {
	mu         sync.Mutex
	maxTokens  float64
	refillRate float64
	tokens     float64
	lastRefill time.Time
	now        func() time.Time
}

// New constructs a Bucket, defaulting unset config fields and starting
// full.
func New(cfg Config) *Bucket {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 100
	}
	if cfg.RefillRate <= 0 {
		cfg.RefillRate = 100
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Bucket{
		maxTokens:  cfg.MaxTokens,
		refillRate: cfg.RefillRate,
		tokens:     cfg.MaxTokens,
		lastRefill: cfg.Now(),
		now:        cfg.Now,
	}
}

// Allow refills the bucket for elapsed time, then admits the call (and
// deducts cost) if enough tokens are available.
func (b *Bucket) Allow(cost float64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refillLocked()

	if b.tokens >= cost {
		b.tokens -= cost
		return true
	}
	return false
}

// CanAllow reports whether a call would currently be admitted, without
// mutating bucket state — mirrors the read-only vs mutating distinction
// used by this SDK's other gated components.
func (b *Bucket) CanAllow(cost float64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	elapsed := b.now().Sub(b.lastRefill).Seconds()
	projected := b.tokens + elapsed*b.refillRate
	if projected > b.maxTokens {
		projected = b.maxTokens
	}
	return projected >= cost
}

func (b *Bucket) refillLocked() {
	now := b.now()
	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed <= 0 {
		return
	}
	b.tokens += elapsed * b.refillRate
	if b.tokens > b.maxTokens {
		b.tokens = b.maxTokens
	}
	b.lastRefill = now
}

// Tokens returns the current token count after applying refill, for
// diagnostics/tests.
func (b *Bucket) Tokens() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refillLocked()
	return b.tokens
}
