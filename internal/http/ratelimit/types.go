package ratelimit

import (
	"sync"
	"time"
)

// Config holds rate limiting configuration
type Config struct {
	RequestsPerSecond int `json:"requestsPerSecond"`
	MaxRetries        int `json:"maxRetries"`
	InitialBackoffMs  int `json:"initialBackoffMs"`
	MaxBackoffMs      int `json:"maxBackoffMs"`
}

// DefaultConfig returns the default rate limit configuration. Two requests
// per second matches the standard REST bucket leak rate of the commerce
// platform's Admin API.
func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 2,
		MaxRetries:        3,
		InitialBackoffMs:  100,
		MaxBackoffMs:      30000,
	}
}

// WithOverrides returns the default config with the given overrides applied
func WithOverrides(overrides PartialConfig) Config {
	cfg := DefaultConfig()
	if overrides.RequestsPerSecond != nil {
		cfg.RequestsPerSecond = *overrides.RequestsPerSecond
	}
	if overrides.MaxRetries != nil {
		cfg.MaxRetries = *overrides.MaxRetries
	}
	if overrides.InitialBackoffMs != nil {
		cfg.InitialBackoffMs = *overrides.InitialBackoffMs
	}
	if overrides.MaxBackoffMs != nil {
		cfg.MaxBackoffMs = *overrides.MaxBackoffMs
	}
	return cfg
}

// PartialConfig allows partial configuration overrides
type PartialConfig struct {
	RequestsPerSecond *int `json:"requestsPerSecond,omitempty"`
	MaxRetries        *int `json:"maxRetries,omitempty"`
	InitialBackoffMs  *int `json:"initialBackoffMs,omitempty"`
	MaxBackoffMs      *int `json:"maxBackoffMs,omitempty"`
}

// RateLimiter spaces requests to respect an upstream requests-per-second
// budget. Safe for concurrent use.
type RateLimiter struct {
	mu          sync.Mutex
	config      Config
	lastRequest time.Time
}

// NewRateLimiter creates a new rate limiter with the given config
func NewRateLimiter(config Config) *RateLimiter {
	return &RateLimiter{config: config}
}

// NewRateLimiterDefault creates a rate limiter with default config
func NewRateLimiterDefault() *RateLimiter {
	return NewRateLimiter(DefaultConfig())
}

// GetConfig returns the current configuration
func (r *RateLimiter) GetConfig() Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.config
}

// SetConfig updates the configuration
func (r *RateLimiter) SetConfig(config Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.config = config
}

// Throttle blocks until the next request slot is available.
// Call this before making a request.
func (r *RateLimiter) Throttle() {
	r.mu.Lock()
	minInterval := time.Second / time.Duration(r.config.RequestsPerSecond)
	elapsed := time.Since(r.lastRequest)
	var wait time.Duration
	if elapsed < minInterval {
		wait = minInterval - elapsed
	}
	r.lastRequest = time.Now().Add(wait)
	r.mu.Unlock()

	if wait > 0 {
		time.Sleep(wait)
	}
}

// Reset resets the rate limiter state
// Useful for testing or after long pauses
func (r *RateLimiter) Reset() {
	r.mu.Lock()
	r.lastRequest = time.Time{}
	r.mu.Unlock()
}
