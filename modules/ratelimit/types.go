// Package ratelimit throttles API requests per session with a Redis
// sliding window.
package ratelimit

import "time"

// Config is one sliding window.
type Config struct {
	// RequestsPerWindow is the maximum number of requests allowed in the window.
	RequestsPerWindow int
	// WindowSize is the duration of the sliding window.
	WindowSize time.Duration
}

// Result is the outcome of a rate limit check.
type Result struct {
	Allowed    bool
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration // only set when not allowed
}

// MiddlewareConfig configures the request limits.
type MiddlewareConfig struct {
	// SessionConfig applies to requests carrying a session.
	SessionConfig Config
	// IPConfig applies to anonymous requests.
	IPConfig Config
	// KeyPrefix is the prefix for all rate limit keys in Redis.
	KeyPrefix string
}

// DefaultMiddlewareConfig allows perMinute requests per session and per
// anonymous client IP.
func DefaultMiddlewareConfig(perMinute int) MiddlewareConfig {
	if perMinute <= 0 {
		perMinute = 120
	}
	return MiddlewareConfig{
		SessionConfig: Config{RequestsPerWindow: perMinute, WindowSize: time.Minute},
		IPConfig:      Config{RequestsPerWindow: perMinute, WindowSize: time.Minute},
		KeyPrefix:     "horus:ratelimit:",
	}
}
