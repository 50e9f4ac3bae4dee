package ratelimit

import (
	"math"
	"math/rand"
	"strconv"
	"time"
)

// FetchRetryError represents an error when all retry attempts are exhausted
type FetchRetryError struct {
	URL        string
	Attempts   int
	LastStatus int
	LastError  error
}

func (e *FetchRetryError) Error() string {
	msg := "Failed to fetch " + e.URL + " after " + strconv.Itoa(e.Attempts) + " attempts"
	if e.LastStatus != 0 {
		msg += " (HTTP " + strconv.Itoa(e.LastStatus) + ")"
	}
	if e.LastError != nil {
		msg += ": " + e.LastError.Error()
	}
	return msg
}

func (e *FetchRetryError) Unwrap() error {
	return e.LastError
}

// IsRetryableStatus checks if an HTTP status code is retryable
// Retryable: 429, 500-599
func IsRetryableStatus(status int) bool {
	return status == 429 || (status >= 500 && status < 600)
}

// CalculateBackoff calculates exponential backoff delay for a given attempt
// Uses exponential backoff with jitter (0-25%)
func CalculateBackoff(attempt int, config Config) time.Duration {
	exponentialDelay := float64(config.InitialBackoffMs) * math.Pow(2.0, float64(attempt))
	cappedDelay := math.Min(exponentialDelay, float64(config.MaxBackoffMs))

	// Jitter to prevent thundering herd.
	jitter := rand.Float64() * 0.25 * cappedDelay

	return time.Duration(cappedDelay+jitter) * time.Millisecond
}

// CalculateRateLimitBackoff calculates backoff for HTTP 429 responses.
// A server-provided Retry-After header wins; otherwise a steeper 3x
// multiplier is used since 429 means the bucket needs real time to drain.
func CalculateRateLimitBackoff(attempt int, config Config, retryAfterHeader string) time.Duration {
	if retryAfterHeader != "" {
		if seconds, err := strconv.ParseFloat(retryAfterHeader, 64); err == nil && seconds > 0 {
			jitter := time.Duration(rand.Float64() * float64(time.Second))
			return time.Duration(seconds*float64(time.Second)) + jitter
		}
	}

	exponentialDelay := float64(config.InitialBackoffMs) * math.Pow(3.0, float64(attempt))
	cappedDelay := math.Min(exponentialDelay, float64(config.MaxBackoffMs))
	jitter := rand.Float64() * 0.25 * cappedDelay

	return time.Duration(cappedDelay+jitter) * time.Millisecond
}
