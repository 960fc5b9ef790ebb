package security

import (
	"math/rand/v2"
	"time"
)

// Default jitter bounds for sanitized responses.
const (
	DefaultDelayMin = 0
	DefaultDelayMax = 100 * time.Millisecond
)

// randomDuration picks uniformly from [min, max). Split out from Delay so the
// distribution can be tested without sleeping.
func randomDuration(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + rand.N(max-min)
}

// Delay suspends the calling goroutine for a uniformly random duration in
// [min, max). Only this goroutine sleeps; other in-flight requests keep
// running. Used to pull every sanitized failure path's latency from the same
// distribution.
func Delay(min, max time.Duration) {
	time.Sleep(randomDuration(min, max))
}

// DefaultDelay applies the standard jitter used before every sanitized
// response.
func DefaultDelay() {
	Delay(DefaultDelayMin, DefaultDelayMax)
}
