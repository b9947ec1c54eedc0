package retry

import (
	"time"
)

// ExpConfig is used to configure exponential backoff
type ExpConfig struct {
	Min   time.Duration
	Max   time.Duration
	Scale float64

	// MaxAttempts limits how many backoff delays the sequence produces;
	// 0 = unlimited. The instant first attempt (Instant == false) is not
	// counted against the limit.
	MaxAttempts int

	// If false, the first call to the DelayFn returns 0 and backoff values
	// are returned from the second call on.
	Instant bool
}

// Delays implements interface Config
func (ec ExpConfig) Delays() DelayFn {
	b, zero := NewExpBackoff(ec), !ec.Instant
	attempts := 0
	return func() (time.Duration, bool) {
		if zero {
			zero = false
			return 0, true
		}
		attempts++
		if ec.MaxAttempts != 0 && attempts > ec.MaxAttempts {
			return 0, false
		}
		return b.Backoff(), true
	}
}

// Exponential contains the current state of the backoff logic
type Exponential struct {
	config  ExpConfig
	current time.Duration
}

// NewExpBackoff creates a new Exponential in its initial state
func NewExpBackoff(config ExpConfig) *Exponential {
	return &Exponential{
		config:  config,
		current: config.Min,
	}
}

// Backoff returns the duration to wait and updates the inner state
func (b *Exponential) Backoff() time.Duration {
	beforeScale := b.current
	b.current = time.Duration(float64(b.current) * b.config.Scale)
	if b.current > b.config.Max {
		b.current = b.config.Max
	}
	return beforeScale
}

// Reset resets the backoff state
func (b *Exponential) Reset() {
	b.current = b.config.Min
}
