// Package retry provides backoff sequences for components that reconnect or
// re-poll, such as the notification push channel.
//
// REST calls never go through this package: a failed API call is surfaced to
// the caller as-is and must not be retried silently.
package retry

import "time"

// DelayFn is the type of function that can be called repeatedly to produce
// delays between attempts. A single value of DelayFn represents a single
// sequence of delays.
//
// Each call returns the delay before the next attempt, and a boolean value to
// indicate whether the next attempt is desired. If ok is false, the caller
// should stop trying and ignore the returned delay value. The caller is not
// expected to call the function again after receiving false.
//
// The delay function must return true as ok from the first call.
//
// Note that the first delay returned by the function is used before the very
// first attempt. For this reason, in most cases, the first call should return
// (0, true).
type DelayFn func() (delay time.Duration, ok bool)

// Config defines retry intervals.
//
// An implementation of Config is normally stateless.
type Config interface {
	// Delays returns a DelayFn representing the sequence of delays to use
	// between attempts. Each call to Delays returns an independent sequence.
	Delays() DelayFn
}
