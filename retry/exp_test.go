package retry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"time"
)

var testExpConfig = ExpConfig{
	Min:   1 * time.Minute,
	Max:   10 * time.Minute,
	Scale: 2.0,
}

func TestBackoff(t *testing.T) {
	backoff := NewExpBackoff(testExpConfig)
	assert.Equal(t, backoff.Backoff(), testExpConfig.Min)
	assert.Equal(t, backoff.Backoff(), 2*testExpConfig.Min)
	assert.Equal(t, backoff.Backoff(), 4*testExpConfig.Min)
	assert.Equal(t, backoff.Backoff(), 8*testExpConfig.Min)
	assert.Equal(t, backoff.Backoff(), testExpConfig.Max)
	assert.Equal(t, backoff.Backoff(), testExpConfig.Max)

	backoff.Reset()
	assert.Equal(t, backoff.Backoff(), testExpConfig.Min)
	assert.Equal(t, backoff.Backoff(), 2*testExpConfig.Min)
}

func TestDelaysCappedAndBounded(t *testing.T) {
	// The push channel reconnect schedule: 500ms doubling, capped at 30s,
	// at most 10 attempts after the instant first one.
	config := ExpConfig{
		Min:         500 * time.Millisecond,
		Max:         30 * time.Second,
		Scale:       2.0,
		MaxAttempts: 10,
	}

	delays := config.Delays()

	first, ok := delays()
	require.True(t, ok)
	require.Equal(t, time.Duration(0), first)

	expected := []time.Duration{
		500 * time.Millisecond,
		1000 * time.Millisecond,
		2000 * time.Millisecond,
		4000 * time.Millisecond,
		8000 * time.Millisecond,
		16000 * time.Millisecond,
		30 * time.Second,
		30 * time.Second,
		30 * time.Second,
		30 * time.Second,
	}
	for i, want := range expected {
		delay, ok := delays()
		require.True(t, ok, "attempt %d", i)
		require.Equal(t, want, delay, "attempt %d", i)
	}

	_, ok = delays()
	require.False(t, ok)
}

func TestDelaysInstant(t *testing.T) {
	config := ExpConfig{Min: time.Second, Max: 4 * time.Second, Scale: 2.0, MaxAttempts: 3, Instant: true}
	delays := config.Delays()

	for _, want := range []time.Duration{time.Second, 2 * time.Second, 4 * time.Second} {
		delay, ok := delays()
		require.True(t, ok)
		require.Equal(t, want, delay)
	}
	_, ok := delays()
	require.False(t, ok)
}
