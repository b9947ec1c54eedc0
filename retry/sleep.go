package retry

import (
	"context"
	"time"
)

// Sleep waits until the duration elapses and returns nil, or until ctx is
// closed and returns its error, whichever happens first. A zero or negative
// duration returns immediately.
func Sleep(ctx context.Context, duration time.Duration) error {
	if duration <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(duration):
		return nil
	}
}
