// Package test provides helpers for unit tests: contexts with a logger
// installed, parallel groups tied to the test lifecycle, and channel event
// assertions.
package test

import (
	"context"
	"testing"

	"github.com/sunxu/malladmin/tlog"
	"time"
)

// Context returns a new testing context with a logger installed.
//
// Code under test reads the logger from the context with tlog.Get, so every
// test context must carry one.
func Context(t *testing.T) context.Context {
	ctx := context.Background()
	return tlog.WithLogger(ctx, tlog.NewForTesting(t))
}

// ContextWithTimeout is a version of Context with a timeout.
//
// If the timeout expires, the test context is closed with
// context.DeadlineExceeded.
func ContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(Context(t), timeout)
	t.Cleanup(cancel)
	return ctx
}
