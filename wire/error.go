package wire

import (
	"errors"
	"fmt"
)

// Error is a business failure reported inside a response envelope
// (code != 200).
type Error struct {
	Code    int
	Message string
}

func (e Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with code %d", e.Code)
	}
	return e.Message
}

// ErrUnauthorized means the credential is missing, expired or revoked. The
// REST client purges the stored credential and invokes the auth-expiry hook
// before returning it.
var ErrUnauthorized = errors.New("authentication expired")

// ErrConflict is an optimistic-concurrency conflict (HTTP 409): the entity
// was modified since the caller read it. Reload the entity and retry with
// the fresh version number.
type ErrConflict struct {
	Message string
}

func (e ErrConflict) Error() string {
	if e.Message == "" {
		return "version conflict"
	}
	return e.Message
}
