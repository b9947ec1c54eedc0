// Package session persists the login credential between tool invocations,
// the way a browser back office keeps it in local storage.
//
// The credential lives in a single JSON file. A Store is an
// oauth2.TokenSource over that file: request transports pull the current
// token from it, and a purge (logout or a backend rejection) immediately
// affects every request that follows.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/sunxu/malladmin/thttp"
	"github.com/sunxu/malladmin/tlog"
	"github.com/sunxu/malladmin/wire"
)

// credential is the on-disk shape of a stored login
type credential struct {
	Token    string    `json:"token"`
	Username string    `json:"username"`
	Roles    []string  `json:"roles,omitempty"`
	Expiry   time.Time `json:"expiry,omitempty"`
}

// Store holds the credential of the current login.
//
// All methods are safe for concurrent use.
type Store struct {
	path string

	mu   sync.Mutex
	cred credential
}

// NewStore creates a Store backed by the file at path, loading the
// credential stored there if any.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) reload() error {
	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.mu.Lock()
		s.cred = credential{}
		s.mu.Unlock()
		return nil
	case err != nil:
		return fmt.Errorf("reading credential file: %w", err)
	}

	var cred credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return fmt.Errorf("malformed credential file %s: %w", s.path, err)
	}
	s.mu.Lock()
	s.cred = cred
	s.mu.Unlock()
	return nil
}

// Save stores the credential of a fresh login
func (s *Store) Save(token wire.Token) error {
	cred := credential{
		Token:    token.Token,
		Username: token.Username,
		Roles:    token.Roles,
		Expiry:   tokenExpiry(token),
	}

	data, err := json.MarshalIndent(cred, "", "    ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("storing credential: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("storing credential: %w", err)
	}

	s.mu.Lock()
	s.cred = cred
	s.mu.Unlock()
	return nil
}

// tokenExpiry figures out when the credential expires. The backend reports
// the lifetime next to the token; failing that, the expiry is read from the
// token itself (without verifying the signature, which only the backend
// can do).
func tokenExpiry(token wire.Token) time.Time {
	if token.ExpiresIn > 0 {
		return time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token.Token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

// Purge forgets the stored credential. Called on logout and when the backend
// rejects the token. Purging an empty store is a no-op.
func (s *Store) Purge() error {
	s.mu.Lock()
	s.cred = credential{}
	s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("purging credential: %w", err)
	}
	return nil
}

// LoggedIn reports whether a credential is stored and, as far as the client
// can tell, not yet expired. The backend has the final say: a request may
// still be rejected.
func (s *Store) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cred.Token == "" {
		return false
	}
	return s.cred.Expiry.IsZero() || time.Now().Before(s.cred.Expiry)
}

// Username returns the name of the logged-in user, or "" when logged out
func (s *Store) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cred.Username
}

// Token implements oauth2.TokenSource. Returns thttp.ErrMissingAuthToken
// when no credential is stored so that requests go out unauthenticated
// instead of failing.
func (s *Store) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cred.Token == "" {
		return nil, thttp.ErrMissingAuthToken
	}
	return &oauth2.Token{
		AccessToken: s.cred.Token,
		TokenType:   "Bearer",
		Expiry:      s.cred.Expiry,
	}, nil
}

// Watch reloads the store whenever the credential file changes on disk, so
// a long-running process picks up a login or logout performed from another
// terminal. Returns when ctx is closed.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watching credential file: %w", err)
	}
	defer watcher.Close()

	// The file itself appears and disappears on login/logout, so the watch
	// is on the directory.
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("watching credential file: %w", err)
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watching credential file: %w", err)
	}

	logger := tlog.Get(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-watcher.Events:
			if event.Name != s.path {
				continue
			}
			if err := s.reload(); err != nil {
				logger.Warn("Failed to reload credential", zap.Error(err))
				continue
			}
			logger.Debug("Credential reloaded", zap.String("op", event.Op.String()))
		case err := <-watcher.Errors:
			logger.Warn("Credential watch error", zap.Error(err))
		}
	}
}
