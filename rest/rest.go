// Package rest is the envelope-aware HTTP client for the mall back-office
// API.
//
// Every response body is a {code, message, data} envelope; the helpers in
// this package unwrap it, preserve long integer precision and translate
// failures into typed errors. A business failure (envelope code != 200)
// becomes wire.Error, an expired credential becomes wire.ErrUnauthorized and
// an optimistic-concurrency conflict becomes wire.ErrConflict.
//
// Requests are never retried here. A timed-out or failed mutation may have
// been applied by the backend, so the decision to resend belongs to the
// caller who knows whether the operation is idempotent.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/sunxu/malladmin/thttp"
	"github.com/sunxu/malladmin/wire"
)

const requestTimeout = 10 * time.Second

// Config is the configuration of a Client
type Config struct {
	// BaseURL is the API root, e.g. "https://mall.example.com/api".
	BaseURL string

	// Source supplies the bearer token. It may return
	// thttp.ErrMissingAuthToken to send requests unauthenticated.
	Source oauth2.TokenSource

	// OnAuthExpired is invoked (if set) whenever the backend rejects the
	// credential, before wire.ErrUnauthorized is returned. The stored
	// credential is expected to be purged by this hook.
	OnAuthExpired func()

	// Transport overrides the network transport. Tests point it at an
	// in-process backend via thttp.HandlerTransport.
	Transport http.RoundTripper
}

// Client sends requests to the backend and unwraps response envelopes.
type Client struct {
	base          *url.URL
	http          *http.Client
	onAuthExpired func()
}

// New creates a Client
func New(config Config) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(config.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("malformed base URL %q: %w", config.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("unsupported base URL scheme %q", base.Scheme)
	}

	transport := config.Transport
	if transport == nil {
		transport = thttp.RetryingDNSTransport
	}
	httpClient := thttp.WithRequestsLogging(&http.Client{
		Transport: &thttp.BearerTransport{Source: config.Source, Base: transport},
		Timeout:   requestTimeout,
	})

	return &Client{
		base:          base,
		http:          httpClient,
		onAuthExpired: config.OnAuthExpired,
	}, nil
}

// BaseURL returns the API root the client talks to
func (c *Client) BaseURL() *url.URL {
	return c.base
}

func (c *Client) expireAuth() {
	if c.onAuthExpired != nil {
		c.onAuthExpired()
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s %s request: %w", method, path, err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: reading response: %w", method, path, err)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		c.expireAuth()
		return nil, wire.ErrUnauthorized
	case http.StatusConflict:
		return nil, wire.ErrConflict{Message: envelopeMessage(respBody)}
	}

	envelope, err := wire.DecodeEnvelope(respBody)
	if err != nil {
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("%s %s: %s", method, path, resp.Status)
		}
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	switch envelope.Code {
	case wire.CodeOK:
		return envelope.Data, nil
	case http.StatusUnauthorized:
		c.expireAuth()
		return nil, wire.ErrUnauthorized
	default:
		return nil, wire.Error{Code: envelope.Code, Message: envelope.Message}
	}
}

// envelopeMessage extracts the human-readable message from a response body,
// if there is one
func envelopeMessage(body []byte) string {
	envelope, err := wire.DecodeEnvelope(body)
	if err != nil {
		return ""
	}
	return envelope.Message
}

func decodeData[T any](data json.RawMessage) (T, error) {
	var result T
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return result, nil
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("malformed response data: %w", err)
	}
	return result, nil
}

// Get performs a GET request and decodes the envelope data into T
func Get[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	data, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeData[T](data)
}

// Post performs a POST request with a JSON body and decodes the envelope
// data into T
func Post[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	data, err := c.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeData[T](data)
}

// Put performs a PUT request with a JSON body and decodes the envelope data
// into T
func Put[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	data, err := c.do(ctx, http.MethodPut, path, nil, body)
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeData[T](data)
}

// Del performs a DELETE request and decodes the envelope data into T
func Del[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	data, err := c.do(ctx, http.MethodDelete, path, query, nil)
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeData[T](data)
}

// IsUnauthorized reports whether err means the credential was rejected
func IsUnauthorized(err error) bool {
	return errors.Is(err, wire.ErrUnauthorized)
}
