package thttp

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
)

const bearerPrefix = "Bearer "

// ErrMissingAuthToken is returned by BearerToken if there is no Authorization
// HTTP header. A TokenSource may also return it to signal that no credential
// is stored; BearerTransport then sends the request unauthenticated.
var ErrMissingAuthToken = errors.New("missing authentication token")

// ErrMalformedAuthHeader is an error returned by BearerToken if Authorization HTTP header is not in form "Bearer token"
type ErrMalformedAuthHeader struct {
	header string
}

func (e ErrMalformedAuthHeader) Error() string {
	return fmt.Sprintf("malformed authentication header: %q", e.header)
}

// BearerToken returns a bearer token, or an error if it is not found
func BearerToken(header http.Header) (string, error) {
	h := header.Get("Authorization")
	if h == "" {
		return "", ErrMissingAuthToken
	}
	bearer, ok := strings.CutPrefix(h, bearerPrefix)
	if !ok {
		return "", ErrMalformedAuthHeader{h}
	}
	return bearer, nil
}

// BearerTransport is an http.RoundTripper that injects a bearer token
// obtained from Source into every outgoing request.
//
// Unlike oauth2.Transport it tolerates a missing credential: if Source
// returns ErrMissingAuthToken, the request is sent without an Authorization
// header. The backend decides which endpoints require a login.
type BearerTransport struct {
	Source oauth2.TokenSource
	Base   http.RoundTripper
}

// RoundTrip is an implementation of http.RoundTripper
func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	token, err := t.Source.Token()
	if err != nil {
		if errors.Is(err, ErrMissingAuthToken) {
			return base.RoundTrip(req)
		}
		return nil, err
	}

	// RoundTrip must not modify the original request
	req = req.Clone(req.Context())
	token.SetAuthHeader(req)
	return base.RoundTrip(req)
}
