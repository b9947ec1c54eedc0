// Package thttp contains the HTTP plumbing shared by the SDK and its tests.
//
// # Client side
//
// The SDK issues every REST call through an http.Client assembled from the
// transports in this package:
//
//   - BearerTransport injects the session credential as an
//     "Authorization: Bearer <token>" header. Endpoints that work without a
//     login (captcha, login itself) pass through untouched when no credential
//     is stored.
//
//   - LoggingTransport logs requests and responses at Debug level, including
//     bodies for non-binary content types and the X-Trace-Id correlation
//     header the backend echoes back.
//
// Redirects preserve the Authorization header (the Go client strips it by
// default, https://github.com/golang/go/issues/35104).
//
// # Server side
//
// thttp.Server is a context-controlled http.Server used to run the mock
// backend in tests: Run serves until the context closes, then shuts down
// gracefully. Handlers are wrapped with the usual middleware stack:
//
//	server := thttp.NewServer(listener, thttp.StandardMiddleware(router))
//
// StandardMiddleware is Log (before/after logging), Recover (panics become
// 500s and shut the server down) and CORS, in this order.
//
// # Logging guidelines
//
// In an HTTP handler, log through the logger embedded in the request context:
//
//	logger := tlog.Get(r.Context())
//
// Don't log method, URL or status explicitly; the Log middleware already
// does. In case of an internal error just panic, Recover will log the stack.
package thttp
