package thttp

import "net/http"

// CaptureStatus wraps an http.ResponseWriter so that the status code of the
// response ends up in *status. A body written without an explicit
// WriteHeader records http.StatusOK.
//
// The wrapper is transparent otherwise and keeps http.Hijacker working when
// the underlying writer supports it, which WebSocket upgrades need.
func CaptureStatus(w http.ResponseWriter, status *int) http.ResponseWriter {
	cs := captureStatus{ResponseWriter: w, status: status}
	if h, ok := w.(http.Hijacker); ok {
		cs.Hijacker = h
	}
	return cs
}

type captureStatus struct {
	http.ResponseWriter
	http.Hijacker
	status *int
}

func (cs captureStatus) Write(b []byte) (int, error) {
	if *cs.status == 0 {
		*cs.status = http.StatusOK
	}
	return cs.ResponseWriter.Write(b)
}

func (cs captureStatus) WriteHeader(statusCode int) {
	*cs.status = statusCode
	cs.ResponseWriter.WriteHeader(statusCode)
}
