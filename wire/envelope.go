// Package wire defines the JSON shapes exchanged with the mall back-office
// API: the {code, message, data} response envelope, the bidirectional cursor
// pagination contract, the resource DTOs and the push-channel frames.
package wire

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// CodeOK is the envelope code of a successful response. It mirrors
// HttpStatus.OK on the backend, but lives inside the body: the HTTP status
// of a business failure is still 200.
const CodeOK = 200

// Envelope is the wrapper around every REST response body.
type Envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Entity IDs are snowflakes and exceed the 53 bits that a double-based JSON
// parser can represent exactly. The backend serializes them as numbers, so
// they are rewritten into strings before decoding.
var longNumber = regexp.MustCompile(`":\s*([0-9]{16,})`)

// Sanitize rewrites integers of 16+ digits in a raw JSON payload into strings
// to avoid precision loss during decoding.
func Sanitize(data []byte) []byte {
	return longNumber.ReplaceAll(data, []byte(`": "$1"`))
}

// DecodeEnvelope parses a raw response body into an Envelope, preserving long
// integers.
func DecodeEnvelope(body []byte) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(Sanitize(body), &e); err != nil {
		return Envelope{}, fmt.Errorf("malformed response envelope: %w", err)
	}
	return e, nil
}
