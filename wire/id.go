package wire

import (
	"bytes"
	"fmt"
	"strconv"
)

// ID is a backend entity identifier (a snowflake).
//
// Responses pass through Sanitize which turns long numbers into strings, so
// an ID must decode from both a JSON number and a JSON string. It marshals as
// a number: int64 round-trips exactly on the Go side, and the backend accepts
// both forms.
type ID int64

// MarshalJSON implements json.Marshaler
func (id ID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(id), 10)), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if string(data) == "null" {
		return nil
	}
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("malformed ID %q: %w", data, err)
	}
	*id = ID(v)
	return nil
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}
