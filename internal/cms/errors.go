package cms

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnexpectedShape marks a well-formed response whose payload is not the
// shape the operation expects (e.g. a list endpoint not returning an array).
var ErrUnexpectedShape = errors.New("cms: unexpected response shape")

// TransportError is the only error kind surfaced by Client. It covers
// unreachable backends, non-2xx responses and malformed payloads.
type TransportError struct {
	Op         string // list, upload, create, delete
	Collection string
	Status     int // HTTP status when the backend answered, 0 otherwise
	Err        error
}

func (e *TransportError) Error() string {
	var b strings.Builder
	b.WriteString("cms: ")
	b.WriteString(e.Op)
	if e.Collection != "" {
		b.WriteString(" ")
		b.WriteString(e.Collection)
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, ": status %d", e.Status)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsUnexpectedShape reports whether err means "answered, but not with the expected shape".
func IsUnexpectedShape(err error) bool {
	return errors.Is(err, ErrUnexpectedShape)
}
