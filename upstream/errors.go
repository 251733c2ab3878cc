package upstream

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthRejected is returned when the auth endpoint answers result: 0.
	ErrAuthRejected = errors.New("authentication rejected")
	// ErrAuthExhausted is returned when no credential variant produced a token.
	ErrAuthExhausted = errors.New("authentication exhausted")
)

// TransportError is a failure to reach upstream or a non-success status.
type TransportError struct {
	Op         string
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.Op, e.URL, e.StatusCode, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s %s: HTTP %d", e.Op, e.URL, e.StatusCode)
	default:
		return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }
