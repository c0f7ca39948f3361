package apiclient

import (
	"errors"
	"fmt"
)

// ErrAuthRejected is returned when the backend no longer accepts the stored
// credential. The client has already torn down the session by the time this
// error is seen; callers must not retry.
var ErrAuthRejected = errors.New("authentication rejected")

// RequestError is any other non-success response or transport failure. The
// Message is extracted from the response body when present and is safe to
// show to a user.
type RequestError struct {
	Status  int
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("request failed (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("request failed: %s", e.Message)
}

func (e *RequestError) Unwrap() error { return e.Err }

// IsAuthRejected reports whether err resulted from a rejected credential.
func IsAuthRejected(err error) bool {
	return errors.Is(err, ErrAuthRejected)
}
