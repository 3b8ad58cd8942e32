package api

import (
	"errors"
	"fmt"
)

// ErrorKind categorises a failed API call.
type ErrorKind int

const (
	// KindTransport means the request never completed or the body could not be read.
	KindTransport ErrorKind = iota
	// KindRejected means the server answered with a non-2xx status.
	KindRejected
	// KindUnauthorized means the server answered 401.
	KindUnauthorized
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport error"
	case KindRejected:
		return "rejected"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is returned by every Client method on failure.
type Error struct {
	Kind       ErrorKind
	Op         string
	StatusCode int
	// Message is the server's message when it sent one.
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Op, e.Kind, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s %s (%d): %s", e.Op, e.Kind, e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("%s %s (%d)", e.Op, e.Kind, e.StatusCode)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage is the text to show for a failed call: the server message when
// present, otherwise a short description of what went wrong.
func (e *Error) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Kind == KindTransport {
		return fmt.Sprintf("Could not reach the server (%s)", e.Op)
	}
	return fmt.Sprintf("Request failed with status %d", e.StatusCode)
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindUnauthorized
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindTransport
}

// MessageOf returns the user facing message for any error.
func MessageOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	return err.Error()
}
