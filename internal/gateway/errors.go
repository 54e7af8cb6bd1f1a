package gateway

import (
	"errors"
	"fmt"
)

// ErrUpstream matches every failure of an outbound provider call: non-2xx
// status, transport failure and undecodable payloads.  Handlers map it to a
// single user-facing response.
var ErrUpstream = errors.New("upstream request failed")

// StatusError reports a non-2xx provider response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider returned status %d for %s", e.StatusCode, redact(e.URL))
}

func (e *StatusError) Is(target error) bool { return target == ErrUpstream }

// TransportError wraps network failures (timeout, DNS, connection reset).
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", redact(e.URL), e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrUpstream }

// DecodeError reports a body that is not valid JSON or does not fit the
// requested shape.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response from %s: %v", redact(e.URL), e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrUpstream }

// IsNotFound reports whether err is a provider 404.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == 404
}
