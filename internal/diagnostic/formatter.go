package diagnostic

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vvka-141/webshot/internal/retry"
	"github.com/vvka-141/webshot/pkg/webshot"
)

const (
	prefixGeneric = "Failed to take screenshot:"
	prefixNetwork = "Network error:"
	prefixTimeout = "Screenshot timed out after"
)

// Request is the context a failure is reported in.
type Request struct {
	// Timeout is the per-attempt timeout. Zero means webshot.DefaultTimeout.
	Timeout time.Duration
}

// RequestFor builds a Request from capture options.
func RequestFor(opts webshot.CaptureOptions) Request {
	return Request{Timeout: opts.Timeout}
}

func (r Request) timeoutMillis() int64 {
	if r.Timeout > 0 {
		return r.Timeout.Milliseconds()
	}
	return webshot.DefaultTimeout.Milliseconds()
}

// Format normalizes raw into one of the canonical message shapes.
// raw may be an error, a string, nil or any other value.
func Format(raw any, req Request) string {
	msg := retry.Normalize(raw).Error()

	if alreadyFormatted(msg) {
		return msg
	}

	if strings.Contains(strings.ToLower(msg), "timeout") {
		return fmt.Sprintf("%s %dms: %s", prefixTimeout, req.timeoutMillis(), msg)
	}

	// Only real errors are eligible for the network shape.
	if err, ok := raw.(error); ok && retry.IsRetryableError(err) {
		return prefixNetwork + " " + msg
	}

	return prefixGeneric + " " + msg
}

func alreadyFormatted(msg string) bool {
	return strings.HasPrefix(msg, prefixGeneric) ||
		strings.HasPrefix(msg, prefixNetwork) ||
		strings.HasPrefix(msg, prefixTimeout)
}

// KindOf reports the shape of an already formatted message.
func KindOf(msg string) webshot.ErrorKind {
	switch {
	case strings.HasPrefix(msg, prefixTimeout):
		return webshot.KindTimeout
	case strings.HasPrefix(msg, prefixNetwork):
		return webshot.KindNetwork
	default:
		return webshot.KindGeneric
	}
}

// Error is a formatted terminal failure. It unwraps to the original cause so
// sentinel checks keep working.
type Error struct {
	Message string
	Cause   error
	kind    webshot.ErrorKind
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Kind implements webshot.KindedError.
func (e *Error) Kind() webshot.ErrorKind {
	return e.kind
}

// Wrap formats err for req. nil stays nil, and an existing *Error is
// returned as is.
func Wrap(err error, req Request) error {
	if err == nil {
		return nil
	}

	var formatted *Error
	if errors.As(err, &formatted) {
		return err
	}

	msg := Format(err, req)
	return &Error{
		Message: msg,
		Cause:   err,
		kind:    KindOf(msg),
	}
}
