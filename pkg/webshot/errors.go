package webshot

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	_, err := service.Take(ctx, opts)
//	if errors.Is(err, webshot.ErrInvalidConfig) {
//	    // Handle bad flag or config values
//	}
var (
	// ErrInvalidConfig indicates the provided options or config file are invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidURL indicates the target URL could not be parsed.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrBrowserNotFound indicates no Chrome/Chromium executable could be located.
	ErrBrowserNotFound = errors.New("browser not found")

	// ErrCaptureFailed indicates the screenshot could not be taken or saved.
	ErrCaptureFailed = errors.New("capture failed")
)

// ValidationError is a user-facing message for a rejected input. Error
// returns the message alone; the sentinel stays reachable via errors.Is.
type ValidationError struct {
	Msg string
	Err error
}

// Invalid builds a ValidationError wrapping sentinel.
func Invalid(sentinel error, format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...), Err: sentinel}
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// joinedError keeps several violations on one line.
type joinedError struct {
	errs []error
}

// JoinErrors is errors.Join with a "; " separator, so the message stays a
// single line. Nil errors are dropped; it returns nil when none remain.
func JoinErrors(errs ...error) error {
	var kept []error
	for _, err := range errs {
		if err != nil {
			kept = append(kept, err)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return &joinedError{errs: kept}
}

func (e *joinedError) Error() string {
	msgs := make([]string, len(e.errs))
	for i, err := range e.errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

func (e *joinedError) Unwrap() []error {
	return e.errs
}

// ErrorKind is the shape of a user-facing failure message.
type ErrorKind int

const (
	KindGeneric ErrorKind = iota
	KindNetwork
	KindTimeout
)

// KindedError is implemented by errors that know their user-facing shape.
type KindedError interface {
	error
	Kind() ErrorKind
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrInvalidURL):
		return ExitConfigError
	case errors.Is(err, ErrBrowserNotFound):
		return ExitCaptureFailed
	}

	var kinded KindedError
	if errors.As(err, &kinded) {
		switch kinded.Kind() {
		case KindTimeout:
			return ExitTimeout
		case KindNetwork:
			return ExitNetworkError
		default:
			return ExitCaptureFailed
		}
	}

	if errors.Is(err, ErrCaptureFailed) {
		return ExitCaptureFailed
	}

	if isUsageError(err.Error()) {
		return ExitUsageError
	}

	return ExitGeneralError
}

// isUsageError recognises the argument and flag errors produced by cobra.
func isUsageError(msg string) bool {
	usagePatterns := []string{
		"unknown flag",
		"unknown shorthand flag",
		"unknown command",
		"accepts 1 arg(s)",
		"missing required argument",
		"required flag",
		"invalid argument",
		"flag needs an argument",
	}
	for _, p := range usagePatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
