package webshot

import "time"

// ErrorClassifier determines whether a failed capture is worth another attempt.
type ErrorClassifier interface {
	// IsRetryable returns true if the error looks transient.
	IsRetryable(err error) bool
}

// BackoffStrategy names the formula used to space retry attempts.
type BackoffStrategy string

const (
	BackoffFixed       BackoffStrategy = "fixed"
	BackoffLinear      BackoffStrategy = "linear"
	BackoffExponential BackoffStrategy = "exponential"
)

// BackoffStrategies lists the accepted strategies in help-text order.
var BackoffStrategies = []BackoffStrategy{BackoffExponential, BackoffLinear, BackoffFixed}

// Valid reports whether s is one of the known strategies.
func (s BackoffStrategy) Valid() bool {
	switch s {
	case BackoffFixed, BackoffLinear, BackoffExponential:
		return true
	}
	return false
}

// RetryPolicy controls the attempt loop of a single invocation.
// It is built once from flags/config and never mutated afterwards.
type RetryPolicy struct {
	// Enabled false means exactly one attempt and no backoff.
	Enabled bool

	// MaxAttempts is the upper bound on attempts, counting from 1.
	MaxAttempts int

	// Delay is the base unit for the backoff formula.
	Delay time.Duration

	// Backoff selects the delay formula.
	Backoff BackoffStrategy
}

// DefaultRetryPolicy returns the policy used when nothing is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Enabled:     false,
		MaxAttempts: DefaultRetryMaxAttempts,
		Delay:       DefaultRetryDelay,
		Backoff:     DefaultRetryBackoff,
	}
}
