package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vvka-141/webshot/pkg/webshot"
)

// Decision is an AttemptObserver's verdict on one failed attempt.
// The zero value means continue.
type Decision struct {
	abort error
}

// Continue lets the executor schedule another attempt if any remain.
func Continue() Decision {
	return Decision{}
}

// Abort stops the loop immediately and makes err the terminal error.
func Abort(err error) Decision {
	if err == nil {
		err = errors.New("retry aborted")
	}
	return Decision{abort: err}
}

// Aborted reports whether the decision stops the loop.
func (d Decision) Aborted() bool {
	return d.abort != nil
}

// Err returns the abort error, or nil for Continue.
func (d Decision) Err() error {
	return d.abort
}

// AttemptObserver is called once per failed attempt, before the executor
// decides whether to sleep and try again. attempt is 1-based.
type AttemptObserver func(attempt int, err error) Decision

// ExhaustedError is returned when every allowed attempt failed.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("Failed after %d attempts: %s", e.Attempts, e.Last.Error())
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// Executor runs an operation under a webshot.RetryPolicy.
//
// Thread Safety:
// The Executor is safe for concurrent use when calling Do().
// WithOnAttempt() returns a NEW instance with the observer configured; the
// original Executor remains unchanged.
type Executor struct {
	policy    webshot.RetryPolicy
	onAttempt AttemptObserver
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewExecutor creates an executor for the given policy.
func NewExecutor(policy webshot.RetryPolicy) *Executor {
	return &Executor{
		policy: policy,
		sleep:  sleepContext,
	}
}

// WithOnAttempt returns a new Executor with the specified observer.
//
// This method does NOT modify the receiver; it returns a new instance.
func (e *Executor) WithOnAttempt(observer AttemptObserver) *Executor {
	clone := *e
	clone.onAttempt = observer
	return &clone
}

// Policy returns the policy the executor was built with.
func (e *Executor) Policy() webshot.RetryPolicy {
	return e.policy
}

// Do runs operation until it succeeds, the observer aborts, or the policy's
// attempts are used up. With a disabled policy it runs exactly once and
// returns the raw error.
//
// A panic inside operation counts as a failed attempt; the panic value is
// converted with Normalize.
func Do[T any](ctx context.Context, e *Executor, operation func(ctx context.Context) (T, error)) (T, error) {
	if !e.policy.Enabled {
		return invoke(ctx, operation)
	}

	maxAttempts := e.policy.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var zero T
	var lastErr error

	for attempt := 1; ; attempt++ {
		result, err := invoke(ctx, operation)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if e.onAttempt != nil {
			if decision := e.onAttempt(attempt, lastErr); decision.Aborted() {
				return zero, decision.Err()
			}
		}

		if attempt >= maxAttempts {
			break
		}

		delay := DelayFor(attempt, e.policy.Delay, e.policy.Backoff)
		if err := e.sleep(ctx, delay); err != nil {
			return zero, err
		}
	}

	return zero, &ExhaustedError{Attempts: maxAttempts, Last: lastErr}
}

func invoke[T any](ctx context.Context, operation func(ctx context.Context) (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			result, err = zero, Normalize(r)
		}
	}()
	return operation(ctx)
}

// Normalize turns any failure value into an error. Errors pass through,
// strings become the message, nil becomes "undefined" and anything else is
// formatted with fmt.Sprint.
func Normalize(v any) error {
	switch x := v.(type) {
	case nil:
		return errors.New("undefined")
	case error:
		return x
	case string:
		return errors.New(x)
	default:
		return errors.New(fmt.Sprint(x))
	}
}

// sleepContext waits for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
