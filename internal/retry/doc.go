// Package retry provides the bounded attempt loop used to retry screenshot
// captures that fail for transient reasons.
//
// The package is split into three independent pieces:
//
//   - DelayFor computes the pause between attempts for the fixed, linear and
//     exponential backoff strategies.
//   - MessageClassifier decides from an error's message whether the failure
//     looks transient (timeouts, connection and navigation failures).
//   - Executor drives the attempts. It knows nothing about which errors are
//     retryable; callers inject that through an AttemptObserver returning
//     Continue() or Abort(err).
//
// # Example Usage
//
//	classifier := retry.NewMessageClassifier()
//	executor := retry.NewExecutor(policy).WithOnAttempt(
//	    func(attempt int, err error) retry.Decision {
//	        if !classifier.IsRetryable(err) {
//	            return retry.Abort(err)
//	        }
//	        return retry.Continue()
//	    })
//
//	path, err := retry.Do(ctx, executor, func(ctx context.Context) (string, error) {
//	    return capturer.Capture(ctx, opts)
//	})
//
// # Terminal Errors
//
// Exactly one error leaves the loop. When every attempt failed and the
// observer never aborted, it is an *ExhaustedError reading
// "Failed after N attempts: <last message>". When the observer aborts, the
// error it passed to Abort is returned unchanged. A disabled policy makes a
// single attempt and returns its error unchanged.
//
// # Thread Safety
//
// Executor instances are safe for concurrent use. WithOnAttempt returns a
// copy and never modifies the receiver.
package retry
