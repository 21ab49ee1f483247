package services

import (
	"context"
	"time"

	"github.com/vvka-141/webshot/internal/diagnostic"
	"github.com/vvka-141/webshot/internal/retry"
	"github.com/vvka-141/webshot/pkg/webshot"
)

// RetryNotice describes a failed attempt that will be retried.
type RetryNotice struct {
	Attempt     int
	MaxAttempts int
	Err         error
	Delay       time.Duration
}

// ScreenshotService runs captures under the configured retry policy and
// turns terminal failures into user-facing diagnostics.
// Safe for concurrent Take() calls if the Capturer is.
type ScreenshotService struct {
	capturer   webshot.Capturer
	classifier webshot.ErrorClassifier
	logger     webshot.Logger
	onRetry    func(RetryNotice)
}

// NewScreenshotService creates a ScreenshotService with all dependencies injected.
// Panics on nil dependencies.
func NewScreenshotService(capturer webshot.Capturer, classifier webshot.ErrorClassifier, logger webshot.Logger) *ScreenshotService {
	if capturer == nil {
		panic("capturer cannot be nil")
	}
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return &ScreenshotService{
		capturer:   capturer,
		classifier: classifier,
		logger:     logger,
	}
}

// WithRetryNotice returns a copy of the service that reports every retry to fn.
func (s *ScreenshotService) WithRetryNotice(fn func(RetryNotice)) *ScreenshotService {
	clone := *s
	clone.onRetry = fn
	return &clone
}

// Take validates opts and captures the page, retrying transient failures
// when opts.Retry is enabled. It returns the path written.
//
// Validation errors are returned as is. Capture failures are returned as
// *diagnostic.Error.
func (s *ScreenshotService) Take(ctx context.Context, opts webshot.CaptureOptions) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}

	s.logger.Verbose("Capturing %s (format=%s, fullPage=%t, waitUntil=%s, timeout=%v)",
		opts.URL, opts.Format, opts.FullPage, opts.WaitUntil, opts.EffectiveTimeout())
	if opts.Retry.Enabled {
		s.logger.Verbose("Retry enabled: %d attempts, %v base delay, %s backoff",
			opts.Retry.MaxAttempts, opts.Retry.Delay, opts.Retry.Backoff)
	}

	executor := retry.NewExecutor(opts.Retry)
	executor = executor.WithOnAttempt(s.observer(executor.Policy()))

	path, err := retry.Do(ctx, executor, func(ctx context.Context) (string, error) {
		return s.capturer.Capture(ctx, opts)
	})
	if err != nil {
		return "", diagnostic.Wrap(err, diagnostic.RequestFor(opts))
	}

	return path, nil
}

// observer aborts on errors the classifier rejects and reports the rest.
func (s *ScreenshotService) observer(policy webshot.RetryPolicy) retry.AttemptObserver {
	return func(attempt int, err error) retry.Decision {
		if !s.classifier.IsRetryable(err) {
			s.logger.Verbose("Attempt %d failed with a non-retryable error: %v", attempt, err)
			return retry.Abort(err)
		}

		if attempt >= policy.MaxAttempts {
			s.logger.Verbose("Attempt %d/%d failed: %v", attempt, policy.MaxAttempts, err)
			return retry.Continue()
		}

		delay := retry.DelayFor(attempt, policy.Delay, policy.Backoff)
		s.logger.Verbose("Attempt %d/%d failed: %v. Retrying in %v", attempt, policy.MaxAttempts, err, delay)
		if s.onRetry != nil {
			s.onRetry(RetryNotice{
				Attempt:     attempt,
				MaxAttempts: policy.MaxAttempts,
				Err:         err,
				Delay:       delay,
			})
		}
		return retry.Continue()
	}
}
