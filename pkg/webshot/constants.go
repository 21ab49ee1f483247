package webshot

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess       = 0  // Screenshot captured and saved
	ExitGeneralError  = 1  // Unknown or unclassified error
	ExitUsageError    = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic         = 3  // Internal panic (unexpected crash)
	ExitConfigError   = 10 // Invalid configuration or option values
	ExitNetworkError  = 11 // Navigation or connection failure
	ExitTimeout       = 12 // Page did not load within the timeout
	ExitCaptureFailed = 13 // Screenshot could not be taken or written
)

const (
	// DefaultTimeout bounds a single capture attempt when no timeout is given.
	DefaultTimeout = 30 * time.Second

	// DefaultRetryMaxAttempts is the default upper bound on capture attempts.
	DefaultRetryMaxAttempts = 3

	// DefaultRetryDelay is the default base delay fed to the backoff strategy.
	DefaultRetryDelay = 1000 * time.Millisecond

	// DefaultRetryBackoff is the default backoff strategy.
	DefaultRetryBackoff = BackoffExponential

	// DefaultFormat is the image format used when none is requested.
	DefaultFormat = FormatPNG

	// DefaultQuality is the JPEG quality used when none is requested.
	DefaultQuality = 80

	// DefaultWaitUntil is the navigation readiness condition used when none is requested.
	DefaultWaitUntil = WaitNetworkIdle

	// DefaultViewportWidth and DefaultViewportHeight size the browser window
	// when no viewport is requested.
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720

	// MaxScrollRounds caps how many times a full-page capture scrolls to the
	// bottom waiting for lazy content to stop growing the document.
	MaxScrollRounds = 10

	// ScrollSettleDelay is the pause after each scroll step.
	ScrollSettleDelay = 1 * time.Second
)
