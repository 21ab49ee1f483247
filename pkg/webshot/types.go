package webshot

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Format is the encoded image format of the screenshot.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// Formats lists the supported image formats.
var Formats = []Format{FormatPNG, FormatJPEG}

// WaitStrategy is the lifecycle condition that marks navigation as finished.
type WaitStrategy string

const (
	// WaitLoad finishes on the page load event.
	WaitLoad WaitStrategy = "load"
	// WaitNetworkIdle finishes once the network has been idle after load.
	WaitNetworkIdle WaitStrategy = "networkidle"
)

// WaitStrategies lists the supported wait strategies.
var WaitStrategies = []WaitStrategy{WaitNetworkIdle, WaitLoad}

// Viewport is the emulated browser window size in CSS pixels.
type Viewport struct {
	Width  int
	Height int
}

func (v Viewport) String() string {
	return fmt.Sprintf("%dx%d", v.Width, v.Height)
}

// CaptureOptions contains everything needed for one screenshot invocation.
type CaptureOptions struct {
	// URL is the page to capture.
	URL string

	// Output is the destination path. It may contain {placeholders};
	// empty means a generated name in the working directory.
	Output string

	// Timeout bounds a single attempt. Zero means DefaultTimeout.
	Timeout time.Duration

	// Wait is an additional pause after the page is ready.
	Wait time.Duration

	// WaitFor is an optional CSS selector that must become visible.
	WaitFor string

	// WaitUntil selects the navigation readiness condition.
	WaitUntil WaitStrategy

	// FullPage captures the whole scrollable document instead of the viewport.
	FullPage bool

	// Viewport overrides the browser window size when set.
	Viewport *Viewport

	// Format is the image encoding.
	Format Format

	// Quality is the JPEG compression quality (0-100). Ignored for PNG.
	Quality int

	// Retry controls automatic retries of transient failures.
	Retry RetryPolicy
}

// DefaultCaptureOptions returns options with every default applied.
func DefaultCaptureOptions(rawURL string) CaptureOptions {
	return CaptureOptions{
		URL:       rawURL,
		Timeout:   DefaultTimeout,
		WaitUntil: DefaultWaitUntil,
		FullPage:  true,
		Format:    DefaultFormat,
		Quality:   DefaultQuality,
		Retry:     DefaultRetryPolicy(),
	}
}

// EffectiveTimeout returns the explicit timeout or DefaultTimeout.
func (o CaptureOptions) EffectiveTimeout() time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}
	return DefaultTimeout
}

// Validate checks every option and returns all violations on one line.
func (o *CaptureOptions) Validate() error {
	var errs []error

	if err := ValidateURL(o.URL); err != nil {
		errs = append(errs, err)
	}

	if o.Format != FormatPNG && o.Format != FormatJPEG {
		errs = append(errs, Invalid(ErrInvalidConfig, "Invalid format %q. Must be \"png\" or \"jpeg\"", o.Format))
	}

	if o.Format == FormatJPEG && (o.Quality < 0 || o.Quality > 100) {
		errs = append(errs, Invalid(ErrInvalidConfig, "JPEG quality must be between 0 and 100"))
	}

	if o.Timeout < 0 {
		errs = append(errs, Invalid(ErrInvalidConfig, "Timeout must be greater than 0"))
	}

	if o.Wait < 0 {
		errs = append(errs, Invalid(ErrInvalidConfig, "Wait time cannot be negative"))
	}

	if o.WaitUntil != WaitLoad && o.WaitUntil != WaitNetworkIdle {
		errs = append(errs, Invalid(ErrInvalidConfig, "Invalid wait strategy %q. Must be \"load\" or \"networkidle\"", o.WaitUntil))
	}

	if o.Viewport != nil && (o.Viewport.Width <= 0 || o.Viewport.Height <= 0) {
		errs = append(errs, Invalid(ErrInvalidConfig, "Viewport dimensions must be positive numbers"))
	}

	if err := o.Retry.Validate(); err != nil {
		errs = append(errs, err)
	}

	return JoinErrors(errs...)
}

// Validate checks the policy bounds and returns all violations on one line.
func (p RetryPolicy) Validate() error {
	var errs []error

	if p.MaxAttempts <= 0 {
		errs = append(errs, Invalid(ErrInvalidConfig, "Retry attempts must be greater than 0"))
	}

	if p.Delay < 0 {
		errs = append(errs, Invalid(ErrInvalidConfig, "Retry delay cannot be negative"))
	}

	if !p.Backoff.Valid() {
		errs = append(errs, Invalid(ErrInvalidConfig, "Invalid retry backoff strategy %q. Must be one of: %s",
			p.Backoff, joinStrategies()))
	}

	return JoinErrors(errs...)
}

// ValidateURL accepts absolute URLs. http(s) URLs must also carry a host.
func ValidateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" {
		return Invalid(ErrInvalidURL, "Invalid URL: %s", raw)
	}
	if (u.Scheme == "http" || u.Scheme == "https") && u.Host == "" {
		return Invalid(ErrInvalidURL, "Invalid URL: %s", raw)
	}
	return nil
}

func joinStrategies() string {
	names := make([]string, len(BackoffStrategies))
	for i, s := range BackoffStrategies {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// Capturer performs one screenshot attempt and returns the written path.
type Capturer interface {
	Capture(ctx context.Context, opts CaptureOptions) (string, error)
}
