package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/webshot/internal/capture"
	"github.com/vvka-141/webshot/internal/config"
	"github.com/vvka-141/webshot/internal/files/filesystem"
	"github.com/vvka-141/webshot/internal/logging"
	"github.com/vvka-141/webshot/internal/retry"
	"github.com/vvka-141/webshot/internal/services"
	"github.com/vvka-141/webshot/internal/tui"
	"github.com/vvka-141/webshot/internal/viewport"
	"github.com/vvka-141/webshot/pkg/webshot"
)

type captureFlagValues struct {
	output, waitFor, waitUntil, viewport, format string
	timeout, wait, quality                       int
	noFullPage                                   bool
	retry                                        bool
	retryAttempts, retryDelay                    int
	retryBackoff                                 string
	chromePath, remoteURL                        string
	configPath                                   string
}

var captureFlags captureFlagValues

// newCapturer builds the capture pipeline. Tests replace it to avoid a browser.
var newCapturer = func(browser capture.BrowserConfig, logger webshot.Logger) webshot.Capturer {
	renderer := capture.NewChromeRenderer(browser, logger)
	return capture.NewCapturer(renderer, filesystem.NewOSFileSystem(), logger)
}

func init() {
	addCaptureFlags(rootCmd, &captureFlags)
}

func addCaptureFlags(cmd *cobra.Command, f *captureFlagValues) {
	flags := cmd.Flags()

	flags.StringVarP(&f.output, "output", "o", "",
		"Output file path. Supports {timestamp}, {date}, {time}, {domain}, {format} and {id}.\n"+
			"Default: screenshot-<timestamp>.<format> in the current directory")
	flags.IntVarP(&f.timeout, "timeout", "t", int(webshot.DefaultTimeout/time.Second),
		"Page load timeout in seconds")
	flags.IntVarP(&f.wait, "wait", "w", 0,
		"Additional wait after page load in seconds")
	flags.StringVar(&f.waitFor, "wait-for", "",
		"CSS selector that must be visible before capturing")
	flags.StringVar(&f.waitUntil, "wait-until", string(webshot.DefaultWaitUntil),
		"Navigation readiness condition: networkidle or load")
	flags.BoolVar(&f.noFullPage, "no-full-page", false,
		"Capture only the viewport")
	flags.StringVar(&f.viewport, "viewport", "",
		"Viewport size as WIDTHxHEIGHT or a preset (desktop, tablet, mobile)")
	flags.StringVarP(&f.format, "format", "f", string(webshot.DefaultFormat),
		"Image format: png or jpeg")
	flags.IntVarP(&f.quality, "quality", "q", webshot.DefaultQuality,
		"JPEG quality (0-100)")

	flags.BoolVar(&f.retry, "retry", false,
		"Retry transient failures (network errors, timeouts)")
	flags.IntVar(&f.retryAttempts, "retry-attempts", webshot.DefaultRetryMaxAttempts,
		"Maximum number of attempts when --retry is set")
	flags.IntVar(&f.retryDelay, "retry-delay", int(webshot.DefaultRetryDelay/time.Millisecond),
		"Base delay between attempts in milliseconds")
	flags.StringVar(&f.retryBackoff, "retry-backoff", string(webshot.DefaultRetryBackoff),
		"Backoff strategy: exponential, linear or fixed")

	flags.StringVar(&f.chromePath, "chrome-path", "",
		"Chrome/Chromium executable.\n"+
			"Alternative: WEBSHOT_CHROME_PATH or CHROME_PATH environment variable")
	flags.StringVar(&f.remoteURL, "remote-url", "",
		"DevTools URL of a running browser, e.g. http://127.0.0.1:9222.\n"+
			"Alternative: WEBSHOT_REMOTE_URL environment variable")
	flags.StringVar(&f.configPath, "config", "",
		"Config file (default: ./webshot.yaml when present)")

	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	_ = cmd.RegisterFlagCompletionFunc("retry-backoff", completeBackoffStrategies)
	_ = cmd.RegisterFlagCompletionFunc("wait-until", completeWaitStrategies)
	_ = cmd.RegisterFlagCompletionFunc("viewport", completeViewports)
	_ = cmd.RegisterFlagCompletionFunc("config", completeConfigFiles)
}

func runCapture(cmd *cobra.Command, args []string) error {
	return runCaptureWith(cmd, &captureFlags, args)
}

func runCaptureWith(cmd *cobra.Command, f *captureFlagValues, args []string) error {
	_ = godotenv.Load()

	logger := logging.NewConsoleLogger(getVerboseFlag(cmd))

	opts, browser, err := resolveCaptureOptions(cmd, f, args[0], os.Getenv)
	if err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	// Handle interrupt signals (Ctrl+C, SIGTERM) so the browser is shut down
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\n[INTERRUPT] Received interrupt signal, cancelling capture...")
			cancel()
		case <-ctx.Done():
		}
	}()

	svc := services.NewScreenshotService(newCapturer(browser, logger), retry.NewMessageClassifier(), logger)

	var path string
	if logger.IsVerbose() {
		path, err = svc.Take(ctx, opts)
	} else {
		path, err = tui.RunWithSpinner(ctx, "Capturing "+opts.URL, "Captured "+opts.URL, "Capture failed",
			func(ctx context.Context, status func(string)) (string, error) {
				return svc.WithRetryNotice(func(n services.RetryNotice) {
					status(fmt.Sprintf("(attempt %d/%d failed, retrying in %v)",
						n.Attempt, n.MaxAttempts, n.Delay))
				}).Take(ctx, opts)
			})
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), tui.SavedLine(path))
	return nil
}

// resolveCaptureOptions merges defaults, the config file and explicitly set
// flags, in that order. Browser settings fall back to the environment last.
func resolveCaptureOptions(cmd *cobra.Command, f *captureFlagValues, rawURL string, getenv func(string) string) (webshot.CaptureOptions, capture.BrowserConfig, error) {
	opts := webshot.DefaultCaptureOptions(rawURL)
	var browser capture.BrowserConfig

	projectCfg, err := loadProjectConfig(f.configPath)
	if err != nil {
		return opts, browser, err
	}
	if projectCfg != nil {
		if err := projectCfg.ApplyTo(&opts); err != nil {
			return opts, browser, err
		}
		browser.ExecPath = projectCfg.Browser.ChromePath
		browser.RemoteURL = projectCfg.Browser.RemoteURL
	}

	if err := applyCaptureFlags(cmd, f, &opts); err != nil {
		return opts, browser, err
	}

	changed := cmd.Flags().Changed
	if changed("chrome-path") {
		browser.ExecPath = f.chromePath
	}
	if changed("remote-url") {
		browser.RemoteURL = f.remoteURL
	}

	return opts, browser.WithEnv(getenv), nil
}

func loadProjectConfig(path string) (*config.ProjectConfig, error) {
	if path != "" {
		cfg, err := config.LoadFile(path)
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, webshot.Invalid(webshot.ErrInvalidConfig, "config file %s not found", path)
		}
		return cfg, err
	}

	cfg, err := config.Load(".")
	if errors.Is(err, config.ErrConfigNotFound) {
		return nil, nil
	}
	return cfg, err
}

// applyCaptureFlags copies only the flags the user set, so unset flags never
// mask config file values.
func applyCaptureFlags(cmd *cobra.Command, f *captureFlagValues, opts *webshot.CaptureOptions) error {
	changed := cmd.Flags().Changed
	var errs []error

	if changed("output") {
		opts.Output = f.output
	}
	if changed("timeout") {
		if f.timeout <= 0 {
			errs = append(errs, webshot.Invalid(webshot.ErrInvalidConfig, "Timeout must be greater than 0"))
		} else {
			opts.Timeout = time.Duration(f.timeout) * time.Second
		}
	}
	if changed("wait") {
		if f.wait < 0 {
			errs = append(errs, webshot.Invalid(webshot.ErrInvalidConfig, "Wait time cannot be negative"))
		} else {
			opts.Wait = time.Duration(f.wait) * time.Second
		}
	}
	if changed("wait-for") {
		opts.WaitFor = f.waitFor
	}
	if changed("wait-until") {
		opts.WaitUntil = webshot.WaitStrategy(f.waitUntil)
	}
	if changed("no-full-page") {
		opts.FullPage = !f.noFullPage
	}
	if changed("viewport") {
		vp, err := viewport.Parse(f.viewport)
		if err != nil {
			errs = append(errs, err)
		} else {
			opts.Viewport = &vp
		}
	}
	if changed("format") {
		opts.Format = webshot.Format(f.format)
	}
	if changed("quality") {
		opts.Quality = f.quality
	}

	if changed("retry") {
		opts.Retry.Enabled = f.retry
	}
	if changed("retry-attempts") {
		opts.Retry.MaxAttempts = f.retryAttempts
	}
	if changed("retry-delay") {
		opts.Retry.Delay = time.Duration(f.retryDelay) * time.Millisecond
	}
	if changed("retry-backoff") {
		opts.Retry.Backoff = webshot.BackoffStrategy(f.retryBackoff)
	}

	return webshot.JoinErrors(errs...)
}
