package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/vvka-141/webshot/internal/capture"
	"github.com/vvka-141/webshot/pkg/webshot"
)

type scriptedCapturer struct {
	errs  []error
	calls int
	opts  webshot.CaptureOptions
}

func (s *scriptedCapturer) Capture(ctx context.Context, opts webshot.CaptureOptions) (string, error) {
	s.calls++
	s.opts = opts
	if s.calls <= len(s.errs) {
		return "", s.errs[s.calls-1]
	}
	if opts.Output != "" {
		return opts.Output, nil
	}
	return "screenshot.png", nil
}

func stubCapturer(t *testing.T, c webshot.Capturer) *capture.BrowserConfig {
	t.Helper()
	original := newCapturer
	var got capture.BrowserConfig
	newCapturer = func(browser capture.BrowserConfig, _ webshot.Logger) webshot.Capturer {
		got = browser
		return c
	}
	t.Cleanup(func() { newCapturer = original })
	return &got
}

func newTestCommand(f *captureFlagValues) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "webshot <url>",
		Args:          RequireURL,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCaptureWith(cmd, f, args)
		},
	}
	cmd.Flags().BoolP("verbose", "v", false, "")
	addCaptureFlags(cmd, f)
	return cmd
}

func execute(t *testing.T, argv ...string) (string, error) {
	t.Helper()
	var f captureFlagValues
	cmd := newTestCommand(&f)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(argv)
	err := cmd.Execute()
	return out.String(), err
}

// isolate runs the test from an empty directory with no browser settings in
// the environment, so a stray webshot.yaml or .env cannot leak in.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, key := range []string{capture.EnvChromePath, capture.EnvRemoteURL, capture.EnvChromePathCompat} {
		t.Setenv(key, "")
	}
	return dir
}

func parseFlags(t *testing.T, argv ...string) (*cobra.Command, *captureFlagValues) {
	t.Helper()
	f := &captureFlagValues{}
	cmd := newTestCommand(f)
	if err := cmd.ParseFlags(argv); err != nil {
		t.Fatalf("ParseFlags(%v) failed: %v", argv, err)
	}
	return cmd, f
}

func noEnv(string) string { return "" }

func TestRootCmd_ArgsValidation(t *testing.T) {
	err := rootCmd.Args(rootCmd, []string{})
	if err == nil {
		t.Fatal("Expected error for missing args")
	}
	exitCode := webshot.ExitCodeForError(err)
	if exitCode != webshot.ExitUsageError {
		t.Errorf("Expected exit code %d (usage), got %d for: %v", webshot.ExitUsageError, exitCode, err)
	}
}

func TestRootCmd_ArgsValidation_TooMany(t *testing.T) {
	err := rootCmd.Args(rootCmd, []string{"a", "b"})
	if err == nil {
		t.Fatal("Expected error for too many args")
	}
}

func TestRootCmd_RegistersVersion(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"version"})
	if err != nil {
		t.Fatalf("Find(version) failed: %v", err)
	}
	if cmd != versionCmd {
		t.Errorf("expected version subcommand, got %s", cmd.Name())
	}
}

func TestResolveCaptureOptions_Defaults(t *testing.T) {
	isolate(t)
	cmd, f := parseFlags(t)

	opts, browser, err := resolveCaptureOptions(cmd, f, "https://example.com", noEnv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := webshot.DefaultCaptureOptions("https://example.com")
	if opts.Timeout != want.Timeout || opts.Format != want.Format || opts.WaitUntil != want.WaitUntil {
		t.Errorf("expected defaults, got %+v", opts)
	}
	if !opts.FullPage {
		t.Error("full page should be the default")
	}
	if opts.Retry.Enabled {
		t.Error("retry should be disabled by default")
	}
	if browser != (capture.BrowserConfig{}) {
		t.Errorf("expected empty browser config, got %+v", browser)
	}
}

func TestResolveCaptureOptions_Flags(t *testing.T) {
	isolate(t)
	cmd, f := parseFlags(t,
		"-o", "shots/{domain}.jpeg",
		"-t", "5",
		"-w", "2",
		"--wait-for", "#app",
		"--wait-until", "load",
		"--no-full-page",
		"--viewport", "mobile",
		"-f", "jpeg",
		"-q", "60",
		"--retry",
		"--retry-attempts", "4",
		"--retry-delay", "250",
		"--retry-backoff", "linear",
	)

	opts, _, err := resolveCaptureOptions(cmd, f, "https://example.com", noEnv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if opts.Output != "shots/{domain}.jpeg" {
		t.Errorf("output = %q", opts.Output)
	}
	if opts.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", opts.Timeout)
	}
	if opts.Wait != 2*time.Second {
		t.Errorf("wait = %v, want 2s", opts.Wait)
	}
	if opts.WaitFor != "#app" || opts.WaitUntil != webshot.WaitLoad {
		t.Errorf("wait-for/wait-until = %q/%q", opts.WaitFor, opts.WaitUntil)
	}
	if opts.FullPage {
		t.Error("--no-full-page should disable full page")
	}
	if opts.Viewport == nil || *opts.Viewport != (webshot.Viewport{Width: 375, Height: 667}) {
		t.Errorf("viewport = %v", opts.Viewport)
	}
	if opts.Format != webshot.FormatJPEG || opts.Quality != 60 {
		t.Errorf("format/quality = %s/%d", opts.Format, opts.Quality)
	}
	wantRetry := webshot.RetryPolicy{Enabled: true, MaxAttempts: 4, Delay: 250 * time.Millisecond, Backoff: webshot.BackoffLinear}
	if opts.Retry != wantRetry {
		t.Errorf("retry = %+v, want %+v", opts.Retry, wantRetry)
	}
}

func TestResolveCaptureOptions_ConfigFileThenFlags(t *testing.T) {
	dir := isolate(t)
	yaml := `timeout: 10s
format: jpeg
quality: 50
retry:
  enabled: true
  attempts: 5
browser:
  chrome_path: /opt/chrome
`
	if err := os.WriteFile(filepath.Join(dir, "webshot.yaml"), []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cmd, f := parseFlags(t, "-f", "png", "--retry-attempts", "2")
	opts, browser, err := resolveCaptureOptions(cmd, f, "https://example.com", noEnv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if opts.Timeout != 10*time.Second {
		t.Errorf("timeout from config = %v, want 10s", opts.Timeout)
	}
	if opts.Format != webshot.FormatPNG {
		t.Errorf("flag should override config format, got %s", opts.Format)
	}
	if opts.Quality != 50 {
		t.Errorf("quality from config = %d, want 50", opts.Quality)
	}
	if !opts.Retry.Enabled || opts.Retry.MaxAttempts != 2 {
		t.Errorf("retry = %+v, want enabled with 2 attempts", opts.Retry)
	}
	if browser.ExecPath != "/opt/chrome" {
		t.Errorf("chrome path from config = %q", browser.ExecPath)
	}
}

func TestResolveCaptureOptions_ExplicitConfigMissing(t *testing.T) {
	isolate(t)
	cmd, f := parseFlags(t, "--config", "nope.yaml")

	_, _, err := resolveCaptureOptions(cmd, f, "https://example.com", noEnv)
	if !errors.Is(err, webshot.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if !strings.Contains(err.Error(), "nope.yaml") {
		t.Errorf("error should name the file, got %v", err)
	}
}

func TestResolveCaptureOptions_BrowserPrecedence(t *testing.T) {
	isolate(t)
	env := map[string]string{
		capture.EnvChromePath: "/env/chrome",
		capture.EnvRemoteURL:  "http://env:9222",
	}
	getenv := func(k string) string { return env[k] }

	t.Run("environment fills unset values", func(t *testing.T) {
		cmd, f := parseFlags(t)
		_, browser, err := resolveCaptureOptions(cmd, f, "https://example.com", getenv)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if browser.ExecPath != "/env/chrome" || browser.RemoteURL != "http://env:9222" {
			t.Errorf("browser = %+v", browser)
		}
	})

	t.Run("flags win over environment", func(t *testing.T) {
		cmd, f := parseFlags(t, "--chrome-path", "/flag/chrome", "--remote-url", "http://flag:9222")
		_, browser, err := resolveCaptureOptions(cmd, f, "https://example.com", getenv)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if browser.ExecPath != "/flag/chrome" || browser.RemoteURL != "http://flag:9222" {
			t.Errorf("browser = %+v", browser)
		}
	})
}

func TestApplyCaptureFlags_Invalid(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want string
	}{
		{"zero timeout", []string{"-t", "0"}, "Timeout must be greater than 0"},
		{"negative wait", []string{"--wait=-1"}, "Wait time cannot be negative"},
		{"bad viewport", []string{"--viewport", "huge"}, "Invalid viewport format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, f := parseFlags(t, tt.argv...)
			opts := webshot.DefaultCaptureOptions("https://example.com")

			err := applyCaptureFlags(cmd, f, &opts)
			if !errors.Is(err, webshot.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected %q in %q", tt.want, err.Error())
			}
		})
	}
}

func TestApplyCaptureFlags_SeveralInvalidOnOneLine(t *testing.T) {
	cmd, f := parseFlags(t, "-t", "0", "--wait=-1", "--viewport", "huge")
	opts := webshot.DefaultCaptureOptions("https://example.com")

	err := applyCaptureFlags(cmd, f, &opts)
	if !errors.Is(err, webshot.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	want := "Timeout must be greater than 0; Wait time cannot be negative; Invalid viewport format"
	if !strings.HasPrefix(err.Error(), want) {
		t.Errorf("expected prefix %q, got %q", want, err.Error())
	}
	if strings.Contains(err.Error(), "\n") {
		t.Errorf("message spans several lines: %q", err.Error())
	}
}

func TestRunCapture_SeveralInvalidOptionsOnOneLine(t *testing.T) {
	isolate(t)
	c := &scriptedCapturer{}
	stubCapturer(t, c)

	_, err := execute(t, "https://example.com", "-f", "gif", "--retry-backoff", "random", "--wait-until", "x")
	if !errors.Is(err, webshot.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	msg := err.Error()
	if strings.Contains(msg, "\n") {
		t.Fatalf("message spans several lines: %q", msg)
	}
	for _, want := range []string{`Invalid format "gif"`, `Invalid wait strategy "x"`, `Invalid retry backoff strategy "random"`} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}
	if strings.Contains(msg, webshot.ErrInvalidConfig.Error()) {
		t.Errorf("sentinel text leaked into %q", msg)
	}
	if code := webshot.ExitCodeForError(err); code != webshot.ExitConfigError {
		t.Errorf("expected exit code %d, got %d", webshot.ExitConfigError, code)
	}
	if c.calls != 0 {
		t.Errorf("capture should not run, got %d calls", c.calls)
	}
}

func TestRunCapture_PrintsSavedPath(t *testing.T) {
	isolate(t)
	c := &scriptedCapturer{}
	stubCapturer(t, c)

	out, err := execute(t, "https://example.com", "-o", "out.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "Screenshot saved to: out.png" {
		t.Errorf("unexpected output: %q", out)
	}
	if c.calls != 1 {
		t.Errorf("expected 1 capture, got %d", c.calls)
	}
}

func TestRunCapture_VerboseRetriesWithoutSpinner(t *testing.T) {
	isolate(t)
	c := &scriptedCapturer{errs: []error{errors.New("net::ERR_CONNECTION_RESET")}}
	stubCapturer(t, c)

	out, err := execute(t, "https://example.com", "-v", "-o", "out.png", "--retry", "--retry-delay", "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "Screenshot saved to: out.png" {
		t.Errorf("unexpected output: %q", out)
	}
	if c.calls != 2 {
		t.Errorf("expected 2 captures, got %d", c.calls)
	}
}

func TestRunCapture_RetriesTransientFailures(t *testing.T) {
	isolate(t)
	transient := errors.New("net::ERR_CONNECTION_REFUSED at https://example.com")
	c := &scriptedCapturer{errs: []error{transient, transient}}
	stubCapturer(t, c)

	out, err := execute(t, "https://example.com", "-o", "out.png",
		"--retry", "--retry-attempts", "3", "--retry-delay", "1", "--retry-backoff", "fixed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.calls != 3 {
		t.Errorf("expected 3 captures, got %d", c.calls)
	}
	if !strings.Contains(out, "out.png") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestRunCapture_NetworkErrorWithoutRetry(t *testing.T) {
	isolate(t)
	c := &scriptedCapturer{errs: []error{errors.New("net::ERR_NAME_NOT_RESOLVED at https://nope.invalid")}}
	stubCapturer(t, c)

	out, err := execute(t, "https://nope.invalid")
	if err == nil {
		t.Fatal("expected error")
	}
	if out != "" {
		t.Errorf("nothing should be printed to stdout, got %q", out)
	}
	if !strings.HasPrefix(err.Error(), "Network error:") {
		t.Errorf("expected network error message, got %q", err.Error())
	}
	if code := webshot.ExitCodeForError(err); code != webshot.ExitNetworkError {
		t.Errorf("expected exit code %d, got %d", webshot.ExitNetworkError, code)
	}
	if c.calls != 1 {
		t.Errorf("expected 1 capture, got %d", c.calls)
	}
}

func TestRunCapture_InvalidURLSkipsCapture(t *testing.T) {
	isolate(t)
	c := &scriptedCapturer{}
	stubCapturer(t, c)

	_, err := execute(t, "not a url")
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "Invalid URL: not a url" {
		t.Errorf("expected bare invalid URL message, got %q", err.Error())
	}
	if code := webshot.ExitCodeForError(err); code != webshot.ExitConfigError {
		t.Errorf("expected exit code %d, got %d", webshot.ExitConfigError, code)
	}
	if c.calls != 0 {
		t.Errorf("capture should not run, got %d calls", c.calls)
	}
}

func TestRunCapture_InvalidBackoff(t *testing.T) {
	isolate(t)
	stubCapturer(t, &scriptedCapturer{})

	_, err := execute(t, "https://example.com", "--retry", "--retry-backoff", "random")
	if !errors.Is(err, webshot.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if !strings.Contains(err.Error(), `Invalid retry backoff strategy "random"`) {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestRunCapture_PassesBrowserConfig(t *testing.T) {
	isolate(t)
	got := stubCapturer(t, &scriptedCapturer{})

	if _, err := execute(t, "https://example.com", "--remote-url", "http://127.0.0.1:9222"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.RemoteURL != "http://127.0.0.1:9222" {
		t.Errorf("remote URL not passed through, got %+v", *got)
	}
}
