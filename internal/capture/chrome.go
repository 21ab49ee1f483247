package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/vvka-141/webshot/pkg/webshot"
)

const (
	scrollToBottomJS = `window.scrollTo(0, document.body.scrollHeight)`
	scrollToTopJS    = `window.scrollTo(0, 0)`
	scrollHeightJS   = `document.documentElement.scrollHeight`
)

// ChromeRenderer renders pages with a headless Chrome driven by chromedp.
// Every Render call starts (or attaches to) a browser and tears it down
// before returning.
type ChromeRenderer struct {
	cfg          BrowserConfig
	logger       webshot.Logger
	finder       browserFinder
	settleDelay  time.Duration
	scrollRounds int
}

// NewChromeRenderer creates a renderer for cfg.
func NewChromeRenderer(cfg BrowserConfig, logger webshot.Logger) *ChromeRenderer {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &ChromeRenderer{
		cfg:          cfg,
		logger:       logger,
		finder:       defaultFinder(),
		settleDelay:  webshot.ScrollSettleDelay,
		scrollRounds: webshot.MaxScrollRounds,
	}
}

// Render navigates to opts.URL and returns the encoded screenshot.
//
// opts.Timeout bounds navigation and the selector wait. When it runs out the
// error reads "navigation timeout of <N>ms exceeded".
func (r *ChromeRenderer) Render(ctx context.Context, opts webshot.CaptureOptions) ([]byte, error) {
	allocCtx, cancelAlloc, err := r.allocator(ctx, opts)
	if err != nil {
		return nil, err
	}
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(r.logger.Verbose),
		chromedp.WithErrorf(r.logger.Verbose),
	)
	defer cancelBrowser()

	var buf []byte
	if err := chromedp.Run(browserCtx, r.tasks(opts, &buf)); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return buf, nil
}

func (r *ChromeRenderer) allocator(ctx context.Context, opts webshot.CaptureOptions) (context.Context, context.CancelFunc, error) {
	if r.cfg.RemoteURL != "" {
		r.logger.Verbose("Using remote browser at %s", r.cfg.RemoteURL)
		allocCtx, cancel := chromedp.NewRemoteAllocator(ctx, r.cfg.RemoteURL)
		return allocCtx, cancel, nil
	}

	execPath, err := r.finder.find(r.cfg.ExecPath)
	if err != nil {
		return nil, nil, err
	}
	r.logger.Verbose("Using Chrome executable at %s", execPath)

	width, height := windowSize(opts)
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(execPath),
		chromedp.WindowSize(width, height),
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Flag("hide-scrollbars", true),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	return allocCtx, cancel, nil
}

func windowSize(opts webshot.CaptureOptions) (int, int) {
	if opts.Viewport != nil {
		return opts.Viewport.Width, opts.Viewport.Height
	}
	return webshot.DefaultViewportWidth, webshot.DefaultViewportHeight
}

func (r *ChromeRenderer) tasks(opts webshot.CaptureOptions, buf *[]byte) chromedp.Tasks {
	width, height := windowSize(opts)
	timeout := opts.EffectiveTimeout()

	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(width), int64(height)),
		withTimeout(timeout, navigate(opts.URL, opts.WaitUntil)),
	}

	if opts.WaitFor != "" {
		tasks = append(tasks, withTimeout(timeout, chromedp.WaitVisible(opts.WaitFor, chromedp.ByQuery)))
	}

	if opts.Wait > 0 {
		tasks = append(tasks, chromedp.Sleep(opts.Wait))
	}

	if opts.FullPage {
		tasks = append(tasks, r.scrollThrough())
	}

	tasks = append(tasks, screenshot(opts, buf))
	return tasks
}

// withTimeout bounds action by d and reports an expired deadline as a
// navigation timeout.
func withTimeout(d time.Duration, action chromedp.Action) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		tctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()

		err := action.Do(tctx)
		if err != nil && ctx.Err() == nil && errors.Is(tctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("navigation timeout of %dms exceeded", d.Milliseconds())
		}
		return err
	}
}

// navigate loads url and waits for the requested lifecycle event.
func navigate(url string, until webshot.WaitStrategy) chromedp.Action {
	if until != webshot.WaitNetworkIdle {
		return chromedp.Navigate(url)
	}

	return chromedp.ActionFunc(func(ctx context.Context) error {
		var (
			mu   sync.Mutex
			idle = make(map[cdp.LoaderID]bool)
		)
		changed := make(chan struct{}, 1)

		lctx, cancel := context.WithCancel(ctx)
		defer cancel()

		chromedp.ListenTarget(lctx, func(ev any) {
			e, ok := ev.(*page.EventLifecycleEvent)
			if !ok || e.Name != "networkIdle" {
				return
			}
			mu.Lock()
			idle[e.LoaderID] = true
			mu.Unlock()
			select {
			case changed <- struct{}{}:
			default:
			}
		})

		if err := page.SetLifecycleEventsEnabled(true).Do(ctx); err != nil {
			return err
		}

		_, loaderID, errorText, _, err := page.Navigate(url).Do(ctx)
		switch {
		case err != nil:
			return err
		case errorText != "":
			return fmt.Errorf("page load error %s", errorText)
		case loaderID == "":
			// Same-document navigation; nothing to wait for.
			return nil
		}

		for {
			mu.Lock()
			done := idle[loaderID]
			mu.Unlock()
			if done {
				return nil
			}

			select {
			case <-changed:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})
}

// scrollThrough scrolls to the bottom until the document stops growing, so
// lazily loaded content is present, then returns to the top.
func (r *ChromeRenderer) scrollThrough() chromedp.ActionFunc {
	return func(ctx context.Context) error {
		var previous float64
		if err := chromedp.Evaluate(scrollHeightJS, &previous).Do(ctx); err != nil {
			return err
		}

		for round := 0; round < r.scrollRounds; round++ {
			if err := chromedp.Evaluate(scrollToBottomJS, nil).Do(ctx); err != nil {
				return err
			}
			if err := chromedp.Sleep(r.settleDelay).Do(ctx); err != nil {
				return err
			}

			var current float64
			if err := chromedp.Evaluate(scrollHeightJS, &current).Do(ctx); err != nil {
				return err
			}
			if current == previous {
				break
			}
			previous = current
		}

		if err := chromedp.Evaluate(scrollToTopJS, nil).Do(ctx); err != nil {
			return err
		}
		return chromedp.Sleep(r.settleDelay).Do(ctx)
	}
}

func screenshot(opts webshot.CaptureOptions, buf *[]byte) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		params := page.CaptureScreenshot().WithFromSurface(true)

		if opts.Format == webshot.FormatJPEG {
			params = params.WithFormat(page.CaptureScreenshotFormatJpeg).WithQuality(int64(opts.Quality))
		} else {
			params = params.WithFormat(page.CaptureScreenshotFormatPng)
		}

		if opts.FullPage {
			_, _, _, _, _, cssContentSize, err := page.GetLayoutMetrics().Do(ctx)
			if err != nil {
				return err
			}
			params = params.WithCaptureBeyondViewport(true).WithClip(&page.Viewport{
				Width:  cssContentSize.Width,
				Height: cssContentSize.Height,
				Scale:  1,
			})
		}

		data, err := params.Do(ctx)
		if err != nil {
			return fmt.Errorf("failed to capture screenshot: %w", err)
		}
		*buf = data
		return nil
	}
}
