package capture

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/vvka-141/webshot/internal/files/filesystem"
	"github.com/vvka-141/webshot/internal/naming"
	"github.com/vvka-141/webshot/pkg/webshot"
)

// Renderer loads a page and returns the encoded screenshot.
type Renderer interface {
	Render(ctx context.Context, opts webshot.CaptureOptions) ([]byte, error)
}

// Capturer implements webshot.Capturer on top of a Renderer and a FileSystem.
type Capturer struct {
	renderer Renderer
	fs       filesystem.FileSystem
	logger   webshot.Logger
	now      func() time.Time
}

// NewCapturer creates a Capturer.
func NewCapturer(renderer Renderer, fsys filesystem.FileSystem, logger webshot.Logger) *Capturer {
	if renderer == nil {
		panic("renderer cannot be nil")
	}
	if fsys == nil {
		panic("fsys cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return &Capturer{
		renderer: renderer,
		fs:       fsys,
		logger:   logger,
		now:      time.Now,
	}
}

// Capture renders opts.URL and writes the image. It returns the path written,
// as resolved from opts.Output.
func (c *Capturer) Capture(ctx context.Context, opts webshot.CaptureOptions) (string, error) {
	output, err := naming.ResolveOutput(opts.Output, opts.URL, opts.Format, c.now())
	if err != nil {
		return "", err
	}

	c.logger.Verbose("Rendering %s", opts.URL)
	data, err := c.renderer.Render(ctx, opts)
	if err != nil {
		return "", err
	}
	c.logger.Verbose("Rendered %d bytes", len(data))

	if dir := filepath.Dir(output); dir != "." {
		if err := c.fs.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("%v: %w", err, webshot.ErrCaptureFailed)
		}
	}

	if info, err := c.fs.Stat(output); err == nil {
		if info.IsDir() {
			return "", fmt.Errorf("output %s is a directory: %w", output, webshot.ErrCaptureFailed)
		}
		c.logger.Verbose("Overwriting existing %s", output)
	}

	if err := c.fs.WriteFile(output, data, 0644); err != nil {
		return "", fmt.Errorf("%v: %w", err, webshot.ErrCaptureFailed)
	}

	if abs, err := c.fs.Abs(output); err == nil {
		c.logger.Verbose("Wrote %s", abs)
	}
	return output, nil
}
