//go:build browsertest

package capture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/webshot/internal/logging"
	"github.com/vvka-141/webshot/internal/retry"
	"github.com/vvka-141/webshot/internal/testinfra"
	"github.com/vvka-141/webshot/pkg/webshot"
)

var chrome *testinfra.ChromeContainer

func TestMain(m *testing.M) {
	ctx := context.Background()

	ctr, err := testinfra.StartChrome(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "start chrome: %v\n", err)
		os.Exit(1)
	}
	chrome = ctr

	code := m.Run()

	if err := chrome.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "terminate chrome: %v\n", err)
	}
	os.Exit(code)
}

func newRemoteRenderer(t *testing.T) *ChromeRenderer {
	t.Helper()
	r := NewChromeRenderer(BrowserConfig{RemoteURL: chrome.DevToolsURL}, logging.NewNullLogger())
	r.settleDelay = 100 * time.Millisecond
	return r
}

func dataURL(html string) string {
	return "data:text/html," + url.PathEscape(html)
}

const tallPage = `<html><body style="margin:0">
<div id="ready" style="height:3000px;background:linear-gradient(#fff,#000)">hello</div>
</body></html>`

func TestChromeRenderer_ViewportPNG(t *testing.T) {
	r := newRemoteRenderer(t)

	opts := webshot.DefaultCaptureOptions(dataURL(tallPage))
	opts.FullPage = false
	opts.Viewport = &webshot.Viewport{Width: 640, Height: 480}

	data, err := r.Render(context.Background(), opts)
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 480, img.Bounds().Dy())
}

func TestChromeRenderer_FullPageJPEG(t *testing.T) {
	r := newRemoteRenderer(t)

	opts := webshot.DefaultCaptureOptions(dataURL(tallPage))
	opts.Viewport = &webshot.Viewport{Width: 800, Height: 600}
	opts.Format = webshot.FormatJPEG
	opts.Quality = 60
	opts.WaitFor = "#ready"

	data, err := r.Render(context.Background(), opts)
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.GreaterOrEqual(t, img.Bounds().Dy(), 3000, "full page should include the whole document")
}

func TestChromeRenderer_SelectorTimeout(t *testing.T) {
	r := newRemoteRenderer(t)

	opts := webshot.DefaultCaptureOptions(dataURL(tallPage))
	opts.FullPage = false
	opts.WaitUntil = webshot.WaitLoad
	opts.WaitFor = "#never"
	opts.Timeout = time.Second

	_, err := r.Render(context.Background(), opts)
	require.Error(t, err)
	assert.Equal(t, "navigation timeout of 1000ms exceeded", err.Error())
	assert.True(t, retry.IsRetryableError(err))
}

func TestChromeRenderer_ConnectionRefused(t *testing.T) {
	r := newRemoteRenderer(t)

	opts := webshot.DefaultCaptureOptions("http://127.0.0.1:1/")
	opts.FullPage = false
	opts.Timeout = 10 * time.Second

	_, err := r.Render(context.Background(), opts)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "net::ERR_"), "got %v", err)
	assert.True(t, retry.IsRetryableError(err))
}
