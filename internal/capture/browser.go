package capture

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/vvka-141/webshot/pkg/webshot"
)

// Environment variables consulted when locating the browser.
const (
	EnvChromePath       = "WEBSHOT_CHROME_PATH"
	EnvRemoteURL        = "WEBSHOT_REMOTE_URL"
	EnvChromePathCompat = "CHROME_PATH"
)

// BrowserConfig selects the browser the renderer drives.
type BrowserConfig struct {
	// ExecPath is an explicit Chrome/Chromium binary.
	ExecPath string

	// RemoteURL points at an already running browser's DevTools endpoint,
	// e.g. http://127.0.0.1:9222. It takes precedence over ExecPath.
	RemoteURL string
}

// WithEnv fills empty fields from the environment. WEBSHOT_CHROME_PATH
// wins over CHROME_PATH.
func (c BrowserConfig) WithEnv(getenv func(string) string) BrowserConfig {
	if c.RemoteURL == "" {
		c.RemoteURL = getenv(EnvRemoteURL)
	}
	if c.ExecPath == "" {
		c.ExecPath = getenv(EnvChromePath)
	}
	if c.ExecPath == "" {
		c.ExecPath = getenv(EnvChromePathCompat)
	}
	return c
}

type browserFinder struct {
	goos     string
	getenv   func(string) string
	stat     func(string) (os.FileInfo, error)
	lookPath func(string) (string, error)
}

func defaultFinder() browserFinder {
	return browserFinder{
		goos:     runtime.GOOS,
		getenv:   os.Getenv,
		stat:     os.Stat,
		lookPath: exec.LookPath,
	}
}

func (f browserFinder) candidates() []string {
	switch f.goos {
	case "darwin":
		return []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Google Chrome Canary.app/Contents/MacOS/Google Chrome Canary",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
		}
	case "windows":
		return []string{
			filepath.Join(f.getenv("ProgramFiles"), "Google/Chrome/Application/chrome.exe"),
			filepath.Join(f.getenv("ProgramFiles(x86)"), "Google/Chrome/Application/chrome.exe"),
			filepath.Join(f.getenv("LocalAppData"), "Google/Chrome/Application/chrome.exe"),
		}
	default:
		return []string{
			"/usr/bin/google-chrome",
			"/usr/bin/google-chrome-stable",
			"/usr/bin/chromium",
			"/usr/bin/chromium-browser",
			"/snap/bin/chromium",
			"/headless-shell/headless-shell",
		}
	}
}

// find returns explicit if it exists, else the first well-known install,
// else the first browser binary on PATH.
func (f browserFinder) find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := f.stat(explicit); err != nil {
			return "", fmt.Errorf("Chrome executable %s: %v: %w", explicit, err, webshot.ErrBrowserNotFound)
		}
		return explicit, nil
	}

	for _, p := range f.candidates() {
		if _, err := f.stat(p); err == nil {
			return p, nil
		}
	}

	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "chrome", "headless-shell"} {
		if p, err := f.lookPath(name); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("could not find a Chrome executable; use --chrome-path, %s or --remote-url: %w",
		EnvChromePath, webshot.ErrBrowserNotFound)
}
