package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/webshot/internal/files/filesystem"
	"github.com/vvka-141/webshot/internal/viewport"
	"github.com/vvka-141/webshot/pkg/webshot"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

type RetryConfig struct {
	Enabled  *bool  `yaml:"enabled,omitempty"`
	Attempts int    `yaml:"attempts,omitempty"`
	Delay    string `yaml:"delay,omitempty"`
	Backoff  string `yaml:"backoff,omitempty"`
}

type BrowserConfig struct {
	ChromePath string `yaml:"chrome_path,omitempty"`
	RemoteURL  string `yaml:"remote_url,omitempty"`
}

type ProjectConfig struct {
	Output    string        `yaml:"output,omitempty"`
	Timeout   string        `yaml:"timeout,omitempty"`
	Wait      string        `yaml:"wait,omitempty"`
	WaitFor   string        `yaml:"wait_for,omitempty"`
	WaitUntil string        `yaml:"wait_until,omitempty"`
	FullPage  *bool         `yaml:"full_page,omitempty"`
	Viewport  string        `yaml:"viewport,omitempty"`
	Format    string        `yaml:"format,omitempty"`
	Quality   *int          `yaml:"quality,omitempty"`
	Retry     RetryConfig   `yaml:"retry"`
	Browser   BrowserConfig `yaml:"browser"`
}

const ConfigFileName = "webshot.yaml"

// Load reads ConfigFileName from dir.
func Load(dir string) (*ProjectConfig, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads a config file from an explicit path.
func LoadFile(path string) (*ProjectConfig, error) {
	return LoadFS(filesystem.NewOSFileSystem(), path)
}

// LoadFS reads a config file through fsys.
func LoadFS(fsys filesystem.FileSystem, path string) (*ProjectConfig, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, webshot.Invalid(webshot.ErrInvalidConfig, "failed to parse %s: %s", path, strings.Join(strings.Fields(err.Error()), " "))
	}
	return &cfg, nil
}

// ApplyTo overwrites the fields of opts that the config sets.
// Durations use Go syntax ("30s", "500ms").
func (c *ProjectConfig) ApplyTo(opts *webshot.CaptureOptions) error {
	var errs []error

	if c.Output != "" {
		opts.Output = c.Output
	}
	if d, err := parseDuration("timeout", c.Timeout); err != nil {
		errs = append(errs, err)
	} else if c.Timeout != "" {
		opts.Timeout = d
	}
	if d, err := parseDuration("wait", c.Wait); err != nil {
		errs = append(errs, err)
	} else if c.Wait != "" {
		opts.Wait = d
	}
	if c.WaitFor != "" {
		opts.WaitFor = c.WaitFor
	}
	if c.WaitUntil != "" {
		opts.WaitUntil = webshot.WaitStrategy(c.WaitUntil)
	}
	if c.FullPage != nil {
		opts.FullPage = *c.FullPage
	}
	if c.Viewport != "" {
		vp, err := viewport.Parse(c.Viewport)
		if err != nil {
			errs = append(errs, err)
		} else {
			opts.Viewport = &vp
		}
	}
	if c.Format != "" {
		opts.Format = webshot.Format(c.Format)
	}
	if c.Quality != nil {
		opts.Quality = *c.Quality
	}

	if c.Retry.Enabled != nil {
		opts.Retry.Enabled = *c.Retry.Enabled
	}
	if c.Retry.Attempts != 0 {
		opts.Retry.MaxAttempts = c.Retry.Attempts
	}
	if d, err := parseDuration("retry.delay", c.Retry.Delay); err != nil {
		errs = append(errs, err)
	} else if c.Retry.Delay != "" {
		opts.Retry.Delay = d
	}
	if c.Retry.Backoff != "" {
		opts.Retry.Backoff = webshot.BackoffStrategy(c.Retry.Backoff)
	}

	return webshot.JoinErrors(errs...)
}

func parseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, webshot.Invalid(webshot.ErrInvalidConfig, "invalid %s %q in %s", field, value, ConfigFileName)
	}
	return d, nil
}
