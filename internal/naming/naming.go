// Package naming decides where a screenshot is written.
//
// Output paths are either generated (screenshot-<timestamp>.<format>) or
// expanded from a template with {placeholders}:
//
//	{timestamp}  ISO-8601 UTC time with ':' and '.' replaced by '-'
//	{date}       UTC date, YYYY-MM-DD
//	{time}       local time, HH-MM-SS
//	{domain}     URL host with '.' replaced by '_'
//	{format}     image format
//	{id}         random UUID
//
// Unknown placeholders are left as written.
package naming

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vvka-141/webshot/pkg/webshot"
)

var placeholderPattern = regexp.MustCompile(`\{(\w+)\}`)

// Timestamp renders t as an ISO-8601 UTC string safe for filenames,
// e.g. 2024-01-15T10-30-45-123Z.
func Timestamp(t time.Time) string {
	u := t.UTC()
	return fmt.Sprintf("%04d-%02d-%02dT%02d-%02d-%02d-%03dZ",
		u.Year(), u.Month(), u.Day(),
		u.Hour(), u.Minute(), u.Second(),
		u.Nanosecond()/int(time.Millisecond))
}

// GenerateFilename returns the default output name for a capture taken at now.
func GenerateFilename(format webshot.Format, now time.Time) string {
	if format == "" {
		format = webshot.DefaultFormat
	}
	return fmt.Sprintf("screenshot-%s.%s", Timestamp(now), format)
}

// FormatTemplate replaces every {key} that has a non-empty value.
func FormatTemplate(template string, values map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := match[1 : len(match)-1]
		if v := values[key]; v != "" {
			return v
		}
		return match
	})
}

// TemplateValues computes the placeholder values for rawURL at now.
func TemplateValues(rawURL string, format webshot.Format, now time.Time) (map[string]string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, webshot.Invalid(webshot.ErrInvalidURL, "Invalid URL: %s", rawURL)
	}

	return map[string]string{
		"timestamp": Timestamp(now),
		"date":      now.UTC().Format("2006-01-02"),
		"time":      strings.ReplaceAll(now.Format("15:04:05"), ":", "-"),
		"domain":    strings.ReplaceAll(u.Hostname(), ".", "_"),
		"format":    string(format),
		"id":        uuid.NewString(),
	}, nil
}

// ResolveOutput returns the path a capture should be written to.
// An empty output yields a generated filename; an output containing '{'
// is expanded as a template; anything else is returned unchanged.
func ResolveOutput(output, rawURL string, format webshot.Format, now time.Time) (string, error) {
	if output == "" {
		return GenerateFilename(format, now), nil
	}

	if !strings.Contains(output, "{") {
		return output, nil
	}

	values, err := TemplateValues(rawURL, format, now)
	if err != nil {
		return "", err
	}
	return FormatTemplate(output, values), nil
}
