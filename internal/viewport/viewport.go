// Package viewport parses browser window sizes given on the command line.
package viewport

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/vvka-141/webshot/pkg/webshot"
)

// Presets maps preset names to their dimensions.
var Presets = map[string]webshot.Viewport{
	"desktop": {Width: 1920, Height: 1080},
	"tablet":  {Width: 768, Height: 1024},
	"mobile":  {Width: 375, Height: 667},
}

var sizePattern = regexp.MustCompile(`^(\d+)\s*x\s*(\d+)$`)

const (
	msgFormat   = "Invalid viewport format. Expected 'WIDTHxHEIGHT' (e.g., '1920x1080') or preset (desktop, tablet, mobile)"
	msgPositive = "Viewport dimensions must be positive numbers"
)

// Parse accepts a preset name or WIDTHxHEIGHT, case-insensitively.
// Errors wrap webshot.ErrInvalidConfig.
func Parse(input string) (webshot.Viewport, error) {
	normalized := strings.ToLower(strings.TrimSpace(input))

	if v, ok := Presets[normalized]; ok {
		return v, nil
	}

	match := sizePattern.FindStringSubmatch(normalized)
	if match == nil {
		return webshot.Viewport{}, webshot.Invalid(webshot.ErrInvalidConfig, msgFormat)
	}

	width, errW := strconv.Atoi(match[1])
	height, errH := strconv.Atoi(match[2])
	if errW != nil || errH != nil {
		return webshot.Viewport{}, webshot.Invalid(webshot.ErrInvalidConfig, msgFormat)
	}

	if width <= 0 || height <= 0 {
		return webshot.Viewport{}, webshot.Invalid(webshot.ErrInvalidConfig, msgPositive)
	}

	return webshot.Viewport{Width: width, Height: height}, nil
}

// PresetNames returns the preset names sorted alphabetically.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
