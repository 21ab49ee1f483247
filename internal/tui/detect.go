package tui

import (
	"os"

	"golang.org/x/term"
)

// Mode represents the interaction mode for webshot.
type Mode int

const (
	// ModeNonInteractive is used for CI/CD pipelines, scripts, and redirected output.
	ModeNonInteractive Mode = iota
	// ModeInteractive is used when a human is watching stderr.
	ModeInteractive
)

// EnvNonInteractive forces non-interactive mode when set to "1".
const EnvNonInteractive = "WEBSHOT_NON_INTERACTIVE"

// DetectMode decides whether the spinner and colours are shown.
//
// Non-interactive when WEBSHOT_NON_INTERACTIVE=1, CI or NO_COLOR is set,
// or stderr (where progress is drawn) is not a terminal.
func DetectMode() Mode {
	return detectMode(os.Getenv, func() bool {
		return term.IsTerminal(int(os.Stderr.Fd()))
	})
}

func detectMode(getenv func(string) string, stderrIsTerminal func() bool) Mode {
	switch {
	case getenv(EnvNonInteractive) == "1",
		getenv("CI") != "",
		getenv("NO_COLOR") != "":
		return ModeNonInteractive
	case !stderrIsTerminal():
		return ModeNonInteractive
	}
	return ModeInteractive
}

// IsInteractive reports whether DetectMode returns ModeInteractive.
func IsInteractive() bool {
	return DetectMode() == ModeInteractive
}
