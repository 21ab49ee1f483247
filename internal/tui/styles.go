package tui

import "github.com/charmbracelet/lipgloss"

// Color palette - keeping it minimal and accessible.
var (
	ColorPrimary = lipgloss.Color("39")  // Blue
	ColorSuccess = lipgloss.Color("34")  // Green
	ColorError   = lipgloss.Color("196") // Red
	ColorMuted   = lipgloss.Color("240") // Dark gray
)

// Styles for terminal output.
var (
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	PathStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary)
)

// Symbols for visual feedback.
const (
	SymbolCheck = "✓"
	SymbolCross = "✗"
)

// ErrorPrefix renders the "Error:" label, coloured only when interactive.
func ErrorPrefix() string {
	if !IsInteractive() {
		return "Error:"
	}
	return ErrorStyle.Render("Error:")
}

// SavedLine renders the success line printed after a capture.
func SavedLine(path string) string {
	if !IsInteractive() {
		return "Screenshot saved to: " + path
	}
	return "Screenshot saved to: " + PathStyle.Render(path)
}
