package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Spinner animates a single progress line until a SpinnerDoneMsg arrives,
// then renders a final check or cross line.
type Spinner struct {
	model   spinner.Model
	message string
	status  string
	outcome *SpinnerDoneMsg
}

// SpinnerDoneMsg ends the spinner.
type SpinnerDoneMsg struct {
	Success bool
	Result  string
	Err     error
}

// SpinnerStatusMsg replaces the secondary status shown after the message.
type SpinnerStatusMsg string

// SpinnerDone creates a success message.
func SpinnerDone(result string) SpinnerDoneMsg {
	return SpinnerDoneMsg{Success: true, Result: result}
}

// SpinnerFailed creates a failure message. label is shown instead of the
// error text when non-empty; the error itself is printed by the caller.
func SpinnerFailed(label string, err error) SpinnerDoneMsg {
	return SpinnerDoneMsg{Result: label, Err: err}
}

func NewSpinner(message string) Spinner {
	m := spinner.New()
	m.Spinner = spinner.Dot
	m.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	return Spinner{model: m, message: message}
}

func (s Spinner) Init() tea.Cmd {
	return s.model.Tick
}

func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if s.outcome != nil {
		return s, nil
	}

	switch msg := msg.(type) {
	case SpinnerDoneMsg:
		s.outcome = &msg
	case SpinnerStatusMsg:
		s.status = string(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.model, cmd = s.model.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s Spinner) View() string {
	if o := s.outcome; o != nil {
		switch {
		case o.Success:
			return successStyle.Render("✓ " + o.Result)
		case o.Result != "":
			return failureStyle.Render("✗ " + o.Result)
		case o.Err != nil:
			return failureStyle.Render("✗ " + o.Err.Error())
		default:
			return failureStyle.Render("✗")
		}
	}

	line := s.model.View() + " " + labelStyle.Render(s.message)
	if s.status != "" {
		line += " " + statusStyle.Render(s.status)
	}
	return line
}

// Finished reports whether a SpinnerDoneMsg has been received.
func (s Spinner) Finished() bool {
	return s.outcome != nil
}

// Err is the error carried by a failed outcome.
func (s Spinner) Err() error {
	if s.outcome == nil {
		return nil
	}
	return s.outcome.Err
}
