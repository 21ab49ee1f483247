package tui

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vvka-141/webshot/internal/tui/components"
)

// Task is work displayed behind a spinner. status replaces the secondary
// text next to the spinner and is safe to call from any goroutine.
type Task func(ctx context.Context, status func(string)) (string, error)

type spinnerModel struct {
	spinner components.Spinner
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Init()
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	if m.spinner.Finished() {
		return m, tea.Quit
	}
	return m, cmd
}

func (m spinnerModel) View() string {
	if m.spinner.Finished() {
		return m.spinner.View() + "\n"
	}
	return m.spinner.View()
}

// RunWithSpinner runs task while a spinner is drawn on stderr. In
// non-interactive mode task runs directly and status updates are dropped.
// The spinner never changes the task's result.
func RunWithSpinner(ctx context.Context, message, doneLabel, failLabel string, task Task) (string, error) {
	if !IsInteractive() {
		return task(ctx, func(string) {})
	}

	p := tea.NewProgram(
		spinnerModel{spinner: components.NewSpinner(message)},
		tea.WithOutput(os.Stderr),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
		tea.WithContext(ctx),
	)

	type outcome struct {
		result string
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		result, err := task(ctx, func(s string) {
			p.Send(components.SpinnerStatusMsg(s))
		})
		done <- outcome{result: result, err: err}

		if err != nil {
			p.Send(components.SpinnerFailed(failLabel, err))
		} else {
			p.Send(components.SpinnerDone(doneLabel))
		}
	}()

	// A rendering failure is not a task failure.
	_, _ = p.Run()

	out := <-done
	return out.result, out.err
}
