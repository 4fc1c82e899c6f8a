package components

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sonvt1710/coc-java/internal/ui"
	"github.com/sonvt1710/coc-java/internal/ui/theme"
)

// spinnerDoneMsg signals that the spinner task is complete.
type spinnerDoneMsg struct {
	err error
}

// spinnerModel is the bubbletea model for the spinner component.
type spinnerModel struct {
	spinner spinner.Model
	message string
	done    bool
	err     error
	theme   theme.Theme
}

func newSpinnerModel(message string) spinnerModel {
	th := theme.Current()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = th.Styles().Spinner

	return spinnerModel{
		spinner: s,
		message: message,
		theme:   th,
	}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.done = true
			m.err = errors.New("cancelled")
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}

	styles := m.theme.Styles()
	return m.spinner.View() + " " + styles.Muted.Render(m.message)
}

// RunWithSpinner runs fn while showing a spinner on out.
// When out is not a terminal fn simply runs; nothing is printed so piped
// output stays clean.
func RunWithSpinner[T any](message string, out io.Writer, fn func() (T, error)) (T, error) {
	if !ui.IsTTY(out) {
		return fn()
	}

	var result T
	var fnErr error

	p := tea.NewProgram(newSpinnerModel(message), tea.WithOutput(out), tea.WithInput(nil))

	go func() {
		result, fnErr = fn()
		p.Send(spinnerDoneMsg{err: fnErr})
	}()

	if _, err := p.Run(); err != nil {
		return result, fmt.Errorf("spinner failed: %w", err)
	}

	return result, fnErr
}
