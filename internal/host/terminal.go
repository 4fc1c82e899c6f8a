package host

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/browser"

	"github.com/sonvt1710/coc-java/internal/logger"
	"github.com/sonvt1710/coc-java/internal/notify"
	"github.com/sonvt1710/coc-java/internal/ui"
	"github.com/sonvt1710/coc-java/internal/ui/components"
)

// ReloadEvent is written to the event stream when a reload is requested.
// The editor side reads it and runs its reload-window command.
type ReloadEvent struct {
	Event  string `json:"event"`
	Reason string `json:"reason"`
}

// Terminal implements Host on a terminal. Messages go to stderr; reload
// requests go to the event writer as JSON lines.
type Terminal struct {
	out         *ui.Output
	in          io.Reader
	prompt      io.Writer
	events      io.Writer
	interactive bool
	desktop     bool
	open        func(string) error
}

// TerminalOptions configures NewTerminal.
type TerminalOptions struct {
	In     io.Reader
	Out    io.Writer
	Err    io.Writer
	Events io.Writer
	// Interactive allows Notify and PromptChoice to read answers from In.
	Interactive bool
	// Desktop also sends warnings and errors as desktop notifications.
	Desktop bool
}

// NewTerminal creates a terminal host.
func NewTerminal(opts TerminalOptions) *Terminal {
	events := opts.Events
	if events == nil {
		events = opts.Out
	}
	return &Terminal{
		out:         ui.NewOutput(opts.Out, opts.Err),
		in:          opts.In,
		prompt:      opts.Err,
		events:      events,
		interactive: opts.Interactive,
		desktop:     opts.Desktop,
		open:        openTarget,
	}
}

func openTarget(target string) error {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return browser.OpenURL(target)
	}
	return browser.OpenFile(target)
}

// Notify prints message and, when interactive and actions are given, asks
// which one to run.
func (t *Terminal) Notify(level Level, message string, actions ...string) (string, error) {
	switch level {
	case LevelError:
		t.out.Error(message)
	case LevelWarning:
		t.out.Warning(message)
	default:
		t.out.Info(message)
	}
	if t.desktop && level != LevelInfo {
		notify.Send("Java", message)
	}

	if len(actions) == 0 || !t.interactive {
		return "", nil
	}

	options := make([]components.Option, 0, len(actions)+1)
	for _, a := range actions {
		options = append(options, components.Option{Label: a, Value: a})
	}
	options = append(options, components.Option{Label: "Dismiss", Value: ""})

	picked, err := components.SelectWithIO("Choose an action", options, t.in, t.prompt)
	if err != nil {
		logger.Get().Debug("notification prompt closed", "error", err)
		return "", nil
	}
	return picked.Value, nil
}

// PromptChoice shows a selection menu with the Default choice preselected.
// Non-interactive terminals cannot choose and return ErrNoChoice.
func (t *Terminal) PromptChoice(title string, choices []Choice) (*Choice, error) {
	if !t.interactive {
		return nil, ErrNoChoice
	}
	options := make([]components.Option, len(choices))
	preselected := 0
	for i, c := range choices {
		options[i] = components.Option{Label: c.Label, Value: c.Value, Description: c.Description}
		if c.Default {
			preselected = i
		}
	}
	picked, err := components.SelectWithDefaultAndIO(title, options, preselected, t.in, t.prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoChoice, err)
	}
	for i := range choices {
		if choices[i].Value == picked.Value {
			return &choices[i], nil
		}
	}
	return nil, ErrNoChoice
}

// TriggerReload emits a reload event for the editor.
func (t *Terminal) TriggerReload(reason string) error {
	data, err := json.Marshal(ReloadEvent{Event: "reload", Reason: reason})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(t.events, string(data))
	return err
}

// Open opens target in the browser or the default file handler.
func (t *Terminal) Open(target string) error {
	return t.open(target)
}
