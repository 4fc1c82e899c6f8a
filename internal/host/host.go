// Package host abstracts the editor capabilities the resolvers need: showing
// messages, asking the user to choose, reloading the window, and opening
// external targets.
package host

import (
	"errors"
	"fmt"

	"github.com/sonvt1710/coc-java/internal/jdk"
)

// Level is the severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Choice is an entry of a choice prompt. Default marks the preselected entry.
type Choice struct {
	Label       string
	Value       string
	Description string
	Default     bool
}

// Host is implemented by the editor integration.
type Host interface {
	// Notify shows message and returns the action the user picked, or ""
	// when dismissed or when the host cannot ask.
	Notify(level Level, message string, actions ...string) (string, error)
	PromptChoice(title string, choices []Choice) (*Choice, error)
	TriggerReload(reason string) error
	// Open opens a URL or file with the system handler.
	Open(target string) error
}

// ErrNoChoice is returned by PromptChoice when nothing was picked.
var ErrNoChoice = errors.New("no choice made")

// Remediate surfaces a resolution failure and runs its remediation when the
// user accepts it. settingsFile is opened for ActionOpenSettings.
func Remediate(h Host, f *jdk.Failure, settingsFile string) error {
	picked, err := h.Notify(LevelError, f.Message, f.Label)
	if err != nil {
		return fmt.Errorf("failed to show failure: %w", err)
	}
	if picked != f.Label {
		return nil
	}

	target := f.Target
	if f.Action == jdk.ActionOpenSettings {
		if settingsFile == "" {
			return nil
		}
		target = settingsFile
	}
	if err := h.Open(target); err != nil {
		return fmt.Errorf("failed to open %s: %w", target, err)
	}
	return nil
}
