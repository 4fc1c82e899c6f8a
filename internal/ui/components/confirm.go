package components

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/sonvt1710/coc-java/internal/ui/theme"
)

var (
	keyYes    = key.NewBinding(key.WithKeys("y", "Y"))
	keyNo     = key.NewBinding(key.WithKeys("n", "N"))
	keyToggle = key.NewBinding(key.WithKeys("left", "right", "h", "l", "tab"))
	keySubmit = key.NewBinding(key.WithKeys("enter"))
)

type confirmModel struct {
	message  string
	yes      bool
	answered bool
	theme    theme.Theme
	width    int
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keyQuit):
			return m, tea.Quit
		case key.Matches(msg, keyToggle):
			m.yes = !m.yes
			return m, nil
		case key.Matches(msg, keyYes):
			m.yes = true
		case key.Matches(msg, keyNo):
			m.yes = false
		case !key.Matches(msg, keySubmit):
			return m, nil
		}
		m.answered = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.answered {
		return ""
	}
	styles := m.theme.Styles()
	yes, no := styles.Muted.Render(" Yes "), styles.Muted.Render(" No ")
	if m.yes {
		yes = styles.Selected.Render("[Yes]")
	} else {
		no = styles.Selected.Render("[No]")
	}
	return fmt.Sprintf("%s %s %s", wordwrap.String(m.message, max(m.width-13, 20)), yes, no)
}

// ConfirmWithIO asks a yes/no question. Without a terminal it prints
// "message (Y/n): " and reads a line from in. An empty answer gives
// defaultYes and only "y" or "yes" count as yes.
func ConfirmWithIO(message string, defaultYes bool, in io.Reader, out io.Writer) (bool, error) {
	if tuiAllowed(out) {
		m := confirmModel{message: message, yes: defaultYes, theme: theme.Current(), width: 80}
		result, err := tea.NewProgram(m, tea.WithOutput(out)).Run()
		if err != nil {
			return false, fmt.Errorf("confirm failed: %w", err)
		}
		final := result.(confirmModel)
		if !final.answered {
			return false, errCancelled
		}
		return final.yes, nil
	}

	hint := "(y/N)"
	if defaultYes {
		hint = "(Y/n)"
	}
	fmt.Fprintf(out, "%s %s: ", message, hint)

	answer, err := readAnswer(in)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
