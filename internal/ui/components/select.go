// Package components provides interactive prompts with plain-text fallbacks
// for non-terminal input.
package components

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sonvt1710/coc-java/internal/ui"
	"github.com/sonvt1710/coc-java/internal/ui/theme"
)

// Option is one entry of a selection menu.
type Option struct {
	Label       string
	Value       string
	Description string
}

var errCancelled = errors.New("cancelled")

var (
	keyUp     = key.NewBinding(key.WithKeys("up", "k"))
	keyDown   = key.NewBinding(key.WithKeys("down", "j"))
	keyChoose = key.NewBinding(key.WithKeys("enter", " "))
	keyQuit   = key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"))
)

// tuiAllowed reports whether a bubbletea prompt can be drawn on out.
func tuiAllowed(out io.Writer) bool {
	return ui.IsStdinTTY() && ui.IsTTY(out)
}

func lineReader(in io.Reader) *bufio.Reader {
	if r, ok := in.(*bufio.Reader); ok {
		return r
	}
	return bufio.NewReader(in)
}

// readAnswer reads one line. A final line without a newline still counts.
func readAnswer(in io.Reader) (string, error) {
	line, err := lineReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

type selectModel struct {
	title   string
	options []Option
	cursor  int
	picked  int
	theme   theme.Theme
}

func (m selectModel) Init() tea.Cmd { return nil }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(k, keyQuit):
		return m, tea.Quit
	case key.Matches(k, keyUp):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(k, keyDown):
		m.cursor = min(m.cursor+1, len(m.options)-1)
	case key.Matches(k, keyChoose):
		m.picked = m.cursor
		return m, tea.Quit
	}
	return m, nil
}

func (m selectModel) View() string {
	if m.picked >= 0 {
		return ""
	}
	styles := m.theme.Styles()
	arrow := m.theme.Symbols().Arrow

	width := 0
	for _, o := range m.options {
		width = max(width, len(o.Label))
	}

	var b strings.Builder
	b.WriteString(styles.Header.Render(m.title) + "\n\n")
	for i, o := range m.options {
		label := fmt.Sprintf("%-*s", width, o.Label)
		if i == m.cursor {
			b.WriteString(styles.Cursor.Render(arrow+" ") + styles.Selected.Render(label))
		} else {
			b.WriteString("  " + label)
		}
		if o.Description != "" {
			b.WriteString(styles.Faint.Render("  │  ") + styles.Muted.Render(o.Description))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n" + styles.Faint.Render("↑/↓ navigate • enter select"))
	return b.String()
}

// SelectWithIO shows a menu with the first option preselected.
func SelectWithIO(title string, options []Option, in io.Reader, out io.Writer) (*Option, error) {
	return SelectWithDefaultAndIO(title, options, 0, in, out)
}

// SelectWithDefaultAndIO shows a menu with options[defaultIndex] preselected.
// Without a terminal it prints a numbered list and reads the answer from in;
// an empty answer picks the default.
func SelectWithDefaultAndIO(title string, options []Option, defaultIndex int, in io.Reader, out io.Writer) (*Option, error) {
	if len(options) == 0 {
		return nil, errors.New("no options provided")
	}
	if defaultIndex < 0 || defaultIndex >= len(options) {
		defaultIndex = 0
	}

	if !tuiAllowed(out) {
		return selectNumbered(title, options, defaultIndex, in, out)
	}

	m := selectModel{title: title, options: options, cursor: defaultIndex, picked: -1, theme: theme.Current()}
	result, err := tea.NewProgram(m, tea.WithOutput(out)).Run()
	if err != nil {
		return nil, fmt.Errorf("select failed: %w", err)
	}
	final := result.(selectModel)
	if final.picked < 0 {
		return nil, errCancelled
	}
	return &options[final.picked], nil
}

func selectNumbered(title string, options []Option, defaultIndex int, in io.Reader, out io.Writer) (*Option, error) {
	fmt.Fprintf(out, "%s\n\n", title)
	for i, o := range options {
		marker := " "
		if i == defaultIndex {
			marker = "*"
		}
		line := fmt.Sprintf(" %s%d) %s", marker, i+1, o.Label)
		if o.Description != "" {
			line += " - " + o.Description
		}
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "\nEnter choice [1-%d, default=%d]: ", len(options), defaultIndex+1)

	answer, err := readAnswer(in)
	if err != nil {
		return nil, err
	}
	if answer == "" {
		return &options[defaultIndex], nil
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(options) {
		return nil, fmt.Errorf("invalid choice: %s", answer)
	}
	return &options[n-1], nil
}
