package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/term"

	"github.com/sonvt1710/coc-java/internal/ui/theme"
)

// Output provides styled terminal output.
type Output struct {
	out    io.Writer
	err    io.Writer
	theme  theme.Theme
	silent bool
	noTTY  bool
	width  int
}

// NewOutput creates a new styled output instance.
func NewOutput(out, err io.Writer) *Output {
	width := 80 // default
	if w, _, e := term.GetSize(int(os.Stdout.Fd())); e == nil && w > 0 {
		width = w
	}
	return &Output{
		out:   out,
		err:   err,
		theme: theme.Current(),
		noTTY: !IsTTY(out) || NoColor(),
		width: width,
	}
}

// Wrap wraps text to fit the terminal width.
func (o *Output) Wrap(text string) string {
	if o.width <= 0 {
		return text
	}
	return wordwrap.String(text, o.width)
}

// SetSilent enables or disables silent mode (suppresses stdout).
func (o *Output) SetSilent(silent bool) {
	o.silent = silent
}

// line prints sym+msg with style unless output is not a terminal.
func (o *Output) line(w io.Writer, sym string, style interface{ Render(...string) string }, msg string) {
	text := o.Wrap(msg)
	if sym != "" {
		text = sym + " " + text
	}
	if o.noTTY {
		fmt.Fprintln(w, text)
	} else {
		fmt.Fprintln(w, style.Render(text))
	}
}

// Success prints a success message with checkmark.
func (o *Output) Success(msg string) {
	if o.silent {
		return
	}
	o.line(o.out, o.theme.Symbols().Success, o.theme.Styles().Success, msg)
}

// Error prints an error message with X mark to stderr.
func (o *Output) Error(msg string) {
	o.line(o.err, o.theme.Symbols().Error, o.theme.Styles().Error, msg)
}

// Warning prints a warning message to stderr.
func (o *Output) Warning(msg string) {
	o.line(o.err, o.theme.Symbols().Warning, o.theme.Styles().Warning, msg)
}

// Info prints an info message with arrow to stderr so stdout stays
// machine-readable.
func (o *Output) Info(msg string) {
	if o.silent {
		return
	}
	o.line(o.err, o.theme.Symbols().Info, o.theme.Styles().Info, msg)
}

// Header prints a bold header.
func (o *Output) Header(text string) {
	if o.silent {
		return
	}
	o.line(o.out, "", o.theme.Styles().Header, text)
}

// Muted prints muted/dim text.
func (o *Output) Muted(msg string) {
	if o.silent {
		return
	}
	o.line(o.out, "", o.theme.Styles().Muted, msg)
}

// Println prints a line to stdout.
func (o *Output) Println(args ...any) {
	if o.silent {
		return
	}
	fmt.Fprintln(o.out, args...)
}

// Printf prints formatted output to stdout.
func (o *Output) Printf(format string, args ...any) {
	if o.silent {
		return
	}
	fmt.Fprintf(o.out, format, args...)
}

// KeyValue prints a key-value pair.
func (o *Output) KeyValue(key, value string) {
	if o.silent {
		return
	}
	styles := o.theme.Styles()
	if o.noTTY {
		fmt.Fprintf(o.out, "%s: %s\n", key, value)
	} else {
		fmt.Fprintln(o.out, styles.Key.Render(key+":")+
			" "+styles.Value.Render(value))
	}
}

// List prints a bulleted list.
func (o *Output) List(items []string) {
	if o.silent {
		return
	}
	styles := o.theme.Styles()
	sym := o.theme.Symbols().Bullet
	for _, item := range items {
		if o.noTTY {
			fmt.Fprintf(o.out, "  %s %s\n", sym, item)
		} else {
			fmt.Fprintf(o.out, "  %s %s\n",
				styles.ListBullet.Render(sym), item)
		}
	}
}

// Newline prints an empty line.
func (o *Output) Newline() {
	if o.silent {
		return
	}
	fmt.Fprintln(o.out)
}
