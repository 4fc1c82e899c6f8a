package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sonvt1710/coc-java/internal/ui/components"
)

// Prompter provides an interface for interactive prompts so commands can be
// tested without a terminal.
type Prompter interface {
	Prompt(message string) (string, error)
	Confirm(message string) (bool, error)
}

// StdPrompter implements Prompter using standard I/O
type StdPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewStdPrompter creates a new standard I/O prompter
func NewStdPrompter(in io.Reader, out io.Writer) *StdPrompter {
	return &StdPrompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Prompt displays a prompt and reads user input
func (p *StdPrompter) Prompt(message string) (string, error) {
	fmt.Fprint(p.out, message)
	response, err := p.in.ReadString('\n')
	if err != nil && response == "" {
		return "", err
	}
	return strings.TrimSpace(response), nil
}

// Confirm asks a yes/no question that defaults to yes
func (p *StdPrompter) Confirm(message string) (bool, error) {
	return components.ConfirmWithIO(message, true, p.in, p.out)
}

type prompterKey struct{}

// WithPrompter returns a context carrying p for commands to use instead of
// standard I/O.
func WithPrompter(ctx context.Context, p Prompter) context.Context {
	return context.WithValue(ctx, prompterKey{}, p)
}

func prompterFor(cmd *cobra.Command) Prompter {
	if p, ok := cmd.Context().Value(prompterKey{}).(Prompter); ok {
		return p
	}
	return NewStdPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
}
