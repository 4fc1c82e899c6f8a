package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// outputHelper wraps a cobra.Command to provide convenient output methods
type outputHelper struct {
	cmd *cobra.Command
}

// newOutputHelper creates an output helper for the given command
func newOutputHelper(cmd *cobra.Command) *outputHelper {
	return &outputHelper{cmd: cmd}
}

// println writes a line to the command's output
func (o *outputHelper) println(args ...any) {
	fmt.Fprintln(o.cmd.OutOrStdout(), args...)
}

// printf writes formatted output to the command's output
func (o *outputHelper) printf(format string, args ...any) {
	fmt.Fprintf(o.cmd.OutOrStdout(), format, args...)
}

// printErr writes a line to the command's error output
func (o *outputHelper) printErr(args ...any) {
	fmt.Fprintln(o.cmd.ErrOrStderr(), args...)
}

// getOutput returns the command's output writer
func (o *outputHelper) getOutput() io.Writer {
	return o.cmd.OutOrStdout()
}

// format is the machine-readable encoding requested with --json or --yaml.
type format int

const (
	formatText format = iota
	formatJSON
	formatYAML
)

func addFormatFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("yaml", false, "Output in YAML format")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")
}

func outputFormat(cmd *cobra.Command) format {
	if v, _ := cmd.Flags().GetBool("json"); v {
		return formatJSON
	}
	if v, _ := cmd.Flags().GetBool("yaml"); v {
		return formatYAML
	}
	return formatText
}

// encode writes v in the requested machine-readable format.
func (o *outputHelper) encode(f format, v any) error {
	switch f {
	case formatJSON:
		enc := json.NewEncoder(o.getOutput())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(o.getOutput())
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return errors.New("text output has no encoder")
	}
}
