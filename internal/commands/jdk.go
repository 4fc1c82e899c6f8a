package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sonvt1710/coc-java/internal/host"
	"github.com/sonvt1710/coc-java/internal/jdk"
	"github.com/sonvt1710/coc-java/internal/ui"
	"github.com/sonvt1710/coc-java/internal/ui/components"
)

// NewJDKCommand creates the jdk command group
func NewJDKCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jdk",
		Short: "Discover Java runtimes and pick the ones the language server uses",
	}
	cmd.AddCommand(newJDKListCommand())
	cmd.AddCommand(newJDKResolveCommand())
	return cmd
}

func newJDKListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List discovered Java runtimes, newest first",
		Args:  cobra.NoArgs,
		RunE:  runJDKList,
	}
	addFormatFlags(cmd)
	return cmd
}

func runJDKList(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := s.probeContext()
	defer cancel()

	res := s.resolver()
	candidates, err := components.RunWithSpinner("Discovering Java runtimes...", cmd.ErrOrStderr(), func() ([]jdk.Candidate, error) {
		return res.Candidates(ctx), nil
	})
	if err != nil {
		return err
	}
	jdk.SortByVersion(candidates)

	if f := outputFormat(cmd); f != formatText {
		if candidates == nil {
			candidates = []jdk.Candidate{}
		}
		return s.out.encode(f, candidates)
	}

	if len(candidates) == 0 {
		s.out.printErr("No Java runtimes found.")
		return nil
	}
	for _, c := range candidates {
		origins := make([]string, len(c.Origins))
		for i, o := range c.Origins {
			origins[i] = string(o)
		}
		s.out.printf("%-4d %-12s %s (%s)\n", c.MajorVersion, c.Version, c.Home, strings.Join(origins, ", "))
	}
	return nil
}

// resolveOutput is the machine-readable result of jdk resolve.
type resolveOutput struct {
	Requirements *jdk.Requirements `json:"requirements,omitempty" yaml:"requirements,omitempty"`
	Failure      *jdk.Failure      `json:"failure,omitempty" yaml:"failure,omitempty"`
}

func newJDKResolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Select the JDK that runs the language server and the project JDK",
		Long: `Selects the tooling JDK (at least Java 17, or 23 with java.jdt.ls.javac.enabled)
and the default project JDK. When no suitable JDK exists the command exits
non-zero and offers a remediation.

With --pick the user chooses the tooling JDK among every eligible runtime,
starting from the one the rules selected.`,
		Args: cobra.NoArgs,
		RunE: runJDKResolve,
	}
	cmd.Flags().Bool("pick", false, "Choose the tooling JDK interactively")
	addFormatFlags(cmd)
	return cmd
}

func runJDKResolve(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := s.probeContext()
	defer cancel()

	home := s.javaHome()
	required := s.settings.RequiredVersion()
	s.log.Info("resolving java runtimes", "required", required, "configured_home", home)

	res := s.resolver()
	req, err := components.RunWithSpinner("Resolving Java runtimes...", cmd.ErrOrStderr(), func() (*jdk.Requirements, error) {
		return res.Resolve(ctx, required, home, s.settings.JDKRuntimes())
	})

	var failure *jdk.Failure
	if err != nil && !errors.As(err, &failure) {
		return err
	}

	if pick, _ := cmd.Flags().GetBool("pick"); pick && req != nil {
		pickToolingJDK(s, res.Candidates(ctx), required, req)
	}

	f := outputFormat(cmd)
	if f != formatText {
		if encErr := s.out.encode(f, resolveOutput{Requirements: req, Failure: failure}); encErr != nil {
			return encErr
		}
	}

	if failure != nil {
		s.log.Error("java resolution failed", "error", failure.Message)
		if err := host.Remediate(s.host, failure, s.settingsFile); err != nil {
			s.log.Error("remediation failed", "error", err)
		}
		return failure
	}

	if f == formatText {
		out := ui.NewOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
		out.KeyValue("Tooling JDK", fmt.Sprintf("%s (Java %d)", req.ToolingHome, req.ToolingVersion))
		out.KeyValue("Project JDK", fmt.Sprintf("%s (Java %d)", req.ProjectHome, req.ProjectVersion))
	}
	return nil
}

// pickToolingJDK lets the user override the tooling runtime with another
// eligible one. req is left alone when there is nothing to choose or the
// host cannot ask.
func pickToolingJDK(s *session, discovered []jdk.Candidate, required int, req *jdk.Requirements) {
	eligible := jdk.AtLeast(discovered, required)
	jdk.SortByVersion(eligible)

	versions := map[string]int{req.ToolingHome: req.ToolingVersion}
	choices := []host.Choice{{
		Label:       req.ToolingHome,
		Value:       req.ToolingHome,
		Description: fmt.Sprintf("Java %d", req.ToolingVersion),
		Default:     true,
	}}
	for _, c := range eligible {
		if _, seen := versions[c.Home]; seen {
			continue
		}
		versions[c.Home] = c.MajorVersion
		choices = append(choices, host.Choice{
			Label:       c.Home,
			Value:       c.Home,
			Description: fmt.Sprintf("Java %d", c.MajorVersion),
		})
	}
	if len(choices) < 2 {
		return
	}

	picked, err := s.host.PromptChoice("Select the JDK that runs the language server", choices)
	if err != nil {
		s.log.Debug("tooling jdk not picked", "error", err)
		return
	}
	req.ToolingHome = picked.Value
	req.ToolingVersion = versions[picked.Value]
	s.log.Info("tooling jdk picked", "home", req.ToolingHome, "version", req.ToolingVersion)
}
