package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/sonvt1710/coc-java/internal/host"
	"github.com/sonvt1710/coc-java/internal/lombok"
	"github.com/sonvt1710/coc-java/internal/ui"
)

// ReloadAction is the notification action that reloads the editor.
const ReloadAction = "Reload"

// NewLombokCommand creates the lombok command group
func NewLombokCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lombok",
		Short: "Manage the Lombok agent injected into the language server",
	}
	cmd.AddCommand(newLombokAgentCommand())
	cmd.AddCommand(newLombokScanCommand())
	cmd.AddCommand(newLombokWatchCommand())
	cmd.AddCommand(newLombokStatusCommand())
	cmd.AddCommand(newLombokResetCommand())
	return cmd
}

func newLombokAgentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent [-- vmargs...]",
		Short: "Print the language server JVM arguments with the Lombok agent applied",
		Long: `Removes every Lombok -javaagent from the given JVM arguments (and from
java.jdt.ls.vmargs) and appends the agent the language server should load:
the jar remembered for this workspace or the last one given, when it is
Lombok 1.18.0 or newer, else the bundled jar.

Arguments are printed one per line.`,
		RunE: runLombokAgent,
	}
	cmd.Flags().String("bundled", "", "Path to the bundled Lombok jar (default: <extension-dir>/lombok/lombok-*.jar)")
	addFormatFlags(cmd)
	return cmd
}

func runLombokAgent(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	vmargs := append(s.settings.VMArgList(), args...)

	var result *lombok.Result
	if s.settings.LombokEnabled() {
		session, err := s.lombokSession()
		if err != nil {
			return err
		}
		result = session.ResolveAgentJar(vmargs, s.bundledLookup())
		for _, w := range result.Warnings {
			s.notify(host.LevelWarning, w.Message)
		}
	} else {
		s.log.Info("lombok support disabled, leaving vmargs untouched")
		result = &lombok.Result{Args: vmargs}
	}
	if result.Args == nil {
		result.Args = []string{}
	}

	if f := outputFormat(cmd); f != formatText {
		return s.out.encode(f, result)
	}
	for _, arg := range result.Args {
		s.out.println(arg)
	}
	return nil
}

func newLombokScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [classpath entries...]",
		Short: "Check the project classpath for Lombok changes",
		Long: `Looks for a Lombok jar on the project classpath and reports whether it was
added, removed, or differs from the agent the language server runs with.

Entries come from the arguments or from --classpath-file, one per line or
separated by the platform path list separator.`,
		RunE: runLombokScan,
	}
	cmd.Flags().String("classpath-file", "", "File containing the resolved project classpath")
	cmd.Flags().Bool("reload", false, "Offer to reload the editor when the Lombok version changed")
	addFormatFlags(cmd)
	return cmd
}

func runLombokScan(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	entries, err := classpathEntries(cmd, args)
	if err != nil {
		return err
	}

	session, err := s.lombokSession()
	if err != nil {
		return err
	}

	events := session.ScanClasspath(entries)
	reload, _ := cmd.Flags().GetBool("reload")
	if err := s.reportEvents(events, reload); err != nil {
		return err
	}

	if f := outputFormat(cmd); f != formatText {
		if events == nil {
			events = []lombok.Event{}
		}
		return s.out.encode(f, events)
	}
	return nil
}

// reportEvents surfaces scan events through the host. A version change
// offers a reload when offerReload is set.
func (s *session) reportEvents(events []lombok.Event, offerReload bool) error {
	for _, e := range events {
		if e.Kind != lombok.EventVersionChanged {
			s.notify(host.LevelInfo, e.Message())
			continue
		}
		if !offerReload {
			s.notify(host.LevelWarning, e.Message())
			continue
		}
		if s.notify(host.LevelWarning, e.Message(), ReloadAction) == ReloadAction {
			if err := s.host.TriggerReload("lombok version changed"); err != nil {
				return fmt.Errorf("failed to trigger reload: %w", err)
			}
		}
	}
	return nil
}

func classpathEntries(cmd *cobra.Command, args []string) ([]string, error) {
	file, _ := cmd.Flags().GetString("classpath-file")
	if file == "" {
		return args, nil
	}
	fileEntries, err := readClasspathFile(file)
	if err != nil {
		return nil, err
	}
	return append(fileEntries, args...), nil
}

// readClasspathFile reads entries separated by newlines or the path list
// separator. Blank lines are ignored.
func readClasspathFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read classpath file: %w", err)
	}
	defer f.Close()

	var entries []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		for _, entry := range filepath.SplitList(scanner.Text()) {
			if entry = strings.TrimSpace(entry); entry != "" {
				entries = append(entries, entry)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read classpath file: %w", err)
	}
	return entries, nil
}

func newLombokWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-scan the project classpath whenever the classpath file changes",
		Args:  cobra.NoArgs,
		RunE:  runLombokWatch,
	}
	cmd.Flags().String("classpath-file", "", "File containing the resolved project classpath")
	cmd.Flags().Bool("reload", true, "Offer to reload the editor when the Lombok version changed")
	_ = cmd.MarkFlagRequired("classpath-file")
	return cmd
}

func runLombokWatch(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	file, _ := cmd.Flags().GetString("classpath-file")
	reload, _ := cmd.Flags().GetBool("reload")

	session, err := s.lombokSession()
	if err != nil {
		return err
	}

	scan := func() {
		entries, err := readClasspathFile(file)
		if err != nil {
			s.log.Warn("classpath file unreadable", "path", file, "error", err)
			return
		}
		if err := s.reportEvents(session.ScanClasspath(entries), reload); err != nil {
			s.log.Error("failed to report lombok events", "error", err)
		}
	}

	ui.NewOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()).Info("Watching " + file + " for classpath changes")
	return watchFile(cmd.Context(), file, scan)
}

// watchFile calls onChange once, then again every time path is written or
// replaced, until ctx is done. The parent directory is watched so editors
// that replace the file atomically are still seen.
func watchFile(ctx context.Context, path string, onChange func()) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	if _, err := os.Stat(path); err == nil {
		onChange()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				if _, err := os.Stat(path); err == nil {
					onChange()
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("file watcher failed: %w", err)
		}
	}
}

func newLombokStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the Lombok state remembered for the workspace",
		Args:  cobra.NoArgs,
		RunE:  runLombokStatus,
	}
	addFormatFlags(cmd)
	return cmd
}

type statusOutput struct {
	Workspace  string       `json:"workspace" yaml:"workspace"`
	CachedPath string       `json:"cachedPath,omitempty" yaml:"cachedPath,omitempty"`
	State      lombok.State `json:"state" yaml:"state"`
}

func runLombokStatus(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	session, err := s.lombokSession()
	if err != nil {
		return err
	}

	status := statusOutput{Workspace: s.workspace, State: session.State()}
	status.CachedPath, _ = session.CachedPath()

	if f := outputFormat(cmd); f != formatText {
		return s.out.encode(f, status)
	}

	out := ui.NewOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	out.KeyValue("Workspace", status.Workspace)
	out.KeyValue("Status", string(status.State.Status))
	out.KeyValue("Active jar", valueOrNone(status.State.ActivePath))
	out.KeyValue("Bundled", fmt.Sprintf("%t", status.State.Bundled))
	out.KeyValue("Project classpath jar", valueOrNone(status.State.ProjectClasspathJar))
	out.KeyValue("Remembered jar", valueOrNone(status.CachedPath))
	return nil
}

func valueOrNone(v string) string {
	if v == "" {
		return "(none)"
	}
	return v
}

func newLombokResetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Forget the Lombok state remembered for the workspace",
		Args:  cobra.NoArgs,
		RunE:  runLombokReset,
	}
	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func runLombokReset(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		ok, err := prompterFor(cmd).Confirm(fmt.Sprintf("Forget the Lombok state for %s?", s.workspace))
		if err != nil {
			return err
		}
		if !ok {
			s.out.printErr("Aborted.")
			return nil
		}
	}

	session, err := s.lombokSession()
	if err != nil {
		return err
	}
	session.Reset()
	s.log.Info("lombok state reset", "workspace", s.workspace)
	ui.NewOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()).Success("Lombok state cleared")
	return nil
}
