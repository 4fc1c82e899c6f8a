package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sonvt1710/coc-java/internal/config"
	"github.com/sonvt1710/coc-java/internal/host"
	"github.com/sonvt1710/coc-java/internal/jdk"
	"github.com/sonvt1710/coc-java/internal/logger"
	"github.com/sonvt1710/coc-java/internal/lombok"
	"github.com/sonvt1710/coc-java/internal/store"
	"github.com/sonvt1710/coc-java/internal/ui"
	"github.com/sonvt1710/coc-java/internal/utils"
)

// DefaultProbeTimeout bounds JDK discovery for one command.
const DefaultProbeTimeout = 10 * time.Second

// AddGlobalFlags registers the flags every command reads through newSession.
func AddGlobalFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("settings", "", "Path to the settings file (can also use COC_JAVA_SETTINGS environment variable)")
	flags.String("workspace", "", "Workspace root the state belongs to (default: current directory)")
	flags.String("extension-dir", "", "Extension directory holding the bundled Lombok jar (can also use COC_JAVA_EXTENSION_DIR environment variable)")
	flags.Duration("probe-timeout", DefaultProbeTimeout, "Time limit for discovering and probing Java runtimes")
	flags.Bool("no-input", false, "Never prompt, even on a terminal")
	flags.Bool("desktop-notify", false, "Also send warnings as desktop notifications")
}

type hostKey struct{}

type sourcesKey struct{}

// WithHost returns a context carrying h for commands to use instead of the
// terminal host.
func WithHost(ctx context.Context, h host.Host) context.Context {
	return context.WithValue(ctx, hostKey{}, h)
}

// WithSources returns a context carrying the JDK discovery sources.
func WithSources(ctx context.Context, src jdk.Sources) context.Context {
	return context.WithValue(ctx, sourcesKey{}, src)
}

// session holds what one command invocation needs: settings, workspace,
// host and a logger tagged with a cycle id.
type session struct {
	cmd          *cobra.Command
	out          *outputHelper
	log          *slog.Logger
	settingsFile string
	settings     *config.Settings
	workspace    string
	extensionDir string
	probeTimeout time.Duration
	host         host.Host
	sources      jdk.Sources
}

func newSession(cmd *cobra.Command) (*session, error) {
	s := &session{
		cmd: cmd,
		out: newOutputHelper(cmd),
		log: logger.Get().With("cycle", uuid.NewString(), "command", cmd.CommandPath()),
	}

	flags := cmd.Flags()
	s.settingsFile, _ = flags.GetString("settings")
	if s.settingsFile == "" {
		path, err := utils.GetSettingsFile()
		if err != nil {
			return nil, err
		}
		s.settingsFile = path
	}
	s.settingsFile = normalizePath(s.settingsFile)

	settings, err := config.LoadFile(s.settingsFile)
	if err != nil {
		return nil, err
	}
	s.settings = settings

	s.workspace, _ = flags.GetString("workspace")
	if s.workspace == "" {
		if s.workspace, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
	}
	s.workspace = normalizePath(s.workspace)

	s.extensionDir, _ = flags.GetString("extension-dir")
	if s.extensionDir == "" {
		s.extensionDir = defaultExtensionDir()
	}

	s.probeTimeout, _ = flags.GetDuration("probe-timeout")
	if s.probeTimeout <= 0 {
		s.probeTimeout = DefaultProbeTimeout
	}

	ctx := cmd.Context()
	if h, ok := ctx.Value(hostKey{}).(host.Host); ok {
		s.host = h
	} else {
		desktop, _ := flags.GetBool("desktop-notify")
		s.host = host.NewTerminal(host.TerminalOptions{
			In:          cmd.InOrStdin(),
			Out:         cmd.OutOrStdout(),
			Err:         cmd.ErrOrStderr(),
			Interactive: isInteractive(cmd),
			Desktop:     desktop,
		})
	}
	if src, ok := ctx.Value(sourcesKey{}).(jdk.Sources); ok {
		s.sources = src
	}

	s.log.Debug("session started", "workspace", s.workspace, "settings", s.settingsFile, "extension_dir", s.extensionDir)
	return s, nil
}

// defaultExtensionDir is COC_JAVA_EXTENSION_DIR, else the parent of the
// directory holding the executable (the extension ships it under bin/).
func defaultExtensionDir() string {
	if dir := os.Getenv("COC_JAVA_EXTENSION_DIR"); dir != "" {
		return normalizePath(dir)
	}
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(filepath.Dir(exe))
}

func isInteractive(cmd *cobra.Command) bool {
	if noInput, _ := cmd.Flags().GetBool("no-input"); noInput {
		return false
	}
	if cmd.InOrStdin() != os.Stdin {
		return false
	}
	return ui.IsStdinTTY() && ui.IsTTY(cmd.ErrOrStderr())
}

// probeContext bounds runtime discovery by the probe timeout.
func (s *session) probeContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(s.cmd.Context(), s.probeTimeout)
}

func (s *session) resolver() *jdk.Resolver {
	return jdk.NewResolver(s.sources, s.log)
}

// javaHome returns the configured tooling home, warning when it comes from
// the deprecated java.home setting.
func (s *session) javaHome() string {
	home, deprecated := s.settings.Home()
	if deprecated {
		msg := fmt.Sprintf("The %s setting is deprecated, please use %s instead.", config.KeyLegacyJavaHome, config.KeyJavaHome)
		s.log.Warn(msg, "home", home)
		s.notify(host.LevelWarning, msg)
	}
	return home
}

// lombokSession opens the workspace store and restores the Lombok state.
func (s *session) lombokSession() (*lombok.Session, error) {
	st, err := store.Open(s.workspace)
	if err != nil {
		return nil, fmt.Errorf("failed to open workspace state: %w", err)
	}
	return lombok.NewSession(st, s.log), nil
}

func (s *session) bundledLookup() lombok.BundledLookup {
	if path, _ := s.cmd.Flags().GetString("bundled"); path != "" {
		return lombok.StaticBundled(normalizePath(path))
	}
	return lombok.BundledIn(s.extensionDir)
}

// notify shows a message through the host and returns the picked action.
func (s *session) notify(level host.Level, msg string, actions ...string) string {
	picked, err := s.host.Notify(level, msg, actions...)
	if err != nil {
		s.log.Error("failed to show notification", "error", err)
		return ""
	}
	return picked
}

// normalizePath expands ~ and makes path absolute, keeping it unchanged when
// that fails.
func normalizePath(path string) string {
	normalized, err := utils.NormalizePath(path)
	if err != nil {
		return path
	}
	if abs, err := filepath.Abs(normalized); err == nil {
		return abs
	}
	return normalized
}
