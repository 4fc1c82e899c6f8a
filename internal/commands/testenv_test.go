package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/sonvt1710/coc-java/internal/host"
	"github.com/sonvt1710/coc-java/internal/jdk"
	"github.com/sonvt1710/coc-java/internal/utils"
)

// TestEnv provides an isolated test environment with common setup utilities.
type TestEnv struct {
	t            *testing.T
	TempDir      string // Root temp directory
	HomeDir      string // Simulated home directory
	Workspace    string // Workspace the state belongs to
	ExtensionDir string // Extension directory holding lombok/
	JDKDir       string // Install directory scanned for JDKs
	SettingsFile string

	Host     *host.Recorder
	Env      map[string]string // Environment seen by JDK discovery
	Prompter Prompter
}

// NewTestEnv creates a new isolated test environment.
// It points the config, cache and settings locations into a temp directory
// so commands never touch the real user state.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	tempDir := t.TempDir()
	e := &TestEnv{
		t:            t,
		TempDir:      tempDir,
		HomeDir:      filepath.Join(tempDir, "home"),
		Workspace:    filepath.Join(tempDir, "workspace"),
		ExtensionDir: filepath.Join(tempDir, "extension"),
		JDKDir:       filepath.Join(tempDir, "jdks"),
		SettingsFile: filepath.Join(tempDir, "config", "settings.json"),
		Host:         &host.Recorder{},
		Env:          map[string]string{},
	}

	t.Setenv("HOME", e.HomeDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(e.HomeDir, ".config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(e.HomeDir, ".cache"))
	t.Setenv("COC_JAVA_CONFIG_DIR", filepath.Join(tempDir, "config"))
	t.Setenv("COC_JAVA_CACHE_DIR", filepath.Join(tempDir, "cache"))
	t.Setenv("COC_JAVA_SETTINGS", e.SettingsFile)
	t.Setenv("COC_JAVA_EXTENSION_DIR", e.ExtensionDir)

	for _, dir := range []string{e.HomeDir, e.Workspace, e.ExtensionDir, e.JDKDir} {
		e.MkdirAll(dir)
	}
	return e
}

// MkdirAll creates a directory and all parents.
func (e *TestEnv) MkdirAll(path string) string {
	e.t.Helper()
	if err := os.MkdirAll(path, 0755); err != nil {
		e.t.Fatalf("Failed to create directory %s: %v", path, err)
	}
	return path
}

// WriteFile writes content to path, creating parent directories.
func (e *TestEnv) WriteFile(path, content string) string {
	e.t.Helper()
	e.MkdirAll(filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		e.t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// WriteSettings writes the settings file.
func (e *TestEnv) WriteSettings(content string) {
	e.t.Helper()
	e.WriteFile(e.SettingsFile, content)
}

// MakeJDK creates a JDK tree under JDKDir with the given release version and
// returns its resolved home.
func (e *TestEnv) MakeJDK(name, javaVersion string) string {
	e.t.Helper()
	home := filepath.Join(e.JDKDir, name)
	e.WriteFile(filepath.Join(home, "bin", utils.ExecutableName("javac")), "")
	e.WriteFile(filepath.Join(home, "bin", utils.ExecutableName("java")), "")
	e.WriteFile(filepath.Join(home, "lib", "jrt-fs.jar"), "")
	e.WriteFile(filepath.Join(home, "release"), "JAVA_VERSION=\""+javaVersion+"\"\n")
	resolved, err := filepath.EvalSymlinks(home)
	if err != nil {
		e.t.Fatal(err)
	}
	return resolved
}

// BundleLombok places a Lombok jar in the extension directory.
func (e *TestEnv) BundleLombok(name string) string {
	e.t.Helper()
	return e.WriteFile(filepath.Join(e.ExtensionDir, "lombok", name), "")
}

// newRootCommand builds the command tree the way main does.
func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "coc-java",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	AddGlobalFlags(root)
	root.AddCommand(NewJDKCommand())
	root.AddCommand(NewLombokCommand())
	root.AddCommand(NewConfigCommand())
	root.AddCommand(NewLogsCommand())
	root.AddCommand(NewUpdateCommand())
	return root
}

// Run executes the CLI with args against the test workspace and returns its
// stdout and stderr.
func (e *TestEnv) Run(args ...string) (string, string, error) {
	e.t.Helper()
	return e.RunContext(context.Background(), args...)
}

// RunContext is Run with a caller-supplied context.
func (e *TestEnv) RunContext(ctx context.Context, args ...string) (string, string, error) {
	e.t.Helper()
	var stdout, stderr bytes.Buffer

	root := newRootCommand()
	root.SetArgs(append([]string{"--workspace", e.Workspace, "--no-input"}, args...))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(""))

	ctx = WithHost(ctx, e.Host)
	ctx = WithSources(ctx, jdk.Sources{
		Getenv:      func(key string) string { return e.Env[key] },
		InstallDirs: []string{e.JDKDir},
	})
	if e.Prompter != nil {
		ctx = WithPrompter(ctx, e.Prompter)
	}

	err := root.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}
