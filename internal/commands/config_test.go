package commands

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigJSON(t *testing.T) {
	env := NewTestEnv(t)
	bundled := env.BundleLombok("lombok-1.18.32.jar")
	env.WriteSettings(`{
		"java.home": "/opt/jdk-21",
		"java.jdt.ls.javac.enabled": true,
		"java.jdt.ls.vmargs": "-Xmx2G",
	}`)

	stdout, _, err := env.Run("config", "--json")
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}

	var out ConfigOutput
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, stdout)
	}

	if !out.Settings.Exists || out.Settings.Path != env.SettingsFile {
		t.Errorf("settings = %+v", out.Settings)
	}
	if out.Settings.JavaHome != "/opt/jdk-21" || !out.Settings.DeprecatedHome {
		t.Errorf("java home = %q deprecated=%v", out.Settings.JavaHome, out.Settings.DeprecatedHome)
	}
	if out.Settings.RequiredVersion != 23 {
		t.Errorf("required version = %d, want 23", out.Settings.RequiredVersion)
	}
	if !out.Settings.LombokEnabled {
		t.Error("lombok support should default to enabled")
	}
	if out.Lombok.BundledJar != bundled {
		t.Errorf("bundled jar = %q, want %q", out.Lombok.BundledJar, bundled)
	}
	if out.Platform.Workspace != env.Workspace {
		t.Errorf("workspace = %q, want %q", out.Platform.Workspace, env.Workspace)
	}
	if !strings.HasPrefix(out.Directories.WorkspaceState, filepath.Join(env.TempDir, "cache", "workspaces")) {
		t.Errorf("workspace state = %q", out.Directories.WorkspaceState)
	}
}

func TestConfigText(t *testing.T) {
	env := NewTestEnv(t)

	stdout, _, err := env.Run("config")
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}
	for _, want := range []string{
		"Settings File: " + env.SettingsFile + " (not found)",
		"Required Java: 17",
		"Bundled Lombok: not found",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestConfigTOMLSettings(t *testing.T) {
	env := NewTestEnv(t)
	settings := env.WriteFile(filepath.Join(env.TempDir, "settings.toml"), `
"java.jdt.ls.lombokSupport.enabled" = false

[["java.configuration.runtimes"]]
name = "JavaSE-17"
path = "/opt/jdk-17"
default = true
`)

	stdout, _, err := env.Run("config", "--json", "--settings", settings)
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}
	var out ConfigOutput
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatal(err)
	}
	if out.Settings.LombokEnabled {
		t.Error("lombok support should be disabled")
	}
	if len(out.Settings.Runtimes) != 1 || out.Settings.Runtimes[0].Name != "JavaSE-17" {
		t.Errorf("runtimes = %+v", out.Settings.Runtimes)
	}
}

func TestUpdateRefusesDevBuild(t *testing.T) {
	env := NewTestEnv(t)
	t.Setenv("COC_JAVA_DISABLE_UPDATE", "")

	_, _, err := env.Run("update", "--check")
	if err == nil || !strings.Contains(err.Error(), "development builds") {
		t.Errorf("error = %v, want development build refusal", err)
	}
}
