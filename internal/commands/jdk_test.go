package commands

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/sonvt1710/coc-java/internal/host"
	"github.com/sonvt1710/coc-java/internal/jdk"
)

func TestJDKListJSON(t *testing.T) {
	env := NewTestEnv(t)
	jdk17 := env.MakeJDK("jdk-17", "17.0.2")
	jdk21 := env.MakeJDK("jdk-21", "21.0.1")

	stdout, _, err := env.Run("jdk", "list", "--json")
	if err != nil {
		t.Fatalf("jdk list failed: %v", err)
	}

	var candidates []jdk.Candidate
	if err := json.Unmarshal([]byte(stdout), &candidates); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, stdout)
	}
	if len(candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(candidates))
	}
	if candidates[0].Home != jdk21 || candidates[1].Home != jdk17 {
		t.Errorf("candidates not newest first: %+v", candidates)
	}
}

func TestJDKListEmpty(t *testing.T) {
	env := NewTestEnv(t)

	stdout, stderr, err := env.Run("jdk", "list")
	if err != nil {
		t.Fatalf("jdk list failed: %v", err)
	}
	if stdout != "" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	if !strings.Contains(stderr, "No Java runtimes found") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestJDKListYAML(t *testing.T) {
	env := NewTestEnv(t)
	env.MakeJDK("jdk-21", "21.0.1")

	stdout, _, err := env.Run("jdk", "list", "--yaml")
	if err != nil {
		t.Fatalf("jdk list failed: %v", err)
	}
	if !strings.Contains(stdout, "majorVersion: 21") {
		t.Errorf("YAML output missing version:\n%s", stdout)
	}
}

func TestJDKResolve(t *testing.T) {
	env := NewTestEnv(t)
	jdk17 := env.MakeJDK("jdk-17", "17.0.2")
	jdk21 := env.MakeJDK("jdk-21", "21.0.1")

	stdout, _, err := env.Run("jdk", "resolve", "--json")
	if err != nil {
		t.Fatalf("jdk resolve failed: %v", err)
	}

	var out resolveOutput
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, stdout)
	}
	if out.Failure != nil || out.Requirements == nil {
		t.Fatalf("unexpected output %+v", out)
	}
	if out.Requirements.ToolingHome != jdk21 || out.Requirements.ToolingVersion != 21 {
		t.Errorf("tooling = %s (%d), want %s", out.Requirements.ToolingHome, out.Requirements.ToolingVersion, jdk21)
	}
	// Project runtime is the first discovered by origin rank, not the newest.
	if out.Requirements.ProjectHome != jdk17 {
		t.Errorf("project = %s, want %s", out.Requirements.ProjectHome, jdk17)
	}
}

func TestJDKResolvePrefersJavaHomeOnTie(t *testing.T) {
	env := NewTestEnv(t)
	env.MakeJDK("a-jdk-21", "21.0.1")
	viaJavaHome := env.MakeJDK("b-jdk-21", "21.0.3")
	env.Env["JAVA_HOME"] = viaJavaHome

	stdout, _, err := env.Run("jdk", "resolve", "--json")
	if err != nil {
		t.Fatalf("jdk resolve failed: %v", err)
	}
	var out resolveOutput
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatal(err)
	}
	if out.Requirements.ToolingHome != viaJavaHome {
		t.Errorf("tooling = %s, want JAVA_HOME runtime %s", out.Requirements.ToolingHome, viaJavaHome)
	}
	if out.Requirements.ProjectHome != viaJavaHome {
		t.Errorf("project = %s, want JAVA_HOME runtime %s", out.Requirements.ProjectHome, viaJavaHome)
	}
}

func TestJDKResolvePick(t *testing.T) {
	env := NewTestEnv(t)
	jdk17 := env.MakeJDK("jdk-17", "17.0.2")
	jdk21 := env.MakeJDK("jdk-21", "21.0.1")
	env.MakeJDK("jdk-11", "11.0.20")
	env.Host.ChoiceValue = jdk17

	stdout, _, err := env.Run("jdk", "resolve", "--pick", "--json")
	if err != nil {
		t.Fatalf("jdk resolve failed: %v", err)
	}
	var out resolveOutput
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatal(err)
	}
	if out.Requirements.ToolingHome != jdk17 || out.Requirements.ToolingVersion != 17 {
		t.Errorf("tooling = %s (%d), want picked %s", out.Requirements.ToolingHome, out.Requirements.ToolingVersion, jdk17)
	}
	if len(env.Host.Prompts) != 1 {
		t.Fatalf("prompts = %v, want one", env.Host.Prompts)
	}

	// Without an answer the selected runtime stays.
	env.Host.ChoiceValue = ""
	stdout, _, err = env.Run("jdk", "resolve", "--pick", "--json")
	if err != nil {
		t.Fatalf("jdk resolve failed: %v", err)
	}
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatal(err)
	}
	if out.Requirements.ToolingHome != jdk21 {
		t.Errorf("tooling = %s, want %s", out.Requirements.ToolingHome, jdk21)
	}
}

func TestJDKResolvePickSingleCandidate(t *testing.T) {
	env := NewTestEnv(t)
	env.MakeJDK("jdk-21", "21.0.1")

	if _, _, err := env.Run("jdk", "resolve", "--pick"); err != nil {
		t.Fatalf("jdk resolve failed: %v", err)
	}
	if len(env.Host.Prompts) != 0 {
		t.Errorf("prompted with a single eligible runtime: %v", env.Host.Prompts)
	}
}

func TestJDKResolveText(t *testing.T) {
	env := NewTestEnv(t)
	jdk21 := env.MakeJDK("jdk-21", "21.0.1")

	stdout, _, err := env.Run("jdk", "resolve")
	if err != nil {
		t.Fatalf("jdk resolve failed: %v", err)
	}
	if !strings.Contains(stdout, "Tooling JDK: "+jdk21+" (Java 21)") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestJDKResolveNoCompatibleJDK(t *testing.T) {
	env := NewTestEnv(t)
	env.MakeJDK("jdk-11", "11.0.20")
	env.Host.Action = "Get the Java Development Kit"

	stdout, _, err := env.Run("jdk", "resolve", "--json")

	var failure *jdk.Failure
	if !errors.As(err, &failure) {
		t.Fatalf("error = %v, want *jdk.Failure", err)
	}
	if failure.Action != jdk.ActionOpenURL {
		t.Errorf("action = %s, want %s", failure.Action, jdk.ActionOpenURL)
	}

	var out resolveOutput
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, stdout)
	}
	if out.Failure == nil || out.Requirements != nil {
		t.Errorf("output = %+v, want failure only", out)
	}

	if len(env.Host.Notifications) != 1 || env.Host.Notifications[0].Level != host.LevelError {
		t.Fatalf("notifications = %+v", env.Host.Notifications)
	}
	if len(env.Host.Opened) != 1 || env.Host.Opened[0] != jdk.DownloadURL {
		t.Errorf("opened = %v, want download page", env.Host.Opened)
	}
}

func TestJDKResolveJavacRequires23(t *testing.T) {
	env := NewTestEnv(t)
	env.MakeJDK("jdk-21", "21.0.1")
	env.WriteSettings(`{
		// javac-based compilation needs a newer runtime
		"java.jdt.ls.javac.enabled": true,
	}`)

	_, _, err := env.Run("jdk", "resolve")

	var failure *jdk.Failure
	if !errors.As(err, &failure) {
		t.Fatalf("error = %v, want *jdk.Failure", err)
	}
	if !strings.Contains(failure.Message, "23") {
		t.Errorf("message %q does not name Java 23", failure.Message)
	}
}

func TestJDKResolveConfiguredHomeTooOld(t *testing.T) {
	env := NewTestEnv(t)
	old := env.MakeJDK("jdk-11", "11.0.20")
	env.WriteSettings(`{"java.jdt.ls.java.home": "` + old + `"}`)
	env.Host.Action = "Open Settings"

	_, _, err := env.Run("jdk", "resolve", "--settings", env.SettingsFile)

	var failure *jdk.Failure
	if !errors.As(err, &failure) {
		t.Fatalf("error = %v, want *jdk.Failure", err)
	}
	if failure.Action != jdk.ActionOpenSettings {
		t.Errorf("action = %s, want %s", failure.Action, jdk.ActionOpenSettings)
	}
	if len(env.Host.Opened) != 1 || env.Host.Opened[0] != env.SettingsFile {
		t.Errorf("opened = %v, want settings file", env.Host.Opened)
	}
}

func TestJDKResolveDeprecatedJavaHome(t *testing.T) {
	env := NewTestEnv(t)
	jdk21 := env.MakeJDK("jdk-21", "21.0.1")
	env.WriteSettings(`{"java.home": "` + jdk21 + `"}`)

	stdout, _, err := env.Run("jdk", "resolve", "--json")
	if err != nil {
		t.Fatalf("jdk resolve failed: %v", err)
	}

	var out resolveOutput
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatal(err)
	}
	if out.Requirements.ToolingHome != jdk21 {
		t.Errorf("tooling = %s, want %s", out.Requirements.ToolingHome, jdk21)
	}

	found := false
	for _, n := range env.Host.Notifications {
		if n.Level == host.LevelWarning && strings.Contains(n.Message, "deprecated") {
			found = true
		}
	}
	if !found {
		t.Errorf("no deprecation warning in %+v", env.Host.Notifications)
	}
}

func TestJDKResolveDeclaredRuntimeFallback(t *testing.T) {
	env := NewTestEnv(t)
	jdk21 := env.MakeJDK("jdk-21", "21.0.1")
	env.WriteSettings(`{
		"java.jdt.ls.java.home": "` + jdk21 + `",
		"java.configuration.runtimes": [
			{"name": "JavaSE-11", "path": "/opt/jdk-11"},
			{"name": "JavaSE-17", "path": "/opt/jdk-17", "default": true},
		],
	}`)

	stdout, _, err := env.Run("jdk", "resolve", "--json")
	if err != nil {
		t.Fatalf("jdk resolve failed: %v", err)
	}
	var out resolveOutput
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatal(err)
	}
	// The configured home wins over declared runtimes for the project too.
	if out.Requirements.ProjectHome != jdk21 {
		t.Errorf("project = %s, want configured home %s", out.Requirements.ProjectHome, jdk21)
	}
}

func TestInvalidSettings(t *testing.T) {
	env := NewTestEnv(t)
	env.WriteSettings(`{"java.configuration.runtimes": [{"name": "Java17", "path": "/opt/jdk"}]}`)

	_, _, err := env.Run("jdk", "resolve")
	if err == nil || !strings.Contains(err.Error(), "invalid settings") {
		t.Errorf("error = %v, want invalid settings", err)
	}
}
