package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/sonvt1710/coc-java/internal/buildinfo"
	"github.com/sonvt1710/coc-java/internal/cache"
	"github.com/sonvt1710/coc-java/internal/config"
	"github.com/sonvt1710/coc-java/internal/utils"
)

// ConfigOutput represents the full config output for JSON serialization
type ConfigOutput struct {
	Version     VersionInfo   `json:"version" yaml:"version"`
	Platform    PlatformInfo  `json:"platform" yaml:"platform"`
	Settings    SettingsInfo  `json:"settings" yaml:"settings"`
	Directories DirectoryInfo `json:"directories" yaml:"directories"`
	Lombok      LombokInfo    `json:"lombok" yaml:"lombok"`
	RecentLogs  []string      `json:"recentLogs" yaml:"recentLogs"`
}

type VersionInfo struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
}

type PlatformInfo struct {
	OS        string `json:"os" yaml:"os"`
	Arch      string `json:"arch" yaml:"arch"`
	Workspace string `json:"workspace" yaml:"workspace"`
}

type SettingsInfo struct {
	Path            string                  `json:"path" yaml:"path"`
	Exists          bool                    `json:"exists" yaml:"exists"`
	JavaHome        string                  `json:"javaHome,omitempty" yaml:"javaHome,omitempty"`
	DeprecatedHome  bool                    `json:"deprecatedHome,omitempty" yaml:"deprecatedHome,omitempty"`
	RequiredVersion int                     `json:"requiredVersion" yaml:"requiredVersion"`
	LombokEnabled   bool                    `json:"lombokEnabled" yaml:"lombokEnabled"`
	VMArgs          []string                `json:"vmargs,omitempty" yaml:"vmargs,omitempty"`
	Runtimes        []config.RuntimeSetting `json:"runtimes,omitempty" yaml:"runtimes,omitempty"`
}

type DirectoryInfo struct {
	Config         string `json:"config" yaml:"config"`
	Cache          string `json:"cache" yaml:"cache"`
	WorkspaceState string `json:"workspaceState" yaml:"workspaceState"`
	Extension      string `json:"extension" yaml:"extension"`
	LogFile        string `json:"logFile" yaml:"logFile"`
}

type LombokInfo struct {
	BundledJar string `json:"bundledJar,omitempty" yaml:"bundledJar,omitempty"`
}

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Display effective settings and paths",
		Long:  "Shows the effective Java settings, the directories coc-java uses and recent log lines for debugging.",
		Args:  cobra.NoArgs,
		RunE:  runConfig,
	}
	addFormatFlags(cmd)
	return cmd
}

func runConfig(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	output := gatherConfigInfo(s)

	if f := outputFormat(cmd); f != formatText {
		return s.out.encode(f, output)
	}
	printText(s.out, output)
	return nil
}

func gatherConfigInfo(s *session) ConfigOutput {
	output := ConfigOutput{
		Version: VersionInfo{
			Version: buildinfo.Version,
			Commit:  buildinfo.Commit,
			Date:    buildinfo.Date,
		},
		Platform: PlatformInfo{
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			Workspace: s.workspace,
		},
	}

	home, deprecated := s.settings.Home()
	output.Settings = SettingsInfo{
		Path:            s.settingsFile,
		Exists:          utils.FileExists(s.settingsFile),
		JavaHome:        home,
		DeprecatedHome:  deprecated,
		RequiredVersion: s.settings.RequiredVersion(),
		LombokEnabled:   s.settings.LombokEnabled(),
		VMArgs:          s.settings.VMArgList(),
		Runtimes:        s.settings.Runtimes,
	}

	output.Directories = gatherDirectoryInfo(s)
	if jar, ok := s.bundledLookup()(); ok {
		output.Lombok.BundledJar = jar
	}
	output.RecentLogs = gatherRecentLogs(5)
	return output
}

func gatherDirectoryInfo(s *session) DirectoryInfo {
	configDir, _ := utils.GetConfigDir()
	cacheDir, _ := cache.GetCacheDir()
	statePath, _ := cache.GetWorkspaceStatePath(s.workspace)
	logFile, _ := cache.GetLogFile()

	return DirectoryInfo{
		Config:         configDir,
		Cache:          cacheDir,
		WorkspaceState: statePath,
		Extension:      s.extensionDir,
		LogFile:        logFile,
	}
}

func gatherRecentLogs(lines int) []string {
	logPath, err := cache.GetLogFile()
	if err != nil {
		return nil
	}
	recent, _ := readTailLines(logPath, lines)
	return recent
}

func printText(out *outputHelper, output ConfigOutput) {
	out.println("coc-java Configuration")
	out.println("======================")
	out.println()

	out.printf("Version: %s (commit: %s, built: %s)\n", output.Version.Version, output.Version.Commit, output.Version.Date)
	out.printf("Platform: %s/%s\n", output.Platform.OS, output.Platform.Arch)
	out.printf("Workspace: %s\n", output.Platform.Workspace)
	out.println()

	out.println("Settings")
	out.println("--------")
	existsStr := "exists"
	if !output.Settings.Exists {
		existsStr = "not found"
	}
	out.printf("Settings File: %s (%s)\n", output.Settings.Path, existsStr)
	if output.Settings.JavaHome != "" {
		suffix := ""
		if output.Settings.DeprecatedHome {
			suffix = fmt.Sprintf(" (from deprecated %s)", config.KeyLegacyJavaHome)
		}
		out.printf("Java Home: %s%s\n", output.Settings.JavaHome, suffix)
	}
	out.printf("Required Java: %d\n", output.Settings.RequiredVersion)
	out.printf("Lombok Support: %t\n", output.Settings.LombokEnabled)
	if len(output.Settings.VMArgs) > 0 {
		out.printf("VM Args: %v\n", output.Settings.VMArgs)
	}
	for _, rt := range output.Settings.Runtimes {
		def := ""
		if rt.Default {
			def = " (default)"
		}
		out.printf("Runtime: %s → %s%s\n", rt.Name, rt.Path, def)
	}
	out.println()

	out.println("Directories")
	out.println("-----------")
	out.printf("Config: %s\n", output.Directories.Config)
	out.printf("Cache: %s\n", output.Directories.Cache)
	out.printf("Workspace State: %s\n", output.Directories.WorkspaceState)
	out.printf("Extension: %s\n", output.Directories.Extension)
	out.printf("Log File: %s\n", output.Directories.LogFile)
	if output.Lombok.BundledJar != "" {
		out.printf("Bundled Lombok: %s\n", output.Lombok.BundledJar)
	} else {
		out.println("Bundled Lombok: not found")
	}
	out.println()

	if len(output.RecentLogs) > 0 {
		out.println("Recent Logs (last 5 lines)")
		out.println("--------------------------")
		for _, line := range output.RecentLogs {
			out.println(line)
		}
		out.println()
	}
}
