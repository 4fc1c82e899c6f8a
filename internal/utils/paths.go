package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ExpandTilde expands a tilde (~) at the beginning of a path to the user's home directory
func ExpandTilde(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	if path == "~" {
		return homeDir, nil
	}

	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~\\") {
		return filepath.Join(homeDir, path[2:]), nil
	}

	return path, nil
}

// NormalizePath normalizes a file path, expanding tilde and cleaning it
func NormalizePath(path string) (string, error) {
	expanded, err := ExpandTilde(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(expanded), nil
}

// EnsureDir ensures that a directory exists, creating it if necessary
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// GetConfigDir returns the path to the coc-java config directory
// Uses platform-specific config directories:
// - Linux: ~/.config/coc-java (or $XDG_CONFIG_HOME/coc-java)
// - macOS: ~/Library/Application Support/coc-java
// - Windows: %AppData%/coc-java
func GetConfigDir() (string, error) {
	if configDir := os.Getenv("COC_JAVA_CONFIG_DIR"); configDir != "" {
		return configDir, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine config directory: %w", err)
	}

	return filepath.Join(configDir, "coc-java"), nil
}

// GetSettingsFile returns the path to the settings file.
// COC_JAVA_SETTINGS overrides the location entirely.
func GetSettingsFile() (string, error) {
	if settingsFile := os.Getenv("COC_JAVA_SETTINGS"); settingsFile != "" {
		return NormalizePath(settingsFile)
	}
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "settings.json"), nil
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDirectory checks if a path is a directory
func IsDirectory(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsRegularFile checks if a path exists and is not a directory
func IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// ExecutableName appends the platform executable suffix to a binary name
func ExecutableName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

// PathHash returns a short stable identifier for a filesystem path.
// Paths are cleaned first so "a/b/" and "a/b" map to the same hash.
func PathHash(path string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(path)))
	return hex.EncodeToString(sum[:])[:16]
}
