package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/sonvt1710/coc-java/internal/utils"
)

// GetCacheDir returns the platform-specific cache directory for coc-java
func GetCacheDir() (string, error) {
	if cacheDir := os.Getenv("COC_JAVA_CACHE_DIR"); cacheDir != "" {
		return cacheDir, nil
	}

	// Use os.UserCacheDir() with platform-specific fallbacks
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir, err = getFallbackCacheDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine cache directory: %w", err)
		}
	}

	return filepath.Join(cacheDir, "coc-java"), nil
}

// getFallbackCacheDir returns platform-specific fallback cache directories
func getFallbackCacheDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, "Library", "Caches"), nil
	case "linux":
		xdgCache := os.Getenv("XDG_CACHE_HOME")
		if xdgCache != "" {
			return xdgCache, nil
		}
		return filepath.Join(homeDir, ".cache"), nil
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData != "" {
			return localAppData, nil
		}
		return filepath.Join(homeDir, "AppData", "Local"), nil
	default:
		return filepath.Join(homeDir, ".cache"), nil
	}
}

// GetLogFile returns the path of the rotated log file
func GetLogFile() (string, error) {
	cacheDir, err := GetCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, "coc-java.log"), nil
}

// GetWorkspaceStateDir returns the directory holding per-workspace state files
func GetWorkspaceStateDir() (string, error) {
	cacheDir, err := GetCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, "workspaces"), nil
}

// GetWorkspaceStatePath returns the state file for a workspace root.
// The workspace path is hashed so any directory name maps to a safe file name.
func GetWorkspaceStatePath(workspace string) (string, error) {
	stateDir, err := GetWorkspaceStateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(stateDir, utils.PathHash(workspace)+".json"), nil
}

// EnsureCacheDirs creates all necessary cache directories
func EnsureCacheDirs() error {
	dirs := []func() (string, error){
		GetCacheDir,
		GetWorkspaceStateDir,
	}

	for _, dirFunc := range dirs {
		dir, err := dirFunc()
		if err != nil {
			return err
		}
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("failed to create cache directory %s: %w", dir, err)
		}
	}

	return nil
}
