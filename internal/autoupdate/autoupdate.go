// Package autoupdate replaces the running binary with the latest published
// release.
package autoupdate

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/creativeprojects/go-selfupdate"
)

const (
	githubOwner = "sonvt1710"
	githubRepo  = "coc-java"

	// DisableEnv turns updates off, e.g. for installs managed by the
	// extension or a package manager.
	DisableEnv = "COC_JAVA_DISABLE_UPDATE"
)

var (
	ErrDevBuild = errors.New("development builds cannot be updated")
	ErrDisabled = fmt.Errorf("updates are disabled by %s", DisableEnv)
)

// Release is the latest published release.
type Release struct {
	Version string `json:"version" yaml:"version"`
	URL     string `json:"url,omitempty" yaml:"url,omitempty"`
	// Newer is true when Version is newer than the running build.
	Newer bool `json:"newer" yaml:"newer"`
}

// isEnvTrue checks if an environment variable is set to a truthy value
func isEnvTrue(key string) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "yes", "YES", "on", "ON":
		return true
	}
	return false
}

func checkable(current string) error {
	if isEnvTrue(DisableEnv) {
		return ErrDisabled
	}
	if current == "dev" || current == "" {
		return ErrDevBuild
	}
	return nil
}

func detect(ctx context.Context, current string) (*selfupdate.Updater, *selfupdate.Release, error) {
	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create release source: %w", err)
	}
	updater, err := selfupdate.NewUpdater(selfupdate.Config{Source: source})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create updater: %w", err)
	}

	latest, found, err := updater.DetectLatest(ctx, selfupdate.ParseSlug(githubOwner+"/"+githubRepo))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to detect latest release: %w", err)
	}
	if !found {
		return nil, nil, fmt.Errorf("no release found for %s/%s", githubOwner, githubRepo)
	}
	return updater, latest, nil
}

// Check reports the latest release without installing it.
func Check(ctx context.Context, current string) (*Release, error) {
	if err := checkable(current); err != nil {
		return nil, err
	}
	_, latest, err := detect(ctx, current)
	if err != nil {
		return nil, err
	}
	return &Release{
		Version: latest.Version(),
		URL:     latest.URL,
		Newer:   !latest.LessOrEqual(current),
	}, nil
}

// Update installs the latest release over the running executable when it is
// newer. The new version is used from the next invocation on.
func Update(ctx context.Context, current string) (*Release, error) {
	if err := checkable(current); err != nil {
		return nil, err
	}
	updater, latest, err := detect(ctx, current)
	if err != nil {
		return nil, err
	}

	rel := &Release{Version: latest.Version(), URL: latest.URL, Newer: !latest.LessOrEqual(current)}
	if !rel.Newer {
		return rel, nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return nil, fmt.Errorf("failed to locate executable: %w", err)
	}
	if err := updater.UpdateTo(ctx, latest, exe); err != nil {
		return nil, fmt.Errorf("failed to install %s: %w", rel.Version, err)
	}
	return rel, nil
}
