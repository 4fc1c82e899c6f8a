package jdk

import (
	"context"
	"log/slog"
	"slices"

	"github.com/sonvt1710/coc-java/internal/utils"
)

const (
	// MinToolingVersion is the oldest Java release the language server runs on.
	MinToolingVersion = 17
	// MinJavacToolingVersion applies when javac-based compilation is enabled.
	MinJavacToolingVersion = 23

	// HomeSetting is the setting that pins the tooling JDK.
	HomeSetting = "java.jdt.ls.java.home"
)

// RequiredVersion returns the minimum tooling version for the feature flag.
func RequiredVersion(javacEnabled bool) int {
	if javacEnabled {
		return MinJavacToolingVersion
	}
	return MinToolingVersion
}

// ProbeFunc inspects a directory and reports the runtime installed there.
type ProbeFunc func(ctx context.Context, home string) (*Candidate, bool)

// Resolver picks the tooling and project runtimes. Discovered runtimes are
// cached for the resolver's lifetime; create one per session.
type Resolver struct {
	sources Sources
	probe   ProbeFunc
	log     *slog.Logger

	discovered []Candidate
	loaded     bool
}

// NewResolver creates a resolver that scans src.
func NewResolver(src Sources, log *slog.Logger) *Resolver {
	return &Resolver{
		sources: src,
		probe:   Probe,
		log:     log,
	}
}

// Refresh drops the cached discovery results.
func (r *Resolver) Refresh() {
	r.discovered = nil
	r.loaded = false
}

// Candidates returns every discovered runtime in discovery order.
func (r *Resolver) Candidates(ctx context.Context) []Candidate {
	if !r.loaded {
		r.discovered = Discover(ctx, r.sources)
		r.loaded = true
		r.log.Debug("discovered java runtimes", "count", len(r.discovered))
	}
	return slices.Clone(r.discovered)
}

// Configured probes the configured home and tags it with OriginSettings plus
// any origin discovery also reached it through.
func (r *Resolver) Configured(ctx context.Context, home string) (*Candidate, bool) {
	if home == "" {
		return nil, false
	}
	c, ok := r.probe(ctx, home)
	if !ok {
		r.log.Warn("configured java home is not a valid JDK", "home", home)
		return nil, false
	}
	c.Origins = []Origin{OriginSettings}
	for _, d := range r.Candidates(ctx) {
		if d.Home == c.Home {
			for _, o := range d.Origins {
				c.addOrigin(o)
			}
		}
	}
	return c, true
}

// Resolve selects the tooling runtime (at least required) and the default
// project runtime. It returns a *Failure when either cannot be found.
func (r *Resolver) Resolve(ctx context.Context, required int, configuredHome string, runtimes []Runtime) (*Requirements, error) {
	tooling, err := r.ResolveTooling(ctx, required, configuredHome)
	if err != nil {
		return nil, err
	}
	project, err := r.ResolveProject(ctx, configuredHome, runtimes)
	if err != nil {
		return nil, err
	}

	req := &Requirements{
		ToolingHome:    tooling.Home,
		ToolingVersion: tooling.MajorVersion,
		ProjectHome:    project.Home,
		ProjectVersion: project.MajorVersion,
	}
	r.log.Info("resolved java requirements",
		"tooling_home", req.ToolingHome, "tooling_version", req.ToolingVersion,
		"project_home", req.ProjectHome, "project_version", req.ProjectVersion)
	return req, nil
}

// ResolveTooling picks the runtime that executes the language server.
//
//  1. The configured home when its version is at least required.
//  2. The newest discovered runtime meeting the minimum, ties broken by
//     origin rank then discovery order.
//  3. A Failure pointing at the JDK download page.
func (r *Resolver) ResolveTooling(ctx context.Context, required int, configuredHome string) (*Candidate, error) {
	configured, hasConfigured := r.Configured(ctx, configuredHome)
	if hasConfigured && configured.MajorVersion >= required {
		return configured, nil
	}
	if hasConfigured {
		r.log.Warn("configured java home is too old for the language server",
			"home", configured.Home, "version", configured.MajorVersion, "required", required)
	}

	eligible := AtLeast(r.Candidates(ctx), required)
	if len(eligible) == 0 {
		if hasConfigured {
			return nil, configuredHomeTooOld(HomeSetting, configured.Home, configured.MajorVersion, required)
		}
		return nil, noCompatibleJDK(required)
	}
	SortByVersion(eligible)
	return &eligible[0], nil
}

// ResolveProject picks the default runtime for compiling the project. No
// minimum version applies.
//
//  1. The configured home.
//  2. The first discovered runtime by origin rank.
//  3. The declared runtime marked default, else the first declared runtime.
//  4. A Failure pointing at the JDK download page.
func (r *Resolver) ResolveProject(ctx context.Context, configuredHome string, runtimes []Runtime) (*Candidate, error) {
	if c, ok := r.Configured(ctx, configuredHome); ok {
		return c, nil
	}

	discovered := r.Candidates(ctx)
	if len(discovered) > 0 {
		SortByOrigin(discovered)
		return &discovered[0], nil
	}

	if rt, ok := DefaultRuntime(runtimes); ok {
		path, err := utils.NormalizePath(rt.Path)
		if err == nil {
			if c, ok := r.probe(ctx, path); ok {
				c.Origins = []Origin{OriginSettings}
				return c, nil
			}
		}
		r.log.Warn("declared runtime is not a valid JDK", "name", rt.Name, "path", rt.Path)
	}

	return nil, noProjectJDK()
}

// DefaultRuntime returns the declared runtime marked default, or the first
// one when none is marked.
func DefaultRuntime(runtimes []Runtime) (Runtime, bool) {
	if len(runtimes) == 0 {
		return Runtime{}, false
	}
	for _, rt := range runtimes {
		if rt.Default {
			return rt, true
		}
	}
	return runtimes[0], true
}
