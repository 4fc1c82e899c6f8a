package lombok

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/sonvt1710/coc-java/internal/store"
	"github.com/sonvt1710/coc-java/internal/utils"
)

// Workspace store keys.
const (
	KeyJarPath    = "java.lombokPath"
	keyActivePath = "java.lombok.activePath"
	keyBundled    = "java.lombok.bundled"
	keyProjectJar = "java.lombok.projectJar"
	keyStatus     = "java.lombok.status"
)

// WarningKind classifies a degraded but continuable outcome.
type WarningKind string

const (
	WarnIncompatible   WarningKind = "incompatible"
	WarnUnknownVersion WarningKind = "unknown-version"
	WarnNoValidJar     WarningKind = "no-valid-jar"
)

// Warning is surfaced to the user without stopping startup.
type Warning struct {
	Kind    WarningKind `json:"kind" yaml:"kind"`
	Message string      `json:"message" yaml:"message"`
}

// State is the Lombok jar in use for the current session.
type State struct {
	ActivePath          string `json:"activePath,omitempty" yaml:"activePath,omitempty"`
	Bundled             bool   `json:"bundled" yaml:"bundled"`
	ProjectClasspathJar string `json:"projectClasspathJar,omitempty" yaml:"projectClasspathJar,omitempty"`
	Status              Status `json:"status" yaml:"status"`
}

// Result is the outcome of ResolveAgentJar.
type Result struct {
	// AgentArgument is empty when no jar could be used.
	AgentArgument string    `json:"agentArgument,omitempty" yaml:"agentArgument,omitempty"`
	Args          []string  `json:"args" yaml:"args"`
	ActivePath    string    `json:"activePath,omitempty" yaml:"activePath,omitempty"`
	UsedBundled   bool      `json:"usedBundled" yaml:"usedBundled"`
	Warnings      []Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Session carries Lombok state for one workspace. State is read from and
// written back to the workspace store so separate runs agree on the active jar.
type Session struct {
	store store.Store
	log   *slog.Logger
	state State

	versionChangeSignalled bool
}

// NewSession restores the session state persisted in st.
func NewSession(st store.Store, log *slog.Logger) *Session {
	s := &Session{store: st, log: log}
	s.state.ActivePath, _ = st.Get(keyActivePath)
	if v, ok := st.Get(keyBundled); ok {
		s.state.Bundled, _ = strconv.ParseBool(v)
	}
	s.state.ProjectClasspathJar, _ = st.Get(keyProjectJar)
	if v, ok := st.Get(keyStatus); ok {
		s.state.Status = Status(v)
	}
	if s.state.Status == "" {
		s.state.Status = StatusUninitialized
	}
	return s
}

// State returns a copy of the current state.
func (s *Session) State() State {
	return s.state
}

// CachedPath returns the jar path remembered from a previous session.
func (s *Session) CachedPath() (string, bool) {
	path, ok := s.store.Get(KeyJarPath)
	return path, ok && path != ""
}

// ResolveAgentJar removes any Lombok agent from args and appends the one the
// language server should load.
//
// The bundled jar is the default. A jar remembered from a previous session,
// or else the last Lombok agent found in args, replaces it when it exists and
// is at least version.MinCompatibleLombok. An older jar is rejected, the
// remembered path is forgotten and a warning names both versions.
func (s *Session) ResolveAgentJar(args []string, bundled BundledLookup) *Result {
	rest, fallback := StripAgentArgs(args)
	result := &Result{Args: rest, UsedBundled: true}

	bundledPath, hasBundled := bundled()
	if !hasBundled {
		s.log.Warn("bundled lombok jar not found")
	}

	candidate := ""
	if cached, ok := s.CachedPath(); ok && utils.FileExists(cached) {
		candidate = cached
	} else if fallback != "" && utils.FileExists(fallback) {
		candidate = fallback
	}

	jarPath := ""
	if candidate != "" {
		jar := NewJar(candidate, false)
		if !jar.Known() {
			s.log.Warn("lombok jar version mismatch, treating as compatible", "path", candidate)
			result.Warnings = append(result.Warnings, Warning{
				Kind:    WarnUnknownVersion,
				Message: fmt.Sprintf("Could not read the Lombok version from %s, assuming it is supported.", candidate),
			})
		}
		if jar.Compatible() {
			jarPath = candidate
			result.UsedBundled = false
		} else {
			s.forgetCachedPath()
			bundledVersion := "unavailable"
			if hasBundled {
				bundledVersion = NewJar(bundledPath, true).VersionTag
			}
			msg := fmt.Sprintf("The project's Lombok version %s is not supported. Falling back to the built-in Lombok version %s.", jar.VersionTag, bundledVersion)
			s.log.Warn(msg, "path", candidate)
			result.Warnings = append(result.Warnings, Warning{Kind: WarnIncompatible, Message: msg})
		}
	}

	if result.UsedBundled {
		s.forgetCachedPath()
		if hasBundled {
			jarPath = bundledPath
		}
	} else {
		s.put(KeyJarPath, jarPath)
	}

	if jarPath == "" {
		msg := "Could not find a valid Lombok jar. Lombok support is disabled for this session."
		s.log.Warn(msg)
		result.Warnings = append(result.Warnings, Warning{Kind: WarnNoValidJar, Message: msg})
		s.setActive("", false)
		return result
	}

	result.AgentArgument = AgentPrefix + jarPath
	result.Args = append(result.Args, result.AgentArgument)
	result.ActivePath = jarPath
	s.setActive(jarPath, result.UsedBundled)
	s.log.Info("lombok agent resolved", "path", jarPath, "bundled", result.UsedBundled)
	return result
}

// Reset forgets everything about the workspace's Lombok jar, as after a
// project reload.
func (s *Session) Reset() {
	s.state = State{Status: StatusUninitialized}
	s.versionChangeSignalled = false
	for _, key := range []string{KeyJarPath, keyActivePath, keyBundled, keyProjectJar, keyStatus} {
		if err := s.store.Delete(key); err != nil {
			s.log.Warn("failed to clear lombok state", "key", key, "error", err)
		}
	}
}

func (s *Session) setActive(path string, bundled bool) {
	s.state.ActivePath = path
	s.state.Bundled = bundled
	if path == "" {
		s.del(keyActivePath)
	} else {
		s.put(keyActivePath, path)
	}
	s.put(keyBundled, strconv.FormatBool(bundled))
}

func (s *Session) forgetCachedPath() {
	s.del(KeyJarPath)
}

// put and del log store failures; the session keeps working from memory.
func (s *Session) put(key, value string) {
	if err := s.store.Set(key, value); err != nil {
		s.log.Warn("failed to persist lombok state", "key", key, "error", err)
	}
}

func (s *Session) del(key string) {
	if err := s.store.Delete(key); err != nil {
		s.log.Warn("failed to clear lombok state", "key", key, "error", err)
	}
}

// activeVersion is the version tag of the jar the server was started with.
func (s *Session) activeVersion() string {
	return NewJar(s.state.ActivePath, s.state.Bundled).VersionTag
}
