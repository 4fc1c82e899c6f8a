// Package lombok decides which Lombok jar the language server loads as a
// -javaagent and tracks the jar a project's classpath brings in.
package lombok

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/sonvt1710/coc-java/internal/version"
)

// AgentPrefix starts every Java agent argument.
const AgentPrefix = "-javaagent:"

var (
	// classpathJarRegex matches lombok.jar and lombok-<version>.jar but not
	// companion artifacts such as lombok-mapstruct-binding-0.2.0.jar.
	classpathJarRegex = regexp.MustCompile(`^lombok-?(\d[^/\\]*)?\.jar$`)

	// agentJarRegex is looser: any lombok*.jar named in an agent argument
	// counts, including edge builds.
	agentJarRegex = regexp.MustCompile(`(?i)^lombok[^/\\]*\.jar$`)
)

// Jar is a Lombok jar with its parsed version.
type Jar struct {
	Path string `json:"path" yaml:"path"`
	// VersionTag is a semantic version, or version.UnknownLombok when the
	// file name carries none.
	VersionTag string `json:"version" yaml:"version"`
	Bundled    bool   `json:"bundled" yaml:"bundled"`
}

// NewJar reads the version from the jar's file name.
func NewJar(path string, bundled bool) Jar {
	return Jar{
		Path:       path,
		VersionTag: version.ParseLombok(VersionToken(path)).String(),
		Bundled:    bundled,
	}
}

// Known reports whether the version came from the file name.
func (j Jar) Known() bool {
	return j.VersionTag != version.UnknownLombok
}

// Compatible reports whether the agent can be loaded by the language server.
func (j Jar) Compatible() bool {
	return version.IsLombokCompatible(j.VersionTag)
}

// IsLombokJar reports whether a classpath entry is the Lombok jar.
func IsLombokJar(path string) bool {
	return classpathJarRegex.MatchString(filepath.Base(path))
}

// VersionToken returns the substring after the first "-" of the jar's base
// name without the .jar suffix, or "" when there is none.
func VersionToken(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), ".jar")
	_, token, found := strings.Cut(stem, "-")
	if !found {
		return ""
	}
	return token
}

// agentJarPath returns the jar referenced by a -javaagent argument when it is
// a Lombok jar. The syntax is -javaagent:<jarpath>[=<options>].
func agentJarPath(arg string) (string, bool) {
	rest, ok := strings.CutPrefix(arg, AgentPrefix)
	if !ok {
		return "", false
	}
	rest, _, _ = strings.Cut(rest, "=")
	rest = strings.Trim(rest, `"'`)
	if !agentJarRegex.MatchString(filepath.Base(rest)) {
		return "", false
	}
	return rest, true
}

// StripAgentArgs removes every -javaagent argument that loads a Lombok jar.
// Only the last match is returned as the fallback candidate.
func StripAgentArgs(args []string) (rest []string, lastMatch string) {
	rest = make([]string, 0, len(args))
	for _, arg := range args {
		if path, ok := agentJarPath(arg); ok {
			lastMatch = path
			continue
		}
		rest = append(rest, arg)
	}
	return rest, lastMatch
}

// FindInClasspath returns the first Lombok jar among entries.
func FindInClasspath(entries []string) (string, bool) {
	for _, entry := range entries {
		if IsLombokJar(entry) {
			return entry, true
		}
	}
	return "", false
}

// BundledLookup returns the jar shipped with the extension.
type BundledLookup func() (string, bool)

// BundledIn looks for lombok*.jar under <dir>/lombok, picking the highest
// version when several are present.
func BundledIn(dir string) BundledLookup {
	return func() (string, bool) {
		if dir == "" {
			return "", false
		}
		entries, err := os.ReadDir(filepath.Join(dir, "lombok"))
		if err != nil {
			return "", false
		}
		var jars []Jar
		for _, entry := range entries {
			if entry.IsDir() || !IsLombokJar(entry.Name()) {
				continue
			}
			jars = append(jars, NewJar(filepath.Join(dir, "lombok", entry.Name()), true))
		}
		if len(jars) == 0 {
			return "", false
		}
		sort.SliceStable(jars, func(i, j int) bool {
			return version.ParseLombok(jars[i].VersionTag).GreaterThan(version.ParseLombok(jars[j].VersionTag))
		})
		return jars[0].Path, true
	}
}

// StaticBundled returns a lookup for a fixed path, failing when the file is
// missing.
func StaticBundled(path string) BundledLookup {
	return func() (string, bool) {
		if path == "" {
			return "", false
		}
		if _, err := os.Stat(path); err != nil {
			return "", false
		}
		return path, true
	}
}
