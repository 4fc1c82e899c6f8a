package jdk

import (
	"bufio"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sonvt1710/coc-java/internal/utils"
	"github.com/sonvt1710/coc-java/internal/version"
)

// jdkMarkers distinguish a full JDK from a bare JRE.
var jdkMarkers = []string{
	filepath.Join("lib", "rt.jar"),
	filepath.Join("jre", "lib", "rt.jar"),
	filepath.Join("lib", "jrt-fs.jar"),
}

// IsJDK reports whether home looks like a JDK installation.
func IsJDK(home string) bool {
	for _, marker := range jdkMarkers {
		if utils.FileExists(filepath.Join(home, marker)) {
			return true
		}
	}
	return false
}

// JavacPath returns the javac binary inside home.
func JavacPath(home string) string {
	return filepath.Join(home, "bin", utils.ExecutableName("javac"))
}

// JavaPath returns the java launcher inside home.
func JavaPath(home string) string {
	return filepath.Join(home, "bin", utils.ExecutableName("java"))
}

// Probe inspects home and returns its version. The second result is false
// when home is not a usable JDK; no error is reported for that case.
func Probe(ctx context.Context, home string) (*Candidate, bool) {
	if home == "" {
		return nil, false
	}
	home, err := utils.NormalizePath(home)
	if err != nil {
		return nil, false
	}
	if resolved, err := filepath.EvalSymlinks(home); err == nil {
		home = resolved
	}

	if !utils.IsRegularFile(JavacPath(home)) || !IsJDK(home) {
		return nil, false
	}

	raw := readReleaseVersion(home)
	if raw == "" {
		raw = runJavacVersion(ctx, home)
	}
	major := version.ParseMajorVersion(raw)
	if major == 0 {
		return nil, false
	}

	return &Candidate{
		Home:         home,
		Version:      raw,
		MajorVersion: major,
	}, true
}

// readReleaseVersion reads JAVA_VERSION from the release file that ships
// with every JDK since 9 and most 8 builds.
func readReleaseVersion(home string) string {
	f, err := os.Open(filepath.Join(home, "release"))
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		value, ok := strings.CutPrefix(line, "JAVA_VERSION=")
		if !ok {
			continue
		}
		return strings.Trim(value, `"'`)
	}
	return ""
}

// runJavacVersion runs `javac -version`. Older releases print to stderr, so
// both streams are read.
func runJavacVersion(ctx context.Context, home string) string {
	out, err := exec.CommandContext(ctx, JavacPath(home), "-version").CombinedOutput()
	if err != nil {
		return ""
	}
	return ParseJavacOutput(string(out))
}

// ParseJavacOutput extracts the version token from `javac -version` output,
// e.g. "javac 17.0.2" or "javac 1.8.0_292".
func ParseJavacOutput(out string) string {
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == "javac" {
			return fields[1]
		}
	}
	return ""
}
