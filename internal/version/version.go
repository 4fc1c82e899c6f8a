// Package version parses Java runtime version strings and Lombok jar versions.
package version

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

const (
	// UnknownLombok is reported for jars whose file name carries no usable
	// version. It sorts above every real release so it is always compatible.
	UnknownLombok = "999.999.999"

	// MinCompatibleLombok is the oldest Lombok release the language server
	// can load as an agent.
	MinCompatibleLombok = "1.18.0"
)

var (
	firstIntRegex = regexp.MustCompile(`\d+`)

	unknownLombok = semver.MustParse(UnknownLombok)
	minLombok     = semver.MustParse(MinCompatibleLombok)
)

// ParseMajorVersion extracts the feature release number from a Java version
// string. Legacy "1.x" strings report x. Returns 0 when no number is present.
//
//	"1.8.0_292" -> 8
//	"17.0.2"    -> 17
//	"21-ea"     -> 21
func ParseMajorVersion(v string) int {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "1.")

	match := firstIntRegex.FindString(v)
	if match == "" {
		return 0
	}
	major, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return major
}

// ParseLombok parses a Lombok version tag. Empty or malformed tags resolve to
// the UnknownLombok sentinel instead of an error.
func ParseLombok(tag string) *semver.Version {
	if tag == "" {
		return unknownLombok
	}
	v, err := semver.NewVersion(tag)
	if err != nil {
		return unknownLombok
	}
	return v
}

// IsUnknownLombok reports whether a tag falls back to the sentinel.
func IsUnknownLombok(tag string) bool {
	return ParseLombok(tag).Equal(unknownLombok)
}

// IsLombokCompatible reports whether tag is at least MinCompatibleLombok.
// Pre-release tags compare by their release numbers so edge builds of a
// supported line are accepted.
func IsLombokCompatible(tag string) bool {
	v := ParseLombok(tag)
	release, err := v.SetPrerelease("")
	if err != nil {
		release = *v
	}
	return release.Compare(minLombok) >= 0
}

// SameLombok reports whether two tags name the same release.
func SameLombok(a, b string) bool {
	return ParseLombok(a).Equal(ParseLombok(b))
}
