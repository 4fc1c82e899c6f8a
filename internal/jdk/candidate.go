// Package jdk discovers installed Java runtimes and picks the ones used to run
// the language server and to build the user's project.
package jdk

import (
	"slices"
	"sort"
)

// Origin names the discovery source that found a runtime.
type Origin string

const (
	OriginJDKHome  Origin = "JDK_HOME"
	OriginJavaHome Origin = "JAVA_HOME"
	OriginPath     Origin = "PATH"
	OriginSettings Origin = "settings"
	OriginOther    Origin = "other"
)

// originRank orders sources for tie-breaking. Anything not listed ranks last.
var originRank = []Origin{OriginJDKHome, OriginJavaHome, OriginPath}

func rankOf(o Origin) int {
	if i := slices.Index(originRank, o); i >= 0 {
		return i
	}
	return len(originRank)
}

// Candidate is a probed Java installation.
type Candidate struct {
	Home         string   `json:"home" yaml:"home"`
	Version      string   `json:"version" yaml:"version"`
	MajorVersion int      `json:"majorVersion" yaml:"majorVersion"`
	Origins      []Origin `json:"origins" yaml:"origins"`
}

// Rank is the best (lowest) origin rank among the candidate's origins.
func (c Candidate) Rank() int {
	best := len(originRank)
	for _, o := range c.Origins {
		if r := rankOf(o); r < best {
			best = r
		}
	}
	return best
}

// HasOrigin reports whether the candidate was found through o.
func (c Candidate) HasOrigin(o Origin) bool {
	return slices.Contains(c.Origins, o)
}

func (c *Candidate) addOrigin(o Origin) {
	if !c.HasOrigin(o) {
		c.Origins = append(c.Origins, o)
	}
}

// Runtime is a user-declared named runtime from java.configuration.runtimes.
type Runtime struct {
	Path    string `json:"path" yaml:"path"`
	Name    string `json:"name" yaml:"name"`
	Default bool   `json:"default,omitempty" yaml:"default,omitempty"`
}

// Requirements is the outcome of a successful resolution.
type Requirements struct {
	ToolingHome    string `json:"toolingHome" yaml:"toolingHome"`
	ToolingVersion int    `json:"toolingVersion" yaml:"toolingVersion"`
	ProjectHome    string `json:"projectHome" yaml:"projectHome"`
	ProjectVersion int    `json:"projectVersion" yaml:"projectVersion"`
}

// SortByVersion orders candidates newest first, breaking ties by origin rank.
// The sort is stable so equal entries keep discovery order.
func SortByVersion(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].MajorVersion != candidates[j].MajorVersion {
			return candidates[i].MajorVersion > candidates[j].MajorVersion
		}
		return candidates[i].Rank() < candidates[j].Rank()
	})
}

// SortByOrigin orders candidates by origin rank only, keeping discovery order
// within a rank.
func SortByOrigin(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Rank() < candidates[j].Rank()
	})
}

// AtLeast returns the candidates whose major version is >= required.
func AtLeast(candidates []Candidate, required int) []Candidate {
	var matched []Candidate
	for _, c := range candidates {
		if c.MajorVersion >= required {
			matched = append(matched, c)
		}
	}
	return matched
}
