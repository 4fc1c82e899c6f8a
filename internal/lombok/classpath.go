package lombok

import (
	"fmt"

	"github.com/sonvt1710/coc-java/internal/version"
)

// Status drives the Lombok status indicator.
type Status string

const (
	StatusUninitialized Status = "uninitialized"
	StatusActive        Status = "active"
	StatusCleared       Status = "cleared"
)

// next returns the status after a classpath scan and whether it changed.
//
//	Uninitialized -> Active   jar found
//	Active        -> Cleared  jar gone
//	Cleared       -> Active   jar found again
func (s Status) next(found bool) (Status, bool) {
	switch {
	case found && s != StatusActive:
		return StatusActive, true
	case !found && s == StatusActive:
		return StatusCleared, true
	default:
		return s, false
	}
}

// EventKind names a change detected by ScanClasspath.
type EventKind string

const (
	// EventVersionChanged asks the caller to offer a reload: the project now
	// uses a different Lombok than the agent the server was started with.
	EventVersionChanged EventKind = "version-changed"
	// EventStatusActivated shows the status indicator.
	EventStatusActivated EventKind = "status-activated"
	// EventStatusCleared hides the status indicator.
	EventStatusCleared EventKind = "status-cleared"
)

// Event is emitted by ScanClasspath.
type Event struct {
	Kind            EventKind `json:"kind" yaml:"kind"`
	Path            string    `json:"path,omitempty" yaml:"path,omitempty"`
	PreviousVersion string    `json:"previousVersion,omitempty" yaml:"previousVersion,omitempty"`
	CurrentVersion  string    `json:"currentVersion,omitempty" yaml:"currentVersion,omitempty"`
}

// Message is a user-facing description of the event.
func (e Event) Message() string {
	switch e.Kind {
	case EventVersionChanged:
		return fmt.Sprintf("Lombok version changed from %s to %s. Please reload the window to apply the new version.", e.PreviousVersion, e.CurrentVersion)
	case EventStatusActivated:
		return fmt.Sprintf("Lombok %s detected on the project classpath.", e.CurrentVersion)
	case EventStatusCleared:
		return "Lombok is no longer on the project classpath."
	default:
		return string(e.Kind)
	}
}

// ScanClasspath checks the project's resolved classpath for a Lombok jar and
// reports how it differs from the previous scan and from the active agent.
//
// The jar found is remembered for the next ResolveAgentJar. When the jar
// disappears the remembered path is forgotten too.
func (s *Session) ScanClasspath(entries []string) []Event {
	var events []Event

	path, found := FindInClasspath(entries)

	if found && s.state.ActivePath != "" && !s.state.Bundled && !s.versionChangeSignalled {
		current := NewJar(path, false).VersionTag
		previous := s.activeVersion()
		if !version.SameLombok(current, previous) {
			s.versionChangeSignalled = true
			events = append(events, Event{
				Kind:            EventVersionChanged,
				Path:            path,
				PreviousVersion: previous,
				CurrentVersion:  current,
			})
		}
	}

	status, changed := s.state.Status.next(found)
	if changed {
		event := Event{Path: path}
		if found {
			event.Kind = EventStatusActivated
			event.CurrentVersion = NewJar(path, false).VersionTag
		} else {
			event.Kind = EventStatusCleared
			event.Path = s.state.ProjectClasspathJar
		}
		events = append(events, event)
		s.state.Status = status
		s.put(keyStatus, string(status))
	}

	if found {
		s.state.ProjectClasspathJar = path
		s.put(keyProjectJar, path)
		s.put(KeyJarPath, path)
	} else {
		s.state.ProjectClasspathJar = ""
		s.del(keyProjectJar)
		if changed {
			s.forgetCachedPath()
		}
	}

	for _, e := range events {
		s.log.Info("lombok classpath event", "kind", e.Kind, "path", e.Path,
			"previous", e.PreviousVersion, "current", e.CurrentVersion)
	}
	return events
}
