package lombok

import (
	"testing"

	"github.com/sonvt1710/coc-java/internal/logger"
	"github.com/sonvt1710/coc-java/internal/store"
)

func kinds(events []Event) []EventKind {
	var out []EventKind
	for _, e := range events {
		out = append(out, e.Kind)
	}
	return out
}

func hasKind(events []Event, kind EventKind) bool {
	for _, e := range events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

func TestScanClasspathVersionChanged(t *testing.T) {
	dir := t.TempDir()
	v20 := touch(t, dir, "m2/1.18.20/lombok-1.18.20.jar")
	v30 := "/m2/1.18.30/lombok-1.18.30.jar"

	s := NewSession(store.Memory{KeyJarPath: v20}, logger.Discard())
	s.ResolveAgentJar(nil, StaticBundled(""))

	events := s.ScanClasspath([]string{"/m2/guava.jar", v20})
	if hasKind(events, EventVersionChanged) {
		t.Errorf("same version reported as changed: %v", kinds(events))
	}
	if !hasKind(events, EventStatusActivated) {
		t.Errorf("first detection did not activate status: %v", kinds(events))
	}

	events = s.ScanClasspath([]string{v30})
	if !hasKind(events, EventVersionChanged) {
		t.Fatalf("events = %v, want version-changed", kinds(events))
	}
	for _, e := range events {
		if e.Kind == EventVersionChanged && (e.PreviousVersion != "1.18.20" || e.CurrentVersion != "1.18.30") {
			t.Errorf("version change %s -> %s, want 1.18.20 -> 1.18.30", e.PreviousVersion, e.CurrentVersion)
		}
	}
	if hasKind(events, EventStatusActivated) {
		t.Error("status re-activated while already active")
	}

	events = s.ScanClasspath([]string{v30})
	if hasKind(events, EventVersionChanged) {
		t.Error("version change signalled twice in one session")
	}
}

func TestScanClasspathIgnoresBundledAgent(t *testing.T) {
	dir := t.TempDir()
	bundled := touch(t, dir, "ext/lombok/lombok-1.18.32.jar")

	s := NewSession(store.Memory{}, logger.Discard())
	s.ResolveAgentJar(nil, StaticBundled(bundled))

	events := s.ScanClasspath([]string{"/m2/lombok-1.18.20.jar"})
	if hasKind(events, EventVersionChanged) {
		t.Errorf("version change reported for bundled agent: %v", kinds(events))
	}
}

func TestScanClasspathStatusTransitions(t *testing.T) {
	st := store.Memory{}
	s := NewSession(st, logger.Discard())
	jar := "/m2/lombok-1.18.30.jar"

	steps := []struct {
		name       string
		entries    []string
		wantEvents []EventKind
		wantStatus Status
	}{
		{name: "no jar while uninitialized", entries: []string{"/m2/guava.jar"}, wantEvents: nil, wantStatus: StatusUninitialized},
		{name: "first detection", entries: []string{jar}, wantEvents: []EventKind{EventStatusActivated}, wantStatus: StatusActive},
		{name: "still present", entries: []string{jar}, wantEvents: nil, wantStatus: StatusActive},
		{name: "removed", entries: nil, wantEvents: []EventKind{EventStatusCleared}, wantStatus: StatusCleared},
		{name: "still removed", entries: nil, wantEvents: nil, wantStatus: StatusCleared},
		{name: "re-detected", entries: []string{jar}, wantEvents: []EventKind{EventStatusActivated}, wantStatus: StatusActive},
	}

	for _, step := range steps {
		events := s.ScanClasspath(step.entries)
		got := kinds(events)
		if len(got) != len(step.wantEvents) {
			t.Fatalf("%s: events = %v, want %v", step.name, got, step.wantEvents)
		}
		for i := range got {
			if got[i] != step.wantEvents[i] {
				t.Errorf("%s: event %d = %s, want %s", step.name, i, got[i], step.wantEvents[i])
			}
		}
		if s.State().Status != step.wantStatus {
			t.Errorf("%s: status = %s, want %s", step.name, s.State().Status, step.wantStatus)
		}
	}
}

func TestScanClasspathUpdatesCache(t *testing.T) {
	st := store.Memory{}
	s := NewSession(st, logger.Discard())
	jar := "/m2/lombok-1.18.30.jar"

	s.ScanClasspath([]string{jar})
	if cached, _ := st.Get(KeyJarPath); cached != jar {
		t.Errorf("cached path = %q, want %q", cached, jar)
	}
	if s.State().ProjectClasspathJar != jar {
		t.Errorf("project jar = %q, want %q", s.State().ProjectClasspathJar, jar)
	}

	events := s.ScanClasspath(nil)
	if len(events) != 1 || events[0].Path != jar {
		t.Errorf("cleared event = %+v, want path %s", events, jar)
	}
	if _, ok := st.Get(KeyJarPath); ok {
		t.Error("cache kept after Lombok left the classpath")
	}
}

func TestEventMessage(t *testing.T) {
	e := Event{Kind: EventVersionChanged, PreviousVersion: "1.18.20", CurrentVersion: "1.18.30"}
	want := "Lombok version changed from 1.18.20 to 1.18.30. Please reload the window to apply the new version."
	if got := e.Message(); got != want {
		t.Errorf("Message() = %q, want %q", got, want)
	}
}
