package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleLog = `time=2026-10-15T09:30:01.000Z level=INFO msg="command invoked" version=dev command="jdk resolve"
time=2026-10-15T09:30:01.100Z level=DEBUG msg="discovered java runtimes" cycle=aaa count=2
time=2026-10-15T09:30:01.200Z level=WARN msg="configured java home is too old for the language server" cycle=aaa home=/opt/jdk-11 version=11 required=17
time=2026-10-15T09:31:00.000Z level=INFO msg="lombok agent resolved" cycle=bbb path=/ext/lombok/lombok-1.18.32.jar bundled=true
`

func TestExtractValue(t *testing.T) {
	line := strings.Split(sampleLog, "\n")[2]
	tests := []struct {
		key  string
		want string
	}{
		{"level", "WARN"},
		{"msg", "configured java home is too old for the language server"},
		{"cycle", "aaa"},
		{"home", "/opt/jdk-11"},
		{"missing", ""},
	}
	for _, tt := range tests {
		if got := extractValue(line, tt.key); got != tt.want {
			t.Errorf("extractValue(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestLogFilter(t *testing.T) {
	all := strings.Split(strings.TrimSpace(sampleLog), "\n")
	tests := []struct {
		name   string
		filter logFilter
		want   int
	}{
		{"no filter", logFilter{}, 4},
		{"cycle", logFilter{cycle: "aaa"}, 2},
		{"text", logFilter{text: "lombok"}, 1},
		{"cycle and text", logFilter{cycle: "aaa", text: "too old"}, 1},
		{"unknown cycle", logFilter{cycle: "zzz"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := 0
			for _, line := range all {
				if tt.filter.matches(line) {
					n++
				}
			}
			if n != tt.want {
				t.Errorf("matched %d lines, want %d", n, tt.want)
			}
		})
	}
}

func TestLogPrinterFormat(t *testing.T) {
	p := newLogPrinter(nil, false)
	line := strings.Split(sampleLog, "\n")[3]

	got := p.format(line)
	want := "09:31:00 INF lombok agent resolved cycle=bbb path=/ext/lombok/lombok-1.18.32.jar bundled=true"
	if got != want {
		t.Errorf("format() = %q, want %q", got, want)
	}

	if got := p.format("not a log line"); got != "not a log line" {
		t.Errorf("format() of plain text = %q", got)
	}
}

func TestReadTailLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coc-java.log")
	if err := os.WriteFile(path, []byte(sampleLog), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := readTailLines(path, 2)
	if err != nil {
		t.Fatalf("readTailLines() error = %v", err)
	}
	if len(got) != 2 || !strings.Contains(got[1], "cycle=bbb") {
		t.Errorf("readTailLines() = %q", got)
	}

	if _, err := readTailLines(filepath.Join(t.TempDir(), "missing.log"), 2); !os.IsNotExist(err) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestLogsCommandFiltersByCycle(t *testing.T) {
	env := NewTestEnv(t)
	env.WriteFile(filepath.Join(env.TempDir, "cache", "coc-java.log"), sampleLog)

	stdout, _, err := env.Run("logs", "--cycle", "aaa")
	if err != nil {
		t.Fatalf("logs failed: %v", err)
	}
	got := lines(stdout)
	if len(got) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(got), stdout)
	}
	if !strings.Contains(got[1], "WRN configured java home is too old") {
		t.Errorf("line = %q", got[1])
	}
}
