package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/sonvt1710/coc-java/internal/cache"
	"github.com/sonvt1710/coc-java/internal/ui"
	"github.com/sonvt1710/coc-java/internal/ui/theme"
)

// NewLogsCommand creates the logs command
func NewLogsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the coc-java log",
		Long: `Shows the last lines of the coc-java log. Every command invocation logs a
cycle id; --cycle narrows the output to one invocation.`,
		Args: cobra.NoArgs,
		RunE: runLogs,
	}
	cmd.Flags().IntP("lines", "n", 20, "Number of lines to show")
	cmd.Flags().StringP("filter", "f", "", "Only show lines containing this text")
	cmd.Flags().String("cycle", "", "Only show lines of this cycle id")
	cmd.Flags().Bool("follow", false, "Keep printing new lines until interrupted")
	return cmd
}

func runLogs(cmd *cobra.Command, args []string) error {
	logPath, err := cache.GetLogFile()
	if err != nil {
		return fmt.Errorf("failed to get log file path: %w", err)
	}

	lines, _ := cmd.Flags().GetInt("lines")
	follow, _ := cmd.Flags().GetBool("follow")
	f := logFilter{}
	f.text, _ = cmd.Flags().GetString("filter")
	f.cycle, _ = cmd.Flags().GetString("cycle")

	out := cmd.OutOrStdout()
	p := newLogPrinter(out, ui.IsTTY(out) && !ui.NoColor())

	tail, err := readTailLines(logPath, max(lines*10, 200))
	if errors.Is(err, os.ErrNotExist) {
		newOutputHelper(cmd).printErr("No log file at " + logPath)
		return nil
	}
	if err != nil {
		return err
	}

	var matched []string
	for _, line := range tail {
		if f.matches(line) {
			matched = append(matched, line)
		}
	}
	if len(matched) > lines {
		matched = matched[len(matched)-lines:]
	}
	for _, line := range matched {
		p.print(line)
	}

	if !follow {
		return nil
	}
	return followFile(cmd.Context(), logPath, func(line string) {
		if f.matches(line) {
			p.print(line)
		}
	})
}

type logFilter struct {
	text  string
	cycle string
}

func (f logFilter) matches(line string) bool {
	if f.text != "" && !strings.Contains(line, f.text) {
		return false
	}
	if f.cycle != "" && extractValue(line, "cycle") != f.cycle {
		return false
	}
	return true
}

// readTailLines reads approximately the last n lines of a file by seeking
// near the end and reading forward.
func readTailLines(path string, n int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	// ~1KB per line is generous for slog text lines.
	seekPos := max(0, stat.Size()-int64(n*1024))
	actualPos, err := file.Seek(seekPos, io.SeekStart)
	if err != nil {
		actualPos = 0
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
	}

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	// Skip the partial first line after seeking into the middle.
	if actualPos > 0 {
		scanner.Scan()
	}
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, scanner.Err()
}

// followFile calls onLine for every line appended to path until ctx is done.
func followFile(ctx context.Context, path string, onLine func(string)) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return err
	}

	reader := bufio.NewReader(file)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	var partial string
	for {
		line, err := reader.ReadString('\n')
		if err == nil {
			onLine(strings.TrimRight(partial+line, "\n"))
			partial = ""
			continue
		}
		if !errors.Is(err, io.EOF) {
			return err
		}
		partial += line

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

var logValueRegexes = map[string]*regexp.Regexp{}

func valueRegex(key string) *regexp.Regexp {
	re, ok := logValueRegexes[key]
	if !ok {
		re = regexp.MustCompile(`(?:^|\s)` + regexp.QuoteMeta(key) + `=(?:"((?:[^"\\]|\\.)*)"|(\S+))`)
		logValueRegexes[key] = re
	}
	return re
}

// extractValue returns the value of key in a slog text line.
func extractValue(line, key string) string {
	match := valueRegex(key).FindStringSubmatch(line)
	if match == nil {
		return ""
	}
	if match[1] != "" {
		return match[1]
	}
	return match[2]
}

// extractRemaining drops the given keys and returns the rest of the line.
func extractRemaining(line string, exclude []string) string {
	result := line
	for _, key := range exclude {
		re := regexp.MustCompile(`(?:^|\s)` + regexp.QuoteMeta(key) + `=(?:"(?:[^"\\]|\\.)*"|\S+)`)
		result = re.ReplaceAllString(result, "")
	}
	return strings.TrimSpace(result)
}

// logPrinter renders slog text lines compactly, in color on a terminal.
type logPrinter struct {
	out   io.Writer
	color bool
	theme theme.Theme
}

func newLogPrinter(out io.Writer, color bool) *logPrinter {
	return &logPrinter{out: out, color: color, theme: theme.Current()}
}

func (p *logPrinter) print(line string) {
	fmt.Fprintln(p.out, p.format(line))
}

func (p *logPrinter) format(line string) string {
	level := extractValue(line, "level")
	msg := extractValue(line, "msg")
	if level == "" && msg == "" {
		return line
	}

	timeVal := extractValue(line, "time")
	if len(timeVal) >= 19 {
		timeVal = timeVal[11:19]
	}

	var sb strings.Builder
	if timeVal != "" {
		sb.WriteString(p.render(p.theme.Styles().Muted, timeVal))
		sb.WriteString(" ")
	}
	if level != "" {
		sb.WriteString(p.render(p.levelStyle(level), levelShort(level)))
		sb.WriteString(" ")
	}
	sb.WriteString(msg)
	if rest := extractRemaining(line, []string{"time", "level", "msg"}); rest != "" {
		sb.WriteString(" ")
		sb.WriteString(p.render(p.theme.Styles().Faint, rest))
	}
	return sb.String()
}

func (p *logPrinter) render(style lipgloss.Style, s string) string {
	if !p.color {
		return s
	}
	return style.Render(s)
}

func (p *logPrinter) levelStyle(level string) lipgloss.Style {
	styles := p.theme.Styles()
	switch strings.ToUpper(level) {
	case "ERROR":
		return styles.Error.Bold(true)
	case "WARN", "WARNING":
		return styles.Warning.Bold(true)
	case "INFO":
		return styles.Success
	default:
		return styles.Muted
	}
}

func levelShort(level string) string {
	switch strings.ToUpper(level) {
	case "ERROR":
		return "ERR"
	case "WARN", "WARNING":
		return "WRN"
	case "INFO":
		return "INF"
	case "DEBUG":
		return "DBG"
	default:
		return level
	}
}
