// Package logging provides the colorful leveled logger shared by the floodgate
// daemon, the floodctl CLI and the internal packages.
//
// All output goes through two charmbracelet/log loggers: INFO and SUCCESS
// messages are written to stdout, DEBUG, WARN and ERROR messages to stderr.
// When a log file is configured both loggers write to that file instead.
//
// LOGGING FEATURES:
//   - Color-coded levels: DEBUG (purple), INFO (blue), WARN (yellow), ERROR (red), SUCCESS (green)
//   - Library capture: Serf/memberlist and gin output is re-emitted through the same loggers
//   - Noise control: repetitive membership probe failures are collapsed into counted lines
//   - CLI mode: output can be suppressed so only errors reach the terminal
//
// The package keeps its state in globals on purpose so that any package can log
// without threading a logger through its constructors.
package logging

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	stdlog "log"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	// INFO/SUCCESS
	stdoutLogger = newLogger(os.Stdout)

	// DEBUG/WARN/ERROR
	stderrLogger = newLogger(os.Stderr)

	// Set once a CLI has taken control of the output
	cliConfigured = false

	// When a log file is in use both loggers share it
	usingLogFile  = false
	logFileHandle io.Writer
)

func newLogger(w io.Writer) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	l.SetStyles(levelStyles())
	return l
}

// levelStyles returns the level palette. The colors are chosen to stay
// readable on both light and dark terminals.
func levelStyles() *log.Styles {
	styles := log.DefaultStyles()

	styles.Levels[log.DebugLevel] = lipgloss.NewStyle().
		SetString("DEBUG").
		Foreground(lipgloss.Color("#7F6DFF"))

	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("INFO").
		Foreground(lipgloss.Color("#42E7FF"))

	styles.Levels[log.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN").
		Foreground(lipgloss.Color("#FFE763"))

	styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERROR").
		Foreground(lipgloss.Color("#FF4473"))

	return styles
}

// Info logs operational progress such as node startup and batch completion.
func Info(format string, v ...any) {
	stdoutLogger.Info(fmt.Sprintf(format, v...))
}

// Warn logs conditions that need attention but do not stop the operation.
func Warn(format string, v ...any) {
	stderrLogger.Warn(fmt.Sprintf(format, v...))
}

// Error logs failures.
func Error(format string, v ...any) {
	stderrLogger.Error(fmt.Sprintf(format, v...))
}

// Debug logs detail that is only useful while troubleshooting.
func Debug(format string, v ...any) {
	stderrLogger.Debug(fmt.Sprintf(format, v...))
}

// Success logs a completed operation in green. It is filtered like INFO.
func Success(format string, v ...any) {
	if stdoutLogger.GetLevel() > log.InfoLevel {
		return
	}

	out := io.Writer(os.Stdout)
	if usingLogFile {
		out = logFileHandle
	}

	styles := levelStyles()
	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("SUCCESS").
		Foreground(lipgloss.Color("#60F281"))

	l := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	l.SetStyles(styles)
	l.Info(fmt.Sprintf(format, v...))
}

// SetLevel sets the minimum level for both loggers. Unknown levels fall back
// to INFO; callers validate user input with ValidateLogLevel first.
func SetLevel(level string) {
	var logLevel log.Level
	switch level {
	case "DEBUG":
		logLevel = log.DebugLevel
	case "WARN":
		logLevel = log.WarnLevel
	case "ERROR":
		logLevel = log.ErrorLevel
	default:
		logLevel = log.InfoLevel
	}

	stdoutLogger.SetLevel(logLevel)
	stderrLogger.SetLevel(logLevel)
}

// SetOutput sends every level to w. A nil file silences logging entirely.
func SetOutput(w *os.File) {
	if w == nil {
		stdoutLogger.SetLevel(log.FatalLevel + 1)
		stderrLogger.SetLevel(log.FatalLevel + 1)
		usingLogFile = false
		return
	}
	setWriter(w)
}

// setWriter points both loggers at w, keeping the current level.
func setWriter(w io.Writer) {
	level := stdoutLogger.GetLevel()

	usingLogFile = true
	logFileHandle = w

	stdoutLogger = newLogger(w)
	stderrLogger = newLogger(w)
	stdoutLogger.SetLevel(level)
	stderrLogger.SetLevel(level)
}

// SuppressOutput hides everything below ERROR. Used by floodctl so that
// command output is not interleaved with log lines.
func SuppressOutput() {
	stdoutLogger.SetLevel(log.ErrorLevel)
	stderrLogger.SetLevel(log.ErrorLevel)
	cliConfigured = true
}

// RestoreOutput returns to stdout/stderr at INFO level.
func RestoreOutput() {
	usingLogFile = false
	logFileHandle = nil

	stdoutLogger = newLogger(os.Stdout)
	stderrLogger = newLogger(os.Stderr)
	stdoutLogger.SetLevel(log.InfoLevel)
	stderrLogger.SetLevel(log.InfoLevel)

	cliConfigured = true
}

// IsConfiguredByCLI reports whether a CLI has taken over the log output.
func IsConfiguredByCLI() bool {
	return cliConfigured
}

// ============================================================================
// SERF LOG INTEGRATION - Capture and reformat Serf/memberlist logs
// ============================================================================

// serfLine matches "2006/01/02 15:04:05 [LEVEL] message".
var serfLine = regexp.MustCompile(`^\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2} \[(\w+)\] (.+)$`)

// probeNoise matches the memberlist messages that repeat every probe interval
// while a storage node is unreachable.
var probeNoise = []string{
	"failed to receive ack",
	"failed to send ping",
	"failed to fallback ping",
	"connection refused",
	"i/o timeout",
}

// repeated is a deduplicated log message waiting to be flushed.
type repeated struct {
	level   string
	message string
	count   int
}

// ColorfulSerfWriter is an io.Writer handed to serf and memberlist. Each line
// is parsed and re-emitted with a "(serf)" prefix at its original level.
// Probe failures are collapsed and flushed periodically with a count.
type ColorfulSerfWriter struct {
	reader *io.PipeReader
	writer *io.PipeWriter

	mu      sync.Mutex
	pending map[string]*repeated
	ticker  *time.Ticker
	done    chan struct{}
	closed  sync.Once
}

// NewColorfulSerfWriter starts the background goroutines that parse and flush
// serf output. Close stops them.
func NewColorfulSerfWriter() *ColorfulSerfWriter {
	return newColorfulSerfWriter(10 * time.Second)
}

func newColorfulSerfWriter(flushEvery time.Duration) *ColorfulSerfWriter {
	r, w := io.Pipe()
	csw := &ColorfulSerfWriter{
		reader:  r,
		writer:  w,
		pending: make(map[string]*repeated),
		ticker:  time.NewTicker(flushEvery),
		done:    make(chan struct{}),
	}

	go csw.processLogs()
	go csw.flushLoop()

	return csw
}

// Write implements io.Writer.
func (csw *ColorfulSerfWriter) Write(p []byte) (n int, err error) {
	return csw.writer.Write(p)
}

// Close flushes collapsed messages and stops processing.
func (csw *ColorfulSerfWriter) Close() error {
	var err error
	csw.closed.Do(func() {
		close(csw.done)
		csw.ticker.Stop()
		err = csw.writer.Close()

		csw.mu.Lock()
		csw.flushLocked()
		csw.mu.Unlock()
	})
	return err
}

func (csw *ColorfulSerfWriter) flushLoop() {
	for {
		select {
		case <-csw.done:
			return
		case <-csw.ticker.C:
			csw.mu.Lock()
			csw.flushLocked()
			csw.mu.Unlock()
		}
	}
}

// flushLocked emits and clears collapsed messages. csw.mu must be held.
func (csw *ColorfulSerfWriter) flushLocked() {
	for key, entry := range csw.pending {
		msg := entry.message
		if entry.count > 1 {
			msg = fmt.Sprintf("%s (x%d)", msg, entry.count)
		}
		emit("serf", entry.level, msg)
		delete(csw.pending, key)
	}
}

func (csw *ColorfulSerfWriter) processLogs() {
	scanner := bufio.NewScanner(csw.reader)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		matches := serfLine.FindStringSubmatch(line)
		if len(matches) != 3 {
			Info("(serf) %s", line)
			continue
		}

		level, message := matches[1], matches[2]
		for _, prefix := range []string{"serf: ", "memberlist: "} {
			if strings.HasPrefix(strings.ToLower(message), prefix) {
				message = strings.TrimSpace(message[len(prefix):])
			}
		}

		if !isProbeNoise(message) {
			emit("serf", level, message)
			continue
		}

		csw.mu.Lock()
		key := level + ":" + truncate(message, 60)
		if entry, ok := csw.pending[key]; ok {
			entry.count++
		} else {
			csw.pending[key] = &repeated{level: level, message: message, count: 1}
		}
		csw.mu.Unlock()
	}
}

func isProbeNoise(message string) bool {
	for _, pattern := range probeNoise {
		if strings.Contains(message, pattern) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// emit routes a message from a library to the matching level.
func emit(component, level, message string) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		Debug("(%s) %s", component, message)
	case "INFO":
		Info("(%s) %s", component, message)
	case "WARN", "WARNING":
		Warn("(%s) %s", component, message)
	case "ERR", "ERROR":
		Error("(%s) %s", component, message)
	default:
		Info("(%s)[%s]: %s", component, level, message)
	}
}

// ============================================================================
// GENERIC LOG INTEGRATION - Writers for third-party libraries
// ============================================================================

// LevelWriter logs every line written to it at a fixed level.
type LevelWriter struct {
	level  string
	prefix string
}

// NewLevelWriter returns a writer that logs each line at level, prefixed with
// prefix when it is not empty. Used for gin's default writers.
func NewLevelWriter(level, prefix string) io.Writer {
	return &LevelWriter{level: strings.ToUpper(level), prefix: prefix}
}

// Write implements io.Writer.
func (w *LevelWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(string(p), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if w.prefix != "" {
			line = w.prefix + ": " + line
		}
		switch w.level {
		case "DEBUG":
			Debug("%s", line)
		case "WARN":
			Warn("%s", line)
		case "ERROR":
			Error("%s", line)
		default:
			Info("%s", line)
		}
	}
	return len(p), nil
}

// RedirectStandardLog sends the standard library logger to w, or discards it
// when w is nil.
func RedirectStandardLog(w io.Writer) {
	if w == nil {
		stdlog.SetOutput(io.Discard)
		return
	}
	stdlog.SetOutput(w)
}
