// Package app wires the settings system, session, object types, and
// plugins together and provides application-level services.
package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// LogLevel is the severity of a log message.
type LogLevel int

const (
	// LogLevelDebug is for detailed debugging information.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is for general informational messages.
	LogLevelInfo
	// LogLevelWarn is for warning messages.
	LogLevelWarn
	// LogLevelError is for error messages.
	LogLevelError
)

// String returns the level name as it appears in output.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel reads a level name; unknown names mean info.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// LogFormat selects the log line encoding.
type LogFormat int

const (
	// LogFormatText writes human-readable lines.
	LogFormatText LogFormat = iota
	// LogFormatJSON writes one JSON object per line.
	LogFormatJSON
)

// ParseLogFormat reads a format name; anything but "json" means text.
func ParseLogFormat(s string) LogFormat {
	if strings.ToLower(s) == "json" {
		return LogFormatJSON
	}
	return LogFormatText
}

// Logger writes leveled, structured log lines. WithField derivatives
// share the parent's sink and level.
type Logger struct {
	mu       sync.Mutex
	level    LogLevel
	format   LogFormat
	output   io.Writer
	prefix   string
	fields   map[string]any
	disabled bool
}

// LoggerConfig configures a Logger.
type LoggerConfig struct {
	// Level is the minimum level written.
	Level LogLevel
	// Format selects text or JSON lines.
	Format LogFormat
	// Output is the sink; nil means os.Stderr.
	Output io.Writer
	// Prefix tags every line with the application name.
	Prefix string
}

// DefaultLoggerConfig returns the standard configuration: info-level
// text lines on stderr.
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:  LogLevelInfo,
		Output: os.Stderr,
		Prefix: "mapforge",
	}
}

// NewLogger creates a logger.
func NewLogger(cfg LoggerConfig) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	return &Logger{
		level:  cfg.Level,
		format: cfg.Format,
		output: cfg.Output,
		prefix: cfg.Prefix,
		fields: map[string]any{},
	}
}

// WithField derives a logger that adds key=value to every line. The
// receiver is not modified.
func (l *Logger) WithField(key string, value any) *Logger {
	fields := make(map[string]any, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[key] = value

	return &Logger{
		level:    l.level,
		format:   l.format,
		output:   l.output,
		prefix:   l.prefix,
		fields:   fields,
		disabled: l.disabled,
	}
}

// WithComponent derives a logger tagged with a component name.
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithField("component", component)
}

// SetLevel changes the minimum level written.
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

// SetOutput redirects the sink.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	l.output = w
	l.mu.Unlock()
}

// Disable silences the logger entirely.
func (l *Logger) Disable() {
	l.mu.Lock()
	l.disabled = true
	l.mu.Unlock()
}

// Debug logs at debug level. Arguments are Sprintf-style.
func (l *Logger) Debug(msg string, args ...any) { l.write(LogLevelDebug, msg, args) }

// Info logs at info level.
func (l *Logger) Info(msg string, args ...any) { l.write(LogLevelInfo, msg, args) }

// Warn logs at warn level.
func (l *Logger) Warn(msg string, args ...any) { l.write(LogLevelWarn, msg, args) }

// Error logs at error level.
func (l *Logger) Error(msg string, args ...any) { l.write(LogLevelError, msg, args) }

func (l *Logger) write(level LogLevel, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.disabled || level < l.level {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	stamp := time.Now().Format("2006-01-02T15:04:05.000")

	if l.format == LogFormatJSON {
		l.writeJSON(stamp, level, msg)
		return
	}
	l.writeText(stamp, level, msg)
}

func (l *Logger) writeJSON(stamp string, level LogLevel, msg string) {
	entry := map[string]any{
		"time":  stamp,
		"level": level.String(),
		"msg":   msg,
	}
	if l.prefix != "" {
		entry["app"] = l.prefix
	}
	for k, v := range l.fields {
		entry[k] = v
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return
	}
	fmt.Fprintln(l.output, string(line))
}

func (l *Logger) writeText(stamp string, level LogLevel, msg string) {
	var b strings.Builder
	b.WriteString(stamp)
	fmt.Fprintf(&b, " [%s]", level)
	if l.prefix != "" {
		fmt.Fprintf(&b, " %s:", l.prefix)
	}
	b.WriteString(" ")
	b.WriteString(msg)

	keys := make([]string, 0, len(l.fields))
	for k := range l.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, l.fields[k])
	}

	fmt.Fprintln(l.output, b.String())
}
