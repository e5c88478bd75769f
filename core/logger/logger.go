package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[36m"
	ColorWhite  = "\033[37m"
	ColorGray   = "\033[90m"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Logger writes colored lines to a console writer and plain lines to any
// number of sinks. Sinks receive every level, including DEBUG when the
// console is not verbose, so a run log always holds the full trace.
type Logger struct {
	mu      sync.RWMutex
	verbose bool
	color   bool
	console io.Writer
	sinks   []io.Writer
	now     func() time.Time
}

func New(console io.Writer) *Logger {
	return &Logger{
		color:   true,
		console: console,
		now:     time.Now,
	}
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *Logger {
	l := New(io.Discard)
	l.color = false
	return l
}

func (l *Logger) SetVerbose(verbose bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = verbose
}

func (l *Logger) IsVerbose() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.verbose
}

func (l *Logger) SetColor(color bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.color = color
}

func (l *Logger) AddSink(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sinks = append(l.sinks, w)
}

func (l *Logger) RemoveSink(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, s := range l.sinks {
		if s == w {
			l.sinks = append(l.sinks[:i], l.sinks[i+1:]...)
			return
		}
	}
}

func getColor(level LogLevel) string {
	switch level {
	case DEBUG:
		return ColorGray
	case INFO:
		return ColorBlue
	case WARN:
		return ColorYellow
	case ERROR:
		return ColorRed
	case FATAL:
		return ColorPurple
	default:
		return ColorWhite
	}
}

func formatColored(ts string, level LogLevel, message string) string {
	return fmt.Sprintf(
		"%s[%s%s%s]%s %s%-5s%s %s%s",
		ColorGray, ColorGray, ts, ColorGray, ColorReset,
		getColor(level), level.String(), ColorReset,
		message, ColorReset,
	)
}

func formatPlain(ts string, level LogLevel, message string) string {
	return fmt.Sprintf("[%s] %-5s %s", ts, level.String(), message)
}

func (l *Logger) Log(level LogLevel, format string, args ...interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	message := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	ts := l.now().Format("06-01-02 15:04:05")

	for _, sink := range l.sinks {
		fmt.Fprintln(sink, formatPlain(ts, level, message))
	}

	if level == DEBUG && !l.verbose {
		return
	}
	if l.console == nil {
		return
	}
	if l.color {
		fmt.Fprintln(l.console, formatColored(ts, level, message))
	} else {
		fmt.Fprintln(l.console, formatPlain(ts, level, message))
	}
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.Log(DEBUG, format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.Log(INFO, format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.Log(WARN, format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.Log(ERROR, format, args...)
}

func (l *Logger) LogFromLevel(level LogLevel) func(format string, args ...interface{}) {
	return func(format string, args ...interface{}) {
		l.Log(level, format, args...)
	}
}

var globalLogger = New(os.Stdout)

// Default returns the process-wide logger used by the CLI.
func Default() *Logger {
	return globalLogger
}

func SetVerbose(verbose bool) {
	globalLogger.SetVerbose(verbose)
}

func IsVerbose() bool {
	return globalLogger.IsVerbose()
}

func Debug(format string, args ...interface{}) {
	globalLogger.Log(DEBUG, format, args...)
}

func Info(format string, args ...interface{}) {
	globalLogger.Log(INFO, format, args...)
}

func Warn(format string, args ...interface{}) {
	globalLogger.Log(WARN, format, args...)
}

func Error(format string, args ...interface{}) {
	globalLogger.Log(ERROR, format, args...)
}

func Fatal(format string, args ...interface{}) {
	globalLogger.Log(FATAL, format, args...)
	os.Exit(1)
}
