// Package logger provides a simple logging interface for menu components.
// Packages log debug, info, warn, and error messages without being coupled
// to a specific logging implementation.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// DebugEnv enables debug output when set to any non-empty value.
const DebugEnv = "MENU_DEBUG"

// Logger defines the interface for logging operations.
// All methods accept a format string and arguments, similar to fmt.Printf.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// envLogger writes through a standard library logger.
// Debug messages are only printed when verbose is set or MENU_DEBUG is set.
type envLogger struct {
	prefix  string
	verbose bool
	out     *log.Logger
}

// NewEnvLogger creates a logger that respects the MENU_DEBUG environment variable.
// The prefix is prepended to all log messages (e.g., "[runner]").
func NewEnvLogger(prefix string) Logger {
	return &envLogger{prefix: prefix}
}

// Options configures a session logger.
type Options struct {
	// Writer receives log lines. Defaults to the standard logger output.
	Writer io.Writer
	// Verbose enables debug output regardless of MENU_DEBUG.
	Verbose bool
	// SessionID tags every line. A new one is generated when empty.
	SessionID string
}

// NewSession creates a logger whose lines carry a short session id, so
// interleaved runs in a shared log file can be told apart.
func NewSession(opts Options) Logger {
	id := opts.SessionID
	if id == "" {
		id = NewSessionID()
	}
	l := &envLogger{
		prefix:  "[" + shortID(id) + "]",
		verbose: opts.Verbose,
	}
	if opts.Writer != nil {
		l.out = log.New(opts.Writer, "", log.LstdFlags)
	}
	return l
}

// NewSessionID returns a random session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

func (l *envLogger) printf(format string, args ...interface{}) {
	if l.prefix != "" {
		format = l.prefix + " " + format
	}
	if l.out != nil {
		l.out.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

func (l *envLogger) Debug(format string, args ...interface{}) {
	if l.verbose || os.Getenv(DebugEnv) != "" {
		l.printf(format, args...)
	}
}

func (l *envLogger) Info(format string, args ...interface{}) {
	l.printf(format, args...)
}

func (l *envLogger) Warn(format string, args ...interface{}) {
	l.printf("WARN: "+format, args...)
}

func (l *envLogger) Error(format string, args ...interface{}) {
	l.printf("ERROR: "+format, args...)
}

// noopLogger implements Logger but discards all messages.
type noopLogger struct{}

// Noop returns a logger that discards all messages.
func Noop() Logger {
	return &noopLogger{}
}

func (l *noopLogger) Debug(format string, args ...interface{}) {}
func (l *noopLogger) Info(format string, args ...interface{})  {}
func (l *noopLogger) Warn(format string, args ...interface{})  {}
func (l *noopLogger) Error(format string, args ...interface{}) {}

// LogMessage represents a captured log message.
type LogMessage struct {
	Level   string
	Message string
}

// BufferLogger captures log messages for testing.
type BufferLogger struct {
	mu       sync.Mutex
	Messages []LogMessage
}

// NewBufferLogger creates a logger that captures messages for inspection.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{
		Messages: make([]LogMessage, 0),
	}
}

func (l *BufferLogger) add(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = append(l.Messages, LogMessage{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Debug(format string, args ...interface{}) { l.add("debug", format, args...) }
func (l *BufferLogger) Info(format string, args ...interface{})  { l.add("info", format, args...) }
func (l *BufferLogger) Warn(format string, args ...interface{})  { l.add("warn", format, args...) }
func (l *BufferLogger) Error(format string, args ...interface{}) { l.add("error", format, args...) }

// HasLevel returns true if any message was logged at the given level.
func (l *BufferLogger) HasLevel(level string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.Messages {
		if m.Level == level {
			return true
		}
	}
	return false
}

// Contains returns true if any message contains substr.
func (l *BufferLogger) Contains(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.Messages {
		if strings.Contains(m.Message, substr) {
			return true
		}
	}
	return false
}

// Clear removes all captured messages.
func (l *BufferLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = l.Messages[:0]
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = NewEnvLogger("")
)

// Default returns the package-level logger.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the package-level logger.
func SetDefault(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}
