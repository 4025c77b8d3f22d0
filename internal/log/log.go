// Package log is a small leveled logger writing to stderr.
//
// stdout belongs to the CLI's output and to the language server's JSON-RPC
// stream, so nothing here ever writes there.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Level represents the severity of a log message
type Level int

const (
	// LevelDebug is for verbose debugging information
	LevelDebug Level = iota
	// LevelInfo is for important operational events
	LevelInfo
	// LevelWarn is for problems that don't stop a build
	LevelWarn
	// LevelError is for failures
	LevelError
)

var levelNames = []string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel parses a level name such as "debug" or "WARN".
// "warning" is accepted for "warn".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

var (
	mu       sync.Mutex
	output   io.Writer = os.Stderr
	minLevel Level     = LevelInfo
	prefix   string    = "[STYLENORM]"
)

// SetOutput sets the output destination (primarily for testing)
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// SetLevel sets the minimum log level to display
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	minLevel = level
}

// GetLevel returns the current minimum log level
func GetLevel() Level {
	mu.Lock()
	defer mu.Unlock()
	return minLevel
}

// Enabled reports whether messages at level are written
func Enabled(level Level) bool {
	return level >= GetLevel()
}

// Debug logs a debug message
func Debug(format string, args ...any) {
	log(LevelDebug, format, args...)
}

// Info logs an info message
func Info(format string, args ...any) {
	log(LevelInfo, format, args...)
}

// Warn logs a warning message
func Warn(format string, args ...any) {
	log(LevelWarn, format, args...)
}

// Error logs an error message
func Error(format string, args ...any) {
	log(LevelError, format, args...)
}

func log(level Level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if level < minLevel || output == nil {
		return
	}

	// [STYLENORM] WARN: message
	fmt.Fprintf(output, "%s %s: %s\n", prefix, level, fmt.Sprintf(format, args...))
}
