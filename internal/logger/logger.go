// Package logger provides leveled logging with debug, info, warn, and error
// levels. It wraps the standard log package with level-based filtering so the
// pipeline can narrate its stages without a heavyweight dependency.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Level represents a logging level.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

type leveledLogger struct {
	level  Level
	logger *log.Logger
}

var defaultLogger = &leveledLogger{
	level:  InfoLevel,
	logger: log.New(os.Stderr, "", log.LstdFlags),
}

// Init sets the default logger's level from its string name. Unknown names
// fall back to info.
func Init(level string) {
	l := InfoLevel
	switch strings.ToLower(level) {
	case "debug":
		l = DebugLevel
	case "info":
		l = InfoLevel
	case "warn":
		l = WarnLevel
	case "error":
		l = ErrorLevel
	}
	defaultLogger.level = l
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	defaultLogger.logger.SetOutput(w)
}

func logf(l Level, tag, format string, args ...any) {
	if defaultLogger.level > l {
		return
	}
	_ = defaultLogger.logger.Output(3, fmt.Sprintf(tag+" "+format, args...))
}

// Debug logs a message at DebugLevel.
func Debug(format string, args ...any) { logf(DebugLevel, "[DEBUG]", format, args...) }

// Info logs a message at InfoLevel.
func Info(format string, args ...any) { logf(InfoLevel, "[INFO]", format, args...) }

// Warn logs a message at WarnLevel.
func Warn(format string, args ...any) { logf(WarnLevel, "[WARN]", format, args...) }

// Error logs a message at ErrorLevel.
func Error(format string, args ...any) { logf(ErrorLevel, "[ERROR]", format, args...) }
