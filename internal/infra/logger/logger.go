package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// Logger writes leveled, timestamped lines to a log file and optionally
// mirrors Info and above to stderr for interactive use.
type Logger struct {
	fileLogger    *log.Logger
	level         Level
	includeStderr bool
}

func New(filePath string, level Level, includeStderr bool) (*Logger, error) {
	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	return &Logger{
		fileLogger:    log.New(f, "", 0),
		level:         level,
		includeStderr: includeStderr,
	}, nil
}

func (l *Logger) log(lvl Level, prefix string, format string, v ...any) {
	if lvl < l.level {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	msg := fmt.Sprintf(format, v...)
	fullMsg := fmt.Sprintf("%s [%s] %s", timestamp, prefix, msg)

	l.fileLogger.Println(fullMsg)

	// Debug stays file-only so command output remains readable
	if l.includeStderr && lvl >= LevelInfo {
		fmt.Fprintln(os.Stderr, fullMsg)
	}
}

func ParseLevel(lvl string) Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l *Logger) Debug(f string, v ...any) { l.log(LevelDebug, "DEBUG", f, v...) }
func (l *Logger) Info(f string, v ...any)  { l.log(LevelInfo, "INFO", f, v...) }
func (l *Logger) Warn(f string, v ...any)  { l.log(LevelWarn, "WARN", f, v...) }
func (l *Logger) Error(f string, v ...any) { l.log(LevelError, "ERROR", f, v...) }
func (l *Logger) Fatal(f string, v ...any) { l.log(LevelFatal, "FATAL", f, v...); os.Exit(1) }
