package notify

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelError LogLevel = "error"
)

// Logger is a levelled logger. Warnings are printed at info level
// with their own prefix.
type Logger struct {
	level       LogLevel
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
	debugLogger *log.Logger
	closer      io.Closer
}

// logWhere decides where to send output. "" throws it away, "stdout"
// and "stderr" are what they say, anything else is a file we append to.
func logWhere(outinfo string) (io.Writer, io.Closer, error) {
	switch outinfo {
	case "":
		return io.Discard, nil, nil
	case "stdout":
		return os.Stdout, nil, nil
	case "stderr":
		return os.Stderr, nil, nil
	}
	fp, err := os.OpenFile(outinfo, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return fp, fp, nil
}

// NewLogger logs at level and above to dest, as understood by
// logWhere.
func NewLogger(level, dest string) (*Logger, error) {
	w, closer, err := logWhere(dest)
	if err != nil {
		return nil, err
	}
	l := newLogger(w, ParseLevel(level))
	l.closer = closer
	return l, nil
}

// NewWriterLogger sends everything to w. Useful in tests.
func NewWriterLogger(w io.Writer, level string) *Logger {
	return newLogger(w, ParseLevel(level))
}

func newLogger(w io.Writer, level LogLevel) *Logger {
	const flags = log.Ldate | log.Ltime
	return &Logger{
		level:       level,
		infoLogger:  log.New(w, "INFO: ", flags),
		warnLogger:  log.New(w, "WARN: ", flags),
		errorLogger: log.New(w, "ERROR: ", flags),
		debugLogger: log.New(w, "DEBUG: ", flags),
	}
}

func NewDiscardLogger() *Logger {
	return newLogger(io.Discard, LevelInfo)
}

// ParseLevel turns a name into a level. Unknown names give info.
func ParseLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l *Logger) Info(format string, v ...any) {
	if l.level == LevelError {
		return
	}
	l.infoLogger.Printf(format, v...)
}

func (l *Logger) Warn(format string, v ...any) {
	if l.level == LevelError {
		return
	}
	l.warnLogger.Printf(format, v...)
}

func (l *Logger) Error(format string, v ...any) {
	l.errorLogger.Printf(format, v...)
}

func (l *Logger) Debug(format string, v ...any) {
	if l.level != LevelDebug {
		return
	}
	l.debugLogger.Printf(format, v...)
}

// Close closes the log file, if there is one.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
