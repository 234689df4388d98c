package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel enumerates severity tiers.
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l LogLevel) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "UNKNOWN"
}

// ParseLogLevel maps a --log-level value to a LogLevel.
func ParseLogLevel(s string) (LogLevel, error) {
	for i, n := range levelNames {
		if strings.EqualFold(s, n) {
			return LogLevel(i), nil
		}
	}
	if strings.EqualFold(s, "warning") {
		return WARN, nil
	}
	return INFO, &UsageError{Msg: fmt.Sprintf("unknown log level %q (want debug, info, warn or error)", s)}
}

// Logger is a levelled logger shared by every stage of the plot run.
type Logger struct {
	mu    sync.Mutex
	level LogLevel
	inner *log.Logger
	file  *os.File
	now   func() time.Time
}

var (
	globalMu     sync.Mutex
	globalLogger *Logger
)

// NewLogger writes to w and, if logFilePath is set, appends to that file too.
// A log file that cannot be opened is reported on w and otherwise ignored.
func NewLogger(minLevel LogLevel, w io.Writer, logFilePath string) *Logger {
	writers := []io.Writer{w}

	var f *os.File
	if logFilePath != "" {
		var err error
		f, err = os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			writers = append(writers, f)
		} else {
			fmt.Fprintf(w, "[WARN] could not open log file %s: %v\n", logFilePath, err)
		}
	}

	return &Logger{
		level: minLevel,
		inner: log.New(io.MultiWriter(writers...), "", 0),
		file:  f,
		now:   time.Now,
	}
}

// InitLogger installs the process-wide logger on w. Call once at startup;
// the caller closes the returned logger.
func InitLogger(minLevel LogLevel, w io.Writer, logFilePath string) *Logger {
	l := NewLogger(minLevel, w, logFilePath)
	SetLogger(l)
	return l
}

// SetLogger replaces the process-wide logger.
func SetLogger(l *Logger) {
	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
}

// L returns the global logger, falling back to stderr at INFO.
func L() *Logger {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		globalLogger = NewLogger(INFO, os.Stderr, "")
	}
	return globalLogger
}

// Close closes the log file, if any.
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		_ = l.file.Close()
		l.file = nil
	}
}

func (l *Logger) log(lvl LogLevel, format string, args ...any) {
	if lvl < l.level {
		return
	}
	ts := l.now().Format("15:04:05.000")
	msg := fmt.Sprintf(format, args...)
	l.mu.Lock()
	l.inner.Printf("[%s] %s  %s", lvl, ts, msg)
	l.mu.Unlock()
}

func (l *Logger) Debug(f string, a ...any) { l.log(DEBUG, f, a...) }
func (l *Logger) Info(f string, a ...any)  { l.log(INFO, f, a...) }
func (l *Logger) Warn(f string, a ...any)  { l.log(WARN, f, a...) }
func (l *Logger) Error(f string, a ...any) { l.log(ERROR, f, a...) }
