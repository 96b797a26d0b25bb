package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Logger handles structured logging with optional file output.
// Console output is human readable; the file sink receives JSON lines.
type Logger struct {
	Verbose bool

	mu      *sync.Mutex
	console zerolog.Logger
	file    *zerolog.Logger
	fileLog *os.File
	fields  map[string]interface{}
}

// New creates a new Logger instance writing to stdout
func New(verbose bool) *Logger {
	return newWithWriter(verbose, os.Stdout)
}

func newWithWriter(verbose bool, w io.Writer) *Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	console := zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()

	return &Logger{
		Verbose: verbose,
		mu:      &sync.Mutex{},
		console: console,
	}
}

// SetFileLog enables logging to a file. Debug messages always reach the file,
// even when the console is not verbose.
func (l *Logger) SetFileLog(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	fl := zerolog.New(f).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	l.fileLog = f
	l.file = &fl
	return nil
}

// Close closes the log file if open
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fileLog != nil {
		err := l.fileLog.Close()
		l.fileLog = nil
		l.file = nil
		return err
	}
	return nil
}

// With returns a child logger that attaches key=value to every message.
// The child shares the parent's sinks.
func (l *Logger) With(key string, value interface{}) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	fields := make(map[string]interface{}, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[key] = value

	return &Logger{
		Verbose: l.Verbose,
		mu:      l.mu,
		console: l.console,
		file:    l.file,
		fileLog: l.fileLog,
		fields:  fields,
	}
}

// Info logs informational messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(zerolog.InfoLevel, format, args...)
}

// Debug logs detailed messages; shown on the console only in verbose mode
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(zerolog.DebugLevel, format, args...)
}

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(zerolog.WarnLevel, format, args...)
}

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(zerolog.ErrorLevel, format, args...)
}

func (l *Logger) log(level zerolog.Level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)

	l.console.WithLevel(level).Fields(l.fields).Msg(msg)
	if l.file != nil {
		l.file.WithLevel(level).Fields(l.fields).Msg(msg)
	}
}
