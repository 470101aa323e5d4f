// Package logger provides the logging interface shared by the WarpJar cookie
// jar, its RPC service and the command line.
package logger

import (
	"fmt"
	"io"
	"log"
	"sync"
)

// Logger is the printf-style logging interface used across WarpJar.
// Cookie values must never be passed to a Logger; domain, path and key are fine.
type Logger interface {
	// Debug logs diagnostic detail. Backends may drop it.
	Debug(format string, args ...interface{})

	// Info logs an informational message (e.g., "Loaded 12 cookies").
	Info(format string, args ...interface{})

	// Warning logs a recoverable problem (e.g., "Skipping malformed line 4").
	Warning(format string, args ...interface{})

	// Error logs a failure (e.g., "Failed to write cookie file").
	Error(format string, args ...interface{})

	// Close releases resources held by the logger. Safe to call multiple times.
	Close() error
}

// StandardLogger wraps a stdlib *log.Logger.
type StandardLogger struct {
	logger *log.Logger
	debug  bool
	closer io.Closer
	once   sync.Once
}

// NewStandardLogger creates a logger that writes through l. Debug messages
// are dropped unless debug is set.
func NewStandardLogger(l *log.Logger, debug bool) *StandardLogger {
	return &StandardLogger{logger: l, debug: debug}
}

// NewWriterLogger creates a logger writing to w with the standard flags.
// If w is an io.Closer it is closed by Close.
func NewWriterLogger(w io.Writer, prefix string, debug bool) *StandardLogger {
	s := NewStandardLogger(log.New(w, prefix, log.LstdFlags), debug)
	if c, ok := w.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// Debug logs a message with [DEBUG] prefix when debug output is enabled.
func (s *StandardLogger) Debug(format string, args ...interface{}) {
	if s.debug {
		s.logger.Printf("[DEBUG] "+format, args...)
	}
}

// Info logs an informational message with [INFO] prefix.
func (s *StandardLogger) Info(format string, args ...interface{}) {
	s.logger.Printf("[INFO] "+format, args...)
}

// Warning logs a warning message with [WARNING] prefix.
func (s *StandardLogger) Warning(format string, args ...interface{}) {
	s.logger.Printf("[WARNING] "+format, args...)
}

// Error logs an error message with [ERROR] prefix.
func (s *StandardLogger) Error(format string, args ...interface{}) {
	s.logger.Printf("[ERROR] "+format, args...)
}

// Close closes the underlying writer if the logger owns one.
func (s *StandardLogger) Close() error {
	var err error
	s.once.Do(func() {
		if s.closer != nil {
			err = s.closer.Close()
		}
	})
	return err
}

// NopLogger is a logger that discards all messages.
type NopLogger struct{}

// NewNopLogger creates a logger that discards all messages.
func NewNopLogger() *NopLogger {
	return &NopLogger{}
}

func (n *NopLogger) Debug(format string, args ...interface{})   {}
func (n *NopLogger) Info(format string, args ...interface{})    {}
func (n *NopLogger) Warning(format string, args ...interface{}) {}
func (n *NopLogger) Error(format string, args ...interface{})   {}
func (n *NopLogger) Close() error                               { return nil }

var (
	_ Logger = (*StandardLogger)(nil)
	_ Logger = (*NopLogger)(nil)
)

// MockLogger implements Logger for tests. It records every call.
type MockLogger struct {
	mu           sync.Mutex
	DebugCalls   []string
	InfoCalls    []string
	WarningCalls []string
	ErrorCalls   []string
	CloseCalled  bool
}

// NewMockLogger creates a new MockLogger.
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (m *MockLogger) Debug(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DebugCalls = append(m.DebugCalls, fmt.Sprintf(format, args...))
}

func (m *MockLogger) Info(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InfoCalls = append(m.InfoCalls, fmt.Sprintf(format, args...))
}

func (m *MockLogger) Warning(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WarningCalls = append(m.WarningCalls, fmt.Sprintf(format, args...))
}

func (m *MockLogger) Error(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ErrorCalls = append(m.ErrorCalls, fmt.Sprintf(format, args...))
}

func (m *MockLogger) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
	return nil
}

var _ Logger = (*MockLogger)(nil)
