// Package common provides shared utilities and interfaces used across the application.
// This includes logging interfaces and implementations for debug and informational output.
package common

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"
)

// StandardLogger is a concrete implementation of the Logger interface.
// It provides debug and info logging capabilities with configurable debug mode.
type StandardLogger struct {
	debug     bool      // Whether debug messages should be printed
	requestID string    // Run ID used to correlate the lines of one generation run
	out       io.Writer // Destination for info messages
	errOut    io.Writer // Destination for debug messages
}

// GenerateRequestID generates a simple run ID for operation tracing.
func GenerateRequestID() string {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	return fmt.Sprintf("run_%d", r.Intn(100000))
}

// NewLogger creates a new logger with the specified debug mode.
// When debug is true, debug messages will be printed to stderr with [DEBUG] prefix.
// Info messages are always printed to stdout.
func NewLogger(debug bool) *StandardLogger {
	return NewLoggerWithWriters(debug, os.Stdout, os.Stderr)
}

// NewLoggerWithWriters creates a logger that writes info lines to out and debug lines to errOut.
// The generate command uses it to keep stdout clean when printing JSON.
func NewLoggerWithWriters(debug bool, out, errOut io.Writer) *StandardLogger {
	return &StandardLogger{
		debug:     debug,
		requestID: GenerateRequestID(),
		out:       out,
		errOut:    errOut,
	}
}

// RequestID returns the run ID prefixed to every line.
func (l *StandardLogger) RequestID() string {
	return l.requestID
}

// Debug logs a message only when debug mode is enabled
func (l *StandardLogger) Debug(format string, args ...interface{}) {
	if l.debug {
		fmt.Fprintf(l.errOut, "[DEBUG] [%s] "+format+"\n", append([]interface{}{l.requestID}, args...)...)
	}
}

// Info logs a message always
func (l *StandardLogger) Info(format string, args ...interface{}) {
	fmt.Fprintf(l.out, "[%s] "+format+"\n", append([]interface{}{l.requestID}, args...)...)
}
