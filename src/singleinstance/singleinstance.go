package singleinstance

// Loopback TCP ownership of the resident instance and delegation of
// --capture invocations to it.

import (
	"context"
	"errors"
)

const (
	CommandCapture = "CAPTURE"
)

// ErrCancelled is returned by the client when the user cancelled the
// delegated capture.
var ErrCancelled = errors.New("capture cancelled")

// ResidentError is a failure reported by the resident, as opposed to a
// transport failure while talking to it.
type ResidentError struct {
	Message string
}

func (e *ResidentError) Error() string { return e.Message }

// Server owns the TCP endpoint and answers capture requests.
type Server interface {
	// Start listens on the first port of the configured range. It fails if
	// that port is taken.
	Start(ctx context.Context) error
	// Port returns the bound TCP port, or 0 if not started.
	Port() int
	// Next returns the next accepted request, or the ctx error.
	Next(ctx context.Context) (Conn, error)
	// Close stops accepting clients.
	Close() error
}

// Conn is one client request awaiting a response.
type Conn interface {
	Request() Request
	// RespondSuccess reports the saved file path.
	RespondSuccess(path string) error
	RespondError(msg string) error
	RespondCancelled() error
	Close() error
}

// Request is a parsed client request.
type Request struct {
	Command string
}

// Client delegates a capture to a running resident.
type Client interface {
	// TryCapture finds a resident and asks it to capture. If none is found
	// it returns delegated=false and a nil error.
	TryCapture(ctx context.Context) (delegated bool, path string, err error)
}

// NewServer returns the TCP implementation.
func NewServer() Server { return newTcpServer() }

// NewClient returns the TCP implementation.
func NewClient() Client { return newTcpClient() }
