package domain

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by upload operations. Match with errors.Is.
var (
	// ErrTransport marks local network failures: the connection could not be
	// established, or a send/receive on an open connection failed.
	ErrTransport = errors.New("mediaship: transport error")

	// ErrServer marks responses that violate the protocol contract.
	ErrServer = errors.New("mediaship: server error")

	// ErrIO marks local file failures (open, seek, read).
	ErrIO = errors.New("mediaship: i/o error")
)

// Caller mistakes, reported before any I/O happens.
var (
	ErrInvalidParams     = errors.New("mediaship: invalid upload parameters")
	ErrInvalidRange      = errors.New("mediaship: invalid byte range")
	ErrInvalidSessionURL = errors.New("mediaship: invalid session url")
)

// Protocol-level codes carried by ServerError.
const (
	CodeWrongResponse = "wrong_response"
	CodeWrongHeaders  = "wrong_headers"
)

// TransportError wraps a network-layer failure.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// ServerError reports a response the client cannot use. Code and Message
// default to a generic "wrong response" when the server supplies nothing.
type ServerError struct {
	Code    string
	Message string
	Err     error
}

func (e *ServerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("server: %s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("server: %s: %s", e.Code, e.Message)
}

func (e *ServerError) Unwrap() error { return e.Err }

func (e *ServerError) Is(target error) bool { return target == ErrServer }

// NewWrongResponse builds the ServerError used for unparsable negotiation
// responses.
func NewWrongResponse(cause error) *ServerError {
	return &ServerError{Code: CodeWrongResponse, Message: "Wrong server response", Err: cause}
}

// NewWrongHeaders builds the ServerError used for unusable probe headers.
func NewWrongHeaders(cause error) *ServerError {
	return &ServerError{Code: CodeWrongHeaders, Message: "Wrong server headers response", Err: cause}
}

// IOError wraps a local file failure.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }
