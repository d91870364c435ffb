package imap

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies a client-facing error per spec.md §7.
type ErrorKind int

const (
	// KindStreamError is a transport/IO failure (open, read, write,
	// unexpected close). Fatal to the session.
	KindStreamError ErrorKind = iota
	// KindParserError is a malformed response line. The line is dropped;
	// the session continues.
	KindParserError
	// KindProtocolError is a server violation of protocol expectations
	// (tag mismatch, unexpected '+', command sent in the wrong state).
	// Fatal: the connection closes.
	KindProtocolError
	// KindCommandError is a NO/BAD tagged response. See ServerNo/ServerBad
	// on Error.Command for which.
	KindCommandError
	// KindAborted is set on commands still queued or in flight when the
	// connection closes.
	KindAborted
	// KindLocalError is an invalid argument caught before a command ever
	// reaches the queue (e.g. a quoted string containing CRLF).
	KindLocalError
)

func (k ErrorKind) String() string {
	switch k {
	case KindStreamError:
		return "stream_error"
	case KindParserError:
		return "parser_error"
	case KindProtocolError:
		return "protocol_error"
	case KindCommandError:
		return "command_error"
	case KindAborted:
		return "aborted"
	case KindLocalError:
		return "local_error"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// CommandErrorCode distinguishes the two KindCommandError sub-cases named
// in spec.md §7.
type CommandErrorCode int

const (
	// ServerNo is set when the tagged response was NO.
	ServerNo CommandErrorCode = iota
	// ServerBad is set when the tagged response was BAD.
	ServerBad
)

// Error is the error type returned across package boundaries in this
// library: every failure surfaced to a caller carries one of the six kinds
// from spec.md §7, and wraps its cause with github.com/pkg/errors so a
// %+v format prints a stack trace at the point the kind was assigned.
type Error struct {
	Kind ErrorKind
	// Command, when Kind == KindCommandError, distinguishes NO from BAD.
	Command CommandErrorCode
	// Response is the underlying status response for KindCommandError.
	Response *StatusResponse
	cause    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Response != nil {
		return fmt.Sprintf("imap: %s: %s", e.Kind, e.Response.Error())
	}
	if e.cause != nil {
		return fmt.Sprintf("imap: %s: %s", e.Kind, e.cause.Error())
	}
	return fmt.Sprintf("imap: %s", e.Kind)
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// NewStreamError wraps a transport failure as a KindStreamError.
func NewStreamError(cause error, msgAndArgs ...interface{}) *Error {
	return &Error{Kind: KindStreamError, cause: wrap(cause, msgAndArgs...)}
}

// NewParserError wraps a parse failure as a KindParserError.
func NewParserError(cause error, msgAndArgs ...interface{}) *Error {
	return &Error{Kind: KindParserError, cause: wrap(cause, msgAndArgs...)}
}

// NewProtocolError wraps a protocol violation as a KindProtocolError.
func NewProtocolError(msgAndArgs ...interface{}) *Error {
	return &Error{Kind: KindProtocolError, cause: wrap(nil, msgAndArgs...)}
}

// NewCommandError builds a KindCommandError from a tagged NO/BAD response.
func NewCommandError(resp *StatusResponse) *Error {
	code := ServerNo
	if resp.Type == StatusResponseTypeBAD {
		code = ServerBad
	}
	return &Error{Kind: KindCommandError, Command: code, Response: resp}
}

// NewAbortedError marks a command aborted by connection closure.
func NewAbortedError(cause error) *Error {
	return &Error{Kind: KindAborted, cause: wrap(cause, "connection closed")}
}

// NewLocalError wraps an invalid-argument failure caught before enqueue.
func NewLocalError(msgAndArgs ...interface{}) *Error {
	return &Error{Kind: KindLocalError, cause: wrap(nil, msgAndArgs...)}
}

func wrap(cause error, msgAndArgs ...interface{}) error {
	msg := ""
	if len(msgAndArgs) > 0 {
		if format, ok := msgAndArgs[0].(string); ok {
			msg = fmt.Sprintf(format, msgAndArgs[1:]...)
		}
	}
	if cause == nil {
		if msg == "" {
			return errors.New("imap error")
		}
		return errors.New(msg)
	}
	if msg == "" {
		return errors.WithStack(cause)
	}
	return errors.Wrap(cause, msg)
}
