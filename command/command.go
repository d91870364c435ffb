// Package command implements the Command contract (spec.md §3/§4.7): one
// type per IMAP command, each knowing its own name, the states it may run
// in, how to render itself onto the wire, how to fold untagged responses
// into a result, and what ClientState it leaves the session in.
//
// The scheduler in package client owns the queue and the single in-flight
// slot; it never special-cases a command by name, only through this
// interface.
package command

import (
	imap "github.com/kestrelmail/imap-go"
	"github.com/kestrelmail/imap-go/wire"
)

// Command is one queued or in-flight IMAP command.
type Command interface {
	// Name is the command's wire name, e.g. "LOGIN", "UID FETCH".
	Name() string
	// CanExecuteIn reports whether this command may be sent while the
	// session is in the given state. The scheduler holds (does not
	// reject) a command at the head of the queue for which this is false,
	// per spec.md §5: a later-queued eligible command may run first only
	// once FIFO order permits it.
	CanExecuteIn(state imap.ClientState) bool
	// Render produces the wire bytes for this command, tag included, with
	// a trailing CRLF. Render is called at most once, when the scheduler
	// is ready to send.
	Render(tag string) []wire.ConnectionData
	// HandleUntagged is called for each untagged response delivered while
	// this command is in flight, with the decoder positioned at the
	// response's first field. Implementations that don't recognize the
	// response should return nil without consuming anything; the
	// scheduler discards whatever's left of the line afterward.
	HandleUntagged(r *wire.Response) error
	// HandleTagged is called exactly once, with the command's own tagged
	// completion. A non-OK status becomes the command's error.
	HandleTagged(status *wire.Status) error
	// StateAfter returns the ClientState the session moves to once this
	// command completes OK, given the state it started in. Returning
	// current means no transition.
	StateAfter(current imap.ClientState) imap.ClientState
}

// Base provides the bookkeeping every Command shares: recording its own
// completion status and surfacing it as an error. Concrete commands embed
// Base and implement the rest of the interface themselves.
type Base struct {
	tag    string
	err    error
	status *wire.Status
}

// SetTag records the tag the scheduler assigned this command, so a command
// rendering itself can use it, and so error messages can mention it.
func (b *Base) SetTag(tag string) { b.tag = tag }

// Tag returns the assigned tag, or "" before the command has been sent.
func (b *Base) Tag() string { return b.tag }

// HandleTagged is the default tagged-response handler: it classifies the
// status and stores the corresponding error, if any. Commands with
// response-code side effects on their own completion (e.g. SELECT's
// READ-ONLY/READ-WRITE) should call this, then inspect status themselves.
func (b *Base) HandleTagged(status *wire.Status) error {
	b.status = status
	if status.Type != "OK" {
		b.err = errorFor(status)
	}
	return nil
}

// Err returns the error recorded by HandleTagged, nil on OK.
func (b *Base) Err() error { return b.err }

// Status returns the raw tagged status, once HandleTagged has run.
func (b *Base) Status() *wire.Status { return b.status }

// StateAfter is the default no-op transition; commands that change state
// override it.
func (b *Base) StateAfter(current imap.ClientState) imap.ClientState { return current }

func errorFor(status *wire.Status) error {
	code := codeFor(status.Code)
	resp := &imap.StatusResponse{
		Type:    imap.StatusResponseType(status.Type),
		Code:    code,
		Message: status.Message,
	}
	return imap.NewCommandError(resp)
}

// codeFor parses a status response's bracketed code text into a
// *imap.Code, preserving unknown codes opaquely.
func codeFor(raw string) *imap.Code {
	if raw == "" {
		return nil
	}
	name, rest := raw, ""
	for i := 0; i < len(raw); i++ {
		if raw[i] == ' ' {
			name, rest = raw[:i], raw[i+1:]
			break
		}
	}
	if !imap.IsKnownResponseCode(name) {
		return &imap.Code{Unknown: &imap.UnknownCode{Name: name, RawArgs: rest}}
	}
	c := &imap.Code{Name: imap.ResponseCode(name)}
	switch c.Name {
	case imap.ResponseCodeUIDNext, imap.ResponseCodeUIDValidity, imap.ResponseCodeUnseen:
		var n uint32
		for i := 0; i < len(rest); i++ {
			if rest[i] < '0' || rest[i] > '9' {
				break
			}
			n = n*10 + uint32(rest[i]-'0')
		}
		c.Number = n
	case imap.ResponseCodeBadCharset, imap.ResponseCodeCapability, imap.ResponseCodePermanentFlags:
		rest = trimParens(rest)
		if rest != "" {
			c.Flags = splitSpace(rest)
		}
	}
	return c
}

func trimParens(s string) string {
	if len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' {
		return s[1 : len(s)-1]
	}
	return s
}

func splitSpace(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ' ' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}
