// Package client implements the single-in-flight IMAP client session
// described in spec.md: exactly one command outstanding at a time, in
// strict FIFO completion order, with commands that can't run in the
// current ClientState held (not rejected) at the head of the queue.
//
// The teacher's client package pipelined multiple in-flight commands
// behind a map keyed by tag; this package keeps its background-reader,
// channel-handoff idiom (client/reader.go, client/command.go) but
// replaces the pipelined dispatch with the strict single-slot scheduler
// spec.md §5 calls for.
package client

import (
	"crypto/tls"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	imap "github.com/kestrelmail/imap-go"
	"github.com/kestrelmail/imap-go/command"
	"github.com/kestrelmail/imap-go/connection"
	"github.com/kestrelmail/imap-go/state"
	"github.com/kestrelmail/imap-go/wire"
)

// errorer is satisfied by every command.Command built on command.Base: it
// surfaces the tagged NO/BAD outcome without the scheduler needing to know
// about any concrete command type.
type errorer interface {
	Err() error
}

// queuedCommand pairs a Command with the tag it's assigned once sent and
// the channel its caller blocks on.
type queuedCommand struct {
	cmd  command.Command
	tag  string
	done chan error
}

// Client is a single IMAP session: one byte-stream connection, one
// ClientState machine, and one command in flight at a time.
type Client struct {
	conn *connection.Connection
	opts *Options
	tags *tagAllocator

	machine *state.Machine

	mu       sync.Mutex
	queue    []*queuedCommand
	inFlight *queuedCommand
	closed   bool

	wake     chan struct{}
	stopCh   chan struct{}
	stopOnce sync.Once

	greetingCh   chan *wire.Response
	greetingOnce sync.Once

	capsMu sync.RWMutex
	caps   *imap.CapSet
}

// New wraps an already-dialed net.Conn, reads and classifies the server
// greeting, and starts the command scheduler. Unlike the teacher's New,
// the caller does not read the greeting itself: greeting classification
// (spec.md §4.6: OK/PREAUTH/BYE) drives the Connecting→* transition here.
func New(conn net.Conn, opts ...Option) (*Client, error) {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	c := &Client{
		opts:       options,
		tags:       newTagAllocator(options.TagPrefix),
		machine:    state.New(),
		wake:       make(chan struct{}, 1),
		stopCh:     make(chan struct{}),
		greetingCh: make(chan *wire.Response, 1),
		caps:       imap.NewCapSet(),
	}
	c.machine.OnAfter(func(from, to imap.ClientState) error {
		c.opts.Events.emit(Event{Kind: EventStateChange, FromState: from, ToState: to})
		return nil
	})

	if err := c.machine.Transition(imap.StateConnecting); err != nil {
		return nil, err
	}
	c.opts.Events.emit(Event{Kind: EventOpen})
	c.conn = connection.Open(conn, c)

	greeting, err := c.awaitGreeting()
	if err != nil {
		_ = c.conn.Close(err)
		return nil, err
	}
	if err := c.classifyGreeting(greeting); err != nil {
		_ = c.conn.Close(err)
		return nil, err
	}

	go c.senderLoop()
	return c, nil
}

// Dial connects to an IMAP server at addr and performs the greeting
// handshake.
func Dial(addr string, opts ...Option) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("imap: dial: %w", err)
	}
	return New(conn, opts...)
}

// DialTLS connects to an IMAP server over TLS.
func DialTLS(addr string, config *tls.Config, opts ...Option) (*Client, error) {
	conn, err := tls.Dial("tcp", addr, config)
	if err != nil {
		return nil, fmt.Errorf("imap: dial tls: %w", err)
	}
	return New(conn, opts...)
}

func (c *Client) awaitGreeting() (*wire.Response, error) {
	timeout := c.opts.CommandTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	select {
	case r := <-c.greetingCh:
		return r, nil
	case <-time.After(timeout):
		return nil, imap.NewStreamError(nil, "timed out waiting for greeting")
	case <-c.stopCh:
		return nil, imap.NewStreamError(nil, "connection closed before greeting")
	}
}

// classifyGreeting applies spec.md §4.6's greeting rule: OK moves to
// NotAuthenticated, PREAUTH to Authenticated, BYE to Logout (and is
// reported as an error, since the server refused the connection).
func (c *Client) classifyGreeting(r *wire.Response) error {
	if r.Status == nil {
		return imap.NewProtocolError("greeting was not a status response")
	}
	if code := codeForStatus(r.Status); code != nil && code.Name == imap.ResponseCodeCapability {
		c.capsMu.Lock()
		c.caps = imap.NewCapSet()
		for _, f := range code.Flags {
			c.caps.Add(imap.Cap(f))
		}
		c.capsMu.Unlock()
	}
	switch r.Status.Type {
	case "OK":
		return c.machine.Transition(imap.StateNotAuthenticated)
	case "PREAUTH":
		return c.machine.Transition(imap.StateAuthenticated)
	case "BYE":
		_ = c.machine.Transition(imap.StateLogout)
		return imap.NewProtocolError("server rejected connection: %s", r.Status.Message)
	default:
		return imap.NewProtocolError("unexpected greeting status %q", r.Status.Type)
	}
}

// State returns the current ClientState.
func (c *Client) State() imap.ClientState { return c.machine.State() }

// Caps returns a snapshot of the server's advertised capabilities.
func (c *Client) Caps() *imap.CapSet {
	c.capsMu.RLock()
	defer c.capsMu.RUnlock()
	return c.caps.Clone()
}

func (c *Client) setCaps(cs *imap.CapSet) {
	c.capsMu.Lock()
	c.caps = cs
	c.capsMu.Unlock()
}

// Execute enqueues cmd and blocks until it either completes its round
// trip or the connection fails. The returned error is the transport,
// protocol or abort failure if there was one; otherwise, for a tagged
// NO/BAD completion, it is the command error that cmd's own Err()
// accessor also reports (every built-in command embeds command.Base,
// which provides one).
func (c *Client) Execute(cmd command.Command) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return imap.NewAbortedError(nil)
	}
	qc := &queuedCommand{cmd: cmd, done: make(chan error, 1)}
	c.queue = append(c.queue, qc)
	c.mu.Unlock()

	c.opts.Events.emit(Event{Kind: EventEnqueue, Command: cmd})
	c.signalSend()
	return <-qc.done
}

// Close tears down the connection. Any queued or in-flight command fails
// with a KindAborted error.
func (c *Client) Close() error {
	return c.conn.Close(nil)
}

// Done returns a channel closed once the connection has torn down.
func (c *Client) Done() <-chan struct{} { return c.stopCh }

// Events returns the client's event bus, creating one if none was
// supplied via WithEventBus, so a caller can always subscribe after the
// fact (e.g. an extension package observing continuation requests).
func (c *Client) Events() *EventBus {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.opts.Events == nil {
		c.opts.Events = NewEventBus()
	}
	return c.opts.Events
}

func (c *Client) signalSend() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *Client) senderLoop() {
	for {
		select {
		case <-c.wake:
			c.trySend()
		case <-c.stopCh:
			return
		}
	}
}

// trySend dispatches the next queued command if the slot is free and the
// head of the queue is eligible to run in the current state. An
// ineligible head is held, not skipped: spec.md §5 forbids reordering
// around a command blocked on state.
func (c *Client) trySend() {
	c.mu.Lock()
	if c.inFlight != nil || len(c.queue) == 0 || c.closed {
		c.mu.Unlock()
		return
	}
	head := c.queue[0]
	if !head.cmd.CanExecuteIn(c.machine.State()) {
		c.mu.Unlock()
		return
	}

	tag, err := c.tags.Next()
	if err != nil {
		c.mu.Unlock()
		c.fatal(imap.NewProtocolError("tag space exhausted"))
		return
	}
	if setter, ok := head.cmd.(interface{ SetTag(string) }); ok {
		setter.SetTag(tag)
	}
	head.tag = tag
	c.queue = c.queue[1:]
	c.inFlight = head
	c.mu.Unlock()

	c.opts.Events.emit(Event{Kind: EventDequeue, Command: head.cmd})
	c.opts.Events.emit(Event{Kind: EventWillSend, Command: head.cmd})
	data := head.cmd.Render(tag)
	c.opts.Events.emit(Event{Kind: EventSendCommand, Command: head.cmd})
	c.opts.Logger.Debug().Str("tag", tag).Str("command", head.cmd.Name()).Msg("send")

	if err := c.conn.Write(data); err != nil {
		c.mu.Lock()
		c.inFlight = nil
		c.mu.Unlock()
		head.done <- err
		c.signalSend()
		return
	}
	// Completion arrives asynchronously through HandleResponse, which
	// clears inFlight and calls signalSend again.
}

// fatal aborts every queued and in-flight command and tears down the
// connection; used when the scheduler itself can't continue (tag space
// exhaustion).
func (c *Client) fatal(cause *imap.Error) {
	c.mu.Lock()
	c.closed = true
	inFlight := c.inFlight
	queued := c.queue
	c.inFlight = nil
	c.queue = nil
	c.mu.Unlock()

	if inFlight != nil {
		inFlight.done <- cause
	}
	for _, q := range queued {
		q.done <- imap.NewAbortedError(cause)
	}
	_ = c.conn.Close(cause)
}

// HandleResponse implements connection.Handler.
func (c *Client) HandleResponse(r *wire.Response) {
	c.opts.Events.emit(Event{Kind: EventResponse, Response: r})

	var greeted bool
	c.greetingOnce.Do(func() {
		greeted = true
		c.greetingCh <- r
	})
	if greeted {
		return
	}

	switch {
	case r.IsTagged():
		c.handleTagged(r)
	case r.IsContinuation():
		// Nobody was waiting on conn.Write's continuation handoff, or a
		// server sent one unprompted; nothing more to do with it here.
	default:
		c.handleUntagged(r)
	}
}

func (c *Client) handleTagged(r *wire.Response) {
	c.mu.Lock()
	inFlight := c.inFlight
	if inFlight == nil || inFlight.tag != r.Tag {
		c.mu.Unlock()
		c.fatal(imap.NewProtocolError("unexpected tagged response %q", r.Tag))
		return
	}
	c.inFlight = nil
	c.mu.Unlock()

	err := inFlight.cmd.HandleTagged(r.Status)
	if err == nil {
		if next := inFlight.cmd.StateAfter(c.machine.State()); next != c.machine.State() {
			if terr := c.machine.Transition(next); terr != nil {
				err = imap.NewProtocolError("invalid state transition after %s: %v", inFlight.cmd.Name(), terr)
			}
		}
	}
	if err == nil {
		if e, ok := inFlight.cmd.(errorer); ok {
			err = e.Err()
		}
	}
	inFlight.done <- err
	c.signalSend()
}

func (c *Client) handleUntagged(r *wire.Response) {
	if r.IsResult() && r.Status.Type == "BYE" {
		_ = c.machine.Transition(imap.StateLogout)
	}
	if r.IsKind(imap.CommandCapability) {
		cs := imap.NewCapSet()
		line := "* " + imap.CommandCapability
		for {
			atom, err := r.Dec.ReadAtom()
			if err != nil {
				break
			}
			cs.Add(imap.Cap(atom))
			line += " " + atom
			if b, err := r.Dec.PeekByte(); err != nil || b != ' ' {
				break
			}
			_ = r.Dec.ReadSP()
		}
		c.setCaps(cs)
		_ = r.Finish()
		// The line is consumed above, so the in-flight command is handed a
		// re-parsed copy of the same CAPABILITY response.
		c.mu.Lock()
		inFlight := c.inFlight
		c.mu.Unlock()
		if inFlight != nil {
			if replay, err := wire.NewParser(strings.NewReader(line + "\r\n")).Next(); err == nil {
				_ = inFlight.cmd.HandleUntagged(replay)
			}
		}
		return
	}

	c.mu.Lock()
	inFlight := c.inFlight
	c.mu.Unlock()
	if inFlight != nil {
		if err := inFlight.cmd.HandleUntagged(r); err != nil {
			c.opts.Logger.Debug().Err(err).Str("response", r.Name).Msg("untagged handler error")
		}
	}
	if !r.IsResult() {
		_ = r.Finish()
	}
}

// HandleParserError implements connection.Handler.
func (c *Client) HandleParserError(err *wire.ParserError) {
	c.opts.Events.emit(Event{Kind: EventParserError, ParserErr: err})
	c.opts.Logger.Debug().Err(err).Msg("parser error")
}

// HandleStreamError implements connection.Handler. The connection is
// already closed by the time this is called.
func (c *Client) HandleStreamError(err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	inFlight := c.inFlight
	queued := c.queue
	c.inFlight = nil
	c.queue = nil
	c.mu.Unlock()

	c.machine.Close()

	aborted := imap.NewAbortedError(err)
	if inFlight != nil {
		inFlight.done <- aborted
	}
	for _, q := range queued {
		q.done <- aborted
	}

	c.opts.Events.emit(Event{Kind: EventStreamError, StreamErr: err})
	c.opts.Events.emit(Event{Kind: EventClose})
	c.stopOnce.Do(func() { close(c.stopCh) })
}

func codeForStatus(status *wire.Status) *imap.Code {
	if status.Code == "" {
		return nil
	}
	name, rest := status.Code, ""
	for i := 0; i < len(status.Code); i++ {
		if status.Code[i] == ' ' {
			name, rest = status.Code[:i], status.Code[i+1:]
			break
		}
	}
	if name != string(imap.ResponseCodeCapability) {
		return nil
	}
	if len(rest) >= 2 && rest[0] == '(' && rest[len(rest)-1] == ')' {
		rest = rest[1 : len(rest)-1]
	}
	var flags []string
	start := 0
	for i := 0; i <= len(rest); i++ {
		if i == len(rest) || rest[i] == ' ' {
			if i > start {
				flags = append(flags, rest[start:i])
			}
			start = i + 1
		}
	}
	return &imap.Code{Name: imap.ResponseCodeCapability, Flags: flags}
}
