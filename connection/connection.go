// Package connection manages the byte-stream half of an IMAP session: a
// net.Conn wrapped with a wire.Encoder/wire.Parser pair, the
// Closed/Opening/Open substate, and the suspend-for-continuation handshake
// a synchronizing literal requires mid-write.
//
// The Client in package client owns command scheduling and the
// ClientState machine; Connection only knows how to move ConnectionData
// and Responses across the wire.
package connection

import (
	"fmt"
	"net"
	"sync"

	imap "github.com/kestrelmail/imap-go"
	"github.com/kestrelmail/imap-go/wire"
)

// State is the connection's own substate, independent of (and narrower
// than) imap.ClientState.
type State int

const (
	StateClosed State = iota
	StateOpening
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpening:
		return "opening"
	case StateOpen:
		return "open"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Handler receives everything the read loop observes. Implementations
// must not block for long: the read loop can't make progress (and so
// can't notice the connection closing) until HandleResponse returns.
type Handler interface {
	// HandleResponse is called for every untagged, tagged, and (when not
	// consumed by an in-flight Write) continuation response.
	HandleResponse(r *wire.Response)
	// HandleParserError is called for a malformed line; the parser has
	// already resynchronized to the next CRLF, so the session continues.
	HandleParserError(err *wire.ParserError)
	// HandleStreamError is called once, when the read loop exits due to a
	// transport failure (including a clean EOF). The connection is closed
	// before this is called.
	HandleStreamError(err error)
}

// Connection wraps a net.Conn with the wire protocol's encode/decode
// machinery and the literal-synchronization handshake.
type Connection struct {
	conn    net.Conn
	enc     *wire.Encoder
	parser  *wire.Parser
	handler Handler

	mu    sync.RWMutex
	state State

	contCh   chan *wire.Response
	closeCh  chan struct{}
	closeErr error
	once     sync.Once

	writeMu sync.Mutex
}

// Open wraps an already-connected net.Conn, starting the background read
// loop. The caller is responsible for actually dialing; Open never blocks
// on the network itself.
func Open(conn net.Conn, handler Handler) *Connection {
	c := &Connection{
		conn:    conn,
		enc:     wire.NewEncoder(conn),
		parser:  wire.NewParser(conn),
		handler: handler,
		state:   StateOpening,
		contCh:  make(chan *wire.Response, 1),
		closeCh: make(chan struct{}),
	}
	go c.readLoop()
	c.setState(StateOpen)
	return c
}

func (c *Connection) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// State returns the connection's current substate.
func (c *Connection) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// IsOpen reports whether the connection can still accept writes.
func (c *Connection) IsOpen() bool {
	return c.State() == StateOpen
}

// Write sends a rendered command, blocking at each synchronizing literal
// until the server's "+" continuation request arrives. Compress is applied
// first so runs of non-literal entries go out in a single write.
func (c *Connection) Write(list []wire.ConnectionData) error {
	if !c.IsOpen() {
		return imap.NewStreamError(nil, "write on closed connection")
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	for _, item := range wire.Compress(list) {
		switch item.Kind {
		case wire.KindNonLiteral:
			c.enc.Raw(item.Bytes)
		case wire.KindLiteral:
			header := fmt.Sprintf("{%d", len(item.Bytes))
			if item.Sync == wire.NonSyncLiteral {
				header += "+"
			}
			header += "}\r\n"
			c.enc.RawString(header)
			if err := c.enc.Flush(); err != nil {
				return c.fail(err)
			}
			if item.Sync == wire.SyncLiteral {
				if _, err := c.awaitContinuation(); err != nil {
					return err
				}
			}
			c.enc.Raw(item.Bytes)
		}
	}
	if err := c.enc.Flush(); err != nil {
		return c.fail(err)
	}
	return nil
}

// awaitContinuation blocks until the read loop observes a "+" response, or
// the connection closes first.
func (c *Connection) awaitContinuation() (*wire.Response, error) {
	select {
	case r := <-c.contCh:
		return r, nil
	case <-c.closeCh:
		return nil, imap.NewAbortedError(c.closeErr)
	}
}

func (c *Connection) fail(err error) error {
	c.Close(err)
	return imap.NewStreamError(err)
}

// Close tears down the connection idempotently. cause may be nil for a
// caller-initiated close.
func (c *Connection) Close(cause error) error {
	var err error
	c.once.Do(func() {
		c.setState(StateClosed)
		c.closeErr = cause
		err = c.conn.Close()
		close(c.closeCh)
	})
	return err
}

func (c *Connection) readLoop() {
	for {
		r, err := c.parser.Next()
		if err != nil {
			if perr, ok := err.(*wire.ParserError); ok {
				c.handler.HandleParserError(perr)
				continue
			}
			_ = c.Close(err)
			c.handler.HandleStreamError(err)
			return
		}

		if r.IsContinuation() {
			select {
			case c.contCh <- r:
			default:
				// No writer is waiting; hand it upward as an ordinary
				// response so a protocol violation isn't silently eaten.
				c.handler.HandleResponse(r)
			}
			continue
		}

		c.handler.HandleResponse(r)
	}
}
