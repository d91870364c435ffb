// Package pool provides connection pooling for IMAP clients, adapted
// from the teacher's pool onto the rewritten client.Client: the same
// factory/Get/Put/Close/Len shape, plus a liveness check on reuse since
// the new Client exposes Done() for detecting a connection that failed
// while idle in the pool.
package pool

import (
	"errors"
	"sync"

	"github.com/kestrelmail/imap-go/client"
	"go.uber.org/multierr"
)

// ErrClosed is returned by Get once the pool has been closed.
var ErrClosed = errors.New("imap: pool is closed")

// Pool manages a set of idle IMAP client connections, created on demand
// by factory up to maxSize.
type Pool struct {
	mu      sync.Mutex
	factory func() (*client.Client, error)
	clients []*client.Client
	maxSize int
	closed  bool
}

// New creates a connection pool bounded at maxSize idle connections.
func New(maxSize int, factory func() (*client.Client, error)) *Pool {
	return &Pool{factory: factory, maxSize: maxSize}
}

// Get returns an idle client from the pool, discarding any that died
// while sitting idle, or creates a new one via factory if none are
// available.
func (p *Pool) Get() (*client.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrClosed
	}

	for len(p.clients) > 0 {
		c := p.clients[len(p.clients)-1]
		p.clients = p.clients[:len(p.clients)-1]
		if isLive(c) {
			return c, nil
		}
	}

	return p.factory()
}

// Put returns c to the pool, or closes it if the pool is closed, full,
// or c has already failed.
func (p *Pool) Put(c *client.Client) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || len(p.clients) >= p.maxSize || !isLive(c) {
		_ = c.Close()
		return
	}
	p.clients = append(p.clients, c)
}

// Close closes every idle client in the pool, returning the combined
// error from any that failed to close cleanly. Clients currently checked
// out are unaffected; callers holding one should close it themselves.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	var err error
	for _, c := range p.clients {
		err = multierr.Append(err, c.Close())
	}
	p.clients = nil
	return err
}

// Len returns the number of idle clients currently pooled.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.clients)
}

func isLive(c *client.Client) bool {
	select {
	case <-c.Done():
		return false
	default:
		return true
	}
}
