package client

import (
	"sync"

	imap "github.com/kestrelmail/imap-go"
	"github.com/kestrelmail/imap-go/command"
	"github.com/kestrelmail/imap-go/wire"
)

// EventKind names one of the event types a Client publishes. Grounded on
// the teacher's UnilateralDataHandler (client/options.go): a struct of
// named callbacks generalized here into one typed bus so an observer can
// subscribe to exactly the events it cares about instead of the library
// growing a new callback field for every kind of notice.
type EventKind int

const (
	// EventOpen fires once the underlying byte stream is established,
	// before the greeting is read.
	EventOpen EventKind = iota
	// EventClose fires once, when the connection tears down.
	EventClose
	// EventResponse fires for every parsed *wire.Response, tagged or not.
	EventResponse
	// EventParserError fires for a malformed line the parser resynchronized
	// past.
	EventParserError
	// EventStreamError fires once, when the connection fails fatally.
	EventStreamError
	// EventStateChange fires whenever the ClientState machine transitions.
	EventStateChange
	// EventEnqueue fires when a command is appended to the send queue.
	EventEnqueue
	// EventDequeue fires when a command leaves the queue to be sent.
	EventDequeue
	// EventSendCommand fires immediately before a command's rendered bytes
	// are written.
	EventSendCommand
	// EventWillSend is an advisory event fired just before EventSendCommand,
	// giving a subscriber a last chance to inspect (not mutate) the
	// command about to go out.
	EventWillSend
)

func (k EventKind) String() string {
	switch k {
	case EventOpen:
		return "open"
	case EventClose:
		return "close"
	case EventResponse:
		return "response"
	case EventParserError:
		return "parser_error"
	case EventStreamError:
		return "stream_error"
	case EventStateChange:
		return "state_change"
	case EventEnqueue:
		return "enqueue"
	case EventDequeue:
		return "dequeue"
	case EventSendCommand:
		return "send_command"
	case EventWillSend:
		return "will_send"
	default:
		return "unknown"
	}
}

// Event is one notification published on the bus. Only the fields
// relevant to Kind are populated; the rest are the zero value.
type Event struct {
	Kind EventKind

	Command  command.Command
	Response *wire.Response

	ParserErr *wire.ParserError
	StreamErr error

	FromState, ToState imap.ClientState
}

// Subscriber receives events published on an EventBus. Implementations
// must not block: the bus calls subscribers synchronously on whichever
// goroutine published the event (often the connection's read loop), so a
// slow or blocking subscriber stalls the client.
type Subscriber func(Event)

type subscription struct {
	id   int
	fn   Subscriber
	kind EventKind // -1 for OnAny
}

const kindAny EventKind = -1

// EventBus fans a Client's internal events out to any number of
// subscribers. The zero value is ready to use.
type EventBus struct {
	mu   sync.Mutex
	next int
	subs []subscription
}

// NewEventBus creates an empty EventBus.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// On registers fn to be called for every event of the given kind. The
// returned func removes the subscription.
func (b *EventBus) On(kind EventKind, fn Subscriber) func() {
	return b.add(kind, fn)
}

// OnAny registers fn to be called for every event, regardless of kind.
// The returned func removes the subscription.
func (b *EventBus) OnAny(fn Subscriber) func() {
	return b.add(kindAny, fn)
}

func (b *EventBus) add(kind EventKind, fn Subscriber) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs = append(b.subs, subscription{id: id, fn: fn, kind: kind})
	b.mu.Unlock()
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

func (b *EventBus) emit(ev Event) {
	if b == nil {
		return
	}
	b.mu.Lock()
	matched := make([]Subscriber, 0, len(b.subs))
	for _, s := range b.subs {
		if s.kind == kindAny || s.kind == ev.Kind {
			matched = append(matched, s.fn)
		}
	}
	b.mu.Unlock()
	for _, fn := range matched {
		fn(ev)
	}
}
