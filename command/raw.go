package command

import (
	imap "github.com/kestrelmail/imap-go"
	"github.com/kestrelmail/imap-go/wire"
)

// Raw is the escape hatch spec.md §4.7 calls for: a caller-supplied command
// line plus whichever states it's legal in, for anything the standard
// command set doesn't name. Untagged responses go to the optional
// Untagged callback. It can't declare a state transition; callers needing
// one should implement Command directly instead.
type Raw struct {
	Base
	CommandName string
	Data        []wire.ConnectionData
	States      []imap.ClientState
	Untagged    func(r *wire.Response) error
}

// NewRaw builds a Raw command from already-rendered wire data. Data holds
// the command text without tag or CRLF and is used as-is: Render prepends
// the tag and a space and appends CRLF.
func NewRaw(name string, states []imap.ClientState, data []wire.ConnectionData) *Raw {
	return &Raw{CommandName: name, States: states, Data: data}
}

func (c *Raw) Name() string { return c.CommandName }

func (c *Raw) CanExecuteIn(state imap.ClientState) bool {
	if len(c.States) == 0 {
		return true
	}
	for _, s := range c.States {
		if s == state {
			return true
		}
	}
	return false
}

func (c *Raw) Render(tag string) []wire.ConnectionData {
	out := append([]wire.ConnectionData{wire.Str(tag), wire.SP()}, c.Data...)
	return append(out, wire.CRLFData())
}

func (c *Raw) HandleUntagged(r *wire.Response) error {
	if c.Untagged != nil {
		return c.Untagged(r)
	}
	return nil
}
