package command

import (
	imap "github.com/kestrelmail/imap-go"
	"github.com/kestrelmail/imap-go/wire"
)

// Capability implements CAPABILITY (spec.md §4.7, any state).
type Capability struct {
	Base
	Caps *imap.CapSet // filled in as the untagged CAPABILITY response arrives
}

func NewCapability() *Capability {
	return &Capability{Caps: imap.NewCapSet()}
}

func (c *Capability) Name() string { return imap.CommandCapability }

func (c *Capability) CanExecuteIn(imap.ClientState) bool { return true }

func (c *Capability) Render(tag string) []wire.ConnectionData {
	return []wire.ConnectionData{
		wire.Str(tag), wire.SP(), wire.Str(imap.CommandCapability), wire.CRLFData(),
	}
}

func (c *Capability) HandleUntagged(r *wire.Response) error {
	if !r.IsKind(imap.CommandCapability) {
		return nil
	}
	for {
		atom, err := r.Dec.ReadAtom()
		if err != nil {
			break
		}
		c.Caps.Add(imap.Cap(atom))
		if b, err := r.Dec.PeekByte(); err != nil || b != ' ' {
			break
		}
		_ = r.Dec.ReadSP()
	}
	return nil
}

// Login implements LOGIN (spec.md §4.7, not-authenticated state).
type Login struct {
	Base
	Username, Password string
}

func NewLogin(username, password string) *Login {
	return &Login{Username: username, Password: password}
}

func (c *Login) Name() string { return imap.CommandLogin }

func (c *Login) CanExecuteIn(state imap.ClientState) bool {
	return state == imap.StateNotAuthenticated
}

func (c *Login) Render(tag string) []wire.ConnectionData {
	return []wire.ConnectionData{
		wire.Str(tag), wire.SP(), wire.Str(imap.CommandLogin), wire.SP(),
		wire.QuotedString(c.Username), wire.SP(), wire.QuotedString(c.Password),
		wire.CRLFData(),
	}
}

func (c *Login) HandleUntagged(*wire.Response) error { return nil }

func (c *Login) StateAfter(current imap.ClientState) imap.ClientState {
	if c.Err() != nil {
		return current
	}
	return imap.StateAuthenticated
}

// Logout implements LOGOUT (spec.md §4.7, any state).
type Logout struct{ Base }

func NewLogout() *Logout { return &Logout{} }

func (c *Logout) Name() string { return imap.CommandLogout }

func (c *Logout) CanExecuteIn(imap.ClientState) bool { return true }

func (c *Logout) Render(tag string) []wire.ConnectionData {
	return []wire.ConnectionData{wire.Str(tag), wire.SP(), wire.Str(imap.CommandLogout), wire.CRLFData()}
}

func (c *Logout) HandleUntagged(*wire.Response) error { return nil }

func (c *Logout) StateAfter(imap.ClientState) imap.ClientState { return imap.StateLogout }

// Noop implements NOOP (spec.md §4.7, any state), the conventional way to
// let the server deliver pending unilateral data without changing state.
type Noop struct{ Base }

func NewNoop() *Noop { return &Noop{} }

func (c *Noop) Name() string { return imap.CommandNoop }

func (c *Noop) CanExecuteIn(imap.ClientState) bool { return true }

func (c *Noop) Render(tag string) []wire.ConnectionData {
	return []wire.ConnectionData{wire.Str(tag), wire.SP(), wire.Str(imap.CommandNoop), wire.CRLFData()}
}

func (c *Noop) HandleUntagged(*wire.Response) error { return nil }

// StartTLS implements STARTTLS (spec.md §4.7, not-authenticated state).
// Render only sends the command; the caller is responsible for wrapping
// the net.Conn in tls.Client once the tagged OK arrives, and for issuing a
// fresh CAPABILITY afterward since the server doesn't repeat its
// capability list automatically (RFC 3501 §6.2.1).
type StartTLS struct{ Base }

func NewStartTLS() *StartTLS { return &StartTLS{} }

func (c *StartTLS) Name() string { return imap.CommandStartTLS }

func (c *StartTLS) CanExecuteIn(state imap.ClientState) bool {
	return state == imap.StateNotAuthenticated
}

func (c *StartTLS) Render(tag string) []wire.ConnectionData {
	return []wire.ConnectionData{wire.Str(tag), wire.SP(), wire.Str(imap.CommandStartTLS), wire.CRLFData()}
}

func (c *StartTLS) HandleUntagged(*wire.Response) error { return nil }
