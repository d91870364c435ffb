package command

import (
	"strings"

	imap "github.com/kestrelmail/imap-go"
	"github.com/kestrelmail/imap-go/wire"
)

// Select implements SELECT/EXAMINE (spec.md §4.7, authenticated state).
type Select struct {
	Base
	Mailbox  string
	ReadOnly bool

	Data imap.SelectData
}

func NewSelect(mailbox string, opts imap.SelectOptions) *Select {
	return &Select{Mailbox: mailbox, ReadOnly: opts.ReadOnly}
}

func (c *Select) Name() string {
	if c.ReadOnly {
		return imap.CommandExamine
	}
	return imap.CommandSelect
}

func (c *Select) CanExecuteIn(state imap.ClientState) bool {
	return state == imap.StateAuthenticated || state == imap.StateSelected
}

func (c *Select) Render(tag string) []wire.ConnectionData {
	return []wire.ConnectionData{
		wire.Str(tag), wire.SP(), wire.Str(c.Name()), wire.SP(),
		mailboxNameData(c.Mailbox), wire.CRLFData(),
	}
}

func (c *Select) HandleUntagged(r *wire.Response) error {
	switch {
	case r.IsKind("FLAGS"):
		flags, err := r.Dec.ReadFlags()
		if err != nil {
			return err
		}
		c.Data.Flags = toFlags(flags)
	case r.HasNum && strings.EqualFold(r.Name, "EXISTS"):
		c.Data.NumMessages = r.Num
	case r.HasNum && strings.EqualFold(r.Name, "RECENT"):
		c.Data.NumRecent = r.Num
	case r.IsResult() && r.Status.Type == "OK":
		c.applyCode(codeFor(r.Status.Code))
	}
	return nil
}

// applyCode folds an untagged OK's response code (PERMANENTFLAGS, UIDNEXT,
// UIDVALIDITY, UNSEEN) into the in-progress SELECT/EXAMINE result.
func (c *Select) applyCode(code *imap.Code) {
	if code == nil {
		return
	}
	switch code.Name {
	case imap.ResponseCodePermanentFlags:
		c.Data.PermanentFlags = toFlags(code.Flags)
	case imap.ResponseCodeUIDNext:
		c.Data.UIDNext = code.Number
	case imap.ResponseCodeUIDValidity:
		c.Data.UIDValidity = code.Number
	case imap.ResponseCodeUnseen:
		c.Data.FirstUnseen = code.Number
	}
}

func (c *Select) HandleTagged(status *wire.Status) error {
	if err := c.Base.HandleTagged(status); err != nil {
		return err
	}
	if status.Type != "OK" {
		return nil
	}
	code := codeFor(status.Code)
	if code == nil {
		c.Data.Access = imap.AccessReadWrite
		return nil
	}
	switch code.Name {
	case imap.ResponseCodeReadOnly:
		c.Data.Access = imap.AccessReadOnly
	case imap.ResponseCodeReadWrite:
		c.Data.Access = imap.AccessReadWrite
	default:
		c.applyCode(code)
	}
	return nil
}

func (c *Select) StateAfter(current imap.ClientState) imap.ClientState {
	if c.Err() != nil {
		return current
	}
	return imap.StateSelected
}

func toFlags(ss []string) []imap.Flag {
	out := make([]imap.Flag, len(ss))
	for i, s := range ss {
		out[i] = imap.Flag(s)
	}
	return out
}

// mailboxNameData renders a mailbox name as an IMAP quoted string. INBOX is
// not special-cased here: the wire form is just another astring argument,
// quoted the same way LOGIN's userid/password are.
func mailboxNameData(name string) wire.ConnectionData {
	return wire.QuotedString(name)
}

// Close implements CLOSE (spec.md §4.7, selected state).
type Close struct{ Base }

func NewClose() *Close { return &Close{} }

func (c *Close) Name() string { return imap.CommandClose }

func (c *Close) CanExecuteIn(state imap.ClientState) bool { return state == imap.StateSelected }

func (c *Close) Render(tag string) []wire.ConnectionData {
	return []wire.ConnectionData{wire.Str(tag), wire.SP(), wire.Str(imap.CommandClose), wire.CRLFData()}
}

func (c *Close) HandleUntagged(*wire.Response) error { return nil }

func (c *Close) StateAfter(current imap.ClientState) imap.ClientState {
	if c.Err() != nil {
		return current
	}
	return imap.StateAuthenticated
}

// mailboxMutation is the shared shape of CREATE/DELETE/RENAME/SUBSCRIBE/
// UNSUBSCRIBE: authenticated-or-selected state, one or two mailbox-name
// arguments, no untagged data, no state change.
type mailboxMutation struct {
	Base
	cmd  string
	args []string
}

func (c *mailboxMutation) Name() string { return c.cmd }

func (c *mailboxMutation) CanExecuteIn(state imap.ClientState) bool {
	return state == imap.StateAuthenticated || state == imap.StateSelected
}

func (c *mailboxMutation) Render(tag string) []wire.ConnectionData {
	out := []wire.ConnectionData{wire.Str(tag), wire.SP(), wire.Str(c.cmd)}
	for _, a := range c.args {
		out = append(out, wire.SP(), mailboxNameData(a))
	}
	return append(out, wire.CRLFData())
}

func (c *mailboxMutation) HandleUntagged(*wire.Response) error { return nil }

func NewCreate(mailbox string, opts *imap.CreateOptions) Command {
	args := []string{mailbox}
	m := &mailboxMutation{cmd: imap.CommandCreate, args: args}
	if opts != nil && opts.SpecialUse != "" {
		// USE (RFC 6154) extension argument is out of scope; SpecialUse
		// is ignored and the mailbox is created without it.
		_ = opts.SpecialUse
	}
	return m
}

func NewDelete(mailbox string) Command {
	return &mailboxMutation{cmd: imap.CommandDelete, args: []string{mailbox}}
}

func NewRename(from, to string) Command {
	return &mailboxMutation{cmd: imap.CommandRename, args: []string{from, to}}
}

func NewSubscribe(mailbox string) Command {
	return &mailboxMutation{cmd: imap.CommandSubscribe, args: []string{mailbox}}
}

func NewUnsubscribe(mailbox string) Command {
	return &mailboxMutation{cmd: imap.CommandUnsubscribe, args: []string{mailbox}}
}

// List implements LIST/LSUB (spec.md §4.7, authenticated or selected
// state).
type List struct {
	Base
	Lsub           bool
	Reference, Pat string
	Mailboxes      []imap.ListData
}

func NewList(reference, pattern string, lsub bool) *List {
	return &List{Lsub: lsub, Reference: reference, Pat: pattern}
}

func (c *List) Name() string {
	if c.Lsub {
		return imap.CommandLsub
	}
	return imap.CommandList
}

func (c *List) CanExecuteIn(state imap.ClientState) bool {
	return state == imap.StateAuthenticated || state == imap.StateSelected
}

func (c *List) Render(tag string) []wire.ConnectionData {
	return []wire.ConnectionData{
		wire.Str(tag), wire.SP(), wire.Str(c.Name()), wire.SP(),
		mailboxNameData(c.Reference), wire.SP(), mailboxNameData(c.Pat),
		wire.CRLFData(),
	}
}

func (c *List) HandleUntagged(r *wire.Response) error {
	if !r.IsKind(c.Name()) {
		return nil
	}
	flags, err := r.Dec.ReadFlags()
	if err != nil {
		return err
	}
	if err := r.Dec.ReadSP(); err != nil {
		return err
	}
	var delim rune
	if ok, err := nstringDelim(r.Dec); err != nil {
		return err
	} else if ok != 0 {
		delim = ok
	}
	if err := r.Dec.ReadSP(); err != nil {
		return err
	}
	path, err := r.Dec.ReadAString()
	if err != nil {
		return err
	}
	attrs := make([]imap.MailboxAttr, len(flags))
	for i, f := range flags {
		attrs[i] = imap.MailboxAttr(f)
	}
	c.Mailboxes = append(c.Mailboxes, imap.ListData{Flags: attrs, Delimiter: delim, Path: path})
	return nil
}

// nstringDelim reads the LIST/LSUB hierarchy delimiter: a single-character
// quoted string, or NIL.
func nstringDelim(d *wire.Decoder) (rune, error) {
	s, ok, err := d.ReadNString()
	if err != nil {
		return 0, err
	}
	if !ok || s == "" {
		return 0, nil
	}
	return rune(s[0]), nil
}

// Status implements STATUS (spec.md §4.7, authenticated or selected
// state).
type Status struct {
	Base
	Mailbox string
	Opts    imap.StatusOptions
	Data    imap.StatusData
}

func NewStatus(mailbox string, opts imap.StatusOptions) *Status {
	return &Status{Mailbox: mailbox, Opts: opts, Data: imap.StatusData{Counts: map[imap.StatusItem]uint32{}}}
}

func (c *Status) Name() string { return imap.CommandStatus }

func (c *Status) CanExecuteIn(state imap.ClientState) bool {
	return state == imap.StateAuthenticated || state == imap.StateSelected
}

func (c *Status) Render(tag string) []wire.ConnectionData {
	items := c.Opts.Items()
	strs := make([]string, len(items))
	for i, it := range items {
		strs[i] = string(it)
	}
	out := []wire.ConnectionData{
		wire.Str(tag), wire.SP(), wire.Str(imap.CommandStatus), wire.SP(),
		mailboxNameData(c.Mailbox), wire.SP(), wire.Str("("),
	}
	for i, s := range strs {
		if i > 0 {
			out = append(out, wire.SP())
		}
		out = append(out, wire.Str(s))
	}
	out = append(out, wire.Str(")"), wire.CRLFData())
	return out
}

func (c *Status) HandleUntagged(r *wire.Response) error {
	if !r.IsKind(imap.CommandStatus) {
		return nil
	}
	mailbox, err := r.Dec.ReadAString()
	if err != nil {
		return err
	}
	if err := r.Dec.ReadSP(); err != nil {
		return err
	}
	c.Data.Mailbox = mailbox
	return r.Dec.ReadList(func() error {
		name, err := r.Dec.ReadAtom()
		if err != nil {
			return err
		}
		if err := r.Dec.ReadSP(); err != nil {
			return err
		}
		n, err := r.Dec.ReadNumber()
		if err != nil {
			return err
		}
		c.Data.Counts[imap.StatusItem(name)] = n
		return nil
	})
}
