package command

import (
	"io"
	"strconv"
	"strings"

	imap "github.com/kestrelmail/imap-go"
	"github.com/kestrelmail/imap-go/wire"
)

// Fetch implements FETCH/UID FETCH (spec.md §4.7, selected state).
//
// SectionHandler, when set, is invoked synchronously for each BODY[...]
// literal as it arrives, with a reader bounded to the literal's declared
// size; whatever the handler leaves unread is discarded afterward so the
// decoder stays in sync, and the section is not stored in the attribute
// map. Without a handler, section bodies are buffered into the attribute
// map's Octets field.
type Fetch struct {
	Base
	Seq            imap.NumSet
	UID            bool
	Opts           imap.FetchOptions
	SectionHandler func(seqNum uint32, section string, sr *imap.SectionReader) error

	Messages []*imap.FetchMessageData
}

func NewFetch(seq imap.NumSet, opts imap.FetchOptions, uid bool) *Fetch {
	return &Fetch{Seq: seq, Opts: opts, UID: uid}
}

func (c *Fetch) Name() string {
	if c.UID {
		return "UID " + imap.CommandFetch
	}
	return imap.CommandFetch
}

func (c *Fetch) CanExecuteIn(state imap.ClientState) bool { return state == imap.StateSelected }

func (c *Fetch) Render(tag string) []wire.ConnectionData {
	out := []wire.ConnectionData{wire.Str(tag), wire.SP()}
	if c.UID {
		out = append(out, wire.Str("UID"), wire.SP())
	}
	out = append(out,
		wire.Str(imap.CommandFetch), wire.SP(), wire.Str(c.Seq.String()), wire.SP(),
		wire.Str("("), wire.Str(strings.Join(fetchItemNames(c.Opts), " ")), wire.Str(")"),
		wire.CRLFData(),
	)
	return out
}

func fetchItemNames(o imap.FetchOptions) []string {
	var items []string
	if o.Flags {
		items = append(items, "FLAGS")
	}
	if o.UID {
		items = append(items, "UID")
	}
	if o.RFC822Size {
		items = append(items, "RFC822.SIZE")
	}
	if o.InternalDate {
		items = append(items, "INTERNALDATE")
	}
	if o.Envelope {
		items = append(items, "ENVELOPE")
	}
	if o.BodyStructure {
		items = append(items, "BODYSTRUCTURE")
	}
	for _, s := range o.BodySection {
		items = append(items, bodySectionItem(s))
	}
	if len(items) == 0 {
		items = append(items, "FLAGS")
	}
	return items
}

func bodySectionItem(s *imap.FetchItemBodySection) string {
	var b strings.Builder
	if s.Peek {
		b.WriteString("BODY.PEEK[")
	} else {
		b.WriteString("BODY[")
	}
	for i, p := range s.Part {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.Itoa(p))
	}
	if s.Specifier != "" {
		if len(s.Part) > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.Specifier)
		if len(s.Fields) > 0 {
			if s.NotFields {
				b.WriteString(".NOT")
			}
			b.WriteString(" (")
			b.WriteString(strings.Join(s.Fields, " "))
			b.WriteString(")")
		}
	}
	b.WriteString("]")
	if s.Partial != nil {
		b.WriteString("<")
		b.WriteString(strconv.FormatInt(s.Partial.Offset, 10))
		b.WriteString(".")
		b.WriteString(strconv.FormatInt(s.Partial.Count, 10))
		b.WriteString(">")
	}
	return b.String()
}

func (c *Fetch) HandleUntagged(r *wire.Response) error {
	if !(r.HasNum && strings.EqualFold(r.Name, "FETCH")) {
		return nil
	}
	msg := &imap.FetchMessageData{SeqNum: r.Num, Attributes: map[string]imap.FetchAttrValue{}}
	err := r.Dec.ReadList(func() error {
		name, err := r.Dec.ReadAtom()
		if err != nil {
			return err
		}
		if err := r.Dec.ReadSP(); err != nil {
			return err
		}
		return c.readAttr(r, msg, name)
	})
	if err != nil {
		return err
	}
	c.Messages = append(c.Messages, msg)
	return nil
}

func (c *Fetch) readAttr(r *wire.Response, msg *imap.FetchMessageData, name string) error {
	upper := strings.ToUpper(name)
	switch {
	case upper == "FLAGS":
		flags, err := r.Dec.ReadFlags()
		if err != nil {
			return err
		}
		msg.Attributes[upper] = imap.FetchAttrValue{Kind: imap.FetchAttrFlagList, Flags: toFlags(flags)}
	case upper == "UID":
		n, err := r.Dec.ReadNumber()
		if err != nil {
			return err
		}
		msg.Attributes[upper] = imap.FetchAttrValue{Kind: imap.FetchAttrInteger, Integer: uint64(n)}
	case upper == "RFC822.SIZE":
		n, err := r.Dec.ReadNumber64()
		if err != nil {
			return err
		}
		msg.Attributes[upper] = imap.FetchAttrValue{Kind: imap.FetchAttrInteger, Integer: n}
	case upper == "INTERNALDATE":
		s, _, err := r.Dec.ReadNString()
		if err != nil {
			return err
		}
		msg.Attributes[upper] = imap.FetchAttrValue{Kind: imap.FetchAttrString, String: s}
	case upper == "ENVELOPE":
		env, err := readEnvelope(r.Dec)
		if err != nil {
			return err
		}
		msg.Attributes[upper] = imap.FetchAttrValue{Kind: imap.FetchAttrEnvelope, Envelope: env}
	case upper == "BODYSTRUCTURE" || upper == "BODY":
		bs, err := readBodyStructure(r.Dec)
		if err != nil {
			return err
		}
		msg.Attributes[upper] = imap.FetchAttrValue{Kind: imap.FetchAttrBodyStructure, BodyStructure: bs}
	case strings.HasPrefix(upper, "BODY["):
		return c.readSection(r, msg, name)
	default:
		// Unrecognized attribute: best-effort skip so the rest of the
		// list still parses.
		return skipValue(r.Dec)
	}
	return nil
}

func (c *Fetch) readSection(r *wire.Response, msg *imap.FetchMessageData, name string) error {
	info, err := r.Dec.ReadLiteralInfo()
	if err != nil {
		return err
	}
	lr := r.Dec.ReadLiteral(info.Size)
	if c.SectionHandler != nil {
		sr := &imap.SectionReader{Reader: lr, Size: info.Size}
		if err := c.SectionHandler(msg.SeqNum, name, sr); err != nil {
			return err
		}
		// Drain anything the handler left unread so the decoder stays in
		// sync regardless of how much of the declared size it consumed.
		_, err := io.Copy(io.Discard, lr)
		return err
	}
	data, err := io.ReadAll(lr)
	if err != nil {
		return err
	}
	msg.Attributes[strings.ToUpper(name)] = imap.FetchAttrValue{Kind: imap.FetchAttrOctets, Octets: data}
	return nil
}

func (c *Fetch) StateAfter(current imap.ClientState) imap.ClientState { return current }

// Search implements SEARCH/UID SEARCH (spec.md §4.7, selected state).
type Search struct {
	Base
	Criteria imap.SearchCriteria
	UID      bool
	Data     imap.SearchData
}

func NewSearch(criteria imap.SearchCriteria, uid bool) *Search {
	return &Search{Criteria: criteria, UID: uid, Data: imap.SearchData{UID: uid}}
}

func (c *Search) Name() string {
	if c.UID {
		return "UID " + imap.CommandSearch
	}
	return imap.CommandSearch
}

func (c *Search) CanExecuteIn(state imap.ClientState) bool { return state == imap.StateSelected }

func (c *Search) Render(tag string) []wire.ConnectionData {
	out := []wire.ConnectionData{wire.Str(tag), wire.SP()}
	if c.UID {
		out = append(out, wire.Str("UID"), wire.SP())
	}
	out = append(out, wire.Str(imap.CommandSearch), wire.SP(), wire.Str(renderSearchCriteria(c.Criteria)), wire.CRLFData())
	return out
}

func (c *Search) HandleUntagged(r *wire.Response) error {
	if !r.IsKind(imap.CommandSearch) {
		return nil
	}
	for {
		b, err := r.Dec.PeekByte()
		if err != nil || b == '\r' {
			return nil
		}
		n, err := r.Dec.ReadNumber()
		if err != nil {
			return err
		}
		c.Data.Nums = append(c.Data.Nums, n)
		if b, err := r.Dec.PeekByte(); err != nil || b != ' ' {
			return nil
		}
		_ = r.Dec.ReadSP()
	}
}

// renderSearchCriteria is intentionally minimal: it covers the criteria
// spec.md's SearchCriteria type names, rendered as IMAP search-key text
// the way the teacher's encoder builds other command argument lists.
func renderSearchCriteria(c imap.SearchCriteria) string {
	var parts []string
	if c.SeqNum != nil {
		parts = append(parts, c.SeqNum.String())
	}
	if c.UID != nil {
		parts = append(parts, "UID", c.UID.String())
	}
	if !c.Since.IsZero() {
		parts = append(parts, "SINCE", c.Since.Format("02-Jan-2006"))
	}
	if !c.Before.IsZero() {
		parts = append(parts, "BEFORE", c.Before.Format("02-Jan-2006"))
	}
	if !c.SentSince.IsZero() {
		parts = append(parts, "SENTSINCE", c.SentSince.Format("02-Jan-2006"))
	}
	if !c.SentBefore.IsZero() {
		parts = append(parts, "SENTBEFORE", c.SentBefore.Format("02-Jan-2006"))
	}
	if !c.SentOn.IsZero() {
		parts = append(parts, "SENTON", c.SentOn.Format("02-Jan-2006"))
	}
	if !c.On.IsZero() {
		parts = append(parts, "ON", c.On.Format("02-Jan-2006"))
	}
	for _, h := range c.Header {
		parts = append(parts, "HEADER", h.Key, quoteSearchString(h.Value))
	}
	for _, s := range c.Body {
		parts = append(parts, "BODY", quoteSearchString(s))
	}
	for _, s := range c.Text {
		parts = append(parts, "TEXT", quoteSearchString(s))
	}
	if c.Larger > 0 {
		parts = append(parts, "LARGER", strconv.FormatInt(c.Larger, 10))
	}
	if c.Smaller > 0 {
		parts = append(parts, "SMALLER", strconv.FormatInt(c.Smaller, 10))
	}
	for _, f := range c.Flag {
		parts = append(parts, flagSearchKey(f))
	}
	for _, f := range c.NotFlag {
		parts = append(parts, "NOT", flagSearchKey(f))
	}
	for _, pair := range c.Or {
		parts = append(parts, "OR", "("+renderSearchCriteria(pair[0])+")", "("+renderSearchCriteria(pair[1])+")")
	}
	for _, n := range c.Not {
		parts = append(parts, "NOT", "("+renderSearchCriteria(n)+")")
	}
	if len(parts) == 0 {
		return "ALL"
	}
	return strings.Join(parts, " ")
}

func quoteSearchString(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}

func flagSearchKey(f imap.Flag) string {
	switch f {
	case imap.FlagSeen:
		return "SEEN"
	case imap.FlagAnswered:
		return "ANSWERED"
	case imap.FlagFlagged:
		return "FLAGGED"
	case imap.FlagDeleted:
		return "DELETED"
	case imap.FlagDraft:
		return "DRAFT"
	case imap.FlagRecent:
		return "RECENT"
	default:
		return "KEYWORD " + string(f)
	}
}

// Store implements STORE/UID STORE (spec.md §4.7, selected state).
type Store struct {
	Base
	Seq   imap.NumSet
	UID   bool
	Flags imap.StoreFlags

	Updated []*imap.FetchMessageData
}

func NewStore(seq imap.NumSet, flags imap.StoreFlags, uid bool) *Store {
	return &Store{Seq: seq, Flags: flags, UID: uid}
}

func (c *Store) Name() string {
	if c.UID {
		return "UID " + imap.CommandStore
	}
	return imap.CommandStore
}

func (c *Store) CanExecuteIn(state imap.ClientState) bool { return state == imap.StateSelected }

func (c *Store) Render(tag string) []wire.ConnectionData {
	item := c.Flags.Action.String()
	if c.Flags.Silent {
		item += ".SILENT"
	}
	flagStrs := make([]string, len(c.Flags.Flags))
	for i, f := range c.Flags.Flags {
		flagStrs[i] = string(f)
	}
	out := []wire.ConnectionData{wire.Str(tag), wire.SP()}
	if c.UID {
		out = append(out, wire.Str("UID"), wire.SP())
	}
	out = append(out,
		wire.Str(imap.CommandStore), wire.SP(), wire.Str(c.Seq.String()), wire.SP(),
		wire.Str(item), wire.SP(), wire.Str("("), wire.Str(strings.Join(flagStrs, " ")), wire.Str(")"),
		wire.CRLFData(),
	)
	return out
}

func (c *Store) HandleUntagged(r *wire.Response) error {
	if !(r.HasNum && strings.EqualFold(r.Name, "FETCH")) {
		return nil
	}
	msg := &imap.FetchMessageData{SeqNum: r.Num, Attributes: map[string]imap.FetchAttrValue{}}
	err := r.Dec.ReadList(func() error {
		name, err := r.Dec.ReadAtom()
		if err != nil {
			return err
		}
		if err := r.Dec.ReadSP(); err != nil {
			return err
		}
		if strings.EqualFold(name, "FLAGS") {
			flags, err := r.Dec.ReadFlags()
			if err != nil {
				return err
			}
			msg.Attributes["FLAGS"] = imap.FetchAttrValue{Kind: imap.FetchAttrFlagList, Flags: toFlags(flags)}
			return nil
		}
		if strings.EqualFold(name, "UID") {
			n, err := r.Dec.ReadNumber()
			if err != nil {
				return err
			}
			msg.Attributes["UID"] = imap.FetchAttrValue{Kind: imap.FetchAttrInteger, Integer: uint64(n)}
			return nil
		}
		return skipValue(r.Dec)
	})
	if err != nil {
		return err
	}
	c.Updated = append(c.Updated, msg)
	return nil
}

// Copy implements COPY/UID COPY (spec.md §4.7, selected state).
type Copy struct {
	Base
	Seq     imap.NumSet
	UID     bool
	Mailbox string
	Data    imap.CopyData
}

func NewCopy(seq imap.NumSet, mailbox string, uid bool) *Copy {
	return &Copy{Seq: seq, Mailbox: mailbox, UID: uid}
}

func (c *Copy) Name() string {
	if c.UID {
		return "UID " + imap.CommandCopy
	}
	return imap.CommandCopy
}

func (c *Copy) CanExecuteIn(state imap.ClientState) bool { return state == imap.StateSelected }

func (c *Copy) Render(tag string) []wire.ConnectionData {
	out := []wire.ConnectionData{wire.Str(tag), wire.SP()}
	if c.UID {
		out = append(out, wire.Str("UID"), wire.SP())
	}
	out = append(out,
		wire.Str(imap.CommandCopy), wire.SP(), wire.Str(c.Seq.String()), wire.SP(),
		mailboxNameData(c.Mailbox), wire.CRLFData(),
	)
	return out
}

func (c *Copy) HandleUntagged(*wire.Response) error { return nil }

func (c *Copy) HandleTagged(status *wire.Status) error {
	if err := c.Base.HandleTagged(status); err != nil {
		return err
	}
	code := codeFor(status.Code)
	if code != nil && code.Unknown != nil && strings.EqualFold(code.Unknown.Name, "COPYUID") {
		parseCopyUID(code.Unknown.RawArgs, &c.Data)
	}
	return nil
}

func parseCopyUID(raw string, data *imap.CopyData) {
	fields := strings.Fields(raw)
	if len(fields) != 3 {
		return
	}
	if n, err := strconv.ParseUint(fields[0], 10, 32); err == nil {
		data.UIDValidity = uint32(n)
	}
	if s, err := imap.ParseUIDSet(fields[1]); err == nil {
		data.SourceUIDs = *s
	}
	if s, err := imap.ParseUIDSet(fields[2]); err == nil {
		data.DestUIDs = *s
	}
}

// Expunge implements EXPUNGE (spec.md §4.7, selected state). Each untagged
// "* n EXPUNGE" is collected in Seqs, in the order the server sent them
// (later numbers already account for earlier removals, per RFC 3501
// §7.4.1).
type Expunge struct {
	Base
	Seqs []uint32
}

func NewExpunge() *Expunge { return &Expunge{} }

func (c *Expunge) Name() string { return imap.CommandExpunge }

func (c *Expunge) CanExecuteIn(state imap.ClientState) bool { return state == imap.StateSelected }

func (c *Expunge) Render(tag string) []wire.ConnectionData {
	return []wire.ConnectionData{wire.Str(tag), wire.SP(), wire.Str(imap.CommandExpunge), wire.CRLFData()}
}

func (c *Expunge) HandleUntagged(r *wire.Response) error {
	if r.HasNum && strings.EqualFold(r.Name, "EXPUNGE") {
		c.Seqs = append(c.Seqs, r.Num)
	}
	return nil
}

// Append implements APPEND (spec.md §4.7, authenticated or selected
// state). The message literal is always rendered as a single entry;
// callers needing LITERAL+ pass sync=wire.NonSyncLiteral via NewAppend.
type Append struct {
	Base
	Mailbox string
	Opts    imap.AppendOptions
	Message []byte
	Sync    wire.LiteralSync

	Data imap.AppendData
}

func NewAppend(mailbox string, opts imap.AppendOptions, message []byte, sync wire.LiteralSync) *Append {
	return &Append{Mailbox: mailbox, Opts: opts, Message: message, Sync: sync}
}

func (c *Append) Name() string { return imap.CommandAppend }

func (c *Append) CanExecuteIn(state imap.ClientState) bool {
	return state == imap.StateAuthenticated || state == imap.StateSelected
}

func (c *Append) Render(tag string) []wire.ConnectionData {
	out := []wire.ConnectionData{wire.Str(tag), wire.SP(), wire.Str(imap.CommandAppend), wire.SP(), mailboxNameData(c.Mailbox)}
	if len(c.Opts.Flags) > 0 {
		flagStrs := make([]string, len(c.Opts.Flags))
		for i, f := range c.Opts.Flags {
			flagStrs[i] = string(f)
		}
		out = append(out, wire.SP(), wire.Str("("), wire.Str(strings.Join(flagStrs, " ")), wire.Str(")"))
	}
	if !c.Opts.InternalDate.IsZero() {
		out = append(out, wire.SP(), wire.QuotedString(c.Opts.InternalDate.Format("02-Jan-2006 15:04:05 -0700")))
	}
	out = append(out, wire.SP(), wire.EncodedLiteral(c.Message, c.Sync), wire.CRLFData())
	return out
}

func (c *Append) HandleUntagged(*wire.Response) error { return nil }

func (c *Append) HandleTagged(status *wire.Status) error {
	if err := c.Base.HandleTagged(status); err != nil {
		return err
	}
	code := codeFor(status.Code)
	if code != nil && code.Unknown != nil && strings.EqualFold(code.Unknown.Name, "APPENDUID") {
		fields := strings.Fields(code.Unknown.RawArgs)
		if len(fields) == 2 {
			if n, err := strconv.ParseUint(fields[0], 10, 32); err == nil {
				c.Data.UIDValidity = uint32(n)
			}
			if n, err := strconv.ParseUint(fields[1], 10, 32); err == nil {
				c.Data.UID = imap.UID(n)
			}
		}
	}
	return nil
}
