// Package imap holds the shared, wire-independent data types of the IMAP4rev1
// client: connection states, message flags, mailbox attributes, and the
// envelope/body-structure shapes used to describe FETCH attribute values.
//
// Protocol framing lives in package wire, connection management in package
// connection, the state machine in package state, command contracts in
// package command, and the scheduler in package client.
package imap

import (
	"fmt"
	"strings"
	"time"
)

// ClientState is one of the six states a Client can be in (spec.md §3).
// Disconnected is both the initial and one terminal state; Logout is the
// other terminal state prior to close.
type ClientState int

const (
	// StateDisconnected is the initial state, and the state reached after
	// the connection closes.
	StateDisconnected ClientState = iota
	// StateConnecting is entered once the byte stream opens, before the
	// server greeting has been classified.
	StateConnecting
	// StateNotAuthenticated follows an OK greeting.
	StateNotAuthenticated
	// StateAuthenticated follows a PREAUTH greeting or a successful LOGIN.
	StateAuthenticated
	// StateSelected follows a successful SELECT/EXAMINE.
	StateSelected
	// StateLogout follows LOGOUT, or a BYE greeting, prior to close.
	StateLogout
)

// String returns the state's name.
func (s ClientState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateNotAuthenticated:
		return "not authenticated"
	case StateAuthenticated:
		return "authenticated"
	case StateSelected:
		return "selected"
	case StateLogout:
		return "logout"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Flag represents an IMAP message flag.
type Flag string

// Standard message flags defined in RFC 3501 §2.3.2.
const (
	FlagSeen     Flag = "\\Seen"
	FlagAnswered Flag = "\\Answered"
	FlagFlagged  Flag = "\\Flagged"
	FlagDeleted  Flag = "\\Deleted"
	FlagDraft    Flag = "\\Draft"
	FlagRecent   Flag = "\\Recent"
	FlagWildcard Flag = "\\*"
)

// MailboxAttr represents a mailbox attribute returned by LIST/LSUB.
type MailboxAttr string

// Standard mailbox attributes (RFC 3501 §7.2.2, RFC 6154 special-use).
const (
	MailboxAttrNoInferiors MailboxAttr = "\\Noinferiors"
	MailboxAttrNoSelect    MailboxAttr = "\\Noselect"
	MailboxAttrMarked      MailboxAttr = "\\Marked"
	MailboxAttrUnmarked    MailboxAttr = "\\Unmarked"
	MailboxAttrHasChildren MailboxAttr = "\\HasChildren"
	MailboxAttrHasNoChildren MailboxAttr = "\\HasNoChildren"

	MailboxAttrAll     MailboxAttr = "\\All"
	MailboxAttrArchive MailboxAttr = "\\Archive"
	MailboxAttrDrafts  MailboxAttr = "\\Drafts"
	MailboxAttrFlagged MailboxAttr = "\\Flagged"
	MailboxAttrJunk    MailboxAttr = "\\Junk"
	MailboxAttrSent    MailboxAttr = "\\Sent"
	MailboxAttrTrash   MailboxAttr = "\\Trash"
)

// NumKind indicates whether a number set (or command) addresses messages by
// sequence number or by UID (the "UID" command prefix, §4.7).
type NumKind int

const (
	NumKindSeq NumKind = iota
	NumKindUID
)

func (k NumKind) String() string {
	switch k {
	case NumKindSeq:
		return "seq"
	case NumKindUID:
		return "uid"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// SectionPartial represents a partial byte range (<offset.count>) on a BODY
// section fetch item.
type SectionPartial struct {
	Offset int64
	Count  int64
}

// Address represents an email address in an ENVELOPE field.
type Address struct {
	Name    string
	Mailbox string
	Host    string
}

// String returns the address in "Name <mailbox@host>" format.
func (a *Address) String() string {
	addr := a.Mailbox + "@" + a.Host
	if a.Name != "" {
		return fmt.Sprintf("%s <%s>", a.Name, addr)
	}
	return addr
}

// Envelope represents the ENVELOPE FETCH attribute (RFC 3501 §7.4.2).
type Envelope struct {
	Date      time.Time
	Subject   string
	From      []*Address
	Sender    []*Address
	ReplyTo   []*Address
	To        []*Address
	Cc        []*Address
	Bcc       []*Address
	InReplyTo string
	MessageID string
}

// BodyStructure represents the BODYSTRUCTURE/BODY FETCH attribute. MIME
// decoding of the referenced content is out of scope; this is the parsed
// shape of the server's structure description only.
type BodyStructure struct {
	Type        string
	Subtype     string
	Params      map[string]string
	ID          string
	Description string
	Encoding    string
	Size        uint32

	Envelope      *Envelope
	BodyStructure *BodyStructure
	Lines         uint32

	MD5               string
	Disposition       string
	DispositionParams map[string]string
	Language          []string
	Location          string

	Children []BodyStructure
}

// IsMultipart returns true if this body structure describes a multipart body.
func (bs *BodyStructure) IsMultipart() bool {
	return strings.EqualFold(bs.Type, "multipart")
}

// InternalDateLayout is the wire format for IMAP internal dates.
const InternalDateLayout = "02-Jan-2006 15:04:05 -0700"

// InternalDate represents the INTERNALDATE FETCH attribute.
type InternalDate time.Time

// String returns the date in IMAP wire format.
func (d InternalDate) String() string {
	return time.Time(d).Format(InternalDateLayout)
}

// CreateOptions contains options for the CREATE command.
type CreateOptions struct {
	// SpecialUse is the special-use attribute for the mailbox (RFC 6154).
	SpecialUse MailboxAttr
}
