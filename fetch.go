package imap

import (
	"io"
	"time"
)

// FetchOptions specifies what message data items a FETCH command requests.
// RFC 3516 BINARY, CONDSTORE MODSEQ, and the RFC 8474/8514/8970 extension
// attributes are out of scope (extension coverage beyond CAPABILITY
// negotiation, spec.md §1 Non-goals).
type FetchOptions struct {
	BodySection   []*FetchItemBodySection
	BodyStructure bool
	Envelope      bool
	Flags         bool
	InternalDate  bool
	RFC822Size    bool
	UID           bool
}

// FetchItemBodySection represents a BODY[section] fetch item.
type FetchItemBodySection struct {
	Specifier string
	Part      []int
	Fields    []string
	NotFields bool
	Peek      bool
	Partial   *SectionPartial
}

// SectionReader is a reader for a FETCH body section, paired with its
// declared literal size.
type SectionReader struct {
	io.Reader
	Size int64
}

// FetchAttrKind distinguishes the shapes a FETCH attribute value can take
// (spec.md §3: "one of integer, string, flag-list, nested list, or raw
// octets").
type FetchAttrKind int

const (
	FetchAttrInteger FetchAttrKind = iota
	FetchAttrString
	FetchAttrFlagList
	FetchAttrList
	FetchAttrOctets
	FetchAttrEnvelope
	FetchAttrBodyStructure
)

// FetchAttrValue is one entry of a FETCH response's attribute map.
type FetchAttrValue struct {
	Kind FetchAttrKind

	Integer       uint64
	String        string
	Flags         []Flag
	List          []FetchAttrValue
	Octets        []byte
	Envelope      *Envelope
	BodyStructure *BodyStructure
}

// FetchMessageData is the payload of one FETCH response: a sequence number
// plus an attribute-name-to-value map (spec.md §3).
type FetchMessageData struct {
	SeqNum     uint32
	Attributes map[string]FetchAttrValue
}

// UID returns the UID attribute, if present.
func (d *FetchMessageData) UID() (uint32, bool) {
	v, ok := d.Attributes["UID"]
	if !ok || v.Kind != FetchAttrInteger {
		return 0, false
	}
	return uint32(v.Integer), true
}

// FlagsAttr returns the FLAGS attribute, if present.
func (d *FetchMessageData) FlagsAttr() ([]Flag, bool) {
	v, ok := d.Attributes["FLAGS"]
	if !ok || v.Kind != FetchAttrFlagList {
		return nil, false
	}
	return v.Flags, true
}

// InternalDateAttr returns the INTERNALDATE attribute, parsed, if present.
func (d *FetchMessageData) InternalDateAttr() (time.Time, bool) {
	v, ok := d.Attributes["INTERNALDATE"]
	if !ok || v.Kind != FetchAttrString {
		return time.Time{}, false
	}
	t, err := time.Parse(InternalDateLayout, v.String)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
