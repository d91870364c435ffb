package wire

import (
	"strconv"
)

// ConnectionDataKind distinguishes the two members of the ConnectionData
// tagged union (spec.md §3: "either NonLiteral(bytes) or Literal(bytes,
// sync)").
type ConnectionDataKind int

const (
	// KindNonLiteral is plain command text: tag, atoms, quoted strings,
	// spaces, CRLF.
	KindNonLiteral ConnectionDataKind = iota
	// KindLiteral is a literal's raw octets, tagged with whether the
	// preceding {n} announcement requires a server `+` continuation.
	KindLiteral
)

// LiteralSync distinguishes a synchronizing literal ({n}, awaits `+`) from
// a non-synchronizing one ({n+}, RFC 2088 LITERAL+, sent immediately).
type LiteralSync int

const (
	SyncLiteral LiteralSync = iota
	NonSyncLiteral
)

// ConnectionData is one entry of a command's render list (spec.md §3). A
// command's render() returns a []ConnectionData beginning with its tag and
// ending with CRLF; Literal entries are barriers the Connection suspends at
// when Sync is SyncLiteral.
type ConnectionData struct {
	Kind  ConnectionDataKind
	Bytes []byte
	Sync  LiteralSync
}

// NonLiteral wraps raw bytes as a non-literal entry.
func NonLiteral(b []byte) ConnectionData {
	return ConnectionData{Kind: KindNonLiteral, Bytes: b}
}

// Literal wraps a literal's octets, tagged with its synchronization mode.
func Literal(b []byte, sync LiteralSync) ConnectionData {
	return ConnectionData{Kind: KindLiteral, Bytes: b, Sync: sync}
}

// Raw is an alias for NonLiteral matching the "raw bytes" helper named in
// spec.md §3.
func Raw(b []byte) ConnectionData { return NonLiteral(b) }

// Str wraps a plain ASCII atom (no quoting).
func Str(s string) ConnectionData { return NonLiteral([]byte(s)) }

// QuotedString wraps s as a quoted IMAP string, escaping '"' and '\' per
// spec.md §3.
func QuotedString(s string) ConnectionData {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	out = append(out, '"')
	return NonLiteral(out)
}

// EncodedLiteral wraps data, already encoded by the caller, as a literal. The
// literal header ({n} or {n+}) is emitted by the connection, not here;
// EncodedLiteral carries only the payload and its sync mode.
func EncodedLiteral(data []byte, sync LiteralSync) ConnectionData {
	return Literal(data, sync)
}

// Int wraps n as a decimal, non-literal atom.
func Int(n int64) ConnectionData {
	return NonLiteral([]byte(strconv.FormatInt(n, 10)))
}

// Uint wraps n as a decimal, non-literal atom.
func Uint(n uint64) ConnectionData {
	return NonLiteral([]byte(strconv.FormatUint(n, 10)))
}

// SP wraps a single space.
func SP() ConnectionData { return NonLiteral([]byte{' '}) }

// CRLFData wraps a trailing CRLF.
func CRLFData() ConnectionData { return NonLiteral([]byte{'\r', '\n'}) }

// Compress concatenates runs of consecutive NonLiteral entries into a
// single NonLiteral each, preserving order and treating Literal entries as
// barriers (spec.md §3 Compaction invariant). Compress is idempotent:
// calling it again on its own output returns an equal slice.
func Compress(list []ConnectionData) []ConnectionData {
	if len(list) == 0 {
		return list
	}
	out := make([]ConnectionData, 0, len(list))
	var run []byte
	flush := func() {
		if run != nil {
			out = append(out, NonLiteral(run))
			run = nil
		}
	}
	for _, item := range list {
		if item.Kind == KindNonLiteral {
			run = append(run, item.Bytes...)
			continue
		}
		flush()
		out = append(out, item)
	}
	flush()
	return out
}

// TotalLen returns the sum of all entries' byte lengths.
func TotalLen(list []ConnectionData) int64 {
	var n int64
	for _, item := range list {
		n += int64(len(item.Bytes))
	}
	return n
}
