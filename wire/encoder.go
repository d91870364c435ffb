package wire

import (
	"bufio"
	"io"
)

// Encoder buffers outgoing bytes for a Connection's write loop. The
// connection already holds each command's rendered form as a slice of
// ConnectionData (literal-aware, built by command.Render), so this type
// does not need the fluent token-by-token builder a response encoder
// would: it only ever moves already-framed bytes onto the wire.
type Encoder struct {
	w *bufio.Writer
}

// NewEncoder creates an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	bw, ok := w.(*bufio.Writer)
	if !ok {
		bw = bufio.NewWriterSize(w, 4096)
	}
	return &Encoder{w: bw}
}

// Raw writes data verbatim: a non-literal ConnectionData payload, or the
// body of a literal once its header has gone out via RawString.
func (e *Encoder) Raw(data []byte) *Encoder {
	_, _ = e.w.Write(data)
	return e
}

// RawString writes s verbatim. Connection uses this for literal headers
// ("{n}\r\n" / "{n+}\r\n"), which it assembles itself from each literal
// entry's Sync mode.
func (e *Encoder) RawString(s string) *Encoder {
	_, _ = e.w.WriteString(s)
	return e
}

// Flush pushes buffered bytes to the underlying writer.
func (e *Encoder) Flush() error {
	return e.w.Flush()
}
