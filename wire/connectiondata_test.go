package wire

import (
	"reflect"
	"testing"
)

func TestQuotedString_Escaping(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hello", `"hello"`},
		{`say "hi"`, `"say \"hi\""`},
		{`back\slash`, `"back\\slash"`},
		{"", `""`},
	}
	for _, tt := range tests {
		got := string(QuotedString(tt.in).Bytes)
		if got != tt.want {
			t.Errorf("QuotedString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCompress_MergesRuns(t *testing.T) {
	list := []ConnectionData{
		Str("A00001"), SP(), Str("LOGIN"), SP(), QuotedString("alice"),
	}
	got := Compress(list)
	if len(got) != 1 {
		t.Fatalf("Compress() returned %d entries, want 1", len(got))
	}
	want := `A00001 LOGIN "alice"`
	if string(got[0].Bytes) != want {
		t.Errorf("Compress() = %q, want %q", got[0].Bytes, want)
	}
}

func TestCompress_PreservesLiteralBarriers(t *testing.T) {
	list := []ConnectionData{
		Str("A00002"), SP(), Str("APPEND INBOX {5}"), CRLFData(),
		Literal([]byte("hello"), SyncLiteral),
		CRLFData(),
	}
	got := Compress(list)
	if len(got) != 3 {
		t.Fatalf("Compress() returned %d entries, want 3 (head, literal, tail)", len(got))
	}
	if got[1].Kind != KindLiteral || string(got[1].Bytes) != "hello" {
		t.Errorf("middle entry = %+v, want literal \"hello\"", got[1])
	}
	if got[1].Sync != SyncLiteral {
		t.Errorf("Sync = %v, want SyncLiteral", got[1].Sync)
	}
}

func TestCompress_Idempotent(t *testing.T) {
	list := []ConnectionData{
		Str("A1"), SP(), Str("NOOP"), CRLFData(),
	}
	once := Compress(list)
	twice := Compress(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Compress() not idempotent: once=%+v twice=%+v", once, twice)
	}
}

func TestCompress_Empty(t *testing.T) {
	got := Compress(nil)
	if len(got) != 0 {
		t.Errorf("Compress(nil) = %v, want empty", got)
	}
}

func TestTotalLen(t *testing.T) {
	list := []ConnectionData{
		Str("AB"), Literal([]byte("xyz"), NonSyncLiteral),
	}
	if got := TotalLen(list); got != 5 {
		t.Errorf("TotalLen() = %d, want 5", got)
	}
}

func TestInt_Uint(t *testing.T) {
	if got := string(Int(-7).Bytes); got != "-7" {
		t.Errorf("Int(-7) = %q", got)
	}
	if got := string(Uint(42).Bytes); got != "42" {
		t.Errorf("Uint(42) = %q", got)
	}
}
