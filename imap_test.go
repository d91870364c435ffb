package imap

import (
	"testing"
	"time"
)

func TestClientState_String(t *testing.T) {
	tests := []struct {
		state ClientState
		want  string
	}{
		{StateDisconnected, "disconnected"},
		{StateConnecting, "connecting"},
		{StateNotAuthenticated, "not authenticated"},
		{StateAuthenticated, "authenticated"},
		{StateSelected, "selected"},
		{StateLogout, "logout"},
		{ClientState(99), "unknown(99)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.state.String(); got != tt.want {
				t.Errorf("ClientState(%d).String() = %q, want %q", int(tt.state), got, tt.want)
			}
		})
	}
}

func TestNumKind_String(t *testing.T) {
	tests := []struct {
		kind NumKind
		want string
	}{
		{NumKindSeq, "seq"},
		{NumKindUID, "uid"},
		{NumKind(42), "unknown(42)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("NumKind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
			}
		})
	}
}

func TestFlag_Values(t *testing.T) {
	tests := []struct {
		flag Flag
		want string
	}{
		{FlagSeen, "\\Seen"},
		{FlagAnswered, "\\Answered"},
		{FlagFlagged, "\\Flagged"},
		{FlagDeleted, "\\Deleted"},
		{FlagDraft, "\\Draft"},
		{FlagRecent, "\\Recent"},
		{FlagWildcard, "\\*"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if string(tt.flag) != tt.want {
				t.Errorf("Flag = %q, want %q", tt.flag, tt.want)
			}
		})
	}
}

func TestFlag_CustomFlag(t *testing.T) {
	custom := Flag("$Important")
	if string(custom) != "$Important" {
		t.Errorf("custom flag = %q, want %q", custom, "$Important")
	}
}

func TestMailboxAttr_Values(t *testing.T) {
	tests := []struct {
		attr MailboxAttr
		want string
	}{
		{MailboxAttrNoInferiors, "\\Noinferiors"},
		{MailboxAttrNoSelect, "\\Noselect"},
		{MailboxAttrMarked, "\\Marked"},
		{MailboxAttrUnmarked, "\\Unmarked"},
		{MailboxAttrHasChildren, "\\HasChildren"},
		{MailboxAttrHasNoChildren, "\\HasNoChildren"},
		{MailboxAttrAll, "\\All"},
		{MailboxAttrArchive, "\\Archive"},
		{MailboxAttrDrafts, "\\Drafts"},
		{MailboxAttrFlagged, "\\Flagged"},
		{MailboxAttrJunk, "\\Junk"},
		{MailboxAttrSent, "\\Sent"},
		{MailboxAttrTrash, "\\Trash"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if string(tt.attr) != tt.want {
				t.Errorf("MailboxAttr = %q, want %q", tt.attr, tt.want)
			}
		})
	}
}

func TestAddress_String(t *testing.T) {
	tests := []struct {
		name string
		addr Address
		want string
	}{
		{
			"full address with name",
			Address{Name: "John Doe", Mailbox: "john", Host: "example.com"},
			"John Doe <john@example.com>",
		},
		{
			"address without name",
			Address{Mailbox: "john", Host: "example.com"},
			"john@example.com",
		},
		{
			"empty mailbox and host",
			Address{Name: "No Address", Mailbox: "", Host: ""},
			"No Address <@>",
		},
		{
			"all empty",
			Address{},
			"@",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.addr.String(); got != tt.want {
				t.Errorf("Address.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBodyStructure_IsMultipart(t *testing.T) {
	tests := []struct {
		name string
		bs   BodyStructure
		want bool
	}{
		{"multipart lower", BodyStructure{Type: "multipart", Subtype: "mixed"}, true},
		{"multipart upper", BodyStructure{Type: "MULTIPART", Subtype: "mixed"}, true},
		{"text plain", BodyStructure{Type: "text", Subtype: "plain"}, false},
		{"message rfc822", BodyStructure{Type: "message", Subtype: "rfc822"}, false},
		{"empty type", BodyStructure{Type: "", Subtype: ""}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.bs.IsMultipart(); got != tt.want {
				t.Errorf("BodyStructure{Type: %q}.IsMultipart() = %v, want %v", tt.bs.Type, got, tt.want)
			}
		})
	}
}

func TestBodyStructure_EmbeddedMessage(t *testing.T) {
	bs := BodyStructure{
		Type:    "message",
		Subtype: "rfc822",
		Envelope: &Envelope{
			Subject: "Embedded subject",
		},
		BodyStructure: &BodyStructure{
			Type:    "text",
			Subtype: "plain",
		},
	}
	if bs.IsMultipart() {
		t.Error("message/rfc822 should not be multipart")
	}
	if bs.Envelope == nil || bs.Envelope.Subject != "Embedded subject" {
		t.Fatalf("Envelope = %+v", bs.Envelope)
	}
	if bs.BodyStructure == nil || bs.BodyStructure.Type != "text" {
		t.Fatalf("embedded BodyStructure = %+v", bs.BodyStructure)
	}
}

func TestInternalDate_String(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{
			"basic date",
			time.Date(2023, 10, 15, 14, 30, 0, 0, time.UTC),
			"15-Oct-2023 14:30:00 +0000",
		},
		{
			"with timezone offset",
			time.Date(2023, 6, 20, 10, 15, 30, 0, time.FixedZone("EST", -5*3600)),
			"20-Jun-2023 10:15:30 -0500",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := InternalDate(tt.t)
			if got := d.String(); got != tt.want {
				t.Errorf("InternalDate.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInternalDate_RoundTrip(t *testing.T) {
	original := "15-Oct-2023 14:30:00 +0000"
	parsed, err := time.Parse(InternalDateLayout, original)
	if err != nil {
		t.Fatalf("time.Parse(%q) error: %v", original, err)
	}
	d := InternalDate(parsed)
	if got := d.String(); got != original {
		t.Errorf("round-trip: got %q, want %q", got, original)
	}
}

func TestEnvelope_Fields(t *testing.T) {
	env := &Envelope{
		Date:      time.Date(2023, 10, 15, 14, 30, 0, 0, time.UTC),
		Subject:   "Test Subject",
		From:      []*Address{{Name: "Sender", Mailbox: "sender", Host: "example.com"}},
		To:        []*Address{{Name: "Recipient", Mailbox: "rcpt", Host: "example.com"}},
		InReplyTo: "<reply123@example.com>",
		MessageID: "<msg456@example.com>",
	}
	if env.Subject != "Test Subject" {
		t.Errorf("Subject = %q, want %q", env.Subject, "Test Subject")
	}
	if len(env.From) != 1 || env.From[0].String() != "Sender <sender@example.com>" {
		t.Errorf("From = %+v", env.From)
	}
}

func TestSectionPartial(t *testing.T) {
	sp := SectionPartial{Offset: 10, Count: 200}
	if sp.Offset != 10 || sp.Count != 200 {
		t.Errorf("SectionPartial = %+v, want {10, 200}", sp)
	}
}

func TestCreateOptions(t *testing.T) {
	opts := CreateOptions{SpecialUse: MailboxAttrDrafts}
	if opts.SpecialUse != MailboxAttrDrafts {
		t.Errorf("SpecialUse = %q, want %q", opts.SpecialUse, MailboxAttrDrafts)
	}
}
