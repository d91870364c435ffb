package imap

import (
	"testing"
)

func TestStatusResponse_Error(t *testing.T) {
	tests := []struct {
		name string
		resp StatusResponse
		want string
	}{
		{
			"OK only",
			StatusResponse{Type: StatusResponseTypeOK},
			"OK",
		},
		{
			"OK with text",
			StatusResponse{Type: StatusResponseTypeOK, Message: "Login completed"},
			"OK Login completed",
		},
		{
			"NO with text",
			StatusResponse{Type: StatusResponseTypeNO, Message: "Mailbox not found"},
			"NO Mailbox not found",
		},
		{
			"BAD with text",
			StatusResponse{Type: StatusResponseTypeBAD, Message: "Command unknown"},
			"BAD Command unknown",
		},
		{
			"BYE with text",
			StatusResponse{Type: StatusResponseTypeBYE, Message: "Server shutting down"},
			"BYE Server shutting down",
		},
		{
			"PREAUTH with text",
			StatusResponse{Type: StatusResponseTypePREAUTH, Message: "Logged in as admin"},
			"PREAUTH Logged in as admin",
		},
		{
			"OK with code",
			StatusResponse{
				Type:    StatusResponseTypeOK,
				Code:    &Code{Name: ResponseCodeCapability, Flags: []string{"IMAP4rev1", "LITERAL+"}},
				Message: "done",
			},
			"OK [CAPABILITY (IMAP4rev1 LITERAL+)] done",
		},
		{
			"OK with numeric code",
			StatusResponse{
				Type:    StatusResponseTypeOK,
				Code:    &Code{Name: ResponseCodeUIDNext, Number: 42},
				Message: "predicted",
			},
			"OK [UIDNEXT 42] predicted",
		},
		{
			"NO with code",
			StatusResponse{
				Type:    StatusResponseTypeNO,
				Code:    &Code{Name: ResponseCodeTryCreate},
				Message: "Mailbox does not exist",
			},
			"NO [TRYCREATE] Mailbox does not exist",
		},
		{
			"code no text",
			StatusResponse{
				Type: StatusResponseTypeOK,
				Code: &Code{Name: ResponseCodeReadOnly},
			},
			"OK [READ-ONLY]",
		},
		{
			"unknown code preserved opaque",
			StatusResponse{
				Type: StatusResponseTypeOK,
				Code: &Code{Unknown: &UnknownCode{Name: "MAILBOXID", RawArgs: "(abc123)"}},
			},
			"OK [MAILBOXID (abc123)]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.resp.Error(); got != tt.want {
				t.Errorf("StatusResponse.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIMAPError_Error(t *testing.T) {
	err := &IMAPError{&StatusResponse{
		Type:    StatusResponseTypeNO,
		Message: "something went wrong",
	}}
	want := "NO something went wrong"
	if got := err.Error(); got != want {
		t.Errorf("IMAPError.Error() = %q, want %q", got, want)
	}
}

func TestIMAPError_ImplementsError(t *testing.T) {
	var _ error = &IMAPError{}
}

func TestErrNo(t *testing.T) {
	err := ErrNo("mailbox not found")
	want := "NO mailbox not found"
	if got := err.Error(); got != want {
		t.Errorf("ErrNo.Error() = %q, want %q", got, want)
	}
	if err.Type != StatusResponseTypeNO {
		t.Errorf("Type = %q, want %q", err.Type, StatusResponseTypeNO)
	}
	if err.Code != nil {
		t.Errorf("Code = %v, want nil", err.Code)
	}
}

func TestErrNoWithCode(t *testing.T) {
	err := ErrNoWithCode(&Code{Name: ResponseCodeTryCreate}, "mailbox does not exist")

	want := "NO [TRYCREATE] mailbox does not exist"
	if got := err.Error(); got != want {
		t.Errorf("ErrNoWithCode.Error() = %q, want %q", got, want)
	}
	if err.Type != StatusResponseTypeNO {
		t.Errorf("Type = %q, want %q", err.Type, StatusResponseTypeNO)
	}
	if err.Code == nil || err.Code.Name != ResponseCodeTryCreate {
		t.Errorf("Code = %v, want TRYCREATE", err.Code)
	}
}

func TestErrBad(t *testing.T) {
	err := ErrBad("syntax error")
	want := "BAD syntax error"
	if got := err.Error(); got != want {
		t.Errorf("ErrBad.Error() = %q, want %q", got, want)
	}
	if err.Type != StatusResponseTypeBAD {
		t.Errorf("Type = %q, want %q", err.Type, StatusResponseTypeBAD)
	}
}

func TestErrBye(t *testing.T) {
	err := ErrBye("server shutting down")
	want := "BYE server shutting down"
	if got := err.Error(); got != want {
		t.Errorf("ErrBye.Error() = %q, want %q", got, want)
	}
	if err.Type != StatusResponseTypeBYE {
		t.Errorf("Type = %q, want %q", err.Type, StatusResponseTypeBYE)
	}
}

func TestErrNo_EmptyText(t *testing.T) {
	if got := ErrNo("").Error(); got != "NO" {
		t.Errorf("ErrNo(\"\").Error() = %q, want %q", got, "NO")
	}
}

func TestErrBad_EmptyText(t *testing.T) {
	if got := ErrBad("").Error(); got != "BAD" {
		t.Errorf("ErrBad(\"\").Error() = %q, want %q", got, "BAD")
	}
}

func TestErrBye_EmptyText(t *testing.T) {
	if got := ErrBye("").Error(); got != "BYE" {
		t.Errorf("ErrBye(\"\").Error() = %q, want %q", got, "BYE")
	}
}

func TestIMAPError_TypeAssertion(t *testing.T) {
	var err error = ErrNo("test")
	imapErr, ok := err.(*IMAPError)
	if !ok {
		t.Fatal("should be able to type-assert to *IMAPError")
	}
	if imapErr.Type != StatusResponseTypeNO {
		t.Errorf("Type = %q, want NO", imapErr.Type)
	}
}

func TestStatusResponseType_Values(t *testing.T) {
	tests := []struct {
		srt  StatusResponseType
		want string
	}{
		{StatusResponseTypeOK, "OK"},
		{StatusResponseTypeNO, "NO"},
		{StatusResponseTypeBAD, "BAD"},
		{StatusResponseTypeBYE, "BYE"},
		{StatusResponseTypePREAUTH, "PREAUTH"},
	}
	for _, tt := range tests {
		if string(tt.srt) != tt.want {
			t.Errorf("StatusResponseType = %q, want %q", tt.srt, tt.want)
		}
	}
}

func TestStatusResponseType_IsOK(t *testing.T) {
	tests := []struct {
		srt  StatusResponseType
		want bool
	}{
		{StatusResponseTypeOK, true},
		{StatusResponseTypePREAUTH, true},
		{StatusResponseTypeNO, false},
		{StatusResponseTypeBAD, false},
		{StatusResponseTypeBYE, false},
	}
	for _, tt := range tests {
		if got := tt.srt.IsOK(); got != tt.want {
			t.Errorf("%s.IsOK() = %v, want %v", tt.srt, got, tt.want)
		}
	}
}

func TestResponseCode_Values(t *testing.T) {
	tests := []struct {
		code ResponseCode
		want string
	}{
		{ResponseCodeAlert, "ALERT"},
		{ResponseCodeCapability, "CAPABILITY"},
		{ResponseCodeReadOnly, "READ-ONLY"},
		{ResponseCodeReadWrite, "READ-WRITE"},
		{ResponseCodeUIDNext, "UIDNEXT"},
		{ResponseCodeUIDValidity, "UIDVALIDITY"},
		{ResponseCodeUnseen, "UNSEEN"},
	}
	for _, tt := range tests {
		if string(tt.code) != tt.want {
			t.Errorf("ResponseCode = %q, want %q", tt.code, tt.want)
		}
	}
}

func TestIsKnownResponseCode(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"ALERT", true},
		{"alert", true},
		{"UIDNEXT", true},
		{"MAILBOXID", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsKnownResponseCode(tt.name); got != tt.want {
			t.Errorf("IsKnownResponseCode(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCode_String_Unknown(t *testing.T) {
	c := &Code{Unknown: &UnknownCode{Name: "APPENDUID"}}
	if got := c.String(); got != "APPENDUID" {
		t.Errorf("Code.String() = %q, want %q", got, "APPENDUID")
	}
}

func TestCode_String_Nil(t *testing.T) {
	var c *Code
	if got := c.String(); got != "" {
		t.Errorf("nil Code.String() = %q, want empty", got)
	}
}
