package imap

import (
	"fmt"
	"strings"
)

// StatusResponseType is the status word of an OK/NO/BAD/PREAUTH/BYE response.
type StatusResponseType string

const (
	StatusResponseTypeOK      StatusResponseType = "OK"
	StatusResponseTypeNO      StatusResponseType = "NO"
	StatusResponseTypeBAD     StatusResponseType = "BAD"
	StatusResponseTypeBYE     StatusResponseType = "BYE"
	StatusResponseTypePREAUTH StatusResponseType = "PREAUTH"
)

// IsOK reports whether the status type carries a true/success result
// (spec.md §3: status is true iff kind ∈ {OK, PREAUTH}).
func (t StatusResponseType) IsOK() bool {
	return t == StatusResponseTypeOK || t == StatusResponseTypePREAUTH
}

// ResponseCode names a response code, the fixed set defined by spec.md §3.
// Codes outside this set are preserved as UnknownCode rather than rejected.
type ResponseCode string

const (
	ResponseCodeAlert          ResponseCode = "ALERT"
	ResponseCodeBadCharset     ResponseCode = "BADCHARSET"
	ResponseCodeCapability     ResponseCode = "CAPABILITY"
	ResponseCodeParse          ResponseCode = "PARSE"
	ResponseCodePermanentFlags ResponseCode = "PERMANENTFLAGS"
	ResponseCodeReadOnly       ResponseCode = "READ-ONLY"
	ResponseCodeReadWrite      ResponseCode = "READ-WRITE"
	ResponseCodeTryCreate      ResponseCode = "TRYCREATE"
	ResponseCodeUIDNext        ResponseCode = "UIDNEXT"
	ResponseCodeUIDValidity    ResponseCode = "UIDVALIDITY"
	ResponseCodeUnseen         ResponseCode = "UNSEEN"
)

// knownResponseCodes is the fixed set from spec.md §3; anything else is an
// UnknownCode, preserved opaquely rather than dropped.
var knownResponseCodes = map[string]bool{
	string(ResponseCodeAlert):          true,
	string(ResponseCodeBadCharset):     true,
	string(ResponseCodeCapability):     true,
	string(ResponseCodeParse):          true,
	string(ResponseCodePermanentFlags): true,
	string(ResponseCodeReadOnly):       true,
	string(ResponseCodeReadWrite):      true,
	string(ResponseCodeTryCreate):      true,
	string(ResponseCodeUIDNext):        true,
	string(ResponseCodeUIDValidity):    true,
	string(ResponseCodeUnseen):         true,
}

// IsKnownResponseCode reports whether name is one of the fixed codes.
func IsKnownResponseCode(name string) bool {
	return knownResponseCodes[strings.ToUpper(name)]
}

// UnknownCode preserves a response code the fixed set doesn't name, along
// with its raw, unparsed arguments (spec.md §8: "Unknown status code
// preserved as opaque").
type UnknownCode struct {
	Name    string
	RawArgs string
}

// Code carries the parsed response code of an OK/NO/BAD/PREAUTH/BYE
// response, plus whatever parameters that code takes (spec.md §3).
type Code struct {
	Name ResponseCode
	// Flags holds the parameter list for BADCHARSET, CAPABILITY and
	// PERMANENTFLAGS.
	Flags []string
	// Number holds the parameter for UIDNEXT, UIDVALIDITY and UNSEEN.
	Number uint32
	// Unknown is set instead of Name when the code isn't in the fixed set.
	Unknown *UnknownCode
}

// String renders the code the way it appeared in brackets on the wire.
func (c *Code) String() string {
	if c == nil {
		return ""
	}
	if c.Unknown != nil {
		if c.Unknown.RawArgs == "" {
			return c.Unknown.Name
		}
		return c.Unknown.Name + " " + c.Unknown.RawArgs
	}
	switch c.Name {
	case ResponseCodeBadCharset, ResponseCodeCapability, ResponseCodePermanentFlags:
		if len(c.Flags) == 0 {
			return string(c.Name)
		}
		return string(c.Name) + " (" + strings.Join(c.Flags, " ") + ")"
	case ResponseCodeUIDNext, ResponseCodeUIDValidity, ResponseCodeUnseen:
		return fmt.Sprintf("%s %d", c.Name, c.Number)
	default:
		return string(c.Name)
	}
}

// StatusResponse is the payload of an OK/NO/BAD/PREAUTH/BYE response
// (spec.md §3).
type StatusResponse struct {
	Type    StatusResponseType
	Code    *Code
	Message string
}

// Error renders the status response as an error string.
func (r *StatusResponse) Error() string {
	var b strings.Builder
	b.WriteString(string(r.Type))
	if r.Code != nil {
		b.WriteString(" [")
		b.WriteString(r.Code.String())
		b.WriteString("]")
	}
	if r.Message != "" {
		b.WriteString(" ")
		b.WriteString(r.Message)
	}
	return b.String()
}

// IMAPError wraps a NO/BAD/BYE status response returned by the server as a
// Go error (spec.md §7, CommandError kinds ServerNo/ServerBad).
type IMAPError struct {
	*StatusResponse
}

// Error implements the error interface.
func (e *IMAPError) Error() string {
	return e.StatusResponse.Error()
}

// ErrNo creates a NO error with the given text.
func ErrNo(text string) *IMAPError {
	return &IMAPError{&StatusResponse{Type: StatusResponseTypeNO, Message: text}}
}

// ErrNoWithCode creates a NO error carrying a response code.
func ErrNoWithCode(code *Code, text string) *IMAPError {
	return &IMAPError{&StatusResponse{Type: StatusResponseTypeNO, Code: code, Message: text}}
}

// ErrBad creates a BAD error with the given text.
func ErrBad(text string) *IMAPError {
	return &IMAPError{&StatusResponse{Type: StatusResponseTypeBAD, Message: text}}
}

// ErrBye creates a BYE response, used when the server closes the session
// unilaterally.
func ErrBye(text string) *IMAPError {
	return &IMAPError{&StatusResponse{Type: StatusResponseTypeBYE, Message: text}}
}
