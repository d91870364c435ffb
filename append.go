package imap

import "time"

// AppendOptions specifies options for an APPEND command.
type AppendOptions struct {
	Flags        []Flag
	InternalDate time.Time
}

// AppendData represents the result of an APPEND command: the UIDVALIDITY
// and (if the server supports it) assigned UID, from an APPENDUID response
// code.
type AppendData struct {
	UIDValidity uint32
	UID         UID
}
