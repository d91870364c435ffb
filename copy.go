package imap

// CopyData is the COPYUID response code's payload (RFC 4315 §3): the
// destination mailbox's UIDVALIDITY plus the two parallel UID sets
// mapping each copied/moved message's source UID to where it landed.
type CopyData struct {
	UIDValidity uint32
	SourceUIDs  UIDSet
	DestUIDs    UIDSet
}
