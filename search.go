package imap

import (
	"time"
)

// SearchCriteria represents the criteria for a SEARCH command.
type SearchCriteria struct {
	SeqNum *SeqSet
	UID    *UIDSet

	Since      time.Time
	Before     time.Time
	SentSince  time.Time
	SentBefore time.Time
	SentOn     time.Time
	On         time.Time

	Header []SearchCriteriaHeaderField

	Body []string
	Text []string

	Larger  int64
	Smaller int64

	Flag    []Flag
	NotFlag []Flag

	Or  [][2]SearchCriteria
	Not []SearchCriteria
}

// SearchCriteriaHeaderField is a header field search criterion.
type SearchCriteriaHeaderField struct {
	Key   string
	Value string
}

// SearchData represents the result of a SEARCH command: the matching
// sequence numbers (or, if UID was set on the command, UIDs) in the order
// the server returned them.
type SearchData struct {
	Nums []uint32
	UID  bool
}
