package state

import (
	imap "github.com/kestrelmail/imap-go"
)

// DefaultTransitions returns the state transition table from spec.md §4.6.
// Disconnected→Connecting is taken by client.New when the byte stream
// opens; the unconditional *→Disconnected on close goes through
// Machine.Close, not this table; everything else happens as a command's declared
// state_after(current) or the greeting classification.
func DefaultTransitions() map[imap.ClientState][]imap.ClientState {
	return map[imap.ClientState][]imap.ClientState{
		imap.StateDisconnected: {
			imap.StateConnecting,
		},
		imap.StateConnecting: {
			imap.StateNotAuthenticated, // greeting OK
			imap.StateAuthenticated,    // greeting PREAUTH
			imap.StateLogout,           // greeting BYE
		},
		imap.StateNotAuthenticated: {
			imap.StateAuthenticated,
			imap.StateLogout,
		},
		imap.StateAuthenticated: {
			imap.StateSelected,
			imap.StateLogout,
		},
		imap.StateSelected: {
			imap.StateAuthenticated, // CLOSE
			imap.StateSelected,      // re-select another mailbox
			imap.StateLogout,
		},
	}
}
