package imap

// StoreAction specifies how a STORE command modifies flags.
type StoreAction int

const (
	// StoreFlagsSet replaces the message's flags.
	StoreFlagsSet StoreAction = iota
	// StoreFlagsAdd adds to the message's existing flags.
	StoreFlagsAdd
	// StoreFlagsDel removes from the message's existing flags.
	StoreFlagsDel
)

// String returns the IMAP item name for the action.
func (a StoreAction) String() string {
	switch a {
	case StoreFlagsAdd:
		return "+FLAGS"
	case StoreFlagsDel:
		return "-FLAGS"
	default:
		return "FLAGS"
	}
}

// StoreFlags specifies the flag changes for a STORE command.
type StoreFlags struct {
	Action StoreAction
	// Silent suppresses the server's untagged FETCH FLAGS response.
	Silent bool
	Flags  []Flag
}
