package imap

// Command name constants for the commands package command implements.
// spec.md §4.7 lists its standard-commands set as "illustrative, not
// exhaustive"; AUTHENTICATE/SASL, extension commands (ACL, QUOTA, SORT,
// THREAD, NAMESPACE, ID, …) and the server-only UNSELECT/ENABLE/NOTIFY
// commands are out of scope per spec.md §1.
const (
	// Any-state commands
	CommandCapability = "CAPABILITY"
	CommandNoop       = "NOOP"
	CommandLogout     = "LOGOUT"

	// Not-authenticated state commands
	CommandStartTLS = "STARTTLS"
	CommandLogin    = "LOGIN"

	// Authenticated state commands
	CommandSelect      = "SELECT"
	CommandExamine     = "EXAMINE"
	CommandCreate      = "CREATE"
	CommandDelete      = "DELETE"
	CommandRename      = "RENAME"
	CommandSubscribe   = "SUBSCRIBE"
	CommandUnsubscribe = "UNSUBSCRIBE"
	CommandList        = "LIST"
	CommandLsub        = "LSUB"
	CommandStatus      = "STATUS"
	CommandAppend      = "APPEND"

	// Selected-state commands
	CommandClose   = "CLOSE"
	CommandExpunge = "EXPUNGE"
	CommandSearch  = "SEARCH"
	CommandFetch   = "FETCH"
	CommandStore   = "STORE"
	CommandCopy    = "COPY"
	CommandUID     = "UID"
)
