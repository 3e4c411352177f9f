package exitcodes

// Exit codes for cleansweep
// These codes form the operational contract with scripts and operators
const (
	Success          = 0 // Successful execution, also used when the operator declines
	InvalidConfig    = 2 // Configuration file invalid or flags unparsable
	ValidationFailed = 3 // Base directory or verbosity failed the internal checks
	RuntimeError     = 4 // Runtime error during execution
)
