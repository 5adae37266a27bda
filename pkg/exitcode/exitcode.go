// Package exitcode provides standardized exit codes for coursekit
package exitcode

// Exit codes for coursekit CLI
const (
	Success         = 0
	GeneralError    = 1
	ConfigError     = 2
	ValidationError = 3
	FileSystemError = 4
	// ResolutionError covers a missing content container and zero or ambiguous identifier matches.
	ResolutionError = 5
	// PermissionError covers containment refusals as well as OS permission failures.
	PermissionError = 6
)

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case ConfigError:
		return "Configuration error"
	case ValidationError:
		return "Validation error"
	case FileSystemError:
		return "File system error"
	case ResolutionError:
		return "Resolution error"
	case PermissionError:
		return "Permission error"
	default:
		return "Unknown error"
	}
}
