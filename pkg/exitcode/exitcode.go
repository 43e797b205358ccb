// Package exitcode provides standardized exit codes for uvmigrate
package exitcode

// Exit codes for the uvmigrate CLI
const (
	Success         = 0
	GeneralError    = 1
	ConfigError     = 2
	ValidationError = 3
	FileSystemError = 4
	ModuleNotFound  = 5
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
	case ModuleNotFound:
		return "Module not found"
	default:
		return "Unknown error"
	}
}
