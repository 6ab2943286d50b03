// Package exitcode defines named exit codes for the adapterctl CLI.
//
// Each code maps a specific termination condition to a numeric value
// recognized by shell scripts and CI pipelines.
package exitcode

// Exit code constants for adapterctl.
const (
	Success       = 0 // Command completed
	Error         = 1 // Invalid args or unexpected failure
	InvalidPreset = 2 // Preset failed schema or override validation
	UnknownAlgo   = 3 // Referenced algorithm has no registry entry
	FileError     = 4 // Preset or layout file unreadable or malformed
)

// Name returns the human-readable name for the given exit code.
// Unknown codes return "unknown".
func Name(code int) string {
	switch code {
	case Success:
		return "Success"
	case Error:
		return "Error"
	case InvalidPreset:
		return "InvalidPreset"
	case UnknownAlgo:
		return "UnknownAlgo"
	case FileError:
		return "FileError"
	default:
		return "unknown"
	}
}
