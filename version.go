// Package beliefeval provides the version information for belief-eval.
package beliefeval

// Version is the current version of belief-eval.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
