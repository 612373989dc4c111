// Package validation provides public constants for external tools and CI
// pipelines integrating with flups-validate.
package validation

// Exit codes returned by the flups-validate CLI.
//
// A completed matrix run exits with the number of failed configurations,
// capped at MaxFailureExitCode (shells truncate exit statuses to one
// byte, so larger counts would alias). Zero always means every
// configuration passed. The named error codes below are only returned
// when the harness never ran the matrix at all, so a small failure
// count and an error code can collide; CI that needs to distinguish
// them should check the summary output.
const (
	// ExitSuccess indicates every configuration passed.
	ExitSuccess = 0

	// ExitRuntimeError indicates a runtime failure before or outside
	// the matrix (solver aborted the whole run, etc.).
	ExitRuntimeError = 1

	// ExitConfigError indicates a configuration error (invalid
	// validation.yaml, unknown command, etc.).
	ExitConfigError = 2

	// ExitEnvError indicates an environment error (solver binary
	// missing or not executable, etc.).
	ExitEnvError = 3

	// MaxFailureExitCode is the cap applied to the failure count.
	MaxFailureExitCode = 255
)
