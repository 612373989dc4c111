// Package cli provides command-line interface functionality for the validation harness.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/van-Rees-Lab/flups-validation/internal/config"
	"github.com/van-Rees-Lab/flups-validation/internal/errors"
	"github.com/van-Rees-Lab/flups-validation/internal/output"
)

// Version is set at build time.
var Version = "dev"

// out is the shared output writer for CLI commands.
var out = output.New()

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	opts, remaining, err := parseGlobalFlags(args)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.ExitConfigError
	}

	if len(remaining) == 0 {
		printUsage()
		return 0
	}
	cmd := remaining[0]
	cmdArgs := remaining[1:]

	// help and version are matched here, after flag parsing, so they work
	// in any position: "flups-validate -q version" is still version.
	switch cmd {
	case "help", "-h", "--help":
		printUsage()
		return 0
	case "version", "--version":
		fmt.Printf("flups-validate %s\n", Version)
		return 0
	case "run":
		return cmdRun(cmdArgs, opts)
	case "matrix":
		return cmdMatrix(cmdArgs, opts)
	case "config":
		return cmdConfig(cmdArgs, opts)
	default:
		out.ErrorPrefix("unknown command %q", cmd)
		out.Hint("run 'flups-validate help' for usage")
		return errors.ExitConfigError
	}
}

// GlobalOptions holds parsed global flags.
type GlobalOptions struct {
	ConfigPath string
	Quiet      bool
	Verbose    bool
	NoColor    bool
}

// parseGlobalFlags manually parses global flags from arguments.
//
// Manual parsing is used instead of the stdlib flag package because flags
// may appear anywhere in the argument list, not just before the command.
func parseGlobalFlags(args []string) (*GlobalOptions, []string, error) {
	opts := &GlobalOptions{}
	var remaining []string

	i := 0
	for i < len(args) {
		arg := args[i]

		switch {
		case arg == "-q" || arg == "--quiet":
			opts.Quiet = true
			i++
		case arg == "-v" || arg == "--verbose":
			opts.Verbose = true
			i++
		case arg == "--no-color":
			opts.NoColor = true
			i++
		case arg == "--config" || arg == "-c":
			if i+1 >= len(args) {
				return nil, nil, fmt.Errorf("--config requires a value")
			}
			opts.ConfigPath = args[i+1]
			i += 2
		case strings.HasPrefix(arg, "--config="):
			opts.ConfigPath = strings.TrimPrefix(arg, "--config=")
			i++
		default:
			remaining = append(remaining, arg)
			i++
		}
	}

	applyVerbosityToOutput(opts)

	return opts, remaining, nil
}

// applyVerbosityToOutput configures the output writer based on verbosity settings.
func applyVerbosityToOutput(opts *GlobalOptions) {
	out.SetQuiet(opts.Quiet)
	out.SetVerbose(opts.Verbose)
	if opts.NoColor {
		out.SetColor(false)
	}
}

// wantsHelp returns true if args contain -h or --help.
func wantsHelp(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return true
		}
	}
	return false
}

// loadConfig loads the harness configuration and handles errors uniformly.
// An explicit --config path must exist; the default validation.yaml is
// optional and its absence means built-in defaults.
// Returns the config and exit code 0 on success, or nil and the
// appropriate exit code on failure.
func loadConfig(opts *GlobalOptions) (*config.Config, int) {
	path := opts.ConfigPath
	if path == "" {
		if _, err := os.Stat(config.DefaultFilename); err != nil {
			return config.Default(), 0
		}
		path = config.DefaultFilename
	}

	cfg, warnings, err := config.LoadAndValidate(path)
	for _, w := range warnings {
		out.Warning("%s: %s", path, w)
	}
	if err != nil {
		out.ErrorPrefix("%s: %v", path, err)
		return nil, errors.GetExitCode(err)
	}
	return cfg, 0
}
