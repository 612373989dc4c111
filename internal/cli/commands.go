package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/van-Rees-Lab/flups-validation/internal/checker"
	"github.com/van-Rees-Lab/flups-validation/internal/config"
	"github.com/van-Rees-Lab/flups-validation/internal/errors"
	"github.com/van-Rees-Lab/flups-validation/internal/harness"
	"github.com/van-Rees-Lab/flups-validation/internal/solver"
)

var titleCase = cases.Title(language.English)

// commandWidth aligns command and flag descriptions in help output.
const commandWidth = 12

// cmdRun executes the full BC matrix against the solver binary.
func cmdRun(args []string, opts *GlobalOptions) int {
	dryRun := false
	for _, arg := range args {
		switch arg {
		case "-h", "--help":
			printRunUsage()
			return 0
		case "--dry-run", "-n":
			dryRun = true
		default:
			out.ErrorPrefix("unknown argument %q for 'run'", arg)
			out.Hint("run 'flups-validate run --help' for usage")
			return errors.ExitConfigError
		}
	}

	cfg, code := loadConfig(opts)
	if cfg == nil {
		return code
	}

	spec := cfg.MatrixSpec()
	cases := spec.Enumerate()

	sol := solver.New(cfg.Solver.Path)
	sol.Dir = cfg.Solver.WorkDir
	sol.Timeout = time.Duration(cfg.Solver.Timeout)

	chk := &checker.NormChecker{
		ResultsDir:   resolveDir(cfg.Solver.WorkDir, cfg.Results.Directory),
		ReferenceDir: resolveDir(cfg.Solver.WorkDir, cfg.Results.ReferenceDirectory),
		Tol: checker.Tolerance{
			Value: cfg.Results.Tolerance,
			Mode:  checker.ToleranceMode(cfg.Results.ToleranceMode),
		},
	}

	h := harness.New(sol, chk, cfg.Results.GreenType, out)

	if dryRun {
		h.DryRun(cases)
		return 0
	}

	if err := sol.CheckExecutable(); err != nil {
		out.ErrorPrefix("%v", err)
		out.Hint("set solver.path in %s or build the solver first", config.DefaultFilename)
		return errors.GetExitCode(err)
	}

	out.Info("running %d boundary condition configurations", len(cases))
	report, err := h.Run(context.Background(), cases)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}

	h.PrintSummary(report)
	return report.ExitCode()
}

// resolveDir resolves dir against the solver working directory, since the
// solver writes its norm files relative to where it runs.
func resolveDir(workDir, dir string) string {
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	if workDir == "" {
		return dir
	}
	return filepath.Join(workDir, dir)
}

// cmdMatrix prints the enumerated test matrix without running anything.
func cmdMatrix(args []string, opts *GlobalOptions) int {
	if wantsHelp(args) {
		printCommandUsage("matrix", "Print the enumerated BC matrix",
			"List every configuration with its run index and resolution")
		return 0
	}
	if len(args) > 0 {
		out.ErrorPrefix("unknown argument %q for 'matrix'", args[0])
		return errors.ExitConfigError
	}

	cfg, code := loadConfig(opts)
	if cfg == nil {
		return code
	}

	spec := cfg.MatrixSpec()
	cases := spec.Enumerate()

	rows := make([][]string, 0, len(cases))
	for i, c := range cases {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			c.Code(),
			c.Res.String(),
			c.ResultFilename(cfg.Results.GreenType),
		})
	}
	out.Table([]string{"index", "bc code", "resolution", "norm file"}, rows)
	out.Println("")
	out.Println("%d configurations (%d axis pairs, %d z-axis pairs)",
		len(cases), len(spec.AxisPairs()), len(spec.ZAxisPairs()))
	return 0
}

// cmdConfig prints the effective configuration after defaults are applied.
func cmdConfig(args []string, opts *GlobalOptions) int {
	if wantsHelp(args) {
		printCommandUsage("config", "Print the effective configuration",
			"Show the merged configuration with all defaults applied")
		return 0
	}
	if len(args) > 0 {
		out.ErrorPrefix("unknown argument %q for 'config'", args[0])
		return errors.ExitConfigError
	}

	cfg, code := loadConfig(opts)
	if cfg == nil {
		return code
	}

	data, err := cfg.Marshal()
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.ExitRuntimeError
	}
	out.Print("%s", data)
	return 0
}

// printUsage prints the top-level help.
func printUsage() {
	out.HelpTitle("flups-validate - combinatorial boundary condition validation for FLUPS")

	out.HelpSection("Usage")
	out.HelpUsage("flups-validate [command] [flags]")

	out.HelpSection("Commands")
	out.HelpCommand("run", "Run the full BC matrix against the solver", commandWidth)
	out.HelpCommand("matrix", "Print the enumerated BC matrix", commandWidth)
	out.HelpCommand("config", "Print the effective configuration", commandWidth)
	out.HelpCommand("version", "Print the version", commandWidth)
	out.HelpCommand("help", "Print this help", commandWidth)
	out.Println("")

	printGlobalFlags()
	out.Println("")

	out.HelpSection("Examples")
	out.HelpExample("flups-validate run", "Run all configurations from validation.yaml")
	out.HelpExample("flups-validate run --dry-run", "Print the commands without running them")
	out.HelpExample("flups-validate --config ci.yaml run", "Run with an alternate configuration")
	out.HelpExample("flups-validate matrix", "Inspect the enumeration order")
}

// printRunUsage prints help for the run command.
func printRunUsage() {
	out.HelpTitle(titleCase.String("run") + " the BC validation matrix")

	out.HelpSection("Usage")
	out.HelpUsage("flups-validate run [flags]")

	out.Println("")
	out.Println("Each configuration launches one solver process and compares the")
	out.Println("norm file it writes against the committed reference. The exit code")
	out.Println("is the number of failed configurations, capped at 255.")
	out.Println("")

	out.HelpSection("Flags")
	out.HelpFlag("-n, --dry-run", "Print solver command lines instead of running", commandWidth+4)
	out.HelpFlag("-h, --help", "Print this help", commandWidth+4)
	out.Println("")

	printGlobalFlags()
}

// printCommandUsage prints help for a simple command without flags of its own.
func printCommandUsage(cmd, summary, detail string) {
	out.HelpTitle(titleCase.String(cmd) + " - " + summary)

	out.HelpSection("Usage")
	out.HelpUsage(fmt.Sprintf("flups-validate %s", cmd))

	out.Println("")
	out.Println("%s.", detail)
	printGlobalFlags()
}

// printGlobalFlags prints the shared flag section.
func printGlobalFlags() {
	out.HelpSection("Global flags")
	out.HelpFlag("-c, --config <path>", "Configuration file (default: validation.yaml)", commandWidth+8)
	out.HelpFlag("-q, --quiet", "Suppress informational output", commandWidth+8)
	out.HelpFlag("-v, --verbose", "Show solver command lines as they run", commandWidth+8)
	out.HelpFlag("--no-color", "Disable colored output", commandWidth+8)
}
