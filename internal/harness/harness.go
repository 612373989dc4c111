// Package harness drives the boundary-condition matrix through the solver
// and scores every run.
package harness

import (
	"context"
	"strconv"

	"github.com/van-Rees-Lab/flups-validation/internal/checker"
	"github.com/van-Rees-Lab/flups-validation/internal/matrix"
	"github.com/van-Rees-Lab/flups-validation/internal/output"
	"github.com/van-Rees-Lab/flups-validation/internal/solver"
)

// OutcomeKind classifies one finished run.
type OutcomeKind int

const (
	// Success: the solver exited cleanly and every norm matched.
	Success OutcomeKind = iota
	// ProcessFailure: the solver exited nonzero (or was killed on timeout).
	// The result file is not consulted; it may not exist or may be stale.
	ProcessFailure
	// NumericMismatch: the solver exited cleanly but the checker counted mistakes.
	NumericMismatch
	// Inconclusive: the checker could not judge the run (missing or
	// malformed result or reference file). Counted as a failure for the
	// exit code so CI never green-lights an unjudged matrix.
	Inconclusive
)

func (k OutcomeKind) String() string {
	switch k {
	case Success:
		return "success"
	case ProcessFailure:
		return "process failure"
	case NumericMismatch:
		return "numeric mismatch"
	case Inconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}

// Outcome is the terminal state of one test case. There is no retry
// transition: a case is run once and classified once.
type Outcome struct {
	Kind     OutcomeKind
	Index    int // 1-based position in the enumeration
	Case     matrix.Case
	ExitCode int   // set for ProcessFailure
	Mistakes int   // set for NumericMismatch
	Err      error // set for Inconclusive
}

// Report accumulates outcome counts across the matrix. It is threaded
// through the run as a value; nothing mutates shared state.
type Report struct {
	Successes       int
	ProcessFailures int
	Mismatches      int
	Inconclusive    int
	Total           int
}

// Failures returns the number of runs that count against the exit code.
func (r Report) Failures() int {
	return r.ProcessFailures + r.Mismatches + r.Inconclusive
}

// ExitCode returns the process exit status for the report: the failure
// count, clamped to 255. Unix truncates exit statuses modulo 256, and a
// wrapped count must never alias success.
func (r Report) ExitCode() int {
	failures := r.Failures()
	if failures > 255 {
		return 255
	}
	return failures
}

// record folds one outcome into the report.
func (r Report) record(o Outcome) Report {
	r.Total++
	switch o.Kind {
	case ProcessFailure:
		r.ProcessFailures++
	case NumericMismatch:
		r.Mismatches++
	case Inconclusive:
		r.Inconclusive++
	default:
		r.Successes++
	}
	return r
}

// Runner abstracts the solver invocation so tests can substitute fakes.
type Runner interface {
	Run(ctx context.Context, c matrix.Case) (*solver.Result, error)
	CommandLine(c matrix.Case) string
}

// Harness executes the matrix sequentially: one solver process at a time,
// each awaited to completion before the next case starts.
type Harness struct {
	runner    Runner
	checker   checker.Checker
	greenType int
	out       *output.Writer
}

// New creates a Harness.
func New(runner Runner, chk checker.Checker, greenType int, out *output.Writer) *Harness {
	return &Harness{
		runner:    runner,
		checker:   chk,
		greenType: greenType,
		out:       out,
	}
}

// Run executes every case in order and returns the aggregated report.
// Failing cases never abort the run; the whole matrix always completes.
// The returned error is reserved for the harness itself being unable to
// continue (solver binary unlaunchable, context canceled).
func (h *Harness) Run(ctx context.Context, cases []matrix.Case) (Report, error) {
	var report Report
	for i, c := range cases {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		h.out.Detail("%s", h.runner.CommandLine(c))
		outcome, res, err := h.runCase(ctx, i+1, c)
		if err != nil {
			return report, err
		}

		h.logOutcome(outcome, res)
		report = report.record(outcome)
	}
	return report, nil
}

// runCase drives one case through the state machine:
// Pending -> Invoked -> {ProcessFailure | Checking -> {Success | NumericMismatch | Inconclusive}}.
func (h *Harness) runCase(ctx context.Context, index int, c matrix.Case) (Outcome, *solver.Result, error) {
	res, err := h.runner.Run(ctx, c)
	if err != nil {
		return Outcome{}, nil, err
	}

	outcome := Outcome{Index: index, Case: c}

	if res.ExitCode != 0 {
		outcome.Kind = ProcessFailure
		outcome.ExitCode = res.ExitCode
		return outcome, res, nil
	}

	mistakes, err := h.checker.Check(index, c.ResultFilename(h.greenType))
	if err != nil {
		outcome.Kind = Inconclusive
		outcome.Err = err
		return outcome, res, nil
	}

	if mistakes > 0 {
		outcome.Kind = NumericMismatch
		outcome.Mistakes = mistakes
		return outcome, res, nil
	}

	outcome.Kind = Success
	return outcome, res, nil
}

func (h *Harness) logOutcome(o Outcome, res *solver.Result) {
	code := o.Case.Code()
	switch o.Kind {
	case ProcessFailure:
		h.out.CaseProcessFailure(o.Index, code, o.ExitCode, res.Stdout, res.Stderr)
	case NumericMismatch:
		h.out.CaseMismatch(o.Index, code)
	case Inconclusive:
		h.out.CaseInconclusive(o.Index, code, o.Err)
	default:
		h.out.CaseSuccess(o.Index, code)
	}
}

// PrintSummary prints the historical one-line summary followed by the
// structured summary block.
func (h *Harness) PrintSummary(r Report) {
	h.out.Println("%d test succeeded out of %d", r.Successes, r.Total)

	h.out.SummaryHeader("Validation Summary")
	h.out.SummaryPassed("Passed", strconv.Itoa(r.Successes))
	if r.ProcessFailures > 0 {
		h.out.SummaryFailed("Solver failures", strconv.Itoa(r.ProcessFailures))
	}
	if r.Mismatches > 0 {
		h.out.SummaryFailed("Wrong values", strconv.Itoa(r.Mismatches))
	}
	if r.Inconclusive > 0 {
		h.out.SummaryFailed("Inconclusive", strconv.Itoa(r.Inconclusive))
	}
	h.out.SummaryItem("Total", strconv.Itoa(r.Total))

	if r.Failures() == 0 {
		h.out.FinalSuccess("All %d configurations passed.", r.Total)
	} else {
		h.out.FinalFailure("%d of %d configurations failed.", r.Failures(), r.Total)
	}
}

// DryRun prints the exact command line per case without executing anything.
func (h *Harness) DryRun(cases []matrix.Case) {
	h.out.DryRunStart()
	for i, c := range cases {
		h.out.Println("%4d %s  %s", i+1, c.Code(), h.runner.CommandLine(c))
	}
	h.out.DryRunEnd()
}
