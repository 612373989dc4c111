// Package integration contains integration tests that drive the harness
// end to end against a fake solver script.
package integration

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/van-Rees-Lab/flups-validation/internal/checker"
	"github.com/van-Rees-Lab/flups-validation/internal/config"
	"github.com/van-Rees-Lab/flups-validation/internal/harness"
	"github.com/van-Rees-Lab/flups-validation/internal/matrix"
	"github.com/van-Rees-Lab/flups-validation/internal/output"
	"github.com/van-Rees-Lab/flups-validation/internal/solver"
)

// smallMatrixYAML shrinks the matrix to 8 cases: one base token plus one
// shared pair gives two pairs per axis.
const smallMatrixYAML = `
solver:
  path: ./fake_solver.sh
matrix:
  base_tokens: ["0"]
  shared_pairs: [["1", "1"]]
  z_only_pairs: []
`

// fakeSolverScript mimics the real solver's observable behavior: it
// appends one norm line per invocation to the per-code result file.
// Codes listed in FAIL_CODES exit nonzero without writing anything.
const fakeSolverScript = `#!/bin/sh
rx=$2; ry=$3; rz=$4
shift 5
code="$1$2$3$4$5$6"
case " $FAIL_CODES " in
  *" $code "*)
    echo "solver blew up on $code"
    echo "diagnostic detail" >&2
    exit 42
    ;;
esac
mkdir -p data
echo "$rx 1.5e-03 2.5e-03" >> "data/validation_3d_${code}_typeGreen=0.txt"
`

// workspace builds a temp directory with the fake solver, a parsed small
// matrix, and matching reference files for every case.
func workspace(t *testing.T) (string, *config.Config, []matrix.Case) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake solver is a POSIX shell script")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "fake_solver.sh")
	if err := os.WriteFile(script, []byte(fakeSolverScript), 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, warnings, err := config.ParseAndValidate([]byte(smallMatrixYAML))
	if err != nil {
		t.Fatalf("parsing config: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	cfg.Solver.WorkDir = dir

	cases := cfg.MatrixSpec().Enumerate()
	if len(cases) != 8 {
		t.Fatalf("expected 8 cases, got %d", len(cases))
	}

	refDir := filepath.Join(dir, "reference")
	if err := os.MkdirAll(refDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, c := range cases {
		name := c.ResultFilename(cfg.Results.GreenType)
		line := fmt.Sprintf("%d 1.5e-03 2.5e-03\n", c.Res[0])
		if err := os.WriteFile(filepath.Join(refDir, name), []byte(line), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	return dir, cfg, cases
}

// newHarness wires the solver, checker and harness the way the CLI does.
func newHarness(cfg *config.Config, out *output.Writer) *harness.Harness {
	sol := solver.New(cfg.Solver.Path)
	sol.Dir = cfg.Solver.WorkDir
	chk := &checker.NormChecker{
		ResultsDir:   filepath.Join(cfg.Solver.WorkDir, cfg.Results.Directory),
		ReferenceDir: filepath.Join(cfg.Solver.WorkDir, cfg.Results.ReferenceDirectory),
		Tol: checker.Tolerance{
			Value: cfg.Results.Tolerance,
			Mode:  checker.ToleranceMode(cfg.Results.ToleranceMode),
		},
	}
	return harness.New(sol, chk, cfg.Results.GreenType, out)
}

func TestFullMatrixPasses(t *testing.T) {
	_, cfg, cases := workspace(t)

	var buf bytes.Buffer
	out := output.NewWithWriters(&buf, &buf, false)
	h := newHarness(cfg, out)

	report, err := h.Run(context.Background(), cases)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if report.Successes != 8 || report.Failures() != 0 {
		t.Errorf("expected 8 successes, got %+v", report)
	}
	if code := report.ExitCode(); code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}

	h.PrintSummary(report)
	got := buf.String()
	if !strings.Contains(got, "test 1 (BCs : 000000) succeeded") {
		t.Errorf("expected first success line, got:\n%s", got)
	}
	if !strings.Contains(got, "test 8 (BCs : 111111) succeeded") {
		t.Errorf("expected last success line, got:\n%s", got)
	}
	if !strings.Contains(got, "8 test succeeded out of 8") {
		t.Errorf("expected summary line, got:\n%s", got)
	}
}

func TestSolverFailureIsReported(t *testing.T) {
	_, cfg, cases := workspace(t)
	t.Setenv("FAIL_CODES", "001100")

	var buf bytes.Buffer
	out := output.NewWithWriters(&buf, &buf, false)
	h := newHarness(cfg, out)

	report, err := h.Run(context.Background(), cases)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if report.Successes != 7 || report.ProcessFailures != 1 {
		t.Errorf("expected 7 successes and 1 process failure, got %+v", report)
	}
	if code := report.ExitCode(); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}

	got := buf.String()
	if !strings.Contains(got, "(BCs : 001100) failed with error code 42") {
		t.Errorf("expected failure line with exit code, got:\n%s", got)
	}
	if !strings.Contains(got, "solver blew up on 001100") {
		t.Errorf("expected echoed solver stdout, got:\n%s", got)
	}
	if !strings.Contains(got, "diagnostic detail") {
		t.Errorf("expected echoed solver stderr, got:\n%s", got)
	}
}

func TestNumericMismatchIsReported(t *testing.T) {
	dir, cfg, cases := workspace(t)

	// Corrupt one reference so the produced norms fall out of tolerance.
	bad := filepath.Join(dir, "reference", "validation_3d_110000_typeGreen=0.txt")
	if err := os.WriteFile(bad, []byte("8 9.9e-01 2.5e-03\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	out := output.NewWithWriters(&buf, &buf, false)
	h := newHarness(cfg, out)

	report, err := h.Run(context.Background(), cases)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if report.Successes != 7 || report.Mismatches != 1 {
		t.Errorf("expected 7 successes and 1 mismatch, got %+v", report)
	}

	got := buf.String()
	if !strings.Contains(got, "(BCs : 110000) failed with wrong values.") {
		t.Errorf("expected wrong-values line, got:\n%s", got)
	}
}

func TestMissingReferenceIsInconclusive(t *testing.T) {
	dir, cfg, cases := workspace(t)

	missing := filepath.Join(dir, "reference", "validation_3d_000011_typeGreen=0.txt")
	if err := os.Remove(missing); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	out := output.NewWithWriters(&buf, &buf, false)
	h := newHarness(cfg, out)

	report, err := h.Run(context.Background(), cases)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if report.Successes != 7 || report.Inconclusive != 1 {
		t.Errorf("expected 7 successes and 1 inconclusive, got %+v", report)
	}
	if code := report.ExitCode(); code != 1 {
		t.Errorf("inconclusive must count as a failure, got exit code %d", code)
	}
}

func TestRerunAppendsWithoutFailing(t *testing.T) {
	_, cfg, cases := workspace(t)

	var buf bytes.Buffer
	out := output.NewWithWriters(&buf, &buf, false)
	h := newHarness(cfg, out)

	// The solver appends to its norm files, so a second run over the
	// same workspace must still pass: only the reference resolutions
	// are judged.
	for i := 0; i < 2; i++ {
		report, err := h.Run(context.Background(), cases)
		if err != nil {
			t.Fatalf("run %d failed: %v", i+1, err)
		}
		if report.Failures() != 0 {
			t.Errorf("run %d: expected no failures, got %+v", i+1, report)
		}
	}
}

func TestDryRunTouchesNothing(t *testing.T) {
	dir, cfg, cases := workspace(t)

	var buf bytes.Buffer
	out := output.NewWithWriters(&buf, &buf, false)
	h := newHarness(cfg, out)

	h.DryRun(cases)

	if _, err := os.Stat(filepath.Join(dir, "data")); !os.IsNotExist(err) {
		t.Error("dry run must not create the results directory")
	}
	got := buf.String()
	if !strings.Contains(got, "./fake_solver.sh -res 8 8 8 -bc 0 0 0 0 0 0") {
		t.Errorf("expected command line in dry run output, got:\n%s", got)
	}
}
