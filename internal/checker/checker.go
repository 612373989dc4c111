// Package checker compares solver norm output against reference values.
//
// The solver appends one line per run to its result file:
//
//	<resolution> <err2> <erri>
//
// where err2 is the L2 norm and erri the infinity norm of the error
// against the analytical solution. The checker parses the produced file
// and counts every norm that drifted out of tolerance from the reference
// file of the same name.
package checker

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Checker classifies the numerical output of one finished run.
// Check returns the mistake count for the run: zero means the numbers
// match the expected values. An error means the result could not be
// judged at all (missing file, malformed line) and the run is
// inconclusive rather than failed.
type Checker interface {
	Check(runID int, filename string) (int, error)
}

// Norms is one parsed line of a validation result file.
type Norms struct {
	Res    int
	Err2   float64
	ErrInf float64
}

// ToleranceMode selects how float tolerances are applied.
type ToleranceMode string

const (
	ToleranceModeRelative ToleranceMode = "relative"
	ToleranceModeAbsolute ToleranceMode = "absolute"
)

// Tolerance configures float comparison between produced and reference norms.
type Tolerance struct {
	Value float64
	Mode  ToleranceMode
}

// Within reports whether actual is within tolerance of expected.
// Relative mode falls back to absolute comparison for expected == 0
// to avoid division by zero.
func (t Tolerance) Within(expected, actual float64) bool {
	switch t.Mode {
	case ToleranceModeAbsolute:
		return math.Abs(expected-actual) <= t.Value
	default:
		if expected == 0 {
			return math.Abs(actual) <= t.Value
		}
		return math.Abs((expected-actual)/expected) <= t.Value
	}
}

// NormChecker checks produced norm files against reference files of the
// same name under a separate directory.
type NormChecker struct {
	// ResultsDir holds the files the solver just wrote.
	ResultsDir string

	// ReferenceDir holds the expected norm files, committed alongside
	// the validation data.
	ReferenceDir string

	Tol Tolerance
}

// Check compares the produced norm file against its reference. The
// mistake count is the number of norm values out of tolerance plus the
// number of reference lines with no produced line at the same
// resolution. Extra produced lines are ignored: the solver appends on
// re-runs, and only the resolutions the reference pins down are judged.
func (c *NormChecker) Check(runID int, filename string) (int, error) {
	expected, err := ParseNormFile(filepath.Join(c.ReferenceDir, filename))
	if err != nil {
		return 0, fmt.Errorf("run %d: reference: %w", runID, err)
	}
	actual, err := ParseNormFile(filepath.Join(c.ResultsDir, filename))
	if err != nil {
		return 0, fmt.Errorf("run %d: result: %w", runID, err)
	}

	byRes := make(map[int]Norms, len(actual))
	for _, n := range actual {
		byRes[n.Res] = n
	}

	mistakes := 0
	for _, want := range expected {
		got, ok := byRes[want.Res]
		if !ok {
			mistakes++
			continue
		}
		if !c.Tol.Within(want.Err2, got.Err2) {
			mistakes++
		}
		if !c.Tol.Within(want.ErrInf, got.ErrInf) {
			mistakes++
		}
	}
	return mistakes, nil
}

// ParseNormFile reads a validation result file. Blank lines are skipped;
// anything else must be a "<res> <err2> <erri>" triple.
func ParseNormFile(path string) ([]Norms, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var norms []Norms
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("%s:%d: expected 3 fields, got %d", path, lineNo, len(fields))
		}

		res, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%s:%d: resolution: %w", path, lineNo, err)
		}
		err2, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: err2: %w", path, lineNo, err)
		}
		erri, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: erri: %w", path, lineNo, err)
		}

		norms = append(norms, Norms{Res: res, Err2: err2, ErrInf: erri})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return norms, nil
}
