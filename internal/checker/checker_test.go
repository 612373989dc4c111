package checker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeNormFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newChecker(t *testing.T) (*NormChecker, string, string) {
	t.Helper()
	results := t.TempDir()
	reference := t.TempDir()
	c := &NormChecker{
		ResultsDir:   results,
		ReferenceDir: reference,
		Tol:          Tolerance{Value: 1e-9, Mode: ToleranceModeRelative},
	}
	return c, results, reference
}

func TestParseNormFile(t *testing.T) {
	dir := t.TempDir()
	writeNormFile(t, dir, "norms.txt", "8 1.234567890123e-03 4.5e-02\n16 2.0e-04 3.0e-03\n")

	norms, err := ParseNormFile(filepath.Join(dir, "norms.txt"))
	if err != nil {
		t.Fatalf("ParseNormFile() error: %v", err)
	}

	if len(norms) != 2 {
		t.Fatalf("got %d lines, want 2", len(norms))
	}
	if norms[0].Res != 8 || norms[0].Err2 != 1.234567890123e-03 || norms[0].ErrInf != 4.5e-02 {
		t.Errorf("first line = %+v", norms[0])
	}
	if norms[1].Res != 16 {
		t.Errorf("second line res = %d, want 16", norms[1].Res)
	}
}

func TestParseNormFile_SkipsBlankLines(t *testing.T) {
	dir := t.TempDir()
	writeNormFile(t, dir, "norms.txt", "\n8 1e-3 1e-2\n\n")

	norms, err := ParseNormFile(filepath.Join(dir, "norms.txt"))
	if err != nil {
		t.Fatalf("ParseNormFile() error: %v", err)
	}
	if len(norms) != 1 {
		t.Errorf("got %d lines, want 1", len(norms))
	}
}

func TestParseNormFile_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"too few fields", "8 1e-3\n"},
		{"too many fields", "8 1e-3 1e-2 extra\n"},
		{"bad resolution", "eight 1e-3 1e-2\n"},
		{"bad norm", "8 oops 1e-2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeNormFile(t, dir, "norms.txt", tt.content)

			if _, err := ParseNormFile(filepath.Join(dir, "norms.txt")); err == nil {
				t.Error("ParseNormFile() = nil error for malformed input")
			}
		})
	}
}

func TestParseNormFile_Missing(t *testing.T) {
	if _, err := ParseNormFile(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Error("ParseNormFile() = nil error for missing file")
	}
}

func TestTolerance_Within(t *testing.T) {
	tests := []struct {
		name     string
		tol      Tolerance
		expected float64
		actual   float64
		want     bool
	}{
		{"relative within", Tolerance{1e-6, ToleranceModeRelative}, 1.0, 1.0 + 1e-7, true},
		{"relative outside", Tolerance{1e-6, ToleranceModeRelative}, 1.0, 1.0 + 1e-3, false},
		{"relative zero expected within", Tolerance{1e-6, ToleranceModeRelative}, 0, 1e-9, true},
		{"relative zero expected outside", Tolerance{1e-6, ToleranceModeRelative}, 0, 1e-3, false},
		{"absolute within", Tolerance{1e-3, ToleranceModeAbsolute}, 2.0, 2.0005, true},
		{"absolute outside", Tolerance{1e-3, ToleranceModeAbsolute}, 2.0, 2.1, false},
		{"exact match", Tolerance{0, ToleranceModeRelative}, 5e-4, 5e-4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tol.Within(tt.expected, tt.actual); got != tt.want {
				t.Errorf("Within(%v, %v) = %v, want %v", tt.expected, tt.actual, got, tt.want)
			}
		})
	}
}

func TestNormChecker_Check_Match(t *testing.T) {
	c, results, reference := newChecker(t)
	const name = "validation_3d_000000_typeGreen=0.txt"

	writeNormFile(t, reference, name, "8 1.5e-3 2.5e-2\n")
	writeNormFile(t, results, name, "8 1.5e-3 2.5e-2\n")

	mistakes, err := c.Check(1, name)
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if mistakes != 0 {
		t.Errorf("mistakes = %d, want 0", mistakes)
	}
}

func TestNormChecker_Check_CountsMistakes(t *testing.T) {
	c, results, reference := newChecker(t)
	const name = "validation_3d_011033_typeGreen=0.txt"

	// Both norms wrong on res 8, plus a missing res 16 line: 3 mistakes.
	writeNormFile(t, reference, name, "8 1.0e-3 1.0e-2\n16 2.0e-4 2.0e-3\n")
	writeNormFile(t, results, name, "8 9.9e-3 9.9e-2\n")

	mistakes, err := c.Check(2, name)
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if mistakes != 3 {
		t.Errorf("mistakes = %d, want 3", mistakes)
	}
}

func TestNormChecker_Check_OneNormOff(t *testing.T) {
	c, results, reference := newChecker(t)
	const name = "validation_3d_440000_typeGreen=0.txt"

	writeNormFile(t, reference, name, "8 1.0e-3 1.0e-2\n")
	writeNormFile(t, results, name, "8 1.0e-3 5.0e-2\n")

	mistakes, err := c.Check(3, name)
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if mistakes != 1 {
		t.Errorf("mistakes = %d, want 1", mistakes)
	}
}

func TestNormChecker_Check_IgnoresExtraProducedLines(t *testing.T) {
	c, results, reference := newChecker(t)
	const name = "validation_3d_111111_typeGreen=0.txt"

	// Solver appends on re-runs; stale extra resolutions are not judged.
	writeNormFile(t, reference, name, "8 1.0e-3 1.0e-2\n")
	writeNormFile(t, results, name, "8 1.0e-3 1.0e-2\n32 7.0e-5 8.0e-4\n")

	mistakes, err := c.Check(4, name)
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if mistakes != 0 {
		t.Errorf("mistakes = %d, want 0", mistakes)
	}
}

func TestNormChecker_Check_MissingReference(t *testing.T) {
	c, results, _ := newChecker(t)
	const name = "validation_3d_000000_typeGreen=0.txt"

	writeNormFile(t, results, name, "8 1.0e-3 1.0e-2\n")

	_, err := c.Check(5, name)
	if err == nil {
		t.Fatal("Check() = nil error for missing reference file")
	}
	if !strings.Contains(err.Error(), "reference") {
		t.Errorf("error %q does not point at the reference file", err)
	}
}

func TestNormChecker_Check_MissingResult(t *testing.T) {
	c, _, reference := newChecker(t)
	const name = "validation_3d_000000_typeGreen=0.txt"

	writeNormFile(t, reference, name, "8 1.0e-3 1.0e-2\n")

	_, err := c.Check(6, name)
	if err == nil {
		t.Fatal("Check() = nil error for missing result file")
	}
	if !strings.Contains(err.Error(), "result") {
		t.Errorf("error %q does not point at the result file", err)
	}
}
