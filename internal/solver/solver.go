// Package solver invokes the external validation binary.
package solver

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/van-Rees-Lab/flups-validation/internal/errors"
	"github.com/van-Rees-Lab/flups-validation/internal/matrix"
)

// DefaultPath is where the validation binary lives relative to the
// working directory, matching the solver's build layout.
const DefaultPath = "./flups_validation_nb"

// Solver runs the external validation binary, one process per case.
type Solver struct {
	// Path is the executable path, resolved relative to Dir.
	Path string

	// Dir is the working directory for the solver process. The solver
	// writes its norm files relative to this directory.
	Dir string

	// Timeout bounds a single invocation. Zero means no timeout: a hung
	// solver hangs the whole run.
	Timeout time.Duration
}

// Result captures one finished solver invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
	TimedOut bool
}

// New returns a Solver for the given executable path.
func New(path string) *Solver {
	if path == "" {
		path = DefaultPath
	}
	return &Solver{Path: path}
}

// Args returns the argument list for one case: the resolution triple
// followed by the six BC tokens in X-low, X-high, Y-low, Y-high, Z-low,
// Z-high order. The order is part of the solver's CLI contract.
func (s *Solver) Args(c matrix.Case) []string {
	return []string{
		"-res",
		strconv.Itoa(c.Res[0]),
		strconv.Itoa(c.Res[1]),
		strconv.Itoa(c.Res[2]),
		"-bc",
		string(c.X.Low), string(c.X.High),
		string(c.Y.Low), string(c.Y.High),
		string(c.Z.Low), string(c.Z.High),
	}
}

// CommandLine returns the full command line for one case, for dry runs
// and verbose logging.
func (s *Solver) CommandLine(c matrix.Case) string {
	line := s.Path
	for _, arg := range s.Args(c) {
		line += " " + arg
	}
	return line
}

// Run invokes the solver for one case and waits for it to exit, capturing
// stdout and stderr. A nonzero solver exit is not an error here: it comes
// back in Result.ExitCode for the caller to classify. The returned error
// is reserved for invocations that never produced an exit status (binary
// missing, not executable, context canceled before completion).
func (s *Solver) Run(ctx context.Context, c matrix.Case) (*Result, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, s.Path, s.Args(c)...)
	cmd.Dir = s.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err == nil {
		res.ExitCode = 0
		return res, nil
	}

	if exitErr, ok := err.(*exec.ExitError); ok {
		res.ExitCode = exitErr.ExitCode()
		if ctx.Err() == context.DeadlineExceeded {
			res.TimedOut = true
		}
		return res, nil
	}

	return nil, errors.Wrap(err, fmt.Sprintf("running %s", s.Path))
}

// CheckExecutable verifies the solver binary exists before the matrix
// starts, so a bad path fails the run up front instead of 1100 times.
func (s *Solver) CheckExecutable() error {
	path := s.Path
	if s.Dir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(s.Dir, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return errors.Environmentf("solver binary: %v", err)
	}
	if info.IsDir() {
		return errors.Environmentf("solver binary %s is a directory", path)
	}
	if info.Mode()&0111 == 0 {
		return errors.Environmentf("solver binary %s is not executable", path)
	}
	return nil
}
