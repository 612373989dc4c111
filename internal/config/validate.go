package config

import (
	"fmt"
	"regexp"
)

// BC tokens are single characters so six of them concatenate into the
// fixed-width identity code used in result filenames.
var tokenPattern = regexp.MustCompile(`^[0-9]$`)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a configuration for errors. Defaults must already be applied.
func Validate(cfg *Config) error {
	if err := validateSolver(cfg); err != nil {
		return err
	}
	if err := validateMatrix(cfg); err != nil {
		return err
	}
	return validateResults(cfg)
}

func validateSolver(cfg *Config) error {
	if cfg.Solver.Path == "" {
		return &ValidationError{Field: "solver.path", Message: "must not be empty"}
	}
	if cfg.Solver.Timeout < 0 {
		return &ValidationError{Field: "solver.timeout", Message: "must not be negative"}
	}
	return nil
}

func validateMatrix(cfg *Config) error {
	if len(cfg.Matrix.BaseTokens) == 0 {
		return &ValidationError{Field: "matrix.base_tokens", Message: "must not be empty"}
	}
	for _, t := range cfg.Matrix.BaseTokens {
		if !tokenPattern.MatchString(t) {
			return &ValidationError{
				Field:   "matrix.base_tokens",
				Message: fmt.Sprintf("invalid BC token %q (must be a single digit)", t),
			}
		}
	}
	if err := validatePairs("matrix.shared_pairs", cfg.Matrix.SharedPairs); err != nil {
		return err
	}
	if err := validatePairs("matrix.z_only_pairs", cfg.Matrix.ZOnlyPairs); err != nil {
		return err
	}
	if err := validateNoDuplicatePairs(cfg); err != nil {
		return err
	}
	if err := validateResolution("matrix.resolution", cfg.Matrix.Resolution); err != nil {
		return err
	}
	return validateResolution("matrix.degenerate_resolution", cfg.Matrix.DegenerateResolution)
}

func validatePairs(field string, pairs [][]string) error {
	for _, p := range pairs {
		if len(p) != 2 {
			return &ValidationError{
				Field:   field,
				Message: fmt.Sprintf("pair %v must have exactly 2 tokens", p),
			}
		}
		for _, t := range p {
			if !tokenPattern.MatchString(t) {
				return &ValidationError{
					Field:   field,
					Message: fmt.Sprintf("invalid BC token %q (must be a single digit)", t),
				}
			}
		}
	}
	return nil
}

// validateNoDuplicatePairs rejects exception lists that collide with the
// base product or with each other. A duplicated pair would enumerate the
// same identity code twice, breaking the code-to-result-file mapping.
func validateNoDuplicatePairs(cfg *Config) error {
	seen := make(map[string]bool)
	for _, a := range cfg.Matrix.BaseTokens {
		for _, b := range cfg.Matrix.BaseTokens {
			seen[a+b] = true
		}
	}
	for _, field := range []struct {
		name  string
		pairs [][]string
	}{
		{"matrix.shared_pairs", cfg.Matrix.SharedPairs},
		{"matrix.z_only_pairs", cfg.Matrix.ZOnlyPairs},
	} {
		for _, p := range field.pairs {
			key := p[0] + p[1]
			if seen[key] {
				return &ValidationError{
					Field:   field.name,
					Message: fmt.Sprintf("pair %q duplicates an existing axis pair", key),
				}
			}
			seen[key] = true
		}
	}
	return nil
}

func validateResolution(field string, res []int) error {
	if len(res) != 3 {
		return &ValidationError{Field: field, Message: "must have exactly 3 entries"}
	}
	for _, n := range res {
		if n < 1 {
			return &ValidationError{Field: field, Message: fmt.Sprintf("grid size %d must be positive", n)}
		}
	}
	return nil
}

func validateResults(cfg *Config) error {
	if cfg.Results.Tolerance < 0 {
		return &ValidationError{Field: "results.tolerance", Message: "must not be negative"}
	}
	switch cfg.Results.ToleranceMode {
	case "relative", "absolute":
	default:
		return &ValidationError{
			Field:   "results.tolerance_mode",
			Message: fmt.Sprintf("unknown mode %q (want \"relative\" or \"absolute\")", cfg.Results.ToleranceMode),
		}
	}
	if cfg.Results.GreenType < 0 {
		return &ValidationError{Field: "results.green_type", Message: "must not be negative"}
	}
	return nil
}
