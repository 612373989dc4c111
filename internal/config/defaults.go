package config

// Default configuration values. The matrix defaults reproduce the
// solver's historical validation sweep.
const (
	DefaultSolverPath         = "./flups_validation_nb"
	DefaultWorkDir            = "."
	DefaultResultsDirectory   = "data"
	DefaultReferenceDirectory = "reference"
	DefaultTolerance          = 1e-9
	DefaultToleranceMode      = "relative"
)

// Default returns the full default configuration.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in default values for unset configuration fields.
// Explicitly empty lists are kept: only absent fields are defaulted.
func applyDefaults(cfg *Config) {
	applySolverDefaults(cfg)
	applyMatrixDefaults(cfg)
	applyResultsDefaults(cfg)
}

func applySolverDefaults(cfg *Config) {
	if cfg.Solver.Path == "" {
		cfg.Solver.Path = DefaultSolverPath
	}
	if cfg.Solver.WorkDir == "" {
		cfg.Solver.WorkDir = DefaultWorkDir
	}
}

func applyMatrixDefaults(cfg *Config) {
	if cfg.Matrix.BaseTokens == nil {
		cfg.Matrix.BaseTokens = []string{"0", "1", "4"}
	}
	if cfg.Matrix.SharedPairs == nil {
		cfg.Matrix.SharedPairs = [][]string{{"3", "3"}}
	}
	if cfg.Matrix.ZOnlyPairs == nil {
		cfg.Matrix.ZOnlyPairs = [][]string{{"9", "9"}}
	}
	if cfg.Matrix.Resolution == nil {
		cfg.Matrix.Resolution = []int{8, 8, 8}
	}
	if cfg.Matrix.DegenerateResolution == nil {
		cfg.Matrix.DegenerateResolution = []int{8, 8, 1}
	}
}

func applyResultsDefaults(cfg *Config) {
	if cfg.Results.Directory == "" {
		cfg.Results.Directory = DefaultResultsDirectory
	}
	if cfg.Results.ReferenceDirectory == "" {
		cfg.Results.ReferenceDirectory = DefaultReferenceDirectory
	}
	if cfg.Results.Tolerance == 0 {
		cfg.Results.Tolerance = DefaultTolerance
	}
	if cfg.Results.ToleranceMode == "" {
		cfg.Results.ToleranceMode = DefaultToleranceMode
	}
}
