// Package config provides configuration loading and validation for validation.yaml.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/van-Rees-Lab/flups-validation/internal/errors"
	"github.com/van-Rees-Lab/flups-validation/internal/matrix"
	"github.com/van-Rees-Lab/flups-validation/internal/schema"
)

// DefaultFilename is the config file looked up in the working directory
// when no --config flag is given.
const DefaultFilename = "validation.yaml"

// Config represents the complete validation.yaml configuration.
type Config struct {
	Solver  SolverConfig  `yaml:"solver"`
	Matrix  MatrixConfig  `yaml:"matrix"`
	Results ResultsConfig `yaml:"results"`
}

// SolverConfig configures the external solver binary.
type SolverConfig struct {
	Path    string   `yaml:"path"`
	WorkDir string   `yaml:"work_dir"`
	Timeout Duration `yaml:"timeout"` // zero = no timeout
}

// MatrixConfig configures the BC test matrix.
type MatrixConfig struct {
	BaseTokens           []string   `yaml:"base_tokens"`
	SharedPairs          [][]string `yaml:"shared_pairs"`
	ZOnlyPairs           [][]string `yaml:"z_only_pairs"`
	Resolution           []int      `yaml:"resolution"`
	DegenerateResolution []int      `yaml:"degenerate_resolution"`
}

// ResultsConfig configures result checking.
type ResultsConfig struct {
	Directory          string  `yaml:"directory"`
	ReferenceDirectory string  `yaml:"reference_directory"`
	GreenType          int     `yaml:"green_type"`
	Tolerance          float64 `yaml:"tolerance"`
	ToleranceMode      string  `yaml:"tolerance_mode"`
}

// Duration wraps time.Duration for YAML decoding of strings like "10m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("timeout must be a duration string (e.g. \"10m\"): %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Load reads and parses a validation.yaml configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ConfigWrap(err, "failed to read config file")
	}
	return Parse(data)
}

// Parse parses configuration data.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.ConfigWrap(err, "failed to parse config file")
	}
	return &cfg, nil
}

// LoadAndValidate reads a config file, checks it against the embedded JSON
// schema, applies defaults, validates, and returns warnings.
func LoadAndValidate(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.ConfigWrap(err, "failed to read config file")
	}
	return ParseAndValidate(data)
}

// ParseAndValidate parses configuration data, checks it against the
// embedded JSON schema, applies defaults, validates, and returns warnings.
// Every returned error carries the configuration error kind so callers can
// map it to an exit status with errors.GetExitCode.
func ParseAndValidate(data []byte) (*Config, []string, error) {
	jsonData, err := yamlToJSON(data)
	if err != nil {
		return nil, nil, errors.ConfigWrap(err, "failed to parse config file")
	}
	if err := schema.ValidateConfig(jsonData); err != nil {
		return nil, nil, errors.ConfigWrap(err, "invalid configuration")
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, nil, err
	}

	warnings := detectUnknownFields(data)

	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, warnings, errors.ConfigWrap(err, "invalid configuration")
	}

	return cfg, warnings, nil
}

// yamlToJSON re-encodes YAML data as JSON so it can be validated against
// the JSON schema.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MatrixSpec converts the matrix section into an enumeration spec.
// The config must have been validated first.
func (c *Config) MatrixSpec() matrix.Spec {
	s := matrix.Spec{
		BaseTokens:  make([]matrix.Token, len(c.Matrix.BaseTokens)),
		SharedPairs: make([]matrix.Pair, len(c.Matrix.SharedPairs)),
		ZOnlyPairs:  make([]matrix.Pair, len(c.Matrix.ZOnlyPairs)),
	}
	for i, t := range c.Matrix.BaseTokens {
		s.BaseTokens[i] = matrix.Token(t)
	}
	for i, p := range c.Matrix.SharedPairs {
		s.SharedPairs[i] = matrix.Pair{Low: matrix.Token(p[0]), High: matrix.Token(p[1])}
	}
	for i, p := range c.Matrix.ZOnlyPairs {
		s.ZOnlyPairs[i] = matrix.Pair{Low: matrix.Token(p[0]), High: matrix.Token(p[1])}
	}
	copy(s.Res[:], c.Matrix.Resolution)
	copy(s.DegenerateRes[:], c.Matrix.DegenerateResolution)
	return s
}

// Marshal renders the configuration back to YAML, for the config command.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
