package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ConfigPath is the variable which stores the config path command line parameter
	ConfigPath string
)

// Config stores the config for the tool
type Config struct {
	// Simplify configuration of the minimizer
	Simplify SimplifyConfig `json:"simplify" yaml:"simplify"`
	// ServerAddr address the HTTP service listens on
	ServerAddr string `json:"server_addr" yaml:"server_addr"`
	// Workers bounds the number of witnesses simplified concurrently in a batch
	Workers int `json:"workers" yaml:"workers"`
	// Results is the number of simplification responses the HTTP service
	// keeps for retrieval
	Results int `json:"results" yaml:"results"`
	// LogConfig configuration for logging
	LogConfig LogConfig `json:"log" yaml:"log"`
}

// LogConfig stores the config for logging purpose
type LogConfig struct {
	// Path of the log file
	Path string `json:"path" yaml:"path"`
	// Format to log, `json` or `text`
	Format string `json:"format" yaml:"format"`
	// Level log level, one of panic|fatal|error|warn|warning|info|debug|trace
	Level string `json:"level" yaml:"level"`
}

// SimplifyConfig stores the parameters of the witness minimizer
type SimplifyConfig struct {
	// Method is `simplex` (exact linear program) or `nelder-mead`
	Method string `json:"method" yaml:"method"`
	// Families names the time-indexed quantities whose variation across steps
	// is minimized, e.g. ["tot_inp", "tot_out"]
	Families []string `json:"families" yaml:"families"`
	// Timeout bounds the optimizer call, e.g. "10s". Zero disables the bound.
	Timeout Duration `json:"timeout" yaml:"timeout"`
	// StrictMargin is the largest amount by which strict inequalities are
	// tightened before optimizing
	StrictMargin float64 `json:"strict_margin" yaml:"strict_margin"`
	// FeasibilityTol is the allowed constraint violation of float results
	FeasibilityTol float64 `json:"feasibility_tol" yaml:"feasibility_tol"`
	// MaxDenominator bounds the denominators of the rationals that optimizer
	// results are rounded to
	MaxDenominator int64 `json:"max_denominator" yaml:"max_denominator"`
	// MaxIterations bounds the iterations of the nelder-mead method
	MaxIterations int `json:"max_iterations" yaml:"max_iterations"`
	// Penalty weighs constraint violations in the nelder-mead method
	Penalty float64 `json:"penalty" yaml:"penalty"`
}

// Duration is a time.Duration read from strings such as "1m30s"
type Duration time.Duration

func (d *Duration) set(s string) error {
	if s == "" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string: %s", err)
	}
	return d.set(s)
}

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.set(value.Value)
}

// MarshalJSON implements json.Marshaler
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Simplify: SimplifyConfig{
			Method:         "simplex",
			Families:       []string{"tot_inp", "tot_out"},
			Timeout:        Duration(10 * time.Second),
			StrictMargin:   1e-4,
			FeasibilityTol: 1e-7,
			MaxDenominator: 1000000,
			MaxIterations:  10000,
			Penalty:        1000,
		},
		ServerAddr: "0.0.0.0:7075",
		Workers:    4,
		Results:    256,
		LogConfig: LogConfig{
			Path:   "",
			Format: "json",
			Level:  "info",
		},
	}
}

// ParseConfig parses config from the specified file. Files ending in .yaml
// or .yml are read as YAML, anything else as JSON. Missing fields keep their
// default values.
func ParseConfig(path string) (*Config, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %s", err)
	}
	conf := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(bytes, conf)
	default:
		err = json.Unmarshal(bytes, conf)
	}
	if err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %s", err)
	}
	return conf, nil
}

// Load parses the config at path if the file exists and returns the
// defaults otherwise
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return ParseConfig(path)
}
