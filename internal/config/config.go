// Package config provides configuration management functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aristath/flatbook/internal/modules/optimization"
	"github.com/aristath/flatbook/internal/modules/reporting"
	"github.com/aristath/flatbook/internal/solver"
	"github.com/aristath/flatbook/internal/utils"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. FLATBOOK_SOLVER_MAX_NODES.
const EnvPrefix = "FLATBOOK"

// Config holds run configuration. Market data is not part of it: tables
// come from the built-in defaults or a scenario file.
type Config struct {
	Log      LogConfig     `mapstructure:"log"`
	Policy   string        `mapstructure:"policy"`
	Sink     string        `mapstructure:"sink"`
	Output   string        `mapstructure:"output"`   // file and msgpack sinks
	Scenario string        `mapstructure:"scenario"` // optional market scenario YAML
	Months   string        `mapstructure:"months"`   // optional comma-separated calendar subset
	Solver   SolverConfig  `mapstructure:"solver"`
	Metrics  MetricsConfig `mapstructure:"metrics"`
	Sweep    SweepConfig   `mapstructure:"sweep"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

// LogConfig configures pkg/logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// SolverConfig configures the optimization engine.
type SolverConfig struct {
	Verbose              bool    `mapstructure:"verbose"`
	Tolerance            float64 `mapstructure:"tolerance"`
	IntegralityTolerance float64 `mapstructure:"integrality_tolerance"`
	MaxNodes             int     `mapstructure:"max_nodes"`
}

// MetricsConfig configures the prometheus textfile export.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// SweepConfig configures the forecast sweep.
type SweepConfig struct {
	Workers int    `mapstructure:"workers"`
	Shifts  string `mapstructure:"shifts"` // comma-separated $/bbl shifts
}

// Load reads configuration. Sources, lowest precedence first: defaults, the
// config file, a .env file, environment variables. With an empty path the
// file is looked up as ./flatbook.yaml, then ~/.flatbook/flatbook.yaml, and
// a missing file is fine. An explicit path must exist.
func Load(path string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	if path == "" {
		path = getEnv(EnvPrefix+"_CONFIG", "")
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("flatbook")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".flatbook"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := solver.DefaultOptions()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", true)
	v.SetDefault("policy", string(optimization.PolicySymmetricLP))
	v.SetDefault("sink", reporting.KindConsole)
	v.SetDefault("output", "output.txt")
	v.SetDefault("scenario", "")
	v.SetDefault("months", "")
	v.SetDefault("solver.verbose", false)
	v.SetDefault("solver.tolerance", d.Tolerance)
	v.SetDefault("solver.integrality_tolerance", d.IntegralityTolerance)
	v.SetDefault("solver.max_nodes", d.MaxNodes)
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("sweep.workers", 4)
	v.SetDefault("sweep.shifts", "0,0.25,0.5,1")
}

// Validate rejects unknown policies and sinks, non-positive solver limits
// and malformed lists.
func (c *Config) Validate() error {
	if _, err := optimization.ParsePolicy(c.Policy); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if !validSink(c.Sink) {
		return fmt.Errorf("invalid config: unknown sink %q (want one of %s)", c.Sink, strings.Join(reporting.Kinds(), ", "))
	}
	if c.Sink != reporting.KindConsole && strings.TrimSpace(c.Output) == "" {
		return fmt.Errorf("invalid config: sink %q needs an output path", c.Sink)
	}
	if !(c.Solver.Tolerance > 0) || !(c.Solver.IntegralityTolerance > 0) {
		return fmt.Errorf("invalid config: solver tolerances must be positive")
	}
	if c.Solver.MaxNodes <= 0 {
		return fmt.Errorf("invalid config: solver.max_nodes must be positive, got %d", c.Solver.MaxNodes)
	}
	if c.Sweep.Workers <= 0 {
		return fmt.Errorf("invalid config: sweep.workers must be positive, got %d", c.Sweep.Workers)
	}
	if _, err := c.SweepShifts(); err != nil {
		return fmt.Errorf("invalid config: sweep.shifts: %w", err)
	}
	return nil
}

func validSink(kind string) bool {
	for _, k := range reporting.Kinds() {
		if strings.EqualFold(strings.TrimSpace(kind), k) {
			return true
		}
	}
	return false
}

// PolicyOptions returns the formulation options of the configured policy.
func (c *Config) PolicyOptions() (optimization.Options, error) {
	p, err := optimization.ParsePolicy(c.Policy)
	if err != nil {
		return optimization.Options{}, err
	}
	return p.Options(), nil
}

// SolverOptions maps the solver section onto engine options. Unset
// engine settings keep their defaults.
func (c *Config) SolverOptions() solver.Options {
	o := solver.DefaultOptions()
	o.Tolerance = c.Solver.Tolerance
	o.IntegralityTolerance = c.Solver.IntegralityTolerance
	o.MaxNodes = c.Solver.MaxNodes
	return o
}

// MonthNames returns the calendar subset, or nil for the full calendar.
func (c *Config) MonthNames() []string {
	return utils.ParseCSV(c.Months)
}

// SweepShifts parses the sweep shifts.
func (c *Config) SweepShifts() ([]float64, error) {
	return utils.ParseFloatCSV(c.Sweep.Shifts)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
