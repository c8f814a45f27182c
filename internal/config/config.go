package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/iqcapture/internal/logging"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides, e.g. IQCAPTURE_FETCH_TIMEOUT.
const EnvPrefix = "IQCAPTURE"

// Config is the resolved run configuration. Keys match the command-line flag names.
type Config struct {
	// Instrument is the driver identifier of the instrument to open.
	Instrument string `mapstructure:"instr"`
	// Path is the configuration container to load.
	Path string `mapstructure:"path"`
	// Output is the directory captures are written to; empty means the working directory.
	Output string `mapstructure:"output"`

	LogLevel           string        `mapstructure:"log-level"`
	MeasurementTimeout time.Duration `mapstructure:"measurement-timeout"`
	FetchTimeout       time.Duration `mapstructure:"fetch-timeout"`

	// MetricsFile receives Prometheus text-format metrics after the run.
	MetricsFile string `mapstructure:"metrics-file"`
	Plot        bool   `mapstructure:"plot"`
	Summary     bool   `mapstructure:"summary"`
	NoPause     bool   `mapstructure:"no-pause"`

	// AllowInstr restricts which identifiers the simulated driver accepts.
	AllowInstr []string `mapstructure:"allow-instr"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		LogLevel:           "warn",
		MeasurementTimeout: 10 * time.Second,
		FetchTimeout:       10 * time.Second,
	}
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("instr", defaults.Instrument)
	v.SetDefault("path", defaults.Path)
	v.SetDefault("output", defaults.Output)
	v.SetDefault("log-level", defaults.LogLevel)
	v.SetDefault("measurement-timeout", defaults.MeasurementTimeout)
	v.SetDefault("fetch-timeout", defaults.FetchTimeout)
	v.SetDefault("metrics-file", defaults.MetricsFile)
	v.SetDefault("plot", defaults.Plot)
	v.SetDefault("summary", defaults.Summary)
	v.SetDefault("no-pause", defaults.NoPause)
	v.SetDefault("allow-instr", defaults.AllowInstr)
}

// Prepare applies defaults and environment lookups to v and reads the optional config file.
// A named file that cannot be read is an error; no file at all is fine.
func Prepare(v *viper.Viper, file string) error {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if file == "" {
		return nil
	}
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file %q: %w", file, err)
	}
	return nil
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}
	cfg.Instrument = strings.TrimSpace(cfg.Instrument)
	cfg.Path = strings.TrimSpace(cfg.Path)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields that cannot be defaulted.
func (c *Config) Validate() error {
	var errs []error
	if c.Instrument == "" {
		errs = append(errs, errors.New(`required flag "instr" not set`))
	}
	if c.Path == "" {
		errs = append(errs, errors.New(`required flag "path" not set`))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
