package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/blackwell-systems/roicalc/internal/projection"
	"github.com/spf13/viper"
)

// Config is the top-level roicalc configuration.
type Config struct {
	Rates    Rates              `mapstructure:"rates"`
	Defaults ProjectionDefaults `mapstructure:"defaults"`
	Output   Output             `mapstructure:"output"`
	Store    Store              `mapstructure:"store"`
	Advise   Advise             `mapstructure:"advise"`
}

// Rates overrides the per-officer cost rates.
type Rates struct {
	ImplementationPerOfficer float64 `mapstructure:"implementation_per_officer"`
	LicensePerOfficer        float64 `mapstructure:"license_per_officer"`
}

// ProjectionDefaults are the inputs used when a command is not given any.
type ProjectionDefaults struct {
	OfficerCount int      `mapstructure:"officer_count"`
	AvgSalary    float64  `mapstructure:"avg_salary"`
	UseCases     []string `mapstructure:"use_cases"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

// Store configures the scenario history database.
type Store struct {
	Path string `mapstructure:"path"`
}

// Advise holds thresholds used by the recommendation rules.
type Advise struct {
	PaybackWarningMonths float64 `mapstructure:"payback_warning_months"`
	MinROIPercent        float64 `mapstructure:"min_roi_percent"`
}

// Default returns a Config holding only built-in defaults.
func Default() *Config {
	d := DefaultProjection
	d.UseCases = append([]string(nil), DefaultProjection.UseCases...)
	return &Config{
		Rates:    DefaultRates,
		Defaults: d,
		Output:   DefaultOutput,
		Store:    Store{Path: expandPath(filepath.Join(DefaultConfigDir, DefaultDBName))},
		Advise:   DefaultAdvise,
	}
}

// ProjectionRates converts the configured rates to engine rates.
func (c *Config) ProjectionRates() projection.Rates {
	return projection.Rates{
		ImplementationPerOfficer: c.Rates.ImplementationPerOfficer,
		LicensePerOfficer:        c.Rates.LicensePerOfficer,
	}
}

// DefaultParams returns the configured default engine parameters.
func (c *Config) DefaultParams() projection.Params {
	return projection.Params{
		OfficerCount: c.Defaults.OfficerCount,
		AvgSalary:    c.Defaults.AvgSalary,
	}
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied. ROICALC_* environment
// variables override file values.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("rates.implementation_per_officer", DefaultRates.ImplementationPerOfficer)
	v.SetDefault("rates.license_per_officer", DefaultRates.LicensePerOfficer)
	v.SetDefault("defaults.officer_count", DefaultProjection.OfficerCount)
	v.SetDefault("defaults.avg_salary", DefaultProjection.AvgSalary)
	v.SetDefault("defaults.use_cases", DefaultProjection.UseCases)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)
	v.SetDefault("store.path", filepath.Join(DefaultConfigDir, DefaultDBName))
	v.SetDefault("advise.payback_warning_months", DefaultAdvise.PaybackWarningMonths)
	v.SetDefault("advise.min_roi_percent", DefaultAdvise.MinROIPercent)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.AddConfigPath(expandPath(DefaultConfigDir))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Rates.ImplementationPerOfficer < 0 {
		cfg.Rates.ImplementationPerOfficer = 0
	}
	if cfg.Rates.LicensePerOfficer < 0 {
		cfg.Rates.LicensePerOfficer = 0
	}
	if len(cfg.Defaults.UseCases) == 0 {
		cfg.Defaults.UseCases = append([]string(nil), DefaultProjection.UseCases...)
	}

	cfg.Store.Path = expandPath(cfg.Store.Path)

	return &cfg, nil
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
