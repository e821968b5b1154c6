// Package config provides configuration loading and defaults for roicalc.
package config

import (
	"github.com/blackwell-systems/roicalc/internal/catalog"
	"github.com/blackwell-systems/roicalc/internal/input"
	"github.com/blackwell-systems/roicalc/internal/projection"
)

// DefaultConfigDir is the default location for roicalc configuration.
const DefaultConfigDir = "~/.config/roicalc"

// DefaultDBName is the filename for the SQLite database.
const DefaultDBName = "roicalc.db"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// EnvPrefix is the prefix for environment variable overrides
// (ROICALC_RATES_LICENSE_PER_OFFICER and so on).
const EnvPrefix = "ROICALC"

// DefaultRates holds the reference per-officer cost rates.
var DefaultRates = Rates{
	ImplementationPerOfficer: projection.DefaultImplementationPerOfficer,
	LicensePerOfficer:        projection.DefaultLicensePerOfficer,
}

// DefaultProjection holds the starting inputs used when none are given.
var DefaultProjection = ProjectionDefaults{
	OfficerCount: input.DefaultOfficers,
	AvgSalary:    input.DefaultSalary,
	UseCases:     catalog.DefaultSelection(),
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}

// DefaultAdvise holds the default recommendation thresholds.
var DefaultAdvise = Advise{
	PaybackWarningMonths: 12,
	MinROIPercent:        0,
}
