// Package store provides SQLite persistence for saved projection scenarios
// and their headline metrics.
package store

import (
	"errors"
	"time"
)

// ErrScenarioNotFound is returned when a scenario ID has no row.
var ErrScenarioNotFound = errors.New("scenario not found")

// Metric names written for every saved scenario.
const (
	MetricTotalAnnualSavings  = "total_annual_savings"
	MetricTotalTimeSavings    = "total_time_savings"
	MetricImplementationCost  = "implementation_cost"
	MetricAnnualLicenseCost   = "annual_license_cost"
	MetricNetFirstYearSavings = "net_first_year_savings"
	MetricNetAnnualSavings    = "net_annual_savings"
	MetricThreeYearROI        = "three_year_roi"
	MetricPaybackMonths       = "payback_months"
	MetricSelectedCount       = "selected_count"

	// categoryMetricPrefix prefixes per-category savings totals,
	// e.g. "category.efficiency".
	categoryMetricPrefix = "category."
)

// SavedScenario is one projection persisted to history.
type SavedScenario struct {
	ID           string    `json:"id"`
	SavedAt      time.Time `json:"saved_at"`
	Name         string    `json:"name"`
	OfficerCount int       `json:"officer_count"`
	AvgSalary    float64   `json:"avg_salary"`
	UseCases     []string  `json:"use_cases"`
	Version      string    `json:"version"`
}

// Metric is a named value recorded for a saved scenario. Value is nil when
// the metric has no finite result (a payback period that never arrives).
type Metric struct {
	ScenarioID string   `json:"scenario_id"`
	Name       string   `json:"metric_name"`
	Value      *float64 `json:"metric_value"`
}

// CategoryMetric returns the metric name for a category savings total.
func CategoryMetric(category string) string {
	return categoryMetricPrefix + category
}

// MetricDelta is the change in one metric between two saved scenarios.
// Previous or Current is nil when that side has no finite value.
type MetricDelta struct {
	Name      string   `json:"name"`
	Previous  *float64 `json:"previous"`
	Current   *float64 `json:"current"`
	Delta     float64  `json:"delta"`
	Direction string   `json:"direction"` // "improved", "regressed", "unchanged"
}

// ScenarioDiff pairs two saved scenarios with their metric deltas.
type ScenarioDiff struct {
	Previous *SavedScenario `json:"previous"`
	Current  *SavedScenario `json:"current"`
	Deltas   []MetricDelta  `json:"deltas"`
}
