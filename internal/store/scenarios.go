package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/blackwell-systems/roicalc/internal/projection"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// SaveScenario stores a projection under name together with its metrics and
// returns the saved row.
func (db *DB) SaveScenario(name, version string, p projection.Projection) (*SavedScenario, error) {
	ids := make([]string, 0, len(p.Selected))
	for _, uc := range p.Selected {
		ids = append(ids, uc.ID)
	}
	useCases, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("encoding use cases: %w", err)
	}

	s := &SavedScenario{
		ID:           uuid.NewString(),
		SavedAt:      time.Now().UTC().Truncate(time.Second),
		Name:         name,
		OfficerCount: p.OfficerCount,
		AvgSalary:    p.AvgSalary,
		UseCases:     ids,
		Version:      version,
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`INSERT INTO scenarios
		(id, seq, saved_at, name, officer_count, avg_salary, use_cases, version)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM scenarios), ?, ?, ?, ?, ?, ?)`,
		s.ID, s.SavedAt.Format(time.RFC3339), s.Name, s.OfficerCount, s.AvgSalary,
		string(useCases), s.Version,
	); err != nil {
		return nil, fmt.Errorf("inserting scenario: %w", err)
	}

	for _, m := range ProjectionMetrics(p) {
		var value any
		if m.Value != nil {
			value = *m.Value
		}
		if _, err := tx.Exec(
			"INSERT INTO scenario_metrics (scenario_id, metric_name, metric_value) VALUES (?, ?, ?)",
			s.ID, m.Name, value,
		); err != nil {
			return nil, fmt.Errorf("inserting metric %s: %w", m.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s, nil
}

const scenarioColumns = "id, saved_at, name, officer_count, avg_salary, use_cases, version"

// GetScenario returns a saved scenario by ID, or ErrScenarioNotFound.
func (db *DB) GetScenario(id string) (*SavedScenario, error) {
	row := db.conn.QueryRow("SELECT "+scenarioColumns+" FROM scenarios WHERE id = ?", id)
	s, err := scanScenario(row)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: %s", ErrScenarioNotFound, id)
	}
	return s, nil
}

// GetScenarioN returns the Nth most recent scenario (1 = latest, 2 = previous,
// etc.), or nil if there are fewer than n.
func (db *DB) GetScenarioN(n int) (*SavedScenario, error) {
	if n < 1 {
		return nil, nil
	}
	row := db.conn.QueryRow(
		"SELECT "+scenarioColumns+" FROM scenarios ORDER BY seq DESC LIMIT 1 OFFSET ?",
		n-1,
	)
	return scanScenario(row)
}

// GetRecentScenarios returns up to limit scenarios, newest first.
func (db *DB) GetRecentScenarios(limit int) ([]SavedScenario, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := db.conn.Query(
		"SELECT "+scenarioColumns+" FROM scenarios ORDER BY seq DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var scenarios []SavedScenario
	for rows.Next() {
		s, err := scanScenario(rows)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, *s)
	}
	return scenarios, rows.Err()
}

// GetMetrics returns the metrics recorded for a scenario in insertion order.
func (db *DB) GetMetrics(scenarioID string) ([]Metric, error) {
	rows, err := db.conn.Query(
		"SELECT scenario_id, metric_name, metric_value FROM scenario_metrics WHERE scenario_id = ? ORDER BY id",
		scenarioID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var metrics []Metric
	for rows.Next() {
		var m Metric
		var value sql.NullFloat64
		if err := rows.Scan(&m.ScenarioID, &m.Name, &value); err != nil {
			return nil, err
		}
		if value.Valid {
			v := value.Float64
			m.Value = &v
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// ProjectionMetrics flattens a projection into the metrics that SaveScenario
// records. The payback period is nil when it never arrives.
func ProjectionMetrics(p projection.Projection) []Metric {
	value := func(v float64) *float64 { return &v }

	var payback *float64
	if p.PaybackMonths.Valid() {
		payback = value(float64(p.PaybackMonths))
	}

	metrics := []Metric{
		{Name: MetricTotalAnnualSavings, Value: value(p.TotalAnnualSavings)},
		{Name: MetricTotalTimeSavings, Value: value(p.TotalTimeSavings)},
		{Name: MetricImplementationCost, Value: value(p.ImplementationCost)},
		{Name: MetricAnnualLicenseCost, Value: value(p.AnnualLicenseCost)},
		{Name: MetricNetFirstYearSavings, Value: value(p.NetFirstYearSavings)},
		{Name: MetricNetAnnualSavings, Value: value(p.NetAnnualSavings)},
		{Name: MetricThreeYearROI, Value: value(p.ThreeYearROI)},
		{Name: MetricPaybackMonths, Value: payback},
		{Name: MetricSelectedCount, Value: value(float64(p.SelectedCount))},
	}
	for _, b := range p.ByCategory {
		metrics = append(metrics, Metric{Name: CategoryMetric(string(b.Category)), Value: value(b.Total)})
	}
	return metrics
}

// MetricMap indexes metrics by name.
func MetricMap(metrics []Metric) map[string]*float64 {
	m := make(map[string]*float64, len(metrics))
	for _, metric := range metrics {
		m[metric.Name] = metric.Value
	}
	return m
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScenario(row rowScanner) (*SavedScenario, error) {
	var s SavedScenario
	var savedAt, useCases string
	err := row.Scan(&s.ID, &savedAt, &s.Name, &s.OfficerCount, &s.AvgSalary, &useCases, &s.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.SavedAt, _ = time.Parse(time.RFC3339, savedAt)
	if err := json.Unmarshal([]byte(useCases), &s.UseCases); err != nil {
		return nil, fmt.Errorf("decoding use cases for %s: %w", s.ID, err)
	}
	if s.UseCases == nil {
		s.UseCases = []string{}
	}
	return &s, nil
}
