// Package watcher monitors a scenario file, recomputing its projections when
// the file changes and emitting alerts for notable movements.
package watcher

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/blackwell-systems/roicalc/internal/projection"
	"github.com/blackwell-systems/roicalc/internal/scenario"
)

// Alert levels.
const (
	LevelInfo     = "info"
	LevelWarning  = "warning"
	LevelCritical = "critical"
)

// ScenarioState is the headline figures of one evaluated scenario.
type ScenarioState struct {
	Name          string
	SelectedCount int
	NetAnnual     float64
	ROI           float64
	Payback       projection.Months
}

// WatchState captures the evaluated contents of the scenario file.
type WatchState struct {
	Timestamp time.Time
	ModTime   time.Time
	Order     []string // scenario names in file order
	Scenarios map[string]ScenarioState
}

// Alert represents a notable event detected by the watcher.
type Alert struct {
	Level   string // "info", "warning", "critical"
	Title   string
	Message string
	Time    time.Time
}

// Watcher polls a scenario file at a regular interval and emits alerts when
// its projections change.
type Watcher struct {
	path          string
	interval      time.Duration
	eval          *scenario.Evaluator
	previous      *WatchState
	lastMod       time.Time
	alertFn       func(Alert)     // callback for emitting alerts
	lastAlertKeys map[string]bool // dedup: suppress repeated identical alerts

	// PaybackWarningMonths is the payback threshold; 0 disables payback alerts.
	PaybackWarningMonths float64
}

// New creates a Watcher for the scenario file at path.
func New(path string, interval time.Duration, eval *scenario.Evaluator, alertFn func(Alert)) *Watcher {
	return &Watcher{
		path:          path,
		interval:      interval,
		eval:          eval,
		alertFn:       alertFn,
		lastAlertKeys: make(map[string]bool),
	}
}

// Previous returns the last successfully evaluated state, or nil.
func (w *Watcher) Previous() *WatchState {
	return w.previous
}

// Run takes an initial snapshot, then checks at every interval. Blocks until
// ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	initial, err := w.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("initial snapshot: %w", err)
	}
	w.previous = initial
	w.lastMod = initial.ModTime

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for _, a := range w.Check(ctx) {
				if w.alertFn != nil {
					w.alertFn(a)
				}
			}
		}
	}
}

// Check performs a single cycle. It returns nothing when the file has not
// been modified since the last cycle. Otherwise it reloads, compares against
// the previous state and returns any alerts. Identical alerts are suppressed
// until the underlying data changes.
func (w *Watcher) Check(ctx context.Context) []Alert {
	info, err := os.Stat(w.path)
	if err != nil {
		return w.dedup([]Alert{{
			Level:   LevelWarning,
			Title:   "Scenario file unavailable",
			Message: err.Error(),
			Time:    time.Now(),
		}})
	}
	if w.previous != nil && info.ModTime().Equal(w.lastMod) {
		return nil
	}
	w.lastMod = info.ModTime()

	curr, err := w.Snapshot(ctx)
	if err != nil {
		return w.dedup([]Alert{{
			Level:   LevelWarning,
			Title:   "Scenario file failed to load",
			Message: err.Error(),
			Time:    time.Now(),
		}})
	}

	var raw []Alert
	if w.previous != nil {
		raw = Compare(w.previous, curr, w.PaybackWarningMonths)
	}
	w.previous = curr
	return w.dedup(raw)
}

// dedup drops alerts identical to ones emitted by the previous cycle.
func (w *Watcher) dedup(raw []Alert) []Alert {
	currentKeys := make(map[string]bool, len(raw))
	var alerts []Alert
	for _, a := range raw {
		key := a.Level + ":" + a.Title + ":" + a.Message
		currentKeys[key] = true
		if !w.lastAlertKeys[key] {
			alerts = append(alerts, a)
		}
	}
	w.lastAlertKeys = currentKeys
	return alerts
}

// Snapshot loads and evaluates the scenario file.
func (w *Watcher) Snapshot(ctx context.Context) (*WatchState, error) {
	info, err := os.Stat(w.path)
	if err != nil {
		return nil, err
	}

	scenarios, err := scenario.Load(w.path)
	if err != nil {
		return nil, err
	}
	results, err := w.eval.EvaluateAll(ctx, scenarios)
	if err != nil {
		return nil, fmt.Errorf("evaluating scenarios: %w", err)
	}

	state := &WatchState{
		Timestamp: time.Now(),
		ModTime:   info.ModTime(),
		Order:     make([]string, 0, len(results)),
		Scenarios: make(map[string]ScenarioState, len(results)),
	}
	for _, r := range results {
		p := r.Projection
		state.Order = append(state.Order, r.Scenario.Name)
		state.Scenarios[r.Scenario.Name] = ScenarioState{
			Name:          r.Scenario.Name,
			SelectedCount: p.SelectedCount,
			NetAnnual:     p.NetAnnualSavings,
			ROI:           p.ThreeYearROI,
			Payback:       p.PaybackMonths,
		}
	}
	return state, nil
}
