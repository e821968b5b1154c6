package scenario

import (
	"context"
	"fmt"

	"github.com/blackwell-systems/roicalc/internal/catalog"
	"github.com/blackwell-systems/roicalc/internal/input"
	"github.com/blackwell-systems/roicalc/internal/projection"
	"golang.org/x/sync/errgroup"
)

// maxWorkers bounds the goroutines used for batch evaluation.
const maxWorkers = 8

// Result pairs a scenario with its projection.
type Result struct {
	Scenario   Scenario              `json:"scenario"`
	Projection projection.Projection `json:"projection"`
}

// Evaluator runs scenarios against a fixed catalog and cost rates.
type Evaluator struct {
	Catalog  []catalog.UseCase
	Rates    projection.Rates
	Defaults Defaults
}

// Evaluate computes the projection for a single scenario.
func (e *Evaluator) Evaluate(s Scenario) Result {
	params, sel := s.Resolve(e.Defaults)
	return Result{
		Scenario:   s,
		Projection: projection.ComputeWithRates(e.Catalog, sel, params, e.Rates),
	}
}

// EvaluateAll computes every scenario concurrently. Results keep the input
// order. It stops early if ctx is cancelled.
func (e *Evaluator) EvaluateAll(ctx context.Context, scenarios []Scenario) ([]Result, error) {
	results := make([]Result, len(scenarios))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)
	for i, s := range scenarios {
		i, s := i, s
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = e.Evaluate(s)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// SweepPoint is one row of an officer-count sweep.
type SweepPoint struct {
	OfficerCount int                   `json:"officer_count"`
	Projection   projection.Projection `json:"projection"`
}

// Sweep computes the projection for sel at each officer count in
// [from, to] stepping by step. Counts are clamped to the input bounds and
// repeated counts after clamping are dropped.
func (e *Evaluator) Sweep(ctx context.Context, sel projection.Selection, avgSalary float64, from, to, step int) ([]SweepPoint, error) {
	if step <= 0 {
		return nil, fmt.Errorf("step must be positive, got %d", step)
	}
	if to < from {
		return nil, fmt.Errorf("range end %d is before start %d", to, from)
	}

	if from < input.MinOfficers {
		from = input.MinOfficers
	}

	var counts []int
	seen := make(map[int]bool)
	for n := from; n <= to; n += step {
		c := input.ClampOfficerCount(n)
		if !seen[c] {
			seen[c] = true
			counts = append(counts, c)
		}
		if n > input.MaxOfficers {
			break
		}
	}

	points := make([]SweepPoint, len(counts))
	salary := input.ClampAvgSalary(avgSalary)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)
	for i, n := range counts {
		i, n := i, n
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			params := projection.Params{OfficerCount: n, AvgSalary: salary}
			points[i] = SweepPoint{
				OfficerCount: n,
				Projection:   projection.ComputeWithRates(e.Catalog, sel, params, e.Rates),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}
