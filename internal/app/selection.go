package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/blackwell-systems/roicalc/internal/catalog"
	"github.com/blackwell-systems/roicalc/internal/config"
	"github.com/blackwell-systems/roicalc/internal/input"
	"github.com/blackwell-systems/roicalc/internal/projection"
	"github.com/blackwell-systems/roicalc/internal/scenario"
)

// selectionFlags are the use case selection flags shared by project and sweep.
type selectionFlags struct {
	useCases []string
	all      bool
	none     bool
	toggles  []string
}

// resolve returns the selection the flags describe, falling back to the
// configured default. Setting more than one of --all, --none and
// --use-case is an error.
func (f selectionFlags) resolve(uses []catalog.UseCase, defaults []string) (projection.Selection, error) {
	set := 0
	for _, b := range []bool{f.all, f.none, len(f.useCases) > 0} {
		if b {
			set++
		}
	}
	if set > 1 {
		return nil, fmt.Errorf("--all, --none and --use-case are mutually exclusive")
	}

	switch {
	case f.all:
		return projection.NewSelection(catalog.IDs(uses)...), nil
	case f.none:
		return projection.NewSelection(), nil
	case len(f.useCases) > 0:
		return input.NormalizeSelection(f.useCases), nil
	default:
		return input.NormalizeSelection(defaults), nil
	}
}

// applyToggles returns a copy of sel with each --toggle ID flipped in order.
// A repeated ID flips back.
func (f selectionFlags) applyToggles(sel projection.Selection) projection.Selection {
	if len(f.toggles) == 0 {
		return sel
	}
	out := sel.Clone()
	for _, id := range f.toggles {
		if id = strings.TrimSpace(id); id != "" {
			out.Toggle(id)
		}
	}
	return out
}

// warnUnknown prints a warning for selected IDs the catalog does not have.
func warnUnknown(uses []catalog.UseCase, sel projection.Selection) {
	var unknown []string
	for _, id := range sel.IDs() {
		if _, ok := catalog.Lookup(uses, id); !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		fmt.Fprintf(os.Stderr, "warning: ignoring unknown use case(s): %s\n", strings.Join(unknown, ", "))
	}
}

// newEvaluator builds a scenario evaluator from cfg.
func newEvaluator(cfg *config.Config) *scenario.Evaluator {
	return &scenario.Evaluator{
		Catalog: catalog.Default(),
		Rates:   cfg.ProjectionRates(),
		Defaults: scenario.Defaults{
			Params:   cfg.DefaultParams(),
			UseCases: cfg.Defaults.UseCases,
		},
	}
}
