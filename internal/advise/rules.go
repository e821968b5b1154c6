package advise

import (
	"fmt"

	"github.com/blackwell-systems/roicalc/internal/catalog"
	"github.com/blackwell-systems/roicalc/internal/output"
	"github.com/blackwell-systems/roicalc/internal/projection"
)

// NegativeNetAnnual flags selections whose license cost outruns the savings
// every year.
func NegativeNetAnnual(ctx *Context) []Recommendation {
	p := ctx.Projection
	if p.SelectedCount == 0 || p.NetAnnualSavings >= 0 {
		return nil
	}
	return []Recommendation{{
		Rule:     "negative_net_annual",
		Priority: PriorityCritical,
		Title:    "Annual license cost exceeds savings",
		Description: fmt.Sprintf(
			"The selection saves %s a year against %s in licenses, a net loss of %s every year. "+
				"Add higher-value use cases or renegotiate the license rate.",
			output.Currency(p.TotalAnnualSavings), output.Currency(p.AnnualLicenseCost),
			output.Currency(-p.NetAnnualSavings),
		),
		ImpactScore: ComputeImpact(-p.NetAnnualSavings, 1.0, 1.0),
	}}
}

// NoSelection flags projections with nothing selected: licenses are paid but
// nothing is saved.
func NoSelection(ctx *Context) []Recommendation {
	p := ctx.Projection
	if p.SelectedCount > 0 {
		return nil
	}
	return []Recommendation{{
		Rule:     "no_selection",
		Priority: PriorityCritical,
		Title:    "No use cases selected",
		Description: fmt.Sprintf(
			"With nothing selected the deployment costs %s a year in licenses and saves nothing.",
			output.Currency(p.AnnualLicenseCost),
		),
		ImpactScore: ComputeImpact(p.AnnualLicenseCost, 1.0, 1.0),
	}}
}

// SlowPayback flags payback periods beyond the configured threshold,
// including selections that never pay back. A finite payback period with
// license costs at or above savings still never breaks even.
func SlowPayback(ctx *Context) []Recommendation {
	p := ctx.Projection
	limit := ctx.Thresholds.PaybackWarningMonths
	if p.SelectedCount == 0 || limit <= 0 {
		return nil
	}
	recovers := p.PaybackMonths.Valid() && p.NetAnnualSavings > 0
	if recovers && float64(p.PaybackMonths) <= limit {
		return nil
	}

	desc := fmt.Sprintf("The first-year cost of %s is never recovered.",
		output.Currency(p.ImplementationCost+p.AnnualLicenseCost))
	if recovers {
		desc = fmt.Sprintf("Payback takes %s, longer than the %.0f month target.",
			output.Months(p.PaybackMonths), limit)
	}
	return []Recommendation{{
		Rule:        "slow_payback",
		Priority:    PriorityHigh,
		Title:       "Payback period is too long",
		Description: desc,
		ImpactScore: ComputeImpact(p.ImplementationCost, 0.5, 1.0),
	}}
}

// LowROI flags a three-year ROI under the configured minimum.
func LowROI(ctx *Context) []Recommendation {
	p := ctx.Projection
	floor := ctx.Thresholds.MinROIPercent
	if p.SelectedCount == 0 || p.ThreeYearROI >= floor {
		return nil
	}

	horizonCost := p.ImplementationCost + p.AnnualLicenseCost*projection.ROIHorizonYears
	gap := (floor - p.ThreeYearROI) / 100 * horizonCost / projection.ROIHorizonYears
	return []Recommendation{{
		Rule:     "low_roi",
		Priority: PriorityMedium,
		Title:    "Three-year ROI below target",
		Description: fmt.Sprintf(
			"Three-year ROI is %s against a minimum of %s.",
			output.Percent(p.ThreeYearROI), output.Percent(floor),
		),
		ImpactScore: ComputeImpact(gap, 0.5, 1.0),
	}}
}

// HighestValueUnselected suggests the unselected use case with the largest
// per-officer savings.
func HighestValueUnselected(ctx *Context) []Recommendation {
	best, ok := bestUnselected(ctx, func(catalog.UseCase) bool { return true })
	if !ok {
		return nil
	}

	officers := float64(ctx.Projection.OfficerCount)
	value := best.AnnualSavingsPerOfficer * officers
	return []Recommendation{{
		Rule:      "highest_value_unselected",
		Priority:  PriorityMedium,
		Title:     fmt.Sprintf("Add %s", best.Name),
		UseCaseID: best.ID,
		Description: fmt.Sprintf(
			"%s would add %s a year and %s across %d officers.",
			best.Name, output.Currency(value),
			output.Hours(best.TimeSavingsHoursPerYear*officers), ctx.Projection.OfficerCount,
		),
		ImpactScore: ComputeImpact(value, 0.8, 1.0),
	}}
}

// CategoryGap suggests the best use case for each category the selection
// leaves empty.
func CategoryGap(ctx *Context) []Recommendation {
	p := ctx.Projection
	if p.SelectedCount == 0 {
		return nil
	}

	var recs []Recommendation
	for _, b := range p.ByCategory {
		if len(b.UseCases) > 0 {
			continue
		}
		cat := b.Category
		best, ok := bestUnselected(ctx, func(uc catalog.UseCase) bool { return uc.Category == cat })
		if !ok {
			continue
		}
		value := best.AnnualSavingsPerOfficer * float64(p.OfficerCount)
		recs = append(recs, Recommendation{
			Rule:      "category_gap",
			Priority:  PriorityLow,
			Title:     fmt.Sprintf("No %s use cases selected", cat.Title()),
			UseCaseID: best.ID,
			Description: fmt.Sprintf(
				"Consider %s to cover %s; it is worth %s a year.",
				best.Name, cat.Title(), output.Currency(value),
			),
			ImpactScore: ComputeImpact(value, 0.5, 1.0),
		})
	}
	return recs
}

// bestUnselected returns the unselected catalog entry with the highest
// per-officer savings among those matching keep. Ties go to catalog order.
func bestUnselected(ctx *Context, keep func(catalog.UseCase) bool) (catalog.UseCase, bool) {
	var best catalog.UseCase
	found := false
	for _, uc := range ctx.Catalog {
		if !keep(uc) || ctx.selected(uc.ID) {
			continue
		}
		if !found || uc.AnnualSavingsPerOfficer > best.AnnualSavingsPerOfficer {
			best = uc
			found = true
		}
	}
	return best, found
}
