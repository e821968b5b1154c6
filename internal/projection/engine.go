package projection

import (
	"github.com/blackwell-systems/roicalc/internal/catalog"
	"github.com/shopspring/decimal"
)

// Compute returns the projection for the use cases in uses whose IDs are in
// sel, using the default cost rates.
func Compute(uses []catalog.UseCase, sel Selection, p Params) Projection {
	return ComputeWithRates(uses, sel, p, DefaultRates())
}

// ComputeWithRates is Compute with explicit cost rates.
//
// An officer count below 1 is treated as 1. IDs in sel that are not in uses
// are ignored. An empty selection yields zero savings and a NoPayback
// payback period.
func ComputeWithRates(uses []catalog.UseCase, sel Selection, p Params, rates Rates) Projection {
	officers := p.OfficerCount
	if officers < 1 {
		officers = 1
	}
	n := decimal.NewFromInt(int64(officers))

	selected := make([]catalog.UseCase, 0, len(uses))
	hoursPerOfficer := decimal.Zero
	for _, uc := range uses {
		if !sel.Has(uc.ID) {
			continue
		}
		selected = append(selected, uc)
		hoursPerOfficer = hoursPerOfficer.Add(decimal.NewFromFloat(uc.TimeSavingsHoursPerYear))
	}

	// The total is the sum of the category totals, so the breakdown always
	// adds up to it exactly.
	byCategory, totalSavings := breakdown(selected, n)

	impl := n.Mul(decimal.NewFromFloat(rates.ImplementationPerOfficer))
	license := n.Mul(decimal.NewFromFloat(rates.LicensePerOfficer))
	netFirstYear := totalSavings.Sub(impl).Sub(license)
	netAnnual := totalSavings.Sub(license)

	proj := Projection{
		OfficerCount:        officers,
		AvgSalary:           p.AvgSalary,
		Rates:               rates,
		SelectedCount:       len(selected),
		Selected:            selected,
		TotalAnnualSavings:  totalSavings.InexactFloat64(),
		TotalTimeSavings:    hoursPerOfficer.Mul(n).InexactFloat64(),
		ImplementationCost:  impl.InexactFloat64(),
		AnnualLicenseCost:   license.InexactFloat64(),
		NetFirstYearSavings: netFirstYear.InexactFloat64(),
		NetAnnualSavings:    netAnnual.InexactFloat64(),
		ByCategory:          byCategory,
	}

	// Net benefit over the horizon divided by total cost over the horizon.
	horizonCost := impl.Add(license.Mul(decimal.NewFromInt(ROIHorizonYears)))
	if horizonCost.IsPositive() {
		horizonNet := netFirstYear.Add(netAnnual.Mul(decimal.NewFromInt(ROIHorizonYears - 1)))
		proj.ThreeYearROI = horizonNet.InexactFloat64() / horizonCost.InexactFloat64() * 100
	}

	proj.PaybackMonths = paybackMonths(proj.ImplementationCost+proj.AnnualLicenseCost, proj.TotalAnnualSavings)

	return proj
}

// paybackMonths returns first-year cost divided by monthly savings.
func paybackMonths(firstYearCost, annualSavings float64) Months {
	if annualSavings <= 0 {
		return NoPayback
	}
	return Months(firstYearCost / (annualSavings / 12))
}

// breakdown partitions selected into the fixed category buckets and
// returns them with their exact sum.
func breakdown(selected []catalog.UseCase, officers decimal.Decimal) ([]CategoryBreakdown, decimal.Decimal) {
	out := make([]CategoryBreakdown, len(catalog.Categories))
	totals := make([]decimal.Decimal, len(catalog.Categories))
	for i, c := range catalog.Categories {
		out[i] = CategoryBreakdown{Category: c, UseCases: []catalog.UseCase{}}
		totals[i] = decimal.Zero
	}

	for _, uc := range selected {
		for i := range out {
			if out[i].Category == uc.Category {
				out[i].UseCases = append(out[i].UseCases, uc)
				totals[i] = totals[i].Add(decimal.NewFromFloat(uc.AnnualSavingsPerOfficer))
				break
			}
		}
	}

	sum := decimal.Zero
	for i := range totals {
		totals[i] = totals[i].Mul(officers)
		sum = sum.Add(totals[i])
	}

	hundred := decimal.NewFromInt(100)
	for i := range out {
		out[i].Total = totals[i].InexactFloat64()
		if sum.IsPositive() {
			out[i].Percentage = totals[i].Div(sum).Mul(hundred).InexactFloat64()
		}
	}
	return out, sum
}
