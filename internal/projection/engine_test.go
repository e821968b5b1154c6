package projection

import (
	"encoding/json"
	"math"
	"sync"
	"testing"

	"github.com/blackwell-systems/roicalc/internal/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultSelection() Selection {
	return NewSelection(catalog.DefaultSelection()...)
}

func allSelection(uses []catalog.UseCase) Selection {
	return NewSelection(catalog.IDs(uses)...)
}

func TestCompute_ReferenceScenario(t *testing.T) {
	uses := catalog.Default()
	p := Compute(uses, defaultSelection(), Params{OfficerCount: 100, AvgSalary: 75000})

	assert.Equal(t, 3, p.SelectedCount)
	assert.Equal(t, 1_020_000.0, p.TotalAnnualSavings)
	assert.Equal(t, 35_600.0, p.TotalTimeSavings)
	assert.Equal(t, 50_000.0, p.ImplementationCost)
	assert.Equal(t, 120_000.0, p.AnnualLicenseCost)
	assert.Equal(t, 850_000.0, p.NetFirstYearSavings)
	assert.Equal(t, 900_000.0, p.NetAnnualSavings)
	assert.InDelta(t, 2_650_000.0/410_000.0*100, p.ThreeYearROI, 1e-9)
	assert.InDelta(t, 646.3, p.ThreeYearROI, 0.05)
	require.True(t, p.PaybackMonths.Valid())
	assert.InDelta(t, 2.0, float64(p.PaybackMonths), 1e-12)

	eff, ok := p.Category(catalog.Efficiency)
	require.True(t, ok)
	assert.Equal(t, 780_000.0, eff.Total)
	assert.Len(t, eff.UseCases, 2)

	comp, ok := p.Category(catalog.Compliance)
	require.True(t, ok)
	assert.Equal(t, 240_000.0, comp.Total)

	safety, ok := p.Category(catalog.Safety)
	require.True(t, ok)
	assert.Equal(t, 0.0, safety.Total)
	assert.Equal(t, 0.0, safety.Percentage)
	assert.Empty(t, safety.UseCases)
}

func TestCompute_EmptySelection(t *testing.T) {
	uses := catalog.Default()
	for _, officers := range []int{1, 7, 100, 10000} {
		p := Compute(uses, NewSelection(), Params{OfficerCount: officers, AvgSalary: 75000})

		assert.Zero(t, p.SelectedCount)
		assert.Zero(t, p.TotalAnnualSavings)
		assert.Zero(t, p.TotalTimeSavings)
		assert.False(t, p.PaybackMonths.Valid(), "payback must be the sentinel, got %v", p.PaybackMonths)
		assert.Equal(t, NoPayback, p.PaybackMonths)
		assert.False(t, math.IsNaN(p.ThreeYearROI))

		require.Len(t, p.ByCategory, 3)
		for _, b := range p.ByCategory {
			assert.Zero(t, b.Total)
			assert.Zero(t, b.Percentage)
			assert.False(t, math.IsNaN(b.Percentage))
		}
	}
}

func TestCompute_NilSelection(t *testing.T) {
	p := Compute(catalog.Default(), nil, Params{OfficerCount: 10})
	assert.Zero(t, p.TotalAnnualSavings)
	assert.Equal(t, NoPayback, p.PaybackMonths)
}

func TestCompute_EmptyCatalog(t *testing.T) {
	p := Compute(nil, defaultSelection(), Params{OfficerCount: 10})
	assert.Zero(t, p.SelectedCount)
	assert.Zero(t, p.TotalAnnualSavings)
	assert.Equal(t, 5_000.0, p.ImplementationCost)
	assert.Equal(t, 12_000.0, p.AnnualLicenseCost)
}

func TestCompute_UnknownIDsIgnored(t *testing.T) {
	uses := catalog.Default()
	base := Compute(uses, defaultSelection(), Params{OfficerCount: 50})

	sel := defaultSelection()
	sel.Add("teleportation")
	sel.Add("")
	withUnknown := Compute(uses, sel, Params{OfficerCount: 50})

	assert.Equal(t, base.TotalAnnualSavings, withUnknown.TotalAnnualSavings)
	assert.Equal(t, base.SelectedCount, withUnknown.SelectedCount)
}

func TestCompute_ClampsOfficerCount(t *testing.T) {
	uses := catalog.Default()
	one := Compute(uses, defaultSelection(), Params{OfficerCount: 1})

	for _, officers := range []int{0, -1, -500} {
		p := Compute(uses, defaultSelection(), Params{OfficerCount: officers})
		assert.Equal(t, 1, p.OfficerCount)
		assert.Equal(t, one.TotalAnnualSavings, p.TotalAnnualSavings)
		assert.Equal(t, one.ImplementationCost, p.ImplementationCost)
		assert.Greater(t, p.ImplementationCost+p.AnnualLicenseCost*3, 0.0)
	}
}

func TestCompute_Monotonic(t *testing.T) {
	uses := catalog.Default()
	params := Params{OfficerCount: 42, AvgSalary: 60000}

	// Grow the selection one entry at a time; totals never decrease.
	sel := NewSelection()
	prev := Compute(uses, sel, params)
	for _, uc := range uses {
		sel.Add(uc.ID)
		curr := Compute(uses, sel, params)
		assert.GreaterOrEqual(t, curr.TotalAnnualSavings, prev.TotalAnnualSavings)
		assert.GreaterOrEqual(t, curr.TotalTimeSavings, prev.TotalTimeSavings)
		prev = curr
	}

	full := Compute(uses, allSelection(uses), params)
	assert.Equal(t, prev.TotalAnnualSavings, full.TotalAnnualSavings)
}

func TestCompute_LinearInOfficerCount(t *testing.T) {
	uses := catalog.Default()
	sel := allSelection(uses)
	base := Compute(uses, sel, Params{OfficerCount: 10, AvgSalary: 75000})

	for _, k := range []int{2, 3, 10, 250} {
		p := Compute(uses, sel, Params{OfficerCount: 10 * k, AvgSalary: 75000})
		f := float64(k)
		assert.InDelta(t, base.TotalAnnualSavings*f, p.TotalAnnualSavings, 1e-6)
		assert.InDelta(t, base.TotalTimeSavings*f, p.TotalTimeSavings, 1e-6)
		assert.InDelta(t, base.ImplementationCost*f, p.ImplementationCost, 1e-6)
		assert.InDelta(t, base.AnnualLicenseCost*f, p.AnnualLicenseCost, 1e-6)
		assert.Equal(t, float64(10*k)*DefaultImplementationPerOfficer, p.ImplementationCost)
		assert.Equal(t, float64(10*k)*DefaultLicensePerOfficer, p.AnnualLicenseCost)
		// Ratios are scale-free.
		assert.InDelta(t, base.ThreeYearROI, p.ThreeYearROI, 1e-9)
		assert.InDelta(t, float64(base.PaybackMonths), float64(p.PaybackMonths), 1e-9)
	}
}

func TestCompute_CategorySumEqualsTotal(t *testing.T) {
	uses := catalog.Default()
	selections := []Selection{
		NewSelection(),
		defaultSelection(),
		allSelection(uses),
		NewSelection("translation", "bolo-alerts"),
		NewSelection("evidence-tagging"),
	}

	for _, sel := range selections {
		p := Compute(uses, sel, Params{OfficerCount: 137})
		var sum, pct float64
		for _, b := range p.ByCategory {
			sum += b.Total
			pct += b.Percentage
		}
		assert.InDelta(t, p.TotalAnnualSavings, sum, 1e-6)
		if p.TotalAnnualSavings > 0 {
			assert.InDelta(t, 100.0, pct, 1e-9)
		} else {
			assert.Zero(t, pct)
		}
	}
}

func TestCompute_FractionalAmountsSumExactly(t *testing.T) {
	uses := []catalog.UseCase{
		{ID: "a", AnnualSavingsPerOfficer: 0.1, TimeSavingsHoursPerYear: 0.1, Category: catalog.Efficiency},
		{ID: "b", AnnualSavingsPerOfficer: 0.2, TimeSavingsHoursPerYear: 0.2, Category: catalog.Efficiency},
		{ID: "c", AnnualSavingsPerOfficer: 0.3, Category: catalog.Safety},
		{ID: "d", AnnualSavingsPerOfficer: 0.7, Category: catalog.Compliance},
	}
	p := Compute(uses, NewSelection("a", "b", "c", "d"), Params{OfficerCount: 3})

	assert.Equal(t, 3.9, p.TotalAnnualSavings)
	assert.Equal(t, 0.9, p.TotalTimeSavings)
	require.Len(t, p.ByCategory, 3)
	assert.Equal(t, 0.9, p.ByCategory[0].Total)
	assert.Equal(t, 0.9, p.ByCategory[1].Total)
	assert.Equal(t, 2.1, p.ByCategory[2].Total)

	sum := decimal.Zero
	for _, b := range p.ByCategory {
		sum = sum.Add(decimal.NewFromFloat(b.Total))
	}
	assert.True(t, sum.Equal(decimal.NewFromFloat(p.TotalAnnualSavings)),
		"category totals %s != total %v", sum, p.TotalAnnualSavings)
}

func TestSelection_ToggleAndClone(t *testing.T) {
	s := NewSelection("voice-queries")

	assert.False(t, s.Toggle("voice-queries"))
	assert.False(t, s.Has("voice-queries"))
	assert.True(t, s.Toggle("translation"))
	assert.Equal(t, []string{"translation"}, s.IDs())

	c := s.Clone()
	c.Add("bolo-alerts")
	c.Remove("translation")
	assert.Equal(t, []string{"translation"}, s.IDs(), "clone must not share storage")
	assert.Equal(t, []string{"bolo-alerts"}, c.IDs())

	var empty Selection
	assert.NotNil(t, empty.Clone())
	assert.Zero(t, empty.Clone().Len())
}

func TestCompute_CategoryOrderFixed(t *testing.T) {
	p := Compute(catalog.Default(), NewSelection("evidence-tagging"), Params{OfficerCount: 1})
	require.Len(t, p.ByCategory, 3)
	assert.Equal(t, catalog.Efficiency, p.ByCategory[0].Category)
	assert.Equal(t, catalog.Safety, p.ByCategory[1].Category)
	assert.Equal(t, catalog.Compliance, p.ByCategory[2].Category)
	assert.Equal(t, 100.0, p.ByCategory[2].Percentage)
}

func TestCompute_Idempotent(t *testing.T) {
	uses := catalog.Default()
	sel := allSelection(uses)
	params := Params{OfficerCount: 333, AvgSalary: 81000}

	first := Compute(uses, sel, params)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Compute(uses, sel, params))
	}
}

func TestCompute_DoesNotMutateInputs(t *testing.T) {
	uses := catalog.Default()
	before := catalog.Default()
	sel := NewSelection("voice-queries", "translation")

	_ = Compute(uses, sel, Params{OfficerCount: 5})

	assert.Equal(t, before, uses)
	assert.Equal(t, []string{"translation", "voice-queries"}, sel.IDs())
}

func TestCompute_SelectionOrderIrrelevant(t *testing.T) {
	uses := catalog.Default()
	a := Compute(uses, NewSelection("policy-lookup", "voice-queries", "translation"), Params{OfficerCount: 9})
	b := Compute(uses, NewSelection("translation", "voice-queries", "policy-lookup", "voice-queries"), Params{OfficerCount: 9})
	assert.Equal(t, a, b)
}

func TestCompute_AvgSalaryPassThrough(t *testing.T) {
	uses := catalog.Default()
	low := Compute(uses, defaultSelection(), Params{OfficerCount: 100, AvgSalary: 30000})
	high := Compute(uses, defaultSelection(), Params{OfficerCount: 100, AvgSalary: 200000})

	assert.Equal(t, 30000.0, low.AvgSalary)
	assert.Equal(t, 200000.0, high.AvgSalary)
	assert.Equal(t, low.TotalAnnualSavings, high.TotalAnnualSavings)
	assert.Equal(t, low.ThreeYearROI, high.ThreeYearROI)
}

func TestCompute_Concurrent(t *testing.T) {
	uses := catalog.Default()
	sel := allSelection(uses)
	want := Compute(uses, sel, Params{OfficerCount: 100})

	var wg sync.WaitGroup
	results := make([]Projection, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Compute(uses, sel, Params{OfficerCount: 100})
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestComputeWithRates_ZeroRates(t *testing.T) {
	uses := catalog.Default()

	p := ComputeWithRates(uses, defaultSelection(), Params{OfficerCount: 10}, Rates{})
	assert.Zero(t, p.ImplementationCost)
	assert.Zero(t, p.AnnualLicenseCost)
	assert.Zero(t, p.ThreeYearROI, "ROI is defined as 0 when the horizon cost is 0")
	require.True(t, p.PaybackMonths.Valid())
	assert.Zero(t, float64(p.PaybackMonths))

	empty := ComputeWithRates(uses, NewSelection(), Params{OfficerCount: 10}, Rates{})
	assert.Equal(t, NoPayback, empty.PaybackMonths)
}

func TestComputeWithRates_CustomRates(t *testing.T) {
	rates := Rates{ImplementationPerOfficer: 1000, LicensePerOfficer: 2400}
	p := ComputeWithRates(catalog.Default(), defaultSelection(), Params{OfficerCount: 100}, rates)

	assert.Equal(t, 100_000.0, p.ImplementationCost)
	assert.Equal(t, 240_000.0, p.AnnualLicenseCost)
	assert.Equal(t, rates, p.Rates)
	// (1,020,000 - 340,000) + 2*(1,020,000 - 240,000) over 100,000 + 3*240,000
	assert.InDelta(t, 2_240_000.0/820_000.0*100, p.ThreeYearROI, 1e-9)
	assert.InDelta(t, 4.0, float64(p.PaybackMonths), 1e-12)
}

func TestCompute_NegativeNet(t *testing.T) {
	// Radio control alone saves less than the license costs.
	p := Compute(catalog.Default(), NewSelection("radio-control"), Params{OfficerCount: 10})
	assert.Equal(t, 12_000.0, p.TotalAnnualSavings)
	assert.Equal(t, 0.0, p.NetAnnualSavings)
	assert.Equal(t, -5_000.0, p.NetFirstYearSavings)
	assert.Less(t, p.ThreeYearROI, 0.0)
	assert.InDelta(t, 17.0, float64(p.PaybackMonths), 1e-12)
}

func TestMonths_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		A Months `json:"a"`
		B Months `json:"b"`
	}{A: 2.5, B: NoPayback})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2.5,"b":null}`, string(data))

	var decoded struct {
		A Months `json:"a"`
		B Months `json:"b"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, Months(2.5), decoded.A)
	assert.False(t, decoded.B.Valid())
}

func TestProjection_JSONEmptySelection(t *testing.T) {
	p := Compute(catalog.Default(), NewSelection(), Params{OfficerCount: 1})
	data, err := json.Marshal(p)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Nil(t, raw["payback_months"])
	assert.Equal(t, []any{}, raw["selected"])
}
