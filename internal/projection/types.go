// Package projection computes the financial projection for a selection of
// catalog use cases: savings, costs, three-year ROI, payback period and a
// per-category breakdown.
//
// Compute is a pure function. It reads no global state and never mutates its
// arguments, so it is safe to call from any number of goroutines.
package projection

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/blackwell-systems/roicalc/internal/catalog"
)

// Fixed per-officer cost rates.
const (
	DefaultImplementationPerOfficer = 500.0
	DefaultLicensePerOfficer        = 1200.0
)

// ROIHorizonYears is the window over which ThreeYearROI is evaluated.
const ROIHorizonYears = 3

// Rates are the per-officer cost rates applied to every projection.
type Rates struct {
	// ImplementationPerOfficer is the one-time cost per officer.
	ImplementationPerOfficer float64 `json:"implementation_per_officer"`
	// LicensePerOfficer is the recurring annual cost per officer.
	LicensePerOfficer float64 `json:"license_per_officer"`
}

// DefaultRates returns the reference cost rates.
func DefaultRates() Rates {
	return Rates{
		ImplementationPerOfficer: DefaultImplementationPerOfficer,
		LicensePerOfficer:        DefaultLicensePerOfficer,
	}
}

// Params are the scalar inputs to a projection.
type Params struct {
	OfficerCount int `json:"officer_count"`
	// AvgSalary is carried through to the projection but not used by any
	// formula yet.
	AvgSalary float64 `json:"avg_salary"`
}

// Months is a duration in months. The value NoPayback marks a payback period
// that never arrives.
type Months float64

// NoPayback is the payback sentinel used when there are no savings to
// recover costs from.
var NoPayback = Months(math.Inf(1))

// Valid reports whether m is a finite number of months.
func (m Months) Valid() bool {
	f := float64(m)
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// MarshalJSON encodes the sentinel as null.
func (m Months) MarshalJSON() ([]byte, error) {
	if !m.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(m))
}

// UnmarshalJSON decodes null as the sentinel.
func (m *Months) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = NoPayback
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*m = Months(f)
	return nil
}

// CategoryBreakdown is one category's share of the selected savings.
type CategoryBreakdown struct {
	Category catalog.Category  `json:"category"`
	UseCases []catalog.UseCase `json:"use_cases"`
	// Total is the organization-wide annual savings for this category.
	Total float64 `json:"total"`
	// Percentage is Total as a share of TotalAnnualSavings, 0 when there are
	// no savings.
	Percentage float64 `json:"percentage"`
}

// Projection is the computed result for one (catalog, selection, params)
// tuple. It has no identity beyond the call that produced it.
type Projection struct {
	OfficerCount int     `json:"officer_count"`
	AvgSalary    float64 `json:"avg_salary"`
	Rates        Rates   `json:"rates"`

	SelectedCount int               `json:"selected_count"`
	Selected      []catalog.UseCase `json:"selected"`

	TotalAnnualSavings float64 `json:"total_annual_savings"`
	TotalTimeSavings   float64 `json:"total_time_savings"`

	ImplementationCost float64 `json:"implementation_cost"`
	AnnualLicenseCost  float64 `json:"annual_license_cost"`

	NetFirstYearSavings float64 `json:"net_first_year_savings"`
	NetAnnualSavings    float64 `json:"net_annual_savings"`

	ThreeYearROI  float64 `json:"three_year_roi"`
	PaybackMonths Months  `json:"payback_months"`

	ByCategory []CategoryBreakdown `json:"by_category"`
}

// Category returns the breakdown entry for c.
func (p Projection) Category(c catalog.Category) (CategoryBreakdown, bool) {
	for _, b := range p.ByCategory {
		if b.Category == c {
			return b, true
		}
	}
	return CategoryBreakdown{}, false
}

// Selection is a set of use-case IDs.
type Selection map[string]struct{}

// NewSelection returns a selection containing ids. Duplicates collapse.
func NewSelection(ids ...string) Selection {
	s := make(Selection, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is selected. A nil selection selects nothing.
func (s Selection) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add selects id.
func (s Selection) Add(id string) {
	s[id] = struct{}{}
}

// Remove deselects id.
func (s Selection) Remove(id string) {
	delete(s, id)
}

// Toggle flips id's membership and reports whether it is now selected.
func (s Selection) Toggle(id string) bool {
	if s.Has(id) {
		s.Remove(id)
		return false
	}
	s.Add(id)
	return true
}

// Len returns the number of selected IDs.
func (s Selection) Len() int {
	return len(s)
}

// IDs returns the selected IDs in sorted order.
func (s Selection) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns an independent copy of s.
func (s Selection) Clone() Selection {
	c := make(Selection, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}
