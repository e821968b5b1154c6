// Package catalog defines the fixed reference set of automation use cases
// that a projection can select from.
package catalog

import (
	"fmt"
	"strings"
)

// Category groups use cases for the savings breakdown.
type Category string

// The closed set of use-case categories.
const (
	Efficiency Category = "efficiency"
	Safety     Category = "safety"
	Compliance Category = "compliance"
)

// Categories lists every category in display order.
var Categories = []Category{Efficiency, Safety, Compliance}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case Efficiency, Safety, Compliance:
		return true
	}
	return false
}

// Title returns the capitalized category name for display.
func (c Category) Title() string {
	s := string(c)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// UseCase is a single automation capability with its per-officer savings
// estimate.
type UseCase struct {
	ID                      string   `json:"id"`
	Name                    string   `json:"name"`
	Description             string   `json:"description"`
	AnnualSavingsPerOfficer float64  `json:"annual_savings_per_officer"`
	TimeSavingsHoursPerYear float64  `json:"time_savings_hours_per_year"`
	Category                Category `json:"category"`
}

// Default returns a copy of the reference catalog. Callers may modify the
// returned slice freely.
func Default() []UseCase {
	out := make([]UseCase, len(useCases))
	copy(out, useCases)
	return out
}

// DefaultSelection returns the IDs selected when the caller expresses no
// preference.
func DefaultSelection() []string {
	return []string{"voice-queries", "real-time-transcription", "policy-lookup"}
}

// Lookup returns the use case with the given ID from uses.
func Lookup(uses []UseCase, id string) (UseCase, bool) {
	for _, uc := range uses {
		if uc.ID == id {
			return uc, true
		}
	}
	return UseCase{}, false
}

// IDs returns the IDs of uses in catalog order.
func IDs(uses []UseCase) []string {
	ids := make([]string, len(uses))
	for i, uc := range uses {
		ids[i] = uc.ID
	}
	return ids
}

// Validate checks catalog invariants: non-empty unique IDs, non-negative
// savings and known categories. All problems are reported together.
func Validate(uses []UseCase) error {
	var problems []string
	seen := make(map[string]bool, len(uses))
	for i, uc := range uses {
		if uc.ID == "" {
			problems = append(problems, fmt.Sprintf("entry %d has an empty id", i))
		} else if seen[uc.ID] {
			problems = append(problems, fmt.Sprintf("duplicate id %q", uc.ID))
		}
		seen[uc.ID] = true

		if uc.AnnualSavingsPerOfficer < 0 {
			problems = append(problems, fmt.Sprintf("%s: negative annual savings %.2f", uc.ID, uc.AnnualSavingsPerOfficer))
		}
		if uc.TimeSavingsHoursPerYear < 0 {
			problems = append(problems, fmt.Sprintf("%s: negative time savings %.2f", uc.ID, uc.TimeSavingsHoursPerYear))
		}
		if !uc.Category.Valid() {
			problems = append(problems, fmt.Sprintf("%s: unknown category %q", uc.ID, uc.Category))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid catalog: %s", strings.Join(problems, "; "))
	}
	return nil
}
