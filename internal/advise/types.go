// Package advise provides the recommendation engine that reviews a
// projection and suggests changes to the selection.
package advise

import (
	"github.com/blackwell-systems/roicalc/internal/catalog"
	"github.com/blackwell-systems/roicalc/internal/projection"
)

// Priority levels for recommendations.
const (
	PriorityCritical = 1
	PriorityHigh     = 2
	PriorityMedium   = 3
	PriorityLow      = 4
)

// Recommendation is one actionable change to a projection's inputs.
type Recommendation struct {
	Rule        string  `json:"rule"`
	Priority    int     `json:"priority"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	// UseCaseID names the use case the recommendation is about, if any.
	UseCaseID string `json:"use_case_id,omitempty"`
	// ImpactScore estimates the annual dollars at stake.
	ImpactScore float64 `json:"impact_score"`
}

// Thresholds tune when the payback and ROI rules fire.
type Thresholds struct {
	// PaybackWarningMonths flags payback periods longer than this. Zero
	// disables the check.
	PaybackWarningMonths float64 `json:"payback_warning_months"`
	// MinROIPercent flags three-year ROI below this.
	MinROIPercent float64 `json:"min_roi_percent"`
}

// Context is everything a rule may inspect.
type Context struct {
	Projection projection.Projection
	Catalog    []catalog.UseCase
	Thresholds Thresholds
}

// selected reports whether id is part of the projection's selection.
func (c *Context) selected(id string) bool {
	for _, uc := range c.Projection.Selected {
		if uc.ID == id {
			return true
		}
	}
	return false
}

// Rule examines the context and produces zero or more recommendations.
type Rule func(ctx *Context) []Recommendation
