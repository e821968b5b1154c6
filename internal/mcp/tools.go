package mcp

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/blackwell-systems/roicalc/internal/advise"
	"github.com/blackwell-systems/roicalc/internal/catalog"
	"github.com/blackwell-systems/roicalc/internal/projection"
	"github.com/blackwell-systems/roicalc/internal/scenario"
	"github.com/blackwell-systems/roicalc/internal/store"
)

// UseCasesResult is the catalog listing.
type UseCasesResult struct {
	UseCases         []catalog.UseCase `json:"use_cases"`
	DefaultSelection []string          `json:"default_selection"`
}

// ProjectionResult is a projection plus any requested IDs the catalog does
// not know.
type ProjectionResult struct {
	Projection projection.Projection `json:"projection"`
	Unknown    []string              `json:"unknown_use_cases,omitempty"`
}

// RecommendResult is a projection with ranked recommendations.
type RecommendResult struct {
	ProjectionResult
	Recommendations []advise.Recommendation `json:"recommendations"`
}

// HistoryResult holds recently saved scenarios with their metrics.
type HistoryResult struct {
	Scenarios []HistoryEntry `json:"scenarios"`
}

// HistoryEntry is one saved scenario.
type HistoryEntry struct {
	store.SavedScenario
	Metrics map[string]*float64 `json:"metrics"`
}

// projectionArgs are the arguments shared by compute_projection and
// recommend. Omitted fields take the configured defaults; an explicit empty
// use_cases list selects nothing.
type projectionArgs struct {
	OfficerCount *int     `json:"officer_count"`
	AvgSalary    *float64 `json:"avg_salary"`
	UseCases     []string `json:"use_cases"`
}

var (
	noArgsSchema       = json.RawMessage(`{"type":"object","properties":{},"additionalProperties":false}`)
	projectionSchema   = json.RawMessage(`{"type":"object","properties":{"officer_count":{"type":"integer","description":"Number of officers (1-10000, default 100)"},"avg_salary":{"type":"number","description":"Average officer salary in USD (30000-200000)"},"use_cases":{"type":"array","items":{"type":"string"},"description":"Use case IDs to include; omit for the default selection"}},"additionalProperties":false}`)
	recentNSchema      = json.RawMessage(`{"type":"object","properties":{"n":{"type":"integer","description":"Number of saved scenarios to return (default 5)"}},"additionalProperties":false}`)
	errHistoryDisabled = errors.New("history is not available")
)

// addTools registers the MCP tool handlers on s.
func addTools(s *Server) {
	s.registerTool(toolDef{
		Name:        "list_use_cases",
		Description: "The voice AI use case catalog with per-officer savings and the default selection.",
		InputSchema: noArgsSchema,
		Handler:     s.handleListUseCases,
	})
	s.registerTool(toolDef{
		Name:        "compute_projection",
		Description: "Annual savings, costs, three-year ROI, and payback period for a department.",
		InputSchema: projectionSchema,
		Handler:     s.handleComputeProjection,
	})
	s.registerTool(toolDef{
		Name:        "recommend",
		Description: "Ranked recommendations for improving a projection's selection.",
		InputSchema: projectionSchema,
		Handler:     s.handleRecommend,
	})
	if s.db != nil {
		s.registerTool(toolDef{
			Name:        "get_history",
			Description: "Last N saved scenarios with their headline metrics.",
			InputSchema: recentNSchema,
			Handler:     s.handleGetHistory,
		})
	}
}

func (s *Server) handleListUseCases(json.RawMessage) (any, error) {
	return UseCasesResult{
		UseCases:         s.catalog,
		DefaultSelection: catalog.DefaultSelection(),
	}, nil
}

func (s *Server) handleComputeProjection(args json.RawMessage) (any, error) {
	return s.project(args)
}

func (s *Server) handleRecommend(args json.RawMessage) (any, error) {
	res, err := s.project(args)
	if err != nil {
		return nil, err
	}
	recs := advise.NewEngine().Run(&advise.Context{
		Projection: res.Projection,
		Catalog:    s.catalog,
		Thresholds: s.thresholds,
	})
	if recs == nil {
		recs = []advise.Recommendation{}
	}
	return RecommendResult{ProjectionResult: res, Recommendations: recs}, nil
}

// project decodes projection arguments and computes the result.
func (s *Server) project(args json.RawMessage) (ProjectionResult, error) {
	var a projectionArgs
	if len(args) > 0 && string(args) != "null" {
		if err := json.Unmarshal(args, &a); err != nil {
			return ProjectionResult{}, fmt.Errorf("invalid arguments: %w", err)
		}
	}

	sc := scenario.Scenario{OfficerCount: a.OfficerCount, AvgSalary: a.AvgSalary, UseCases: a.UseCases}
	params, sel := sc.Resolve(s.defaults)

	var unknown []string
	for _, id := range sel.IDs() {
		if _, ok := catalog.Lookup(s.catalog, id); !ok {
			unknown = append(unknown, id)
		}
	}

	return ProjectionResult{
		Projection: projection.ComputeWithRates(s.catalog, sel, params, s.rates),
		Unknown:    unknown,
	}, nil
}

func (s *Server) handleGetHistory(args json.RawMessage) (any, error) {
	if s.db == nil {
		return nil, errHistoryDisabled
	}

	n := 5
	if len(args) > 0 && string(args) != "null" {
		var params struct {
			N *int `json:"n"`
		}
		if err := json.Unmarshal(args, &params); err == nil && params.N != nil {
			n = *params.N
		}
	}
	if n <= 0 {
		n = 5
	}
	if n > 50 {
		n = 50
	}

	saved, err := s.db.GetRecentScenarios(n)
	if err != nil {
		return nil, err
	}

	entries := make([]HistoryEntry, 0, len(saved))
	for _, sc := range saved {
		metrics, err := s.db.GetMetrics(sc.ID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, HistoryEntry{SavedScenario: sc, Metrics: store.MetricMap(metrics)})
	}
	return HistoryResult{Scenarios: entries}, nil
}
