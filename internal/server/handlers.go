package server

import (
	"fmt"

	"github.com/blackwell-systems/roicalc/internal/advise"
	"github.com/blackwell-systems/roicalc/internal/catalog"
	"github.com/blackwell-systems/roicalc/internal/projection"
	"github.com/blackwell-systems/roicalc/internal/scenario"
	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// ProjectionRequest is the POST body for projections. Omitted fields take
// the configured defaults. An explicit empty use_cases list selects nothing.
type ProjectionRequest struct {
	OfficerCount *int     `json:"officer_count"`
	AvgSalary    *float64 `json:"avg_salary"`
	UseCases     []string `json:"use_cases"`
}

// UseCasesResponse lists the catalog.
type UseCasesResponse struct {
	UseCases         []catalog.UseCase `json:"use_cases"`
	DefaultSelection []string          `json:"default_selection"`
}

// RecommendationsResponse pairs a projection with ranked advice.
type RecommendationsResponse struct {
	Projection      projection.Projection   `json:"projection"`
	Recommendations []advise.Recommendation `json:"recommendations"`
}

func (s *Server) handleHealth(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleUseCases(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, UseCasesResponse{
		UseCases:         s.catalog,
		DefaultSelection: catalog.DefaultSelection(),
	})
}

func (s *Server) handleProjection(ctx *fasthttp.RequestCtx) {
	p, ok := s.decodeAndCompute(ctx)
	if !ok {
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, p)
}

func (s *Server) handleRecommendations(ctx *fasthttp.RequestCtx) {
	p, ok := s.decodeAndCompute(ctx)
	if !ok {
		return
	}
	recs := advise.NewEngine().Run(&advise.Context{
		Projection: p,
		Catalog:    s.catalog,
		Thresholds: s.thresholds,
	})
	if recs == nil {
		recs = []advise.Recommendation{}
	}
	writeJSON(ctx, fasthttp.StatusOK, RecommendationsResponse{Projection: p, Recommendations: recs})
}

// decodeAndCompute reads a ProjectionRequest and runs the engine. It writes
// the error reply itself and reports false on failure.
func (s *Server) decodeAndCompute(ctx *fasthttp.RequestCtx) (projection.Projection, bool) {
	body := ctx.PostBody()
	if s.env.MaxBodyBytes > 0 && len(body) > s.env.MaxBodyBytes {
		writeError(ctx, fasthttp.StatusRequestEntityTooLarge, "Request body too large")
		return projection.Projection{}, false
	}

	var req ProjectionRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
			return projection.Projection{}, false
		}
	}

	sc := scenario.Scenario{OfficerCount: req.OfficerCount, AvgSalary: req.AvgSalary, UseCases: req.UseCases}
	params, sel := sc.Resolve(s.defaults)
	return projection.ComputeWithRates(s.catalog, sel, params, s.rates), true
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Sprintf("encoding response: %v", err))
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(data)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	data, _ := json.Marshal(ErrorResponse{Status: status, Message: message})
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(data)
}
