// Package server exposes the projection engine over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"github.com/blackwell-systems/roicalc/internal/advise"
	"github.com/blackwell-systems/roicalc/internal/catalog"
	"github.com/blackwell-systems/roicalc/internal/config"
	"github.com/blackwell-systems/roicalc/internal/projection"
	"github.com/blackwell-systems/roicalc/internal/scenario"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

// Server serves the projection API.
type Server struct {
	catalog    []catalog.UseCase
	rates      projection.Rates
	defaults   scenario.Defaults
	thresholds advise.Thresholds
	env        config.ServerEnv
	log        *slog.Logger
}

// New builds a Server from the loaded configuration and listener settings.
func New(cfg *config.Config, env config.ServerEnv, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		catalog: catalog.Default(),
		rates:   cfg.ProjectionRates(),
		defaults: scenario.Defaults{
			Params:   cfg.DefaultParams(),
			UseCases: cfg.Defaults.UseCases,
		},
		thresholds: advise.Thresholds{
			PaybackWarningMonths: cfg.Advise.PaybackWarningMonths,
			MinROIPercent:        cfg.Advise.MinROIPercent,
		},
		env: env,
		log: logger,
	}
}

// Handler returns the routed request handler wrapped with request logging.
func (s *Server) Handler() fasthttp.RequestHandler {
	return s.logRequests(s.route)
}

func (s *Server) route(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/healthz":
		s.only(ctx, fasthttp.MethodGet, s.handleHealth)
	case "/v1/use-cases":
		s.only(ctx, fasthttp.MethodGet, s.handleUseCases)
	case "/v1/projections":
		s.only(ctx, fasthttp.MethodPost, s.handleProjection)
	case "/v1/recommendations":
		s.only(ctx, fasthttp.MethodPost, s.handleRecommendations)
	default:
		writeError(ctx, fasthttp.StatusNotFound, "Not found")
	}
}

// only dispatches to h when the request uses method.
func (s *Server) only(ctx *fasthttp.RequestCtx, method string, h fasthttp.RequestHandler) {
	if string(ctx.Method()) != method {
		ctx.Response.Header.Set("Allow", method)
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	h(ctx)
}

func (s *Server) logRequests(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		id := string(ctx.Request.Header.Peek("X-Request-ID"))
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Response.Header.Set("X-Request-ID", id)

		next(ctx)

		s.log.Info("request",
			"id", id,
			"method", string(ctx.Method()),
			"path", string(ctx.Path()),
			"status", ctx.Response.StatusCode(),
			"duration", time.Since(start),
		)
	}
}

func (s *Server) newHTTPServer() *fasthttp.Server {
	return &fasthttp.Server{
		Name:               "roicalc",
		Handler:            s.Handler(),
		ReadTimeout:        s.env.ReadTimeout,
		WriteTimeout:       s.env.WriteTimeout,
		MaxRequestBodySize: s.env.MaxBodyBytes,
	}
}

// ListenAndServe listens on the configured address until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.env.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := s.newHTTPServer()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.log.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.log.Info("shutting down")
		if err := srv.Shutdown(); err != nil && !errors.Is(err, net.ErrClosed) {
			return err
		}
		// Serve may not have registered ln before Shutdown ran.
		_ = ln.Close()
		return <-errCh
	}
}
