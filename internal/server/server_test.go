package server

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/blackwell-systems/roicalc/internal/config"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

func testEnv() config.ServerEnv {
	return config.ServerEnv{
		Addr:         "127.0.0.1:0",
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		MaxBodyBytes: 1 << 10,
	}
}

func newTestServer() *Server {
	return New(config.Default(), testEnv(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// do runs a single request through the handler without a network.
func do(t *testing.T, s *Server, method, path, body string) *fasthttp.RequestCtx {
	t.Helper()
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if body != "" {
		ctx.Request.SetBodyString(body)
	}
	s.Handler()(&ctx)
	return &ctx
}

type projectionBody struct {
	OfficerCount       int      `json:"officer_count"`
	SelectedCount      int      `json:"selected_count"`
	TotalAnnualSavings float64  `json:"total_annual_savings"`
	NetAnnualSavings   float64  `json:"net_annual_savings"`
	PaybackMonths      *float64 `json:"payback_months"`
}

func decode[T any](t *testing.T, ctx *fasthttp.RequestCtx) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &v), string(ctx.Response.Body()))
	return v
}

func TestHealth(t *testing.T) {
	ctx := do(t, newTestServer(), fasthttp.MethodGet, "/healthz", "")
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.JSONEq(t, `{"status":"ok"}`, string(ctx.Response.Body()))
	assert.NotEmpty(t, ctx.Response.Header.Peek("X-Request-ID"))
}

func TestRequestIDEchoed(t *testing.T) {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(fasthttp.MethodGet)
	ctx.Request.SetRequestURI("/healthz")
	ctx.Request.Header.Set("X-Request-ID", "abc-123")
	newTestServer().Handler()(&ctx)
	assert.Equal(t, "abc-123", string(ctx.Response.Header.Peek("X-Request-ID")))
}

func TestUseCases(t *testing.T) {
	ctx := do(t, newTestServer(), fasthttp.MethodGet, "/v1/use-cases", "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	resp := decode[UseCasesResponse](t, ctx)
	assert.Len(t, resp.UseCases, 9)
	assert.Equal(t, []string{"voice-queries", "real-time-transcription", "policy-lookup"}, resp.DefaultSelection)
	assert.Equal(t, "application/json", string(ctx.Response.Header.ContentType()))
}

func TestProjection(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantSavings float64
		wantCount   int
		wantOfficer int
		wantPayback bool
	}{
		{"empty body uses defaults", "", 1_020_000, 3, 100, true},
		{"omitted use_cases", `{"officer_count":100}`, 1_020_000, 3, 100, true},
		{"explicit empty", `{"use_cases":[]}`, 0, 0, 100, false},
		{"subset", `{"officer_count":25,"use_cases":["voice-queries","policy-lookup"]}`, 165_000, 2, 25, true},
		{"clamped", `{"officer_count":0,"avg_salary":1,"use_cases":["voice-queries"]}`, 4_200, 1, 1, true},
		{"unknown ignored", `{"officer_count":10,"use_cases":["nope"]}`, 0, 0, 10, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := do(t, newTestServer(), fasthttp.MethodPost, "/v1/projections", tc.body)
			require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), string(ctx.Response.Body()))

			p := decode[projectionBody](t, ctx)
			assert.Equal(t, tc.wantSavings, p.TotalAnnualSavings)
			assert.Equal(t, tc.wantCount, p.SelectedCount)
			assert.Equal(t, tc.wantOfficer, p.OfficerCount)
			assert.Equal(t, tc.wantPayback, p.PaybackMonths != nil)
		})
	}
}

func TestProjection_Errors(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"malformed json", fasthttp.MethodPost, "/v1/projections", `{"officer_count":`, fasthttp.StatusBadRequest},
		{"wrong type", fasthttp.MethodPost, "/v1/projections", `{"officer_count":"ten"}`, fasthttp.StatusBadRequest},
		{"wrong method", fasthttp.MethodGet, "/v1/projections", "", fasthttp.StatusMethodNotAllowed},
		{"wrong method on list", fasthttp.MethodDelete, "/v1/use-cases", "", fasthttp.StatusMethodNotAllowed},
		{"unknown path", fasthttp.MethodGet, "/v2/anything", "", fasthttp.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := do(t, s, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, ctx.Response.StatusCode())

			e := decode[ErrorResponse](t, ctx)
			assert.Equal(t, tc.status, e.Status)
			assert.NotEmpty(t, e.Message)
		})
	}
}

func TestProjection_AllowHeader(t *testing.T) {
	ctx := do(t, newTestServer(), fasthttp.MethodPut, "/v1/projections", "")
	assert.Equal(t, fasthttp.MethodPost, string(ctx.Response.Header.Peek("Allow")))
}

func TestProjection_BodyTooLarge(t *testing.T) {
	big := `{"use_cases":["` + string(make([]byte, 2048)) + `"]}`
	ctx := do(t, newTestServer(), fasthttp.MethodPost, "/v1/projections", big)
	assert.Equal(t, fasthttp.StatusRequestEntityTooLarge, ctx.Response.StatusCode())
}

func TestRecommendations(t *testing.T) {
	ctx := do(t, newTestServer(), fasthttp.MethodPost, "/v1/recommendations", `{}`)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var resp struct {
		Projection      projectionBody `json:"projection"`
		Recommendations []struct {
			Rule      string `json:"rule"`
			UseCaseID string `json:"use_case_id"`
		} `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Equal(t, 1_020_000.0, resp.Projection.TotalAnnualSavings)
	require.NotEmpty(t, resp.Recommendations)
	assert.Equal(t, "report-generation", resp.Recommendations[0].UseCaseID)
}

func TestServe_InMemoryListener(t *testing.T) {
	s := newTestServer()
	ln := fasthttputil.NewInmemoryListener()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	client := &fasthttp.Client{
		Dial: func(string) (net.Conn, error) { return ln.Dial() },
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI("http://roicalc.test/healthz")
	req.SetConnectionClose()
	require.NoError(t, client.DoTimeout(req, resp, 2*time.Second))
	assert.Equal(t, fasthttp.StatusOK, resp.StatusCode())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
