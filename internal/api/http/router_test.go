package http

import (
	"bytes"
	"context"
	"testing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"

	"iiot-responder/internal/api/http/middleware"
	"iiot-responder/pkg/metrics"
)

func buildRouterForTest(metricsEnabled bool, extra ...app.HandlerFunc) *server.Hertz {
	h := NewHandler(&fakeRunner{}, fakeScenarios{}, nil)
	r := NewRouter(h, middleware.NewMiddleware(nil))
	r.SetMetricsEnabled(metricsEnabled)
	r.Use(extra...)
	return r.Build(":0")
}

func TestRouter_Routes(t *testing.T) {
	s := buildRouterForTest(true)

	w := ut.PerformRequest(s.Engine, "GET", "/api/scenarios", &ut.Body{Body: bytes.NewReader(nil), Len: 0})
	if got := w.Result().StatusCode(); got != 200 {
		t.Fatalf("GET /api/scenarios status = %d, want 200", got)
	}
	if got := string(w.Result().Header.Peek("Access-Control-Allow-Origin")); got != "*" {
		t.Fatalf("CORS header = %q", got)
	}

	body := []byte(`{"scenario":"bearing_wear_03","description":"d"}`)
	w = ut.PerformRequest(s.Engine, "POST", "/api/incidents", &ut.Body{Body: bytes.NewReader(body), Len: len(body)},
		ut.Header{Key: "Content-Type", Value: "application/json"})
	if got := w.Result().StatusCode(); got != 200 {
		t.Fatalf("POST /api/incidents status = %d, want 200: %s", got, w.Result().Body())
	}

	w = ut.PerformRequest(s.Engine, "OPTIONS", "/api/incidents", &ut.Body{Body: bytes.NewReader(nil), Len: 0})
	if got := w.Result().StatusCode(); got != 204 {
		t.Fatalf("OPTIONS /api/incidents status = %d, want 204", got)
	}
}

func TestRouter_Metrics(t *testing.T) {
	metrics.RunTotal.WithLabelValues("remediate").Add(0)

	s := buildRouterForTest(true)
	w := ut.PerformRequest(s.Engine, "GET", "/metrics", &ut.Body{Body: bytes.NewReader(nil), Len: 0})
	if got := w.Result().StatusCode(); got != 200 {
		t.Fatalf("GET /metrics status = %d, want 200", got)
	}
	if !bytes.Contains(w.Result().Body(), []byte("responder_run_total")) {
		t.Fatalf("metrics body missing responder_run_total: %s", w.Result().Body())
	}

	s = buildRouterForTest(false)
	w = ut.PerformRequest(s.Engine, "GET", "/metrics", &ut.Body{Body: bytes.NewReader(nil), Len: 0})
	if got := w.Result().StatusCode(); got != 404 {
		t.Fatalf("GET /metrics status = %d, want 404 when disabled", got)
	}
}

func TestRouter_ExtraMiddlewareRuns(t *testing.T) {
	called := false
	s := buildRouterForTest(true, func(ctx context.Context, c *app.RequestContext) {
		called = true
		c.Next(ctx)
	})
	ut.PerformRequest(s.Engine, "GET", "/api/health", &ut.Body{Body: bytes.NewReader(nil), Len: 0})
	if !called {
		t.Fatal("extra middleware was not invoked")
	}
}
