package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

type staticHealth bool

func (h staticHealth) Healthy(context.Context) bool {
	return bool(h)
}

func newTestServer(t *testing.T, healthy bool) *Server {
	s := New(&Config{Port: "0", CorsOrigins: []string{"*"}}, staticHealth(healthy))
	t.Cleanup(s.stop)
	return s.SetupErrorHandler().SetupHealthChecks("/health")
}

func serve(s *Server, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestServer_Health(t *testing.T) {
	rec := serve(newTestServer(t, true), http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_Unhealthy(t *testing.T) {
	rec := serve(newTestServer(t, false), http.MethodGet, "/health")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	s := newTestServer(t, true).SetupMetrics("/metrics", reg)
	rec := serve(s, http.MethodGet, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_total 1")
}

func TestServer_UnknownRouteUsesErrorHandler(t *testing.T) {
	rec := serve(newTestServer(t, true), http.MethodGet, "/nope")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not Found"}`, rec.Body.String())
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("ENV_PATH", "testdata/missing.env")
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "")
	t.Setenv("CORS_ORIGINS", " http://a.com , ,http://b.com")

	cfg, err := LoadConfig()

	assert.NoError(t, err)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, []string{"http://a.com", "http://b.com"}, cfg.CorsOrigins)
}

func TestLoadConfig_InvalidPort(t *testing.T) {
	t.Setenv("ENV_PATH", "testdata/missing.env")
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "70000")

	_, err := LoadConfig()

	assert.ErrorContains(t, err, "invalid port")
}
