package api

import (
	"context"
	"encoding/json"
	"math"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/oxygene76/univers-client/internal/types"
	"github.com/oxygene76/univers-client/pkg/analysis"
	"github.com/oxygene76/univers-client/pkg/astronomy/catalog"
	"github.com/oxygene76/univers-client/pkg/physics"
	"github.com/oxygene76/univers-client/pkg/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestServer(t *testing.T, cfg Config, rec analysis.Recorder) *Server {
	t.Helper()
	m := analysis.NewManager(zap.NewNop(), catalog.Default(), analysis.DefaultOptions())
	return NewServer(cfg, m, rec, zap.NewNop())
}

func get(t *testing.T, h http.Handler, target string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestGammaAndVelocity(t *testing.T) {
	h := newTestServer(t, Config{}, nil).Handler()

	rec := get(t, h, "/api/v1/gamma?velocity=179875.4748", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	rel := decode[types.RelativityReport](t, rec)
	assert.InDelta(t, 1.25, rel.Gamma, 1e-9)
	assert.Equal(t, physics.LangFR, rel.Lang)

	rec = get(t, h, "/api/v1/velocity?gamma=1.25&lang=en", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rel = decode[types.RelativityReport](t, rec)
	assert.InDelta(t, 0.6*physics.SpeedOfLight, rel.Velocity, 1e-6)
	assert.Equal(t, "1 day 0 hours", rel.ReferenceText)

	rec = get(t, h, "/api/v1/velocity?gamma=2", map[string]string{"Accept-Language": "en-GB,en;q=0.9"})
	assert.Equal(t, physics.LangEN, decode[types.RelativityReport](t, rec).Lang)

	rec = get(t, h, "/api/v1/gamma?velocity=fast", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorResponse](t, rec).Error, "velocity")

	rec = get(t, h, "/api/v1/velocity?gamma=0.5", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBody(t *testing.T) {
	h := newTestServer(t, Config{}, nil).Handler()

	rec := get(t, h, "/api/v1/body?preset=neutron_star&reference=3600", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[types.BodyReport](t, rec)
	assert.Equal(t, "Étoile à Neutrons", body.Name)
	assert.Equal(t, physics.RegimeStrong, body.Regime)
	assert.Equal(t, physics.Hour, body.Observers.Reference)

	rec = get(t, h, "/api/v1/body?name=sirius%20b", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Sirius B", decode[types.BodyReport](t, rec).Name)

	rec = get(t, h, "/api/v1/body?mass=5.972e24&radius=6371", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode[types.BodyReport](t, rec)
	require.NotNil(t, body.Nearest)
	assert.Equal(t, "Earth", body.Nearest.Body.Name)

	for target, code := range map[string]int{
		"/api/v1/body?mass=5.972e24":          http.StatusBadRequest,
		"/api/v1/body?mass=-1&radius=10":      http.StatusBadRequest,
		"/api/v1/body?preset=planet_nine":     http.StatusNotFound,
		"/api/v1/body?name=Vulcan":            http.StatusNotFound,
		"/api/v1/body?mass=1e30&radius=NaN":   http.StatusBadRequest,
		"/api/v1/compare?mass=1e30&radius=-4": http.StatusBadRequest,
	} {
		rec := get(t, h, target, nil)
		assert.Equal(t, code, rec.Code, target)
		assert.NotEmpty(t, decode[errorResponse](t, rec).Error, target)
	}
}

func TestBodyOutOfRange(t *testing.T) {
	h := newTestServer(t, Config{}, nil).Handler()

	for _, target := range []string{
		"/api/v1/body?mass=1e300&radius=1e-10",
		"/api/v1/body?mass=1&radius=1e-120",
		"/api/v1/compare?mass=1e300&radius=1e-10",
		"/api/v1/profile?mass=1&radius=1e-120",
	} {
		rec := get(t, h, target, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Contains(t, decode[errorResponse](t, rec).Error, "representable", target)
	}
}

func TestWriteJSONEncodingFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, map[string]float64{"density": math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, decode[errorResponse](t, rec).Error, "encode response")
}

func TestCompare(t *testing.T) {
	h := newTestServer(t, Config{}, nil).Handler()

	rec := get(t, h, "/api/v1/compare?mass=2.7846e30&radius=10&reference=3600", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	obs := decode[types.ObserverTimes](t, rec)
	assert.InDelta(t, 3600*0.765782137616, obs.AtSurface, 1e-3)
	assert.NotEmpty(t, obs.SurfaceCenterText)
}

func TestProfile(t *testing.T) {
	h := newTestServer(t, Config{}, nil).Handler()

	rec := get(t, h, "/api/v1/profile?preset=earth&points=50&radii=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[types.ProfileReport](t, rec)
	assert.Len(t, p.Points, 50)
	assert.Equal(t, 2.0, p.MaxRadii)

	rec = get(t, h, "/api/v1/profile?preset=earth&points=1000000", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSolve(t *testing.T) {
	h := newTestServer(t, Config{}, nil).Handler()

	rec := get(t, h, "/api/v1/solve/radius?mass=1.989e30&target=0.5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sol := decode[types.SolveReport](t, rec)
	assert.InDelta(t, 3.93883540674, sol.Result.Value, 1e-8)
	assert.Equal(t, physics.PositionSurface, sol.Result.Position)

	rec = get(t, h, "/api/v1/solve/mass?radius=10&target=0.5&position=centre", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sol = decode[types.SolveReport](t, rec)
	assert.InDelta(t, 0.5, sol.Body.CenterFactor, 1e-8)

	for _, target := range []string{
		"/api/v1/solve/density?mass=1&target=0.5",
		"/api/v1/solve/mass?radius=10&target=1",
		"/api/v1/solve/mass?target=0.5",
		"/api/v1/solve/mass?radius=10&target=0.5&position=orbit",
	} {
		assert.Equal(t, http.StatusBadRequest, get(t, h, target, nil).Code, target)
	}
}

func TestMatchAndCatalog(t *testing.T) {
	h := newTestServer(t, Config{}, nil).Handler()

	rec := get(t, h, "/api/v1/match?mass=1.898e27&radius=69911&n=2&kind=exoplanet", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	matches := decode[[]types.MatchReport](t, rec)
	require.Len(t, matches, 2)
	for _, m := range matches {
		assert.Equal(t, catalog.KindExoplanet, m.Body.Kind)
	}

	rec = get(t, h, "/api/v1/catalog?kind=neutron-star", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[[]catalog.Body](t, rec))

	rec = get(t, h, "/api/v1/catalog", nil)
	assert.GreaterOrEqual(t, len(decode[[]catalog.Body](t, rec)), 150)

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/v1/catalog?kind=quasar", nil).Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/v1/match?mass=1&radius=1&kind=quasar", nil).Code)

	rec = get(t, h, "/api/v1/catalog/stats", nil)
	assert.Len(t, decode[[]catalog.KindStats](t, rec), len(catalog.Kinds))

	rec = get(t, h, "/api/v1/presets", nil)
	assert.Len(t, decode[[]catalog.Preset](t, rec), 5)
}

func TestSeries(t *testing.T) {
	h := newTestServer(t, Config{}, nil).Handler()

	rec := get(t, h, "/api/v1/series/gamma?points=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]physics.DataPoint](t, rec), 11)

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/v1/series/mass", nil).Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/v1/series/gamma?points=0", nil).Code)
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestServer(t, Config{}, nil).Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, Config{CORSOrigins: []string{"https://univers.run"}}, nil)
	h := s.Handler()

	rec := get(t, h, "/api/v1/health", map[string]string{"Origin": "https://univers.run"})
	assert.Equal(t, "https://univers.run", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = get(t, h, "/api/v1/health", map[string]string{"Origin": "https://evil.example"})
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/gamma", nil)
	req.Header.Set("Origin", "https://univers.run")
	pre := httptest.NewRecorder()
	h.ServeHTTP(pre, req)
	assert.Equal(t, http.StatusNoContent, pre.Code)

	s.SetCORSOrigins([]string{"*"})
	rec = get(t, h, "/api/v1/health", map[string]string{"Origin": "https://evil.example"})
	assert.Equal(t, "https://evil.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHistory(t *testing.T) {
	h := newTestServer(t, Config{}, nil).Handler()
	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/api/v1/history", nil).Code)

	db, err := store.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	defer db.Close()

	h = newTestServer(t, Config{}, db).Handler()
	require.Equal(t, http.StatusOK, get(t, h, "/api/v1/body?preset=sun", nil).Code)
	require.Equal(t, http.StatusOK, get(t, h, "/api/v1/gamma?velocity=1000", nil).Code)
	// failed requests are not recorded
	require.Equal(t, http.StatusBadRequest, get(t, h, "/api/v1/gamma?velocity=-1", nil).Code)

	rec := get(t, h, "/api/v1/history?limit=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decode[[]types.HistoryEntry](t, rec)
	require.Len(t, entries, 2)

	kinds := []types.AnalysisType{entries[0].Kind, entries[1].Kind}
	assert.ElementsMatch(t, []types.AnalysisType{types.AnalysisBody, types.AnalysisVelocity}, kinds)

	rec = get(t, h, "/api/v1/history/"+entries[0].ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entries[0].Kind, decode[types.HistoryEntry](t, rec).Kind)

	rec = get(t, h, "/api/v1/history/00000000-0000-0000-0000-000000000000", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode[errorResponse](t, rec).Error, "not found")
}

func TestHistoryWithoutRecording(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	defer db.Close()

	m := analysis.NewManager(zap.NewNop(), catalog.Default(), analysis.DefaultOptions())
	id, err := db.RecordHistory(analysis.NewResult(types.AnalysisVelocity, nil, map[string]float64{"gamma": 2}, time.Now()))
	require.NoError(t, err)

	// readable history, nothing recorded
	h := NewServer(Config{History: db}, m, nil, zap.NewNop()).Handler()
	require.Equal(t, http.StatusOK, get(t, h, "/api/v1/gamma?velocity=1000", nil).Code)

	rec := get(t, h, "/api/v1/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decode[[]types.HistoryEntry](t, rec)
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].ID)

	assert.Equal(t, http.StatusOK, get(t, h, "/api/v1/history/"+id, nil).Code)

	h = newTestServer(t, Config{}, nil).Handler()
	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/api/v1/history/"+id, nil).Code)
}

func TestSolveRateLimit(t *testing.T) {
	h := newTestServer(t, Config{SolveRate: 1, SolveWindow: time.Hour}, nil).Handler()

	target := "/api/v1/solve/radius?mass=1.989e30&target=0.5"
	assert.Equal(t, http.StatusOK, get(t, h, target, nil).Code)

	rec := get(t, h, target, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// without a trusted proxy the header is ignored
	rec = get(t, h, target, map[string]string{"X-Forwarded-For": "203.0.113.7"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestSolveRateLimitBehindProxy(t *testing.T) {
	// httptest requests come from 192.0.2.1
	cfg := Config{
		SolveRate:      1,
		SolveWindow:    time.Hour,
		TrustedProxies: []string{"192.0.2.1", "10.0.0.0/8", "gateway"},
	}
	h := newTestServer(t, cfg, nil).Handler()

	target := "/api/v1/solve/radius?mass=1.989e30&target=0.5"
	via := func(xff string) int {
		return get(t, h, target, map[string]string{"X-Forwarded-For": xff}).Code
	}

	assert.Equal(t, http.StatusOK, via("203.0.113.7, 10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, via("203.0.113.7, 10.0.0.1"))
	// a client-supplied leftmost entry does not buy a new budget
	assert.Equal(t, http.StatusTooManyRequests, via("198.51.100.9, 203.0.113.7, 10.0.0.1"))
	assert.Equal(t, http.StatusOK, via("198.51.100.2, 10.0.0.1"))
	// the proxy itself has its own budget
	assert.Equal(t, http.StatusOK, get(t, h, target, nil).Code)
}

func TestClientIP(t *testing.T) {
	s := newTestServer(t, Config{TrustedProxies: []string{"10.0.0.0/8", "::1"}}, nil)

	tests := []struct {
		remote, xff, want string
	}{
		{"192.0.2.1:1234", "203.0.113.7", "192.0.2.1"},
		{"10.1.2.3:1234", "203.0.113.7", "203.0.113.7"},
		{"10.1.2.3:1234", "203.0.113.7, 10.9.9.9", "203.0.113.7"},
		{"10.1.2.3:1234", "", "10.1.2.3"},
		{"10.1.2.3:1234", "not-an-ip", "10.1.2.3"},
		{"[::1]:1234", "2001:db8::1", "2001:db8::1"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tt.remote
		if tt.xff != "" {
			req.Header.Set("X-Forwarded-For", tt.xff)
		}
		assert.Equal(t, tt.want, s.clientIP(req), "remote %s xff %q", tt.remote, tt.xff)
	}
}

func TestServeShutdown(t *testing.T) {
	s := newTestServer(t, Config{}, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + ln.Addr().String() + "/api/v1/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * shutdownTimeout):
		t.Fatal("server did not stop")
	}
}
