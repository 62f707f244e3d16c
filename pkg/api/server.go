// Package api serves the relativity calculators as a JSON HTTP API.
// All endpoints are GET and read-only, under /api/v1.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/oxygene76/univers-client/internal/types"
	"github.com/oxygene76/univers-client/pkg/analysis"
	"github.com/oxygene76/univers-client/pkg/astronomy/catalog"
	"github.com/oxygene76/univers-client/pkg/physics"
	"github.com/oxygene76/univers-client/pkg/store"
)

const shutdownTimeout = 5 * time.Second

// Config holds the listener settings.
type Config struct {
	Addr        string
	CORSOrigins []string
	// SolveRate caps inversion requests per client and per SolveWindow. Zero disables the limit.
	SolveRate   int
	SolveWindow time.Duration
	// TrustedProxies are addresses or CIDRs allowed to set X-Forwarded-For.
	// Invalid entries are logged and skipped.
	TrustedProxies []string
	// History serves the history endpoints. When nil the recorder is used
	// if it can read entries back.
	History HistoryStore
}

// Server serves the analysis manager over HTTP.
type Server struct {
	cfg      Config
	logger   *zap.Logger
	recorder analysis.Recorder
	history  HistoryStore

	manager atomic.Pointer[analysis.Manager]
	origins atomic.Pointer[map[string]bool]
	limiter *RateLimiter
	proxies []netip.Prefix
}

// HistoryStore reads back recorded analyses.
type HistoryStore interface {
	ListHistory(limit int) ([]types.HistoryEntry, error)
	GetHistory(id string) (types.HistoryEntry, error)
}

// NewServer builds a server. recorder may be nil to disable the history log.
func NewServer(cfg Config, manager *analysis.Manager, recorder analysis.Recorder, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SolveWindow <= 0 {
		cfg.SolveWindow = time.Minute
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		recorder: recorder,
		history:  cfg.History,
	}
	if h, ok := recorder.(HistoryStore); ok && s.history == nil {
		s.history = h
	}
	if cfg.SolveRate > 0 {
		s.limiter = NewRateLimiter(cfg.SolveRate, cfg.SolveWindow)
	}
	for _, proxy := range cfg.TrustedProxies {
		prefix, err := parseProxy(proxy)
		if err != nil {
			logger.Warn("ignoring trusted proxy", zap.Error(err))
			continue
		}
		s.proxies = append(s.proxies, prefix)
	}
	s.SetManager(manager)
	s.SetCORSOrigins(cfg.CORSOrigins)
	return s
}

// SetManager swaps the analysis manager, e.g. after a config reload.
func (s *Server) SetManager(m *analysis.Manager) {
	s.manager.Store(m)
}

// SetCORSOrigins replaces the allowed origins. "*" allows any origin.
func (s *Server) SetCORSOrigins(origins []string) {
	allowed := make(map[string]bool, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowed[origin] = true
		}
	}
	s.origins.Store(&allowed)
}

// Handler returns the routed handler wrapped in the CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	mux.HandleFunc("GET /api/v1/gamma", s.handleGamma)
	mux.HandleFunc("GET /api/v1/velocity", s.handleVelocity)
	mux.HandleFunc("GET /api/v1/series/{curve}", s.handleSeries)
	mux.HandleFunc("GET /api/v1/body", s.handleBody)
	mux.HandleFunc("GET /api/v1/compare", s.handleCompare)
	mux.HandleFunc("GET /api/v1/profile", s.handleProfile)
	mux.HandleFunc("GET /api/v1/match", s.handleMatch)
	mux.HandleFunc("GET /api/v1/solve/{unknown}", s.rateLimited(s.handleSolve))
	mux.HandleFunc("GET /api/v1/presets", s.handlePresets)
	mux.HandleFunc("GET /api/v1/catalog", s.handleCatalog)
	mux.HandleFunc("GET /api/v1/catalog/stats", s.handleCatalogStats)
	mux.HandleFunc("GET /api/v1/history", s.handleHistory)
	mux.HandleFunc("GET /api/v1/history/{id}", s.handleHistoryEntry)

	return s.corsMiddleware(mux)
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.logger.Info("HTTP API starting", zap.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		s.logger.Info("HTTP API stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// corsMiddleware adds CORS headers for allowed frontend origins.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed := *s.origins.Load()
		origin := r.Header.Get("Origin")
		if origin != "" && (allowed[origin] || allowed["*"]) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept-Language")
			w.Header().Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// managerFor picks the language from ?lang= or Accept-Language.
func (s *Server) managerFor(r *http.Request) *analysis.Manager {
	m := s.manager.Load()
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = r.Header.Get("Accept-Language")
	}
	if lang == "" {
		return m
	}
	return m.WithLang(physics.ParseLang(lang))
}

func (s *Server) record(kind types.AnalysisType, r *http.Request, results interface{}, start time.Time) {
	if s.recorder == nil {
		return
	}
	params := make(map[string]interface{}, len(r.URL.Query()))
	for k, v := range r.URL.Query() {
		params[k] = strings.Join(v, ",")
	}
	if _, err := s.recorder.RecordHistory(analysis.NewResult(kind, params, results, start)); err != nil {
		s.logger.Warn("failed to record history", zap.String("kind", string(kind)), zap.Error(err))
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, data any) {
	writeJSONStatus(w, http.StatusOK, data)
}

// writeJSONStatus encodes data before touching the response so an encoding
// failure still yields a 500 with a JSON error body.
func writeJSONStatus(w http.ResponseWriter, status int, data any) {
	body, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Error: "encode response: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

// writeError maps lookup failures to 404 and everything else to 400.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, catalog.ErrUnknownBody),
		errors.Is(err, catalog.ErrUnknownPreset),
		errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errHistoryDisabled):
		status = http.StatusServiceUnavailable
	}
	s.logger.Debug("request failed", zap.Int("status", status), zap.Error(err))
	writeJSONStatus(w, status, errorResponse{Error: err.Error()})
}
