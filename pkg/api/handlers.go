package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/oxygene76/univers-client/internal/types"
	"github.com/oxygene76/univers-client/pkg/analysis"
	"github.com/oxygene76/univers-client/pkg/astronomy/catalog"
	"github.com/oxygene76/univers-client/pkg/physics"
)

const maxSeriesPoints = 10000

var errHistoryDisabled = errors.New("history is disabled")

// floatParam reads a float query parameter. A missing optional parameter returns def.
func floatParam(r *http.Request, name string, required bool, def float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		if required {
			return 0, fmt.Errorf("missing parameter %q", name)
		}
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("parameter %q: %q is not a number", name, raw)
	}
	return v, nil
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parameter %q: %q is not an integer", name, raw)
	}
	return v, nil
}

// bodyParam resolves ?preset=, ?name= (catalogue body) or ?mass=&radius=.
func (s *Server) bodyParam(r *http.Request, m *analysis.Manager) (name string, mass, radius float64, err error) {
	q := r.URL.Query()
	switch {
	case q.Get("preset") != "":
		p, err := catalog.PresetByName(q.Get("preset"))
		if err != nil {
			return "", 0, 0, err
		}
		return p.Name(m.Options().Lang), p.Mass, p.Radius, nil
	case q.Get("name") != "":
		b, err := m.Catalog().Find(q.Get("name"))
		if err != nil {
			return "", 0, 0, err
		}
		return b.Name, b.Mass, b.Radius, nil
	}

	if mass, err = floatParam(r, "mass", true, 0); err != nil {
		return "", 0, 0, err
	}
	if radius, err = floatParam(r, "radius", true, 0); err != nil {
		return "", 0, 0, err
	}
	return "", mass, radius, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":  "ok",
		"bodies":  s.manager.Load().Catalog().Len(),
		"history": s.recorder != nil,
	})
}

func (s *Server) handleGamma(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	m := s.managerFor(r)

	v, err := floatParam(r, "velocity", true, 0)
	if err != nil {
		s.writeError(w, err)
		return
	}
	ref, err := floatParam(r, "reference", false, 0)
	if err != nil {
		s.writeError(w, err)
		return
	}

	report, err := m.AnalyzeVelocity(v, ref)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.record(types.AnalysisVelocity, r, report, start)
	writeJSON(w, report)
}

func (s *Server) handleVelocity(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	m := s.managerFor(r)

	g, err := floatParam(r, "gamma", true, 0)
	if err != nil {
		s.writeError(w, err)
		return
	}
	ref, err := floatParam(r, "reference", false, 0)
	if err != nil {
		s.writeError(w, err)
		return
	}

	report, err := m.AnalyzeGamma(g, ref)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.record(types.AnalysisGamma, r, report, start)
	writeJSON(w, report)
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	points, err := intParam(r, "points", physics.DefaultSeriesPoints)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if points < 1 || points > maxSeriesPoints {
		s.writeError(w, fmt.Errorf("points must be in [1, %d]", maxSeriesPoints))
		return
	}

	switch r.PathValue("curve") {
	case "gamma":
		writeJSON(w, physics.VelocityToGammaSeries(points))
	case "velocity":
		writeJSON(w, physics.GammaToVelocitySeries(points))
	default:
		s.writeError(w, fmt.Errorf("unknown series %q (use: gamma, velocity)", r.PathValue("curve")))
	}
}

func (s *Server) handleBody(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	m := s.managerFor(r)

	report, err := s.bodyReport(r, m)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.record(types.AnalysisBody, r, report, start)
	writeJSON(w, report)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	report, err := s.bodyReport(r, s.managerFor(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, report.Observers)
}

func (s *Server) bodyReport(r *http.Request, m *analysis.Manager) (*types.BodyReport, error) {
	name, mass, radius, err := s.bodyParam(r, m)
	if err != nil {
		return nil, err
	}
	ref, err := floatParam(r, "reference", false, 0)
	if err != nil {
		return nil, err
	}
	return m.AnalyzeBody(name, mass, radius, ref)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	m := s.managerFor(r)

	_, mass, radius, err := s.bodyParam(r, m)
	if err != nil {
		s.writeError(w, err)
		return
	}
	points, err := intParam(r, "points", 0)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if points > maxSeriesPoints {
		s.writeError(w, fmt.Errorf("points must be at most %d", maxSeriesPoints))
		return
	}
	radii, err := floatParam(r, "radii", false, 0)
	if err != nil {
		s.writeError(w, err)
		return
	}

	report, err := m.Profile(mass, radius, points, radii)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.record(types.AnalysisProfile, r, map[string]any{
		"min_factor":     report.MinFactor,
		"surface_factor": report.SurfaceFactor,
		"points":         len(report.Points),
	}, start)
	writeJSON(w, report)
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	m := s.managerFor(r)

	_, mass, radius, err := s.bodyParam(r, m)
	if err != nil {
		s.writeError(w, err)
		return
	}
	n, err := intParam(r, "n", 5)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var kinds []catalog.Kind
	for _, raw := range r.URL.Query()["kind"] {
		k, err := catalog.ParseKind(raw)
		if err != nil {
			s.writeError(w, err)
			return
		}
		kinds = append(kinds, k)
	}

	matches, err := m.Match(mass, radius, n, kinds...)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.record(types.AnalysisMatch, r, matches, start)
	writeJSON(w, matches)
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	m := s.managerFor(r)

	unknown, err := analysis.ParseUnknown(r.PathValue("unknown"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	// solving for mass fixes the radius and vice versa
	fixedName := "radius"
	if unknown == analysis.UnknownRadius {
		fixedName = "mass"
	}
	fixed, err := floatParam(r, fixedName, true, 0)
	if err != nil {
		s.writeError(w, err)
		return
	}
	target, err := floatParam(r, "target", true, 0)
	if err != nil {
		s.writeError(w, err)
		return
	}
	pos, err := physics.ParsePosition(r.URL.Query().Get("position"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	report, err := m.Solve(unknown, fixed, target, pos)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.record(types.AnalysisSolve, r, report, start)
	writeJSON(w, report)
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, catalog.Presets())
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	cat := s.manager.Load().Catalog()

	raw := r.URL.Query().Get("kind")
	if raw == "" {
		writeJSON(w, cat.All())
		return
	}
	kind, err := catalog.ParseKind(raw)
	if err != nil {
		s.writeError(w, err)
		return
	}
	bodies := cat.ByKind(kind)
	if bodies == nil {
		bodies = []catalog.Body{}
	}
	writeJSON(w, bodies)
}

func (s *Server) handleCatalogStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.manager.Load().Catalog().Stats())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, errHistoryDisabled)
		return
	}
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		s.writeError(w, err)
		return
	}
	entries, err := s.history.ListHistory(limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, entries)
}

func (s *Server) handleHistoryEntry(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, errHistoryDisabled)
		return
	}
	entry, err := s.history.GetHistory(r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, entry)
}
