package catalog

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/oxygene76/univers-client/pkg/physics"
)

// KindStats summarises the densities of one kind of body.
type KindStats struct {
	Kind           Kind    `json:"kind"`
	Count          int     `json:"count"`
	MeanLogDensity float64 `json:"mean_log_density"`
	StdLogDensity  float64 `json:"std_log_density"`
	MinDensity     float64 `json:"min_density"`
	MaxDensity     float64 `json:"max_density"`
	MeanCompacity  float64 `json:"mean_compacity"`
}

// Stats returns per-kind density statistics for the kinds present in the
// catalogue, in Kinds order. Densities are compared in log10 since they span
// more than thirty decades.
func (c *Catalog) Stats() []KindStats {
	var out []KindStats
	for _, kind := range Kinds {
		bodies := c.ByKind(kind)
		if len(bodies) == 0 {
			continue
		}

		logDensities := make([]float64, len(bodies))
		compacities := make([]float64, len(bodies))
		s := KindStats{
			Kind:       kind,
			Count:      len(bodies),
			MinDensity: math.Inf(1),
			MaxDensity: math.Inf(-1),
		}
		for i, b := range bodies {
			d := physics.Density(b.Mass, b.Radius)
			logDensities[i] = math.Log10(d)
			compacities[i] = physics.Compacity(b.Mass, b.Radius)
			s.MinDensity = math.Min(s.MinDensity, d)
			s.MaxDensity = math.Max(s.MaxDensity, d)
		}

		s.MeanLogDensity = stat.Mean(logDensities, nil)
		if len(bodies) > 1 {
			s.StdLogDensity = stat.StdDev(logDensities, nil)
		}
		s.MeanCompacity = stat.Mean(compacities, nil)
		out = append(out, s)
	}
	return out
}
