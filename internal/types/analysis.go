package types

import (
	"encoding/json"
	"time"

	"github.com/oxygene76/univers-client/pkg/astronomy/catalog"
	"github.com/oxygene76/univers-client/pkg/physics"
)

// AnalysisType names the kind of computation a result came from.
type AnalysisType string

const (
	AnalysisBody     AnalysisType = "body"
	AnalysisVelocity AnalysisType = "velocity"
	AnalysisGamma    AnalysisType = "gamma"
	AnalysisProfile  AnalysisType = "profile"
	AnalysisSolve    AnalysisType = "solve"
	AnalysisMatch    AnalysisType = "match"
)

// AnalysisResult wraps any report with bookkeeping used by the history log
type AnalysisResult struct {
	ID         string                 `json:"id"`
	Type       AnalysisType           `json:"type"`
	Parameters map[string]interface{} `json:"parameters"`
	Results    interface{}            `json:"results"`
	Timestamp  time.Time              `json:"timestamp"`
	Duration   time.Duration          `json:"duration"`
	Error      string                 `json:"error,omitempty"`
}

// BodyReport describes a mass/radius pair: horizon, density, regime and the
// time elapsed for observers at infinity, at the surface and at the centre.
type BodyReport struct {
	Name                string         `json:"name,omitempty"`
	Mass                float64        `json:"mass_kg"`
	Radius              float64        `json:"radius_km"`
	SchwarzschildRadius float64        `json:"schwarzschild_radius_km"`
	Density             float64        `json:"density_kg_m3"`
	Compacity           float64        `json:"compacity"`
	RadiusRatio         float64        `json:"radius_over_rs"`
	Regime              physics.Regime `json:"regime"`
	BlackHole           bool           `json:"black_hole"`
	NearBlackHole       bool           `json:"near_black_hole"`
	BeyondBuchdahl      bool           `json:"beyond_buchdahl"`
	SurfaceFactor       float64        `json:"surface_factor"`
	CenterFactor        float64        `json:"center_factor"`
	Observers           ObserverTimes  `json:"observers"`
	Nearest             *MatchReport   `json:"nearest,omitempty"`
	Formatted           BodyFormatted  `json:"formatted"`
	Lang                physics.Lang   `json:"lang"`
}

// BodyFormatted holds the human readable rendering of a BodyReport.
type BodyFormatted struct {
	Mass                string `json:"mass"`
	Radius              string `json:"radius"`
	SchwarzschildRadius string `json:"schwarzschild_radius"`
	Density             string `json:"density"`
}

// ObserverTimes is the observer comparison with durations rendered for display.
type ObserverTimes struct {
	physics.ObserverComparison
	ReferenceText       string `json:"reference_text"`
	AtSurfaceText       string `json:"at_surface_text,omitempty"`
	AtCenterText        string `json:"at_center_text,omitempty"`
	InfinitySurfaceText string `json:"infinity_surface_text,omitempty"`
	InfinityCenterText  string `json:"infinity_center_text,omitempty"`
	SurfaceCenterText   string `json:"surface_center_text,omitempty"`
}

// RelativityReport is the special relativity view of a velocity.
type RelativityReport struct {
	Velocity       float64      `json:"velocity_km_s"`
	Beta           float64      `json:"beta"`
	Gamma          float64      `json:"gamma"`
	Capped         bool         `json:"capped"`
	Reference      float64      `json:"reference_seconds"`
	ProperTime     float64      `json:"proper_time_seconds"`
	VelocityText   string       `json:"velocity_text"`
	FractionText   string       `json:"fraction_text"`
	ReferenceText  string       `json:"reference_text"`
	ProperTimeText string       `json:"proper_time_text"`
	Lang           physics.Lang `json:"lang"`
}

// ProfileReport is dτ/dt sampled along the radius of a body.
type ProfileReport struct {
	Mass          float64             `json:"mass_kg"`
	Radius        float64             `json:"radius_km"`
	MaxRadii      float64             `json:"max_radii"`
	Points        []physics.DataPoint `json:"points"`
	MinFactor     float64             `json:"min_factor"`
	SurfaceFactor float64             `json:"surface_factor"`
	BlackHole     bool                `json:"black_hole"`
}

// SolveReport is an inversion together with the body it produced.
type SolveReport struct {
	Unknown string              `json:"unknown"`
	Fixed   float64             `json:"fixed"`
	Result  physics.SolveResult `json:"result"`
	Body    BodyReport          `json:"body"`
	// Warning is set when the solve stopped short of the target precision.
	Warning string `json:"warning,omitempty"`
}

// MatchReport is a catalogue match with a short description.
type MatchReport struct {
	catalog.Match
	Description string `json:"description"`
}

// HistoryEntry is one persisted computation.
type HistoryEntry struct {
	ID        string          `json:"id"`
	Kind      AnalysisType    `json:"kind"`
	Input     json.RawMessage `json:"input"`
	Result    json.RawMessage `json:"result"`
	CreatedAt time.Time       `json:"created_at"`
}
