// Package compute runs body analyses over a whole catalogue with a bounded
// number of workers.
package compute

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/oxygene76/univers-client/internal/types"
	"github.com/oxygene76/univers-client/pkg/analysis"
	"github.com/oxygene76/univers-client/pkg/astronomy/catalog"
	"github.com/oxygene76/univers-client/pkg/physics"
)

// Status of one body in a survey.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// SurveyRow is the outcome for one body.
type SurveyRow struct {
	Body   catalog.Body      `json:"body"`
	Status Status            `json:"status"`
	Report *types.BodyReport `json:"report,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// SurveyStatistics summarises a survey.
type SurveyStatistics struct {
	Total     int                    `json:"total"`
	Completed int                    `json:"completed"`
	Failed    int                    `json:"failed"`
	Cancelled int                    `json:"cancelled"`
	Regimes   map[physics.Regime]int `json:"regimes"`
	Duration  time.Duration          `json:"duration"`
}

// Surveyor analyses many bodies concurrently.
type Surveyor struct {
	manager *analysis.Manager
	workers int
	logger  *zap.Logger
}

// NewSurveyor creates a surveyor. workers <= 0 uses one worker per CPU.
func NewSurveyor(manager *analysis.Manager, workers int, logger *zap.Logger) *Surveyor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Surveyor{manager: manager, workers: workers, logger: logger}
}

// Run analyses every body and returns one row per body, in input order.
// A failing body does not stop the others; cancelling ctx marks the bodies
// not yet started as cancelled.
func (s *Surveyor) Run(ctx context.Context, bodies []catalog.Body, reference float64) ([]SurveyRow, SurveyStatistics) {
	start := time.Now()
	rows := make([]SurveyRow, len(bodies))

	g := new(errgroup.Group)
	g.SetLimit(s.workers)
	for i, b := range bodies {
		rows[i].Body = b
		if ctx.Err() != nil {
			rows[i].Status = StatusCancelled
			continue
		}
		g.Go(func() error {
			s.process(ctx, &rows[i], reference)
			return nil
		})
	}
	_ = g.Wait()

	stats := Statistics(rows)
	stats.Duration = time.Since(start)
	s.logger.Info("survey finished",
		zap.Int("bodies", stats.Total),
		zap.Int("failed", stats.Failed),
		zap.Int("cancelled", stats.Cancelled),
		zap.Int("workers", s.workers),
		zap.Duration("duration", stats.Duration),
	)
	return rows, stats
}

func (s *Surveyor) process(ctx context.Context, row *SurveyRow, reference float64) {
	defer func() {
		if r := recover(); r != nil {
			row.Status = StatusFailed
			row.Error = fmt.Sprintf("analysis panicked: %v", r)
		}
	}()

	if ctx.Err() != nil {
		row.Status = StatusCancelled
		return
	}

	report, err := s.manager.AnalyzeBody(row.Body.Name, row.Body.Mass, row.Body.Radius, reference)
	if err != nil {
		row.Status = StatusFailed
		row.Error = err.Error()
		s.logger.Debug("survey body failed", zap.String("name", row.Body.Name), zap.Error(err))
		return
	}
	row.Status = StatusCompleted
	row.Report = report
}

// Statistics counts the rows by status and regime.
func Statistics(rows []SurveyRow) SurveyStatistics {
	stats := SurveyStatistics{
		Total:   len(rows),
		Regimes: make(map[physics.Regime]int),
	}
	for _, row := range rows {
		switch row.Status {
		case StatusCompleted:
			stats.Completed++
			stats.Regimes[row.Report.Regime]++
		case StatusFailed:
			stats.Failed++
		case StatusCancelled:
			stats.Cancelled++
		}
	}
	return stats
}

// SortByDilation orders completed rows from the strongest surface dilation
// to the weakest. Black holes come first; unfinished rows go last.
func SortByDilation(rows []SurveyRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Report, rows[j].Report
		switch {
		case a == nil || b == nil:
			return a != nil
		case a.BlackHole != b.BlackHole:
			return a.BlackHole
		default:
			return a.SurfaceFactor < b.SurfaceFactor
		}
	})
}
