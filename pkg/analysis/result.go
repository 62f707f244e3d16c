package analysis

import (
	"time"

	"github.com/google/uuid"

	"github.com/oxygene76/univers-client/internal/types"
)

// NewResult wraps a report for the history log.
func NewResult(kind types.AnalysisType, params map[string]interface{}, results interface{}, start time.Time) *types.AnalysisResult {
	return &types.AnalysisResult{
		ID:         uuid.NewString(),
		Type:       kind,
		Parameters: params,
		Results:    results,
		Timestamp:  start.UTC(),
		Duration:   time.Since(start),
	}
}

// Recorder persists analysis results.
type Recorder interface {
	RecordHistory(result *types.AnalysisResult) (string, error)
}
