package learning

import (
	"context"
	"errors"
	"math"

	"tradedocs/internal/model"
)

// ErrMappingNotFound is returned when feedback targets a mapping that
// does not exist.
var ErrMappingNotFound = errors.New("mapping not found")

// DefaultAdjustment is the confidence step applied per feedback event.
const DefaultAdjustment = 0.1

// retrainDelta is the confidence swing that triggers a retrain recommendation.
const retrainDelta = 0.2

// FeedbackResult reports the mapping state after feedback was applied.
type FeedbackResult struct {
	Mapping            *model.ProductMapping `json:"mapping"`
	NewConfidence      float64               `json:"new_confidence"`
	RetrainRecommended bool                  `json:"retrain_recommended"`
}

// ApplyFeedback raises or lowers a mapping's confidence by the given
// adjustment, clamped to [0,1]. A non-positive adjustment falls back to
// DefaultAdjustment. The write also counts as a usage. A swing larger
// than retrainDelta only flags RetrainRecommended, it never retrains by
// itself.
func (e *Engine) ApplyFeedback(ctx context.Context, mappingID string, accepted bool, adjustment float64) (*FeedbackResult, error) {
	current, err := e.repo.FindByID(ctx, mappingID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrMappingNotFound
	}

	if adjustment <= 0 {
		adjustment = DefaultAdjustment
	}
	if !accepted {
		adjustment = -adjustment
	}
	// Round to two decimals so repeated 0.1 steps stay on exact values.
	next := math.Round(clamp01(current.ConfidenceScore+adjustment)*100) / 100

	updated, err := e.repo.UpdateConfidence(ctx, mappingID, next)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrMappingNotFound
	}

	res := &FeedbackResult{
		Mapping:            updated,
		NewConfidence:      updated.ConfidenceScore,
		RetrainRecommended: math.Abs(updated.ConfidenceScore-current.ConfidenceScore) > retrainDelta,
	}
	if res.RetrainRecommended && e.retrainCandidates != nil {
		e.retrainCandidates.Inc()
	}
	return res, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
