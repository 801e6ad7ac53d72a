package learning

import (
	"context"

	"tradedocs/internal/model"
)

// ConfidenceDistribution buckets mappings by confidence. High is above 0.8,
// Medium is (0.5, 0.8], Low is 0.5 and below.
type ConfidenceDistribution struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Stats describes how well the learning system knows a company pair.
// LearningProgress blends average confidence with usage saturation into a
// single [0,1] score.
type Stats struct {
	model.MappingStats
	ConfidenceDistribution ConfidenceDistribution `json:"confidence_distribution"`
	AverageUsagePerMapping float64                `json:"average_usage_per_mapping"`
	LearningProgress       float64                `json:"learning_progress"`
}

// ReviewItem is a low-confidence mapping queued for human review.
type ReviewItem struct {
	Mapping     model.ProductMapping `json:"mapping"`
	NeedsReview bool                 `json:"needs_review"`
}

const (
	reviewThreshold      = 0.8
	urgentReviewCutoff   = 0.7
	usageSaturationCount = 10
	reviewQueueLimit     = 20
)

// Stats aggregates the mapping store for a company pair.
func (e *Engine) Stats(ctx context.Context, fromCompany, toCompany string) (*Stats, error) {
	agg, err := e.repo.Stats(ctx, fromCompany, toCompany)
	if err != nil {
		return nil, err
	}
	mappings, err := e.repo.FindByCompanies(ctx, fromCompany, toCompany)
	if err != nil {
		return nil, err
	}

	s := &Stats{MappingStats: *agg}
	for _, m := range mappings {
		switch {
		case m.ConfidenceScore > reviewThreshold:
			s.ConfidenceDistribution.High++
		case m.ConfidenceScore > 0.5:
			s.ConfidenceDistribution.Medium++
		default:
			s.ConfidenceDistribution.Low++
		}
	}
	if s.TotalMappings > 0 {
		s.AverageUsagePerMapping = float64(s.TotalUsage) / float64(s.TotalMappings)
	}

	usageScore := s.AverageUsagePerMapping / usageSaturationCount
	if usageScore > 1 {
		usageScore = 1
	}
	s.LearningProgress = (s.AvgConfidence + usageScore) / 2
	return s, nil
}

// ReviewQueue lists mappings below the review threshold, most used first.
// Entries under the urgent cutoff are flagged NeedsReview.
func (e *Engine) ReviewQueue(ctx context.Context, fromCompany, toCompany string) ([]ReviewItem, error) {
	mappings, err := e.repo.ListNeedingReview(ctx, fromCompany, toCompany, reviewQueueLimit)
	if err != nil {
		return nil, err
	}
	items := make([]ReviewItem, 0, len(mappings))
	for _, m := range mappings {
		items = append(items, ReviewItem{
			Mapping:     m,
			NeedsReview: m.ConfidenceScore < urgentReviewCutoff,
		})
	}
	return items, nil
}

// SuggestClosest is a review-time helper that picks the most textually
// similar known code and reports the mean of that similarity and the
// mapping's stored confidence. Selection is by raw similarity alone, the
// blend only scores the winner. Unlike Suggest it never consults the
// pattern model, it is meant for side-by-side display next to a
// reviewer's candidate code.
func (e *Engine) SuggestClosest(ctx context.Context, fromCompany, toCompany, code string) (*Suggestion, error) {
	similar, err := e.repo.FindSimilar(ctx, fromCompany, toCompany, code, 5)
	if err != nil {
		return nil, err
	}
	if len(similar) == 0 {
		return &Suggestion{Method: MethodNone}, nil
	}

	best := 0
	bestScore := Similarity(code, similar[0].FromProductCode)
	for i := 1; i < len(similar); i++ {
		if score := Similarity(code, similar[i].FromProductCode); score > bestScore {
			best, bestScore = i, score
		}
	}

	winner := similar[best]
	return &Suggestion{
		SuggestedCode: winner.ToProductCode,
		Confidence:    clamp01((bestScore + winner.ConfidenceScore) / 2),
		Method:        MethodSimilarity,
		BasedOn:       winner.FromProductCode,
		MappingID:     winner.ID,
	}, nil
}
