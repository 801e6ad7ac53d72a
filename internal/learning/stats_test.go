package learning

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"tradedocs/internal/model"
	"tradedocs/internal/repository/mocks"
)

func TestEngine_Stats(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockMappingRepository)
	engine := NewEngine(repo)

	agg := &model.MappingStats{TotalMappings: 3, AvgConfidence: 0.7333333333, TotalUsage: 8, ManualMappings: 1, AutoMappings: 2}
	repo.On("Stats", ctx, "acme", "globex").Return(agg, nil)
	repo.On("FindByCompanies", ctx, "acme", "globex").Return(sampleMappings(), nil)

	s, err := engine.Stats(ctx, "acme", "globex")

	assert.NoError(t, err)
	assert.Equal(t, 3, s.TotalMappings)
	assert.Equal(t, 1, s.ConfidenceDistribution.High)
	assert.Equal(t, 2, s.ConfidenceDistribution.Medium)
	assert.Equal(t, 0, s.ConfidenceDistribution.Low)
	assert.InDelta(t, 8.0/3.0, s.AverageUsagePerMapping, 1e-9)
	assert.InDelta(t, (0.7333333333+8.0/3.0/10.0)/2.0, s.LearningProgress, 1e-9)
}

func TestEngine_Stats_Empty(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockMappingRepository)
	engine := NewEngine(repo)

	repo.On("Stats", ctx, "acme", "globex").Return(&model.MappingStats{}, nil)
	repo.On("FindByCompanies", ctx, "acme", "globex").Return([]model.ProductMapping{}, nil)

	s, err := engine.Stats(ctx, "acme", "globex")

	assert.NoError(t, err)
	assert.Equal(t, 0.0, s.AverageUsagePerMapping)
	assert.Equal(t, 0.0, s.LearningProgress)
}

func TestEngine_ReviewQueue(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockMappingRepository)
	engine := NewEngine(repo)

	queued := []model.ProductMapping{
		{ID: "m2", ConfidenceScore: 0.75, UsageCount: 6},
		{ID: "m3", ConfidenceScore: 0.4, UsageCount: 2},
	}
	repo.On("ListNeedingReview", ctx, "acme", "globex", reviewQueueLimit).Return(queued, nil)

	items, err := engine.ReviewQueue(ctx, "acme", "globex")

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.False(t, items[0].NeedsReview)
	assert.True(t, items[1].NeedsReview)
}

func TestEngine_SuggestClosest(t *testing.T) {
	ctx := context.Background()

	t.Run("blends similarity with stored confidence", func(t *testing.T) {
		repo := new(mocks.MockMappingRepository)
		engine := NewEngine(repo)

		repo.On("FindSimilar", ctx, "acme", "globex", "WIDGET-2", 5).Return(sampleMappings(), nil)

		s, err := engine.SuggestClosest(ctx, "acme", "globex", "WIDGET-2")

		assert.NoError(t, err)
		assert.Equal(t, MethodSimilarity, s.Method)
		assert.Equal(t, "WID-001", s.SuggestedCode)
		assert.InDelta(t, (1.0/3.0+0.9)/2.0, s.Confidence, 1e-9)
	})

	t.Run("selects by similarity before blending", func(t *testing.T) {
		repo := new(mocks.MockMappingRepository)
		engine := NewEngine(repo)

		// DEL-001 has the higher blended score but zero textual overlap
		// with the query, so it must lose to the overlapping candidate.
		candidates := []model.ProductMapping{
			{ID: "m9", FromProductCode: "DELTA", ToProductCode: "DEL-001", ConfidenceScore: 0.9},
			{ID: "m10", FromProductCode: "ALPHA GAMMA", ToProductCode: "ALP-002", ConfidenceScore: 0.2},
		}
		repo.On("FindSimilar", ctx, "acme", "globex", "ALPHA BETA", 5).Return(candidates, nil)

		s, err := engine.SuggestClosest(ctx, "acme", "globex", "ALPHA BETA")

		assert.NoError(t, err)
		assert.Equal(t, "ALP-002", s.SuggestedCode)
		assert.Equal(t, "ALPHA GAMMA", s.BasedOn)
		assert.InDelta(t, (1.0/3.0+0.2)/2.0, s.Confidence, 1e-9)
	})

	t.Run("no candidates", func(t *testing.T) {
		repo := new(mocks.MockMappingRepository)
		engine := NewEngine(repo)

		repo.On("FindSimilar", ctx, "acme", "globex", "BOLT-1", 5).Return([]model.ProductMapping{}, nil)

		s, err := engine.SuggestClosest(ctx, "acme", "globex", "BOLT-1")

		assert.NoError(t, err)
		assert.Equal(t, MethodNone, s.Method)
	})
}
