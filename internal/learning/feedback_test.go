package learning

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"tradedocs/internal/model"
	"tradedocs/internal/repository/mocks"
)

func TestEngine_ApplyFeedback(t *testing.T) {
	ctx := context.Background()

	t.Run("accept raises confidence", func(t *testing.T) {
		repo := new(mocks.MockMappingRepository)
		engine := NewEngine(repo)

		current := &model.ProductMapping{ID: "m1", ConfidenceScore: 0.6, UsageCount: 2}
		updated := &model.ProductMapping{ID: "m1", ConfidenceScore: 0.7, UsageCount: 3}
		repo.On("FindByID", ctx, "m1").Return(current, nil)
		repo.On("UpdateConfidence", ctx, "m1", 0.7).Return(updated, nil)

		res, err := engine.ApplyFeedback(ctx, "m1", true, 0)

		assert.NoError(t, err)
		assert.InDelta(t, 0.7, res.NewConfidence, 1e-9)
		assert.Equal(t, 3, res.Mapping.UsageCount)
		assert.False(t, res.RetrainRecommended)
	})

	t.Run("custom adjustment flags retraining", func(t *testing.T) {
		repo := new(mocks.MockMappingRepository)
		engine := NewEngine(repo)

		current := &model.ProductMapping{ID: "m1", ConfidenceScore: 0.9}
		updated := &model.ProductMapping{ID: "m1", ConfidenceScore: 0.5}
		repo.On("FindByID", ctx, "m1").Return(current, nil)
		repo.On("UpdateConfidence", ctx, "m1", 0.5).Return(updated, nil)

		res, err := engine.ApplyFeedback(ctx, "m1", false, 0.4)

		assert.NoError(t, err)
		assert.InDelta(t, 0.5, res.NewConfidence, 1e-9)
		assert.True(t, res.RetrainRecommended)
	})

	t.Run("reject lowers confidence", func(t *testing.T) {
		repo := new(mocks.MockMappingRepository)
		engine := NewEngine(repo)

		current := &model.ProductMapping{ID: "m1", ConfidenceScore: 0.6}
		updated := &model.ProductMapping{ID: "m1", ConfidenceScore: 0.5}
		repo.On("FindByID", ctx, "m1").Return(current, nil)
		repo.On("UpdateConfidence", ctx, "m1", 0.5).Return(updated, nil)

		res, err := engine.ApplyFeedback(ctx, "m1", false, 0)

		assert.NoError(t, err)
		assert.InDelta(t, 0.5, res.NewConfidence, 1e-9)
	})

	t.Run("confidence clamps at one", func(t *testing.T) {
		repo := new(mocks.MockMappingRepository)
		engine := NewEngine(repo)

		current := &model.ProductMapping{ID: "m1", ConfidenceScore: 0.95}
		updated := &model.ProductMapping{ID: "m1", ConfidenceScore: 1.0}
		repo.On("FindByID", ctx, "m1").Return(current, nil)
		repo.On("UpdateConfidence", ctx, "m1", 1.0).Return(updated, nil)

		res, err := engine.ApplyFeedback(ctx, "m1", true, 0)

		assert.NoError(t, err)
		assert.Equal(t, 1.0, res.NewConfidence)
	})

	t.Run("confidence clamps at zero", func(t *testing.T) {
		repo := new(mocks.MockMappingRepository)
		engine := NewEngine(repo)

		current := &model.ProductMapping{ID: "m1", ConfidenceScore: 0.05}
		updated := &model.ProductMapping{ID: "m1", ConfidenceScore: 0.0}
		repo.On("FindByID", ctx, "m1").Return(current, nil)
		repo.On("UpdateConfidence", ctx, "m1", 0.0).Return(updated, nil)

		res, err := engine.ApplyFeedback(ctx, "m1", false, 0)

		assert.NoError(t, err)
		assert.Equal(t, 0.0, res.NewConfidence)
	})

	t.Run("unknown mapping", func(t *testing.T) {
		repo := new(mocks.MockMappingRepository)
		engine := NewEngine(repo)

		repo.On("FindByID", ctx, "missing").Return(nil, nil)

		res, err := engine.ApplyFeedback(ctx, "missing", true, 0)

		assert.ErrorIs(t, err, ErrMappingNotFound)
		assert.Nil(t, res)
	})
}
