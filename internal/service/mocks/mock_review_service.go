package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tradedocs/internal/service"
)

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) DocumentForReview(ctx context.Context, documentID string) (*service.ReviewDocument, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReviewDocument), args.Error(1)
}

func (m *MockReviewService) ApplyCorrections(ctx context.Context, documentID, reviewer string, corrections []service.FieldCorrection) (*service.ReviewDocument, error) {
	args := m.Called(ctx, documentID, reviewer, corrections)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReviewDocument), args.Error(1)
}
