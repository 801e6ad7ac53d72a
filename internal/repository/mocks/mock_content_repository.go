package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tradedocs/internal/model"
)

type MockContentRepository struct {
	mock.Mock
}

func (m *MockContentRepository) Upsert(ctx context.Context, documentID, fieldName, fieldValue string, confidence float64, verified bool) (*model.ExtractedField, error) {
	args := m.Called(ctx, documentID, fieldName, fieldValue, confidence, verified)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ExtractedField), args.Error(1)
}

func (m *MockContentRepository) ListByDocument(ctx context.Context, documentID string) ([]model.ExtractedField, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ExtractedField), args.Error(1)
}
