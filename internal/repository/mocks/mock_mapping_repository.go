package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tradedocs/internal/model"
	"tradedocs/internal/repository"
)

type MockMappingRepository struct {
	mock.Mock
}

func (m *MockMappingRepository) FindByID(ctx context.Context, id string) (*model.ProductMapping, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductMapping), args.Error(1)
}

func (m *MockMappingRepository) FindByCompanies(ctx context.Context, fromCompany, toCompany string) ([]model.ProductMapping, error) {
	args := m.Called(ctx, fromCompany, toCompany)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProductMapping), args.Error(1)
}

func (m *MockMappingRepository) FindBestMatch(ctx context.Context, fromCompany, toCompany, code string) (*model.ProductMapping, error) {
	args := m.Called(ctx, fromCompany, toCompany, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductMapping), args.Error(1)
}

func (m *MockMappingRepository) FindSimilar(ctx context.Context, fromCompany, toCompany, term string, limit int) ([]model.ProductMapping, error) {
	args := m.Called(ctx, fromCompany, toCompany, term, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProductMapping), args.Error(1)
}

func (m *MockMappingRepository) CreateOrUpdate(ctx context.Context, up *repository.UpsertMapping) (*model.ProductMapping, error) {
	args := m.Called(ctx, up)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductMapping), args.Error(1)
}

func (m *MockMappingRepository) UpdateConfidence(ctx context.Context, id string, confidence float64) (*model.ProductMapping, error) {
	args := m.Called(ctx, id, confidence)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductMapping), args.Error(1)
}

func (m *MockMappingRepository) Stats(ctx context.Context, fromCompany, toCompany string) (*model.MappingStats, error) {
	args := m.Called(ctx, fromCompany, toCompany)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MappingStats), args.Error(1)
}

func (m *MockMappingRepository) ListNeedingReview(ctx context.Context, fromCompany, toCompany string, limit int) ([]model.ProductMapping, error) {
	args := m.Called(ctx, fromCompany, toCompany, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProductMapping), args.Error(1)
}
