package mocks

import (
	"context"
	"time"

	"docgen/internal/model"
	"docgen/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockArtifactRepository struct {
	mock.Mock
}

var _ repository.ArtifactRepository = (*MockArtifactRepository)(nil)

func (m *MockArtifactRepository) Create(ctx context.Context, a *model.Artifact) (*model.Artifact, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Artifact), args.Error(1)
}

func (m *MockArtifactRepository) FindByID(ctx context.Context, id int64) (*model.Artifact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Artifact), args.Error(1)
}

func (m *MockArtifactRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Artifact], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Artifact]), args.Error(1)
}

func (m *MockArtifactRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockArtifactRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) ([]model.Artifact, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Artifact), args.Error(1)
}

func (m *MockArtifactRepository) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
