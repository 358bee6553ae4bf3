package mocks

import (
	"context"
	"io"
	"time"

	"docgen/internal/model"
	"docgen/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockArtifactService struct {
	mock.Mock
}

var _ service.ArtifactService = (*MockArtifactService)(nil)

func (m *MockArtifactService) Save(ctx context.Context, a *model.Artifact, pdf []byte) (*model.Artifact, error) {
	args := m.Called(ctx, a, pdf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Artifact), args.Error(1)
}

func (m *MockArtifactService) List(ctx context.Context, limit, offset int) (*service.ArtifactListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ArtifactListResult), args.Error(1)
}

func (m *MockArtifactService) Get(ctx context.Context, id int64) (*model.Artifact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Artifact), args.Error(1)
}

func (m *MockArtifactService) Open(ctx context.Context, id int64) (io.ReadCloser, *model.Artifact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(*model.Artifact), args.Error(2)
}

func (m *MockArtifactService) Link(ctx context.Context, id int64, ttl time.Duration) (string, error) {
	args := m.Called(ctx, id, ttl)
	return args.String(0), args.Error(1)
}

func (m *MockArtifactService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockArtifactService) Expire(ctx context.Context, retention time.Duration) (int, error) {
	args := m.Called(ctx, retention)
	return args.Int(0), args.Error(1)
}
