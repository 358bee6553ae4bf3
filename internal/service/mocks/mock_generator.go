package mocks

import (
	"context"

	"docgen/internal/model"
	"docgen/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockGenerator struct {
	mock.Mock
}

var _ service.Generator = (*MockGenerator)(nil)

func (m *MockGenerator) Generate(ctx context.Context, req service.Request) (*service.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Result), args.Error(1)
}

func (m *MockGenerator) Placeholders(kind model.Kind) ([]string, error) {
	args := m.Called(kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
