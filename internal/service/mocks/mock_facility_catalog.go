package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"facilitydocs/internal/analytics"
	"facilitydocs/internal/model"
	"facilitydocs/internal/service"
)

type MockFacilityCatalog struct {
	mock.Mock
}

var _ service.FacilityCatalog = (*MockFacilityCatalog)(nil)

func (m *MockFacilityCatalog) List(ctx context.Context, f analytics.Filter) ([]model.Facility, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Facility), args.Error(1)
}

func (m *MockFacilityCatalog) Get(ctx context.Context, id string) (model.Facility, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Facility), args.Error(1)
}

func (m *MockFacilityCatalog) Stats(ctx context.Context, f analytics.Filter) (analytics.Stats, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(analytics.Stats), args.Error(1)
}

func (m *MockFacilityCatalog) Markers(ctx context.Context, f analytics.Filter) ([]service.Marker, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.Marker), args.Error(1)
}

func (m *MockFacilityCatalog) Create(ctx context.Context, f model.Facility) (model.Facility, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(model.Facility), args.Error(1)
}

func (m *MockFacilityCatalog) Update(ctx context.Context, f model.Facility) (model.Facility, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(model.Facility), args.Error(1)
}

func (m *MockFacilityCatalog) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
