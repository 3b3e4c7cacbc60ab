package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"facilitydocs/internal/model"
	"facilitydocs/internal/repository"
)

type MockFacilityRepository struct {
	mock.Mock
}

var _ repository.FacilityRepository = (*MockFacilityRepository)(nil)

func (m *MockFacilityRepository) List(ctx context.Context) ([]model.Facility, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Facility), args.Error(1)
}

func (m *MockFacilityRepository) FindByID(ctx context.Context, id string) (model.Facility, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Facility), args.Error(1)
}

func (m *MockFacilityRepository) Create(ctx context.Context, f model.Facility) (model.Facility, error) {
	args := m.Called(ctx, f)
	if fn, ok := args.Get(0).(func(model.Facility) model.Facility); ok {
		return fn(f), args.Error(1)
	}
	return args.Get(0).(model.Facility), args.Error(1)
}

func (m *MockFacilityRepository) Update(ctx context.Context, f model.Facility) (model.Facility, error) {
	args := m.Called(ctx, f)
	if fn, ok := args.Get(0).(func(model.Facility) model.Facility); ok {
		return fn(f), args.Error(1)
	}
	return args.Get(0).(model.Facility), args.Error(1)
}

func (m *MockFacilityRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
