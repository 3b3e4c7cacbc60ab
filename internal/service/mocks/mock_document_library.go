package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"facilitydocs/internal/model"
	"facilitydocs/internal/service"
)

type MockDocumentLibrary struct {
	mock.Mock
}

var _ service.DocumentLibrary = (*MockDocumentLibrary)(nil)

func (m *MockDocumentLibrary) Load(ctx context.Context, force bool) error {
	args := m.Called(ctx, force)
	return args.Error(0)
}

func (m *MockDocumentLibrary) Snapshot() service.State {
	args := m.Called()
	return args.Get(0).(service.State)
}

func (m *MockDocumentLibrary) FacilityDocuments(facilityID string) []model.Document {
	args := m.Called(facilityID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]model.Document)
}

func (m *MockDocumentLibrary) Add(ctx context.Context, draft service.DocumentDraft, file *service.Upload) (model.Document, error) {
	args := m.Called(ctx, draft, file)
	return args.Get(0).(model.Document), args.Error(1)
}

func (m *MockDocumentLibrary) Remove(ctx context.Context, id, facilityID, storagePath string) error {
	args := m.Called(ctx, id, facilityID, storagePath)
	return args.Error(0)
}
