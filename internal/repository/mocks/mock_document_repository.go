package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"facilitydocs/internal/model"
	"facilitydocs/internal/repository"
)

type MockDocumentRepository struct {
	mock.Mock
}

var _ repository.DocumentRepository = (*MockDocumentRepository)(nil)

func (m *MockDocumentRepository) ListByUploadDate(ctx context.Context) ([]model.DocumentRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentRow), args.Error(1)
}

func (m *MockDocumentRepository) Upsert(ctx context.Context, row model.DocumentRow) (model.DocumentRow, error) {
	args := m.Called(ctx, row)
	if f, ok := args.Get(0).(func(model.DocumentRow) model.DocumentRow); ok {
		return f(row), args.Error(1)
	}
	return args.Get(0).(model.DocumentRow), args.Error(1)
}

func (m *MockDocumentRepository) AttachFile(ctx context.Context, id, url, storagePath string, format model.Format) error {
	args := m.Called(ctx, id, url, storagePath, format)
	return args.Error(0)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
