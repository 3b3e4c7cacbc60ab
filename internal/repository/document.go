package repository

import (
	"context"

	"facilitydocs/internal/model"
)

// DocumentRepository defines data access for the document table using SQL queries only.
type DocumentRepository interface {
	// ListByUploadDate returns every row, newest upload first.
	ListByUploadDate(ctx context.Context) ([]model.DocumentRow, error)

	// Upsert inserts row or replaces the row with the same ID and returns the stored record.
	Upsert(ctx context.Context, row model.DocumentRow) (model.DocumentRow, error)

	// AttachFile records where the uploaded file of a document lives.
	// Returns ErrNotFound if no row has the given ID.
	AttachFile(ctx context.Context, id, url, storagePath string, format model.Format) error

	// Delete removes a row by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}
