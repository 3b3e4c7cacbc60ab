package repository

import (
	"context"

	"facilitydocs/internal/model"
)

// FacilityRepository defines data access for recycling facilities.
type FacilityRepository interface {
	// List returns every facility ordered by country, then name.
	List(ctx context.Context) ([]model.Facility, error)

	// FindByID returns ErrNotFound when no facility has the given ID.
	FindByID(ctx context.Context, id string) (model.Facility, error)

	Create(ctx context.Context, f model.Facility) (model.Facility, error)

	// Update replaces every editable column. Returns ErrNotFound for unknown IDs.
	Update(ctx context.Context, f model.Facility) (model.Facility, error)

	// Delete returns ErrNotFound when nothing was deleted.
	Delete(ctx context.Context, id string) error
}
