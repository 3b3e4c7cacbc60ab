package postgres

import (
	"context"
	"database/sql"
	"errors"

	"facilitydocs/internal/model"
	"facilitydocs/internal/repository"
)

// FacilityPostgres is a PostgreSQL implementation of repository.FacilityRepository.
type FacilityPostgres struct {
	db *sql.DB
}

// NewFacilityPostgres creates a new FacilityPostgres repository.
func NewFacilityPostgres(db *sql.DB) *FacilityPostgres {
	return &FacilityPostgres{db: db}
}

var _ repository.FacilityRepository = (*FacilityPostgres)(nil)

const facilityColumns = `id, name, location, country, latitude, longitude, status, production, processing, notes, website, created_at, updated_at`

func scanFacility(s scanner) (model.Facility, error) {
	var f model.Facility
	var status string
	var production, processing, notes, website sql.NullString
	if err := s.Scan(
		&f.ID,
		&f.Name,
		&f.Location,
		&f.Country,
		&f.Latitude,
		&f.Longitude,
		&status,
		&production,
		&processing,
		&notes,
		&website,
		&f.CreatedAt,
		&f.UpdatedAt,
	); err != nil {
		return model.Facility{}, err
	}
	f.Status = model.FacilityStatus(status)
	f.Production = production.String
	f.Processing = processing.String
	f.Notes = notes.String
	f.Website = website.String
	return f, nil
}

// List returns every facility ordered by country and name.
func (r *FacilityPostgres) List(ctx context.Context) ([]model.Facility, error) {
	const q = `SELECT ` + facilityColumns + ` FROM facilities ORDER BY country, name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Facility, 0)
	for rows.Next() {
		f, err := scanFacility(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID fetches a single facility.
func (r *FacilityPostgres) FindByID(ctx context.Context, id string) (model.Facility, error) {
	const q = `SELECT ` + facilityColumns + ` FROM facilities WHERE id = $1`
	f, err := scanFacility(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Facility{}, repository.ErrNotFound
	}
	return f, err
}

// Create inserts a facility and returns the stored record.
func (r *FacilityPostgres) Create(ctx context.Context, f model.Facility) (model.Facility, error) {
	const q = `
		INSERT INTO facilities (` + facilityColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + facilityColumns
	row := r.db.QueryRowContext(ctx, q,
		f.ID,
		f.Name,
		f.Location,
		f.Country,
		f.Latitude,
		f.Longitude,
		string(f.Status),
		f.Production,
		f.Processing,
		f.Notes,
		f.Website,
		f.CreatedAt,
		f.UpdatedAt,
	)
	return scanFacility(row)
}

// Update overwrites the editable columns of an existing facility.
func (r *FacilityPostgres) Update(ctx context.Context, f model.Facility) (model.Facility, error) {
	const q = `
		UPDATE facilities SET
			name = $2, location = $3, country = $4, latitude = $5, longitude = $6,
			status = $7, production = $8, processing = $9, notes = $10, website = $11,
			updated_at = $12
		WHERE id = $1
		RETURNING ` + facilityColumns
	row := r.db.QueryRowContext(ctx, q,
		f.ID,
		f.Name,
		f.Location,
		f.Country,
		f.Latitude,
		f.Longitude,
		string(f.Status),
		f.Production,
		f.Processing,
		f.Notes,
		f.Website,
		f.UpdatedAt,
	)
	out, err := scanFacility(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Facility{}, repository.ErrNotFound
	}
	return out, err
}

// Delete removes a facility by ID.
func (r *FacilityPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM facilities WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
