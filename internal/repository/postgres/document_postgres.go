package postgres

import (
	"context"
	"database/sql"
	"errors"

	"facilitydocs/internal/model"
	"facilitydocs/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, title, author, type, format, description, facility_id, url, storage_path, thumbnail, upload_date`

type scanner interface {
	Scan(dest ...any) error
}

// scanDocument reads one row; NULL columns become empty strings or the zero time.
func scanDocument(s scanner) (model.DocumentRow, error) {
	var d model.DocumentRow
	var title, author, typ, format, desc sql.NullString
	var facilityID, url, storagePath, thumb sql.NullString
	var uploadDate sql.NullTime
	if err := s.Scan(
		&d.ID,
		&title,
		&author,
		&typ,
		&format,
		&desc,
		&facilityID,
		&url,
		&storagePath,
		&thumb,
		&uploadDate,
	); err != nil {
		return model.DocumentRow{}, err
	}
	d.Title = title.String
	d.Author = author.String
	d.Type = typ.String
	d.Format = format.String
	d.Description = desc.String
	d.FacilityID = facilityID.String
	d.URL = url.String
	d.StoragePath = storagePath.String
	d.Thumbnail = thumb.String
	d.UploadDate = uploadDate.Time
	return d, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// ListByUploadDate returns every document row ordered by upload date, newest first.
func (r *DocumentPostgres) ListByUploadDate(ctx context.Context) ([]model.DocumentRow, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents ORDER BY upload_date DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.DocumentRow, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Upsert inserts a row or overwrites the existing row with the same ID.
func (r *DocumentPostgres) Upsert(ctx context.Context, d model.DocumentRow) (model.DocumentRow, error) {
	const q = `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			author = EXCLUDED.author,
			type = EXCLUDED.type,
			format = EXCLUDED.format,
			description = EXCLUDED.description,
			facility_id = EXCLUDED.facility_id,
			url = EXCLUDED.url,
			storage_path = EXCLUDED.storage_path,
			thumbnail = EXCLUDED.thumbnail,
			upload_date = EXCLUDED.upload_date
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		d.ID,
		d.Title,
		d.Author,
		d.Type,
		d.Format,
		d.Description,
		nullString(d.FacilityID),
		d.URL,
		nullString(d.StoragePath),
		nullString(d.Thumbnail),
		d.UploadDate,
	)
	return scanDocument(row)
}

// AttachFile sets the file location columns of one document.
func (r *DocumentPostgres) AttachFile(ctx context.Context, id, url, storagePath string, format model.Format) error {
	const q = `UPDATE documents SET url = $2, storage_path = $3, format = $4 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, url, storagePath, string(format))
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

// Delete removes a document by ID. It does not return an error if the row does not exist.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM documents WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// IsNoRowsError reports whether err means a query matched nothing.
func IsNoRowsError(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, repository.ErrNotFound)
}
