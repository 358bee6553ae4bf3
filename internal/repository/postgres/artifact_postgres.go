package postgres

import (
	"context"
	"database/sql"
	"time"

	"docgen/internal/model"
	"docgen/internal/repository"
)

// ArtifactPostgres is a PostgreSQL implementation of repository.ArtifactRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type ArtifactPostgres struct {
	db *sql.DB
}

// NewArtifactPostgres creates a new ArtifactPostgres repository.
func NewArtifactPostgres(db *sql.DB) *ArtifactPostgres {
	return &ArtifactPostgres{db: db}
}

var _ repository.ArtifactRepository = (*ArtifactPostgres)(nil)

const artifactColumns = `id, kind, client_name, document_number, model, allowance, amount, filename, storage_path, size, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanArtifact(s scanner) (model.Artifact, error) {
	var a model.Artifact
	var kind string
	err := s.Scan(
		&a.ID,
		&kind,
		&a.ClientName,
		&a.DocumentNumber,
		&a.Model,
		&a.Allowance,
		&a.Amount,
		&a.Filename,
		&a.StoragePath,
		&a.Size,
		&a.CreatedAt,
	)
	a.Kind = model.Kind(kind)
	return a, err
}

// Create inserts a new artifact row and returns the stored record.
func (r *ArtifactPostgres) Create(ctx context.Context, a *model.Artifact) (*model.Artifact, error) {
	const q = `
		INSERT INTO artifacts (kind, client_name, document_number, model, allowance, amount, filename, storage_path, size, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE($10::timestamptz, now()))
		RETURNING ` + artifactColumns

	var createdAt any
	if !a.CreatedAt.IsZero() {
		createdAt = a.CreatedAt
	}
	row := r.db.QueryRowContext(ctx, q,
		string(a.Kind),
		a.ClientName,
		a.DocumentNumber,
		a.Model,
		a.Allowance,
		a.Amount,
		a.Filename,
		a.StoragePath,
		a.Size,
		createdAt,
	)
	out, err := scanArtifact(row)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single artifact by its ID.
func (r *ArtifactPostgres) FindByID(ctx context.Context, id int64) (*model.Artifact, error) {
	const q = `SELECT ` + artifactColumns + ` FROM artifacts WHERE id = $1`
	a, err := scanArtifact(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns artifacts using LIMIT/OFFSET pagination and a total count.
func (r *ArtifactPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Artifact], error) {
	const qCount = `SELECT COUNT(*) FROM artifacts`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + artifactColumns + `
		FROM artifacts
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Artifact, 0)
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Artifact]{
		Items: items,
		Total: total,
	}, nil
}

// Delete removes an artifact by ID.
func (r *ArtifactPostgres) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM artifacts WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteOlderThan removes rows created strictly before cutoff. Concurrent
// callers each get the rows they removed, so no row is reported twice.
func (r *ArtifactPostgres) DeleteOlderThan(ctx context.Context, cutoff time.Time) ([]model.Artifact, error) {
	const q = `DELETE FROM artifacts WHERE created_at < $1 RETURNING ` + artifactColumns
	rows, err := r.db.QueryContext(ctx, q, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Artifact
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *ArtifactPostgres) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
