// Package repository contains data access abstractions. Implementations live
// in subpackages (e.g. postgres).
package repository

import (
	"context"
	"time"

	"docgen/internal/model"
)

// ArtifactRepository defines data access for generated artifacts using SQL queries only.
// No business logic here; strictly persistence operations.
type ArtifactRepository interface {
	// Create inserts a new artifact row. ID and CreatedAt are assigned by the database
	// when zero and returned in the stored record.
	Create(ctx context.Context, a *model.Artifact) (*model.Artifact, error)

	// FindByID returns an artifact by its ID, or sql.ErrNoRows.
	FindByID(ctx context.Context, id int64) (*model.Artifact, error)

	// List returns a page of artifacts, newest first, and the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Artifact], error)

	// Delete removes an artifact by ID and reports whether a row existed.
	Delete(ctx context.Context, id int64) (bool, error)

	// DeleteOlderThan removes every artifact created before cutoff and returns the removed rows.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) ([]model.Artifact, error)

	// Ping checks the connection.
	Ping(ctx context.Context) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
