package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"docgen/internal/model"
	"docgen/internal/repository"
	"docgen/internal/storage"
)

var (
	ErrIDRequired         = errors.New("id is required")
	ErrNotFound           = errors.New("artifact not found")
	ErrStorageUnavailable = errors.New("artifact storage unavailable")
)

// ArtifactListResult is the service-level DTO for paginated artifacts.
type ArtifactListResult struct {
	Items []model.Artifact `json:"data"`
	Total int              `json:"total"`
}

// ArtifactService stores generated PDFs and serves them back until they expire.
type ArtifactService interface {
	// Save uploads the PDF to object storage and records it, removing the
	// object again if the record cannot be written.
	Save(ctx context.Context, a *model.Artifact, pdf []byte) (*model.Artifact, error)

	// List returns artifacts newest first using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*ArtifactListResult, error)

	// Get returns a single artifact's metadata.
	Get(ctx context.Context, id int64) (*model.Artifact, error)

	// Open streams the stored PDF. The caller closes the reader.
	Open(ctx context.Context, id int64) (io.ReadCloser, *model.Artifact, error)

	// Link returns a pre-signed download URL valid for ttl.
	Link(ctx context.Context, id int64, ttl time.Duration) (string, error)

	// Delete removes an artifact from both storage and repository.
	Delete(ctx context.Context, id int64) error

	// Expire removes every artifact older than retention and returns how many were removed.
	Expire(ctx context.Context, retention time.Duration) (int, error)
}

type artifactService struct {
	store storage.Storage
	repo  repository.ArtifactRepository
	log   *logrus.Logger
	now   func() time.Time
}

// NewArtifactService constructs a new ArtifactService.
func NewArtifactService(store storage.Storage, repo repository.ArtifactRepository, log *logrus.Logger) ArtifactService {
	return &artifactService{store: store, repo: repo, log: log, now: time.Now}
}

func (s *artifactService) Save(ctx context.Context, a *model.Artifact, pdf []byte) (*model.Artifact, error) {
	now := s.now()
	key := storage.ArtifactKey(string(a.Kind), now)

	info, err := s.store.Put(ctx, key, bytes.NewReader(pdf), storage.PutObjectOptions{
		Size:        int64(len(pdf)),
		ContentType: storage.PDFContentType,
		Metadata:    map[string]string{"filename": a.Filename},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	rec := *a
	rec.StoragePath = info.Key
	rec.Size = int64(len(pdf))
	rec.CreatedAt = now.UTC()

	stored, err := s.repo.Create(ctx, &rec)
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func (s *artifactService) List(ctx context.Context, limit, offset int) (*ArtifactListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return &ArtifactListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *artifactService) Get(ctx context.Context, id int64) (*model.Artifact, error) {
	if id <= 0 {
		return nil, ErrIDRequired
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return a, nil
}

func (s *artifactService) Open(ctx context.Context, id int64) (io.ReadCloser, *model.Artifact, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, _, err := s.store.Get(ctx, a.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return rc, a, nil
}

func (s *artifactService) Link(ctx context.Context, id int64, ttl time.Duration) (string, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	u, err := s.store.PresignGet(ctx, a.StoragePath, ttl)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return u, nil
}

// Delete removes the object first; if that fails the row is kept so the
// object is not orphaned.
func (s *artifactService) Delete(ctx context.Context, id int64) error {
	a, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, a.StoragePath); err != nil {
		return fmt.Errorf("%w: delete object: %v", ErrStorageUnavailable, err)
	}
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Expire deletes rows first so a concurrent sweep never sees them twice,
// then removes their objects. An object that fails to delete is logged
// and left behind.
func (s *artifactService) Expire(ctx context.Context, retention time.Duration) (int, error) {
	cutoff := s.now().Add(-retention)
	removed, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	for _, a := range removed {
		if err := s.store.Delete(ctx, a.StoragePath); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"artifact_id":  a.ID,
				"storage_path": a.StoragePath,
			}).Warn("expired artifact object not removed")
		}
	}
	return len(removed), nil
}
