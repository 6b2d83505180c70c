package resumes

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"screening-backend/internal/shared/storage/object"
)

// ErrInvalidInput indicates a malformed upload request.
var ErrInvalidInput = errors.New("invalid input")

// Service contains business logic for resume ingestion.
type Service struct {
	Store object.ObjectStore
	Repo  Repo
}

// Upload stores a resume file and records it. Files whose sha256 already
// exists within the same business unit are not stored again; the existing
// row is returned with duplicate=true.
func (s *Service) Upload(ctx context.Context, tenantID, businessUnitID, uploadedBy, fileName string, r io.Reader) (Resume, bool, error) {
	if tenantID == "" || fileName == "" {
		return Resume{}, false, ErrInvalidInput
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return Resume{}, false, err
	}
	if len(body) == 0 {
		return Resume{}, false, ErrInvalidInput
	}

	sum := sha256.Sum256(body)
	checksum := hex.EncodeToString(sum[:])

	existing, err := s.Repo.GetBySHA256(ctx, tenantID, businessUnitID, checksum)
	if err == nil {
		return existing, true, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Resume{}, false, err
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, tenantID, fileName, bytes.NewReader(body))
	if err != nil {
		return Resume{}, false, err
	}

	res := Resume{
		ID:             uuid.NewString(),
		TenantID:       tenantID,
		BusinessUnitID: businessUnitID,
		FileName:       fileName,
		ContentType:    mimeType,
		SizeBytes:      size,
		SHA256:         checksum,
		StorageKey:     storageKey,
		UploadedBy:     uploadedBy,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, res); err != nil {
		return Resume{}, false, err
	}
	return res, false, nil
}

// Get returns a resume scoped to a tenant.
func (s *Service) Get(ctx context.Context, tenantID, resumeID string) (Resume, error) {
	return s.Repo.GetByID(ctx, tenantID, resumeID)
}

// List returns a tenant's resumes newest first.
func (s *Service) List(ctx context.Context, tenantID string, limit, offset int) ([]Resume, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Repo.ListByTenant(ctx, tenantID, limit, offset)
}

// RecordExtraction stores the object key of a resume's extracted text so
// later screening jobs reuse the cached text instead of re-reading the file.
func (s *Service) RecordExtraction(ctx context.Context, tenantID, resumeID, extractedKey string, extractedAt time.Time) error {
	return s.Repo.UpdateExtraction(ctx, tenantID, resumeID, extractedKey, extractedAt)
}

// OpenFile opens the stored resume content.
func (s *Service) OpenFile(ctx context.Context, res Resume) (io.ReadCloser, error) {
	return s.Store.Open(ctx, res.StorageKey)
}
