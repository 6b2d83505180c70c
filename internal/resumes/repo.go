package resumes

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates the resume does not exist in the tenant.
var ErrNotFound = errors.New("resume not found")

// Repo defines persistence operations for resumes.
type Repo interface {
	Create(ctx context.Context, res Resume) error
	GetByID(ctx context.Context, tenantID, resumeID string) (Resume, error)
	GetBySHA256(ctx context.Context, tenantID, businessUnitID, sum string) (Resume, error)
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]Resume, error)
	UpdateExtraction(ctx context.Context, tenantID, resumeID, extractedKey string, extractedAt time.Time) error
}
