package jobdescriptions

import (
	"context"
	"errors"
)

// ErrNotFound indicates the job description does not exist in the tenant.
var ErrNotFound = errors.New("job description not found")

// Repo defines persistence operations for job descriptions.
type Repo interface {
	Create(ctx context.Context, jd JobDescription) error
	GetByID(ctx context.Context, tenantID, jdID string) (JobDescription, error)
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]JobDescription, error)
}
