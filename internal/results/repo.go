package results

import (
	"context"
	"errors"
)

// ErrNotFound indicates no result exists for a job.
var ErrNotFound = errors.New("result not found")

// ErrDuplicate indicates a result was already written for the job.
var ErrDuplicate = errors.New("result already recorded")

// Repo stores screening results. One result per job.
type Repo interface {
	Create(ctx context.Context, res ScreeningResult) error
	GetByJobID(ctx context.Context, tenantID, jobID string) (ScreeningResult, error)
	ListByJobIDs(ctx context.Context, tenantID string, jobIDs []string) ([]ScreeningResult, error)
}
