package batches

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("batch not found")

type Repo interface {
	Create(ctx context.Context, batch Batch) error
	GetForTenant(ctx context.Context, tenantID, batchID string) (Batch, error)
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]Batch, error)
	UpdateStatus(ctx context.Context, batchID, status string) error
}
