package batches

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	batches map[string]Batch
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{batches: make(map[string]Batch)}
}

func (r *MemoryRepo) Create(ctx context.Context, batch Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches[batch.ID] = batch
	return nil
}

func (r *MemoryRepo) GetForTenant(ctx context.Context, tenantID, batchID string) (Batch, error) {
	if err := ctx.Err(); err != nil {
		return Batch{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	batch, ok := r.batches[batchID]
	if !ok || batch.TenantID != tenantID {
		return Batch{}, ErrNotFound
	}
	return batch, nil
}

func (r *MemoryRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Batch{}
	for _, batch := range r.batches {
		if batch.TenantID == tenantID {
			out = append(out, batch)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if offset >= len(out) {
		return []Batch{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, batchID, status string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	batch, ok := r.batches[batchID]
	if !ok {
		return ErrNotFound
	}
	batch.Status = status
	batch.UpdatedAt = time.Now().UTC()
	r.batches[batchID] = batch
	return nil
}
