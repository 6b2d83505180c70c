package jobdescriptions

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]JobDescription // tenantId -> JDs
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string][]JobDescription)}
}

func (r *MemoryRepo) Create(ctx context.Context, jd JobDescription) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[jd.TenantID] = append(r.data[jd.TenantID], jd)
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, tenantID, jdID string) (JobDescription, error) {
	if err := ctx.Err(); err != nil {
		return JobDescription{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, jd := range r.data[tenantID] {
		if jd.ID == jdID {
			return jd, nil
		}
	}
	return JobDescription{}, ErrNotFound
}

func (r *MemoryRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]JobDescription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	jds := r.data[tenantID]
	out := make([]JobDescription, len(jds))
	copy(out, jds)
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if offset < 0 {
		offset = 0
	}
	if offset >= len(out) {
		return []JobDescription{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}
