package results

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo for dev and tests.
type MemoryRepo struct {
	mu      sync.RWMutex
	byJobID map[string]ScreeningResult
}

// NewMemoryRepo returns an empty in-memory store.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byJobID: map[string]ScreeningResult{}}
}

func (m *MemoryRepo) Create(ctx context.Context, res ScreeningResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byJobID[res.JobID]; exists {
		return ErrDuplicate
	}
	m.byJobID[res.JobID] = res
	return nil
}

func (m *MemoryRepo) GetByJobID(ctx context.Context, tenantID, jobID string) (ScreeningResult, error) {
	if err := ctx.Err(); err != nil {
		return ScreeningResult{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	res, ok := m.byJobID[jobID]
	if !ok || res.TenantID != tenantID {
		return ScreeningResult{}, ErrNotFound
	}
	return res, nil
}

func (m *MemoryRepo) ListByJobIDs(ctx context.Context, tenantID string, jobIDs []string) ([]ScreeningResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []ScreeningResult{}
	for _, jobID := range jobIDs {
		res, ok := m.byJobID[jobID]
		if !ok || res.TenantID != tenantID {
			continue
		}
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProcessedAt.Before(out[j].ProcessedAt) })
	return out, nil
}
