package tenants

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu      sync.RWMutex
	tenants map[string]Tenant
	units   map[string][]BusinessUnit // tenantId -> units
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		tenants: make(map[string]Tenant),
		units:   make(map[string][]BusinessUnit),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, t Tenant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tenants[t.ID] = t
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, tenantID string) (Tenant, error) {
	if err := ctx.Err(); err != nil {
		return Tenant{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tenants[tenantID]
	if !ok {
		return Tenant{}, ErrNotFound
	}
	return t, nil
}

func (r *MemoryRepo) GetByName(ctx context.Context, name string) (Tenant, error) {
	if err := ctx.Err(); err != nil {
		return Tenant{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.tenants {
		if t.Name == name {
			return t, nil
		}
	}
	return Tenant{}, ErrNotFound
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, tenantID, status string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tenants[tenantID]
	if !ok {
		return ErrNotFound
	}
	t.Status = status
	r.tenants[tenantID] = t
	return nil
}

func (r *MemoryRepo) List(ctx context.Context, limit, offset int) ([]Tenant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	all := make([]Tenant, 0, len(r.tenants))
	for _, t := range r.tenants {
		all = append(all, t)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []Tenant{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *MemoryRepo) CreateBusinessUnit(ctx context.Context, bu BusinessUnit) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.units[bu.TenantID] {
		if existing.Name == bu.Name {
			return ErrDuplicateName
		}
	}
	r.units[bu.TenantID] = append(r.units[bu.TenantID], bu)
	return nil
}

func (r *MemoryRepo) GetBusinessUnitByName(ctx context.Context, tenantID, name string) (BusinessUnit, error) {
	if err := ctx.Err(); err != nil {
		return BusinessUnit{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, bu := range r.units[tenantID] {
		if bu.Name == name {
			return bu, nil
		}
	}
	return BusinessUnit{}, ErrNotFound
}

func (r *MemoryRepo) ListBusinessUnits(ctx context.Context, tenantID string) ([]BusinessUnit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	units := r.units[tenantID]
	out := make([]BusinessUnit, len(units))
	copy(out, units)
	return out, nil
}
