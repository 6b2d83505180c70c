package tenants

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

// Service contains business logic for tenant management.
type Service struct {
	Repo Repo
}

// Create registers a new tenant with a default plan.
func (s *Service) Create(ctx context.Context, name, plan string) (Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Tenant{}, errors.New("name is required")
	}
	if plan == "" {
		plan = "Starter"
	}
	now := time.Now().UTC()
	t := Tenant{
		ID:        uuid.NewString(),
		Name:      name,
		Plan:      plan,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, t); err != nil {
		return Tenant{}, err
	}
	return t, nil
}

// GetOrCreate returns the tenant with the given name, creating it if absent.
func (s *Service) GetOrCreate(ctx context.Context, name string) (Tenant, error) {
	t, err := s.Repo.GetByName(ctx, strings.TrimSpace(name))
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Tenant{}, err
	}
	return s.Create(ctx, name, "")
}

// Suspend marks a tenant suspended. Suspended tenants cannot start screenings.
func (s *Service) Suspend(ctx context.Context, tenantID string) error {
	return s.Repo.UpdateStatus(ctx, tenantID, StatusSuspended)
}

// Activate marks a tenant active.
func (s *Service) Activate(ctx context.Context, tenantID string) error {
	return s.Repo.UpdateStatus(ctx, tenantID, StatusActive)
}

// Get returns a tenant by ID.
func (s *Service) Get(ctx context.Context, tenantID string) (Tenant, error) {
	return s.Repo.GetByID(ctx, tenantID)
}

// List returns tenants newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Tenant, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Repo.List(ctx, limit, offset)
}

// GetOrCreateBusinessUnit returns the named unit, creating it if absent.
func (s *Service) GetOrCreateBusinessUnit(ctx context.Context, tenantID, name string) (BusinessUnit, error) {
	bu, err := s.Repo.GetBusinessUnitByName(ctx, tenantID, strings.TrimSpace(name))
	if err == nil {
		return bu, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return BusinessUnit{}, err
	}
	return s.CreateBusinessUnit(ctx, tenantID, name)
}

// CreateBusinessUnit adds a named business unit under a tenant.
func (s *Service) CreateBusinessUnit(ctx context.Context, tenantID, name string) (BusinessUnit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return BusinessUnit{}, errors.New("name is required")
	}
	if _, err := s.Repo.GetByID(ctx, tenantID); err != nil {
		return BusinessUnit{}, err
	}
	bu := BusinessUnit{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Repo.CreateBusinessUnit(ctx, bu); err != nil {
		return BusinessUnit{}, err
	}
	return bu, nil
}

// ListBusinessUnits returns a tenant's business units.
func (s *Service) ListBusinessUnits(ctx context.Context, tenantID string) ([]BusinessUnit, error) {
	return s.Repo.ListBusinessUnits(ctx, tenantID)
}
