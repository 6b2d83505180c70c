package tenants

import (
	"context"
	"errors"
)

// ErrNotFound indicates the tenant or business unit does not exist.
var ErrNotFound = errors.New("tenant not found")

// ErrDuplicateName indicates a business unit name collision within a tenant.
var ErrDuplicateName = errors.New("duplicate name")

// Repo defines persistence operations for tenants and business units.
type Repo interface {
	Create(ctx context.Context, t Tenant) error
	GetByID(ctx context.Context, tenantID string) (Tenant, error)
	GetByName(ctx context.Context, name string) (Tenant, error)
	UpdateStatus(ctx context.Context, tenantID, status string) error
	List(ctx context.Context, limit, offset int) ([]Tenant, error)
	CreateBusinessUnit(ctx context.Context, bu BusinessUnit) error
	GetBusinessUnitByName(ctx context.Context, tenantID, name string) (BusinessUnit, error)
	ListBusinessUnits(ctx context.Context, tenantID string) ([]BusinessUnit, error)
}
