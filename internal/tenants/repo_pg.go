package tenants

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new tenant.
func (r *PGRepo) Create(ctx context.Context, t Tenant) error {
	const query = `
INSERT INTO tenants (id, name, plan, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.ExecContext(ctx, query, t.ID, t.Name, t.Plan, t.Status, t.CreatedAt, t.UpdatedAt)
	return err
}

// GetByID returns a tenant by ID.
func (r *PGRepo) GetByID(ctx context.Context, tenantID string) (Tenant, error) {
	const query = `
SELECT id, name, plan, status, created_at, updated_at FROM tenants WHERE id = $1 LIMIT 1`
	var t Tenant
	err := r.DB.QueryRowContext(ctx, query, tenantID).Scan(&t.ID, &t.Name, &t.Plan, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Tenant{}, ErrNotFound
		}
		return Tenant{}, err
	}
	return t, nil
}

// GetByName returns a tenant by exact name.
func (r *PGRepo) GetByName(ctx context.Context, name string) (Tenant, error) {
	const query = `
SELECT id, name, plan, status, created_at, updated_at FROM tenants WHERE name = $1 LIMIT 1`
	var t Tenant
	err := r.DB.QueryRowContext(ctx, query, name).Scan(&t.ID, &t.Name, &t.Plan, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Tenant{}, ErrNotFound
		}
		return Tenant{}, err
	}
	return t, nil
}

// UpdateStatus flips a tenant between active and suspended.
func (r *PGRepo) UpdateStatus(ctx context.Context, tenantID, status string) error {
	res, err := r.DB.ExecContext(ctx, `
UPDATE tenants SET status = $1, updated_at = now() WHERE id = $2`, status, tenantID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns tenants newest first.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Tenant, error) {
	const query = `
SELECT id, name, plan, status, created_at, updated_at
FROM tenants
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`
	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Tenant{}
	for rows.Next() {
		var t Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.Plan, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CreateBusinessUnit inserts a business unit under a tenant.
func (r *PGRepo) CreateBusinessUnit(ctx context.Context, bu BusinessUnit) error {
	const query = `
INSERT INTO business_units (id, tenant_id, name, created_at)
VALUES ($1, $2, $3, $4)`
	_, err := r.DB.ExecContext(ctx, query, bu.ID, bu.TenantID, bu.Name, bu.CreatedAt)
	if err != nil && strings.Contains(err.Error(), "business_units_tenant_id_name_key") {
		return ErrDuplicateName
	}
	return err
}

// GetBusinessUnitByName returns a business unit by name within a tenant.
func (r *PGRepo) GetBusinessUnitByName(ctx context.Context, tenantID, name string) (BusinessUnit, error) {
	const query = `
SELECT id, tenant_id, name, created_at
FROM business_units
WHERE tenant_id = $1 AND name = $2
LIMIT 1`
	var bu BusinessUnit
	err := r.DB.QueryRowContext(ctx, query, tenantID, name).Scan(&bu.ID, &bu.TenantID, &bu.Name, &bu.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return BusinessUnit{}, ErrNotFound
		}
		return BusinessUnit{}, err
	}
	return bu, nil
}

// ListBusinessUnits returns the business units of a tenant.
func (r *PGRepo) ListBusinessUnits(ctx context.Context, tenantID string) ([]BusinessUnit, error) {
	const query = `
SELECT id, tenant_id, name, created_at
FROM business_units
WHERE tenant_id = $1
ORDER BY created_at`
	rows, err := r.DB.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []BusinessUnit{}
	for rows.Next() {
		var bu BusinessUnit
		if err := rows.Scan(&bu.ID, &bu.TenantID, &bu.Name, &bu.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, bu)
	}
	return out, rows.Err()
}
