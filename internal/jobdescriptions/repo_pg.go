package jobdescriptions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new job description.
func (r *PGRepo) Create(ctx context.Context, jd JobDescription) error {
	const query = `
INSERT INTO job_descriptions (id, tenant_id, business_unit_id, title, description, scoring, created_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	payload, err := json.Marshal(jd.Data)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		jd.ID,
		jd.TenantID,
		nullString(jd.BusinessUnitID),
		jd.Title,
		jd.Description,
		payload,
		nullString(jd.CreatedBy),
		jd.CreatedAt,
		jd.UpdatedAt,
	)
	return err
}

// GetByID returns a job description scoped to a tenant.
func (r *PGRepo) GetByID(ctx context.Context, tenantID, jdID string) (JobDescription, error) {
	const query = `
SELECT id, tenant_id, business_unit_id, title, description, scoring, created_by, created_at, updated_at
FROM job_descriptions
WHERE id = $1 AND tenant_id = $2
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, jdID, tenantID)
	jd, err := scanJD(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return JobDescription{}, ErrNotFound
		}
		return JobDescription{}, err
	}
	return jd, nil
}

// ListByTenant returns a tenant's job descriptions newest first.
func (r *PGRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]JobDescription, error) {
	const query = `
SELECT id, tenant_id, business_unit_id, title, description, scoring, created_by, created_at, updated_at
FROM job_descriptions
WHERE tenant_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []JobDescription{}
	for rows.Next() {
		jd, err := scanJD(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, jd)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJD(row rowScanner) (JobDescription, error) {
	var jd JobDescription
	var businessUnitID sql.NullString
	var payload []byte
	var createdBy sql.NullString
	err := row.Scan(
		&jd.ID,
		&jd.TenantID,
		&businessUnitID,
		&jd.Title,
		&jd.Description,
		&payload,
		&createdBy,
		&jd.CreatedAt,
		&jd.UpdatedAt,
	)
	if err != nil {
		return JobDescription{}, err
	}
	jd.BusinessUnitID = businessUnitID.String
	jd.CreatedBy = createdBy.String
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &jd.Data); err != nil {
			return JobDescription{}, err
		}
	}
	return jd, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
