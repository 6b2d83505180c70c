package batches

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

const batchColumns = `id, tenant_id, job_description_id, status, total, created_by, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, batch Batch) error {
	const query = `
INSERT INTO batches (` + batchColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.ExecContext(ctx, query,
		batch.ID,
		batch.TenantID,
		batch.JobDescriptionID,
		batch.Status,
		batch.Total,
		nullString(batch.CreatedBy),
		batch.CreatedAt,
		batch.UpdatedAt,
	)
	return err
}

func (r *PGRepo) GetForTenant(ctx context.Context, tenantID, batchID string) (Batch, error) {
	const query = `
SELECT ` + batchColumns + `
FROM batches
WHERE id = $1 AND tenant_id = $2
LIMIT 1`
	batch, err := scanBatch(r.DB.QueryRowContext(ctx, query, batchID, tenantID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Batch{}, ErrNotFound
		}
		return Batch{}, err
	}
	return batch, nil
}

func (r *PGRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]Batch, error) {
	const query = `
SELECT ` + batchColumns + `
FROM batches
WHERE tenant_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Batch{}
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, batch)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateStatus(ctx context.Context, batchID, status string) error {
	const query = `
UPDATE batches
SET status = $1, updated_at = now()
WHERE id = $2`
	res, err := r.DB.ExecContext(ctx, query, status, batchID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBatch(row rowScanner) (Batch, error) {
	var batch Batch
	var createdBy sql.NullString
	err := row.Scan(
		&batch.ID,
		&batch.TenantID,
		&batch.JobDescriptionID,
		&batch.Status,
		&batch.Total,
		&createdBy,
		&batch.CreatedAt,
		&batch.UpdatedAt,
	)
	if err != nil {
		return Batch{}, err
	}
	batch.CreatedBy = createdBy.String
	return batch, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
