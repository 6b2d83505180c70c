package resumes

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const columns = `id, tenant_id, business_unit_id, file_name, content_type, size_bytes, sha256, storage_key, uploaded_by, extracted_text_key, extracted_at, created_at`

// Create inserts a new resume row.
func (r *PGRepo) Create(ctx context.Context, res Resume) error {
	const query = `
INSERT INTO resumes (` + columns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.DB.ExecContext(ctx, query,
		res.ID,
		res.TenantID,
		nullString(res.BusinessUnitID),
		res.FileName,
		res.ContentType,
		res.SizeBytes,
		res.SHA256,
		res.StorageKey,
		nullString(res.UploadedBy),
		nullString(res.ExtractedTextKey),
		nullTime(res.ExtractedAt),
		res.CreatedAt,
	)
	return err
}

// UpdateExtraction records where a resume's extracted text is cached. The
// first extraction wins so concurrent jobs do not flip the pointer.
func (r *PGRepo) UpdateExtraction(ctx context.Context, tenantID, resumeID, extractedKey string, extractedAt time.Time) error {
	const query = `
UPDATE resumes
SET extracted_text_key = $1, extracted_at = $2
WHERE tenant_id = $3 AND id = $4 AND extracted_text_key IS NULL`
	_, err := r.DB.ExecContext(ctx, query, extractedKey, extractedAt, tenantID, resumeID)
	return err
}

// GetByID returns a resume scoped to a tenant.
func (r *PGRepo) GetByID(ctx context.Context, tenantID, resumeID string) (Resume, error) {
	const query = `
SELECT ` + columns + `
FROM resumes
WHERE id = $1 AND tenant_id = $2
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, resumeID, tenantID))
}

// GetBySHA256 returns a resume with the given checksum within a business
// unit scope.
func (r *PGRepo) GetBySHA256(ctx context.Context, tenantID, businessUnitID, sum string) (Resume, error) {
	const query = `
SELECT ` + columns + `
FROM resumes
WHERE tenant_id = $1 AND COALESCE(business_unit_id, '') = $2 AND sha256 = $3
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, tenantID, businessUnitID, sum))
}

// ListByTenant returns a tenant's resumes newest first.
func (r *PGRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]Resume, error) {
	const query = `
SELECT ` + columns + `
FROM resumes
WHERE tenant_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Resume{}
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *PGRepo) scanOne(row *sql.Row) (Resume, error) {
	res, err := scanResume(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return res, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Resume, error) {
	var res Resume
	var businessUnitID sql.NullString
	var uploadedBy sql.NullString
	var extractedKey sql.NullString
	var extractedAt sql.NullTime
	err := row.Scan(
		&res.ID,
		&res.TenantID,
		&businessUnitID,
		&res.FileName,
		&res.ContentType,
		&res.SizeBytes,
		&res.SHA256,
		&res.StorageKey,
		&uploadedBy,
		&extractedKey,
		&extractedAt,
		&res.CreatedAt,
	)
	if err != nil {
		return Resume{}, err
	}
	res.BusinessUnitID = businessUnitID.String
	res.UploadedBy = uploadedBy.String
	res.ExtractedTextKey = extractedKey.String
	if extractedAt.Valid {
		res.ExtractedAt = &extractedAt.Time
	}
	return res, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
