package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const resultColumns = `id, job_id, tenant_id, overall_score, category_scores, parsed, report, report_key, notes, processed_at`

// Create inserts a result row. The job_id unique constraint makes the
// write idempotent per job.
func (r *PGRepo) Create(ctx context.Context, res ScreeningResult) error {
	const query = `
INSERT INTO screening_results (` + resultColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	scores, err := json.Marshal(res.CategoryScores)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		res.ID,
		res.JobID,
		res.TenantID,
		res.OverallScore,
		scores,
		[]byte(res.Parsed),
		[]byte(res.Report),
		res.ReportKey,
		nullString(res.Notes),
		res.ProcessedAt,
	)
	if err != nil && strings.Contains(err.Error(), "screening_results_job_id_key") {
		return ErrDuplicate
	}
	return err
}

// GetByJobID returns the result for a job scoped to a tenant.
func (r *PGRepo) GetByJobID(ctx context.Context, tenantID, jobID string) (ScreeningResult, error) {
	const query = `
SELECT ` + resultColumns + `
FROM screening_results
WHERE job_id = $1 AND tenant_id = $2
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, jobID, tenantID))
}

// ListByJobIDs returns results for the given jobs, oldest first.
func (r *PGRepo) ListByJobIDs(ctx context.Context, tenantID string, jobIDs []string) ([]ScreeningResult, error) {
	if len(jobIDs) == 0 {
		return []ScreeningResult{}, nil
	}
	const query = `
SELECT ` + resultColumns + `
FROM screening_results
WHERE tenant_id = $1 AND job_id = ANY($2)
ORDER BY processed_at`
	rows, err := r.DB.QueryContext(ctx, query, tenantID, jobIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ScreeningResult{}
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *PGRepo) scanOne(row *sql.Row) (ScreeningResult, error) {
	res, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ScreeningResult{}, ErrNotFound
	}
	return res, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (ScreeningResult, error) {
	var res ScreeningResult
	var scores, parsed, report []byte
	var notes sql.NullString
	err := row.Scan(
		&res.ID,
		&res.JobID,
		&res.TenantID,
		&res.OverallScore,
		&scores,
		&parsed,
		&report,
		&res.ReportKey,
		&notes,
		&res.ProcessedAt,
	)
	if err != nil {
		return ScreeningResult{}, err
	}
	if err := json.Unmarshal(scores, &res.CategoryScores); err != nil {
		return ScreeningResult{}, err
	}
	res.Parsed = json.RawMessage(parsed)
	res.Report = json.RawMessage(report)
	res.Notes = notes.String
	return res, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
