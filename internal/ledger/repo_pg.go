package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const ledgerColumns = `id, tenant_id, job_id, stage, prompt_version, input_hash, context, response, validation_status, error_tags, created_at`

// Append inserts one ledger event.
func (r *PGRepo) Append(ctx context.Context, ev Event) error {
	tags, err := marshalTags(ev.ErrorTags)
	if err != nil {
		return fmt.Errorf("marshal error tags: %w", err)
	}

	const query = `
INSERT INTO learning_ledger (` + ledgerColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = r.DB.ExecContext(ctx, query,
		ev.ID,
		ev.TenantID,
		ev.JobID,
		ev.Stage,
		ev.PromptVersion,
		ev.InputHash,
		nullJSON(ev.Context),
		nullJSON(ev.Response),
		ev.ValidationStatus,
		tags,
		ev.CreatedAt,
	)
	return err
}

// ListByJob returns a job's most recent events, newest first.
func (r *PGRepo) ListByJob(ctx context.Context, tenantID, jobID string, limit int) ([]Event, error) {
	const query = `
SELECT ` + ledgerColumns + `
FROM learning_ledger
WHERE tenant_id = $1 AND job_id = $2
ORDER BY created_at DESC
LIMIT $3`
	rows, err := r.DB.QueryContext(ctx, query, tenantID, jobID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var ev Event
		var contextJSON, responseJSON, tagsJSON []byte
		err := rows.Scan(
			&ev.ID,
			&ev.TenantID,
			&ev.JobID,
			&ev.Stage,
			&ev.PromptVersion,
			&ev.InputHash,
			&contextJSON,
			&responseJSON,
			&ev.ValidationStatus,
			&tagsJSON,
			&ev.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		ev.Context = contextJSON
		ev.Response = responseJSON
		if len(tagsJSON) > 0 {
			if err := json.Unmarshal(tagsJSON, &ev.ErrorTags); err != nil {
				return nil, fmt.Errorf("decode error tags: %w", err)
			}
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// marshalTags stores tags as a JSONB array; empty tag sets stay NULL.
func marshalTags(tags []string) (any, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	return json.Marshal(tags)
}

func nullJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return []byte(b)
}
