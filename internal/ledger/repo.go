package ledger

import "context"

// Repo is the append-only ledger store. There is deliberately no update
// or delete path.
type Repo interface {
	Append(ctx context.Context, ev Event) error
	ListByJob(ctx context.Context, tenantID, jobID string, limit int) ([]Event, error)
}
