package ledger

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoAppendEncodesErrorTags(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	ev := Event{
		ID:               "ev-1",
		TenantID:         "tenant-1",
		JobID:            "job-1",
		Stage:            "parse",
		PromptVersion:    "v1",
		InputHash:        "abc123",
		Response:         json.RawMessage(`{"ok":false}`),
		ValidationStatus: StatusInvalid,
		ErrorTags:        []string{"parse_error", "missing_field"},
		CreatedAt:        now,
	}

	mock.ExpectExec("INSERT INTO learning_ledger").
		WithArgs(
			"ev-1", "tenant-1", "job-1", "parse", "v1", "abc123",
			nil, []byte(`{"ok":false}`), StatusInvalid,
			[]byte(`["parse_error","missing_field"]`), now,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := &PGRepo{DB: db}
	if err := repo.Append(context.Background(), ev); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoAppendNoTagsStoresNull(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	ev := Event{
		ID:               "ev-2",
		TenantID:         "tenant-1",
		JobID:            "job-1",
		Stage:            "score",
		PromptVersion:    "v1",
		InputHash:        "def456",
		ValidationStatus: StatusValid,
		CreatedAt:        now,
	}

	mock.ExpectExec("INSERT INTO learning_ledger").
		WithArgs(
			"ev-2", "tenant-1", "job-1", "score", "v1", "def456",
			nil, nil, StatusValid, nil, now,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := &PGRepo{DB: db}
	if err := repo.Append(context.Background(), ev); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListByJobDecodesErrorTags(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "tenant_id", "job_id", "stage", "prompt_version", "input_hash",
		"context", "response", "validation_status", "error_tags", "created_at",
	}).AddRow(
		"ev-2", "tenant-1", "job-1", "parse", "v1", "def456",
		nil, []byte(`{"skills":[]}`), StatusInvalid, []byte(`["parse_error"]`), now,
	).AddRow(
		"ev-1", "tenant-1", "job-1", "extract", "v1", "abc123",
		nil, nil, StatusValid, nil, now.Add(-time.Minute),
	)

	mock.ExpectQuery("FROM learning_ledger").
		WithArgs("tenant-1", "job-1", 20).
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	got, err := repo.ListByJob(context.Background(), "tenant-1", "job-1", 20)
	if err != nil {
		t.Fatalf("ListByJob: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	if len(got[0].ErrorTags) != 1 || got[0].ErrorTags[0] != "parse_error" {
		t.Fatalf("ErrorTags = %v, want [parse_error]", got[0].ErrorTags)
	}
	if got[1].ErrorTags != nil {
		t.Fatalf("ErrorTags = %v, want nil for null column", got[1].ErrorTags)
	}
	if string(got[0].Response) != `{"skills":[]}` {
		t.Fatalf("Response = %s", got[0].Response)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
