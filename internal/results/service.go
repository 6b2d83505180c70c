package results

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"screening-backend/internal/match"
	"screening-backend/internal/shared/storage/object"
)

// Service persists results and their recruiter reports.
type Service struct {
	Repo  Repo
	Store object.ObjectStore
}

// ReportKeyFor is the object key a job's report is written to.
func ReportKeyFor(jobID string) string {
	return fmt.Sprintf("jobs/%s/report.json", jobID)
}

// Save writes the report to the object store and records the result row.
// A duplicate write for the same job returns the stored result untouched.
func (s *Service) Save(ctx context.Context, tenantID, jobID string, parsed json.RawMessage, scored match.Result, report Report) (ScreeningResult, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return ScreeningResult{}, err
	}

	key := ReportKeyFor(jobID)
	if s.Store != nil {
		if _, err := s.Store.SaveWithKey(ctx, key, "application/json", bytes.NewReader(reportJSON)); err != nil {
			return ScreeningResult{}, fmt.Errorf("store report: %w", err)
		}
	}

	res := ScreeningResult{
		ID:             uuid.NewString(),
		TenantID:       tenantID,
		JobID:          jobID,
		OverallScore:   float64(scored.FinalScore),
		CategoryScores: scored.Scores,
		Parsed:         parsed,
		Report:         reportJSON,
		ReportKey:      key,
		Notes:          scored.Notes,
		ProcessedAt:    time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, res); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return s.Repo.GetByJobID(ctx, tenantID, jobID)
		}
		return ScreeningResult{}, err
	}
	return res, nil
}

// Get returns a job's result scoped to a tenant.
func (s *Service) Get(ctx context.Context, tenantID, jobID string) (ScreeningResult, error) {
	return s.Repo.GetByJobID(ctx, tenantID, jobID)
}

// ListForJobs returns results for a set of jobs, oldest first.
func (s *Service) ListForJobs(ctx context.Context, tenantID string, jobIDs []string) ([]ScreeningResult, error) {
	return s.Repo.ListByJobIDs(ctx, tenantID, jobIDs)
}

// OpenReport streams a job's stored report.
func (s *Service) OpenReport(ctx context.Context, tenantID, jobID string) (io.ReadCloser, error) {
	res, err := s.Repo.GetByJobID(ctx, tenantID, jobID)
	if err != nil {
		return nil, err
	}
	if s.Store == nil || res.ReportKey == "" {
		return io.NopCloser(bytes.NewReader(res.Report)), nil
	}
	rc, err := s.Store.Open(ctx, res.ReportKey)
	if err != nil {
		// The row's report copy is authoritative when the object is gone.
		return io.NopCloser(bytes.NewReader(res.Report)), nil
	}
	return rc, nil
}
