package results

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"screening-backend/internal/jobdescriptions"
	"screening-backend/internal/match"
	"screening-backend/internal/shared/storage/object/local"
)

func testScore() match.Result {
	return match.Result{
		Scores: map[string]int{
			"skills":     100,
			"experience": 50,
		},
		FinalScore: 78,
		Notes:      "Skills matched 2/2; Relevant exp avg 3 yrs; Salary score 0.",
		MatchedItems: map[string]match.MatchDetail{
			"skills": {Matched: []string{"Python"}, Missing: []string{}},
		},
	}
}

func TestSaveWritesReportAndRow(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo(), Store: local.New(t.TempDir())}
	scored := testScore()
	report := BuildReport(match.Candidate{Name: "Priya Sharma"}, jobdescriptions.JobDescription{Title: "Backend Engineer"}, scored)

	res, err := svc.Save(context.Background(), "tenant-1", "job-1", json.RawMessage(`{"name":"Priya Sharma"}`), scored, report)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if res.OverallScore != 78 {
		t.Fatalf("overall = %v", res.OverallScore)
	}
	if res.ReportKey != "jobs/job-1/report.json" {
		t.Fatalf("report key = %q", res.ReportKey)
	}

	rc, err := svc.OpenReport(context.Background(), "tenant-1", "job-1")
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer rc.Close()
	body, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var stored Report
	if err := json.Unmarshal(body, &stored); err != nil {
		t.Fatalf("report not valid JSON: %v", err)
	}
	if stored.JobTitle != "Backend Engineer" || stored.FinalScore != 78 {
		t.Fatalf("stored report = %+v", stored)
	}
}

func TestSaveIsIdempotentPerJob(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo(), Store: local.New(t.TempDir())}
	scored := testScore()
	report := BuildReport(match.Candidate{}, jobdescriptions.JobDescription{}, scored)

	first, err := svc.Save(context.Background(), "tenant-1", "job-1", nil, scored, report)
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	second, err := svc.Save(context.Background(), "tenant-1", "job-1", nil, scored, report)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("duplicate save produced a new row: %s vs %s", second.ID, first.ID)
	}
}

func TestGetScopedToTenant(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	scored := testScore()
	if _, err := svc.Save(context.Background(), "tenant-1", "job-1", nil, scored, Report{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := svc.Get(context.Background(), "tenant-2", "job-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-tenant get: %v", err)
	}
}

func TestBuildReportCategoryOrder(t *testing.T) {
	report := BuildReport(match.Candidate{}, jobdescriptions.JobDescription{}, testScore())
	if len(report.Categories) != len(jobdescriptions.ScoringSections) {
		t.Fatalf("categories = %d, want %d", len(report.Categories), len(jobdescriptions.ScoringSections))
	}
	for i, section := range jobdescriptions.ScoringSections {
		if report.Categories[i].Category != section {
			t.Fatalf("category[%d] = %q, want %q", i, report.Categories[i].Category, section)
		}
	}
	if report.Categories[0].Weight != jobdescriptions.DefaultWeights["skills"] {
		t.Fatalf("skills weight = %d", report.Categories[0].Weight)
	}
}
