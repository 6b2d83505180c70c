package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"screening-backend/internal/jobdescriptions"
	"screening-backend/internal/jobs"
	"screening-backend/internal/ledger"
	"screening-backend/internal/parser"
	"screening-backend/internal/results"
	"screening-backend/internal/resumes"
	"screening-backend/internal/shared/metrics"
	"screening-backend/internal/shared/storage/object/local"
)

const sampleResume = `Priya Sharma
priya.sharma@example.com
+91 98765 43210

OBJECTIVE
Backend engineer with a focus on data-heavy services.

SKILLS
Python, Django, PostgreSQL, Docker, AWS

EXPERIENCE
Jan 2020 - Present
Python Developer at Acme Corp
Built REST APIs with Django and PostgreSQL.
Deployed services on AWS with Docker.

EDUCATION
B.Tech Computer Science, IIT Delhi, 2018

PROJECTS
Fraud Detector - machine learning pipeline for transaction fraud detection.

Current CTC: 18 LPA, Expected CTC: 24 LPA
`

type fixture struct {
	dir     string
	runner  *Runner
	jobs    *jobs.Service
	results *results.Service
	ledger  *ledger.MemoryRepo

	job       jobs.Job
	resumeKey string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	store := local.New(dir)

	resumeSvc := &resumes.Service{Store: store, Repo: resumes.NewMemoryRepo()}
	res, _, err := resumeSvc.Upload(ctx, "tenant-1", "", "user-1", "resume.txt", strings.NewReader(sampleResume))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	jdSvc := &jobdescriptions.Service{Repo: jobdescriptions.NewMemoryRepo()}
	jd, err := jdSvc.Create(ctx, "tenant-1", "", "Backend Engineer", "Python backend role", "user-1", jobdescriptions.Data{
		Skills:       []string{"Python", "Django"},
		Technologies: []string{"PostgreSQL"},
		Experience:   "2+ years",
	})
	if err != nil {
		t.Fatalf("create jd: %v", err)
	}

	jobSvc := jobs.NewService(jobs.NewMemoryRepo())
	if _, err := jobSvc.Enqueue(ctx, "tenant-1", "", res.ID, jd.ID); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	claimed, err := jobSvc.Claim(ctx, "worker-1")
	if err != nil {
		t.Fatalf("claim: %v", err)
	}

	resultSvc := &results.Service{Repo: results.NewMemoryRepo(), Store: store}
	ledgerRepo := ledger.NewMemoryRepo()

	return &fixture{
		dir: dir,
		runner: &Runner{
			Jobs:    jobSvc,
			Resumes: resumeSvc,
			JDs:     jdSvc,
			Parser:  parser.New(nil),
			Results: resultSvc,
			Ledger:  &ledger.Service{Repo: ledgerRepo},
			Store:   store,
			Metrics: metrics.New(),
		},
		jobs:      jobSvc,
		results:   resultSvc,
		ledger:    ledgerRepo,
		job:       claimed,
		resumeKey: res.StorageKey,
	}
}

func TestRunProducesResultAndCheckpoints(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.runner.Run(ctx, f.job); err != nil {
		t.Fatalf("run: %v", err)
	}

	job, err := f.jobs.Get(ctx, "tenant-1", f.job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if job.LastStep != StageScore || job.Progress != 100 {
		t.Fatalf("job progress = %s/%d", job.LastStep, job.Progress)
	}

	res, err := f.results.Get(ctx, "tenant-1", f.job.ID)
	if err != nil {
		t.Fatalf("get result: %v", err)
	}
	if res.CategoryScores["skills"] != 100 {
		t.Fatalf("skills score = %d", res.CategoryScores["skills"])
	}
	if res.OverallScore <= 0 {
		t.Fatalf("overall score = %v", res.OverallScore)
	}

	for _, stage := range Stages {
		if stage == StageScore {
			continue
		}
		path := filepath.Join(f.dir, filepath.FromSlash(CheckpointKey(f.job.ID, stage)))
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("missing checkpoint for %s: %v", stage, err)
		}
	}

	events, err := f.ledger.ListByJob(ctx, "tenant-1", f.job.ID, 10)
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("ledger events = %d, want parse and score", len(events))
	}
}

func TestRunResumesFromLastStep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.runner.Run(ctx, f.job); err != nil {
		t.Fatalf("first run: %v", err)
	}

	// Simulate a retried job that had finished the parse stage. The raw
	// file is gone, so a rerun of extract would fail; a resume must not
	// rerun it.
	job, err := f.jobs.Get(ctx, "tenant-1", f.job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if err := os.Remove(filepath.Join(f.dir, filepath.FromSlash(f.resumeKey))); err != nil {
		t.Fatalf("remove raw upload: %v", err)
	}
	job.LastStep = StageValidate

	if err := f.runner.Run(ctx, job); err != nil {
		t.Fatalf("resumed run: %v", err)
	}
}

func TestRunTagsLedgerWithConfiguredPromptVersion(t *testing.T) {
	f := newFixture(t)
	f.runner.PromptVersion = "v2"
	ctx := context.Background()

	if err := f.runner.Run(ctx, f.job); err != nil {
		t.Fatalf("run: %v", err)
	}

	events, err := f.ledger.ListByJob(ctx, "tenant-1", f.job.ID, 10)
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}
	if len(events) == 0 {
		t.Fatal("no ledger events recorded")
	}
	for _, ev := range events {
		if ev.PromptVersion != "v2" {
			t.Fatalf("prompt version = %q, want v2", ev.PromptVersion)
		}
	}
}

func TestExtractReusesCachedResumeText(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.runner.Run(ctx, f.job); err != nil {
		t.Fatalf("first run: %v", err)
	}

	res, err := f.runner.Resumes.Get(ctx, "tenant-1", f.job.ResumeID)
	if err != nil {
		t.Fatalf("get resume: %v", err)
	}
	if res.ExtractedTextKey != ResumeTextKey(res.ID) || res.ExtractedAt == nil {
		t.Fatalf("extraction not recorded: %+v", res)
	}

	// A second screening of the same resume must run off the cached text
	// even when the original upload is gone.
	if err := os.Remove(filepath.Join(f.dir, filepath.FromSlash(f.resumeKey))); err != nil {
		t.Fatalf("remove raw upload: %v", err)
	}
	if _, err := f.jobs.Enqueue(ctx, "tenant-1", "", f.job.ResumeID, f.job.JobDescriptionID); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	second, err := f.jobs.Claim(ctx, "worker-1")
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if err := f.runner.Run(ctx, second); err != nil {
		t.Fatalf("second run: %v", err)
	}
}
