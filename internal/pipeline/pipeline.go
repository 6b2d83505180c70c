package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"screening-backend/internal/extract"
	"screening-backend/internal/jobdescriptions"
	"screening-backend/internal/jobs"
	"screening-backend/internal/ledger"
	"screening-backend/internal/match"
	"screening-backend/internal/parser"
	"screening-backend/internal/results"
	"screening-backend/internal/resumes"
	"screening-backend/internal/shared/metrics"
	"screening-backend/internal/shared/storage/object"
	"screening-backend/internal/shared/telemetry"
)

// Pipeline stages, in execution order.
const (
	StageExtract   = "extract"
	StageNormalize = "normalize"
	StageParse     = "parse"
	StageValidate  = "validate"
	StageScorePrep = "score_prep"
	StageScore     = "score"
)

// Stages lists every stage in order.
var Stages = []string{StageExtract, StageNormalize, StageParse, StageValidate, StageScorePrep, StageScore}

// DefaultPromptVersion tags ledger events so prompt changes can be
// correlated with output quality.
const DefaultPromptVersion = "v1"

// Runner executes the screening pipeline for one claimed job. Completed
// stages persist checkpoint artifacts so a retried job resumes where it
// stopped instead of repeating work.
type Runner struct {
	Jobs    *jobs.Service
	Resumes *resumes.Service
	JDs     *jobdescriptions.Service
	Parser  *parser.Parser
	Results *results.Service
	Ledger  *ledger.Service
	Store   object.ObjectStore
	Metrics *metrics.Metrics

	// PromptVersion overrides DefaultPromptVersion on ledger events.
	PromptVersion string
}

func (r *Runner) promptVersion() string {
	if r.PromptVersion != "" {
		return r.PromptVersion
	}
	return DefaultPromptVersion
}

// state carries intermediate artifacts between stages.
type state struct {
	resume resumes.Resume
	jd     jobdescriptions.JobDescription

	raw         string
	normalized  string
	parsed      parser.Resume
	parseSource string
	candidate   match.Candidate
}

// parseCheckpoint is the persisted parse stage artifact.
type parseCheckpoint struct {
	Source string        `json:"source"`
	Resume parser.Resume `json:"resume"`
}

// scorePrepCheckpoint snapshots the exact scoring inputs.
type scorePrepCheckpoint struct {
	Candidate match.Candidate      `json:"candidate"`
	JD        jobdescriptions.Data `json:"jd"`
}

// Run executes all stages for a job, resuming after the job's last
// completed step when one is recorded.
func (r *Runner) Run(ctx context.Context, job jobs.Job) error {
	st := &state{}

	var err error
	st.resume, err = r.Resumes.Get(ctx, job.TenantID, job.ResumeID)
	if err != nil {
		return fmt.Errorf("load resume %s: %w", job.ResumeID, err)
	}
	st.jd, err = r.JDs.Get(ctx, job.TenantID, job.JobDescriptionID)
	if err != nil {
		return fmt.Errorf("load job description %s: %w", job.JobDescriptionID, err)
	}

	completed := stageIndex(job.LastStep)
	for i, stage := range Stages {
		if i <= completed && r.restore(ctx, job, stage, st) {
			continue
		}
		if err := r.runStage(ctx, job, stage, st); err != nil {
			return fmt.Errorf("stage %s: %w", stage, err)
		}
		progress := (i + 1) * 100 / len(Stages)
		if err := r.Jobs.MarkProgress(ctx, job.ID, stage, progress); err != nil {
			telemetry.Warn("mark progress failed", map[string]any{
				"job_id": job.ID,
				"stage":  stage,
				"error":  err.Error(),
			})
		}
	}
	return nil
}

func stageIndex(stage string) int {
	for i, s := range Stages {
		if s == stage {
			return i
		}
	}
	return -1
}

// runStage executes one stage with timing and failure metrics.
func (r *Runner) runStage(ctx context.Context, job jobs.Job, stage string, st *state) error {
	start := time.Now()
	err := r.execute(ctx, job, stage, st)
	if r.Metrics != nil {
		r.Metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
		if err != nil {
			r.Metrics.StageFailures.WithLabelValues(stage).Inc()
		}
	}
	if err != nil {
		telemetry.Error("pipeline stage failed", map[string]any{
			"job_id": job.ID,
			"stage":  stage,
			"error":  err.Error(),
		})
	}
	return err
}

func (r *Runner) execute(ctx context.Context, job jobs.Job, stage string, st *state) error {
	switch stage {
	case StageExtract:
		if st.resume.ExtractedTextKey != "" {
			if body, ok := r.openKey(ctx, st.resume.ExtractedTextKey); ok {
				st.raw = string(body)
				return r.saveText(ctx, job.ID, stage, st.raw)
			}
		}
		text, err := extract.ExtractText(ctx, r.Store, st.resume.StorageKey, st.resume.ContentType, st.resume.FileName)
		if err != nil {
			return err
		}
		st.raw = text
		if err := r.saveText(ctx, job.ID, stage, st.raw); err != nil {
			return err
		}
		r.cacheExtraction(ctx, job, st)
		return nil

	case StageNormalize:
		st.normalized = parser.Normalize(st.raw)
		return r.saveText(ctx, job.ID, stage, st.normalized)

	case StageParse:
		parsed, source, err := r.Parser.Parse(ctx, st.normalized)
		if err != nil {
			r.Ledger.Record(ctx, job.TenantID, job.ID, StageParse, r.promptVersion(),
				[]byte(st.normalized), nil, nil, ledger.StatusInvalid, []string{"parse_error"})
			return err
		}
		st.parsed = parsed
		st.parseSource = source

		response, _ := json.Marshal(parsed)
		var tags []string
		if source == parser.SourceHeuristic {
			tags = []string{"heuristic_fallback"}
		}
		r.Ledger.Record(ctx, job.TenantID, job.ID, StageParse, r.promptVersion(),
			[]byte(st.normalized), jsonObject(map[string]any{"source": source}), response, ledger.StatusValid, tags)

		return r.saveJSON(ctx, job.ID, stage, parseCheckpoint{Source: source, Resume: parsed})

	case StageValidate:
		st.candidate = match.Prepare(st.parsed)
		return r.saveJSON(ctx, job.ID, stage, st.candidate)

	case StageScorePrep:
		return r.saveJSON(ctx, job.ID, stage, scorePrepCheckpoint{
			Candidate: st.candidate,
			JD:        st.jd.Data,
		})

	case StageScore:
		scored := match.Score(st.candidate, st.jd.Data)
		match.ApplyGuardrails(&scored, st.candidate, match.WeightsFor(st.jd.Data))
		report := results.BuildReport(st.candidate, st.jd, scored)

		parsedJSON, _ := json.Marshal(st.parsed)
		if _, err := r.Results.Save(ctx, job.TenantID, job.ID, parsedJSON, scored, report); err != nil {
			return err
		}

		response, _ := json.Marshal(scored)
		r.Ledger.Record(ctx, job.TenantID, job.ID, StageScore, r.promptVersion(),
			parsedJSON, jsonObject(map[string]any{"jd_id": st.jd.ID}), response, ledger.StatusValid, nil)
		return nil
	}
	return fmt.Errorf("unknown stage %q", stage)
}

// restore loads a completed stage's checkpoint into the state. A false
// return reruns the stage.
func (r *Runner) restore(ctx context.Context, job jobs.Job, stage string, st *state) bool {
	switch stage {
	case StageExtract:
		text, ok := r.loadText(ctx, job.ID, stage)
		if ok {
			st.raw = text
		}
		return ok
	case StageNormalize:
		text, ok := r.loadText(ctx, job.ID, stage)
		if ok {
			st.normalized = text
		}
		return ok
	case StageParse:
		var cp parseCheckpoint
		if !r.loadJSON(ctx, job.ID, stage, &cp) {
			return false
		}
		st.parsed = cp.Resume
		st.parseSource = cp.Source
		return true
	case StageValidate:
		var candidate match.Candidate
		if !r.loadJSON(ctx, job.ID, stage, &candidate) {
			return false
		}
		st.candidate = candidate
		return true
	case StageScorePrep:
		var cp scorePrepCheckpoint
		return r.loadJSON(ctx, job.ID, stage, &cp)
	case StageScore:
		// Results.Save is idempotent, rerun rather than trust a partial write.
		return false
	}
	return false
}

// ResumeTextKey is the object key a resume's cached extracted text lives at.
func ResumeTextKey(resumeID string) string {
	return fmt.Sprintf("resumes/%s/extracted.txt", resumeID)
}

// cacheExtraction stores extracted text under a resume-scoped key and points
// the resume at it so later jobs on the same file skip extraction. A failure
// here only costs a re-extract.
func (r *Runner) cacheExtraction(ctx context.Context, job jobs.Job, st *state) {
	key := ResumeTextKey(st.resume.ID)
	if _, err := r.Store.SaveWithKey(ctx, key, "text/plain; charset=utf-8", bytes.NewReader([]byte(st.raw))); err != nil {
		telemetry.Warn("cache extracted text failed", map[string]any{
			"job_id":    job.ID,
			"resume_id": st.resume.ID,
			"error":     err.Error(),
		})
		return
	}
	if err := r.Resumes.RecordExtraction(ctx, job.TenantID, st.resume.ID, key, time.Now().UTC()); err != nil {
		telemetry.Warn("record extraction failed", map[string]any{
			"job_id":    job.ID,
			"resume_id": st.resume.ID,
			"error":     err.Error(),
		})
	}
}

// CheckpointKey is the object key a stage artifact is stored at.
func CheckpointKey(jobID, stage string) string {
	ext := ".json"
	if stage == StageExtract || stage == StageNormalize {
		ext = ".txt"
	}
	return fmt.Sprintf("jobs/%s/%s%s", jobID, stage, ext)
}

func (r *Runner) saveText(ctx context.Context, jobID, stage, text string) error {
	_, err := r.Store.SaveWithKey(ctx, CheckpointKey(jobID, stage), "text/plain; charset=utf-8", bytes.NewReader([]byte(text)))
	if err != nil {
		return fmt.Errorf("checkpoint %s: %w", stage, err)
	}
	return nil
}

func (r *Runner) saveJSON(ctx context.Context, jobID, stage string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("checkpoint %s: %w", stage, err)
	}
	if _, err := r.Store.SaveWithKey(ctx, CheckpointKey(jobID, stage), "application/json", bytes.NewReader(body)); err != nil {
		return fmt.Errorf("checkpoint %s: %w", stage, err)
	}
	return nil
}

func (r *Runner) loadText(ctx context.Context, jobID, stage string) (string, bool) {
	body, ok := r.open(ctx, jobID, stage)
	return string(body), ok
}

func (r *Runner) loadJSON(ctx context.Context, jobID, stage string, v any) bool {
	body, ok := r.open(ctx, jobID, stage)
	if !ok {
		return false
	}
	return json.Unmarshal(body, v) == nil
}

func (r *Runner) open(ctx context.Context, jobID, stage string) ([]byte, bool) {
	return r.openKey(ctx, CheckpointKey(jobID, stage))
}

func (r *Runner) openKey(ctx context.Context, key string) ([]byte, bool) {
	rc, err := r.Store.Open(ctx, key)
	if err != nil {
		return nil, false
	}
	defer rc.Close()
	body, err := io.ReadAll(rc)
	if err != nil {
		return nil, false
	}
	return body, true
}

func jsonObject(m map[string]any) json.RawMessage {
	b, _ := json.Marshal(m)
	return b
}
