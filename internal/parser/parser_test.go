package parser

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

const sampleResume = `Priya Sharma
priya.sharma@example.com
+91 98765 43210

OBJECTIVE
Backend engineer with a focus on distributed systems.

SKILLS
Go, Python, PostgreSQL; Docker | Kubernetes

EXPERIENCE
Senior Engineer at Acme Corp Jan 2021 - Present
Built the order pipeline
Reduced p99 latency
Engineer, Widget Labs 2018 - 2020
Maintained billing services

EDUCATION
B.Tech Computer Science, Pune University 2018

PROJECTS
Fraud Detector - Streaming anomaly detection service

CERTIFICATIONS
AWS Solutions Architect - Amazon 2022

Current CTC: 18 LPA, Expected CTC: 24 LPA`

func TestParseHeuristicSections(t *testing.T) {
	r, source, err := New(nil).Parse(context.Background(), sampleResume)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if source != SourceHeuristic {
		t.Fatalf("source = %q, want heuristic without an LLM", source)
	}

	if r.Name != "Priya Sharma" {
		t.Errorf("name = %q", r.Name)
	}
	if r.Email != "priya.sharma@example.com" {
		t.Errorf("email = %q", r.Email)
	}
	if r.Phone == "" {
		t.Error("phone not extracted")
	}

	wantSkills := []string{"Go", "Python", "PostgreSQL", "Docker", "Kubernetes"}
	if len(r.Skills) != len(wantSkills) {
		t.Fatalf("skills = %v, want %v", r.Skills, wantSkills)
	}
	for i, s := range wantSkills {
		if r.Skills[i] != s {
			t.Fatalf("skills = %v, want %v", r.Skills, wantSkills)
		}
	}

	if len(r.Experience) != 2 {
		t.Fatalf("experience = %+v, want 2 entries", r.Experience)
	}
	first := r.Experience[0]
	if first.Role != "Senior Engineer" || first.Company != "Acme Corp" {
		t.Errorf("experience head = %+v", first)
	}
	if !strings.EqualFold(first.EndDate, "present") {
		t.Errorf("end date = %q, want present", first.EndDate)
	}
	if len(first.Description) != 2 {
		t.Errorf("description = %v", first.Description)
	}

	if len(r.Education) != 1 || r.Education[0].Year != "2018" {
		t.Errorf("education = %+v", r.Education)
	}
	if len(r.Projects) != 1 || r.Projects[0].Name != "Fraud Detector" {
		t.Errorf("projects = %+v", r.Projects)
	}
	if len(r.Certificates) != 1 || r.Certificates[0].Year != "2022" {
		t.Errorf("certificates = %+v", r.Certificates)
	}

	if r.Salary.CurrentCTCLPA == nil || *r.Salary.CurrentCTCLPA != 18 {
		t.Errorf("current ctc = %v, want 18", r.Salary.CurrentCTCLPA)
	}
	if r.Salary.ExpectedCTCLPA == nil || *r.Salary.ExpectedCTCLPA != 24 {
		t.Errorf("expected ctc = %v, want 24", r.Salary.ExpectedCTCLPA)
	}
}

func TestEnsurePayloadAlwaysCompleteShape(t *testing.T) {
	r := EnsurePayload("some text", Resume{Name: "N/A", Summary: "Not Specified"})
	if r.Name != "" || r.Summary != "" {
		t.Errorf("placeholders survived: %+v", r)
	}
	if r.Skills == nil || r.Education == nil || r.Experience == nil || r.Projects == nil || r.Certificates == nil || r.Courses == nil {
		t.Error("collections must never be nil")
	}
	if r.RawText != "some text" {
		t.Errorf("raw_text = %q", r.RawText)
	}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{"name", "skills", "education", "experience", "projects", "certificates", "salary", "raw_text"} {
		if !strings.Contains(string(data), `"`+key+`"`) {
			t.Errorf("payload missing %q", key)
		}
	}
}

func TestCertificatesSkipSalaryLines(t *testing.T) {
	text := `CERTIFICATIONS
AWS Solutions Architect - Amazon 2022
Current CTC: 18 LPA
Expected CTC: 24 LPA`
	r := ParseHeuristic(text)
	if len(r.Certificates) != 1 || r.Certificates[0].Name != "AWS Solutions Architect" {
		t.Fatalf("certificates = %+v, want only the real certificate", r.Certificates)
	}
}

func TestExtractSalaryMonthly(t *testing.T) {
	s := ExtractSalary("drawing 80 k per month at present")
	if s.ExpectedCTCLPA == nil || *s.ExpectedCTCLPA != 9.6 {
		t.Fatalf("salary = %v, want 9.6 LPA from 80k monthly", s.ExpectedCTCLPA)
	}
}

type stubLLM struct {
	raw json.RawMessage
	err error
}

func (s stubLLM) ParseResume(context.Context, string) (json.RawMessage, error) {
	return s.raw, s.err
}

func TestParsePrefersLLMAndFallsBack(t *testing.T) {
	ctx := context.Background()

	good := stubLLM{raw: json.RawMessage(`{"name":"Asha Rao","skills":["Go"]}`)}
	r, source, err := New(good).Parse(ctx, "Asha Rao resume text")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if source != SourceLLM || r.Name != "Asha Rao" {
		t.Fatalf("source = %q, name = %q; want llm result", source, r.Name)
	}

	broken := stubLLM{err: errors.New("rate limited")}
	_, source, err = New(broken).Parse(ctx, "Asha Rao resume text")
	if err != nil {
		t.Fatalf("Parse fallback: %v", err)
	}
	if source != SourceHeuristic {
		t.Fatalf("source = %q, want heuristic fallback", source)
	}
}
