package parser

import (
	"context"
	"encoding/json"
	"errors"

	"screening-backend/internal/llm"
	"screening-backend/internal/shared/telemetry"
)

// Parse sources, recorded in the learning ledger alongside each parse.
const (
	SourceLLM       = "llm"
	SourceHeuristic = "heuristic"
)

// Parser turns extracted resume text into the canonical payload. With an
// LLM client configured it tries the model first and falls back to the
// heuristic path; without one it is fully offline.
type Parser struct {
	LLM llm.Client
}

func New(client llm.Client) *Parser {
	return &Parser{LLM: client}
}

// Parse normalizes the raw text and extracts the canonical payload,
// reporting which source produced it.
func (p *Parser) Parse(ctx context.Context, rawText string) (Resume, string, error) {
	normalized := Normalize(rawText)

	if p.LLM != nil {
		raw, err := p.LLM.ParseResume(ctx, normalized)
		if err == nil {
			var r Resume
			jsonErr := json.Unmarshal(raw, &r)
			if jsonErr == nil {
				r = EnsurePayload(normalized, r)
				if r.Salary.CurrentCTCLPA == nil && r.Salary.ExpectedCTCLPA == nil {
					r.Salary = ExtractSalary(normalized)
				}
				return r, SourceLLM, nil
			}
			telemetry.Error("llm parse output rejected", map[string]any{"err": jsonErr.Error()})
		} else if !errors.Is(err, llm.ErrNotConfigured) {
			telemetry.Error("llm parse failed, using heuristics", map[string]any{"err": err.Error()})
		}
	}

	if err := ctx.Err(); err != nil {
		return Resume{}, "", err
	}
	return EnsurePayload(normalized, ParseHeuristic(normalized)), SourceHeuristic, nil
}
