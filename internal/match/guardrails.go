package match

import (
	"fmt"
	"strings"
)

const maxNotesLen = 500

// ApplyGuardrails zeroes category scores that have no supporting evidence
// in the candidate payload and recomputes the final score. Each zeroed
// category appends a note so recruiters can see why.
func ApplyGuardrails(res *Result, candidate Candidate, weights map[string]int) {
	notes := []string{}

	if len(candidate.Skills) == 0 && res.Scores[CategorySkills] > 0 {
		res.Scores[CategorySkills] = 0
		notes = append(notes, "no skills listed, skills score zeroed")
	}
	if len(candidate.Experience) == 0 {
		for _, cat := range []string{CategoryExperience, CategoryRelevantExperience, CategoryResponsibilities} {
			if res.Scores[cat] > 0 {
				res.Scores[cat] = 0
				notes = append(notes, fmt.Sprintf("no work history, %s score zeroed", cat))
			}
		}
	}
	if len(candidate.Projects) == 0 && res.Scores[CategoryProjects] > 0 {
		res.Scores[CategoryProjects] = 0
		notes = append(notes, "no projects listed, projects score zeroed")
	}
	if len(candidate.Certificates) == 0 && res.Scores[CategoryCertificates] > 0 {
		res.Scores[CategoryCertificates] = 0
		notes = append(notes, "no certificates listed, certificates score zeroed")
	}

	if len(notes) == 0 {
		return
	}

	res.FinalScore = WeightedFinal(res.Scores, weights)
	appended := res.Notes + " [Guardrail] " + strings.Join(notes, "; ") + "."
	if len(appended) > maxNotesLen {
		appended = appended[:maxNotesLen]
	}
	res.Notes = appended
}
