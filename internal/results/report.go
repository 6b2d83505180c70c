package results

import (
	"time"

	"screening-backend/internal/jobdescriptions"
	"screening-backend/internal/match"
)

// Report is the recruiter-facing report stored alongside a result.
type Report struct {
	Candidate   ReportCandidate  `json:"candidate"`
	JobTitle    string           `json:"job_title"`
	FinalScore  int              `json:"final_score"`
	Categories  []CategoryReport `json:"categories"`
	Notes       string           `json:"notes"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// ReportCandidate is the contact summary block at the top of a report.
type ReportCandidate struct {
	Name                 string  `json:"name"`
	Email                string  `json:"email,omitempty"`
	Phone                string  `json:"phone,omitempty"`
	Location             string  `json:"location,omitempty"`
	TotalExperienceYears float64 `json:"total_experience_years"`
}

// CategoryReport is one row of the category breakdown table.
type CategoryReport struct {
	Category string   `json:"category"`
	Score    int      `json:"score"`
	Weight   int      `json:"weight"`
	Matched  []string `json:"matched,omitempty"`
	Missing  []string `json:"missing,omitempty"`
}

// BuildReport assembles the recruiter report from a scored candidate.
// Categories appear in the JD's canonical section order.
func BuildReport(candidate match.Candidate, jd jobdescriptions.JobDescription, res match.Result) Report {
	weights := match.WeightsFor(jd.Data)

	categories := make([]CategoryReport, 0, len(jobdescriptions.ScoringSections))
	for _, section := range jobdescriptions.ScoringSections {
		row := CategoryReport{
			Category: section,
			Score:    res.Scores[section],
			Weight:   weights[section],
		}
		if detail, ok := res.MatchedItems[section]; ok {
			row.Matched = detail.Matched
			row.Missing = detail.Missing
		}
		categories = append(categories, row)
	}

	return Report{
		Candidate: ReportCandidate{
			Name:                 candidate.Name,
			Email:                candidate.Email,
			Phone:                candidate.Phone,
			Location:             candidate.Location,
			TotalExperienceYears: candidate.TotalExperienceYears,
		},
		JobTitle:    jd.Title,
		FinalScore:  res.FinalScore,
		Categories:  categories,
		Notes:       res.Notes,
		GeneratedAt: time.Now().UTC(),
	}
}
