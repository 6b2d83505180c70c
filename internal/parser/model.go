package parser

import "strings"

// Resume is the canonical parsed-resume payload. Every field is always
// present so downstream stages never branch on missing keys.
type Resume struct {
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone"`
	Location     string        `json:"location"`
	Skills       []string      `json:"skills"`
	Education    []Education   `json:"education"`
	Experience   []Experience  `json:"experience"`
	Projects     []Project     `json:"projects"`
	Summary      string        `json:"summary"`
	Certificates []Certificate `json:"certificates"`
	Courses      []string      `json:"courses"`
	RawText      string        `json:"raw_text"`
	Salary       Salary        `json:"salary"`
	Error        string        `json:"error,omitempty"`
}

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

type Experience struct {
	Company     string   `json:"company"`
	Role        string   `json:"role"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Description []string `json:"description"`
}

type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Certificate struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Year   string `json:"year"`
}

// Salary is normalized to LPA (lakhs per annum). Nil means not stated.
type Salary struct {
	CurrentCTCLPA  *float64 `json:"current_ctc_lpa"`
	ExpectedCTCLPA *float64 `json:"expected_ctc_lpa"`
}

// EnsurePayload fills nil collections, cleans placeholder strings and pins
// the raw text, so every consumer sees the same shape.
func EnsurePayload(normalizedText string, r Resume) Resume {
	r.Name = cleanValue(r.Name)
	r.Email = cleanValue(r.Email)
	r.Phone = cleanValue(r.Phone)
	r.Location = cleanValue(r.Location)
	r.Summary = cleanValue(r.Summary)

	if r.Skills == nil {
		r.Skills = []string{}
	}
	cleaned := r.Skills[:0]
	for _, s := range r.Skills {
		if v := cleanValue(s); v != "" {
			cleaned = append(cleaned, v)
		}
	}
	r.Skills = cleaned

	if r.Education == nil {
		r.Education = []Education{}
	}
	for i := range r.Education {
		r.Education[i].Degree = cleanValue(r.Education[i].Degree)
		r.Education[i].Institution = cleanValue(r.Education[i].Institution)
		r.Education[i].Year = cleanValue(r.Education[i].Year)
	}

	if r.Experience == nil {
		r.Experience = []Experience{}
	}
	for i := range r.Experience {
		exp := &r.Experience[i]
		exp.Company = cleanValue(exp.Company)
		exp.Role = cleanValue(exp.Role)
		exp.StartDate = cleanValue(exp.StartDate)
		exp.EndDate = cleanValue(exp.EndDate)
		if exp.Description == nil {
			exp.Description = []string{}
		}
		lines := exp.Description[:0]
		for _, d := range exp.Description {
			if v := cleanValue(d); v != "" {
				lines = append(lines, v)
			}
		}
		exp.Description = lines
	}

	if r.Projects == nil {
		r.Projects = []Project{}
	}
	for i := range r.Projects {
		r.Projects[i].Name = cleanValue(r.Projects[i].Name)
		r.Projects[i].Description = cleanValue(r.Projects[i].Description)
	}

	if r.Certificates == nil {
		r.Certificates = []Certificate{}
	}
	for i := range r.Certificates {
		r.Certificates[i].Name = cleanValue(r.Certificates[i].Name)
		r.Certificates[i].Issuer = cleanValue(r.Certificates[i].Issuer)
		r.Certificates[i].Year = cleanValue(r.Certificates[i].Year)
	}

	if r.Courses == nil {
		r.Courses = []string{}
	}

	r.RawText = normalizedText
	return r
}

// cleanValue strips placeholder strings models and sloppy resumes produce.
func cleanValue(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "n/a", "none", "not specified", "unknown", "null":
		return ""
	}
	return s
}
