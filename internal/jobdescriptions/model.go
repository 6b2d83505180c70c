package jobdescriptions

import "time"

// JobDescription is a stored JD a tenant screens resumes against.
type JobDescription struct {
	ID             string    `json:"id"`
	TenantID       string    `json:"tenantId"`
	BusinessUnitID string    `json:"businessUnitId,omitempty"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Data           Data      `json:"data"`
	CreatedBy      string    `json:"createdBy,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Data is the structured requirements payload of a JD.
type Data struct {
	JobTitle         string                  `json:"job_title,omitempty"`
	Skills           []string                `json:"skills"`
	Technologies     []string                `json:"technologies"`
	Tools            []string                `json:"tools"`
	Certificates     []string                `json:"certificates"`
	Qualification    string                  `json:"qualification,omitempty"`
	Responsibilities []string                `json:"responsibilities"`
	Experience       string                  `json:"experience,omitempty"`
	ExperienceRange  ExperienceRange         `json:"experience_range"`
	Projects         []string                `json:"projects"`
	Scoring          map[string]ScoringBlock `json:"scoring"`
}

// ExperienceRange is the min/max years window extracted from the JD's
// free-text experience requirement. Nil bounds mean unbounded.
type ExperienceRange struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// ScoringBlock holds one category's weight and its criteria map.
// Criteria keys may be plain labels or range buckets like ">=3" or "2-5".
type ScoringBlock struct {
	Weight   int                `json:"weight"`
	Criteria map[string]float64 `json:"criteria"`
}

// ScoringSections lists every category a validated JD must carry, in
// default-weight order.
var ScoringSections = []string{
	"skills",
	"experience",
	"relevant_experience",
	"projects",
	"certificates",
	"tools",
	"technologies",
	"qualification",
	"responsibilities",
	"salary",
}

// DefaultWeights is the importance distribution applied when a JD carries
// no weights of its own. Sums to 100.
var DefaultWeights = map[string]int{
	"skills":              30,
	"experience":          25,
	"relevant_experience": 10,
	"projects":            10,
	"certificates":        5,
	"tools":               5,
	"technologies":        5,
	"qualification":       5,
	"responsibilities":    3,
	"salary":              2,
}
