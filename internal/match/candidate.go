package match

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"screening-backend/internal/normalize"
	"screening-backend/internal/parser"
)

// Candidate is the score-ready view of a parsed resume: dates normalized
// to YYYY-MM, certificates flattened, per-skill relevant years computed.
type Candidate struct {
	Name                  string             `json:"name"`
	Email                 string             `json:"email"`
	Phone                 string             `json:"phone"`
	Location              string             `json:"location"`
	Summary               string             `json:"summary"`
	Skills                []string           `json:"skills"`
	Degrees               []string           `json:"degrees"`
	Experience            []WorkPeriod       `json:"experience"`
	Projects              []parser.Project   `json:"projects"`
	Certificates          []string           `json:"certificates"`
	Salary                parser.Salary      `json:"salary"`
	TotalExperienceYears  float64            `json:"total_experience_years"`
	RelevantExperienceMap map[string]float64 `json:"relevant_experience_map"`
}

// WorkPeriod is one experience block with YYYY-MM normalized dates.
type WorkPeriod struct {
	Company     string   `json:"company"`
	Role        string   `json:"role"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Description []string `json:"description"`
}

var monthMap = map[string]string{
	"jan": "01", "feb": "02", "mar": "03", "apr": "04",
	"may": "05", "jun": "06", "jul": "07", "aug": "08",
	"sep": "09", "oct": "10", "nov": "11", "dec": "12",
}

var (
	yearAnyPat = regexp.MustCompile(`(20\d{2}|19\d{2}|\d{2})`)
	slashPat   = regexp.MustCompile(`^(\d{1,2})/(\d{2,4})`)
	bareYear   = regexp.MustCompile(`^(19\d{2}|20\d{2})`)
	nonPhone   = regexp.MustCompile(`[^0-9+]`)
	emailCheck = regexp.MustCompile(`[^@]+@[^@]+\.[^@]+`)
)

// NormalizeDate converts free-form dates to YYYY-MM. Unparseable input is
// returned unchanged so callers can detect it by length.
func NormalizeDate(dateStr string) string {
	s := strings.ToLower(strings.TrimSpace(dateStr))
	if s == "" {
		return ""
	}
	if strings.Contains(s, "present") || strings.Contains(s, "current") || strings.Contains(s, "now") {
		now := time.Now()
		return now.Format("2006-01")
	}
	for key, mm := range monthMap {
		if !strings.Contains(s, key) {
			continue
		}
		if m := yearAnyPat.FindString(s); m != "" {
			if len(m) == 2 {
				m = "20" + m
			}
			return m + "-" + mm
		}
	}
	if m := slashPat.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[1])
		year := m[2]
		if len(year) == 2 {
			year = "20" + year
		}
		if month >= 1 && month <= 12 {
			return year + "-" + twoDigits(month)
		}
	}
	if m := bareYear.FindString(s); m != "" {
		return m + "-01"
	}
	return dateStr
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

type monthSpan struct {
	start int
	end   int
}

func parseYearMonth(s string) (int, bool) {
	if len(s) != 7 || s[4] != '-' {
		return 0, false
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return 0, false
	}
	month, err := strconv.Atoi(s[5:])
	if err != nil || month < 1 || month > 12 {
		return 0, false
	}
	return year*12 + (month - 1), true
}

// TotalExperienceYears merges the experience intervals and returns the
// covered span in years, so overlapping jobs never double-count.
func TotalExperienceYears(periods []WorkPeriod) float64 {
	spans := []monthSpan{}
	for _, p := range periods {
		start, ok := parseYearMonth(p.StartDate)
		if !ok {
			continue
		}
		end, ok := parseYearMonth(p.EndDate)
		if !ok || start > end {
			continue
		}
		spans = append(spans, monthSpan{start: start, end: end})
	}
	if len(spans) == 0 {
		return 0
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	merged := []monthSpan{spans[0]}
	for _, next := range spans[1:] {
		last := &merged[len(merged)-1]
		if next.start <= last.end {
			if next.end > last.end {
				last.end = next.end
			}
			continue
		}
		merged = append(merged, next)
	}

	totalMonths := 0
	for _, span := range merged {
		totalMonths += span.end - span.start
	}
	return roundTo2(float64(totalMonths) / 12)
}

// Duration returns the length of one YYYY-MM range in years.
func Duration(startDate, endDate string) float64 {
	start, ok := parseYearMonth(startDate)
	if !ok {
		return 0
	}
	end, ok := parseYearMonth(endDate)
	if !ok || end < start {
		return 0
	}
	return roundTo2(float64(end-start) / 12)
}

func roundTo2(v float64) float64 {
	sign := 1.0
	if v < 0 {
		sign = -1
	}
	return sign * float64(int(sign*v*100+0.5)) / 100
}

// keywordsFromText scans a text blob for alias mentions and returns the
// canonical names found.
func keywordsFromText(text string, aliases map[string]string) map[string]bool {
	found := map[string]bool{}
	if text == "" {
		return found
	}
	t := strings.ToLower(text)
	for alias, canonical := range aliases {
		if strings.Contains(t, alias) {
			found[canonical] = true
		}
	}
	return found
}

// Prepare validates and normalizes a parsed resume into a Candidate.
func Prepare(parsed parser.Resume) Candidate {
	c := Candidate{
		Name:     strings.TrimSpace(parsed.Name),
		Location: strings.TrimSpace(parsed.Location),
		Summary:  strings.TrimSpace(parsed.Summary),
		Salary:   parsed.Salary,
	}
	c.Name = normalize.TitleCase(c.Name)

	if emailCheck.MatchString(strings.TrimSpace(parsed.Email)) {
		c.Email = strings.TrimSpace(parsed.Email)
	}
	phone := nonPhone.ReplaceAllString(parsed.Phone, "")
	if len(phone) >= 8 {
		c.Phone = phone
	}

	c.Skills = []string{}
	seenSkills := map[string]bool{}
	for _, s := range parsed.Skills {
		s = strings.TrimSpace(s)
		if s == "" || seenSkills[strings.ToLower(s)] {
			continue
		}
		seenSkills[strings.ToLower(s)] = true
		c.Skills = append(c.Skills, s)
	}

	c.Degrees = []string{}
	for _, edu := range parsed.Education {
		if deg := strings.TrimSpace(edu.Degree); deg != "" {
			c.Degrees = append(c.Degrees, deg)
		}
	}

	c.Experience = []WorkPeriod{}
	for _, exp := range parsed.Experience {
		period := WorkPeriod{
			Company:     strings.TrimSpace(exp.Company),
			Role:        strings.TrimSpace(exp.Role),
			StartDate:   NormalizeDate(exp.StartDate),
			EndDate:     NormalizeDate(exp.EndDate),
			Description: exp.Description,
		}
		if period.Description == nil {
			period.Description = []string{}
		}
		// Reversed ranges are a parsing artifact, not negative tenure.
		if len(period.StartDate) == 7 && len(period.EndDate) == 7 && period.StartDate > period.EndDate {
			period.StartDate, period.EndDate = period.EndDate, period.StartDate
		}
		c.Experience = append(c.Experience, period)
	}

	c.Projects = dedupeProjects(parsed.Projects)
	c.Certificates = flattenCertificates(parsed.Certificates)

	// Expected pay can never be below current pay; missing expected
	// defaults to current.
	if c.Salary.CurrentCTCLPA != nil {
		if c.Salary.ExpectedCTCLPA == nil || *c.Salary.ExpectedCTCLPA < *c.Salary.CurrentCTCLPA {
			v := *c.Salary.CurrentCTCLPA
			c.Salary.ExpectedCTCLPA = &v
		}
	}

	aliases := normalize.Merged(normalize.TechAliases, normalize.SkillAliases, normalize.EduAliases)
	c.RelevantExperienceMap = map[string]float64{}
	for _, exp := range c.Experience {
		years := Duration(exp.StartDate, exp.EndDate)
		if years == 0 {
			continue
		}
		keywords := keywordsFromText(exp.Role, aliases)
		for kw := range keywordsFromText(strings.Join(exp.Description, " "), aliases) {
			keywords[kw] = true
		}
		for kw := range keywords {
			c.RelevantExperienceMap[kw] += years
		}
	}

	c.TotalExperienceYears = TotalExperienceYears(c.Experience)
	return c
}

func dedupeProjects(projects []parser.Project) []parser.Project {
	out := []parser.Project{}
	seen := map[string]bool{}
	for _, p := range projects {
		name := strings.TrimSpace(p.Name)
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true
		out = append(out, parser.Project{Name: name, Description: strings.TrimSpace(p.Description)})
	}
	return out
}

// flattenCertificates turns certificate entries into plain strings and
// drops entries that are substrings of a longer kept entry.
func flattenCertificates(certs []parser.Certificate) []string {
	flat := []string{}
	for _, cert := range certs {
		name := strings.TrimSpace(cert.Name)
		if name == "" {
			continue
		}
		if issuer := strings.TrimSpace(cert.Issuer); issuer != "" {
			name = name + ", " + issuer
		}
		flat = append(flat, name)
	}

	out := []string{}
	for _, cand := range flat {
		candNorm := strings.ToLower(strings.Join(strings.Fields(cand), " "))
		kept := true
		next := out[:0]
		for _, existing := range out {
			existingNorm := strings.ToLower(strings.Join(strings.Fields(existing), " "))
			if candNorm == existingNorm || (strings.Contains(existingNorm, candNorm) && candNorm != existingNorm) {
				kept = false
			}
			if strings.Contains(candNorm, existingNorm) && candNorm != existingNorm {
				continue
			}
			next = append(next, existing)
		}
		out = next
		if kept {
			out = append(out, cand)
		}
	}
	return out
}
