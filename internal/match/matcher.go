package match

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"screening-backend/internal/jobdescriptions"
)

// Category keys, matching the JD scoring sections.
const (
	CategorySkills             = "skills"
	CategoryExperience         = "experience"
	CategoryRelevantExperience = "relevant_experience"
	CategoryProjects           = "projects"
	CategoryCertificates       = "certificates"
	CategoryTools              = "tools"
	CategoryTechnologies       = "technologies"
	CategoryQualification      = "qualification"
	CategoryResponsibilities   = "responsibilities"
	CategorySalary             = "salary"
)

// MatchDetail lists what matched and what is missing for one category.
type MatchDetail struct {
	Matched []string `json:"matched"`
	Missing []string `json:"missing"`
}

// Result is the deterministic scoring outcome for one candidate against
// one JD.
type Result struct {
	Scores          map[string]int                  `json:"scores"`
	FinalScore      int                             `json:"final_score"`
	Notes           string                          `json:"notes"`
	MatchedItems    map[string]MatchDetail          `json:"matched_items"`
	RelevantYears   map[string]float64              `json:"relevant_experience_years"`
	CandidateYears  float64                         `json:"candidate_total_experience_years"`
	RelevantAvg     float64                         `json:"candidate_relevant_years_avg"`
	CandidateSalary *float64                        `json:"candidate_salary_lpa"`
	SalaryBand      string                          `json:"salary_band_match,omitempty"`
	ExperienceRange jobdescriptions.ExperienceRange `json:"experience_range"`
}

// Score computes every category score and the weighted final score. The
// JD data must already be validated so weights sum to 100 and criteria
// are scaled.
func Score(candidate Candidate, jd jobdescriptions.Data) Result {
	corpus := candidate.textCorpus()

	res := Result{
		Scores:          map[string]int{},
		MatchedItems:    map[string]MatchDetail{},
		CandidateYears:  candidate.TotalExperienceYears,
		ExperienceRange: jd.ExperienceRange,
	}

	skillsDetail := extractMatches(corpus, jd.Skills)
	res.Scores[CategorySkills] = ratioScore(len(skillsDetail.Matched), len(jd.Skills))
	res.MatchedItems[CategorySkills] = skillsDetail

	techDetail := extractMatches(corpus, jd.Technologies)
	res.Scores[CategoryTechnologies] = ratioScore(len(techDetail.Matched), len(jd.Technologies))
	res.MatchedItems[CategoryTechnologies] = techDetail

	toolsDetail := extractMatches(corpus, jd.Tools)
	res.Scores[CategoryTools] = ratioScore(len(toolsDetail.Matched), len(jd.Tools))
	res.MatchedItems[CategoryTools] = toolsDetail

	projKeywords := ProjectKeywords(jd.Projects)
	projDetail := extractMatches(candidate.projectCorpus(), projKeywords)
	res.Scores[CategoryProjects] = ratioScore(len(projDetail.Matched), len(projKeywords))
	res.MatchedItems[CategoryProjects] = projDetail

	certDetail := extractMatches(candidate.Certificates, jd.Certificates)
	res.Scores[CategoryCertificates] = ratioScore(len(certDetail.Matched), len(jd.Certificates))
	res.MatchedItems[CategoryCertificates] = certDetail

	res.Scores[CategoryQualification] = qualificationScore(jd.Qualification, candidate.Degrees)

	respDetail := extractMatches(candidate.experienceCorpus(), jd.Responsibilities)
	res.Scores[CategoryResponsibilities] = ratioScore(len(respDetail.Matched), len(jd.Responsibilities))
	res.MatchedItems[CategoryResponsibilities] = respDetail

	res.Scores[CategoryExperience] = ExperienceScore(candidate.TotalExperienceYears, jd.ExperienceRange)

	relevantAvg, relevantYears := relevantYearsForSkills(candidate.RelevantExperienceMap, jd.Skills)
	res.RelevantAvg = relevantAvg
	res.RelevantYears = relevantYears
	res.Scores[CategoryRelevantExperience] = bucketScore(relevantAvg, criteriaFor(jd, CategoryRelevantExperience))

	res.CandidateSalary = candidateSalary(candidate.Salary.ExpectedCTCLPA, candidate.Salary.CurrentCTCLPA)
	salaryCriteria := criteriaFor(jd, CategorySalary)
	res.Scores[CategorySalary] = salaryScore(salaryCriteria, res.CandidateSalary)
	res.SalaryBand = salaryBand(salaryCriteria, res.CandidateSalary)

	for key, score := range res.Scores {
		res.Scores[key] = clamp(score)
	}

	res.FinalScore = WeightedFinal(res.Scores, WeightsFor(jd))
	res.Notes = fmt.Sprintf("Skills matched %d/%d; Relevant exp avg %g yrs; Salary score %d.",
		len(skillsDetail.Matched), len(jd.Skills), relevantAvg, res.Scores[CategorySalary])
	return res
}

// textCorpus is the search space for skills, technologies and tools:
// skill list plus experience roles and descriptions plus summary.
func (c Candidate) textCorpus() []string {
	out := append([]string{}, c.Skills...)
	for _, exp := range c.Experience {
		if exp.Role != "" {
			out = append(out, exp.Role)
		}
		if desc := strings.Join(exp.Description, " "); desc != "" {
			out = append(out, desc)
		}
	}
	if c.Summary != "" {
		out = append(out, c.Summary)
	}
	return out
}

// projectCorpus widens the search to project names and descriptions; JD
// project keywords often hide inside experience bullets too.
func (c Candidate) projectCorpus() []string {
	out := []string{}
	for _, p := range c.Projects {
		out = append(out, p.Name, p.Description)
	}
	out = append(out, c.textCorpus()...)
	return out
}

func (c Candidate) experienceCorpus() []string {
	out := []string{}
	for _, exp := range c.Experience {
		out = append(out, exp.Role, strings.Join(exp.Description, " "))
	}
	return out
}

// extractMatches reports which targets appear in the source texts.
// Matching is whole-word with symbol-safe boundaries so "C++" and "C#"
// match exactly and "java" does not match "javascript".
func extractMatches(source, targets []string) MatchDetail {
	detail := MatchDetail{Matched: []string{}, Missing: []string{}}
	lowered := make([]string, 0, len(source))
	for _, s := range source {
		if s != "" {
			lowered = append(lowered, strings.ToLower(s))
		}
	}
	for _, target := range targets {
		t := strings.ToLower(strings.TrimSpace(target))
		if t == "" {
			continue
		}
		pat := wordPattern(t)
		found := false
		for _, s := range lowered {
			if pat.MatchString(s) {
				found = true
				break
			}
		}
		if found {
			detail.Matched = append(detail.Matched, target)
		} else {
			detail.Missing = append(detail.Missing, target)
		}
	}
	return detail
}

var wordCharStart = regexp.MustCompile(`^\w`)
var wordCharEnd = regexp.MustCompile(`\w$`)

// wordPattern builds a whole-word regexp for the target. \b only works
// next to word characters, so terms like "c++" get a lookahead-free
// trailing guard instead.
func wordPattern(t string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(t)
	prefix := ""
	if wordCharStart.MatchString(t) {
		prefix = `\b`
	}
	suffix := `($|[^\w])`
	if wordCharEnd.MatchString(t) {
		suffix = `\b`
	}
	return regexp.MustCompile(prefix + quoted + suffix)
}

func ratioScore(matched, total int) int {
	if total <= 0 {
		return 0
	}
	return clamp(int(roundHalf(100 * float64(matched) / float64(total))))
}

func qualificationScore(jdQual string, degrees []string) int {
	q := strings.ToLower(strings.TrimSpace(jdQual))
	if q == "" {
		return 0
	}
	for _, deg := range degrees {
		if strings.Contains(strings.ToLower(deg), q) {
			return 100
		}
	}
	return 0
}

// ExperienceScore rates total experience against the JD range: meeting
// the minimum is 100, otherwise proportional; with only a maximum, staying
// under it is 100 and exceeding it decays proportionally.
func ExperienceScore(totalYears float64, rng jobdescriptions.ExperienceRange) int {
	if rng.Min == nil && rng.Max == nil {
		return 0
	}
	if rng.Min != nil {
		min := *rng.Min
		if totalYears >= min {
			return 100
		}
		if min <= 0 {
			return 0
		}
		return clamp(int(roundHalf(totalYears / min * 100)))
	}
	max := *rng.Max
	if totalYears <= max {
		return 100
	}
	if totalYears == 0 {
		return 0
	}
	return clamp(int(roundHalf(max / totalYears * 100)))
}

var (
	bucketGE    = regexp.MustCompile(`^>=(\d+)`)
	bucketRange = regexp.MustCompile(`^(\d+)-(\d+)`)
	bucketLT    = regexp.MustCompile(`^<(\d+)`)
)

// bucketScore maps relevant years onto JD criteria buckets. ">=N" buckets
// win first, then "A-B" ranges, then "<N".
func bucketScore(years float64, criteria map[string]float64) int {
	if len(criteria) == 0 {
		return 0
	}
	type bucket struct {
		key string
		val float64
	}
	normalized := make([]bucket, 0, len(criteria))
	for key, val := range criteria {
		k := strings.ReplaceAll(strings.ToLower(key), " ", "")
		normalized = append(normalized, bucket{key: k, val: val})
	}

	for _, b := range normalized {
		if m := bucketGE.FindStringSubmatch(b.key); m != nil {
			if n, _ := strconv.ParseFloat(m[1], 64); years >= n {
				return clamp(int(roundHalf(b.val)))
			}
		}
	}
	for _, b := range normalized {
		if m := bucketRange.FindStringSubmatch(b.key); m != nil {
			a, _ := strconv.ParseFloat(m[1], 64)
			z, _ := strconv.ParseFloat(m[2], 64)
			if years >= a && years <= z {
				return clamp(int(roundHalf(b.val)))
			}
		}
	}
	for _, b := range normalized {
		if m := bucketLT.FindStringSubmatch(b.key); m != nil {
			if n, _ := strconv.ParseFloat(m[1], 64); years < n {
				return clamp(int(roundHalf(b.val)))
			}
		}
	}
	return 0
}

var (
	salaryLT    = regexp.MustCompile(`^<\s*(\d+\.?\d*)`)
	salaryGT    = regexp.MustCompile(`^>\s*(\d+\.?\d*)`)
	salaryRange = regexp.MustCompile(`^(\d+\.?\d*)\s*(?:-|to)+\s*(\d+\.?\d*)`)
	salaryExact = regexp.MustCompile(`^(\d+\.?\d*)$`)
)

func salaryScore(criteria map[string]float64, candidate *float64) int {
	if len(criteria) == 0 || candidate == nil {
		return 0
	}
	sal := *candidate
	for key, val := range criteria {
		k := strings.ToLower(strings.TrimSpace(key))
		if m := salaryLT.FindStringSubmatch(k); m != nil {
			if n, _ := strconv.ParseFloat(m[1], 64); sal < n {
				return clamp(int(roundHalf(val)))
			}
			continue
		}
		if m := salaryGT.FindStringSubmatch(k); m != nil {
			if n, _ := strconv.ParseFloat(m[1], 64); sal > n {
				return clamp(int(roundHalf(val)))
			}
			continue
		}
		if m := salaryRange.FindStringSubmatch(k); m != nil {
			a, _ := strconv.ParseFloat(m[1], 64)
			z, _ := strconv.ParseFloat(m[2], 64)
			if sal >= a && sal <= z {
				return clamp(int(roundHalf(val)))
			}
			continue
		}
		if m := salaryExact.FindStringSubmatch(k); m != nil {
			if n, _ := strconv.ParseFloat(m[1], 64); sal == n {
				return clamp(int(roundHalf(val)))
			}
		}
	}
	return 0
}

func salaryBand(criteria map[string]float64, candidate *float64) string {
	if len(criteria) == 0 || candidate == nil {
		return ""
	}
	sal := *candidate
	for key := range criteria {
		k := strings.ToLower(strings.TrimSpace(key))
		if m := salaryLT.FindStringSubmatch(k); m != nil {
			if n, _ := strconv.ParseFloat(m[1], 64); sal < n {
				return key
			}
			continue
		}
		if m := salaryGT.FindStringSubmatch(k); m != nil {
			if n, _ := strconv.ParseFloat(m[1], 64); sal > n {
				return key
			}
			continue
		}
		if m := salaryRange.FindStringSubmatch(k); m != nil {
			a, _ := strconv.ParseFloat(m[1], 64)
			z, _ := strconv.ParseFloat(m[2], 64)
			if sal >= a && sal <= z {
				return key
			}
		}
	}
	return ""
}

func candidateSalary(expected, current *float64) *float64 {
	if expected != nil {
		return expected
	}
	return current
}

// relevantYearsForSkills averages per-skill relevant years over the JD's
// skill list.
func relevantYearsForSkills(rmap map[string]float64, jdSkills []string) (float64, map[string]float64) {
	perSkill := map[string]float64{}
	if len(jdSkills) == 0 {
		return 0, perSkill
	}
	total := 0.0
	for _, skill := range jdSkills {
		years, ok := rmap[skill]
		if !ok {
			years = rmap[strings.ToLower(skill)]
		}
		perSkill[skill] = years
		total += years
	}
	return roundTo2(total / float64(len(jdSkills))), perSkill
}

var projectStopwords = map[string]bool{
	"the": true, "and": true, "a": true, "an": true, "for": true,
	"in": true, "of": true, "to": true, "on": true, "with": true,
	"using": true, "based": true, "related": true, "system": true,
	"create": true, "build": true, "built": true, "develop": true,
	"developed": true, "developer": true, "development": true,
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9 ]+`)

// ProjectKeywords tokenizes JD project phrases into deduplicated keywords,
// dropping filler words.
func ProjectKeywords(jdProjects []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, item := range jdProjects {
		if item == "" {
			continue
		}
		txt := nonAlnum.ReplaceAllString(strings.ToLower(item), " ")
		for _, tok := range strings.Fields(txt) {
			if projectStopwords[tok] || seen[tok] {
				continue
			}
			seen[tok] = true
			out = append(out, tok)
		}
	}
	return out
}

// WeightedFinal folds category scores with their weights (weights sum
// to 100).
func WeightedFinal(scores map[string]int, weights map[string]int) int {
	final := 0.0
	for category, weight := range weights {
		final += float64(scores[category]) * float64(weight) / 100
	}
	return clamp(int(roundHalf(final)))
}

// WeightsFor resolves a JD's category weights, falling back to the
// default distribution when the JD carries none.
func WeightsFor(jd jobdescriptions.Data) map[string]int {
	weights := map[string]int{}
	total := 0
	for section, block := range jd.Scoring {
		weights[section] = block.Weight
		total += block.Weight
	}
	if total == 0 {
		return jobdescriptions.DefaultWeights
	}
	return weights
}

func criteriaFor(jd jobdescriptions.Data, section string) map[string]float64 {
	block, ok := jd.Scoring[section]
	if !ok {
		return nil
	}
	return block.Criteria
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func roundHalf(v float64) float64 {
	if v < 0 {
		return -float64(int(-v + 0.5))
	}
	return float64(int(v + 0.5))
}
