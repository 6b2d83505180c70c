package jobdescriptions

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"screening-backend/internal/normalize"
)

var (
	rangePat   = regexp.MustCompile(`(\d+)\s*(?:-|to)+\s*(\d+)`)
	plusPat    = regexp.MustCompile(`(\d+)\s*\+`)
	minimumPat = regexp.MustCompile(`(?:minimum|least)\s*(\d+)`)
	upToPat    = regexp.MustCompile(`up to\s*(\d+)`)
	numberPat  = regexp.MustCompile(`(\d+)`)
)

// Validate normalizes a JD payload into its canonical scoring-ready form:
// alias-normalized vocabulary lists, an extracted experience range, every
// scoring section present with 0-100 criteria, and weights summing to 100.
func Validate(d Data) Data {
	jdAliases := normalize.Merged(normalize.TechAliases, normalize.SkillAliases, normalize.EduAliases)
	d.Skills = normalize.List(d.Skills, jdAliases)
	d.Technologies = normalize.List(d.Technologies, jdAliases)
	d.Tools = normalize.List(d.Tools, jdAliases)
	if d.Certificates == nil {
		d.Certificates = []string{}
	}
	if d.Responsibilities == nil {
		d.Responsibilities = []string{}
	}
	if d.Projects == nil {
		d.Projects = []string{}
	}

	d.ExperienceRange = ParseExperienceRange(d.Experience)

	d.Scoring = validateScoring(d.Scoring)
	return d
}

// ParseExperienceRange extracts a min/max years window from free text like
// "3-8 years", "5+ years", "at least 4 years" or "up to 10 years".
func ParseExperienceRange(raw string) ExperienceRange {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ExperienceRange{}
	}

	if m := rangePat.FindStringSubmatch(s); m != nil {
		return ExperienceRange{Min: floatPtr(m[1]), Max: floatPtr(m[2])}
	}
	if m := plusPat.FindStringSubmatch(s); m != nil {
		return ExperienceRange{Min: floatPtr(m[1])}
	}
	if m := minimumPat.FindStringSubmatch(s); m != nil {
		return ExperienceRange{Min: floatPtr(m[1])}
	}
	if m := upToPat.FindStringSubmatch(s); m != nil {
		return ExperienceRange{Max: floatPtr(m[1])}
	}
	if m := numberPat.FindStringSubmatch(s); m != nil {
		return ExperienceRange{Min: floatPtr(m[1]), Max: floatPtr(m[1])}
	}
	return ExperienceRange{}
}

func validateScoring(scoring map[string]ScoringBlock) map[string]ScoringBlock {
	out := make(map[string]ScoringBlock, len(ScoringSections))
	for _, section := range ScoringSections {
		block, ok := scoring[section]
		if !ok {
			block = ScoringBlock{}
		}
		if block.Criteria == nil {
			block.Criteria = map[string]float64{}
		}
		block.Criteria = scaleCriteria(block.Criteria)
		out[section] = block
	}
	return normalizeWeights(out)
}

// scaleCriteria brings a criteria map onto a 0-100 scale. Values already
// reaching 100 are only clamped; otherwise everything is scaled so the
// maximum lands on 100.
func scaleCriteria(criteria map[string]float64) map[string]float64 {
	if len(criteria) == 0 {
		return map[string]float64{}
	}
	maxVal := 0.0
	for _, v := range criteria {
		if v > maxVal {
			maxVal = v
		}
	}
	out := make(map[string]float64, len(criteria))
	if maxVal <= 0 {
		for k := range criteria {
			out[k] = 0
		}
		return out
	}
	if maxVal >= 100 {
		for k, v := range criteria {
			out[k] = clamp100(math.Round(v))
		}
		return out
	}
	scale := 100.0 / maxVal
	for k, v := range criteria {
		out[k] = clamp100(math.Round(v * scale))
	}
	return out
}

// normalizeWeights makes section weights sum to exactly 100. All-zero
// weights get the default distribution; anything else is scaled
// proportionally.
func normalizeWeights(scoring map[string]ScoringBlock) map[string]ScoringBlock {
	total := 0
	for _, block := range scoring {
		total += block.Weight
	}
	if total == 100 {
		return scoring
	}
	if total == 0 {
		for section, weight := range DefaultWeights {
			block := scoring[section]
			block.Weight = weight
			scoring[section] = block
		}
		return scoring
	}
	for section, block := range scoring {
		block.Weight = int(math.Round(float64(block.Weight) / float64(total) * 100))
		scoring[section] = block
	}

	// Per-section rounding can leave the sum at 99 or 101. Settle the
	// difference on the heaviest section, smallest name on ties.
	sum := 0
	largest := ""
	for section, block := range scoring {
		sum += block.Weight
		if largest == "" ||
			block.Weight > scoring[largest].Weight ||
			(block.Weight == scoring[largest].Weight && section < largest) {
			largest = section
		}
	}
	if sum != 100 && largest != "" {
		block := scoring[largest]
		block.Weight += 100 - sum
		scoring[largest] = block
	}
	return scoring
}

func clamp100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func floatPtr(digits string) *float64 {
	n, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return nil
	}
	return &n
}
