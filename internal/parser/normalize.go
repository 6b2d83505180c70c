package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	multiNewline = regexp.MustCompile(`\n{2,}`)
	multiSpace   = regexp.MustCompile(` +`)
	brokenWord   = regexp.MustCompile(`(\w)-\n(\w)`)
	letterDigit  = regexp.MustCompile(`([a-zA-Z])(\d)`)
	digitLetter  = regexp.MustCompile(`(\d)([a-zA-Z])`)
	nonASCII     = regexp.MustCompile(`[^\x00-\x7F]+`)
)

// CleanText collapses whitespace, rejoins hyphen-broken words, splits merged
// alphanumeric tokens ("ctc6.5" becomes "ctc 6.5") and drops non-ASCII noise.
func CleanText(raw string) string {
	text := raw
	text = multiNewline.ReplaceAllString(text, "\n")
	text = multiSpace.ReplaceAllString(text, " ")
	text = brokenWord.ReplaceAllString(text, "$1$2")
	text = letterDigit.ReplaceAllString(text, "$1 $2")
	text = digitLetter.ReplaceAllString(text, "$1 $2")
	text = nonASCII.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

var sectionHeaders = []struct {
	pattern *regexp.Regexp
	header  string
}{
	{regexp.MustCompile(`(?i)\bOBJECTIVE\b`), "## Objective"},
	{regexp.MustCompile(`(?i)\bSUMMARY\b`), "## Objective"},
	{regexp.MustCompile(`(?i)\bSKILLS\b`), "## Skills"},
	{regexp.MustCompile(`(?i)\bEXPERIENCE\b`), "## Experience"},
	{regexp.MustCompile(`(?i)\bEDUCATION\b`), "## Education"},
	{regexp.MustCompile(`(?i)\bPROJECTS\b`), "## Projects"},
	{regexp.MustCompile(`(?i)\bCERTIFICATIONS\b`), "## Certifications"},
	{regexp.MustCompile(`(?i)\bCERTIFICATES\b`), "## Certifications"},
	{regexp.MustCompile(`(?i)\bACHIEVEMENTS\b`), "## Achievements"},
	{regexp.MustCompile(`(?i)\bCONTACT\b`), "## Contact"},
}

// NormalizeSections inserts markdown-style headers at the common resume
// section words so the heuristic parser can segment reliably.
func NormalizeSections(text string) string {
	for _, s := range sectionHeaders {
		text = s.pattern.ReplaceAllString(text, "\n\n"+s.header+"\n")
	}
	text = multiNewline.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// Normalize runs cleaning and section normalization.
func Normalize(raw string) string {
	return NormalizeSections(CleanText(raw))
}

var (
	cgpaPat = regexp.MustCompile(`(?i)(CGPA|GPA)\s*[:\-]?\s*(\d+(\.\d+)?)`)
	percPat = regexp.MustCompile(`(?i)(Percentage|Percent)\s*[:\-]?\s*(\d+(\.\d+)?)`)
)

// AcademicScores extracts CGPA or percentage figures when present.
func AcademicScores(text string) map[string]float64 {
	out := map[string]float64{}
	if m := cgpaPat.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[2], 64); err == nil {
			out["cgpa"] = v
		}
	}
	if m := percPat.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[2], 64); err == nil {
			out["percentage"] = v
		}
	}
	return out
}

var salaryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(current\s+ctc|current\s+salary)\s*[:\-]?\s*(\d+(\.\d+)?)\s*(lpa|lakhs|lakh|pa|p\.a\.|per annum)?`),
	regexp.MustCompile(`(expected\s+ctc|expected\s+salary|desired\s+ctc)\s*[:\-]?\s*(\d+(\.\d+)?)\s*(lpa|lakhs|lakh|pa|p\.a\.|per annum)?`),
	regexp.MustCompile(`(\d+(\.\d+)?)\s*(lpa|lakhs|lakh)\b`),
	regexp.MustCompile(`(\d+(\.\d+)?)\s*k\s*(per\s*month|monthly|pm)`),
	regexp.MustCompile(`ctc\s*[:\-]?\s*(\d+(\.\d+)?)\s*(lpa|lakhs|lakh|pa|per annum)?`),
}

var salaryNumber = regexp.MustCompile(`\d+(\.\d+)?`)

// isSalaryLine reports whether a line is a compensation statement. Resumes
// often end with CTC lines that would otherwise land in the last section.
func isSalaryLine(line string) bool {
	t := strings.ToLower(strings.NewReplacer(",", " ", "₹", " ").Replace(line))
	for _, pat := range salaryPatterns {
		if pat.MatchString(t) {
			return true
		}
	}
	return false
}

// ExtractSalary finds salary mentions and normalizes them to LPA. Monthly
// figures are annualized, "80k" style amounts treated as INR thousands.
func ExtractSalary(text string) Salary {
	t := strings.ToLower(strings.NewReplacer(",", " ", "₹", " ").Replace(text))

	var salary Salary
	for _, pat := range salaryPatterns {
		for _, full := range pat.FindAllString(t, -1) {
			numStr := salaryNumber.FindString(full)
			if numStr == "" {
				continue
			}
			num, err := strconv.ParseFloat(numStr, 64)
			if err != nil {
				continue
			}

			monthly := strings.Contains(full, "per month") || strings.Contains(full, "monthly") || strings.Contains(full, "pm")
			var lpa float64
			switch {
			case monthly:
				lpa = round2(num * 12 * 1000 / 100000)
			case strings.Contains(full, "lpa") || strings.Contains(full, "lakh"):
				lpa = num
			case strings.Contains(full, "k"):
				lpa = round2(num * 1000 / 100000)
			case num > 1000:
				lpa = round2(num / 100000)
			default:
				lpa = num
			}

			v := lpa
			switch {
			case strings.Contains(full, "current"):
				salary.CurrentCTCLPA = &v
			case strings.Contains(full, "expected") || strings.Contains(full, "desired"):
				salary.ExpectedCTCLPA = &v
			case strings.Contains(full, "ctc"):
				if salary.CurrentCTCLPA == nil {
					salary.CurrentCTCLPA = &v
				}
			default:
				if salary.ExpectedCTCLPA == nil {
					salary.ExpectedCTCLPA = &v
				}
			}
		}
	}
	return salary
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
