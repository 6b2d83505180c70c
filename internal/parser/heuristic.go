package parser

import (
	"regexp"
	"strings"
)

var (
	emailPat = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phonePat = regexp.MustCompile(`\+?\d[\d\s().\-]{7,}\d`)
	yearPat  = regexp.MustCompile(`(19|20)\d{2}`)

	degreePat      = regexp.MustCompile(`(?i)\b(b\.?\s?tech|m\.?\s?tech|b\.?\s?e|m\.?\s?e|b\.?\s?sc|m\.?\s?sc|bca|mca|mba|ph\.?\s?d|bachelor(?:'?s)?[^,\n]*|master(?:'?s)?[^,\n]*|diploma[^,\n]*)\b`)
	institutionPat = regexp.MustCompile(`(?i)\b[\w .&'-]*(university|college|institute|iit|nit|school of [\w ]+)[\w .&'-]*`)

	dateRangePat = regexp.MustCompile(`(?i)\b((?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s*\d{4}|\d{4}(?:\s*[/-]\s*\d{1,2})?|\d{1,2}\s*[/-]\s*\d{4})\s*(?:-|\x{2013}|to)\s*((?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s*\d{4}|\d{4}(?:\s*[/-]\s*\d{1,2})?|\d{1,2}\s*[/-]\s*\d{4}|present|current|now)`)
)

// ParseHeuristic extracts the canonical payload from section-normalized text
// without any network dependency. It trades recall for precision: anything
// ambiguous stays empty rather than guessed.
func ParseHeuristic(normalized string) Resume {
	preamble, sections := splitSections(normalized)

	r := Resume{
		Email:  emailPat.FindString(normalized),
		Phone:  strings.TrimSpace(phonePat.FindString(stripEmail(normalized))),
		Salary: ExtractSalary(normalized),
	}
	r.Name = guessName(preamble)
	r.Summary = strings.TrimSpace(strings.Join(sections["Objective"], " "))
	r.Skills = parseSkills(sections["Skills"])
	r.Education = parseEducation(sections["Education"])
	r.Experience = parseExperience(sections["Experience"])
	r.Projects = parseProjects(sections["Projects"])
	r.Certificates = parseCertificates(sections["Certifications"])
	return r
}

// splitSections cuts the text at "## Header" markers inserted by
// NormalizeSections. Text before the first marker is the preamble.
func splitSections(text string) (string, map[string][]string) {
	sections := map[string][]string{}
	var preamble []string
	current := ""
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "## ") {
			current = strings.TrimSpace(strings.TrimPrefix(trimmed, "## "))
			continue
		}
		if trimmed == "" {
			continue
		}
		if current == "" {
			preamble = append(preamble, trimmed)
			continue
		}
		sections[current] = append(sections[current], trimmed)
	}
	return strings.Join(preamble, "\n"), sections
}

func stripEmail(text string) string {
	return emailPat.ReplaceAllString(text, " ")
}

// guessName takes the first short preamble line that looks like a person's
// name rather than contact info or a headline.
func guessName(preamble string) string {
	for _, line := range strings.Split(preamble, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.ContainsAny(line, "@0123456789") {
			continue
		}
		words := strings.Fields(line)
		if len(words) == 0 || len(words) > 4 || len(line) > 40 {
			continue
		}
		return line
	}
	return ""
}

var skillSplitter = regexp.MustCompile(`[,;|\x{2022}\n]`)

func parseSkills(lines []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, line := range lines {
		for _, tok := range skillSplitter.Split(line, -1) {
			tok = strings.Trim(strings.TrimSpace(tok), "-: ")
			if tok == "" || len(tok) > 40 {
				continue
			}
			key := strings.ToLower(tok)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, tok)
		}
	}
	return out
}

func parseEducation(lines []string) []Education {
	out := []Education{}
	for i, line := range lines {
		degree := strings.TrimSpace(degreePat.FindString(line))
		if degree == "" {
			continue
		}
		edu := Education{
			Degree:      degree,
			Institution: strings.TrimSpace(institutionPat.FindString(line)),
			Year:        yearPat.FindString(line),
		}
		// Institution and year often sit on the following line.
		if edu.Institution == "" && i+1 < len(lines) {
			edu.Institution = strings.TrimSpace(institutionPat.FindString(lines[i+1]))
			if edu.Year == "" {
				edu.Year = yearPat.FindString(lines[i+1])
			}
		}
		out = append(out, edu)
	}
	return out
}

func parseExperience(lines []string) []Experience {
	out := []Experience{}
	var current *Experience
	for _, line := range lines {
		m := dateRangePat.FindStringSubmatchIndex(line)
		if m == nil {
			if current != nil {
				desc := strings.Trim(strings.TrimSpace(line), "-\u2022 ")
				if desc != "" {
					current.Description = append(current.Description, desc)
				}
			}
			continue
		}

		if current != nil {
			out = append(out, *current)
		}
		start := strings.TrimSpace(line[m[2]:m[3]])
		end := strings.TrimSpace(line[m[4]:m[5]])
		head := strings.Trim(strings.TrimSpace(line[:m[0]]), "-,(| ")
		role, company := splitRoleCompany(head)
		current = &Experience{
			Company:     company,
			Role:        role,
			StartDate:   start,
			EndDate:     end,
			Description: []string{},
		}
	}
	if current != nil {
		out = append(out, *current)
	}
	return out
}

// splitRoleCompany handles "Role at Company", "Role, Company" and
// "Role - Company" headings. A bare heading is treated as the role.
func splitRoleCompany(head string) (string, string) {
	for _, sep := range []string{" at ", ", ", " - ", " | "} {
		if idx := strings.Index(head, sep); idx > 0 {
			return strings.TrimSpace(head[:idx]), strings.TrimSpace(head[idx+len(sep):])
		}
	}
	return head, ""
}

func parseProjects(lines []string) []Project {
	out := []Project{}
	for _, line := range lines {
		line = strings.Trim(strings.TrimSpace(line), "-\u2022 ")
		if line == "" {
			continue
		}
		name, desc := line, ""
		for _, sep := range []string{" - ", ": "} {
			if idx := strings.Index(line, sep); idx > 0 {
				name, desc = strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+len(sep):])
				break
			}
		}
		out = append(out, Project{Name: name, Description: desc})
	}
	return out
}

func parseCertificates(lines []string) []Certificate {
	out := []Certificate{}
	for _, line := range lines {
		line = strings.Trim(strings.TrimSpace(line), "-\u2022 ")
		if line == "" || isSalaryLine(line) {
			continue
		}
		cert := Certificate{Name: line, Year: yearPat.FindString(line)}
		for _, sep := range []string{" - ", ", "} {
			if idx := strings.Index(line, sep); idx > 0 {
				cert.Name = strings.TrimSpace(line[:idx])
				cert.Issuer = strings.TrimSpace(strings.TrimSuffix(line[idx+len(sep):], cert.Year))
				cert.Issuer = strings.Trim(cert.Issuer, ", ")
				break
			}
		}
		if cert.Year != "" && strings.HasSuffix(cert.Name, cert.Year) {
			cert.Name = strings.TrimSpace(strings.TrimSuffix(cert.Name, cert.Year))
		}
		out = append(out, cert)
	}
	return out
}
