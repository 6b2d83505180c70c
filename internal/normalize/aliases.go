package normalize

import (
	"sort"
	"strings"
)

// Canonical vocabulary used on both sides of the match: job descriptions
// and parsed resumes are normalized through the same alias maps so that
// "react.js" and "React Native" both count as ReactJS.

// TechAliases maps lowercase technology and tool mentions to canonical names.
var TechAliases = map[string]string{
	// Frontend
	"react native": "ReactJS",
	"react":        "ReactJS",
	"react.js":     "ReactJS",
	"typescript":   "TypeScript",
	"type script":  "TypeScript",
	"javascript":   "JavaScript",
	"js":           "JavaScript",
	"html":         "HTML5",
	"html/css":     "HTML5",
	"css":          "CSS3",
	"tailwind":     "Tailwind CSS",
	"bootstrap":    "Bootstrap",
	// Backend
	"python":      "Python",
	"api":         "REST API",
	"node":        "Node.js",
	"express":     "Express.js",
	"php":         "Laravel",
	"django":      "Django",
	"flask":       "Flask",
	"spring boot": "Spring",
	// Databases
	"mysql":    "MySQL",
	"postgres": "PostgreSQL",
	"mongodb":  "MongoDB",
	// Cloud / DevOps
	"aws":        "AWS",
	"azure":      "Azure",
	"gcp":        "GCP",
	"docker":     "Docker",
	"kubernetes": "Kubernetes",
	"linux":      "Linux",
	"rest":       "REST API",
	"graphql":    "GraphQL",
	"firebase":   "Firebase",
	// ML / AI
	"tensorflow": "TensorFlow",
	"pytorch":    "PyTorch",
	"keras":      "Keras",
	"opencv":     "OpenCV",
	"pandas":     "Pandas",
	"numpy":      "NumPy",
	"scikit":     "Scikit-Learn",
	// Tools / IDEs
	"git":           "GitHub",
	"git hub":       "GitHub",
	"github":        "GitHub",
	"gitlab":        "GitLab",
	"bitbucket":     "Bitbucket",
	"vscode":        "VS Code",
	"visual studio": "VS Code",
	"postman":       "Postman",
	"jira":          "Jira",
	"slack":         "Slack",
	"eclipse":       "Eclipse",
	"pycharm":       "PyCharm",
	"intellij":      "IntelliJ IDEA",
}

// SkillAliases maps conceptual skill mentions to canonical names.
var SkillAliases = map[string]string{
	"problem-solving":         "Problem Solving",
	"problem solving":         "Problem Solving",
	"algorithms":              "Algorithms",
	"data structure":          "Data Structures",
	"oop":                     "OOP",
	"object oriented":         "OOP",
	"networking":              "Networking",
	"cybersecurity":           "Cyber Security",
	"cloud":                   "Cloud Computing",
	"devops":                  "DevOps",
	"ml":                      "Machine Learning",
	"machine learning":        "Machine Learning",
	"deep learning":           "Deep Learning",
	"artificial intelligence": "AI",
	"ai":                      "AI",
	"database":                "Database Management",
	"sql":                     "Database Management",
	"version control":         "Version Control",
	"api":                     "API Development",
	"leadership":              "Leadership",
	"team":                    "Teamwork",
	"management":              "Project Management",
	"testing":                 "Testing & Debugging",
	"debugging":               "Testing & Debugging",
}

// EduAliases maps degree mentions to canonical degree names.
var EduAliases = map[string]string{
	"b.e":      "Bachelor's Degree in Engineering",
	"be":       "Bachelor's Degree in Engineering",
	"btech":    "Bachelor's Degree in Engineering",
	"bachelor": "Bachelor's Degree in Engineering",
	"mtech":    "Master's Degree in Engineering",
	"m.e":      "Master's Degree in Engineering",
	"master":   "Master's Degree in Engineering",
}

// Merged returns a new map combining the given alias maps; later maps win
// on key collisions.
func Merged(maps ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// Token canonicalizes a single token against an alias map. Longer aliases
// take precedence so "react.js" resolves through "react.js", not "js".
// Unknown tokens are title-cased.
func Token(word string, aliases map[string]string) string {
	w := strings.ToLower(strings.TrimSpace(word))
	for _, alias := range sortedAliases(aliases) {
		if strings.Contains(w, alias) {
			return aliases[alias]
		}
	}
	return TitleCase(w)
}

func sortedAliases(aliases map[string]string) []string {
	keys := make([]string, 0, len(aliases))
	for k := range aliases {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

// List canonicalizes a list of tokens, dropping empties and duplicates
// while preserving first-seen order.
func List(items []string, aliases map[string]string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			continue
		}
		norm := Token(item, aliases)
		if !seen[norm] {
			seen[norm] = true
			out = append(out, norm)
		}
	}
	return out
}

// TitleCase capitalizes each space-separated word.
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
