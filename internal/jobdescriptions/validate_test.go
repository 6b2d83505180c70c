package jobdescriptions

import "testing"

func TestParseExperienceRange(t *testing.T) {
	cases := []struct {
		in       string
		min, max float64
		hasMin   bool
		hasMax   bool
	}{
		{"3-8 years", 3, 8, true, true},
		{"3 to 8 years", 3, 8, true, true},
		{"5+ years", 5, 0, true, false},
		{"at least 4 years", 4, 0, true, false},
		{"minimum 3 years", 3, 0, true, false},
		{"up to 10 years", 0, 10, false, true},
		{"3 years", 3, 3, true, true},
		{"", 0, 0, false, false},
		{"flexible", 0, 0, false, false},
	}
	for _, tc := range cases {
		got := ParseExperienceRange(tc.in)
		if (got.Min != nil) != tc.hasMin || (got.Max != nil) != tc.hasMax {
			t.Fatalf("%q: bounds presence min=%v max=%v", tc.in, got.Min, got.Max)
		}
		if tc.hasMin && *got.Min != tc.min {
			t.Fatalf("%q: min = %v, want %v", tc.in, *got.Min, tc.min)
		}
		if tc.hasMax && *got.Max != tc.max {
			t.Fatalf("%q: max = %v, want %v", tc.in, *got.Max, tc.max)
		}
	}
}

func TestValidateFillsEverySection(t *testing.T) {
	out := Validate(Data{})
	if len(out.Scoring) != len(ScoringSections) {
		t.Fatalf("expected %d sections, got %d", len(ScoringSections), len(out.Scoring))
	}
	for _, section := range ScoringSections {
		if _, ok := out.Scoring[section]; !ok {
			t.Fatalf("missing section %q", section)
		}
	}
}

func TestValidateDefaultWeightsWhenAllZero(t *testing.T) {
	out := Validate(Data{})
	total := 0
	for section, block := range out.Scoring {
		if block.Weight != DefaultWeights[section] {
			t.Fatalf("section %q weight = %d, want %d", section, block.Weight, DefaultWeights[section])
		}
		total += block.Weight
	}
	if total != 100 {
		t.Fatalf("weights sum = %d, want 100", total)
	}
}

func TestValidateNormalizesWeightsProportionally(t *testing.T) {
	out := Validate(Data{Scoring: map[string]ScoringBlock{
		"skills":     {Weight: 30},
		"experience": {Weight: 10},
	}})
	if out.Scoring["skills"].Weight != 75 {
		t.Fatalf("skills weight = %d, want 75", out.Scoring["skills"].Weight)
	}
	if out.Scoring["experience"].Weight != 25 {
		t.Fatalf("experience weight = %d, want 25", out.Scoring["experience"].Weight)
	}
}

func TestValidateWeightsSumToExactly100(t *testing.T) {
	// 1/1/1 rounds each section to 33, leaving one point unassigned.
	out := Validate(Data{Scoring: map[string]ScoringBlock{
		"skills":              {Weight: 1},
		"relevant_experience": {Weight: 1},
		"experience":          {Weight: 1},
	}})
	total := 0
	for _, block := range out.Scoring {
		total += block.Weight
	}
	if total != 100 {
		t.Fatalf("weights sum = %d, want exactly 100", total)
	}
	if out.Scoring["experience"].Weight != 34 {
		t.Fatalf("experience weight = %d, want 34 with the remainder", out.Scoring["experience"].Weight)
	}
}

func TestValidateScalesCriteria(t *testing.T) {
	out := Validate(Data{Scoring: map[string]ScoringBlock{
		"relevant_experience": {Weight: 100, Criteria: map[string]float64{">=5": 10, "2-5": 5, "<2": 1}},
	}})
	crits := out.Scoring["relevant_experience"].Criteria
	if crits[">=5"] != 100 {
		t.Fatalf(">=5 = %v, want 100", crits[">=5"])
	}
	if crits["2-5"] != 50 {
		t.Fatalf("2-5 = %v, want 50", crits["2-5"])
	}
	if crits["<2"] != 10 {
		t.Fatalf("<2 = %v, want 10", crits["<2"])
	}
}

func TestValidateClampsOversizedCriteria(t *testing.T) {
	out := Validate(Data{Scoring: map[string]ScoringBlock{
		"salary": {Weight: 100, Criteria: map[string]float64{"<10": 250, ">10": 80}},
	}})
	crits := out.Scoring["salary"].Criteria
	if crits["<10"] != 100 {
		t.Fatalf("<10 = %v, want 100", crits["<10"])
	}
	if crits[">10"] != 80 {
		t.Fatalf(">10 = %v, want 80", crits[">10"])
	}
}

func TestValidateNormalizesVocabulary(t *testing.T) {
	out := Validate(Data{
		Skills:       []string{"problem solving", "react.js", "Python"},
		Technologies: []string{"postgres", "postgres", "docker"},
	})
	want := map[string]bool{"Problem Solving": true, "ReactJS": true, "Python": true}
	for _, s := range out.Skills {
		if !want[s] {
			t.Fatalf("unexpected skill %q", s)
		}
	}
	if len(out.Technologies) != 2 {
		t.Fatalf("expected dedup to 2 technologies, got %v", out.Technologies)
	}
}
