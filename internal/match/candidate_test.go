package match

import (
	"testing"
	"time"

	"screening-backend/internal/parser"
)

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Jan 2020", "2020-01"},
		{"September 2019", "2019-09"},
		{"03/2021", "2021-03"},
		{"2019", "2019-01"},
		{"Jun 22", "2022-06"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeDate(tc.in); got != tc.want {
			t.Fatalf("NormalizeDate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	now := time.Now().Format("2006-01")
	for _, in := range []string{"Present", "current", "now"} {
		if got := NormalizeDate(in); got != now {
			t.Fatalf("NormalizeDate(%q) = %q, want %q", in, got, now)
		}
	}
}

func TestTotalExperienceYearsMergesOverlaps(t *testing.T) {
	periods := []WorkPeriod{
		{StartDate: "2020-01", EndDate: "2021-01"},
		{StartDate: "2020-06", EndDate: "2021-06"},
	}
	// Merged span is 2020-01 through 2021-06: 17 months.
	if got := TotalExperienceYears(periods); got != 1.42 {
		t.Fatalf("total years = %v, want 1.42", got)
	}
}

func TestTotalExperienceYearsDisjoint(t *testing.T) {
	periods := []WorkPeriod{
		{StartDate: "2018-01", EndDate: "2019-01"},
		{StartDate: "2020-01", EndDate: "2020-07"},
	}
	if got := TotalExperienceYears(periods); got != 1.5 {
		t.Fatalf("total years = %v, want 1.5", got)
	}
}

func TestPrepareSalaryRules(t *testing.T) {
	current := 20.0
	expected := 15.0
	c := Prepare(parser.Resume{Salary: parser.Salary{CurrentCTCLPA: &current, ExpectedCTCLPA: &expected}})
	if c.Salary.ExpectedCTCLPA == nil || *c.Salary.ExpectedCTCLPA != 20 {
		t.Fatalf("expected CTC should be raised to current, got %v", c.Salary.ExpectedCTCLPA)
	}

	c = Prepare(parser.Resume{Salary: parser.Salary{CurrentCTCLPA: &current}})
	if c.Salary.ExpectedCTCLPA == nil || *c.Salary.ExpectedCTCLPA != 20 {
		t.Fatalf("missing expected CTC should default to current, got %v", c.Salary.ExpectedCTCLPA)
	}
}

func TestPrepareContactValidation(t *testing.T) {
	c := Prepare(parser.Resume{
		Name:  "priya sharma",
		Email: "not-an-email",
		Phone: "+91 98765-43210",
	})
	if c.Name != "Priya Sharma" {
		t.Fatalf("name = %q", c.Name)
	}
	if c.Email != "" {
		t.Fatalf("invalid email kept: %q", c.Email)
	}
	if c.Phone != "+919876543210" {
		t.Fatalf("phone = %q", c.Phone)
	}

	c = Prepare(parser.Resume{Phone: "123"})
	if c.Phone != "" {
		t.Fatalf("short phone kept: %q", c.Phone)
	}
}

func TestPrepareCertificateFlattening(t *testing.T) {
	c := Prepare(parser.Resume{Certificates: []parser.Certificate{
		{Name: "AWS Certified Solutions Architect"},
		{Name: "AWS Certified Solutions Architect", Issuer: "Amazon"},
		{Name: "AWS Certified"},
	}})
	if len(c.Certificates) != 1 {
		t.Fatalf("certificates = %v, want one merged entry", c.Certificates)
	}
	if c.Certificates[0] != "AWS Certified Solutions Architect, Amazon" {
		t.Fatalf("kept %q, want the longest form", c.Certificates[0])
	}
}

func TestPrepareRelevantExperienceMap(t *testing.T) {
	c := Prepare(parser.Resume{Experience: []parser.Experience{
		{
			Role:        "Python Developer",
			StartDate:   "Jan 2020",
			EndDate:     "Jan 2022",
			Description: []string{"Built services with Django and PostgreSQL"},
		},
	}})
	if got := c.RelevantExperienceMap["Python"]; got != 2 {
		t.Fatalf("Python years = %v, want 2", got)
	}
	if got := c.RelevantExperienceMap["PostgreSQL"]; got != 2 {
		t.Fatalf("PostgreSQL years = %v, want 2", got)
	}
}
