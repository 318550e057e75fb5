package docgen

import (
	"testing"

	"github.com/hrkit/talentscout/internal/candidate"
	"github.com/hrkit/talentscout/internal/job"
	"github.com/hrkit/talentscout/internal/matching"
)

func sampleMatch() (*matching.Match, *job.Job) {
	return &matching.Match{
			Candidate: &candidate.Candidate{
				FullName:   "Sam Carter",
				Email:      "sam@example.com",
				ProfileURL: "https://www.linkedin.com/in/sam-carter",
				Company:    "Initech",
				Position:   "Senior Python Developer",
				Location:   "Berlin",
			},
			Score:         0.55,
			MatchedSkills: []string{"python", "aws"},
			IsMatch:       true,
			JobTitle:      "Python Developer",
		}, &job.Job{
			Title:   "Python Developer",
			Company: "Acme",
		}
}

func TestSummaryVars(t *testing.T) {
	m, j := sampleMatch()
	vars := SummaryVars(m, j)

	want := map[string]string{
		"candidate_name":   "Sam Carter",
		"current_position": "Senior Python Developer",
		"current_company":  "Initech",
		"job_title":        "Python Developer",
		"job_company":      "Acme",
		"match_score":      "0.55",
		"matched_skills":   "python, aws",
	}
	for key, val := range want {
		if vars[key] != val {
			t.Errorf("vars[%q] = %q, want %q", key, vars[key], val)
		}
	}
	if vars["generated_on"] == "" {
		t.Error("generated_on must be set")
	}
}

func TestSummaryFileName(t *testing.T) {
	m, _ := sampleMatch()
	if got := summaryFileName(m, "pdf"); got != "summary_sam_carter.pdf" {
		t.Errorf("file name = %q", got)
	}

	m.Candidate.FullName = "  "
	if got := summaryFileName(m, "docx"); got != "summary_candidate.docx" {
		t.Errorf("file name = %q", got)
	}
}

func TestPDFRequiresLicense(t *testing.T) {
	g, err := New(Config{OutputDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if g.PDFEnabled() {
		t.Error("pdf must be disabled without a license key")
	}

	m, j := sampleMatch()
	if _, err := g.SummaryPDF(m, j); err == nil {
		t.Error("expected error without a license key")
	}
}

func TestDOCXRequiresTemplate(t *testing.T) {
	g, err := New(Config{OutputDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	m, j := sampleMatch()
	if _, err := g.SummaryDOCX(m, j); err == nil {
		t.Error("expected error without a template")
	}
}
