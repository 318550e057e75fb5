package candidate

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

const sampleCSV = `First Name,Last Name,URL,Email Address,Company,Position,Connected On
John,Smith,https://www.linkedin.com/in/johnsmith,john.smith@email.com,Acme,Senior Python Developer,12 Jan 2024
Sarah,Johnson,https://www.linkedin.com/in/sarahjohnson,,Globex,Frontend Engineer,03 Feb 2024
,,,,,,
NoURL,Person,,nourl@email.com,Initech,Manager,01 Mar 2024
,OnlyLast,https://www.linkedin.com/in/onlylast,,Acme,Engineer,01 Mar 2024
`

func TestParseCSVSkipRules(t *testing.T) {
	result, err := parseCSV(strings.NewReader(sampleCSV), zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Candidates.Len() != 2 {
		t.Fatalf("expected 2 candidates, got %d", result.Candidates.Len())
	}
	if result.Skipped != 3 {
		t.Fatalf("expected 3 skipped rows, got %d", result.Skipped)
	}

	john := result.Candidates.FindByURL("https://www.linkedin.com/in/johnsmith")
	if john == nil {
		t.Fatalf("expected to find johnsmith by URL")
	}
	if john.FullName != "John Smith" {
		t.Fatalf("unexpected full name: %q", john.FullName)
	}
	if john.Position != "Senior Python Developer" {
		t.Fatalf("unexpected position: %q", john.Position)
	}
}

func TestParseCSVEmptyFile(t *testing.T) {
	result, err := parseCSV(strings.NewReader(""), zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Candidates.Len() != 0 || result.Skipped != 0 {
		t.Fatalf("expected empty result, got %d candidates %d skipped", result.Candidates.Len(), result.Skipped)
	}
}

func TestParseCSVShortRows(t *testing.T) {
	csvData := "First Name,Last Name,URL,Email Address,Company,Position,Connected On\n" +
		"Tiny,Row,https://www.linkedin.com/in/tinyrow\n"

	result, err := parseCSV(strings.NewReader(csvData), zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Candidates.Len() != 1 {
		t.Fatalf("expected short row to load, got %d candidates", result.Candidates.Len())
	}
	c := result.Candidates.Items[0]
	if c.Email != "" || c.Company != "" {
		t.Fatalf("expected missing columns to stay empty, got %+v", c)
	}
}

func TestHasEmail(t *testing.T) {
	cases := []struct {
		email string
		want  bool
	}{
		{"john@email.com", true},
		{"", false},
		{"  ", false},
		{"Not Available", false},
		{"N/A", false},
	}

	for _, tc := range cases {
		c := &Candidate{Email: tc.email}
		if got := c.HasEmail(); got != tc.want {
			t.Fatalf("HasEmail(%q) = %v, want %v", tc.email, got, tc.want)
		}
	}
}

func TestProfileText(t *testing.T) {
	c := &Candidate{
		Position: "Senior Python Developer",
		Company:  "Acme",
		Skills:   []string{"Docker"},
	}
	got := c.ProfileText()
	want := "senior python developer acme docker"
	if got != want {
		t.Fatalf("ProfileText() = %q, want %q", got, want)
	}
}

func TestWithoutEmail(t *testing.T) {
	candidates := &Candidates{Items: []*Candidate{
		{FullName: "John Smith", Email: "john@email.com"},
		{FullName: "Sarah Johnson"},
	}}

	names := candidates.WithoutEmail()
	if len(names) != 1 || names[0] != "Sarah Johnson" {
		t.Fatalf("unexpected names: %v", names)
	}
}
