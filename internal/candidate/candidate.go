// Package candidate holds the contact records the pipeline matches against
// jobs, and the loader for LinkedIn connection exports.
package candidate

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Candidate is a single contact. ProfileURL is the unique key used for
// deduplication everywhere.
type Candidate struct {
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	FullName    string   `json:"full_name"`
	ProfileURL  string   `json:"linkedin_url"`
	Email       string   `json:"email,omitempty"`
	Company     string   `json:"company,omitempty"`
	Position    string   `json:"position,omitempty"`
	ConnectedOn string   `json:"connected_on,omitempty"`
	Location    string   `json:"location,omitempty"`
	Skills      []string `json:"skills,omitempty"`
	Summary     string   `json:"experience_summary,omitempty"`
}

// ProfileText is the free text the scorer searches for job skills: the
// current position and company, plus any enriched skills.
func (c *Candidate) ProfileText() string {
	parts := []string{c.Position, c.Company}
	parts = append(parts, c.Skills...)
	return strings.ToLower(strings.TrimSpace(strings.Join(parts, " ")))
}

// HasEmail reports whether the candidate carries a usable email address.
// Exports frequently contain "Not Available" style placeholders.
func (c *Candidate) HasEmail() bool {
	email := strings.ToLower(strings.TrimSpace(c.Email))
	switch email {
	case "", "not available", "n/a":
		return false
	}
	return true
}

// Candidates is an ordered collection of candidates.
type Candidates struct {
	Items []*Candidate
}

func (c *Candidates) Len() int {
	return len(c.Items)
}

func (c *Candidates) FindByURL(url string) *Candidate {
	for _, candidate := range c.Items {
		if candidate.ProfileURL == url {
			return candidate
		}
	}
	return nil
}

// WithoutEmail returns the full names of candidates lacking an email address.
func (c *Candidates) WithoutEmail() []string {
	var names []string
	for _, candidate := range c.Items {
		if !candidate.HasEmail() {
			names = append(names, candidate.FullName)
		}
	}
	return names
}

// DumpToTmpFile writes the collection as indented JSON to a temp file and
// returns its name.
func (c *Candidates) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "candidates_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ReportByCompany groups candidates by their current company.
func (c *Candidates) ReportByCompany() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, candidate := range c.Items {
		key := candidate.Company
		if key == "" {
			key = "(no company)"
		}
		report[key] = append(report[key], map[string]string{
			"name":     candidate.FullName,
			"position": candidate.Position,
			"url":      candidate.ProfileURL,
			"email":    candidate.Email,
		})
	}
	return report
}

func (c *Candidate) String() string {
	return fmt.Sprintf("%s (%s at %s)", c.FullName, c.Position, c.Company)
}
