// Package report writes shortlist results to JSON and CSV and produces the
// end-of-run pipeline summary.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/hrkit/talentscout/internal/matching"
)

// Shortlists maps a job title to its ranked matches. This is the shape of
// shortlists.json and the input to bulk email sending.
type Shortlists map[string][]*matching.Match

// WriteJSON serializes the shortlists, creating parent directories as needed.
func (s Shortlists) WriteJSON(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal shortlists: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON loads a shortlists file written by WriteJSON.
func ReadJSON(path string) (Shortlists, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Shortlists
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse shortlists %s: %w", path, err)
	}
	return s, nil
}

var csvHeader = []string{
	"job_title", "score", "is_match", "matched_skills",
	"full_name", "email", "linkedin_url", "company", "position", "location",
}

// WriteCSV flattens every match into one row per candidate. Jobs appear in
// sorted-by-title order so the export is stable across runs.
func (s Shortlists) WriteCSV(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, title := range s.sortedTitles() {
		for _, m := range s[title] {
			c := m.Candidate
			row := []string{
				title,
				strconv.FormatFloat(m.Score, 'f', 4, 64),
				strconv.FormatBool(m.IsMatch),
				strings.Join(m.MatchedSkills, "; "),
				c.FullName,
				c.Email,
				c.ProfileURL,
				c.Company,
				c.Position,
				c.Location,
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

func (s Shortlists) sortedTitles() []string {
	titles := make([]string, 0, len(s))
	for t := range s {
		titles = append(titles, t)
	}
	sort.Strings(titles)
	return titles
}

// JobSummary is the per-job slice of the pipeline summary.
type JobSummary struct {
	JobTitle     string  `json:"job_title"`
	Candidates   int     `json:"candidates_considered"`
	Shortlisted  int     `json:"shortlisted"`
	WithEmail    int     `json:"with_email"`
	TopScore     float64 `json:"top_score"`
	EmailsSent   int     `json:"emails_sent"`
	EmailsFailed int     `json:"emails_failed"`
}

// Summary is the end-of-run pipeline report printed and optionally written
// next to the shortlists.
type Summary struct {
	TotalCandidates int          `json:"total_candidates"`
	Jobs            []JobSummary `json:"jobs"`
}

// BuildSummary derives the per-job counts from the shortlists. Delivery
// counts are filled in by the caller after sending.
func BuildSummary(totalCandidates int, s Shortlists) *Summary {
	out := &Summary{TotalCandidates: totalCandidates}
	for _, title := range s.sortedTitles() {
		matches := s[title]
		js := JobSummary{JobTitle: title, Candidates: totalCandidates}
		for _, m := range matches {
			js.Shortlisted++
			if m.Candidate.HasEmail() {
				js.WithEmail++
			}
			if m.Score > js.TopScore {
				js.TopScore = m.Score
			}
		}
		out.Jobs = append(out.Jobs, js)
	}
	return out
}

// RecordDelivery fills the delivery counts for one job after a send.
func (s *Summary) RecordDelivery(jobTitle string, sent, failed int) {
	for i := range s.Jobs {
		if s.Jobs[i].JobTitle == jobTitle {
			s.Jobs[i].EmailsSent = sent
			s.Jobs[i].EmailsFailed = failed
			return
		}
	}
}

// String renders the summary for terminal output.
func (s *Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pipeline summary: %d candidates considered\n", s.TotalCandidates)
	for _, j := range s.Jobs {
		fmt.Fprintf(&b, "  %s: %d shortlisted (%d with email, top score %.2f)",
			j.JobTitle, j.Shortlisted, j.WithEmail, j.TopScore)
		if j.EmailsSent > 0 || j.EmailsFailed > 0 {
			fmt.Fprintf(&b, ", emails sent %d / failed %d", j.EmailsSent, j.EmailsFailed)
		}
		b.WriteString("\n")
	}
	return b.String()
}
