// Package store mirrors candidates, jobs, shortlists and outreach history
// into a local SQLite database. Every operation commits on its own; the
// import path is idempotent per profile URL, so a crashed batch can simply
// be re-run.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/hrkit/talentscout/internal/candidate"
	"github.com/hrkit/talentscout/internal/job"
	"github.com/hrkit/talentscout/internal/matching"
	"github.com/hrkit/talentscout/internal/outreach"
)

const schema = `
CREATE TABLE IF NOT EXISTS candidates (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	first_name TEXT,
	last_name TEXT,
	full_name TEXT,
	linkedin_url TEXT UNIQUE,
	email TEXT,
	company TEXT,
	position TEXT,
	connected_on TEXT,
	location TEXT,
	skills TEXT,
	experience_summary TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS jobs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	company TEXT,
	department TEXT,
	location TEXT,
	experience_level TEXT,
	employment_type TEXT,
	description TEXT,
	skills_required TEXT,
	skills_preferred TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS shortlists (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	job_id INTEGER,
	candidate_id INTEGER,
	match_score REAL,
	matched_skills TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (job_id) REFERENCES jobs (id),
	FOREIGN KEY (candidate_id) REFERENCES candidates (id)
);

CREATE TABLE IF NOT EXISTS outreach_log (
	id TEXT PRIMARY KEY,
	candidate_url TEXT,
	candidate_name TEXT,
	recipient TEXT,
	job_title TEXT,
	subject TEXT,
	body TEXT,
	status TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// Store wraps the SQLite handle. It is not safe for concurrent writers;
// the tool runs single-process by design.
type Store struct {
	db *sql.DB
}

// Open creates the database file and schema if needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertCandidate inserts the candidate or, when the profile URL already
// exists, returns the existing row id. The second return reports whether a
// new row was created.
func (s *Store) UpsertCandidate(c *candidate.Candidate) (int64, bool, error) {
	if c.ProfileURL == "" {
		return 0, false, fmt.Errorf("candidate %q has no profile URL", c.FullName)
	}

	var existing int64
	err := s.db.QueryRow(
		`SELECT id FROM candidates WHERE linkedin_url = ?`, c.ProfileURL,
	).Scan(&existing)
	if err == nil {
		return existing, false, nil
	}
	if err != sql.ErrNoRows {
		return 0, false, err
	}

	res, err := s.db.Exec(`
		INSERT INTO candidates (
			first_name, last_name, full_name, linkedin_url, email,
			company, position, connected_on, location, skills, experience_summary
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.FirstName, c.LastName, c.FullName, c.ProfileURL, c.Email,
		c.Company, c.Position, c.ConnectedOn, c.Location,
		strings.Join(c.Skills, ", "), c.Summary,
	)
	if err != nil {
		return 0, false, fmt.Errorf("insert candidate %s: %w", c.ProfileURL, err)
	}
	id, err := res.LastInsertId()
	return id, true, err
}

// ImportCandidates upserts a batch, returning how many rows were new and how
// many were duplicates. Candidates without a URL are counted as skipped.
func (s *Store) ImportCandidates(candidates []*candidate.Candidate) (imported, skipped int, err error) {
	for _, c := range candidates {
		if c.ProfileURL == "" {
			skipped++
			continue
		}
		_, inserted, err := s.UpsertCandidate(c)
		if err != nil {
			return imported, skipped, err
		}
		if inserted {
			imported++
		} else {
			skipped++
		}
	}
	return imported, skipped, nil
}

// CandidateCount returns the number of stored candidates.
func (s *Store) CandidateCount() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM candidates`).Scan(&n)
	return n, err
}

func scanCandidate(rows *sql.Rows) (*candidate.Candidate, error) {
	var c candidate.Candidate
	var skills string
	if err := rows.Scan(
		&c.FirstName, &c.LastName, &c.FullName, &c.ProfileURL, &c.Email,
		&c.Company, &c.Position, &c.ConnectedOn, &c.Location, &skills, &c.Summary,
	); err != nil {
		return nil, err
	}
	if skills != "" {
		c.Skills = strings.Split(skills, ", ")
	}
	return &c, nil
}

const candidateColumns = `first_name, last_name, full_name, linkedin_url, email,
	company, position, connected_on, location, skills, experience_summary`

// ListCandidates returns all stored candidates in insertion order.
func (s *Store) ListCandidates() (*candidate.Candidates, error) {
	rows, err := s.db.Query(`SELECT ` + candidateColumns + ` FROM candidates ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := &candidate.Candidates{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, c)
	}
	return out, rows.Err()
}

// CandidatesMissingProfile returns candidates with neither stored skills nor
// an experience summary, the ones worth enriching.
func (s *Store) CandidatesMissingProfile() (*candidate.Candidates, error) {
	rows, err := s.db.Query(`SELECT ` + candidateColumns + ` FROM candidates
		WHERE (skills IS NULL OR skills = '')
		  AND (experience_summary IS NULL OR experience_summary = '')
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := &candidate.Candidates{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, c)
	}
	return out, rows.Err()
}

// UpdateCandidateProfile stores scraped skills and summary for the profile URL.
func (s *Store) UpdateCandidateProfile(profileURL string, skills []string, summary string) error {
	res, err := s.db.Exec(`
		UPDATE candidates
		SET skills = ?, experience_summary = ?, updated_at = CURRENT_TIMESTAMP
		WHERE linkedin_url = ?`,
		strings.Join(skills, ", "), summary, profileURL,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no candidate with profile URL %s", profileURL)
	}
	return nil
}

// SaveJob inserts the job and returns its row id. Jobs are not deduplicated;
// each run records the posting it matched against.
func (s *Store) SaveJob(j *job.Job) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO jobs (
			title, company, department, location, experience_level,
			employment_type, description, skills_required, skills_preferred
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.Title, j.Company, j.Department, j.Location, j.ExperienceLevel,
		j.EmploymentType, j.Description,
		strings.Join(j.SkillsRequired, ", "), strings.Join(j.SkillsPreferred, ", "),
	)
	if err != nil {
		return 0, fmt.Errorf("insert job %q: %w", j.Title, err)
	}
	return res.LastInsertId()
}

// SaveShortlist records the matches for one job. Candidates are upserted
// first so the shortlist rows always reference a stored candidate.
func (s *Store) SaveShortlist(jobID int64, matches []*matching.Match) error {
	for _, m := range matches {
		candidateID, _, err := s.UpsertCandidate(m.Candidate)
		if err != nil {
			return err
		}
		_, err = s.db.Exec(`
			INSERT INTO shortlists (job_id, candidate_id, match_score, matched_skills)
			VALUES (?, ?, ?, ?)`,
			jobID, candidateID, m.Score, strings.Join(m.MatchedSkills, ", "),
		)
		if err != nil {
			return fmt.Errorf("insert shortlist row for %s: %w", m.Candidate.ProfileURL, err)
		}
	}
	return nil
}

// ShortlistCount returns the number of shortlist rows for a job.
func (s *Store) ShortlistCount(jobID int64) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM shortlists WHERE job_id = ?`, jobID).Scan(&n)
	return n, err
}

// LogOutreach mirrors one drafted email and its delivery status.
func (s *Store) LogOutreach(r outreach.Record, status string) error {
	_, err := s.db.Exec(`
		INSERT INTO outreach_log (
			id, candidate_url, candidate_name, recipient, job_title, subject, body, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.ProfileURL, r.CandidateName, r.Recipient, r.JobTitle, r.Subject, r.Body, status,
	)
	if err != nil {
		return fmt.Errorf("insert outreach record %s: %w", r.ID, err)
	}
	return nil
}

// OutreachCount returns the number of logged outreach attempts.
func (s *Store) OutreachCount() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM outreach_log`).Scan(&n)
	return n, err
}
