package mailer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Status of one delivery attempt as recorded in the log.
type Status string

const (
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Entry is one line of the email log.
type Entry struct {
	Timestamp     string `json:"timestamp"`
	CandidateName string `json:"candidate_name"`
	Recipient     string `json:"candidate_email,omitempty"`
	JobTitle      string `json:"job_title,omitempty"`
	Subject       string `json:"subject"`
	Status        Status `json:"status"`
}

// Log collects delivery attempts and persists them as a JSON array. The file
// is append-only in behavior: existing entries are loaded on open and every
// flush rewrites the full set plus the new ones.
type Log struct {
	path    string
	entries []Entry
}

// OpenLog loads an existing log file or starts an empty one. A corrupt log
// file is an error, not silently discarded history.
func OpenLog(path string) (*Log, error) {
	l := &Log{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read email log: %w", err)
	}
	if len(data) == 0 {
		return l, nil
	}
	if err := json.Unmarshal(data, &l.entries); err != nil {
		return nil, fmt.Errorf("parse email log %s: %w", path, err)
	}
	return l, nil
}

func (l *Log) Append(e Entry) {
	l.entries = append(l.entries, e)
}

func (l *Log) Entries() []Entry {
	return l.entries
}

// Flush writes the accumulated entries to disk.
func (l *Log) Flush() error {
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(l.entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(l.path, data, 0o644)
}

func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
