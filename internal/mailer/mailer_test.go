package mailer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hrkit/talentscout/internal/outreach"
)

type stubSender struct {
	sent    []string
	failFor map[string]error
}

func (s *stubSender) Send(_ context.Context, to, _, _ string) error {
	if err, ok := s.failFor[to]; ok {
		return err
	}
	s.sent = append(s.sent, to)
	return nil
}

func campaign() []outreach.Record {
	return []outreach.Record{
		{ID: "1", CandidateName: "Sam Carter", Recipient: "sam@example.com", JobTitle: "Python Developer", Subject: "Hi", Body: "b"},
		{ID: "2", CandidateName: "Alex Doe", Recipient: "", JobTitle: "Python Developer", Subject: "Hi", Body: "b"},
		{ID: "3", CandidateName: "Kim Park", Recipient: "N/A", JobTitle: "Python Developer", Subject: "Hi", Body: "b"},
		{ID: "4", CandidateName: "Lee Roy", Recipient: "lee@example.com", JobTitle: "Python Developer", Subject: "Hi", Body: "b"},
	}
}

func TestSendCampaign(t *testing.T) {
	sender := &stubSender{failFor: map[string]error{"lee@example.com": errors.New("mailbox full")}}
	m := New(sender, nil, nil)

	summary, err := m.SendCampaign(context.Background(), campaign())
	if err != nil {
		t.Fatalf("SendCampaign failed: %v", err)
	}

	if summary.Total != 4 {
		t.Errorf("total = %d, want 4", summary.Total)
	}
	if len(summary.Sent) != 1 || summary.Sent[0].Recipient != "sam@example.com" {
		t.Errorf("sent = %+v", summary.Sent)
	}
	if len(summary.Failed) != 3 {
		t.Fatalf("failed = %+v", summary.Failed)
	}

	reasons := map[string]string{}
	for _, f := range summary.Failed {
		reasons[f.CandidateName] = f.Reason
	}
	if reasons["Alex Doe"] != "no email address" {
		t.Errorf("Alex Doe reason = %q", reasons["Alex Doe"])
	}
	if reasons["Kim Park"] != "no email address" {
		t.Errorf("Kim Park reason = %q", reasons["Kim Park"])
	}
	if reasons["Lee Roy"] != "mailbox full" {
		t.Errorf("Lee Roy reason = %q", reasons["Lee Roy"])
	}
}

func TestSendCampaignSameNameDistinctRecords(t *testing.T) {
	// Two shortlisted candidates may share a full name; the summary must
	// stay attributable per record, not per name.
	records := []outreach.Record{
		{ID: "a", CandidateName: "Sam Carter", Recipient: "sam.one@example.com", Subject: "Hi", Body: "b"},
		{ID: "b", CandidateName: "Sam Carter", Recipient: "sam.two@example.com", Subject: "Hi", Body: "b"},
	}
	sender := &stubSender{failFor: map[string]error{"sam.two@example.com": errors.New("mailbox full")}}
	m := New(sender, nil, nil)

	summary, err := m.SendCampaign(context.Background(), records)
	if err != nil {
		t.Fatalf("SendCampaign failed: %v", err)
	}

	if len(summary.Sent) != 1 || summary.Sent[0].RecordID != "a" {
		t.Fatalf("sent = %+v, want record a only", summary.Sent)
	}
	if len(summary.Failed) != 1 || summary.Failed[0].RecordID != "b" {
		t.Fatalf("failed = %+v, want record b only", summary.Failed)
	}
}

func TestSendCampaignWritesLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "email_log.json")
	log, err := OpenLog(path)
	if err != nil {
		t.Fatalf("OpenLog failed: %v", err)
	}

	sender := &stubSender{failFor: map[string]error{"lee@example.com": errors.New("mailbox full")}}
	m := New(sender, log, nil)

	if _, err := m.SendCampaign(context.Background(), campaign()); err != nil {
		t.Fatalf("SendCampaign failed: %v", err)
	}

	reopened, err := OpenLog(path)
	if err != nil {
		t.Fatalf("reopen log: %v", err)
	}
	entries := reopened.Entries()
	if len(entries) != 4 {
		t.Fatalf("got %d log entries, want 4", len(entries))
	}

	statuses := map[string]Status{}
	for _, e := range entries {
		if e.Timestamp == "" {
			t.Error("log entry missing timestamp")
		}
		statuses[e.CandidateName] = e.Status
	}
	if statuses["Sam Carter"] != StatusSent {
		t.Errorf("Sam Carter status = %q", statuses["Sam Carter"])
	}
	if statuses["Alex Doe"] != StatusSkipped {
		t.Errorf("Alex Doe status = %q", statuses["Alex Doe"])
	}
	if statuses["Lee Roy"] != StatusFailed {
		t.Errorf("Lee Roy status = %q", statuses["Lee Roy"])
	}
}

func TestLogAppendsAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "email_log.json")

	first, _ := OpenLog(path)
	first.Append(Entry{Timestamp: "2026-01-01T00:00:00Z", CandidateName: "a", Subject: "s", Status: StatusSent})
	if err := first.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	second, err := OpenLog(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	second.Append(Entry{Timestamp: "2026-01-02T00:00:00Z", CandidateName: "b", Subject: "s", Status: StatusFailed})
	if err := second.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	final, err := OpenLog(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := len(final.Entries()); got != 2 {
		t.Errorf("entries = %d, want 2", got)
	}
}

func TestOpenLogCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "email_log.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenLog(path); err == nil {
		t.Fatal("expected error for corrupt log file")
	}
}

func TestDeliverable(t *testing.T) {
	cases := []struct {
		email string
		want  bool
	}{
		{"sam@example.com", true},
		{"", false},
		{"   ", false},
		{"not available", false},
		{"Not Available", false},
		{"n/a", false},
	}
	for _, tc := range cases {
		if got := deliverable(tc.email); got != tc.want {
			t.Errorf("deliverable(%q) = %v, want %v", tc.email, got, tc.want)
		}
	}
}

func TestNewSMTPSenderValidation(t *testing.T) {
	if _, err := NewSMTPSender(Config{}); err == nil {
		t.Fatal("expected error for missing host")
	}

	s, err := NewSMTPSender(Config{Host: "smtp.example.com", Username: "hr@example.com", Password: "x"})
	if err != nil {
		t.Fatalf("NewSMTPSender failed: %v", err)
	}
	if s.from != "hr@example.com" {
		t.Errorf("from defaulted to %q, want username", s.from)
	}
}
