package store

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/hrkit/talentscout/internal/candidate"
	"github.com/hrkit/talentscout/internal/job"
	"github.com/hrkit/talentscout/internal/matching"
	"github.com/hrkit/talentscout/internal/outreach"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "talentscout.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleCandidates() []*candidate.Candidate {
	return []*candidate.Candidate{
		{
			FirstName:  "Sam",
			LastName:   "Carter",
			FullName:   "Sam Carter",
			ProfileURL: "https://www.linkedin.com/in/sam-carter",
			Email:      "sam@example.com",
			Company:    "Initech",
			Position:   "Senior Python Developer",
			Skills:     []string{"python", "aws"},
		},
		{
			FirstName:  "Alex",
			LastName:   "Doe",
			FullName:   "Alex Doe",
			ProfileURL: "https://www.linkedin.com/in/alex-doe",
			Position:   "Data Engineer",
		},
	}
}

func TestUpsertCandidateIdempotent(t *testing.T) {
	s := openTestStore(t)
	c := sampleCandidates()[0]

	id1, inserted, err := s.UpsertCandidate(c)
	if err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if !inserted {
		t.Error("first upsert must insert")
	}

	id2, inserted, err := s.UpsertCandidate(c)
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if inserted {
		t.Error("duplicate URL must not insert")
	}
	if id1 != id2 {
		t.Errorf("duplicate upsert returned id %d, want existing id %d", id2, id1)
	}

	n, err := s.CandidateCount()
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("candidate count = %d, want 1", n)
	}
}

func TestUpsertCandidateRequiresURL(t *testing.T) {
	s := openTestStore(t)
	if _, _, err := s.UpsertCandidate(&candidate.Candidate{FullName: "No URL"}); err == nil {
		t.Fatal("expected error for candidate without profile URL")
	}
}

func TestImportCandidatesTwice(t *testing.T) {
	s := openTestStore(t)
	batch := sampleCandidates()

	imported, skipped, err := s.ImportCandidates(batch)
	if err != nil {
		t.Fatalf("first import failed: %v", err)
	}
	if imported != 2 || skipped != 0 {
		t.Errorf("first import = %d/%d, want 2/0", imported, skipped)
	}

	imported, skipped, err = s.ImportCandidates(batch)
	if err != nil {
		t.Fatalf("second import failed: %v", err)
	}
	if imported != 0 || skipped != 2 {
		t.Errorf("second import = %d/%d, want 0/2", imported, skipped)
	}

	n, _ := s.CandidateCount()
	if n != 2 {
		t.Errorf("candidate count = %d, want 2", n)
	}
}

func TestListCandidatesRoundTrip(t *testing.T) {
	s := openTestStore(t)
	want := sampleCandidates()[0]
	if _, _, err := s.UpsertCandidate(want); err != nil {
		t.Fatal(err)
	}

	got, err := s.ListCandidates()
	if err != nil {
		t.Fatalf("ListCandidates failed: %v", err)
	}
	if got.Len() != 1 {
		t.Fatalf("got %d candidates", got.Len())
	}

	c := got.Items[0]
	if c.FullName != want.FullName || c.ProfileURL != want.ProfileURL || c.Email != want.Email {
		t.Errorf("round trip mismatch: %+v", c)
	}
	if !reflect.DeepEqual(c.Skills, want.Skills) {
		t.Errorf("skills = %v, want %v", c.Skills, want.Skills)
	}
}

func TestCandidatesMissingProfile(t *testing.T) {
	s := openTestStore(t)
	if _, _, err := s.ImportCandidates(sampleCandidates()); err != nil {
		t.Fatal(err)
	}

	missing, err := s.CandidatesMissingProfile()
	if err != nil {
		t.Fatalf("CandidatesMissingProfile failed: %v", err)
	}
	if missing.Len() != 1 || missing.Items[0].FullName != "Alex Doe" {
		t.Fatalf("missing = %v", missing.Items)
	}

	err = s.UpdateCandidateProfile(missing.Items[0].ProfileURL,
		[]string{"sql", "python"}, "Data engineer with pipeline experience")
	if err != nil {
		t.Fatalf("UpdateCandidateProfile failed: %v", err)
	}

	missing, err = s.CandidatesMissingProfile()
	if err != nil {
		t.Fatal(err)
	}
	if missing.Len() != 0 {
		t.Errorf("still missing after update: %v", missing.Items)
	}
}

func TestUpdateCandidateProfileUnknownURL(t *testing.T) {
	s := openTestStore(t)
	err := s.UpdateCandidateProfile("https://www.linkedin.com/in/nobody", nil, "x")
	if err == nil {
		t.Fatal("expected error for unknown profile URL")
	}
}

func TestSaveJobAndShortlist(t *testing.T) {
	s := openTestStore(t)

	jobID, err := s.SaveJob(&job.Job{
		Title:          "Python Developer",
		Company:        "Acme",
		SkillsRequired: []string{"python", "aws"},
	})
	if err != nil {
		t.Fatalf("SaveJob failed: %v", err)
	}

	matches := []*matching.Match{
		{
			Candidate:     sampleCandidates()[0],
			Score:         0.55,
			MatchedSkills: []string{"python"},
			IsMatch:       true,
			JobTitle:      "Python Developer",
		},
	}
	if err := s.SaveShortlist(jobID, matches); err != nil {
		t.Fatalf("SaveShortlist failed: %v", err)
	}

	n, err := s.ShortlistCount(jobID)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("shortlist count = %d, want 1", n)
	}

	// The shortlist upserts its candidates.
	cn, _ := s.CandidateCount()
	if cn != 1 {
		t.Errorf("candidate count = %d, want 1", cn)
	}
}

func TestLogOutreach(t *testing.T) {
	s := openTestStore(t)

	r := outreach.Record{
		ID:            "rec-1",
		CandidateName: "Sam Carter",
		Recipient:     "sam@example.com",
		ProfileURL:    "https://www.linkedin.com/in/sam-carter",
		JobTitle:      "Python Developer",
		Subject:       "Hello",
		Body:          "Body",
	}
	if err := s.LogOutreach(r, "sent"); err != nil {
		t.Fatalf("LogOutreach failed: %v", err)
	}

	n, err := s.OutreachCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("outreach count = %d, want 1", n)
	}

	// Record ids are primary keys; replaying the same record is an error.
	if err := s.LogOutreach(r, "sent"); err == nil {
		t.Error("expected error for duplicate outreach id")
	}
}
