package outreach

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hrkit/talentscout/internal/ai"
	"github.com/hrkit/talentscout/internal/job"
	"github.com/hrkit/talentscout/internal/matching"
)

// Record is one drafted email in a campaign, ready for delivery. Records are
// append-only; delivery status lives in the outreach log, not here.
type Record struct {
	ID            string     `json:"id"`
	CandidateName string     `json:"candidate_name"`
	Recipient     string     `json:"recipient"`
	ProfileURL    string     `json:"linkedin_url"`
	JobTitle      string     `json:"job_title"`
	Score         float64    `json:"score"`
	Subject       string     `json:"subject"`
	Body          string     `json:"body"`
	Outcome       ai.Outcome `json:"outcome"`
	CreatedAt     time.Time  `json:"created_at"`
}

// BuildCampaign drafts one record per match. A failed template render aborts
// the whole campaign since every later render would fail the same way.
func BuildCampaign(ctx context.Context, composer *Composer, matches []*matching.Match, j *job.Job) ([]Record, error) {
	records := make([]Record, 0, len(matches))
	for _, m := range matches {
		msg, res, err := composer.Compose(ctx, m, j)
		if err != nil {
			return nil, err
		}
		records = append(records, Record{
			ID:            uuid.NewString(),
			CandidateName: m.Candidate.FullName,
			Recipient:     m.Candidate.Email,
			ProfileURL:    m.Candidate.ProfileURL,
			JobTitle:      j.Title,
			Score:         m.Score,
			Subject:       msg.Subject,
			Body:          msg.Body,
			Outcome:       res.Outcome,
			CreatedAt:     time.Now().UTC(),
		})
	}
	return records, nil
}
