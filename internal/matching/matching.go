// Package matching scores candidates against jobs and builds ranked
// shortlists.
//
// Two scoring modes exist. The blended mode combines the fraction of job
// skills found in the candidate's profile text (weight 0.7) with the Jaccard
// similarity of the stop-word-filtered title tokens (weight 0.3). The
// weighted mode counts required skills at 1.0 and preferred skills at 0.5,
// normalizes by the maximum attainable sum and adds a flat 0.2 bonus when the
// titles share at least one token. Either way the score is clamped to [0,1].
package matching

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hrkit/talentscout/internal/candidate"
	"github.com/hrkit/talentscout/internal/job"
	"github.com/hrkit/talentscout/internal/skills"
)

type Mode string

const (
	ModeBlended  Mode = "blended"
	ModeWeighted Mode = "weighted"
)

const (
	skillWeight = 0.7
	titleWeight = 0.3

	requiredWeight  = 1.0
	preferredWeight = 0.5
	titleBonus      = 0.2

	// DefaultThreshold is the minimum score for a shortlist entry in the
	// blended mode. WeightedThreshold is the stricter historical default of
	// the weighted mode.
	DefaultThreshold  = 0.1
	WeightedThreshold = 0.3
)

// titleStopWords are filler tokens ignored by title similarity.
var titleStopWords = map[string]bool{
	"the": true, "and": true, "or": true, "of": true, "in": true,
	"at": true, "to": true, "for": true, "with": true, "by": true,
	"a": true, "an": true,
}

// Match is the scored pairing of one candidate with one job.
type Match struct {
	Candidate     *candidate.Candidate `json:"candidate"`
	Score         float64              `json:"score"`
	MatchedSkills []string             `json:"matched_skills"`
	IsMatch       bool                 `json:"is_match"`
	JobTitle      string               `json:"job_title"`
}

// Scorer computes match scores with a fixed mode and threshold.
type Scorer struct {
	mode      Mode
	threshold float64
}

// NewScorer builds a scorer. A non-positive threshold selects the mode's
// default.
func NewScorer(mode Mode, threshold float64) (*Scorer, error) {
	switch mode {
	case "":
		mode = ModeBlended
	case ModeBlended, ModeWeighted:
	default:
		return nil, fmt.Errorf("unknown scoring mode: %s", mode)
	}

	if threshold <= 0 {
		threshold = DefaultThreshold
		if mode == ModeWeighted {
			threshold = WeightedThreshold
		}
	}

	return &Scorer{mode: mode, threshold: threshold}, nil
}

// Threshold returns the minimum score for IsMatch.
func (s *Scorer) Threshold() float64 {
	return s.threshold
}

// Score computes the match between one candidate and one job. It never
// fails: missing skills or empty titles degrade to lower scores.
func (s *Scorer) Score(c *candidate.Candidate, j *job.Job) *Match {
	profile := c.ProfileText()

	var score float64
	var matched []string
	switch s.mode {
	case ModeWeighted:
		score, matched = weightedScore(profile, c.Position, j)
	default:
		score, matched = blendedScore(profile, c.Position, j)
	}

	score = clamp(score)

	return &Match{
		Candidate:     c,
		Score:         score,
		MatchedSkills: matched,
		IsMatch:       score >= s.threshold,
		JobTitle:      j.Title,
	}
}

// Shortlist scores every candidate against the job, keeps those at or above
// the threshold, ranks them by score descending and truncates to topN
// (non-positive topN keeps everything). Equal scores keep their input order:
// the sort is stable, so the tie-break is the CSV row order.
func (s *Scorer) Shortlist(candidates *candidate.Candidates, j *job.Job, topN int) []*Match {
	matches := make([]*Match, 0, candidates.Len())
	for _, c := range candidates.Items {
		m := s.Score(c, j)
		if m.IsMatch {
			matches = append(matches, m)
		}
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Score > matches[b].Score
	})

	if topN > 0 && len(matches) > topN {
		matches = matches[:topN]
	}
	return matches
}

func blendedScore(profile, position string, j *job.Job) (float64, []string) {
	jobSkills := j.AllSkills()
	matched := matchedSkills(profile, jobSkills)

	var score float64
	if len(jobSkills) > 0 {
		score += float64(len(matched)) / float64(len(jobSkills)) * skillWeight
	}

	score += TitleSimilarity(position, j.Title) * titleWeight
	return score, matched
}

func weightedScore(profile, position string, j *job.Job) (float64, []string) {
	var points float64
	var matched []string

	for _, skill := range j.SkillsRequired {
		if skills.Contains(profile, skill) {
			points += requiredWeight
			matched = append(matched, skill)
		}
	}
	for _, skill := range j.SkillsPreferred {
		if skills.Contains(profile, skill) {
			points += preferredWeight
			matched = append(matched, skill)
		}
	}

	max := float64(len(j.SkillsRequired))*requiredWeight + float64(len(j.SkillsPreferred))*preferredWeight

	var score float64
	if max > 0 {
		score = points / max
	}

	if titleOverlap(position, j.Title) > 0 {
		score += titleBonus
	}
	return score, matched
}

func matchedSkills(profile string, jobSkills []string) []string {
	var matched []string
	for _, skill := range jobSkills {
		if skills.Contains(profile, skill) {
			matched = append(matched, skill)
		}
	}
	return matched
}

// TitleSimilarity returns the Jaccard similarity of the two titles'
// stop-word-filtered token sets.
func TitleSimilarity(candidateTitle, jobTitle string) float64 {
	a := titleTokens(candidateTitle)
	b := titleTokens(jobTitle)
	if len(b) == 0 {
		return 0
	}

	intersection := 0
	union := len(b)
	for token := range a {
		if b[token] {
			intersection++
		} else {
			union++
		}
	}

	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func titleOverlap(candidateTitle, jobTitle string) int {
	a := titleTokens(candidateTitle)
	b := titleTokens(jobTitle)

	overlap := 0
	for token := range a {
		if b[token] {
			overlap++
		}
	}
	return overlap
}

func titleTokens(title string) map[string]bool {
	tokens := make(map[string]bool)
	for _, token := range strings.Fields(strings.ToLower(title)) {
		if !titleStopWords[token] {
			tokens[token] = true
		}
	}
	return tokens
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
