package outreach

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/hrkit/talentscout/internal/ai"
	"github.com/hrkit/talentscout/internal/candidate"
	"github.com/hrkit/talentscout/internal/job"
	"github.com/hrkit/talentscout/internal/logger"
	"github.com/hrkit/talentscout/internal/matching"
)

// Company is the sender identity substituted into every template.
type Company struct {
	Name         string `mapstructure:"name"`
	Website      string `mapstructure:"website"`
	SenderName   string `mapstructure:"sender-name"`
	ContactEmail string `mapstructure:"contact-email"`
	ContactPhone string `mapstructure:"contact-phone"`
}

// Composer drafts one outreach email per matched candidate. With a generator
// configured it asks the AI first and falls back to the template on any
// failure; without one it renders the template directly.
type Composer struct {
	template  Template
	company   Company
	generator ai.Generator
	maxLogLen int
	logger    *zap.Logger
}

const defaultMaxLogLength = 200

// NewComposer builds a composer for the given template name. Generator may
// be nil, which disables the AI path entirely. maxLogLength caps the
// prompt and response previews in debug logs.
func NewComposer(templateName string, company Company, generator ai.Generator, maxLogLength int, lg *zap.Logger) (*Composer, error) {
	t, err := Lookup(templateName)
	if err != nil {
		return nil, err
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	return &Composer{
		template:  t,
		company:   company,
		generator: generator,
		maxLogLen: maxLogLength,
		logger:    lg,
	}, nil
}

const composePrompt = `Generate a professional, personalized recruitment email for the following candidate and job:

Candidate:
- Name: %s
- Current position: %s at %s
- Location: %s
- Matched skills: %s
- Summary: %s

Job:
- Title: %s
- Company: %s
- Required skills: %s

Requirements:
1. Keep it concise (under 200 words)
2. Mention specific skills that match
3. Be professional but friendly
4. Include a clear call-to-action
5. Don't be overly salesy
6. Personalize based on the candidate's background

Sign off as %s from the %s Talent Acquisition Team.
Return only the email content without a subject line.`

// Compose renders the outreach email for one match. The returned result tags
// whether the body came from the AI or the template; the subject always
// comes from the template so threading stays consistent across a campaign.
func (c *Composer) Compose(ctx context.Context, m *matching.Match, j *job.Job) (Message, ai.Result, error) {
	msg, err := Render(c.template, c.buildVars(m.Candidate, m, j))
	if err != nil {
		return Message{}, ai.Result{}, err
	}

	if c.generator == nil {
		return msg, ai.Result{Text: msg.Body, Outcome: ai.OutcomeFallback, Provider: "template"}, nil
	}

	prompt := c.buildPrompt(m, j)
	if c.logger != nil {
		c.logger.Debug("outreach draft request",
			zap.String("candidate", m.Candidate.FullName),
			zap.String("provider", c.generator.Provider()),
			zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
			zap.String("prompt_preview", logger.TruncateForLog(prompt, c.maxLogLen)),
		)
	}

	body, genErr := c.generator.GenerateContent(ctx, prompt)
	if genErr != nil || strings.TrimSpace(body) == "" {
		if genErr == nil {
			genErr = fmt.Errorf("%s returned empty outreach body", c.generator.Provider())
		}
		if c.logger != nil {
			c.logger.Warn("AI outreach draft failed, using the template",
				zap.String("candidate", m.Candidate.FullName),
				zap.Error(genErr),
			)
		}
		return msg, ai.Result{Text: msg.Body, Outcome: ai.OutcomeFallback, Provider: "template", Err: genErr}, nil
	}

	if c.logger != nil {
		c.logger.Debug("outreach draft response",
			zap.String("candidate", m.Candidate.FullName),
			zap.Int("response_length", utf8.RuneCountInString(body)),
			zap.String("response_preview", logger.TruncateForLog(body, c.maxLogLen)),
		)
	}

	msg.Body = strings.TrimSpace(body)
	return msg, ai.Result{Text: msg.Body, Outcome: ai.OutcomeGenerated, Provider: c.generator.Provider()}, nil
}

// Preview renders the template path only, never touching the AI.
func (c *Composer) Preview(m *matching.Match, j *job.Job) (Message, error) {
	return Render(c.template, c.buildVars(m.Candidate, m, j))
}

func (c *Composer) buildVars(cand *candidate.Candidate, m *matching.Match, j *job.Job) Vars {
	skills := m.MatchedSkills
	if len(skills) == 0 {
		skills = cand.Skills
	}
	return Vars{
		"candidate_name":   cand.FullName,
		"current_position": cand.Position,
		"company_name":     c.company.Name,
		"company_website":  c.company.Website,
		"sender_name":      c.company.SenderName,
		"hr_contact_email": c.company.ContactEmail,
		"hr_contact_phone": c.company.ContactPhone,
		"job_title":        j.Title,
		"skills":           strings.Join(skills, ", "),
	}
}

func (c *Composer) buildPrompt(m *matching.Match, j *job.Job) string {
	cand := m.Candidate
	return fmt.Sprintf(composePrompt,
		cand.FullName,
		cand.Position, cand.Company,
		cand.Location,
		strings.Join(m.MatchedSkills, ", "),
		cand.Summary,
		j.Title,
		c.company.Name,
		strings.Join(j.SkillsRequired, ", "),
		c.company.SenderName, c.company.Name,
	)
}
