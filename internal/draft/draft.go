// Package draft produces AI-written job descriptions and skill lists.
//
// Providers are tried in order, Gemini before Ollama when both are
// configured, and every output is tagged with its provenance so callers can
// tell a generated draft from the static fallback.
package draft

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/hrkit/talentscout/internal/ai"
	"github.com/hrkit/talentscout/internal/ai/gemini"
	"github.com/hrkit/talentscout/internal/job"
	"github.com/hrkit/talentscout/internal/logger"
)

// Request describes the position to draft content for. Title is the only
// field required by the prompts.
type Request struct {
	Title           string
	Company         string
	ExperienceLevel string
	EmploymentType  string
	Location        string
	Department      string
}

func (r Request) location() string {
	if r.Location == "" {
		return "Remote/Flexible"
	}
	return r.Location
}

func (r Request) department() string {
	if r.Department == "" {
		return "General"
	}
	return r.Department
}

// Drafter runs a provider chain and assembles complete job drafts.
type Drafter struct {
	providers []ai.Generator
	maxLogLen int
	logger    *zap.Logger
}

const defaultMaxLogLength = 200

// New builds a drafter over the given providers. Nil entries are skipped so
// callers can pass an unconfigured provider slot directly. maxLogLength
// caps the prompt and response previews in debug logs.
func New(lg *zap.Logger, maxLogLength int, providers ...ai.Generator) *Drafter {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	d := &Drafter{maxLogLen: maxLogLength, logger: lg}
	for _, p := range providers {
		if p != nil {
			d.providers = append(d.providers, p)
		}
	}
	return d
}

const descriptionPrompt = `Generate a comprehensive job description for the following position:

Job Title: %s
Company: %s
Experience Level: %s
Employment Type: %s
Location: %s
Department: %s

Please create a detailed job description that includes:
1. A compelling overview of the role
2. Key responsibilities and duties (4-6 bullet points)
3. What the candidate will be working on
4. Team collaboration aspects
5. Growth opportunities

Make it professional, engaging, and specific to the role. Focus on what makes this position attractive to potential candidates.

Format the response as a well-structured job description without any markdown formatting.`

const skillsPrompt = `Generate skills for the following position:

Job Title: %s
Experience Level: %s
Department: %s

Please provide two lists:

1. REQUIRED SKILLS (5-8 essential skills):
List the core technical and professional skills that are absolutely necessary for this role.

2. PREFERRED SKILLS (4-6 nice-to-have skills):
List additional skills that would be beneficial but not mandatory.

Focus on:
- Technical skills specific to the role
- Relevant tools and technologies
- Soft skills important for the position
- Industry-specific knowledge

Format your response as:
REQUIRED:
- Skill 1
- Skill 2

PREFERRED:
- Skill 1
- Skill 2

Provide only the skills lists without additional commentary.`

// Description drafts a job description. When every provider fails the result
// carries a static description and the fallback tag; the method itself never
// fails.
func (d *Drafter) Description(ctx context.Context, req Request) ai.Result {
	prompt := fmt.Sprintf(descriptionPrompt,
		req.Title, req.Company, req.ExperienceLevel, req.EmploymentType,
		req.location(), req.department())

	res := d.generate(ctx, prompt)
	if res.Outcome == ai.OutcomeFallback {
		res.Text = staticDescription(req)
	}
	return res
}

// Skills drafts the required and preferred skill lists. The returned result
// keeps the raw provider text and the provenance tag.
func (d *Drafter) Skills(ctx context.Context, req Request) (required, preferred []string, res ai.Result) {
	prompt := fmt.Sprintf(skillsPrompt, req.Title, req.ExperienceLevel, req.department())

	res = d.generate(ctx, prompt)
	if res.Outcome == ai.OutcomeFallback {
		required, preferred = staticSkills()
		res.Text = formatSkills(required, preferred)
		return required, preferred, res
	}

	required, preferred = ParseSkills(gemini.StripFences(res.Text))
	if len(required) == 0 && len(preferred) == 0 {
		// The provider answered but not in the expected shape.
		res.Outcome = ai.OutcomeFallback
		res.Err = fmt.Errorf("no skill bullets found in %s response", res.Provider)
		required, preferred = staticSkills()
		res.Text = formatSkills(required, preferred)
	}
	return required, preferred, res
}

// Draft produces a complete job definition for the request, combining the
// description and skills drafts. The weakest provenance of the two parts is
// reported.
func (d *Drafter) Draft(ctx context.Context, req Request) (*job.Job, ai.Result) {
	desc := d.Description(ctx, req)
	required, preferred, sk := d.Skills(ctx, req)

	combined := desc
	if sk.Outcome == ai.OutcomeFallback {
		combined.Outcome = ai.OutcomeFallback
		if combined.Err == nil {
			combined.Err = sk.Err
		}
	}

	return &job.Job{
		Title:           req.Title,
		Company:         req.Company,
		Department:      req.Department,
		Location:        req.Location,
		ExperienceLevel: req.ExperienceLevel,
		EmploymentType:  req.EmploymentType,
		Description:     desc.Text,
		SkillsRequired:  required,
		SkillsPreferred: preferred,
	}, combined
}

func (d *Drafter) generate(ctx context.Context, prompt string) ai.Result {
	if d.logger != nil {
		d.logger.Debug("draft generate content request",
			zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
			zap.String("prompt_preview", logger.TruncateForLog(prompt, d.maxLogLen)),
		)
	}

	var lastErr error
	for _, p := range d.providers {
		text, err := p.GenerateContent(ctx, prompt)
		if err != nil {
			lastErr = err
			if d.logger != nil {
				d.logger.Warn("AI provider failed, trying the next one",
					zap.String("provider", p.Provider()),
					zap.Error(err),
				)
			}
			continue
		}
		if d.logger != nil {
			d.logger.Debug("draft generate content response",
				zap.String("provider", p.Provider()),
				zap.Int("response_length", utf8.RuneCountInString(text)),
				zap.String("response_preview", logger.TruncateForLog(text, d.maxLogLen)),
			)
		}
		return ai.Result{Text: text, Outcome: ai.OutcomeGenerated, Provider: p.Provider()}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no AI providers configured")
	}
	return ai.Result{Outcome: ai.OutcomeFallback, Provider: "static", Err: lastErr}
}

// ParseSkills splits a REQUIRED/PREFERRED bullet response into two lists.
// Lines outside either section and non-bullet lines are ignored.
func ParseSkills(content string) (required, preferred []string) {
	section := ""
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		upper := strings.ToUpper(line)
		switch {
		case strings.Contains(upper, "REQUIRED"):
			section = "required"
			continue
		case strings.Contains(upper, "PREFERRED"):
			section = "preferred"
			continue
		}

		skill, ok := strings.CutPrefix(line, "-")
		if !ok {
			skill, ok = strings.CutPrefix(line, "•")
		}
		if !ok {
			continue
		}
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}

		switch section {
		case "required":
			required = append(required, skill)
		case "preferred":
			preferred = append(preferred, skill)
		}
	}
	return required, preferred
}

func staticDescription(req Request) string {
	level := req.ExperienceLevel
	if level == "" {
		level = "experienced"
	}
	company := req.Company
	if company == "" {
		company = "our company"
	}

	return fmt.Sprintf(`We are looking for a %s %s to join %s.

Key responsibilities:
- Design, build and maintain the systems the team owns
- Collaborate with engineers, product managers and stakeholders
- Review code and share knowledge across the team
- Contribute to planning and continuous improvement of the development process

What we offer:
- Interesting technical challenges and room to grow
- A supportive, collaborative team
- %s position based in %s`,
		level, req.Title, company, req.EmploymentType, req.location())
}

func staticSkills() (required, preferred []string) {
	required = []string{
		"Strong programming fundamentals",
		"Problem solving",
		"Communication",
		"Version control with Git",
		"Testing and code review practices",
	}
	preferred = []string{
		"Cloud platform experience",
		"CI/CD pipelines",
		"Agile methodologies",
		"Mentoring experience",
	}
	return required, preferred
}

func formatSkills(required, preferred []string) string {
	var b strings.Builder
	b.WriteString("REQUIRED:\n")
	for _, s := range required {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	b.WriteString("\nPREFERRED:\n")
	for _, s := range preferred {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	return b.String()
}
