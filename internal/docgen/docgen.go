// Package docgen renders candidate summary documents for sharing outside
// the tool, a PDF built from scratch and a DOCX filled from a placeholder
// template.
package docgen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyenthenguyen/docx"
	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/creator"
	"github.com/unidoc/unipdf/v3/model"

	"github.com/hrkit/talentscout/internal/job"
	"github.com/hrkit/talentscout/internal/matching"
)

// Config selects the output directory and the optional DOCX template. The
// PDF library requires a license key; without one PDF generation is
// disabled and only DOCX output is available.
type Config struct {
	OutputDir    string `mapstructure:"output-dir"`
	DocxTemplate string `mapstructure:"docx-template"`
	LicenseKey   string `mapstructure:"-"`
}

type Generator struct {
	cfg        Config
	pdfEnabled bool
}

func New(cfg Config) (*Generator, error) {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "documents"
	}

	g := &Generator{cfg: cfg}
	if cfg.LicenseKey != "" {
		if err := license.SetMeteredKey(cfg.LicenseKey); err != nil {
			return nil, fmt.Errorf("set pdf license key: %w", err)
		}
		g.pdfEnabled = true
	}
	return g, nil
}

// PDFEnabled reports whether a license key was configured.
func (g *Generator) PDFEnabled() bool {
	return g.pdfEnabled
}

func (g *Generator) ensureOutputDir() error {
	return os.MkdirAll(g.cfg.OutputDir, 0o755)
}

// SummaryPDF writes a one-page candidate summary and returns the file path.
func (g *Generator) SummaryPDF(m *matching.Match, j *job.Job) (string, error) {
	if !g.pdfEnabled {
		return "", fmt.Errorf("pdf generation requires a license key")
	}
	if err := g.ensureOutputDir(); err != nil {
		return "", err
	}

	regular, err := model.NewStandard14Font(model.HelveticaName)
	if err != nil {
		return "", err
	}
	bold, err := model.NewStandard14Font(model.HelveticaBoldName)
	if err != nil {
		return "", err
	}

	c := creator.New()
	c.SetPageMargins(50, 50, 50, 50)
	c.NewPage()

	title := c.NewParagraph(m.Candidate.FullName)
	title.SetFont(bold)
	title.SetFontSize(18)
	title.SetMargins(0, 0, 0, 12)
	if err := c.Draw(title); err != nil {
		return "", err
	}

	for _, line := range summaryLines(m, j) {
		p := c.NewParagraph(line)
		p.SetFont(regular)
		p.SetFontSize(11)
		p.SetMargins(0, 0, 0, 6)
		if err := c.Draw(p); err != nil {
			return "", err
		}
	}

	path := filepath.Join(g.cfg.OutputDir, summaryFileName(m, "pdf"))
	if err := c.WriteToFile(path); err != nil {
		return "", fmt.Errorf("write pdf %s: %w", path, err)
	}
	return path, nil
}

// SummaryDOCX fills the configured template and returns the file path. The
// template carries the same {placeholder} variables as the email templates.
func (g *Generator) SummaryDOCX(m *matching.Match, j *job.Job) (string, error) {
	if g.cfg.DocxTemplate == "" {
		return "", fmt.Errorf("no docx template configured")
	}
	if err := g.ensureOutputDir(); err != nil {
		return "", err
	}

	r, err := docx.ReadDocxFile(g.cfg.DocxTemplate)
	if err != nil {
		return "", fmt.Errorf("read docx template %s: %w", g.cfg.DocxTemplate, err)
	}
	defer r.Close()

	doc := r.Editable()
	for key, val := range SummaryVars(m, j) {
		if err := doc.Replace("{"+key+"}", val, -1); err != nil {
			return "", fmt.Errorf("fill placeholder %q: %w", key, err)
		}
	}

	path := filepath.Join(g.cfg.OutputDir, summaryFileName(m, "docx"))
	if err := doc.WriteToFile(path); err != nil {
		return "", fmt.Errorf("write docx %s: %w", path, err)
	}
	return path, nil
}

// SummaryVars builds the placeholder values shared by both document formats.
func SummaryVars(m *matching.Match, j *job.Job) map[string]string {
	c := m.Candidate
	return map[string]string{
		"candidate_name":   c.FullName,
		"current_position": c.Position,
		"current_company":  c.Company,
		"location":         c.Location,
		"email":            c.Email,
		"linkedin_url":     c.ProfileURL,
		"job_title":        j.Title,
		"job_company":      j.Company,
		"match_score":      fmt.Sprintf("%.2f", m.Score),
		"matched_skills":   strings.Join(m.MatchedSkills, ", "),
		"generated_on":     time.Now().Format("2006-01-02"),
	}
}

func summaryLines(m *matching.Match, j *job.Job) []string {
	c := m.Candidate
	lines := []string{
		fmt.Sprintf("Considered for: %s at %s", j.Title, j.Company),
		fmt.Sprintf("Current role: %s at %s", c.Position, c.Company),
	}
	if c.Location != "" {
		lines = append(lines, "Location: "+c.Location)
	}
	if c.Email != "" {
		lines = append(lines, "Email: "+c.Email)
	}
	lines = append(lines,
		"Profile: "+c.ProfileURL,
		fmt.Sprintf("Match score: %.2f", m.Score),
		"Matched skills: "+strings.Join(m.MatchedSkills, ", "),
	)
	if c.Summary != "" {
		lines = append(lines, "", c.Summary)
	}
	return lines
}

// summaryFileName slugs the candidate name for the filesystem.
func summaryFileName(m *matching.Match, ext string) string {
	slug := strings.ToLower(strings.TrimSpace(m.Candidate.FullName))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '_'
		}
		return -1
	}, slug)
	if slug == "" {
		slug = "candidate"
	}
	return fmt.Sprintf("summary_%s.%s", slug, ext)
}
