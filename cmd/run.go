package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/hrkit/talentscout/internal/ai"
	"github.com/hrkit/talentscout/internal/ai/gemini"
	"github.com/hrkit/talentscout/internal/ai/ollama"
	"github.com/hrkit/talentscout/internal/candidate"
	"github.com/hrkit/talentscout/internal/docgen"
	"github.com/hrkit/talentscout/internal/job"
	"github.com/hrkit/talentscout/internal/logger"
	"github.com/hrkit/talentscout/internal/mailer"
	"github.com/hrkit/talentscout/internal/matching"
	"github.com/hrkit/talentscout/internal/outreach"
	"github.com/hrkit/talentscout/internal/report"
	"github.com/hrkit/talentscout/internal/scrape"
	"github.com/hrkit/talentscout/internal/secrets"
	"github.com/hrkit/talentscout/internal/store"
)

const (
	PromptSendEmails        = "Send outreach emails"
	PromptPreviewEmails     = "Preview outreach emails"
	PromptExportCSV         = "Export shortlists to CSV"
	PromptGenerateDocuments = "Generate candidate summary documents"
	PromptReportByCompany   = "Report candidates by company"
	PromptCandidatesToFile  = "Dump candidates to file"
	PromptExit              = "Exit"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{
		PromptSendEmails, PromptPreviewEmails, PromptExportCSV,
		PromptGenerateDocuments, PromptReportByCompany, PromptCandidatesToFile, PromptExit,
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the talentscout shortlisting pipeline",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-approve", "y", false, "write shortlists and exit without the action menu")
	runCmd.Flags().StringP("candidates-file", "c", "", "connections CSV file with candidates")
	runCmd.Flags().StringP("jobs-file", "f", "", "JSON file with job descriptions")

	viper.BindPFlag("candidates-file", runCmd.Flags().Lookup("candidates-file"))
	viper.BindPFlag("jobs-file", runCmd.Flags().Lookup("jobs-file"))
}

// pipeline carries everything the action menu operates on.
type pipeline struct {
	config     *Config
	logger     *zap.Logger
	candidates *candidate.Candidates
	jobs       *job.Jobs
	shortlists report.Shortlists
	summary    *report.Summary
	db         *store.Store
	jobIDs     map[string]int64
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the talentscout", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}
	if config.CandidatesFile == "" {
		logger.Fatal("a connections CSV is required under candidates-file")
	}
	if config.JobsFile == "" {
		logger.Fatal("a job descriptions file is required under jobs-file")
	}

	p, err := buildPipeline(config, logger)
	if err != nil {
		logger.Fatal("preparing the pipeline", zap.Error(err))
	}
	if p.db != nil {
		defer p.db.Close()
	}

	if p.candidates.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates loaded"))
		return
	}
	if p.jobs.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no job descriptions loaded"))
		return
	}

	if err := p.shortlist(); err != nil {
		logger.Fatal("shortlisting failed", zap.Error(err))
	}

	out := config.outputConfig()
	if err := p.shortlists.WriteJSON(out.Shortlists); err != nil {
		logger.Fatal("writing shortlists", zap.Error(err))
	}
	logger.Info("shortlists written", zap.String("filename", out.Shortlists))

	fmt.Print(p.summary.String())

	if cmd.Flag("auto-approve").Value.String() == "true" {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := p.handleAction(ctx, action); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func buildPipeline(config *Config, logger *zap.Logger) (*pipeline, error) {
	loaded, err := candidate.LoadCSV(config.CandidatesFile, logger)
	if err != nil {
		return nil, fmt.Errorf("loading candidates: %w", err)
	}
	if noEmail := loaded.Candidates.WithoutEmail(); len(noEmail) > 0 {
		logger.Debug("candidates without an email address", zap.Strings("names", noEmail))
	}
	for _, c := range loaded.Candidates.Items {
		c.ProfileURL = scrape.NormalizeProfileURL(c.ProfileURL)
	}

	jobs, err := job.LoadFile(config.JobsFile, logger)
	if err != nil {
		return nil, fmt.Errorf("loading job descriptions: %w", err)
	}
	logger.Info("loading job descriptions", zap.Any("titles", jobs.Titles()))

	p := &pipeline{
		config:     config,
		logger:     logger,
		candidates: loaded.Candidates,
		jobs:       jobs,
		jobIDs:     make(map[string]int64),
	}

	if config.Store != nil && config.Store.Path != "" {
		db, err := store.Open(config.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("opening the store: %w", err)
		}
		p.db = db
	}
	return p, nil
}

// shortlist scores every candidate against every job and mirrors the results
// into the store when one is configured.
func (p *pipeline) shortlist() error {
	mode, threshold, topN := matching.Mode(""), 0.0, 0
	if mc := p.config.Match; mc != nil {
		mode, threshold, topN = matching.Mode(mc.Mode), mc.Threshold, mc.TopN
	}

	scorer, err := matching.NewScorer(mode, threshold)
	if err != nil {
		return err
	}

	p.shortlists = make(report.Shortlists, p.jobs.Len())
	for _, j := range p.jobs.Items {
		matches := scorer.Shortlist(p.candidates, j, topN)
		p.shortlists[j.Title] = matches
		p.logger.Info("generated shortlist",
			zap.String("job", j.Title),
			zap.Int("count", len(matches)),
		)

		if p.db != nil {
			jobID, err := p.db.SaveJob(j)
			if err != nil {
				return err
			}
			p.jobIDs[j.Title] = jobID
			if err := p.db.SaveShortlist(jobID, matches); err != nil {
				return err
			}
		}
	}

	p.summary = report.BuildSummary(p.candidates.Len(), p.shortlists)
	return nil
}

func (p *pipeline) handleAction(ctx context.Context, action string) error {
	switch action {
	case PromptSendEmails:
		return p.sendEmails(ctx)
	case PromptPreviewEmails:
		return p.previewEmails()
	case PromptExportCSV:
		out := p.config.outputConfig()
		if err := p.shortlists.WriteCSV(out.CSV); err != nil {
			return fmt.Errorf("export shortlists to CSV: %w", err)
		}
		p.logger.Info("shortlists exported", zap.String("filename", out.CSV))
		return nil
	case PromptGenerateDocuments:
		return p.generateDocuments()
	case PromptReportByCompany:
		pretty, _ := json.MarshalIndent(p.candidates.ReportByCompany(), "", "  ")
		p.logger.Info(string(pretty), zap.Int("candidates count", p.candidates.Len()))
		return nil
	case PromptCandidatesToFile:
		filename, err := p.candidates.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump candidates to file: %w", err)
		}
		p.logger.Info("dumping candidates to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		p.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func (p *pipeline) newComposer(ctx context.Context) (*outreach.Composer, error) {
	generator, err := newGenerator(ctx, p.config.AI, p.logger)
	if err != nil {
		p.logger.Warn("AI drafting unavailable, using templates only", zap.Error(err))
		generator = nil
	}

	return outreach.NewComposer(p.templateName(), p.companyConfig(), generator, p.config.maxLogLength(), p.logger)
}

func (p *pipeline) companyConfig() outreach.Company {
	return p.config.companyConfig()
}

func (p *pipeline) sendEmails(ctx context.Context) error {
	if p.config.SMTP == nil || p.config.SMTP.Host == "" {
		return errors.New("smtp settings are required to send emails")
	}

	password, err := secrets.Load(secrets.Source{
		Name: "smtp password",
		File: p.config.SMTP.PasswordFile,
		Env:  "SMTP_PASSWORD",
	})
	if err != nil {
		return fmt.Errorf("%w (set smtp.password-file, SMTP_PASSWORD_FILE or SMTP_PASSWORD)", err)
	}

	sender, err := mailer.NewSMTPSender(mailer.Config{
		Host:     p.config.SMTP.Host,
		Port:     p.config.SMTP.Port,
		Username: p.config.SMTP.Username,
		Password: password,
		From:     p.config.SMTP.From,
	})
	if err != nil {
		return err
	}

	composer, err := p.newComposer(ctx)
	if err != nil {
		return err
	}

	out := p.config.outputConfig()
	emailLog, err := mailer.OpenLog(out.EmailLog)
	if err != nil {
		return err
	}
	m := mailer.New(sender, emailLog, p.logger)

	for _, j := range p.jobs.Items {
		matches := p.shortlists[j.Title]
		if len(matches) == 0 {
			continue
		}

		records, err := outreach.BuildCampaign(ctx, composer, matches, j)
		if err != nil {
			return fmt.Errorf("building campaign for %q: %w", j.Title, err)
		}

		summary, err := m.SendCampaign(ctx, records)
		if err != nil {
			return err
		}
		p.summary.RecordDelivery(j.Title, len(summary.Sent), len(summary.Failed))

		if p.db != nil {
			p.mirrorOutreach(records, summary)
		}

		p.logger.Info("campaign finished",
			zap.String("job", j.Title),
			zap.Int("sent", len(summary.Sent)),
			zap.Int("failed", len(summary.Failed)),
		)
	}

	fmt.Print(p.summary.String())
	return nil
}

// mirrorOutreach writes the campaign records into the store. Failures here
// are logged, not fatal: the emails already went out.
func (p *pipeline) mirrorOutreach(records []outreach.Record, summary *mailer.Summary) {
	sent := make(map[string]bool, len(summary.Sent))
	for _, d := range summary.Sent {
		sent[d.RecordID] = true
	}

	for _, r := range records {
		status := string(mailer.StatusFailed)
		if sent[r.ID] {
			status = string(mailer.StatusSent)
		} else if strings.TrimSpace(r.Recipient) == "" {
			status = string(mailer.StatusSkipped)
		}
		if err := p.db.LogOutreach(r, status); err != nil {
			p.logger.Warn("mirroring outreach record", zap.Error(err))
		}
	}

	if total, err := p.db.OutreachCount(); err == nil {
		p.logger.Debug("outreach log mirrored", zap.Int("total_in_store", total))
	}
}

func (p *pipeline) previewEmails() error {
	composer, err := outreach.NewComposer(p.templateName(), p.companyConfig(), nil, p.config.maxLogLength(), p.logger)
	if err != nil {
		return err
	}

	for _, j := range p.jobs.Items {
		for _, m := range p.shortlists[j.Title] {
			msg, err := composer.Preview(m, j)
			if err != nil {
				return err
			}
			fmt.Printf("--- %s <%s> (%s, score %.2f)\nSubject: %s\n\n%s\n\n",
				m.Candidate.FullName, m.Candidate.Email, j.Title, m.Score, msg.Subject, msg.Body)
		}
	}
	return nil
}

func (p *pipeline) templateName() string {
	if p.config.Outreach != nil {
		return p.config.Outreach.Template
	}
	return ""
}

func (p *pipeline) generateDocuments() error {
	cfg := docgen.Config{}
	if dc := p.config.Documents; dc != nil {
		cfg.OutputDir = dc.OutputDir
		cfg.DocxTemplate = dc.DocxTemplate
		if dc.LicenseKeyFile != "" {
			key, err := secrets.Load(secrets.Source{
				Name: "pdf license key",
				File: dc.LicenseKeyFile,
			})
			if err != nil {
				return err
			}
			cfg.LicenseKey = key
		}
	}

	gen, err := docgen.New(cfg)
	if err != nil {
		return err
	}

	for _, j := range p.jobs.Items {
		for _, m := range p.shortlists[j.Title] {
			if gen.PDFEnabled() {
				path, err := gen.SummaryPDF(m, j)
				if err != nil {
					return err
				}
				p.logger.Info("document written", zap.String("filename", path))
			}
			if cfg.DocxTemplate != "" {
				path, err := gen.SummaryDOCX(m, j)
				if err != nil {
					return err
				}
				p.logger.Info("document written", zap.String("filename", path))
			}
		}
	}

	if !gen.PDFEnabled() && cfg.DocxTemplate == "" {
		p.logger.Warn("no document outputs configured",
			zap.String("hint", "set documents.license-key-file for PDFs or documents.docx-template for DOCX"),
		)
	}
	return nil
}

// newGenerator builds the configured AI provider for outreach drafting.
func newGenerator(ctx context.Context, cfg *AIConfig, lg *zap.Logger) (ai.Generator, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("ai is not enabled")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	switch provider {
	case "", "gemini":
		if cfg.Gemini == nil {
			return nil, errors.New("gemini configuration is required when ai is enabled")
		}
		apiKey, err := secrets.Load(secrets.Source{
			Name: "gemini api key",
			File: cfg.Gemini.APIKeyFile,
			Env:  "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
		}
		g, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
		if err != nil {
			return nil, err
		}
		logger.WithProvider(lg, g.Provider(), g.Model()).Debug("AI provider ready")
		return g, nil
	case "ollama":
		host, model := "", ""
		if cfg.Ollama != nil {
			host, model = cfg.Ollama.Host, cfg.Ollama.Model
		}
		g := ollama.New(host, model)
		if err := g.Ping(ctx); err != nil {
			return nil, err
		}
		logger.WithProvider(lg, g.Provider(), g.Model()).Debug("AI provider ready")
		return g, nil
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}
