package cmd

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/hrkit/talentscout/internal/ai"
	"github.com/hrkit/talentscout/internal/ai/gemini"
	"github.com/hrkit/talentscout/internal/ai/ollama"
	"github.com/hrkit/talentscout/internal/draft"
	"github.com/hrkit/talentscout/internal/logger"
	"github.com/hrkit/talentscout/internal/secrets"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Draft a job description and skill lists with AI",
	Run: func(cmd *cobra.Command, _ []string) {
		runGenerate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringP("title", "t", "", "job title to draft (required)")
	generateCmd.Flags().StringP("level", "l", "", "experience level, e.g. Senior")
	generateCmd.Flags().String("department", "", "department the role belongs to")
	generateCmd.Flags().String("employment-type", "Full-time", "employment type")
	generateCmd.Flags().String("location", "", "job location")
	generateCmd.Flags().StringP("out", "o", "job.json", "output file for the drafted job")

	generateCmd.MarkFlagRequired("title")
}

func runGenerate(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	req := draft.Request{
		Title:           cmd.Flag("title").Value.String(),
		ExperienceLevel: cmd.Flag("level").Value.String(),
		Department:      cmd.Flag("department").Value.String(),
		EmploymentType:  cmd.Flag("employment-type").Value.String(),
		Location:        cmd.Flag("location").Value.String(),
	}
	if config != nil && config.Company != nil {
		req.Company = config.Company.Name
	}

	drafter := draft.New(logger, config.maxLogLength(), providerChain(ctx, config, logger)...)

	j, res := drafter.Draft(ctx, req)
	if res.Outcome == ai.OutcomeFallback {
		logger.Warn("AI drafting degraded to the static fallback", zap.Error(res.Err))
	} else {
		logger.Info("job drafted", zap.String("provider", res.Provider))
	}

	out := cmd.Flag("out").Value.String()
	data, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		logger.Fatal("serializing the job draft", zap.Error(err))
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		logger.Fatal("writing the job draft", zap.Error(err))
	}

	logger.Info("job draft written",
		zap.String("filename", out),
		zap.String("title", j.Title),
		zap.Int("required_skills", len(j.SkillsRequired)),
		zap.Int("preferred_skills", len(j.SkillsPreferred)),
	)
}

// providerChain assembles the Gemini-then-Ollama fallback order. Providers
// that fail to initialize are skipped with a warning; an empty chain means
// the drafter uses its static fallback.
func providerChain(ctx context.Context, config *Config, lg *zap.Logger) []ai.Generator {
	var chain []ai.Generator

	var aiCfg *AIConfig
	if config != nil {
		aiCfg = config.AI
	}

	if aiCfg != nil && aiCfg.Gemini != nil {
		apiKey, err := secrets.Load(secrets.Source{
			Name: "gemini api key",
			File: aiCfg.Gemini.APIKeyFile,
			Env:  "GEMINI_API_KEY",
		})
		if err == nil {
			g, err := gemini.NewGenerator(ctx, apiKey, aiCfg.Gemini.Model)
			if err == nil {
				chain = append(chain, g)
			} else {
				lg.Warn("skipping gemini provider", zap.Error(err))
			}
		} else {
			lg.Warn("skipping gemini provider", zap.Error(err))
		}
	}

	host, model := "", ""
	if aiCfg != nil && aiCfg.Ollama != nil {
		host, model = aiCfg.Ollama.Host, aiCfg.Ollama.Model
	}
	o := ollama.New(host, model)
	if err := o.Ping(ctx); err == nil {
		chain = append(chain, o)
	} else {
		lg.Warn("skipping ollama provider", zap.Error(err))
	}

	return chain
}
