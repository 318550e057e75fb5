package cmd

import (
	"context"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/hrkit/talentscout/internal/logger"
	"github.com/hrkit/talentscout/internal/scrape"
	"github.com/hrkit/talentscout/internal/store"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Scrape public profiles for stored candidates missing skills or a summary",
	Run: func(cmd *cobra.Command, _ []string) {
		runEnrich(cmd)
	},
}

func init() {
	rootCmd.AddCommand(enrichCmd)

	enrichCmd.Flags().IntP("limit", "n", 0, "enrich at most this many candidates (0 for all)")
}

func runEnrich(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil || config.Store == nil || config.Store.Path == "" {
		logger.Fatal("a store path is required under store.path")
	}

	db, err := store.Open(config.Store.Path)
	if err != nil {
		logger.Fatal("opening the store", zap.Error(err))
	}
	defer db.Close()

	missing, err := db.CandidatesMissingProfile()
	if err != nil {
		logger.Fatal("listing candidates to enrich", zap.Error(err))
	}
	if missing.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates need enrichment"))
		return
	}

	limit := missing.Len()
	if n, _ := cmd.Flags().GetInt("limit"); n > 0 && n < limit {
		limit = n
	}

	scraper := scrape.New(logger)
	enriched, skipped := 0, 0

	for _, c := range missing.Items[:limit] {
		profile, err := scraper.Extract(ctx, c.ProfileURL)
		if err != nil {
			logger.Warn("skipping candidate",
				zap.String("url", c.ProfileURL),
				zap.Error(err),
			)
			skipped++
			continue
		}

		if len(profile.Skills) == 0 && profile.Headline == "" {
			logger.Debug("profile revealed nothing new", zap.String("url", profile.URL))
			skipped++
			continue
		}

		if err := db.UpdateCandidateProfile(c.ProfileURL, profile.Skills, profile.Headline); err != nil {
			logger.Warn("updating candidate profile", zap.Error(err))
			skipped++
			continue
		}

		enriched++
		logger.Info("candidate enriched",
			zap.String("name", c.FullName),
			zap.String("method", profile.Method),
			zap.String("skills", strings.Join(profile.Skills, ", ")),
		)
	}

	logger.Info("enrichment finished",
		zap.Int("enriched", enriched),
		zap.Int("skipped", skipped),
		zap.Int("remaining", missing.Len()-limit),
	)
}
