package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/hrkit/talentscout/internal/candidate"
	"github.com/hrkit/talentscout/internal/logger"
	"github.com/hrkit/talentscout/internal/scrape"
	"github.com/hrkit/talentscout/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Bulk-import a connections CSV into the candidate store",
	Run: func(cmd *cobra.Command, _ []string) {
		runImport(cmd)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringP("candidates-file", "c", "", "connections CSV file with candidates")
}

func runImport(cmd *cobra.Command) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		config = &Config{}
	}
	if f := cmd.Flag("candidates-file").Value.String(); f != "" {
		config.CandidatesFile = f
	}
	if config.CandidatesFile == "" {
		logger.Fatal("a connections CSV is required under candidates-file")
	}
	if config.Store == nil || config.Store.Path == "" {
		logger.Fatal("a store path is required under store.path")
	}

	loaded, err := candidate.LoadCSV(config.CandidatesFile, logger)
	if err != nil {
		logger.Fatal("loading candidates", zap.Error(err))
	}

	// Stored URLs are canonical so re-imports of messy exports still
	// deduplicate.
	for _, c := range loaded.Candidates.Items {
		c.ProfileURL = scrape.NormalizeProfileURL(c.ProfileURL)
	}

	db, err := store.Open(config.Store.Path)
	if err != nil {
		logger.Fatal("opening the store", zap.Error(err))
	}
	defer db.Close()

	imported, skipped, err := db.ImportCandidates(loaded.Candidates.Items)
	if err != nil {
		logger.Fatal("importing candidates", zap.Error(err))
	}

	total, err := db.CandidateCount()
	if err != nil {
		logger.Fatal("counting candidates", zap.Error(err))
	}

	logger.Info("import finished",
		zap.Int("imported", imported),
		zap.Int("duplicates", skipped),
		zap.Int("rows_skipped", loaded.Skipped),
		zap.Int("total_in_store", total),
	)
}
