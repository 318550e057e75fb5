package cmd

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrkit/talentscout/internal/outreach"
)

const (
	app = "talentscout"
)

type Config struct {
	CandidatesFile string            `mapstructure:"candidates-file"`
	JobsFile       string            `mapstructure:"jobs-file"`
	Company        *outreach.Company `mapstructure:"company"`
	Output         *OutputConfig     `mapstructure:"output"`
	Match          *MatchConfig      `mapstructure:"match"`
	Store          *StoreConfig      `mapstructure:"store"`
	AI             *AIConfig         `mapstructure:"ai"`
	SMTP           *SMTPConfig       `mapstructure:"smtp"`
	Outreach       *OutreachConfig   `mapstructure:"outreach"`
	Documents      *DocumentsConfig  `mapstructure:"documents"`
}

type OutputConfig struct {
	Shortlists string `mapstructure:"shortlists"`
	CSV        string `mapstructure:"csv"`
	EmailLog   string `mapstructure:"email-log"`
}

type MatchConfig struct {
	Mode      string  `mapstructure:"mode"`
	Threshold float64 `mapstructure:"threshold"`
	TopN      int     `mapstructure:"top-n"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
	Ollama   *OllamaConfig `mapstructure:"ollama"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type OllamaConfig struct {
	Host  string `mapstructure:"host"`
	Model string `mapstructure:"model"`
}

type SMTPConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	PasswordFile string `mapstructure:"password-file"`
	From         string `mapstructure:"from"`
}

type OutreachConfig struct {
	Template string `mapstructure:"template"`
}

type DocumentsConfig struct {
	OutputDir      string `mapstructure:"output-dir"`
	DocxTemplate   string `mapstructure:"docx-template"`
	LicenseKeyFile string `mapstructure:"license-key-file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "talentscout is a cli for shortlisting candidates against job postings and drafting outreach emails",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("smtp.password-file", "SMTP_PASSWORD_FILE"); err != nil {
		log.Fatalf("binding SMTP_PASSWORD_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is talentscout.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

// wantsConfig reports whether one of the commands needing the config file
// was invoked. The version command works without one.
func wantsConfig() bool {
	for _, c := range []*cobra.Command{runCmd, importCmd, generateCmd, enrichCmd} {
		if c.CalledAs() != "" {
			return true
		}
	}
	return false
}

func initConfig() {
	// Secrets and file paths may come from a local .env file.
	_ = godotenv.Load()

	if !wantsConfig() {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}

func (c *Config) outputConfig() *OutputConfig {
	out := c.Output
	if out == nil {
		out = &OutputConfig{}
	}
	if out.Shortlists == "" {
		out.Shortlists = "shortlists.json"
	}
	if out.CSV == "" {
		out.CSV = "shortlists.csv"
	}
	if out.EmailLog == "" {
		out.EmailLog = "email_log.json"
	}
	return out
}

func (c *Config) companyConfig() outreach.Company {
	if c.Company == nil {
		return outreach.Company{}
	}
	return *c.Company
}

// maxLogLength returns the configured AI preview limit, 0 meaning the
// consumer's default.
func (c *Config) maxLogLength() int {
	if c == nil || c.AI == nil || c.AI.Gemini == nil {
		return 0
	}
	return c.AI.Gemini.MaxLogLength
}
