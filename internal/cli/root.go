package cli

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/lockscore/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Version is overridden at build time with -ldflags "-X ...cli.Version=..."
var Version = "0.1.0"

var (
	cfgFile    string
	rubricFile string
	verbose    bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "lockscore",
	Short: "lockscore - vendor contract lock-in risk scoring",
	Long: `lockscore reads a vendor contract (terms of service, MSA, order form) and
scores how hard it would be to leave that vendor.

Five categories are scored against a fixed rubric: data portability,
pricing terms, support obligations, termination and exit, and service level.
The 0-100 total maps to a LOW, MEDIUM or HIGH risk tier, with critical
issues and prioritized recommendations.

Scores flag clauses for review. They are not legal advice.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("lockscore v%s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.lockscore/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&rubricFile, "rubric", "", "rubric override YAML (default: built-in rubric)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("rubric.path", rootCmd.PersistentFlags().Lookup("rubric"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	// Seed every key with its default so LOCKSCORE_* env vars resolve
	// even when no config file sets them
	defaults, err := yaml.Marshal(model.DefaultConfig())
	if err == nil {
		viper.SetConfigType("yaml")
		_ = viper.ReadConfig(bytes.NewReader(defaults))
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".lockscore"))
		viper.SetConfigName("config")
	}

	// LOCKSCORE_LIMITS_TIMEOUT=10s overrides limits.timeout
	viper.SetEnvPrefix("LOCKSCORE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("llm.api_key", "LOCKSCORE_LLM_API_KEY", "OPENAI_API_KEY")
	_ = viper.BindEnv("llm.base_url", "LOCKSCORE_LLM_BASE_URL", "OLLAMA_BASE_URL")
	_ = viper.BindEnv("http.http_proxy", "LOCKSCORE_HTTP_HTTP_PROXY", "HTTP_PROXY")
	_ = viper.BindEnv("http.https_proxy", "LOCKSCORE_HTTP_HTTPS_PROXY", "HTTPS_PROXY")
	_ = viper.BindEnv("http.no_proxy", "LOCKSCORE_HTTP_NO_PROXY", "NO_PROXY")

	if err := viper.MergeInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig resolves the effective configuration from defaults, config
// file, environment and bound flags
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// configFileUsed is the merged config file, or empty when none exists
func configFileUsed() string {
	f := viper.ConfigFileUsed()
	if f == "" {
		return ""
	}
	if _, err := os.Stat(f); err != nil {
		return ""
	}
	return f
}

// newLogger builds the stderr logger handed to library code
func newLogger(cfg *model.Config) *slog.Logger {
	level := slog.LevelWarn
	if cfg.Output.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
