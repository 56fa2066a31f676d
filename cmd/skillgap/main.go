// Package main provides the skillgap command line tool and HTTP server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/skillgap/internal/config"
	"github.com/jonathan/skillgap/internal/logging"
	"github.com/jonathan/skillgap/internal/service"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configPath string
	dataDir    string
	logLevel   string
	provider   string
	dbURL      string

	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "skillgap",
		Short: "Skill gap analysis and course recommendations",
		Long: "skillgap compares a person's skills with the requirements of a job title, " +
			"reports the missing skills and recommends catalog courses that fill the gap.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return opts.setupLogging()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to config file (.json, .yaml or .toml)")
	flags.StringVar(&opts.dataDir, "data-dir", "", "Directory holding the data files (overrides SKILLGAP_DATA_DIR)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&opts.provider, "embedding-provider", "", "Embedding backend: gemini, openai, ollama, ngram")
	flags.StringVar(&opts.dbURL, "db-url", "", "PostgreSQL URL for job requirements (overrides DATABASE_URL)")

	cmd.AddCommand(
		newRecommendCmd(opts),
		newExtractSkillsCmd(opts),
		newResolveTitleCmd(opts),
		newServeCmd(opts),
		newMigrateCmd(opts),
		newImportRequirementsCmd(opts),
		newCheckCmd(opts),
	)
	return cmd
}

// setupLogging installs the logger. The level comes from --log-level, then
// the config file, then info.
func (o *rootOptions) setupLogging() error {
	name := o.logLevel
	if name == "" && o.configPath != "" {
		if cfg, err := config.LoadConfig(o.configPath); err == nil {
			name = cfg.LogLevel
		}
	}
	if name == "" {
		name = "info"
	}
	level, err := logging.ParseLevel(name)
	if err != nil {
		return err
	}
	o.logger = logging.Setup(level)
	return nil
}

// loadConfig builds the effective configuration: defaults, then the config
// file, then flags, then the environment for anything still unset.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		fileCfg, err := config.LoadConfig(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}

	if o.dataDir != "" {
		cfg.DataDir = o.dataDir
	}
	if o.provider != "" && o.provider != cfg.Embedding.Provider {
		cfg.Embedding.Provider = o.provider
		cfg.Embedding.Model = ""
	}
	if o.dbURL != "" {
		cfg.DatabaseURL = o.dbURL
	}
	cfg.ApplyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// newService loads the configuration and every data source.
func (o *rootOptions) newService(ctx context.Context) (*service.Service, *config.Config, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	svc, err := service.New(ctx, cfg, o.log())
	if err != nil {
		return nil, nil, err
	}
	return svc, cfg, nil
}

func (o *rootOptions) log() *slog.Logger {
	if o.logger == nil {
		return slog.Default()
	}
	return o.logger
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
