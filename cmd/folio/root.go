package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"folio/internal/domain/config"
	"folio/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Article catalog for a portfolio site",
	Long: `folio turns a directory of Markdown/MDX articles into a JSON data file,
answers catalog queries over it, and exports compiled articles as static JSON.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var (
	configPath string
	envFile    string

	cfg config.Config
	log zerolog.Logger
)

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "site.yaml", "path to the site config")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with FOLIO_* overrides")
}

func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotenv(envFile); err != nil {
		return err
	}
	var err error
	cfg, err = config.LoadOrDefault(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log, err = logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}
