package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"folio/internal/ingest"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Build the article data file from the content directory",
	RunE:  runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	opts := ingest.Options{Workers: cfg.Build.Workers}
	if cfg.Build.GitDates {
		if gd, err := ingest.OpenGitDates(cfg.Build.SourceDir); err == nil {
			opts.Dates = gd
		} else {
			log.Warn().Err(err).Msg("git history unavailable, missing dates stay empty")
		}
	}

	records, warns, err := ingest.Ingest(cmd.Context(), cfg.Build.SourceDir, opts)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	for _, w := range warns {
		log.Warn().Str("path", w.Path).Msg(w.Msg)
	}

	doc := ingest.BuildDataFile(records, time.Now())
	if err := ingest.WriteDataFile(cfg.Build.DataFile, doc); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	log.Info().
		Int("articles", doc.Count).
		Int("categories", len(doc.Categories)).
		Str("file", cfg.Build.DataFile).
		Msg("data file written")
	return nil
}
