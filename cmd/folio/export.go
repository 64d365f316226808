package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"folio/internal/build"
	"folio/internal/catalog"
	"folio/internal/render"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write compiled articles and listings as static JSON",
	Long: `Compile every article in the data file and write it, with listings, under
the public dir. Outputs unchanged since the last export are left alone and
outputs of removed articles are pruned.`,
	RunE: runExport,
}

var exportPublic string

func init() {
	exportCmd.Flags().StringVarP(&exportPublic, "out", "o", "", "output dir (default: build.public_dir)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportPublic != "" {
		cfg.Build.PublicDir = exportPublic
	}

	// an empty catalog would prune the whole previous export
	c, err := catalog.LoadStrict(cmd.Context(), catalog.FileSource(cfg.Build.DataFile), catalogOptions())
	if err != nil {
		return err
	}

	var ropts []render.Option
	if cfg.Build.HighlightStyle != "" {
		ropts = append(ropts, render.WithHighlighting(cfg.Build.HighlightStyle))
	}
	b := &build.Builder{
		Cfg:        cfg,
		Catalog:    c,
		Serializer: render.NewSerializer(ropts...),
		Log:        log,
	}
	res, err := b.Run(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run %s: %d articles, %d written, %d unchanged, %d pruned\n",
		res.RunID, res.Articles, res.Written, res.Unchanged, res.Pruned)
	for _, f := range res.Failures {
		fmt.Fprintf(out, "  failed %s: %v\n", f.Slug, f.Err)
	}
	return nil
}

func catalogOptions() catalog.Options {
	return catalog.Options{Logger: log, WordsPerMinute: cfg.Catalog.WordsPerMinute}
}
