package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"folio/internal/catalog"
	"folio/internal/domain/content"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List articles, newest first",
	RunE:  runList,
}

var relatedCmd = &cobra.Command{
	Use:   "related <category-dir>/<slug>",
	Short: "Show the articles most related to one article",
	Args:  cobra.ExactArgs(1),
	RunE:  runRelated,
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories with article counts",
	RunE:  runCategories,
}

var (
	listTag      string
	listCategory string
	listFeatured bool
	asJSON       bool
	relatedLimit int
)

func init() {
	listCmd.Flags().StringVarP(&listTag, "tag", "t", "", "only articles with this tag")
	listCmd.Flags().StringVar(&listCategory, "category", "", "only articles in this category dir")
	listCmd.Flags().BoolVar(&listFeatured, "featured", false, "only featured articles")
	relatedCmd.Flags().IntVarP(&relatedLimit, "limit", "n", 0, "max results (default: catalog.related_limit)")

	for _, c := range []*cobra.Command{listCmd, relatedCmd, categoriesCmd} {
		c.Flags().BoolVar(&asJSON, "json", false, "print JSON")
		rootCmd.AddCommand(c)
	}
}

func loadCatalog(cmd *cobra.Command) *catalog.Catalog {
	return catalog.Load(cmd.Context(), catalog.FileSource(cfg.Build.DataFile), catalogOptions())
}

func runList(cmd *cobra.Command, args []string) error {
	arts := filterArticles(loadCatalog(cmd), listTag, listCategory, listFeatured)
	return printArticles(cmd.OutOrStdout(), arts)
}

// filterArticles applies every given filter; empty ones are ignored.
func filterArticles(c *catalog.Catalog, tag, dir string, featured bool) []content.Article {
	out := []content.Article{}
	for _, a := range c.All() {
		if tag != "" && !a.HasTag(tag) {
			continue
		}
		if dir != "" && !strings.EqualFold(a.CategoryDir, dir) {
			continue
		}
		if featured && !a.Featured {
			continue
		}
		out = append(out, a)
	}
	return out
}

func runRelated(cmd *cobra.Command, args []string) error {
	c := loadCatalog(cmd)
	a, ok := c.BySlugPath(args[0])
	if !ok {
		return fmt.Errorf("article %q not found", args[0])
	}

	limit := relatedLimit
	if limit <= 0 {
		limit = cfg.Catalog.RelatedLimit
	}
	return printArticles(cmd.OutOrStdout(), c.Related(a.CategoryDir, a.Slug, limit))
}

func runCategories(cmd *cobra.Command, args []string) error {
	stats := loadCatalog(cmd).Stats()
	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, stats)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DIR\tNAME\tARTICLES")
	for _, s := range stats {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", s.Dir, s.Name, s.Count)
	}
	return tw.Flush()
}

func printArticles(out io.Writer, arts []content.Article) error {
	if asJSON {
		for i := range arts {
			arts[i].Content = ""
		}
		return writeJSON(out, arts)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tID\tTITLE\tREAD\tTAGS")
	for _, a := range arts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			a.Date, a.ID(), a.Title, a.ReadingTime.Text, strings.Join(a.Tags, ", "))
	}
	return tw.Flush()
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
