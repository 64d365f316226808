package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"folio/internal/domain/content"
)

// BuildDataFile assembles the document the catalog loader reads, with
// per-category counts in first-seen order.
func BuildDataFile(records []content.ArticleRecord, now time.Time) content.DataFile {
	if records == nil {
		records = []content.ArticleRecord{}
	}

	counts := make(map[string]int)
	var order []string
	for _, r := range records {
		if _, ok := counts[r.CategoryDir]; !ok {
			order = append(order, r.CategoryDir)
		}
		counts[r.CategoryDir]++
	}

	cats := make([]content.CategorySummary, 0, len(order))
	for _, dir := range order {
		cats = append(cats, content.CategorySummary{
			Name:  content.FormatCategoryName(dir),
			Slug:  dir,
			Count: counts[dir],
		})
	}

	return content.DataFile{
		Articles:   records,
		Generated:  now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Count:      len(records),
		Categories: cats,
		Stats: &content.DataStats{
			TotalArticles:   len(records),
			TotalCategories: len(order),
			CategoryCounts:  counts,
		},
	}
}

// WriteDataFile writes doc to path atomically, so a watcher never observes
// a half-written document.
func WriteDataFile(path string, doc content.DataFile) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode data file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".articles-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
