package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"folio/internal/domain/content"
	domainerr "folio/internal/domain/errors"
)

type Options struct {
	Logger         zerolog.Logger
	WordsPerMinute int
}

// Load reads src and builds a catalog. It never fails: when the data
// document is missing or malformed the condition is logged and an empty
// catalog is returned.
func Load(ctx context.Context, src Source, opts Options) *Catalog {
	c, err := LoadStrict(ctx, src, opts)
	if err != nil {
		opts.Logger.Warn().
			Err(err).
			Str("source", src.String()).
			Msg("article data unavailable, serving empty catalog")
		return Empty()
	}
	return c
}

// LoadStrict is Load without the fallback. Errors wrap
// domainerr.ErrDataSourceUnavailable.
func LoadStrict(ctx context.Context, src Source, opts Options) (*Catalog, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domainerr.ErrDataSourceUnavailable, src, err)
	}
	defer rc.Close()

	var doc content.DataFile
	if err := json.NewDecoder(rc).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domainerr.ErrDataSourceUnavailable, src, err)
	}
	if doc.Articles == nil {
		return nil, fmt.Errorf("%w: %s has no articles list", domainerr.ErrDataSourceUnavailable, src)
	}
	if doc.Count != 0 && doc.Count != len(doc.Articles) {
		opts.Logger.Warn().
			Str("source", src.String()).
			Int("count", doc.Count).
			Int("articles", len(doc.Articles)).
			Msg("article count does not match document header")
	}

	c := FromRecords(doc.Articles, opts)
	c.generated = content.ParseDate(doc.Generated)
	return c, nil
}

// FromRecords normalizes records into a catalog. Records whose
// (categoryDir, slug) pair was already seen are dropped.
func FromRecords(records []content.ArticleRecord, opts Options) *Catalog {
	articles := make([]content.Article, 0, len(records))
	seen := make(map[string]struct{}, len(records))

	for _, rec := range records {
		a := content.Normalize(rec)
		if a.Slug == "" {
			opts.Logger.Warn().Str("slug", rec.Slug).Msg("skipping article with empty slug")
			continue
		}
		if _, ok := seen[a.ID()]; ok {
			opts.Logger.Warn().Str("slug", a.ID()).Msg("duplicate article id, skipped")
			continue
		}
		seen[a.ID()] = struct{}{}

		a.ReadingTime = content.EstimateReadingTime(a.Content, opts.WordsPerMinute)
		articles = append(articles, a)
	}
	return &Catalog{articles: articles}
}
