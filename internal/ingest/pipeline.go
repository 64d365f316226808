package ingest

import (
	"context"
	"errors"
	"os"
	"runtime"
	"sync"
	"time"

	"folio/internal/domain/content"
)

type Warning struct {
	Path string
	Msg  string
}

type Options struct {
	Workers int          // <= 0 means GOMAXPROCS
	Dates   DateResolver // optional fallback for missing dates
}

type result struct {
	idx    int
	record content.ArticleRecord
	warns  []Warning
	skip   bool
	err    error
}

// Ingest reads every article under root and returns the records in
// discovery order. Files that fail to parse are skipped with a warning; I/O
// errors abort the run.
func Ingest(ctx context.Context, root string, opts Options) ([]content.ArticleRecord, []Warning, error) {
	files, warns, err := Discover(root)
	if err != nil {
		return nil, nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	jobs := make(chan int)
	results := make(chan result)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				r := readArticle(files[idx], opts.Dates)
				r.idx = idx
				results <- r
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range files {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	slots := make([]*result, len(files))
	var firstErr error
	for r := range results {
		if r.err != nil && firstErr == nil {
			firstErr = r.err
		}
		slots[r.idx] = &r
	}
	if firstErr != nil {
		return nil, nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	out := make([]content.ArticleRecord, 0, len(files))
	seen := make(map[string]struct{}, len(files))
	for i, r := range slots {
		warns = append(warns, r.warns...)
		if r.skip {
			continue
		}
		// a.md 和 a.mdx 会得到同一个 slug，保留先发现的
		if _, ok := seen[r.record.Slug]; ok {
			warns = append(warns, Warning{Path: files[i].Path, Msg: "duplicate slug, skipped: " + r.record.Slug})
			continue
		}
		seen[r.record.Slug] = struct{}{}
		out = append(out, r.record)
	}
	return out, warns, nil
}

func readArticle(sf SourceFile, dates DateResolver) result {
	raw, err := os.ReadFile(sf.Path)
	if err != nil {
		return result{err: err}
	}

	fm, body, fmErr := ParseFrontMatter(raw)
	if fmErr != nil && !errors.Is(fmErr, errNoFrontMatter) {
		return result{
			skip:  true,
			warns: []Warning{{Path: sf.Path, Msg: "failed to parse front matter: " + fmErr.Error()}},
		}
	}

	var warns []Warning
	date := fm.DateString()
	if date == "" && dates != nil {
		if t, err := dates.LastModified(sf.Path); err == nil {
			date = t.UTC().Format(time.RFC3339)
			warns = append(warns, Warning{Path: sf.Path, Msg: "using last commit time for date"})
		}
	}
	if fm.Title == "" {
		warns = append(warns, Warning{Path: sf.Path, Msg: "title is empty"})
	}

	tags := fm.Tags
	if tags == nil {
		tags = []string{}
	}
	return result{
		warns: warns,
		record: content.ArticleRecord{
			Slug:        sf.CategoryDir + "/" + sf.Slug,
			Content:     string(body),
			Title:       fm.Title,
			Description: fm.Description,
			Date:        date,
			ReadTime:    fm.ReadTime,
			Category:    content.FormatCategoryName(sf.CategoryDir),
			Tags:        tags,
			Featured:    fm.Featured,
			Author:      fm.Author,
			CategoryDir: sf.CategoryDir,
		},
	}
}
