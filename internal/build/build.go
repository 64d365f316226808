package build

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"folio/internal/app"
	"folio/internal/catalog"
	dbuild "folio/internal/domain/build"
	"folio/internal/domain/config"
	"folio/internal/domain/content"
	domainerr "folio/internal/domain/errors"
	"folio/internal/domain/site"
	"folio/internal/index"
	"folio/internal/render"
)

// Builder exports the catalog as static JSON files: one compiled document
// per article plus listing files.
type Builder struct {
	Cfg        config.Config
	Catalog    *catalog.Catalog
	Serializer *render.Serializer
	Log        zerolog.Logger
}

type Failure struct {
	Slug string
	Err  error
}

type Result struct {
	RunID     string
	Articles  int
	Written   int
	Unchanged int
	Pruned    int
	Failures  []Failure
}

type output struct {
	route site.Route
	data  []byte
}

func (b *Builder) Run(ctx context.Context) (*Result, error) {
	res := &Result{RunID: uuid.NewString()}
	started := time.Now()
	log := b.Log.With().Str("run", res.RunID).Logger()

	st, err := index.Open(index.OpenOptions{Path: b.Cfg.Build.IndexPath})
	if err != nil {
		return nil, fmt.Errorf("failed to open export index: %w", err)
	}
	defer st.Close()

	prev, err := st.Outputs()
	if err != nil {
		return nil, fmt.Errorf("failed to read export index: %w", err)
	}

	rb := &app.RouteBuilder{Catalog: b.Catalog}

	outs, failures, err := b.buildArticles(ctx, rb.BuildArticleRoutes())
	if err != nil {
		return nil, fmt.Errorf("build articles: %w", err)
	}
	for _, f := range failures {
		log.Warn().Err(f.Err).Str("slug", f.Slug).Msg("article skipped")
	}
	res.Articles = len(outs)
	res.Failures = failures

	for _, r := range rb.BuildListingRoutes() {
		data, err := marshal(b.listing(r))
		if err != nil {
			return nil, fmt.Errorf("build %s: %w", r, err)
		}
		outs = append(outs, output{route: r, data: data})
	}

	outDir := b.Cfg.Build.PublicDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir public: %w", err)
	}

	cfgHash := dbuild.HashBytes([]byte(fmt.Sprintf("%d", b.Cfg.Catalog.RelatedLimit)))
	manifest := make(map[string]index.Entry, len(outs))
	for _, o := range outs {
		fp := dbuild.Fingerprint{
			ContentHash:  dbuild.HashBytes(o.data),
			RendererHash: b.Serializer.Fingerprint(),
			ConfigHash:   cfgHash,
		}
		fp.ComputeOutputHash()

		rel := o.route.OutPath
		manifest[rel] = index.Entry{Route: string(o.route.Kind), Hash: fp.OutputHash, RunID: res.RunID}

		if e, ok := prev[rel]; ok && e.Hash == fp.OutputHash && fileExists(outDir, rel) {
			res.Unchanged++
			continue
		}
		if err := writeFile(outDir, rel, o.data); err != nil {
			return nil, fmt.Errorf("write %s: %w", rel, err)
		}
		log.Debug().Stringer("route", o.route).Msg("written")
		res.Written++
	}

	for rel := range prev {
		if _, ok := manifest[rel]; ok {
			continue
		}
		err := os.Remove(filepath.Join(outDir, filepath.FromSlash(rel)))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("prune %s: %w", rel, err)
		}
		log.Debug().Str("path", rel).Msg("pruned")
		res.Pruned++
	}

	run := index.Run{
		ID:        res.RunID,
		Started:   started,
		Finished:  time.Now(),
		Written:   res.Written,
		Unchanged: res.Unchanged,
		Pruned:    res.Pruned,
	}
	for _, f := range failures {
		run.Failed = append(run.Failed, f.Slug)
	}
	if err := st.Commit(run, manifest); err != nil {
		return nil, fmt.Errorf("failed to commit export index: %w", err)
	}

	log.Info().
		Int("articles", res.Articles).
		Int("written", res.Written).
		Int("unchanged", res.Unchanged).
		Int("pruned", res.Pruned).
		Int("failed", len(failures)).
		Msg("export complete")
	return res, nil
}

type articleJob struct {
	idx   int
	route site.Route
}

type articleResult struct {
	idx  int
	out  output
	fail *Failure
	err  error
}

// buildArticles compiles every article on a worker pool. A compilation
// failure drops that article only; any other error aborts the export.
func (b *Builder) buildArticles(ctx context.Context, routes []site.Route) ([]output, []Failure, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := b.Cfg.Build.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	jobs := make(chan articleJob)
	results := make(chan articleResult)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				r := b.buildArticle(ctx, j.route)
				r.idx = j.idx
				results <- r
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, r := range routes {
			select {
			case jobs <- articleJob{idx: i, route: r}:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	slots := make([]articleResult, len(routes))
	var firstErr error
	for r := range results {
		if r.err != nil && firstErr == nil {
			firstErr = r.err
			cancel()
		}
		slots[r.idx] = r
	}
	if firstErr != nil {
		return nil, nil, firstErr
	}

	var outs []output
	var failures []Failure
	for _, r := range slots {
		if r.fail != nil {
			failures = append(failures, *r.fail)
			continue
		}
		outs = append(outs, r.out)
	}
	return outs, failures, nil
}

type relatedRef struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Date     string `json:"date"`
}

type articleDoc struct {
	Article content.SerializedArticle `json:"article"`
	Related []relatedRef              `json:"related"`
}

func (b *Builder) buildArticle(ctx context.Context, r site.Route) articleResult {
	a, ok := b.Catalog.BySlugPath(r.Slug)
	if !ok {
		return articleResult{err: fmt.Errorf("%s: %w", r.Slug, domainerr.ErrNotFound)}
	}

	sa, err := b.Serializer.Serialize(ctx, a)
	if err != nil {
		var cerr *domainerr.ContentCompilationError
		if errors.As(err, &cerr) {
			return articleResult{fail: &Failure{Slug: a.ID(), Err: err}}
		}
		return articleResult{err: err}
	}

	refs := []relatedRef{}
	for _, rel := range b.Catalog.Related(a.CategoryDir, a.Slug, b.Cfg.Catalog.RelatedLimit) {
		refs = append(refs, relatedRef{ID: rel.ID(), Title: rel.Title, Category: rel.Category, Date: rel.Date})
	}

	data, err := marshal(articleDoc{Article: sa, Related: refs})
	if err != nil {
		return articleResult{err: err}
	}
	return articleResult{out: output{route: r, data: data}}
}

type categoryDoc struct {
	Name     string            `json:"name"`
	Dir      string            `json:"slug"`
	Articles []content.Article `json:"articles"`
}

type tagDoc struct {
	Tag      string            `json:"tag"`
	Articles []content.Article `json:"articles"`
}

func (b *Builder) listing(r site.Route) any {
	c := b.Catalog
	switch r.Kind {
	case site.RouteIndex:
		return summaries(c.All())
	case site.RouteFeatured:
		return summaries(c.Featured())
	case site.RouteCategories:
		return c.Stats()
	case site.RouteTags:
		return c.Tags()
	case site.RouteCategory:
		return categoryDoc{Name: c.CategoryName(r.Key), Dir: r.Key, Articles: summaries(c.ByCategoryDir(r.Key))}
	case site.RouteTag:
		return tagDoc{Tag: r.Key, Articles: summaries(c.ByTag(r.Key))}
	default:
		return nil
	}
}

// summaries drops article bodies from listings.
func summaries(arts []content.Article) []content.Article {
	for i := range arts {
		arts[i].Content = ""
	}
	return arts
}

func marshal(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func fileExists(root, rel string) bool {
	_, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	return err == nil
}

func writeFile(root, rel string, data []byte) error {
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}
