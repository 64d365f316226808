package serve_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"folio/internal/domain/config"
	"folio/internal/domain/content"
	"folio/internal/ingest"
	"folio/internal/serve"
)

var records = []content.ArticleRecord{
	{Slug: "tech/go-tips", Title: "Go Tips", Date: "2024-03-01", Category: "Tech", Tags: []string{"go", "tips"}, Featured: true, Content: "## Setup\n\nText\n"},
	{Slug: "tech/rust", Title: "Rust", Date: "2024-02-01", Category: "Tech", Tags: []string{"rust"}, Content: "Body\n"},
	{Slug: "life/garden", Title: "Garden", Date: "2024-01-01", Category: "Life", Tags: []string{"go"}, Content: "<Callout>\n\nunclosed\n"},
}

func writeData(t *testing.T, path string, recs ...content.ArticleRecord) {
	t.Helper()
	if err := ingest.WriteDataFile(path, ingest.BuildDataFile(recs, time.Now())); err != nil {
		t.Fatalf("WriteDataFile: %v", err)
	}
}

func newServer(t *testing.T, opts ...serve.Option) (*serve.Server, string) {
	t.Helper()
	cfg := config.Default()
	cfg.Build.DataFile = filepath.Join(t.TempDir(), "articles-data.json")
	writeData(t, cfg.Build.DataFile, records...)
	s := serve.New(context.Background(), cfg, zerolog.Nop(), opts...)
	t.Cleanup(func() { s.Close() })
	return s, cfg.Build.DataFile
}

func get(t *testing.T, h http.Handler, target string, v any) int {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	if v != nil && rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
			t.Fatalf("%s: decode: %v (%s)", target, err, rec.Body.String())
		}
	}
	return rec.Code
}

type summary struct {
	Slug        string `json:"slug"`
	CategoryDir string `json:"categoryDir"`
	Content     string `json:"content"`
}

func slugs(arts []summary) []string {
	out := make([]string, 0, len(arts))
	for _, a := range arts {
		out = append(out, a.CategoryDir+"/"+a.Slug)
	}
	return out
}

func TestListArticles(t *testing.T) {
	s, _ := newServer(t)
	h := s.Routes()

	tests := []struct {
		target string
		want   string
	}{
		{"/api/articles", "tech/go-tips,tech/rust,life/garden"},
		{"/api/articles?tag=GO", "tech/go-tips,life/garden"},
		{"/api/articles?category=Tech", "tech/go-tips,tech/rust"},
		{"/api/articles?featured=true", "tech/go-tips"},
		{"/api/articles?featured=false", "tech/rust,life/garden"},
		{"/api/articles?featured=false&tag=go", "life/garden"},
		{"/api/articles?tag=go&category=Life", "life/garden"},
		{"/api/articles?tag=none", ""},
	}
	for _, tt := range tests {
		var got []summary
		if code := get(t, h, tt.target, &got); code != http.StatusOK {
			t.Fatalf("%s: status %d", tt.target, code)
		}
		if s := strings.Join(slugs(got), ","); s != tt.want {
			t.Errorf("%s: got %q, want %q", tt.target, s, tt.want)
		}
		for _, a := range got {
			if a.Content != "" {
				t.Errorf("%s: listing carries content", tt.target)
			}
		}
	}

	if code := get(t, h, "/api/articles?featured=maybe", nil); code != http.StatusBadRequest {
		t.Errorf("bad featured: status %d", code)
	}
}

func TestGetArticle(t *testing.T) {
	s, _ := newServer(t)
	h := s.Routes()

	var got content.SerializedArticle
	if code := get(t, h, "/api/articles/tech/go-tips", &got); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if got.Title != "Go Tips" || !strings.Contains(got.Source.CompiledSource, `id="setup"`) {
		t.Errorf("article = %+v", got)
	}
	if len(got.Source.Headings) != 1 || got.Source.Headings[0].ID != "setup" {
		t.Errorf("headings = %+v", got.Source.Headings)
	}

	if code := get(t, h, "/api/articles/tech/missing", nil); code != http.StatusNotFound {
		t.Errorf("missing: status %d", code)
	}
	if code := get(t, h, "/api/articles/life/garden", nil); code != http.StatusNotFound {
		t.Errorf("broken body: status %d", code)
	}
}

func TestRelated(t *testing.T) {
	s, _ := newServer(t)
	h := s.Routes()

	var got []summary
	if code := get(t, h, "/api/articles/tech/go-tips/related?limit=1", &got); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	// same category outweighs one shared tag
	if s := strings.Join(slugs(got), ","); s != "tech/rust" {
		t.Errorf("related = %q", s)
	}

	if code := get(t, h, "/api/articles/tech/go-tips/related?limit=0", nil); code != http.StatusBadRequest {
		t.Errorf("limit=0: status %d", code)
	}
	if code := get(t, h, "/api/articles/tech/nope/related", nil); code != http.StatusNotFound {
		t.Errorf("unknown: status %d", code)
	}
}

func TestCategoriesAndTags(t *testing.T) {
	s, _ := newServer(t)
	h := s.Routes()

	var cats []struct {
		Name  string `json:"name"`
		Slug  string `json:"slug"`
		Count int    `json:"count"`
	}
	if code := get(t, h, "/api/categories", &cats); code != http.StatusOK || len(cats) != 2 {
		t.Fatalf("categories: %d %+v", code, cats)
	}

	var dir struct {
		Name     string    `json:"name"`
		Articles []summary `json:"articles"`
	}
	if code := get(t, h, "/api/category-dirs/tech", &dir); code != http.StatusOK {
		t.Fatalf("category dir: status %d", code)
	}
	if dir.Name != "Tech" || len(dir.Articles) != 2 {
		t.Errorf("category dir = %+v", dir)
	}
	if code := get(t, h, "/api/category-dirs/none", nil); code != http.StatusNotFound {
		t.Errorf("unknown dir: status %d", code)
	}

	var tags []string
	if code := get(t, h, "/api/tags", &tags); code != http.StatusOK {
		t.Fatalf("tags: status %d", code)
	}
	if strings.Join(tags, ",") != "go,tips,rust" {
		t.Errorf("tags = %v", tags)
	}
}

func TestReloadSwapsSnapshot(t *testing.T) {
	s, path := newServer(t, serve.WithReloadTries(1))
	ctx := context.Background()

	before := s.Catalog()
	writeData(t, path, records[0])
	if err := s.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if s.Catalog().Len() != 1 {
		t.Errorf("after reload: %d articles", s.Catalog().Len())
	}
	if before.Len() != 3 {
		t.Errorf("old snapshot changed: %d articles", before.Len())
	}

	if err := os.WriteFile(path, []byte(`{"articles": [`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.Reload(ctx); err == nil {
		t.Fatal("want error for malformed data file")
	}
	if s.Catalog().Len() != 1 {
		t.Errorf("failed reload replaced snapshot: %d articles", s.Catalog().Len())
	}
}

func TestMissingDataFileServesEmpty(t *testing.T) {
	cfg := config.Default()
	cfg.Build.DataFile = filepath.Join(t.TempDir(), "absent.json")
	s := serve.New(context.Background(), cfg, zerolog.Nop())

	var got []summary
	if code := get(t, s.Routes(), "/api/articles", &got); code != http.StatusOK || len(got) != 0 {
		t.Fatalf("status %d, %d articles", code, len(got))
	}
	if code := get(t, s.Routes(), "/healthz", nil); code != http.StatusOK {
		t.Errorf("healthz: status %d", code)
	}
}

func TestMetrics(t *testing.T) {
	s, _ := newServer(t)
	h := s.Routes()
	get(t, h, "/api/articles/life/garden", nil)
	get(t, h, "/api/tags", nil)

	rec := httptest.NewRecorder()
	s.MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		"folio_catalog_articles 3",
		"folio_compile_failures_total 1",
		`folio_http_requests_total{code="200",route="/api/tags"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}
