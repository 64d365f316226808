package app_test

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"folio/internal/app"
	"folio/internal/catalog"
	"folio/internal/domain/content"
	"folio/internal/domain/site"
)

func TestRoutes(t *testing.T) {
	c := catalog.FromRecords([]content.ArticleRecord{
		{Slug: "tech/hello-world", Date: "2024-02-01", Tags: []string{"Go", "C++"}},
		{Slug: "life/a b", Date: "2024-01-01", Tags: []string{"go"}},
	}, catalog.Options{Logger: zerolog.Nop()})
	rb := &app.RouteBuilder{Catalog: c}

	arts := rb.BuildArticleRoutes()
	if len(arts) != 2 {
		t.Fatalf("article routes: %v", arts)
	}
	if arts[0].OutPath != "articles/tech/hello-world.json" || arts[0].Slug != "tech/hello-world" {
		t.Errorf("route 0: %s", arts[0])
	}
	if arts[1].OutPath != "articles/life/a%20b.json" {
		t.Errorf("route 1: %s", arts[1])
	}

	paths := map[string]site.RouteKind{}
	for _, r := range rb.BuildListingRoutes() {
		if _, dup := paths[r.OutPath]; dup {
			t.Errorf("duplicate out path %s", r.OutPath)
		}
		paths[r.OutPath] = r.Kind
	}
	for p, kind := range map[string]site.RouteKind{
		"articles.json":        site.RouteIndex,
		"categories/tech.json": site.RouteCategory,
		"categories/life.json": site.RouteCategory,
		"tags/go.json":         site.RouteTag,
		"tags/c++.json":        site.RouteTag,
	} {
		if paths[p] != kind {
			t.Errorf("%s: got kind %q, want %q", p, paths[p], kind)
		}
	}
}

func TestRoutesAreOnePerArticleAndTag(t *testing.T) {
	c := catalog.FromRecords([]content.ArticleRecord{
		{Slug: "tech/v1.0", Date: "2024-03-01", Tags: []string{"C++", "Go"}},
		{Slug: "tech/v1-0", Date: "2024-02-01", Tags: []string{"C#", "GO"}},
		{Slug: "tech/..", Date: "2024-01-01"},
		{Slug: "_", Date: "2023-01-01"},
	}, catalog.Options{Logger: zerolog.Nop()})
	rb := &app.RouteBuilder{Catalog: c}

	tests := []struct {
		name string
		kind site.RouteKind
		want []string
	}{
		{"articles", site.RouteArticle, []string{
			"articles/tech/v1.0.json",
			"articles/tech/v1-0.json",
			"articles/tech/%2E%2E.json",
			"articles/_/_.json",
		}},
		{"tags", site.RouteTag, []string{"tags/c++.json", "tags/go.json", "tags/c%23.json"}},
	}
	routes := append(rb.BuildArticleRoutes(), rb.BuildListingRoutes()...)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, r := range routes {
				if r.Kind == tt.kind {
					got = append(got, r.OutPath)
				}
			}
			if strings.Join(got, " ") != strings.Join(tt.want, " ") {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
