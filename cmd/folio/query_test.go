package main

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"folio/internal/catalog"
	"folio/internal/domain/content"
)

func TestFilterArticlesCombinesFlags(t *testing.T) {
	c := catalog.FromRecords([]content.ArticleRecord{
		{Slug: "tech/go-tips", Date: "2024-03-01", Tags: []string{"go"}, Featured: true},
		{Slug: "tech/rust", Date: "2024-02-01", Tags: []string{"rust"}},
		{Slug: "life/garden", Date: "2024-01-01", Tags: []string{"Go"}},
	}, catalog.Options{Logger: zerolog.Nop()})

	tests := []struct {
		name     string
		tag      string
		dir      string
		featured bool
		want     string
	}{
		{"none", "", "", false, "tech/go-tips,tech/rust,life/garden"},
		{"tag", "GO", "", false, "tech/go-tips,life/garden"},
		{"tag and dir", "go", "life", false, "life/garden"},
		{"dir and featured", "", "tech", true, "tech/go-tips"},
		{"no match", "rust", "life", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, a := range filterArticles(c, tt.tag, tt.dir, tt.featured) {
				got = append(got, a.ID())
			}
			if s := strings.Join(got, ","); s != tt.want {
				t.Errorf("got %q, want %q", s, tt.want)
			}
		})
	}
}
