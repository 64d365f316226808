package render_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"folio/internal/domain/content"
	domainerr "folio/internal/domain/errors"
	"folio/internal/render"
)

func compile(t *testing.T, body string) content.Source {
	t.Helper()
	src, err := render.NewSerializer().Compile(context.Background(), "tech/test", []byte(body))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return src
}

func TestDuplicateHeadingsGetUniqueIDs(t *testing.T) {
	src := compile(t, "## Setup\n\nfirst\n\n## Setup\n\nsecond\n\n## Setup\n")

	want := []string{"setup", "setup-1", "setup-2"}
	if len(src.Headings) != len(want) {
		t.Fatalf("headings: got %+v", src.Headings)
	}
	for i, h := range src.Headings {
		if h.ID != want[i] || h.Text != "Setup" || h.Level != 2 {
			t.Errorf("heading %d: got %+v, want id %q", i, h, want[i])
		}
	}
	if !strings.Contains(src.CompiledSource, `<h2 id="setup-1"><a href="#setup-1" class="anchor">Setup</a></h2>`) {
		t.Errorf("anchored heading missing in:\n%s", src.CompiledSource)
	}
}

func TestHeadingSlugs(t *testing.T) {
	tests := []struct {
		md   string
		want string
	}{
		{"# Hello, World! 2024", "hello-world-2024"},
		{"## Go & Rust", "go--rust"},
		{"### Using `fmt.Println`", "using-fmtprintln"},
		{"## **Bold** move", "bold-move"},
		{"## snake_case-ok", "snake_case-ok"},
		{"## !!!", "heading"},
	}
	for _, tt := range tests {
		t.Run(tt.md, func(t *testing.T) {
			src := compile(t, tt.md)
			if len(src.Headings) != 1 || src.Headings[0].ID != tt.want {
				t.Errorf("got %+v, want id %q", src.Headings, tt.want)
			}
		})
	}
}

func TestGFMExtensions(t *testing.T) {
	src := compile(t, strings.Join([]string{
		"| a | b |",
		"|---|---|",
		"| 1 | 2 |",
		"",
		"~~old~~",
		"",
		"- [x] done",
		"",
		"visit https://example.com now",
	}, "\n"))

	for _, want := range []string{
		"<table>",
		"<del>old</del>",
		`type="checkbox"`,
		`<a href="https://example.com">https://example.com</a>`,
	} {
		if !strings.Contains(src.CompiledSource, want) {
			t.Errorf("missing %q in:\n%s", want, src.CompiledSource)
		}
	}
}

func TestComponentsPassThrough(t *testing.T) {
	body := "<Callout>\n\nHello **there**\n\n</Callout>\n\nPress <Kbd>Ctrl</Kbd> now.\n\n<Chart data=\"x\" />\n"
	src := compile(t, body)
	if !strings.Contains(src.CompiledSource, "<Callout>") || !strings.Contains(src.CompiledSource, "<strong>there</strong>") {
		t.Errorf("components should pass through:\n%s", src.CompiledSource)
	}
}

func TestComponentsInCodeAreIgnored(t *testing.T) {
	compile(t, "```jsx\n<Callout>\n```\n\nInline `<Tabs>` too.\n")
}

func TestMalformedComponentFails(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unclosed", "<Callout>\n\nHello\n"},
		{"stray close", "text\n\n</Callout>\n"},
		{"mismatched", "<Tabs>\n\n<Tab>\n\nx\n\n</Tabs>\n"},
	}
	s := render.NewSerializer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := content.Article{Slug: "broken", CategoryDir: "tech", Content: tt.body}
			_, err := s.Serialize(context.Background(), a)

			var cerr *domainerr.ContentCompilationError
			if !errors.As(err, &cerr) {
				t.Fatalf("want ContentCompilationError, got %v", err)
			}
			if cerr.Slug != "tech/broken" {
				t.Errorf("slug: got %q", cerr.Slug)
			}
		})
	}
}

func TestSerializeCarriesMetadata(t *testing.T) {
	a := content.Article{
		Slug:        "intro",
		CategoryDir: "tech",
		Category:    "Tech",
		Title:       "Intro",
		Tags:        []string{"go"},
		Content:     "# Intro\n",
		ReadingTime: content.EstimateReadingTime("# Intro", 200),
	}
	sa, err := render.NewSerializer(render.WithHighlighting("monokai")).Serialize(context.Background(), a)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if sa.Title != "Intro" || sa.Category != "Tech" || sa.ReadingTime.Words != 2 {
		t.Errorf("metadata lost: %+v", sa)
	}
	if !strings.Contains(sa.Source.CompiledSource, `id="intro"`) {
		t.Errorf("compiled source: %s", sa.Source.CompiledSource)
	}
}

func TestSerializeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := render.NewSerializer().Serialize(ctx, content.Article{Slug: "a", CategoryDir: "b"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestSerializeConcurrent(t *testing.T) {
	s := render.NewSerializer()
	bodies := make([]string, 16)
	want := make([]string, len(bodies))
	for i := range bodies {
		bodies[i] = fmt.Sprintf("## Part %d\n\n## Part %d\n\ntext %d\n", i, i, i)
		src, err := s.Compile(context.Background(), "x/y", []byte(bodies[i]))
		if err != nil {
			t.Fatalf("Compile: %v", err)
		}
		want[i] = src.CompiledSource
	}

	var wg sync.WaitGroup
	got := make([]string, len(bodies))
	for i := range bodies {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			src, err := s.Compile(context.Background(), "x/y", []byte(bodies[i]))
			if err != nil {
				t.Errorf("Compile %d: %v", i, err)
				return
			}
			got[i] = src.CompiledSource
		}(i)
	}
	wg.Wait()

	for i := range bodies {
		if got[i] != want[i] {
			t.Errorf("body %d differs under concurrency:\n%s\nvs\n%s", i, got[i], want[i])
		}
	}
}
