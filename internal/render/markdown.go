package render

import (
	"bytes"
	"context"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"folio/internal/domain/content"
	domainerr "folio/internal/domain/errors"
)

// Version identifies the compiled output format. Bump it whenever the
// pipeline changes what it emits.
const Version = "folio-md/1"

type Option func(*options)

type options struct {
	highlightStyle string
}

// WithHighlighting enables chroma syntax highlighting of fenced code blocks
// with the named style, e.g. "monokai". An empty style disables it.
func WithHighlighting(style string) Option {
	return func(o *options) { o.highlightStyle = style }
}

// Serializer compiles article bodies to HTML. It holds no per-call state and
// is safe for concurrent use.
type Serializer struct {
	md    goldmark.Markdown
	style string
}

func NewSerializer(opts ...Option) *Serializer {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	exts := []goldmark.Extender{extension.GFM}
	if o.highlightStyle != "" {
		exts = append(exts, highlighting.NewHighlighting(
			highlighting.WithStyle(o.highlightStyle),
		))
	}

	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(util.Prioritized(headingAnchors{}, 500)),
		),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &Serializer{md: md, style: o.highlightStyle}
}

// Fingerprint describes the serializer configuration; outputs compiled
// under different fingerprints are not interchangeable.
func (s *Serializer) Fingerprint() string {
	return Version + "+" + s.style
}

// Serialize compiles a's body and returns it with the article metadata.
// A body that cannot be compiled yields *domainerr.ContentCompilationError.
func (s *Serializer) Serialize(ctx context.Context, a content.Article) (content.SerializedArticle, error) {
	src, err := s.Compile(ctx, a.ID(), []byte(a.Content))
	if err != nil {
		return content.SerializedArticle{}, err
	}
	return a.Serialized(src), nil
}

func (s *Serializer) Compile(ctx context.Context, slug string, body []byte) (content.Source, error) {
	if err := ctx.Err(); err != nil {
		return content.Source{}, err
	}

	doc := s.md.Parser().Parse(text.NewReader(body), parser.WithContext(parser.NewContext()))
	if err := checkComponents(doc, body); err != nil {
		return content.Source{}, &domainerr.ContentCompilationError{Slug: slug, Err: err}
	}

	heads := []content.Heading{}
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			heads = append(heads, content.Heading{
				Level: h.Level,
				ID:    headingID(h),
				Text:  nodeText(h, body),
			})
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	var buf bytes.Buffer
	if err := s.md.Renderer().Render(&buf, body, doc); err != nil {
		return content.Source{}, &domainerr.ContentCompilationError{Slug: slug, Err: err}
	}
	return content.Source{
		CompiledSource: buf.String(),
		Headings:       heads,
	}, nil
}
