package render

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/yuin/goldmark/ast"
)

// componentTag matches JSX-style component markup: <Callout>, </Callout>,
// <Chart data="x" />. Component names start with an upper-case letter,
// which keeps plain HTML tags out of the check.
var componentTag = regexp.MustCompile(`<(/?)([A-Z][A-Za-z0-9.]*)(\s[^<>]*?)?(/?)>`)

// checkComponents verifies that component tags embedded in raw HTML are
// balanced. Tags inside code spans and fenced blocks are not raw HTML and
// are never inspected.
func checkComponents(doc ast.Node, src []byte) error {
	var raw bytes.Buffer
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.HTMLBlock:
			lines := v.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				raw.Write(seg.Value(src))
			}
			if v.HasClosure() {
				raw.Write(v.ClosureLine.Value(src))
			}
		case *ast.RawHTML:
			for i := 0; i < v.Segments.Len(); i++ {
				seg := v.Segments.At(i)
				raw.Write(seg.Value(src))
			}
		}
		return ast.WalkContinue, nil
	})

	var open []string
	for _, m := range componentTag.FindAllSubmatch(raw.Bytes(), -1) {
		closing, name, selfClosing := len(m[1]) > 0, string(m[2]), len(m[4]) > 0
		switch {
		case selfClosing:
		case closing:
			if len(open) == 0 {
				return fmt.Errorf("unexpected closing tag </%s>", name)
			}
			if top := open[len(open)-1]; top != name {
				return fmt.Errorf("expected </%s>, found </%s>", top, name)
			}
			open = open[:len(open)-1]
		default:
			open = append(open, name)
		}
	}
	if len(open) > 0 {
		return fmt.Errorf("unclosed component <%s>", open[len(open)-1])
	}
	return nil
}
