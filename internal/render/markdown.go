package render

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// MarkdownRenderer turns link and category descriptions into HTML. Raw HTML
// in the source is dropped since the workbook is edited by many hands.
type MarkdownRenderer struct {
	md goldmark.Markdown
}

func NewMarkdownRenderer() *MarkdownRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
			extension.Strikethrough,
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
	return &MarkdownRenderer{md: md}
}

func (r *MarkdownRenderer) Render(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Inline renders src and strips the paragraph wrapper goldmark puts around a
// single line, so short descriptions sit inside existing markup.
func (r *MarkdownRenderer) Inline(src string) (string, error) {
	out, err := r.Render([]byte(src))
	if err != nil {
		return "", err
	}
	out = bytes.TrimSpace(out)
	if bytes.HasPrefix(out, []byte("<p>")) && bytes.HasSuffix(out, []byte("</p>")) &&
		bytes.Count(out, []byte("<p>")) == 1 {
		out = out[len("<p>") : len(out)-len("</p>")]
	}
	return string(out), nil
}
