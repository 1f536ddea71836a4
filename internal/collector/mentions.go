package collector

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/harrison/atpath/internal/pathutil"
)

// trailingPunct is trimmed from a mention that ends a sentence or list item.
// Emphasis delimiters are included since mentions are read from raw source.
const trailingPunct = ".,;:!?)]}\"'`*_"

// MentionParser finds decorated path mentions in Markdown prose
type MentionParser struct {
	markdown goldmark.Markdown
	pattern  *regexp.Regexp
	prefix   string
}

// NewMentionParser matches mentions written with prefix, e.g. "@/"
func NewMentionParser(prefix string) *MentionParser {
	return &MentionParser{
		markdown: goldmark.New(),
		pattern:  regexp.MustCompile(`(?:^|[\s(*_])` + regexp.QuoteMeta(prefix) + `(\S+)`),
		prefix:   prefix,
	}
}

// Mentions returns the relative paths mentioned in source, deduplicated in
// order of appearance. Code spans and code blocks are ignored.
func (p *MentionParser) Mentions(source []byte) []string {
	if p.prefix == "" {
		return nil
	}
	doc := p.markdown.Parser().Parse(text.NewReader(source))
	prose := collectProse(doc, source)

	seen := make(map[string]bool)
	var out []string
	for _, m := range p.pattern.FindAllStringSubmatch(prose, -1) {
		rel := pathutil.Normalize(strings.TrimRight(cutLinkTail(m[1]), trailingPunct))
		if rel == "" || pathutil.Escapes(rel) || seen[rel] {
			continue
		}
		seen[rel] = true
		out = append(out, rel)
	}
	return out
}

// collectProse returns the raw source of every text block, one block per
// line, with code spans and inline HTML blanked out. Emphasis is not
// unwrapped so that paths like __init__.py survive intact.
func collectProse(doc ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Type() != ast.TypeBlock {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		}
		lines := n.Lines()
		if lines == nil || lines.Len() == 0 {
			return ast.WalkContinue, nil
		}
		start, stop := lines.At(0).Start, lines.At(lines.Len()-1).Stop
		raw := bytes.Clone(source[start:stop])
		blankInlineCode(n, raw, start)
		buf.Write(raw)
		buf.WriteByte('\n')
		return ast.WalkSkipChildren, nil
	})
	return buf.String()
}

// blankInlineCode overwrites the code spans and raw HTML under block with
// spaces. raw holds the source starting at offset.
func blankInlineCode(block ast.Node, raw []byte, offset int) {
	blank := func(seg text.Segment) {
		for i := max(seg.Start-offset, 0); i < min(seg.Stop-offset, len(raw)); i++ {
			raw[i] = ' '
		}
	}
	_ = ast.Walk(block, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.CodeSpan:
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					blank(t.Segment)
				}
			}
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			for i := 0; i < node.Segments.Len(); i++ {
				blank(node.Segments.At(i))
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
}

// cutLinkTail drops the "](dest)" or "][ref]" that follows a mention used as
// link text
func cutLinkTail(m string) string {
	for _, sep := range []string{"](", "]["} {
		if i := strings.Index(m, sep); i >= 0 {
			m = m[:i]
		}
	}
	return m
}
