package html

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"unicode"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// CSSFetcher loads the text of an external stylesheet referenced by
// <link rel="stylesheet" href="...">.
type CSSFetcher func(uri string) (string, error)

// Parse reads an HTML document. Tree construction is the HTML5 algorithm from
// golang.org/x/net/html, so the result always carries html, head and body.
func Parse(r io.Reader) (*Document, error) {
	return ParseWithFetcher(r, nil)
}

// ParseString is Parse over an in-memory string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// ParseWithFetcher is Parse with a fetcher for external stylesheets. A nil
// fetcher only resolves data: URIs.
func ParseWithFetcher(r io.Reader, fetch CSSFetcher) (*Document, error) {
	tree, err := xhtml.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	doc := NewDocument()
	b := &builder{doc: doc, fetch: fetch}
	for c := tree.FirstChild; c != nil; c = c.NextSibling {
		b.convert(c, doc.Root)
	}
	return doc, nil
}

type builder struct {
	doc   *Document
	fetch CSSFetcher
}

func (b *builder) convert(src *xhtml.Node, parent *Node) {
	switch src.Type {
	case xhtml.TextNode:
		if strings.TrimSpace(src.Data) == "" {
			return
		}
		parent.AppendText(normalizeWhitespace(src.Data))
		return
	case xhtml.ElementNode:
	default:
		// comments, doctype
		return
	}

	switch src.DataAtom {
	case atom.Style:
		b.doc.Stylesheets = append(b.doc.Stylesheets, rawText(src))
		return
	case atom.Script:
		if _, external := attr(src, "src"); !external {
			b.doc.Scripts = append(b.doc.Scripts, rawText(src))
		}
		return
	case atom.Link:
		if rel, _ := attr(src, "rel"); strings.Contains(rel, "stylesheet") {
			if href, ok := attr(src, "href"); ok {
				if css := b.loadLinkStylesheet(href); css != "" {
					b.doc.Stylesheets = append(b.doc.Stylesheets, css)
				}
			}
		}
	}

	node := NewElement(src.Data, nil)
	for _, a := range src.Attr {
		node.Attributes[strings.ToLower(a.Key)] = a.Val
	}
	parent.AddChild(node)
	for c := src.FirstChild; c != nil; c = c.NextSibling {
		b.convert(c, node)
	}
}

// loadLinkStylesheet resolves a data URI inline and anything else through
// the fetcher.
func (b *builder) loadLinkStylesheet(href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "data:text/css,") {
		encoded := href[len("data:text/css,"):]
		decoded, err := url.PathUnescape(encoded)
		if err != nil {
			return encoded
		}
		return decoded
	}
	if b.fetch == nil {
		return ""
	}
	css, err := b.fetch(href)
	if err != nil {
		slog.Debug("html: stylesheet not loaded", "href", href, "err", err)
		return ""
	}
	return css
}

func attr(n *xhtml.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func rawText(n *xhtml.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xhtml.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

// normalizeWhitespace collapses runs of whitespace to a single space,
// keeping one space at either boundary so inline runs stay separated.
func normalizeWhitespace(s string) string {
	hasLeading := len(s) > 0 && unicode.IsSpace(rune(s[0]))
	hasTrailing := len(s) > 0 && unicode.IsSpace(rune(s[len(s)-1]))

	result := strings.Join(strings.Fields(s), " ")
	if hasLeading {
		result = " " + result
	}
	if hasTrailing {
		result = result + " "
	}
	return result
}
