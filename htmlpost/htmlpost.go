// Package htmlpost is the "optional HTML post-processing (table-of-
// contents, link rewriting, code highlighting)" collaborator named in
// spec.md §1, applied to a template's rendered string output after
// evaluation — a site-map boundary consumer, not part of the core.
// Image resizing is a separate, pre-render concern (a script calls the
// resize_image builtin directly on source bytes, not on rendered HTML)
// so it lives in the builtins package instead. htmlpost walks the
// rendered HTML tree with golang.org/x/net/html rather than scanning
// with regular expressions, since every transform here needs real tree
// structure (heading nesting for the TOC, anchor/src attributes
// wherever they occur for link rewriting, pre/code pairing for
// highlighting) that a line-oriented scan cannot give reliably.
package htmlpost

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Heading is one entry collected for a table of contents.
type Heading struct {
	Level int // 1 for h1, 2 for h2, ...
	Text  string
	ID    string
}

// TableOfContents walks doc's h1-h6 elements in document order, giving
// each one an id (slugified from its text, deduplicated) if it doesn't
// already have one, and returns the collected outline.
func TableOfContents(doc *html.Node) []Heading {
	seen := make(map[string]int)
	var out []Heading
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level, ok := headingLevel(n.DataAtom); ok {
				text := textContent(n)
				id := attr(n, "id")
				if id == "" {
					id = uniqueSlug(seen, text)
					setAttr(n, "id", id)
				}
				out = append(out, Heading{Level: level, Text: text, ID: id})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

func headingLevel(a atom.Atom) (int, bool) {
	switch a {
	case atom.H1:
		return 1, true
	case atom.H2:
		return 2, true
	case atom.H3:
		return 3, true
	case atom.H4:
		return 4, true
	case atom.H5:
		return 5, true
	case atom.H6:
		return 6, true
	default:
		return 0, false
	}
}

// RewriteLinks applies rewrite to every href/src attribute value found
// on <a>, <img>, <link>, and <script> elements in doc, in place. rewrite
// returns the new value for a given old one; it is typically used to
// turn a site-relative source path into its published web path (the
// REVERSE_PATHS mapping the sitemap package builds, spec.md §4.5).
func RewriteLinks(doc *html.Node, rewrite func(string) string) {
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			attrName := linkAttrFor(n.DataAtom)
			if attrName != "" {
				if v := attr(n, attrName); v != "" {
					setAttr(n, attrName, rewrite(v))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
}

// Highlight walks doc's <pre><code class="language-x"> blocks and
// replaces their contents with chroma/v2's syntax-highlighted markup,
// the tree-transform counterpart of builtins/html.go's highlight_code
// native (that one highlights a string a script fetches explicitly;
// this one highlights code fences a Markdown-ish renderer already
// turned into <pre><code> before the page reaches post-processing). A
// block whose language chroma doesn't recognize, or that fails to
// highlight, is left untouched.
func Highlight(doc *html.Node) {
	var blocks []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Code && n.Parent != nil && n.Parent.DataAtom == atom.Pre {
			blocks = append(blocks, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	for _, code := range blocks {
		lang := codeLanguage(attr(code, "class"))
		if lang == "" {
			continue
		}
		var buf bytes.Buffer
		if err := quick.Highlight(&buf, textContent(code), lang, "html", "github"); err != nil {
			continue
		}
		nodes, err := html.ParseFragment(&buf, &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"})
		if err != nil {
			continue
		}
		for c := code.FirstChild; c != nil; {
			next := c.NextSibling
			code.RemoveChild(c)
			c = next
		}
		for _, n := range nodes {
			code.AppendChild(n)
		}
	}
}

// codeLanguage extracts "go" from a fenced-code-block class attribute
// like "language-go" (the convention CommonMark renderers emit).
func codeLanguage(class string) string {
	for _, f := range strings.Fields(class) {
		if lang, ok := strings.CutPrefix(f, "language-"); ok {
			return lang
		}
	}
	return ""
}

func linkAttrFor(a atom.Atom) string {
	switch a {
	case atom.A, atom.Link:
		return "href"
	case atom.Img, atom.Script:
		return "src"
	default:
		return ""
	}
}

// Render parses src as a complete HTML document (html.Parse supplies any
// missing html/head/body elements), applies transforms in order, and
// returns the serialized document.
func Render(src string, transforms ...func(*html.Node)) (string, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return "", err
	}
	for _, t := range transforms {
		t(doc)
	}
	var buf strings.Builder
	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var buf strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		buf.WriteString(textContent(c))
	}
	return buf.String()
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, name, val string) {
	for i, a := range n.Attr {
		if a.Key == name {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: val})
}

func uniqueSlug(seen map[string]int, text string) string {
	base := slugify(text)
	if base == "" {
		base = "section"
	}
	seen[base]++
	if seen[base] == 1 {
		return base
	}
	return base + "-" + itoa(seen[base]-1)
}

func slugify(s string) string {
	var buf strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			buf.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				buf.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(buf.String(), "-")
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
