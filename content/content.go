// Package content indexes a "data" source file: a leading object
// literal (front matter) followed by a plain-text body, the "structured
// front matter plus a body" content indexer named in spec.md §1 as an
// external collaborator. It is a thin consumer of the parser's second
// entry point (spec.md §2: "two entry points: full template/script, and
// object-literal").
package content

import (
	"strings"

	"github.com/quillssg/quill"
)

// Item is one indexed content file: its parsed front-matter object
// (nil if there was none) and the remaining body text.
type Item struct {
	Path string
	Meta *quill.Value
	Body string
}

// delimiter marks the end of a leading front-matter object literal.
// A file has front matter only if it starts (after any spaces or tabs)
// with `{` and contains this delimiter on its own line: everything before
// the first delimiter is the front matter and everything after it is the
// body. Otherwise the whole file is the body.
const delimiter = "\n---\n"

// Index reads src (the already-loaded bytes of a content file named
// path) and splits it into front matter plus body.
func Index(reg *quill.Registry, path string, src string) (*Item, error) {
	head, body, hasFrontMatter := splitFrontMatter(src)
	item := &Item{Path: path, Body: body}
	if !hasFrontMatter {
		item.Body = src
		return item, nil
	}

	v, diags, err := quill.ParseAndEvalObjectLiteral(reg, path+"#frontmatter", head)
	if err != nil {
		return item, err
	}
	for _, d := range diags {
		reg.Sink().Report(d)
	}
	item.Meta = v
	return item, nil
}

func splitFrontMatter(src string) (head, body string, ok bool) {
	if !strings.HasPrefix(strings.TrimLeft(src, " \t"), "{") {
		return "", src, false
	}
	idx := strings.Index(src, delimiter)
	if idx < 0 {
		return "", src, false
	}
	return src[:idx], src[idx+len(delimiter):], true
}
