package builtins

import (
	"strings"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/quillssg/quill"
)

// registerHTML wires HTML-facing natives: syntax highlighting of fenced
// code blocks, the concrete "highlight_code" component SPEC_FULL.md §3
// assigns to github.com/alecthomas/chroma/v2, and a minimal escape
// helper every HTML-emitting template needs. Grounded on
// _examples/AndrewCouncil-chroma's lexer-definition tooling for which
// library this is (chroma/v2), though that repo builds lexer XML rather
// than calling the formatter API directly — the formatter/style/lexer
// triad used below (quick.Highlight) is chroma/v2's own published
// one-call entry point for "source + language name -> highlighted HTML".
func registerHTML(env *quill.Environment) {
	native(env, "highlight_code", func(env *quill.Environment, args []*quill.Value) (*quill.Value, bool) {
		if !argCount(env, "highlight_code", args, 2) {
			return quill.NilValue, false
		}
		source, ok := argString(env, "highlight_code", args, 0)
		if !ok {
			return quill.NilValue, false
		}
		lang, ok := argString(env, "highlight_code", args, 1)
		if !ok {
			return quill.NilValue, false
		}
		style := optString(args, 2, "github")

		var buf strings.Builder
		if err := quick.Highlight(&buf, source, lang, "html", style); err != nil {
			return fail(env, "highlight_code", err.Error())
		}
		return env.Arena().NewString(buf.String()), true
	})

	native(env, "escape_html", func(env *quill.Environment, args []*quill.Value) (*quill.Value, bool) {
		if !argCount(env, "escape_html", args, 1) {
			return quill.NilValue, false
		}
		s, ok := argString(env, "escape_html", args, 0)
		if !ok {
			return quill.NilValue, false
		}
		return env.Arena().NewString(escapeHTML(s)), true
	})
}

// escapeHTML is the minimal five-entity HTML escape, the same set
// pongo2's filterEscape (filters_builtin.go) produces for its `escape`
// filter.
func escapeHTML(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	return r.Replace(s)
}
