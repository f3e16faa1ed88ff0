// Package quill implements the runtime for a small embedded scripting and
// templating language used to drive a static-site generator.
//
// A root script declares how source files become output artefacts (pages,
// paginated listings, copied assets); templates interleave markup with
// `{ expr }` expressions and control constructs (if/for/switch/fn); values
// are dynamically typed and arena-owned so that an entire evaluation's
// memory can be released as one unit.
//
// The pipeline is: bytes -> Lex -> token stream -> Parse -> AST -> Eval
// (with an Environment and an Arena) -> Value. Evaluating the root script
// populates a site-map (see the sitemap package) whose entries are later
// replayed, each replay re-evaluating a template module against a child
// Environment and writing its rendered output.
//
// A tiny example:
//
//	{ for x in [1, 2, 3] }{ x },{ end }
//
// renders as "1,2,3,".
package quill
