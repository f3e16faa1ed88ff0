package quill

import (
	"os"
	"sync"

	"github.com/pkg/errors"
)

// ModuleKind classifies a Module (spec.md §3).
type ModuleKind int

const (
	// ModuleUser is an ordinary template/script file loaded from the
	// project's source tree.
	ModuleUser ModuleKind = iota
	// ModuleData is a content file (front matter + body), indexed by
	// the content package rather than evaluated directly as a template.
	ModuleData
	// ModuleSystem is a module synthesized by the host rather than read
	// from disk, such as the front-matter object literal parsed by
	// ParseAndEvalObjectLiteral.
	ModuleSystem
)

// Module is a loaded, parsed source file: its path, its parsed root
// node, a parse-error flag, and its kind (spec.md §3). The module
// registry owns the parsed AST for the lifetime of a build.
type Module struct {
	Path   string
	Kind   ModuleKind
	Source string

	Root       Node
	ParseError bool

	diags []*Diagnostic
}

// Diagnostics returns the lexical/syntax diagnostics recorded while
// loading this module.
func (m *Module) Diagnostics() []*Diagnostic { return m.diags }

// Registry is the module registry of spec.md §4.4: a mapping from
// normalised absolute path to Module, populated on demand and reused
// across repeated requests. Grounded on pongo2's TemplateSet
// (template_sets.go): a path-keyed cache guarded by a mutex, with
// Resolve-then-FromCache semantics.
type Registry struct {
	mu      sync.Mutex
	modules map[string]*Module
	sink    *Sink

	// Read loads the raw bytes for a path; overridable (e.g. by tests).
	// Defaults to os.ReadFile.
	Read func(path string) ([]byte, error)
}

// NewRegistry creates an empty Registry reporting into sink.
func NewRegistry(sink *Sink) *Registry {
	return &Registry{
		modules: make(map[string]*Module),
		sink:    sink,
		Read:    defaultRead,
	}
}

func defaultRead(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Load returns the cached Module for path, loading and parsing it on
// first request. A lexer/parser failure that prevents building a
// Module at all (e.g. the file cannot be read) is a host-boundary
// failure per spec.md §7 and is returned as an error; lexical/syntax
// diagnostics that still produce a best-effort AST are instead recorded
// on m.ParseError and the registry's sink, matching "the module is
// marked parse_error but the AST is still returned".
func (r *Registry) Load(path string, kind ModuleKind, asScript bool) (*Module, error) {
	norm := NormalizePath(path)
	r.mu.Lock()
	if m, ok := r.modules[norm]; ok {
		r.mu.Unlock()
		return m, nil
	}
	r.mu.Unlock()

	raw, err := r.Read(norm)
	if err != nil {
		return nil, errors.Wrapf(err, "quill: reading module %q", norm)
	}
	m := r.parse(norm, string(raw), kind, asScript)

	r.mu.Lock()
	r.modules[norm] = m
	r.mu.Unlock()
	return m, nil
}

// LoadString registers src directly under path without touching disk,
// for source text the caller already holds (e.g. inline templates in
// tests).
func (r *Registry) LoadString(path string, src string, kind ModuleKind, asScript bool) *Module {
	norm := NormalizePath(path)
	r.mu.Lock()
	if m, ok := r.modules[norm]; ok {
		r.mu.Unlock()
		return m
	}
	r.mu.Unlock()

	m := r.parse(norm, src, kind, asScript)

	r.mu.Lock()
	r.modules[norm] = m
	r.mu.Unlock()
	return m
}

func (r *Registry) parse(path, src string, kind ModuleKind, asScript bool) *Module {
	m := &Module{Path: path, Kind: kind, Source: src}
	tokens, lexDiags := Lex(m, src, asScript)
	p := newParser(m, tokens, asScript)
	root, parseOK := p.parseTemplate()
	m.Root = root

	var diags []*Diagnostic
	diags = append(diags, lexDiags...)
	diags = append(diags, p.diags...)
	m.diags = diags
	for _, d := range diags {
		if r.sink != nil {
			r.sink.Report(d)
		}
	}
	if !parseOK || len(lexDiags) > 0 || len(p.diags) > 0 {
		m.ParseError = hasParseBlockingError(diags)
	}
	return m
}

// hasParseBlockingError reports whether diags contains anything that
// should set Module.ParseError — lexical or syntax diagnostics, not
// runtime ones (a module is only ever parsed once, so runtime
// diagnostics never appear here, but the check stays kind-based for
// clarity and future reuse).
func hasParseBlockingError(diags []*Diagnostic) bool {
	for _, d := range diags {
		if d.Kind == DiagLexical || d.Kind == DiagSyntax {
			return true
		}
	}
	return false
}

// Sink returns the registry's diagnostic sink.
func (r *Registry) Sink() *Sink { return r.sink }

// ParseAndEvalObjectLiteral is the parser's second entry point named in
// spec.md §2 ("two entry points: full template/script, and
// object-literal"), used by the content package to evaluate a content
// file's front matter directly to a Value instead of routing it through
// the template/statement pipeline (which would stringify an object
// literal to nothing, per spec.md §4.3's stringification rule).
func ParseAndEvalObjectLiteral(reg *Registry, path, src string) (*Value, []*Diagnostic, error) {
	m := &Module{Path: path, Kind: ModuleSystem, Source: src}
	tokens, lexDiags := Lex(m, src, true)
	p := newParser(m, tokens, true)
	node, _ := p.parseObjectLiteral()
	m.Root = node

	arena := NewArena()
	env := NewEnvironment(arena, reg.sink)
	r := Eval(node, env)

	diags := append(append([]*Diagnostic{}, lexDiags...), p.diags...)
	return r.val, diags, nil
}

// Get returns the already-loaded module at path, if any.
func (r *Registry) Get(path string) (*Module, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.modules[NormalizePath(path)]
	return m, ok
}
