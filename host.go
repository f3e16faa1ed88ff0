package quill

import "fmt"

// EvalModule evaluates m's root node against env and returns the
// resulting value, implementing the first bullet of the site-map
// boundary contract in spec.md §4.5 ("evaluate a module against an
// environment, returning a value"). A module with a parse error is
// skipped entirely, per spec.md §4.2/§7 ("the caller must check the
// flag before evaluating").
func EvalModule(m *Module, env *Environment) (*Value, error) {
	if m.ParseError {
		return NilValue, fmt.Errorf("quill: module %q has parse errors, not evaluated", m.Path)
	}
	r := Eval(m.Root, env)
	if r.kind == ctlReturn || r.kind == ctlValue {
		return r.val, nil
	}
	// A break/continue escaping all the way to module scope is a
	// programmer error; evaluation simply yields nil rather than
	// unwinding (spec.md §5: "errors do not unwind through user code").
	return NilValue, nil
}

// EvalTemplateWithLayout evaluates m, then implements spec.md §4.5's
// layout chaining: if the environment's LAYOUT binding is set to a
// string after evaluation, that path is resolved relative to m's own
// directory, CONTENT is set to the rendered output, LAYOUT is cleared,
// and the layout template is evaluated recursively against a fresh
// child environment that inherits env's exports. Cycle-freedom is the
// caller's responsibility, per spec.md §4.5.
func EvalTemplateWithLayout(reg *Registry, m *Module, env *Environment) (*Value, error) {
	v, err := EvalModule(m, env)
	if err != nil {
		return v, err
	}
	layoutVal, ok := env.Lookup(SymLayout)
	if !ok || !layoutVal.IsString() || layoutVal.Str() == "" {
		return v, nil
	}
	layoutPath := RelativePath(m.Path, layoutVal.Str())
	layoutMod, err := reg.Load(layoutPath, ModuleUser, false)
	if err != nil {
		return v, err
	}
	next := env.NewChildWithExports()
	next.Define(SymContent, v)
	next.Define(SymLayout, NilValue)
	return EvalTemplateWithLayout(reg, layoutMod, next)
}

// RegisterNative binds name to a native function in env, implementing
// the site-map boundary's "register a native function under a name"
// (spec.md §4.5).
func RegisterNative(env *Environment, name string, fn func(env *Environment, args []*Value) (*Value, bool)) {
	sym := Intern(name)
	env.Define(sym, env.Arena().NewNative(&NativeFunc{Name: name, Fn: fn}))
}

// CopyValue copies v into dst, implementing the site-map boundary's
// "copy a value across arenas" (spec.md §4.5); used when the scheduler
// stashes a captured value (e.g. front-matter data) in an outer arena
// that outlives the template's own per-evaluation arena.
func CopyValue(dst *Arena, v *Value) *Value {
	return copyValue(dst, v)
}

// Global binding names read/written across the site-map boundary
// (spec.md §4.5). Declared once here so the host and core agree on
// spelling without either side hardcoding string literals.
var (
	SymSrcRoot         = Intern("SRC_ROOT")
	SymDistRoot        = Intern("DIST_ROOT")
	SymPath            = Intern("PATH")
	SymLayout          = Intern("LAYOUT")
	SymContent         = Intern("CONTENT")
	SymRootURL         = Intern("ROOT_URL")
	SymRootPath        = Intern("ROOT_PATH")
	SymSiteMap         = Intern("SITE_MAP")
	SymReversePaths    = Intern("REVERSE_PATHS")
	SymContentHandlers = Intern("CONTENT_HANDLERS")
)
