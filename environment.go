package quill

import "fmt"

// Severity classifies a pending native-function error (spec.md §3, §7).
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// nativeError is the "current-error slot" spec.md §3 assigns to every
// Environment: at most one pending native-function failure, with an
// optional argument-index hint used to attribute the diagnostic to the
// offending call-site argument rather than the whole call expression.
type nativeError struct {
	message  string
	argIndex int // -1 if the error isn't attributable to a specific argument
	severity Severity
}

// Environment is a mapping from Symbol to Value, plus an export list and
// a parent pointer for module-level inheritance (spec.md §3). It is
// exclusively owned by its Arena: every Value reachable from an
// Environment must belong to the same Arena (or have been copied in via
// copyValue).
type Environment struct {
	arena  *Arena
	parent *Environment

	vars  map[*Symbol]*Value
	order []*Symbol // insertion order, for deterministic copy/export enumeration

	exports map[*Symbol]bool

	// callSite records the call expression of the closure call this
	// Environment was created for (set by callClosure). Nothing reads it:
	// errors raised inside the call are reported at the position of the
	// failing node in the function body, not at the call expression.
	callSite Node

	err *nativeError

	// loopDepth counts enclosing `for` loops, used to validate and clamp
	// break/continue levels (spec.md §4.3).
	loopDepth int

	// Trace gates Tracef output the way pongo2's TemplateSet.Debug gates
	// ExecutionContext.Logf.
	Trace bool

	// diagSink is where the evaluator reports diagnostics (spec.md §7);
	// inherited by every child Environment so the whole evaluation of a
	// module shares one sink.
	diagSink *Sink
}

// newEnvironment creates an Environment in arena with the given parent
// (nil for a root/module-level environment).
func newEnvironment(arena *Arena, parent *Environment) *Environment {
	env := &Environment{
		arena:   arena,
		parent:  parent,
		vars:    make(map[*Symbol]*Value),
		exports: make(map[*Symbol]bool),
	}
	if parent != nil {
		env.loopDepth = parent.loopDepth
		env.Trace = parent.Trace
		env.diagSink = parent.diagSink
	}
	return env
}

// NewEnvironment creates a fresh root Environment for a new Arena,
// reporting diagnostics into sink. A nil sink is replaced with a fresh
// private one so Environment is always safe to use standalone (e.g. in
// tests).
func NewEnvironment(arena *Arena, sink *Sink) *Environment {
	env := newEnvironment(arena, nil)
	if sink == nil {
		sink = NewSink()
	}
	env.diagSink = sink
	return env
}

// sink returns the Environment's diagnostic sink.
func (env *Environment) sink() *Sink {
	if env.diagSink == nil {
		env.diagSink = NewSink()
	}
	return env.diagSink
}

// NewChild creates a scope for a nested block (if/for/fn body) on the
// same arena, chained to env via parent for lookup fallback.
func (env *Environment) NewChild() *Environment {
	return newEnvironment(env.arena, env)
}

// NewChildWithExports creates a child Environment that inherits the
// creator's exports as already-defined bindings, matching the site-map
// boundary contract of spec.md §4.5: "create a child environment that
// inherits the creator's exports".
func (env *Environment) NewChildWithExports() *Environment {
	child := newEnvironment(env.arena, nil)
	child.diagSink = env.diagSink
	child.Trace = env.Trace
	for sym := range env.exports {
		if v, ok := env.vars[sym]; ok {
			child.Define(sym, v)
		}
	}
	return child
}

// Define binds name to val in this Environment's own scope (shadowing
// any parent binding).
func (env *Environment) Define(sym *Symbol, val *Value) {
	if _, exists := env.vars[sym]; !exists {
		env.order = append(env.order, sym)
	}
	env.vars[sym] = val
}

// Lookup resolves sym, walking parent scopes. The bool reports whether
// it was found.
func (env *Environment) Lookup(sym *Symbol) (*Value, bool) {
	for e := env; e != nil; e = e.parent {
		if v, ok := e.vars[sym]; ok {
			return v, true
		}
	}
	return nil, false
}

// Assign writes to an existing binding of sym, searching outward from
// env; it defines sym in env itself if no existing binding is found
// anywhere in the chain (assignment to a previously-undeclared name
// creates it, matching the language's lack of a separate `var`
// declaration form — every binding is created by assignment, `fn`
// parameters, or `for`/`export`).
func (env *Environment) Assign(sym *Symbol, val *Value) {
	for e := env; e != nil; e = e.parent {
		if _, ok := e.vars[sym]; ok {
			e.vars[sym] = val
			return
		}
	}
	env.Define(sym, val)
}

// Export binds sym to val in this Environment's own scope and marks it
// exported, so the binding is visible to NewChildWithExports.
func (env *Environment) Export(sym *Symbol, val *Value) {
	env.Define(sym, val)
	env.exports[sym] = true
}

// Exports returns the exported symbols in declaration order.
func (env *Environment) Exports() []*Symbol {
	var out []*Symbol
	for _, sym := range env.order {
		if env.exports[sym] {
			out = append(out, sym)
		}
	}
	return out
}

// orderedNames returns the symbols defined directly in env (not
// ancestors), in insertion order.
func (env *Environment) orderedNames() []*Symbol {
	return env.order
}

// SetError records a pending native-function diagnostic. argIndex is -1
// when the error should be attributed to the call site rather than a
// specific argument (spec.md §3 invariant).
func (env *Environment) SetError(message string, argIndex int, severity Severity) {
	env.err = &nativeError{message: message, argIndex: argIndex, severity: severity}
}

// TakeError returns and clears the pending native error, if any. The
// evaluator calls this immediately after every native dispatch
// (spec.md §4.3, §5).
func (env *Environment) TakeError() (*nativeError, bool) {
	e := env.err
	env.err = nil
	if e == nil {
		return nil, false
	}
	return e, true
}

// ClearError discards any pending native error without reporting it;
// used before each native dispatch (spec.md §4.3: "The environment
// error slot is cleared before each native dispatch").
func (env *Environment) ClearError() {
	env.err = nil
}

// EnterLoop increments the loop-nesting counter for the duration of a
// `for` body evaluation; callers must defer ExitLoop.
func (env *Environment) EnterLoop() { env.loopDepth++ }
func (env *Environment) ExitLoop()  { env.loopDepth-- }

// LoopDepth reports the current loop nesting.
func (env *Environment) LoopDepth() int { return env.loopDepth }

// Arena returns the Arena this Environment is owned by.
func (env *Environment) Arena() *Arena { return env.arena }

// Tracef writes a debug trace line when env.Trace is set, mirroring
// pongo2's ExecutionContext.Logf gated by TemplateSet.Debug.
func (env *Environment) Tracef(format string, args ...any) {
	if env.Trace {
		fmt.Printf("[quill] "+format+"\n", args...)
	}
}
