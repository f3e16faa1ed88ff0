package quill

// Node is satisfied by every AST node kind listed in spec.md §3. Every
// node carries its module reference and source span for diagnostic
// attribution.
type Node interface {
	Module() *Module
	Span() (Pos, Pos)
}

// NodeBase is embedded by every concrete node type to provide the
// common Module/Span bookkeeping, mirroring pongo2's embedded
// tagLineTracker/posTracker pattern in nodes.go.
type NodeBase struct {
	Mod        *Module
	Start, End Pos
}

func (n *NodeBase) Module() *Module       { return n.Mod }
func (n *NodeBase) Span() (Pos, Pos)      { return n.Start, n.End }
func (n *NodeBase) setSpan(s, e Pos)      { n.Start, n.End = s, e }

// TextNode is a literal run of template text (outside any `{ }` tag).
type TextNode struct {
	NodeBase
	Text string
}

// NameNode references a variable by symbol. Suppress is set by a
// trailing `?` and silences "undefined variable" (but not type errors).
type NameNode struct {
	NodeBase
	Name     *Symbol
	Suppress bool
}

type IntLit struct {
	NodeBase
	Value int64
}

type FloatLit struct {
	NodeBase
	Value float64
}

// StringPart is one piece of a (possibly interpolated) string literal:
// either literal text or an embedded expression whose stringified
// result is spliced in (spec.md §6: `\{ expr \}`).
type StringPart struct {
	Text string
	Expr Node
}

// StringLit is a string literal. Single- and triple-quoted strings
// always have exactly one part with Expr == nil; double-quoted strings
// may interleave text parts and embedded-expression parts.
type StringLit struct {
	NodeBase
	Parts []StringPart
}

type ListLit struct {
	NodeBase
	Items []Node
}

// ObjectKeyNode is a bare `name:` key in an object literal: the name is
// used as a symbol constant, never looked up as a variable (spec.md
// §4.2: "name becomes a symbol key").
type ObjectKeyNode struct {
	NodeBase
	Name *Symbol
}

// ObjectLit is an object literal; Keys[i] is either an *ObjectKeyNode
// (bare `name:`) or an arbitrary expression (`(expr):`), per entry.
type ObjectLit struct {
	NodeBase
	Keys   []Node
	Values []Node
}

// AppNode is a function/closure application.
type AppNode struct {
	NodeBase
	Callee Node
	Args   []Node
}

// SubscriptNode is `target[index]`.
type SubscriptNode struct {
	NodeBase
	Target   Node
	Index    Node
	Suppress bool
}

// DotNode is `target.name`.
type DotNode struct {
	NodeBase
	Target   Node
	Name     *Symbol
	Suppress bool
}

// PrefixNode is a unary operator: Op is "-" or "not".
type PrefixNode struct {
	NodeBase
	Op string
	X  Node
}

// InfixNode is a binary operator (arithmetic, comparison, equality,
// logical): Op is the operator text ("+", "==", "and", ...).
type InfixNode struct {
	NodeBase
	Op   string
	L, R Node
}

// TupleNode groups a comma-separated list of sub-expressions where the
// grammar calls for a plain grouping rather than a list literal (spec.md
// §3 names "tuple" as its own AST kind, distinct from a list literal).
type TupleNode struct {
	NodeBase
	Items []Node
}

// FuncNode is a function literal: parameter names, the precomputed
// free-variable set the parser collected by walking Body (spec.md
// §4.2), and the body.
type FuncNode struct {
	NodeBase
	Params []*Symbol
	Free   []*Symbol
	Body   Node
}

// IfNode: Else may be nil (defaults to nil value).
type IfNode struct {
	NodeBase
	Cond Node
	Then Node
	Else Node
}

// ForNode: Key may be nil (single-binding `for v in C`); Else runs, and
// its result is returned directly, when Coll is empty.
type ForNode struct {
	NodeBase
	Key, Val *Symbol
	Coll     Node
	Body     Node
	Else     Node
}

// SwitchNode: cases are tested in declaration order; Default may be nil.
type SwitchNode struct {
	NodeBase
	Scrutinee  Node
	CaseKeys   []Node
	CaseBodies []Node
	Default    Node
}

// ExportNode binds Name to Value in the current environment and marks
// it exported (spec.md §4.5's site-map-boundary export contract).
type ExportNode struct {
	NodeBase
	Name  *Symbol
	Value Node
}

// AssignNode: Op is "" for a plain `=`, otherwise the compound-assignment
// operator text ("+=", "-=", ...) sans the trailing `=`. Target is an
// lvalue: *NameNode, *SubscriptNode, or *DotNode.
type AssignNode struct {
	NodeBase
	Target Node
	Op     string
	Value  Node
}

// BlockNode evaluates its statements in order, concatenating their
// stringifications into one string value (spec.md §4.3), except that a
// `return`/`break`/`continue` result propagates through unstringified.
type BlockNode struct {
	NodeBase
	Stmts []Node
}

// SuppressNode evaluates X but downgrades any "undefined name/object
// property/array index" diagnostic raised while evaluating it to silence
// (spec.md §4.2's trailing `?`). `o.b?` is parsed as a DotNode with its
// own Suppress flag; SuppressNode wraps the postfix expressions that have
// no such flag, e.g. a call followed by `?` (`f(x)?`).
type SuppressNode struct {
	NodeBase
	X Node
}

type ReturnNode struct {
	NodeBase
	Value Node // nil for a bare `return`
}

type BreakNode struct {
	NodeBase
	Level int
}

type ContinueNode struct {
	NodeBase
	Level int
}
