package quill

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Kind identifies which variant of the tagged union a Value holds.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindSymbol
	KindString
	KindArray
	KindObject
	KindTime
	KindNative
	KindClosure
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindSymbol:
		return "symbol"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindTime:
		return "time"
	case KindNative:
		return "native function"
	case KindClosure:
		return "function"
	default:
		return "unknown"
	}
}

// NativeFunc is a host-provided function registered under a name (spec.md
// §4.5). It receives already-evaluated arguments and the calling
// Environment (for error attribution) and returns a result value. A
// native reports failure by writing to env's error slot (see
// Environment.SetError) and returning (NilValue, false); the evaluator
// reads and clears that slot at the call boundary (spec.md §4.3).
type NativeFunc struct {
	Name string
	Fn   func(env *Environment, args []*Value) (*Value, bool)
}

// Closure is a function value: parameter names, the (shared, not copied)
// body AST, and a child Environment holding a snapshot of only the free
// variables the function body actually references (spec.md §3, §9).
type Closure struct {
	Params []*Symbol
	Body   *FuncNode
	Env    *Environment
}

// objectEntry is one (key, value) pair of an Object, in insertion order.
type objectEntry struct {
	key *Value
	val *Value
}

// objectData is an insertion-ordered mapping from Value to Value. Below
// objectIndexThreshold entries, lookup is a linear scan (cheap and cache
// friendly for the common small-front-matter case); at or above it, a
// hash index from a canonical key representation to entry index is
// maintained for O(1) lookup, per spec.md §9. Entries are never removed.
const objectIndexThreshold = 8

type objectData struct {
	entries []objectEntry
	index   map[string]int
}

func (o *objectData) find(key *Value) int {
	if o.index != nil {
		if i, ok := o.index[keyRepr(key)]; ok {
			return i
		}
		return -1
	}
	for i := range o.entries {
		if valueEqual(o.entries[i].key, key) {
			return i
		}
	}
	return -1
}

func (o *objectData) buildIndex() {
	o.index = make(map[string]int, len(o.entries)*2)
	for i, e := range o.entries {
		o.index[keyRepr(e.key)] = i
	}
}

// Set inserts key->val, replacing any existing entry for key in place
// (preserving its position), per spec.md §3 invariant.
func (o *objectData) Set(key, val *Value) {
	if i := o.find(key); i >= 0 {
		o.entries[i].val = val
		return
	}
	o.entries = append(o.entries, objectEntry{key: key, val: val})
	if o.index != nil {
		o.index[keyRepr(key)] = len(o.entries) - 1
	} else if len(o.entries) >= objectIndexThreshold {
		o.buildIndex()
	}
}

// Get returns the value for key, or nil if absent.
func (o *objectData) Get(key *Value) (*Value, bool) {
	if i := o.find(key); i >= 0 {
		return o.entries[i].val, true
	}
	return nil, false
}

// keyRepr builds a canonical string encoding of a Value for use as an
// object's hash-index key. Equal nil, bool, int, float, symbol, string
// and time values always produce the same representation; arrays,
// objects and functions are represented by pointer identity, so once the
// index exists a structurally equal but distinct container key does not
// match.
func keyRepr(v *Value) string {
	var b strings.Builder
	writeKeyRepr(&b, v)
	return b.String()
}

func writeKeyRepr(b *strings.Builder, v *Value) {
	b.WriteByte(byte(v.kind))
	b.WriteByte(':')
	switch v.kind {
	case KindNil:
	case KindBool:
		if v.b {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	case KindInt:
		b.WriteString(strconv.FormatInt(v.i, 10))
	case KindFloat:
		b.WriteString(strconv.FormatFloat(v.f, 'g', -1, 64))
	case KindSymbol:
		b.WriteString(v.sym.name)
	case KindString:
		b.WriteString(v.str)
	case KindTime:
		b.WriteString(strconv.FormatInt(v.i, 10))
	default:
		// Arrays, objects, natives and closures are not meaningfully
		// hashable by content here; fall back to pointer identity so
		// that at least repeated lookups of the very same value work.
		fmt.Fprintf(b, "%p", v.ptr())
	}
}

func (v *Value) ptr() any {
	switch v.kind {
	case KindArray:
		return v.arr
	case KindObject:
		return v.obj
	case KindNative:
		return v.native
	case KindClosure:
		return v.clo
	default:
		return nil
	}
}

// arrayData is a growable sequence of Value.
type arrayData struct {
	items []*Value
}

// Value is the dynamically-typed tagged union at the heart of the
// runtime: nil, true, false, int, float, symbol, string, array, object,
// time, native function, closure (spec.md §3). Every Value belongs to
// exactly one Arena; copying a Value across arenas must go through
// copyValue.
type Value struct {
	kind Kind

	b   bool
	i   int64
	f   float64
	sym *Symbol
	str string
	arr *arrayData
	obj *objectData

	native *NativeFunc
	clo    *Closure
}

// Singletons for the three values with no payload; safe to share across
// arenas since they are immutable and hold no arena-owned pointers.
var (
	NilValue   = &Value{kind: KindNil}
	TrueValue  = &Value{kind: KindBool, b: true}
	FalseValue = &Value{kind: KindBool, b: false}
)

// NewSymbolValue builds a symbol Value directly from a name, without
// requiring an Arena: symbols carry no arena-owned backing storage (the
// interned Symbol lives in the process-wide table), so this is safe to
// use as a throwaway object-literal key when probing a Value built in
// any arena, e.g. from host code outside the evaluator.
func NewSymbolValue(name string) *Value {
	return &Value{kind: KindSymbol, sym: Intern(name)}
}

func boolValue(b bool) *Value {
	if b {
		return TrueValue
	}
	return FalseValue
}

// NewInt creates an int Value in a.
func (a *Arena) NewInt(i int64) *Value { return &Value{kind: KindInt, i: i} }

// NewFloat creates a float Value in a.
func (a *Arena) NewFloat(f float64) *Value { return &Value{kind: KindFloat, f: f} }

// NewString creates a string Value in a. Strings are immutable once
// created.
func (a *Arena) NewString(s string) *Value { return &Value{kind: KindString, str: s} }

// NewSymbol wraps an interned Symbol as a Value.
func (a *Arena) NewSymbol(s *Symbol) *Value { return &Value{kind: KindSymbol, sym: s} }

// NewTime creates a time Value from POSIX seconds.
func (a *Arena) NewTime(unixSeconds int64) *Value { return &Value{kind: KindTime, i: unixSeconds} }

// NewBool returns the shared true/false singleton for b.
func (a *Arena) NewBool(b bool) *Value { return boolValue(b) }

// NewArray creates an array Value from items (copied into a fresh slice
// owned by this Value).
func (a *Arena) NewArray(items ...*Value) *Value {
	cp := make([]*Value, len(items))
	copy(cp, items)
	return &Value{kind: KindArray, arr: &arrayData{items: cp}}
}

// NewObject creates an empty object Value.
func (a *Arena) NewObject() *Value {
	return &Value{kind: KindObject, obj: &objectData{}}
}

// NewNative wraps a host function as a Value.
func (a *Arena) NewNative(n *NativeFunc) *Value {
	return &Value{kind: KindNative, native: n}
}

// NewClosure wraps a Closure as a Value.
func (a *Arena) NewClosure(c *Closure) *Value {
	return &Value{kind: KindClosure, clo: c}
}

// --- Introspection -----------------------------------------------------

func (v *Value) Kind() Kind { return v.kind }

func (v *Value) IsNil() bool     { return v.kind == KindNil }
func (v *Value) IsBool() bool    { return v.kind == KindBool }
func (v *Value) IsInt() bool     { return v.kind == KindInt }
func (v *Value) IsFloat() bool   { return v.kind == KindFloat }
func (v *Value) IsNumber() bool  { return v.kind == KindInt || v.kind == KindFloat }
func (v *Value) IsSymbol() bool  { return v.kind == KindSymbol }
func (v *Value) IsString() bool  { return v.kind == KindString }
func (v *Value) IsArray() bool   { return v.kind == KindArray }
func (v *Value) IsObject() bool  { return v.kind == KindObject }
func (v *Value) IsTime() bool    { return v.kind == KindTime }
func (v *Value) IsNative() bool  { return v.kind == KindNative }
func (v *Value) IsClosure() bool { return v.kind == KindClosure }
func (v *Value) IsCallable() bool {
	return v.kind == KindNative || v.kind == KindClosure
}

// Bool returns the boolean payload; only meaningful when IsBool.
func (v *Value) Bool() bool { return v.b }

// Int returns the int payload, converting from float by truncation.
func (v *Value) Int() int64 {
	switch v.kind {
	case KindInt, KindTime:
		return v.i
	case KindFloat:
		return int64(v.f)
	default:
		return 0
	}
}

// Float returns the float payload, promoting from int.
func (v *Value) Float() float64 {
	switch v.kind {
	case KindFloat:
		return v.f
	case KindInt:
		return float64(v.i)
	default:
		return 0
	}
}

// Symbol returns the symbol payload.
func (v *Value) Symbol() *Symbol { return v.sym }

// Str returns the string payload (empty for non-strings).
func (v *Value) Str() string { return v.str }

// Array returns the backing items slice (do not mutate the returned
// slice's identity outside of the array-mutating helpers below).
func (v *Value) Array() []*Value {
	if v.arr == nil {
		return nil
	}
	return v.arr.items
}

// ArrayAppend appends val to the array in place.
func (v *Value) ArrayAppend(val *Value) {
	v.arr.items = append(v.arr.items, val)
}

// ObjectKeys returns the object's keys in insertion order.
func (v *Value) ObjectKeys() []*Value {
	keys := make([]*Value, len(v.obj.entries))
	for i, e := range v.obj.entries {
		keys[i] = e.key
	}
	return keys
}

// ObjectEntries returns the object's (key, value) pairs in insertion
// order.
func (v *Value) ObjectEntries() (keys, vals []*Value) {
	keys = make([]*Value, len(v.obj.entries))
	vals = make([]*Value, len(v.obj.entries))
	for i, e := range v.obj.entries {
		keys[i] = e.key
		vals[i] = e.val
	}
	return
}

// ObjectSet inserts or replaces key->val in an object Value.
func (v *Value) ObjectSet(key, val *Value) { v.obj.Set(key, val) }

// ObjectGet looks up key in an object Value.
func (v *Value) ObjectGet(key *Value) (*Value, bool) { return v.obj.Get(key) }

// Native returns the native-function payload.
func (v *Value) Native() *NativeFunc { return v.native }

// Closure returns the closure payload.
func (v *Value) Closure() *Closure { return v.clo }

// --- Truthiness, ordering, equality, stringification -------------------

// IsTrue implements the truthiness rule of spec.md §4.3: nil, false, 0,
// 0.0, empty string, empty array, empty object are false; everything
// else is true.
func (v *Value) IsTrue() bool {
	switch v.kind {
	case KindNil:
		return false
	case KindBool:
		return v.b
	case KindInt:
		return v.i != 0
	case KindFloat:
		return v.f != 0
	case KindString:
		return v.str != ""
	case KindArray:
		return len(v.arr.items) > 0
	case KindObject:
		return len(v.obj.entries) > 0
	default:
		return true
	}
}

// Negate returns the logical negation used by the prefix `not` operator.
func (v *Value) Negate() *Value { return boolValue(!v.IsTrue()) }

// Len reports the element count of an array, object, or string; the
// caller (the evaluator) is responsible for only calling this on those
// kinds.
func (v *Value) Len() int {
	switch v.kind {
	case KindString:
		return len(v.str)
	case KindArray:
		return len(v.arr.items)
	case KindObject:
		return len(v.obj.entries)
	default:
		return 0
	}
}

// valueEqual implements structural equality: two values are equal only
// if their kinds match (spec.md §3 invariant), so an int never equals a
// float (2 != 2.0). It backs the `==`/`!=` operators, switch/case
// matching and object key comparison alike.
func valueEqual(a, b *Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNil:
		return true
	case KindBool:
		return a.b == b.b
	case KindInt:
		return a.i == b.i
	case KindFloat:
		return a.f == b.f
	case KindSymbol:
		return a.sym == b.sym
	case KindString:
		return a.str == b.str
	case KindTime:
		return a.i == b.i
	case KindArray:
		if len(a.arr.items) != len(b.arr.items) {
			return false
		}
		for i := range a.arr.items {
			if !valueEqual(a.arr.items[i], b.arr.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		// spec.md §9 Open Questions: defined (corrected) as "same size
		// and, for every key in a, b contains the same key mapped to an
		// equal value" — not the source's apparent a-looks-up-in-a bug.
		if len(a.obj.entries) != len(b.obj.entries) {
			return false
		}
		for _, e := range a.obj.entries {
			bv, ok := b.obj.Get(e.key)
			if !ok || !valueEqual(e.val, bv) {
				return false
			}
		}
		return true
	case KindNative:
		return a.native == b.native
	case KindClosure:
		return a.clo == b.clo
	default:
		return false
	}
}

// String renders the stringification of v per spec.md §4.3: nil and
// false produce nothing; true produces "true"; int/float use a
// canonical numeric format; a symbol prints its bytes; a string prints
// verbatim; array/object produce nothing (must be rendered via `for`);
// time prints ISO-8601 with local offset; functions produce nothing.
func (v *Value) String() string {
	switch v.kind {
	case KindNil:
		return ""
	case KindBool:
		if v.b {
			return "true"
		}
		return ""
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return formatFloat(v.f)
	case KindSymbol:
		return v.sym.name
	case KindString:
		return v.str
	case KindTime:
		return time.Unix(v.i, 0).Local().Format("2006-01-02T15:04:05-07:00")
	default:
		return ""
	}
}

// formatFloat renders a float in quill's canonical numeric format: the
// shortest decimal that round-trips, always with at least one digit
// after the point for integral values so floats are visually distinct
// from ints. NaN prints as "nan" and infinities as "+Inf"/"-Inf".
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

// DebugString renders v for diagnostics (e.g. "array[object]"), never
// used for template output.
func (v *Value) DebugString() string {
	switch v.kind {
	case KindArray:
		parts := make([]string, len(v.arr.items))
		for i, it := range v.arr.items {
			parts[i] = it.DebugString()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindObject:
		keys, vals := v.ObjectEntries()
		parts := make([]string, len(keys))
		for i := range keys {
			parts[i] = keys[i].DebugString() + ": " + vals[i].DebugString()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindString:
		return strconv.Quote(v.str)
	case KindNil:
		return "nil"
	case KindClosure:
		return "fn(...)"
	case KindNative:
		return "native:" + v.native.Name
	default:
		return v.String()
	}
}

// SortValues returns a copy of items sorted by a tag-difference
// ordering for heterogeneous slices: numbers sort by value, strings
// lexically, and cross-type ordering falls back to Kind order (spec.md
// §9 Open Questions: "the spec treats cross-type ordering as
// unspecified" — this is one valid, documented choice, not a core
// operation, surfaced to scripts via the builtins package's "sort"
// native rather than any operator or core evaluator path).
func SortValues(items []*Value) []*Value {
	cp := make([]*Value, len(items))
	copy(cp, items)
	sort.SliceStable(cp, func(i, j int) bool {
		a, b := cp[i], cp[j]
		if a.IsNumber() && b.IsNumber() {
			return a.Float() < b.Float()
		}
		if a.kind == KindString && b.kind == KindString {
			return a.str < b.str
		}
		return a.kind < b.kind
	})
	return cp
}
