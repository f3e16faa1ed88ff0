package quill

import "fmt"

// ctlKind identifies which variant of the evaluator's control-flow
// result sum (spec.md §4.3) a result carries: a plain value, a function
// return, or a break/continue with an associated level.
type ctlKind int

const (
	ctlValue ctlKind = iota
	ctlReturn
	ctlBreak
	ctlContinue
)

// evalResult is the "interpreter result" of spec.md §4.3: one of
// value(v), return(v), break(n), continue(n). Non-value results
// propagate upward until consumed by the construct that understands
// them (fn call for return, for loop for break/continue).
type evalResult struct {
	kind  ctlKind
	val   *Value
	level int
}

func valueResult(v *Value) evalResult { return evalResult{kind: ctlValue, val: v} }

// isCtl reports whether r is a non-value control-flow signal that must
// propagate rather than be stringified in place.
func (r evalResult) isCtl() bool { return r.kind != ctlValue }

// Eval walks node, producing a value or a propagating control-flow
// signal. This is the single tree-walking entry point named in spec.md
// §2 ("Evaluator (25%)"); every node-kind branch below corresponds to a
// row of the semantics table in spec.md §4.3.
func Eval(node Node, env *Environment) evalResult {
	switch n := node.(type) {
	case *TextNode:
		return valueResult(env.Arena().NewString(n.Text))
	case *NameNode:
		return evalName(n, env)
	case *IntLit:
		return valueResult(env.Arena().NewInt(n.Value))
	case *FloatLit:
		return valueResult(env.Arena().NewFloat(n.Value))
	case *StringLit:
		return evalStringLit(n, env)
	case *ListLit:
		return evalListLit(n, env)
	case *ObjectLit:
		return evalObjectLit(n, env)
	case *AppNode:
		return evalApp(n, env)
	case *SubscriptNode:
		return evalSubscript(n, env)
	case *DotNode:
		return evalDot(n, env)
	case *PrefixNode:
		return evalPrefix(n, env)
	case *InfixNode:
		return evalInfix(n, env)
	case *TupleNode:
		return evalTuple(n, env)
	case *FuncNode:
		return valueResult(makeClosure(n, env))
	case *IfNode:
		return evalIf(n, env)
	case *ForNode:
		return evalFor(n, env)
	case *SwitchNode:
		return evalSwitch(n, env)
	case *ExportNode:
		return evalExport(n, env)
	case *AssignNode:
		return evalAssign(n, env)
	case *BlockNode:
		return evalBlock(n, env)
	case *SuppressNode:
		return evalSuppress(n, env)
	case *ReturnNode:
		return evalReturn(n, env)
	case *BreakNode:
		return evalBreak(n, env)
	case *ContinueNode:
		return evalContinue(n, env)
	case *ObjectKeyNode:
		return valueResult(env.Arena().NewSymbol(n.Name))
	default:
		return valueResult(NilValue)
	}
}

func report(env *Environment, node Node, kind DiagKind, msg string) {
	var mod *Module
	pos := Pos{}
	if node != nil {
		mod = node.Module()
		pos, _ = node.Span()
	}
	env.sink().Report(&Diagnostic{Kind: kind, Message: msg, Pos: pos, Module: mod, Severity: SeverityError})
}

func reportSuppressible(env *Environment, node Node, suppressed bool, msg string) *Value {
	var mod *Module
	pos := Pos{}
	if node != nil {
		mod = node.Module()
		pos, _ = node.Span()
	}
	env.sink().Report(&Diagnostic{
		Kind: DiagNotFound, Message: msg, Pos: pos, Module: mod,
		Severity: SeverityError, Suppressed: suppressed,
	})
	return NilValue
}

func evalName(n *NameNode, env *Environment) evalResult {
	if v, ok := env.Lookup(n.Name); ok {
		return valueResult(v)
	}
	return valueResult(reportSuppressible(env, n, n.Suppress, "undefined variable "+n.Name.String()))
}

func evalStringLit(n *StringLit, env *Environment) evalResult {
	buf := env.Arena().newStringBuffer()
	for _, part := range n.Parts {
		if part.Expr == nil {
			buf.WriteString(part.Text)
			continue
		}
		r := Eval(part.Expr, env)
		if r.isCtl() {
			return r
		}
		buf.WriteString(r.val.String())
	}
	return valueResult(buf.Finish())
}

func evalListLit(n *ListLit, env *Environment) evalResult {
	items := make([]*Value, 0, len(n.Items))
	for _, it := range n.Items {
		r := Eval(it, env)
		if r.isCtl() {
			return r
		}
		items = append(items, r.val)
	}
	return valueResult(env.Arena().NewArray(items...))
}

func evalObjectLit(n *ObjectLit, env *Environment) evalResult {
	obj := env.Arena().NewObject()
	for i, keyNode := range n.Keys {
		kr := Eval(keyNode, env)
		if kr.isCtl() {
			return kr
		}
		vr := Eval(n.Values[i], env)
		if vr.isCtl() {
			return vr
		}
		obj.ObjectSet(kr.val, vr.val)
	}
	return valueResult(obj)
}

func evalTuple(n *TupleNode, env *Environment) evalResult {
	items := make([]*Value, 0, len(n.Items))
	for _, it := range n.Items {
		r := Eval(it, env)
		if r.isCtl() {
			return r
		}
		items = append(items, r.val)
	}
	return valueResult(env.Arena().NewArray(items...))
}

// makeClosure snapshots only n.Free (the parser's precomputed
// free-variable set) from env into a fresh parentless Environment, so
// the closure never holds a pointer back to its creator (spec.md §3,
// §9: "this avoids cyclic references between environment and closure").
func makeClosure(n *FuncNode, env *Environment) *Value {
	snapshot := newEnvironment(env.arena, nil)
	snapshot.diagSink = env.diagSink
	for _, sym := range n.Free {
		if v, ok := env.Lookup(sym); ok {
			snapshot.Define(sym, v)
		}
	}
	return env.Arena().NewClosure(&Closure{Params: n.Params, Body: n, Env: snapshot})
}

func evalApp(n *AppNode, env *Environment) evalResult {
	cr := Eval(n.Callee, env)
	if cr.isCtl() {
		return cr
	}
	callee := cr.val
	args := make([]*Value, 0, len(n.Args))
	for _, a := range n.Args {
		r := Eval(a, env)
		if r.isCtl() {
			return r
		}
		args = append(args, r.val)
	}
	if !callee.IsCallable() {
		report(env, n.Callee, DiagTypeMismatch, "not a function")
		return valueResult(NilValue)
	}
	if callee.IsNative() {
		return valueResult(callNative(callee.Native(), env, n, args))
	}
	return valueResult(callClosure(callee.Closure(), env, n, args))
}

func callNative(nf *NativeFunc, env *Environment, callSite Node, args []*Value) *Value {
	env.ClearError()
	v, ok := nf.Fn(env, args)
	if nerr, has := env.TakeError(); has {
		attributeNativeError(env, callSite, args, nerr)
	}
	if !ok {
		return NilValue
	}
	if v == nil {
		return NilValue
	}
	return v
}

// attributeNativeError implements spec.md §4.3's attribution rule: "the
// evaluator, on return from the call, attributes the message to that
// argument's source node if in range, otherwise to the call site".
func attributeNativeError(env *Environment, callSite Node, args []*Value, nerr *nativeError) {
	var target Node = callSite
	if app, ok := callSite.(*AppNode); ok && nerr.argIndex >= 0 && nerr.argIndex < len(app.Args) {
		target = app.Args[nerr.argIndex]
	}
	report(env, target, DiagRuntime, nerr.message)
}

func callClosure(c *Closure, env *Environment, callSite Node, args []*Value) *Value {
	callEnv := c.Env.NewChild()
	callEnv.callSite = callSite
	for i, param := range c.Params {
		var v *Value = NilValue
		if i < len(args) {
			v = args[i]
		}
		callEnv.Define(param, v)
	}
	r := Eval(c.Body.Body, callEnv)
	switch r.kind {
	case ctlReturn:
		return r.val
	case ctlValue:
		return r.val
	default:
		// break/continue escaping a function body is a programmer error
		// the evaluator quietly treats as producing nil, matching the
		// "errors do not unwind through user code" policy of spec.md §5.
		return NilValue
	}
}

func evalSubscript(n *SubscriptNode, env *Environment) evalResult {
	tr := Eval(n.Target, env)
	if tr.isCtl() {
		return tr
	}
	ir := Eval(n.Index, env)
	if ir.isCtl() {
		return ir
	}
	target, idx := tr.val, ir.val
	switch target.Kind() {
	case KindObject:
		if v, ok := target.ObjectGet(idx); ok {
			return valueResult(v)
		}
		return valueResult(NilValue)
	case KindArray:
		i := idx.Int()
		items := target.Array()
		if i < 0 || i >= int64(len(items)) {
			return valueResult(reportSuppressible(env, n, n.Suppress, "array index out of range"))
		}
		return valueResult(items[i])
	case KindString:
		i := idx.Int()
		s := target.Str()
		if i < 0 || i >= int64(len(s)) {
			return valueResult(reportSuppressible(env, n, n.Suppress, "string index out of range"))
		}
		return valueResult(env.Arena().NewInt(int64(s[i])))
	default:
		report(env, n, DiagTypeMismatch, "value is not subscriptable")
		return valueResult(NilValue)
	}
}

func evalDot(n *DotNode, env *Environment) evalResult {
	tr := Eval(n.Target, env)
	if tr.isCtl() {
		return tr
	}
	if tr.val.Kind() != KindObject {
		report(env, n, DiagTypeMismatch, "value has no properties")
		return valueResult(NilValue)
	}
	key := env.Arena().NewSymbol(n.Name)
	if v, ok := tr.val.ObjectGet(key); ok {
		return valueResult(v)
	}
	return valueResult(reportSuppressible(env, n, n.Suppress, "undefined object property "+n.Name.String()))
}

func evalPrefix(n *PrefixNode, env *Environment) evalResult {
	r := Eval(n.X, env)
	if r.isCtl() {
		return r
	}
	switch n.Op {
	case "not":
		return valueResult(r.val.Negate())
	case "-":
		switch r.val.Kind() {
		case KindInt:
			return valueResult(env.Arena().NewInt(-r.val.Int()))
		case KindFloat:
			return valueResult(env.Arena().NewFloat(-r.val.Float()))
		default:
			report(env, n, DiagTypeMismatch, "operand of unary '-' is not a number")
			return valueResult(NilValue)
		}
	default:
		return valueResult(NilValue)
	}
}

func evalInfix(n *InfixNode, env *Environment) evalResult {
	if n.Op == "and" {
		lr := Eval(n.L, env)
		if lr.isCtl() {
			return lr
		}
		if !lr.val.IsTrue() {
			return valueResult(NilValue)
		}
		return Eval(n.R, env)
	}
	if n.Op == "or" {
		lr := Eval(n.L, env)
		if lr.isCtl() {
			return lr
		}
		if lr.val.IsTrue() {
			return lr
		}
		return Eval(n.R, env)
	}

	lr := Eval(n.L, env)
	if lr.isCtl() {
		return lr
	}
	rr := Eval(n.R, env)
	if rr.isCtl() {
		return rr
	}
	return valueResult(applyInfix(env, n, n.Op, lr.val, rr.val))
}

func applyInfix(env *Environment, n Node, op string, l, r *Value) *Value {
	switch op {
	case "+":
		return evalAdd(env, n, l, r)
	case "-", "*", "/":
		return evalArith(env, n, op, l, r)
	case "%":
		if l.Kind() != KindInt || r.Kind() != KindInt {
			report(env, n, DiagTypeMismatch, "'%' requires two integers")
			return NilValue
		}
		if r.Int() == 0 {
			report(env, n, DiagRuntime, "modulo by zero")
			return NilValue
		}
		return env.Arena().NewInt(l.Int() % r.Int())
	case "==":
		return env.Arena().NewBool(valueEqual(l, r))
	case "!=":
		return env.Arena().NewBool(!valueEqual(l, r))
	case "<", "<=", ">", ">=":
		return evalCompare(env, n, op, l, r)
	default:
		return NilValue
	}
}

func evalAdd(env *Environment, n Node, l, r *Value) *Value {
	switch {
	case l.IsNumber() && r.IsNumber():
		return numericArith(env, n, "+", l, r)
	case l.Kind() == KindArray && r.Kind() == KindArray:
		items := append(append([]*Value{}, l.Array()...), r.Array()...)
		return env.Arena().NewArray(items...)
	case l.Kind() == KindObject && r.Kind() == KindObject:
		obj := env.Arena().NewObject()
		lk, lv := l.ObjectEntries()
		for i := range lk {
			obj.ObjectSet(lk[i], lv[i])
		}
		rk, rv := r.ObjectEntries()
		for i := range rk {
			obj.ObjectSet(rk[i], rv[i]) // right shadows left, per spec.md §4.3
		}
		return obj
	default:
		return env.Arena().NewString(l.String() + r.String())
	}
}

func evalArith(env *Environment, n Node, op string, l, r *Value) *Value {
	if !l.IsNumber() || !r.IsNumber() {
		report(env, n, DiagTypeMismatch, fmt.Sprintf("'%s' requires numbers", op))
		return NilValue
	}
	return numericArith(env, n, op, l, r)
}

func numericArith(env *Environment, n Node, op string, l, r *Value) *Value {
	if l.Kind() == KindInt && r.Kind() == KindInt {
		a, b := l.Int(), r.Int()
		switch op {
		case "+":
			return env.Arena().NewInt(a + b)
		case "-":
			return env.Arena().NewInt(a - b)
		case "*":
			return env.Arena().NewInt(a * b)
		case "/":
			if b == 0 {
				// spec.md §9 Open Questions: int division by zero is a
				// reported runtime error with nil substituted, not a trap.
				report(env, n, DiagRuntime, "division by zero")
				return NilValue
			}
			return env.Arena().NewInt(a / b)
		}
	}
	a, b := l.Float(), r.Float()
	switch op {
	case "+":
		return env.Arena().NewFloat(a + b)
	case "-":
		return env.Arena().NewFloat(a - b)
	case "*":
		return env.Arena().NewFloat(a * b)
	case "/":
		return env.Arena().NewFloat(a / b)
	}
	return NilValue
}

func evalCompare(env *Environment, n Node, op string, l, r *Value) *Value {
	if !l.IsNumber() || !r.IsNumber() {
		report(env, n, DiagTypeMismatch, "comparison requires numbers")
		return NilValue
	}
	a, b := l.Float(), r.Float()
	var res bool
	switch op {
	case "<":
		res = a < b
	case "<=":
		res = a <= b
	case ">":
		res = a > b
	case ">=":
		res = a >= b
	}
	return env.Arena().NewBool(res)
}

func evalIf(n *IfNode, env *Environment) evalResult {
	cr := Eval(n.Cond, env)
	if cr.isCtl() {
		return cr
	}
	if cr.val.IsTrue() {
		return Eval(n.Then, env.NewChild())
	}
	if n.Else != nil {
		return Eval(n.Else, env.NewChild())
	}
	return valueResult(NilValue)
}

func evalFor(n *ForNode, env *Environment) evalResult {
	cr := Eval(n.Coll, env)
	if cr.isCtl() {
		return cr
	}
	coll := cr.val

	type kv struct{ k, v *Value }
	var items []kv
	switch coll.Kind() {
	case KindArray:
		for i, it := range coll.Array() {
			items = append(items, kv{k: env.Arena().NewInt(int64(i)), v: it})
		}
	case KindObject:
		keys, vals := coll.ObjectEntries()
		for i := range keys {
			items = append(items, kv{k: keys[i], v: vals[i]})
		}
	case KindString:
		s := coll.Str()
		for i := 0; i < len(s); i++ {
			items = append(items, kv{k: env.Arena().NewInt(int64(i)), v: env.Arena().NewInt(int64(s[i]))})
		}
	default:
		report(env, n.Coll, DiagTypeMismatch, "value is not iterable")
		return valueResult(NilValue)
	}

	if len(items) == 0 {
		if n.Else != nil {
			return Eval(n.Else, env.NewChild())
		}
		return valueResult(env.Arena().NewString(""))
	}

	buf := env.Arena().newStringBuffer()
	env.EnterLoop()
	defer env.ExitLoop()

loop:
	for _, it := range items {
		iterEnv := env.NewChild()
		if n.Key != nil {
			iterEnv.Define(n.Key, it.k)
		}
		iterEnv.Define(n.Val, it.v)
		r := Eval(n.Body, iterEnv)
		switch r.kind {
		case ctlValue:
			if r.val != nil {
				buf.WriteString(r.val.String())
			}
		case ctlBreak:
			if r.level > 1 {
				return evalResult{kind: ctlBreak, level: r.level - 1}
			}
			break loop
		case ctlContinue:
			if r.level > 1 {
				return evalResult{kind: ctlContinue, level: r.level - 1}
			}
			continue loop
		case ctlReturn:
			return r
		}
	}
	return valueResult(buf.Finish())
}

func evalSwitch(n *SwitchNode, env *Environment) evalResult {
	sr := Eval(n.Scrutinee, env)
	if sr.isCtl() {
		return sr
	}
	for i, keyNode := range n.CaseKeys {
		kr := Eval(keyNode, env.NewChild())
		if kr.isCtl() {
			return kr
		}
		if valueEqual(sr.val, kr.val) {
			return Eval(n.CaseBodies[i], env.NewChild())
		}
	}
	if n.Default != nil {
		return Eval(n.Default, env.NewChild())
	}
	return valueResult(NilValue)
}

func evalExport(n *ExportNode, env *Environment) evalResult {
	r := Eval(n.Value, env)
	if r.isCtl() {
		return r
	}
	env.Export(n.Name, r.val)
	return valueResult(NilValue)
}

func evalAssign(n *AssignNode, env *Environment) evalResult {
	rr := Eval(n.Value, env)
	if rr.isCtl() {
		return rr
	}
	newVal := rr.val

	if n.Op != "" {
		cur := Eval(n.Target, env)
		if cur.isCtl() {
			return cur
		}
		newVal = applyInfix(env, n, n.Op, cur.val, rr.val)
	}

	switch target := n.Target.(type) {
	case *NameNode:
		env.Assign(target.Name, newVal)
	case *DotNode:
		tr := Eval(target.Target, env)
		if tr.isCtl() {
			return tr
		}
		if tr.val.Kind() != KindObject {
			report(env, target, DiagTypeMismatch, "cannot assign a property of a non-object")
			return valueResult(NilValue)
		}
		tr.val.ObjectSet(env.Arena().NewSymbol(target.Name), newVal)
	case *SubscriptNode:
		tr := Eval(target.Target, env)
		if tr.isCtl() {
			return tr
		}
		ir := Eval(target.Index, env)
		if ir.isCtl() {
			return ir
		}
		switch tr.val.Kind() {
		case KindObject:
			tr.val.ObjectSet(ir.val, newVal)
		case KindArray:
			items := tr.val.Array()
			i := ir.val.Int()
			if i >= 0 && i < int64(len(items)) {
				items[i] = newVal
			} else {
				report(env, target, DiagRuntime, "array index out of range")
			}
		default:
			report(env, target, DiagTypeMismatch, "value is not assignable by subscript")
		}
	default:
		report(env, n.Target, DiagSyntax, "invalid assignment target")
	}
	// Assignment is a statement-level grammar production, never an
	// expr (spec.md §4.2's grammar lists it only under `statement`), so
	// it carries no printable result of its own when a block
	// stringifies its statements in sequence (spec.md §8 scenario 6:
	// three assignment tags before a final call print nothing but the
	// call's own value).
	return valueResult(NilValue)
}

func evalBlock(n *BlockNode, env *Environment) evalResult {
	buf := env.Arena().newStringBuffer()
	for _, stmt := range n.Stmts {
		r := Eval(stmt, env)
		if r.isCtl() {
			return r
		}
		if r.val != nil {
			buf.WriteString(r.val.String())
		}
	}
	return valueResult(buf.Finish())
}

func evalSuppress(n *SuppressNode, env *Environment) evalResult {
	before := len(env.sink().Diagnostics())
	r := Eval(n.X, env)
	diags := env.sink().diags
	for i := before; i < len(diags); i++ {
		if diags[i].Kind == DiagNotFound {
			diags[i].Suppressed = true
		}
	}
	return r
}

func evalReturn(n *ReturnNode, env *Environment) evalResult {
	if n.Value == nil {
		return evalResult{kind: ctlReturn, val: NilValue}
	}
	r := Eval(n.Value, env)
	if r.isCtl() {
		return r
	}
	return evalResult{kind: ctlReturn, val: r.val}
}

func evalBreak(n *BreakNode, env *Environment) evalResult {
	level := clampLevel(env, n, n.Level)
	return evalResult{kind: ctlBreak, level: level}
}

func evalContinue(n *ContinueNode, env *Environment) evalResult {
	level := clampLevel(env, n, n.Level)
	return evalResult{kind: ctlContinue, level: level}
}

// clampLevel implements spec.md §4.3: "the evaluator rejects break/
// continue outside loops and clamps N to [1, loop_depth] with a
// diagnostic".
func clampLevel(env *Environment, n Node, level int) int {
	depth := env.LoopDepth()
	if depth <= 0 {
		report(env, n, DiagRuntime, "break/continue outside of a loop")
		return 1
	}
	if level < 1 {
		report(env, n, DiagRuntime, "break/continue level must be at least 1")
		return 1
	}
	if level > depth {
		report(env, n, DiagRuntime, "break/continue level exceeds loop nesting")
		return depth
	}
	return level
}
