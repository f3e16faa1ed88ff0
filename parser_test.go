package quill

import "testing"

func parseOK(t *testing.T, src string, asScript bool) Node {
	t.Helper()
	mod := &Module{Path: "t"}
	tokens, lexDiags := Lex(mod, src, asScript)
	if len(lexDiags) != 0 {
		t.Fatalf("unexpected lex diagnostics for %q: %v", src, lexDiags)
	}
	p := newParser(mod, tokens, asScript)
	root, ok := p.parseTemplate()
	if !ok || len(p.diags) != 0 {
		t.Fatalf("unexpected parse diagnostics for %q: %v", src, p.diags)
	}
	return root
}

func TestParseStableAcrossRepeatedParses(t *testing.T) {
	const src = `{ if x > 1 }yes{ else }no{ end }`
	mod := &Module{Path: "t"}
	tokens, _ := Lex(mod, src, false)

	p1 := newParser(mod, tokens, false)
	root1, ok1 := p1.parseTemplate()
	p2 := newParser(mod, tokens, false)
	root2, ok2 := p2.parseTemplate()

	if !ok1 || !ok2 {
		t.Fatalf("expected both parses to succeed, diags: %v / %v", p1.diags, p2.diags)
	}
	b1, b2 := root1.(*BlockNode), root2.(*BlockNode)
	if len(b1.Stmts) != len(b2.Stmts) {
		t.Fatalf("re-parsing identical tokens produced different statement counts: %d vs %d", len(b1.Stmts), len(b2.Stmts))
	}
	if _, ok := b1.Stmts[0].(*IfNode); !ok {
		t.Fatalf("expected the first statement to be an IfNode, got %T", b1.Stmts[0])
	}
}

func TestParseErrorOnUnterminatedIf(t *testing.T) {
	mod := &Module{Path: "t"}
	tokens, _ := Lex(mod, `{ if x }yes`, false)
	p := newParser(mod, tokens, false)
	_, ok := p.parseTemplate()
	if ok || len(p.diags) == 0 {
		t.Fatal("expected an unterminated if-block to report a syntax diagnostic")
	}
}

func TestParseStringInterpolation(t *testing.T) {
	root := parseOK(t, `{ "hi \{name}, total: \{1 + 2}!" }`, false)
	block := root.(*BlockNode)
	if len(block.Stmts) != 1 {
		t.Fatalf("expected a single statement, got %d", len(block.Stmts))
	}
	str, ok := block.Stmts[0].(*StringLit)
	if !ok {
		t.Fatalf("expected a StringLit, got %T", block.Stmts[0])
	}
	if len(str.Parts) != 5 {
		t.Fatalf("expected 5 parts (text, expr, text, expr, text), got %d: %+v", len(str.Parts), str.Parts)
	}
	if str.Parts[0].Expr != nil || str.Parts[0].Text != "hi " {
		t.Errorf("part[0] = %+v, want literal text %q", str.Parts[0], "hi ")
	}
	name, ok := str.Parts[1].Expr.(*NameNode)
	if !ok || str.Parts[1].Text != "" || name.Name.String() != "name" {
		t.Errorf("part[1] = %+v, want an interpolated reference to 'name'", str.Parts[1])
	}
	if str.Parts[2].Expr != nil || str.Parts[2].Text != ", total: " {
		t.Errorf("part[2] = %+v, want literal text %q", str.Parts[2], ", total: ")
	}
	if _, ok := str.Parts[3].Expr.(*InfixNode); !ok || str.Parts[3].Text != "" {
		t.Errorf("part[3] = %+v, want an interpolated '1 + 2' expression", str.Parts[3])
	}
	if str.Parts[4].Expr != nil || str.Parts[4].Text != "!" {
		t.Errorf("part[4] = %+v, want trailing literal text %q", str.Parts[4], "!")
	}
}

func TestFreeVariableCollectionExcludesParamsAndLocals(t *testing.T) {
	root := parseOK(t, `{ outer = 1 } { f = fn(x) y = x + outer y end }`, false)
	block := root.(*BlockNode)

	var fn *FuncNode
	for _, stmt := range block.Stmts {
		assign, ok := stmt.(*AssignNode)
		if !ok {
			continue
		}
		if f, ok := assign.Value.(*FuncNode); ok {
			fn = f
		}
	}
	if fn == nil {
		t.Fatal("expected to find the parsed function literal")
	}

	free := map[*Symbol]bool{}
	for _, s := range fn.Free {
		free[s] = true
	}
	if !free[Intern("outer")] {
		t.Errorf("expected 'outer' to be collected as a free variable, got %v", fn.Free)
	}
	if free[Intern("x")] {
		t.Error("the parameter 'x' must not be collected as free")
	}
	if free[Intern("y")] {
		t.Error("the locally-assigned 'y' must not be collected as free")
	}
}

func TestFreeVariableCollectionOverForBinders(t *testing.T) {
	root := parseOK(t, `{ f = fn() total = 0 for k, v in items total = total + v end total end }`, false)
	block := root.(*BlockNode)

	var fn *FuncNode
	for _, stmt := range block.Stmts {
		if assign, ok := stmt.(*AssignNode); ok {
			if f, ok := assign.Value.(*FuncNode); ok {
				fn = f
			}
		}
	}
	if fn == nil {
		t.Fatal("expected to find the parsed function literal")
	}
	free := map[*Symbol]bool{}
	for _, s := range fn.Free {
		free[s] = true
	}
	if !free[Intern("items")] {
		t.Errorf("expected 'items' (referenced but never bound inside the closure) to be free, got %v", fn.Free)
	}
	if free[Intern("k")] || free[Intern("v")] {
		t.Error("for-loop binders k/v must not be collected as free")
	}
	if free[Intern("total")] {
		t.Error("'total', assigned inside the closure, must not be collected as free")
	}
}
