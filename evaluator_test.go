package quill

import "testing"

// render parses src as a template and evaluates it against a fresh
// arena/environment, returning the rendered string. Any parse error or
// unsuppressed error diagnostic is fatal, mirroring pongo2's own "render and compare" test helpers
// (pongo2_template_test.go) except failing loudly on the first problem
// instead of comparing against a golden file.
func render(t *testing.T, src string) string {
	t.Helper()
	sink := NewSink()
	reg := NewRegistry(sink)
	mod := reg.LoadString("test.quill", src, ModuleUser, false)
	if mod.ParseError {
		t.Fatalf("parse error for %q: %v", src, mod.Diagnostics())
	}
	arena := NewArena()
	defer arena.Release()
	env := NewEnvironment(arena, sink)
	v, err := EvalModule(mod, env)
	if err != nil {
		t.Fatalf("eval error for %q: %v", src, err)
	}
	if sink.HasErrors() {
		t.Fatalf("diagnostics for %q: %v", src, sink.Diagnostics())
	}
	return v.String()
}

func TestScenarios(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"arithmetic precedence", `{ 1 + 2 * 3 }`, "7"},
		{"for over array", `{ for x in [1,2,3] }{ x },{ end }`, "1,2,3,"},
		{"for over object", `{ for k, v in { a: 1, b: 2 } }{ k }={ v };{ end }`, "a=1;b=2;"},
		{"if falsy", `{ if 0 }yes{ else }no{ end }`, "no"},
		{"if truthy string", `{ if 'x' }yes{ else }no{ end }`, "yes"},
		{"function literal", `{ f = fn(x) x * x end } { f(5) }`, " 25"},
		{"closure capture snapshot", `{ a = 10 } { g = fn() a end } { a = 99 } { g() }`, "   10"},
		{"suppress missing property", `{ o = { a: 1 } } { o.b? }`, " "},
		{"double-quoted string interpolation", `{ name = "World" } { "hi \{name}!" }`, ` hi World!`},
		{"interpolation with an expression", `{ "total: \{1 + 2}" }`, "total: 3"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := render(t, tc.src)
			if got != tc.want {
				t.Errorf("render(%q) = %q, want %q", tc.src, got, tc.want)
			}
		})
	}
}

func TestUnsuppressedMissingPropertyReportsDiagnostic(t *testing.T) {
	sink := NewSink()
	reg := NewRegistry(sink)
	mod := reg.LoadString("test.quill", `{ o = { a: 1 } } { o.b }`, ModuleUser, false)
	arena := NewArena()
	defer arena.Release()
	env := NewEnvironment(arena, sink)
	if _, err := EvalModule(mod, env); err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if !sink.HasErrors() {
		t.Fatalf("expected a diagnostic for an unsuppressed missing property")
	}
}

func TestClosureIsolation(t *testing.T) {
	arena := NewArena()
	defer arena.Release()
	env := NewEnvironment(arena, nil)

	aSym := Intern("a")
	env.Define(aSym, arena.NewInt(1))

	n := &FuncNode{Free: []*Symbol{aSym}, Params: nil, Body: &NameNode{Name: aSym}}
	closure := makeClosure(n, env)

	env.Assign(aSym, arena.NewInt(2))

	got := closure.Closure().Env
	v, ok := got.Lookup(aSym)
	if !ok || v.Int() != 1 {
		t.Fatalf("closure snapshot mutated: got %v, want 1", v)
	}
}

func TestForBreakContinueLevels(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"plain break", `{ for x in [1,2,3] }{ if x == 2 }{ break }{ end }{ x },{ end }`, "1,"},
		{"plain continue", `{ for x in [1,2,3] }{ if x == 2 }{ continue }{ end }{ x },{ end }`, "1,3,"},
		{"nested break level 2", `{ for x in [1,2] }{ for y in [1,2] }{ if y == 1 }{ break 2 }{ end }{ y }{ end }{ x }{ end }`, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := render(t, tc.src)
			if got != tc.want {
				t.Errorf("render(%q) = %q, want %q", tc.src, got, tc.want)
			}
		})
	}
}

func TestDivisionByZero(t *testing.T) {
	sink := NewSink()
	reg := NewRegistry(sink)
	mod := reg.LoadString("test.quill", `{ 1 / 0 }`, ModuleUser, false)
	arena := NewArena()
	defer arena.Release()
	env := NewEnvironment(arena, sink)
	if _, err := EvalModule(mod, env); err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if !sink.HasErrors() {
		t.Fatalf("expected int division by zero to report a diagnostic")
	}
}

func TestSwitchFirstMatchWins(t *testing.T) {
	got := render(t, `{ switch 2 }{ case 1 }one{ case 2 }two{ case 2 }also-two{ default }other{ end }`)
	if got != "two" {
		t.Errorf("switch got %q, want %q", got, "two")
	}
}
