package builtins

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/quillssg/quill"
)

// call looks up name (already Registered) and invokes its native
// function directly, the way the evaluator's AppNode/callNative path
// would for a call expression.
func call(t *testing.T, env *quill.Environment, name string, args ...*quill.Value) (*quill.Value, bool) {
	t.Helper()
	sym := quill.Intern(name)
	fnVal, ok := env.Lookup(sym)
	if !ok {
		t.Fatalf("native %q was not registered", name)
	}
	if !fnVal.IsNative() {
		t.Fatalf("%q is not a native function value", name)
	}
	return fnVal.Native().Fn(env, args)
}

func newTestEnv(t *testing.T) *quill.Environment {
	t.Helper()
	arena := quill.NewArena()
	t.Cleanup(arena.Release)
	env := quill.NewEnvironment(arena, nil)
	Register(env)
	return env
}

func TestStringBuiltins(t *testing.T) {
	env := newTestEnv(t)
	arena := env.Arena()

	if v, ok := call(t, env, "upper", arena.NewString("hi")); !ok || v.Str() != "HI" {
		t.Errorf("upper(hi) = %v, %v", v, ok)
	}
	if v, ok := call(t, env, "lower", arena.NewString("HI")); !ok || v.Str() != "hi" {
		t.Errorf("lower(HI) = %v, %v", v, ok)
	}
	if v, ok := call(t, env, "trim", arena.NewString("  hi  ")); !ok || v.Str() != "hi" {
		t.Errorf("trim = %v, %v", v, ok)
	}
	if v, ok := call(t, env, "contains", arena.NewString("hello"), arena.NewString("ell")); !ok || !v.Bool() {
		t.Errorf("contains = %v, %v", v, ok)
	}
	if v, ok := call(t, env, "join", arena.NewArray(arena.NewString("a"), arena.NewString("b")), arena.NewString(",")); !ok || v.Str() != "a,b" {
		t.Errorf("join = %v, %v", v, ok)
	}
	if v, ok := call(t, env, "slice", arena.NewString("hello"), arena.NewInt(1), arena.NewInt(3)); !ok || v.Str() != "el" {
		t.Errorf("slice = %v, %v", v, ok)
	}
}

func TestSortBuiltin(t *testing.T) {
	env := newTestEnv(t)
	arena := env.Arena()

	v, ok := call(t, env, "sort", arena.NewArray(arena.NewString("b"), arena.NewString("a"), arena.NewString("c")))
	if !ok || !v.IsArray() {
		t.Fatalf("sort failed: %v, %v", v, ok)
	}
	items := v.Array()
	if len(items) != 3 || items[0].Str() != "a" || items[1].Str() != "b" || items[2].Str() != "c" {
		t.Errorf("sort(strings) = %v", items)
	}

	v, ok = call(t, env, "sort", arena.NewArray(arena.NewInt(3), arena.NewInt(1), arena.NewInt(2)))
	if !ok {
		t.Fatalf("sort(ints) failed")
	}
	items = v.Array()
	if len(items) != 3 || items[0].Int() != 1 || items[1].Int() != 2 || items[2].Int() != 3 {
		t.Errorf("sort(ints) = %v", items)
	}

	if _, ok := call(t, env, "sort", arena.NewInt(1)); ok {
		t.Fatal("expected sort on a non-array to fail")
	}
}

func TestStringBuiltinArgErrors(t *testing.T) {
	env := newTestEnv(t)
	arena := env.Arena()

	if _, ok := call(t, env, "upper"); ok {
		t.Fatal("expected upper() with no arguments to fail")
	}
	if _, ok := env.TakeError(); !ok {
		t.Error("expected a too-few-arguments native error to be set")
	}

	if _, ok := call(t, env, "upper", arena.NewInt(5)); ok {
		t.Fatal("expected upper(5) to fail on a non-string argument")
	}
	if _, ok := env.TakeError(); !ok {
		t.Error("expected a type-mismatch native error to be set")
	}

	if _, ok := call(t, env, "slice", arena.NewString("hi"), arena.NewInt(0), arena.NewInt(99)); ok {
		t.Fatal("expected an out-of-range slice to fail")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	arena := env.Arena()

	obj := arena.NewObject()
	obj.ObjectSet(arena.NewString("name"), arena.NewString("Ada"))
	obj.ObjectSet(arena.NewString("age"), arena.NewInt(30))

	encoded, ok := call(t, env, "to_json", obj)
	if !ok {
		t.Fatal("to_json failed")
	}

	decoded, ok := call(t, env, "from_json", encoded)
	if !ok || !decoded.IsObject() {
		t.Fatalf("from_json failed or not an object: %v, %v", decoded, ok)
	}
	name, found := decoded.ObjectGet(quill.NewSymbolValue("name"))
	if !found || name.Str() != "Ada" {
		t.Errorf("decoded.name = %v, %v", name, found)
	}
	age, found := decoded.ObjectGet(quill.NewSymbolValue("age"))
	if !found || age.Int() != 30 {
		t.Errorf("decoded.age = %v, %v", age, found)
	}
}

func TestFromJSONInvalidReportsError(t *testing.T) {
	env := newTestEnv(t)
	if _, ok := call(t, env, "from_json", env.Arena().NewString("not json")); ok {
		t.Fatal("expected malformed JSON to fail")
	}
}

func TestTimeBuiltins(t *testing.T) {
	env := newTestEnv(t)
	arena := env.Arena()

	parsed, ok := call(t, env, "parse_time", arena.NewString("2024-03-05T00:00:00Z"))
	if !ok || !parsed.IsTime() {
		t.Fatalf("parse_time failed: %v, %v", parsed, ok)
	}
	year, ok := call(t, env, "year", parsed)
	if !ok || year.Int() != 2024 {
		t.Errorf("year = %v, %v", year, ok)
	}
	formatted, ok := call(t, env, "format_time", parsed, arena.NewString("2006-01-02"))
	if !ok || formatted.Str() != "2024-03-05" {
		t.Errorf("format_time = %v, %v", formatted, ok)
	}
}

func TestEscapeHTML(t *testing.T) {
	env := newTestEnv(t)
	v, ok := call(t, env, "escape_html", env.Arena().NewString(`<a href="x">&'y'</a>`))
	if !ok {
		t.Fatal("escape_html failed")
	}
	want := "&lt;a href=&quot;x&quot;&gt;&amp;&#39;y&#39;&lt;/a&gt;"
	if v.Str() != want {
		t.Errorf("escape_html = %q, want %q", v.Str(), want)
	}
}

func TestFSBuiltins(t *testing.T) {
	env := newTestEnv(t)
	arena := env.Arena()
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "f.txt")

	if _, ok := call(t, env, "write_file", arena.NewString(path), arena.NewString("content")); !ok {
		t.Fatal("write_file failed")
	}
	data, ok := call(t, env, "read_file", arena.NewString(path))
	if !ok || data.Str() != "content" {
		t.Fatalf("read_file = %v, %v", data, ok)
	}
	exists, ok := call(t, env, "file_exists", arena.NewString(path))
	if !ok || !exists.Bool() {
		t.Errorf("file_exists = %v, %v", exists, ok)
	}
	missing, ok := call(t, env, "file_exists", arena.NewString(filepath.Join(dir, "nope")))
	if !ok || missing.Bool() {
		t.Errorf("file_exists for a missing path = %v, %v", missing, ok)
	}

	copyDest := filepath.Join(dir, "copy.txt")
	if _, ok := call(t, env, "copy_file", arena.NewString(path), arena.NewString(copyDest)); !ok {
		t.Fatal("copy_file failed")
	}
	if got, err := os.ReadFile(copyDest); err != nil || string(got) != "content" {
		t.Errorf("copied file content = %q, err %v", got, err)
	}

	listed, ok := call(t, env, "list_dir", arena.NewString(dir))
	if !ok || !listed.IsArray() {
		t.Fatalf("list_dir failed: %v, %v", listed, ok)
	}
	if len(listed.Array()) < 2 {
		t.Errorf("expected list_dir to find at least 2 entries, got %d", len(listed.Array()))
	}
}
