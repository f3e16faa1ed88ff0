// Package builtins is the native function library spec.md §1 names as an
// external collaborator ("concrete built-in function libraries: string
// manipulation, date formatting, JSON emission, HTML tree transforms,
// image resizing, file I/O wrappers"), registered into an Environment
// through the host boundary's RegisterNative (spec.md §4.5). Grounded on
// pongo2's filters_builtin.go: many small, independently registered
// functions, each checking its own argument shapes and reporting a
// pointed error rather than panicking.
package builtins

import (
	"fmt"

	"github.com/quillssg/quill"
)

// Register binds every builtin native into env under its SITE_MAP-facing
// name.
func Register(env *quill.Environment) {
	registerStrings(env)
	registerTime(env)
	registerJSON(env)
	registerHTML(env)
	registerImage(env)
	registerFS(env)
}

// native is shorthand for RegisterNative, kept local so each file below
// reads as a flat list of name/function pairs, the way filters_builtin.go's
// init() reads as a flat list of RegisterFilter calls.
func native(env *quill.Environment, name string, fn func(env *quill.Environment, args []*quill.Value) (*quill.Value, bool)) {
	quill.RegisterNative(env, name, fn)
}

// argCount reports whether args has at least n elements, setting a
// too-few-arguments error attributed to the call site (argIndex -1) when
// it doesn't.
func argCount(env *quill.Environment, name string, args []*quill.Value, n int) bool {
	if len(args) < n {
		env.SetError(fmt.Sprintf("%s: expected at least %d argument(s), got %d", name, n, len(args)), -1, quill.SeverityError)
		return false
	}
	return true
}

// argString extracts args[i] as a string, reporting a type-mismatch
// error attributed to that argument if it isn't one.
func argString(env *quill.Environment, name string, args []*quill.Value, i int) (string, bool) {
	if !args[i].IsString() {
		env.SetError(fmt.Sprintf("%s: argument %d must be a string, got %s", name, i+1, args[i].Kind()), i, quill.SeverityError)
		return "", false
	}
	return args[i].Str(), true
}

// argInt extracts args[i] as an int, reporting a type-mismatch error
// attributed to that argument if it isn't one.
func argInt(env *quill.Environment, name string, args []*quill.Value, i int) (int64, bool) {
	if !args[i].IsInt() {
		env.SetError(fmt.Sprintf("%s: argument %d must be an int, got %s", name, i+1, args[i].Kind()), i, quill.SeverityError)
		return 0, false
	}
	return args[i].Int(), true
}

// optString returns args[i] as a string if present and a string,
// otherwise def; unlike argString it never reports an error, since the
// argument is genuinely optional.
func optString(args []*quill.Value, i int, def string) string {
	if i >= len(args) || !args[i].IsString() {
		return def
	}
	return args[i].Str()
}

func fail(env *quill.Environment, name, msg string) (*quill.Value, bool) {
	env.SetError(fmt.Sprintf("%s: %s", name, msg), -1, quill.SeverityError)
	return quill.NilValue, false
}
