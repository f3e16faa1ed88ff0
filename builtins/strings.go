package builtins

import (
	"strings"

	"github.com/quillssg/quill"
)

// registerStrings wires string-manipulation natives, grounded on
// pongo2's filterUpper/filterLower/filterJoin/filterTitle/filterSlice
// (filters_builtin.go) reshaped as argument-checked native functions
// instead of filters piped with `|`.
func registerStrings(env *quill.Environment) {
	native(env, "upper", func(env *quill.Environment, args []*quill.Value) (*quill.Value, bool) {
		if !argCount(env, "upper", args, 1) {
			return quill.NilValue, false
		}
		s, ok := argString(env, "upper", args, 0)
		if !ok {
			return quill.NilValue, false
		}
		return env.Arena().NewString(strings.ToUpper(s)), true
	})

	native(env, "lower", func(env *quill.Environment, args []*quill.Value) (*quill.Value, bool) {
		if !argCount(env, "lower", args, 1) {
			return quill.NilValue, false
		}
		s, ok := argString(env, "lower", args, 0)
		if !ok {
			return quill.NilValue, false
		}
		return env.Arena().NewString(strings.ToLower(s)), true
	})

	native(env, "trim", func(env *quill.Environment, args []*quill.Value) (*quill.Value, bool) {
		if !argCount(env, "trim", args, 1) {
			return quill.NilValue, false
		}
		s, ok := argString(env, "trim", args, 0)
		if !ok {
			return quill.NilValue, false
		}
		return env.Arena().NewString(strings.TrimSpace(s)), true
	})

	native(env, "split", func(env *quill.Environment, args []*quill.Value) (*quill.Value, bool) {
		if !argCount(env, "split", args, 2) {
			return quill.NilValue, false
		}
		s, ok := argString(env, "split", args, 0)
		if !ok {
			return quill.NilValue, false
		}
		sep, ok := argString(env, "split", args, 1)
		if !ok {
			return quill.NilValue, false
		}
		parts := strings.Split(s, sep)
		items := make([]*quill.Value, len(parts))
		for i, p := range parts {
			items[i] = env.Arena().NewString(p)
		}
		return env.Arena().NewArray(items...), true
	})

	native(env, "join", func(env *quill.Environment, args []*quill.Value) (*quill.Value, bool) {
		if !argCount(env, "join", args, 1) {
			return quill.NilValue, false
		}
		if !args[0].IsArray() {
			return fail(env, "join", "argument 1 must be an array")
		}
		sep := optString(args, 1, "")
		items := args[0].Array()
		parts := make([]string, len(items))
		for i, v := range items {
			parts[i] = v.String()
		}
		return env.Arena().NewString(strings.Join(parts, sep)), true
	})

	native(env, "replace", func(env *quill.Environment, args []*quill.Value) (*quill.Value, bool) {
		if !argCount(env, "replace", args, 3) {
			return quill.NilValue, false
		}
		s, ok := argString(env, "replace", args, 0)
		if !ok {
			return quill.NilValue, false
		}
		old, ok := argString(env, "replace", args, 1)
		if !ok {
			return quill.NilValue, false
		}
		new, ok := argString(env, "replace", args, 2)
		if !ok {
			return quill.NilValue, false
		}
		return env.Arena().NewString(strings.ReplaceAll(s, old, new)), true
	})

	native(env, "contains", func(env *quill.Environment, args []*quill.Value) (*quill.Value, bool) {
		if !argCount(env, "contains", args, 2) {
			return quill.NilValue, false
		}
		s, ok := argString(env, "contains", args, 0)
		if !ok {
			return quill.NilValue, false
		}
		sub, ok := argString(env, "contains", args, 1)
		if !ok {
			return quill.NilValue, false
		}
		return env.Arena().NewBool(strings.Contains(s, sub)), true
	})

	native(env, "starts_with", func(env *quill.Environment, args []*quill.Value) (*quill.Value, bool) {
		if !argCount(env, "starts_with", args, 2) {
			return quill.NilValue, false
		}
		s, ok := argString(env, "starts_with", args, 0)
		if !ok {
			return quill.NilValue, false
		}
		prefix, ok := argString(env, "starts_with", args, 1)
		if !ok {
			return quill.NilValue, false
		}
		return env.Arena().NewBool(strings.HasPrefix(s, prefix)), true
	})

	native(env, "ends_with", func(env *quill.Environment, args []*quill.Value) (*quill.Value, bool) {
		if !argCount(env, "ends_with", args, 2) {
			return quill.NilValue, false
		}
		s, ok := argString(env, "ends_with", args, 0)
		if !ok {
			return quill.NilValue, false
		}
		suffix, ok := argString(env, "ends_with", args, 1)
		if !ok {
			return quill.NilValue, false
		}
		return env.Arena().NewBool(strings.HasSuffix(s, suffix)), true
	})

	native(env, "title", func(env *quill.Environment, args []*quill.Value) (*quill.Value, bool) {
		if !argCount(env, "title", args, 1) {
			return quill.NilValue, false
		}
		s, ok := argString(env, "title", args, 0)
		if !ok {
			return quill.NilValue, false
		}
		return env.Arena().NewString(strings.Title(strings.ToLower(s))), true
	})

	native(env, "slice", func(env *quill.Environment, args []*quill.Value) (*quill.Value, bool) {
		if !argCount(env, "slice", args, 3) {
			return quill.NilValue, false
		}
		s, ok := argString(env, "slice", args, 0)
		if !ok {
			return quill.NilValue, false
		}
		start, ok := argInt(env, "slice", args, 1)
		if !ok {
			return quill.NilValue, false
		}
		end, ok := argInt(env, "slice", args, 2)
		if !ok {
			return quill.NilValue, false
		}
		if start < 0 || end > int64(len(s)) || start > end {
			return fail(env, "slice", "index out of range")
		}
		return env.Arena().NewString(s[start:end]), true
	})

	native(env, "repeat", func(env *quill.Environment, args []*quill.Value) (*quill.Value, bool) {
		if !argCount(env, "repeat", args, 2) {
			return quill.NilValue, false
		}
		s, ok := argString(env, "repeat", args, 0)
		if !ok {
			return quill.NilValue, false
		}
		n, ok := argInt(env, "repeat", args, 1)
		if !ok {
			return quill.NilValue, false
		}
		if n < 0 {
			return fail(env, "repeat", "count must be non-negative")
		}
		return env.Arena().NewString(strings.Repeat(s, int(n))), true
	})

	native(env, "sort", func(env *quill.Environment, args []*quill.Value) (*quill.Value, bool) {
		if !argCount(env, "sort", args, 1) {
			return quill.NilValue, false
		}
		if !args[0].IsArray() {
			return fail(env, "sort", "argument 1 must be an array")
		}
		return env.Arena().NewArray(quill.SortValues(args[0].Array())...), true
	})
}
