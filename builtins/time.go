package builtins

import (
	"time"

	"github.com/quillssg/quill"
)

// registerTime wires date/time natives onto quill's Time value (spec.md
// §3: "time (POSIX seconds)"; §9: "time prints ISO-8601 with local
// offset"). Grounded on pongo2's filterDate (Django-style date
// formatting), reshaped to Go's reference-time layouts since quill has
// no Python/Django strftime-style format-string convention to mirror.
func registerTime(env *quill.Environment) {
	native(env, "now", func(env *quill.Environment, args []*quill.Value) (*quill.Value, bool) {
		return env.Arena().NewTime(time.Now().Unix()), true
	})

	native(env, "format_time", func(env *quill.Environment, args []*quill.Value) (*quill.Value, bool) {
		if !argCount(env, "format_time", args, 1) {
			return quill.NilValue, false
		}
		if !args[0].IsTime() {
			return fail(env, "format_time", "argument 1 must be a time")
		}
		layout := optString(args, 1, time.RFC3339)
		t := time.Unix(args[0].Int(), 0)
		return env.Arena().NewString(t.Format(layout)), true
	})

	native(env, "parse_time", func(env *quill.Environment, args []*quill.Value) (*quill.Value, bool) {
		if !argCount(env, "parse_time", args, 1) {
			return quill.NilValue, false
		}
		s, ok := argString(env, "parse_time", args, 0)
		if !ok {
			return quill.NilValue, false
		}
		layout := optString(args, 1, time.RFC3339)
		t, err := time.Parse(layout, s)
		if err != nil {
			return fail(env, "parse_time", err.Error())
		}
		return env.Arena().NewTime(t.Unix()), true
	})

	native(env, "year", func(env *quill.Environment, args []*quill.Value) (*quill.Value, bool) {
		if !argCount(env, "year", args, 1) || !args[0].IsTime() {
			return fail(env, "year", "argument 1 must be a time")
		}
		return env.Arena().NewInt(int64(time.Unix(args[0].Int(), 0).Year())), true
	})
}
