package builtins

import (
	"encoding/json"

	"github.com/quillssg/quill"
)

// registerJSON wires JSON emission/parsing natives, the "JSON emission"
// collaborator named in spec.md §1. No teacher or pack example carries a
// dynamic-value-to-JSON bridge (pongo2's Value wraps reflect.Value and
// has no such filter), so this is grounded on spec.md §3's value model
// directly, walking each Value kind into the matching encoding/json
// representation rather than reaching for a third-party JSON library
// (stdlib encoding/json already covers the marshal/unmarshal surface
// needed here).
func registerJSON(env *quill.Environment) {
	native(env, "to_json", func(env *quill.Environment, args []*quill.Value) (*quill.Value, bool) {
		if !argCount(env, "to_json", args, 1) {
			return quill.NilValue, false
		}
		indent := optString(args, 1, "")
		data := valueToJSON(args[0])
		var out []byte
		var err error
		if indent != "" {
			out, err = json.MarshalIndent(data, "", indent)
		} else {
			out, err = json.Marshal(data)
		}
		if err != nil {
			return fail(env, "to_json", err.Error())
		}
		return env.Arena().NewString(string(out)), true
	})

	native(env, "from_json", func(env *quill.Environment, args []*quill.Value) (*quill.Value, bool) {
		if !argCount(env, "from_json", args, 1) {
			return quill.NilValue, false
		}
		s, ok := argString(env, "from_json", args, 0)
		if !ok {
			return quill.NilValue, false
		}
		var data any
		if err := json.Unmarshal([]byte(s), &data); err != nil {
			return fail(env, "from_json", err.Error())
		}
		return jsonToValue(env.Arena(), data), true
	})
}

// valueToJSON converts a Value into a plain Go value encoding/json can
// marshal. Native functions, closures and time values have no JSON
// representation of their own, so they collapse to their stringified
// form (spec.md §4.3's stringification rule is the closest analogue).
func valueToJSON(v *quill.Value) any {
	switch {
	case v.IsNil():
		return nil
	case v.IsBool():
		return v.Bool()
	case v.IsInt():
		return v.Int()
	case v.IsFloat():
		return v.Float()
	case v.IsString():
		return v.Str()
	case v.IsSymbol():
		return v.Symbol().String()
	case v.IsArray():
		items := v.Array()
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = valueToJSON(item)
		}
		return out
	case v.IsObject():
		keys, vals := v.ObjectEntries()
		out := make(map[string]any, len(keys))
		for i, k := range keys {
			out[objectKeyString(k)] = valueToJSON(vals[i])
		}
		return out
	default:
		return v.String()
	}
}

// objectKeyString renders an object key (spec.md's "equality-based keys":
// symbol keys from `name:` literals, or any value from `(expr):`) as a
// JSON object member name.
func objectKeyString(k *quill.Value) string {
	if k.IsSymbol() {
		return k.Symbol().String()
	}
	return k.String()
}

// jsonToValue converts a decoded encoding/json value (nil, bool,
// float64, string, []any, map[string]any) into a quill Value in arena.
// JSON object member names become symbol keys, as in object literals.
func jsonToValue(arena *quill.Arena, data any) *quill.Value {
	switch d := data.(type) {
	case nil:
		return quill.NilValue
	case bool:
		return arena.NewBool(d)
	case float64:
		if d == float64(int64(d)) {
			return arena.NewInt(int64(d))
		}
		return arena.NewFloat(d)
	case string:
		return arena.NewString(d)
	case []any:
		items := make([]*quill.Value, len(d))
		for i, e := range d {
			items[i] = jsonToValue(arena, e)
		}
		return arena.NewArray(items...)
	case map[string]any:
		obj := arena.NewObject()
		for k, e := range d {
			obj.ObjectSet(arena.NewSymbol(quill.Intern(k)), jsonToValue(arena, e))
		}
		return obj
	default:
		return quill.NilValue
	}
}
