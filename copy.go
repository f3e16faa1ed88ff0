package quill

// copyValue deep-copies v into dst, returning a Value owned by dst.
// Arrays and objects that reference themselves (directly or through a
// cycle) are detected via a visited-pointer stack so the copy
// terminates and reuses the already-copied instance for repeated
// references, per spec.md §3 and §9.
//
// Scalars (nil/bool/int/float/symbol/string/time) need no real copying
// since they hold no arena-owned backing storage beyond Go's own
// garbage-collected string data, which is immutable. nil and bool return
// the shared NilValue/TrueValue/FalseValue singletons; the other scalars
// get a fresh *Value header in dst.
func copyValue(dst *Arena, v *Value) *Value {
	return copyValueVisiting(dst, v, make(map[any]*Value))
}

func copyValueVisiting(dst *Arena, v *Value, visited map[any]*Value) *Value {
	switch v.kind {
	case KindNil:
		return NilValue
	case KindBool:
		return boolValue(v.b)
	case KindInt:
		return dst.NewInt(v.i)
	case KindFloat:
		return dst.NewFloat(v.f)
	case KindSymbol:
		return dst.NewSymbol(v.sym)
	case KindString:
		return dst.NewString(v.str)
	case KindTime:
		return dst.NewTime(v.i)
	case KindNative:
		// Native functions are process-wide singletons; no copy needed.
		return dst.NewNative(v.native)
	case KindClosure:
		// A closure's captured environment is copied too (it may hold
		// arena-owned values from the source arena that must not
		// outlive it); the closure body AST is shared, not copied,
		// since modules own their ASTs for the whole build.
		if cp, ok := visited[v.clo]; ok {
			return cp
		}
		placeholder := &Value{kind: KindClosure}
		visited[v.clo] = placeholder
		newEnv := copyEnvVisiting(dst, v.clo.Env, visited)
		placeholder.clo = &Closure{Params: v.clo.Params, Body: v.clo.Body, Env: newEnv}
		return placeholder
	case KindArray:
		if cp, ok := visited[v.arr]; ok {
			return cp
		}
		newArr := &arrayData{items: make([]*Value, len(v.arr.items))}
		placeholder := &Value{kind: KindArray, arr: newArr}
		visited[v.arr] = placeholder
		for i, it := range v.arr.items {
			newArr.items[i] = copyValueVisiting(dst, it, visited)
		}
		return placeholder
	case KindObject:
		if cp, ok := visited[v.obj]; ok {
			return cp
		}
		newObj := &objectData{}
		placeholder := &Value{kind: KindObject, obj: newObj}
		visited[v.obj] = placeholder
		for _, e := range v.obj.entries {
			k := copyValueVisiting(dst, e.key, visited)
			val := copyValueVisiting(dst, e.val, visited)
			newObj.Set(k, val)
		}
		return placeholder
	default:
		return NilValue
	}
}

func copyEnvVisiting(dst *Arena, src *Environment, visited map[any]*Value) *Environment {
	newEnv := newEnvironment(dst, nil)
	newEnv.diagSink = src.diagSink
	for _, sym := range src.orderedNames() {
		newEnv.Define(sym, copyValueVisiting(dst, src.vars[sym], visited))
	}
	return newEnv
}
