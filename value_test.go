package quill

import "testing"

func TestTruthiness(t *testing.T) {
	arena := NewArena()
	defer arena.Release()

	falsy := []*Value{
		NilValue,
		FalseValue,
		arena.NewInt(0),
		arena.NewFloat(0),
		arena.NewString(""),
		arena.NewArray(),
		arena.NewObject(),
	}
	for _, v := range falsy {
		if v.IsTrue() {
			t.Errorf("%s value unexpectedly truthy", v.Kind())
		}
	}

	truthy := []*Value{
		TrueValue,
		arena.NewInt(1),
		arena.NewInt(-1),
		arena.NewFloat(0.1),
		arena.NewString("x"),
		arena.NewArray(arena.NewInt(1)),
	}
	obj := arena.NewObject()
	obj.ObjectSet(NewSymbolValue("a"), arena.NewInt(1))
	truthy = append(truthy, obj)

	for _, v := range truthy {
		if !v.IsTrue() {
			t.Errorf("%s value unexpectedly falsy", v.Kind())
		}
	}
}

func TestValueEqualCrossNumericKind(t *testing.T) {
	arena := NewArena()
	defer arena.Release()

	if valueEqual(arena.NewInt(2), arena.NewFloat(2.0)) {
		t.Error("2 (int) should not equal 2.0 (float): kinds differ")
	}
	if valueEqual(arena.NewInt(2), arena.NewString("2")) {
		t.Error("2 (int) should not equal \"2\" (string)")
	}
}

func TestValueEqualObjectKeyOrderIndependent(t *testing.T) {
	arena := NewArena()
	defer arena.Release()

	a := arena.NewObject()
	a.ObjectSet(NewSymbolValue("x"), arena.NewInt(1))
	a.ObjectSet(NewSymbolValue("y"), arena.NewInt(2))

	b := arena.NewObject()
	b.ObjectSet(NewSymbolValue("y"), arena.NewInt(2))
	b.ObjectSet(NewSymbolValue("x"), arena.NewInt(1))

	if !valueEqual(a, b) {
		t.Error("objects with the same entries in different insertion order should be equal")
	}

	b.ObjectSet(NewSymbolValue("z"), arena.NewInt(3))
	if valueEqual(a, b) {
		t.Error("objects of different size should not be equal")
	}
}

func TestObjectSetReplacesInPlace(t *testing.T) {
	arena := NewArena()
	defer arena.Release()

	obj := arena.NewObject()
	obj.ObjectSet(NewSymbolValue("a"), arena.NewInt(1))
	obj.ObjectSet(NewSymbolValue("b"), arena.NewInt(2))
	obj.ObjectSet(NewSymbolValue("a"), arena.NewInt(99))

	keys, vals := obj.ObjectEntries()
	if len(keys) != 2 {
		t.Fatalf("expected 2 entries after replace, got %d", len(keys))
	}
	if keys[0].Symbol().name != "a" || vals[0].Int() != 99 {
		t.Errorf("replacing a's value should preserve its original position, got key %s val %d", keys[0].Symbol().name, vals[0].Int())
	}
	if keys[1].Symbol().name != "b" || vals[1].Int() != 2 {
		t.Errorf("b should be unaffected, got key %s val %d", keys[1].Symbol().name, vals[1].Int())
	}
}

func TestObjectIndexBuildsAboveThreshold(t *testing.T) {
	arena := NewArena()
	defer arena.Release()

	obj := arena.NewObject()
	for i := 0; i < objectIndexThreshold+2; i++ {
		obj.ObjectSet(arena.NewInt(int64(i)), arena.NewInt(int64(i*10)))
	}
	v, ok := obj.ObjectGet(arena.NewInt(3))
	if !ok || v.Int() != 30 {
		t.Fatalf("expected indexed lookup of key 3 to find value 30, got %v, %v", v, ok)
	}
	if _, ok := obj.ObjectGet(arena.NewInt(999)); ok {
		t.Fatalf("expected lookup of absent key to fail")
	}
}

func TestStringification(t *testing.T) {
	arena := NewArena()
	defer arena.Release()

	tests := []struct {
		name string
		v    *Value
		want string
	}{
		{"nil", NilValue, ""},
		{"false", FalseValue, ""},
		{"true", TrueValue, "true"},
		{"int", arena.NewInt(42), "42"},
		{"negative int", arena.NewInt(-7), "-7"},
		{"float with fraction", arena.NewFloat(3.5), "3.5"},
		{"whole float keeps decimal", arena.NewFloat(3.0), "3.0"},
		{"string", arena.NewString("hi"), "hi"},
		{"array stringifies to nothing", arena.NewArray(arena.NewInt(1), arena.NewInt(2)), ""},
		{"object stringifies to nothing", arena.NewObject(), ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.v.String(); got != tc.want {
				t.Errorf("%s.String() = %q, want %q", tc.name, got, tc.want)
			}
		})
	}
}

func TestIntFloatCoercion(t *testing.T) {
	arena := NewArena()
	defer arena.Release()

	f := arena.NewFloat(3.9)
	if f.Int() != 3 {
		t.Errorf("Int() of 3.9 should truncate to 3, got %d", f.Int())
	}

	i := arena.NewInt(5)
	if i.Float() != 5.0 {
		t.Errorf("Float() of int 5 should promote to 5.0, got %v", i.Float())
	}
}

func TestArrayAppend(t *testing.T) {
	arena := NewArena()
	defer arena.Release()

	arr := arena.NewArray(arena.NewInt(1))
	arr.ArrayAppend(arena.NewInt(2))
	items := arr.Array()
	if len(items) != 2 || items[1].Int() != 2 {
		t.Fatalf("ArrayAppend did not extend the array in place: %v", items)
	}
}
