package quill

import (
	"sync"
	"testing"
)

func TestInternPointerIdentity(t *testing.T) {
	a := Intern("hello")
	b := Intern("hello")
	if a != b {
		t.Fatalf("expected Intern(%q) to return the same pointer twice, got %p and %p", "hello", a, b)
	}

	c := Intern("world")
	if a == c {
		t.Fatal("expected distinct names to intern to distinct pointers")
	}
}

func TestSymbolTableConcurrentIntern(t *testing.T) {
	tbl := newSymbolTable()
	var wg sync.WaitGroup
	results := make([]*Symbol, 64)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = tbl.Intern("shared")
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Fatalf("concurrent Intern of the same name produced distinct pointers at index %d", i)
		}
	}
}

func TestSymbolString(t *testing.T) {
	s := Intern("foo")
	if s.String() != "foo" {
		t.Errorf("Symbol.String() = %q, want %q", s.String(), "foo")
	}
}
