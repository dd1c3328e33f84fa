package env

import (
	"testing"

	"github.com/stevepryde/bop-lang/internal/value"
)

func TestDeclareAndLookup(t *testing.T) {
	e := New()
	if err := e.Declare("x", value.NewNumber(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := e.Lookup("x")
	if !ok || !v.Equal(value.NewNumber(1)) {
		t.Fatalf("got (%v, %v), want (1, true)", v, ok)
	}
}

func TestRedeclareInSameFrameIsError(t *testing.T) {
	e := New()
	_ = e.Declare("x", value.NewNumber(1))
	if err := e.Declare("x", value.NewNumber(2)); err == nil {
		t.Fatal("expected redeclaration error")
	}
}

func TestShadowingAcrossFramesIsAllowed(t *testing.T) {
	outer := New()
	_ = outer.Declare("x", value.NewNumber(1))
	inner := outer.Push()
	if err := inner.Declare("x", value.NewNumber(2)); err != nil {
		t.Fatalf("shadowing should be allowed: %v", err)
	}
	v, _ := inner.Lookup("x")
	if !v.Equal(value.NewNumber(2)) {
		t.Errorf("inner lookup got %v, want 2", v)
	}
	v, _ = outer.Lookup("x")
	if !v.Equal(value.NewNumber(1)) {
		t.Errorf("outer lookup got %v, want 1 (shadow leaked outward)", v)
	}
}

func TestAssignSearchesOutward(t *testing.T) {
	outer := New()
	_ = outer.Declare("x", value.NewNumber(1))
	inner := outer.Push()
	if ok := inner.Assign("x", value.NewNumber(42)); !ok {
		t.Fatal("expected assign to find x in outer frame")
	}
	v, _ := outer.Lookup("x")
	if !v.Equal(value.NewNumber(42)) {
		t.Errorf("outer value not updated: %v", v)
	}
}

func TestAssignUnknownNameFails(t *testing.T) {
	e := New()
	if ok := e.Assign("nope", value.NewNumber(1)); ok {
		t.Fatal("expected assign to an unbound name to fail")
	}
}

func TestCallFrameIsolatesFromCallerLocals(t *testing.T) {
	globals := New()
	caller := globals.Push()
	_ = caller.Declare("local", value.NewNumber(1))

	frame := CallFrame(globals)
	if frame.Has("local") {
		t.Fatal("call frame should not see the caller's locals")
	}
}

func TestNamesUnionsAllFrames(t *testing.T) {
	outer := New()
	_ = outer.Declare("a", value.NewNumber(1))
	inner := outer.Push()
	_ = inner.Declare("b", value.NewNumber(2))

	names := inner.Names()
	got := map[string]bool{}
	for _, n := range names {
		got[n] = true
	}
	if !got["a"] || !got["b"] {
		t.Fatalf("got %v, want both a and b", names)
	}
}
