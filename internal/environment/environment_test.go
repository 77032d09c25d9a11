package environment

import (
	"testing"

	"github.com/chazu/scriptrunner/internal/value"
)

func TestDefineShadowsOuter(t *testing.T) {
	outer := New()
	outer.Define("x", value.Int(1))

	inner := NewChild(outer)
	inner.Define("x", value.Int(2))

	v, err := inner.Get("x")
	if err != nil || v.Int() != 2 {
		t.Fatalf("inner x = %v, %v, want 2", v, err)
	}
	v, err = outer.Get("x")
	if err != nil || v.Int() != 1 {
		t.Fatalf("outer x = %v, %v, want 1 (shadow must not leak)", v, err)
	}
}

func TestAssignMutatesOuterBinding(t *testing.T) {
	outer := New()
	outer.Define("x", value.Int(1))

	inner := NewChild(outer)
	inner.Assign("x", value.Int(99))

	v, err := outer.Get("x")
	if err != nil || v.Int() != 99 {
		t.Fatalf("outer x = %v, %v, want 99", v, err)
	}
	if _, shadowed := inner.vars["x"]; shadowed {
		// x should only exist in outer; inner.Assign must not have created
		// a local shadow copy.
		t.Fatal("assign must mutate the outer binding in place")
	}
}

func TestAssignImplicitlyDeclaresInInnermostScope(t *testing.T) {
	outer := New()
	inner := NewChild(outer)
	inner.Assign("y", value.Int(7))

	if outer.Exists("y") {
		t.Fatal("implicit declaration must land in the innermost scope, not outer")
	}
	v, err := inner.Get("y")
	if err != nil || v.Int() != 7 {
		t.Fatalf("inner y = %v, %v, want 7", v, err)
	}
}

func TestGetUndefinedVariable(t *testing.T) {
	env := New()
	_, err := env.Get("missing")
	if err == nil {
		t.Fatal("expected UndefinedVariableError")
	}
	if _, ok := err.(*UndefinedVariableError); !ok {
		t.Fatalf("got %T, want *UndefinedVariableError", err)
	}
}

func TestCapturedEnvironmentOutlivesBlock(t *testing.T) {
	// Simulates a function literal capturing a block-local environment
	// and reading from it after the block has "exited" (gone out of Go
	// scope from the caller's perspective, but still referenced by the
	// captured pointer).
	outer := New()
	var captured *Environment
	func() {
		block := NewChild(outer)
		block.Define("secret", value.String("shh"))
		captured = block
	}()
	v, err := captured.Get("secret")
	if err != nil || v.Str() != "shh" {
		t.Fatalf("captured secret = %v, %v", v, err)
	}
}
