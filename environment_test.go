package lox

import (
	"testing"
)

func TestEnvDefineGetAssign(t *testing.T) {
	g := NewEnv(nil)
	g.Define("a", Num(1))

	child := NewEnv(g)
	if v, ok := child.Get("a"); !ok || v.Data.(float64) != 1 {
		t.Fatalf("lookup must walk parent-ward, got %v %v", v, ok)
	}

	if !child.Assign("a", Num(2)) {
		t.Fatalf("assign must find outer binding")
	}
	if v, _ := g.Get("a"); v.Data.(float64) != 2 {
		t.Fatalf("assign must mutate the defining frame")
	}

	if child.Assign("missing", Num(0)) {
		t.Fatalf("assign must not implicitly define")
	}
	if _, ok := child.Get("missing"); ok {
		t.Fatalf("get must miss undefined names")
	}
}

func TestEnvShadowing(t *testing.T) {
	g := NewEnv(nil)
	g.Define("x", Str("outer"))
	child := NewEnv(g)
	child.Define("x", Str("inner"))

	if v, _ := child.Get("x"); v.Data.(string) != "inner" {
		t.Fatalf("inner frame must shadow")
	}
	if v, _ := g.Get("x"); v.Data.(string) != "outer" {
		t.Fatalf("outer binding must be untouched")
	}
}

func TestEnvDepthIndexedOps(t *testing.T) {
	g := NewEnv(nil)
	g.Define("n", Num(0))
	mid := NewEnv(g)
	inner := NewEnv(mid)

	if v := inner.GetAt(2, "n"); v.Data.(float64) != 0 {
		t.Fatalf("GetAt must walk exactly the given distance")
	}
	inner.AssignAt(2, "n", Num(5))
	if v, _ := g.Get("n"); v.Data.(float64) != 5 {
		t.Fatalf("AssignAt must write the ancestor frame")
	}

	// depth 0 is the current frame
	inner.Define("n", Num(9))
	if v := inner.GetAt(0, "n"); v.Data.(float64) != 9 {
		t.Fatalf("GetAt(0) must read the innermost frame")
	}
	if v := inner.GetAt(2, "n"); v.Data.(float64) != 5 {
		t.Fatalf("shadowing must not affect depth-indexed reads")
	}
}
