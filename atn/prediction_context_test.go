package atn

import "testing"

func singleton(parent *PredictionContext, returnState int) *PredictionContext {
	return NewSingletonContext(parent, returnState)
}

func TestPredictionContext_Empty(t *testing.T) {
	if !EmptyContext.IsEmpty() {
		t.Fatalf("the shared root context must be empty")
	}
	if !EmptyContext.HasEmptyPath() {
		t.Fatalf("the shared root context must have an empty path")
	}
	if got := NewSingletonContext(nil, EmptyReturnState); got != EmptyContext {
		t.Fatalf("the (nil, sentinel) singleton must be the shared root context")
	}
	c := singleton(EmptyContext, 7)
	if c.IsEmpty() {
		t.Fatalf("a one-frame context must not be empty")
	}
	if c.HasEmptyPath() {
		t.Fatalf("a context returning to state 7 must not have an empty path")
	}
}

func TestPredictionContext_EqualityIsStructural(t *testing.T) {
	a := singleton(singleton(EmptyContext, 3), 7)
	b := singleton(singleton(EmptyContext, 3), 7)
	if a == b {
		t.Fatalf("the test needs two distinct nodes")
	}
	if !a.Equal(b) {
		t.Fatalf("structurally equal contexts must be equal")
	}
	if a.Hash() != b.Hash() {
		t.Fatalf("equal contexts must hash alike")
	}
	if a.Equal(singleton(singleton(EmptyContext, 4), 7)) {
		t.Fatalf("contexts with different parents must not be equal")
	}
}

func TestMerge_Identical(t *testing.T) {
	a := singleton(EmptyContext, 5)
	if got := Merge(a, a, true, nil); got != a {
		t.Fatalf("merging a context with itself must return it by identity")
	}
	b := singleton(EmptyContext, 5)
	if got := Merge(a, b, true, nil); got != a {
		t.Fatalf("merging equal contexts must return the first operand; got: %v", got)
	}
}

func TestMerge_RootIsWildcard(t *testing.T) {
	a := singleton(EmptyContext, 5)
	if got := Merge(a, EmptyContext, true, nil); got != EmptyContext {
		t.Fatalf("# absorbs under a wildcard root; got: %v", got)
	}
	if got := Merge(EmptyContext, a, true, nil); got != EmptyContext {
		t.Fatalf("# absorbs under a wildcard root; got: %v", got)
	}
}

func TestMerge_FullContextRoot(t *testing.T) {
	a := singleton(EmptyContext, 5)
	got := Merge(a, EmptyContext, false, nil)
	if got.Length() != 2 {
		t.Fatalf("a full-context root merge must keep both paths; got: %v", got)
	}
	if got.ReturnState(0) != 5 || got.ReturnState(1) != EmptyReturnState {
		t.Fatalf("the sentinel must sort last; got: %v", got)
	}
	if !got.HasEmptyPath() {
		t.Fatalf("the merged context must have an empty path")
	}
}

func TestMerge_InterleavesReturnStates(t *testing.T) {
	a := singleton(EmptyContext, 9)
	b := singleton(EmptyContext, 2)
	got := Merge(a, b, true, nil)
	if got.Length() != 2 || got.ReturnState(0) != 2 || got.ReturnState(1) != 9 {
		t.Fatalf("merged return states must be sorted; got: %v", got)
	}
}

func TestMerge_SharedReturnStateMergesParents(t *testing.T) {
	a := singleton(singleton(EmptyContext, 3), 7)
	b := singleton(singleton(EmptyContext, 5), 7)
	got := Merge(a, b, true, nil)
	if got.Length() != 1 || got.ReturnState(0) != 7 {
		t.Fatalf("a shared return state must collapse to one entry; got: %v", got)
	}
	p := got.Parent(0)
	if p.Length() != 2 || p.ReturnState(0) != 3 || p.ReturnState(1) != 5 {
		t.Fatalf("parents must merge recursively; got parent: %v", p)
	}
}

func TestMerge_CommutativeAndAssociative(t *testing.T) {
	x := singleton(singleton(EmptyContext, 1), 10)
	y := singleton(singleton(EmptyContext, 2), 20)
	z := singleton(singleton(EmptyContext, 3), 30)

	ab := Merge(x, y, true, nil)
	ba := Merge(y, x, true, nil)
	if !ab.Equal(ba) {
		t.Fatalf("merge must be commutative; got: %v vs %v", ab, ba)
	}

	l := Merge(Merge(x, y, true, nil), z, true, nil)
	r := Merge(x, Merge(y, z, true, nil), true, nil)
	if !l.Equal(r) {
		t.Fatalf("merge must be associative; got: %v vs %v", l, r)
	}
}

func TestMerge_CachePreservesSharing(t *testing.T) {
	cache := NewMergeCache()
	a := singleton(EmptyContext, 4)
	b := singleton(EmptyContext, 6)
	first := Merge(a, b, true, cache)
	second := Merge(a, b, true, cache)
	if first != second {
		t.Fatalf("a cached merge must return the identical node")
	}
}

func TestContextCache_Interns(t *testing.T) {
	cache := NewContextCache()
	a := singleton(EmptyContext, 12)
	b := singleton(EmptyContext, 12)
	ca := cache.Add(a)
	cb := cache.Add(b)
	if ca != cb {
		t.Fatalf("equal contexts must intern to one node")
	}
	if cache.Add(EmptyContext) != EmptyContext {
		t.Fatalf("the root context must stay pointer-unique")
	}
	if cache.Len() != 1 {
		t.Fatalf("unexpected cache size; want: 1, got: %v", cache.Len())
	}
}

func TestFromRuleInvocation_Root(t *testing.T) {
	a := &ATN{}
	if got := FromRuleInvocation(a, nil); got != EmptyContext {
		t.Fatalf("a nil chain must produce the root context; got: %v", got)
	}
}
