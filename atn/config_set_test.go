package atn

import "testing"

func testState(num StateID) *State {
	return NewState(StateKindBasic, num, 0)
}

func TestConfigSet_DedupMergesStacks(t *testing.T) {
	s := NewConfigSet(false)
	st := testState(3)

	a := NewConfig(st, 1, singleton(EmptyContext, 10), nil)
	b := NewConfig(st, 1, singleton(EmptyContext, 20), nil)
	b.ReachesIntoOuterContext = 2

	if !s.Add(a, nil) {
		t.Fatalf("adding a fresh config must change the set")
	}
	s.Add(b, nil)

	if s.Len() != 1 {
		t.Fatalf("configs sharing (state, alt, sem ctx) must collapse; got %v configs", s.Len())
	}
	got := s.Configs[0]
	if got.Context.Length() != 2 {
		t.Fatalf("stacks must merge; got context: %v", got.Context)
	}
	if got.ReachesIntoOuterContext != 2 {
		t.Fatalf("the outer-context counter must take the max; got: %v", got.ReachesIntoOuterContext)
	}
	if !s.DipsIntoOuterContext {
		t.Fatalf("the set must record that a member dips into the outer context")
	}
}

func TestConfigSet_DistinctAltsCoexist(t *testing.T) {
	s := NewConfigSet(false)
	st := testState(3)
	s.Add(NewConfig(st, 1, EmptyContext, nil), nil)
	s.Add(NewConfig(st, 2, EmptyContext, nil), nil)
	if s.Len() != 2 {
		t.Fatalf("configs with different alts must coexist; got %v configs", s.Len())
	}
	alts := s.Alts()
	if !alts.Contains(1) || !alts.Contains(2) || alts.Len() != 2 {
		t.Fatalf("unexpected alt set: %v", alts)
	}
}

func TestConfigSet_SemanticContextFlag(t *testing.T) {
	s := NewConfigSet(false)
	st := testState(1)
	s.Add(NewConfig(st, 1, EmptyContext, nil), nil)
	if s.HasSemanticContext {
		t.Fatalf("a predicate-free set must not flag semantic context")
	}
	s.Add(NewConfig(testState(2), 1, EmptyContext, NewPredicate(0, 0, false)), nil)
	if !s.HasSemanticContext {
		t.Fatalf("adding a predicated config must flag semantic context")
	}
}

func TestConfigSet_ReadOnly(t *testing.T) {
	s := NewConfigSet(false)
	s.Add(NewConfig(testState(1), 1, EmptyContext, nil), nil)
	s.SetReadOnly()
	defer func() {
		if recover() == nil {
			t.Fatalf("adding to a frozen set must panic")
		}
	}()
	s.Add(NewConfig(testState(2), 1, EmptyContext, nil), nil)
}

func TestConfigSet_StructuralEquality(t *testing.T) {
	mk := func() *ConfigSet {
		s := NewConfigSet(false)
		s.Add(NewConfig(testState(1), 1, singleton(EmptyContext, 5), nil), nil)
		s.Add(NewConfig(testState(2), 2, EmptyContext, nil), nil)
		return s
	}
	a, b := mk(), mk()
	if !a.Equal(b) {
		t.Fatalf("sets with equal configs in the same order must be equal")
	}
	if a.Hash() != b.Hash() {
		t.Fatalf("equal sets must hash alike")
	}

	c := NewConfigSet(true)
	c.Add(NewConfig(testState(1), 1, singleton(EmptyContext, 5), nil), nil)
	c.Add(NewConfig(testState(2), 2, EmptyContext, nil), nil)
	if a.Equal(c) {
		t.Fatalf("sets differing in FullCtx must not be equal")
	}
}

func TestOrderedConfigSet_KeepsDistinctStacks(t *testing.T) {
	s := NewOrderedConfigSet()
	st := testState(3)
	s.Add(NewConfig(st, 1, singleton(EmptyContext, 10), nil), nil)
	s.Add(NewConfig(st, 1, singleton(EmptyContext, 20), nil), nil)
	if s.Len() != 2 {
		t.Fatalf("an ordered set must keep configs with distinct stacks; got %v", s.Len())
	}
}
