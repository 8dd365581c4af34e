package atn

import "testing"

// buildMiniATN wires r0 : 'a' r1 'c' ; r1 : 'b' ; by hand, with the
// rule-return edge a deserializer would synthesize.
func buildMiniATN() *ATN {
	a := &ATN{Kind: GrammarKindParser, MaxTokenType: 3}
	mk := func(kind StateKind, rule int) *State {
		s := NewState(kind, StateID(len(a.States)), rule)
		a.States = append(a.States, s)
		return s
	}

	r0Start := mk(StateKindRuleStart, 0) // 0
	r0Stop := mk(StateKindRuleStop, 0)   // 1
	r1Start := mk(StateKindRuleStart, 1) // 2
	r1Stop := mk(StateKindRuleStop, 1)   // 3
	s1 := mk(StateKindBasic, 0)          // 4
	s2 := mk(StateKindBasic, 0)          // 5
	s3 := mk(StateKindBasic, 0)          // 6
	t1 := mk(StateKindBasic, 1)          // 7

	a.RuleToStartState = []StateID{r0Start.Num, r1Start.Num}
	a.RuleToStopState = []StateID{r0Stop.Num, r1Stop.Num}

	r0Start.AddTransition(NewAtomTransition(s1.Num, 1))       // 'a'
	s1.AddTransition(NewRuleTransition(r1Start.Num, 1, 0, s2.Num))
	s2.AddTransition(NewAtomTransition(s3.Num, 3))            // 'c'
	s3.AddTransition(NewEpsilonTransition(r0Stop.Num))
	r1Start.AddTransition(NewAtomTransition(t1.Num, 2))       // 'b'
	t1.AddTransition(NewEpsilonTransition(r1Stop.Num))
	r1Stop.AddTransition(NewReturnTransition(s2.Num, -1))

	return a
}

func TestNextTokens(t *testing.T) {
	a := buildMiniATN()

	if got := a.NextTokens(a.State(0), nil); !got.Contains(1) || got.Size() != 1 {
		t.Fatalf("unexpected follow of r0 start; got: %v", got)
	}
	// After 'a' the parser is about to invoke r1, so 'b' follows.
	if got := a.NextTokens(a.State(4), nil); !got.Contains(2) || got.Size() != 1 {
		t.Fatalf("unexpected follow at the invocation site; got: %v", got)
	}
	// A rule stop with no context reduces to the epsilon marker; the
	// caller decides what actually follows.
	got := a.NextTokens(a.State(3), nil)
	if !got.Contains(TokenEpsilon) || got.Size() != 1 {
		t.Fatalf("unexpected follow at the rule stop; got: %v", got)
	}

	// The result is cached on the state and frozen.
	again := a.NextTokens(a.State(4), nil)
	if again != a.NextTokens(a.State(4), nil) {
		t.Fatalf("the context-free follow set must be cached")
	}
}

type fakeInvocation struct {
	parent *fakeInvocation
	state  StateID
}

func (f *fakeInvocation) ParentInvocation() RuleInvocation {
	if f.parent == nil {
		return nil
	}
	return f.parent
}
func (f *fakeInvocation) InvokingState() StateID  { return f.state }
func (f *fakeInvocation) IsEmptyInvocation() bool { return f.state == StateIDInvalid }

func TestExpectedTokens(t *testing.T) {
	a := buildMiniATN()

	// Inside r1, before 'b'.
	if got := a.ExpectedTokens(2, nil); !got.Contains(2) || got.Size() != 1 {
		t.Fatalf("unexpected expected set; got: %v", got)
	}

	// At r1's stop with the caller chain known: the caller continues
	// with 'c'.
	chain := &fakeInvocation{state: 4, parent: &fakeInvocation{state: StateIDInvalid}}
	got := a.ExpectedTokens(3, chain)
	if !got.Contains(3) {
		t.Fatalf("the caller's continuation must be expected; got: %v", got)
	}
	if got.Contains(TokenEpsilon) {
		t.Fatalf("the epsilon marker must not leak into expected sets; got: %v", got)
	}
}

func TestFromRuleInvocation_Chain(t *testing.T) {
	a := buildMiniATN()
	chain := &fakeInvocation{state: 4, parent: &fakeInvocation{state: StateIDInvalid}}
	ctx := FromRuleInvocation(a, chain)
	if ctx.Length() != 1 {
		t.Fatalf("one live frame must produce one return state; got: %v", ctx)
	}
	// The invoking state's rule transition resumes at state 5.
	if got := ctx.ReturnState(0); got != 5 {
		t.Fatalf("unexpected return state; want: 5, got: %v", got)
	}
	if !ctx.Parent(0).IsEmpty() {
		t.Fatalf("the chain root must map to the empty context")
	}
}
