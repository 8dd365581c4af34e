package dfa

import (
	"testing"

	"github.com/rmaru/tarn/atn"
)

func frozenSet(stateNum atn.StateID, alt int) *atn.ConfigSet {
	s := atn.NewConfigSet(false)
	st := atn.NewState(atn.StateKindBasic, stateNum, 0)
	s.Add(atn.NewConfig(st, alt, atn.EmptyContext, nil), nil)
	s.SetReadOnly()
	return s
}

func TestDFA_AddStateInterns(t *testing.T) {
	d := NewDFA(atn.NewState(atn.StateKindBlockStart, 0, 0), 0)

	a := NewState(frozenSet(5, 1))
	b := NewState(frozenSet(5, 1))
	c := NewState(frozenSet(6, 2))

	if got := d.AddState(a); got != a {
		t.Fatalf("a fresh state must intern to itself")
	}
	if got := d.AddState(b); got != a {
		t.Fatalf("a structurally equal state must intern to the existing one")
	}
	if got := d.AddState(c); got != c {
		t.Fatalf("a distinct state must intern to itself")
	}
	if a.Num != 0 || c.Num != 1 {
		t.Fatalf("state numbers must be assigned in insertion order; got: %v, %v", a.Num, c.Num)
	}
	if got := d.NumStates(); got != 2 {
		t.Fatalf("unexpected state count; want: 2, got: %v", got)
	}
}

func TestDFA_Edges(t *testing.T) {
	d := NewDFA(atn.NewState(atn.StateKindBlockStart, 0, 0), 0)
	p := d.AddState(NewState(frozenSet(1, 1)))
	q := d.AddState(NewState(frozenSet(2, 1)))

	if got := p.Edge(7); got != nil {
		t.Fatalf("a missing edge must read as nil; got: %v", got)
	}

	d.SetEdge(p, 7, q)
	if got := p.Edge(7); got != q {
		t.Fatalf("unexpected edge target; want: %v, got: %v", q, got)
	}

	// EOF lives at slot -1.
	d.SetEdge(p, -1, q)
	if got := p.Edge(-1); got != q {
		t.Fatalf("the EOF edge must be addressable; got: %v", got)
	}
	if got := p.Edge(3); got != nil {
		t.Fatalf("unrelated symbols must stay nil; got: %v", got)
	}
}

func TestDFA_PrecedenceStartStates(t *testing.T) {
	entry := atn.NewState(atn.StateKindStarLoopEntry, 0, 0)
	entry.PrecedenceRuleDecision = true
	d := NewDFA(entry, 0)
	if !d.IsPrecedenceDFA() {
		t.Fatalf("a precedence-rule decision must produce a precedence DFA")
	}

	if got := d.PrecedenceStartState(2, false); got != nil {
		t.Fatalf("an unset precedence start must be nil; got: %v", got)
	}
	s := d.AddState(NewState(frozenSet(1, 1)))
	d.SetPrecedenceStartState(2, false, s)
	if got := d.PrecedenceStartState(2, false); got != s {
		t.Fatalf("unexpected precedence start state; got: %v", got)
	}
	// SLL and LL starts for the same precedence are distinct slots.
	if got := d.PrecedenceStartState(2, true); got != nil {
		t.Fatalf("the full-context slot must be independent; got: %v", got)
	}

	ordinary := NewDFA(atn.NewState(atn.StateKindBlockStart, 1, 0), 1)
	defer func() {
		if recover() == nil {
			t.Fatalf("precedence access on an ordinary DFA must panic")
		}
	}()
	ordinary.PrecedenceStartState(0, false)
}

func TestDFA_AcceptPromotion(t *testing.T) {
	d := NewDFA(atn.NewState(atn.StateKindBlockStart, 0, 0), 0)
	s := d.AddState(NewState(frozenSet(1, 1)))
	if s.IsAccept {
		t.Fatalf("a fresh state must not be accepting")
	}
	s.IsAccept = true
	s.Prediction = 1
	again := d.AddState(NewState(frozenSet(1, 1)))
	if !again.IsAccept || again.Prediction != 1 {
		t.Fatalf("re-interning must observe the promoted accept state")
	}
}
