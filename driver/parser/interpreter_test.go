package parser

import (
	"strings"
	"testing"

	"github.com/rmaru/tarn/atn"
	"github.com/rmaru/tarn/spec"
)

// buildExprATN assembles
//
//	s : e EOF ;
//	e : e '*' e | e '+' e | INT ;
//
// with e in its precedence-climbing form, the way the offline tool
// rewrites left recursion: INT first, then a star loop whose
// alternatives guard themselves with precedence predicates. '*' binds
// at precedence 3 and '+' at 2; both are left-associative, so each
// recursive invocation re-enters at one above its own precedence.
// INT=1, '*'=2, '+'=3.
func buildExprATN(t *testing.T) *atn.ATN {
	t.Helper()
	b := spec.NewBuilder(atn.GrammarKindParser, 3)

	sStart := b.State(atn.StateKindRuleStart, 0)
	sStop := b.State(atn.StateKindRuleStop, 0)
	b.Rule(sStart, sStop)

	eStart := b.State(atn.StateKindRuleStart, 1)
	eStop := b.State(atn.StateKindRuleStop, 1)
	eStart.LeftRecursive = true
	b.Rule(eStart, eStop)

	// s : e EOF
	sp1 := b.State(atn.StateKindBasic, 0)
	sp2 := b.State(atn.StateKindBasic, 0)
	sp3 := b.State(atn.StateKindBasic, 0)
	b.Epsilon(sStart, sp1)
	b.RuleEdge(sp1, 1, 0, sp2)
	b.Atom(sp2, sp3, atn.TokenEOF)
	b.Epsilon(sp3, sStop)

	primary := b.State(atn.StateKindBasic, 1)

	loopEntry := b.State(atn.StateKindStarLoopEntry, 1)
	loopEntry.PrecedenceRuleDecision = true
	blkStart := b.State(atn.StateKindStarBlockStart, 1)
	blkEnd := b.State(atn.StateKindBlockEnd, 1)
	blkStart.EndState = blkEnd.Num
	loopBack := b.State(atn.StateKindStarLoopBack, 1)
	loopEnd := b.State(atn.StateKindLoopEnd, 1)
	loopEntry.LoopBack = loopBack.Num
	loopEnd.LoopBack = loopBack.Num
	b.Decision(loopEntry)
	b.Decision(blkStart)

	// e : INT ...
	b.Epsilon(eStart, primary)
	b.Atom(primary, loopEntry, 1)

	b.Epsilon(loopEntry, blkStart)
	b.Epsilon(loopEntry, loopEnd)

	// ... ( {3 >= _p}? '*' e[4]
	m1 := b.State(atn.StateKindBasic, 1)
	m2 := b.State(atn.StateKindBasic, 1)
	m3 := b.State(atn.StateKindBasic, 1)
	b.Epsilon(blkStart, m1)
	b.Precedence(m1, m2, 3)
	b.Atom(m2, m3, 2)
	b.RuleEdge(m3, 1, 4, blkEnd)

	//   | {2 >= _p}? '+' e[3] )*
	p1 := b.State(atn.StateKindBasic, 1)
	p2 := b.State(atn.StateKindBasic, 1)
	p3 := b.State(atn.StateKindBasic, 1)
	b.Epsilon(blkStart, p1)
	b.Precedence(p1, p2, 2)
	b.Atom(p2, p3, 3)
	b.RuleEdge(p3, 1, 3, blkEnd)

	b.Epsilon(blkEnd, loopBack)
	b.Epsilon(loopBack, loopEntry)
	b.Epsilon(loopEnd, eStop)

	a, err := b.Build()
	if err != nil {
		t.Fatalf("failed to build the ATN: %v", err)
	}
	return a
}

func newInterpreter(t *testing.T, a *atn.ATN, input TokenStream, opts ...Option) *Interpreter {
	t.Helper()
	i, err := NewInterpreter(a, input, opts...)
	if err != nil {
		t.Fatalf("failed to build an interpreter: %v", err)
	}
	i.RemoveErrorListeners()
	return i
}

func TestInterpreter_ParsesSequence(t *testing.T) {
	a := buildTwoAltATN(t)
	input := newTokenStream([]int{1, 2}, []string{"a", "b"})
	i := newInterpreter(t, a, input)

	tree, err := i.Parse(0)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if i.SyntaxErrorCount() != 0 {
		t.Fatalf("unexpected syntax errors: %v", i.SyntaxErrorCount())
	}
	if got := tree.Text(); got != "ab" {
		t.Fatalf("unexpected tree text; want: \"ab\", got: %#v", got)
	}
	if len(tree.Children()) != 2 {
		t.Fatalf("unexpected child count; want: 2, got: %v", len(tree.Children()))
	}
	if tree.Start.Lexeme() != "a" || tree.Stop.Lexeme() != "b" {
		t.Fatalf("unexpected token span: %v..%v", tree.Start, tree.Stop)
	}
}

func TestInterpreter_PrecedenceClimbing(t *testing.T) {
	a := buildExprATN(t)
	input := newTokenStream(
		[]int{1, 3, 1, 2, 1},
		[]string{"1", "+", "2", "*", "3"},
	)
	i := newInterpreter(t, a, input)

	root, err := i.Parse(0)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if i.SyntaxErrorCount() != 0 {
		t.Fatalf("unexpected syntax errors: %v", i.SyntaxErrorCount())
	}

	tree, ok := root.Children()[0].(*ParserRuleContext)
	if !ok {
		t.Fatalf("the start rule's first child must be the expression; got: %T", root.Children()[0])
	}

	// '*' above '+' binds tighter: 1 + (2 * 3), so the right operand of
	// '+' is itself an e covering "2*3".
	if got := tree.Text(); got != "1+2*3" {
		t.Fatalf("unexpected tree text; got: %#v", got)
	}
	kids := tree.Children()
	if len(kids) != 3 {
		t.Fatalf("the root must be the '+' node with 3 children; got: %v", len(kids))
	}
	left, okL := kids[0].(*ParserRuleContext)
	op, okO := kids[1].(*TerminalNode)
	right, okR := kids[2].(*ParserRuleContext)
	if !okL || !okO || !okR {
		t.Fatalf("unexpected child shapes: %T, %T, %T", kids[0], kids[1], kids[2])
	}
	if op.Text() != "+" {
		t.Fatalf("the root operator must be '+'; got: %#v", op.Text())
	}
	if got := left.Text(); got != "1" {
		t.Fatalf("unexpected left operand; want: \"1\", got: %#v", got)
	}
	if got := right.Text(); got != "2*3" {
		t.Fatalf("'*' must bind tighter than '+'; right operand: %#v", got)
	}
	rkids := right.Children()
	if len(rkids) != 3 {
		t.Fatalf("the '*' node must have 3 children; got: %v", len(rkids))
	}
	if rop, ok := rkids[1].(*TerminalNode); !ok || rop.Text() != "*" {
		t.Fatalf("the inner operator must be '*'; got: %v", rkids[1])
	}
}

func TestInterpreter_LeftAssociativity(t *testing.T) {
	a := buildExprATN(t)
	input := newTokenStream(
		[]int{1, 3, 1, 3, 1},
		[]string{"1", "+", "2", "+", "3"},
	)
	i := newInterpreter(t, a, input)

	root, err := i.Parse(0)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	tree, ok := root.Children()[0].(*ParserRuleContext)
	if !ok {
		t.Fatalf("the start rule's first child must be the expression; got: %T", root.Children()[0])
	}
	// (1 + 2) + 3: the left child of the root '+' spans "1+2".
	kids := tree.Children()
	if len(kids) != 3 {
		t.Fatalf("the root must have 3 children; got: %v", len(kids))
	}
	if got := kids[0].Text(); got != "1+2" {
		t.Fatalf("'+' must associate left; left operand: %#v", got)
	}
	if got := kids[2].Text(); got != "3" {
		t.Fatalf("unexpected right operand: %#v", got)
	}
}

func TestInterpreter_AmbiguityTakesMinimumAlt(t *testing.T) {
	a := buildAmbiguousATN(t)
	input := newTokenStream([]int{1}, []string{"a"})
	i := newInterpreter(t, a, input)
	events := &eventListener{}
	i.AddErrorListener(events)

	tree, err := i.Parse(0)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if events.ambiguities != 1 {
		t.Fatalf("the ambiguity must be reported; got: %v", events.ambiguities)
	}
	if got := tree.Text(); got != "a" {
		t.Fatalf("unexpected tree text: %#v", got)
	}
}

func TestInterpreter_DecisionOverride(t *testing.T) {
	a := buildAmbiguousATN(t)
	input := newTokenStream([]int{1}, []string{"a"})
	i := newInterpreter(t, a, input)
	i.AddDecisionOverride(0, 0, 2)

	if _, err := i.Parse(0); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !i.OverrideReached() {
		t.Fatalf("the decision override must be consulted")
	}
}

func TestInterpreter_ReportsAndRecoversFromMismatch(t *testing.T) {
	a := buildTwoAltATN(t)
	// 'a' 'a' fits neither alternative: the second token is neither 'b'
	// nor 'c', so prediction finds no viable alternative.
	input := newTokenStream([]int{1, 1}, []string{"a", "a"})
	i := newInterpreter(t, a, input)
	events := &eventListener{}
	i.AddErrorListener(events)

	_, _ = i.Parse(0)
	if len(events.syntax) == 0 {
		t.Fatalf("the failure must reach the listeners")
	}
	if i.SyntaxErrorCount() == 0 {
		t.Fatalf("the parser must count its syntax errors")
	}
	if !strings.Contains(strings.Join(events.syntax, "\n"), "no viable alternative") {
		t.Fatalf("unexpected messages: %v", events.syntax)
	}
}

func TestInterpreter_BailStrategyStopsAtFirstError(t *testing.T) {
	a := buildTwoAltATN(t)
	input := newTokenStream([]int{1, 1}, []string{"a", "a"})
	i := newInterpreter(t, a, input, WithErrorStrategy(NewBailErrorStrategy()))

	_, err := i.Parse(0)
	if err == nil {
		t.Fatalf("the bail strategy must surface the first error")
	}
}
