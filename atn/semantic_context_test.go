package atn

import "testing"

type tableEvaluator struct {
	preds map[[2]int]bool
	prec  int
}

func (e *tableEvaluator) Sempred(_ RuleInvocation, ruleIndex, predIndex int) bool {
	return e.preds[[2]int{ruleIndex, predIndex}]
}

func (e *tableEvaluator) Precpred(_ RuleInvocation, precedence int) bool {
	return precedence >= e.prec
}

func TestSemanticContext_None(t *testing.T) {
	eval := &tableEvaluator{}
	if !SemanticContextNone.Evaluate(eval, nil) {
		t.Fatalf("the empty context must evaluate to true")
	}
	if got := AndContext(SemanticContextNone, SemanticContextNone); got != SemanticContextNone {
		t.Fatalf("none AND none must stay none; got: %v", got)
	}
}

func TestSemanticContext_AndOr(t *testing.T) {
	p00 := NewPredicate(0, 0, false)
	p01 := NewPredicate(0, 1, false)
	eval := &tableEvaluator{
		preds: map[[2]int]bool{
			{0, 0}: true,
			{0, 1}: false,
		},
	}

	and := AndContext(p00, p01)
	if and.Evaluate(eval, nil) {
		t.Fatalf("true AND false must be false")
	}
	or := OrContext(p00, p01)
	if !or.Evaluate(eval, nil) {
		t.Fatalf("true OR false must be true")
	}

	// AND with the trivially true context collapses.
	if got := AndContext(p00, SemanticContextNone); got != p00 {
		t.Fatalf("p AND none must be p; got: %v", got)
	}
	if got := OrContext(p00, SemanticContextNone); got != SemanticContextNone {
		t.Fatalf("p OR none must be none; got: %v", got)
	}

	// Conjunction of equal predicates collapses.
	if got := AndContext(p00, NewPredicate(0, 0, false)); !got.Equal(p00) {
		t.Fatalf("p AND p must be p; got: %v", got)
	}
}

func TestSemanticContext_OperandOrderInsensitive(t *testing.T) {
	p00 := NewPredicate(0, 0, false)
	p01 := NewPredicate(0, 1, false)
	if !AndContext(p00, p01).Equal(AndContext(p01, p00)) {
		t.Fatalf("AND must not depend on operand order")
	}
	if !OrContext(p00, p01).Equal(OrContext(p01, p00)) {
		t.Fatalf("OR must not depend on operand order")
	}
}

func TestSemanticContext_PrecedenceReduction(t *testing.T) {
	lo := NewPrecedencePredicate(2)
	hi := NewPrecedencePredicate(5)

	and := AndContext(lo, hi)
	if and.Kind != SemanticContextKindPrecedence || and.Precedence != 2 {
		t.Fatalf("AND must keep the least permissive precedence predicate; got: %v", and)
	}
	or := OrContext(lo, hi)
	if or.Kind != SemanticContextKindPrecedence || or.Precedence != 5 {
		t.Fatalf("OR must keep the most permissive precedence predicate; got: %v", or)
	}
}

func TestSemanticContext_EvalPrecedence(t *testing.T) {
	eval := &tableEvaluator{prec: 3}

	if got := NewPrecedencePredicate(5).EvalPrecedence(eval, nil); got != SemanticContextNone {
		t.Fatalf("a satisfied precedence predicate must reduce to none; got: %v", got)
	}
	if got := NewPrecedencePredicate(1).EvalPrecedence(eval, nil); got != nil {
		t.Fatalf("a failed precedence predicate must reduce to nil; got: %v", got)
	}

	// A conjunction keeps its ordinary predicate when the precedence
	// part is satisfied.
	p := NewPredicate(0, 0, false)
	and := AndContext(p, NewPrecedencePredicate(5))
	if got := and.EvalPrecedence(eval, nil); !got.Equal(p) {
		t.Fatalf("the residual formula must be the ordinary predicate; got: %v", got)
	}
	and = AndContext(p, NewPrecedencePredicate(1))
	if got := and.EvalPrecedence(eval, nil); got != nil {
		t.Fatalf("a failed conjunct must sink the conjunction; got: %v", got)
	}
}
