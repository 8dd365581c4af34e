package atn

import (
	"fmt"
	"sort"
	"strings"
)

// A PredicateEvaluator hosts the user-defined predicate hooks generated
// recognizers implement. Prediction calls back into it when it must know
// a predicate's value.
type PredicateEvaluator interface {
	Sempred(localCtx RuleInvocation, ruleIndex, predIndex int) bool
	Precpred(localCtx RuleInvocation, precedence int) bool
}

// SemanticContextKind discriminates semantic-context variants.
type SemanticContextKind int

const (
	SemanticContextKindPredicate SemanticContextKind = iota
	SemanticContextKindPrecedence
	SemanticContextKindAnd
	SemanticContextKindOr
)

// A SemanticContext is a formula over grammar predicates attached to a
// configuration. Prediction conjoins predicates found along a closure
// path and evaluates the formula before accepting an alternative.
// Contexts are immutable.
type SemanticContext struct {
	Kind SemanticContextKind

	// Predicates.
	RuleIndex      int
	PredIndex      int
	IsCtxDependent bool

	// Precedence predicates.
	Precedence int

	// And / Or.
	Operands []*SemanticContext

	cachedHash int
}

// SemanticContextNone is the trivially true context carried by
// configurations with no predicate obligations.
var SemanticContextNone = NewPredicate(-1, -1, false)

func NewPredicate(ruleIndex, predIndex int, isCtxDependent bool) *SemanticContext {
	c := &SemanticContext{
		Kind:           SemanticContextKindPredicate,
		RuleIndex:      ruleIndex,
		PredIndex:      predIndex,
		IsCtxDependent: isCtxDependent,
	}
	c.cachedHash = c.computeHash()
	return c
}

func NewPrecedencePredicate(precedence int) *SemanticContext {
	c := &SemanticContext{
		Kind:       SemanticContextKindPrecedence,
		Precedence: precedence,
	}
	c.cachedHash = c.computeHash()
	return c
}

func (c *SemanticContext) computeHash() int {
	h := int(c.Kind) + 1
	switch c.Kind {
	case SemanticContextKindPredicate:
		h = h*31 + c.RuleIndex
		h = h*31 + c.PredIndex
		if c.IsCtxDependent {
			h = h*31 + 1
		}
	case SemanticContextKindPrecedence:
		h = h*31 + c.Precedence
	default:
		for _, op := range c.Operands {
			h = h*31 + op.cachedHash
		}
	}
	return h
}

func (c *SemanticContext) Hash() int {
	return c.cachedHash
}

func (c *SemanticContext) Equal(other *SemanticContext) bool {
	if c == other {
		return true
	}
	if other == nil || c.Kind != other.Kind || c.cachedHash != other.cachedHash {
		return false
	}
	switch c.Kind {
	case SemanticContextKindPredicate:
		return c.RuleIndex == other.RuleIndex &&
			c.PredIndex == other.PredIndex &&
			c.IsCtxDependent == other.IsCtxDependent
	case SemanticContextKindPrecedence:
		return c.Precedence == other.Precedence
	}
	if len(c.Operands) != len(other.Operands) {
		return false
	}
	for i, op := range c.Operands {
		if !op.Equal(other.Operands[i]) {
			return false
		}
	}
	return true
}

// Evaluate computes the formula's value against a live recognizer.
func (c *SemanticContext) Evaluate(eval PredicateEvaluator, localCtx RuleInvocation) bool {
	switch c.Kind {
	case SemanticContextKindPredicate:
		if c.RuleIndex < 0 && c.PredIndex < 0 {
			return true
		}
		return eval.Sempred(localCtx, c.RuleIndex, c.PredIndex)
	case SemanticContextKindPrecedence:
		return eval.Precpred(localCtx, c.Precedence)
	case SemanticContextKindAnd:
		for _, op := range c.Operands {
			if !op.Evaluate(eval, localCtx) {
				return false
			}
		}
		return true
	default:
		for _, op := range c.Operands {
			if op.Evaluate(eval, localCtx) {
				return true
			}
		}
		return false
	}
}

// EvalPrecedence partially evaluates the precedence predicates in the
// formula against the parser's current precedence. It returns the
// residual formula, or nil when the formula is decidedly false.
func (c *SemanticContext) EvalPrecedence(eval PredicateEvaluator, localCtx RuleInvocation) *SemanticContext {
	switch c.Kind {
	case SemanticContextKindPrecedence:
		if eval.Precpred(localCtx, c.Precedence) {
			return SemanticContextNone
		}
		return nil
	case SemanticContextKindAnd:
		differs := false
		var ops []*SemanticContext
		for _, op := range c.Operands {
			ev := op.EvalPrecedence(eval, localCtx)
			differs = differs || ev != op
			if ev == nil {
				return nil
			}
			if ev != SemanticContextNone {
				ops = append(ops, ev)
			}
		}
		if !differs {
			return c
		}
		if len(ops) == 0 {
			return SemanticContextNone
		}
		r := ops[0]
		for _, op := range ops[1:] {
			r = AndContext(r, op)
		}
		return r
	case SemanticContextKindOr:
		differs := false
		var ops []*SemanticContext
		for _, op := range c.Operands {
			ev := op.EvalPrecedence(eval, localCtx)
			differs = differs || ev != op
			if ev == SemanticContextNone {
				return SemanticContextNone
			}
			if ev != nil {
				ops = append(ops, ev)
			}
		}
		if !differs {
			return c
		}
		if len(ops) == 0 {
			return nil
		}
		r := ops[0]
		for _, op := range ops[1:] {
			r = OrContext(r, op)
		}
		return r
	}
	return c
}

// flatten pulls nested operands of the same kind up one level and
// deduplicates structurally.
func flatten(kind SemanticContextKind, a, b *SemanticContext) []*SemanticContext {
	var raw []*SemanticContext
	for _, c := range []*SemanticContext{a, b} {
		if c.Kind == kind {
			raw = append(raw, c.Operands...)
		} else {
			raw = append(raw, c)
		}
	}
	var ops []*SemanticContext
	for _, c := range raw {
		dup := false
		for _, o := range ops {
			if o.Equal(c) {
				dup = true
				break
			}
		}
		if !dup {
			ops = append(ops, c)
		}
	}
	sort.SliceStable(ops, func(i, j int) bool {
		return ops[i].cachedHash < ops[j].cachedHash
	})
	return ops
}

// AndContext conjoins two contexts, simplifying the trivial cases.
// Among bare precedence predicates only the least permissive survives.
func AndContext(a, b *SemanticContext) *SemanticContext {
	if a == nil || a == SemanticContextNone {
		return b
	}
	if b == nil || b == SemanticContextNone {
		return a
	}
	if a.Equal(b) {
		return a
	}
	ops := flatten(SemanticContextKindAnd, a, b)
	ops = reducePrecedence(ops, func(kept, cand int) bool { return cand < kept })
	if len(ops) == 1 {
		return ops[0]
	}
	c := &SemanticContext{Kind: SemanticContextKindAnd, Operands: ops}
	c.cachedHash = c.computeHash()
	return c
}

// OrContext disjoins two contexts, simplifying the trivial cases. Among
// bare precedence predicates only the most permissive survives.
func OrContext(a, b *SemanticContext) *SemanticContext {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a == SemanticContextNone || b == SemanticContextNone {
		return SemanticContextNone
	}
	if a.Equal(b) {
		return a
	}
	ops := flatten(SemanticContextKindOr, a, b)
	ops = reducePrecedence(ops, func(kept, cand int) bool { return cand > kept })
	if len(ops) == 1 {
		return ops[0]
	}
	c := &SemanticContext{Kind: SemanticContextKindOr, Operands: ops}
	c.cachedHash = c.computeHash()
	return c
}

func reducePrecedence(ops []*SemanticContext, better func(kept, cand int) bool) []*SemanticContext {
	best := -1
	for i, op := range ops {
		if op.Kind != SemanticContextKindPrecedence {
			continue
		}
		if best < 0 || better(ops[best].Precedence, op.Precedence) {
			best = i
		}
	}
	if best < 0 {
		return ops
	}
	var r []*SemanticContext
	for i, op := range ops {
		if op.Kind == SemanticContextKindPrecedence && i != best {
			continue
		}
		r = append(r, op)
	}
	return r
}

func (c *SemanticContext) String() string {
	switch c.Kind {
	case SemanticContextKindPredicate:
		return fmt.Sprintf("{%v:%v}?", c.RuleIndex, c.PredIndex)
	case SemanticContextKindPrecedence:
		return fmt.Sprintf("{%v>=prec}?", c.Precedence)
	case SemanticContextKindAnd:
		return joinOperands(c.Operands, "&&")
	default:
		return joinOperands(c.Operands, "||")
	}
}

func joinOperands(ops []*SemanticContext, sep string) string {
	var b strings.Builder
	for i, op := range ops {
		if i > 0 {
			fmt.Fprintf(&b, " %v ", sep)
		}
		b.WriteString(op.String())
	}
	return b.String()
}
