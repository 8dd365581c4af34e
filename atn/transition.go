package atn

import (
	"fmt"

	"github.com/rmaru/tarn/interval"
)

// TransitionKind discriminates transition variants. The values match the
// serialized edge-type codes emitted by the offline tool.
type TransitionKind int

const (
	TransitionKindInvalid TransitionKind = iota
	TransitionKindEpsilon
	TransitionKindRange
	TransitionKindRule
	TransitionKindPredicate
	TransitionKindAtom
	TransitionKindAction
	TransitionKindSet
	TransitionKindNotSet
	TransitionKindWildcard
	TransitionKindPrecedence
)

var transitionKindName = map[TransitionKind]string{
	TransitionKindInvalid:    "invalid",
	TransitionKindEpsilon:    "epsilon",
	TransitionKindRange:      "range",
	TransitionKindRule:       "rule",
	TransitionKindPredicate:  "predicate",
	TransitionKindAtom:       "atom",
	TransitionKindAction:     "action",
	TransitionKindSet:        "set",
	TransitionKindNotSet:     "not set",
	TransitionKindWildcard:   "wildcard",
	TransitionKindPrecedence: "precedence",
}

func (k TransitionKind) String() string {
	if n, ok := transitionKindName[k]; ok {
		return n
	}
	return fmt.Sprintf("unknown (%v)", int(k))
}

// A Transition is an edge of the ATN. Kind selects which of the optional
// fields are meaningful.
type Transition struct {
	Kind   TransitionKind
	Target StateID

	// Atom transitions.
	Label int

	// Range transitions.
	Start int
	Stop  int

	// Set and not-set transitions.
	Set *interval.IntervalSet

	// Rule transitions. FollowState is the state the caller resumes at
	// when the invoked rule returns. Predicate and action transitions
	// reuse RuleIndex.
	RuleIndex   int
	Precedence  int
	FollowState StateID

	// Predicate transitions.
	PredIndex      int
	IsCtxDependent bool

	// Action transitions.
	ActionIndex int

	// Epsilon return edges synthesized from rule transitions. When the
	// edge pops out of a precedence rule's outermost invocation, this
	// holds that rule's index; -1 otherwise. The precedence filter uses
	// it to keep legitimate left-recursive re-entries alive.
	OutermostPrecedenceReturn int
}

// IsEpsilon reports whether the transition consumes no input symbol.
func (t *Transition) IsEpsilon() bool {
	switch t.Kind {
	case TransitionKindEpsilon, TransitionKindRule, TransitionKindPredicate,
		TransitionKindAction, TransitionKindPrecedence:
		return true
	}
	return false
}

// Matches reports whether the transition accepts symbol. min and max
// bound the symbol vocabulary; they matter only for set complements and
// wildcards.
func (t *Transition) Matches(symbol, min, max int) bool {
	switch t.Kind {
	case TransitionKindAtom:
		return t.Label == symbol
	case TransitionKindRange:
		return symbol >= t.Start && symbol <= t.Stop
	case TransitionKindSet:
		return t.Set.Contains(symbol)
	case TransitionKindNotSet:
		return symbol >= min && symbol <= max && !t.Set.Contains(symbol)
	case TransitionKindWildcard:
		return symbol >= min && symbol <= max
	}
	return false
}

// LabelSet returns the set of symbols the transition consumes, or nil
// for epsilon-like transitions and wildcards. For a not-set transition
// it returns the excluded set, not its complement.
func (t *Transition) LabelSet() *interval.IntervalSet {
	switch t.Kind {
	case TransitionKindAtom:
		return interval.NewIntervalSetOf(t.Label)
	case TransitionKindRange:
		return interval.NewIntervalSetOfRange(t.Start, t.Stop)
	case TransitionKindSet, TransitionKindNotSet:
		return t.Set
	}
	return nil
}

func NewEpsilonTransition(target StateID) *Transition {
	return &Transition{Kind: TransitionKindEpsilon, Target: target, OutermostPrecedenceReturn: -1}
}

// NewReturnTransition builds the synthesized rule-stop edge back to a
// call site's follow state.
func NewReturnTransition(target StateID, outermostPrecedenceReturn int) *Transition {
	return &Transition{Kind: TransitionKindEpsilon, Target: target, OutermostPrecedenceReturn: outermostPrecedenceReturn}
}

func NewAtomTransition(target StateID, label int) *Transition {
	return &Transition{Kind: TransitionKindAtom, Target: target, Label: label}
}

func NewRangeTransition(target StateID, start, stop int) *Transition {
	return &Transition{Kind: TransitionKindRange, Target: target, Start: start, Stop: stop}
}

func NewSetTransition(target StateID, set *interval.IntervalSet) *Transition {
	return &Transition{Kind: TransitionKindSet, Target: target, Set: defaultSet(set)}
}

func NewNotSetTransition(target StateID, set *interval.IntervalSet) *Transition {
	return &Transition{Kind: TransitionKindNotSet, Target: target, Set: defaultSet(set)}
}

// A set transition deserialized without a set matches only the invalid
// token type.
func defaultSet(set *interval.IntervalSet) *interval.IntervalSet {
	if set == nil {
		return interval.NewIntervalSetOf(TokenInvalidType)
	}
	return set
}

func NewWildcardTransition(target StateID) *Transition {
	return &Transition{Kind: TransitionKindWildcard, Target: target}
}

func NewRuleTransition(ruleStart StateID, ruleIndex, precedence int, followState StateID) *Transition {
	return &Transition{
		Kind:        TransitionKindRule,
		Target:      ruleStart,
		RuleIndex:   ruleIndex,
		Precedence:  precedence,
		FollowState: followState,
	}
}

func NewPredicateTransition(target StateID, ruleIndex, predIndex int, isCtxDependent bool) *Transition {
	return &Transition{
		Kind:           TransitionKindPredicate,
		Target:         target,
		RuleIndex:      ruleIndex,
		PredIndex:      predIndex,
		IsCtxDependent: isCtxDependent,
	}
}

func NewPrecedenceTransition(target StateID, precedence int) *Transition {
	return &Transition{Kind: TransitionKindPrecedence, Target: target, Precedence: precedence}
}

func NewActionTransition(target StateID, ruleIndex, actionIndex int, isCtxDependent bool) *Transition {
	return &Transition{
		Kind:           TransitionKindAction,
		Target:         target,
		RuleIndex:      ruleIndex,
		ActionIndex:    actionIndex,
		IsCtxDependent: isCtxDependent,
	}
}
