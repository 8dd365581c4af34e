package atn

import (
	"fmt"

	"github.com/rmaru/tarn/container"
	"github.com/rmaru/tarn/interval"
)

// Token type values shared by every component that speaks in symbols.
// User-defined token types start at TokenMinUserType; the values below
// it are sentinels.
const (
	TokenInvalidType = 0
	TokenEpsilon     = -2
	TokenEOF         = -1
	TokenMinUserType = 1

	// MaxCodePoint bounds the lexer symbol universe.
	MaxCodePoint = 0x10FFFF
)

// Token channel values. Recognizers may define their own channels at
// TokenMinUserChannel and above.
const (
	TokenDefaultChannel = 0
	TokenHiddenChannel  = 1
	TokenMinUserChannel = 2
)

// GrammarKind tells whether an ATN was compiled from a lexer or a parser
// grammar.
type GrammarKind int

const (
	GrammarKindLexer GrammarKind = iota
	GrammarKindParser
)

func (k GrammarKind) String() string {
	switch k {
	case GrammarKindLexer:
		return "lexer"
	case GrammarKindParser:
		return "parser"
	}
	return fmt.Sprintf("unknown (%v)", int(k))
}

// An ATN is the transition network the offline tool compiled from a
// grammar. It is immutable once the deserializer returns it and may be
// shared by any number of recognizers.
type ATN struct {
	Kind         GrammarKind
	MaxTokenType int

	// States owns every node; all other tables refer into it by StateID.
	States []*State

	DecisionToState  []StateID
	RuleToStartState []StateID
	RuleToStopState  []StateID

	// Lexer ATNs only.
	RuleToTokenType []int
	ModeToStartState []StateID
	LexerActions     []*LexerAction
}

// State resolves a StateID. Resolving StateIDInvalid yields nil.
func (a *ATN) State(id StateID) *State {
	if id < 0 || int(id) >= len(a.States) {
		return nil
	}
	return a.States[id]
}

func (a *ATN) RuleCount() int {
	return len(a.RuleToStartState)
}

func (a *ATN) DecisionCount() int {
	return len(a.DecisionToState)
}

func (a *ATN) DecisionState(decision int) *State {
	if decision < 0 || decision >= len(a.DecisionToState) {
		return nil
	}
	return a.State(a.DecisionToState[decision])
}

// NextTokens computes the set of tokens that can follow s. With a nil
// context the result is context-free (a rule-stop state contributes only
// the epsilon marker; what follows the rule is left to the caller) and
// is cached on the state. With a context, the walk pops through the context chain and
// adds EOF when it runs off the root.
func (a *ATN) NextTokens(s *State, ctx *PredictionContext) *interval.IntervalSet {
	if ctx == nil {
		if s.nextTokenWithinRule != nil {
			return s.nextTokenWithinRule
		}
		set := a.look(s, nil, false)
		set.SetReadOnly()
		s.nextTokenWithinRule = set
		return set
	}
	return a.look(s, ctx, true)
}

// ExpectedTokens computes the tokens acceptable at state given a live
// rule-invocation chain: the state's own follow set, widened through
// the callers wherever the rule can end.
func (a *ATN) ExpectedTokens(state StateID, ctx RuleInvocation) *interval.IntervalSet {
	following := a.NextTokens(a.State(state), nil)
	expected := interval.NewIntervalSet()
	expected.AddSet(following)
	if !following.Contains(TokenEpsilon) {
		return expected
	}

	for ctx != nil && !ctx.IsEmptyInvocation() && ctx.InvokingState() >= 0 && following.Contains(TokenEpsilon) {
		invoking := a.State(ctx.InvokingState())
		rt := invoking.Transitions[0]
		following = a.NextTokens(a.State(rt.FollowState), nil)
		expected.AddSet(following)
		ctx = ctx.ParentInvocation()
	}

	epsilon := interval.NewIntervalSetOf(TokenEpsilon)
	expected = expected.Subtract(epsilon)
	if following.Contains(TokenEpsilon) {
		expected.AddOne(TokenEOF)
	}
	return expected
}

func (a *ATN) look(s *State, ctx *PredictionContext, addEOF bool) *interval.IntervalSet {
	set := interval.NewIntervalSet()
	seen := container.NewHashSet[lookKey](lookKeyHasher{})
	a.lookInto(s, ctx, set, seen, addEOF)
	return set
}

type lookKey struct {
	state StateID
	ctx   *PredictionContext
}

type lookKeyHasher struct{}

func (lookKeyHasher) Hash(k lookKey) int {
	h := int(k.state)
	if k.ctx != nil {
		h = h*31 + k.ctx.Hash()
	}
	return h
}

func (lookKeyHasher) Equal(x, y lookKey) bool {
	if x.state != y.state {
		return false
	}
	if x.ctx == nil || y.ctx == nil {
		return x.ctx == y.ctx
	}
	return x.ctx.Equal(y.ctx)
}

func (a *ATN) lookInto(s *State, ctx *PredictionContext, set *interval.IntervalSet, seen *container.HashSet[lookKey], addEOF bool) {
	if !seen.Add(lookKey{state: s.Num, ctx: ctx}) {
		return
	}

	if s.Kind == StateKindRuleStop {
		if ctx == nil {
			set.AddOne(TokenEpsilon)
			return
		}
		if ctx.IsEmpty() {
			if addEOF {
				set.AddOne(TokenEOF)
			} else {
				set.AddOne(TokenEpsilon)
			}
			return
		}
		for i := 0; i < ctx.Length(); i++ {
			ret := ctx.ReturnState(i)
			if ret == EmptyReturnState {
				if addEOF {
					set.AddOne(TokenEOF)
				} else {
					set.AddOne(TokenEpsilon)
				}
				continue
			}
			a.lookInto(a.State(StateID(ret)), ctx.Parent(i), set, seen, addEOF)
		}
		return
	}

	for _, t := range s.Transitions {
		switch t.Kind {
		case TransitionKindRule:
			next := NewSingletonContext(ctx, int(t.FollowState))
			a.lookInto(a.State(t.Target), next, set, seen, addEOF)
		case TransitionKindWildcard:
			set.AddRange(TokenMinUserType, a.MaxTokenType)
		case TransitionKindNotSet:
			set.AddSet(t.Set.Complement(TokenMinUserType, a.MaxTokenType))
		default:
			if t.IsEpsilon() {
				a.lookInto(a.State(t.Target), ctx, set, seen, addEOF)
				continue
			}
			if ls := t.LabelSet(); ls != nil {
				set.AddSet(ls)
			}
		}
	}
}
