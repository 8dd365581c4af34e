package spec

import (
	"fmt"

	"github.com/rmaru/tarn/atn"
	"github.com/rmaru/tarn/interval"
)

// A Builder assembles an ATN programmatically. The offline tool builds
// through it before serializing; tests use it to produce grammars
// without a grammar file.
type Builder struct {
	a *atn.ATN
}

func NewBuilder(kind atn.GrammarKind, maxTokenType int) *Builder {
	return &Builder{
		a: &atn.ATN{
			Kind:         kind,
			MaxTokenType: maxTokenType,
		},
	}
}

// State allocates a new state of the given kind owned by ruleIndex.
func (b *Builder) State(kind atn.StateKind, ruleIndex int) *atn.State {
	s := atn.NewState(kind, atn.StateID(len(b.a.States)), ruleIndex)
	b.a.States = append(b.a.States, s)
	return s
}

// Rule registers a rule's start and stop states and returns its index.
// Lexer rules must use LexerRule instead so the token type is recorded.
func (b *Builder) Rule(start, stop *atn.State) int {
	b.a.RuleToStartState = append(b.a.RuleToStartState, start.Num)
	b.a.RuleToStopState = append(b.a.RuleToStopState, stop.Num)
	if b.a.Kind == atn.GrammarKindLexer {
		b.a.RuleToTokenType = append(b.a.RuleToTokenType, atn.TokenInvalidType)
	}
	return len(b.a.RuleToStartState) - 1
}

// LexerRule registers a lexer rule producing tokenType.
func (b *Builder) LexerRule(start, stop *atn.State, tokenType int) int {
	i := b.Rule(start, stop)
	b.a.RuleToTokenType[i] = tokenType
	return i
}

// Mode registers a token-start state as the next lexer mode.
func (b *Builder) Mode(start *atn.State) int {
	b.a.ModeToStartState = append(b.a.ModeToStartState, start.Num)
	return len(b.a.ModeToStartState) - 1
}

// Decision assigns the next decision index to s.
func (b *Builder) Decision(s *atn.State) int {
	s.Decision = len(b.a.DecisionToState)
	b.a.DecisionToState = append(b.a.DecisionToState, s.Num)
	return s.Decision
}

// LexerAction registers an action and returns its index.
func (b *Builder) LexerAction(kind atn.LexerActionKind, arg, arg2 int) int {
	b.a.LexerActions = append(b.a.LexerActions, &atn.LexerAction{
		Kind: kind,
		Arg:  arg,
		Arg2: arg2,
	})
	return len(b.a.LexerActions) - 1
}

func (b *Builder) Epsilon(from, to *atn.State) {
	from.AddTransition(atn.NewEpsilonTransition(to.Num))
}

func (b *Builder) Atom(from, to *atn.State, label int) {
	from.AddTransition(atn.NewAtomTransition(to.Num, label))
}

func (b *Builder) Range(from, to *atn.State, start, stop int) {
	from.AddTransition(atn.NewRangeTransition(to.Num, start, stop))
}

func (b *Builder) Set(from, to *atn.State, set *interval.IntervalSet) {
	from.AddTransition(atn.NewSetTransition(to.Num, set))
}

func (b *Builder) NotSet(from, to *atn.State, set *interval.IntervalSet) {
	from.AddTransition(atn.NewNotSetTransition(to.Num, set))
}

func (b *Builder) Wildcard(from, to *atn.State) {
	from.AddTransition(atn.NewWildcardTransition(to.Num))
}

// RuleEdge invokes ruleIndex from from, resuming at follow. The rule
// must already be registered.
func (b *Builder) RuleEdge(from *atn.State, ruleIndex, precedence int, follow *atn.State) {
	if ruleIndex < 0 || ruleIndex >= len(b.a.RuleToStartState) {
		panic(fmt.Sprintf("spec: rule edge to unregistered rule %v", ruleIndex))
	}
	from.AddTransition(atn.NewRuleTransition(b.a.RuleToStartState[ruleIndex], ruleIndex, precedence, follow.Num))
}

func (b *Builder) Predicate(from, to *atn.State, ruleIndex, predIndex int, isCtxDependent bool) {
	from.AddTransition(atn.NewPredicateTransition(to.Num, ruleIndex, predIndex, isCtxDependent))
}

func (b *Builder) Precedence(from, to *atn.State, precedence int) {
	from.AddTransition(atn.NewPrecedenceTransition(to.Num, precedence))
}

func (b *Builder) ActionEdge(from, to *atn.State, ruleIndex, actionIndex int) {
	from.AddTransition(atn.NewActionTransition(to.Num, ruleIndex, actionIndex, false))
}

// Build links the synthesized rule-return edges, validates the
// assembled graph, and returns it. The ATN must not be mutated
// afterward.
func (b *Builder) Build() (*atn.ATN, error) {
	linkReturnEdges(b.a)
	if err := verify(b.a); err != nil {
		return nil, err
	}
	return b.a, nil
}
