package atn

import (
	"fmt"

	"github.com/rmaru/tarn/interval"
)

// StateID represents an ID of an ATN state. IDs are the indices the
// offline tool assigned at serialization time; generated recognizers
// refer to states by these numbers, so they are identity, not position.
type StateID int

const StateIDInvalid = StateID(-1)

func (id StateID) Int() int {
	return int(id)
}

// StateKind discriminates ATN state variants. The values match the
// serialized state-type codes emitted by the offline tool.
type StateKind int

const (
	StateKindInvalid StateKind = iota
	StateKindBasic
	StateKindRuleStart
	StateKindBlockStart
	StateKindPlusBlockStart
	StateKindStarBlockStart
	StateKindTokenStart
	StateKindRuleStop
	StateKindBlockEnd
	StateKindStarLoopBack
	StateKindStarLoopEntry
	StateKindPlusLoopBack
	StateKindLoopEnd
)

var stateKindName = map[StateKind]string{
	StateKindInvalid:        "invalid",
	StateKindBasic:          "basic",
	StateKindRuleStart:      "rule start",
	StateKindBlockStart:     "block start",
	StateKindPlusBlockStart: "plus block start",
	StateKindStarBlockStart: "star block start",
	StateKindTokenStart:     "token start",
	StateKindRuleStop:       "rule stop",
	StateKindBlockEnd:       "block end",
	StateKindStarLoopBack:   "star loop back",
	StateKindStarLoopEntry:  "star loop entry",
	StateKindPlusLoopBack:   "plus loop back",
	StateKindLoopEnd:        "loop end",
}

func (k StateKind) String() string {
	if n, ok := stateKindName[k]; ok {
		return n
	}
	return fmt.Sprintf("unknown (%v)", int(k))
}

// DecisionInvalid marks a state that is not a decision point.
const DecisionInvalid = -1

// A State is a node of the ATN. All variants share one representation;
// Kind selects which of the optional fields are meaningful.
type State struct {
	Kind      StateKind
	Num       StateID
	RuleIndex int

	Transitions []*Transition

	// Decision states only (block starts, token start, loop entries and
	// plus loop backs).
	Decision  int
	NonGreedy bool

	// Rule start states only. LeftRecursive is set for precedence rules.
	LeftRecursive bool

	// Star-loop-entry states only. A precedence-rule decision drives the
	// precedence filtering pass during prediction.
	PrecedenceRuleDecision bool

	// Graph linkage resolved by the deserializer.
	EndState StateID // block start -> matching block end
	LoopBack StateID // loop end, star loop entry -> loop-back state

	// Context-free follow set, computed lazily by ATN.NextTokens.
	nextTokenWithinRule *interval.IntervalSet
}

func NewState(kind StateKind, num StateID, ruleIndex int) *State {
	return &State{
		Kind:      kind,
		Num:       num,
		RuleIndex: ruleIndex,
		Decision:  DecisionInvalid,
		EndState:  StateIDInvalid,
		LoopBack:  StateIDInvalid,
	}
}

// IsDecision reports whether the state carries a decision index.
func (s *State) IsDecision() bool {
	return s.Decision != DecisionInvalid
}

// OnlyEpsilonTransitions reports whether every outgoing transition is
// non-consuming. Mixed states are rejected at deserialization, so
// checking the first edge is enough.
func (s *State) OnlyEpsilonTransitions() bool {
	return len(s.Transitions) > 0 && s.Transitions[0].IsEpsilon()
}

func (s *State) AddTransition(t *Transition) {
	s.Transitions = append(s.Transitions, t)
}

func (s *State) String() string {
	return fmt.Sprintf("%v (%v)", s.Num, s.Kind)
}
