package spec

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"

	"github.com/rmaru/tarn/atn"
	"github.com/rmaru/tarn/interval"
)

// Decode reads a serialized ATN from its byte form.
func Decode(data []byte) (*atn.ATN, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("a serialized ATN must be a whole number of words; got %v bytes", len(data))
	}
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return Deserialize(words)
}

type reader struct {
	words []uint32
	pos   int
}

func (r *reader) read() (int, error) {
	if r.pos >= len(r.words) {
		return 0, fmt.Errorf("truncated ATN: read past word %v", len(r.words))
	}
	v := r.words[r.pos]
	r.pos++
	return int(int32(v)), nil
}

func (r *reader) readUUID() (uuid.UUID, error) {
	var u uuid.UUID
	if r.pos+4 > len(r.words) {
		return u, fmt.Errorf("truncated ATN: no room for a UUID at word %v", r.pos)
	}
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint32(u[i*4:], r.words[r.pos])
		r.pos++
	}
	return u, nil
}

// Deserialize materializes an ATN from its word form. The result is
// fully linked, validated, and immutable.
func Deserialize(words []uint32) (*atn.ATN, error) {
	r := &reader{words: words}

	version, err := r.read()
	if err != nil {
		return nil, err
	}
	if version != SerializedVersion {
		return nil, fmt.Errorf("ATN version mismatch: the blob has version %v, this runtime reads version %v", version, SerializedVersion)
	}
	u, err := r.readUUID()
	if err != nil {
		return nil, err
	}
	if u != SerializedUUID {
		return nil, fmt.Errorf("ATN UUID mismatch: the blob has %v, this runtime reads %v", u, SerializedUUID)
	}

	kind, err := r.read()
	if err != nil {
		return nil, err
	}
	if kind != int(atn.GrammarKindLexer) && kind != int(atn.GrammarKindParser) {
		return nil, fmt.Errorf("unknown grammar kind %v", kind)
	}
	maxTokenType, err := r.read()
	if err != nil {
		return nil, err
	}

	a := &atn.ATN{
		Kind:         atn.GrammarKind(kind),
		MaxTokenType: maxTokenType,
	}

	if err := readStates(r, a); err != nil {
		return nil, err
	}
	if err := readNonGreedy(r, a); err != nil {
		return nil, err
	}
	if err := readPrecedenceRules(r, a); err != nil {
		return nil, err
	}
	if err := readRules(r, a); err != nil {
		return nil, err
	}
	if err := readModes(r, a); err != nil {
		return nil, err
	}
	sets, err := readSets(r)
	if err != nil {
		return nil, err
	}
	if err := readEdges(r, a, sets); err != nil {
		return nil, err
	}
	if err := readDecisions(r, a); err != nil {
		return nil, err
	}
	if a.Kind == atn.GrammarKindLexer {
		if err := readLexerActions(r, a); err != nil {
			return nil, err
		}
	}
	if r.pos != len(r.words) {
		return nil, fmt.Errorf("trailing garbage: %v unread words", len(r.words)-r.pos)
	}

	linkReturnEdges(a)
	if err := verify(a); err != nil {
		return nil, err
	}
	return a, nil
}

// linkReturnEdges gives every rule-stop state an epsilon edge to each
// call site's follow state. Closure with an unknown caller falls off
// the end of a rule through these. A return popping out of a precedence
// rule's outermost invocation is tagged so the precedence filter can
// recognize it.
func linkReturnEdges(a *atn.ATN) {
	for _, s := range a.States {
		for _, t := range s.Transitions {
			if t.Kind != atn.TransitionKindRule {
				continue
			}
			outermostPrecedenceReturn := -1
			if a.State(a.RuleToStartState[t.RuleIndex]).LeftRecursive && t.Precedence == 0 {
				outermostPrecedenceReturn = t.RuleIndex
			}
			stop := a.State(a.RuleToStopState[t.RuleIndex])
			stop.AddTransition(atn.NewReturnTransition(t.FollowState, outermostPrecedenceReturn))
		}
	}
}

func readStates(r *reader, a *atn.ATN) error {
	n, err := r.read()
	if err != nil {
		return err
	}
	type link struct {
		state  atn.StateID
		target int
		isEnd  bool
	}
	var links []link
	for i := 0; i < n; i++ {
		kind, err := r.read()
		if err != nil {
			return err
		}
		if kind <= int(atn.StateKindInvalid) || kind > int(atn.StateKindLoopEnd) {
			return fmt.Errorf("unknown state kind %v for state %v", kind, i)
		}
		ruleIndex, err := r.read()
		if err != nil {
			return err
		}
		s := atn.NewState(atn.StateKind(kind), atn.StateID(i), ruleIndex)
		switch s.Kind {
		case atn.StateKindBlockStart, atn.StateKindPlusBlockStart, atn.StateKindStarBlockStart:
			end, err := r.read()
			if err != nil {
				return err
			}
			links = append(links, link{state: s.Num, target: end, isEnd: true})
		case atn.StateKindStarLoopEntry, atn.StateKindLoopEnd:
			back, err := r.read()
			if err != nil {
				return err
			}
			links = append(links, link{state: s.Num, target: back})
		}
		a.States = append(a.States, s)
	}
	for _, l := range links {
		if l.target < 0 || l.target >= len(a.States) {
			return fmt.Errorf("state %v links to nonexistent state %v", l.state, l.target)
		}
		if l.isEnd {
			a.States[l.state].EndState = atn.StateID(l.target)
			continue
		}
		a.States[l.state].LoopBack = atn.StateID(l.target)
	}
	return nil
}

func readNonGreedy(r *reader, a *atn.ATN) error {
	n, err := r.read()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		id, err := r.read()
		if err != nil {
			return err
		}
		s := a.State(atn.StateID(id))
		if s == nil {
			return fmt.Errorf("non-greedy list names nonexistent state %v", id)
		}
		s.NonGreedy = true
	}
	return nil
}

func readPrecedenceRules(r *reader, a *atn.ATN) error {
	n, err := r.read()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		id, err := r.read()
		if err != nil {
			return err
		}
		s := a.State(atn.StateID(id))
		if s == nil || s.Kind != atn.StateKindRuleStart {
			return fmt.Errorf("precedence-rule list names state %v, which is not a rule start", id)
		}
		s.LeftRecursive = true
	}
	return nil
}

func readRules(r *reader, a *atn.ATN) error {
	n, err := r.read()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		start, err := r.read()
		if err != nil {
			return err
		}
		stop, err := r.read()
		if err != nil {
			return err
		}
		a.RuleToStartState = append(a.RuleToStartState, atn.StateID(start))
		a.RuleToStopState = append(a.RuleToStopState, atn.StateID(stop))
		if a.Kind == atn.GrammarKindLexer {
			tokenType, err := r.read()
			if err != nil {
				return err
			}
			a.RuleToTokenType = append(a.RuleToTokenType, tokenType)
		}
	}
	return nil
}

func readModes(r *reader, a *atn.ATN) error {
	n, err := r.read()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		id, err := r.read()
		if err != nil {
			return err
		}
		s := a.State(atn.StateID(id))
		if s == nil || s.Kind != atn.StateKindTokenStart {
			return fmt.Errorf("mode %v starts at state %v, which is not a token start", i, id)
		}
		a.ModeToStartState = append(a.ModeToStartState, atn.StateID(id))
	}
	return nil
}

func readSets(r *reader) ([]*interval.IntervalSet, error) {
	n, err := r.read()
	if err != nil {
		return nil, err
	}
	var sets []*interval.IntervalSet
	for i := 0; i < n; i++ {
		m, err := r.read()
		if err != nil {
			return nil, err
		}
		s := interval.NewIntervalSet()
		for j := 0; j < m; j++ {
			start, err := r.read()
			if err != nil {
				return nil, err
			}
			stop, err := r.read()
			if err != nil {
				return nil, err
			}
			s.AddRange(start, stop)
		}
		s.SetReadOnly()
		sets = append(sets, s)
	}
	return sets, nil
}

func readEdges(r *reader, a *atn.ATN, sets []*interval.IntervalSet) error {
	n, err := r.read()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		var vs [6]int
		for j := range vs {
			v, err := r.read()
			if err != nil {
				return err
			}
			vs[j] = v
		}
		src, trg, kind, arg1, arg2, arg3 := vs[0], vs[1], vs[2], vs[3], vs[4], vs[5]
		s := a.State(atn.StateID(src))
		if s == nil || a.State(atn.StateID(trg)) == nil {
			return fmt.Errorf("edge %v connects nonexistent states %v -> %v", i, src, trg)
		}
		t, err := edge(atn.TransitionKind(kind), atn.StateID(trg), arg1, arg2, arg3, sets)
		if err != nil {
			return fmt.Errorf("edge %v: %w", i, err)
		}
		s.AddTransition(t)
	}
	return nil
}

func edge(kind atn.TransitionKind, trg atn.StateID, arg1, arg2, arg3 int, sets []*interval.IntervalSet) (*atn.Transition, error) {
	switch kind {
	case atn.TransitionKindEpsilon:
		return atn.NewEpsilonTransition(trg), nil
	case atn.TransitionKindAtom:
		return atn.NewAtomTransition(trg, arg1), nil
	case atn.TransitionKindRange:
		return atn.NewRangeTransition(trg, arg1, arg2), nil
	case atn.TransitionKindSet, atn.TransitionKindNotSet:
		var set *interval.IntervalSet
		if arg1 >= 0 && arg1 < len(sets) {
			set = sets[arg1]
		}
		if kind == atn.TransitionKindSet {
			return atn.NewSetTransition(trg, set), nil
		}
		return atn.NewNotSetTransition(trg, set), nil
	case atn.TransitionKindWildcard:
		return atn.NewWildcardTransition(trg), nil
	case atn.TransitionKindRule:
		return atn.NewRuleTransition(trg, arg1, arg2, atn.StateID(arg3)), nil
	case atn.TransitionKindPredicate:
		return atn.NewPredicateTransition(trg, arg1, arg2, arg3 != 0), nil
	case atn.TransitionKindPrecedence:
		return atn.NewPrecedenceTransition(trg, arg1), nil
	case atn.TransitionKindAction:
		return atn.NewActionTransition(trg, arg1, arg2, arg3 != 0), nil
	}
	return nil, fmt.Errorf("unknown transition kind %v", int(kind))
}

func readDecisions(r *reader, a *atn.ATN) error {
	n, err := r.read()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		id, err := r.read()
		if err != nil {
			return err
		}
		s := a.State(atn.StateID(id))
		if s == nil {
			return fmt.Errorf("decision %v names nonexistent state %v", i, id)
		}
		s.Decision = i
		a.DecisionToState = append(a.DecisionToState, atn.StateID(id))
	}
	return nil
}

func readLexerActions(r *reader, a *atn.ATN) error {
	n, err := r.read()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		kind, err := r.read()
		if err != nil {
			return err
		}
		if kind < int(atn.LexerActionKindChannel) || kind > int(atn.LexerActionKindType) {
			return fmt.Errorf("unknown lexer action kind %v for action %v", kind, i)
		}
		arg1, err := r.read()
		if err != nil {
			return err
		}
		arg2, err := r.read()
		if err != nil {
			return err
		}
		a.LexerActions = append(a.LexerActions, &atn.LexerAction{
			Kind: atn.LexerActionKind(kind),
			Arg:  arg1,
			Arg2: arg2,
		})
	}
	return nil
}

// verify checks the structural invariants generated recognizers rely on.
func verify(a *atn.ATN) error {
	for i, start := range a.RuleToStartState {
		s := a.State(start)
		if s == nil || s.Kind != atn.StateKindRuleStart {
			return fmt.Errorf("rule %v has no rule-start state", i)
		}
		stop := a.State(a.RuleToStopState[i])
		if stop == nil || stop.Kind != atn.StateKindRuleStop {
			return fmt.Errorf("rule %v has no rule-stop state", i)
		}
	}
	for _, s := range a.States {
		if s.IsDecision() && len(s.Transitions) < 2 {
			return fmt.Errorf("decision state %v has %v transitions; a decision needs at least 2", s.Num, len(s.Transitions))
		}
		// A state either consumes or it does not; mixed states would let
		// closure walk past a consuming edge.
		if len(s.Transitions) > 1 {
			eps := s.Transitions[0].IsEpsilon()
			for _, t := range s.Transitions[1:] {
				if t.IsEpsilon() != eps {
					return fmt.Errorf("state %v mixes epsilon and consuming transitions", s.Num)
				}
			}
		}
		switch s.Kind {
		case atn.StateKindBlockStart, atn.StateKindPlusBlockStart, atn.StateKindStarBlockStart:
			if a.State(s.EndState) == nil || a.State(s.EndState).Kind != atn.StateKindBlockEnd {
				return fmt.Errorf("block start %v is not linked to a block end", s.Num)
			}
		case atn.StateKindStarLoopEntry:
			back := a.State(s.LoopBack)
			if back == nil || back.Kind != atn.StateKindStarLoopBack {
				return fmt.Errorf("star loop entry %v is not linked to a star loop back", s.Num)
			}
		case atn.StateKindLoopEnd:
			if a.State(s.LoopBack) == nil {
				return fmt.Errorf("loop end %v is not linked to its loop-back state", s.Num)
			}
		}
	}
	if a.Kind == atn.GrammarKindLexer {
		if len(a.ModeToStartState) == 0 {
			return fmt.Errorf("a lexer ATN needs at least the default mode")
		}
		if len(a.RuleToTokenType) != len(a.RuleToStartState) {
			return fmt.Errorf("rule token types out of step with rules: %v vs %v", len(a.RuleToTokenType), len(a.RuleToStartState))
		}
	}
	return nil
}
