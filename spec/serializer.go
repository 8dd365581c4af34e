package spec

import (
	"encoding/binary"
	"fmt"

	"github.com/rmaru/tarn/atn"
	"github.com/rmaru/tarn/interval"
)

// Serialize flattens an ATN into its word form. It is the inverse of
// Deserialize; the offline tool and the test builder both emit through
// it.
func Serialize(a *atn.ATN) []uint32 {
	w := &writer{}
	w.put(SerializedVersion)
	w.putUUID()
	w.put(int(a.Kind))
	w.put(a.MaxTokenType)

	// State table. Set indices are collected in first-use order while
	// the states stream out.
	var sets []*interval.IntervalSet
	setIndex := map[*interval.IntervalSet]int{}
	internSet := func(s *interval.IntervalSet) int {
		if i, ok := setIndex[s]; ok {
			return i
		}
		setIndex[s] = len(sets)
		sets = append(sets, s)
		return len(sets) - 1
	}

	w.put(len(a.States))
	var nonGreedy, precedence []atn.StateID
	for _, s := range a.States {
		w.put(int(s.Kind))
		w.put(s.RuleIndex)
		switch s.Kind {
		case atn.StateKindBlockStart, atn.StateKindPlusBlockStart, atn.StateKindStarBlockStart:
			w.put(s.EndState.Int())
		case atn.StateKindStarLoopEntry, atn.StateKindLoopEnd:
			w.put(s.LoopBack.Int())
		}
		if s.NonGreedy {
			nonGreedy = append(nonGreedy, s.Num)
		}
		if s.Kind == atn.StateKindRuleStart && s.LeftRecursive {
			precedence = append(precedence, s.Num)
		}
	}

	w.put(len(nonGreedy))
	for _, id := range nonGreedy {
		w.put(id.Int())
	}
	w.put(len(precedence))
	for _, id := range precedence {
		w.put(id.Int())
	}

	w.put(len(a.RuleToStartState))
	for i, start := range a.RuleToStartState {
		w.put(start.Int())
		w.put(a.RuleToStopState[i].Int())
		if a.Kind == atn.GrammarKindLexer {
			w.put(a.RuleToTokenType[i])
		}
	}

	w.put(len(a.ModeToStartState))
	for _, id := range a.ModeToStartState {
		w.put(id.Int())
	}

	// The set table must be written before the edges that reference it,
	// so edges are staged first.
	type edgeRec struct {
		src, trg, kind, arg1, arg2, arg3 int
	}
	var edges []edgeRec
	for _, s := range a.States {
		// Rule-stop return edges are synthesized on deserialization;
		// writing them out would double them up.
		if s.Kind == atn.StateKindRuleStop {
			continue
		}
		for _, t := range s.Transitions {
			e := edgeRec{src: s.Num.Int(), trg: t.Target.Int(), kind: int(t.Kind)}
			switch t.Kind {
			case atn.TransitionKindAtom:
				e.arg1 = t.Label
			case atn.TransitionKindRange:
				e.arg1, e.arg2 = t.Start, t.Stop
			case atn.TransitionKindSet, atn.TransitionKindNotSet:
				e.arg1 = internSet(t.Set)
			case atn.TransitionKindRule:
				e.arg1, e.arg2, e.arg3 = t.RuleIndex, t.Precedence, t.FollowState.Int()
			case atn.TransitionKindPredicate:
				e.arg1, e.arg2 = t.RuleIndex, t.PredIndex
				if t.IsCtxDependent {
					e.arg3 = 1
				}
			case atn.TransitionKindPrecedence:
				e.arg1 = t.Precedence
			case atn.TransitionKindAction:
				e.arg1, e.arg2 = t.RuleIndex, t.ActionIndex
				if t.IsCtxDependent {
					e.arg3 = 1
				}
			}
			edges = append(edges, e)
		}
	}

	w.put(len(sets))
	for _, s := range sets {
		is := s.Intervals()
		w.put(len(is))
		for _, i := range is {
			w.put(i.Start)
			w.put(i.Stop)
		}
	}

	w.put(len(edges))
	for _, e := range edges {
		w.put(e.src)
		w.put(e.trg)
		w.put(e.kind)
		w.put(e.arg1)
		w.put(e.arg2)
		w.put(e.arg3)
	}

	w.put(len(a.DecisionToState))
	for _, id := range a.DecisionToState {
		w.put(id.Int())
	}

	if a.Kind == atn.GrammarKindLexer {
		w.put(len(a.LexerActions))
		for _, act := range a.LexerActions {
			w.put(int(act.Kind))
			w.put(act.Arg)
			w.put(act.Arg2)
		}
	}

	return w.words
}

// Encode returns the byte form of Serialize's output.
func Encode(a *atn.ATN) []byte {
	words := Serialize(a)
	data := make([]byte, len(words)*4)
	for i, v := range words {
		binary.LittleEndian.PutUint32(data[i*4:], v)
	}
	return data
}

type writer struct {
	words []uint32
}

func (w *writer) put(v int) {
	if v > 0x7FFFFFFF || v < -0x80000000 {
		panic(fmt.Sprintf("spec: value %v does not fit a serialized word", v))
	}
	w.words = append(w.words, uint32(int32(v)))
}

func (w *writer) putUUID() {
	for i := 0; i < 4; i++ {
		w.words = append(w.words, binary.LittleEndian.Uint32(SerializedUUID[i*4:]))
	}
}
