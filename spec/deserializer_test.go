package spec

import (
	"strings"
	"testing"

	"github.com/rmaru/tarn/atn"
	"github.com/rmaru/tarn/interval"
)

// buildParserATN assembles S : 'a' 'b' | 'a' 'c' ; with token types
// a=1, b=2, c=3.
func buildParserATN(t *testing.T) *atn.ATN {
	t.Helper()
	b := NewBuilder(atn.GrammarKindParser, 3)

	start := b.State(atn.StateKindRuleStart, 0)
	stop := b.State(atn.StateKindRuleStop, 0)
	b.Rule(start, stop)

	blkStart := b.State(atn.StateKindBlockStart, 0)
	blkEnd := b.State(atn.StateKindBlockEnd, 0)
	blkStart.EndState = blkEnd.Num
	b.Decision(blkStart)

	a1 := b.State(atn.StateKindBasic, 0)
	a2 := b.State(atn.StateKindBasic, 0)
	b1 := b.State(atn.StateKindBasic, 0)
	b2 := b.State(atn.StateKindBasic, 0)

	b.Epsilon(start, blkStart)
	b.Epsilon(blkStart, a1)
	b.Epsilon(blkStart, a2)
	b.Atom(a1, b1, 1)
	b.Atom(b1, blkEnd, 2)
	b.Atom(a2, b2, 1)
	b.Atom(b2, blkEnd, 3)
	b.Epsilon(blkEnd, stop)

	a, err := b.Build()
	if err != nil {
		t.Fatalf("failed to build the ATN: %v", err)
	}
	return a
}

func buildLexerATN(t *testing.T) *atn.ATN {
	t.Helper()
	b := NewBuilder(atn.GrammarKindLexer, 2)

	modeStart := b.State(atn.StateKindTokenStart, -1)
	b.Mode(modeStart)
	b.Decision(modeStart)

	idStart := b.State(atn.StateKindRuleStart, 0)
	idStop := b.State(atn.StateKindRuleStop, 0)
	b.LexerRule(idStart, idStop, 1)
	wsStart := b.State(atn.StateKindRuleStart, 1)
	wsStop := b.State(atn.StateKindRuleStop, 1)
	b.LexerRule(wsStart, wsStop, 2)

	letters := interval.NewIntervalSetOfRange('a', 'z')
	s1 := b.State(atn.StateKindBasic, 0)
	b.Set(idStart, s1, letters)
	b.Epsilon(s1, idStop)

	s2 := b.State(atn.StateKindBasic, 1)
	b.Atom(wsStart, s2, ' ')
	b.Epsilon(s2, wsStop)

	b.Epsilon(modeStart, idStart)
	b.Epsilon(modeStart, wsStart)

	b.LexerAction(atn.LexerActionKindSkip, 0, 0)

	a, err := b.Build()
	if err != nil {
		t.Fatalf("failed to build the ATN: %v", err)
	}
	return a
}

func TestSerializeRoundTrip_Parser(t *testing.T) {
	src := buildParserATN(t)
	got, err := Decode(Encode(src))
	if err != nil {
		t.Fatalf("failed to deserialize: %v", err)
	}

	if got.Kind != atn.GrammarKindParser {
		t.Fatalf("unexpected grammar kind: %v", got.Kind)
	}
	if got.MaxTokenType != 3 {
		t.Fatalf("unexpected max token type: %v", got.MaxTokenType)
	}
	if len(got.States) != len(src.States) {
		t.Fatalf("unexpected state count; want: %v, got: %v", len(src.States), len(got.States))
	}
	for i, s := range src.States {
		g := got.States[i]
		if g.Kind != s.Kind || g.RuleIndex != s.RuleIndex || g.Decision != s.Decision {
			t.Fatalf("state %v mismatch; want: %+v, got: %+v", i, s, g)
		}
		if len(g.Transitions) != len(s.Transitions) {
			t.Fatalf("state %v has %v transitions; want %v", i, len(g.Transitions), len(s.Transitions))
		}
		for j, tr := range s.Transitions {
			gt := g.Transitions[j]
			if gt.Kind != tr.Kind || gt.Target != tr.Target || gt.Label != tr.Label {
				t.Fatalf("transition %v.%v mismatch; want: %+v, got: %+v", i, j, tr, gt)
			}
		}
	}
	if len(got.DecisionToState) != 1 || got.DecisionToState[0] != src.DecisionToState[0] {
		t.Fatalf("unexpected decision table: %v", got.DecisionToState)
	}
	blk := got.State(got.DecisionToState[0])
	if blk.EndState != src.State(src.DecisionToState[0]).EndState {
		t.Fatalf("block linkage lost: %v", blk.EndState)
	}
}

func TestSerializeRoundTrip_Lexer(t *testing.T) {
	src := buildLexerATN(t)
	got, err := Decode(Encode(src))
	if err != nil {
		t.Fatalf("failed to deserialize: %v", err)
	}
	if got.Kind != atn.GrammarKindLexer {
		t.Fatalf("unexpected grammar kind: %v", got.Kind)
	}
	if len(got.ModeToStartState) != 1 {
		t.Fatalf("unexpected mode table: %v", got.ModeToStartState)
	}
	if len(got.RuleToTokenType) != 2 || got.RuleToTokenType[0] != 1 || got.RuleToTokenType[1] != 2 {
		t.Fatalf("unexpected rule token types: %v", got.RuleToTokenType)
	}
	if len(got.LexerActions) != 1 || got.LexerActions[0].Kind != atn.LexerActionKindSkip {
		t.Fatalf("unexpected lexer actions: %v", got.LexerActions)
	}

	// The ID rule's set transition must survive with its intervals.
	idStart := got.State(got.RuleToStartState[0])
	tr := idStart.Transitions[0]
	if tr.Kind != atn.TransitionKindSet {
		t.Fatalf("unexpected transition kind: %v", tr.Kind)
	}
	if !tr.Set.Contains('a') || !tr.Set.Contains('z') || tr.Set.Contains('A') {
		t.Fatalf("unexpected set: %v", tr.Set)
	}
}

func TestDeserialize_VersionMismatch(t *testing.T) {
	words := Serialize(buildParserATN(t))
	words[0] = SerializedVersion + 1
	_, err := Deserialize(words)
	if err == nil || !strings.Contains(err.Error(), "version mismatch") {
		t.Fatalf("a version mismatch must be fatal; got: %v", err)
	}
}

func TestDeserialize_UUIDMismatch(t *testing.T) {
	words := Serialize(buildParserATN(t))
	words[1] ^= 0xFF
	_, err := Deserialize(words)
	if err == nil || !strings.Contains(err.Error(), "UUID mismatch") {
		t.Fatalf("a UUID mismatch must be fatal; got: %v", err)
	}
}

func TestDeserialize_Truncated(t *testing.T) {
	words := Serialize(buildParserATN(t))
	_, err := Deserialize(words[:len(words)-3])
	if err == nil {
		t.Fatalf("a truncated blob must be rejected")
	}
}

func TestBuild_RejectsUnderfedDecision(t *testing.T) {
	b := NewBuilder(atn.GrammarKindParser, 1)
	start := b.State(atn.StateKindRuleStart, 0)
	stop := b.State(atn.StateKindRuleStop, 0)
	b.Rule(start, stop)
	d := b.State(atn.StateKindBlockStart, 0)
	end := b.State(atn.StateKindBlockEnd, 0)
	d.EndState = end.Num
	b.Decision(d)
	b.Epsilon(start, d)
	b.Epsilon(d, end)
	b.Epsilon(end, stop)
	if _, err := b.Build(); err == nil {
		t.Fatalf("a decision with a single transition must be rejected")
	}
}
