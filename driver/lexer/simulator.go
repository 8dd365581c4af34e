package lexer

import (
	"fmt"

	"github.com/rmaru/tarn/atn"
	"github.com/rmaru/tarn/dfa"
)

// Lexer DFAs cache edges only for the ASCII range; rarer code points
// recompute their reach from the config set, which stays correct and
// keeps the edge arrays small.
const (
	minDFAEdge = 0
	maxDFAEdge = 127
)

// errorDFAState is the sentinel cached on edges whose reach is empty.
var errorDFAState = &dfa.State{Num: -1}

// NewModeDFAs allocates the per-mode DFA array for a lexer ATN. Share
// the array across every lexer built from the same ATN; prediction work
// done by one instance is then visible to all.
func NewModeDFAs(a *atn.ATN) []*dfa.DFA {
	dfas := make([]*dfa.DFA, len(a.ModeToStartState))
	for i, id := range a.ModeToStartState {
		dfas[i] = dfa.NewDFA(a.State(id), i)
	}
	return dfas
}

// A Simulator predicts the longest-matching lexer rule from the current
// input position under one mode. It owns the line/column accounting for
// its lexer.
type Simulator struct {
	atn       *atn.ATN
	lexer     *Lexer
	modeToDFA []*dfa.DFA
	ctxCache  *atn.ContextCache

	// Line is 1-based; Col counts code points from 0.
	Line int
	Col  int

	mode       int
	startIndex int
	prevAccept simState
}

type simState struct {
	index    int
	line     int
	col      int
	dfaState *dfa.State
}

func NewSimulator(a *atn.ATN, l *Lexer, modeToDFA []*dfa.DFA, ctxCache *atn.ContextCache) *Simulator {
	if ctxCache == nil {
		ctxCache = atn.NewContextCache()
	}
	return &Simulator{
		atn:       a,
		lexer:     l,
		modeToDFA: modeToDFA,
		ctxCache:  ctxCache,
		Line:      1,
	}
}

// Match consumes input up to the longest accept reachable from mode's
// start state and returns the matched rule's token type. Lexer actions
// recorded on the winning path run against the lexer before Match
// returns.
func (m *Simulator) Match(input *CharStream, mode int) (int, error) {
	m.mode = mode
	m.startIndex = input.Index()
	m.prevAccept = simState{}

	d := m.modeToDFA[mode]
	if d.S0 == nil {
		configs := m.computeStartState(input, m.atn.State(m.atn.ModeToStartState[mode]))
		d.S0 = m.addDFAState(d, configs)
	}
	return m.execATN(input, d, d.S0)
}

func (m *Simulator) execATN(input *CharStream, d *dfa.DFA, s0 *dfa.State) (int, error) {
	if s0.IsAccept {
		m.captureSimState(input, s0)
	}
	t := input.LA(1)
	s := s0
	for {
		target := m.existingTargetState(s, t)
		if target == nil {
			target = m.computeTargetState(input, d, s, t)
		}
		if target == errorDFAState {
			break
		}
		// Seeing EOF never consumes; the loop exits through the accept
		// below or through the dead edge above.
		if t != atn.TokenEOF {
			m.Consume(input)
		}
		if target.IsAccept {
			m.captureSimState(input, target)
			if t == atn.TokenEOF {
				break
			}
		}
		t = input.LA(1)
		s = target
	}
	return m.failOrAccept(input, s.Configs, t)
}

func (m *Simulator) existingTargetState(s *dfa.State, t int) *dfa.State {
	if t < minDFAEdge || t > maxDFAEdge {
		return nil
	}
	return s.Edge(t)
}

func (m *Simulator) computeTargetState(input *CharStream, d *dfa.DFA, s *dfa.State, t int) *dfa.State {
	reach := atn.NewOrderedConfigSet()
	m.getReachableConfigSet(input, s.Configs, reach, t)

	if reach.IsEmpty() {
		if !reach.HasSemanticContext {
			m.setEdge(d, s, t, errorDFAState)
		}
		return errorDFAState
	}
	return m.addDFAEdge(d, s, t, reach)
}

func (m *Simulator) getReachableConfigSet(input *CharStream, closure, reach *atn.ConfigSet, t int) {
	// Once an alternative reaches an accept state, later configs of the
	// same alternative that crossed a non-greedy decision must not keep
	// extending the match.
	skipAlt := atn.AltInvalid
	for _, c := range closure.Configs {
		currentAltReachedAcceptState := c.Alt == skipAlt
		if currentAltReachedAcceptState && c.PassedThroughNonGreedyDecision {
			continue
		}
		for _, trans := range c.State.Transitions {
			if !trans.Matches(t, 0, atn.MaxCodePoint) {
				continue
			}
			executor := c.Executor
			if executor != nil {
				executor = executor.FixOffsetBeforeMatch(input.Index() - m.startIndex)
			}
			next := c.WithExecutor(m.atn.State(trans.Target), executor)
			if m.closure(input, next, reach, currentAltReachedAcceptState, true, t == atn.TokenEOF) {
				// An accept was reached on this alternative; stop
				// looking at it.
				skipAlt = c.Alt
				break
			}
		}
	}
}

func (m *Simulator) failOrAccept(input *CharStream, reach *atn.ConfigSet, t int) (int, error) {
	if m.prevAccept.dfaState != nil {
		m.accept(input, m.prevAccept)
		return m.prevAccept.dfaState.Prediction, nil
	}
	// A zero-length match at EOF is the end of input, not an error.
	if t == atn.TokenEOF && input.Index() == m.startIndex {
		return atn.TokenEOF, nil
	}
	return atn.TokenInvalidType, &NoViableAltError{
		StartIndex:  m.startIndex,
		Input:       input,
		DeadConfigs: reach,
	}
}

// accept rewinds the input to the recorded best accept and replays the
// actions recorded there.
func (m *Simulator) accept(input *CharStream, st simState) {
	input.Seek(st.index)
	m.Line = st.line
	m.Col = st.col
	if st.dfaState.Executor != nil && m.lexer != nil {
		st.dfaState.Executor.Execute(m.lexer, nil, input, m.startIndex)
	}
}

func (m *Simulator) captureSimState(input *CharStream, s *dfa.State) {
	m.prevAccept = simState{
		index:   input.Index(),
		line:    m.Line,
		col:     m.Col,
		dfaState: s,
	}
}

func (m *Simulator) computeStartState(input *CharStream, start *atn.State) *atn.ConfigSet {
	configs := atn.NewOrderedConfigSet()
	for i, t := range start.Transitions {
		target := m.atn.State(t.Target)
		c := atn.NewConfig(target, i+1, atn.EmptyContext, nil)
		m.closure(input, c, configs, false, false, false)
	}
	return configs
}

// closure adds to configs every state reachable from config over
// non-consuming transitions. It reports whether an accept state (a rule
// stop) was reached. speculative marks closure runs whose predicate
// evaluations must not disturb the lexer's published position.
func (m *Simulator) closure(input *CharStream, config *atn.Config, configs *atn.ConfigSet, currentAltReachedAcceptState, speculative, treatEOFAsEpsilon bool) bool {
	if config.State.Kind == atn.StateKindRuleStop {
		if config.Context == nil || config.Context.HasEmptyPath() {
			if config.Context == nil || config.Context.IsEmpty() {
				configs.Add(config, nil)
				return true
			}
			configs.Add(config.WithContext(config.State, atn.EmptyContext), nil)
			currentAltReachedAcceptState = true
		}
		if config.Context != nil && !config.Context.IsEmpty() {
			for i := 0; i < config.Context.Length(); i++ {
				if config.Context.ReturnState(i) == atn.EmptyReturnState {
					continue
				}
				returnState := m.atn.State(atn.StateID(config.Context.ReturnState(i)))
				next := config.WithContext(returnState, config.Context.Parent(i))
				currentAltReachedAcceptState = m.closure(input, next, configs, currentAltReachedAcceptState, speculative, treatEOFAsEpsilon)
			}
		}
		return currentAltReachedAcceptState
	}

	if !config.State.OnlyEpsilonTransitions() {
		if !currentAltReachedAcceptState || !config.PassedThroughNonGreedyDecision {
			configs.Add(config, nil)
		}
	}

	for _, trans := range config.State.Transitions {
		next := m.epsilonTarget(input, config, trans, configs, speculative, treatEOFAsEpsilon)
		if next != nil {
			currentAltReachedAcceptState = m.closure(input, next, configs, currentAltReachedAcceptState, speculative, treatEOFAsEpsilon)
		}
	}
	return currentAltReachedAcceptState
}

func (m *Simulator) epsilonTarget(input *CharStream, config *atn.Config, trans *atn.Transition, configs *atn.ConfigSet, speculative, treatEOFAsEpsilon bool) *atn.Config {
	target := m.atn.State(trans.Target)
	switch trans.Kind {
	case atn.TransitionKindRule:
		ctx := atn.NewSingletonContext(config.Context, int(trans.FollowState))
		return config.WithContext(target, ctx)

	case atn.TransitionKindPrecedence:
		panic("lexer: precedence predicates are not allowed in lexer rules")

	case atn.TransitionKindPredicate:
		// The config set stops being cacheable once a predicate decided
		// its shape.
		configs.HasSemanticContext = true
		if m.evaluatePredicate(input, trans.RuleIndex, trans.PredIndex, speculative) {
			return config.WithState(target)
		}
		return nil

	case atn.TransitionKindAction:
		if config.Context == nil || config.Context.HasEmptyPath() {
			executor := atn.AppendExecutor(config.Executor, atn.NewActionExecutor(m.atn.LexerActions[trans.ActionIndex]))
			return config.WithExecutor(target, executor)
		}
		// Actions in called rules run when the calling rule accepts,
		// not here.
		return config.WithState(target)

	case atn.TransitionKindEpsilon:
		return config.WithState(target)

	case atn.TransitionKindAtom, atn.TransitionKindRange, atn.TransitionKindSet:
		if treatEOFAsEpsilon && trans.Matches(atn.TokenEOF, 0, atn.MaxCodePoint) {
			return config.WithState(target)
		}
		return nil
	}
	return nil
}

// evaluatePredicate runs a lexer predicate. Speculative evaluations see
// the input one code point ahead of the token under construction and
// restore everything afterward.
func (m *Simulator) evaluatePredicate(input *CharStream, ruleIndex, predIndex int, speculative bool) bool {
	if m.lexer == nil || m.lexer.sempred == nil {
		return true
	}
	if !speculative {
		return m.lexer.sempred(ruleIndex, predIndex)
	}

	savedLine, savedCol, savedIndex := m.Line, m.Col, input.Index()
	marker := input.Mark()
	defer func() {
		m.Line, m.Col = savedLine, savedCol
		input.Seek(savedIndex)
		input.Release(marker)
	}()
	m.Consume(input)
	return m.lexer.sempred(ruleIndex, predIndex)
}

func (m *Simulator) addDFAEdge(d *dfa.DFA, from *dfa.State, t int, reach *atn.ConfigSet) *dfa.State {
	// Predicated reaches depend on more than the input symbol; they are
	// never cached on an edge.
	suppressEdge := reach.HasSemanticContext
	reach.HasSemanticContext = false

	to := m.addDFAState(d, reach)
	if suppressEdge {
		return to
	}
	m.setEdge(d, from, t, to)
	return to
}

func (m *Simulator) setEdge(d *dfa.DFA, from *dfa.State, t int, to *dfa.State) {
	if t < minDFAEdge || t > maxDFAEdge {
		return
	}
	d.SetEdge(from, t, to)
}

// addDFAState interns a state for configs. The first rule-stop config
// in insertion order decides the accept: alternatives were seeded in
// rule order, so ties go to the earlier rule.
func (m *Simulator) addDFAState(d *dfa.DFA, configs *atn.ConfigSet) *dfa.State {
	var firstStop *atn.Config
	for _, c := range configs.Configs {
		if c.State.Kind == atn.StateKindRuleStop {
			firstStop = c
			break
		}
	}
	proposed := dfa.NewState(configs)
	if firstStop != nil {
		proposed.IsAccept = true
		proposed.Executor = firstStop.Executor
		proposed.Prediction = m.atn.RuleToTokenType[firstStop.State.RuleIndex]
	}
	configs.SetReadOnly()
	return d.AddState(proposed)
}

// Consume advances the input, keeping the line/column accounting.
func (m *Simulator) Consume(input *CharStream) {
	if input.LA(1) == '\n' {
		m.Line++
		m.Col = 0
	} else {
		m.Col++
	}
	input.Consume()
}

// Recover consumes one code point so the lexer can retry after a
// no-viable-alternative error.
func (m *Simulator) Recover(input *CharStream) {
	if input.LA(1) != atn.TokenEOF {
		m.Consume(input)
	}
}

func (m *Simulator) String() string {
	return fmt.Sprintf("lexer simulator at %v:%v", m.Line, m.Col)
}
