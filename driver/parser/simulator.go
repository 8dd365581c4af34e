package parser

import (
	"fmt"

	"github.com/rmaru/tarn/atn"
	"github.com/rmaru/tarn/container"
	"github.com/rmaru/tarn/dfa"
	"github.com/rmaru/tarn/driver"
)

// errorDFAState is the sentinel cached on edges whose reach is empty.
var errorDFAState = &dfa.State{Num: -1}

// NewDecisionDFAs allocates the per-decision DFA array for a parser
// ATN. Share the array across every parser built from the same ATN.
func NewDecisionDFAs(a *atn.ATN) []*dfa.DFA {
	dfas := make([]*dfa.DFA, len(a.DecisionToState))
	for i, id := range a.DecisionToState {
		dfas[i] = dfa.NewDFA(a.State(id), i)
	}
	return dfas
}

// A Recognizer is the slice of the parser the simulator needs: the
// predicate hooks, the precedence the parser is currently operating at,
// and the listener fan-out for prediction events.
type Recognizer interface {
	atn.PredicateEvaluator
	Precedence() int
	ErrorListenerDispatch() driver.ErrorListener
}

// A Simulator computes adaptive predictions for one parser. It owns no
// shared state beyond the DFA array and context cache it was given;
// everything else is scratch per prediction.
type Simulator struct {
	atn           *atn.ATN
	parser        Recognizer
	decisionToDFA []*dfa.DFA
	ctxCache      *atn.ContextCache

	// Mode is the termination policy; PredictionModeLL is the safe
	// default.
	Mode PredictionMode

	// Per-prediction scratch.
	input        TokenStream
	startIndex   int
	outerContext *ParserRuleContext
	dfa          *dfa.DFA
	mergeCache   *atn.MergeCache
}

func NewSimulator(a *atn.ATN, parser Recognizer, decisionToDFA []*dfa.DFA, ctxCache *atn.ContextCache) *Simulator {
	if ctxCache == nil {
		ctxCache = atn.NewContextCache()
	}
	return &Simulator{
		atn:           a,
		parser:        parser,
		decisionToDFA: decisionToDFA,
		ctxCache:      ctxCache,
		Mode:          PredictionModeLL,
	}
}

// AdaptivePredict returns the 1-based alternative the decision takes on
// the current input, warming the decision's DFA as a side effect. The
// input is restored to its entry position before returning, error or
// not.
func (m *Simulator) AdaptivePredict(input TokenStream, decision int, outerContext *ParserRuleContext) (int, error) {
	m.input = input
	m.startIndex = input.Index()
	m.outerContext = outerContext
	m.dfa = m.decisionToDFA[decision]
	m.mergeCache = atn.NewMergeCache()
	defer func() {
		m.mergeCache = nil
		m.dfa = nil
		m.input = nil
	}()

	marker := input.Mark()
	defer func() {
		_ = input.Seek(m.startIndex)
		input.Release(marker)
	}()

	var s0 *dfa.State
	if m.dfa.IsPrecedenceDFA() {
		s0 = m.dfa.PrecedenceStartState(m.precedence(), false)
	} else {
		s0 = m.dfa.S0
	}

	if s0 == nil {
		// SLL start configs use the wildcard context; the true outer
		// context enters only on the full-context retry.
		s0Closure, err := m.computeStartState(m.dfa.AtnStart, nil, false)
		if err != nil {
			return atn.AltInvalid, err
		}
		if m.dfa.IsPrecedenceDFA() {
			// The start configs depend on the precedence the rule was
			// entered at, so each precedence gets its own start state.
			s0Closure, err = m.applyPrecedenceFilter(s0Closure)
			if err != nil {
				return atn.AltInvalid, err
			}
			s0 = m.addDFAState(dfa.NewState(s0Closure))
			m.dfa.SetPrecedenceStartState(m.precedence(), false, s0)
		} else {
			s0 = m.addDFAState(dfa.NewState(s0Closure))
			m.dfa.S0 = s0
		}
	}

	return m.execATN(s0)
}

func (m *Simulator) precedence() int {
	if m.parser == nil {
		return 0
	}
	return m.parser.Precedence()
}

// execATN runs the SLL loop: follow or extend the DFA one input symbol
// at a time until an accept, a conflict, or a dead end.
func (m *Simulator) execATN(s0 *dfa.State) (int, error) {
	previous := s0
	t, err := m.input.LA(1)
	if err != nil {
		return atn.AltInvalid, err
	}

	for {
		d := m.existingTargetState(previous, t)
		if d == nil {
			d, err = m.computeTargetState(previous, t)
			if err != nil {
				return atn.AltInvalid, err
			}
		}

		if d == errorDFAState {
			// The DFA died. Before surrendering, see whether some
			// alternative already finished the decision's rule; the
			// parser can proceed on it and let the next decision fail
			// with a better message.
			e := m.noViableAlt(previous.Configs)
			_ = m.input.Seek(m.startIndex)
			alt, err := m.synValidOrSemInvalidAlt(previous.Configs)
			if err != nil {
				return atn.AltInvalid, err
			}
			if alt != atn.AltInvalid {
				return alt, nil
			}
			return atn.AltInvalid, e
		}

		if d.RequiresFullContext && m.Mode != PredictionModeSLL {
			conflictingAlts := d.Configs.ConflictingAlts
			if d.Predicates != nil {
				conflictIndex := m.input.Index()
				if conflictIndex != m.startIndex {
					_ = m.input.Seek(m.startIndex)
				}
				alts, err := m.evalSemanticContexts(d.Predicates, true)
				if err != nil {
					return atn.AltInvalid, err
				}
				conflictingAlts = alts
				if alts.Len() == 1 {
					min, _ := alts.Min()
					return min, nil
				}
				if conflictIndex != m.startIndex {
					_ = m.input.Seek(conflictIndex)
				}
			}

			m.reportAttemptingFullContext(d, conflictingAlts, m.input.Index())
			s0Full, err := m.computeStartState(m.dfa.AtnStart, m.outerContext, true)
			if err != nil {
				return atn.AltInvalid, err
			}
			return m.execATNWithFullContext(d, s0Full)
		}

		if d.IsAccept {
			if d.Predicates == nil {
				return d.Prediction, nil
			}

			stopIndex := m.input.Index()
			_ = m.input.Seek(m.startIndex)
			alts, err := m.evalSemanticContexts(d.Predicates, true)
			if err != nil {
				return atn.AltInvalid, err
			}
			switch alts.Len() {
			case 0:
				return atn.AltInvalid, m.noViableAlt(d.Configs)
			case 1:
				min, _ := alts.Min()
				return min, nil
			default:
				// More than one predicate passed: a true ambiguity
				// among the surviving alternatives.
				m.reportAmbiguity(d, m.startIndex, stopIndex, false, alts, d.Configs)
				min, _ := alts.Min()
				return min, nil
			}
		}

		previous = d
		if t != atn.TokenEOF {
			if err := m.input.Consume(); err != nil {
				return atn.AltInvalid, err
			}
			t, err = m.input.LA(1)
			if err != nil {
				return atn.AltInvalid, err
			}
		}
	}
}

func (m *Simulator) existingTargetState(s *dfa.State, t int) *dfa.State {
	return s.Edge(t)
}

// computeTargetState extends the DFA with the reach of s on t.
func (m *Simulator) computeTargetState(s *dfa.State, t int) (*dfa.State, error) {
	reach, err := m.computeReachSet(s.Configs, t, false)
	if err != nil {
		return nil, err
	}
	if reach == nil {
		m.dfa.SetEdge(s, t, errorDFAState)
		return errorDFAState, nil
	}

	d := dfa.NewState(reach)
	predictedAlt := getUniqueAlt(reach)

	if predictedAlt != atn.AltInvalid {
		d.IsAccept = true
		d.Prediction = predictedAlt
		reach.UniqueAlt = predictedAlt
	} else if hasSLLConflictTerminatingPrediction(m.Mode, reach) {
		conflicting := getAlts(getConflictingAltSubsets(reach))
		reach.ConflictingAlts = conflicting
		d.RequiresFullContext = true
		d.IsAccept = true
		min, _ := conflicting.Min()
		d.Prediction = min
	}

	if d.IsAccept && reach.HasSemanticContext {
		if err := m.predicateDFAState(d, m.dfa.AtnStart); err != nil {
			return nil, err
		}
		if d.Predicates != nil {
			d.Prediction = dfa.PredictionInvalid
		}
	}

	reach.SetReadOnly()
	d = m.addDFAState(d)
	m.dfa.SetEdge(s, t, d)
	return d, nil
}

// execATNWithFullContext reruns the decision from its start state with
// the true outer context. Conflicts here are real ambiguities.
func (m *Simulator) execATNWithFullContext(sllStop *dfa.State, s0 *atn.ConfigSet) (int, error) {
	foundExactAmbig := false
	var reach *atn.ConfigSet
	previous := s0

	_ = m.input.Seek(m.startIndex)
	t, err := m.input.LA(1)
	if err != nil {
		return atn.AltInvalid, err
	}
	predictedAlt := atn.AltInvalid

	for {
		reach, err = m.computeReachSet(previous, t, true)
		if err != nil {
			return atn.AltInvalid, err
		}
		if reach == nil {
			e := m.noViableAlt(previous)
			_ = m.input.Seek(m.startIndex)
			alt, err := m.synValidOrSemInvalidAlt(previous)
			if err != nil {
				return atn.AltInvalid, err
			}
			if alt != atn.AltInvalid {
				return alt, nil
			}
			return atn.AltInvalid, e
		}

		altSubSets := getConflictingAltSubsets(reach)
		reach.UniqueAlt = getUniqueAlt(reach)
		if reach.UniqueAlt != atn.AltInvalid {
			predictedAlt = reach.UniqueAlt
			break
		}
		if m.Mode != PredictionModeLLExactAmbigDetection {
			predictedAlt = resolvesToJustOneViableAlt(altSubSets)
			if predictedAlt != atn.AltInvalid {
				break
			}
		} else if allSubsetsConflict(altSubSets) && allSubsetsEqual(altSubSets) {
			foundExactAmbig = true
			predictedAlt, _ = getAlts(altSubSets).Min()
			break
		}

		previous = reach
		if t != atn.TokenEOF {
			if err := m.input.Consume(); err != nil {
				return atn.AltInvalid, err
			}
			t, err = m.input.LA(1)
			if err != nil {
				return atn.AltInvalid, err
			}
		}
	}

	if reach.UniqueAlt != atn.AltInvalid {
		// Full context disambiguated what SLL could not: context
		// sensitivity, not ambiguity.
		m.reportContextSensitivity(predictedAlt, reach, m.input.Index())
		return predictedAlt, nil
	}

	m.reportAmbiguity(sllStop, m.startIndex, m.input.Index(), foundExactAmbig, getAlts(getConflictingAltSubsets(reach)), reach)
	return predictedAlt, nil
}

// computeReachSet moves configs over t, then closes over epsilon. A nil
// result means nothing was reachable.
func (m *Simulator) computeReachSet(closure *atn.ConfigSet, t int, fullCtx bool) (*atn.ConfigSet, error) {
	intermediate := atn.NewConfigSet(fullCtx)

	// Rule-stop configs consume nothing; they only matter when the
	// decision can end here (EOF) or when full context must know the
	// rule can finish.
	var skippedStopStates []*atn.Config

	for _, c := range closure.Configs {
		if c.State.Kind == atn.StateKindRuleStop {
			if fullCtx || t == atn.TokenEOF {
				skippedStopStates = append(skippedStopStates, c)
			}
			continue
		}
		for _, trans := range c.State.Transitions {
			// An explicit EOF atom matches the EOF symbol; Matches
			// covers it since atom labels compare directly.
			if trans.Matches(t, atn.TokenMinUserType, m.atn.MaxTokenType) {
				intermediate.Add(c.WithState(m.atn.State(trans.Target)), m.mergeCache)
			}
		}
	}

	var reach *atn.ConfigSet
	if len(skippedStopStates) == 0 && t != atn.TokenEOF {
		if intermediate.Len() == 1 || getUniqueAlt(intermediate) != atn.AltInvalid {
			// A single config or a single alternative cannot conflict;
			// the closure adds nothing the next move needs.
			reach = intermediate
		}
	}

	if reach == nil {
		reach = atn.NewConfigSet(fullCtx)
		closureBusy := container.NewHashSet[*atn.Config](atn.ConfigHasher{})
		treatEOFAsEpsilon := t == atn.TokenEOF
		for _, c := range intermediate.Configs {
			if err := m.closure(c, reach, closureBusy, false, fullCtx, treatEOFAsEpsilon, 0); err != nil {
				return nil, err
			}
		}
	}

	if t == atn.TokenEOF {
		// At EOF only configs that finished the decision's rule (or can
		// via epsilon) remain viable.
		reach = m.removeNonStopConfigs(reach, reach == intermediate)
	}

	if len(skippedStopStates) > 0 && (!fullCtx || !hasConfigInRuleStopState(reach)) {
		for _, c := range skippedStopStates {
			reach.Add(c, m.mergeCache)
		}
	}

	if reach.IsEmpty() {
		return nil, nil
	}
	return reach, nil
}

// removeNonStopConfigs keeps only rule-stop configs. When
// lookToEndOfRule is set, a config that can still reach its rule end
// over epsilon is converted to the stop state instead of dropped.
func (m *Simulator) removeNonStopConfigs(configs *atn.ConfigSet, lookToEndOfRule bool) *atn.ConfigSet {
	if allConfigsInRuleStopStates(configs) {
		return configs
	}
	result := atn.NewConfigSet(configs.FullCtx)
	for _, c := range configs.Configs {
		if c.State.Kind == atn.StateKindRuleStop {
			result.Add(c, m.mergeCache)
			continue
		}
		if lookToEndOfRule && c.State.OnlyEpsilonTransitions() {
			next := m.atn.NextTokens(c.State, nil)
			if next.Contains(atn.TokenEpsilon) {
				stop := m.atn.State(m.atn.RuleToStopState[c.State.RuleIndex])
				result.Add(c.WithState(stop), m.mergeCache)
			}
		}
	}
	return result
}

func (m *Simulator) computeStartState(p *atn.State, ctx *ParserRuleContext, fullCtx bool) (*atn.ConfigSet, error) {
	var invocation atn.RuleInvocation
	if ctx != nil {
		invocation = ctx
	}
	initialContext := atn.FromRuleInvocation(m.atn, invocation)
	configs := atn.NewConfigSet(fullCtx)

	for i, t := range p.Transitions {
		target := m.atn.State(t.Target)
		c := atn.NewConfig(target, i+1, initialContext, nil)
		closureBusy := container.NewHashSet[*atn.Config](atn.ConfigHasher{})
		if err := m.closure(c, configs, closureBusy, true, fullCtx, false, 0); err != nil {
			return nil, err
		}
	}
	return configs, nil
}

// applyPrecedenceFilter drops the alternatives a left-recursive rule's
// current precedence forbids: a non-first alternative whose state was
// already reached through the precedence-checked first alternative is a
// lower-precedence re-entry.
func (m *Simulator) applyPrecedenceFilter(configs *atn.ConfigSet) (*atn.ConfigSet, error) {
	statesFromAlt1 := map[atn.StateID]*atn.PredictionContext{}
	result := atn.NewConfigSet(configs.FullCtx)

	for _, c := range configs.Configs {
		if c.Alt != 1 {
			continue
		}
		updated := c.SemCtx.EvalPrecedence(m.evaluator(), m.outerContext)
		if updated == nil {
			continue
		}
		statesFromAlt1[c.State.Num] = c.Context
		if updated != c.SemCtx {
			result.Add(c.WithSemCtx(c.State, updated), m.mergeCache)
		} else {
			result.Add(c, m.mergeCache)
		}
	}

	for _, c := range configs.Configs {
		if c.Alt == 1 {
			continue
		}
		if !c.PrecedenceFilterSuppressed {
			if ctx, ok := statesFromAlt1[c.State.Num]; ok && ctx.Equal(c.Context) {
				continue
			}
		}
		result.Add(c, m.mergeCache)
	}
	return result, nil
}

// closure expands config over every non-consuming transition, popping
// through rule stops via the prediction context.
func (m *Simulator) closure(config *atn.Config, configs *atn.ConfigSet, closureBusy *container.HashSet[*atn.Config], collectPredicates, fullCtx, treatEOFAsEpsilon bool, depth int) error {
	if config.State.Kind == atn.StateKindRuleStop {
		if !config.Context.IsEmpty() {
			for i := 0; i < config.Context.Length(); i++ {
				if config.Context.ReturnState(i) == atn.EmptyReturnState {
					if fullCtx {
						// The true caller is the outer world; the
						// config is complete as it stands.
						configs.Add(config.WithContext(config.State, atn.EmptyContext), m.mergeCache)
						continue
					}
					// With the wildcard root the caller is unknown:
					// fall off the end of the rule below.
					if err := m.closureWork(config, configs, closureBusy, collectPredicates, fullCtx, treatEOFAsEpsilon, depth); err != nil {
						return err
					}
					continue
				}
				returnState := m.atn.State(atn.StateID(config.Context.ReturnState(i)))
				next := config.WithContext(returnState, config.Context.Parent(i))
				if err := m.closure(next, configs, closureBusy, collectPredicates, fullCtx, treatEOFAsEpsilon, depth-1); err != nil {
					return err
				}
			}
			return nil
		}
		if fullCtx {
			configs.Add(config, m.mergeCache)
			return nil
		}
	}
	return m.closureWork(config, configs, closureBusy, collectPredicates, fullCtx, treatEOFAsEpsilon, depth)
}

func (m *Simulator) closureWork(config *atn.Config, configs *atn.ConfigSet, closureBusy *container.HashSet[*atn.Config], collectPredicates, fullCtx, treatEOFAsEpsilon bool, depth int) error {
	p := config.State
	if !p.OnlyEpsilonTransitions() {
		configs.Add(config, m.mergeCache)
	}

	for _, trans := range p.Transitions {
		continueCollecting := collectPredicates && trans.Kind != atn.TransitionKindAction
		c, err := m.epsilonTarget(config, trans, continueCollecting, depth == 0, fullCtx, treatEOFAsEpsilon)
		if err != nil {
			return err
		}
		if c == nil {
			continue
		}

		newDepth := depth
		if p.Kind == atn.StateKindRuleStop {
			// The closure escaped the decision's rule into a caller.
			if m.dfa != nil && m.dfa.IsPrecedenceDFA() {
				if trans.OutermostPrecedenceReturn == m.dfa.AtnStart.RuleIndex {
					c.PrecedenceFilterSuppressed = true
				}
			}
			c.ReachesIntoOuterContext++
			if !closureBusy.Add(c) {
				continue
			}
			configs.DipsIntoOuterContext = true
			newDepth--
		} else {
			if !trans.IsEpsilon() && !closureBusy.Add(c) {
				continue
			}
			if trans.Kind == atn.TransitionKindRule && newDepth >= 0 {
				newDepth++
			}
		}

		if err := m.closure(c, configs, closureBusy, continueCollecting, fullCtx, treatEOFAsEpsilon, newDepth); err != nil {
			return err
		}
	}
	return nil
}

func (m *Simulator) epsilonTarget(config *atn.Config, trans *atn.Transition, collectPredicates, inContext, fullCtx, treatEOFAsEpsilon bool) (*atn.Config, error) {
	target := m.atn.State(trans.Target)
	switch trans.Kind {
	case atn.TransitionKindRule:
		ctx := atn.NewSingletonContext(config.Context, int(trans.FollowState))
		return config.WithContext(target, ctx), nil

	case atn.TransitionKindPrecedence:
		return m.predTransition(config, target, atn.NewPrecedencePredicate(trans.Precedence), collectPredicates && inContext, fullCtx)

	case atn.TransitionKindPredicate:
		collect := collectPredicates && (!trans.IsCtxDependent || inContext)
		return m.predTransition(config, target, atn.NewPredicate(trans.RuleIndex, trans.PredIndex, trans.IsCtxDependent), collect, fullCtx)

	case atn.TransitionKindAction, atn.TransitionKindEpsilon:
		return config.WithState(target), nil

	case atn.TransitionKindAtom, atn.TransitionKindRange, atn.TransitionKindSet, atn.TransitionKindNotSet, atn.TransitionKindWildcard:
		if treatEOFAsEpsilon && trans.Matches(atn.TokenEOF, atn.TokenEOF, m.atn.MaxTokenType) {
			return config.WithState(target), nil
		}
		return nil, nil
	}
	return nil, nil
}

// predTransition follows a predicate edge. In full context the
// predicate is decidable now, against the live parser; in SLL it is
// conjoined into the config for later evaluation.
func (m *Simulator) predTransition(config *atn.Config, target *atn.State, pred *atn.SemanticContext, collect, fullCtx bool) (*atn.Config, error) {
	if !collect {
		return config.WithState(target), nil
	}

	if fullCtx {
		currentPosition := m.input.Index()
		_ = m.input.Seek(m.startIndex)
		holds := pred.Evaluate(m.evaluator(), m.outerContext)
		_ = m.input.Seek(currentPosition)
		if holds {
			return config.WithState(target), nil
		}
		return nil, nil
	}

	return config.WithSemCtx(target, atn.AndContext(config.SemCtx, pred)), nil
}

// evaluator adapts a possibly-nil parser to the predicate interface.
func (m *Simulator) evaluator() atn.PredicateEvaluator {
	if m.parser != nil {
		return m.parser
	}
	return permissiveEvaluator{}
}

type permissiveEvaluator struct{}

func (permissiveEvaluator) Sempred(atn.RuleInvocation, int, int) bool { return true }
func (permissiveEvaluator) Precpred(atn.RuleInvocation, int) bool     { return true }

// predicateDFAState attaches alt/predicate pairs to an accept state
// whose configs carry semantic context.
func (m *Simulator) predicateDFAState(d *dfa.State, decisionState *atn.State) error {
	nAlts := len(decisionState.Transitions)
	altsToCollect := d.Configs.ConflictingAlts
	if altsToCollect == nil {
		altsToCollect = d.Configs.Alts()
	}

	altToPred := make([]*atn.SemanticContext, nAlts+1)
	for _, c := range d.Configs.Configs {
		if altsToCollect.Contains(c.Alt) {
			altToPred[c.Alt] = atn.OrContext(altToPred[c.Alt], c.SemCtx)
		}
	}

	nPredAlts := 0
	for i := 1; i <= nAlts; i++ {
		if altToPred[i] == nil {
			altToPred[i] = atn.SemanticContextNone
		} else if altToPred[i] != atn.SemanticContextNone {
			nPredAlts++
		}
	}
	if nPredAlts == 0 {
		return nil
	}

	var pairs []*dfa.AltPredicate
	containsPredicate := false
	for i := 1; i <= nAlts; i++ {
		if !altsToCollect.Contains(i) {
			continue
		}
		pred := altToPred[i]
		if pred != atn.SemanticContextNone {
			containsPredicate = true
		}
		pairs = append(pairs, &dfa.AltPredicate{Alt: i, SemCtx: pred})
	}
	if containsPredicate {
		d.Predicates = pairs
	}
	return nil
}

// evalSemanticContexts evaluates alt/predicate pairs in alt order and
// returns the alternatives whose predicate held. With complete false
// the first passing alternative short-circuits the scan.
func (m *Simulator) evalSemanticContexts(pairs []*dfa.AltPredicate, complete bool) (*container.BitSet, error) {
	passed := container.NewBitSet()
	for _, pair := range pairs {
		if pair.SemCtx == atn.SemanticContextNone {
			passed.Set(pair.Alt)
			if !complete {
				break
			}
			continue
		}
		if pair.SemCtx.Evaluate(m.evaluator(), m.outerContext) {
			passed.Set(pair.Alt)
			if !complete {
				break
			}
		}
	}
	return passed, nil
}

// synValidOrSemInvalidAlt is the last resort after a dead end: an
// alternative that consumed the whole decision entry rule, preferring
// one whose predicates held.
func (m *Simulator) synValidOrSemInvalidAlt(configs *atn.ConfigSet) (int, error) {
	semValid, semInvalid := m.splitBySemanticValidity(configs)
	if alt := altThatFinishedDecisionEntryRule(semValid); alt != atn.AltInvalid {
		return alt, nil
	}
	if semInvalid.Len() > 0 {
		if alt := altThatFinishedDecisionEntryRule(semInvalid); alt != atn.AltInvalid {
			return alt, nil
		}
	}
	return atn.AltInvalid, nil
}

func (m *Simulator) splitBySemanticValidity(configs *atn.ConfigSet) (*atn.ConfigSet, *atn.ConfigSet) {
	valid := atn.NewConfigSet(configs.FullCtx)
	invalid := atn.NewConfigSet(configs.FullCtx)
	for _, c := range configs.Configs {
		if c.SemCtx != atn.SemanticContextNone && !c.SemCtx.Evaluate(m.evaluator(), m.outerContext) {
			invalid.Add(c, m.mergeCache)
			continue
		}
		valid.Add(c, m.mergeCache)
	}
	return valid, invalid
}

func altThatFinishedDecisionEntryRule(configs *atn.ConfigSet) int {
	alts := container.NewBitSet()
	for _, c := range configs.Configs {
		if c.ReachesIntoOuterContext > 0 ||
			(c.State.Kind == atn.StateKindRuleStop && c.Context.HasEmptyPath()) {
			alts.Set(c.Alt)
		}
	}
	if min, ok := alts.Min(); ok {
		return min
	}
	return atn.AltInvalid
}

func getUniqueAlt(configs *atn.ConfigSet) int {
	alt := atn.AltInvalid
	for _, c := range configs.Configs {
		if alt == atn.AltInvalid {
			alt = c.Alt
			continue
		}
		if c.Alt != alt {
			return atn.AltInvalid
		}
	}
	return alt
}

func (m *Simulator) addDFAState(d *dfa.State) *dfa.State {
	if !d.Configs.ReadOnly() {
		d.Configs.SetReadOnly()
	}
	return m.dfa.AddState(d)
}

func (m *Simulator) noViableAlt(configs *atn.ConfigSet) error {
	offending, _ := m.input.LT(1)
	start, _ := m.input.Get(m.startIndex)
	if start == nil {
		start = offending
	}
	e := &NoViableAltError{
		StartToken:     start,
		DeadEndConfigs: configs,
	}
	e.OffendingToken = offending
	e.Ctx = m.outerContext
	if offending != nil {
		e.Message = fmt.Sprintf("no viable alternative at input %#v", offending.Lexeme())
	}
	return e
}

func (m *Simulator) reportAttemptingFullContext(d *dfa.State, conflictingAlts *container.BitSet, stopIndex int) {
	if m.parser == nil {
		return
	}
	m.parser.ErrorListenerDispatch().ReportAttemptingFullContext(m.parser, m.dfa, m.startIndex, stopIndex, conflictingAlts, d.Configs)
}

func (m *Simulator) reportContextSensitivity(prediction int, configs *atn.ConfigSet, stopIndex int) {
	if m.parser == nil {
		return
	}
	m.parser.ErrorListenerDispatch().ReportContextSensitivity(m.parser, m.dfa, m.startIndex, stopIndex, prediction, configs)
}

func (m *Simulator) reportAmbiguity(d *dfa.State, startIndex, stopIndex int, exact bool, ambigAlts *container.BitSet, configs *atn.ConfigSet) {
	if m.parser == nil {
		return
	}
	m.parser.ErrorListenerDispatch().ReportAmbiguity(m.parser, m.dfa, startIndex, stopIndex, exact, ambigAlts, configs)
}
