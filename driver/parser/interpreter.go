package parser

import (
	"fmt"

	"github.com/rmaru/tarn/atn"
)

// An Interpreter parses by walking the ATN directly, with the same
// simulators and DFA cache a generated parser would use. Tools use it
// to parse against a compiled grammar without generated code.
type Interpreter struct {
	*Parser

	// Decision override: at overrideDecision with the input at
	// overrideIndex, take overrideAlt instead of predicting. Hosts that
	// resolve ambiguities externally re-parse with an override.
	overrideDecision int
	overrideIndex    int
	overrideAlt      int
	overrideReached  bool

	root *ParserRuleContext
}

func NewInterpreter(a *atn.ATN, input TokenStream, opts ...Option) (*Interpreter, error) {
	p, err := NewParser(a, input, opts...)
	if err != nil {
		return nil, err
	}
	return &Interpreter{
		Parser:           p,
		overrideDecision: -1,
		overrideIndex:    -1,
		overrideAlt:      atn.AltInvalid,
	}, nil
}

// AddDecisionOverride forces alt at the given decision when the input
// cursor sits at index. One override is supported per parse.
func (i *Interpreter) AddDecisionOverride(decision, index, alt int) {
	i.overrideDecision = decision
	i.overrideIndex = index
	i.overrideAlt = alt
	i.overrideReached = false
}

func (i *Interpreter) OverrideReached() bool {
	return i.overrideReached
}

// Parse recognizes startRule and returns its parse tree. Recoverable
// errors are reported to listeners and repaired where the strategy
// allows; the first unrepairable error is returned.
func (i *Interpreter) Parse(startRule int) (*ParserRuleContext, error) {
	if startRule < 0 || startRule >= len(i.atn.RuleToStartState) {
		return nil, fmt.Errorf("start rule %v out of range 0..%v", startRule, len(i.atn.RuleToStartState)-1)
	}
	startState := i.atn.State(i.atn.RuleToStartState[startRule])

	i.root = NewParserRuleContext(nil, atn.StateIDInvalid, startRule)
	if startState.LeftRecursive {
		if err := i.EnterRecursionRule(i.root, startState.Num, startRule, 0); err != nil {
			return nil, err
		}
	} else {
		if err := i.EnterRule(i.root, startState.Num, startRule); err != nil {
			return nil, err
		}
	}

	for {
		p := i.atn.State(atn.StateID(i.State))
		if p.Kind == atn.StateKindRuleStop {
			if i.ctx.IsEmptyInvocation() {
				// The start rule finished.
				if startState.LeftRecursive {
					result := i.ctx
					if err := i.UnrollRecursionContexts(i.ctx.Parent()); err != nil {
						return nil, err
					}
					return result, nil
				}
				if err := i.ExitRule(); err != nil {
					return nil, err
				}
				return i.root, nil
			}
			if err := i.visitRuleStop(p); err != nil {
				return nil, err
			}
			continue
		}

		if err := i.visitState(p); err != nil {
			if rerr := i.handleRecognitionError(err); rerr != nil {
				return i.root, rerr
			}
		}
	}
}

func (i *Interpreter) visitState(p *atn.State) error {
	predictedAlt := 1
	if len(p.Transitions) > 1 {
		alt, err := i.visitDecision(p)
		if err != nil {
			return err
		}
		predictedAlt = alt
	}

	trans := p.Transitions[predictedAlt-1]
	switch trans.Kind {
	case atn.TransitionKindEpsilon:
		if p.Kind == atn.StateKindStarLoopEntry && p.PrecedenceRuleDecision &&
			i.atn.State(trans.Target).Kind != atn.StateKindLoopEnd {
			// Another iteration of the left-recursive loop: wrap the
			// spine in a fresh frame.
			localctx := NewParserRuleContext(i.ctx.Parent(), i.ctx.InvokingState(), i.ctx.RuleIndex)
			if err := i.PushNewRecursionContext(localctx, i.atn.RuleToStartState[p.RuleIndex], i.ctx.RuleIndex); err != nil {
				return err
			}
		}

	case atn.TransitionKindAtom:
		if _, err := i.Match(trans.Label); err != nil {
			return err
		}

	case atn.TransitionKindRange, atn.TransitionKindSet, atn.TransitionKindNotSet:
		la, err := i.input.LA(1)
		if err != nil {
			return err
		}
		if !trans.Matches(la, atn.TokenMinUserType, i.atn.MaxTokenType) {
			if _, err := i.errStrategy.RecoverInline(i.Parser); err != nil {
				return err
			}
		} else if _, err := i.MatchWildcard(); err != nil {
			return err
		}

	case atn.TransitionKindWildcard:
		if _, err := i.MatchWildcard(); err != nil {
			return err
		}

	case atn.TransitionKindRule:
		ruleStart := i.atn.State(trans.Target)
		localctx := NewParserRuleContext(i.ctx, p.Num, trans.RuleIndex)
		if ruleStart.LeftRecursive {
			if err := i.EnterRecursionRule(localctx, ruleStart.Num, trans.RuleIndex, trans.Precedence); err != nil {
				return err
			}
		} else {
			if err := i.EnterRule(localctx, ruleStart.Num, trans.RuleIndex); err != nil {
				return err
			}
		}

	case atn.TransitionKindPredicate:
		if !i.Sempred(i.ctx, trans.RuleIndex, trans.PredIndex) {
			return i.failedPredicate(trans)
		}

	case atn.TransitionKindPrecedence:
		if !i.Precpred(i.ctx, trans.Precedence) {
			return i.failedPredicate(trans)
		}

	case atn.TransitionKindAction:
		if i.action != nil {
			i.action(i.ctx, trans.RuleIndex, trans.ActionIndex)
		}

	default:
		panic(fmt.Sprintf("parser: unexpected transition kind %v during interpretation", trans.Kind))
	}

	i.State = trans.Target.Int()
	return nil
}

func (i *Interpreter) visitDecision(p *atn.State) (int, error) {
	if !p.IsDecision() {
		return 0, fmt.Errorf("state %v branches but carries no decision", p.Num)
	}

	if p.Decision == i.overrideDecision && i.input.Index() == i.overrideIndex && !i.overrideReached {
		i.overrideReached = true
		return i.overrideAlt, nil
	}

	if err := i.errStrategy.Sync(i.Parser); err != nil {
		return 0, err
	}
	return i.sim.AdaptivePredict(i.input, p.Decision, i.ctx)
}

func (i *Interpreter) visitRuleStop(p *atn.State) error {
	ruleStart := i.atn.State(i.atn.RuleToStartState[p.RuleIndex])
	if ruleStart.LeftRecursive {
		parent := i.ctx.Parent()
		state := i.ctx.InvokingState()
		if err := i.UnrollRecursionContexts(parent); err != nil {
			return err
		}
		i.State = state.Int()
	} else {
		if err := i.ExitRule(); err != nil {
			return err
		}
	}

	// Resume at the follow state of the invoking rule transition.
	invoking := i.atn.State(atn.StateID(i.State))
	i.State = invoking.Transitions[0].FollowState.Int()
	return nil
}

func (i *Interpreter) failedPredicate(trans *atn.Transition) error {
	tok, _ := i.input.LT(1)
	e := &FailedPredicateError{RuleIndex: trans.RuleIndex, PredIndex: trans.PredIndex}
	e.OffendingToken = tok
	e.OffendingState = atn.StateID(i.State)
	e.Ctx = i.ctx
	e.Recognizer = i.Parser
	if trans.Kind == atn.TransitionKindPrecedence {
		e.Message = fmt.Sprintf("failed precedence predicate {%v >= prec}?", trans.Precedence)
	}
	return e
}

// handleRecognitionError reports a recoverable error and resynchronizes.
// A non-recognition error, or a strategy that refuses to recover,
// aborts the parse.
func (i *Interpreter) handleRecognitionError(err error) error {
	switch err.(type) {
	case *NoViableAltError, *InputMismatchError, *FailedPredicateError:
		if i.ctx != nil {
			i.ctx.Exception = err
		}
		i.errStrategy.ReportError(i.Parser, err)
		if rerr := i.recover(err); rerr != nil {
			return rerr
		}
		return nil
	}
	return err
}

// recover resynchronizes through the strategy. When no progress is
// possible at EOF the original error surfaces so the parse terminates.
func (i *Interpreter) recover(err error) error {
	before := i.input.Index()
	if rerr := i.errStrategy.Recover(i.Parser, err); rerr != nil {
		return rerr
	}
	la, lerr := i.input.LA(1)
	if lerr != nil {
		return lerr
	}
	if i.input.Index() == before && la == atn.TokenEOF {
		return err
	}
	return nil
}
