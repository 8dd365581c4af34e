package parser

import (
	"fmt"

	"github.com/rmaru/tarn/atn"
	"github.com/rmaru/tarn/driver/lexer"
	"github.com/rmaru/tarn/interval"
)

// An ErrorStrategy decides how a parser reacts to recognition failures:
// resynchronize, fabricate a token, or give up.
type ErrorStrategy interface {
	// Reset clears recovery state when the parser is reused.
	Reset(p *Parser)

	// RecoverInline handles a failed match: delete the offending token,
	// conjure the missing one, or return the error.
	RecoverInline(p *Parser) (*lexer.Token, error)

	// Recover resynchronizes after a reported error, consuming input
	// until the parser can plausibly continue.
	Recover(p *Parser, err error) error

	// Sync runs at every decision point; it may consume tokens to get
	// back on track or return an error to abort the decision. Hosts
	// cancel long parses from here.
	Sync(p *Parser) error

	// InErrorRecoveryMode reports whether an error was seen and not yet
	// resynchronized past.
	InErrorRecoveryMode(p *Parser) bool

	// ReportError routes an error to the parser's listeners.
	ReportError(p *Parser, err error)

	// ReportMatch marks a successful match, ending recovery mode.
	ReportMatch(p *Parser)
}

// DefaultErrorStrategy is the standard recover-and-continue policy:
// single-token deletion and insertion at a failed match, follow-set
// resynchronization after a reported error.
type DefaultErrorStrategy struct {
	errorRecoveryMode bool

	// lastErrorIndex and lastErrorStates detect failed resets: erroring
	// twice at one input position in one state set forces a consume so
	// recovery cannot loop in place.
	lastErrorIndex  int
	lastErrorStates map[atn.StateID]struct{}
}

func NewDefaultErrorStrategy() *DefaultErrorStrategy {
	return &DefaultErrorStrategy{
		lastErrorIndex: -1,
	}
}

func (s *DefaultErrorStrategy) Reset(p *Parser) {
	s.endErrorCondition(p)
	s.lastErrorIndex = -1
	s.lastErrorStates = nil
}

func (s *DefaultErrorStrategy) beginErrorCondition(p *Parser) {
	s.errorRecoveryMode = true
}

func (s *DefaultErrorStrategy) endErrorCondition(p *Parser) {
	s.errorRecoveryMode = false
}

func (s *DefaultErrorStrategy) InErrorRecoveryMode(p *Parser) bool {
	return s.errorRecoveryMode
}

func (s *DefaultErrorStrategy) ReportMatch(p *Parser) {
	s.endErrorCondition(p)
}

func (s *DefaultErrorStrategy) ReportError(p *Parser, err error) {
	// One report per error condition; the rest of the cascade is noise.
	if s.errorRecoveryMode {
		return
	}
	s.beginErrorCondition(p)

	switch e := err.(type) {
	case *NoViableAltError:
		s.reportNoViableAlt(p, e)
	case *InputMismatchError:
		s.reportInputMismatch(p, e)
	case *FailedPredicateError:
		p.NotifyErrorListeners(e.Error(), e.OffendingToken, e)
	default:
		tok, _ := p.input.LT(1)
		p.NotifyErrorListeners(fmt.Sprintf("unknown recognition error: %v", err), tok, err)
	}
}

func (s *DefaultErrorStrategy) reportNoViableAlt(p *Parser, e *NoViableAltError) {
	input := "<unknown input>"
	if e.StartToken != nil {
		if e.StartToken.EOF() {
			input = "<EOF>"
		} else if e.OffendingToken != nil {
			input = p.TextBetween(e.StartToken, e.OffendingToken)
		}
	}
	p.NotifyErrorListeners(fmt.Sprintf("no viable alternative at input %#v", input), e.OffendingToken, e)
}

func (s *DefaultErrorStrategy) reportInputMismatch(p *Parser, e *InputMismatchError) {
	msg := fmt.Sprintf("mismatched input %v expecting %v",
		s.tokenDisplay(p, e.OffendingToken), e.Expecting.Format(p.vocab.TokenDisplay))
	p.NotifyErrorListeners(msg, e.OffendingToken, e)
}

func (s *DefaultErrorStrategy) Recover(p *Parser, err error) error {
	// A second failure at the same spot means the resync made no
	// progress; force one token of it.
	if s.lastErrorIndex == p.input.Index() && s.lastErrorStates != nil {
		if _, seen := s.lastErrorStates[atn.StateID(p.State)]; seen {
			if la, _ := p.input.LA(1); la != atn.TokenEOF {
				if cerr := p.input.Consume(); cerr != nil {
					return cerr
				}
			}
		}
	}
	s.lastErrorIndex = p.input.Index()
	if s.lastErrorStates == nil {
		s.lastErrorStates = map[atn.StateID]struct{}{}
	}
	s.lastErrorStates[atn.StateID(p.State)] = struct{}{}

	return s.consumeUntil(p, s.errorRecoverySet(p))
}

func (s *DefaultErrorStrategy) Sync(p *Parser) error {
	// Nothing to do while already recovering; the enclosing rule's
	// resync owns the input.
	if s.InErrorRecoveryMode(p) {
		return nil
	}

	st := p.atn.State(atn.StateID(p.State))
	la, err := p.input.LA(1)
	if err != nil {
		return err
	}

	next := p.atn.NextTokens(st, nil)
	if next.Contains(la) || next.Contains(atn.TokenEpsilon) {
		return nil
	}

	switch st.Kind {
	case atn.StateKindBlockStart, atn.StateKindStarBlockStart,
		atn.StateKindPlusBlockStart, atn.StateKindPlusLoopBack:
		if tok, _ := s.singleTokenDeletion(p); tok != nil {
			return nil
		}
		return s.inputMismatch(p)

	case atn.StateKindStarLoopBack:
		s.reportUnwantedToken(p)
		expecting := p.ExpectedTokens()
		whatFollows := s.errorRecoverySet(p)
		return s.consumeUntil(p, expecting.Or(whatFollows))
	}
	return nil
}

func (s *DefaultErrorStrategy) RecoverInline(p *Parser) (*lexer.Token, error) {
	// Deleting one token fixes the stream when the next one is what
	// the parser wanted.
	if tok, err := s.singleTokenDeletion(p); err != nil {
		return nil, err
	} else if tok != nil {
		if err := p.consumeToken(tok, false); err != nil {
			return nil, err
		}
		return tok, nil
	}

	// Otherwise pretend the expected token was there.
	if ok, err := s.singleTokenInsertion(p); err != nil {
		return nil, err
	} else if ok {
		s.reportMissingToken(p)
		return s.missingToken(p)
	}

	e := s.inputMismatch(p)
	return nil, e
}

func (s *DefaultErrorStrategy) inputMismatch(p *Parser) error {
	tok, _ := p.input.LT(1)
	e := &InputMismatchError{Expecting: p.ExpectedTokens()}
	e.OffendingToken = tok
	e.OffendingState = atn.StateID(p.State)
	e.Ctx = p.ctx
	e.Recognizer = p
	return e
}

// singleTokenDeletion checks whether dropping LT(1) lets LT(2) match.
// It reports and returns the matching token without consuming; the
// caller consumes.
func (s *DefaultErrorStrategy) singleTokenDeletion(p *Parser) (*lexer.Token, error) {
	nextKind, err := p.input.LA(2)
	if err != nil {
		return nil, err
	}
	expecting := p.ExpectedTokens()
	if !expecting.Contains(nextKind) {
		return nil, nil
	}
	s.reportUnwantedToken(p)
	if err := p.input.Consume(); err != nil {
		return nil, err
	}
	matched, err := p.input.LT(1)
	if err != nil {
		return nil, err
	}
	s.ReportMatch(p)
	return matched, nil
}

// singleTokenInsertion checks whether the state after the expected
// token could accept LT(1); if so the expected token can be conjured.
func (s *DefaultErrorStrategy) singleTokenInsertion(p *Parser) (bool, error) {
	la, err := p.input.LA(1)
	if err != nil {
		return false, err
	}
	st := p.atn.State(atn.StateID(p.State))
	if len(st.Transitions) == 0 {
		return false, nil
	}
	next := p.atn.State(st.Transitions[0].Target)
	follow := p.atn.ExpectedTokens(next.Num, p.ctx)
	return follow.Contains(la), nil
}

// missingToken fabricates the token a single-token insertion assumes.
func (s *DefaultErrorStrategy) missingToken(p *Parser) (*lexer.Token, error) {
	expecting := p.ExpectedTokens()
	kind, ok := expecting.MinElement()
	if !ok {
		kind = atn.TokenInvalidType
	}
	cur, err := p.input.LT(1)
	if err != nil {
		return nil, err
	}
	t := &lexer.Token{
		Kind:    kind,
		Channel: atn.TokenDefaultChannel,
		Start:   -1,
		Stop:    -1,
		Index:   -1,
	}
	if cur != nil {
		t.Line = cur.Line
		t.Col = cur.Col
	}
	return t, nil
}

func (s *DefaultErrorStrategy) reportUnwantedToken(p *Parser) {
	if s.InErrorRecoveryMode(p) {
		return
	}
	s.beginErrorCondition(p)
	tok, _ := p.input.LT(1)
	msg := fmt.Sprintf("extraneous input %v expecting %v",
		s.tokenDisplay(p, tok), p.ExpectedTokens().Format(p.vocab.TokenDisplay))
	p.NotifyErrorListeners(msg, tok, nil)
}

func (s *DefaultErrorStrategy) reportMissingToken(p *Parser) {
	if s.InErrorRecoveryMode(p) {
		return
	}
	s.beginErrorCondition(p)
	tok, _ := p.input.LT(1)
	msg := fmt.Sprintf("missing %v at %v",
		p.ExpectedTokens().Format(p.vocab.TokenDisplay), s.tokenDisplay(p, tok))
	p.NotifyErrorListeners(msg, tok, nil)
}

func (s *DefaultErrorStrategy) tokenDisplay(p *Parser, t *lexer.Token) string {
	if t == nil {
		return "<no token>"
	}
	if t.EOF() {
		return "<EOF>"
	}
	return fmt.Sprintf("%#v", t.Lexeme())
}

// errorRecoverySet unions the follow sets of every rule on the
// invocation stack; consuming to it pops the parse back to somewhere
// sane.
func (s *DefaultErrorStrategy) errorRecoverySet(p *Parser) *interval.IntervalSet {
	recoverSet := interval.NewIntervalSet()
	ctx := p.ctx
	for ctx != nil && ctx.InvokingState() >= 0 {
		invoking := p.atn.State(ctx.InvokingState())
		rt := invoking.Transitions[0]
		follow := p.atn.NextTokens(p.atn.State(rt.FollowState), nil)
		recoverSet.AddSet(follow)
		ctx = ctx.Parent()
	}
	recoverSet = recoverSet.Subtract(interval.NewIntervalSetOf(atn.TokenEpsilon))
	recoverSet.AddOne(atn.TokenEOF)
	return recoverSet
}

func (s *DefaultErrorStrategy) consumeUntil(p *Parser, set *interval.IntervalSet) error {
	for {
		kind, err := p.input.LA(1)
		if err != nil {
			return err
		}
		if kind == atn.TokenEOF || set.Contains(kind) {
			return nil
		}
		if err := p.input.Consume(); err != nil {
			return err
		}
	}
}

// BailErrorStrategy aborts at the first error instead of recovering.
// Hosts use it for the fast SLL first pass of two-stage parsing.
type BailErrorStrategy struct {
	DefaultErrorStrategy
}

func NewBailErrorStrategy() *BailErrorStrategy {
	return &BailErrorStrategy{}
}

func (s *BailErrorStrategy) Recover(p *Parser, err error) error {
	return err
}

func (s *BailErrorStrategy) RecoverInline(p *Parser) (*lexer.Token, error) {
	return nil, s.inputMismatch(p)
}

func (s *BailErrorStrategy) Sync(p *Parser) error {
	return nil
}
