package parser

import (
	"fmt"

	"github.com/rmaru/tarn/atn"
	"github.com/rmaru/tarn/dfa"
	"github.com/rmaru/tarn/driver"
	"github.com/rmaru/tarn/driver/lexer"
	"github.com/rmaru/tarn/interval"
)

type Option func(p *Parser) error

// WithSharedState wires the parser to DFAs and a context cache shared
// with other parsers of the same ATN.
func WithSharedState(decisionToDFA []*dfa.DFA, ctxCache *atn.ContextCache) Option {
	return func(p *Parser) error {
		if len(decisionToDFA) != len(p.atn.DecisionToState) {
			return fmt.Errorf("shared DFA array has %v decisions, the ATN has %v", len(decisionToDFA), len(p.atn.DecisionToState))
		}
		p.decisionToDFA = decisionToDFA
		p.ctxCache = ctxCache
		return nil
	}
}

// WithErrorStrategy substitutes the error strategy.
func WithErrorStrategy(s ErrorStrategy) Option {
	return func(p *Parser) error {
		p.errStrategy = s
		return nil
	}
}

// WithPredictionMode selects the prediction termination policy.
func WithPredictionMode(mode PredictionMode) Option {
	return func(p *Parser) error {
		p.predictionMode = mode
		return nil
	}
}

// WithVocabulary attaches display names for tokens and rules.
func WithVocabulary(v *Vocabulary) Option {
	return func(p *Parser) error {
		p.vocab = v
		return nil
	}
}

// WithSempred installs the semantic-predicate hook generated parsers
// provide.
func WithSempred(f func(localCtx *ParserRuleContext, ruleIndex, predIndex int) bool) Option {
	return func(p *Parser) error {
		p.sempred = f
		return nil
	}
}

// WithAction installs the hook embedded grammar actions dispatch to.
func WithAction(f func(localCtx *ParserRuleContext, ruleIndex, actionIndex int)) Option {
	return func(p *Parser) error {
		p.action = f
		return nil
	}
}

// DisableTreeBuilding turns off parse-tree construction; the parser
// still recognizes and reports errors.
func DisableTreeBuilding() Option {
	return func(p *Parser) error {
		p.buildTrees = false
		return nil
	}
}

// A Parser recognizes a token stream against a parser ATN. It owns its
// simulator, input, and context stack exclusively; concurrent calls
// into one Parser are undefined.
type Parser struct {
	driver.Recognizer

	atn   *atn.ATN
	input TokenStream
	sim   *Simulator
	vocab *Vocabulary

	decisionToDFA  []*dfa.DFA
	ctxCache       *atn.ContextCache
	errStrategy    ErrorStrategy
	predictionMode PredictionMode

	sempred func(localCtx *ParserRuleContext, ruleIndex, predIndex int) bool
	action  func(localCtx *ParserRuleContext, ruleIndex, actionIndex int)

	ctx             *ParserRuleContext
	precedenceStack []int
	buildTrees      bool
	syntaxErrors    int
}

func NewParser(a *atn.ATN, input TokenStream, opts ...Option) (*Parser, error) {
	if a.Kind != atn.GrammarKindParser {
		return nil, fmt.Errorf("a parser needs a parser ATN; got a %v ATN", a.Kind)
	}
	p := &Parser{
		Recognizer:      driver.NewRecognizer(),
		atn:             a,
		input:           input,
		errStrategy:     NewDefaultErrorStrategy(),
		predictionMode:  PredictionModeLL,
		buildTrees:      true,
		precedenceStack: []int{0},
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	if p.decisionToDFA == nil {
		p.decisionToDFA = NewDecisionDFAs(a)
	}
	p.sim = NewSimulator(a, p, p.decisionToDFA, p.ctxCache)
	p.sim.Mode = p.predictionMode
	return p, nil
}

func (p *Parser) ATN() *atn.ATN {
	return p.atn
}

func (p *Parser) TokenStream() TokenStream {
	return p.input
}

func (p *Parser) Context() *ParserRuleContext {
	return p.ctx
}

func (p *Parser) SyntaxErrorCount() int {
	return p.syntaxErrors
}

// Precedence returns the precedence the current left-recursive rule
// was entered at; 0 outside one.
func (p *Parser) Precedence() int {
	if len(p.precedenceStack) == 0 {
		return -1
	}
	return p.precedenceStack[len(p.precedenceStack)-1]
}

// Sempred implements atn.PredicateEvaluator.
func (p *Parser) Sempred(localCtx atn.RuleInvocation, ruleIndex, predIndex int) bool {
	if p.sempred == nil {
		return true
	}
	ctx, _ := localCtx.(*ParserRuleContext)
	return p.sempred(ctx, ruleIndex, predIndex)
}

// Precpred implements atn.PredicateEvaluator.
func (p *Parser) Precpred(_ atn.RuleInvocation, precedence int) bool {
	return precedence >= p.Precedence()
}

// NotifyErrorListeners reports a syntax error on the offending token.
func (p *Parser) NotifyErrorListeners(msg string, offending *lexer.Token, err error) {
	p.syntaxErrors++
	line, col := -1, -1
	if offending != nil {
		line, col = offending.Line, offending.Col
	}
	p.ErrorListenerDispatch().SyntaxError(p, offending, line, col, msg, err)
}

// ExpectedTokens computes the token set acceptable at the current
// state, widened through the rule-invocation stack.
func (p *Parser) ExpectedTokens() *interval.IntervalSet {
	return p.atn.ExpectedTokens(atn.StateID(p.State), p.ctx)
}

// TextBetween renders the lexemes spanned by two tokens.
func (p *Parser) TextBetween(start, stop *lexer.Token) string {
	if start == nil || stop == nil {
		return ""
	}
	if cts, ok := p.input.(*CommonTokenStream); ok {
		text, err := cts.Text(start.Index, stop.Index)
		if err == nil {
			return text
		}
	}
	if start.Source != nil && start.Source.CharStream != nil {
		return start.Source.CharStream.Text(start.Start, stop.Stop)
	}
	return start.Lexeme()
}

// Match consumes the current token when it has the expected kind;
// otherwise the error strategy repairs the stream or errors out.
func (p *Parser) Match(kind int) (*lexer.Token, error) {
	t, err := p.input.LT(1)
	if err != nil {
		return nil, err
	}
	if t.Kind == kind {
		p.errStrategy.ReportMatch(p)
		if err := p.consumeToken(t, false); err != nil {
			return nil, err
		}
		return t, nil
	}

	t, err = p.errStrategy.RecoverInline(p)
	if err != nil {
		return nil, err
	}
	// A conjured token never entered the stream; it becomes an error
	// node directly.
	if p.buildTrees && t.Index == -1 && p.ctx != nil {
		p.ctx.AddChild(&TerminalNode{Token: t, IsError: true})
	}
	return t, nil
}

// MatchWildcard consumes the current token whatever its kind.
func (p *Parser) MatchWildcard() (*lexer.Token, error) {
	t, err := p.input.LT(1)
	if err != nil {
		return nil, err
	}
	p.errStrategy.ReportMatch(p)
	if err := p.consumeToken(t, false); err != nil {
		return nil, err
	}
	return t, nil
}

func (p *Parser) consumeToken(t *lexer.Token, asError bool) error {
	if !t.EOF() {
		if err := p.input.Consume(); err != nil {
			return err
		}
	}
	if p.buildTrees && p.ctx != nil {
		p.ctx.AddChild(&TerminalNode{Token: t, IsError: asError})
	}
	return nil
}

// EnterRule begins localctx as the current rule frame.
func (p *Parser) EnterRule(localctx *ParserRuleContext, state atn.StateID, _ int) error {
	p.State = state.Int()
	p.ctx = localctx
	start, err := p.input.LT(1)
	if err != nil {
		return err
	}
	p.ctx.Start = start
	if p.buildTrees && localctx.Parent() != nil {
		localctx.Parent().AddChild(localctx)
	}
	return nil
}

// ExitRule pops back to the invoking frame.
func (p *Parser) ExitRule() error {
	stop, err := p.input.LT(-1)
	if err != nil {
		return err
	}
	p.ctx.Stop = stop
	p.State = p.ctx.InvokingState().Int()
	p.ctx = p.ctx.Parent()
	return nil
}

// EnterRecursionRule begins a left-recursive rule at precedence.
func (p *Parser) EnterRecursionRule(localctx *ParserRuleContext, state atn.StateID, _ int, precedence int) error {
	p.State = state.Int()
	p.precedenceStack = append(p.precedenceStack, precedence)
	p.ctx = localctx
	start, err := p.input.LT(1)
	if err != nil {
		return err
	}
	p.ctx.Start = start
	return nil
}

// PushNewRecursionContext makes localctx the new current frame and the
// old frame its first child, growing the left-recursive spine.
func (p *Parser) PushNewRecursionContext(localctx *ParserRuleContext, state atn.StateID, _ int) error {
	previous := p.ctx
	previous.SetParent(localctx)
	previous.SetInvokingState(state)
	stop, err := p.input.LT(-1)
	if err != nil {
		return err
	}
	previous.Stop = stop

	p.ctx = localctx
	localctx.Start = previous.Start
	if p.buildTrees {
		localctx.AddChild(previous)
	}
	return nil
}

// UnrollRecursionContexts closes a left-recursive rule, hooking the
// accumulated spine under parent.
func (p *Parser) UnrollRecursionContexts(parent *ParserRuleContext) error {
	p.precedenceStack = p.precedenceStack[:len(p.precedenceStack)-1]
	stop, err := p.input.LT(-1)
	if err != nil {
		return err
	}
	p.ctx.Stop = stop

	retctx := p.ctx
	p.ctx = parent
	retctx.SetParent(parent)
	if p.buildTrees && parent != nil {
		parent.AddChild(retctx)
	}
	return nil
}
