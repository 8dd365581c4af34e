// Package lexer tokenizes a character stream by simulating a lexer ATN.
// The Lexer is the facade generated lexers embed; the Simulator does
// the prediction work and caches it in per-mode DFAs.
package lexer

import (
	"fmt"

	"github.com/rmaru/tarn/atn"
	"github.com/rmaru/tarn/dfa"
	"github.com/rmaru/tarn/driver"
)

// Token-type sentinels produced by lexer commands. They never appear on
// emitted tokens: skip suppresses the token, more extends it into the
// next match.
const (
	KindMore = -2
	KindSkip = -3
)

// DefaultMode is the mode every lexer starts in.
const DefaultMode = 0

type Option func(l *Lexer) error

// WithTokenFactory substitutes the token constructor.
func WithTokenFactory(f TokenFactory) Option {
	return func(l *Lexer) error {
		l.factory = f
		return nil
	}
}

// WithSharedState wires the lexer to DFAs and a context cache shared
// with other lexers of the same ATN. Without it each lexer warms its
// own caches.
func WithSharedState(modeToDFA []*dfa.DFA, ctxCache *atn.ContextCache) Option {
	return func(l *Lexer) error {
		if len(modeToDFA) != len(l.atn.ModeToStartState) {
			return fmt.Errorf("shared DFA array has %v modes, the ATN has %v", len(modeToDFA), len(l.atn.ModeToStartState))
		}
		l.sharedDFA = modeToDFA
		l.ctxCache = ctxCache
		return nil
	}
}

// WithSempred installs the predicate hook generated lexers provide.
func WithSempred(f func(ruleIndex, predIndex int) bool) Option {
	return func(l *Lexer) error {
		l.sempred = f
		return nil
	}
}

// WithCustomAction installs the hook custom lexer actions dispatch to.
func WithCustomAction(f func(ruleIndex, actionIndex int)) Option {
	return func(l *Lexer) error {
		l.customAction = f
		return nil
	}
}

// A Lexer turns a character stream into tokens. It owns its simulator
// and input exclusively; concurrent use of one Lexer is undefined.
type Lexer struct {
	driver.Recognizer

	atn     *atn.ATN
	input   *CharStream
	sim     *Simulator
	factory TokenFactory
	prov    *TokenProvenance

	sharedDFA    []*dfa.DFA
	ctxCache     *atn.ContextCache
	sempred      func(ruleIndex, predIndex int) bool
	customAction func(ruleIndex, actionIndex int)

	mode      int
	modeStack []int
	hitEOF    bool

	// State of the token under construction.
	tokenStartIndex int
	tokenStartLine  int
	tokenStartCol   int
	kind            int
	channel         int

	nextIndex int
	eofToken  *Token
}

func NewLexer(a *atn.ATN, input *CharStream, opts ...Option) (*Lexer, error) {
	if a.Kind != atn.GrammarKindLexer {
		return nil, fmt.Errorf("a lexer needs a lexer ATN; got a %v ATN", a.Kind)
	}
	l := &Lexer{
		Recognizer: driver.NewRecognizer(),
		atn:        a,
		input:      input,
		factory:    CommonTokenFactory{},
		mode:       DefaultMode,
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	if l.sharedDFA == nil {
		l.sharedDFA = NewModeDFAs(a)
	}
	l.sim = NewSimulator(a, l, l.sharedDFA, l.ctxCache)
	l.prov = &TokenProvenance{TokenSource: l, CharStream: input}
	return l, nil
}

func (l *Lexer) InputStream() *CharStream {
	return l.input
}

// ATN exposes the grammar the lexer runs.
func (l *Lexer) ATN() *atn.ATN {
	return l.atn
}

// Line returns the 1-based line of the next code point.
func (l *Lexer) Line() int {
	return l.sim.Line
}

// Col returns the 0-based column of the next code point.
func (l *Lexer) Col() int {
	return l.sim.Col
}

// NextToken returns the next on- or off-channel token. After the end of
// input it returns the same EOF token on every call.
func (l *Lexer) NextToken() (*Token, error) {
	marker := l.input.Mark()
	defer l.input.Release(marker)

	for {
		if l.hitEOF || l.input.LA(1) == atn.TokenEOF {
			l.hitEOF = true
			return l.emitEOF(), nil
		}

		l.tokenStartIndex = l.input.Index()
		l.tokenStartLine = l.sim.Line
		l.tokenStartCol = l.sim.Col
		l.channel = atn.TokenDefaultChannel
		skip := false

		for {
			l.kind = atn.TokenInvalidType
			kind, err := l.safeMatch()
			if err != nil {
				return nil, err
			}
			if l.input.LA(1) == atn.TokenEOF {
				l.hitEOF = true
			}
			if l.kind == atn.TokenInvalidType {
				l.kind = kind
			}
			if l.kind == KindSkip {
				skip = true
				break
			}
			if l.kind != KindMore {
				break
			}
		}
		if skip {
			continue
		}
		return l.emit(), nil
	}
}

// safeMatch runs one simulation, translating a no-viable-alternative
// into a listener report plus single-character recovery.
func (l *Lexer) safeMatch() (int, error) {
	kind, err := l.sim.Match(l.input, l.mode)
	if err == nil {
		return kind, nil
	}
	nva, ok := err.(*NoViableAltError)
	if !ok {
		return atn.TokenInvalidType, err
	}
	l.notifyNoViableAlt(nva)
	l.sim.Recover(l.input)
	return KindSkip, nil
}

func (l *Lexer) notifyNoViableAlt(e *NoViableAltError) {
	stop := l.input.Index()
	text := l.input.Text(l.tokenStartIndex, stop)
	msg := fmt.Sprintf("token recognition error at: %#v", text)
	l.ErrorListenerDispatch().SyntaxError(l, nil, l.tokenStartLine, l.tokenStartCol, msg, e)
}

func (l *Lexer) emit() *Token {
	t := l.factory.Create(l.prov, l.kind, l.channel, l.tokenStartIndex, l.input.Index()-1, l.tokenStartLine, l.tokenStartCol)
	t.Index = l.nextIndex
	l.nextIndex++
	return t
}

// emitEOF pins one EOF token; repeated calls return it unchanged so its
// index stays stable.
func (l *Lexer) emitEOF() *Token {
	if l.eofToken == nil {
		pos := l.input.Index()
		l.eofToken = l.factory.Create(l.prov, atn.TokenEOF, atn.TokenDefaultChannel, pos, pos-1, l.sim.Line, l.sim.Col)
		l.eofToken.Index = l.nextIndex
	}
	return l.eofToken
}

// Mode returns the current lexer mode.
func (l *Lexer) Mode() int {
	return l.mode
}

// The methods below are the command surface lexer actions execute
// against.

func (l *Lexer) Skip() {
	l.kind = KindSkip
}

func (l *Lexer) More() {
	l.kind = KindMore
}

func (l *Lexer) SetType(kind int) {
	l.kind = kind
}

func (l *Lexer) SetChannel(channel int) {
	l.channel = channel
}

func (l *Lexer) SetMode(mode int) {
	l.mode = mode
}

// PushMode saves the current mode and switches to mode.
func (l *Lexer) PushMode(mode int) {
	l.modeStack = append(l.modeStack, l.mode)
	l.mode = mode
}

// PopMode restores the most recently pushed mode. Popping with nothing
// pushed is an invariant violation.
func (l *Lexer) PopMode() {
	if len(l.modeStack) == 0 {
		panic("lexer: pop of an empty mode stack")
	}
	l.mode = l.modeStack[len(l.modeStack)-1]
	l.modeStack = l.modeStack[:len(l.modeStack)-1]
}

// Action dispatches a custom lexer action.
func (l *Lexer) Action(_ atn.RuleInvocation, ruleIndex, actionIndex int) {
	if l.customAction != nil {
		l.customAction(ruleIndex, actionIndex)
	}
}
