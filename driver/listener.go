// Package driver holds the runtime surface shared by the lexer and
// parser drivers: error listeners and the recognizer base they hang off.
package driver

import (
	"fmt"
	"io"
	"os"

	"github.com/rmaru/tarn/atn"
	"github.com/rmaru/tarn/container"
	"github.com/rmaru/tarn/dfa"
)

// An ErrorListener receives recognition diagnostics. SyntaxError fires
// for both lexers and parsers; the three report methods fire only
// during parser prediction.
type ErrorListener interface {
	// SyntaxError reports a recognition failure. offendingSymbol is the
	// token the parser stumbled on, or nil in a lexer. line is 1-based,
	// col 0-based.
	SyntaxError(recognizer any, offendingSymbol any, line, col int, msg string, err error)

	// ReportAmbiguity fires when full-context prediction proves that
	// several alternatives match the same input span. exact is false
	// when the ambiguity set is a conservative superset.
	ReportAmbiguity(recognizer any, d *dfa.DFA, startIndex, stopIndex int, exact bool, ambigAlts *container.BitSet, configs *atn.ConfigSet)

	// ReportAttemptingFullContext fires when SLL prediction conflicts
	// and the simulator retries with the true outer context.
	ReportAttemptingFullContext(recognizer any, d *dfa.DFA, startIndex, stopIndex int, conflictingAlts *container.BitSet, configs *atn.ConfigSet)

	// ReportContextSensitivity fires when the full-context retry
	// resolved an SLL conflict to a single alternative.
	ReportContextSensitivity(recognizer any, d *dfa.DFA, startIndex, stopIndex int, prediction int, configs *atn.ConfigSet)
}

// BaseErrorListener ignores everything. Embed it to implement only the
// events of interest.
type BaseErrorListener struct{}

func (*BaseErrorListener) SyntaxError(any, any, int, int, string, error) {}
func (*BaseErrorListener) ReportAmbiguity(any, *dfa.DFA, int, int, bool, *container.BitSet, *atn.ConfigSet) {
}
func (*BaseErrorListener) ReportAttemptingFullContext(any, *dfa.DFA, int, int, *container.BitSet, *atn.ConfigSet) {
}
func (*BaseErrorListener) ReportContextSensitivity(any, *dfa.DFA, int, int, int, *atn.ConfigSet) {}

// A ConsoleErrorListener prints one line per syntax error. It is the
// listener every recognizer starts with.
type ConsoleErrorListener struct {
	BaseErrorListener
	w io.Writer
}

// NewConsoleErrorListener writes to w; a nil w selects stderr.
func NewConsoleErrorListener(w io.Writer) *ConsoleErrorListener {
	if w == nil {
		w = os.Stderr
	}
	return &ConsoleErrorListener{w: w}
}

func (l *ConsoleErrorListener) SyntaxError(_ any, _ any, line, col int, msg string, _ error) {
	fmt.Fprintf(l.w, "line %v:%v %v\n", line, col, msg)
}

// A ProxyErrorListener fans events out to a listener list. Recognizers
// expose their registered listeners through one of these.
type ProxyErrorListener struct {
	listeners []ErrorListener
}

func NewProxyErrorListener(listeners []ErrorListener) *ProxyErrorListener {
	return &ProxyErrorListener{listeners: listeners}
}

func (p *ProxyErrorListener) SyntaxError(recognizer any, offendingSymbol any, line, col int, msg string, err error) {
	for _, l := range p.listeners {
		l.SyntaxError(recognizer, offendingSymbol, line, col, msg, err)
	}
}

func (p *ProxyErrorListener) ReportAmbiguity(recognizer any, d *dfa.DFA, startIndex, stopIndex int, exact bool, ambigAlts *container.BitSet, configs *atn.ConfigSet) {
	for _, l := range p.listeners {
		l.ReportAmbiguity(recognizer, d, startIndex, stopIndex, exact, ambigAlts, configs)
	}
}

func (p *ProxyErrorListener) ReportAttemptingFullContext(recognizer any, d *dfa.DFA, startIndex, stopIndex int, conflictingAlts *container.BitSet, configs *atn.ConfigSet) {
	for _, l := range p.listeners {
		l.ReportAttemptingFullContext(recognizer, d, startIndex, stopIndex, conflictingAlts, configs)
	}
}

func (p *ProxyErrorListener) ReportContextSensitivity(recognizer any, d *dfa.DFA, startIndex, stopIndex int, prediction int, configs *atn.ConfigSet) {
	for _, l := range p.listeners {
		l.ReportContextSensitivity(recognizer, d, startIndex, stopIndex, prediction, configs)
	}
}
