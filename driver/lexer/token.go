package lexer

import (
	"fmt"

	"github.com/rmaru/tarn/atn"
)

// A Token is one unit of lexer output.
type Token struct {
	// Kind is the token type; atn.TokenEOF marks the end of input.
	Kind int

	// Channel routes the token; parsers consume one channel and skip
	// the rest.
	Channel int

	// Start and Stop are inclusive code-point offsets of the lexeme.
	Start int
	Stop  int

	// Line is 1-based, Col 0-based, both at the first code point.
	Line int
	Col  int

	// Index is the token's position in the emitted sequence. The lexer
	// assigns it on emission and the stream that buffers the token
	// assigns it again; a token made outside both (such as one conjured
	// by error recovery) keeps -1.
	Index int

	// Provenance: the lexer that produced the token and the stream the
	// lexeme lives in.
	Source *TokenProvenance
}

// TokenProvenance ties a token back to its producer.
type TokenProvenance struct {
	TokenSource TokenSource
	CharStream  *CharStream
}

// Lexeme returns the matched text through the provenance stream. A
// synthetic token without provenance renders as its kind.
func (t *Token) Lexeme() string {
	if t.Source == nil || t.Source.CharStream == nil {
		return fmt.Sprintf("<%v>", t.Kind)
	}
	if t.Kind == atn.TokenEOF {
		return "<EOF>"
	}
	return t.Source.CharStream.Text(t.Start, t.Stop)
}

func (t *Token) EOF() bool {
	return t.Kind == atn.TokenEOF
}

func (t *Token) String() string {
	return fmt.Sprintf("[@%v,%v:%v=%#v,<%v>,%v:%v]", t.Index, t.Start, t.Stop, t.Lexeme(), t.Kind, t.Line, t.Col)
}

// A TokenSource produces tokens one at a time. The Lexer is the
// canonical implementation; tests substitute scripted sources.
type TokenSource interface {
	// NextToken returns the next token. At the end of input it returns
	// an EOF token, and keeps returning it.
	NextToken() (*Token, error)

	// InputStream exposes the character stream tokens point into.
	InputStream() *CharStream
}

// A TokenFactory builds tokens; recognizers never construct them
// directly, so hosts can substitute richer types.
type TokenFactory interface {
	Create(source *TokenProvenance, kind int, channel, start, stop, line, col int) *Token
}

// CommonTokenFactory is the default TokenFactory.
type CommonTokenFactory struct{}

func (CommonTokenFactory) Create(source *TokenProvenance, kind int, channel, start, stop, line, col int) *Token {
	return &Token{
		Kind:    kind,
		Channel: channel,
		Start:   start,
		Stop:    stop,
		Line:    line,
		Col:     col,
		Index:   -1,
		Source:  source,
	}
}
