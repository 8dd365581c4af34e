package parser

import (
	"fmt"

	"github.com/rmaru/tarn/atn"
	"github.com/rmaru/tarn/driver/lexer"
)

// A TokenStream is the parser's view of its input: random access over
// the tokens of one channel, with the same mark/release discipline as a
// character stream.
type TokenStream interface {
	// Get returns the token at an absolute index. Streams without full
	// buffering reject indices that slid out of their window.
	Get(i int) (*lexer.Token, error)

	// LT returns the token k positions ahead; LT(1) is the current
	// token and LT(-1) the last consumed one.
	LT(k int) (*lexer.Token, error)

	// LA returns the kind of LT(k).
	LA(k int) (int, error)

	// Consume advances past the current token. Consuming EOF is an
	// invariant violation.
	Consume() error

	Mark() int
	Release(marker int)

	// Seek repositions the stream at an absolute index.
	Seek(index int) error

	Index() int

	// Size returns the total token count; unbuffered streams reject it.
	Size() (int, error)

	// Source exposes the producing token source.
	Source() lexer.TokenSource
}

// A CommonTokenStream buffers every token from its source and exposes
// the ones on one channel; the rest stay addressable by absolute index
// but are skipped by LT/LA/Consume.
type CommonTokenStream struct {
	source  lexer.TokenSource
	channel int

	tokens  []*lexer.Token
	index   int
	fetched bool

	markDepth int
}

func NewCommonTokenStream(source lexer.TokenSource, channel int) *CommonTokenStream {
	return &CommonTokenStream{
		source:  source,
		channel: channel,
		index:   -1,
	}
}

func (s *CommonTokenStream) Source() lexer.TokenSource {
	return s.source
}

// lazyInit positions the stream at the first on-channel token.
func (s *CommonTokenStream) lazyInit() error {
	if s.index >= 0 {
		return nil
	}
	if err := s.sync(0); err != nil {
		return err
	}
	i, err := s.nextOnChannel(0)
	if err != nil {
		return err
	}
	s.index = i
	return nil
}

// sync buffers tokens until index i exists or EOF was fetched.
func (s *CommonTokenStream) sync(i int) error {
	for !s.fetched && i >= len(s.tokens) {
		t, err := s.source.NextToken()
		if err != nil {
			return err
		}
		t.Index = len(s.tokens)
		s.tokens = append(s.tokens, t)
		if t.EOF() {
			s.fetched = true
		}
	}
	return nil
}

// Fill buffers the whole source.
func (s *CommonTokenStream) Fill() error {
	if err := s.lazyInit(); err != nil {
		return err
	}
	for !s.fetched {
		if err := s.sync(len(s.tokens)); err != nil {
			return err
		}
	}
	return nil
}

func (s *CommonTokenStream) Get(i int) (*lexer.Token, error) {
	if err := s.sync(i); err != nil {
		return nil, err
	}
	if i < 0 || i >= len(s.tokens) {
		return nil, fmt.Errorf("token index %v out of range 0..%v", i, len(s.tokens)-1)
	}
	return s.tokens[i], nil
}

func (s *CommonTokenStream) nextOnChannel(i int) (int, error) {
	for {
		if err := s.sync(i); err != nil {
			return 0, err
		}
		if i >= len(s.tokens) {
			return len(s.tokens) - 1, nil
		}
		t := s.tokens[i]
		if t.EOF() || t.Channel == s.channel {
			return i, nil
		}
		i++
	}
}

func (s *CommonTokenStream) prevOnChannel(i int) int {
	for i >= 0 && s.tokens[i].Channel != s.channel {
		i--
	}
	return i
}

func (s *CommonTokenStream) LT(k int) (*lexer.Token, error) {
	if err := s.lazyInit(); err != nil {
		return nil, err
	}
	if k == 0 {
		return nil, fmt.Errorf("LT(0) is undefined")
	}
	if k < 0 {
		i := s.index
		for n := 0; n > k; n-- {
			i = s.prevOnChannel(i - 1)
		}
		if i < 0 {
			return nil, nil
		}
		return s.tokens[i], nil
	}
	i := s.index
	for n := 1; n < k; n++ {
		next, err := s.nextOnChannel(i + 1)
		if err != nil {
			return nil, err
		}
		i = next
	}
	return s.tokens[i], nil
}

func (s *CommonTokenStream) LA(k int) (int, error) {
	t, err := s.LT(k)
	if err != nil {
		return 0, err
	}
	if t == nil {
		return atn.TokenInvalidType, nil
	}
	return t.Kind, nil
}

func (s *CommonTokenStream) Consume() error {
	if err := s.lazyInit(); err != nil {
		return err
	}
	cur, err := s.LT(1)
	if err != nil {
		return err
	}
	if cur.EOF() {
		panic("parser: consume past EOF")
	}
	next, err := s.nextOnChannel(s.index + 1)
	if err != nil {
		return err
	}
	s.index = next
	return nil
}

func (s *CommonTokenStream) Mark() int {
	s.markDepth++
	return s.markDepth
}

func (s *CommonTokenStream) Release(marker int) {
	if marker != s.markDepth {
		panic(fmt.Sprintf("parser: release of marker %v, but the innermost mark is %v", marker, s.markDepth))
	}
	s.markDepth--
}

func (s *CommonTokenStream) Seek(index int) error {
	if err := s.lazyInit(); err != nil {
		return err
	}
	if err := s.sync(index); err != nil {
		return err
	}
	if index >= len(s.tokens) {
		index = len(s.tokens) - 1
	}
	if index < 0 {
		index = 0
	}
	s.index = index
	return nil
}

func (s *CommonTokenStream) Index() int {
	return s.index
}

func (s *CommonTokenStream) Size() (int, error) {
	if err := s.Fill(); err != nil {
		return 0, err
	}
	return len(s.tokens), nil
}

// Text renders the lexemes of every token in [start, stop], off-channel
// ones included, stopping at EOF.
func (s *CommonTokenStream) Text(start, stop int) (string, error) {
	if err := s.Fill(); err != nil {
		return "", err
	}
	if stop >= len(s.tokens) {
		stop = len(s.tokens) - 1
	}
	text := ""
	for i := start; i >= 0 && i <= stop; i++ {
		t := s.tokens[i]
		if t.EOF() {
			break
		}
		text += t.Lexeme()
	}
	return text, nil
}

// An UnbufferedTokenStream keeps only a sliding window over its source:
// everything at or after the earliest open mark, plus the current
// lookahead. It supports the streams contract except Size, which has no
// answer before EOF.
type UnbufferedTokenStream struct {
	source lexer.TokenSource

	// tokens holds the window; bufferStart is the absolute index of
	// tokens[0].
	tokens      []*lexer.Token
	bufferStart int

	// index is the absolute index of the current token.
	index int

	markDepth int
	nextAbs   int
}

func NewUnbufferedTokenStream(source lexer.TokenSource) (*UnbufferedTokenStream, error) {
	s := &UnbufferedTokenStream{source: source}
	// Prime one token of lookahead.
	if err := s.fetch(1); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *UnbufferedTokenStream) Source() lexer.TokenSource {
	return s.source
}

func (s *UnbufferedTokenStream) fetch(n int) error {
	for i := 0; i < n; i++ {
		if len(s.tokens) > 0 && s.tokens[len(s.tokens)-1].EOF() {
			return nil
		}
		t, err := s.source.NextToken()
		if err != nil {
			return err
		}
		t.Index = s.nextAbs
		s.nextAbs++
		s.tokens = append(s.tokens, t)
	}
	return nil
}

// syncAhead guarantees want tokens of lookahead from the current index.
func (s *UnbufferedTokenStream) syncAhead(want int) error {
	need := (s.index - s.bufferStart + want) - len(s.tokens) + 1
	if need > 0 {
		return s.fetch(need)
	}
	return nil
}

func (s *UnbufferedTokenStream) Get(i int) (*lexer.Token, error) {
	if i < s.bufferStart || i >= s.bufferStart+len(s.tokens) {
		return nil, fmt.Errorf("token index %v is outside the live window %v..%v", i, s.bufferStart, s.bufferStart+len(s.tokens)-1)
	}
	return s.tokens[i-s.bufferStart], nil
}

func (s *UnbufferedTokenStream) LT(k int) (*lexer.Token, error) {
	if k == 0 {
		return nil, fmt.Errorf("LT(0) is undefined")
	}
	if k < 0 {
		i := s.index + k
		if i < s.bufferStart {
			return nil, fmt.Errorf("LT(%v) reaches before the live window", k)
		}
		if i < s.bufferStart+len(s.tokens) {
			return s.tokens[i-s.bufferStart], nil
		}
		return nil, nil
	}
	if err := s.syncAhead(k - 1); err != nil {
		return nil, err
	}
	i := s.index - s.bufferStart + k - 1
	if i >= len(s.tokens) {
		// Lookahead past EOF pins to the EOF token.
		return s.tokens[len(s.tokens)-1], nil
	}
	return s.tokens[i], nil
}

func (s *UnbufferedTokenStream) LA(k int) (int, error) {
	t, err := s.LT(k)
	if err != nil {
		return 0, err
	}
	if t == nil {
		return atn.TokenInvalidType, nil
	}
	return t.Kind, nil
}

func (s *UnbufferedTokenStream) Consume() error {
	cur, err := s.LT(1)
	if err != nil {
		return err
	}
	if cur.EOF() {
		panic("parser: consume past EOF")
	}
	s.index++
	if err := s.syncAhead(0); err != nil {
		return err
	}
	// With no open mark the consumed prefix is garbage.
	if s.markDepth == 0 {
		drop := s.index - s.bufferStart
		if drop > 0 {
			s.tokens = append([]*lexer.Token{}, s.tokens[drop:]...)
			s.bufferStart = s.index
		}
	}
	return nil
}

func (s *UnbufferedTokenStream) Mark() int {
	s.markDepth++
	return s.markDepth
}

func (s *UnbufferedTokenStream) Release(marker int) {
	if marker != s.markDepth {
		panic(fmt.Sprintf("parser: release of marker %v, but the innermost mark is %v", marker, s.markDepth))
	}
	s.markDepth--
}

// Seek repositions within the live window; seeking beyond the buffered
// end clamps silently to the last buffered token.
func (s *UnbufferedTokenStream) Seek(index int) error {
	if index < s.bufferStart {
		return fmt.Errorf("seek to %v is before the live window at %v", index, s.bufferStart)
	}
	if index > s.index {
		if err := s.syncAhead(index - s.index); err != nil {
			return err
		}
	}
	if max := s.bufferStart + len(s.tokens) - 1; index > max {
		index = max
	}
	s.index = index
	return nil
}

func (s *UnbufferedTokenStream) Index() int {
	return s.index
}

// Size is unanswerable for a stream that has not seen its end.
func (s *UnbufferedTokenStream) Size() (int, error) {
	return 0, fmt.Errorf("an unbuffered token stream cannot know its size")
}
