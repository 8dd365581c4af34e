package lexer

import (
	"fmt"
	"io"

	"github.com/rmaru/tarn/atn"
)

// A CharStream is a random-access stream of code points with LIFO
// mark/release bookkeeping. The whole source is decoded up front, so
// marks carry no buffering cost; they still enforce the balance
// discipline simulators rely on.
type CharStream struct {
	name  string
	data  []rune
	index int

	markDepth int
	lastMark  int
}

// NewCharStream reads src to exhaustion and decodes it as UTF-8.
func NewCharStream(name string, src io.Reader) (*CharStream, error) {
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	return NewCharStreamString(name, string(b)), nil
}

func NewCharStreamString(name, src string) *CharStream {
	return &CharStream{
		name: name,
		data: []rune(src),
	}
}

func (s *CharStream) Name() string {
	return s.name
}

func (s *CharStream) Index() int {
	return s.index
}

func (s *CharStream) Size() int {
	return len(s.data)
}

// Consume advances past the current code point. Consuming at EOF is an
// invariant violation.
func (s *CharStream) Consume() {
	if s.index >= len(s.data) {
		panic("lexer: consume past EOF")
	}
	s.index++
}

// LA returns the code point k positions ahead of the cursor; LA(1) is
// the current one. Negative k looks backward; LA(-1) is the last
// consumed code point. Out-of-range lookahead yields EOF on the right
// and is an invariant violation on the left. LA(0) is undefined and
// returns the invalid type.
func (s *CharStream) LA(k int) int {
	if k == 0 {
		return atn.TokenInvalidType
	}
	i := s.index + k
	if k > 0 {
		i--
	}
	if i < 0 {
		panic(fmt.Sprintf("lexer: lookahead %v reaches before the start of the stream", k))
	}
	if i >= len(s.data) {
		return atn.TokenEOF
	}
	return int(s.data[i])
}

// Mark opens a lookahead region and returns its marker. Marks nest;
// each must be released in reverse order of acquisition.
func (s *CharStream) Mark() int {
	s.markDepth++
	s.lastMark = s.markDepth
	return s.markDepth
}

// Release closes the region opened by marker. Releasing out of order is
// an invariant violation.
func (s *CharStream) Release(marker int) {
	if marker != s.markDepth {
		panic(fmt.Sprintf("lexer: release of marker %v, but the innermost mark is %v", marker, s.markDepth))
	}
	s.markDepth--
}

// Seek moves the cursor. Seeking past the end clamps to EOF.
func (s *CharStream) Seek(index int) {
	if index < 0 {
		panic(fmt.Sprintf("lexer: seek to negative index %v", index))
	}
	if index > len(s.data) {
		index = len(s.data)
	}
	s.index = index
}

// Text returns the code points in [start, stop], both inclusive,
// clamped to the stream.
func (s *CharStream) Text(start, stop int) string {
	if start < 0 {
		start = 0
	}
	if stop >= len(s.data) {
		stop = len(s.data) - 1
	}
	if stop < start {
		return ""
	}
	return string(s.data[start : stop+1])
}
