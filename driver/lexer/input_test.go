package lexer

import (
	"testing"

	"github.com/rmaru/tarn/atn"
)

func TestCharStream_Lookahead(t *testing.T) {
	s := NewCharStreamString("test", "abc")
	if got := s.LA(1); got != 'a' {
		t.Fatalf("unexpected LA(1); want: 'a', got: %q", got)
	}
	if got := s.LA(3); got != 'c' {
		t.Fatalf("unexpected LA(3); want: 'c', got: %q", got)
	}
	if got := s.LA(4); got != atn.TokenEOF {
		t.Fatalf("lookahead past the end must be EOF; got: %v", got)
	}
	s.Consume()
	if got := s.LA(-1); got != 'a' {
		t.Fatalf("LA(-1) must be the last consumed code point; got: %q", got)
	}
	if got := s.LA(0); got != atn.TokenInvalidType {
		t.Fatalf("LA(0) is undefined and must read as invalid; got: %v", got)
	}
}

func TestCharStream_MarkReleaseBalance(t *testing.T) {
	s := NewCharStreamString("test", "abcdef")
	s.Consume()
	before := s.Index()

	m1 := s.Mark()
	s.Consume()
	m2 := s.Mark()
	s.Consume()
	s.Release(m2)
	s.Release(m1)
	s.Seek(before)

	if got := s.Index(); got != before {
		t.Fatalf("a balanced mark/seek sequence must restore the index; want: %v, got: %v", before, got)
	}
}

func TestCharStream_ReleaseOutOfOrder(t *testing.T) {
	s := NewCharStreamString("test", "ab")
	m1 := s.Mark()
	s.Mark()
	defer func() {
		if recover() == nil {
			t.Fatalf("releasing a non-innermost marker must panic")
		}
	}()
	s.Release(m1)
}

func TestCharStream_SeekClampsAndText(t *testing.T) {
	s := NewCharStreamString("test", "hello")
	s.Seek(100)
	if got := s.Index(); got != 5 {
		t.Fatalf("seeking past the end must clamp to EOF; got: %v", got)
	}
	if got := s.LA(1); got != atn.TokenEOF {
		t.Fatalf("the clamped position must read EOF; got: %v", got)
	}
	if got := s.Text(1, 3); got != "ell" {
		t.Fatalf("unexpected text; want: \"ell\", got: %#v", got)
	}
	if got := s.Text(3, 100); got != "lo" {
		t.Fatalf("text must clamp to the stream; got: %#v", got)
	}
}

func TestCharStream_ConsumePastEOF(t *testing.T) {
	s := NewCharStreamString("test", "")
	defer func() {
		if recover() == nil {
			t.Fatalf("consuming at EOF must panic")
		}
	}()
	s.Consume()
}
