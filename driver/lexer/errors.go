package lexer

import (
	"fmt"

	"github.com/rmaru/tarn/atn"
)

// A NoViableAltError reports that no lexer rule matched at StartIndex.
// The facade recovers by consuming one code point and retrying; the
// error itself reaches the error listeners with the syntax error report.
type NoViableAltError struct {
	StartIndex  int
	Input       *CharStream
	DeadConfigs *atn.ConfigSet
}

func (e *NoViableAltError) Error() string {
	text := ""
	if e.Input != nil {
		text = e.Input.Text(e.StartIndex, e.StartIndex)
	}
	return fmt.Sprintf("no viable lexer alternative at input %#v", text)
}
