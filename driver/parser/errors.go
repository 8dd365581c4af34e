package parser

import (
	"fmt"

	"github.com/rmaru/tarn/atn"
	"github.com/rmaru/tarn/driver/lexer"
	"github.com/rmaru/tarn/interval"
)

// A RecognitionError is the base of every recoverable parse failure.
// The error strategy inspects the concrete kind; listeners see the
// rendered message.
type RecognitionError struct {
	Recognizer     any
	OffendingToken *lexer.Token
	OffendingState atn.StateID
	Ctx            *ParserRuleContext
	Message        string
}

func (e *RecognitionError) Error() string {
	return e.Message
}

// NoViableAltError reports that prediction exhausted every alternative.
type NoViableAltError struct {
	RecognitionError

	// StartToken is where the failed decision began; OffendingToken is
	// where the simulation died.
	StartToken     *lexer.Token
	DeadEndConfigs *atn.ConfigSet
}

func (e *NoViableAltError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("no viable alternative at input %#v", e.OffendingToken.Lexeme())
}

func (e *NoViableAltError) Unwrap() error {
	return &e.RecognitionError
}

// InputMismatchError reports that the current token is outside the set
// a match operation expected.
type InputMismatchError struct {
	RecognitionError

	Expecting *interval.IntervalSet
}

func (e *InputMismatchError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("mismatched input %#v", e.OffendingToken.Lexeme())
}

func (e *InputMismatchError) Unwrap() error {
	return &e.RecognitionError
}

// FailedPredicateError reports a semantic or precedence predicate that
// evaluated false at a point that required it.
type FailedPredicateError struct {
	RecognitionError

	RuleIndex int
	PredIndex int
}

func (e *FailedPredicateError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("failed predicate %v:%v", e.RuleIndex, e.PredIndex)
}

func (e *FailedPredicateError) Unwrap() error {
	return &e.RecognitionError
}
