package atn

import "fmt"

// LexerActionKind discriminates lexer-action variants. The values match
// the serialized action codes emitted by the offline tool.
type LexerActionKind int

const (
	LexerActionKindChannel LexerActionKind = iota
	LexerActionKindCustom
	LexerActionKindMode
	LexerActionKindMore
	LexerActionKindPopMode
	LexerActionKindPushMode
	LexerActionKindSkip
	LexerActionKindType
)

var lexerActionKindName = map[LexerActionKind]string{
	LexerActionKindChannel:  "channel",
	LexerActionKindCustom:   "custom",
	LexerActionKindMode:     "mode",
	LexerActionKindMore:     "more",
	LexerActionKindPopMode:  "popMode",
	LexerActionKindPushMode: "pushMode",
	LexerActionKindSkip:     "skip",
	LexerActionKindType:     "type",
}

func (k LexerActionKind) String() string {
	if n, ok := lexerActionKindName[k]; ok {
		return n
	}
	return fmt.Sprintf("unknown (%v)", int(k))
}

// A LexerAction is one command attached to a lexer rule. Channel, mode,
// push-mode, and type actions carry their argument in Arg; custom
// actions carry (rule index, action index) in Arg and Arg2.
type LexerAction struct {
	Kind LexerActionKind
	Arg  int
	Arg2 int

	// Indexed actions were displaced from the accept position; Offset is
	// the input index they must execute at on replay.
	Indexed bool
	Offset  int
}

// PositionDependent reports whether the action's effect depends on the
// input index at which it runs. Such actions must be replayed at their
// recorded offset.
func (a *LexerAction) PositionDependent() bool {
	return a.Kind == LexerActionKindCustom || a.Indexed
}

func (a *LexerAction) Hash() int {
	h := int(a.Kind) + 1
	h = h*31 + a.Arg
	h = h*31 + a.Arg2
	if a.Indexed {
		h = h*31 + a.Offset + 1
	}
	return h
}

func (a *LexerAction) Equal(b *LexerAction) bool {
	return a.Kind == b.Kind && a.Arg == b.Arg && a.Arg2 == b.Arg2 &&
		a.Indexed == b.Indexed && a.Offset == b.Offset
}

func (a *LexerAction) String() string {
	switch a.Kind {
	case LexerActionKindChannel, LexerActionKindMode, LexerActionKindPushMode, LexerActionKindType:
		return fmt.Sprintf("%v(%v)", a.Kind, a.Arg)
	case LexerActionKindCustom:
		return fmt.Sprintf("custom(%v, %v)", a.Arg, a.Arg2)
	}
	return a.Kind.String()
}

// A LexerActionReceiver is the mutable lexer surface actions operate on.
// driver/lexer's Lexer implements it.
type LexerActionReceiver interface {
	Skip()
	More()
	SetType(tokenType int)
	SetChannel(channel int)
	SetMode(mode int)
	PushMode(mode int)
	PopMode()
	Action(localCtx RuleInvocation, ruleIndex, actionIndex int)
}

// An InputSeeker is the slice of the character stream the executor needs
// to replay position-dependent actions.
type InputSeeker interface {
	Index() int
	Seek(index int)
}

// An ActionExecutor is an immutable, deduplicable sequence of lexer
// actions recorded on an accept configuration.
type ActionExecutor struct {
	actions    []*LexerAction
	cachedHash int
}

func NewActionExecutor(actions ...*LexerAction) *ActionExecutor {
	h := 1
	for _, a := range actions {
		h = h*31 + a.Hash()
	}
	return &ActionExecutor{
		actions:    actions,
		cachedHash: h,
	}
}

// AppendExecutor extends e with the actions of f. Either may be nil.
func AppendExecutor(e, f *ActionExecutor) *ActionExecutor {
	if e == nil {
		return f
	}
	if f == nil {
		return e
	}
	actions := make([]*LexerAction, 0, len(e.actions)+len(f.actions))
	actions = append(actions, e.actions...)
	actions = append(actions, f.actions...)
	return NewActionExecutor(actions...)
}

func (e *ActionExecutor) Actions() []*LexerAction {
	return e.actions
}

func (e *ActionExecutor) Hash() int {
	if e == nil {
		return 0
	}
	return e.cachedHash
}

func (e *ActionExecutor) Equal(other *ActionExecutor) bool {
	if e == other {
		return true
	}
	if e == nil || other == nil || e.cachedHash != other.cachedHash || len(e.actions) != len(other.actions) {
		return false
	}
	for i, a := range e.actions {
		if !a.Equal(other.actions[i]) {
			return false
		}
	}
	return true
}

// FixOffsetBeforeMatch pins every position-dependent action to offset.
// The simulator calls it when a config with actions survives past the
// position it was created at, so replay can seek back before executing.
func (e *ActionExecutor) FixOffsetBeforeMatch(offset int) *ActionExecutor {
	var updated []*LexerAction
	for i, a := range e.actions {
		if a.PositionDependent() && !a.Indexed {
			if updated == nil {
				updated = make([]*LexerAction, len(e.actions))
				copy(updated, e.actions)
			}
			updated[i] = &LexerAction{
				Kind:    a.Kind,
				Arg:     a.Arg,
				Arg2:    a.Arg2,
				Indexed: true,
				Offset:  offset,
			}
		}
	}
	if updated == nil {
		return e
	}
	return NewActionExecutor(updated...)
}

// Execute replays the recorded actions against the lexer. startIndex is
// the first character of the matched token; indexed actions seek to
// startIndex+Offset before running. The input is restored to its entry
// position afterward.
func (e *ActionExecutor) Execute(lexer LexerActionReceiver, localCtx RuleInvocation, input InputSeeker, startIndex int) {
	requiresSeek := false
	stop := input.Index()
	defer func() {
		if requiresSeek {
			input.Seek(stop)
		}
	}()

	for _, a := range e.actions {
		if a.Indexed {
			offset := startIndex + a.Offset
			input.Seek(offset)
			requiresSeek = offset != stop
		} else if a.PositionDependent() {
			input.Seek(stop)
			requiresSeek = false
		}
		execute(a, lexer, localCtx)
	}
}

func execute(a *LexerAction, lexer LexerActionReceiver, localCtx RuleInvocation) {
	switch a.Kind {
	case LexerActionKindChannel:
		lexer.SetChannel(a.Arg)
	case LexerActionKindCustom:
		lexer.Action(localCtx, a.Arg, a.Arg2)
	case LexerActionKindMode:
		lexer.SetMode(a.Arg)
	case LexerActionKindMore:
		lexer.More()
	case LexerActionKindPopMode:
		lexer.PopMode()
	case LexerActionKindPushMode:
		lexer.PushMode(a.Arg)
	case LexerActionKindSkip:
		lexer.Skip()
	case LexerActionKindType:
		lexer.SetType(a.Arg)
	}
}
