package atn

import "fmt"

// A Config is one point of a parallel ATN simulation: the state the
// automaton is in, the alternative it is trying to prove, a summary of
// the call stack that got it there, and the predicates it still owes.
// Lexer simulations additionally carry the actions recorded so far and
// whether the path crossed a non-greedy decision.
type Config struct {
	State    *State
	Alt      int
	Context  *PredictionContext
	SemCtx   *SemanticContext

	// ReachesIntoOuterContext counts how far closure escaped past the
	// seed context.
	ReachesIntoOuterContext int

	// PrecedenceFilterSuppressed protects a config that returned from a
	// precedence rule's outermost invocation; the precedence filter must
	// not drop it even when alt 1 covers its state.
	PrecedenceFilterSuppressed bool

	// Lexer configurations only.
	Executor                       *ActionExecutor
	PassedThroughNonGreedyDecision bool
}

func NewConfig(state *State, alt int, context *PredictionContext, semCtx *SemanticContext) *Config {
	if semCtx == nil {
		semCtx = SemanticContextNone
	}
	return &Config{
		State:   state,
		Alt:     alt,
		Context: context,
		SemCtx:  semCtx,
	}
}

// WithState derives a config that moved to state, keeping everything
// else.
func (c *Config) WithState(state *State) *Config {
	d := *c
	d.State = state
	d.PassedThroughNonGreedyDecision = c.PassedThroughNonGreedyDecision || checkNonGreedy(state)
	return &d
}

// WithContext derives a config whose stack summary is context.
func (c *Config) WithContext(state *State, context *PredictionContext) *Config {
	d := *c
	d.State = state
	d.Context = context
	d.PassedThroughNonGreedyDecision = c.PassedThroughNonGreedyDecision || checkNonGreedy(state)
	return &d
}

// WithSemCtx derives a config that owes semCtx.
func (c *Config) WithSemCtx(state *State, semCtx *SemanticContext) *Config {
	d := *c
	d.State = state
	d.SemCtx = semCtx
	d.PassedThroughNonGreedyDecision = c.PassedThroughNonGreedyDecision || checkNonGreedy(state)
	return &d
}

// WithExecutor derives a config carrying executor.
func (c *Config) WithExecutor(state *State, executor *ActionExecutor) *Config {
	d := *c
	d.State = state
	d.Executor = executor
	d.PassedThroughNonGreedyDecision = c.PassedThroughNonGreedyDecision || checkNonGreedy(state)
	return &d
}

func checkNonGreedy(state *State) bool {
	return state.IsDecision() && state.NonGreedy
}

// Hash covers the full identity: state, alt, context, semantic context,
// and the lexer extras. The outer-context counter is excluded so configs
// differing only in escape depth collide and merge.
func (c *Config) Hash() int {
	h := int(c.State.Num)
	h = h*31 + c.Alt
	if c.Context != nil {
		h = h*31 + c.Context.Hash()
	}
	h = h*31 + c.SemCtx.Hash()
	h = h*31 + c.Executor.Hash()
	if c.PassedThroughNonGreedyDecision {
		h = h*31 + 1
	}
	return h
}

func (c *Config) Equal(other *Config) bool {
	if c == other {
		return true
	}
	if other == nil ||
		c.State.Num != other.State.Num ||
		c.Alt != other.Alt ||
		c.PassedThroughNonGreedyDecision != other.PassedThroughNonGreedyDecision ||
		!c.SemCtx.Equal(other.SemCtx) ||
		!c.Executor.Equal(other.Executor) {
		return false
	}
	if c.Context == nil || other.Context == nil {
		return c.Context == other.Context
	}
	return c.Context.Equal(other.Context)
}

func (c *Config) String() string {
	s := fmt.Sprintf("(%v,%v,[%v]", c.State.Num, c.Alt, c.Context)
	if c.SemCtx != SemanticContextNone {
		s += fmt.Sprintf(",%v", c.SemCtx)
	}
	if c.ReachesIntoOuterContext > 0 {
		s += fmt.Sprintf(",up=%v", c.ReachesIntoOuterContext)
	}
	return s + ")"
}

// ConfigHasher keys configs by full identity; closure-busy sets use it.
type ConfigHasher struct{}

func (ConfigHasher) Hash(c *Config) int      { return c.Hash() }
func (ConfigHasher) Equal(a, b *Config) bool { return a.Equal(b) }

// ConfigAddHasher keys configs the way config-set insertion dedups them:
// state, alt, and semantic context, but not the stack. Two configs equal
// under this key have their contexts merged instead of coexisting.
type ConfigAddHasher struct{}

func (ConfigAddHasher) Hash(c *Config) int {
	h := int(c.State.Num)
	h = h*31 + c.Alt
	h = h*31 + c.SemCtx.Hash()
	h = h*31 + c.Executor.Hash()
	if c.PassedThroughNonGreedyDecision {
		h = h*31 + 1
	}
	return h
}

func (ConfigAddHasher) Equal(a, b *Config) bool {
	if a == b {
		return true
	}
	return a.State.Num == b.State.Num &&
		a.Alt == b.Alt &&
		a.SemCtx.Equal(b.SemCtx) &&
		a.PassedThroughNonGreedyDecision == b.PassedThroughNonGreedyDecision &&
		a.Executor.Equal(b.Executor)
}
