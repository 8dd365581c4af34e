package dfa

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rmaru/tarn/atn"
	"github.com/rmaru/tarn/container"
)

// PredictionInvalid marks a DFA state that has not resolved to an
// alternative.
const PredictionInvalid = 0

// An AltPredicate pairs an alternative with the semantic context that
// must hold for a predicated accept state to choose it.
type AltPredicate struct {
	Alt    int
	SemCtx *atn.SemanticContext
}

// A State is one node of a decision DFA. Configs is frozen before the
// state is published; afterwards the only mutations are edge appends and
// the non-accept to accept promotion, both performed under the owning
// DFA's writer lock.
type State struct {
	Num     int
	Configs *atn.ConfigSet

	// Edges is indexed by symbol+1 so index 0 can hold the EOF edge.
	Edges []*State

	IsAccept   bool
	Prediction int

	// RequiresFullContext marks an SLL state whose conflict cannot be
	// resolved without the true outer context.
	RequiresFullContext bool

	// Predicates, when non-nil, supersedes Prediction: the parser
	// evaluates the entries in alt order and takes the first that holds.
	Predicates []*AltPredicate

	// Lexer DFAs only.
	Executor *atn.ActionExecutor
}

func NewState(configs *atn.ConfigSet) *State {
	return &State{
		Num:        -1,
		Configs:    configs,
		Prediction: PredictionInvalid,
	}
}

// Edge returns the target for symbol t, or nil when none was installed.
// t is in [-1, maxSymbol]; -1 is EOF.
func (s *State) Edge(t int) *State {
	i := t + 1
	if i < 0 || i >= len(s.Edges) {
		return nil
	}
	return s.Edges[i]
}

func (s *State) String() string {
	acc := ""
	if s.IsAccept {
		if s.Predicates != nil {
			acc = fmt.Sprintf("=>%v", s.Predicates)
		} else {
			acc = fmt.Sprintf("=>%v", s.Prediction)
		}
	}
	return fmt.Sprintf("s%v%v", s.Num, acc)
}

// A DFA memoizes the predictions of one decision. States are interned by
// structural config-set equality and accumulate monotonically; the cache
// is shared by every recognizer built from the same ATN. Mutation is
// single-writer through the DFA's lock; readers tolerate a stale view
// because any published state is valid.
type DFA struct {
	// AtnStart is the decision state this DFA caches; Decision is its
	// index in the ATN's decision table.
	AtnStart *atn.State
	Decision int

	mu     sync.Mutex
	states *container.HashMap[*atn.ConfigSet, *State]
	all    []*State

	// S0 is the SLL start state; S0Full the LL one.
	S0     *State
	S0Full *State

	// Precedence DFAs (left-recursive rule decisions) key their start
	// state by the parser's current precedence instead of using S0.
	precedence       bool
	precedenceStarts map[int]*State
}

func NewDFA(atnStart *atn.State, decision int) *DFA {
	d := &DFA{
		AtnStart: atnStart,
		Decision: decision,
		states:   container.NewHashMap[*atn.ConfigSet, *State](atn.ConfigSetHasher{}),
	}
	if atnStart != nil && atnStart.Kind == atn.StateKindStarLoopEntry && atnStart.PrecedenceRuleDecision {
		d.precedence = true
		d.precedenceStarts = map[int]*State{}
	}
	return d
}

// IsPrecedenceDFA reports whether start states are keyed by precedence.
func (d *DFA) IsPrecedenceDFA() bool {
	return d.precedence
}

// PrecedenceStartState returns the start state for precedence, or nil.
func (d *DFA) PrecedenceStartState(precedence int, fullCtx bool) *State {
	if !d.precedence {
		panic("dfa: precedence start state requested from an ordinary DFA")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.precedenceStarts[startKey(precedence, fullCtx)]
}

// SetPrecedenceStartState publishes the start state for precedence.
func (d *DFA) SetPrecedenceStartState(precedence int, fullCtx bool, s *State) {
	if !d.precedence {
		panic("dfa: precedence start state installed on an ordinary DFA")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.precedenceStarts[startKey(precedence, fullCtx)] = s
}

func startKey(precedence int, fullCtx bool) int {
	if fullCtx {
		return -precedence - 1
	}
	return precedence
}

// AddState interns s by its config set. The returned state is the
// canonical one; it equals s when s was fresh.
func (d *DFA) AddState(s *State) *State {
	d.mu.Lock()
	defer d.mu.Unlock()
	existing, ok := d.states.GetOrPut(s.Configs, s)
	if ok {
		return existing
	}
	s.Num = len(d.all)
	d.all = append(d.all, s)
	return s
}

// SetEdge installs an edge from p on symbol t to q. t may be -1 (EOF).
func (d *DFA) SetEdge(p *State, t int, q *State) {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := t + 1
	for len(p.Edges) <= i {
		p.Edges = append(p.Edges, nil)
	}
	p.Edges[i] = q
}

func (d *DFA) NumStates() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.states.Len()
}

// States returns the interned states ordered by state number.
func (d *DFA) States() []*State {
	d.mu.Lock()
	defer d.mu.Unlock()
	ss := make([]*State, len(d.all))
	copy(ss, d.all)
	sort.Slice(ss, func(i, j int) bool { return ss[i].Num < ss[j].Num })
	return ss
}
