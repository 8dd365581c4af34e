package atn

import (
	"fmt"
	"strings"

	"github.com/rmaru/tarn/container"
)

// EmptyReturnState marks the root of a context chain: the invoking rule
// is the outer world, so there is nothing to pop.
const EmptyReturnState = 0x7FFFFFFF

// A PredictionContext summarizes the parser call stacks a configuration
// may have been reached through. It is a DAG node: a singleton holds one
// (parent, return state) pair; an array holds several, sorted by return
// state. Contexts are immutable and freely shared; their hash is
// computed once at construction.
type PredictionContext struct {
	parents      []*PredictionContext
	returnStates []int
	cachedHash   int
}

// EmptyContext is the shared root context.
var EmptyContext = newContext(
	[]*PredictionContext{nil},
	[]int{EmptyReturnState},
)

func newContext(parents []*PredictionContext, returnStates []int) *PredictionContext {
	h := 1
	for _, p := range parents {
		if p != nil {
			h = h*31 + p.cachedHash
		} else {
			h = h * 31
		}
	}
	for _, r := range returnStates {
		h = h*31 + r
	}
	return &PredictionContext{
		parents:      parents,
		returnStates: returnStates,
		cachedHash:   h,
	}
}

// NewSingletonContext builds a one-frame context. The canonical
// EmptyContext is returned for the (nil, EmptyReturnState) pair so the
// root stays pointer-unique.
func NewSingletonContext(parent *PredictionContext, returnState int) *PredictionContext {
	if returnState == EmptyReturnState && parent == nil {
		return EmptyContext
	}
	return newContext([]*PredictionContext{parent}, []int{returnState})
}

// NewArrayContext builds a context from pre-sorted parallel slices. The
// caller must keep returnStates sorted ascending.
func NewArrayContext(parents []*PredictionContext, returnStates []int) *PredictionContext {
	if len(returnStates) == 1 {
		return NewSingletonContext(parents[0], returnStates[0])
	}
	return newContext(parents, returnStates)
}

func (c *PredictionContext) Length() int {
	return len(c.returnStates)
}

func (c *PredictionContext) Parent(i int) *PredictionContext {
	return c.parents[i]
}

func (c *PredictionContext) ReturnState(i int) int {
	return c.returnStates[i]
}

// IsEmpty reports whether the context is the root: its only return state
// is the sentinel.
func (c *PredictionContext) IsEmpty() bool {
	return len(c.returnStates) == 1 && c.returnStates[0] == EmptyReturnState
}

// HasEmptyPath reports whether some path through the context reaches the
// root. The sentinel always sorts last.
func (c *PredictionContext) HasEmptyPath() bool {
	return c.returnStates[len(c.returnStates)-1] == EmptyReturnState
}

func (c *PredictionContext) isSingleton() bool {
	return len(c.returnStates) == 1
}

func (c *PredictionContext) Hash() int {
	return c.cachedHash
}

func (c *PredictionContext) Equal(other *PredictionContext) bool {
	if c == other {
		return true
	}
	if other == nil || c.cachedHash != other.cachedHash || len(c.returnStates) != len(other.returnStates) {
		return false
	}
	for i, r := range c.returnStates {
		if r != other.returnStates[i] {
			return false
		}
	}
	for i, p := range c.parents {
		q := other.parents[i]
		if p == nil || q == nil {
			if p != q {
				return false
			}
			continue
		}
		if !p.Equal(q) {
			return false
		}
	}
	return true
}

func (c *PredictionContext) String() string {
	if c.IsEmpty() {
		return "$"
	}
	var b strings.Builder
	b.WriteString("[")
	for i, r := range c.returnStates {
		if i > 0 {
			b.WriteString(", ")
		}
		if r == EmptyReturnState {
			b.WriteString("$")
			continue
		}
		fmt.Fprintf(&b, "%v", r)
		if c.parents[i] != nil && !c.parents[i].IsEmpty() {
			fmt.Fprintf(&b, " %v", c.parents[i])
		}
	}
	b.WriteString("]")
	return b.String()
}

// A RuleInvocation is the view of a parse-time rule context chain the
// context builder needs. driver/parser's rule contexts implement it.
type RuleInvocation interface {
	ParentInvocation() RuleInvocation
	InvokingState() StateID
	IsEmptyInvocation() bool
}

// FromRuleInvocation converts a live parser context chain into a
// prediction context. Each frame contributes the follow state of its
// invoking rule transition; the chain root contributes EmptyContext.
func FromRuleInvocation(a *ATN, ctx RuleInvocation) *PredictionContext {
	if ctx == nil || ctx.IsEmptyInvocation() || ctx.InvokingState() == StateIDInvalid {
		return EmptyContext
	}
	parent := FromRuleInvocation(a, ctx.ParentInvocation())
	invoking := a.State(ctx.InvokingState())
	rt := invoking.Transitions[0]
	return NewSingletonContext(parent, int(rt.FollowState))
}

// A MergeCache memoizes Merge results within one closure computation so
// repeated deep merges stay cheap and share structure.
type MergeCache struct {
	m map[[2]*PredictionContext]*PredictionContext
}

func NewMergeCache() *MergeCache {
	return &MergeCache{m: map[[2]*PredictionContext]*PredictionContext{}}
}

func (c *MergeCache) get(a, b *PredictionContext) (*PredictionContext, bool) {
	if c == nil {
		return nil, false
	}
	r, ok := c.m[[2]*PredictionContext{a, b}]
	return r, ok
}

func (c *MergeCache) put(a, b, r *PredictionContext) {
	if c == nil {
		return
	}
	c.m[[2]*PredictionContext{a, b}] = r
}

// Merge combines two contexts under set semantics over their
// root-to-leaf paths. rootIsWildcard selects the local-context rule:
// merging anything with the root yields the root. cache may be nil.
func Merge(a, b *PredictionContext, rootIsWildcard bool, cache *MergeCache) *PredictionContext {
	if a == b || a.Equal(b) {
		return a
	}

	if r, ok := cache.get(a, b); ok {
		return r
	}
	if r, ok := cache.get(b, a); ok {
		return r
	}

	var r *PredictionContext
	if a.isSingleton() && b.isSingleton() {
		r = mergeSingletons(a, b, rootIsWildcard, cache)
	} else {
		if root := mergeRoot(a, b, rootIsWildcard); root != nil {
			r = root
		} else {
			r = mergeArrays(a, b, rootIsWildcard, cache)
		}
	}
	cache.put(a, b, r)
	return r
}

// mergeRoot handles the cases where either operand is the root context.
// It returns nil when neither is.
func mergeRoot(a, b *PredictionContext, rootIsWildcard bool) *PredictionContext {
	if rootIsWildcard {
		// # + x = # for any x.
		if a == EmptyContext || b == EmptyContext {
			return EmptyContext
		}
		return nil
	}
	switch {
	case a == EmptyContext && b == EmptyContext:
		return EmptyContext
	case a == EmptyContext:
		return spliceEmptyRoot(b)
	case b == EmptyContext:
		return spliceEmptyRoot(a)
	}
	return nil
}

// spliceEmptyRoot appends the empty-path entry to a context, modeling
// "this stack or no stack at all" under full-context merging.
func spliceEmptyRoot(c *PredictionContext) *PredictionContext {
	parents := make([]*PredictionContext, c.Length()+1)
	returnStates := make([]int, c.Length()+1)
	copy(parents, c.parents)
	copy(returnStates, c.returnStates)
	returnStates[c.Length()] = EmptyReturnState
	return NewArrayContext(parents, returnStates)
}

func mergeSingletons(a, b *PredictionContext, rootIsWildcard bool, cache *MergeCache) *PredictionContext {
	if root := mergeRoot(a, b, rootIsWildcard); root != nil {
		return root
	}

	ra, rb := a.returnStates[0], b.returnStates[0]
	if ra == rb {
		// Same return state: merge the parents and collapse.
		pa, pb := a.parents[0], b.parents[0]
		if pa == pb || (pa != nil && pb != nil && pa.Equal(pb)) {
			return a
		}
		var parent *PredictionContext
		if pa == nil || pb == nil {
			// A nil parent means the frame above is unknown; the merge
			// keeps the known one.
			parent = pa
			if parent == nil {
				parent = pb
			}
		} else {
			parent = Merge(pa, pb, rootIsWildcard, cache)
		}
		return NewSingletonContext(parent, ra)
	}

	// Different return states: interleave in sorted order.
	if ra < rb {
		return newContext(
			[]*PredictionContext{a.parents[0], b.parents[0]},
			[]int{ra, rb},
		)
	}
	return newContext(
		[]*PredictionContext{b.parents[0], a.parents[0]},
		[]int{rb, ra},
	)
}

func mergeArrays(a, b *PredictionContext, rootIsWildcard bool, cache *MergeCache) *PredictionContext {
	i, j, k := 0, 0, 0
	parents := make([]*PredictionContext, a.Length()+b.Length())
	returnStates := make([]int, a.Length()+b.Length())

	for i < a.Length() && j < b.Length() {
		ra, rb := a.returnStates[i], b.returnStates[j]
		switch {
		case ra == rb:
			pa, pb := a.parents[i], b.parents[j]
			if pa == pb || (pa != nil && pb != nil && pa.Equal(pb)) {
				parents[k] = pa
			} else if pa == nil || pb == nil {
				parents[k] = pa
				if parents[k] == nil {
					parents[k] = pb
				}
			} else {
				parents[k] = Merge(pa, pb, rootIsWildcard, cache)
			}
			returnStates[k] = ra
			i++
			j++
		case ra < rb:
			parents[k] = a.parents[i]
			returnStates[k] = ra
			i++
		default:
			parents[k] = b.parents[j]
			returnStates[k] = rb
			j++
		}
		k++
	}
	for ; i < a.Length(); i++ {
		parents[k] = a.parents[i]
		returnStates[k] = a.returnStates[i]
		k++
	}
	for ; j < b.Length(); j++ {
		parents[k] = b.parents[j]
		returnStates[k] = b.returnStates[j]
		k++
	}

	merged := NewArrayContext(parents[:k], returnStates[:k])
	// The pairwise walk can reproduce one of the operands; return the
	// original so sharing survives.
	if merged.Equal(a) {
		return a
	}
	if merged.Equal(b) {
		return b
	}
	return merged
}

// A ContextCache hash-conses prediction contexts so structurally equal
// contexts collapse to one node. It can be shared across recognizers of
// a grammar; it does no locking of its own.
type ContextCache struct {
	set *container.HashSet[*PredictionContext]
}

type contextHasher struct{}

func (contextHasher) Hash(c *PredictionContext) int      { return c.Hash() }
func (contextHasher) Equal(a, b *PredictionContext) bool { return a.Equal(b) }

func NewContextCache() *ContextCache {
	return &ContextCache{
		set: container.NewHashSet[*PredictionContext](contextHasher{}),
	}
}

// Add interns c, returning the canonical node.
func (c *ContextCache) Add(ctx *PredictionContext) *PredictionContext {
	if ctx == EmptyContext {
		return EmptyContext
	}
	return c.set.Intern(ctx)
}

func (c *ContextCache) Len() int {
	return c.set.Len()
}
