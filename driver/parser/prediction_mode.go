package parser

import (
	"github.com/rmaru/tarn/atn"
	"github.com/rmaru/tarn/container"
)

// PredictionMode selects how eagerly prediction terminates.
type PredictionMode int

const (
	// PredictionModeSLL never consults the outer context. It is the
	// fastest mode; on the rare SLL-only conflict it resolves to the
	// minimum alternative instead of retrying, so it can report syntax
	// errors full LL would not.
	PredictionModeSLL PredictionMode = iota

	// PredictionModeLL retries conflicted decisions with the true outer
	// context. It reports an ambiguity as soon as any is certain.
	PredictionModeLL

	// PredictionModeLLExactAmbigDetection keeps simulating until the
	// exact set of ambiguous alternatives is known.
	PredictionModeLLExactAmbigDetection
)

// hasSLLConflictTerminatingPrediction reports whether SLL simulation
// may stop on configs. Pure SLL can stop as soon as the conflict shape
// appears; the LL-capable modes stop here too, but the caller then
// retries with full context.
func hasSLLConflictTerminatingPrediction(mode PredictionMode, configs *atn.ConfigSet) bool {
	// When every config is in a rule stop state, the decision has seen
	// all the input it can; there is nothing left to distinguish the
	// alternatives.
	if allConfigsInRuleStopStates(configs) {
		return true
	}

	if mode == PredictionModeSLL && configs.HasSemanticContext {
		// Predicates are evaluated after SLL stops; for conflict
		// purposes a predicated config behaves like its bare twin.
		stripped := atn.NewConfigSet(configs.FullCtx)
		for _, c := range configs.Configs {
			stripped.Add(c.WithSemCtx(c.State, atn.SemanticContextNone), nil)
		}
		configs = stripped
	}

	altSets := getConflictingAltSubsets(configs)
	return hasConflictingAltSet(altSets) && !hasStateAssociatedWithOneAlt(configs)
}

func hasConfigInRuleStopState(configs *atn.ConfigSet) bool {
	for _, c := range configs.Configs {
		if c.State.Kind == atn.StateKindRuleStop {
			return true
		}
	}
	return false
}

func allConfigsInRuleStopStates(configs *atn.ConfigSet) bool {
	for _, c := range configs.Configs {
		if c.State.Kind != atn.StateKindRuleStop {
			return false
		}
	}
	return true
}

// getConflictingAltSubsets groups the alternatives by (state, context):
// two configs that agree on both are the same simulation point reached
// while proving different alternatives.
func getConflictingAltSubsets(configs *atn.ConfigSet) []*container.BitSet {
	m := container.NewHashMap[*atn.Config, *container.BitSet](stateCtxHasher{})
	var sets []*container.BitSet
	for _, c := range configs.Configs {
		alts, existed := m.GetOrPut(c, nil)
		if !existed {
			alts = container.NewBitSet()
			m.Put(c, alts)
			sets = append(sets, alts)
		}
		alts.Set(c.Alt)
	}
	return sets
}

// stateCtxHasher keys configs by (state, context) only.
type stateCtxHasher struct{}

func (stateCtxHasher) Hash(c *atn.Config) int {
	h := int(c.State.Num)
	if c.Context != nil {
		h = h*31 + c.Context.Hash()
	}
	return h
}

func (stateCtxHasher) Equal(a, b *atn.Config) bool {
	if a.State.Num != b.State.Num {
		return false
	}
	if a.Context == nil || b.Context == nil {
		return a.Context == b.Context
	}
	return a.Context.Equal(b.Context)
}

// getStateToAltMap groups alternatives by state alone.
func getStateToAltMap(configs *atn.ConfigSet) map[atn.StateID]*container.BitSet {
	m := map[atn.StateID]*container.BitSet{}
	for _, c := range configs.Configs {
		alts := m[c.State.Num]
		if alts == nil {
			alts = container.NewBitSet()
			m[c.State.Num] = alts
		}
		alts.Set(c.Alt)
	}
	return m
}

func hasStateAssociatedWithOneAlt(configs *atn.ConfigSet) bool {
	for _, alts := range getStateToAltMap(configs) {
		if alts.Len() == 1 {
			return true
		}
	}
	return false
}

func hasConflictingAltSet(altSets []*container.BitSet) bool {
	for _, alts := range altSets {
		if alts.Len() > 1 {
			return true
		}
	}
	return false
}

func allSubsetsConflict(altSets []*container.BitSet) bool {
	for _, alts := range altSets {
		if alts.Len() == 1 {
			return false
		}
	}
	return true
}

func allSubsetsEqual(altSets []*container.BitSet) bool {
	if len(altSets) == 0 {
		return true
	}
	first := altSets[0]
	for _, alts := range altSets[1:] {
		if !alts.Equal(first) {
			return false
		}
	}
	return true
}

// getAlts unions every subset.
func getAlts(altSets []*container.BitSet) *container.BitSet {
	all := container.NewBitSet()
	for _, alts := range altSets {
		all.Or(alts)
	}
	return all
}

// resolvesToJustOneViableAlt returns the single alternative every
// conflicting subset agrees on once each is resolved to its minimum, or
// AltInvalid when they disagree.
func resolvesToJustOneViableAlt(altSets []*container.BitSet) int {
	viable := atn.AltInvalid
	for _, alts := range altSets {
		min, _ := alts.Min()
		if viable == atn.AltInvalid {
			viable = min
			continue
		}
		if viable != min {
			return atn.AltInvalid
		}
	}
	return viable
}
