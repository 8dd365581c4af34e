package atn

import (
	"fmt"
	"strings"

	"github.com/rmaru/tarn/container"
)

// AltInvalid marks a set whose unique alternative is unknown or absent.
const AltInvalid = 0

// A ConfigSet is the frontier of a parallel simulation: the set of
// configs reachable at one input position. Insertion dedups on
// (state, alt, semantic context) and merges stacks; iteration follows
// insertion order so downstream choices are deterministic. Once a set is
// installed in a DFA state it is frozen with SetReadOnly.
type ConfigSet struct {
	// Configs preserves insertion order; configLookup is the dedup index
	// over the same elements.
	Configs      []*Config
	configLookup *container.HashMap[*Config, *Config]

	// FullCtx tells whether the set was built with the true outer
	// context (LL) rather than the wildcard context (SLL).
	FullCtx bool

	HasSemanticContext   bool
	DipsIntoOuterContext bool

	// UniqueAlt and ConflictingAlts are filled in by conflict analysis.
	UniqueAlt       int
	ConflictingAlts *container.BitSet

	readOnly   bool
	cachedHash int
}

func NewConfigSet(fullCtx bool) *ConfigSet {
	return &ConfigSet{
		configLookup: container.NewHashMap[*Config, *Config](ConfigAddHasher{}),
		FullCtx:      fullCtx,
		UniqueAlt:    AltInvalid,
	}
}

// NewOrderedConfigSet returns a set that dedups on full config equality
// including the stack. The lexer simulator uses it: lexer closure never
// merges stacks.
func NewOrderedConfigSet() *ConfigSet {
	return &ConfigSet{
		configLookup: container.NewHashMap[*Config, *Config](fullKeyHasher{}),
		UniqueAlt:    AltInvalid,
	}
}

type fullKeyHasher struct{}

func (fullKeyHasher) Hash(c *Config) int      { return c.Hash() }
func (fullKeyHasher) Equal(a, b *Config) bool { return a.Equal(b) }

// Add inserts c, merging it into an existing config with the same dedup
// key. cache may be nil. It reports whether the set changed.
func (s *ConfigSet) Add(c *Config, cache *MergeCache) bool {
	if s.readOnly {
		panic("atn: addition to a read-only config set")
	}
	if c.SemCtx != SemanticContextNone {
		s.HasSemanticContext = true
	}
	if c.ReachesIntoOuterContext > 0 {
		s.DipsIntoOuterContext = true
	}

	existing, ok := s.configLookup.GetOrPut(c, c)
	if !ok {
		s.cachedHash = 0
		s.Configs = append(s.Configs, c)
		return true
	}

	// A collision merges stacks rather than growing the set. The merged
	// root flag follows !FullCtx: in SLL the wildcard root absorbs.
	rootIsWildcard := !s.FullCtx
	merged := Merge(existing.Context, c.Context, rootIsWildcard, cache)
	existing.ReachesIntoOuterContext = max(existing.ReachesIntoOuterContext, c.ReachesIntoOuterContext)
	if merged == existing.Context {
		return false
	}
	s.cachedHash = 0
	existing.Context = merged
	return true
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (s *ConfigSet) Len() int {
	return len(s.Configs)
}

func (s *ConfigSet) IsEmpty() bool {
	return len(s.Configs) == 0
}

// Alts returns the set of alternatives present in the set.
func (s *ConfigSet) Alts() *container.BitSet {
	alts := container.NewBitSet()
	for _, c := range s.Configs {
		alts.Set(c.Alt)
	}
	return alts
}

// States returns the set of ATN state numbers present in the set.
func (s *ConfigSet) States() *container.BitSet {
	states := container.NewBitSet()
	for _, c := range s.Configs {
		states.Set(int(c.State.Num))
	}
	return states
}

// SetReadOnly freezes the set and drops the dedup index; frozen sets are
// only iterated and compared.
func (s *ConfigSet) SetReadOnly() {
	s.readOnly = true
	s.configLookup = nil
}

func (s *ConfigSet) ReadOnly() bool {
	return s.readOnly
}

// Hash treats the set as an ordered list of configs plus the FullCtx
// flag; read-only sets cache the value.
func (s *ConfigSet) Hash() int {
	if s.readOnly && s.cachedHash != 0 {
		return s.cachedHash
	}
	h := 1
	for _, c := range s.Configs {
		h = h*31 + c.Hash()
	}
	if s.FullCtx {
		h = h*31 + 1
	}
	if s.readOnly {
		s.cachedHash = h
	}
	return h
}

func (s *ConfigSet) Equal(other *ConfigSet) bool {
	if s == other {
		return true
	}
	if other == nil ||
		s.FullCtx != other.FullCtx ||
		len(s.Configs) != len(other.Configs) {
		return false
	}
	for i, c := range s.Configs {
		if !c.Equal(other.Configs[i]) {
			return false
		}
	}
	return true
}

func (s *ConfigSet) String() string {
	var b strings.Builder
	b.WriteString("[")
	for i, c := range s.Configs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.String())
	}
	b.WriteString("]")
	if s.HasSemanticContext {
		fmt.Fprintf(&b, ",hasSemanticContext=%v", s.HasSemanticContext)
	}
	if s.UniqueAlt != AltInvalid {
		fmt.Fprintf(&b, ",uniqueAlt=%v", s.UniqueAlt)
	}
	if s.ConflictingAlts != nil {
		fmt.Fprintf(&b, ",conflictingAlts=%v", s.ConflictingAlts)
	}
	if s.DipsIntoOuterContext {
		b.WriteString(",dipsIntoOuterContext")
	}
	return b.String()
}

// ConfigSetHasher keys DFA states by their frozen config sets.
type ConfigSetHasher struct{}

func (ConfigSetHasher) Hash(s *ConfigSet) int      { return s.Hash() }
func (ConfigSetHasher) Equal(a, b *ConfigSet) bool { return a.Equal(b) }
