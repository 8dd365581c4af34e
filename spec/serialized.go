// Package spec defines the serialized form of a compiled ATN and
// materializes it into the in-memory graph the drivers simulate. The
// offline tool emits the blob; this package is the only reader.
package spec

import "github.com/google/uuid"

// SerializedVersion is the only blob version this runtime accepts.
// The tool bumps it whenever the layout changes shape.
const SerializedVersion = 4

// SerializedUUID identifies the layout feature set. Version and UUID
// must both match; a tool built against another layout is rejected even
// when the version number happens to agree.
var SerializedUUID = uuid.MustParse("59627784-3be5-417a-b9eb-8131a7286089")

// The blob is a sequence of little-endian 32-bit words:
//
//	version
//	uuid                  4 words, the 16 bytes in RFC 4122 order
//	grammar kind          0 lexer, 1 parser
//	max token type
//	state table           count, then per state:
//	                        kind, rule index,
//	                        block starts: matching block-end state
//	                        star loop entries, loop ends: loop-back state
//	non-greedy states     count, then state IDs
//	precedence rules      count, then rule-start state IDs
//	rule table            count, then per rule:
//	                        start state, stop state,
//	                        lexer grammars: token type
//	mode table            count, then token-start state IDs
//	set table             count, then per set:
//	                        interval count, then (start, stop) pairs
//	edge table            count, then per edge:
//	                        src, trg, kind, arg1, arg2, arg3
//	decision table        count, then decision state IDs
//	lexer action table    lexer grammars only: count, then per action:
//	                        kind, arg1, arg2
//
// Edge arguments by kind:
//
//	atom        arg1 label
//	range       arg1 start, arg2 stop
//	set/not set arg1 set-table index
//	rule        trg rule-start state, arg1 rule index,
//	            arg2 precedence, arg3 follow state
//	predicate   arg1 rule index, arg2 pred index, arg3 ctx dependent
//	precedence  arg1 precedence
//	action      arg1 rule index, arg2 action index, arg3 ctx dependent
//
// Tables tolerate arbitrary ordering of their entries, but the indices
// they assign are identity: generated recognizers refer to states,
// decisions, and rules by these numbers.
