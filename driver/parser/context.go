// Package parser recognizes a token stream by simulating a parser ATN
// with adaptive prediction. The Parser is the facade generated parsers
// embed, the Interpreter drives it straight off the ATN, and the
// Simulator implements adaptive prediction with its SLL to LL fallback.
package parser

import (
	"fmt"
	"io"

	"github.com/rmaru/tarn/atn"
	"github.com/rmaru/tarn/driver/lexer"
)

// A Tree is one node of a parse tree: a rule context, a matched token,
// or an error node.
type Tree interface {
	// Text renders the node: a token's lexeme or the concatenation of a
	// rule's children.
	Text() string
}

// A TerminalNode wraps a matched token. Error nodes are terminals the
// error strategy inserted or isolated during recovery.
type TerminalNode struct {
	Token   *lexer.Token
	IsError bool
}

func (n *TerminalNode) Text() string {
	return n.Token.Lexeme()
}

// A ParserRuleContext is one frame of the parse: which rule, where it
// was invoked from, the tokens it spans, and the children accumulated
// under it. It doubles as the rule-invocation chain prediction consults.
type ParserRuleContext struct {
	parent        *ParserRuleContext
	invokingState atn.StateID

	RuleIndex int
	Start     *lexer.Token
	Stop      *lexer.Token

	children []Tree

	// Exception records the recognition error that interrupted the
	// rule, if any.
	Exception error

	// AltNumber is the alternative the rule took; 0 when not recorded.
	AltNumber int
}

func NewParserRuleContext(parent *ParserRuleContext, invokingState atn.StateID, ruleIndex int) *ParserRuleContext {
	return &ParserRuleContext{
		parent:        parent,
		invokingState: invokingState,
		RuleIndex:     ruleIndex,
	}
}

func (c *ParserRuleContext) Parent() *ParserRuleContext {
	return c.parent
}

func (c *ParserRuleContext) SetParent(parent *ParserRuleContext) {
	c.parent = parent
}

func (c *ParserRuleContext) SetInvokingState(state atn.StateID) {
	c.invokingState = state
}

// ParentInvocation implements atn.RuleInvocation.
func (c *ParserRuleContext) ParentInvocation() atn.RuleInvocation {
	if c.parent == nil {
		return nil
	}
	return c.parent
}

// InvokingState implements atn.RuleInvocation.
func (c *ParserRuleContext) InvokingState() atn.StateID {
	return c.invokingState
}

// IsEmptyInvocation implements atn.RuleInvocation: a frame nobody
// invoked anchors the chain.
func (c *ParserRuleContext) IsEmptyInvocation() bool {
	return c.invokingState == atn.StateIDInvalid
}

func (c *ParserRuleContext) Children() []Tree {
	return c.children
}

func (c *ParserRuleContext) AddChild(child Tree) {
	c.children = append(c.children, child)
}

// RemoveLastChild undoes the most recent AddChild; recursion unrolling
// re-parents through it.
func (c *ParserRuleContext) RemoveLastChild() {
	if len(c.children) > 0 {
		c.children = c.children[:len(c.children)-1]
	}
}

func (c *ParserRuleContext) Text() string {
	s := ""
	for _, ch := range c.children {
		s += ch.Text()
	}
	return s
}

// A Vocabulary maps token types and rule indices to display names for
// diagnostics and tree rendering.
type Vocabulary struct {
	TokenNames []string `json:"token_names"`
	RuleNames  []string `json:"rule_names"`
}

// TokenDisplay renders a token type.
func (v *Vocabulary) TokenDisplay(kind int) string {
	if kind == atn.TokenEOF {
		return "<EOF>"
	}
	if v != nil && kind >= 0 && kind < len(v.TokenNames) && v.TokenNames[kind] != "" {
		return v.TokenNames[kind]
	}
	return fmt.Sprintf("<%v>", kind)
}

// RuleDisplay renders a rule index.
func (v *Vocabulary) RuleDisplay(ruleIndex int) string {
	if v != nil && ruleIndex >= 0 && ruleIndex < len(v.RuleNames) && v.RuleNames[ruleIndex] != "" {
		return v.RuleNames[ruleIndex]
	}
	return fmt.Sprintf("r%v", ruleIndex)
}

// PrintTree renders a parse tree with box-drawing rules, one node per
// line.
func PrintTree(w io.Writer, tree Tree, vocab *Vocabulary) {
	printTree(w, tree, vocab, "", "")
}

func printTree(w io.Writer, tree Tree, vocab *Vocabulary, ruledLine string, childPrefix string) {
	if tree == nil {
		return
	}

	switch n := tree.(type) {
	case *TerminalNode:
		label := fmt.Sprintf("%#v", n.Token.Lexeme())
		if n.IsError {
			label = fmt.Sprintf("<error> %v", label)
		}
		fmt.Fprintf(w, "%v%v\n", ruledLine, label)
	case *ParserRuleContext:
		fmt.Fprintf(w, "%v%v\n", ruledLine, vocab.RuleDisplay(n.RuleIndex))
		num := len(n.children)
		for i, child := range n.children {
			var line string
			if num > 1 && i < num-1 {
				line = "├─ "
			} else {
				line = "└─ "
			}

			var prefix string
			if i >= num-1 {
				prefix = "   "
			} else {
				prefix = "│  "
			}

			printTree(w, child, vocab, childPrefix+line, childPrefix+prefix)
		}
	}
}
