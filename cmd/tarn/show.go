package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/rmaru/tarn/atn"
)

func init() {
	cmd := &cobra.Command{
		Use:     "show <compiled ATN path>",
		Short:   "Describe the states, rules, and decisions of a compiled ATN",
		Example: `  tarn show grammar.atn`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := readATN(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "grammar kind: %v\n", a.Kind)
	fmt.Fprintf(os.Stdout, "max token type: %v\n", a.MaxTokenType)
	fmt.Fprintf(os.Stdout, "states: %v, rules: %v, decisions: %v, modes: %v\n\n",
		len(a.States), a.RuleCount(), a.DecisionCount(), len(a.ModeToStartState))

	rules := tablewriter.NewWriter(os.Stdout)
	rules.SetHeader([]string{"Rule", "Start", "Stop", "Left Recursive", "Token Type"})
	for i, start := range a.RuleToStartState {
		tokenType := ""
		if a.Kind == atn.GrammarKindLexer {
			tokenType = fmt.Sprintf("%v", a.RuleToTokenType[i])
		}
		leftRec := ""
		if a.State(start).LeftRecursive {
			leftRec = "yes"
		}
		rules.Append([]string{
			fmt.Sprintf("%v", i),
			fmt.Sprintf("%v", start),
			fmt.Sprintf("%v", a.RuleToStopState[i]),
			leftRec,
			tokenType,
		})
	}
	rules.Render()
	fmt.Fprintln(os.Stdout)

	decisions := tablewriter.NewWriter(os.Stdout)
	decisions.SetHeader([]string{"Decision", "State", "Kind", "Alternatives", "Non-Greedy"})
	for i, id := range a.DecisionToState {
		s := a.State(id)
		nonGreedy := ""
		if s.NonGreedy {
			nonGreedy = "yes"
		}
		decisions.Append([]string{
			fmt.Sprintf("%v", i),
			fmt.Sprintf("%v", id),
			s.Kind.String(),
			fmt.Sprintf("%v", len(s.Transitions)),
			nonGreedy,
		})
	}
	decisions.Render()
	fmt.Fprintln(os.Stdout)

	states := tablewriter.NewWriter(os.Stdout)
	states.SetHeader([]string{"State", "Kind", "Rule", "Transitions"})
	for _, s := range a.States {
		states.Append([]string{
			fmt.Sprintf("%v", s.Num),
			s.Kind.String(),
			fmt.Sprintf("%v", s.RuleIndex),
			describeTransitions(s),
		})
	}
	states.Render()
	return nil
}

func describeTransitions(s *atn.State) string {
	text := ""
	for i, t := range s.Transitions {
		if i > 0 {
			text += ", "
		}
		switch t.Kind {
		case atn.TransitionKindAtom:
			text += fmt.Sprintf("%v->%v", t.Label, t.Target)
		case atn.TransitionKindRange:
			text += fmt.Sprintf("%v..%v->%v", t.Start, t.Stop, t.Target)
		case atn.TransitionKindSet:
			text += fmt.Sprintf("%v->%v", t.Set, t.Target)
		case atn.TransitionKindNotSet:
			text += fmt.Sprintf("~%v->%v", t.Set, t.Target)
		case atn.TransitionKindRule:
			text += fmt.Sprintf("rule %v->%v", t.RuleIndex, t.Target)
		default:
			text += fmt.Sprintf("%v->%v", t.Kind, t.Target)
		}
	}
	return text
}
