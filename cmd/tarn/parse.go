package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/rmaru/tarn/atn"
	"github.com/rmaru/tarn/driver/lexer"
	"github.com/rmaru/tarn/driver/parser"
)

var parseFlags = struct {
	source    *string
	lexerATN  *string
	vocab     *string
	startRule *int
	sll       *bool
	onlyParse *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse <compiled parser ATN path>",
		Short:   "Parse a text stream and print the tree",
		Example: `  cat src | tarn parse grammar.atn --lexer grammar.lexer.atn`,
		Args:    cobra.ExactArgs(1),
		RunE:    runParse,
	}
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	parseFlags.lexerATN = cmd.Flags().String("lexer", "", "compiled lexer ATN path (required)")
	parseFlags.vocab = cmd.Flags().String("names", "", "token/rule names file path")
	parseFlags.startRule = cmd.Flags().Int("start-rule", 0, "rule index to start parsing at")
	parseFlags.sll = cmd.Flags().Bool("sll", false, "predict in pure SLL mode, without the full-context fallback")
	parseFlags.onlyParse = cmd.Flags().Bool("only-parse", false, "when this option is enabled, the parser doesn't print a tree")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) (retErr error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		err, ok := v.(error)
		if !ok {
			err = fmt.Errorf("an unexpected error occurred: %v", v)
		}
		fmt.Fprintf(os.Stderr, "%v:\n%v", err, string(debug.Stack()))
		retErr = err
	}()

	if *parseFlags.lexerATN == "" {
		return fmt.Errorf("--lexer is required")
	}

	parserATN, err := readATN(args[0])
	if err != nil {
		return err
	}
	lexerATN, err := readATN(*parseFlags.lexerATN)
	if err != nil {
		return err
	}

	src := os.Stdin
	name := "<stdin>"
	if *parseFlags.source != "" {
		f, err := os.Open(*parseFlags.source)
		if err != nil {
			return fmt.Errorf("cannot open the source file %s: %w", *parseFlags.source, err)
		}
		defer f.Close()
		src = f
		name = *parseFlags.source
	}

	input, err := lexer.NewCharStream(name, src)
	if err != nil {
		return err
	}
	lex, err := lexer.NewLexer(lexerATN, input)
	if err != nil {
		return err
	}
	tokens := parser.NewCommonTokenStream(lex, atn.TokenDefaultChannel)

	vocab := readVocabulary(*parseFlags.vocab)
	var opts []parser.Option
	if vocab != nil {
		opts = append(opts, parser.WithVocabulary(vocab))
	}
	if *parseFlags.sll {
		opts = append(opts, parser.WithPredictionMode(parser.PredictionModeSLL))
	}
	if *parseFlags.onlyParse {
		opts = append(opts, parser.DisableTreeBuilding())
	}

	interp, err := parser.NewInterpreter(parserATN, tokens, opts...)
	if err != nil {
		return err
	}

	tree, err := interp.Parse(*parseFlags.startRule)
	if err != nil {
		return err
	}

	if interp.SyntaxErrorCount() > 0 {
		return fmt.Errorf("%v syntax error(s)", interp.SyntaxErrorCount())
	}
	if !*parseFlags.onlyParse {
		parser.PrintTree(os.Stdout, tree, vocab)
	}
	return nil
}
