package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rmaru/tarn/driver/lexer"
)

var lexFlags = struct {
	source *string
	vocab  *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "lex <compiled ATN path>",
		Short:   "Tokenize a text stream",
		Example: `  cat src | tarn lex grammar.atn`,
		Args:    cobra.ExactArgs(1),
		RunE:    runLex,
	}
	lexFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	lexFlags.vocab = cmd.Flags().String("names", "", "token/rule names file path")
	rootCmd.AddCommand(cmd)
}

func runLex(cmd *cobra.Command, args []string) error {
	a, err := readATN(args[0])
	if err != nil {
		return err
	}

	src := os.Stdin
	name := "<stdin>"
	if *lexFlags.source != "" {
		f, err := os.Open(*lexFlags.source)
		if err != nil {
			return fmt.Errorf("cannot open the source file %s: %w", *lexFlags.source, err)
		}
		defer f.Close()
		src = f
		name = *lexFlags.source
	}

	input, err := lexer.NewCharStream(name, src)
	if err != nil {
		return err
	}
	l, err := lexer.NewLexer(a, input)
	if err != nil {
		return err
	}

	vocab := readVocabulary(*lexFlags.vocab)
	for {
		tok, err := l.NextToken()
		if err != nil {
			return err
		}
		if tok.EOF() {
			break
		}
		kind := fmt.Sprintf("%v", tok.Kind)
		if vocab != nil {
			kind = vocab.TokenDisplay(tok.Kind)
		}
		fmt.Fprintf(os.Stdout, "%v:%v: %v %#v\n", tok.Line, tok.Col+1, kind, tok.Lexeme())
	}
	return nil
}
