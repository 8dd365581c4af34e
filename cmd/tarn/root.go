package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rmaru/tarn/atn"
	"github.com/rmaru/tarn/driver/parser"
	"github.com/rmaru/tarn/spec"
)

var rootCmd = &cobra.Command{
	Use:   "tarn",
	Short: "Run a compiled ATN against a text stream",
	Long: `tarn drives the adaptive-prediction runtime directly:
- Tokenizes a text stream with a compiled lexer ATN.
- Parses a text stream with a compiled parser ATN and prints the tree.
- Describes the states, decisions, and rules of a compiled ATN.
This is primarily aimed at debugging grammars without generated code.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}

func readATN(path string) (*atn.ATN, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	a, err := spec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("cannot read the compiled ATN %v: %w", path, err)
	}
	return a, nil
}

// readVocabulary loads the optional names sidecar the offline tool
// writes next to the ATN blob.
func readVocabulary(path string) *parser.Vocabulary {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	v := &parser.Vocabulary{}
	if err := json.Unmarshal(data, v); err != nil {
		return nil
	}
	return v
}
