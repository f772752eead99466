package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/nepscript/nep/nep"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newTokensCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream of a script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readScript(args[0], state.cfg.Run.Extension)
			if err != nil {
				return err
			}
			tokens, err := nep.Tokenize(source)
			if err != nil {
				return err
			}
			return writeTokens(cmd.OutOrStdout(), tokens)
		},
	}
}

func writeTokens(out io.Writer, tokens []nep.Token) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, tok := range tokens {
		fmt.Fprintf(tw, "%d:%d\t%s\t%s\n", tok.Pos.Line, tok.Pos.Column, tok.Kind, tok.Text)
	}
	return tw.Flush()
}

func newASTCmd(state *cliState) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "ast <file>",
		Short: "Print the syntax tree of a script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readScript(args[0], state.cfg.Run.Extension)
			if err != nil {
				return err
			}
			program, err := nep.Parse(source)
			if err != nil {
				return err
			}
			return writeAST(cmd.OutOrStdout(), program, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml or json")
	return cmd
}

func writeAST(out io.Writer, program *nep.Program, format string) error {
	tree := nep.Dump(program)
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(tree); err != nil {
			return fmt.Errorf("encode ast: %w", err)
		}
		return enc.Close()
	case "json":
		data, err := json.MarshalIndent(tree, "", "  ")
		if err != nil {
			return fmt.Errorf("encode ast: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	default:
		return fmt.Errorf("unknown ast format %q (want yaml or json)", format)
	}
}

func readScript(path, ext string) (string, error) {
	if err := checkExtension(path, ext); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
