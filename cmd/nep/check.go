package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newCheckCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Compile scripts and report diagnostics without running them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			engine := state.newEngine()
			failed := 0
			for _, path := range args {
				if err := checkExtension(path, state.cfg.Run.Extension); err != nil {
					return err
				}
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				if _, err := engine.Compile(string(data)); err != nil {
					failed++
					fmt.Fprintf(out, "%s: %s\n", path, theme.err.Render(err.Error()))
					continue
				}
				fmt.Fprintf(out, "%s: %s\n", path, theme.result.Render("ok"))
			}
			if failed > 0 {
				return fmt.Errorf("%d file(s) failed to compile", failed)
			}
			return nil
		},
	}
}
