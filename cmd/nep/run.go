package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/nepscript/nep/nep"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type scriptRun struct {
	path    string
	result  *nep.Result
	err     error
	elapsed time.Duration
}

func newRunCmd(state *cliState) *cobra.Command {
	var (
		parallel int
		timing   bool
	)
	cmd := &cobra.Command{
		Use:   "run <file>...",
		Short: "Run one or more scripts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScripts(cmd.Context(), cmd.OutOrStdout(), state, args, parallel, timing || state.cfg.Run.Timing)
		},
	}
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 1, "number of scripts to run at once")
	cmd.Flags().BoolVar(&timing, "timing", false, "print how long each script took")
	return cmd
}

// runScripts executes every path and prints results in argument order, even
// when scripts run concurrently. One failing script does not stop the others.
func runScripts(ctx context.Context, out io.Writer, state *cliState, paths []string, parallel int, timing bool) error {
	for _, path := range paths {
		if err := checkExtension(path, state.cfg.Run.Extension); err != nil {
			return err
		}
	}

	engine := state.newEngine()
	runs := make([]scriptRun, len(paths))

	var g errgroup.Group
	g.SetLimit(max(parallel, 1))
	for i, path := range paths {
		g.Go(func() error {
			runs[i] = runScript(ctx, engine, path)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, run := range runs {
		if len(paths) > 1 {
			fmt.Fprintln(out, theme.header.Render(run.path))
		}
		if run.result != nil {
			for _, line := range run.result.Outputs {
				fmt.Fprintln(out, line)
			}
		}
		if run.err != nil {
			failed++
			fmt.Fprintln(out, theme.err.Render(run.err.Error()))
		}
		if timing {
			fmt.Fprintln(out, theme.muted.Render(fmt.Sprintf("completed in %s", run.elapsed.Round(time.Microsecond))))
		}
	}

	if failed > 0 {
		if len(paths) == 1 {
			return fmt.Errorf("%s failed", paths[0])
		}
		return fmt.Errorf("%d of %d scripts failed", failed, len(paths))
	}
	return nil
}

func runScript(ctx context.Context, engine *nep.Engine, path string) scriptRun {
	run := scriptRun{path: path}
	start := time.Now()

	data, err := os.ReadFile(path)
	if err != nil {
		run.err = fmt.Errorf("read %s: %w", path, err)
		run.elapsed = time.Since(start)
		return run
	}
	run.result, run.err = engine.Run(ctx, string(data))
	run.elapsed = time.Since(start)
	return run
}

func checkExtension(path, ext string) error {
	if filepath.Ext(path) != ext {
		return fmt.Errorf("%s: scripts must have the %s extension", path, ext)
	}
	return nil
}
