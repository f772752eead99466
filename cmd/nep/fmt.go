package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/nepscript/nep/nep"
	"github.com/spf13/cobra"
)

func newFmtCmd(state *cliState) *cobra.Command {
	var write, check bool
	cmd := &cobra.Command{
		Use:   "fmt <path>...",
		Short: "Rewrite scripts in canonical layout",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := collectScriptFiles(args, state.cfg.Run.Extension)
			if err != nil {
				return err
			}

			changedCount := 0
			for _, path := range files {
				originalBytes, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				original := string(originalBytes)
				program, err := nep.Parse(original)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				formatted := nep.Format(program)
				changed := formatted != original
				if changed {
					changedCount++
				}

				switch {
				case write && changed:
					info, err := os.Stat(path)
					if err != nil {
						return fmt.Errorf("stat %s: %w", path, err)
					}
					if err := os.WriteFile(path, []byte(formatted), info.Mode().Perm()); err != nil {
						return fmt.Errorf("write %s: %w", path, err)
					}
				case !write && !check:
					fmt.Fprint(cmd.OutOrStdout(), formatted)
				}
			}

			if check && changedCount > 0 {
				return fmt.Errorf("nep fmt: %d file(s) need formatting", changedCount)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write result to source files instead of stdout")
	cmd.Flags().BoolVar(&check, "check", false, "fail if any source file needs formatting")
	return cmd
}

func collectScriptFiles(targets []string, ext string) ([]string, error) {
	seen := make(map[string]struct{})
	files := make([]string, 0)
	addFile := func(path string) {
		if filepath.Ext(path) != ext {
			return
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return
		}
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		files = append(files, abs)
	}

	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", target, err)
		}
		if !info.IsDir() {
			addFile(target)
			continue
		}
		err = filepath.WalkDir(target, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if entry.IsDir() {
				return nil
			}
			addFile(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", target, err)
		}
	}

	sort.Strings(files)
	return files, nil
}
