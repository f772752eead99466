package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/nepscript/nep/nep"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runCLI executes the command line in args; args[0] is the program name.
func runCLI(args []string) error {
	root := newRootCmd()
	if len(args) > 1 {
		root.SetArgs(args[1:])
	} else {
		root.SetArgs([]string{})
	}
	return root.Execute()
}

// cliState is shared by every subcommand of one invocation. It is filled in
// by the root command before any subcommand runs.
type cliState struct {
	configPath string
	verbose    bool

	cfg    *fileConfig
	logger *slog.Logger
}

func (s *cliState) newEngine() *nep.Engine {
	return nep.NewEngine(nep.Config{
		StepQuota:      s.cfg.Run.StepQuota,
		RecursionLimit: s.cfg.Run.RecursionLimit,
		Logger:         s.logger,
	})
}

func newRootCmd() *cobra.Command {
	state := &cliState{}
	root := &cobra.Command{
		Use:   "nep",
		Short: "Interpreter for nep scripts",
		Long: `nep runs scripts written with Nepali keywords:

  rakh x = 5;
  jaba samma (x < 8) {
      nikaal x;
      x++;
  }`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(state.configPath)
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd.ErrOrStderr(), cfg.Log, state.verbose)
			if err != nil {
				return err
			}
			state.cfg = cfg
			state.logger = logger
			logger.Debug("configuration loaded", "path", cfg.path, "extension", cfg.Run.Extension)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New("invalid command")
		},
	}

	root.PersistentFlags().StringVar(&state.configPath, "config", "", "config file (default: ./"+defaultConfigFile+" when present)")
	root.PersistentFlags().BoolVarP(&state.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newRunCmd(state),
		newCheckCmd(state),
		newAnalyzeCmd(state),
		newTokensCmd(state),
		newASTCmd(state),
		newFmtCmd(state),
		newREPLCmd(state),
		newLSPCmd(state),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the nep version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "nep %s\n", version)
			return err
		},
	}
}
