package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/pgavlin/wasm-opt/cmd/wasm-opt/stats"
	"github.com/pgavlin/wasm-opt/integration"
)

var version = "<unknown>"

func configureCLI() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           "wasm-opt [options] [input file]",
		Short:         "wasm-opt WebAssembly optimizer",
		Long:          "wasm-opt - optimize WebAssembly modules in process",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,

		// The argument translator owns the wasm-opt flag surface; cobra must
		// not interpret tokens like -O3 or -o.
		DisableFlagParsing: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				switch arg {
				case "--help", "-h":
					return cmd.Help()
				case "--version":
					fmt.Fprintf(cmd.OutOrStdout(), "wasm-opt %s\n", version)
					return nil
				}
			}

			plan, err := integration.Translate(args)
			if err != nil {
				return err
			}
			if err := integration.Run(plan); err != nil {
				return err
			}

			slog.Debug("module written", "path", plan.OutputFile)
			return nil
		},
	}

	rootCommand.AddCommand(stats.Command())

	return rootCommand
}

func main() {
	level := slog.LevelDebug
	for _, arg := range os.Args[1:] {
		if arg == "--quiet" || arg == "-q" {
			level = slog.LevelError
		}
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))

	if err := configureCLI().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
