package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DuncanLittlechild/dcc/internal/ccerr"
	"github.com/DuncanLittlechild/dcc/internal/driver"
)

var (
	stopLex     bool
	stopParse   bool
	stopCodegen bool
	stopEmit    bool
	verbose     bool
	keepTemps   bool
)

var command = &cobra.Command{
	Use:           "dcc path/to/file.c",
	Short:         "ahead-of-time compiler for a subset of C, targeting x86-64",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := driver.Options{
			StopAt:    stopAt(),
			Verbose:   verbose,
			KeepTemps: keepTemps,
		}
		return driver.Run(args[0], opts)
	},
}

func stopAt() driver.StopAt {
	switch {
	case stopLex:
		return driver.StopLex
	case stopParse:
		return driver.StopParse
	case stopCodegen:
		return driver.StopCodegen
	case stopEmit:
		return driver.StopEmit
	default:
		return driver.StopNone
	}
}

func init() {
	flags := command.Flags()
	flags.BoolVar(&stopLex, "lex", false, "stop after lexing")
	flags.BoolVar(&stopParse, "parse", false, "stop after parsing")
	flags.BoolVar(&stopCodegen, "codegen", false, "stop after code generation")
	flags.BoolVarP(&stopEmit, "stop-at-emit", "S", false, "stop after emitting assembly")
	flags.BoolVarP(&verbose, "verbose", "v", false, "print external commands before running them")
	flags.BoolVar(&keepTemps, "keep-temps", false, "keep the preprocessed .i file")

	command.MarkFlagsMutuallyExclusive("lex", "parse", "codegen", "stop-at-emit")
}

func main() {
	if err := command.Execute(); err != nil {
		if ccerr.Classify(err) == ccerr.KindInternal {
			fmt.Fprintln(os.Stderr, "internal error:", err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
