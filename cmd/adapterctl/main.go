// adapterctl inspects adapter algorithms, validates preset files, and
// resolves per-module adapter assignments for a model layout.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/adapter-tools/internal/algo"
	"github.com/CodexForgeBR/adapter-tools/internal/exitcode"
	"github.com/CodexForgeBR/adapter-tools/internal/logging"
	"github.com/CodexForgeBR/adapter-tools/internal/preset"
)

// version vars injected via ldflags at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:     "adapterctl",
		Short:   "Configure parameter-efficient fine-tuning adapters",
		Long:    "adapterctl inspects known adapter algorithms, validates preset files, and resolves which modules of a model receive adapter weights.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetVerbose(verbose)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug output")

	rootCmd.AddCommand(
		newAlgosCmd(),
		newPresetsCmd(),
		newValidateCmd(),
		newResolveCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		logging.Error(err.Error())
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps an error to the adapterctl exit code taxonomy.
func exitCodeFor(err error) int {
	var fileErr *preset.FileError
	if errors.As(err, &fileErr) {
		return exitcode.FileError
	}
	var unknownAlgo *algo.UnknownAlgorithmError
	if errors.As(err, &unknownAlgo) {
		return exitcode.UnknownAlgo
	}
	if errors.Is(err, preset.ErrPresetInvalid) {
		return exitcode.InvalidPreset
	}
	return exitcode.Error
}
