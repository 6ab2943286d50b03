package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/adapter-tools/internal/logging"
	"github.com/CodexForgeBR/adapter-tools/internal/preset"
)

// newValidateCmd builds the "validate" command: parse a preset file and
// report schema or override violations.
func newValidateCmd() *cobra.Command {
	var strict bool
	var emit bool

	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Validate a preset file against the schema and algorithm registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := preset.Load(args[0], strict)
			if err != nil {
				return err
			}

			logging.Successf("preset %s is valid", args[0])
			if algos := cfg.Algorithms(); len(algos) > 0 {
				logging.Debugf("referenced algorithms: %s", strings.Join(algos, ", "))
			}

			if emit {
				out, err := marshalPreset(cfg.ToMap(), "yaml")
				if err != nil {
					return err
				}
				fmt.Print(string(out))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Also validate every override against the algorithm registry")
	cmd.Flags().BoolVar(&emit, "emit", false, "Print the normalized preset as YAML")
	return cmd
}
