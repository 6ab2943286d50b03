package main

import (
	"fmt"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/CodexForgeBR/adapter-tools/internal/preset"
)

// newPresetsCmd builds the "presets" command group for the builtin catalog.
func newPresetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Inspect the builtin preset catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List builtin preset names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range preset.BuiltinPresetNames() {
				fmt.Println(name)
			}
			return nil
		},
	})

	var format string
	showCmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Print a builtin preset in its file form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, ok := preset.BuiltinPreset(args[0])
			if !ok {
				return fmt.Errorf("unknown preset %q; builtin presets: %s",
					args[0], strings.Join(preset.BuiltinPresetNames(), ", "))
			}
			out, err := marshalPreset(cfg.ToMap(), format)
			if err != nil {
				return err
			}
			fmt.Print(string(out))
			return nil
		},
	}
	showCmd.Flags().StringVar(&format, "format", "yaml", "Output format: yaml or toml")
	cmd.AddCommand(showCmd)

	return cmd
}

// marshalPreset serializes a plain preset mapping in the requested format.
func marshalPreset(m map[string]any, format string) ([]byte, error) {
	switch format {
	case "yaml":
		return yaml.Marshal(m)
	case "toml":
		return toml.Marshal(m)
	default:
		return nil, fmt.Errorf("unknown format %q: use yaml or toml", format)
	}
}
