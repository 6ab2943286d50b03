package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/CodexForgeBR/adapter-tools/internal/logging"
	"github.com/CodexForgeBR/adapter-tools/internal/preset"
	"github.com/CodexForgeBR/adapter-tools/internal/resolver"
)

// newResolveCmd builds the "resolve" command: walk a model layout and print
// the adapter assignment every included module receives.
func newResolveCmd() *cobra.Command {
	var (
		modelPath string
		scopeName string
		defAlgo   string
		setFlags  []string
		strict    bool
	)

	cmd := &cobra.Command{
		Use:   "resolve PRESET",
		Short: "Resolve per-module adapter assignments for a model layout",
		Long: "PRESET is a builtin preset name or a preset file path. The model layout is a\n" +
			"YAML file describing the module tree (name, type, kind, children per node).",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadPresetArg(args[0], strict)
			if err != nil {
				return err
			}

			scope, err := parseScope(scopeName)
			if err != nil {
				return err
			}

			defaults, err := parseSetFlags(setFlags)
			if err != nil {
				return err
			}

			tree, err := resolver.LoadTree(modelPath)
			if err != nil {
				return err
			}

			assignments, err := resolver.Resolve(tree, cfg, resolver.Options{
				Scope:          scope,
				DefaultAlgo:    defAlgo,
				DefaultOptions: defaults,
			})
			if err != nil {
				return err
			}

			prefix := resolver.ParamPrefix(cfg, scope)
			for _, a := range assignments {
				fmt.Printf("%-50s %-10s %v\n", paramName(prefix, a.Path), a.Algo, a.Options)
			}
			logging.Successf("%d modules resolved", len(assignments))
			return nil
		},
	}

	cmd.Flags().StringVar(&modelPath, "model", "", "Path to the model layout YAML (required)")
	cmd.Flags().StringVar(&scopeName, "scope", "generic", "Sub-tree scope: generic, unet, or te")
	cmd.Flags().StringVar(&defAlgo, "algo", "lora", "Default algorithm for modules without an override")
	cmd.Flags().StringArrayVar(&setFlags, "set", nil, "Default option as key=value (repeatable)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Strict-validate preset overrides while loading")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}

// loadPresetArg resolves the positional PRESET argument: a builtin catalog
// name first, a preset file path otherwise.
func loadPresetArg(arg string, strict bool) (*preset.Config, error) {
	if cfg, ok := preset.BuiltinPreset(arg); ok {
		return cfg, nil
	}
	return preset.Load(arg, strict)
}

// parseScope maps the --scope flag to a resolver scope.
func parseScope(name string) (resolver.Scope, error) {
	switch name {
	case "generic", "":
		return resolver.ScopeGeneric, nil
	case "unet":
		return resolver.ScopeUNet, nil
	case "te", "text_encoder":
		return resolver.ScopeTextEncoder, nil
	default:
		return "", fmt.Errorf("unknown scope %q: use generic, unet, or te", name)
	}
}

// parseSetFlags converts repeated key=value flags into default options.
// Values go through the YAML scalar parser so "8" becomes an int and
// "true" a bool, matching how preset files type their values.
func parseSetFlags(flags []string) (map[string]any, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(flags))
	for _, kv := range flags {
		key, rawVal, found := strings.Cut(kv, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --set %q: expected key=value", kv)
		}
		var val any
		if err := yaml.Unmarshal([]byte(rawVal), &val); err != nil {
			return nil, fmt.Errorf("invalid --set %q: %w", kv, err)
		}
		out[key] = val
	}
	return out, nil
}

// paramName renders the adapter parameter name for a module path using the
// kohya-style convention: prefix joined with the underscored path.
func paramName(prefix, path string) string {
	flat := strings.ReplaceAll(path, ".", "_")
	if prefix == "" {
		return flat
	}
	return prefix + "_" + flat
}
