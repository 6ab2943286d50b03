package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/adapter-tools/internal/algo"
)

// newAlgosCmd builds the "algos" command group for registry introspection.
func newAlgosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "algos",
		Short: "Inspect the adapter algorithm registry",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every known adapter algorithm",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, spec := range algo.List() {
				fmt.Printf("%-12s %s\n", spec.Name, spec.Description)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "describe NAME",
		Short: "Show the hyperparameters an algorithm accepts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := algo.Describe(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Name:        %s\n", spec.Name)
			fmt.Printf("Description: %s\n", spec.Description)
			supported := "none"
			if len(spec.SupportedArgs) > 0 {
				supported = strings.Join(spec.SupportedArgs, ", ")
			}
			fmt.Printf("Arguments:   %s\n", supported)
			if len(spec.RequiredArgs) > 0 {
				fmt.Printf("Required:    %s\n", strings.Join(spec.RequiredArgs, ", "))
			}
			if spec.Notes != "" {
				fmt.Printf("Notes:       %s\n", spec.Notes)
			}
			return nil
		},
	})

	return cmd
}
