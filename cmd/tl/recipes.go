package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conn-castle/tool-layer/internal/messages"
)

func newRecipesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.RecipesUse,
		Short: messages.RecipesShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			repoRoot, err := resolveRepoRoot()
			if err != nil {
				return err
			}
			registry, err := loadRegistry(repoRoot)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			names := registry.Names()
			if len(names) == 0 {
				_, _ = fmt.Fprintln(out, messages.RecipesNoneRegistered)
				return nil
			}
			for _, name := range names {
				r, _ := registry.Get(name)
				_, _ = fmt.Fprintf(out, messages.RecipesLineFmt, r.Name, strings.Join(r.Provides, ", "))
				if len(r.Depends) > 0 {
					_, _ = fmt.Fprintf(out, messages.RecipesDependsFmt, "", strings.Join(r.Depends, ", "))
				}
			}
			return nil
		},
	}
}
