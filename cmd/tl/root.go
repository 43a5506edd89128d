package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/tool-layer/internal/messages"
	"github.com/conn-castle/tool-layer/internal/root"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		Long:          messages.RootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newInstallCmd())
	cmd.AddCommand(newPlatformCmd())
	cmd.AddCommand(newRecipesCmd())
	return cmd
}

// resolveRepoRoot returns the directory containing .tool-layer or fails if missing.
func resolveRepoRoot() (string, error) {
	cwd, err := getwd()
	if err != nil {
		return "", err
	}
	repoRoot, found, err := root.FindToolLayerRoot(cwd)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf(messages.CLIRecipesDirMissingFmt, cwd)
	}
	return repoRoot, nil
}
