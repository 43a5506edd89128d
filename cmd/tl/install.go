package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/tool-layer/internal/engine"
	"github.com/conn-castle/tool-layer/internal/envcfg"
	"github.com/conn-castle/tool-layer/internal/hooks"
	"github.com/conn-castle/tool-layer/internal/messages"
	"github.com/conn-castle/tool-layer/internal/platform"
	"github.com/conn-castle/tool-layer/internal/recipe"
	"github.com/conn-castle/tool-layer/internal/release"
	"github.com/conn-castle/tool-layer/internal/repotrust"
	"github.com/conn-castle/tool-layer/internal/root"
	"github.com/conn-castle/tool-layer/internal/terminal"
)

var detectPlatformFunc = func() platform.Platform {
	return platform.Detect(platform.RealSystem{})
}

func newInstallCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   messages.InstallUse,
		Short: messages.InstallShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !all {
				return errors.New(messages.CLINothingRequested)
			}
			repoRoot, err := resolveRepoRoot()
			if err != nil {
				return err
			}
			registry, err := loadRegistry(repoRoot)
			if err != nil {
				return err
			}
			requested := args
			if all {
				requested = registry.Names()
			}
			cfg, err := envcfg.Load(repoRoot)
			if err != nil {
				return err
			}

			eng := &engine.Engine{
				Registry: registry,
				Oracle:   release.NewClient(cfg),
				Trust:    repotrust.NewProvisioner(repotrust.RealSystem{}),
				Bus:      hooks.NewBus(),
				Env:      cfg,
				Platform: detectPlatformFunc(),
				Sys:      engine.RealSystem{},
				Out:      cmd.ErrOrStderr(),
			}
			report, err := eng.Run(cmd.Context(), requested)
			if err != nil {
				return err
			}

			if !terminal.IsInteractive() {
				color.NoColor = true
			}
			renderReport(cmd.OutOrStdout(), report)
			if report.Failed() {
				return &SilentExitError{Code: 1}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, messages.InstallAllFlag, false, messages.InstallAllFlagDesc)
	return cmd
}

// loadRegistry reads every recipe declaration under .tool-layer/recipes.
func loadRegistry(repoRoot string) (*recipe.Registry, error) {
	registry := recipe.NewRegistry()
	recipesDir := filepath.Join(repoRoot, root.ConfigDirName, "recipes")
	if err := recipe.LoadDir(registry, recipesDir); err != nil {
		return nil, err
	}
	return registry, nil
}

// renderReport writes the per-recipe outcome lines and a one-line summary.
func renderReport(out io.Writer, report engine.RunReport) {
	_, _ = fmt.Fprintf(out, messages.RunHeaderFmt,
		len(report.Results), report.Platform.OS, report.Platform.Arch, report.ID)
	for _, result := range report.Results {
		_, _ = fmt.Fprintf(out, messages.RunResultLineFmt,
			statusLabel(result.Status), result.Name, result.Detail)
	}
	if report.Failed() {
		_, _ = fmt.Fprintln(out, color.RedString(messages.RunFailureSummary))
		return
	}
	_, _ = fmt.Fprintln(out, color.GreenString(messages.RunSuccessSummary))
}

func statusLabel(status engine.Status) string {
	switch status {
	case engine.StatusInstalled:
		return color.GreenString(messages.StatusInstalledLabel)
	case engine.StatusUpgraded:
		return color.GreenString(messages.StatusUpgradedLabel)
	case engine.StatusSkipped:
		return color.YellowString(messages.StatusSkippedLabel)
	case engine.StatusSkippedDependency:
		return color.YellowString(messages.StatusSkippedDepLabel)
	default:
		return color.RedString(messages.StatusFailedLabel)
	}
}
