package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conn-castle/tool-layer/internal/messages"
)

func newPlatformCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.PlatformUse,
		Short: messages.PlatformShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			plat := detectPlatformFunc()

			_, _ = fmt.Fprintf(out, messages.PlatformOSFmt, plat.OS)
			_, _ = fmt.Fprintf(out, messages.PlatformArchFmt, plat.Arch)
			if plat.Distro != "" {
				_, _ = fmt.Fprintf(out, messages.PlatformDistroFmt, plat.Distro)
			}
			if plat.Codename != "" {
				_, _ = fmt.Fprintf(out, messages.PlatformCodenameFmt, plat.Codename)
			}
			if len(plat.Managers) == 0 {
				_, _ = fmt.Fprintln(out, messages.PlatformNoManagers)
				return nil
			}
			names := make([]string, len(plat.Managers))
			for i, manager := range plat.Managers {
				names[i] = string(manager)
			}
			_, _ = fmt.Fprintf(out, messages.PlatformManagersFmt, strings.Join(names, ", "))
			return nil
		},
	}
}
