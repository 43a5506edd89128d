package engine

import (
	"context"
	"regexp"

	"github.com/conn-castle/tool-layer/internal/recipe"
	"github.com/conn-castle/tool-layer/internal/version"
)

// versionPattern extracts the first version-looking token from a tool's
// --version output, e.g. "ripgrep 13.0.0 (rev ...)" or "v1.7.1-rc2".
var versionPattern = regexp.MustCompile(`\d+(\.\d+)+(-[0-9A-Za-z.]+)?`)

// InstallationState is derived fresh from the host on every run. It is never
// cached or persisted; the filesystem and PATH are the only source of truth.
type InstallationState struct {
	// Present is true when every command the recipe provides resolves on PATH.
	Present bool
	// Installed is the probed version of the first provided command, nil when
	// the tool is absent or does not report a parseable version.
	Installed *version.Version
}

// deriveState inspects the host for the recipe's commands and version.
func (e *Engine) deriveState(ctx context.Context, r recipe.Recipe) InstallationState {
	for _, command := range r.Provides {
		if _, err := e.Sys.LookPath(command); err != nil {
			return InstallationState{}
		}
	}
	return InstallationState{
		Present:   true,
		Installed: e.probeVersion(ctx, r.Provides[0]),
	}
}

// probeVersion asks command for its version and parses the first token that
// looks like one. Probe failures are not errors; the version is just unknown.
func (e *Engine) probeVersion(ctx context.Context, command string) *version.Version {
	out, err := e.Sys.RunCommand(ctx, command, "--version")
	if err != nil {
		return nil
	}
	match := versionPattern.FindString(out)
	if match == "" {
		return nil
	}
	parsed, err := version.Parse(match)
	if err != nil {
		return nil
	}
	return &parsed
}
