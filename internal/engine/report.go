package engine

import (
	"github.com/conn-castle/tool-layer/internal/platform"
)

// Status is a per-recipe run outcome.
type Status string

// Recipe outcomes. StatusSkippedDependency means a dependency failed and this
// recipe was never attempted.
const (
	StatusInstalled         Status = "INSTALLED"
	StatusUpgraded          Status = "UPGRADED"
	StatusSkipped           Status = "SKIPPED"
	StatusSkippedDependency Status = "SKIPPED_DEPENDENCY"
	StatusFailed            Status = "FAILED"
)

// RecipeResult records what happened to one recipe during a run.
type RecipeResult struct {
	Name   string
	Status Status
	// Installed is the version detected before the run, empty when absent or
	// unprobeable.
	Installed string
	// Target is the resolved target version, empty when no pin or source
	// constrains the recipe.
	Target string
	// Detail is a one-line human explanation of the outcome.
	Detail string
	// ErrorKind classifies Err for renderers; empty unless Status is FAILED.
	ErrorKind string
	Err       error
	// HookErrors lists hook failures observed for this recipe. Hook failures
	// never change Status.
	HookErrors []string
}

// RunReport is the full outcome of one engine run.
type RunReport struct {
	// ID uniquely identifies the run in logs and hook contexts.
	ID       string
	Platform platform.Platform
	Results  []RecipeResult
}

// Failed reports whether any recipe failed or was skipped for a failed
// dependency.
func (r RunReport) Failed() bool {
	for _, result := range r.Results {
		if result.Status == StatusFailed || result.Status == StatusSkippedDependency {
			return true
		}
	}
	return false
}
