// Package engine orchestrates recipe installation: it derives installation
// state from the host, decides skip, install, or upgrade per recipe, applies
// the first viable acquisition strategy, and verifies the outcome.
package engine

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/conn-castle/tool-layer/internal/envcfg"
	"github.com/conn-castle/tool-layer/internal/hooks"
	"github.com/conn-castle/tool-layer/internal/messages"
	"github.com/conn-castle/tool-layer/internal/platform"
	"github.com/conn-castle/tool-layer/internal/recipe"
	"github.com/conn-castle/tool-layer/internal/release"
	"github.com/conn-castle/tool-layer/internal/repotrust"
	"github.com/conn-castle/tool-layer/internal/version"
)

// Oracle resolves release metadata and downloads artifacts.
type Oracle interface {
	Latest(ctx context.Context, source string) (release.Release, error)
	Download(ctx context.Context, url string, dest string) error
}

// Trust registers trusted package repositories idempotently.
type Trust interface {
	Ensure(ctx context.Context, desc repotrust.Descriptor, plat platform.Platform) (repotrust.Status, error)
}

// Engine runs recipes in dependency order against one host. Recipes are
// processed sequentially; installation mutates shared system state, so there
// is nothing safe to parallelize.
type Engine struct {
	Registry *recipe.Registry
	Oracle   Oracle
	Trust    Trust
	// Bus carries run-wide hooks; recipe-bound hooks fire alongside it.
	Bus      *hooks.Bus
	Env      envcfg.Config
	Platform platform.Platform
	Sys      System
	// Out receives hook failure notices. Hook failures never change a
	// recipe's outcome.
	Out io.Writer
}

// Run provisions the requested recipes plus their dependency closure.
//
// Registry-time errors (unknown recipe, cycle) abort before any installation
// begins. Recipe-scoped failures are recorded per recipe; the run continues
// with remaining independent recipes, and dependents of a failed recipe are
// skipped rather than attempted.
func (e *Engine) Run(ctx context.Context, requested []string) (RunReport, error) {
	report := RunReport{ID: uuid.NewString(), Platform: e.Platform}

	e.fireBus(hooks.EventPreDependencyResolution, hooks.Context{Platform: e.Platform}, nil)
	ordered, err := e.Registry.ResolveOrder(requested)
	if err != nil {
		return report, err
	}
	e.fireBus(hooks.EventPostDependencyResolution, hooks.Context{Platform: e.Platform}, nil)

	failed := make(map[string]bool)
	for _, r := range ordered {
		if blocker := firstFailedDependency(r, failed); blocker != "" {
			failed[r.Name] = true
			report.Results = append(report.Results, RecipeResult{
				Name:   r.Name,
				Status: StatusSkippedDependency,
				Detail: fmt.Sprintf(messages.EngineDependencyFailedFmt, blocker),
			})
			continue
		}
		if ctx.Err() != nil {
			failed[r.Name] = true
			report.Results = append(report.Results, RecipeResult{
				Name:      r.Name,
				Status:    StatusFailed,
				ErrorKind: KindDeadline,
				Detail:    messages.EngineRunDeadline,
				Err:       ctx.Err(),
			})
			continue
		}

		result := e.provision(ctx, r)
		if result.Status == StatusFailed {
			failed[r.Name] = true
		}
		report.Results = append(report.Results, result)
	}
	return report, nil
}

// provision handles one recipe end to end. All errors it observes are
// recipe-scoped by construction; fatal errors were rejected during
// resolution.
func (e *Engine) provision(ctx context.Context, r recipe.Recipe) RecipeResult {
	result := RecipeResult{Name: r.Name}

	state := e.deriveState(ctx, r)
	if state.Installed != nil {
		result.Installed = state.Installed.String()
	}

	var latest release.Release
	if r.Source != nil {
		resolved, err := e.Oracle.Latest(ctx, r.Source.Repo)
		if err != nil {
			return e.fail(result, err)
		}
		latest = resolved
	}
	var pin *version.Version
	if r.Pin != "" {
		pinned := version.MustParse(r.Pin)
		pin = &pinned
	}
	target := release.ResolveTarget(latest.Version, pin, state.Installed)
	if !target.IsZero() {
		result.Target = target.String()
	}

	if state.Present && satisfies(state, target) {
		result.Status = StatusSkipped
		result.Detail = skipDetail(state)
		return result
	}

	if r.RepoRequirement != nil {
		if _, err := e.Trust.Ensure(ctx, *r.RepoRequirement, e.Platform); err != nil {
			return e.fail(result, err)
		}
	}

	e.fireRecipeHooks(hooks.EventPreInstall, r, "", &result)

	if err := e.install(ctx, r, latest); err != nil {
		result = e.fail(result, err)
		e.fireRecipeHooks(hooks.EventPostInstall, r, StatusFailed, &result)
		return result
	}
	if err := e.verify(ctx, r); err != nil {
		result = e.fail(result, err)
		e.fireRecipeHooks(hooks.EventPostInstall, r, StatusFailed, &result)
		return result
	}

	if state.Present {
		result.Status = StatusUpgraded
		result.Detail = fmt.Sprintf(messages.EngineUpgradedFmt, orUnknown(result.Installed), target)
	} else {
		result.Status = StatusInstalled
		if target.IsZero() {
			result.Detail = messages.EngineInstalled
		} else {
			result.Detail = fmt.Sprintf(messages.EngineInstalledFmt, target)
		}
	}
	e.fireRecipeHooks(hooks.EventPostInstall, r, result.Status, &result)
	return result
}

// install applies the first viable acquisition strategy. An install override
// supersedes package entries when present; otherwise the first available
// manager with a package entry wins, in platform preference order; a release
// source is the fallback when no manager applies.
func (e *Engine) install(ctx context.Context, r recipe.Recipe, latest release.Release) error {
	if r.InstallOverride != nil {
		octx := recipe.OverrideContext{Platform: e.Platform, BinDir: e.Env.BinDir}
		if err := r.InstallOverride(ctx, octx); err != nil {
			return fmt.Errorf(messages.EngineOverrideFmt, r.Name, err)
		}
		return nil
	}
	for _, manager := range e.Platform.Managers {
		packages, ok := r.PackageNames[manager]
		if !ok {
			continue
		}
		args := installArgs(manager, packages)
		if _, err := e.Sys.RunCommand(ctx, manager.Binary(), args...); err != nil {
			return fmt.Errorf(messages.EngineManagerInstallFmt, r.Name, manager, err)
		}
		return nil
	}
	if r.Source != nil {
		return e.fetchBinary(ctx, r, latest)
	}
	return &NoInstallStrategyError{Recipe: r.Name}
}

// verify confirms every promised command resolves, and that a pinned recipe
// actually reports a satisfying version.
func (e *Engine) verify(ctx context.Context, r recipe.Recipe) error {
	for _, command := range r.Provides {
		if _, err := e.Sys.LookPath(command); err != nil {
			return &VerificationError{Recipe: r.Name, Command: command}
		}
	}
	if r.Pin != "" {
		want := version.MustParse(r.Pin)
		if probed := e.probeVersion(ctx, r.Provides[0]); probed != nil && version.Compare(*probed, want) < 0 {
			return &VerificationError{
				Recipe:  r.Name,
				Command: r.Provides[0],
				Got:     probed.String(),
				Want:    want.String(),
			}
		}
	}
	return nil
}

// installArgs builds the non-interactive install invocation for a manager.
func installArgs(manager platform.Manager, packages []string) []string {
	switch manager {
	case platform.ManagerApt, platform.ManagerDnf:
		return append([]string{"install", "-y"}, packages...)
	case platform.ManagerPacman:
		return append([]string{"-S", "--noconfirm", "--needed"}, packages...)
	case platform.ManagerNpm:
		return append([]string{"install", "-g"}, packages...)
	}
	return append([]string{"install"}, packages...)
}

// satisfies reports whether the present installation meets the target. An
// unprobeable version is treated as satisfying: re-running against a tool
// that cannot report its version must not mutate the host every time.
func satisfies(state InstallationState, target version.Version) bool {
	if target.IsZero() {
		return true
	}
	if state.Installed == nil {
		return true
	}
	return version.Compare(*state.Installed, target) >= 0
}

func skipDetail(state InstallationState) string {
	if state.Installed == nil {
		return messages.EngineAlreadyInstalled
	}
	return fmt.Sprintf(messages.EngineAlreadySatisfiedFmt, state.Installed)
}

func (e *Engine) fail(result RecipeResult, err error) RecipeResult {
	result.Status = StatusFailed
	result.Err = err
	result.ErrorKind = errorKind(err)
	result.Detail = err.Error()
	return result
}

// fireRecipeHooks runs bus hooks for event, then the recipe's own hook.
func (e *Engine) fireRecipeHooks(event hooks.Event, r recipe.Recipe, status Status, result *RecipeResult) {
	hctx := hooks.Context{Recipe: r.Name, Status: string(status), Platform: e.Platform}
	e.fireBus(event, hctx, result)
	if bound, ok := r.Hooks[event]; ok && bound != nil {
		one := hooks.NewBus()
		one.Add(event, r.Name, bound)
		e.recordHookFailures(one.Fire(event, hctx), result)
	}
}

func (e *Engine) fireBus(event hooks.Event, hctx hooks.Context, result *RecipeResult) {
	if e.Bus == nil {
		return
	}
	e.recordHookFailures(e.Bus.Fire(event, hctx), result)
}

func (e *Engine) recordHookFailures(failures []hooks.HookError, result *RecipeResult) {
	for _, failure := range failures {
		if result != nil {
			result.HookErrors = append(result.HookErrors, failure.Error())
		}
		if e.Out != nil {
			fmt.Fprintf(e.Out, messages.EngineHookFailedFmt, failure)
		}
	}
}

// firstFailedDependency returns the name of a failed direct dependency,
// preferring declaration order, or "" when none failed.
func firstFailedDependency(r recipe.Recipe, failed map[string]bool) string {
	for _, dep := range r.Depends {
		if failed[dep] {
			return dep
		}
	}
	return ""
}

func orUnknown(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
