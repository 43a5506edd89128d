// Package recipe holds declarative tool definitions and computes
// dependency-ordered install sequences.
package recipe

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/conn-castle/tool-layer/internal/hooks"
	"github.com/conn-castle/tool-layer/internal/messages"
	"github.com/conn-castle/tool-layer/internal/platform"
	"github.com/conn-castle/tool-layer/internal/repotrust"
	"github.com/conn-castle/tool-layer/internal/version"
)

// OverrideContext is what a custom install procedure gets to work with.
type OverrideContext struct {
	Platform platform.Platform
	// BinDir is the user-local executable directory.
	BinDir string
}

// OverrideFunc is a recipe-specific install procedure. When set it
// supersedes PackageNames entirely.
type OverrideFunc func(ctx context.Context, octx OverrideContext) error

// Source names the remote release source for binary-fetch installs and
// version resolution, in "owner/repo" form.
type Source struct {
	Repo string `toml:"repo" yaml:"repo"`
}

// Recipe is the declarative description of one installable tool.
type Recipe struct {
	// Name uniquely identifies the recipe.
	Name string
	// Provides lists the commands the tool puts on PATH; must be non-empty.
	Provides []string
	// Depends names recipes that must be provisioned first.
	Depends []string
	// PackageNames maps a package manager onto the package list it installs.
	PackageNames map[platform.Manager][]string
	// InstallOverride supersedes PackageNames when present.
	InstallOverride OverrideFunc
	// RepoRequirement is a trusted repository that must exist before the
	// manager install can succeed.
	RepoRequirement *repotrust.Descriptor
	// Hooks binds recipe-specific callbacks to lifecycle events.
	Hooks map[hooks.Event]hooks.Hook
	// Source is the release source for binary fetch and version lookup.
	Source *Source
	// Pin is the minimum acceptable version, empty for none.
	Pin string
	// Binary is the executable name inside a fetched archive; defaults to
	// the first Provides entry.
	Binary string
}

// knownManagers is the closed set of manager ids a recipe may reference.
var knownManagers = map[platform.Manager]bool{
	platform.ManagerApt:    true,
	platform.ManagerDnf:    true,
	platform.ManagerPacman: true,
	platform.ManagerBrew:   true,
	platform.ManagerNpm:    true,
	platform.ManagerPipx:   true,
	platform.ManagerCargo:  true,
}

// Validate rejects malformed recipes at registration time rather than deep
// inside installation.
func (r Recipe) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New(messages.RecipeNameRequired)
	}
	if len(r.Provides) == 0 {
		return fmt.Errorf(messages.RecipeProvidesRequiredFmt, r.Name)
	}
	for manager, packages := range r.PackageNames {
		if !knownManagers[manager] {
			return fmt.Errorf(messages.RecipeUnknownManagerFmt, r.Name, manager)
		}
		if len(packages) == 0 {
			return fmt.Errorf(messages.RecipeEmptyPackageListFmt, r.Name, manager)
		}
	}
	if r.Pin != "" {
		if _, err := version.Parse(r.Pin); err != nil {
			return fmt.Errorf(messages.RecipeInvalidPinFmt, r.Name, err)
		}
	}
	for _, dep := range r.Depends {
		if dep == r.Name {
			return fmt.Errorf(messages.RecipeSelfDependencyFmt, r.Name)
		}
	}
	if r.RepoRequirement != nil {
		if err := r.RepoRequirement.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// BinaryName returns the executable expected inside a fetched archive.
func (r Recipe) BinaryName() string {
	if r.Binary != "" {
		return r.Binary
	}
	return r.Provides[0]
}

// equal reports whether two recipes are the same definition. Function-typed
// fields compare by identity since behavior cannot be compared.
func (r Recipe) equal(other Recipe) bool {
	if r.Name != other.Name ||
		!equalStrings(r.Provides, other.Provides) ||
		!equalStrings(sortedCopy(r.Depends), sortedCopy(other.Depends)) ||
		r.Pin != other.Pin ||
		r.Binary != other.Binary {
		return false
	}
	if !reflect.DeepEqual(r.PackageNames, other.PackageNames) {
		return false
	}
	if !reflect.DeepEqual(r.Source, other.Source) {
		return false
	}
	if !reflect.DeepEqual(r.RepoRequirement, other.RepoRequirement) {
		return false
	}
	if reflect.ValueOf(r.InstallOverride).Pointer() != reflect.ValueOf(other.InstallOverride).Pointer() {
		return false
	}
	if len(r.Hooks) != len(other.Hooks) {
		return false
	}
	for event, hook := range r.Hooks {
		otherHook, ok := other.Hooks[event]
		if !ok || reflect.ValueOf(hook).Pointer() != reflect.ValueOf(otherHook).Pointer() {
			return false
		}
	}
	return true
}

func equalStrings(left []string, right []string) bool {
	if len(left) != len(right) {
		return false
	}
	for i, value := range left {
		if value != right[i] {
			return false
		}
	}
	return true
}

func sortedCopy(values []string) []string {
	out := append([]string(nil), values...)
	sort.Strings(out)
	return out
}
