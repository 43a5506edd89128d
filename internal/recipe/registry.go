package recipe

import (
	"fmt"
	"sort"
	"strings"

	"github.com/conn-castle/tool-layer/internal/messages"
)

// DuplicateRecipeError reports a conflicting registration under an existing name.
type DuplicateRecipeError struct {
	Name string
}

func (e *DuplicateRecipeError) Error() string {
	return fmt.Sprintf(messages.RecipeDuplicateFmt, e.Name)
}

// UnknownRecipeError reports a dependency on a name that is not registered.
type UnknownRecipeError struct {
	Name       string
	RequiredBy string
}

func (e *UnknownRecipeError) Error() string {
	return fmt.Sprintf(messages.RecipeUnknownFmt, e.Name, e.RequiredBy)
}

// CyclicDependencyError names the recipes participating in a dependency cycle.
type CyclicDependencyError struct {
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf(messages.RecipeCycleFmt, strings.Join(e.Cycle, " -> "))
}

// Registry owns the static recipe definitions for a run. Definitions are
// loaded once at start from arbitrarily many declaration sites and merged.
type Registry struct {
	recipes map[string]Recipe
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{recipes: make(map[string]Recipe)}
}

// Register adds r after validation. Re-registering an identical recipe is a
// no-op; a conflicting definition under the same name fails.
func (g *Registry) Register(r Recipe) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if existing, ok := g.recipes[r.Name]; ok {
		if existing.equal(r) {
			return nil
		}
		return &DuplicateRecipeError{Name: r.Name}
	}
	g.recipes[r.Name] = r
	return nil
}

// Get returns the recipe registered under name.
func (g *Registry) Get(name string) (Recipe, bool) {
	r, ok := g.recipes[name]
	return r, ok
}

// Names returns all registered recipe names, sorted.
func (g *Registry) Names() []string {
	names := make([]string, 0, len(g.recipes))
	for name := range g.recipes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveOrder expands the transitive dependency closure of requested and
// topologically sorts it so every recipe follows all its dependencies.
// Among recipes whose dependencies are all satisfied, order is alphabetical,
// which makes the result deterministic for a given registry and request.
func (g *Registry) ResolveOrder(requested []string) ([]Recipe, error) {
	if len(requested) == 0 {
		return nil, fmt.Errorf(messages.RecipeNotRequested)
	}

	closure := make(map[string]bool)
	var expand func(name string, requiredBy string) error
	expand = func(name string, requiredBy string) error {
		if closure[name] {
			return nil
		}
		r, ok := g.recipes[name]
		if !ok {
			return &UnknownRecipeError{Name: name, RequiredBy: requiredBy}
		}
		closure[name] = true
		for _, dep := range r.Depends {
			if err := expand(dep, name); err != nil {
				return err
			}
		}
		return nil
	}
	for _, name := range requested {
		if err := expand(name, "request"); err != nil {
			return nil, err
		}
	}

	// Kahn's algorithm over the closure with an alphabetical ready set.
	pending := make(map[string]int, len(closure))
	for name := range closure {
		pending[name] = len(g.recipes[name].Depends)
	}

	ordered := make([]Recipe, 0, len(closure))
	for len(pending) > 0 {
		var ready []string
		for name, remaining := range pending {
			if remaining == 0 {
				ready = append(ready, name)
			}
		}
		if len(ready) == 0 {
			return nil, &CyclicDependencyError{Cycle: remainingCycle(g, pending)}
		}
		sort.Strings(ready)
		for _, name := range ready {
			ordered = append(ordered, g.recipes[name])
			delete(pending, name)
		}
		for name := range pending {
			count := 0
			for _, dep := range g.recipes[name].Depends {
				if _, stillPending := pending[dep]; stillPending {
					count++
				}
			}
			pending[name] = count
		}
	}
	return ordered, nil
}

// remainingCycle walks the unresolved recipes to surface one concrete cycle.
func remainingCycle(g *Registry, pending map[string]int) []string {
	start := ""
	for name := range pending {
		if start == "" || name < start {
			start = name
		}
	}

	seen := map[string]int{}
	var path []string
	current := start
	for {
		if at, ok := seen[current]; ok {
			cycle := append([]string(nil), path[at:]...)
			return append(cycle, current)
		}
		seen[current] = len(path)
		path = append(path, current)

		next := ""
		for _, dep := range g.recipes[current].Depends {
			if _, stillPending := pending[dep]; stillPending {
				next = dep
				break
			}
		}
		if next == "" {
			// Should not happen: every pending recipe has a pending dependency.
			return path
		}
		current = next
	}
}
