package messages

// Recipe messages for registry validation and dependency resolution.
const (
	RecipeNameRequired        = "recipe name is required"
	RecipeProvidesRequiredFmt = "recipe %s: provides must not be empty"
	RecipeUnknownManagerFmt   = "recipe %s: unknown package manager %q"
	RecipeEmptyPackageListFmt = "recipe %s: manager %s has an empty package list"
	RecipeInvalidPinFmt       = "recipe %s: invalid pin: %v"
	RecipeSelfDependencyFmt   = "recipe %s: depends on itself"

	RecipeDuplicateFmt = "recipe %s is already registered with a different definition"
	RecipeUnknownFmt   = "recipe %s (required by %s) is not registered"
	RecipeCycleFmt     = "dependency cycle: %s"
	RecipeNotRequested = "no recipes requested"

	RecipeLoadFileFmt      = "load recipe file %s: %w"
	RecipeParseFileFmt     = "parse recipe file %s: %w"
	RecipeUnknownFormatFmt = "recipe file %s: unsupported extension"
)
