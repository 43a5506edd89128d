// Package messages centralizes user-visible strings and error formats.
package messages

// CLI messages for the tl command tree.
const (
	RootUse   = "tl"
	RootShort = "tl provisions command-line tools declaratively and idempotently"
	RootLong  = "tl reads declarative tool recipes, inspects the host, and installs,\n" +
		"upgrades, or skips each requested tool. Re-running against an already\n" +
		"correct system performs no mutating action."

	InstallUse         = "install [recipe...]"
	InstallShort       = "Install or upgrade the requested recipes"
	InstallAllFlag     = "all"
	InstallAllFlagDesc = "install every registered recipe"

	PlatformUse   = "platform"
	PlatformShort = "Show the detected OS family, architecture, and package managers"

	RecipesUse   = "recipes"
	RecipesShort = "List registered recipes and their dependencies"

	VersionTemplate  = "tl {{.Version}}\n"
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"

	RunHeaderFmt      = "Provisioning %d recipe(s) on %s/%s (run %s)\n"
	RunResultLineFmt  = "%s %-16s %s\n"
	RunFailureSummary = "One or more recipes failed."
	RunSuccessSummary = "All recipes provisioned."

	StatusInstalledLabel  = "[INSTALLED]"
	StatusUpgradedLabel   = "[UPGRADED] "
	StatusSkippedLabel    = "[SKIPPED]  "
	StatusSkippedDepLabel = "[SKIPPED]  "
	StatusFailedLabel     = "[FAILED]   "

	PlatformOSFmt       = "os family:    %s\n"
	PlatformArchFmt     = "architecture: %s\n"
	PlatformDistroFmt   = "distro:       %s\n"
	PlatformCodenameFmt = "codename:     %s\n"
	PlatformManagersFmt = "managers:     %s\n"
	PlatformNoManagers  = "managers:     none (binary fetch only)"

	RecipesLineFmt        = "%-16s provides %s\n"
	RecipesDependsFmt     = "%-16s   depends on %s\n"
	RecipesNoneRegistered = "no recipes registered"

	CLIRecipesDirMissingFmt = "no .tool-layer directory found above %s"
	CLINothingRequested     = "nothing requested: pass recipe names or --all"
)
