package messages

// Engine messages for orchestrator decisions and per-recipe failures.
const (
	EngineNoStrategyFmt       = "no install strategy for %s: no override, no available manager has a package entry, no release source"
	EngineVerifyMissingFmt    = "verification failed for %s: %s not found on PATH"
	EngineVerifyVersionFmt    = "verification failed for %s: %s reports %s, expected at least %s"
	EngineManagerInstallFmt   = "%s install via %s: %w"
	EngineOverrideFmt         = "%s install override: %w"
	EngineExtractFmt          = "extract %s: %w"
	EngineBinaryMissingFmt    = "binary %s not found in downloaded archive"
	EngineInstallBinaryFmt    = "install binary %s: %w"
	EngineRunDeadline         = "run deadline reached before this recipe started"
	EngineDependencyFailedFmt = "dependency %s failed"

	EngineAlreadySatisfiedFmt = "already at %s"
	EngineAlreadyInstalled    = "already installed"
	EngineInstalledFmt        = "installed %s"
	EngineInstalled           = "installed"
	EngineUpgradedFmt         = "upgraded %s -> %s"

	EngineHookFailedFmt = "hook error (recipe unaffected): %v\n"
)
