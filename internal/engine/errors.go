package engine

import (
	"errors"
	"fmt"

	"github.com/conn-castle/tool-layer/internal/asset"
	"github.com/conn-castle/tool-layer/internal/messages"
	"github.com/conn-castle/tool-layer/internal/release"
	"github.com/conn-castle/tool-layer/internal/repotrust"
)

// NoInstallStrategyError reports that no acquisition path exists for a recipe
// on this host: no override, no available manager with a package entry, and no
// release source.
type NoInstallStrategyError struct {
	Recipe string
}

func (e *NoInstallStrategyError) Error() string {
	return fmt.Sprintf(messages.EngineNoStrategyFmt, e.Recipe)
}

// VerificationError reports that a recipe's install step completed but the
// promised commands do not work as required.
type VerificationError struct {
	Recipe  string
	Command string
	// Got and Want carry versions for pin violations; empty for missing commands.
	Got  string
	Want string
}

func (e *VerificationError) Error() string {
	if e.Got != "" || e.Want != "" {
		return fmt.Sprintf(messages.EngineVerifyVersionFmt, e.Recipe, e.Command, e.Got, e.Want)
	}
	return fmt.Sprintf(messages.EngineVerifyMissingFmt, e.Recipe, e.Command)
}

// Error kinds surfaced per failed recipe. Reports carry a kind rather than a
// Go type so renderers never need the error taxonomy.
const (
	KindVersionResolution = "version_resolution"
	KindNoCompatibleAsset = "no_compatible_asset"
	KindKeyFetch          = "key_fetch"
	KindNoInstallStrategy = "no_install_strategy"
	KindVerification      = "verification"
	KindDeadline          = "deadline"
	KindInstall           = "install"
)

// errorKind classifies a recipe-scoped failure.
func errorKind(err error) string {
	var resolution *release.ResolutionError
	if errors.As(err, &resolution) {
		return KindVersionResolution
	}
	var noAsset *asset.NoCompatibleAssetError
	if errors.As(err, &noAsset) {
		return KindNoCompatibleAsset
	}
	var keyFetch *repotrust.KeyFetchError
	if errors.As(err, &keyFetch) {
		return KindKeyFetch
	}
	var noStrategy *NoInstallStrategyError
	if errors.As(err, &noStrategy) {
		return KindNoInstallStrategy
	}
	var verify *VerificationError
	if errors.As(err, &verify) {
		return KindVerification
	}
	return KindInstall
}
