package release

import "github.com/conn-castle/tool-layer/internal/version"

// ResolveTarget decides the version a recipe should end up at.
//
// When installed already satisfies both the pinned minimum and the latest
// known release it is returned unchanged, which is what makes a repeated run
// an idempotent no-op. Otherwise the target is the greater of pin and latest.
// pin and installed may be nil when unknown.
func ResolveTarget(latest version.Version, pin *version.Version, installed *version.Version) version.Version {
	if installed != nil {
		satisfiesPin := pin == nil || version.Compare(*installed, *pin) >= 0
		satisfiesLatest := latest.IsZero() || version.Compare(*installed, latest) >= 0
		if satisfiesPin && satisfiesLatest {
			return *installed
		}
	}
	if pin != nil && (latest.IsZero() || version.Compare(*pin, latest) > 0) {
		return *pin
	}
	return latest
}
