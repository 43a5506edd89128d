// Package asset filters a release's downloadable artifacts down to the one
// compatible with the host OS and architecture.
package asset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/conn-castle/tool-layer/internal/platform"
)

// Asset is a single downloadable release artifact.
type Asset struct {
	Name string `json:"name"`
	URL  string `json:"browser_download_url"`
}

// ArchiveKind classifies how an asset is packaged.
type ArchiveKind string

// Recognized archive kinds. KindBinary means a bare executable.
const (
	KindTarGz  ArchiveKind = "tar.gz"
	KindZip    ArchiveKind = "zip"
	KindBinary ArchiveKind = "binary"
)

// Kind derives the archive kind from the asset filename.
func (a Asset) Kind() ArchiveKind {
	name := strings.ToLower(a.Name)
	switch {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return KindTarGz
	case strings.HasSuffix(name, ".zip"):
		return KindZip
	}
	return KindBinary
}

// NoCompatibleAssetError reports that no asset survived OS/arch filtering.
// Selection never guesses: zero survivors is a hard failure.
type NoCompatibleAssetError struct {
	OS       platform.OSFamily
	Arch     platform.Arch
	Searched []string
}

func (e *NoCompatibleAssetError) Error() string {
	return fmt.Sprintf("no release asset compatible with %s/%s (searched %s)",
		e.OS, e.Arch, strings.Join(e.Searched, ", "))
}

// osAliases maps each OS family onto the filename tokens that identify it.
var osAliases = map[platform.OSFamily][]string{
	platform.OSDarwin: {"darwin", "macos", "macosx", "osx"},
	platform.OSDebian: {"linux"},
	platform.OSFedora: {"linux"},
	platform.OSArch:   {"linux"},
	platform.OSPOSIX:  {"linux"},
}

// archAliases maps each architecture onto the filename tokens that identify it.
var archAliases = map[platform.Arch][]string{
	platform.ArchAMD64: {"amd64", "x86_64", "x64"},
	platform.ArchARM64: {"arm64", "aarch64"},
}

// Select filters assets in two stages (OS tag, then architecture tag) and
// breaks remaining ties deterministically: platform-native archive kind
// first, then the more specific (longer) filename, then lexicographic order.
// Identical inputs always yield the identical asset.
func Select(assets []Asset, plat platform.Platform) (Asset, error) {
	searched := make([]string, 0, len(assets))
	var survivors []Asset
	for _, a := range assets {
		searched = append(searched, a.Name)
		name := strings.ToLower(a.Name)
		if isSupplemental(name) {
			continue
		}
		if !containsAny(name, osAliases[plat.OS]) {
			continue
		}
		if !containsAny(name, archAliases[plat.Arch]) {
			continue
		}
		survivors = append(survivors, a)
	}

	if len(survivors) == 0 {
		return Asset{}, &NoCompatibleAssetError{OS: plat.OS, Arch: plat.Arch, Searched: searched}
	}

	sort.SliceStable(survivors, func(i, j int) bool {
		left, right := survivors[i], survivors[j]
		leftRank, rightRank := kindRank(left.Kind(), plat.OS), kindRank(right.Kind(), plat.OS)
		if leftRank != rightRank {
			return leftRank < rightRank
		}
		if len(left.Name) != len(right.Name) {
			return len(left.Name) > len(right.Name)
		}
		return left.Name < right.Name
	})
	return survivors[0], nil
}

// kindRank orders archive kinds for a family. Every family unpacks tar.gz
// natively; darwin ranks zip next, the linux families prefer a bare binary
// over needing unzip on the host.
func kindRank(kind ArchiveKind, family platform.OSFamily) int {
	switch kind {
	case KindTarGz:
		return 0
	case KindZip:
		if family == platform.OSDarwin {
			return 1
		}
		return 2
	default:
		if family == platform.OSDarwin {
			return 2
		}
		return 1
	}
}

// isSupplemental reports whether a filename is a checksum or signature
// companion rather than an installable artifact.
func isSupplemental(name string) bool {
	for _, marker := range []string{".sha256", ".sha512", "checksums", "checksum", ".sig", ".asc", ".minisig", ".pem", "sbom"} {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

// containsAny reports whether name contains at least one of the tokens.
func containsAny(name string, tokens []string) bool {
	for _, token := range tokens {
		if token != "" && strings.Contains(name, token) {
			return true
		}
	}
	return false
}
