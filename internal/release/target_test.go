package release

import (
	"testing"

	"github.com/conn-castle/tool-layer/internal/version"
)

func vp(raw string) *version.Version {
	v := version.MustParse(raw)
	return &v
}

func TestResolveTargetInstalledSatisfiesEverything(t *testing.T) {
	got := ResolveTarget(version.MustParse("1.4.0"), vp("1.2.0"), vp("1.4.0"))
	if got.String() != "1.4.0" {
		t.Fatalf("expected installed returned unchanged, got %s", got)
	}
}

func TestResolveTargetInstalledNewerThanLatest(t *testing.T) {
	got := ResolveTarget(version.MustParse("1.4.0"), nil, vp("2.0.0"))
	if got.String() != "2.0.0" {
		t.Fatalf("expected installed kept, got %s", got)
	}
}

func TestResolveTargetUpgradeToLatest(t *testing.T) {
	got := ResolveTarget(version.MustParse("1.4.0"), nil, vp("1.2.0"))
	if got.String() != "1.4.0" {
		t.Fatalf("expected latest, got %s", got)
	}
}

func TestResolveTargetPinAboveLatest(t *testing.T) {
	got := ResolveTarget(version.MustParse("1.4.0"), vp("2.0.0"), nil)
	if got.String() != "2.0.0" {
		t.Fatalf("expected pin to win over latest, got %s", got)
	}
}

func TestResolveTargetNoInstalled(t *testing.T) {
	got := ResolveTarget(version.MustParse("1.4.0"), nil, nil)
	if got.String() != "1.4.0" {
		t.Fatalf("expected latest, got %s", got)
	}
}

func TestResolveTargetPinOnly(t *testing.T) {
	got := ResolveTarget(version.Version{}, vp("1.1.0"), nil)
	if got.String() != "1.1.0" {
		t.Fatalf("expected pin when latest unknown, got %s", got)
	}
}
