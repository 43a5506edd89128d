package repotrust

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/conn-castle/tool-layer/internal/platform"
)

// countingSystem wraps RealSystem and counts mutating calls.
type countingSystem struct {
	RealSystem
	writes int
}

func (c *countingSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	c.writes++
	return c.RealSystem.WriteFile(name, data, perm)
}

func debianPlatform() platform.Platform {
	return platform.Platform{
		OS:       platform.OSDebian,
		Arch:     platform.ArchAMD64,
		Distro:   "ubuntu",
		Codename: "noble",
	}
}

func testDescriptor(t *testing.T, keyURL string) Descriptor {
	t.Helper()
	dir := t.TempDir()
	return Descriptor{
		Name:               "example",
		KeyURL:             keyURL,
		KeyringPath:        filepath.Join(dir, "keyrings", "example.gpg"),
		SourceLineTemplate: "deb [arch=${arch} signed-by=/k/example.gpg] https://pkg.example.com ${codename} main",
		SourcePath:         filepath.Join(dir, "sources", "example.list"),
		Families:           []platform.OSFamily{platform.OSDebian},
	}
}

func TestEnsureRegistersThenDetectsPresent(t *testing.T) {
	fetches := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fetches++
		_, _ = w.Write([]byte("key-material"))
	}))
	t.Cleanup(server.Close)

	desc := testDescriptor(t, server.URL)
	sys := &countingSystem{}
	prov := NewProvisioner(sys)

	status, err := prov.Ensure(context.Background(), desc, debianPlatform())
	if err != nil {
		t.Fatalf("Ensure error: %v", err)
	}
	if status != StatusRegistered {
		t.Fatalf("expected registered, got %s", status)
	}
	if fetches != 1 {
		t.Fatalf("expected one key fetch, got %d", fetches)
	}

	source, err := os.ReadFile(desc.SourcePath)
	if err != nil {
		t.Fatalf("read source: %v", err)
	}
	want := "deb [arch=amd64 signed-by=/k/example.gpg] https://pkg.example.com noble main\n"
	if string(source) != want {
		t.Fatalf("source entry mismatch:\n got: %q\nwant: %q", source, want)
	}

	writesAfterFirst := sys.writes
	status, err = prov.Ensure(context.Background(), desc, debianPlatform())
	if err != nil {
		t.Fatalf("second Ensure error: %v", err)
	}
	if status != StatusAlreadyPresent {
		t.Fatalf("expected already_present, got %s", status)
	}
	if fetches != 1 {
		t.Fatalf("second call must not fetch, got %d fetches", fetches)
	}
	if sys.writes != writesAfterFirst {
		t.Fatalf("second call must not write, got %d writes", sys.writes-writesAfterFirst)
	}
}

func TestEnsureSkipsNonMatchingFamily(t *testing.T) {
	desc := testDescriptor(t, "https://unused.example.com")
	plat := debianPlatform()
	plat.OS = platform.OSDarwin

	status, err := NewProvisioner(RealSystem{}).Ensure(context.Background(), desc, plat)
	if err != nil {
		t.Fatalf("Ensure error: %v", err)
	}
	if status != StatusSkipped {
		t.Fatalf("expected skipped, got %s", status)
	}
}

func TestEnsureKeyFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	desc := testDescriptor(t, server.URL)
	_, err := NewProvisioner(RealSystem{}).Ensure(context.Background(), desc, debianPlatform())
	var keyErr *KeyFetchError
	if !errors.As(err, &keyErr) {
		t.Fatalf("expected KeyFetchError, got %v", err)
	}
	if keyErr.Repository != "example" {
		t.Fatalf("expected repository name in error, got %q", keyErr.Repository)
	}
	if _, statErr := os.Stat(desc.KeyringPath); statErr == nil {
		t.Fatalf("keyring must not be written on fetch failure")
	}
}

func TestEnsureInvalidDescriptor(t *testing.T) {
	_, err := NewProvisioner(RealSystem{}).Ensure(context.Background(), Descriptor{}, debianPlatform())
	if err == nil {
		t.Fatalf("expected validation error for empty descriptor")
	}
}

func TestRenderSourceLine(t *testing.T) {
	line := RenderSourceLine("deb ${distro}-${codename} ${arch}", debianPlatform())
	if line != "deb ubuntu-noble amd64" {
		t.Fatalf("unexpected rendering: %q", line)
	}
}

func TestAppliesEmptyFamiliesMeansAll(t *testing.T) {
	desc := Descriptor{Name: "any"}
	if !desc.Applies(platform.OSDarwin) || !desc.Applies(platform.OSPOSIX) {
		t.Fatalf("empty families should apply everywhere")
	}
}
