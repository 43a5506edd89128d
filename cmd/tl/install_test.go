package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/conn-castle/tool-layer/internal/platform"
	"github.com/conn-castle/tool-layer/internal/testutil"
)

const jqDecl = `
[[recipe]]
name = "jq"
provides = ["jq"]

[recipe.packages]
apt = ["jq"]
`

// writeWorkspace lays out a repo root with one recipe declaration.
func writeWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	recipesDir := filepath.Join(dir, ".tool-layer", "recipes")
	if err := os.MkdirAll(recipesDir, 0o755); err != nil {
		t.Fatalf("mkdir recipes: %v", err)
	}
	if err := os.WriteFile(filepath.Join(recipesDir, "tools.toml"), []byte(jqDecl), 0o644); err != nil {
		t.Fatalf("write recipes: %v", err)
	}
	return dir
}

func stubDebianPlatform(t *testing.T) {
	t.Helper()
	orig := detectPlatformFunc
	detectPlatformFunc = func() platform.Platform {
		return platform.Platform{
			OS:       platform.OSDebian,
			Arch:     platform.ArchAMD64,
			Managers: []platform.Manager{platform.ManagerApt},
		}
	}
	t.Cleanup(func() { detectPlatformFunc = orig })
}

func TestInstallSkipsPresentTool(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
	workspace := writeWorkspace(t)
	stubDir := t.TempDir()
	testutil.WriteVersionStub(t, stubDir, "jq", "1.7.1")
	t.Setenv("PATH", stubDir)
	stubDebianPlatform(t)

	var stdout bytes.Buffer
	testutil.WithWorkingDir(t, workspace, func() {
		if err := execute([]string{"tl", "install", "jq"}, &stdout, io.Discard); err != nil {
			t.Fatalf("execute error: %v", err)
		}
	})

	out := stdout.String()
	if !strings.Contains(out, "[SKIPPED]") {
		t.Fatalf("expected SKIPPED line, got:\n%s", out)
	}
	if !strings.Contains(out, "All recipes provisioned.") {
		t.Fatalf("expected success summary, got:\n%s", out)
	}
}

func TestInstallFailureExitsNonZero(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
	workspace := writeWorkspace(t)
	stubDir := t.TempDir()
	// apt exists but fails; jq is absent so an install is attempted.
	testutil.WriteStubWithExit(t, stubDir, "apt-get", 1)
	t.Setenv("PATH", stubDir)
	stubDebianPlatform(t)

	var stdout bytes.Buffer
	exitCode := -1
	testutil.WithWorkingDir(t, workspace, func() {
		runMain([]string{"tl", "install", "--all"}, &stdout, io.Discard, func(code int) { exitCode = code })
	})

	if exitCode != 1 {
		t.Fatalf("expected exit 1, got %d", exitCode)
	}
	if !strings.Contains(stdout.String(), "[FAILED]") {
		t.Fatalf("expected FAILED line, got:\n%s", stdout.String())
	}
}

func TestInstallNothingRequested(t *testing.T) {
	workspace := writeWorkspace(t)

	testutil.WithWorkingDir(t, workspace, func() {
		err := execute([]string{"tl", "install"}, io.Discard, io.Discard)
		if err == nil || !strings.Contains(err.Error(), "nothing requested") {
			t.Fatalf("expected nothing-requested error, got %v", err)
		}
	})
}

func TestInstallMissingWorkspace(t *testing.T) {
	dir := t.TempDir()
	testutil.WithWorkingDir(t, dir, func() {
		err := execute([]string{"tl", "install", "jq"}, io.Discard, io.Discard)
		if err == nil || !strings.Contains(err.Error(), ".tool-layer") {
			t.Fatalf("expected missing workspace error, got %v", err)
		}
	})
}

func TestRecipesListsRegistered(t *testing.T) {
	workspace := writeWorkspace(t)

	var stdout bytes.Buffer
	testutil.WithWorkingDir(t, workspace, func() {
		if err := execute([]string{"tl", "recipes"}, &stdout, io.Discard); err != nil {
			t.Fatalf("execute error: %v", err)
		}
	})
	if !strings.Contains(stdout.String(), "jq") {
		t.Fatalf("expected jq in listing, got:\n%s", stdout.String())
	}
}

func TestPlatformPrintsDetection(t *testing.T) {
	stubDebianPlatform(t)

	var stdout bytes.Buffer
	if err := execute([]string{"tl", "platform"}, &stdout, io.Discard); err != nil {
		t.Fatalf("execute error: %v", err)
	}
	out := stdout.String()
	if !strings.Contains(out, "debian") || !strings.Contains(out, "amd64") {
		t.Fatalf("unexpected platform output:\n%s", out)
	}
	if !strings.Contains(out, "apt") {
		t.Fatalf("expected manager list, got:\n%s", out)
	}
}
