package recipe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/tool-layer/internal/platform"
)

func writeDecl(t *testing.T, dir string, name string, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

const tomlDecl = `
[[recipe]]
name = "ripgrep"
provides = ["rg"]
pin = "13.0.0"
binary = "rg"

[recipe.packages]
apt = ["ripgrep"]
brew = ["ripgrep"]

[recipe.source]
repo = "BurntSushi/ripgrep"
`

const yamlDecl = `
recipes:
  - name: fd
    provides: [fd]
    depends: [ripgrep]
    packages:
      apt: [fd-find]
  - name: example-cli
    provides: [example]
    repo_requirement:
      name: example
      key_url: https://pkg.example.com/key.gpg
      keyring_path: /etc/apt/keyrings/example.gpg
      source_line: "deb [arch=${arch}] https://pkg.example.com ${codename} main"
      source_path: /etc/apt/sources.list.d/example.list
      families: [debian]
    packages:
      apt: [example-cli]
`

func TestLoadDirMergesDeclarationSites(t *testing.T) {
	dir := t.TempDir()
	writeDecl(t, dir, "base.toml", tomlDecl)
	writeDecl(t, dir, "extra.yaml", yamlDecl)
	writeDecl(t, dir, "notes.txt", "ignored")

	reg := NewRegistry()
	require.NoError(t, LoadDir(reg, dir))

	assert.Equal(t, []string{"example-cli", "fd", "ripgrep"}, reg.Names())

	rg, ok := reg.Get("ripgrep")
	require.True(t, ok)
	assert.Equal(t, []string{"ripgrep"}, rg.PackageNames[platform.ManagerApt])
	require.NotNil(t, rg.Source)
	assert.Equal(t, "BurntSushi/ripgrep", rg.Source.Repo)
	assert.Equal(t, "13.0.0", rg.Pin)

	cli, ok := reg.Get("example-cli")
	require.True(t, ok)
	require.NotNil(t, cli.RepoRequirement)
	assert.Equal(t, []platform.OSFamily{platform.OSDebian}, cli.RepoRequirement.Families)

	ordered, err := reg.ResolveOrder([]string{"fd"})
	require.NoError(t, err)
	require.Len(t, ordered, 2)
	assert.Equal(t, "ripgrep", ordered[0].Name)
}

func TestLoadFileRejectsMalformedRecipe(t *testing.T) {
	dir := t.TempDir()
	writeDecl(t, dir, "bad.toml", "[[recipe]]\nname = \"broken\"\n")

	err := LoadDir(NewRegistry(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provides")
}

func TestLoadFileRejectsUnknownTOMLField(t *testing.T) {
	dir := t.TempDir()
	writeDecl(t, dir, "typo.toml", "[[recipe]]\nname = \"ripgrep\"\nprovides = [\"rg\"]\npins = \"13.0.0\"\n")

	err := LoadDir(NewRegistry(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "typo.toml")
}

func TestLoadFileRejectsUnknownYAMLField(t *testing.T) {
	dir := t.TempDir()
	writeDecl(t, dir, "typo.yaml", "recipes:\n  - name: fd\n    provides: [fd]\n    pins: \"9.0.0\"\n")

	require.Error(t, LoadDir(NewRegistry(), dir))
}

func TestLoadFileAcceptsEmptyYAMLDocument(t *testing.T) {
	dir := t.TempDir()
	writeDecl(t, dir, "empty.yaml", "")

	reg := NewRegistry()
	require.NoError(t, LoadDir(reg, dir))
	assert.Empty(t, reg.Names())
}

func TestLoadFileRejectsBadSyntax(t *testing.T) {
	dir := t.TempDir()
	writeDecl(t, dir, "bad.yaml", ":\nnot yaml: [")

	require.Error(t, LoadDir(NewRegistry(), dir))
}

func TestLoadDirMissing(t *testing.T) {
	err := LoadDir(NewRegistry(), filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
}
