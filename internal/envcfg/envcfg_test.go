package envcfg

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{EnvAPIBase, EnvToken, EnvBinDir, EnvNoNetwork} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.APIBaseURL != DefaultAPIBase {
		t.Fatalf("expected default API base, got %s", cfg.APIBaseURL)
	}
	if cfg.BinDir == "" || cfg.BinDir == "~/.local/bin" {
		t.Fatalf("expected expanded bin dir, got %q", cfg.BinDir)
	}
	if cfg.NoNetwork {
		t.Fatalf("expected network enabled by default")
	}
}

func TestLoadProcessEnvOverridesFile(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".tool-layer")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	content := "TL_API_BASE=https://file.example.com\nTL_GITHUB_TOKEN=file-token\nIGNORED=1\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv(EnvAPIBase, "https://proc.example.com/")
	os.Unsetenv(EnvToken)
	os.Unsetenv(EnvBinDir)
	os.Unsetenv(EnvNoNetwork)

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.APIBaseURL != "https://proc.example.com" {
		t.Fatalf("process env should win, got %s", cfg.APIBaseURL)
	}
	if cfg.Token != "file-token" {
		t.Fatalf("file env should fill unset values, got %q", cfg.Token)
	}
}

func TestLoadNoNetworkFlag(t *testing.T) {
	t.Setenv(EnvNoNetwork, "true")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !cfg.NoNetwork {
		t.Fatalf("expected no-network mode")
	}

	t.Setenv(EnvNoNetwork, "not-a-bool")
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.NoNetwork {
		t.Fatalf("malformed flag should mean false")
	}
}
