// Package envcfg builds the explicit EnvironmentConfig threaded into
// network-facing components. Values come from the process environment with
// optional overrides from .tool-layer/.env; nothing reads ambient globals
// past this boundary.
package envcfg

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
)

// Environment variable names, all in the TL_ namespace.
const (
	EnvAPIBase   = "TL_API_BASE"
	EnvToken     = "TL_GITHUB_TOKEN"
	EnvBinDir    = "TL_BIN_DIR"
	EnvNoNetwork = "TL_NO_NETWORK"
)

// DefaultAPIBase is the release metadata endpoint used when TL_API_BASE is unset.
const DefaultAPIBase = "https://api.github.com"

const defaultBinDir = "~/.local/bin"

// Config carries environment-derived settings for the engine.
type Config struct {
	// APIBaseURL is the release metadata API endpoint.
	APIBaseURL string
	// Token authenticates release metadata requests; may be empty.
	Token string
	// BinDir is where fetched binaries are installed.
	BinDir string
	// NoNetwork disables all network access for offline runs.
	NoNetwork bool
}

// Load reads the environment config. root is the directory holding the
// .tool-layer config dir; when it contains a .env file those values fill in
// anything the process environment leaves unset.
func Load(root string) (Config, error) {
	fileEnv := map[string]string{}
	if root != "" {
		envPath := filepath.Join(root, ".tool-layer", ".env")
		if loaded, err := godotenv.Read(envPath); err == nil {
			fileEnv = filterNamespace(loaded)
		}
	}

	lookup := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		return fileEnv[key]
	}

	cfg := Config{
		APIBaseURL: strings.TrimRight(lookup(EnvAPIBase), "/"),
		Token:      strings.TrimSpace(lookup(EnvToken)),
		BinDir:     strings.TrimSpace(lookup(EnvBinDir)),
		NoNetwork:  parseBool(lookup(EnvNoNetwork)),
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBase
	}
	if cfg.BinDir == "" {
		cfg.BinDir = defaultBinDir
	}

	expanded, err := homedir.Expand(cfg.BinDir)
	if err != nil {
		return Config{}, err
	}
	cfg.BinDir = expanded
	return cfg, nil
}

// filterNamespace restricts .env values to the TL_ namespace.
func filterNamespace(env map[string]string) map[string]string {
	filtered := make(map[string]string, len(env))
	for key, value := range env {
		if strings.HasPrefix(key, "TL_") {
			filtered[key] = value
		}
	}
	return filtered
}

// parseBool treats any truthy value as set; empty or malformed means false.
func parseBool(raw string) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return value
}
