package engine

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/conn-castle/tool-layer/internal/asset"
	"github.com/conn-castle/tool-layer/internal/messages"
	"github.com/conn-castle/tool-layer/internal/recipe"
	"github.com/conn-castle/tool-layer/internal/release"
)

// fetchBinary acquires a tool straight from its release source: select the
// compatible asset, download into a scratch dir, extract, and place the
// executable into the user-local bin dir with 0755. The scratch dir is
// removed on every exit path.
func (e *Engine) fetchBinary(ctx context.Context, r recipe.Recipe, latest release.Release) error {
	selected, err := asset.Select(latest.Assets, e.Platform)
	if err != nil {
		return err
	}

	workDir, err := e.Sys.MkdirTemp("", "tool-layer-")
	if err != nil {
		return err
	}
	defer func() {
		_ = e.Sys.RemoveAll(workDir)
	}()

	archivePath := filepath.Join(workDir, selected.Name)
	if err := e.Oracle.Download(ctx, selected.URL, archivePath); err != nil {
		return err
	}

	binaryName := r.BinaryName()
	sourcePath := archivePath
	switch selected.Kind() {
	case asset.KindTarGz:
		if _, err := e.Sys.RunCommand(ctx, "tar", "-xzf", archivePath, "-C", workDir); err != nil {
			return fmt.Errorf(messages.EngineExtractFmt, selected.Name, err)
		}
		if sourcePath, err = e.findBinary(workDir, binaryName, archivePath); err != nil {
			return err
		}
	case asset.KindZip:
		if _, err := e.Sys.RunCommand(ctx, "unzip", "-o", "-q", archivePath, "-d", workDir); err != nil {
			return fmt.Errorf(messages.EngineExtractFmt, selected.Name, err)
		}
		if sourcePath, err = e.findBinary(workDir, binaryName, archivePath); err != nil {
			return err
		}
	}

	data, err := e.Sys.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf(messages.EngineInstallBinaryFmt, binaryName, err)
	}
	if err := e.Sys.MkdirAll(e.Env.BinDir, 0o755); err != nil {
		return fmt.Errorf(messages.EngineInstallBinaryFmt, binaryName, err)
	}
	dest := filepath.Join(e.Env.BinDir, binaryName)
	if err := e.Sys.WriteFile(dest, data, 0o755); err != nil {
		return fmt.Errorf(messages.EngineInstallBinaryFmt, binaryName, err)
	}
	return nil
}

// findBinary locates the named executable inside the extracted tree. The
// archive itself is excluded from the walk.
func (e *Engine) findBinary(root string, name string, archivePath string) (string, error) {
	var found string
	err := e.Sys.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || path == archivePath || d.Name() != name {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		found = path
		return fs.SkipAll
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", fmt.Errorf(messages.EngineBinaryMissingFmt, name)
	}
	return found, nil
}
