// Package root locates the directory recipes and config are loaded from.
package root

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ConfigDirName is the marker directory holding recipes and the .env file.
const ConfigDirName = ".tool-layer"

// FindToolLayerRoot walks upward from start looking for a .tool-layer
// directory. It returns the directory containing it, whether one was found,
// and an error when the marker exists but is not a directory.
func FindToolLayerRoot(start string) (string, bool, error) {
	if start == "" {
		return "", false, errors.New("start path is required")
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false, err
	}
	for {
		marker := filepath.Join(dir, ConfigDirName)
		info, statErr := os.Stat(marker)
		if statErr == nil {
			if !info.IsDir() {
				return "", false, fmt.Errorf("%s exists but is not a directory", marker)
			}
			return dir, true, nil
		}
		if !os.IsNotExist(statErr) {
			return "", false, statErr
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}
