package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/pressroom/internal/config"
)

// FindRoot recursively looks upwards for a content root indicator.
// Indicators are: a pressroom.toml file or a .pressroom directory.
// If found, returns the absolute path to the root.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, config.FileName) || hasFile(dir, config.Default().SystemDir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("root not found")
}

func hasFile(dir, name string) bool {
	path := filepath.Join(dir, name)
	_, err := os.Stat(path)
	return err == nil
}
