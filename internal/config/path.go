// Package config resolves budget settings from flags, environment and
// config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MemoryPath opens a throwaway in-memory database.
const MemoryPath = ":memory:"

// ExpandPath expands $VAR references and a leading ~ in path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	path = os.ExpandEnv(path)
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
}

// ResolvePath expands path and makes it absolute. Empty paths and
// MemoryPath are returned unchanged.
func ResolvePath(path string) (string, error) {
	path = ExpandPath(strings.TrimSpace(path))
	if path == "" || path == MemoryPath {
		return path, nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	return abs, nil
}
