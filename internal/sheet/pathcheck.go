package sheet

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolveOutputPath resolves the mapped-file location inside dir, creating
// dir if needed. The file name must stay within dir; traversal via separators
// or ".." is rejected.
func ResolveOutputPath(dir, name string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("invalid output directory: %w", err)
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	path := filepath.Join(absDir, name)
	rel, err := filepath.Rel(absDir, path)
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || strings.Contains(rel, string(filepath.Separator)) {
		return "", fmt.Errorf("output file name escapes output directory: %s", name)
	}
	return path, nil
}
