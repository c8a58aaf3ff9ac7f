// Package security validates output file paths so batch exports cannot be
// redirected outside controlled locations.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidatePathWithinDirectory checks that a target path stays inside the
// given directory once cleaned and with symlinks in its parent resolved.
// The target itself may not exist yet (exports create it).
func ValidatePathWithinDirectory(filePath, safeDir string) error {
	absPath, err := filepath.Abs(filepath.Clean(filePath))
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	// Resolve symlinks in the parent directory so a linked directory cannot
	// smuggle the file elsewhere. The parent must exist for a write anyway.
	parent := filepath.Dir(absPath)
	if resolved, err := filepath.EvalSymlinks(parent); err == nil {
		absPath = filepath.Join(resolved, filepath.Base(absPath))
	}

	absSafeDir, err := filepath.Abs(safeDir)
	if err != nil {
		return fmt.Errorf("failed to resolve safe directory path: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(absSafeDir); err == nil {
		absSafeDir = resolved
	}

	relPath, err := filepath.Rel(absSafeDir, absPath)
	if err != nil {
		return fmt.Errorf("path is outside safe directory: %w", err)
	}
	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) || filepath.IsAbs(relPath) {
		return fmt.Errorf("path traversal detected: %s attempts to escape %s", filePath, safeDir)
	}

	return nil
}

// ValidateOutputPath validates a file path for table or report output. The
// path must resolve under either the temp directory or the current working
// directory.
func ValidateOutputPath(filePath string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	for _, dir := range []string{os.TempDir(), cwd} {
		if err := ValidatePathWithinDirectory(filePath, dir); err == nil {
			return nil
		}
	}
	return fmt.Errorf("output path %s must be under the temp or working directory", filePath)
}
