// Package security validates user-supplied file paths.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrEmptyPath is returned for a blank path.
var ErrEmptyPath = errors.New("file path cannot be empty")

// ResolvePath cleans path, makes it absolute and follows symlinks when the
// target exists. Paths with control characters are rejected.
func ResolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrEmptyPath
	}
	if strings.ContainsAny(path, "\x00\n\r") {
		return "", fmt.Errorf("file path contains a control character: %q", path)
	}

	cleanPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(cleanPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cleanPath, nil
		}
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}
	return resolved, nil
}

// ResolvePathInDir is ResolvePath plus a check that the result stays inside baseDir.
func ResolvePathInDir(path, baseDir string) (string, error) {
	if strings.TrimSpace(baseDir) == "" {
		return "", errors.New("base directory cannot be empty")
	}
	cleanPath, err := ResolvePath(path)
	if err != nil {
		return "", err
	}
	base, err := ResolvePath(baseDir)
	if err != nil {
		return "", err
	}

	if cleanPath != base && !strings.HasPrefix(cleanPath, base+string(filepath.Separator)) {
		return "", fmt.Errorf("file path escapes base directory: %s is not within %s", path, baseDir)
	}
	return cleanPath, nil
}

// ReadFile reads a file after resolving its path.
func ReadFile(path string) ([]byte, error) {
	cleanPath, err := ResolvePath(path)
	if err != nil {
		return nil, err
	}
	// #nosec G304 - path is resolved above
	return os.ReadFile(cleanPath)
}
