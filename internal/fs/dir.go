// Package fs contains the file system helpers shared by the wsa tools.
package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// NotADirectoryError is returned when a working directory path names something other than a directory.
type NotADirectoryError struct {
	Path string
}

func (e *NotADirectoryError) Error() string {
	return fmt.Sprintf("%s is not a directory", e.Path)
}

// ResolveDir returns the canonical absolute form of dir, which must exist and be a directory.
// An empty dir resolves to the current working directory.
func ResolveDir(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(canonical)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", &NotADirectoryError{Path: dir}
	}
	return canonical, nil
}

// FilesWithSuffix returns the names of regular files directly inside dirPath
// whose name ends with suffix, sorted by name. Symlinks count when they resolve
// to a regular file. Subdirectories are not walked.
func FilesWithSuffix(dirPath, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), suffix) {
			continue
		}
		mode := entry.Type()
		if mode&os.ModeSymlink != 0 {
			info, err := os.Stat(filepath.Join(dirPath, entry.Name()))
			if err != nil {
				// Dangling link
				continue
			}
			mode = info.Mode()
		}
		if mode.IsRegular() {
			names = append(names, entry.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}
