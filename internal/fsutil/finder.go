// Package fsutil provides the file system scans used while validating an
// installation: discovery of study areas and fallback selection for stale
// directory references.
package fsutil

import (
	"io/fs"
	"os"
	"path/filepath"
)

// FindStudyAreas recursively searches rootDir for directories that directly
// contain a regular file named marker, returning their full paths in
// lexical walk order. An empty result is not an error here; callers decide
// whether zero study areas is fatal.
func FindStudyAreas(rootDir string, marker string) ([]string, error) {
	if marker == "" {
		panic("marker must not be empty")
	}

	var dirs []string
	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != marker || !d.Type().IsRegular() {
			return nil
		}
		dirs = append(dirs, filepath.Dir(path))
		return nil
	})

	if err != nil {
		return nil, err
	}

	return dirs, nil
}

// ResolveDirectory returns candidate unchanged when it is an existing
// directory. Otherwise it falls back to the first immediate subdirectory of
// fallbackParent in lexical order. ok is false when neither yields a
// directory.
func ResolveDirectory(candidate, fallbackParent string) (string, bool) {
	if IsDir(candidate) {
		return candidate, true
	}

	entries, err := os.ReadDir(fallbackParent)
	if err != nil {
		return "", false
	}
	// os.ReadDir sorts by name, which keeps the choice stable across platforms.
	for _, e := range entries {
		p := filepath.Join(fallbackParent, e.Name())
		if IsDir(p) {
			return p, true
		}
	}
	return "", false
}

// IsDir reports whether path exists and is a directory, following symlinks.
func IsDir(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsFile reports whether path exists and is a regular file.
func IsFile(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Exists reports whether anything, including a dangling symlink, is at path.
func Exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Lstat(path)
	return err == nil
}
