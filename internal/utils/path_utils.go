package utils

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/funvibe/questlang/internal/config"
)

// ResolveLibraryPath resolves an import path against the library root.
// Paths that leave the root (via "..", or absolute paths outside it) are
// rejected.
func ResolveLibraryPath(root, importPath string) (string, error) {
	if root == "" {
		return "", fmt.Errorf("no library root configured")
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	target := importPath
	if !filepath.IsAbs(target) {
		target = filepath.Join(absRoot, target)
	}
	target = filepath.Clean(target)
	rel, err := filepath.Rel(absRoot, target)
	if err != nil {
		return "", fmt.Errorf("import path %q escapes library root", importPath)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("import path %q escapes library root", importPath)
	}
	if !config.HasSourceExt(target) {
		target += config.SourceFileExt
	}
	return target, nil
}

// ExtractFileName derives a definition file name from a path: the base
// name without any recognized source extension.
func ExtractFileName(path string) string {
	return config.TrimSourceExt(filepath.Base(path))
}

// GetSourceDir returns the directory context for a path: the directory of
// a source file, or the path itself.
func GetSourceDir(path string) string {
	if config.HasSourceExt(path) {
		return filepath.Dir(path)
	}
	return path
}

// CollectSourceFiles returns every source file under the given paths,
// sorted. Plain files are returned as given.
func CollectSourceFiles(paths ...string) ([]string, error) {
	var out []string
	for _, p := range paths {
		err := filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if path == p || config.HasSourceExt(path) {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(out)
	return out, nil
}
