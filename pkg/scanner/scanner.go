// Package scanner resolves the set of module files a command operates on:
// either an explicit list of paths, or a recursive walk of a root directory
// filtered by extension.
package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
)

// DefaultExtensions covers the module types Access exports as text.
var DefaultExtensions = []string{".bas", ".cls"}

// NormalizeExtensions lowercases each extension and ensures a leading dot.
// Blank entries are dropped.
func NormalizeExtensions(extensions []string) []string {
	normalized := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, strings.ToLower(ext))
	}
	return normalized
}

// Resolve returns the files to process. Explicit paths win when given;
// directories among them are dropped, but paths that cannot be stat'd are
// kept so the per-file processing reports the read failure. Otherwise root
// is walked recursively for files matching the extensions.
func Resolve(paths []string, root string, extensions []string) ([]string, error) {
	if len(paths) > 0 {
		files := make([]string, 0, len(paths))
		for _, path := range paths {
			if info, err := os.Stat(path); err == nil && !info.Mode().IsRegular() {
				continue
			}
			files = append(files, path)
		}
		return files, nil
	}
	return Gather(root, extensions)
}

// Gather walks root and returns every regular file whose extension matches
// one of the given extensions, case-insensitively. Results are deduplicated
// and sorted; walk order is otherwise platform-dependent.
func Gather(root string, extensions []string) ([]string, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, errors.Wrapf(err, "root not found: %s", root)
	}

	patterns := make([]string, 0, len(extensions))
	for _, ext := range NormalizeExtensions(extensions) {
		patterns = append(patterns, "**/*"+ext)
	}

	seen := make(map[string]struct{})
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		name := strings.ToLower(filepath.ToSlash(rel))
		for _, pattern := range patterns {
			if ok, _ := doublestar.Match(pattern, name); ok {
				seen[path] = struct{}{}
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to walk %s", root)
	}

	files := make([]string, 0, len(seen))
	for path := range seen {
		files = append(files, path)
	}
	sort.Strings(files)
	return files, nil
}
