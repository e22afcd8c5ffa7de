// Package resolver implements the external file-resolver contract of §6:
// resolve(target, base_dir, search_paths) -> absolute path or empty.
package resolver

import (
	"os"
	"path/filepath"
)

// FS is the default filesystem-backed Resolver: absolute targets pass
// through unchanged; otherwise base_dir/target is tried first, then each
// search path in order, returning the first path that exists on disk.
type FS struct{}

// Resolve implements compiler.Resolver.
func (FS) Resolve(target, baseDir string, searchPaths []string) (string, bool) {
	if filepath.IsAbs(target) {
		return target, true
	}

	candidate := filepath.Join(baseDir, target)
	if exists(candidate) {
		return candidate, true
	}

	for _, dir := range searchPaths {
		candidate := filepath.Join(dir, target)
		if exists(candidate) {
			return candidate, true
		}
	}

	return "", false
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
