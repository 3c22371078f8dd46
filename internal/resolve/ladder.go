package resolve

import (
	"path/filepath"
	"strings"
)

// FileExists abstracts the filesystem existence check so the ladder is
// testable without touching disk.
type FileExists func(path string) bool

// Resolver implements spec.md §4.4's resolution ladder and namespace
// map. It has no mutable server-wide state beyond the namespace map
// itself, which the `setNamespacePaths` handler replaces wholesale.
type Resolver struct {
	// NamespacePaths maps a namespace id to a directory; values may
	// contain a `${workspaceFolder}` placeholder already substituted by
	// the caller at configuration time (spec.md §3).
	NamespacePaths map[string]string
	exists         FileExists
}

// NewResolver builds a Resolver backed by exists for existence checks.
func NewResolver(exists FileExists) *Resolver {
	return &Resolver{NamespacePaths: map[string]string{}, exists: exists}
}

// Resolve maps one (namespace, filename) require directive found in a
// file under sourceDir to an absolute path, or "" if no candidate
// exists (a silent drop with a log line is the caller's job, per
// spec.md §4.4/§7).
func (r *Resolver) Resolve(sourceDir, namespace, filename string) string {
	if namespace == "" {
		candidate := filepath.Join(sourceDir, filename)
		if r.exists(candidate) {
			return candidate
		}
		return ""
	}
	if dir, ok := r.NamespacePaths[namespace]; ok {
		candidate := filepath.Join(dir, filename)
		if r.exists(candidate) {
			return candidate
		}
	}
	for _, dir := range ladderDirs(sourceDir) {
		for _, ns := range []string{namespace, strings.ToLower(namespace)} {
			candidate := filepath.Join(dir, ns, filename)
			if r.exists(candidate) {
				return candidate
			}
		}
	}
	return ""
}

// ladderDirs returns [dir, parent(dir), parent(parent(dir))], matching
// the ladder's three directory rungs (each tried with the namespace
// verbatim, then lowercased).
func ladderDirs(dir string) []string {
	parent := filepath.Dir(dir)
	grandparent := filepath.Dir(parent)
	return []string{dir, parent, grandparent}
}
