// Package resolve implements spec.md §4.4–§4.6: require-directive
// extraction, the namespace resolution ladder, the dependency closure
// walk with cycle detection, and on-demand disk loading of files that
// are not open. Grounded on the teacher's utils.go (IsURL,
// GetPathFromURL, EnsureURL) for URI/path conversion, simplified since
// jasmin-lsp has no repo-root concept to validate paths against.
package resolve

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jasmin-lang/jasmin-lsp/internal/protocol"
)

const filePrefix = "file://"

// IsFileURI reports whether uri carries the file:// scheme.
func IsFileURI(uri protocol.DocumentURI) bool {
	return strings.HasPrefix(string(uri), filePrefix)
}

// PathFromURI returns the filesystem path a file:// URI (or a bare
// path, tolerated the way the teacher's GetPathFromURL does) refers to.
func PathFromURI(uri protocol.DocumentURI) (string, error) {
	s := string(uri)
	if strings.HasPrefix(s, filePrefix) {
		s = strings.TrimPrefix(s, filePrefix)
	}
	if s == "" {
		return "", fmt.Errorf("resolve: empty document URI")
	}
	return filepath.Clean(s), nil
}

// URIFromPath builds a file:// URI from an absolute or relative path.
func URIFromPath(path string) protocol.DocumentURI {
	return protocol.DocumentURI(filePrefix + filepath.ToSlash(path))
}

// DirOfURI returns the directory containing uri's file.
func DirOfURI(uri protocol.DocumentURI) (string, error) {
	p, err := PathFromURI(uri)
	if err != nil {
		return "", err
	}
	return filepath.Dir(p), nil
}
