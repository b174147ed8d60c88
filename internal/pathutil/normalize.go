// Package pathutil cleans filesystem roots and renders record breadcrumbs.
package pathutil

import (
	"path/filepath"
	"strings"
)

// Normalize cleans a filesystem path: trailing slashes are removed and "."
// and ".." collapsed. Relative paths stay relative.
func Normalize(path string) string {
	if path == "" {
		return path
	}
	return filepath.Clean(path)
}

// Breadcrumb renders a chain of record names as a slash-separated path.
// Walked snapshots name their top record by its absolute path, so a leading
// separator in the first name is not doubled.
func Breadcrumb(names []string) string {
	if len(names) == 0 {
		return "/"
	}
	first := strings.TrimRight(names[0], "/")
	if !strings.HasPrefix(first, "/") {
		first = "/" + first
	}
	return strings.Join(append([]string{first}, names[1:]...), "/")
}
