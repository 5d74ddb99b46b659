// SPDX-License-Identifier: MPL-2.0

// Package fspath provides typed wrappers around path/filepath functions that
// accept and return types.FilesystemPath, plus the ancestor expansion used
// when declaring directories that must exist before compilation.
package fspath

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/champsim/configure/pkg/types"
)

// Join wraps filepath.Join, accepting and returning types.FilesystemPath.
// The result is cleaned, so it never contains ".." segments that can be
// resolved lexically or redundant separators.
func Join(elem ...types.FilesystemPath) types.FilesystemPath {
	strs := make([]string, len(elem))
	for i, e := range elem {
		strs[i] = string(e)
	}
	return types.FilesystemPath(filepath.Join(strs...))
}

// JoinStr wraps filepath.Join, accepting a typed base path and raw string
// segments such as a build id or a generated file name.
func JoinStr(base types.FilesystemPath, elem ...string) types.FilesystemPath {
	parts := make([]string, 1, 1+len(elem))
	parts[0] = string(base)
	parts = append(parts, elem...)
	return types.FilesystemPath(filepath.Join(parts...))
}

// Dir wraps filepath.Dir for FilesystemPath.
func Dir(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Dir(string(p)))
}

// Clean wraps filepath.Clean for FilesystemPath.
func Clean(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Clean(string(p)))
}

// Ext wraps filepath.Ext for FilesystemPath.
func Ext(p types.FilesystemPath) string {
	return filepath.Ext(string(p))
}

// ToSlash wraps filepath.ToSlash. Generated Makefile text always uses
// forward slashes, whatever the host separator.
func ToSlash(p types.FilesystemPath) string {
	return filepath.ToSlash(string(p))
}

// Ancestors returns p and every ancestor of p, outermost first, in
// slash-separated form: "a/b/c" yields ["a", "a/b", "a/b/c"].
//
// The filesystem root and "." are never included, so "/opt/bin" yields
// ["/opt", "/opt/bin"] and "." yields nothing. Make variable references such
// as "$(objdir)" are treated as ordinary path segments.
func Ancestors(p string) []string {
	p = path.Clean(filepath.ToSlash(p))
	if p == "." || p == "/" {
		return nil
	}

	var out []string
	rooted := strings.HasPrefix(p, "/")
	segments := strings.Split(strings.TrimPrefix(p, "/"), "/")
	for i := range segments {
		dir := strings.Join(segments[:i+1], "/")
		if rooted {
			dir = "/" + dir
		}
		out = append(out, dir)
	}
	return out
}
