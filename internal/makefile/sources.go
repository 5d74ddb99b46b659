// SPDX-License-Identifier: MPL-2.0

package makefile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultSourceExt is the extension of compilable module sources.
const DefaultSourceExt = ".cc"

var (
	// ErrSourceDirNotFound is returned when a module source directory does
	// not exist or is not a directory.
	ErrSourceDirNotFound = errors.New("module source directory not found")
	// ErrInvalidSourceExt is returned when a source extension is not of the
	// form ".ext".
	ErrInvalidSourceExt = errors.New("invalid source extension")
)

// SourceDirNotFoundError reports a module whose source directory is missing.
// It wraps ErrSourceDirNotFound.
type SourceDirNotFoundError struct {
	Dir string
	Err error
}

// Error implements the error interface for SourceDirNotFoundError.
func (e *SourceDirNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("module source directory %q: %v", e.Dir, e.Err)
	}
	return fmt.Sprintf("module source directory %q is not a directory", e.Dir)
}

// Unwrap returns ErrSourceDirNotFound for errors.Is() compatibility.
func (e *SourceDirNotFoundError) Unwrap() error { return ErrSourceDirNotFound }

// ValidateSourceExt checks that ext is a dot followed by a plain extension.
func ValidateSourceExt(ext string) error {
	if len(ext) < 2 || ext[0] != '.' || strings.ContainsAny(ext[1:], "./\\*?[]{}") {
		return fmt.Errorf("%w: %q", ErrInvalidSourceExt, ext)
	}
	return nil
}

// CheckSourceDir returns a *SourceDirNotFoundError unless dir is an existing
// directory.
func CheckSourceDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return &SourceDirNotFoundError{Dir: dir, Err: err}
	}
	if !info.IsDir() {
		return &SourceDirNotFoundError{Dir: dir}
	}
	return nil
}

// DiscoverSources returns the slash-separated paths, relative to the root of
// fsys, of every file with extension ext at any depth, in sorted order.
func DiscoverSources(fsys fs.FS, ext string) ([]string, error) {
	if err := ValidateSourceExt(ext); err != nil {
		return nil, err
	}
	matches, err := doublestar.Glob(fsys, "**/*"+ext, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, fmt.Errorf("discover %s sources: %w", ext, err)
	}
	slices.Sort(matches)
	return matches, nil
}
