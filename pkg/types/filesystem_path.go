// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidFilesystemPath is the sentinel error wrapped by InvalidFilesystemPathError.
var ErrInvalidFilesystemPath = errors.New("invalid filesystem path")

type (
	// FilesystemPath is a host path as it appears in a build descriptor or in
	// generated output: a module source directory, the object directory, or a
	// generated file. The zero value is invalid.
	//
	// Paths end up verbatim in Makefile rules, so control characters are
	// rejected along with blank values.
	FilesystemPath string

	// InvalidFilesystemPathError is returned when a FilesystemPath is blank
	// or contains a control character.
	InvalidFilesystemPathError struct {
		Value  FilesystemPath
		Reason string
	}
)

// String returns the string representation of the FilesystemPath.
func (p FilesystemPath) String() string { return string(p) }

// IsValid reports whether p is usable as a path in generated output.
func (p FilesystemPath) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidFilesystemPathError{Value: p, Reason: "must be non-empty"}}
	}
	if i := strings.IndexFunc(string(p), unicode.IsControl); i >= 0 {
		return false, []error{&InvalidFilesystemPathError{
			Value:  p,
			Reason: fmt.Sprintf("control character %U at byte %d", []rune(string(p)[i:])[0], i),
		}}
	}
	return true, nil
}

// Error implements the error interface for InvalidFilesystemPathError.
func (e *InvalidFilesystemPathError) Error() string {
	return fmt.Sprintf("invalid filesystem path %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidFilesystemPath for errors.Is() compatibility.
func (e *InvalidFilesystemPathError) Unwrap() error { return ErrInvalidFilesystemPath }
