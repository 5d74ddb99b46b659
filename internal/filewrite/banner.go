// SPDX-License-Identifier: MPL-2.0

package filewrite

import (
	"strings"

	"github.com/champsim/configure/pkg/fspath"
	"github.com/champsim/configure/pkg/types"
)

var (
	cxxBanner = []string{
		"/***",
		" * THIS FILE IS AUTOMATICALLY GENERATED",
		" * Do not edit this file. It will be overwritten when the configure script is run.",
		" ***/",
		"",
	}
	makeBanner = []string{
		"###",
		"# THIS FILE IS AUTOMATICALLY GENERATED",
		"# Do not edit this file. It will be overwritten when the configure script is run.",
		"###",
		"",
	}
)

// Banner returns the banner lines for path, selected by its extension:
// C-style comments for .cc, .h and .inc, Make comments for .mk, and nothing
// for any other extension. The last banner line is empty so that the banner
// is separated from the content by a blank line.
func Banner(path types.FilesystemPath) []string {
	switch fspath.Ext(path) {
	case ".cc", ".h", ".inc":
		return cxxBanner
	case ".mk":
		return makeBanner
	default:
		return nil
	}
}

// Render returns the final content of path: its banner followed by the
// fragments in order, joined by newlines.
func Render(path types.FilesystemPath, fragments []string) string {
	banner := Banner(path)
	lines := make([]string, 0, len(banner)+len(fragments))
	lines = append(lines, banner...)
	lines = append(lines, fragments...)
	return strings.Join(lines, "\n")
}
