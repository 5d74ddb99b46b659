// SPDX-License-Identifier: MPL-2.0

package filewrite

import (
	"slices"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Lines splits content into lines the way a text file is read line by line:
// a trailing newline does not produce an extra empty line, and "\r\n" is
// treated as a single line break. When trim is set each line is stripped of
// leading and trailing whitespace.
func Lines(content string, trim bool) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(strings.ReplaceAll(content, "\r\n", "\n"), "\n"), "\n")
	if trim {
		for i, l := range lines {
			lines[i] = strings.TrimSpace(l)
		}
	}
	return lines
}

// Similarity returns the longest-common-subsequence ratio of two line
// sequences, 2*M/T where M is the number of matched lines and T the total
// number of lines in both. Two empty sequences are identical (ratio 1).
func Similarity(a, b []string) float64 {
	if slices.Equal(a, b) {
		return 1
	}
	return difflib.NewMatcher(a, b).Ratio()
}
