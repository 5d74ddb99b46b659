// SPDX-License-Identifier: MPL-2.0

// Package filewrite materializes generated files without disturbing the
// timestamps of files whose content did not meaningfully change.
//
// A file is rewritten only when the similarity ratio between its current
// lines and the candidate lines is below a configurable threshold. Lines are
// compared after optional whitespace trimming, so output that differs only in
// leading or trailing whitespace does not invalidate downstream build steps.
package filewrite
