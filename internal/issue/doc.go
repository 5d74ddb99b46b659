// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing errors that say what failed, on which
// file, and what to try next.
package issue
