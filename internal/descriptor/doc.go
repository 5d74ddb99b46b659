// SPDX-License-Identifier: MPL-2.0

// Package descriptor loads build descriptor files.
//
// A descriptor file describes one executable. CUE and JSON files are
// validated against the embedded #Build schema directly; TOML files are
// decoded first and then validated the same way. Paths in a descriptor may
// reference environment variables, which resolve against the descriptor's
// own env block before the process environment.
package descriptor
