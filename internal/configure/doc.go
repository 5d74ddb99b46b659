// SPDX-License-Identifier: MPL-2.0

// Package configure runs the generator in two phases. Planning expands every
// build descriptor into grouped file contents without writing anything; a
// failure there leaves the output tree untouched. Committing renders each
// group with its banner and hands it to the idempotent writer.
package configure
