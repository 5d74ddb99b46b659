// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the champsim-configure CLI commands.
//
// Every command loads the tool configuration, builds a logger and then
// drives the configure pipeline: generate writes the artifacts, plan
// previews them, id prints build ids and watch regenerates on change.
package cmd
