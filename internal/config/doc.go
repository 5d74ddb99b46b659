// SPDX-License-Identifier: MPL-2.0

// Package config loads the tool configuration using Viper with CUE as the
// file format.
//
// The file is looked up at the path given on the command line, then at
// $XDG_CONFIG_HOME/champsim-configure/config.cue (platform equivalent on
// macOS and Windows), then at ./champsim-configure.cue. Every key can be
// overridden from the environment with the CHAMPSIM_CONFIGURE_ prefix, for
// example CHAMPSIM_CONFIGURE_WRITE_THRESHOLD=0.95.
//
// Files are validated against the embedded config_schema.cue before they
// are merged over the defaults.
package config
