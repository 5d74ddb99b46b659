// SPDX-License-Identifier: MPL-2.0

// Package buildspec defines the build descriptor data model: the complete
// description of one compilable simulator variant, its pluggable modules
// grouped by kind, and the compiler settings that apply to it.
//
// A BuildDescriptor is constructed once per invocation and never mutated
// afterwards. Identity-relevant fields and location-only fields are kept
// apart by name (see BuildDescriptor) so that the build id never depends on
// where sources live or where objects land.
package buildspec
