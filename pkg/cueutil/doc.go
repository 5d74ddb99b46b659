// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates user files against embedded CUE schemas.
//
// Build descriptors and the tool configuration share the same flow:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify it with a schema definition
//  3. Validate and decode to a Go struct
//
// JSON is a subset of CUE, so JSON input goes through the same path.
//
// # Usage
//
//	//go:embed build_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[buildFile](
//	    schemaBytes,
//	    data,
//	    "#Build",
//	    cueutil.WithFilename("champsim_config.cue"),
//	)
//	if err != nil {
//	    return nil, err // error carries the CUE path of the offending field
//	}
//	return result.Value, nil
package cueutil
