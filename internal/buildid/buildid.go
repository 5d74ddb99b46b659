// SPDX-License-Identifier: MPL-2.0

// Package buildid derives the short content fingerprint that namespaces every
// generated file of a build, and the output layout beneath it.
package buildid

import (
	"crypto/sha3"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/champsim/configure/pkg/buildspec"
	"github.com/champsim/configure/pkg/fspath"
	"github.com/champsim/configure/pkg/types"
)

const (
	// DigestBytes is the number of SHAKE-128 output bytes kept for an ID.
	DigestBytes = 4
	// IncludeDirName is the directory under <objDir>/<id> holding generated headers.
	IncludeDirName = "inc"
)

type (
	// ID is the hex fingerprint of a build descriptor's semantic content.
	ID string

	// identity is the hash-relevant projection of a BuildDescriptor.
	// SrcDirs and ObjDir are deliberately absent. Empty collections are
	// omitted so that nil and empty encode identically.
	identity struct {
		ExecutableName string               `json:"executable_name"`
		Elements       map[string]any       `json:"elements,omitempty"`
		Modules        buildspec.ModuleInfo `json:"modules,omitempty"`
		Config         map[string]any       `json:"config,omitempty"`
		Env            map[string]string    `json:"env,omitempty"`
		BinDir         types.FilesystemPath `json:"bin_dir"`
	}

	// Layout is the set of output paths owned by one build.
	Layout struct {
		// Root is <objDir>/<id>.
		Root types.FilesystemPath
		// IncDir is <objDir>/<id>/inc.
		IncDir types.FilesystemPath
	}
)

// String returns the string representation of the ID.
func (id ID) String() string { return string(id) }

// Canonical returns the order-stable encoding of the hash-relevant fields of d.
// Map keys are emitted in sorted order at every depth, so two descriptors with
// equal content encode identically regardless of construction order.
func Canonical(d buildspec.BuildDescriptor) ([]byte, error) {
	data, err := json.Marshal(identity{
		ExecutableName: d.ExecutableName,
		Elements:       d.Elements,
		Modules:        d.Modules,
		Config:         d.Config,
		Env:            d.Env,
		BinDir:         d.BinDir,
	})
	if err != nil {
		return nil, fmt.Errorf("encode build descriptor %q: %w", d.Executable(), err)
	}
	return data, nil
}

// Derive returns the build id of d: the first DigestBytes bytes of the
// SHAKE-128 digest of Canonical(d), hex encoded.
//
// Derive fails only when an Elements or Config value cannot be encoded
// (functions, channels, NaN), which cannot happen for descriptors decoded
// from a build file.
func Derive(d buildspec.BuildDescriptor) (ID, error) {
	data, err := Canonical(d)
	if err != nil {
		return "", err
	}
	return ID(hex.EncodeToString(sha3.SumSHAKE128(data, DigestBytes))), nil
}

// OutputPaths returns the normalized output layout of build id under objDir.
func OutputPaths(objDir types.FilesystemPath, id ID) Layout {
	root := fspath.JoinStr(objDir, string(id))
	return Layout{
		Root:   root,
		IncDir: fspath.JoinStr(root, IncludeDirName),
	}
}

// Include returns the path of a generated file in the include directory.
func (l Layout) Include(name string) types.FilesystemPath {
	return fspath.JoinStr(l.IncDir, name)
}
