// SPDX-License-Identifier: MPL-2.0

// Package codegen renders the simulator-specific content of the generated
// headers: symbol maps, instantiation glue, module registration tables and
// the constants header.
//
// Every generator is a pure function of its input. Map inputs are always
// rendered in sorted key order so that regenerated output is byte-for-byte
// reproducible.
package codegen

import (
	"github.com/champsim/configure/pkg/buildspec"
)

// Generators produces the text of each generated include fragment.
// The fragment aggregator treats every result as opaque content.
type Generators interface {
	// SymbolMap renders one substitution directive per funcMap entry.
	SymbolMap(funcMap map[string]string) string
	// Instantiation renders the glue that constructs cores, caches and memory.
	Instantiation(elements map[string]any) string
	// Constants renders the constants header from the configuration and the
	// physical-memory element.
	Constants(config, pmem map[string]any) string
	// Modules renders the registration table for every module of one kind.
	Modules(kind buildspec.ModuleKind, specs []buildspec.ModuleSpec) string
}

// Default returns the generators for the ChampSim source tree.
func Default() Generators {
	return champsim{}
}

type champsim struct{}
