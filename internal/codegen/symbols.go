// SPDX-License-Identifier: MPL-2.0

package codegen

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// SymbolMap renders "#define <generic> <module-specific>" for each entry.
func (champsim) SymbolMap(funcMap map[string]string) string {
	var sb strings.Builder
	for _, k := range slices.Sorted(maps.Keys(funcMap)) {
		fmt.Fprintf(&sb, "#define %s %s\n", k, funcMap[k])
	}
	return sb.String()
}
