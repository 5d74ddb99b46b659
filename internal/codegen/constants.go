// SPDX-License-Identifier: MPL-2.0

package codegen

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// configConstants maps configuration keys onto the constant they define.
var configConstants = []struct {
	key  string
	name string
}{
	{key: "block_size", name: "BLOCK_SIZE"},
	{key: "page_size", name: "PAGE_SIZE"},
	{key: "num_cores", name: "NUM_CPUS"},
	{key: "heartbeat_frequency", name: "STAT_PRINTING_PERIOD"},
}

// Constants renders the constants header. Configuration keys are emitted in
// the fixed order above when present; every scalar physical-memory attribute
// becomes a DRAM_<KEY> constant in key order.
func (champsim) Constants(config, pmem map[string]any) string {
	var sb strings.Builder
	sb.WriteString("#ifndef CHAMPSIM_CONSTANTS_H\n")
	sb.WriteString("#define CHAMPSIM_CONSTANTS_H\n")
	sb.WriteString("#include <cstdint>\n")
	for _, c := range configConstants {
		v, ok := config[c.key]
		if !ok {
			continue
		}
		if lit, ok := literal(v); ok {
			fmt.Fprintf(&sb, "inline constexpr auto %s = %s;\n", c.name, lit)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(pmem)) {
		if lit, ok := literal(pmem[k]); ok {
			fmt.Fprintf(&sb, "inline constexpr auto DRAM_%s = %s;\n", cIdent(k), lit)
		}
	}
	sb.WriteString("#endif\n")
	return sb.String()
}
