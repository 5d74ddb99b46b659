// SPDX-License-Identifier: MPL-2.0

package codegen

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// instanceGroups lists the element keys that hold lists of simulator
// objects, with the C++ type and builder used to construct each of them.
var instanceGroups = []struct {
	key     string
	cppType string
	builder string
}{
	{key: "cores", cppType: "O3_CPU", builder: "champsim::core_builder"},
	{key: "caches", cppType: "CACHE", builder: "champsim::cache_builder"},
	{key: "ptws", cppType: "PageTableWalker", builder: "champsim::ptw_builder"},
}

// Instantiation renders one builder expression per core, cache and page
// table walker element, followed by the memory controller and virtual memory
// declarations when "pmem" and "vmem" elements are present.
func (champsim) Instantiation(elements map[string]any) string {
	var sb strings.Builder
	for _, group := range instanceGroups {
		items, _ := elements[group.key].([]any)
		for i, item := range items {
			attrs, ok := item.(map[string]any)
			if !ok {
				continue
			}
			name := fmt.Sprintf("%s%d", strings.TrimSuffix(group.key, "s"), i)
			if n, ok := attrs["name"].(string); ok && n != "" {
				name = n
			}
			fmt.Fprintf(&sb, "%s %s{%s{}%s};\n", group.cppType, cIdent(name), group.builder, builderChain(attrs))
		}
	}
	if pmem, ok := elements["pmem"].(map[string]any); ok {
		fmt.Fprintf(&sb, "MEMORY_CONTROLLER DRAM{champsim::dram_builder{}%s};\n", builderChain(pmem))
	}
	if vmem, ok := elements["vmem"].(map[string]any); ok {
		fmt.Fprintf(&sb, "VirtualMemory vmem{champsim::vmem_builder{}%s};\n", builderChain(vmem))
	}
	return sb.String()
}

// builderChain renders ".key(value)" for each scalar attribute in key order.
// Nested lists and maps are not builder arguments and are skipped.
func builderChain(attrs map[string]any) string {
	var sb strings.Builder
	for _, k := range slices.Sorted(maps.Keys(attrs)) {
		lit, ok := literal(attrs[k])
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, ".%s(%s)", k, lit)
	}
	return sb.String()
}

// literal renders a scalar as a C++ literal.
func literal(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return fmt.Sprintf("%q", x), true
	case bool:
		return fmt.Sprintf("%t", x), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", x), true
	case float32:
		return fmt.Sprintf("%g", x), true
	case float64:
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x)), true
		}
		return fmt.Sprintf("%g", x), true
	default:
		return "", false
	}
}
