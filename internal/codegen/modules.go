// SPDX-License-Identifier: MPL-2.0

package codegen

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/champsim/configure/pkg/buildspec"
)

// moduleNamespaces maps each kind onto the C++ namespace of its registry.
var moduleNamespaces = map[buildspec.ModuleKind]string{
	buildspec.KindBranch:      "branch",
	buildspec.KindBTB:         "btb",
	buildspec.KindReplacement: "replacement",
	buildspec.KindPrefetcher:  "prefetcher",
}

// Modules renders a registry of the modules of one kind: the module count,
// an index constant per module and the module-specific symbols each one
// provides, so the core can dispatch to the selected implementation.
func (champsim) Modules(kind buildspec.ModuleKind, specs []buildspec.ModuleSpec) string {
	ns, ok := moduleNamespaces[kind]
	if !ok {
		ns = string(kind)
	}
	upper := strings.ToUpper(ns)

	var sb strings.Builder
	fmt.Fprintf(&sb, "namespace champsim::modules::%s {\n", ns)
	fmt.Fprintf(&sb, "constexpr std::size_t NUM_%s_MODULES = %d;\n", upper, len(specs))
	for i, spec := range specs {
		fmt.Fprintf(&sb, "constexpr std::size_t %s_%s = %d;\n", upper, cIdent(string(spec.Name)), i)
	}
	if len(specs) > 0 {
		sb.WriteString("inline constexpr std::string_view names[] = {")
		for i, spec := range specs {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%q", spec.Name)
		}
		sb.WriteString("};\n")
	}
	for _, spec := range specs {
		for _, generic := range slices.Sorted(maps.Keys(spec.FuncMap)) {
			fmt.Fprintf(&sb, "// %s: %s -> %s\n", spec.Name, generic, spec.FuncMap[generic])
		}
	}
	fmt.Fprintf(&sb, "} // namespace champsim::modules::%s\n", ns)
	return sb.String()
}

// cIdent uppercases name and replaces anything that cannot appear in a C
// identifier with an underscore.
func cIdent(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
