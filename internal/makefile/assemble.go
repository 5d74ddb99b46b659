// SPDX-License-Identifier: MPL-2.0

package makefile

import (
	"fmt"
	"path"
	"strings"

	"github.com/champsim/configure/pkg/buildspec"
	"github.com/champsim/configure/pkg/fspath"
	"github.com/champsim/configure/pkg/types"
)

var (
	// compilerKeys are configuration keys that replace a compiler for the
	// executable and everything it depends on.
	compilerKeys = []string{"CC", "CXX"}
	// flagKeys are configuration keys appended to the executable's flags.
	flagKeys = []string{"CFLAGS", "CXXFLAGS", "CPPFLAGS", "LDFLAGS", "LDLIBS"}
)

// Assembly is the input of Assemble.
type Assembly struct {
	BuildID string
	// Modules in flattening order.
	Modules []buildspec.FlatModule
	// Config supplies optional compiler overrides and flag additions.
	Config map[string]any
	// Executable is the host path of the linked executable.
	Executable types.FilesystemPath
	// ObjDir is the host object directory; generated headers live in
	// <ObjDir>/<BuildID>/inc.
	ObjDir types.FilesystemPath
}

// Assemble renders the Makefile fragment of one build: a banner, the
// executable declaration, compiler overrides and flag additions for the keys
// present in Config (absent keys produce no line), the generated include
// path, the executable's required directories and one ModuleRules block per
// module.
func (g Generator) Assemble(a Assembly) (string, error) {
	exe := fspath.ToSlash(fspath.Clean(a.Executable))

	var sb strings.Builder
	sb.WriteString("######\n")
	fmt.Fprintf(&sb, "# Build ID: %s\n", a.BuildID)
	sb.WriteString("######\n\n")

	fmt.Fprintf(&sb, "executable_name += %s\n", exe)
	for _, k := range compilerKeys {
		if v, ok := a.Config[k]; ok {
			fmt.Fprintf(&sb, "%s: %s = %s\n", exe, k, makeValue(v))
		}
	}
	for _, k := range flagKeys {
		if v, ok := a.Config[k]; ok {
			fmt.Fprintf(&sb, "%s: %s += %s\n", exe, k, makeValue(v))
		}
	}

	incDir := fspath.ToSlash(fspath.JoinStr(a.ObjDir, a.BuildID, "inc"))
	fmt.Fprintf(&sb, "%s: CPPFLAGS += -I%s\n", exe, incDir)
	if dirs := fspath.Ancestors(path.Dir(exe)); len(dirs) > 0 {
		fmt.Fprintf(&sb, "required_dirs += %s\n", strings.Join(dirs, " "))
	}
	sb.WriteString("\n")

	blocks := make([]string, 0, len(a.Modules))
	for _, m := range a.Modules {
		block, err := g.ModuleRules(string(m.Spec.SourceDir), a.BuildID, string(m.Spec.Name), m.Spec.Opts, exe)
		if err != nil {
			return "", err
		}
		blocks = append(blocks, block)
	}
	sb.WriteString(strings.Join(blocks, "\n"))

	return sb.String(), nil
}

// makeValue renders a configuration value on a Make assignment line.
// Lists are space-joined.
func makeValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []string:
		return strings.Join(x, " ")
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = makeValue(e)
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprint(x)
	}
}
