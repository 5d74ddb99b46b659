// SPDX-License-Identifier: MPL-2.0

// Package fragment expands build descriptors into the pieces of generated
// text destined for each output file, and groups those pieces by file.
//
// Collecting is free of writes: it reads module source trees to discover
// sources but never touches the output tree, so every build of an invocation
// is expanded before the first file is written.
package fragment

import (
	"cmp"
	"slices"

	"github.com/champsim/configure/internal/buildid"
	"github.com/champsim/configure/internal/codegen"
	"github.com/champsim/configure/internal/makefile"
	"github.com/champsim/configure/pkg/buildspec"
	"github.com/champsim/configure/pkg/fspath"
	"github.com/champsim/configure/pkg/types"
)

// Generated file names.
const (
	ConstantsFileName     = "champsim_constants.h"
	InstantiationFileName = "core_inst.inc"
	CoreModulesFileName   = "ooo_cpu_modules.inc"
	CacheModulesFileName  = "cache_modules.inc"
	DefaultMakefileName   = "_configuration.mk"

	// SymbolMapExt is appended to a module name to form its symbol-map file.
	SymbolMapExt = ".inc"
)

type (
	// Fragment is a chunk of generated text destined for Path.
	Fragment struct {
		Path    types.FilesystemPath
		Content string
	}

	// Group is the ordered content of every fragment destined for Path.
	Group struct {
		Path     types.FilesystemPath
		Contents []string
	}

	// Build is the derived identity of one descriptor.
	Build struct {
		ID         buildid.ID
		Layout     buildid.Layout
		Executable types.FilesystemPath
		Modules    []buildspec.FlatModule
	}

	// Collector expands descriptors into fragments.
	Collector struct {
		// Generators render the simulator-specific headers.
		// Nil means codegen.Default().
		Generators codegen.Generators
		// Rules renders the Makefile fragment.
		Rules makefile.Generator
		// MakefileName is the path of the shared Makefile fragment.
		// Empty means DefaultMakefileName.
		MakefileName types.FilesystemPath
		// Shadowing selects how same-named modules of different kinds
		// are flattened.
		Shadowing buildspec.ShadowPolicy
	}
)

func (c Collector) generators() codegen.Generators {
	if c.Generators == nil {
		return codegen.Default()
	}
	return c.Generators
}

func (c Collector) makefileName() types.FilesystemPath {
	if c.MakefileName == "" {
		return DefaultMakefileName
	}
	return c.MakefileName
}

// Identify derives the build id, output layout, executable path and
// flattened module list of d.
func (c Collector) Identify(d buildspec.BuildDescriptor) (Build, error) {
	id, err := buildid.Derive(d)
	if err != nil {
		return Build{}, err
	}
	mods, err := d.Modules.Flatten(c.Shadowing)
	if err != nil {
		return Build{}, err
	}
	return Build{
		ID:         id,
		Layout:     buildid.OutputPaths(d.ObjDir, id),
		Executable: fspath.JoinStr(d.BinDir, d.Executable()),
		Modules:    mods,
	}, nil
}

// ForBuild returns the fragments of one descriptor in emission order: one
// symbol map per module, the instantiation file, the branch and BTB tables,
// the replacement and prefetcher tables, the constants header and the
// Makefile section.
func (c Collector) ForBuild(d buildspec.BuildDescriptor) (Build, []Fragment, error) {
	b, err := c.Identify(d)
	if err != nil {
		return Build{}, nil, err
	}
	gen := c.generators()

	frags := make([]Fragment, 0, len(b.Modules)+7)
	for _, m := range b.Modules {
		frags = append(frags, Fragment{
			Path:    b.Layout.Include(string(m.Spec.Name) + SymbolMapExt),
			Content: gen.SymbolMap(m.Spec.FuncMap),
		})
	}

	coreFile := b.Layout.Include(CoreModulesFileName)
	cacheFile := b.Layout.Include(CacheModulesFileName)
	frags = append(frags,
		Fragment{Path: b.Layout.Include(InstantiationFileName), Content: gen.Instantiation(d.Elements)},
		Fragment{Path: coreFile, Content: gen.Modules(buildspec.KindBranch, d.Modules.Specs(buildspec.KindBranch))},
		Fragment{Path: coreFile, Content: gen.Modules(buildspec.KindBTB, d.Modules.Specs(buildspec.KindBTB))},
		Fragment{Path: cacheFile, Content: gen.Modules(buildspec.KindReplacement, d.Modules.Specs(buildspec.KindReplacement))},
		Fragment{Path: cacheFile, Content: gen.Modules(buildspec.KindPrefetcher, d.Modules.Specs(buildspec.KindPrefetcher))},
		Fragment{Path: b.Layout.Include(ConstantsFileName), Content: gen.Constants(d.Config, d.PhysicalMemory())},
	)

	mk, err := c.Rules.Assemble(makefile.Assembly{
		BuildID:    string(b.ID),
		Modules:    b.Modules,
		Config:     d.Config,
		Executable: b.Executable,
		ObjDir:     d.ObjDir,
	})
	if err != nil {
		return Build{}, nil, err
	}
	frags = append(frags, Fragment{Path: c.makefileName(), Content: mk})

	return b, frags, nil
}

// Collect returns the fragments of every descriptor, descriptors in order.
// The first failing descriptor aborts collection.
func (c Collector) Collect(builds []buildspec.BuildDescriptor) ([]Build, []Fragment, error) {
	var (
		infos []Build
		all   []Fragment
	)
	for _, d := range builds {
		b, frags, err := c.ForBuild(d)
		if err != nil {
			return nil, nil, err
		}
		infos = append(infos, b)
		all = append(all, frags...)
	}
	return infos, all, nil
}

// GroupByPath groups fragments by destination, ordered by path. Fragments
// sharing a path keep their relative emission order.
func GroupByPath(frags []Fragment) []Group {
	sorted := slices.Clone(frags)
	slices.SortStableFunc(sorted, func(a, b Fragment) int { return cmp.Compare(a.Path, b.Path) })

	var groups []Group
	for _, f := range sorted {
		if n := len(groups); n > 0 && groups[n-1].Path == f.Path {
			groups[n-1].Contents = append(groups[n-1].Contents, f.Content)
			continue
		}
		groups = append(groups, Group{Path: f.Path, Contents: []string{f.Content}})
	}
	return groups
}
