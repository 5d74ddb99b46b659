// SPDX-License-Identifier: MPL-2.0

package fragment

import (
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/champsim/configure/internal/testutil"
	"github.com/champsim/configure/pkg/buildspec"
	"github.com/champsim/configure/pkg/types"
)

func TestGroupByPath_OrderWithinPath(t *testing.T) {
	t.Parallel()

	frags := []Fragment{
		{Path: "z.inc", Content: "z1"},
		{Path: "p.inc", Content: "A"},
		{Path: "a.inc", Content: "a1"},
		{Path: "z.inc", Content: "z2"},
		{Path: "p.inc", Content: "B"},
	}

	groups := GroupByPath(frags)

	var paths []types.FilesystemPath
	for _, g := range groups {
		paths = append(paths, g.Path)
	}
	if want := []types.FilesystemPath{"a.inc", "p.inc", "z.inc"}; !slices.Equal(paths, want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	if !slices.Equal(groups[1].Contents, []string{"A", "B"}) {
		t.Errorf("p.inc contents = %v, want [A B]", groups[1].Contents)
	}
	if !slices.Equal(groups[2].Contents, []string{"z1", "z2"}) {
		t.Errorf("z.inc contents = %v, want [z1 z2]", groups[2].Contents)
	}

	// The input is left untouched.
	if frags[0].Path != "z.inc" {
		t.Error("GroupByPath reordered its input")
	}
}

func TestGroupByPath_InterleavingDoesNotMatter(t *testing.T) {
	t.Parallel()

	a := []Fragment{{Path: "p", Content: "A"}, {Path: "q", Content: "x"}, {Path: "p", Content: "B"}}
	b := []Fragment{{Path: "q", Content: "x"}, {Path: "p", Content: "A"}, {Path: "p", Content: "B"}}

	ga, gb := GroupByPath(a), GroupByPath(b)
	if len(ga) != len(gb) {
		t.Fatalf("group counts differ: %d != %d", len(ga), len(gb))
	}
	for i := range ga {
		if ga[i].Path != gb[i].Path || !slices.Equal(ga[i].Contents, gb[i].Contents) {
			t.Errorf("group %d differs: %+v vs %+v", i, ga[i], gb[i])
		}
	}
}

func testDescriptor(t *testing.T, root, exe string) buildspec.BuildDescriptor {
	t.Helper()
	bimodal := testutil.SourceTree(t, filepath.Join(root, "branch", "bimodal"), map[string]string{"bimodal.cc": ""})
	btb := testutil.SourceTree(t, filepath.Join(root, "btb", "basic_btb"), map[string]string{"basic_btb.cc": ""})
	lru := testutil.SourceTree(t, filepath.Join(root, "replacement", "lru"), map[string]string{"lru.cc": ""})
	next := testutil.SourceTree(t, filepath.Join(root, "prefetcher", "next_line"), map[string]string{"next_line.cc": ""})

	return buildspec.BuildDescriptor{
		ExecutableName: exe,
		Elements:       map[string]any{"pmem": map[string]any{"channels": 1}},
		Modules: buildspec.ModuleInfo{
			buildspec.KindBranch: {"bimodal": {
				Name: "bimodal", SourceDir: types.FilesystemPath(bimodal),
				FuncMap: map[string]string{"predict_branch": "bimodal_predict_branch"},
			}},
			buildspec.KindBTB:         {"basic_btb": {Name: "basic_btb", SourceDir: types.FilesystemPath(btb)}},
			buildspec.KindReplacement: {"lru": {Name: "lru", SourceDir: types.FilesystemPath(lru)}},
			buildspec.KindPrefetcher:  {"next_line": {Name: "next_line", SourceDir: types.FilesystemPath(next)}},
		},
		Config: map[string]any{"block_size": 64},
		BinDir: "bin",
		ObjDir: types.FilesystemPath(filepath.Join(root, "obj")),
	}
}

func TestForBuild_EmissionOrder(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	d := testDescriptor(t, root, "champsim")

	b, frags, err := Collector{}.ForBuild(d)
	if err != nil {
		t.Fatalf("ForBuild() error = %v", err)
	}

	inc := func(name string) types.FilesystemPath { return b.Layout.Include(name) }
	wantPaths := []types.FilesystemPath{
		inc("bimodal.inc"),
		inc("basic_btb.inc"),
		inc("lru.inc"),
		inc("next_line.inc"),
		inc(InstantiationFileName),
		inc(CoreModulesFileName),
		inc(CoreModulesFileName),
		inc(CacheModulesFileName),
		inc(CacheModulesFileName),
		inc(ConstantsFileName),
		DefaultMakefileName,
	}
	var got []types.FilesystemPath
	for _, f := range frags {
		got = append(got, f.Path)
	}
	if !slices.Equal(got, wantPaths) {
		t.Fatalf("paths =\n%v\nwant\n%v", got, wantPaths)
	}

	if !strings.Contains(frags[5].Content, "modules::branch") || !strings.Contains(frags[6].Content, "modules::btb") {
		t.Error("core modules fragments are not branch then btb")
	}
	if !strings.Contains(frags[7].Content, "modules::replacement") || !strings.Contains(frags[8].Content, "modules::prefetcher") {
		t.Error("cache modules fragments are not replacement then prefetcher")
	}
	if frags[0].Content != "#define predict_branch bimodal_predict_branch\n" {
		t.Errorf("symbol map = %q", frags[0].Content)
	}
	if want := filepath.Join(string(d.ObjDir), string(b.ID), "inc"); string(b.Layout.IncDir) != want {
		t.Errorf("IncDir = %s, want %s", b.Layout.IncDir, want)
	}
	if b.Executable != types.FilesystemPath(filepath.Join("bin", "champsim")) {
		t.Errorf("Executable = %s", b.Executable)
	}
}

func TestCollect_TwoBuildsShareOnlyTheMakefile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	first := testDescriptor(t, root, "champsim_a")
	second := testDescriptor(t, root, "champsim_b")

	builds, frags, err := Collector{MakefileName: "_cfg.mk"}.Collect([]buildspec.BuildDescriptor{first, second})
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(builds) != 2 || builds[0].ID == builds[1].ID {
		t.Fatalf("builds = %+v, want two distinct ids", builds)
	}

	for _, f := range frags {
		if f.Path == "_cfg.mk" {
			continue
		}
		inFirst := strings.HasPrefix(string(f.Path), string(builds[0].Layout.Root))
		inSecond := strings.HasPrefix(string(f.Path), string(builds[1].Layout.Root))
		if inFirst == inSecond {
			t.Errorf("path %s is not owned by exactly one build", f.Path)
		}
	}

	groups := GroupByPath(frags)
	var mk Group
	for _, g := range groups {
		if g.Path == "_cfg.mk" {
			mk = g
		}
	}
	if len(mk.Contents) != 2 {
		t.Fatalf("makefile has %d sections, want 2", len(mk.Contents))
	}
	if !strings.Contains(mk.Contents[0], "# Build ID: "+string(builds[0].ID)) ||
		!strings.Contains(mk.Contents[1], "# Build ID: "+string(builds[1].ID)) {
		t.Error("makefile sections are not in descriptor order")
	}
}

func TestCollect_ModuleCollisionAborts(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	d := testDescriptor(t, root, "champsim")
	d.Modules[buildspec.KindPrefetcher]["lru"] = buildspec.ModuleSpec{Name: "lru", SourceDir: d.Modules[buildspec.KindReplacement]["lru"].SourceDir}

	_, _, err := Collector{}.Collect([]buildspec.BuildDescriptor{d})
	if !errors.Is(err, buildspec.ErrModuleNameCollision) {
		t.Fatalf("Collect() error = %v, want ErrModuleNameCollision", err)
	}

	_, frags, err := Collector{Shadowing: buildspec.AllowShadowing}.Collect([]buildspec.BuildDescriptor{d})
	if err != nil {
		t.Fatalf("Collect() with shadowing error = %v", err)
	}
	var symbolMaps int
	for _, f := range frags {
		if strings.HasSuffix(string(f.Path), SymbolMapExt) && filepath.Base(string(f.Path)) == "lru.inc" {
			symbolMaps++
		}
	}
	if symbolMaps != 1 {
		t.Errorf("shadowed module produced %d symbol maps, want 1", symbolMaps)
	}
}
