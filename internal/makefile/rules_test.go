// SPDX-License-Identifier: MPL-2.0

package makefile

import (
	"errors"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/champsim/configure/internal/testutil"
)

func mapFSGenerator(trees map[string]fstest.MapFS) Generator {
	return Generator{Open: func(dir string) fs.FS { return trees[dir] }}
}

func TestModuleRules_Golden(t *testing.T) {
	t.Parallel()

	g := mapFSGenerator(map[string]fstest.MapFS{
		"branch/m1": {
			"a.cc":      {Data: []byte("int a;")},
			"a.h":       {Data: []byte("#pragma once")},
			"README.md": {Data: []byte("docs")},
		},
	})

	got, err := g.ModuleRules("branch/m1", "1a2b3c4d", "m1", []string{"-O2", "-DFOO"}, "bin/test")
	if err != nil {
		t.Fatalf("ModuleRules() error = %v", err)
	}

	want := `###
# Build ID: 1a2b3c4d
# Module: m1
###

required_dirs += $(objdir) $(objdir)/1a2b3c4d $(objdir)/1a2b3c4d/m1
1a2b3c4d_m1_objs += $(objdir)/1a2b3c4d/m1/a.o
$(1a2b3c4d_m1_objs): | $(objdir)/1a2b3c4d/m1
$(objdir)/1a2b3c4d/m1/%.o: CPPFLAGS += -Ibranch/m1
$(objdir)/1a2b3c4d/m1/%.o: CXXFLAGS += -O2
$(objdir)/1a2b3c4d/m1/%.o: CXXFLAGS += -DFOO
$(objdir)/1a2b3c4d/m1/%.o: branch/m1/%.cc
	$(COMPILE.cc) $(OUTPUT_OPTION) $<
bin/test: $(1a2b3c4d_m1_objs)
`
	if got != want {
		t.Errorf("ModuleRules() =\n%s\nwant\n%s", got, want)
	}
}

func TestModuleRules_SortedAndNested(t *testing.T) {
	t.Parallel()

	g := mapFSGenerator(map[string]fstest.MapFS{
		"pref/spp": {
			"z.cc":          {},
			"b.cc":          {},
			"detail/c.cc":   {},
			"detail/x/y.cc": {},
		},
	})

	got, err := g.ModuleRules("pref/spp", "id", "spp", nil, "bin/champsim")
	if err != nil {
		t.Fatalf("ModuleRules() error = %v", err)
	}

	var objs []string
	for _, line := range strings.Split(got, "\n") {
		if strings.HasPrefix(line, "id_spp_objs += ") {
			objs = append(objs, strings.TrimPrefix(line, "id_spp_objs += "))
		}
	}
	wantObjs := []string{
		"$(objdir)/id/spp/b.o",
		"$(objdir)/id/spp/detail/c.o",
		"$(objdir)/id/spp/detail/x/y.o",
		"$(objdir)/id/spp/z.o",
	}
	if !slices.Equal(objs, wantObjs) {
		t.Errorf("objects = %v, want %v", objs, wantObjs)
	}

	for _, want := range []string{
		"required_dirs += $(objdir) $(objdir)/id $(objdir)/id/spp $(objdir)/id/spp/detail $(objdir)/id/spp/detail/x\n",
		"$(id_spp_objs): | $(objdir)/id/spp $(objdir)/id/spp/detail $(objdir)/id/spp/detail/x\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("ModuleRules() missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "CXXFLAGS") {
		t.Errorf("ModuleRules() emitted CXXFLAGS without opts:\n%s", got)
	}
}

func TestModuleRules_Deterministic(t *testing.T) {
	t.Parallel()

	dir := testutil.SourceTree(t, t.TempDir(), map[string]string{
		"c.cc": "", "a.cc": "", "b.cc": "", "sub/d.cc": "",
	})
	var g Generator

	first, err := g.ModuleRules(dir, "id", "m", nil, "bin/x")
	if err != nil {
		t.Fatalf("ModuleRules() error = %v", err)
	}
	for range 5 {
		again, err := g.ModuleRules(dir, "id", "m", nil, "bin/x")
		if err != nil {
			t.Fatalf("ModuleRules() error = %v", err)
		}
		if again != first {
			t.Fatalf("ModuleRules() not reproducible:\n%s\n---\n%s", first, again)
		}
	}
	if !strings.Contains(first, "id_m_objs += $(objdir)/id/m/sub/d.o") {
		t.Errorf("host discovery missed nested source:\n%s", first)
	}
}

func TestModuleRules_MissingSourceDir(t *testing.T) {
	t.Parallel()

	var g Generator
	_, err := g.ModuleRules(filepath.Join(t.TempDir(), "nope"), "id", "m", nil, "bin/x")
	if !errors.Is(err, ErrSourceDirNotFound) {
		t.Fatalf("ModuleRules() error = %v, want ErrSourceDirNotFound", err)
	}
}

func TestModuleRules_SourceDirIsFile(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "file.cc")
	testutil.MustWriteFile(t, file, "")

	var g Generator
	if _, err := g.ModuleRules(file, "id", "m", nil, "bin/x"); !errors.Is(err, ErrSourceDirNotFound) {
		t.Fatalf("ModuleRules() error = %v, want ErrSourceDirNotFound", err)
	}
}

func TestModuleRules_IsolatedAcrossBuilds(t *testing.T) {
	t.Parallel()

	tree := fstest.MapFS{"a.cc": {}, "b.cc": {}}
	g := mapFSGenerator(map[string]fstest.MapFS{"one/m": tree, "two/m": tree})

	first, err := g.ModuleRules("one/m", "aaaaaaaa", "m", nil, "bin/a")
	if err != nil {
		t.Fatal(err)
	}
	second, err := g.ModuleRules("two/m", "bbbbbbbb", "m", nil, "bin/b")
	if err != nil {
		t.Fatal(err)
	}

	if ObjectListVar("aaaaaaaa", "m") == ObjectListVar("bbbbbbbb", "m") {
		t.Fatal("object list variables collide")
	}
	targets := func(s string) []string {
		var out []string
		for _, line := range strings.Split(s, "\n") {
			if _, obj, ok := strings.Cut(line, "_objs += "); ok {
				out = append(out, obj)
			}
		}
		return out
	}
	for _, a := range targets(first) {
		if slices.Contains(targets(second), a) {
			t.Errorf("object %s produced by both builds", a)
		}
	}
	if strings.Contains(second, "$(objdir)/aaaaaaaa/") || strings.Contains(first, "$(objdir)/bbbbbbbb/") {
		t.Error("compile rules leak into the other build's object directory")
	}
}

func TestDiscoverSources_Extension(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{"a.cpp": {}, "b.cc": {}, "c.cpp.bak": {}, "d/e.cpp": {}}
	got, err := DiscoverSources(fsys, ".cpp")
	if err != nil {
		t.Fatalf("DiscoverSources() error = %v", err)
	}
	if want := []string{"a.cpp", "d/e.cpp"}; !slices.Equal(got, want) {
		t.Errorf("DiscoverSources() = %v, want %v", got, want)
	}

	for _, bad := range []string{"", "cc", ".", ".*", ".c/c"} {
		if _, err := DiscoverSources(fsys, bad); !errors.Is(err, ErrInvalidSourceExt) {
			t.Errorf("DiscoverSources(%q) error = %v, want ErrInvalidSourceExt", bad, err)
		}
	}
}
