// SPDX-License-Identifier: MPL-2.0

package makefile

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/champsim/configure/pkg/fspath"
	"github.com/champsim/configure/pkg/types"
)

// ObjDirVar is the Make variable every module object directory is rooted at.
const ObjDirVar = "$(objdir)"

// Generator renders module rule blocks and whole build fragments.
// The zero value discovers ".cc" sources on the host filesystem.
type Generator struct {
	// SourceExt is the recognized source extension. Empty means DefaultSourceExt.
	SourceExt string
	// Open returns the filesystem rooted at a module source directory.
	// Nil means os.DirFS.
	Open func(dir string) fs.FS
}

func (g Generator) sourceExt() string {
	if g.SourceExt == "" {
		return DefaultSourceExt
	}
	return g.SourceExt
}

func (g Generator) open(dir string) fs.FS {
	if g.Open == nil {
		return os.DirFS(dir)
	}
	return g.Open(dir)
}

// ObjectListVar returns the name of the variable accumulating the objects of
// one module of one build.
func ObjectListVar(buildID, moduleName string) string {
	return buildID + "_" + moduleName + "_objs"
}

// ModuleObjDir returns the Make path of a module's private object directory.
func ModuleObjDir(buildID, moduleName string) string {
	return path.Join(ObjDirVar, buildID, moduleName)
}

// ModuleRules discovers the sources of one module and returns its rule block:
//
//  1. the module object directory and its ancestors as required_dirs
//  2. one object per source file, accumulated in ObjectListVar(buildID, name)
//  3. an order-only dependency of those objects on their directories
//  4. a scoped -I<sourceDir> preprocessor flag
//  5. one scoped CXXFLAGS addition per entry of opts
//  6. the pattern rule compiling <sourceDir>/%<ext> into the object directory
//  7. the dependency of executable on the object list
//
// Sources in subdirectories of sourceDir keep their relative path beneath the
// object directory, and those subdirectories are required too.
func (g Generator) ModuleRules(sourceDir, buildID, name string, opts []string, executable string) (string, error) {
	if g.Open == nil {
		if err := CheckSourceDir(sourceDir); err != nil {
			return "", err
		}
	}
	ext := g.sourceExt()
	sources, err := DiscoverSources(g.open(sourceDir), ext)
	if err != nil {
		return "", fmt.Errorf("module %s: %w", name, err)
	}

	destDir := ModuleObjDir(buildID, name)
	srcDir := fspath.ToSlash(fspath.Clean(types.FilesystemPath(sourceDir)))
	varname := ObjectListVar(buildID, name)

	dirs := fspath.Ancestors(destDir)
	var subdirs []string
	for _, src := range sources {
		if d := path.Dir(src); d != "." {
			for _, sub := range fspath.Ancestors(d) {
				subdirs = append(subdirs, path.Join(destDir, sub))
			}
		}
	}
	slices.Sort(subdirs)
	subdirs = slices.Compact(subdirs)
	dirs = append(dirs, subdirs...)

	var sb strings.Builder
	sb.WriteString("###\n")
	fmt.Fprintf(&sb, "# Build ID: %s\n", buildID)
	fmt.Fprintf(&sb, "# Module: %s\n", name)
	sb.WriteString("###\n\n")

	fmt.Fprintf(&sb, "required_dirs += %s\n", strings.Join(dirs, " "))
	for _, src := range sources {
		fmt.Fprintf(&sb, "%s += %s/%s.o\n", varname, destDir, strings.TrimSuffix(src, ext))
	}
	fmt.Fprintf(&sb, "$(%s): | %s\n", varname, strings.Join(append([]string{destDir}, subdirs...), " "))
	fmt.Fprintf(&sb, "%s/%%.o: CPPFLAGS += -I%s\n", destDir, srcDir)
	for _, opt := range opts {
		fmt.Fprintf(&sb, "%s/%%.o: CXXFLAGS += %s\n", destDir, opt)
	}
	fmt.Fprintf(&sb, "%s/%%.o: %s/%%%s\n\t$(COMPILE.cc) $(OUTPUT_OPTION) $<\n", destDir, srcDir, ext)
	fmt.Fprintf(&sb, "%s: $(%s)\n", executable, varname)

	return sb.String(), nil
}
