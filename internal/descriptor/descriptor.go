// SPDX-License-Identifier: MPL-2.0

package descriptor

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/champsim/configure/internal/makefile"
	"github.com/champsim/configure/pkg/buildspec"
	"github.com/champsim/configure/pkg/cueutil"
	"github.com/champsim/configure/pkg/fspath"
	"github.com/champsim/configure/pkg/types"

	"github.com/pelletier/go-toml/v2"
)

//go:embed build_schema.cue
var buildSchema []byte

// ErrUnsupportedFormat is returned for descriptor files that are not CUE,
// JSON or TOML.
var ErrUnsupportedFormat = errors.New("unsupported descriptor format")

// Supported descriptor file extensions.
const (
	ExtCUE  = ".cue"
	ExtJSON = ".json"
	ExtTOML = ".toml"
)

type (
	// Loader turns descriptor files into BuildDescriptors.
	Loader struct {
		// ObjDir is used when a descriptor has no obj_dir.
		ObjDir types.FilesystemPath
		// BinDir is used when a descriptor has no bin_dir.
		BinDir types.FilesystemPath
		// Environ returns the process environment as KEY=value pairs.
		// Nil means os.Environ.
		Environ func() []string
		// SkipSourceCheck disables the check that every module source
		// directory exists.
		SkipSourceCheck bool
	}

	buildFile struct {
		ExecutableName string                           `json:"executable_name,omitempty"`
		BinDir         string                           `json:"bin_dir,omitempty"`
		ObjDir         string                           `json:"obj_dir,omitempty"`
		SrcDirs        []string                         `json:"src_dirs,omitempty"`
		Env            map[string]string                `json:"env,omitempty"`
		Elements       map[string]any                   `json:"elements,omitempty"`
		Config         map[string]any                   `json:"config,omitempty"`
		Modules        map[string]map[string]moduleFile `json:"modules,omitempty"`
	}

	moduleFile struct {
		SourceDir string            `json:"source_dir"`
		Opts      []string          `json:"opts,omitempty"`
		FuncMap   map[string]string `json:"func_map,omitempty"`
	}
)

// IsDescriptorFile reports whether path has a supported extension.
func IsDescriptorFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtCUE, ExtJSON, ExtTOML:
		return true
	default:
		return false
	}
}

// LoadAll loads every file in order. The first failure aborts loading.
func (l Loader) LoadAll(paths []string) ([]buildspec.BuildDescriptor, error) {
	descs := make([]buildspec.BuildDescriptor, 0, len(paths))
	for _, p := range paths {
		d, err := l.Load(p)
		if err != nil {
			return nil, err
		}
		descs = append(descs, d)
	}
	return descs, nil
}

// Load reads and resolves one descriptor file.
func (l Loader) Load(path string) (buildspec.BuildDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return buildspec.BuildDescriptor{}, fmt.Errorf("read descriptor: %w", err)
	}
	return l.Parse(path, data)
}

// Parse decodes data in the format implied by name's extension, then
// expands variables, applies defaults and checks module source directories.
func (l Loader) Parse(name string, data []byte) (buildspec.BuildDescriptor, error) {
	f, err := decode(name, data)
	if err != nil {
		return buildspec.BuildDescriptor{}, err
	}
	d, err := l.resolve(f)
	if err != nil {
		return buildspec.BuildDescriptor{}, fmt.Errorf("%s: %w", name, err)
	}
	if valid, errs := d.IsValid(); !valid {
		return buildspec.BuildDescriptor{}, fmt.Errorf("%s: %w", name, errs[0])
	}
	if !l.SkipSourceCheck {
		for _, kind := range slices.Sorted(maps.Keys(d.Modules)) {
			for _, spec := range d.Modules.Specs(kind) {
				if err := makefile.CheckSourceDir(string(spec.SourceDir)); err != nil {
					return buildspec.BuildDescriptor{}, fmt.Errorf("%s: %s module %s: %w", name, kind, spec.Name, err)
				}
			}
		}
	}
	return d, nil
}

func decode(name string, data []byte) (*buildFile, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ExtCUE, ExtJSON:
	case ExtTOML:
		var doc map[string]any
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		// JSON is CUE, so TOML input is validated by the same schema.
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		data = converted
	default:
		return nil, fmt.Errorf("%w: %s (want %s, %s or %s)", ErrUnsupportedFormat, name, ExtCUE, ExtJSON, ExtTOML)
	}

	result, err := cueutil.ParseAndDecode[buildFile](buildSchema, data, "#Build", cueutil.WithFilename(name))
	if err != nil {
		return nil, err
	}
	return result.Value, nil
}

func (l Loader) resolve(f *buildFile) (buildspec.BuildDescriptor, error) {
	env := l.environ(f.Env)

	d := buildspec.BuildDescriptor{
		ExecutableName: f.ExecutableName,
		Elements:       f.Elements,
		Config:         f.Config,
		Env:            f.Env,
		BinDir:         l.BinDir,
		ObjDir:         l.ObjDir,
	}

	var err error
	if f.BinDir != "" {
		if d.BinDir, err = expandPath(f.BinDir, env); err != nil {
			return d, fmt.Errorf("bin_dir: %w", err)
		}
	}
	if f.ObjDir != "" {
		if d.ObjDir, err = expandPath(f.ObjDir, env); err != nil {
			return d, fmt.Errorf("obj_dir: %w", err)
		}
	}
	for i, dir := range f.SrcDirs {
		p, err := expandPath(dir, env)
		if err != nil {
			return d, fmt.Errorf("src_dirs[%d]: %w", i, err)
		}
		d.SrcDirs = append(d.SrcDirs, p)
	}

	if len(f.Modules) > 0 {
		d.Modules = make(buildspec.ModuleInfo, len(f.Modules))
	}
	for kind, byName := range f.Modules {
		specs := make(map[buildspec.ModuleName]buildspec.ModuleSpec, len(byName))
		for name, m := range byName {
			dir, err := expandPath(m.SourceDir, env)
			if err != nil {
				return d, fmt.Errorf("modules.%s.%s.source_dir: %w", kind, name, err)
			}
			specs[buildspec.ModuleName(name)] = buildspec.ModuleSpec{
				Name:      buildspec.ModuleName(name),
				SourceDir: dir,
				Opts:      m.Opts,
				FuncMap:   m.FuncMap,
			}
		}
		d.Modules[buildspec.ModuleKind(kind)] = specs
	}
	return d, nil
}

// expandPath expands variables in p and cleans the result.
func expandPath(p string, env []string) (types.FilesystemPath, error) {
	expanded, err := Expand(p, env)
	if err != nil {
		return "", err
	}
	return fspath.Clean(types.FilesystemPath(expanded)), nil
}

func (l Loader) environ(own map[string]string) []string {
	environ := l.Environ
	if environ == nil {
		environ = os.Environ
	}
	pairs := environ()
	for k, v := range own {
		pairs = append(pairs, k+"="+v)
	}
	return pairs
}
