// SPDX-License-Identifier: MPL-2.0

package buildspec

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/champsim/configure/pkg/types"
)

const (
	// KindBranch is a branch direction predictor.
	KindBranch ModuleKind = "branch"
	// KindBTB is a branch target buffer.
	KindBTB ModuleKind = "btb"
	// KindReplacement is a cache replacement policy.
	KindReplacement ModuleKind = "repl"
	// KindPrefetcher is a cache prefetcher.
	KindPrefetcher ModuleKind = "pref"
)

var (
	// ErrInvalidModuleKind is returned when a ModuleKind value is not recognized.
	ErrInvalidModuleKind = errors.New("invalid module kind")
	// ErrInvalidModuleName is returned when a ModuleName is empty or contains
	// characters that cannot appear in a Make variable or a directory name.
	ErrInvalidModuleName = errors.New("invalid module name")
	// ErrInvalidModuleSpec is the sentinel error wrapped by InvalidModuleSpecError.
	ErrInvalidModuleSpec = errors.New("invalid module spec")
	// ErrModuleNameCollision is returned when two modules of different kinds
	// share a name within one build.
	ErrModuleNameCollision = errors.New("module name collision")
)

type (
	// ModuleKind identifies which simulator hook a module plugs into.
	// The generator treats every kind uniformly; the set is fixed only by
	// which content generators exist.
	ModuleKind string

	// ModuleName is the name of a module, unique within its kind. It names
	// the module's object directory and its symbol-map include file.
	ModuleName string

	// ModuleSpec describes one module: where its sources live, the extra
	// compiler flags its objects need, and the symbol substitutions that its
	// generated include file declares.
	ModuleSpec struct {
		Name      ModuleName           `json:"name"`
		SourceDir types.FilesystemPath `json:"source_dir"`
		Opts      []string             `json:"opts,omitempty"`
		FuncMap   map[string]string    `json:"func_map,omitempty"`
	}

	// ModuleInfo groups module specs by kind and then by name.
	ModuleInfo map[ModuleKind]map[ModuleName]ModuleSpec

	// FlatModule is one entry of a flattened ModuleInfo.
	FlatModule struct {
		Kind ModuleKind
		Spec ModuleSpec
	}

	// ShadowPolicy selects how Flatten handles two modules of different
	// kinds that share a name.
	ShadowPolicy int

	// InvalidModuleKindError is returned when a ModuleKind value is not recognized.
	InvalidModuleKindError struct {
		Value ModuleKind
	}

	// InvalidModuleNameError is returned when a ModuleName is malformed.
	InvalidModuleNameError struct {
		Value ModuleName
	}

	// InvalidModuleSpecError collects field-level errors of a ModuleSpec.
	InvalidModuleSpecError struct {
		Name        ModuleName
		FieldErrors []error
	}

	// ModuleNameCollisionError reports two modules that flatten onto the
	// same name. It wraps ErrModuleNameCollision.
	ModuleNameCollisionError struct {
		Name       ModuleName
		FirstKind  ModuleKind
		SecondKind ModuleKind
	}
)

const (
	// RejectShadowing fails Flatten with a ModuleNameCollisionError.
	RejectShadowing ShadowPolicy = iota
	// AllowShadowing keeps the first entry's position and replaces its spec
	// with the later one (last write wins).
	AllowShadowing
)

// Kinds returns every module kind in flattening order.
func Kinds() []ModuleKind {
	return []ModuleKind{KindBranch, KindBTB, KindReplacement, KindPrefetcher}
}

// String returns the string representation of the ModuleKind.
func (k ModuleKind) String() string { return string(k) }

// IsValid returns whether the ModuleKind is one of the known kinds.
func (k ModuleKind) IsValid() (bool, []error) {
	if slices.Contains(Kinds(), k) {
		return true, nil
	}
	return false, []error{&InvalidModuleKindError{Value: k}}
}

// Error implements the error interface for InvalidModuleKindError.
func (e *InvalidModuleKindError) Error() string {
	return fmt.Sprintf("invalid module kind %q (valid: branch, btb, repl, pref)", e.Value)
}

// Unwrap returns ErrInvalidModuleKind for errors.Is() compatibility.
func (e *InvalidModuleKindError) Unwrap() error { return ErrInvalidModuleKind }

// String returns the string representation of the ModuleName.
func (n ModuleName) String() string { return string(n) }

// IsValid returns whether the ModuleName can be used as a directory name and
// as part of a Make variable name: non-empty, no path separators, no
// whitespace and no characters that Make treats specially.
func (n ModuleName) IsValid() (bool, []error) {
	s := string(n)
	if s == "" || s == "." || s == ".." || strings.ContainsAny(s, "/\\ \t\n$:=#%()") {
		return false, []error{&InvalidModuleNameError{Value: n}}
	}
	return true, nil
}

// Error implements the error interface for InvalidModuleNameError.
func (e *InvalidModuleNameError) Error() string {
	return fmt.Sprintf("invalid module name %q", e.Value)
}

// Unwrap returns ErrInvalidModuleName for errors.Is() compatibility.
func (e *InvalidModuleNameError) Unwrap() error { return ErrInvalidModuleName }

// IsValid returns whether the ModuleSpec has a valid name and source directory.
// The existence of the source directory is checked by the descriptor loader,
// not here.
func (s ModuleSpec) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := s.Name.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := s.SourceDir.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidModuleSpecError{Name: s.Name, FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidModuleSpecError.
func (e *InvalidModuleSpecError) Error() string {
	return fmt.Sprintf("invalid module %q: %v", e.Name, errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidModuleSpec for errors.Is() compatibility.
func (e *InvalidModuleSpecError) Unwrap() error { return ErrInvalidModuleSpec }

// Error implements the error interface for ModuleNameCollisionError.
func (e *ModuleNameCollisionError) Error() string {
	return fmt.Sprintf("module %q is declared as both %s and %s; module names must be unique across kinds",
		e.Name, e.FirstKind, e.SecondKind)
}

// Unwrap returns ErrModuleNameCollision for errors.Is() compatibility.
func (e *ModuleNameCollisionError) Unwrap() error { return ErrModuleNameCollision }

// Specs returns the modules of one kind ordered by name.
func (m ModuleInfo) Specs(kind ModuleKind) []ModuleSpec {
	byName := m[kind]
	out := make([]ModuleSpec, 0, len(byName))
	for _, name := range slices.Sorted(maps.Keys(byName)) {
		out = append(out, byName[name])
	}
	return out
}

// Flatten merges all kinds into one ordered list keyed by module name.
// Kinds are visited in Kinds() order and names within a kind in sorted
// order, so the result is deterministic.
//
// Under AllowShadowing a later module sharing a name with an earlier one
// replaces the earlier spec in place. Under RejectShadowing the collision is
// returned as a *ModuleNameCollisionError.
func (m ModuleInfo) Flatten(policy ShadowPolicy) ([]FlatModule, error) {
	var out []FlatModule
	index := make(map[ModuleName]int)
	for _, kind := range m.orderedKinds() {
		for _, spec := range m.Specs(kind) {
			name := spec.Name
			if i, seen := index[name]; seen {
				if policy == RejectShadowing {
					return nil, &ModuleNameCollisionError{Name: name, FirstKind: out[i].Kind, SecondKind: kind}
				}
				out[i] = FlatModule{Kind: kind, Spec: spec}
				continue
			}
			index[name] = len(out)
			out = append(out, FlatModule{Kind: kind, Spec: spec})
		}
	}
	return out, nil
}

// orderedKinds returns the known kinds first, then any other kinds present
// in the map sorted by name.
func (m ModuleInfo) orderedKinds() []ModuleKind {
	kinds := Kinds()
	var extra []ModuleKind
	for k := range m {
		if !slices.Contains(kinds, k) {
			extra = append(extra, k)
		}
	}
	slices.SortFunc(extra, func(a, b ModuleKind) int { return cmp.Compare(a, b) })
	return append(kinds, extra...)
}
