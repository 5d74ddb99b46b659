// SPDX-License-Identifier: MPL-2.0

package buildspec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/champsim/configure/pkg/types"
)

// DefaultExecutableBase is the executable name used when a descriptor names
// neither an executable nor a configuration.
const DefaultExecutableBase = "champsim"

var (
	// ErrInvalidDescriptor is the sentinel error wrapped by InvalidDescriptorError.
	ErrInvalidDescriptor = errors.New("invalid build descriptor")
	// ErrModuleKeyMismatch is returned when a module's map key differs from its Name.
	ErrModuleKeyMismatch = errors.New("module key does not match module name")
)

type (
	// BuildDescriptor is the complete specification of one compilable
	// program variant.
	//
	// Every field except SrcDirs and ObjDir contributes to the build id.
	// Those two only decide where sources are found and where generated
	// files land; they never change what is generated.
	BuildDescriptor struct {
		// ExecutableName is the file name of the linked executable.
		ExecutableName string
		// Elements are the inputs of the instantiation and constants
		// generators (cores, caches, physical memory, ...).
		Elements map[string]any
		// Modules are the pluggable modules compiled into the executable.
		Modules ModuleInfo
		// Config holds compiler overrides (CC, CXX), flag additions
		// (CFLAGS, CXXFLAGS, CPPFLAGS, LDFLAGS, LDLIBS) and knobs consumed
		// by the constants generator.
		Config map[string]any
		// Env is the environment the descriptor was resolved against.
		Env map[string]string
		// BinDir is the directory the executable is linked into.
		BinDir types.FilesystemPath

		// SrcDirs are the simulator source roots.
		SrcDirs []types.FilesystemPath
		// ObjDir is the root of all generated and compiled output.
		ObjDir types.FilesystemPath
	}

	// InvalidDescriptorError collects field-level errors of a BuildDescriptor.
	InvalidDescriptorError struct {
		Executable  string
		FieldErrors []error
	}
)

// Executable returns the executable file name, defaulting to "champsim" or
// "champsim_<name>" when the configuration carries a "name" key.
func (d BuildDescriptor) Executable() string {
	if d.ExecutableName != "" {
		return d.ExecutableName
	}
	if name, ok := d.Config["name"].(string); ok && name != "" {
		return DefaultExecutableBase + "_" + name
	}
	return DefaultExecutableBase
}

// PhysicalMemory returns the "pmem" element, or nil when absent.
func (d BuildDescriptor) PhysicalMemory() map[string]any {
	pmem, _ := d.Elements["pmem"].(map[string]any)
	return pmem
}

// IsValid returns whether the descriptor's paths and modules are well formed.
func (d BuildDescriptor) IsValid() (bool, []error) {
	var errs []error
	if strings.ContainsAny(d.ExecutableName, "/\\") {
		errs = append(errs, fmt.Errorf("executable name %q must not contain path separators", d.ExecutableName))
	}
	if valid, fieldErrs := d.BinDir.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := d.ObjDir.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	for kind, byName := range d.Modules {
		if valid, fieldErrs := kind.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
		for key, spec := range byName {
			if key != spec.Name {
				errs = append(errs, fmt.Errorf("%w: key %q, name %q", ErrModuleKeyMismatch, key, spec.Name))
			}
			if valid, fieldErrs := spec.IsValid(); !valid {
				errs = append(errs, fieldErrs...)
			}
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidDescriptorError{Executable: d.Executable(), FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidDescriptorError.
func (e *InvalidDescriptorError) Error() string {
	return fmt.Sprintf("invalid build descriptor for %q: %v", e.Executable, errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidDescriptor for errors.Is() compatibility.
func (e *InvalidDescriptorError) Unwrap() error { return ErrInvalidDescriptor }
