// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"

	"github.com/champsim/configure/internal/filewrite"
	"github.com/champsim/configure/internal/makefile"
	"github.com/champsim/configure/pkg/buildspec"
	"github.com/champsim/configure/pkg/types"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultObjDir is the object directory of descriptors that omit one.
	DefaultObjDir = ".csconfig"
	// DefaultBinDir is the executable directory of descriptors that omit one.
	DefaultBinDir = "bin"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidConfigError is returned when a loaded Config fails validation.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Output sets default output locations.
		Output OutputConfig `json:"output" mapstructure:"output"`
		// Write configures when generated files are rewritten.
		Write WriteConfig `json:"write" mapstructure:"write"`
		// Modules configures module source discovery.
		Modules ModulesConfig `json:"modules" mapstructure:"modules"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// OutputConfig holds the output locations.
	OutputConfig struct {
		// ObjDir is the object directory of descriptors that omit obj_dir.
		ObjDir types.FilesystemPath `json:"obj_dir" mapstructure:"obj_dir"`
		// BinDir is the executable directory of descriptors that omit bin_dir.
		BinDir types.FilesystemPath `json:"bin_dir" mapstructure:"bin_dir"`
		// Makefile is the shared Makefile fragment every build appends to.
		Makefile types.FilesystemPath `json:"makefile" mapstructure:"makefile"`
	}

	// WriteConfig controls the idempotent writer.
	WriteConfig struct {
		Threshold float64 `json:"threshold" mapstructure:"threshold"`
		TrimLines bool    `json:"trim_lines" mapstructure:"trim_lines"`
	}

	// ModulesConfig controls module handling.
	ModulesConfig struct {
		// SourceExt is the extension of compilable module sources.
		SourceExt string `json:"source_ext" mapstructure:"source_ext"`
		// AllowShadowing lets a module shadow a same-named module of
		// another kind instead of failing.
		AllowShadowing bool `json:"allow_shadowing" mapstructure:"allow_shadowing"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables debug logging
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			ObjDir:   DefaultObjDir,
			BinDir:   DefaultBinDir,
			Makefile: "_configuration.mk",
		},
		Write: WriteConfig{
			Threshold: filewrite.DefaultThreshold,
			TrimLines: true,
		},
		Modules: ModulesConfig{
			SourceExt: makefile.DefaultSourceExt,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// String returns the string representation of the ColorScheme.
func (c ColorScheme) String() string { return string(c) }

// IsValid returns whether the ColorScheme is one of the defined schemes.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: c}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// IsValid returns whether every section of the Config is valid. It catches
// values that bypass the CUE schema through environment overrides.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	for _, p := range []types.FilesystemPath{c.Output.ObjDir, c.Output.BinDir, c.Output.Makefile} {
		if valid, fieldErrs := p.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if err := c.WriteOptions().Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := makefile.ValidateSourceExt(c.Modules.SourceExt); err != nil {
		errs = append(errs, err)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return fmt.Sprintf("invalid config: %v", e.FieldErrors[0])
	}
	return fmt.Sprintf("invalid config: %d field errors", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// WriteOptions returns the writer settings.
func (c Config) WriteOptions() filewrite.Options {
	return filewrite.Options{Threshold: c.Write.Threshold, TrimLines: c.Write.TrimLines}
}

// ShadowPolicy returns how same-named modules of different kinds are handled.
func (c Config) ShadowPolicy() buildspec.ShadowPolicy {
	if c.Modules.AllowShadowing {
		return buildspec.AllowShadowing
	}
	return buildspec.RejectShadowing
}
