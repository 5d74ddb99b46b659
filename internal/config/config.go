// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/champsim/configure/internal/issue"
	"github.com/champsim/configure/pkg/cueutil"
	"github.com/champsim/configure/pkg/types"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "champsim-configure"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// LocalConfigFileName is the config file looked up in the working directory.
	LocalConfigFileName = AppName + "." + ConfigFileExt
	// EnvPrefix prefixes environment overrides.
	EnvPrefix = "CHAMPSIM_CONFIGURE"
)

//go:embed config_schema.cue
var configSchema []byte

// ConfigDir returns the configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// loadWithOptions loads defaults, the first config file found and the
// environment, in increasing precedence. It returns the path of the file
// used, or "" when none was found.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := newViper()

	resolvedPath, err := resolvePath(opts)
	if err != nil {
		return nil, "", err
	}
	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'champsim-configure config init' to write a default file").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check " + EnvPrefix + "_* environment overrides").
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// newViper returns a viper instance holding the defaults, with environment
// overrides enabled for every key.
func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("output.obj_dir", string(defaults.Output.ObjDir))
	v.SetDefault("output.bin_dir", string(defaults.Output.BinDir))
	v.SetDefault("output.makefile", string(defaults.Output.Makefile))
	v.SetDefault("write.threshold", defaults.Write.Threshold)
	v.SetDefault("write.trim_lines", defaults.Write.TrimLines)
	v.SetDefault("modules.source_ext", defaults.Modules.SourceExt)
	v.SetDefault("modules.allow_shadowing", defaults.Modules.AllowShadowing)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.color_scheme", string(defaults.UI.ColorScheme))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// resolvePath returns the config file to load. An explicit path must exist;
// the directory and working-directory candidates are optional.
func resolvePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		path := string(opts.ConfigFilePath)
		if !fileExists(path) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'champsim-configure config show' to see the default configuration").
				Wrap(fmt.Errorf("config file not found: %s", path)).
				BuildError()
		}
		return path, nil
	}

	cfgDir := string(opts.ConfigDirPath)
	if cfgDir == "" {
		dir, err := ConfigDir()
		if err != nil {
			return "", err
		}
		cfgDir = dir
	}

	for _, candidate := range []string{
		filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt),
		LocalConfigFileName,
	} {
		if fileExists(candidate) {
			return candidate, nil
		}
	}
	return "", nil
}

// loadCUEIntoViper validates a CUE file against #Config and merges it into v.
// The file decodes to a map rather than a Config so that Viper keeps the
// defaults of omitted keys.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	result, err := cueutil.ParseAndDecode[map[string]any](configSchema, data, "#Config",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(*result.Value); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the default configuration to path unless a
// file already exists there. It reports whether the file was created.
func CreateDefaultConfig(path types.FilesystemPath) (bool, error) {
	if _, err := os.Stat(string(path)); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(string(path)), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(string(path), []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// champsim-configure configuration file\n\n")

	sb.WriteString("output: {\n")
	fmt.Fprintf(&sb, "\tobj_dir:  %q\n", cfg.Output.ObjDir)
	fmt.Fprintf(&sb, "\tbin_dir:  %q\n", cfg.Output.BinDir)
	fmt.Fprintf(&sb, "\tmakefile: %q\n", cfg.Output.Makefile)
	sb.WriteString("}\n")

	sb.WriteString("\nwrite: {\n")
	fmt.Fprintf(&sb, "\tthreshold:  %s\n", formatNumber(cfg.Write.Threshold))
	fmt.Fprintf(&sb, "\ttrim_lines: %v\n", cfg.Write.TrimLines)
	sb.WriteString("}\n")

	sb.WriteString("\nmodules: {\n")
	fmt.Fprintf(&sb, "\tsource_ext:      %q\n", cfg.Modules.SourceExt)
	fmt.Fprintf(&sb, "\tallow_shadowing: %v\n", cfg.Modules.AllowShadowing)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose:      %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	sb.WriteString("}\n")

	return sb.String()
}

// formatNumber renders f as a CUE number literal. Whole values keep a
// fractional part so they stay floats.
func formatNumber(f float64) string {
	s := fmt.Sprintf("%g", f)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
