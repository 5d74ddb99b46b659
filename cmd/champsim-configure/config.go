// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/champsim/configure/internal/config"
	"github.com/champsim/configure/internal/fragment"
	"github.com/champsim/configure/pkg/types"

	"github.com/spf13/cobra"
)

func newConfigCommand(app *App, flags *rootFlagValues) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the champsim-configure configuration",
		Long: `Manage the champsim-configure configuration.

Configuration is read from the --config file, else from config.cue in the
user config directory, else from ./` + config.LocalConfigFileName + `. Environment
variables prefixed with ` + config.EnvPrefix + `_ override file values
(e.g. ` + config.EnvPrefix + `_OUTPUT_OBJ_DIR).`,
	}

	configCmd.AddCommand(
		newConfigShowCommand(app, flags),
		newConfigDumpCommand(app, flags),
		newConfigPathCommand(app, flags),
		newConfigInitCommand(app, flags),
	)
	return configCmd
}

func newConfigShowCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.start(cmd.Context(), flags)
			if err != nil {
				return app.fail(cmd, err, flags.verbose)
			}
			cfg := s.cfg
			out := cmd.OutOrStdout()

			source := s.cfgPath
			if source == "" {
				source = "(defaults)"
			}
			fmt.Fprintln(out, TitleStyle.Render("Configuration"))
			fmt.Fprintf(out, "  %s %s\n\n", SubtitleStyle.Render("source:"), PathStyle.Render(source))

			section := func(name string) { fmt.Fprintln(out, SubtitleStyle.Render(name)) }
			field := func(key string, val any) { fmt.Fprintf(out, "  %-16s %v\n", key+":", val) }

			section("output")
			field("obj_dir", cfg.Output.ObjDir)
			field("bin_dir", cfg.Output.BinDir)
			field("makefile", displayOrDefault(cfg.Output.Makefile, string(fragment.DefaultMakefileName)))
			section("write")
			field("threshold", cfg.Write.Threshold)
			field("trim_lines", cfg.Write.TrimLines)
			section("modules")
			field("source_ext", cfg.Modules.SourceExt)
			field("allow_shadowing", cfg.Modules.AllowShadowing)
			section("ui")
			field("verbose", cfg.UI.Verbose)
			field("color_scheme", cfg.UI.ColorScheme)
			return nil
		},
	}
}

func newConfigDumpCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the effective configuration as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.start(cmd.Context(), flags)
			if err != nil {
				return app.fail(cmd, err, flags.verbose)
			}
			data, err := json.MarshalIndent(s.cfg, "", "  ")
			if err != nil {
				return app.fail(cmd, err, s.verbose)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newConfigPathCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file in use",
		Long: `Print the configuration file that would be loaded. When no file exists,
print where "config init" would create one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.start(cmd.Context(), flags)
			if err != nil {
				return app.fail(cmd, err, flags.verbose)
			}
			if s.cfgPath != "" {
				fmt.Fprintln(cmd.OutOrStdout(), s.cfgPath)
				return nil
			}
			path, err := defaultConfigPath()
			if err != nil {
				return app.fail(cmd, err, s.verbose)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newConfigInitCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long:  `Write a configuration file holding the defaults. An existing file is left untouched.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := path
			if target == "" {
				p, err := defaultConfigPath()
				if err != nil {
					return app.fail(cmd, err, flags.verbose)
				}
				target = p
			}
			created, err := config.CreateDefaultConfig(types.FilesystemPath(target))
			if err != nil {
				return app.fail(cmd, err, flags.verbose)
			}
			out := cmd.OutOrStdout()
			if !created {
				fmt.Fprintln(out, WarningStyle.Render("Config file already exists: ")+PathStyle.Render(target))
				return nil
			}
			fmt.Fprintln(out, SuccessStyle.Render("Created ")+PathStyle.Render(target))
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "file to create (default is config.cue in the user config dir)")
	return cmd
}

func defaultConfigPath() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt), nil
}

func displayOrDefault(p types.FilesystemPath, def string) string {
	if p == "" {
		return def
	}
	return p.String()
}
