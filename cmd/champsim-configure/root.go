// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/champsim/configure/internal/config"
	"github.com/champsim/configure/pkg/types"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// exitCodeHelp lists the documented exit codes, one per line.
func exitCodeHelp() string {
	var sb strings.Builder
	for _, c := range types.ExitCodes() {
		fmt.Fprintf(&sb, "  %s  %s\n", c, c.Describe())
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// NewRootCommand builds the command tree. Running the root with descriptor
// files is the same as running generate.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   config.AppName + " [descriptor...]",
		Short: "Generate ChampSim build artifacts from build descriptors",
		Long: TitleStyle.Render(config.AppName) + SubtitleStyle.Render(" - ChampSim build artifact generator") + `

Each build descriptor (CUE, JSON or TOML) names a configuration and the
branch predictor, BTB, replacement and prefetcher modules it uses. The
generator derives a build id per descriptor and writes the module headers,
symbol maps and a shared Makefile fragment. Files whose content has not
changed are left alone, so make does not rebuild them.

` + SubtitleStyle.Render("Examples:") + `
  ` + config.AppName + ` champsim_config.json        Generate artifacts for one build
  ` + config.AppName + ` plan a.cue b.toml           Show what would be written
  ` + config.AppName + ` id a.cue                    Print the build id
  ` + config.AppName + ` watch a.cue                 Regenerate when inputs change

` + SubtitleStyle.Render("Exit codes:") + "\n" + exitCodeHelp(),
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runGenerate(cmd, app, flags, args)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is "+config.ConfigFileName+"."+config.ConfigFileExt+" in the user config dir)")

	rootCmd.AddCommand(
		newGenerateCommand(app, flags),
		newPlanCommand(app, flags),
		newIDCommand(app, flags),
		newWatchCommand(app, flags),
		newConfigCommand(app, flags),
	)
	return rootCmd
}

// Execute runs the CLI and exits with the code the command produced.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(int(exitCode(err)))
	}
}
