// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"
)

func newGenerateCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <descriptor>...",
		Short: "Write the build artifacts of every descriptor",
		Long: `Write the module headers, symbol maps and Makefile fragment of every
descriptor. Descriptors are processed in the order given; a later build
appending to a shared file places its content after earlier builds.

Nothing is written when any descriptor is invalid.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, app, flags, args)
		},
	}
}

func runGenerate(cmd *cobra.Command, app *App, flags *rootFlagValues, args []string) error {
	s, err := app.start(cmd.Context(), flags)
	if err != nil {
		return app.fail(cmd, err, flags.verbose)
	}
	descs, err := s.loadDescriptors(args)
	if err != nil {
		return app.fail(cmd, err, s.verbose)
	}
	p, err := s.pipeline()
	if err != nil {
		return app.fail(cmd, err, s.verbose)
	}
	report, err := p.Run(cmd.Context(), descs)
	if err != nil {
		return app.fail(cmd, err, s.verbose)
	}
	renderReport(cmd.OutOrStdout(), report)
	return nil
}
