// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"
)

func newPlanCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <descriptor>...",
		Short: "Show what generate would write, without writing",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			plan, err := p.Plan(descs)
			if err != nil {
				return app.fail(cmd, err, s.verbose)
			}
			report, err := p.Preview(plan)
			if err != nil {
				return app.fail(cmd, err, s.verbose)
			}
			renderReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
}
