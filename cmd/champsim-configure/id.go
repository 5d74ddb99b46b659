// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/champsim/configure/internal/configure"

	"github.com/spf13/cobra"
)

func newIDCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "id <descriptor>...",
		Short: "Print the build id of every descriptor",
		Long: `Print "<build id>  <descriptor>" for every descriptor. The id depends only
on the descriptor's content, so equal descriptors share an id regardless of
file format or key order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.start(cmd.Context(), flags)
			if err != nil {
				return app.fail(cmd, err, flags.verbose)
			}
			descs, err := s.loadDescriptors(args)
			if err != nil {
				return app.fail(cmd, err, s.verbose)
			}
			collector := s.collector()
			out := cmd.OutOrStdout()
			for i, d := range descs {
				b, err := collector.Identify(d)
				if err != nil {
					return app.fail(cmd, configure.Classify(err), s.verbose)
				}
				fmt.Fprintf(out, "%s  %s\n", b.ID, args[i])
			}
			return nil
		},
	}
}
