// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"path/filepath"
	"time"

	"github.com/champsim/configure/internal/filewrite"
	"github.com/champsim/configure/internal/makefile"
	"github.com/champsim/configure/internal/watch"
	"github.com/champsim/configure/pkg/buildspec"

	"github.com/spf13/cobra"
)

func newWatchCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch <descriptor>...",
		Short: "Generate, then regenerate whenever a descriptor or module source changes",
		Long: `Generate the artifacts of every descriptor, then watch the descriptor files
and every module source directory. Each batch of changes reloads the
descriptors and regenerates. Errors during a regeneration are logged and the
watch continues.

The watched set is fixed when the command starts; restart it after adding a
module.`,
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
			p, err := s.pipeline()
			if err != nil {
				return app.fail(cmd, err, s.verbose)
			}
			report, err := p.Run(cmd.Context(), descs)
			if err != nil {
				return app.fail(cmd, err, s.verbose)
			}
			renderReport(cmd.OutOrStdout(), report)

			w, err := watch.New(watch.Config{
				Targets:  watchTargets(args, descs, s.cfg.Modules.SourceExt),
				Debounce: debounce,
				Logger:   s.logger,
				OnChange: func(ctx context.Context, changed []string) error {
					s.logger.Info("change detected", "files", len(changed))
					descs, err := s.loadDescriptors(args)
					if err != nil {
						return err
					}
					report, err := p.Run(ctx, descs)
					if err != nil {
						return err
					}
					s.logger.Info("regenerated",
						"written", report.Count(filewrite.Written),
						"unchanged", report.Count(filewrite.Skipped))
					return nil
				},
			})
			if err != nil {
				return app.fail(cmd, err, s.verbose)
			}
			s.logger.Info("watching for changes", "descriptors", len(args))
			if err := w.Run(cmd.Context()); err != nil {
				return app.fail(cmd, err, s.verbose)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 0, "quiet period before regenerating (default 300ms)")
	return cmd
}

// watchTargets watches each descriptor file in its directory, plus every
// module source tree for files with the source extension.
func watchTargets(paths []string, descs []buildspec.BuildDescriptor, sourceExt string) []watch.Target {
	if sourceExt == "" {
		sourceExt = makefile.DefaultSourceExt
	}
	var targets []watch.Target
	for _, p := range paths {
		targets = append(targets, watch.Target{
			Dir:      filepath.Dir(p),
			Patterns: []string{filepath.Base(p)},
		})
	}

	seen := make(map[string]bool)
	for _, d := range descs {
		for _, kind := range buildspec.Kinds() {
			for _, spec := range d.Modules.Specs(kind) {
				dir := spec.SourceDir.String()
				if seen[dir] {
					continue
				}
				seen[dir] = true
				targets = append(targets, watch.Target{
					Dir:       dir,
					Patterns:  []string{"**/*" + sourceExt},
					Recursive: true,
				})
			}
		}
	}
	return targets
}
