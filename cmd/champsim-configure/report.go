// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/champsim/configure/internal/configure"
	"github.com/champsim/configure/internal/filewrite"
)

// renderReport prints the builds and per-file outcomes of a run.
func renderReport(w io.Writer, r configure.Report) {
	title := "Generated"
	if r.DryRun {
		title = "Plan"
	}
	fmt.Fprintln(w, TitleStyle.Render(title))

	for _, b := range r.Builds {
		fmt.Fprintf(w, "  %s  %s %s\n",
			IDStyle.Render(b.ID.String()),
			PathStyle.Render(b.Executable.String()),
			SubtitleStyle.Render(fmt.Sprintf("(%d modules)", len(b.Modules))))
	}
	fmt.Fprintln(w)

	written, skipped := "written", "unchanged"
	if r.DryRun {
		written, skipped = "would write", "unchanged"
	}
	for _, f := range r.Files {
		if f.Result == filewrite.Written {
			fmt.Fprintf(w, "  %s %s\n", SuccessStyle.Render(fmt.Sprintf("%-11s", written)), f.Path)
			continue
		}
		fmt.Fprintf(w, "  %s %s\n", SubtitleStyle.Render(fmt.Sprintf("%-11s", skipped)), f.Path)
	}

	summary := fmt.Sprintf("%d %s, %d %s", r.Count(filewrite.Written), written, r.Count(filewrite.Skipped), skipped)
	fmt.Fprintln(w)
	fmt.Fprintln(w, SubtitleStyle.Render(summary))
}
