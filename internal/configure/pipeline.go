// SPDX-License-Identifier: MPL-2.0

package configure

import (
	"context"
	"fmt"
	"os"

	"github.com/champsim/configure/internal/filewrite"
	"github.com/champsim/configure/internal/fragment"
	"github.com/champsim/configure/internal/issue"
	"github.com/champsim/configure/pkg/buildspec"
	"github.com/champsim/configure/pkg/types"

	"github.com/charmbracelet/log"
)

type (
	// Plan is the result of the collect phase: the identity of every build
	// and the grouped contents of every output file, ordered by path.
	Plan struct {
		Builds []fragment.Build
		Groups []fragment.Group
	}

	// FileResult is the outcome for one output file.
	FileResult struct {
		Path      types.FilesystemPath
		Fragments int
		Result    filewrite.Result
	}

	// Report lists every build and the outcome for every output file.
	// For a dry run, Result says what a commit would do.
	Report struct {
		Builds []fragment.Build
		Files  []FileResult
		DryRun bool
	}

	// Pipeline collects descriptors and writes the generated files.
	Pipeline struct {
		collector fragment.Collector
		writer    *filewrite.Writer
		logger    *log.Logger
	}

	// Option configures a Pipeline.
	Option func(*Pipeline)
)

// WithCollector sets how descriptors are expanded into fragments.
func WithCollector(c fragment.Collector) Option {
	return func(p *Pipeline) { p.collector = c }
}

// WithLogger sets the pipeline logger.
func WithLogger(logger *log.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// New creates a Pipeline writing through w.
func New(w *filewrite.Writer, opts ...Option) *Pipeline {
	p := &Pipeline{
		writer: w,
		logger: log.New(os.Stderr),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Plan validates and expands every descriptor, in order, and groups the
// resulting fragments by output path. Nothing is written. The first invalid
// descriptor aborts planning.
func (p *Pipeline) Plan(descriptors []buildspec.BuildDescriptor) (*Plan, error) {
	for i, d := range descriptors {
		if valid, errs := d.IsValid(); !valid {
			return nil, Classify(fmt.Errorf("descriptor %d: %w", i, errs[0]))
		}
	}

	builds, frags, err := p.collector.Collect(descriptors)
	if err != nil {
		return nil, Classify(err)
	}
	for _, b := range builds {
		p.logger.Debug("derived build", "id", b.ID, "executable", b.Executable, "modules", len(b.Modules))
	}

	groups := fragment.GroupByPath(frags)
	for _, g := range groups {
		p.logger.Debug("grouped file", "path", g.Path, "fragments", len(g.Contents))
	}
	return &Plan{Builds: builds, Groups: groups}, nil
}

// Commit renders and writes every group of plan in path order. A failed
// write stops the commit; files already written stay written, and the
// returned report covers them.
func (p *Pipeline) Commit(ctx context.Context, plan *Plan) (Report, error) {
	report := Report{Builds: plan.Builds}
	for _, g := range plan.Groups {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res, err := p.writer.WriteIfChanged(g.Path, filewrite.Render(g.Path, g.Contents))
		if err != nil {
			return report, issue.WrapWithContext(err, "write generated file", g.Path.String())
		}
		if res == filewrite.Written {
			p.logger.Info("wrote", "path", g.Path)
		}
		report.Files = append(report.Files, FileResult{Path: g.Path, Fragments: len(g.Contents), Result: res})
	}
	return report, nil
}

// Preview reports what Commit would do without writing anything.
func (p *Pipeline) Preview(plan *Plan) (Report, error) {
	report := Report{Builds: plan.Builds, DryRun: true}
	for _, g := range plan.Groups {
		write, err := p.writer.WouldWrite(g.Path, filewrite.Render(g.Path, g.Contents))
		if err != nil {
			return report, issue.WrapWithContext(err, "read generated file", g.Path.String())
		}
		res := filewrite.Skipped
		if write {
			res = filewrite.Written
		}
		report.Files = append(report.Files, FileResult{Path: g.Path, Fragments: len(g.Contents), Result: res})
	}
	return report, nil
}

// Run plans and commits descriptors.
func (p *Pipeline) Run(ctx context.Context, descriptors []buildspec.BuildDescriptor) (Report, error) {
	plan, err := p.Plan(descriptors)
	if err != nil {
		return Report{}, err
	}
	return p.Commit(ctx, plan)
}

// Count returns the number of files with the given result.
func (r Report) Count(res filewrite.Result) int {
	n := 0
	for _, f := range r.Files {
		if f.Result == res {
			n++
		}
	}
	return n
}
