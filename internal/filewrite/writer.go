// SPDX-License-Identifier: MPL-2.0

package filewrite

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/champsim/configure/pkg/fspath"
	"github.com/champsim/configure/pkg/types"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

const (
	// DefaultThreshold rewrites a file unless it is provably unchanged.
	DefaultThreshold = 1.0

	// Written means the file was created or replaced.
	Written Result = "written"
	// Skipped means the existing file was judged equivalent and left alone.
	Skipped Result = "skipped"

	filePerm = 0o644
	dirPerm  = 0o755
)

// ErrInvalidThreshold is returned when Options.Threshold is outside (0, 1].
var ErrInvalidThreshold = errors.New("invalid similarity threshold")

type (
	// Result is the outcome of a write.
	Result string

	// Options controls how existing content is compared with new content.
	Options struct {
		// Threshold is the similarity ratio at or above which a write is
		// skipped. 1.0 skips only when every (normalized) line matches.
		Threshold float64
		// TrimLines strips leading and trailing whitespace from every line
		// before comparing.
		TrimLines bool
	}

	// Writer writes generated files through an afero filesystem.
	Writer struct {
		fs     afero.Fs
		opts   Options
		logger *log.Logger
	}

	// Option configures a Writer.
	Option func(*Writer)
)

// DefaultOptions returns the comparison settings of the configure script:
// trimmed lines, exact match required to skip.
func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold, TrimLines: true}
}

// Validate returns an error if the threshold is not in (0, 1].
func (o Options) Validate() error {
	if o.Threshold <= 0 || o.Threshold > 1 {
		return fmt.Errorf("%w: %v (must be in (0, 1])", ErrInvalidThreshold, o.Threshold)
	}
	return nil
}

// WithFs sets the filesystem. The default is the host filesystem.
func WithFs(fsys afero.Fs) Option {
	return func(w *Writer) { w.fs = fsys }
}

// WithLogger sets the logger used to report writes and skips.
func WithLogger(logger *log.Logger) Option {
	return func(w *Writer) { w.logger = logger }
}

// New creates a Writer.
func New(opts Options, options ...Option) (*Writer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	w := &Writer{
		fs:     afero.NewOsFs(),
		opts:   opts,
		logger: log.New(os.Stderr),
	}
	for _, o := range options {
		o(w)
	}
	return w, nil
}

// Compare returns the similarity ratio between the file at path and content.
// A missing file has ratio 0.
func (w *Writer) Compare(path types.FilesystemPath, content string) (float64, error) {
	existing, err := afero.ReadFile(w.fs, string(path))
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	return Similarity(Lines(string(existing), w.opts.TrimLines), Lines(content, w.opts.TrimLines)), nil
}

// WouldWrite reports whether WriteIfChanged would write content to path.
func (w *Writer) WouldWrite(path types.FilesystemPath, content string) (bool, error) {
	ratio, err := w.Compare(path, content)
	if err != nil {
		return false, err
	}
	return ratio < w.opts.Threshold, nil
}

// WriteIfChanged writes content to path unless the existing file is at least
// Threshold-similar to it. Missing parent directories are created first.
// A failed write is not rolled back.
func (w *Writer) WriteIfChanged(path types.FilesystemPath, content string) (Result, error) {
	ratio, err := w.Compare(path, content)
	if err != nil {
		return "", err
	}
	if ratio >= w.opts.Threshold {
		w.logger.Debug("unchanged", "path", path, "ratio", ratio)
		return Skipped, nil
	}

	if err := w.fs.MkdirAll(string(fspath.Dir(path)), dirPerm); err != nil {
		return "", fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := afero.WriteFile(w.fs, string(path), []byte(content), filePerm); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	w.logger.Debug("wrote", "path", path, "ratio", ratio)
	return Written, nil
}
