// SPDX-License-Identifier: MPL-2.0

// Package watch regenerates build artifacts when their inputs change.
//
// A Watcher monitors a set of targets, each a directory plus glob patterns,
// and invokes a callback once the filesystem has been quiet for a debounce
// period. Events inside the window are coalesced so the callback fires once
// with every changed path.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is the quiet period before the callback fires. It lets an
// editor's write-then-rename settle into a single regeneration.
const defaultDebounce = 300 * time.Millisecond

// defaultIgnores are never reported, whatever the target patterns say.
var defaultIgnores = []string{
	"**/.git/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
}

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("watch: Run called more than once")

type (
	// Target is a directory whose matching files are inputs.
	Target struct {
		// Dir is the directory to watch.
		Dir string
		// Patterns are doublestar globs relative to Dir (e.g. "**/*.cc").
		// An empty slice matches every file.
		Patterns []string
		// Recursive extends the watch to every subdirectory of Dir,
		// including directories created after the watch starts.
		Recursive bool
	}

	// Config holds the parameters for a Watcher.
	Config struct {
		Targets []Target

		// Ignore are extra doublestar patterns, relative to a target's Dir,
		// merged with the built-in ignores.
		Ignore []string

		// Debounce is the quiet period after the last event before the
		// callback fires. Zero or negative values use defaultDebounce.
		Debounce time.Duration

		// OnChange receives the sorted, deduplicated absolute paths that
		// changed. A nil callback is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		// Logger reports callback and watcher errors. Nil logs to stderr.
		Logger *log.Logger
	}

	// Watcher monitors targets and fires a debounced callback. Run must be
	// called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		targets  []Target
		ignores  []string
		debounce time.Duration
		logger   *log.Logger
		started  atomic.Bool
	}
)

// New validates cfg, resolves every target directory to an absolute path
// and registers it with fsnotify.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Targets) == 0 {
		return nil, errors.New("watch: no targets")
	}
	if err := validatePatterns(cfg.Ignore, "ignore"); err != nil {
		return nil, err
	}

	targets := make([]Target, 0, len(cfg.Targets))
	for _, t := range cfg.Targets {
		if err := validatePatterns(t.Patterns, "watch"); err != nil {
			return nil, err
		}
		abs, err := filepath.Abs(t.Dir)
		if err != nil {
			return nil, fmt.Errorf("watch: resolve %q: %w", t.Dir, err)
		}
		t.Dir = abs
		targets = append(targets, t)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		targets:  targets,
		ignores:  slices.Concat(defaultIgnores, cfg.Ignore),
		debounce: debounce,
		logger:   logger,
	}

	for _, t := range targets {
		if err := w.addTarget(t); err != nil {
			fsw.Close() //nolint:errcheck // best-effort cleanup
			return nil, err
		}
	}
	return w, nil
}

// Run blocks until ctx is cancelled, dispatching debounced callbacks. It
// returns nil on cancellation and an error when the watcher breaks. A
// callback that is still running when the next window closes delays that
// window instead of running concurrently.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				w.logger.Error("regeneration failed", "err", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("close fsnotify", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}

			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}
			if !w.matches(evt.Name) {
				continue
			}

			mu.Lock()
			pending[evt.Name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatal(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("fsnotify error", "err", err)
		}
	}
}

// addTarget registers t.Dir and, for recursive targets, every non-ignored
// directory beneath it.
func (w *Watcher) addTarget(t Target) error {
	if !t.Recursive {
		if err := w.fsw.Add(t.Dir); err != nil {
			return fmt.Errorf("watch: add directory %q: %w", t.Dir, err)
		}
		return nil
	}
	return w.addTree(t, t.Dir)
}

func (w *Watcher) addTree(t Target, root string) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			w.logger.Warn("skipping inaccessible path", "path", path, "err", walkErr)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if rel, ok := relTo(t.Dir, path); ok && rel != "." && (w.isIgnored(rel) || w.isIgnored(rel+"/")) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
	if err != nil {
		return fmt.Errorf("watch: add directory tree %q: %w", root, err)
	}
	return nil
}

// maybeAddDir extends recursive targets to a newly created directory.
func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	for _, t := range w.targets {
		if !t.Recursive {
			continue
		}
		if _, ok := relTo(t.Dir, path); !ok {
			continue
		}
		if err := w.addTree(t, path); err != nil {
			w.logger.Warn("watch new directory", "path", path, "err", err)
		}
		return
	}
}

// matches reports whether path is a non-ignored input of any target.
func (w *Watcher) matches(path string) bool {
	for _, t := range w.targets {
		rel, ok := relTo(t.Dir, path)
		if !ok || rel == "." {
			continue
		}
		if !t.Recursive && strings.Contains(rel, "/") {
			continue
		}
		if w.isIgnored(rel) {
			continue
		}
		if len(t.Patterns) == 0 || matchAny(t.Patterns, rel) {
			return true
		}
	}
	return false
}

func (w *Watcher) isIgnored(rel string) bool {
	return matchAny(w.ignores, rel)
}

// relTo returns the slash-separated path of path relative to dir, and
// false when path lies outside dir.
func relTo(dir, path string) (string, bool) {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return rel, true
}

func matchAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if matched, err := doublestar.Match(pat, rel); err == nil && matched {
			return true
		}
	}
	return false
}

// validatePatterns checks that every pattern is a valid doublestar glob.
func validatePatterns(patterns []string, label string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid %s pattern %q", label, pat)
		}
	}
	return nil
}
