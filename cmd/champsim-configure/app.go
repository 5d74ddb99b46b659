// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/champsim/configure/internal/config"
	"github.com/champsim/configure/internal/configure"
	"github.com/champsim/configure/internal/descriptor"
	"github.com/champsim/configure/internal/filewrite"
	"github.com/champsim/configure/internal/fragment"
	"github.com/champsim/configure/internal/issue"
	"github.com/champsim/configure/internal/makefile"
	"github.com/champsim/configure/pkg/buildspec"
	"github.com/champsim/configure/pkg/types"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type (
	// App wires CLI services and shared dependencies. Every command handler
	// receives the App and reaches configuration and output through it.
	App struct {
		Config config.Provider
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Stdout io.Writer
		Stderr io.Writer
	}

	// rootFlagValues are the persistent flags shared by every command.
	rootFlagValues struct {
		configPath string
		verbose    bool
	}

	// session is the per-invocation state built from the loaded configuration.
	session struct {
		cfg     *config.Config
		cfgPath string
		logger  *log.Logger
		verbose bool
	}
)

// NewApp creates an App, filling nil dependencies with defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// start loads the configuration and builds the logger.
func (a *App) start(ctx context.Context, flags *rootFlagValues) (*session, error) {
	cfg, path, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: types.FilesystemPath(flags.configPath)})
	if err != nil {
		return nil, &configure.ConfigurationError{Err: err}
	}

	verbose := flags.verbose || cfg.UI.Verbose
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(a.stderr, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
	applyColorScheme(cfg.UI.ColorScheme)

	if path != "" {
		logger.Debug("loaded configuration", "path", path)
	}
	return &session{cfg: cfg, cfgPath: path, logger: logger, verbose: verbose}, nil
}

func (s *session) loader() descriptor.Loader {
	return descriptor.Loader{
		ObjDir: s.cfg.Output.ObjDir,
		BinDir: s.cfg.Output.BinDir,
	}
}

// loadDescriptors loads the descriptor files in order. Any failure is a
// configuration error.
func (s *session) loadDescriptors(paths []string) ([]buildspec.BuildDescriptor, error) {
	l := s.loader()
	descs := make([]buildspec.BuildDescriptor, 0, len(paths))
	for _, p := range paths {
		d, err := l.Load(p)
		if err != nil {
			return nil, &configure.ConfigurationError{Err: issue.NewErrorContext().
				WithOperation("load build descriptor").
				WithResource(p).
				WithSuggestion("Check that every module source_dir exists and every $VARIABLE is set").
				WithSuggestion("Module kinds are branch, btb, repl and pref").
				Wrap(err).
				BuildError()}
		}
		s.logger.Debug("loaded descriptor", "path", p, "executable", d.Executable())
		descs = append(descs, d)
	}
	return descs, nil
}

func (s *session) collector() fragment.Collector {
	return fragment.Collector{
		Rules:        makefile.Generator{SourceExt: s.cfg.Modules.SourceExt},
		MakefileName: s.cfg.Output.Makefile,
		Shadowing:    s.cfg.ShadowPolicy(),
	}
}

func (s *session) pipeline() (*configure.Pipeline, error) {
	w, err := filewrite.New(s.cfg.WriteOptions(), filewrite.WithLogger(s.logger))
	if err != nil {
		return nil, &configure.ConfigurationError{Err: err}
	}
	return configure.New(w,
		configure.WithCollector(s.collector()),
		configure.WithLogger(s.logger),
	), nil
}

// fail prints err to stderr, silences cobra's own reporting and returns the
// ExitError that carries the exit code.
func (a *App) fail(cmd *cobra.Command, err error, verbose bool) error {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
	return &ExitError{Code: exitCode(err), Err: err}
}

// formatErrorForDisplay uses the ActionableError format when one is in the
// chain, including the cause chain in verbose mode.
func formatErrorForDisplay(err error, verbose bool) string {
	if ae, ok := issue.As(err); ok {
		return ae.Format(verbose)
	}
	var collision *buildspec.ModuleNameCollisionError
	if errors.As(err, &collision) {
		return err.Error() + "\n\n  • Rename one of the modules, or set modules.allow_shadowing to let the later one win"
	}
	return err.Error()
}
