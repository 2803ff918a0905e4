// Package cli implements the kinly command line: item verbs at the top
// level, list verbs under "kinly list", and "kinly tui".
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/kinly/internal/config"
	"github.com/idilsaglam/kinly/internal/logging"
	"github.com/idilsaglam/kinly/internal/store"
	"github.com/idilsaglam/kinly/internal/store/jsonstore"
	"github.com/idilsaglam/kinly/internal/store/memstore"
	"github.com/idilsaglam/kinly/internal/store/sqlstore"
	"github.com/idilsaglam/kinly/internal/tracker"
	"github.com/idilsaglam/kinly/internal/ui"
)

// Options tune output behavior from root flags.
type Options struct {
	ConfigPath string
	Theme      string
	NoColor    bool
	Group      bool // list grouped by pending/done
	Verbose    bool
}

// runner carries the root flags and output streams to every subcommand.
type runner struct {
	opt    Options
	stdout io.Writer
	stderr io.Writer
}

// session is what a subcommand works against once config and storage are
// open.
type session struct {
	cfg   *config.Config
	log   *log.Logger
	tr    *tracker.Tracker
	group bool
}

// Main runs kinly with the process arguments and returns the exit code.
func Main() int {
	return Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

// Run executes one command line and returns an exit code (0 ok, 1 error,
// 2 usage).
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := &runner{stdout: stdout, stderr: stderr}
	root := r.newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if !ee.silent {
			ui.Fail(stderr, err.Error())
		}
		if ee.hint != "" {
			ui.Hint(stderr, ee.hint)
		}
		return ee.code
	}
	ui.Fail(stderr, err.Error())
	return 1
}

// with opens config, logger and storage, runs fn and closes the tracker.
func (r *runner) with(cmd *cobra.Command, fn func(*session) error) error {
	ctx := cmd.Context()
	s, err := r.open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.tr.Close(); cerr != nil {
			s.log.Warn("close store", "err", cerr)
		}
	}()
	return fn(s)
}

func (r *runner) open(ctx context.Context) (*session, error) {
	path := r.opt.ConfigPath
	if path == "" {
		p, err := config.Path()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	if r.opt.Theme != "" {
		cfg.UI.Theme = r.opt.Theme
	}
	if r.opt.NoColor {
		cfg.UI.Color = "never"
	}
	if r.opt.Verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, usageError("%v", err)
	}

	ui.SetColorMode(cfg.UI.Color)
	ui.SetTheme(cfg.UI.Theme)
	logger := logging.New(r.stderr, cfg.Log.Level)

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, errors.Wrap(err, "open store")
	}
	logger.Debug("store open", "backend", cfg.Storage.Backend)

	return &session{
		cfg:   cfg,
		log:   logger,
		tr:    tracker.New(st, logger),
		group: r.opt.Group || cfg.UI.Group,
	}, nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (store.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return memstore.New(), nil
	case config.BackendPostgres:
		return sqlstore.Open(ctx, cfg.Storage.DSN, logger)
	default:
		return jsonstore.Open(cfg.DataPath(), logger)
	}
}
