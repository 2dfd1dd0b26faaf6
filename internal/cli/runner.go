package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/idilsaglam/standup/internal/config"
	"github.com/idilsaglam/standup/internal/form"
	"github.com/idilsaglam/standup/internal/kv"
	"github.com/idilsaglam/standup/internal/kv/boltkv"
	"github.com/idilsaglam/standup/internal/kv/filekv"
	"github.com/idilsaglam/standup/internal/kv/sqlitekv"
	"github.com/idilsaglam/standup/internal/logging"
	"github.com/idilsaglam/standup/internal/store"
	"github.com/idilsaglam/standup/internal/tui"
	"github.com/idilsaglam/standup/internal/ui"
)

// Options wires the process environment; zero fields fall back to os.
type Options struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Now    func() time.Time
}

// usageError marks mistakes in how the command was invoked (exit 2).
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

// app carries what every subcommand needs once the root pre-run has loaded it.
type app struct {
	Options

	configPath string
	theme      string
	ephemeral  bool
	verbose    bool

	cfg   *config.Config
	log   *zap.Logger
	db    kv.KV
	store *store.Store
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	if opt.Stdin == nil {
		opt.Stdin = os.Stdin
	}
	if opt.Stdout == nil {
		opt.Stdout = os.Stdout
	}
	if opt.Stderr == nil {
		opt.Stderr = os.Stderr
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}

	a := &app{Options: opt}
	defer a.close()

	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(opt.Stdin)
	root.SetOut(opt.Stdout)
	root.SetErr(opt.Stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	ui.Fail(opt.Stderr, err.Error())
	var ue usageError
	if errors.As(err, &ue) {
		fmt.Fprintln(opt.Stderr)
		_ = root.Usage()
		return 2
	}
	return 1
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "standup",
		Short: "Record and review daily standup updates",
		Long: `standup keeps daily standup updates (what you did yesterday, what you
plan today, anything blocking you) in a local store.

Run without arguments to open the interactive form and list.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usagef("unknown subcommand: %s", args[0])
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(cmd.Context(), tui.Options{
				Store:  a.store,
				Rules:  a.rules(),
				Days:   a.cfg.List.Days,
				Now:    a.Now,
				Logger: a.log.Named("tui"),
			})
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{msg: err.Error()}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", config.DefaultPath(), "config file")
	pf.StringVar(&a.theme, "theme", "", "color theme: classic, neon or mono")
	pf.BoolVar(&a.ephemeral, "ephemeral", false, "keep entries in memory only")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(a.addCmd(), a.lsCmd(), a.rmCmd(), a.reportCmd())
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.theme != "" {
		if !ui.KnownTheme(a.theme) {
			return usagef("unknown theme %q", a.theme)
		}
		cfg.UI.Theme = a.theme
	}
	if a.ephemeral {
		cfg.Store.Driver = config.DriverMemory
	}
	a.cfg = cfg
	ui.SetTheme(cfg.UI.Theme)

	a.log, err = logging.New(cfg.LogPath(), cfg.Log.Level, a.verbose)
	if err != nil {
		return err
	}
	a.db, err = openKV(cfg)
	if err != nil {
		return err
	}
	a.store = store.New(a.db,
		store.WithKey(cfg.Store.Key),
		store.WithLogger(a.log.Named("store")),
		store.WithClock(a.Now),
	)
	a.log.Debug("ready", zap.String("driver", cfg.Store.Driver), zap.String("path", cfg.StorePath()))
	return nil
}

func (a *app) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil && a.log != nil {
			a.log.Warn("close store", zap.Error(err))
		}
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

func (a *app) rules() form.Rules {
	return form.Rules{RequireYesterday: a.cfg.Form.RequireYesterday}
}

func openKV(cfg *config.Config) (kv.KV, error) {
	path := cfg.StorePath()
	quota := cfg.Store.QuotaBytes
	switch cfg.Store.Driver {
	case config.DriverMemory:
		m := kv.NewMemory(nil)
		m.Quota = quota
		return m, nil
	case config.DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir: %w", err)
		}
		s, err := sqlitekv.Open(path, quota)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverBolt:
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir: %w", err)
		}
		s, err := boltkv.Open(path, quota)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		s, err := filekv.Open(path, quota)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}
