// Package cli implements the netninja command line.
package cli

import (
	"context"
	"fmt"

	service "github.com/okian/netninja/internal/app"
	"github.com/okian/netninja/internal/config"
	"github.com/okian/netninja/pkg/logger"
	"github.com/spf13/cobra"
)

type flags struct {
	store     string
	storePath string
	logLevel  string
	seed      int64
	noColor   bool
}

// app carries what PersistentPreRunE resolved to the subcommands.
type app struct {
	flags flags
	cfg   *config.Config
	log   logger.Logger
}

// NewRootCmd builds the netninja command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "netninja",
		Short:         "Learn binary, hex, subnetting and routing by playing",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.store, "store", "", "storage driver: memory, file, sqlite or redis")
	pf.StringVar(&a.flags.storePath, "store-path", "", "file or database path for the file and sqlite drivers")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "debug, info, warn or error")
	pf.Int64Var(&a.flags.seed, "seed", 0, "fix the random source (0 uses the clock)")
	pf.BoolVar(&a.flags.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		a.serveCmd(),
		a.statsCmd(),
		a.playCmd(),
		a.traceCmd(),
		a.dailyCmd(),
		a.shopCmd(),
		a.hintCmd(),
	)
	return root
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context, args ...string) error {
	root := NewRootCmd()
	if args != nil {
		root.SetArgs(args)
	}
	return root.ExecuteContext(ctx)
}

// setup loads configuration (defaults -> file -> env -> flags) and
// initializes logging.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	fs := cmd.Flags()
	if fs.Changed("store") {
		cfg.StoreDriver = a.flags.store
	}
	if fs.Changed("store-path") {
		cfg.StorePath = a.flags.storePath
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = a.flags.logLevel
	}
	if fs.Changed("seed") {
		cfg.Seed = a.flags.seed
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithWriter(cmd.ErrOrStderr())); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	a.log = logger.Named("cli")
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		a.log.Warn(cmd.Context(), "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	if a.flags.noColor {
		disableColor()
	}
	a.cfg = cfg
	return nil
}

// withService starts a service for the duration of fn.
func (a *app) withService(cmd *cobra.Command, fn func(ctx context.Context, svc *service.Service) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc := service.New(a.cfg)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer func() {
		if serr := svc.Stop(context.WithoutCancel(ctx)); serr != nil && err == nil {
			err = serr
		}
	}()
	return fn(ctx, svc)
}
