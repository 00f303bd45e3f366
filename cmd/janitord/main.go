// janitord runs the QuarryDB background maintenance daemon: the task pool,
// the file-size ledger sweeps, and the local status API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/quarrydb/janitor/internal/config"
	"github.com/quarrydb/janitor/internal/handlers"
	"github.com/quarrydb/janitor/internal/ledger"
	"github.com/quarrydb/janitor/internal/server"
	"github.com/quarrydb/janitor/internal/services"
	"github.com/quarrydb/janitor/internal/store"
	"github.com/quarrydb/janitor/internal/store/migrations"
	"github.com/quarrydb/janitor/pkg/bgpool"
)

// version is overridden at build time with -ldflags.
var version = "v0.0.0-dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "janitord",
		Short:         "QuarryDB background maintenance daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	flags := cmd.Flags()
	flags.String("config", "", "path to the YAML configuration file")
	flags.String("data-folder", "", "folder holding the ledger database")
	flags.Int("workers", 0, "number of pool workers")
	flags.Int("http-port", 0, "status API listen port")
	flags.String("log-level", "", "log verbosity (debug, info, warn, error)")

	cmd.AddCommand(newVersionCommand())
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the janitord version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	applyOverrides(cmd.Flags(), cfg)

	logger, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	defer logger.Sync() //nolint:errcheck

	color.Cyan("janitord %s", version)

	db, err := store.NewDB(cfg.Ledger.DatabasePath())
	if err != nil {
		return fmt.Errorf("failed to open ledger database: %w", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := migrations.Run(ctx, db); err != nil {
		db.Close()
		return err
	}
	st := store.NewStore(db)
	defer st.Close() //nolint:errcheck

	activeTasks := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "janitor",
		Subsystem: "bgpool",
		Name:      "active_tasks",
		Help:      "Background tasks currently executing.",
	})
	prometheus.MustRegister(activeTasks)

	pool, err := bgpool.New(cfg.Pool.Workers,
		bgpool.WithSleepInterval(cfg.Pool.SleepInterval),
		bgpool.WithSleepJitter(cfg.Pool.SleepJitter),
		bgpool.WithScanLimit(cfg.Pool.ScanLimit),
		bgpool.WithActiveTaskGauge(activeTasks),
	)
	if err != nil {
		return err
	}
	defer pool.Close()

	l := ledger.New(st)
	maintenance := services.NewMaintenanceService(pool, l, cfg.Ledger.BatchSize)
	maintenance.Start()
	defer maintenance.Stop()

	srv, err := server.NewServer(cfg.Server, handlers.New(maintenance, l, pool).Register)
	if err != nil {
		return err
	}
	return srv.Start(ctx)
}

// applyOverrides lets explicit flags win over file and environment values.
func applyOverrides(flags *pflag.FlagSet, cfg *config.Configuration) {
	if flags.Changed("data-folder") {
		cfg.Ledger.DataFolder, _ = flags.GetString("data-folder")
	}
	if flags.Changed("workers") {
		cfg.Pool.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("http-port") {
		cfg.Server.HTTPPort, _ = flags.GetInt("http-port")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
}

func buildLogger(cfg *config.Configuration) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	var zapCfg zap.Config
	if cfg.LogFormat == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = level
	return zapCfg.Build()
}
