package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/vitaflow/internal/config"
	"github.com/jask/vitaflow/internal/flow"
	"github.com/jask/vitaflow/internal/kv"
	"github.com/jask/vitaflow/internal/logging"
	"github.com/jask/vitaflow/internal/metrics"
	"github.com/jask/vitaflow/internal/session"
	"github.com/jask/vitaflow/internal/storage"
	"github.com/jask/vitaflow/internal/tui"
)

type globalFlags struct {
	configPath string
	verbose    bool
	driver     string
}

// env is everything a command needs once configuration has been resolved.
type env struct {
	cfg      config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics.Recorder
	store    *kv.Instrumented
	repo     *session.Repository
}

func (g *globalFlags) loadConfig() (config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if g.driver != "" {
		cfg.Storage.Driver = g.driver
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}

func (g *globalFlags) open(ctx context.Context) (*env, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log, g.verbose)
	if err != nil {
		return nil, err
	}
	layout, err := session.ParseLayout(cfg.Storage.Layout)
	if err != nil {
		return nil, err
	}
	reg := prometheus.NewRegistry()
	rec := metrics.New(reg)
	store, err := storage.Open(ctx, cfg.Storage, logger, rec)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("open %s store: %w", cfg.Storage.Driver, err)
	}
	return &env{
		cfg:      cfg,
		logger:   logger,
		registry: reg,
		metrics:  rec,
		store:    store,
		repo:     session.NewRepository(store, layout),
	}, nil
}

func (e *env) Close() error {
	err := e.store.Close()
	_ = e.logger.Sync()
	return err
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "vitaflow",
		Short:         "Vitamin onboarding questionnaire",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), g)
		},
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default $VITAFLOW_CONFIG or ~/.config/vitaflow/config.toml)")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log at debug level")
	root.PersistentFlags().StringVar(&g.driver, "driver", "", "override storage.driver (memory, file, sqlite, postgres, s3)")

	root.AddCommand(showCmd(g), exportCmd(g), resetCmd(g), seedCmd(g), configCmd(g))
	return root
}

func runTUI(ctx context.Context, g *globalFlags) error {
	e, err := g.open(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	policy, err := flow.ParsePolicy(e.cfg.Flow.Persistence)
	if err != nil {
		return err
	}

	if addr := e.cfg.Metrics.Addr; addr != "" {
		srv := &http.Server{Addr: addr, Handler: metrics.Handler(e.registry), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				e.logger.Warn("metrics server stopped", zap.String("addr", addr), zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		e.logger.Info("serving metrics", zap.String("addr", addr))
	}

	f := flow.New(e.repo, flow.Options{Policy: policy, Logger: e.logger, Metrics: e.metrics})
	f.Start(ctx)

	p := tea.NewProgram(tui.New(ctx, f, nil), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
