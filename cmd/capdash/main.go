// Package main is the entry point for the capacity forecasting dashboard.
// Without a subcommand it runs the Bubble Tea dashboard; the subcommands
// print a one-shot snapshot or the model ranking for scripting.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/app"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/config"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/logger"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/metrics"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/services"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/ui/tabs/comparison"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/ui/tabs/forecast"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/ui/tabs/info"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/ui/tabs/regions"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   version.AppName,
		Short: "Capacity forecasting and model comparison dashboard",
		Long: `Capacity forecasting and model comparison dashboard.

Keyboard shortcuts:
  1-4             Switch between tabs (Forecast, Models, Regions, Info)
  Tab/Shift+Tab   Navigate between tabs
  h               Toggle the 7/30 day horizon
  s, Enter        Sort the model table by the selected column
  r               Reload every section
  R               Retry the failed sections of the current tab
  ?               Toggle help
  q, Ctrl+C       Quit

Configuration is read from the environment and from the first .env file
found in the current directory, ~/.config/capdash, ~/.capdash or the
parent directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(cmd.Context())
		},
	}

	cmd.AddCommand(newSnapshotCmd(), newRankCmd(), newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		},
	}
}

// setup loads the configuration and opens the log file.
func setup() (*config.Config, io.Closer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logPath := cfg.LogFile
	if logPath == "" {
		logPath = config.DefaultLogPath()
	}
	closer, err := logger.Init(cfg.LogLevel, logPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log: %w", err)
	}
	return cfg, closer, nil
}

// runDashboard runs the interactive dashboard until the user quits.
func runDashboard(ctx context.Context) error {
	cfg, logCloser, err := setup()
	if err != nil {
		return err
	}
	defer logCloser.Close()

	logger.Info("starting dashboard", "version", version.GetVersion(), "api", cfg.APIURL)

	if cfg.MetricsAddr != "" {
		srv := newMetricsServer(cfg.MetricsAddr)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server stopped", "addr", cfg.MetricsAddr, "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	mgr, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := mgr.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	model := app.NewModel(mgr)
	state := model.GetState()
	model.SetTabs([]app.Tab{
		forecast.New(state),
		comparison.New(state),
		regions.New(state),
		info.New(state, cfg),
	})

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		<-ctx.Done()
		p.Send(tea.Quit())
	}()

	mgr.Start()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// newMetricsServer exposes the Prometheus registry and a liveness endpoint.
func newMetricsServer(addr string) *http.Server {
	r := mux.NewRouter()
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok\n")
	}).Methods(http.MethodGet)

	return &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
