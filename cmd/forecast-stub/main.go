// Package main runs a local forecast service with deterministic data, for
// developing the dashboard without the real backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/spf13/cobra"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/logger"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/stub"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		addr  string
		mape  float64
		fault []string
	)

	cmd := &cobra.Command{
		Use:           "forecast-stub",
		Short:         "Serve deterministic forecast endpoints on a local port",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := stub.New(mape)
			for _, f := range fault {
				endpoint, status, err := parseFault(f)
				if err != nil {
					return err
				}
				svc.SetFault(endpoint, stub.Fault{Status: status})
			}
			return serve(cmd.Context(), addr, svc)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":5000", "listen address")
	cmd.Flags().Float64Var(&mape, "mape", 8.5, "model error reported by /api/monitoring")
	cmd.Flags().StringSliceVar(&fault, "fail", nil, "endpoint=status pairs to fail, e.g. report=503")
	return cmd
}

func parseFault(s string) (string, int, error) {
	endpoint, code, ok := strings.Cut(s, "=")
	status, err := strconv.Atoi(code)
	if !ok || endpoint == "" || err != nil || status < 400 {
		return "", 0, fmt.Errorf("invalid fault %q, want endpoint=status", s)
	}
	return endpoint, status, nil
}

func serve(ctx context.Context, addr string, svc *stub.Service) error {
	if _, err := logger.Init(os.Getenv("LOG_LEVEL"), ""); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handlers.LoggingHandler(os.Stdout, stub.NewRouter(svc)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("forecast stub listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
