package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/services"
)

func newSnapshotCmd() *cobra.Command {
	var (
		timeout  time.Duration
		strict   bool
		sections []string
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Load every section once and print the result as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range sections {
				if !slices.Contains(services.Sections, name) {
					return fmt.Errorf("unknown section %q", name)
				}
			}

			cfg, logCloser, err := setup()
			if err != nil {
				return err
			}
			defer logCloser.Close()

			mgr, err := services.NewManager(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize services: %w", err)
			}
			defer mgr.Close()
			mgr.SetNotifier(nil)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			errs := mgr.Refresh(ctx, sections...)
			if err := writeSnapshot(cmd.OutOrStdout(), mgr.Snapshot()); err != nil {
				return err
			}

			failed := reportFailures(cmd.ErrOrStderr(), errs)
			if strict && failed > 0 {
				return fmt.Errorf("%d section(s) failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall load timeout")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any section fails")
	cmd.Flags().StringSliceVar(&sections, "section", nil, "sections to load (default all)")
	return cmd
}

func writeSnapshot(w io.Writer, snap services.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// reportFailures prints one line per failed section, in dashboard order, and
// returns how many failed.
func reportFailures(w io.Writer, errs map[string]error) int {
	n := 0
	for _, name := range services.Sections {
		if err, ok := errs[name]; ok {
			fmt.Fprintf(w, "%s: %v\n", name, err)
			n++
		}
	}
	return n
}
