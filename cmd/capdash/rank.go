package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/config"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/pipeline/ranking"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/services/catalog"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/services/views"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/ui/styles"
)

func newRankCmd() *cobra.Command {
	var (
		file    string
		sortKey string
		desc    bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Score and rank the forecasting models of a catalog file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("failed to load configuration: %w", err)
				}
				file = cfg.ModelMetricsPath
			}

			cat, err := catalog.New(file)
			if err != nil {
				return err
			}
			defer cat.Close()

			records := cat.Records()
			sorter, err := parseSort(sortKey, desc, ranking.MetricNames(records))
			if err != nil {
				return err
			}

			ranked, err := views.BuildModels(records, sorter)
			if err != nil {
				return fmt.Errorf("failed to rank models: %w", err)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(ranked)
			}

			if cat.Builtin() {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s not found, showing the built-in comparison\n", file)
			}
			return writeRanking(cmd.OutOrStdout(), ranked)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "model metrics file (default MODEL_METRICS_PATH)")
	cmd.Flags().StringVarP(&sortKey, "sort", "s", ranking.CanonicalMetric, "column to sort by: name or a metric")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

// parseSort validates key against the metrics the catalog reports.
func parseSort(key string, desc bool, metrics []string) (ranking.Sorter, error) {
	if key != ranking.KeyName && !slices.Contains(metrics, key) {
		return ranking.Sorter{}, fmt.Errorf("unknown sort column %q", key)
	}
	s := ranking.Sorter{Key: key, Order: ranking.Ascending}
	if desc {
		s.Order = ranking.Descending
	}
	return s, nil
}

func writeRanking(w io.Writer, m views.Models) error {
	_, err := fmt.Fprintln(w, renderRanking(m))
	return err
}

// renderRanking draws the comparison as a bordered table. Each metric cell
// shows the score followed by the raw value.
func renderRanking(m views.Models) string {
	headers := []string{"model"}
	for _, metric := range m.Metrics {
		h := metric
		if metric == m.Sort.Key {
			h += sortMark(m.Sort.Order)
		}
		headers = append(headers, h)
	}
	headers = append(headers, "avg")
	if m.Sort.Key == ranking.KeyName {
		headers[0] += sortMark(m.Sort.Order)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.Subtle)).
		Headers(headers...)

	bestRow := -1
	for i, row := range m.Rows {
		name := row.Record.Name
		if row.Best {
			name = "★ " + name
			bestRow = i
		}
		cells := []string{name}
		for _, metric := range m.Metrics {
			cells = append(cells, rankingCell(row.Scores, row.Record.Metrics, metric))
		}
		cells = append(cells, strconv.Itoa(row.Average))
		t.Row(cells...)
	}

	t.StyleFunc(func(row, _ int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return styles.TableHeaderStyle.Padding(0, 1)
		case row == bestRow:
			return styles.BestBadgeStyle.Padding(0, 1)
		default:
			return lipgloss.NewStyle().Padding(0, 1)
		}
	})

	return t.String()
}

func rankingCell(scores map[string]int, raw map[string]float64, metric string) string {
	score, ok := scores[metric]
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%3d (%s)", score, strconv.FormatFloat(raw[metric], 'f', -1, 64))
}

func sortMark(o ranking.Order) string {
	if o == ranking.Descending {
		return " ▼"
	}
	return " ▲"
}
