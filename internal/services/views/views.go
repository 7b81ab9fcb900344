// Package views turns decoded service responses into the aligned series and
// KPI cards each dashboard section renders.
package views

import (
	"time"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/logger"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/metrics"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/models"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/pipeline/align"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/pipeline/kpi"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/pipeline/normalize"
)

// ReportMonths is the number of month slots in the report trend chart.
const ReportMonths = 6

// RegionSlots is the number of forecast steps shown per region.
const RegionSlots = 4

// Forecast is the data behind the forecast section.
type Forecast struct {
	Region     string                  `json:"region"`
	Horizon    int                     `json:"horizon"`
	CPU        models.NormalizedSeries `json:"cpu"`
	Storage    models.NormalizedSeries `json:"storage"`
	CPUKPI     models.KPI              `json:"cpu_kpi"`
	StorageKPI models.KPI              `json:"storage_kpi"`
	Summary    kpi.Summary             `json:"summary"`
	Defaulted  []string                `json:"defaulted,omitempty"`
}

// Report is the data behind the capacity report section.
type Report struct {
	Report      models.Report           `json:"report"`
	Trend       models.NormalizedSeries `json:"trend"`
	Demand      models.KPI              `json:"demand_kpi"`
	Utilization models.KPI              `json:"utilization_kpi"`
	Peak        models.KPI              `json:"peak_kpi"`
}

// Monitoring is the data behind the model health section.
type Monitoring struct {
	Monitoring models.Monitoring `json:"monitoring"`
	MAPE       models.KPI        `json:"mape_kpi"`
}

// Region is one card of the regions section.
type Region struct {
	Region   models.Region           `json:"region"`
	Forecast models.NormalizedSeries `json:"forecast"`
	CPU      models.KPI              `json:"cpu_kpi"`
	Storage  models.KPI              `json:"storage_kpi"`
}

// Regions is the data behind the regions section.
type Regions struct {
	Regions []Region `json:"regions"`
}

// Optimization is the data behind the scaling suggestion.
type Optimization struct {
	Optimization models.Optimization `json:"optimization"`
	NextCycle    models.KPI          `json:"next_cycle_kpi"`
}

// ForecastLabels returns the slot labels for a horizon.
func ForecastLabels(horizon int) []string {
	if horizon == 7 {
		return align.Weekdays()
	}
	return align.Days(horizon)
}

// BuildForecast aligns a forecast response onto horizon slots. A missing
// storage forecast fills with zero; a missing CPU forecast is an error.
func BuildForecast(raw models.RawResponse, horizon int) (Forecast, error) {
	f, rec := normalize.DecodeForecast(raw)
	if err := note(rec); err != nil {
		return Forecast{}, err
	}
	return forecastView(f, horizon), nil
}

func forecastView(f models.Forecast, horizon int) Forecast {
	labels := ForecastLabels(horizon)
	cpuSummary := kpi.Summarize(f.CPU)

	cpu := align.Align(f.CPU, labels, cpuSummary.Mean)
	storage := align.Align(f.Storage, labels, 0)

	return Forecast{
		Region:  f.Region,
		Horizon: horizon,
		CPU:     cpu,
		Storage: storage,
		CPUKPI: kpi.FromSeries(cpu, kpi.Spec{
			Title:    "CPU demand",
			Subtitle: "next period vs. following",
		}),
		StorageKPI: kpi.FromSeries(storage, kpi.Spec{
			Title:    "Storage demand",
			Subtitle: "next period vs. following",
			Unit:     kpi.UnitGB,
		}),
		Summary:   kpi.Summarize(cpu.Values()),
		Defaulted: f.Defaulted,
	}
}

// FallbackForecast is shown when the first forecast load fails.
func FallbackForecast(horizon int) Forecast {
	return forecastView(models.Forecast{
		Region:  "n/a",
		Days:    horizon,
		CPU:     []float64{7200, 7450, 7540, 7450, 7260, 7170, 7270},
		Storage: []float64{5220, 5210, 5130, 5060, 5040, 5080, 5160},
	}, horizon)
}

// BuildReport aligns the report's predictions onto month slots starting at
// now. Missing months extrapolate the trend; an empty prediction list fills
// with the reported average.
func BuildReport(raw models.RawResponse, now time.Time) (Report, error) {
	r, rec := normalize.DecodeReport(raw)
	if err := note(rec); err != nil {
		return Report{}, err
	}
	return reportView(r, now), nil
}

func reportView(r models.Report, now time.Time) Report {
	trend := align.Align(r.Summary.Predictions, align.Months(now, ReportMonths), r.Summary.Average)
	avg := r.Summary.Average
	peak := r.Summary.Max

	return Report{
		Report: r,
		Trend:  trend,
		Demand: kpi.FromSeries(trend, kpi.Spec{
			Title:    "Forecast demand",
			Subtitle: "trend " + orDash(r.Summary.Trend),
			Fallback: &avg,
		}),
		Utilization: kpi.Derive([]float64{r.Capacity.Utilization}, kpi.Spec{
			Title:    "Utilization",
			Subtitle: orDash(string(r.Capacity.Status)),
			Unit:     kpi.UnitPercent,
		}),
		Peak: kpi.Derive([]float64{peak}, kpi.Spec{
			Title:    "Peak forecast",
			Subtitle: "of " + kpi.Format(r.Capacity.Capacity, kpi.UnitNone) + " capacity",
		}),
	}
}

// FallbackReport is shown when the first report load fails.
func FallbackReport(now time.Time) Report {
	return reportView(models.Report{
		Summary: models.ForecastSummary{
			Days:        7,
			Predictions: []float64{7200, 7450, 7540, 7450, 7260, 7170, 7270},
			Average:     7334,
			Min:         7170,
			Max:         7540,
			Trend:       "increasing",
		},
		Capacity: models.CapacityAnalysis{
			AverageForecast: 7334,
			Capacity:        10000,
			Utilization:     73.3,
			Status:          models.ScaleStable,
		},
		Health: models.Monitoring{Threshold: 10, Status: models.DriftStable},
	}, now)
}

// BuildMonitoring wraps a monitoring response.
func BuildMonitoring(raw models.RawResponse) (Monitoring, error) {
	m, rec := normalize.DecodeMonitoring(raw)
	if err := note(rec); err != nil {
		return Monitoring{}, err
	}
	return monitoringView(m), nil
}

func monitoringView(m models.Monitoring) Monitoring {
	return Monitoring{
		Monitoring: m,
		MAPE: kpi.Derive([]float64{m.MAPE, m.Threshold}, kpi.Spec{
			Title:    "Model MAPE",
			Subtitle: "vs. drift threshold",
			Unit:     kpi.UnitPercent,
		}),
	}
}

// FallbackMonitoring is shown when the first monitoring load fails.
func FallbackMonitoring() Monitoring {
	return monitoringView(models.Monitoring{
		Threshold: 10,
		Status:    models.DriftStable,
		Message:   "Model health unavailable",
	})
}

// BuildRegions aligns each region's forecast onto four steps. A region
// without a forecast repeats its current CPU usage.
func BuildRegions(raw models.RawResponse) (Regions, error) {
	regions, rec := normalize.DecodeRegions(raw)
	if err := note(rec); err != nil {
		return Regions{}, err
	}
	return regionsView(regions), nil
}

func regionsView(regions []models.Region) Regions {
	out := Regions{Regions: make([]Region, 0, len(regions))}
	for _, r := range regions {
		series := align.Align(r.Forecast, align.Horizon(RegionSlots), r.CPUUsage)
		out.Regions = append(out.Regions, Region{
			Region:   r,
			Forecast: series,
			CPU: kpi.Derive([]float64{r.CPUUsage}, kpi.Spec{
				Title:    "CPU",
				Subtitle: r.Name,
			}),
			Storage: kpi.Derive([]float64{r.StorageUsage}, kpi.Spec{
				Title:    "Storage",
				Subtitle: r.Name,
				Unit:     kpi.UnitGB,
			}),
		})
	}
	return out
}

// FallbackRegions is shown when the first regions load fails: one empty
// card per configured region.
func FallbackRegions(names []string) Regions {
	regions := make([]models.Region, len(names))
	for i, n := range names {
		regions[i] = models.Region{Name: n, Recommendation: "No data"}
	}
	return regionsView(regions)
}

// BuildOptimization wraps an optimization response.
func BuildOptimization(raw models.RawResponse) (Optimization, error) {
	o, rec := normalize.DecodeOptimization(raw)
	if err := note(rec); err != nil {
		return Optimization{}, err
	}
	return optimizationView(o), nil
}

func optimizationView(o models.Optimization) Optimization {
	return Optimization{
		Optimization: o,
		NextCycle: kpi.Derive([]float64{o.NextCyclePercent}, kpi.Spec{
			Title:    "Next cycle load",
			Subtitle: orDash(o.LoadLevel),
			Unit:     kpi.UnitPercent,
		}),
	}
}

// FallbackOptimization is shown when the first optimization load fails.
func FallbackOptimization(region string) Optimization {
	return optimizationView(models.Optimization{
		Region:         region,
		Status:         models.ScaleStable,
		Action:         models.ActionStable,
		Recommendation: "No suggestion available",
	})
}

// note records what normalization had to paper over and returns the
// record's shape error, if any.
func note(rec normalize.Record) error {
	issues := rec.Issues()
	metrics.RecordIssues(rec.Schema(), len(issues))
	if d := rec.DefaultedFields(); len(d) > 0 || len(issues) > 0 {
		logger.Debug("response normalized with defaults",
			"schema", rec.Schema(), "defaulted", d, "issues", issues)
	}
	return rec.Err()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
