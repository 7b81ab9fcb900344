package normalize

import (
	"slices"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/models"
)

var scaleStatuses = []string{string(models.ScaleUp), string(models.ScaleDown), string(models.ScaleStable)}

// ForecastSchema covers forecast_7 and forecast_30.
var ForecastSchema = MustSchema("forecast",
	Field{Name: "region", Path: "region", Kind: String},
	Field{Name: "forecast_days", Path: "forecast_days", Kind: Number},
	Field{Name: "cpu", Path: "predictions_cpu", Alt: []string{"predictions"}, Kind: Numbers, Required: true},
	Field{Name: "storage", Path: "predictions_storage", Kind: Numbers},
)

// ReportSchema covers the comprehensive report.
var ReportSchema = MustSchema("report", append([]Field{
	{Name: "days", Path: "forecast_summary.days_forecasted", Kind: Number},
	{Name: "predictions", Path: "forecast_summary.predictions", Kind: Numbers},
	{Name: "avg_forecast", Path: "forecast_summary.avg_forecast", Kind: Number, Required: true},
	{Name: "min_forecast", Path: "forecast_summary.min_forecast", Kind: Number},
	{Name: "max_forecast", Path: "forecast_summary.max_forecast", Kind: Number},
	{Name: "trend", Path: "forecast_summary.trend", Kind: String, Default: "unknown"},
	{Name: "capacity_avg", Path: "capacity_analysis.avg_forecast", Kind: Number},
	{Name: "capacity", Path: "capacity_analysis.capacity", Kind: Number},
	{Name: "utilization", Path: "capacity_analysis.utilization", Kind: Number},
	{Name: "capacity_status", Path: "capacity_analysis.status", Kind: String, Enum: scaleStatuses, Default: string(models.ScaleStable)},
	{Name: "capacity_recommendation", Path: "capacity_analysis.recommendation", Kind: String},
}, monitoringFields("health_", "model_health.")...)...)

// MonitoringSchema covers the drift monitor.
var MonitoringSchema = MustSchema("monitoring", require(monitoringFields("", ""), "mape")...)

// RegionsSchema covers the multi-region comparison.
var RegionsSchema = MustSchema("multi_region",
	Field{Name: "regions", Path: "regions", Kind: Records, Required: true, Fields: []Field{
		{Name: "name", Path: "name", Kind: String, Default: "unknown"},
		{Name: "cpu", Path: "cpuUsage", Kind: Number},
		{Name: "storage", Path: "storageUsage", Kind: Number},
		{Name: "forecast", Path: "forecast", Kind: Numbers},
		{Name: "peak_hours", Path: "peakHours", Kind: Strings},
		{Name: "recommendation", Path: "recommendation", Kind: String},
	}},
)

// OptimizationSchema covers the optimization suggestion.
var OptimizationSchema = MustSchema("optimization",
	Field{Name: "region", Path: "region", Kind: String},
	Field{Name: "status", Path: "status", Kind: String, Enum: scaleStatuses},
	Field{Name: "action", Path: "action", Kind: String, Required: true,
		Enum: []string{string(models.ActionIncrease), string(models.ActionDecrease), string(models.ActionStable)}},
	Field{Name: "load_level", Path: "load_level", Kind: String, Default: "Normal"},
	Field{Name: "recommendation", Path: "recommendation", Kind: String},
	Field{Name: "suggested_change", Path: "suggested_change", Alt: []string{"percentage"}, Kind: Number},
	Field{Name: "next_cycle", Path: "cpu_forecast_next_cycle_percent", Kind: Number},
)

// CapacitySchema covers capacity planning.
var CapacitySchema = MustSchema("capacity_planning",
	Field{Name: "avg_forecast", Path: "avg_forecast", Kind: Number},
	Field{Name: "capacity", Path: "capacity", Kind: Number},
	Field{Name: "utilization", Path: "utilization", Kind: Number, Required: true},
	Field{Name: "status", Path: "status", Kind: String, Enum: scaleStatuses, Default: string(models.ScaleStable)},
	Field{Name: "recommendation", Path: "recommendation", Kind: String},
)

// ServiceStatusSchema covers the model and dataset status call.
var ServiceStatusSchema = MustSchema("metrics",
	Field{Name: "cpu_model_status", Path: "cpu_model.status", Kind: String, Required: true},
	Field{Name: "cpu_model_type", Path: "cpu_model.type", Kind: String},
	Field{Name: "cpu_model_features", Path: "cpu_model.n_features", Kind: Number},
	Field{Name: "cpu_model_names", Path: "cpu_model.features", Kind: Strings},
	Field{Name: "storage_model_status", Path: "storage_model.status", Kind: String, Default: "unknown"},
	Field{Name: "storage_model_type", Path: "storage_model.type", Kind: String},
	Field{Name: "storage_model_features", Path: "storage_model.n_features", Kind: Number},
	Field{Name: "dataset_status", Path: "dataset.status", Kind: String, Default: "unknown"},
	Field{Name: "dataset_rows", Path: "dataset.rows", Kind: Number},
	Field{Name: "dataset_columns", Path: "dataset.columns", Kind: Number},
)

// require marks the named fields as required.
func require(fields []Field, names ...string) []Field {
	for i := range fields {
		if slices.Contains(names, fields[i].Name) {
			fields[i].Required = true
		}
	}
	return fields
}

func monitoringFields(prefix, pathPrefix string) []Field {
	return []Field{
		{Name: prefix + "mape", Path: pathPrefix + "mape", Kind: Number},
		{Name: prefix + "threshold", Path: pathPrefix + "threshold", Kind: Number, Default: 10.0},
		{Name: prefix + "days_since_retrain", Path: pathPrefix + "days_since_retrain", Kind: Number},
		{Name: prefix + "status", Path: pathPrefix + "status", Kind: String, Default: string(models.DriftStable),
			Enum: []string{string(models.DriftStable), string(models.DriftDetected), string(models.DriftStale)}},
		{Name: prefix + "message", Path: pathPrefix + "message", Kind: String},
		{Name: prefix + "recommendation", Path: pathPrefix + "recommendation", Kind: String},
		{Name: prefix + "retrain_triggered", Path: pathPrefix + "retrain_triggered", Kind: Bool},
	}
}

func monitoringFrom(r Record, prefix string) models.Monitoring {
	return models.Monitoring{
		MAPE:             r.Number(prefix + "mape"),
		Threshold:        r.Number(prefix + "threshold"),
		DaysSinceRetrain: r.Number(prefix + "days_since_retrain"),
		Status:           models.DriftStatus(r.String(prefix + "status")),
		Message:          r.String(prefix + "message"),
		Recommendation:   r.String(prefix + "recommendation"),
		RetrainTriggered: r.Bool(prefix + "retrain_triggered"),
	}
}

// DecodeForecast normalizes a forecast response.
func DecodeForecast(raw models.RawResponse) (models.Forecast, Record) {
	r := Normalize(raw, ForecastSchema)
	return models.Forecast{
		Region:    r.String("region"),
		Days:      int(r.Number("forecast_days")),
		CPU:       r.Numbers("cpu"),
		Storage:   r.Numbers("storage"),
		Defaulted: r.DefaultedFields(),
	}, r
}

// DecodeReport normalizes a report response.
func DecodeReport(raw models.RawResponse) (models.Report, Record) {
	r := Normalize(raw, ReportSchema)
	return models.Report{
		Summary: models.ForecastSummary{
			Days:        int(r.Number("days")),
			Predictions: r.Numbers("predictions"),
			Average:     r.Number("avg_forecast"),
			Min:         r.Number("min_forecast"),
			Max:         r.Number("max_forecast"),
			Trend:       r.String("trend"),
		},
		Capacity: models.CapacityAnalysis{
			AverageForecast: r.Number("capacity_avg"),
			Capacity:        r.Number("capacity"),
			Utilization:     r.Number("utilization"),
			Status:          models.ScaleStatus(r.String("capacity_status")),
			Recommendation:  r.String("capacity_recommendation"),
		},
		Health:    monitoringFrom(r, "health_"),
		Defaulted: r.DefaultedFields(),
	}, r
}

// DecodeMonitoring normalizes a monitoring response.
func DecodeMonitoring(raw models.RawResponse) (models.Monitoring, Record) {
	r := Normalize(raw, MonitoringSchema)
	return monitoringFrom(r, ""), r
}

// DecodeRegions normalizes a multi-region response. Entries that are not
// objects are dropped.
func DecodeRegions(raw models.RawResponse) ([]models.Region, Record) {
	r := Normalize(raw, RegionsSchema)
	entries := r.Records("regions")
	regions := make([]models.Region, 0, len(entries))
	for _, e := range entries {
		regions = append(regions, models.Region{
			Name:           e.String("name"),
			CPUUsage:       e.Number("cpu"),
			StorageUsage:   e.Number("storage"),
			Forecast:       e.Numbers("forecast"),
			PeakHours:      e.Strings("peak_hours"),
			Recommendation: e.String("recommendation"),
		})
	}
	return regions, r
}

// DecodeOptimization normalizes an optimization response. When the
// service omits a scaling verdict it is derived from the suggested action,
// and a missing action reads as stable.
func DecodeOptimization(raw models.RawResponse) (models.Optimization, Record) {
	r := Normalize(raw, OptimizationSchema)
	action := models.ScaleAction(r.String("action"))
	if action == "" {
		action = models.ActionStable
	}
	status := models.ScaleStatus(r.String("status"))
	if status == "" {
		status = action.Verdict()
	}
	return models.Optimization{
		Region:           r.String("region"),
		Status:           status,
		LoadLevel:        r.String("load_level"),
		Action:           action,
		Recommendation:   r.String("recommendation"),
		SuggestedChange:  r.Number("suggested_change"),
		NextCyclePercent: r.Number("next_cycle"),
	}, r
}

// DecodeCapacity normalizes a capacity planning response.
func DecodeCapacity(raw models.RawResponse) (models.CapacityAnalysis, Record) {
	r := Normalize(raw, CapacitySchema)
	return models.CapacityAnalysis{
		AverageForecast: r.Number("avg_forecast"),
		Capacity:        r.Number("capacity"),
		Utilization:     r.Number("utilization"),
		Status:          models.ScaleStatus(r.String("status")),
		Recommendation:  r.String("recommendation"),
	}, r
}

// DecodeServiceStatus normalizes a model status response.
func DecodeServiceStatus(raw models.RawResponse) (models.ServiceStatus, Record) {
	r := Normalize(raw, ServiceStatusSchema)
	return models.ServiceStatus{
		CPUModel: models.ModelInfo{
			Status:   r.String("cpu_model_status"),
			Type:     r.String("cpu_model_type"),
			Features: int(r.Number("cpu_model_features")),
			Names:    r.Strings("cpu_model_names"),
		},
		StorageModel: models.ModelInfo{
			Status:   r.String("storage_model_status"),
			Type:     r.String("storage_model_type"),
			Features: int(r.Number("storage_model_features")),
		},
		Dataset: models.DatasetInfo{
			Status:  r.String("dataset_status"),
			Rows:    int(r.Number("dataset_rows")),
			Columns: int(r.Number("dataset_columns")),
		},
		Defaulted: r.DefaultedFields(),
	}, r
}
