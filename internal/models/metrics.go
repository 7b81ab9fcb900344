package models

// Direction says whether lower or higher raw values of a metric are better.
type Direction string

const (
	LowerIsBetter  Direction = "lower"
	HigherIsBetter Direction = "higher"
)

// Valid reports whether d is one of the known directions.
func (d Direction) Valid() bool {
	return d == LowerIsBetter || d == HigherIsBetter
}

// ModelMetricRecord holds the quality metrics of one forecasting model.
type ModelMetricRecord struct {
	Name      string               `json:"name" yaml:"name"`
	Metrics   map[string]float64   `json:"metrics" yaml:"metrics"`
	Direction map[string]Direction `json:"direction,omitempty" yaml:"direction,omitempty"`
}

// Metric returns the raw value of a metric and whether the record has it.
func (r ModelMetricRecord) Metric(name string) (float64, bool) {
	v, ok := r.Metrics[name]
	return v, ok
}

// NormalizedScore is a metric mapped onto 0..100 where higher is better.
type NormalizedScore struct {
	Model  string `json:"model"`
	Metric string `json:"metric"`
	Score  int    `json:"score"`
}

// ModelRanking is one row of the comparison table.
type ModelRanking struct {
	Record  ModelMetricRecord `json:"record"`
	Scores  map[string]int    `json:"scores"`
	Average int               `json:"average"`
	Best    bool              `json:"best"`
}
