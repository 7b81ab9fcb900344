package models

// Status is the lifecycle state of a dashboard section.
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

// FailureState describes where a section is in its load cycle.
// Error is empty unless Status is StatusError.
type FailureState struct {
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

// KPI is a headline figure with its change against the previous slot.
type KPI struct {
	Title    string `json:"title"`
	Value    string `json:"value"`
	Delta    *int64 `json:"delta"`
	Subtitle string `json:"subtitle,omitempty"`
}
