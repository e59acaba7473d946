package measure

import "time"

// Measure collects one Metric per named operation.
type Measure interface {
	// AddMetric returns the metric for name, creating it on first use.
	AddMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric accumulates call durations and failures of one operation.
type Metric interface {
	AddDuration(elapsed time.Duration, err error)
	AVGDuration() time.Duration
	GetTotalDuration() time.Duration
	Calls() int64
	Errors() int64
}
