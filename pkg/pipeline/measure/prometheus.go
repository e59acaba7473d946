package measure

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "pipegraph"
	subsystem = "registry"
)

// PrometheusMeasure keeps in-memory metrics and also exports every call to a histogram
// labelled by operation and result.
type PrometheusMeasure struct {
	*DefaultMeasure
	callDuration *prometheus.HistogramVec
}

// NewPrometheusMeasure creates the measure and registers its collectors with reg.
func NewPrometheusMeasure(reg prometheus.Registerer) (*PrometheusMeasure, error) {
	m := &PrometheusMeasure{
		DefaultMeasure: NewDefaultMeasure(),
		callDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "call_duration_seconds",
				Help:      "Registry call duration in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14), // 100µs to ~1.6s
			},
			[]string{"operation", "result"}, // result is "success" or "error"
		),
	}

	if err := reg.Register(m.callDuration); err != nil {
		return nil, errors.Wrap(err, "unable to register call duration histogram")
	}

	return m, nil
}

func (m *PrometheusMeasure) AddMetric(name string) Metric {
	return &promMetric{
		Metric:    m.DefaultMeasure.AddMetric(name),
		operation: name,
		vec:       m.callDuration,
	}
}

type promMetric struct {
	Metric
	operation string
	vec       *prometheus.HistogramVec
}

func (pm *promMetric) AddDuration(elapsed time.Duration, err error) {
	pm.Metric.AddDuration(elapsed, err)

	result := "success"
	if err != nil {
		result = "error"
	}

	pm.vec.WithLabelValues(pm.operation, result).Observe(elapsed.Seconds())
}

var _ Measure = (*PrometheusMeasure)(nil)
