package measure

import (
	"sort"
	"sync"
	"time"
)

// DefaultMeasure keeps metrics in memory.
type DefaultMeasure struct {
	mu    sync.Mutex
	Steps map[string]Metric
}

func NewDefaultMeasure() *DefaultMeasure {
	return &DefaultMeasure{
		Steps: make(map[string]Metric),
	}
}

func (m *DefaultMeasure) AddMetric(name string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	if mt, ok := m.Steps[name]; ok {
		return mt
	}

	mt := &DefaultMetric{mu: &sync.Mutex{}}
	m.Steps[name] = mt

	return mt
}

func (m *DefaultMeasure) GetMetric(name string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.Steps[name]
}

func (m *DefaultMeasure) AllMetrics() map[string]Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := make(map[string]Metric, len(m.Steps))
	for name, mt := range m.Steps {
		res[name] = mt
	}

	return res
}

// Names returns the operation names of msr sorted alphabetically.
func Names(msr Measure) []string {
	all := msr.AllMetrics()

	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Observe runs fn and records its duration and outcome under name.
func Observe(msr Measure, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	msr.AddMetric(name).AddDuration(time.Since(start), err)

	return err
}

var _ Measure = (*DefaultMeasure)(nil)
