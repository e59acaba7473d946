package measure_test

import (
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-pipegraph/pkg/pipeline/measure"
)

func TestDefaultMeasure(t *testing.T) {
	t.Parallel()

	msr := measure.NewDefaultMeasure()
	mt := msr.AddMetric("GetModule")
	assert.Same(t, mt, msr.AddMetric("GetModule"))

	mt.AddDuration(10*time.Millisecond, nil)
	mt.AddDuration(30*time.Millisecond, errors.New("boom"))

	assert.Equal(t, int64(2), mt.Calls())
	assert.Equal(t, int64(1), mt.Errors())
	assert.Equal(t, 20*time.Millisecond, mt.AVGDuration())
	assert.Equal(t, 40*time.Millisecond, mt.GetTotalDuration())
}

func TestAVGDurationEmpty(t *testing.T) {
	t.Parallel()

	assert.Zero(t, measure.NewDefaultMeasure().AddMetric("x").AVGDuration())
}

func TestObserve(t *testing.T) {
	t.Parallel()

	msr := measure.NewDefaultMeasure()
	wantErr := errors.New("failed")

	require.NoError(t, measure.Observe(msr, "b", func() error { return nil }))
	assert.ErrorIs(t, measure.Observe(msr, "a", func() error { return wantErr }), wantErr)

	assert.Equal(t, []string{"a", "b"}, measure.Names(msr))
	assert.Equal(t, int64(1), msr.GetMetric("a").Errors())
	assert.Equal(t, int64(0), msr.GetMetric("b").Errors())
}

func TestConcurrentObserve(t *testing.T) {
	t.Parallel()

	msr := measure.NewDefaultMeasure()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			_ = measure.Observe(msr, "op", func() error { return nil })
		}()
	}

	wg.Wait()
	assert.Equal(t, int64(20), msr.GetMetric("op").Calls())
}

func TestPrometheusMeasure(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	msr, err := measure.NewPrometheusMeasure(reg)
	require.NoError(t, err)

	_ = measure.Observe(msr, "CreateModule", func() error { return nil })
	_ = measure.Observe(msr, "CreateModule", func() error { return errors.New("boom") })

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "pipegraph_registry_call_duration_seconds", families[0].GetName())

	results := map[string]uint64{}
	for _, m := range families[0].GetMetric() {
		var op, result string
		for _, l := range m.GetLabel() {
			switch l.GetName() {
			case "operation":
				op = l.GetValue()
			case "result":
				result = l.GetValue()
			}
		}

		assert.Equal(t, "CreateModule", op)
		results[result] = m.GetHistogram().GetSampleCount()
	}

	assert.Equal(t, map[string]uint64{"success": 1, "error": 1}, results)
	assert.Equal(t, int64(2), msr.GetMetric("CreateModule").Calls())

	_, err = measure.NewPrometheusMeasure(reg)
	assert.Error(t, err)
}
