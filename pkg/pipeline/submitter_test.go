package pipeline_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-pipegraph/pkg/pipeline"
	"github.com/askiada/go-pipegraph/pkg/pipeline/model"
	"github.com/askiada/go-pipegraph/pkg/pipeline/registry/memory"
	"github.com/askiada/go-pipegraph/pkg/pipeline/wire"
)

type failingSubmit struct {
	*memory.Registry
	err error
}

func (f *failingSubmit) SubmitRun(context.Context, string) (*wire.Run, error) {
	return nil, f.err
}

type logLines struct {
	mu    sync.Mutex
	lines []string
}

func (l *logLines) logger() logr.Logger {
	return funcr.New(func(prefix, args string) {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.lines = append(l.lines, prefix+" "+args)
	}, funcr.Options{Verbosity: 1})
}

func (l *logLines) contains(s string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, line := range l.lines {
		if strings.Contains(line, s) {
			return true
		}
	}

	return false
}

func TestSubmitAndReconstruct(t *testing.T) {
	t.Parallel()

	reg := memory.New()
	submitter := pipeline.NewSubmitter(reg)
	f := buildGraph(t)

	logs := &logLines{}
	ctx := logr.NewContext(context.Background(), logs.logger())

	run, err := submitter.Submit(ctx, f.g, "exp", map[string]any{"lr": 0.2}, pipeline.WithDescription("nightly"))
	require.NoError(t, err)
	assert.Equal(t, wire.Queued, run.Status)
	assert.Equal(t, "exp", run.ExperimentName)
	assert.True(t, logs.contains("submitted run"))
	assert.True(t, logs.contains("registered module"))

	got, values, err := submitter.Reconstruct(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"lr": 0.2}, values)
	assert.Equal(t, shapeOf(f.g), shapeOf(got))
	assert.Equal(t, run.ID, got.Name)
}

func TestSubmitOrphanedRun(t *testing.T) {
	t.Parallel()

	reg := memory.New()
	submitErr := errors.New("quota exceeded")
	submitter := pipeline.NewSubmitter(&failingSubmit{Registry: reg, err: submitErr})

	logs := &logLines{}
	ctx := logr.NewContext(context.Background(), logs.logger())

	_, err := submitter.Submit(ctx, buildGraph(t).g, "exp", nil)
	require.ErrorIs(t, err, pipeline.ErrRunNotSubmitted)
	require.ErrorIs(t, err, submitErr)

	var orphan *pipeline.OrphanedRunError
	require.True(t, errors.As(err, &orphan))

	run, ok := reg.Run(orphan.RunID)
	require.True(t, ok)
	assert.Equal(t, wire.NotStarted, run.Status)
	assert.True(t, logs.contains(orphan.RunID))
}

func TestSubmitErrors(t *testing.T) {
	t.Parallel()

	submitter := pipeline.NewSubmitter(memory.New())

	_, err := submitter.Submit(context.Background(), buildGraph(t).g, "", nil)
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = submitter.Submit(context.Background(), buildGraph(t).g, "exp", map[string]any{"lr": "fast"})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, _, err = submitter.Reconstruct(context.Background(), "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}
