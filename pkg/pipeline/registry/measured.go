package registry

import (
	"context"

	"github.com/askiada/go-pipegraph/pkg/pipeline/measure"
	"github.com/askiada/go-pipegraph/pkg/pipeline/wire"
)

type measured struct {
	next Client
	msr  measure.Measure
}

// WithMeasure records the duration and outcome of every call made to next, one metric per
// method name.
func WithMeasure(next Client, msr measure.Measure) Client {
	return &measured{next: next, msr: msr}
}

func observe[T any](m *measured, op string, fn func() (T, error)) (T, error) {
	var res T

	err := measure.Observe(m.msr, op, func() error {
		var err error
		res, err = fn()

		return err
	})

	return res, err
}

func (m *measured) CreateModule(ctx context.Context, info *wire.ModuleCreationInfo) (*wire.ModuleEntity, error) {
	return observe(m, "CreateModule", func() (*wire.ModuleEntity, error) { return m.next.CreateModule(ctx, info) })
}

func (m *measured) GetModule(ctx context.Context, id string) (*wire.ModuleEntity, error) {
	return observe(m, "GetModule", func() (*wire.ModuleEntity, error) { return m.next.GetModule(ctx, id) })
}

func (m *measured) FindModuleByFingerprint(ctx context.Context, fingerprint string) (*wire.ModuleEntity, error) {
	return observe(m, "FindModuleByFingerprint", func() (*wire.ModuleEntity, error) {
		return m.next.FindModuleByFingerprint(ctx, fingerprint)
	})
}

func (m *measured) CreateDataSource(ctx context.Context, info *wire.DataSourceCreationInfo) (*wire.DataSourceEntity, error) {
	return observe(m, "CreateDataSource", func() (*wire.DataSourceEntity, error) { return m.next.CreateDataSource(ctx, info) })
}

func (m *measured) GetDataSource(ctx context.Context, id string) (*wire.DataSourceEntity, error) {
	return observe(m, "GetDataSource", func() (*wire.DataSourceEntity, error) { return m.next.GetDataSource(ctx, id) })
}

func (m *measured) FindDataSourceByFingerprint(ctx context.Context, fingerprint string) (*wire.DataSourceEntity, error) {
	return observe(m, "FindDataSourceByFingerprint", func() (*wire.DataSourceEntity, error) {
		return m.next.FindDataSourceByFingerprint(ctx, fingerprint)
	})
}

func (m *measured) DataTypeExists(ctx context.Context, id string) (bool, error) {
	return observe(m, "DataTypeExists", func() (bool, error) { return m.next.DataTypeExists(ctx, id) })
}

func (m *measured) CreateUnsubmittedRun(ctx context.Context, req *wire.CreateRunRequest) (*wire.Run, error) {
	return observe(m, "CreateUnsubmittedRun", func() (*wire.Run, error) { return m.next.CreateUnsubmittedRun(ctx, req) })
}

func (m *measured) SubmitRun(ctx context.Context, runID string) (*wire.Run, error) {
	return observe(m, "SubmitRun", func() (*wire.Run, error) { return m.next.SubmitRun(ctx, runID) })
}

func (m *measured) GetRunGraph(ctx context.Context, runID string) (*wire.RunGraph, error) {
	return observe(m, "GetRunGraph", func() (*wire.RunGraph, error) { return m.next.GetRunGraph(ctx, runID) })
}

func (m *measured) CreatePublishedPipeline(ctx context.Context, req *wire.PublishRequest) (*wire.PublishedPipeline, error) {
	return observe(m, "CreatePublishedPipeline", func() (*wire.PublishedPipeline, error) {
		return m.next.CreatePublishedPipeline(ctx, req)
	})
}

var _ Client = (*measured)(nil)
