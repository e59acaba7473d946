// Package registry declares the backend collaborators the translation layer consumes. They are
// opaque synchronous calls; implementations return their own errors, which callers propagate.
package registry

import (
	"context"

	"github.com/askiada/go-pipegraph/pkg/pipeline/wire"
)

// ModuleRegistry stores module entities.
type ModuleRegistry interface {
	CreateModule(ctx context.Context, info *wire.ModuleCreationInfo) (*wire.ModuleEntity, error)
	GetModule(ctx context.Context, id string) (*wire.ModuleEntity, error)
	// FindModuleByFingerprint returns nil and no error when nothing matches.
	FindModuleByFingerprint(ctx context.Context, fingerprint string) (*wire.ModuleEntity, error)
}

// DataSourceRegistry stores datasource entities.
type DataSourceRegistry interface {
	CreateDataSource(ctx context.Context, info *wire.DataSourceCreationInfo) (*wire.DataSourceEntity, error)
	GetDataSource(ctx context.Context, id string) (*wire.DataSourceEntity, error)
	// FindDataSourceByFingerprint returns nil and no error when nothing matches.
	FindDataSourceByFingerprint(ctx context.Context, fingerprint string) (*wire.DataSourceEntity, error)
}

// DataTypeRegistry is the backend data type catalog.
type DataTypeRegistry interface {
	DataTypeExists(ctx context.Context, id string) (bool, error)
}

// RunService creates and submits pipeline runs.
type RunService interface {
	CreateUnsubmittedRun(ctx context.Context, req *wire.CreateRunRequest) (*wire.Run, error)
	SubmitRun(ctx context.Context, runID string) (*wire.Run, error)
	GetRunGraph(ctx context.Context, runID string) (*wire.RunGraph, error)
}

// PipelineService publishes pipelines.
type PipelineService interface {
	CreatePublishedPipeline(ctx context.Context, req *wire.PublishRequest) (*wire.PublishedPipeline, error)
}

// Client bundles every collaborator.
type Client interface {
	ModuleRegistry
	DataSourceRegistry
	DataTypeRegistry
	RunService
	PipelineService
}
