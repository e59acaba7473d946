// Package memory is an in-process registry.Client. It backs tests and offline CLI runs and
// keeps the same contract as the backend: ids are assigned on create, fingerprints are
// exact-match keys and unknown ids fail with model.ErrNotFound.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/askiada/go-pipegraph/pkg/pipeline/model"
	"github.com/askiada/go-pipegraph/pkg/pipeline/registry"
	"github.com/askiada/go-pipegraph/pkg/pipeline/wire"
)

// Registry holds every entity in maps guarded by a single mutex.
type Registry struct {
	mu sync.Mutex

	dataTypes      map[string]struct{}
	modules        map[string]*wire.ModuleEntity
	moduleFP       map[string]string
	dataSources    map[string]*wire.DataSourceEntity
	dataSourceFP   map[string]string
	runs           map[string]*wire.Run
	runGraphs      map[string]*wire.RunGraph
	publishedByID  map[string]*wire.PublishedPipeline
	publishedOrder []string
}

// Option configures a Registry.
type Option func(r *Registry)

// WithDataTypes adds ids to the data type catalog.
func WithDataTypes(ids ...string) Option {
	return func(r *Registry) {
		for _, id := range ids {
			r.dataTypes[id] = struct{}{}
		}
	}
}

// New creates an empty registry whose catalog knows the generic file and directory types.
func New(opts ...Option) *Registry {
	r := &Registry{
		dataTypes:     map[string]struct{}{model.FileDataTypeID: {}, model.DirectoryDataTypeID: {}},
		modules:       make(map[string]*wire.ModuleEntity),
		moduleFP:      make(map[string]string),
		dataSources:   make(map[string]*wire.DataSourceEntity),
		dataSourceFP:  make(map[string]string),
		runs:          make(map[string]*wire.Run),
		runGraphs:     make(map[string]*wire.RunGraph),
		publishedByID: make(map[string]*wire.PublishedPipeline),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Registry) CreateModule(_ context.Context, info *wire.ModuleCreationInfo) (*wire.ModuleEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entity := &wire.ModuleEntity{
		ID:                  uuid.NewString(),
		Name:                info.Name,
		Description:         info.Description,
		Category:            info.Category,
		Version:             info.Version,
		IsDeterministic:     info.IsDeterministic,
		Identifier:          info.Identifier,
		StructuredInterface: info.StructuredInterface,
		Interface:           abstractInterface(info.StructuredInterface),
	}

	r.modules[entity.ID] = entity
	if info.Identifier != "" {
		r.moduleFP[info.Identifier] = entity.ID
	}

	clone := *entity

	return &clone, nil
}

// abstractInterface derives the port-only interface the backend stores next to the structured
// one.
func abstractInterface(si wire.StructuredInterface) *wire.ModuleInterface {
	res := &wire.ModuleInterface{}

	for _, in := range si.Inputs {
		res.InputPorts = append(res.InputPorts, wire.InterfacePort{Name: in.Name, DataTypeIDs: in.DataTypeIDs, IsOptional: in.IsOptional})
	}

	for _, out := range si.Outputs {
		res.OutputPorts = append(res.OutputPorts, wire.InterfacePort{Name: out.Name, DataTypeIDs: []string{out.DataTypeID}})
	}

	return res
}

func (r *Registry) GetModule(_ context.Context, id string) (*wire.ModuleEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entity, ok := r.modules[id]
	if !ok {
		return nil, &model.NotFoundError{Kind: "module", ID: id}
	}

	clone := *entity

	return &clone, nil
}

func (r *Registry) FindModuleByFingerprint(_ context.Context, fingerprint string) (*wire.ModuleEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.moduleFP[fingerprint]
	if !ok {
		return nil, nil //nolint:nilnil // a miss is not an error
	}

	clone := *r.modules[id]

	return &clone, nil
}

func (r *Registry) CreateDataSource(_ context.Context, info *wire.DataSourceCreationInfo) (*wire.DataSourceEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entity := &wire.DataSourceEntity{
		ID:            uuid.NewString(),
		Name:          info.Name,
		Description:   info.Description,
		DataTypeID:    info.DataTypeID,
		Identifier:    info.Identifier,
		DataReference: info.DataReference,
	}

	r.dataSources[entity.ID] = entity
	if info.Identifier != "" {
		r.dataSourceFP[info.Identifier] = entity.ID
	}

	clone := *entity

	return &clone, nil
}

func (r *Registry) GetDataSource(_ context.Context, id string) (*wire.DataSourceEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entity, ok := r.dataSources[id]
	if !ok {
		return nil, &model.NotFoundError{Kind: "datasource", ID: id}
	}

	clone := *entity

	return &clone, nil
}

func (r *Registry) FindDataSourceByFingerprint(_ context.Context, fingerprint string) (*wire.DataSourceEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.dataSourceFP[fingerprint]
	if !ok {
		return nil, nil //nolint:nilnil // a miss is not an error
	}

	clone := *r.dataSources[id]

	return &clone, nil
}

func (r *Registry) DataTypeExists(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.dataTypes[id]

	return ok, nil
}

func (r *Registry) CreateUnsubmittedRun(_ context.Context, req *wire.CreateRunRequest) (*wire.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	run := &wire.Run{ID: uuid.NewString(), ExperimentName: req.ExperimentName, Status: wire.NotStarted}
	r.runs[run.ID] = run
	r.runGraphs[run.ID] = &wire.RunGraph{
		RunID:                run.ID,
		Graph:                req.Graph,
		Interface:            req.Interface,
		ParameterAssignments: req.ParameterAssignments,
		DataPathAssignments:  req.DataPathAssignments,
	}

	clone := *run

	return &clone, nil
}

func (r *Registry) SubmitRun(_ context.Context, runID string) (*wire.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, ok := r.runs[runID]
	if !ok {
		return nil, &model.NotFoundError{Kind: "run", ID: runID}
	}

	run.Status = wire.Queued
	clone := *run

	return &clone, nil
}

func (r *Registry) GetRunGraph(_ context.Context, runID string) (*wire.RunGraph, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rg, ok := r.runGraphs[runID]
	if !ok {
		return nil, &model.NotFoundError{Kind: "run", ID: runID}
	}

	clone := *rg

	return &clone, nil
}

// Run returns the run record called runID.
func (r *Registry) Run(runID string) (*wire.Run, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, ok := r.runs[runID]
	if !ok {
		return nil, false
	}

	clone := *run

	return &clone, true
}

func (r *Registry) CreatePublishedPipeline(_ context.Context, req *wire.PublishRequest) (*wire.PublishedPipeline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	published := &wire.PublishedPipeline{ID: uuid.NewString(), Name: req.Name, Version: req.Version}
	r.publishedByID[published.ID] = published
	r.publishedOrder = append(r.publishedOrder, published.ID)

	clone := *published

	return &clone, nil
}

// Published lists published pipelines in creation order.
func (r *Registry) Published() []wire.PublishedPipeline {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := make([]wire.PublishedPipeline, 0, len(r.publishedOrder))
	for _, id := range r.publishedOrder {
		res = append(res, *r.publishedByID[id])
	}

	return res
}

var _ registry.Client = (*Registry)(nil)
