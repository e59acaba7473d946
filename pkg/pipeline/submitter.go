package pipeline

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"

	"github.com/askiada/go-pipegraph/pkg/pipeline/fingerprint"
	"github.com/askiada/go-pipegraph/pkg/pipeline/model"
	"github.com/askiada/go-pipegraph/pkg/pipeline/registry"
	"github.com/askiada/go-pipegraph/pkg/pipeline/wire"
)

// Submitter runs graphs on the backend and rebuilds graphs of past runs.
type Submitter struct {
	client       registry.Client
	serializer   *Serializer
	deserializer *Deserializer
}

// NewSubmitter creates a submitter whose serializer and deserializer both use client.
func NewSubmitter(client registry.Client, opts ...SerializerOption) *Submitter {
	return &Submitter{
		client:       client,
		serializer:   NewSerializer(fingerprint.NewResolver(client, client, client), opts...),
		deserializer: NewDeserializer(client, client),
	}
}

// Submit serializes g, creates an unsubmitted run in experiment and submits it. Creating and
// submitting are two calls: when the second fails the run stays on the backend and the
// returned error is an *OrphanedRunError carrying its id.
func (s *Submitter) Submit(ctx context.Context, g *model.Graph, experiment string, pipelineParams map[string]any, opts ...SubmitOption) (*wire.Run, error) {
	if experiment == "" {
		return nil, model.Validationf("", "experiment name must be set")
	}

	o := submitOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	res, err := s.serializer.Serialize(ctx, g, pipelineParams)
	if err != nil {
		return nil, errors.Wrap(err, "unable to serialize graph")
	}

	logger := logr.FromContextOrDiscard(ctx).WithValues("experiment", experiment)

	run, err := s.client.CreateUnsubmittedRun(ctx, &wire.CreateRunRequest{
		ExperimentName:       experiment,
		Description:          o.description,
		Graph:                res.Graph,
		Interface:            res.Interface,
		ParameterAssignments: res.ParameterAssignments,
		DataPathAssignments:  res.DataPathAssignments,
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to create run")
	}

	submitted, err := s.client.SubmitRun(ctx, run.ID)
	if err != nil {
		logger.Error(err, "run left unsubmitted", "run", run.ID)

		return nil, &OrphanedRunError{RunID: run.ID, Err: err}
	}

	logger.Info("submitted run", "run", submitted.ID, "status", submitted.Status)

	return submitted, nil
}

// Reconstruct rebuilds the graph of run runID and returns it with the parameter values the
// run was submitted with.
func (s *Submitter) Reconstruct(ctx context.Context, runID string) (*model.Graph, map[string]any, error) {
	rg, err := s.client.GetRunGraph(ctx, runID)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "unable to get graph of run %s", runID)
	}

	g, err := s.deserializer.Deserialize(ctx, rg)
	if err != nil {
		return nil, nil, err
	}

	values, err := ParseAssignments(rg)
	if err != nil {
		return nil, nil, err
	}

	return g, values, nil
}
