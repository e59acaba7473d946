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

// PublishOptions describes a published pipeline. Name defaults to the graph name.
type PublishOptions struct {
	Name        string
	Description string
	Version     string
	// Parameters are default values published with the pipeline.
	Parameters map[string]any
}

// Publisher publishes graphs without running them.
type Publisher struct {
	pipelines  registry.PipelineService
	serializer *Serializer
}

// NewPublisher creates a publisher registering definitions and pipelines through client.
func NewPublisher(client registry.Client, opts ...SerializerOption) *Publisher {
	return &Publisher{
		pipelines:  client,
		serializer: NewSerializer(fingerprint.NewResolver(client, client, client), opts...),
	}
}

// Publish serializes g and creates a published pipeline from it.
func (p *Publisher) Publish(ctx context.Context, g *model.Graph, opts PublishOptions) (*wire.PublishedPipeline, error) {
	if opts.Name == "" && g != nil {
		opts.Name = g.Name
	}

	if opts.Name == "" {
		return nil, model.Validationf("", "pipeline name must be set")
	}

	res, err := p.serializer.Serialize(ctx, g, opts.Parameters)
	if err != nil {
		return nil, errors.Wrap(err, "unable to serialize graph")
	}

	published, err := p.pipelines.CreatePublishedPipeline(ctx, &wire.PublishRequest{
		Name:                 opts.Name,
		Description:          opts.Description,
		Version:              opts.Version,
		Graph:                res.Graph,
		Interface:            res.Interface,
		ParameterAssignments: res.ParameterAssignments,
		DataPathAssignments:  res.DataPathAssignments,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "unable to publish pipeline %s", opts.Name)
	}

	logr.FromContextOrDiscard(ctx).Info("published pipeline", "id", published.ID, "name", published.Name)

	return published, nil
}
