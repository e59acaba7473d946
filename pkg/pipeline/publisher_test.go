package pipeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-pipegraph/pkg/pipeline"
	"github.com/askiada/go-pipegraph/pkg/pipeline/model"
	"github.com/askiada/go-pipegraph/pkg/pipeline/registry/memory"
)

func TestPublish(t *testing.T) {
	t.Parallel()

	reg := memory.New()
	publisher := pipeline.NewPublisher(reg)

	published, err := publisher.Publish(context.Background(), buildGraph(t).g, pipeline.PublishOptions{Version: "2"})
	require.NoError(t, err)
	assert.Equal(t, "training", published.Name)
	assert.Equal(t, "2", published.Version)

	_, err = publisher.Publish(context.Background(), buildGraph(t).g, pipeline.PublishOptions{
		Name:       "custom",
		Parameters: map[string]any{"lr": 0.3},
	})
	require.NoError(t, err)

	all := reg.Published()
	require.Len(t, all, 2)
	assert.Equal(t, "custom", all[1].Name)
}

func TestPublishErrors(t *testing.T) {
	t.Parallel()

	publisher := pipeline.NewPublisher(memory.New())

	_, err := publisher.Publish(context.Background(), model.NewGraph(""), pipeline.PublishOptions{})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = publisher.Publish(context.Background(), buildGraph(t).g, pipeline.PublishOptions{Parameters: map[string]any{"x": []int{1}}})
	assert.ErrorIs(t, err, model.ErrSerialization)
}
