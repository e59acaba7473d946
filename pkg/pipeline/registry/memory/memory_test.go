package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-pipegraph/pkg/pipeline/model"
	"github.com/askiada/go-pipegraph/pkg/pipeline/registry/memory"
	"github.com/askiada/go-pipegraph/pkg/pipeline/wire"
)

func TestModules(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reg := memory.New()

	miss, err := reg.FindModuleByFingerprint(ctx, "fp")
	require.NoError(t, err)
	assert.Nil(t, miss)

	created, err := reg.CreateModule(ctx, &wire.ModuleCreationInfo{
		Name:       "train",
		Identifier: "fp",
		StructuredInterface: wire.StructuredInterface{
			Inputs:  []wire.StructuredInput{{Name: "data", DataTypeIDs: []string{model.FileDataTypeID}}},
			Outputs: []wire.StructuredOutput{{Name: "model", DataTypeID: model.DirectoryDataTypeID}},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.NotNil(t, created.Interface)
	assert.Equal(t, []wire.InterfacePort{{Name: "data", DataTypeIDs: []string{model.FileDataTypeID}}}, created.Interface.InputPorts)
	assert.Equal(t, []wire.InterfacePort{{Name: "model", DataTypeIDs: []string{model.DirectoryDataTypeID}}}, created.Interface.OutputPorts)

	found, err := reg.FindModuleByFingerprint(ctx, "fp")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	got, err := reg.GetModule(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "train", got.Name)

	_, err = reg.GetModule(ctx, "unknown")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDataSources(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reg := memory.New()

	created, err := reg.CreateDataSource(ctx, &wire.DataSourceCreationInfo{Name: "raw", Identifier: "fp"})
	require.NoError(t, err)

	found, err := reg.FindDataSourceByFingerprint(ctx, "fp")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	miss, err := reg.FindDataSourceByFingerprint(ctx, "other")
	require.NoError(t, err)
	assert.Nil(t, miss)

	_, err = reg.GetDataSource(ctx, "unknown")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDataTypes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reg := memory.New(memory.WithDataTypes("CsvFile"))

	for id, want := range map[string]bool{
		model.FileDataTypeID:      true,
		model.DirectoryDataTypeID: true,
		"CsvFile":                 true,
		"ParquetFile":             false,
	} {
		got, err := reg.DataTypeExists(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, got, id)
	}
}

func TestRuns(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reg := memory.New()

	run, err := reg.CreateUnsubmittedRun(ctx, &wire.CreateRunRequest{
		ExperimentName:       "exp",
		ParameterAssignments: map[string]string{"n": "3"},
	})
	require.NoError(t, err)
	assert.Equal(t, wire.NotStarted, run.Status)

	submitted, err := reg.SubmitRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, wire.Queued, submitted.Status)

	stored, ok := reg.Run(run.ID)
	require.True(t, ok)
	assert.Equal(t, wire.Queued, stored.Status)

	rg, err := reg.GetRunGraph(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, rg.RunID)
	assert.Equal(t, map[string]string{"n": "3"}, rg.ParameterAssignments)

	_, err = reg.SubmitRun(ctx, "unknown")
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = reg.GetRunGraph(ctx, "unknown")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestPublished(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reg := memory.New()

	first, err := reg.CreatePublishedPipeline(ctx, &wire.PublishRequest{Name: "a", Version: "1"})
	require.NoError(t, err)
	_, err = reg.CreatePublishedPipeline(ctx, &wire.PublishRequest{Name: "b"})
	require.NoError(t, err)

	published := reg.Published()
	require.Len(t, published, 2)
	assert.Equal(t, *first, published[0])
	assert.Equal(t, "b", published[1].Name)
}
