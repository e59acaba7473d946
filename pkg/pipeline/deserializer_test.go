package pipeline_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-pipegraph/pkg/pipeline"
	"github.com/askiada/go-pipegraph/pkg/pipeline/model"
	"github.com/askiada/go-pipegraph/pkg/pipeline/registry/memory"
	"github.com/askiada/go-pipegraph/pkg/pipeline/wire"
)

func serialize(t *testing.T, reg *memory.Registry, g *model.Graph, values map[string]any) *wire.RunGraph {
	t.Helper()

	s, err := pipelineSerializer(reg).Serialize(context.Background(), g, values)
	require.NoError(t, err)

	return &wire.RunGraph{
		RunID:                "run-1",
		Graph:                s.Graph,
		Interface:            s.Interface,
		ParameterAssignments: s.ParameterAssignments,
		DataPathAssignments:  s.DataPathAssignments,
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	reg := memory.New()
	f := buildGraph(t)
	rg := serialize(t, reg, f.g, nil)

	got, err := pipeline.NewDeserializer(reg, reg).Deserialize(context.Background(), rg)
	require.NoError(t, err)

	if diff := cmp.Diff(shapeOf(f.g), shapeOf(got)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	train, ok := got.Node("train")
	require.True(t, ok)
	assert.Equal(t, f.train.Def().ID, train.(*model.Module).Def().ID)
}

func TestRoundTripPipelineOutput(t *testing.T) {
	t.Parallel()

	reg := memory.New()
	f := buildGraph(t)
	require.NoError(t, f.g.BindOutput("result", output(t, f.score, "scores")))

	got, err := pipeline.NewDeserializer(reg, reg).Deserialize(context.Background(), serialize(t, reg, f.g, nil))
	require.NoError(t, err)

	out, ok := got.Output("result")
	require.True(t, ok)
	assert.Equal(t, "score.scores", out.Port.String())
	assert.Len(t, got.Edges(), 2)
}

func TestDeserializeSharesReferences(t *testing.T) {
	t.Parallel()

	reg := memory.New()
	f := buildGraph(t)
	second, err := f.g.AddModule(trainDef(), model.WithNodeID("train-2"))
	require.NoError(t, err)
	require.NoError(t, second.SetParameter("lr", f.lr))

	got, err := pipeline.NewDeserializer(reg, reg).Deserialize(context.Background(), serialize(t, reg, f.g, nil))
	require.NoError(t, err)

	params, err := got.Parameters()
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, 0.1, params[0].Default)

	for _, id := range []string{"train", "train-2"} {
		n, ok := got.Node(id)
		require.True(t, ok)

		v, ok := n.(*model.Module).Parameter("lr")
		require.True(t, ok)
		assert.Same(t, params[0], v)
	}
}

func TestRoundTripEmptyStringParameter(t *testing.T) {
	t.Parallel()

	reg := memory.New()
	f := buildGraph(t)
	require.NoError(t, f.g.DeclareParameter(model.NewPipelineParameter("tag", "")))

	first := serialize(t, reg, f.g, nil)

	got, err := pipeline.NewDeserializer(reg, reg).Deserialize(context.Background(), first)
	require.NoError(t, err)

	declared, err := got.Parameters()
	require.NoError(t, err)
	require.Len(t, declared, 2)
	assert.Equal(t, "tag", declared[0].Name)
	assert.Equal(t, "", declared[0].Default)

	second := serialize(t, reg, got, nil)
	if diff := cmp.Diff(first.Interface, second.Interface); diff != "" {
		t.Errorf("interface mismatch (-want +got):\n%s", diff)
	}

	_, err = pipelineSerializer(reg).Serialize(context.Background(), got, map[string]any{"tag": 3})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestDeserializeDataPathInterface(t *testing.T) {
	t.Parallel()

	reg := memory.New()
	f := buildGraph(t)
	path := model.DataPath{DataStoreName: "blob", RelativePath: "in"}
	require.NoError(t, f.g.DeclareParameter(model.NewPipelineParameter("input", path)))

	got, err := pipeline.NewDeserializer(reg, reg).Deserialize(context.Background(), serialize(t, reg, f.g, nil))
	require.NoError(t, err)

	params, err := got.Parameters()
	require.NoError(t, err)
	require.Len(t, params, 2)
	assert.Equal(t, "lr", params[0].Name)
	assert.Equal(t, "input", params[1].Name)
	assert.Equal(t, path, params[1].Default)
}

func TestDeserializeErrors(t *testing.T) {
	t.Parallel()

	reg := memory.New()
	base := serialize(t, reg, buildGraph(t).g, nil)

	sqlSource, err := reg.CreateDataSource(context.Background(), &wire.DataSourceCreationInfo{
		Name:          "sql",
		DataReference: wire.DataReference{Type: "Sql"},
	})
	require.NoError(t, err)

	tcs := map[string]struct {
		mutate  func(rg *wire.RunGraph)
		wantErr error
	}{
		"unknown module": {
			mutate:  func(rg *wire.RunGraph) { rg.Graph.ModuleNodes[0].ModuleID = "missing" },
			wantErr: model.ErrNotFound,
		},
		"unknown datasource": {
			mutate:  func(rg *wire.RunGraph) { rg.Graph.DatasetNodes[0].DatasetID = "missing" },
			wantErr: model.ErrNotFound,
		},
		"unsupported data reference": {
			mutate:  func(rg *wire.RunGraph) { rg.Graph.DatasetNodes[0].DatasetID = sqlSource.ID },
			wantErr: model.ErrUnsupportedFormat,
		},
		"edge from unknown node": {
			mutate:  func(rg *wire.RunGraph) { rg.Graph.Edges[0].SourceOutputPort.NodeID = "ghost" },
			wantErr: model.ErrNotFound,
		},
		"edge to unknown port": {
			mutate:  func(rg *wire.RunGraph) { rg.Graph.Edges[0].DestinationInputPort.PortName = "ghost" },
			wantErr: model.ErrNotFound,
		},
		"ambiguous destination": {
			mutate:  func(rg *wire.RunGraph) { rg.Graph.Edges[0].DestinationInputPort.GraphPortName = "result" },
			wantErr: model.ErrValidation,
		},
		"unknown parameter": {
			mutate: func(rg *wire.RunGraph) {
				rg.Graph.ModuleNodes[0].ModuleParameters = append(rg.Graph.ModuleNodes[0].ModuleParameters,
					wire.ParameterAssignment{Name: "ghost", Value: "1"})
			},
			wantErr: model.ErrNotFound,
		},
		"duplicate node id": {
			mutate:  func(rg *wire.RunGraph) { rg.Graph.ModuleNodes[1].ID = "train" },
			wantErr: model.ErrValidation,
		},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			rg := clone(t, base)
			tc.mutate(rg)

			_, err := pipeline.NewDeserializer(reg, reg).Deserialize(context.Background(), rg)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestDeserializeLiteralParsing(t *testing.T) {
	t.Parallel()

	reg := memory.New()
	rg := serialize(t, reg, buildGraph(t).g, nil)
	rg.Graph.ModuleNodes[0].ModuleParameters[0].Value = "three"

	_, err := pipeline.NewDeserializer(reg, reg).Deserialize(context.Background(), rg)
	assert.Error(t, err)
}

func TestParseAssignments(t *testing.T) {
	t.Parallel()

	got, err := pipeline.ParseAssignments(&wire.RunGraph{
		Interface: wire.EntityInterface{
			Parameters: []wire.Parameter{
				{Name: "n", Type: wire.IntType},
				{Name: "flag", Type: wire.BoolType},
			},
		},
		ParameterAssignments: map[string]string{"n": "3", "flag": "true", "other": "x"},
		DataPathAssignments:  map[string]wire.DataPath{"input": {DataStoreName: "blob", RelativePath: "in"}},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"n":     3,
		"flag":  true,
		"other": "x",
		"input": model.DataPath{DataStoreName: "blob", RelativePath: "in"},
	}, got)

	_, err = pipeline.ParseAssignments(&wire.RunGraph{
		Interface:            wire.EntityInterface{Parameters: []wire.Parameter{{Name: "n", Type: wire.IntType}}},
		ParameterAssignments: map[string]string{"n": "x"},
	})
	assert.Error(t, err)
}
