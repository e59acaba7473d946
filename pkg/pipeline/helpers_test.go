package pipeline_test

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/askiada/go-pipegraph/pkg/pipeline"
	"github.com/askiada/go-pipegraph/pkg/pipeline/fingerprint"
	"github.com/askiada/go-pipegraph/pkg/pipeline/model"
	"github.com/askiada/go-pipegraph/pkg/pipeline/registry/memory"
	"github.com/askiada/go-pipegraph/pkg/pipeline/wire"
)

func rawDef() *model.DataSourceDef {
	return &model.DataSourceDef{
		Name:       "raw",
		DataTypeID: model.FileDataTypeID,
		Reference:  model.DataReference{Type: model.DataStoreReference, DataStoreName: "blob", PathOnDataStore: "raw.csv"},
	}
}

func trainDef() *model.ModuleDef {
	return &model.ModuleDef{
		Name:    "train",
		Inputs:  []model.InputPortDef{{Name: "data", DataTypes: []string{model.FileDataTypeID}}},
		Outputs: []model.OutputPortDef{{Name: "model", DataType: model.DirectoryDataTypeID}},
		Params: []model.ParamDef{
			{Name: "epochs", Type: model.ParamInt, Default: 10},
			{Name: "lr", Type: model.ParamDouble, Default: 0.01},
		},
		MetadataParams: []model.ParamDef{{Name: "owner", Type: model.ParamString, Default: "ml"}},
	}
}

func scoreDef() *model.ModuleDef {
	return &model.ModuleDef{
		Name:   "score",
		Inputs: []model.InputPortDef{{Name: "model", DataTypes: []string{model.DirectoryDataTypeID}}},
		Outputs: []model.OutputPortDef{
			{Name: "scores", DataType: model.FileDataTypeID},
			{Name: model.FakeOutputPrefix + "done"},
		},
		Params: []model.ParamDef{{Name: "threshold", Type: model.ParamDouble, Default: 0.5}},
	}
}

type fixture struct {
	g     *model.Graph
	raw   *model.DataSource
	train *model.Module
	score *model.Module
	lr    *model.PipelineParameter
}

// buildGraph wires raw -> train -> score with one literal override, one pipeline parameter
// reference and a custom datastore on train's output.
func buildGraph(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{g: model.NewGraph("training"), lr: model.NewPipelineParameter("lr", 0.1)}

	var err error

	f.raw, err = f.g.AddDataSource(rawDef(), model.WithNodeID("raw"))
	require.NoError(t, err)
	f.train, err = f.g.AddModule(trainDef(), model.WithNodeID("train"))
	require.NoError(t, err)
	f.score, err = f.g.AddModule(scoreDef(), model.WithNodeID("score"))
	require.NoError(t, err)

	require.NoError(t, f.train.SetParameter("epochs", 3))
	require.NoError(t, f.train.SetParameter("lr", f.lr))
	require.NoError(t, f.score.SetParameter("threshold", 0.7))

	require.NoError(t, f.g.Connect(f.raw.Output(), input(t, f.train, "data")))
	require.NoError(t, f.g.Connect(output(t, f.train, "model"), input(t, f.score, "model")))

	output(t, f.train, "model").DataStoreName = "workspaceblobstore"

	return f
}

func input(t *testing.T, m *model.Module, name string) *model.InputPort {
	t.Helper()

	p, ok := m.Input(name)
	require.True(t, ok, name)

	return p
}

func output(t *testing.T, m *model.Module, name string) *model.OutputPort {
	t.Helper()

	p, ok := m.Output(name)
	require.True(t, ok, name)

	return p
}

// shape is the part of a graph that survives a round trip.
type shape struct {
	Nodes      []string
	Edges      []string
	Outputs    map[string]string
	Params     map[string]any
	DataStores map[string]string
}

func shapeOf(g *model.Graph) shape {
	s := shape{
		Outputs:    map[string]string{},
		Params:     map[string]any{},
		DataStores: map[string]string{},
	}

	for _, n := range g.Nodes() {
		s.Nodes = append(s.Nodes, n.ID())
	}

	for _, e := range g.Edges() {
		s.Edges = append(s.Edges, e.Source.String()+"->"+e.Destination.String())
	}

	for _, o := range g.Outputs() {
		s.Outputs[o.Name] = o.Port.String()
	}

	for _, m := range g.Modules() {
		for _, pv := range m.Parameters() {
			v := pv.Value
			if ref, ok := v.(*model.PipelineParameter); ok {
				v = ref.String()
			}

			s.Params[m.ID()+"."+pv.Def.Name] = v
		}

		for _, out := range m.Outputs() {
			if out.DataStoreName != "" {
				s.DataStores[out.String()] = out.DataStoreName
			}
		}
	}

	sort.Strings(s.Nodes)
	sort.Strings(s.Edges)

	return s
}

func pipelineSerializer(reg *memory.Registry) *pipeline.Serializer {
	return pipeline.NewSerializer(fingerprint.NewResolver(reg, reg, reg))
}

// clone deep-copies rg so table cases can mutate it independently.
func clone(t *testing.T, rg *wire.RunGraph) *wire.RunGraph {
	t.Helper()

	b, err := json.Marshal(rg)
	require.NoError(t, err)

	res := &wire.RunGraph{}
	require.NoError(t, json.Unmarshal(b, res))

	return res
}
