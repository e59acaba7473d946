package pipeline

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"

	"github.com/askiada/go-pipegraph/pkg/pipeline/model"
	"github.com/askiada/go-pipegraph/pkg/pipeline/params"
	"github.com/askiada/go-pipegraph/pkg/pipeline/registry"
	"github.com/askiada/go-pipegraph/pkg/pipeline/translate"
	"github.com/askiada/go-pipegraph/pkg/pipeline/wire"
)

// Deserializer rebuilds a model.Graph from a submitted run.
type Deserializer struct {
	modules registry.ModuleRegistry
	sources registry.DataSourceRegistry
}

// NewDeserializer creates a deserializer fetching definitions from the given registries.
func NewDeserializer(modules registry.ModuleRegistry, sources registry.DataSourceRegistry) *Deserializer {
	return &Deserializer{modules: modules, sources: sources}
}

// decoding holds the state of one Deserialize call.
type decoding struct {
	*Deserializer
	graph      *model.Graph
	declared   map[string]*model.PipelineParameter
	moduleDefs map[string]*model.ModuleDef
	sourceDefs map[string]*model.DataSourceDef
}

// Deserialize rebuilds the graph of rg. Node ids are the wire node ids. Graph parameters are
// declared from the interface with their interface defaults; module parameters that reference
// one share the same *model.PipelineParameter.
func (d *Deserializer) Deserialize(ctx context.Context, rg *wire.RunGraph) (*model.Graph, error) {
	if rg == nil {
		return nil, model.Validationf("", "run graph must be set")
	}

	logger := logr.FromContextOrDiscard(ctx).WithValues("run", rg.RunID)

	dec := &decoding{
		Deserializer: d,
		graph:        model.NewGraph(rg.RunID),
		declared:     make(map[string]*model.PipelineParameter),
		moduleDefs:   make(map[string]*model.ModuleDef),
		sourceDefs:   make(map[string]*model.DataSourceDef),
	}

	if err := dec.declareInterface(rg.Interface); err != nil {
		return nil, err
	}

	for _, dn := range rg.Graph.DatasetNodes {
		if err := dec.addDataset(ctx, dn); err != nil {
			return nil, errors.Wrapf(err, "unable to rebuild dataset node %s", dn.ID)
		}
	}

	for _, mn := range rg.Graph.ModuleNodes {
		if err := dec.addModule(ctx, mn); err != nil {
			return nil, errors.Wrapf(err, "unable to rebuild module node %s", mn.ID)
		}
	}

	for _, e := range rg.Graph.Edges {
		if err := dec.addEdge(e); err != nil {
			return nil, errors.Wrapf(err, "unable to rebuild edge from %s.%s", e.SourceOutputPort.NodeID, e.SourceOutputPort.PortName)
		}
	}

	logger.Info("rebuilt graph",
		"modules", len(rg.Graph.ModuleNodes),
		"datasets", len(rg.Graph.DatasetNodes),
		"edges", len(rg.Graph.Edges),
	)

	return dec.graph, nil
}

func (dec *decoding) declareInterface(ei wire.EntityInterface) error {
	for _, p := range ei.Parameters {
		var def any

		// an empty string is a real default for String parameters
		if p.DefaultValue != "" || p.Type == wire.StringType {
			v, err := params.Parse(model.ParamType(p.Type), p.DefaultValue)
			if err != nil {
				return errors.Wrapf(err, "default of pipeline parameter %s", p.Name)
			}

			def = v
		}

		if err := dec.declare(model.NewPipelineParameter(p.Name, def)); err != nil {
			return err
		}
	}

	for _, p := range ei.DataPathParameters {
		var def any
		if p.DefaultValue != nil {
			def = model.DataPath{DataStoreName: p.DefaultValue.DataStoreName, RelativePath: p.DefaultValue.RelativePath}
		}

		if err := dec.declare(model.NewPipelineParameter(p.Name, def)); err != nil {
			return err
		}
	}

	return nil
}

func (dec *decoding) declare(p *model.PipelineParameter) error {
	if err := dec.graph.DeclareParameter(p); err != nil {
		return err
	}

	dec.declared[p.Name] = p

	return nil
}

func (dec *decoding) addDataset(ctx context.Context, dn wire.DatasetNode) error {
	def, ok := dec.sourceDefs[dn.DatasetID]
	if !ok {
		entity, err := dec.sources.GetDataSource(ctx, dn.DatasetID)
		if err != nil {
			return errors.Wrapf(err, "unable to get datasource %s", dn.DatasetID)
		}

		def, err = translate.DataSourceFromWire(entity)
		if err != nil {
			return err
		}

		dec.sourceDefs[dn.DatasetID] = def
	}

	_, err := dec.graph.AddDataSource(def, model.WithNodeID(dn.ID))

	return err
}

func (dec *decoding) addModule(ctx context.Context, mn wire.ModuleNode) error {
	def, ok := dec.moduleDefs[mn.ModuleID]
	if !ok {
		entity, err := dec.modules.GetModule(ctx, mn.ModuleID)
		if err != nil {
			return errors.Wrapf(err, "unable to get module %s", mn.ModuleID)
		}

		def, err = translate.ModuleFromWire(entity)
		if err != nil {
			return err
		}

		dec.moduleDefs[mn.ModuleID] = def
	}

	mod, err := dec.graph.AddModule(def, model.WithNodeID(mn.ID))
	if err != nil {
		return err
	}

	for _, a := range append(append([]wire.ParameterAssignment{}, mn.ModuleParameters...), mn.ModuleMetadataParameters...) {
		if err := dec.assign(mod, a); err != nil {
			return err
		}
	}

	for _, setting := range mn.ModuleOutputSettings {
		out, ok := mod.Output(setting.Name)
		if !ok {
			return &model.NotFoundError{Kind: "port", ID: mn.ID + "." + setting.Name}
		}

		out.DataStoreName = setting.DataStoreName
	}

	return nil
}

func (dec *decoding) assign(mod *model.Module, a wire.ParameterAssignment) error {
	pd, _, ok := mod.Def().Param(a.Name)
	if !ok {
		return &model.NotFoundError{Kind: "parameter", ID: mod.ID() + "." + a.Name}
	}

	if a.ValueType == wire.GraphParameterName {
		ref, ok := dec.declared[a.Value]
		if !ok {
			ref = model.NewPipelineParameter(a.Value, pd.Default)
			if err := dec.declare(ref); err != nil {
				return err
			}
		}

		return mod.SetParameter(a.Name, ref)
	}

	v, err := params.Parse(pd.Type, a.Value)
	if err != nil {
		return errors.Wrapf(err, "value of parameter %s", a.Name)
	}

	return mod.SetParameter(a.Name, v)
}

func (dec *decoding) addEdge(e wire.Edge) error {
	out, err := dec.outputPort(e.SourceOutputPort)
	if err != nil {
		return err
	}

	dst := e.DestinationInputPort

	switch {
	case dst.IsGraphSink():
		return dec.graph.BindOutput(dst.GraphPortName, out)
	case dst.NodeID != "" && dst.GraphPortName == "":
		n, ok := dec.graph.Node(dst.NodeID)
		if !ok {
			return &model.NotFoundError{Kind: "node", ID: dst.NodeID}
		}

		mod, ok := n.(*model.Module)
		if !ok {
			return model.Validationf(dst.NodeID, "datasource nodes have no input ports")
		}

		in, ok := mod.Input(dst.PortName)
		if !ok {
			return &model.NotFoundError{Kind: "port", ID: dst.NodeID + "." + dst.PortName}
		}

		return dec.graph.Connect(out, in)
	default:
		return model.Validationf(dst.NodeID, "edge destination must name exactly one of a node or a graph output")
	}
}

func (dec *decoding) outputPort(ref wire.PortRef) (*model.OutputPort, error) {
	n, ok := dec.graph.Node(ref.NodeID)
	if !ok {
		return nil, &model.NotFoundError{Kind: "node", ID: ref.NodeID}
	}

	switch node := n.(type) {
	case *model.DataSource:
		return node.Output(), nil
	case *model.Module:
		out, ok := node.Output(ref.PortName)
		if !ok {
			return nil, &model.NotFoundError{Kind: "port", ID: ref.NodeID + "." + ref.PortName}
		}

		return out, nil
	default:
		return nil, &model.NotFoundError{Kind: "node", ID: ref.NodeID}
	}
}

// ParseAssignments returns the pipeline parameter values a run was submitted with. Scalars are
// parsed using the types declared in the run's interface; names missing from it stay strings.
func ParseAssignments(rg *wire.RunGraph) (map[string]any, error) {
	types := make(map[string]model.ParamType, len(rg.Interface.Parameters))
	for _, p := range rg.Interface.Parameters {
		types[p.Name] = model.ParamType(p.Type)
	}

	res := make(map[string]any, len(rg.ParameterAssignments)+len(rg.DataPathAssignments))

	for name, s := range rg.ParameterAssignments {
		kind, ok := types[name]
		if !ok {
			kind = model.ParamString
		}

		v, err := params.Parse(kind, s)
		if err != nil {
			return nil, errors.Wrapf(err, "value of pipeline parameter %s", name)
		}

		res[name] = v
	}

	for name, p := range rg.DataPathAssignments {
		res[name] = model.DataPath{DataStoreName: p.DataStoreName, RelativePath: p.RelativePath}
	}

	return res, nil
}
