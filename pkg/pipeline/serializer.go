package pipeline

import (
	"context"
	"sort"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"

	"github.com/askiada/go-pipegraph/pkg/pipeline/fingerprint"
	"github.com/askiada/go-pipegraph/pkg/pipeline/model"
	"github.com/askiada/go-pipegraph/pkg/pipeline/params"
	"github.com/askiada/go-pipegraph/pkg/pipeline/wire"
)

// Result is a graph frozen into its wire form together with the submission-time parameter
// values.
type Result struct {
	Graph     wire.GraphEntity
	Interface wire.EntityInterface
	// ParameterAssignments holds scalar pipeline parameter values as strings.
	ParameterAssignments map[string]string
	// DataPathAssignments holds data path pipeline parameter values.
	DataPathAssignments map[string]wire.DataPath
}

// Serializer turns a model.Graph into a Result.
type Serializer struct {
	resolver *fingerprint.Resolver
	register bool
}

// NewSerializer creates a serializer resolving definitions through resolver.
func NewSerializer(resolver *fingerprint.Resolver, opts ...SerializerOption) *Serializer {
	s := &Serializer{
		resolver: resolver,
		register: true,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Serialize freezes g. pipelineParams are the values supplied for this submission; each must
// name a parameter the graph declares or references, with a value of the declared kind.
func (s *Serializer) Serialize(ctx context.Context, g *model.Graph, pipelineParams map[string]any) (*Result, error) {
	if g == nil {
		return nil, model.Validationf("", "graph must be set")
	}

	logger := logr.FromContextOrDiscard(ctx).WithValues("graph", g.Name)

	declared, err := g.Parameters()
	if err != nil {
		return nil, err
	}

	res := &Result{
		Graph: wire.GraphEntity{
			ModuleNodes:  []wire.ModuleNode{},
			DatasetNodes: []wire.DatasetNode{},
			Edges:        []wire.Edge{},
		},
	}

	res.ParameterAssignments, res.DataPathAssignments, err = splitAssignments(pipelineParams)
	if err != nil {
		return nil, err
	}

	if err := params.Validate(pipelineParams, declared); err != nil {
		return nil, err
	}

	res.Interface, err = buildInterface(declared)
	if err != nil {
		return nil, err
	}

	for _, n := range g.Nodes() {
		switch node := n.(type) {
		case *model.Module:
			mn, err := s.moduleNode(ctx, node)
			if err != nil {
				return nil, errors.Wrapf(err, "unable to serialize module node %s", node.ID())
			}

			res.Graph.ModuleNodes = append(res.Graph.ModuleNodes, mn)
		case *model.DataSource:
			dn, err := s.datasetNode(ctx, node)
			if err != nil {
				return nil, errors.Wrapf(err, "unable to serialize datasource node %s", node.ID())
			}

			res.Graph.DatasetNodes = append(res.Graph.DatasetNodes, dn)
		}

		logger.V(1).Info("serialized node", "id", n.ID(), "name", n.Name())
	}

	for _, out := range g.Outputs() {
		res.Graph.Edges = append(res.Graph.Edges, wire.Edge{
			SourceOutputPort:     portRef(out.Port),
			DestinationInputPort: wire.PortRef{GraphPortName: out.Name},
		})
	}

	for _, e := range g.Edges() {
		res.Graph.Edges = append(res.Graph.Edges, wire.Edge{
			SourceOutputPort:     portRef(e.Source),
			DestinationInputPort: wire.PortRef{NodeID: e.Destination.Node().ID(), PortName: e.Destination.Name()},
		})
	}

	logger.Info("serialized graph",
		"modules", len(res.Graph.ModuleNodes),
		"datasets", len(res.Graph.DatasetNodes),
		"edges", len(res.Graph.Edges),
		"parameters", len(declared),
	)

	return res, nil
}

func portRef(out *model.OutputPort) wire.PortRef {
	return wire.PortRef{NodeID: out.Node().ID(), PortName: out.Name()}
}

// splitAssignments separates data path values from scalars, which are converted to strings.
func splitAssignments(values map[string]any) (map[string]string, map[string]wire.DataPath, error) {
	scalars := make(map[string]string)
	paths := make(map[string]wire.DataPath)

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		switch v := values[name].(type) {
		case model.DataPath:
			paths[name] = dataPathToWire(v)
		case *model.DataPath:
			if v == nil {
				return nil, nil, &model.SerializationError{Name: name, Value: v}
			}

			paths[name] = dataPathToWire(*v)
		default:
			s, err := params.Format(name, v)
			if err != nil {
				return nil, nil, err
			}

			scalars[name] = s
		}
	}

	return scalars, paths, nil
}

func dataPathToWire(p model.DataPath) wire.DataPath {
	return wire.DataPath{DataStoreName: p.DataStoreName, RelativePath: p.RelativePath}
}

// buildInterface declares each pipeline parameter as a typed scalar or a data path parameter.
// Scalar types are inferred from the default value.
func buildInterface(declared []*model.PipelineParameter) (wire.EntityInterface, error) {
	ei := wire.EntityInterface{
		Parameters:         []wire.Parameter{},
		DataPathParameters: []wire.DataPathParameter{},
	}

	for _, p := range declared {
		if p.IsDataPath() {
			def := dataPathToWire(p.Default.(model.DataPath)) //nolint:forcetypeassert // checked by IsDataPath

			ei.DataPathParameters = append(ei.DataPathParameters, wire.DataPathParameter{Name: p.Name, DefaultValue: &def})

			continue
		}

		wp := wire.Parameter{
			Name: p.Name,
			Type: wire.ParameterType(params.Classify(p.Default)),
		}

		if p.Default != nil {
			s, err := params.Format(p.Name, p.Default)
			if err != nil {
				return wire.EntityInterface{}, err
			}

			wp.DefaultValue = s
		}

		ei.Parameters = append(ei.Parameters, wp)
	}

	return ei, nil
}

func (s *Serializer) moduleID(ctx context.Context, def *model.ModuleDef) (string, error) {
	if !s.register {
		if def.ID == "" {
			return "", model.Validationf(def.Name, "module definition is not registered")
		}

		return def.ID, nil
	}

	return s.resolver.EnsureModule(ctx, def)
}

func (s *Serializer) dataSourceID(ctx context.Context, def *model.DataSourceDef) (string, error) {
	if !s.register {
		if def.ID == "" {
			return "", model.Validationf(def.Name, "datasource definition is not registered")
		}

		return def.ID, nil
	}

	return s.resolver.EnsureDataSource(ctx, def)
}

func (s *Serializer) moduleNode(ctx context.Context, m *model.Module) (wire.ModuleNode, error) {
	moduleID, err := s.moduleID(ctx, m.Def())
	if err != nil {
		return wire.ModuleNode{}, err
	}

	mn := wire.ModuleNode{
		ID:                       m.ID(),
		ModuleID:                 moduleID,
		ModuleParameters:         []wire.ParameterAssignment{},
		ModuleMetadataParameters: []wire.ParameterAssignment{},
		ModuleOutputSettings:     []wire.OutputSetting{},
	}

	for _, pv := range m.Parameters() {
		assignment, ok, err := parameterAssignment(pv)
		if err != nil {
			return wire.ModuleNode{}, err
		}

		if !ok {
			continue
		}

		if pv.Metadata {
			mn.ModuleMetadataParameters = append(mn.ModuleMetadataParameters, assignment)
		} else {
			mn.ModuleParameters = append(mn.ModuleParameters, assignment)
		}
	}

	for _, out := range m.Outputs() {
		if out.IsSentinel() {
			continue
		}

		mode := wire.UploadMode
		if out.IsDirectory() {
			mode = wire.MountMode
		}

		mn.ModuleOutputSettings = append(mn.ModuleOutputSettings, wire.OutputSetting{
			Name:          out.Name(),
			DataTypeID:    out.DataType(),
			DataStoreName: out.DataStoreName,
			DataStoreMode: mode,
		})
	}

	return mn, nil
}

// parameterAssignment returns false for parameters with no value.
func parameterAssignment(pv model.ParameterValue) (wire.ParameterAssignment, bool, error) {
	switch v := pv.Value.(type) {
	case nil:
		return wire.ParameterAssignment{}, false, nil
	case *model.PipelineParameter:
		return wire.ParameterAssignment{Name: pv.Def.Name, Value: v.Name, ValueType: wire.GraphParameterName}, true, nil
	default:
		s, err := params.Format(pv.Def.Name, v)
		if err != nil {
			return wire.ParameterAssignment{}, false, err
		}

		return wire.ParameterAssignment{Name: pv.Def.Name, Value: s, ValueType: wire.LiteralValue}, true, nil
	}
}

func (s *Serializer) datasetNode(ctx context.Context, ds *model.DataSource) (wire.DatasetNode, error) {
	datasetID, err := s.dataSourceID(ctx, ds.Def())
	if err != nil {
		return wire.DatasetNode{}, err
	}

	return wire.DatasetNode{ID: ds.ID(), DatasetID: datasetID}, nil
}
