package config

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/askiada/go-pipegraph/pkg/pipeline/model"
)

// Graph builds a fresh model graph from the graph block called name. An empty name selects the
// only graph defined.
func (c *Config) Graph(name string) (*model.Graph, error) {
	if name == "" {
		names := c.GraphNames()
		if len(names) != 1 {
			return nil, model.Validationf("", "a graph name is required, choose one of %v", names)
		}

		name = names[0]
	}

	b, ok := c.graphs[name]
	if !ok {
		return nil, &model.NotFoundError{Kind: "graph", ID: name}
	}

	bld := &builder{cfg: c, g: model.NewGraph(name), params: make(map[string]*model.PipelineParameter)}

	if err := bld.build(b); err != nil {
		return nil, errors.Wrapf(err, "graph %s", name)
	}

	return bld.g, nil
}

type builder struct {
	cfg    *Config
	g      *model.Graph
	params map[string]*model.PipelineParameter
}

func (b *builder) build(gb *graphBlock) error {
	for _, pb := range gb.Parameters {
		p, err := pipelineParameter(pb)
		if err != nil {
			return errors.Wrapf(err, "parameter %s", pb.Name)
		}

		if err := b.g.DeclareParameter(p); err != nil {
			return err
		}

		b.params[p.Name] = p
	}

	for _, nb := range gb.Nodes {
		if err := b.addNode(nb); err != nil {
			return errors.Wrapf(err, "node %s", nb.ID)
		}
	}

	for _, eb := range gb.Edges {
		out, err := b.outputPort(eb.From)
		if err != nil {
			return err
		}

		in, err := b.inputPort(eb.To)
		if err != nil {
			return err
		}

		if err := b.g.Connect(out, in); err != nil {
			return err
		}
	}

	for _, sb := range gb.Outputs {
		out, err := b.outputPort(sb.From)
		if err != nil {
			return err
		}

		if err := b.g.BindOutput(sb.Name, out); err != nil {
			return err
		}
	}

	return nil
}

func pipelineParameter(pb *parameterBlock) (*model.PipelineParameter, error) {
	if pb.DataStore != "" {
		if !pb.Default.IsNull() {
			return nil, model.Validationf(pb.Name, "default and datastore are mutually exclusive")
		}

		return model.NewPipelineParameter(pb.Name, model.DataPath{DataStoreName: pb.DataStore, RelativePath: pb.Path}), nil
	}

	kind, err := ParseKind(pb.Type)
	if err != nil {
		return nil, err
	}

	v, err := goValue(pb.Default)
	if err != nil {
		return nil, err
	}

	return model.NewPipelineParameter(pb.Name, coerce(kind, v)), nil
}

func (b *builder) addNode(nb *nodeBlock) error {
	switch {
	case nb.Module != "" && nb.DataSource == "":
		def, ok := b.cfg.Modules[nb.Module]
		if !ok {
			return &model.NotFoundError{Kind: "module", ID: nb.Module}
		}

		mod, err := b.g.AddModule(def, model.WithNodeID(nb.ID))
		if err != nil {
			return err
		}

		return b.configure(mod, nb)
	case nb.DataSource != "" && nb.Module == "":
		def, ok := b.cfg.DataSources[nb.DataSource]
		if !ok {
			return &model.NotFoundError{Kind: "datasource", ID: nb.DataSource}
		}

		if !nb.Params.IsNull() || len(nb.Refs) > 0 {
			return model.Validationf(nb.ID, "datasource nodes take no parameters")
		}

		if len(nb.DataStores) > 0 {
			return model.Validationf(nb.ID, "datasource nodes have no output settings")
		}

		_, err := b.g.AddDataSource(def, model.WithNodeID(nb.ID))

		return err
	default:
		return model.Validationf(nb.ID, "exactly one of module or datasource must be set")
	}
}

func (b *builder) configure(mod *model.Module, nb *nodeBlock) error {
	if !nb.Params.IsNull() {
		ty := nb.Params.Type()
		if !ty.IsObjectType() && !ty.IsMapType() {
			return model.Validationf(nb.ID, "params must be an object")
		}

		for name, v := range nb.Params.AsValueMap() {
			pd, _, ok := mod.Def().Param(name)
			if !ok {
				return model.Validationf(name, "module %q has no such parameter", mod.Name())
			}

			goVal, err := goValue(v)
			if err != nil {
				return errors.Wrapf(err, "param %s", name)
			}

			if err := mod.SetParameter(name, coerce(pd.Type, goVal)); err != nil {
				return err
			}
		}
	}

	for _, name := range sortedKeys(nb.Refs) {
		ref := b.reference(nb.Refs[name], mod, name)

		if err := mod.SetParameter(name, ref); err != nil {
			return err
		}
	}

	for _, port := range sortedKeys(nb.DataStores) {
		out, ok := mod.Output(port)
		if !ok {
			return &model.NotFoundError{Kind: "port", ID: nb.ID + "." + port}
		}

		out.DataStoreName = nb.DataStores[port]
	}

	return nil
}

// reference returns the pipeline parameter called name, creating it with the module
// parameter's default when the graph does not declare it.
func (b *builder) reference(name string, mod *model.Module, param string) *model.PipelineParameter {
	if p, ok := b.params[name]; ok {
		return p
	}

	var def any
	if pd, _, ok := mod.Def().Param(param); ok {
		def = pd.Default
	}

	p := model.NewPipelineParameter(name, def)
	b.params[name] = p

	return p
}

func (b *builder) node(ref string) (model.Node, string, error) {
	nodeID, port, ok := splitRef(ref)
	if !ok {
		return nil, "", model.Validationf(ref, "port reference must be node.port")
	}

	n, ok := b.g.Node(nodeID)
	if !ok {
		return nil, "", &model.NotFoundError{Kind: "node", ID: nodeID}
	}

	return n, port, nil
}

func (b *builder) outputPort(ref string) (*model.OutputPort, error) {
	n, port, err := b.node(ref)
	if err != nil {
		return nil, err
	}

	switch n := n.(type) {
	case *model.Module:
		if out, ok := n.Output(port); ok {
			return out, nil
		}
	case *model.DataSource:
		if port == model.DataSourceOutputName {
			return n.Output(), nil
		}
	}

	return nil, &model.NotFoundError{Kind: "port", ID: ref}
}

func (b *builder) inputPort(ref string) (*model.InputPort, error) {
	n, port, err := b.node(ref)
	if err != nil {
		return nil, err
	}

	mod, ok := n.(*model.Module)
	if !ok {
		return nil, model.Validationf(ref, "datasources have no inputs")
	}

	in, ok := mod.Input(port)
	if !ok {
		return nil, &model.NotFoundError{Kind: "port", ID: ref}
	}

	return in, nil
}

func splitRef(ref string) (node, port string, ok bool) {
	i := strings.LastIndex(ref, ".")
	if i <= 0 || i == len(ref)-1 {
		return "", "", false
	}

	return ref[:i], ref[i+1:], true
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
