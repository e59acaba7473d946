package model

import (
	"reflect"

	"github.com/dominikbraun/graph"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/askiada/go-pipegraph/internal/store"
)

// Edge connects an output port to an input port.
type Edge struct {
	Source      *OutputPort
	Destination *InputPort
}

// PipelineOutput binds a node output port to a named pipeline-level output.
type PipelineOutput struct {
	Name string
	Port *OutputPort
}

// Graph is the in-memory pipeline graph. It is built incrementally by a single caller and is
// not safe for concurrent mutation.
type Graph struct {
	Name string

	adjacency graph.Graph[string, Node]
	nodes     store.Store[string, Node]
	seq       map[string]int
	edges     []*Edge
	inbound   map[*InputPort]*Edge
	outputs   []*PipelineOutput
	declared  []*PipelineParameter
}

func nodeHash(n Node) string {
	return n.ID()
}

// NewGraph creates an empty graph.
func NewGraph(name string) *Graph {
	nodes := store.New[string, Node]()

	return &Graph{
		Name:      name,
		adjacency: graph.NewWithStore(nodeHash, nodes, graph.Directed(), graph.PreventCycles()),
		nodes:     nodes,
		seq:       make(map[string]int),
		inbound:   make(map[*InputPort]*Edge),
	}
}

// NodeOption configures a node added to a graph.
type NodeOption func(o *nodeOptions)

type nodeOptions struct {
	id string
}

// WithNodeID sets the graph-local node id instead of generating one.
func WithNodeID(id string) NodeOption {
	return func(o *nodeOptions) {
		o.id = id
	}
}

func applyNodeOptions(opts []NodeOption) nodeOptions {
	o := nodeOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	if o.id == "" {
		o.id = uuid.NewString()
	}

	return o
}

func (g *Graph) addNode(n Node) error {
	err := g.adjacency.AddVertex(n)
	if errors.Is(err, graph.ErrVertexAlreadyExists) {
		return Validationf(n.ID(), "node id already used in graph %q", g.Name)
	}

	if err != nil {
		return errors.Wrapf(err, "unable to add node %s", n.ID())
	}

	g.seq[n.ID()] = len(g.seq)

	return nil
}

// AddModule adds a module node built from def.
func (g *Graph) AddModule(def *ModuleDef, opts ...NodeOption) (*Module, error) {
	if def == nil {
		return nil, Validationf("", "module definition must be set")
	}

	o := applyNodeOptions(opts)

	mod, err := newModule(o.id, def)
	if err != nil {
		return nil, err
	}

	if err := g.addNode(mod); err != nil {
		return nil, err
	}

	return mod, nil
}

// AddDataSource adds a datasource node built from def.
func (g *Graph) AddDataSource(def *DataSourceDef, opts ...NodeOption) (*DataSource, error) {
	if def == nil {
		return nil, Validationf("", "datasource definition must be set")
	}

	o := applyNodeOptions(opts)
	ds := newDataSource(o.id, def)

	if err := g.addNode(ds); err != nil {
		return nil, err
	}

	return ds, nil
}

func (g *Graph) owns(n Node) bool {
	if n == nil {
		return false
	}

	v, err := g.adjacency.Vertex(n.ID())

	return err == nil && v == n
}

// Connect adds an edge from out to in. The input port must not be connected yet and must
// accept the output's data type.
func (g *Graph) Connect(out *OutputPort, in *InputPort) error {
	if out == nil || in == nil {
		return Validationf("", "both ports must be set")
	}

	if !g.owns(out.Node()) {
		return Validationf(out.String(), "output port does not belong to graph %q", g.Name)
	}

	if !g.owns(in.Node()) {
		return Validationf(in.String(), "input port does not belong to graph %q", g.Name)
	}

	if prev, ok := g.inbound[in]; ok {
		return Validationf(in.String(), "input port already connected to %s", prev.Source)
	}

	if !in.Accepts(out.DataType()) {
		return Validationf(in.String(), "data type %q of %s is not one of %v", out.DataType(), out, in.DataTypes())
	}

	err := g.adjacency.AddEdge(out.Node().ID(), in.Node().ID())

	switch {
	case errors.Is(err, graph.ErrEdgeAlreadyExists):
		// another port pair already links these two nodes
	case errors.Is(err, graph.ErrEdgeCreatesCycle):
		return Validationf(in.String(), "connecting %s would create a cycle", out)
	case err != nil:
		return errors.Wrapf(err, "unable to connect %s to %s", out, in)
	}

	edge := &Edge{Source: out, Destination: in}
	g.edges = append(g.edges, edge)
	g.inbound[in] = edge

	return nil
}

// BindOutput exposes out as the pipeline-level output called name.
func (g *Graph) BindOutput(name string, out *OutputPort) error {
	if name == "" {
		return Validationf("", "pipeline output name must be set")
	}

	if out == nil || !g.owns(out.Node()) {
		return Validationf(name, "output port does not belong to graph %q", g.Name)
	}

	if _, ok := g.Output(name); ok {
		return Validationf(name, "pipeline output already bound")
	}

	g.outputs = append(g.outputs, &PipelineOutput{Name: name, Port: out})

	return nil
}

// Output returns the pipeline-level output called name.
func (g *Graph) Output(name string) (*PipelineOutput, bool) {
	for _, o := range g.outputs {
		if o.Name == name {
			return o, true
		}
	}

	return nil, false
}

// Outputs lists pipeline-level outputs in binding order.
func (g *Graph) Outputs() []*PipelineOutput {
	return g.outputs
}

// Edges lists port-to-port edges in connection order.
func (g *Graph) Edges() []*Edge {
	return g.edges
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	n, err := g.adjacency.Vertex(id)
	if err != nil {
		return nil, false
	}

	return n, true
}

// Nodes lists nodes in insertion order.
func (g *Graph) Nodes() []Node {
	ids, _ := g.nodes.ListVertices() // never fails for the in-memory store

	return g.resolve(ids)
}

// Sorted lists nodes in topological order, breaking ties by insertion order.
func (g *Graph) Sorted() ([]Node, error) {
	ids, err := graph.StableTopologicalSort(g.adjacency, func(a, b string) bool {
		return g.seq[a] < g.seq[b]
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to sort graph")
	}

	return g.resolve(ids), nil
}

func (g *Graph) resolve(ids []string) []Node {
	nodes := make([]Node, 0, len(ids))

	for _, id := range ids {
		if n, ok := g.Node(id); ok {
			nodes = append(nodes, n)
		}
	}

	return nodes
}

// Modules lists module nodes in insertion order.
func (g *Graph) Modules() []*Module {
	var res []*Module

	for _, n := range g.Nodes() {
		if m, ok := n.(*Module); ok {
			res = append(res, m)
		}
	}

	return res
}

// DataSources lists datasource nodes in insertion order.
func (g *Graph) DataSources() []*DataSource {
	var res []*DataSource

	for _, n := range g.Nodes() {
		if ds, ok := n.(*DataSource); ok {
			res = append(res, ds)
		}
	}

	return res
}

// DeclareParameter declares a graph-level pipeline parameter.
func (g *Graph) DeclareParameter(p *PipelineParameter) error {
	if p == nil || p.Name == "" {
		return Validationf("", "pipeline parameter name must be set")
	}

	for _, d := range g.declared {
		if d.Name == p.Name {
			return Validationf(p.Name, "pipeline parameter already declared")
		}
	}

	g.declared = append(g.declared, p)

	return nil
}

// Parameters returns the declared pipeline parameters followed by those only referenced from
// module parameters, in first-seen order. Two distinct parameters sharing a name with
// different defaults are rejected.
func (g *Graph) Parameters() ([]*PipelineParameter, error) {
	res := make([]*PipelineParameter, 0, len(g.declared))
	index := make(map[string]*PipelineParameter)

	add := func(p *PipelineParameter) error {
		prev, ok := index[p.Name]
		if !ok {
			index[p.Name] = p
			res = append(res, p)

			return nil
		}

		if prev != p && !reflect.DeepEqual(prev.Default, p.Default) {
			return Validationf(p.Name, "pipeline parameter declared twice with defaults %v and %v", prev.Default, p.Default)
		}

		return nil
	}

	for _, p := range g.declared {
		if err := add(p); err != nil {
			return nil, err
		}
	}

	for _, m := range g.Modules() {
		for _, pv := range m.Parameters() {
			ref, ok := pv.Value.(*PipelineParameter)
			if !ok {
				continue
			}

			if err := add(ref); err != nil {
				return nil, err
			}
		}
	}

	return res, nil
}
