package drawer

import (
	"io"
	"strings"
	"text/template"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-pipegraph/pkg/pipeline/model"
)

// DOTDrawer renders a graph in Graphviz DOT format.
type DOTDrawer struct {
	graph graph.Graph[string, string]
	order []string
	fills map[NodeKind]string
}

// NewDOTDrawer creates a new DOT drawer.
func NewDOTDrawer() (*DOTDrawer, error) {
	fills := make(map[NodeKind]string)

	for kind, rgb := range map[NodeKind][3]uint8{
		ModuleNode:     {204, 229, 255},
		DataSourceNode: {255, 242, 204},
		OutputNode:     {217, 242, 217},
	} {
		c, err := colors.RGB(rgb[0], rgb[1], rgb[2])
		if err != nil {
			return nil, errors.Wrap(err, "unable to get colour")
		}

		fills[kind] = c.ToHEX().String()
	}

	return &DOTDrawer{
		graph: graph.New(graph.StringHash, graph.Directed()),
		fills: fills,
	}, nil
}

var shapes = map[NodeKind]string{
	ModuleNode:     "box",
	DataSourceNode: "cylinder",
	OutputNode:     "oval",
}

// AddNode adds a node to the drawing.
func (d *DOTDrawer) AddNode(id, label string, kind NodeKind) error {
	err := d.graph.AddVertex(id,
		graph.VertexAttribute("label", label),
		graph.VertexAttribute("shape", shapes[kind]),
		graph.VertexAttribute("style", "filled"),
		graph.VertexAttribute("fillcolor", d.fills[kind]),
	)
	if err != nil {
		return errors.Wrapf(err, "unable to add vertex %s", id)
	}

	d.order = append(d.order, id)

	return nil
}

// AddLink adds a link between two nodes.
func (d *DOTDrawer) AddLink(from, to, label string) error {
	err := d.graph.AddEdge(from, to, graph.EdgeAttribute("label", label))
	if errors.Is(err, graph.ErrEdgeAlreadyExists) {
		edge, err := d.graph.Edge(from, to)
		if err != nil {
			return errors.Wrapf(err, "unable to get edge from %s to %s", from, to)
		}

		err = d.graph.UpdateEdge(from, to, graph.EdgeAttribute("label", edge.Properties.Attributes["label"]+`\n`+label))
		if err != nil {
			return errors.Wrapf(err, "unable to update edge from %s to %s", from, to)
		}

		return nil
	}

	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", from, to)
	}

	return nil
}

// Draw writes the DOT description to w. Nodes and edges appear in insertion order.
func (d *DOTDrawer) Draw(w io.Writer) error {
	desc, err := d.describe()
	if err != nil {
		return err
	}

	tpl, err := template.New("dotTemplate").Funcs(template.FuncMap{"quote": quote}).Parse(dotTemplate)
	if err != nil {
		return errors.Wrap(err, "unable to parse template")
	}

	if err := tpl.Execute(w, desc); err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

//nolint:lll //this is a template
const dotTemplate = `digraph {
	rankdir="LR";
{{- range .Statements}}
	{{quote .Source}}{{if .Target}} -> {{quote .Target}}{{end}} [{{range $i, $a := .Attributes}}{{if $i}}, {{end}}{{$a.Key}}={{quote $a.Value}}{{end}}];
{{- end}}
}
`

type attribute struct {
	Key   string
	Value string
}

type statement struct {
	Source     string
	Target     string
	Attributes []attribute
}

type description struct {
	Statements []statement
}

func (d *DOTDrawer) describe() (description, error) {
	desc := description{}

	adjacencyMap, err := d.graph.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	for _, id := range d.order {
		_, props, err := d.graph.VertexWithProperties(id)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		desc.Statements = append(desc.Statements, statement{Source: id, Attributes: sorted(props.Attributes)})
	}

	for _, id := range d.order {
		for _, target := range d.order {
			edge, ok := adjacencyMap[id][target]
			if !ok {
				continue
			}

			desc.Statements = append(desc.Statements, statement{Source: id, Target: target, Attributes: sorted(edge.Properties.Attributes)})
		}
	}

	return desc, nil
}

var attributeOrder = []string{"label", "shape", "style", "fillcolor"}

func sorted(attrs map[string]string) []attribute {
	res := make([]attribute, 0, len(attrs))

	for _, k := range attributeOrder {
		if v, ok := attrs[k]; ok {
			res = append(res, attribute{Key: k, Value: v})
		}
	}

	return res
}

// quote wraps s in double quotes, escaping embedded quotes. `\n` sequences are kept as DOT
// line breaks.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// FromGraph draws every node, port-to-port edge and pipeline output of g.
func FromGraph(d Drawer, g *model.Graph) error {
	for _, n := range g.Nodes() {
		kind := ModuleNode
		if _, ok := n.(*model.DataSource); ok {
			kind = DataSourceNode
		}

		if err := d.AddNode(n.ID(), n.Name()+`\n`+n.ID(), kind); err != nil {
			return err
		}
	}

	for _, e := range g.Edges() {
		if err := d.AddLink(e.Source.Node().ID(), e.Destination.Node().ID(), e.Source.Name()+" -> "+e.Destination.Name()); err != nil {
			return err
		}
	}

	for _, out := range g.Outputs() {
		sink := "output:" + out.Name
		if err := d.AddNode(sink, out.Name, OutputNode); err != nil {
			return err
		}

		if err := d.AddLink(out.Port.Node().ID(), sink, out.Port.Name()); err != nil {
			return err
		}
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
