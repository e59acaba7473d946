package drawer

import "io"

// NodeKind selects how a node is rendered.
type NodeKind int

const (
	ModuleNode NodeKind = iota
	DataSourceNode
	OutputNode
)

// Drawer is an interface that defines the methods for drawing a pipeline graph.
type Drawer interface {
	// AddNode adds a node to the drawing.
	AddNode(id, label string, kind NodeKind) error
	// AddLink adds a labelled link between two nodes. Links between the same pair are merged.
	AddLink(from, to, label string) error
	// Draw writes the drawing to w.
	Draw(w io.Writer) error
}
