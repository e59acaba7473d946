package store

import (
	"fmt"

	"github.com/dominikbraun/graph"
)

// Store is the graph.Store used by pipeline graphs. On top of the graph.Store contract it
// lists vertices and edges in insertion order, so everything derived from a graph
// (wire entities, DOT files) is stable between runs.
type Store[K comparable, T any] interface {
	graph.Store[K, T]
	CreatesCycle(source, target K) (bool, error)
}

// OrderedStore is an insertion-ordered in-memory graph.Store.
//
// It is not safe for concurrent use: a pipeline graph is owned by the caller building it.
type OrderedStore[K comparable, T any] struct {
	order            []K
	vertices         map[K]T
	vertexProperties map[K]*graph.VertexProperties

	// outEdges and inEdges store all outgoing and ingoing edges for all vertices. For O(1) access,
	// these edges themselves are stored in maps whose keys are the hashes of the target vertices.
	outEdges map[K]map[K]graph.Edge[K] // source -> target
	inEdges  map[K]map[K]graph.Edge[K] // target -> source
	// outOrder keeps the targets of each source in the order the edges were added.
	outOrder map[K][]K
}

// New creates an empty OrderedStore.
func New[K comparable, T any]() Store[K, T] {
	return &OrderedStore[K, T]{
		vertices:         make(map[K]T),
		vertexProperties: make(map[K]*graph.VertexProperties),
		outEdges:         make(map[K]map[K]graph.Edge[K]),
		inEdges:          make(map[K]map[K]graph.Edge[K]),
		outOrder:         make(map[K][]K),
	}
}

func (s *OrderedStore[K, T]) AddVertex(k K, t T, p graph.VertexProperties) error {
	if _, ok := s.vertices[k]; ok {
		return graph.ErrVertexAlreadyExists
	}

	s.vertices[k] = t
	s.vertexProperties[k] = &p
	s.order = append(s.order, k)

	return nil
}

// ListVertices returns the vertex hashes in insertion order.
func (s *OrderedStore[K, T]) ListVertices() ([]K, error) {
	hashes := make([]K, len(s.order))
	copy(hashes, s.order)

	return hashes, nil
}

func (s *OrderedStore[K, T]) VertexCount() (int, error) {
	return len(s.vertices), nil
}

func (s *OrderedStore[K, T]) Vertex(k K) (T, graph.VertexProperties, error) {
	v, ok := s.vertices[k]
	if !ok {
		return v, graph.VertexProperties{}, graph.ErrVertexNotFound
	}

	return v, *s.vertexProperties[k], nil
}

func (s *OrderedStore[K, T]) RemoveVertex(k K) error {
	if _, ok := s.vertices[k]; !ok {
		return graph.ErrVertexNotFound
	}

	if len(s.inEdges[k]) > 0 || len(s.outEdges[k]) > 0 {
		return graph.ErrVertexHasEdges
	}

	delete(s.inEdges, k)
	delete(s.outEdges, k)
	delete(s.outOrder, k)
	delete(s.vertices, k)
	delete(s.vertexProperties, k)

	s.order = without(s.order, k)

	return nil
}

func (s *OrderedStore[K, T]) AddEdge(sourceHash, targetHash K, edge graph.Edge[K]) error {
	if _, ok := s.outEdges[sourceHash]; !ok {
		s.outEdges[sourceHash] = make(map[K]graph.Edge[K])
	}

	if _, ok := s.outEdges[sourceHash][targetHash]; !ok {
		s.outOrder[sourceHash] = append(s.outOrder[sourceHash], targetHash)
	}

	s.outEdges[sourceHash][targetHash] = edge

	if _, ok := s.inEdges[targetHash]; !ok {
		s.inEdges[targetHash] = make(map[K]graph.Edge[K])
	}

	s.inEdges[targetHash][sourceHash] = edge

	return nil
}

func (s *OrderedStore[K, T]) UpdateEdge(sourceHash, targetHash K, edge graph.Edge[K]) error {
	if _, err := s.Edge(sourceHash, targetHash); err != nil {
		return err
	}

	s.outEdges[sourceHash][targetHash] = edge
	s.inEdges[targetHash][sourceHash] = edge

	return nil
}

func (s *OrderedStore[K, T]) RemoveEdge(sourceHash, targetHash K) error {
	delete(s.inEdges[targetHash], sourceHash)
	delete(s.outEdges[sourceHash], targetHash)
	s.outOrder[sourceHash] = without(s.outOrder[sourceHash], targetHash)

	return nil
}

func (s *OrderedStore[K, T]) Edge(sourceHash, targetHash K) (graph.Edge[K], error) {
	sourceEdges, ok := s.outEdges[sourceHash]
	if !ok {
		return graph.Edge[K]{}, graph.ErrEdgeNotFound
	}

	edge, ok := sourceEdges[targetHash]
	if !ok {
		return graph.Edge[K]{}, graph.ErrEdgeNotFound
	}

	return edge, nil
}

// ListEdges returns edges grouped by source vertex in insertion order.
func (s *OrderedStore[K, T]) ListEdges() ([]graph.Edge[K], error) {
	res := make([]graph.Edge[K], 0)

	for _, source := range s.order {
		for _, target := range s.outOrder[source] {
			res = append(res, s.outEdges[source][target])
		}
	}

	return res, nil
}

// CreatesCycle is a fastpath version of [graph.CreatesCycle] that avoids calling
// [graph.Graph.PredecessorMap], which generates large amounts of garbage to collect.
//
// Because CreatesCycle doesn't need to modify the PredecessorMap, we can use
// inEdges instead to compute the same thing without creating any copies.
func (s *OrderedStore[K, T]) CreatesCycle(source, target K) (bool, error) {
	if _, _, err := s.Vertex(source); err != nil {
		return false, fmt.Errorf("could not get vertex with hash %v: %w", source, err)
	}

	if _, _, err := s.Vertex(target); err != nil {
		return false, fmt.Errorf("could not get vertex with hash %v: %w", target, err)
	}

	if source == target {
		return true, nil
	}

	stack := []K{source}
	visited := make(map[K]struct{})

	for len(stack) > 0 {
		currentHash := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok := visited[currentHash]; ok {
			continue
		}

		// If the adjacent vertex also is the target vertex, the target is a
		// parent of the source vertex. An edge would introduce a cycle.
		if currentHash == target {
			return true, nil
		}

		visited[currentHash] = struct{}{}

		for adjacency := range s.inEdges[currentHash] {
			stack = append(stack, adjacency)
		}
	}

	return false, nil
}

func without[K comparable](list []K, k K) []K {
	for i, v := range list {
		if v == k {
			return append(list[:i:i], list[i+1:]...)
		}
	}

	return list
}

var _ Store[string, int] = (*OrderedStore[string, int])(nil)
