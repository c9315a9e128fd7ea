package graphfile

import (
	"fmt"
	"io"
	"strconv"

	"github.com/siherrmann/metonym/model"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	dotformat "gonum.org/v1/gonum/graph/formats/dot"
	"gonum.org/v1/gonum/graph/simple"
)

// ReadDOT parses a Graphviz graph. Node ids are the vertex names and the
// optional edge attribute "weight" holds the edge weight.
func ReadDOT(r io.Reader) (*model.Taxonomy, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	file, err := dotformat.ParseBytes(data)
	if err != nil {
		return nil, err
	}
	if len(file.Graphs) != 1 {
		return nil, fmt.Errorf("dot: expected exactly one graph, found %d", len(file.Graphs))
	}

	rec := &dotRecorder{}
	var dst encoding.Builder
	if file.Graphs[0].Directed {
		dst = &dotDirected{DirectedGraph: simple.NewDirectedGraph(), rec: rec}
	} else {
		dst = &dotUndirected{UndirectedGraph: simple.NewUndirectedGraph(), rec: rec}
	}

	if err := dot.Unmarshal(data, dst); err != nil {
		return nil, err
	}
	if rec.err != nil {
		return nil, rec.err
	}

	t := &model.Taxonomy{Directed: file.Graphs[0].Directed}
	for _, n := range rec.nodes {
		t.AddNode(n.name)
	}
	for _, e := range rec.edges {
		t.AddEdge(e.F.(*dotNode).name, e.T.(*dotNode).name, e.W)
	}

	return t, nil
}

type dotNode struct {
	graph.Node
	name string
}

func (n *dotNode) SetDOTID(id string) { n.name = id }

type dotEdge struct {
	F, T graph.Node
	W    float64
}

func (e *dotEdge) From() graph.Node { return e.F }
func (e *dotEdge) To() graph.Node   { return e.T }
func (e *dotEdge) ReversedEdge() graph.Edge {
	return &dotEdge{F: e.T, T: e.F, W: e.W}
}

func (e *dotEdge) SetAttribute(attr encoding.Attribute) error {
	if attr.Key != "weight" {
		return nil
	}
	w, err := strconv.ParseFloat(attr.Value, 64)
	if err != nil {
		return fmt.Errorf("dot: invalid weight %q: %w", attr.Value, err)
	}
	e.W = w
	return nil
}

// dotRecorder keeps nodes and edges in file order
type dotRecorder struct {
	nodes []*dotNode
	edges []*dotEdge
	err   error
}

func (r *dotRecorder) newNode(n graph.Node) graph.Node {
	node := &dotNode{Node: n}
	r.nodes = append(r.nodes, node)
	return node
}

func (r *dotRecorder) newEdge(from, to graph.Node) graph.Edge {
	return &dotEdge{F: from, T: to, W: model.DefaultEdgeWeight}
}

// setEdge reports whether the edge should be stored in the backing graph
func (r *dotRecorder) setEdge(e graph.Edge) bool {
	de, ok := e.(*dotEdge)
	if !ok {
		r.err = fmt.Errorf("dot: unexpected edge type %T", e)
		return false
	}
	r.edges = append(r.edges, de)
	return e.From().ID() != e.To().ID()
}

type dotDirected struct {
	*simple.DirectedGraph
	rec *dotRecorder
}

func (g *dotDirected) NewNode() graph.Node { return g.rec.newNode(g.DirectedGraph.NewNode()) }
func (g *dotDirected) NewEdge(from, to graph.Node) graph.Edge {
	return g.rec.newEdge(from, to)
}
func (g *dotDirected) SetEdge(e graph.Edge) {
	if g.rec.setEdge(e) {
		g.DirectedGraph.SetEdge(e)
	}
}

type dotUndirected struct {
	*simple.UndirectedGraph
	rec *dotRecorder
}

func (g *dotUndirected) NewNode() graph.Node { return g.rec.newNode(g.UndirectedGraph.NewNode()) }
func (g *dotUndirected) NewEdge(from, to graph.Node) graph.Edge {
	return g.rec.newEdge(from, to)
}
func (g *dotUndirected) SetEdge(e graph.Edge) {
	if g.rec.setEdge(e) {
		g.UndirectedGraph.SetEdge(e)
	}
}
