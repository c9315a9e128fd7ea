package taxonomy

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/siherrmann/metonym/model"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// taxonomyGraph holds two views of the same vertices: the hypernymy edges as loaded
// and a symmetrized copy used for distances between branches.
type taxonomyGraph struct {
	ids        map[string]int64
	names      []string
	directed   *simple.WeightedDirectedGraph
	undirected *simple.WeightedUndirectedGraph
	edges      int
}

type weightedSetter interface {
	WeightedEdge(uid, vid int64) graph.WeightedEdge
	SetWeightedEdge(e graph.WeightedEdge)
}

func newTaxonomyGraph() *taxonomyGraph {
	return &taxonomyGraph{
		ids:        make(map[string]int64),
		directed:   simple.NewWeightedDirectedGraph(0, math.Inf(1)),
		undirected: simple.NewWeightedUndirectedGraph(0, math.Inf(1)),
	}
}

// buildGraph validates the parsed taxonomy and builds both graph views
func buildGraph(t *model.Taxonomy, logger *slog.Logger) (*taxonomyGraph, error) {
	g := newTaxonomyGraph()

	for _, name := range t.Nodes {
		if name == "" {
			return nil, fmt.Errorf("%w: empty node name", ErrLoad)
		}
		g.node(name)
	}

	for i, e := range t.Edges {
		if e.Source == "" || e.Target == "" {
			return nil, fmt.Errorf("%w: edge %d has an empty endpoint", ErrLoad, i)
		}
		if math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) || e.Weight < 0 {
			return nil, fmt.Errorf("%w: edge %s -> %s has invalid weight %v", ErrLoad, e.Source, e.Target, e.Weight)
		}

		u, v := g.node(e.Source), g.node(e.Target)
		if u == v {
			logger.Debug("Ignoring self loop", slog.String("node", e.Source))
			continue
		}

		setMinWeight(g.directed, u, v, e.Weight)
		if !t.Directed {
			setMinWeight(g.directed, v, u, e.Weight)
		}

		if g.undirected.WeightedEdge(u, v) == nil {
			g.edges++
		}
		setMinWeight(g.undirected, u, v, e.Weight)
	}

	return g, nil
}

// node returns the id of name, adding the vertex to both views if needed
func (g *taxonomyGraph) node(name string) int64 {
	if id, ok := g.ids[name]; ok {
		return id
	}

	id := int64(len(g.names))
	g.ids[name] = id
	g.names = append(g.names, name)
	g.directed.AddNode(simple.Node(id))
	g.undirected.AddNode(simple.Node(id))

	return id
}

func (g *taxonomyGraph) lookup(key model.SenseKey) (int64, error) {
	id, ok := g.ids[key.String()]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNodeNotFound, key)
	}
	return id, nil
}

// sortedNames converts a node iterator into vertex names sorted alphabetically
func (g *taxonomyGraph) sortedNames(nodes graph.Nodes) []string {
	var names []string
	for nodes.Next() {
		names = append(names, g.names[nodes.Node().ID()])
	}
	sort.Strings(names)
	return names
}

// setMinWeight keeps the lightest of parallel edges
func setMinWeight(g weightedSetter, u, v int64, w float64) {
	if e := g.WeightedEdge(u, v); e != nil && e.Weight() <= w {
		return
	}
	g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(u), T: simple.Node(v), W: w})
}
