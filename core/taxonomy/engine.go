package taxonomy

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/siherrmann/metonym/core/graphfile"
	"github.com/siherrmann/metonym/helper"
	"github.com/siherrmann/metonym/model"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

var (
	ErrLoad               = errors.New("taxonomy load failed")
	ErrRootNotFound       = errors.New("root not found")
	ErrNodeNotFound       = errors.New("sense not in taxonomy")
	ErrDegenerateTaxonomy = errors.New("taxonomy depth is zero")
)

// Engine answers distance and similarity queries over an immutable taxonomy.
// All query methods are safe for concurrent use.
type Engine struct {
	config model.EngineConfig
	graph  *taxonomyGraph
	root   int64
	depth  float64
	cache  *distanceCache
	log    *slog.Logger
}

// Load reads a graph file (GML, DOT or node-link JSON) and creates an engine from it
func Load(filePath string, config *model.EngineConfig, logger *slog.Logger) (*Engine, error) {
	t, err := graphfile.Read(filePath)
	if err != nil {
		return nil, helper.NewError("read graph file", fmt.Errorf("%w: %w", ErrLoad, err))
	}

	return NewEngine(t, config, logger)
}

// NewEngine builds the graph, finds the root and computes the taxonomy depth.
// A nil config uses model.DefaultEngineConfig.
func NewEngine(t *model.Taxonomy, config *model.EngineConfig, logger *slog.Logger) (*Engine, error) {
	if t == nil {
		return nil, helper.NewError("validate taxonomy", fmt.Errorf("%w: taxonomy is nil", ErrLoad))
	}
	if logger == nil {
		logger = slog.Default()
	}

	cfg := model.DefaultEngineConfig()
	if config != nil {
		cfg = config.WithDefaults()
	}

	g, err := buildGraph(t, logger)
	if err != nil {
		return nil, helper.NewError("build graph", err)
	}

	root, ok := g.ids[cfg.RootKey]
	if !ok {
		return nil, helper.NewError("find root", fmt.Errorf("%w: %w: %s", ErrLoad, ErrRootNotFound, cfg.RootKey))
	}

	e := &Engine{
		config: cfg,
		graph:  g,
		root:   root,
		depth:  maxDistanceFrom(g, root),
		log:    logger,
	}

	if cfg.CacheSize > 0 {
		e.cache, err = newDistanceCache(cfg.CacheSize)
		if err != nil {
			return nil, helper.NewError("create distance cache", err)
		}
	}

	logger.Info(
		"Loaded taxonomy",
		slog.Int("nodes", len(g.names)),
		slog.Int("edges", g.edges),
		slog.String("root", cfg.RootKey),
		slog.Float64("depth", e.depth),
	)

	if e.depth == 0 {
		logger.Warn("Taxonomy root reaches no other node, lch similarity is undefined", slog.String("root", cfg.RootKey))
	}

	return e, nil
}

// maxDistanceFrom returns the largest finite shortest-path weight from root along edge direction
func maxDistanceFrom(g *taxonomyGraph, root int64) float64 {
	shortest := path.DijkstraFrom(simple.Node(root), g.directed)

	depth := 0.0
	for id := range g.names {
		w := shortest.WeightTo(int64(id))
		if !math.IsInf(w, 1) && w > depth {
			depth = w
		}
	}
	return depth
}

// Depth returns the cached taxonomy depth
func (e *Engine) Depth() float64 {
	return e.depth
}

// Root returns the name of the root sense
func (e *Engine) Root() string {
	return e.graph.names[e.root]
}

// Config returns the effective configuration
func (e *Engine) Config() model.EngineConfig {
	return e.config
}

// NodeCount returns the number of vertices
func (e *Engine) NodeCount() int {
	return len(e.graph.names)
}

// EdgeCount returns the number of distinct connected vertex pairs
func (e *Engine) EdgeCount() int {
	return e.graph.edges
}

// Contains reports whether the sense is a vertex of the taxonomy
func (e *Engine) Contains(key model.SenseKey) bool {
	_, ok := e.graph.ids[key.String()]
	return ok
}

// Keys returns all vertex names that are valid sense keys, in load order
func (e *Engine) Keys() []model.SenseKey {
	keys := make([]model.SenseKey, 0, len(e.graph.names))
	for _, name := range e.graph.names {
		if k, err := model.ParseSenseKey(name); err == nil {
			keys = append(keys, k)
		}
	}
	return keys
}

// Distance returns the weighted shortest-path distance between two senses,
// treating hypernymy edges as traversable in both directions.
// connected is false if no path exists; that is not an error.
func (e *Engine) Distance(a, b model.SenseKey) (distance float64, connected bool, err error) {
	u, err := e.graph.lookup(a)
	if err != nil {
		return 0, false, helper.NewError("resolve first sense", err)
	}
	v, err := e.graph.lookup(b)
	if err != nil {
		return 0, false, helper.NewError("resolve second sense", err)
	}

	if e.cache != nil {
		r, hit := e.cache.get(u, v, func() distanceResult { return e.search(u, v) })
		if hit {
			e.log.Debug("Distance cache hit", slog.String("a", a.String()), slog.String("b", b.String()))
		}
		return r.distance, r.connected, nil
	}

	r := e.search(u, v)
	return r.distance, r.connected, nil
}

func (e *Engine) search(u, v int64) distanceResult {
	if u == v {
		return distanceResult{distance: 0, connected: true}
	}

	shortest, _ := path.AStar(simple.Node(u), simple.Node(v), e.graph.undirected, nil)
	w := shortest.WeightTo(v)
	if math.IsInf(w, 1) {
		return distanceResult{}
	}
	return distanceResult{distance: w, connected: true}
}

// ShortestPath returns the vertex names along a shortest path from a to b and its weight
func (e *Engine) ShortestPath(a, b model.SenseKey) ([]string, float64, bool, error) {
	u, err := e.graph.lookup(a)
	if err != nil {
		return nil, 0, false, helper.NewError("resolve first sense", err)
	}
	v, err := e.graph.lookup(b)
	if err != nil {
		return nil, 0, false, helper.NewError("resolve second sense", err)
	}

	shortest, _ := path.AStar(simple.Node(u), simple.Node(v), e.graph.undirected, nil)
	nodes, weight := shortest.To(v)
	if len(nodes) == 0 || math.IsInf(weight, 1) {
		return nil, 0, false, nil
	}

	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = e.graph.names[n.ID()]
	}
	return names, weight, true, nil
}

// LCHSimilarity is a Leacock-Chodorow style score: -log2((d+1) / (2*depth)).
// Unconnected senses are scored as if they were depth apart.
// It fails with ErrDegenerateTaxonomy if the taxonomy depth is zero.
func (e *Engine) LCHSimilarity(a, b model.SenseKey) (float64, error) {
	return e.Similarity(LCH, a, b)
}

// PathSimilarity is 1/d, 1 for identical senses and 1/MaxLength for unconnected ones
func (e *Engine) PathSimilarity(a, b model.SenseKey) (float64, error) {
	return e.Similarity(Path, a, b)
}

// Similarity scores two senses with the given measure
func (e *Engine) Similarity(m Measure, a, b model.SenseKey) (float64, error) {
	d, connected, err := e.Distance(a, b)
	if err != nil {
		return 0, err
	}
	return m.Score(e, d, connected)
}

// Compare scores two senses and keeps the distance next to the score
func (e *Engine) Compare(m Measure, a, b *model.Sense) (*model.SenseComparison, error) {
	d, connected, err := e.Distance(a.Key, b.Key)
	if err != nil {
		return nil, err
	}

	score, err := m.Score(e, d, connected)
	if err != nil {
		return nil, helper.NewError(fmt.Sprintf("score %s", m.Name()), err)
	}

	return &model.SenseComparison{
		First:     a,
		Second:    b,
		Measure:   m.Name(),
		Score:     score,
		Distance:  d,
		Connected: connected,
	}, nil
}

// CacheStats returns distance cache hits, misses and size. All are zero without a cache.
func (e *Engine) CacheStats() CacheStats {
	if e.cache == nil {
		return CacheStats{}
	}
	return e.cache.stats()
}
