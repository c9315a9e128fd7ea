package database

import (
	"context"
	"log/slog"

	"github.com/siherrmann/metonym/helper"
	"github.com/siherrmann/metonym/model"
)

// LoadTaxonomy reads all stored senses and edges into a directed taxonomy for the engine.
// Senses without edges become isolated vertices.
func LoadTaxonomy(ctx context.Context, senses *SensesDBHandler, edges *EdgesDBHandler) (*model.Taxonomy, error) {
	storedSenses, err := senses.selectSenses(ctx, `SELECT * FROM select_all_senses()`)
	if err != nil {
		return nil, helper.NewError("select senses", err)
	}

	storedEdges, err := edges.selectEdges(ctx, `SELECT * FROM select_all_edges()`)
	if err != nil {
		return nil, helper.NewError("select edges", err)
	}

	t := &model.Taxonomy{Directed: true}
	for _, s := range storedSenses {
		t.AddNode(s.Key.String())
	}
	for _, e := range storedEdges {
		t.Edges = append(t.Edges, *e)
	}

	senses.db.Logger.Debug("Loaded taxonomy from database", slog.Int("senses", len(t.Nodes)), slog.Int("edges", len(t.Edges)))

	return t, nil
}

// StoreTaxonomy writes every vertex of t as a sense and every edge as a hypernymy edge.
// Definitions are looked up in definitions when it is not nil. Edges of undirected
// taxonomies are stored in both directions and self loops are skipped.
func StoreTaxonomy(ctx context.Context, senses *SensesDBHandler, edges *EdgesDBHandler, t *model.Taxonomy, definitions map[model.SenseKey]string) error {
	for _, name := range vertexNames(t) {
		if err := ctx.Err(); err != nil {
			return err
		}

		key, err := model.ParseSenseKey(name)
		if err != nil {
			return helper.NewError("parse sense key", err)
		}

		err = senses.InsertSense(model.NewSense(key, definitions[key]))
		if err != nil {
			return helper.NewError("insert sense", err)
		}
	}

	for _, e := range t.Edges {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.Source == e.Target {
			senses.db.Logger.Debug("Skipping self loop", slog.String("sense", e.Source))
			continue
		}

		pairs := [][2]string{{e.Source, e.Target}}
		if !t.Directed {
			pairs = append(pairs, [2]string{e.Target, e.Source})
		}

		for _, p := range pairs {
			edge := &model.TaxonomyEdge{Source: p[0], Target: p[1], Weight: e.Weight, Metadata: e.Metadata}
			if err := edges.InsertEdge(edge); err != nil {
				return helper.NewError("insert edge", err)
			}
		}
	}

	senses.db.Logger.Info("Stored taxonomy", slog.Int("senses", len(t.Nodes)), slog.Int("edges", len(t.Edges)))

	return nil
}

// vertexNames returns the nodes of t followed by edge endpoints missing from them
func vertexNames(t *model.Taxonomy) []string {
	seen := make(map[string]bool, len(t.Nodes))
	var names []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	for _, name := range t.Nodes {
		add(name)
	}
	for _, e := range t.Edges {
		add(e.Source)
		add(e.Target)
	}
	return names
}
