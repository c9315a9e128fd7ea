package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// DefaultEdgeWeight is used when a graph source carries no weight
const DefaultEdgeWeight = 1.0

var ErrEdgeNotFound = errors.New("edge not found")

// TaxonomyEdge is a hypernymy edge from the more general sense to the more specific one
type TaxonomyEdge struct {
	ID        uuid.UUID `json:"id,omitempty"`
	Source    string    `json:"source"`
	Target    string    `json:"target"`
	Weight    float64   `json:"weight"`
	Metadata  Metadata  `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Taxonomy is a parsed node and edge set, ready to be loaded by the engine
type Taxonomy struct {
	Directed bool           `json:"directed"`
	Nodes    []string       `json:"nodes"`
	Edges    []TaxonomyEdge `json:"edges"`
}

// AddNode appends a node name
func (t *Taxonomy) AddNode(name string) {
	t.Nodes = append(t.Nodes, name)
}

// AddEdge appends an edge
func (t *Taxonomy) AddEdge(source, target string, weight float64) {
	t.Edges = append(t.Edges, TaxonomyEdge{
		Source: source,
		Target: target,
		Weight: weight,
	})
}
