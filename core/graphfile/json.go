package graphfile

import (
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/siherrmann/metonym/model"
)

// nodeLink mirrors the networkx node-link layout. Edges are read from
// "links" or, for newer writers, from "edges".
type nodeLink struct {
	Directed bool           `json:"directed"`
	Nodes    []nodeLinkNode `json:"nodes"`
	Links    []nodeLinkEdge `json:"links"`
	Edges    []nodeLinkEdge `json:"edges,omitempty"`
}

type nodeLinkNode struct {
	ID interface{} `json:"id"`
}

type nodeLinkEdge struct {
	Source interface{} `json:"source"`
	Target interface{} `json:"target"`
	Weight *float64    `json:"weight,omitempty"`
}

// ReadJSON parses a node-link JSON document
func ReadJSON(r io.Reader) (*model.Taxonomy, error) {
	var doc nodeLink
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}

	t := &model.Taxonomy{Directed: doc.Directed}
	for i, n := range doc.Nodes {
		name, err := nodeLinkID(n.ID)
		if err != nil {
			return nil, fmt.Errorf("json: node %d: %w", i, err)
		}
		t.AddNode(name)
	}

	for i, e := range append(doc.Links, doc.Edges...) {
		source, err := nodeLinkID(e.Source)
		if err != nil {
			return nil, fmt.Errorf("json: edge %d source: %w", i, err)
		}
		target, err := nodeLinkID(e.Target)
		if err != nil {
			return nil, fmt.Errorf("json: edge %d target: %w", i, err)
		}

		weight := model.DefaultEdgeWeight
		if e.Weight != nil {
			weight = *e.Weight
		}
		t.AddEdge(source, target, weight)
	}

	return t, nil
}

// WriteJSON writes t in node-link layout
func WriteJSON(w io.Writer, t *model.Taxonomy) error {
	doc := nodeLink{
		Directed: t.Directed,
		Nodes:    make([]nodeLinkNode, len(t.Nodes)),
		Links:    make([]nodeLinkEdge, len(t.Edges)),
	}
	for i, n := range t.Nodes {
		doc.Nodes[i] = nodeLinkNode{ID: n}
	}
	for i, e := range t.Edges {
		weight := e.Weight
		doc.Links[i] = nodeLinkEdge{Source: e.Source, Target: e.Target, Weight: &weight}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func nodeLinkID(v interface{}) (string, error) {
	switch id := v.(type) {
	case string:
		if id == "" {
			return "", fmt.Errorf("empty id")
		}
		return id, nil
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), nil
	case nil:
		return "", fmt.Errorf("missing id")
	default:
		return "", fmt.Errorf("unsupported id type %T", v)
	}
}
