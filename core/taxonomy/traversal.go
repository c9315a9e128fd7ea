package taxonomy

import (
	"context"

	"github.com/siherrmann/metonym/helper"
	"github.com/siherrmann/metonym/model"
)

// TraversalResult is a sense reached from a source and the hops it took
type TraversalResult struct {
	Name     string         `json:"name"`
	Key      model.SenseKey `json:"key"`
	Distance int            `json:"distance"` // Hops from the source
	Weight   float64        `json:"weight"`   // Summed edge weights along Path
	Path     []string       `json:"path"`     // Vertex names from the source to this sense
}

// BFS performs breadth-first search from a sense.
// Without followBidirectional only hyponym edges (general to specific) are followed.
func (e *Engine) BFS(ctx context.Context, source model.SenseKey, maxHops int, followBidirectional bool) ([]*TraversalResult, error) {
	sourceID, err := e.graph.lookup(source)
	if err != nil {
		return nil, helper.NewError("resolve source", err)
	}

	visited := map[int64]bool{sourceID: true}
	queue := []*TraversalResult{e.result(sourceID, 0, 0, []string{e.graph.names[sourceID]})}

	var results []*TraversalResult
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		current := queue[0]
		queue = queue[1:]
		results = append(results, current)

		if current.Distance >= maxHops {
			continue
		}

		currentID := e.graph.ids[current.Name]
		for _, name := range e.next(currentID, followBidirectional) {
			targetID := e.graph.ids[name]
			if visited[targetID] {
				continue
			}
			visited[targetID] = true

			newPath := make([]string, len(current.Path), len(current.Path)+1)
			copy(newPath, current.Path)

			queue = append(queue, e.result(
				targetID,
				current.Distance+1,
				current.Weight+e.weight(currentID, targetID, followBidirectional),
				append(newPath, name),
			))
		}
	}

	return results, nil
}

// DFS performs depth-first search from a sense
func (e *Engine) DFS(ctx context.Context, source model.SenseKey, maxHops int, followBidirectional bool) ([]*TraversalResult, error) {
	sourceID, err := e.graph.lookup(source)
	if err != nil {
		return nil, helper.NewError("resolve source", err)
	}

	visited := make(map[int64]bool)
	var results []*TraversalResult

	err = e.dfsRecursive(ctx, e.result(sourceID, 0, 0, []string{e.graph.names[sourceID]}), maxHops, followBidirectional, visited, &results)
	if err != nil {
		return nil, err
	}

	return results, nil
}

func (e *Engine) dfsRecursive(
	ctx context.Context,
	current *TraversalResult,
	maxHops int,
	followBidirectional bool,
	visited map[int64]bool,
	results *[]*TraversalResult,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	currentID := e.graph.ids[current.Name]
	visited[currentID] = true
	*results = append(*results, current)

	if current.Distance >= maxHops {
		return nil
	}

	for _, name := range e.next(currentID, followBidirectional) {
		targetID := e.graph.ids[name]
		if visited[targetID] {
			continue
		}

		newPath := make([]string, len(current.Path), len(current.Path)+1)
		copy(newPath, current.Path)

		next := e.result(targetID, current.Distance+1, current.Weight+e.weight(currentID, targetID, followBidirectional), append(newPath, name))
		if err := e.dfsRecursive(ctx, next, maxHops, followBidirectional, visited, results); err != nil {
			return err
		}
	}

	return nil
}

// Neighbors returns the names of all senses one edge away, in either direction
func (e *Engine) Neighbors(ctx context.Context, key model.SenseKey) ([]string, error) {
	results, err := e.BFS(ctx, key, 1, true)
	if err != nil {
		return nil, err
	}

	// Skip the source itself
	neighbors := make([]string, 0, len(results)-1)
	for i := 1; i < len(results); i++ {
		neighbors = append(neighbors, results[i].Name)
	}

	return neighbors, nil
}

// Hypernyms returns the direct, more general senses of key
func (e *Engine) Hypernyms(key model.SenseKey) ([]string, error) {
	id, err := e.graph.lookup(key)
	if err != nil {
		return nil, helper.NewError("resolve sense", err)
	}
	return e.graph.sortedNames(e.graph.directed.To(id)), nil
}

// Hyponyms returns the direct, more specific senses of key
func (e *Engine) Hyponyms(key model.SenseKey) ([]string, error) {
	id, err := e.graph.lookup(key)
	if err != nil {
		return nil, helper.NewError("resolve sense", err)
	}
	return e.graph.sortedNames(e.graph.directed.From(id)), nil
}

func (e *Engine) next(id int64, followBidirectional bool) []string {
	if followBidirectional {
		return e.graph.sortedNames(e.graph.undirected.From(id))
	}
	return e.graph.sortedNames(e.graph.directed.From(id))
}

func (e *Engine) weight(u, v int64, followBidirectional bool) float64 {
	w, ok := e.graph.directed.Weight(u, v)
	if followBidirectional {
		w, ok = e.graph.undirected.Weight(u, v)
	}
	if !ok {
		return 0
	}
	return w
}

func (e *Engine) result(id int64, distance int, weight float64, path []string) *TraversalResult {
	name := e.graph.names[id]
	key, _ := model.ParseSenseKey(name)
	return &TraversalResult{
		Name:     name,
		Key:      key,
		Distance: distance,
		Weight:   weight,
		Path:     path,
	}
}
