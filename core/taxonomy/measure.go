package taxonomy

import (
	"fmt"
	"math"
	"strings"

	"github.com/siherrmann/metonym/model"
)

// Measure turns a shortest-path distance into a similarity score
type Measure interface {
	Name() string
	Score(e *Engine, distance float64, connected bool) (float64, error)
}

var (
	LCH  Measure = lchMeasure{}
	Path Measure = pathMeasure{}
)

// MeasureByName returns the measure registered under name ("lch" or "path")
func MeasureByName(name string) (Measure, error) {
	switch strings.ToLower(name) {
	case model.MeasureLCH:
		return LCH, nil
	case model.MeasurePath:
		return Path, nil
	default:
		return nil, fmt.Errorf("unknown measure %q (must be %s or %s)", name, model.MeasureLCH, model.MeasurePath)
	}
}

type lchMeasure struct{}

func (lchMeasure) Name() string { return model.MeasureLCH }

func (lchMeasure) Score(e *Engine, distance float64, connected bool) (float64, error) {
	if e.depth <= 0 {
		return 0, ErrDegenerateTaxonomy
	}
	if !connected {
		distance = e.depth
	}
	// +1 keeps identical senses away from log2(0)
	score := -math.Log2((distance + 1) / (2 * e.depth))
	if score == 0 {
		// -log2(1) is negative zero
		return 0, nil
	}
	return score, nil
}

type pathMeasure struct{}

func (pathMeasure) Name() string { return model.MeasurePath }

func (pathMeasure) Score(e *Engine, distance float64, connected bool) (float64, error) {
	if !connected {
		distance = e.config.MaxLength
	}
	if distance <= 1 {
		return 1.0, nil
	}
	return 1.0 / distance, nil
}
