package taxonomy

import (
	"math"
	"testing"

	"github.com/siherrmann/metonym/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasureByName(t *testing.T) {
	t.Run("Known measures", func(t *testing.T) {
		m, err := MeasureByName("lch")
		require.NoError(t, err)
		assert.Equal(t, LCH, m)

		m, err = MeasureByName("PATH")
		require.NoError(t, err, "Expected measure names to be case insensitive")
		assert.Equal(t, Path, m)
	})

	t.Run("Unknown measure", func(t *testing.T) {
		m, err := MeasureByName("cosine")
		assert.Error(t, err)
		assert.Nil(t, m)
	})
}

func TestLCHSimilarity(t *testing.T) {
	engine := newWordNetEngine(t, 0)

	t.Run("Identical senses score highest", func(t *testing.T) {
		s, err := engine.LCHSimilarity(car, car)
		require.NoError(t, err)
		assert.InDelta(t, math.Log2(8), s, 1e-12)

		s, err = engine.LCHSimilarity(car, auto)
		require.NoError(t, err)
		assert.InDelta(t, math.Log2(8), s, 1e-12, "Expected a zero weight edge to score like identity")
	})

	t.Run("Siblings", func(t *testing.T) {
		s, err := engine.LCHSimilarity(car, bus)
		require.NoError(t, err)
		assert.InDelta(t, -math.Log2(3.0/8.0), s, 1e-12)
	})

	t.Run("Closer senses score higher", func(t *testing.T) {
		near, err := engine.LCHSimilarity(car, bus)
		require.NoError(t, err)
		far, err := engine.LCHSimilarity(car, banana)
		require.NoError(t, err)

		assert.Greater(t, near, far)
	})

	t.Run("Unconnected senses are scored at depth", func(t *testing.T) {
		s, err := engine.LCHSimilarity(car, orphan)
		require.NoError(t, err)
		assert.InDelta(t, -math.Log2(5.0/8.0), s, 1e-12)
	})

	t.Run("Symmetry", func(t *testing.T) {
		for _, a := range allKeys() {
			for _, b := range allKeys() {
				ab, err := engine.LCHSimilarity(a, b)
				require.NoError(t, err)
				ba, err := engine.LCHSimilarity(b, a)
				require.NoError(t, err)
				assert.Equal(t, ab, ba, "lch(%s, %s)", a, b)
			}
		}
	})

	t.Run("Unknown sense", func(t *testing.T) {
		_, err := engine.LCHSimilarity(car, unknown)
		assert.ErrorIs(t, err, ErrNodeNotFound)
	})
}

func TestPathSimilarity(t *testing.T) {
	engine := newWordNetEngine(t, 0)

	cases := []struct {
		name string
		a, b model.SenseKey
		want float64
	}{
		{"Identity", bus, bus, 1},
		{"Zero weight edge", car, auto, 1},
		{"Direct hypernym", car, vehicle, 1},
		{"Siblings", car, bus, 0.5},
		{"Across branches", car, banana, 0.2},
		{"Unconnected", car, orphan, 0.01},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, err := engine.PathSimilarity(c.a, c.b)
			require.NoError(t, err)
			assert.InDelta(t, c.want, s, 1e-12)
		})
	}

	t.Run("Bounded by zero and one", func(t *testing.T) {
		for _, a := range allKeys() {
			for _, b := range allKeys() {
				s, err := engine.PathSimilarity(a, b)
				require.NoError(t, err)
				assert.Greater(t, s, 0.0)
				assert.LessOrEqual(t, s, 1.0)
			}
		}
	})

	t.Run("Fractional distances clamp to one", func(t *testing.T) {
		taxonomy := wordNetTaxonomy()
		taxonomy.AddEdge(entity.String(), orphan.String(), 0.5)

		engine, err := NewEngine(taxonomy, nil, testLogger())
		require.NoError(t, err)

		s, err := engine.PathSimilarity(entity, orphan)
		require.NoError(t, err)
		assert.Equal(t, 1.0, s)
	})

	t.Run("Configured max length", func(t *testing.T) {
		config := &model.EngineConfig{MaxLength: 40}
		engine, err := NewEngine(wordNetTaxonomy(), config, testLogger())
		require.NoError(t, err)

		s, err := engine.PathSimilarity(car, orphan)
		require.NoError(t, err)
		assert.InDelta(t, 0.025, s, 1e-12)
	})
}

func TestCompare(t *testing.T) {
	engine := newWordNetEngine(t, 0)
	first := model.NewSense(car, "a motor vehicle with four wheels")
	second := model.NewSense(bus, "a vehicle carrying many passengers")

	t.Run("Comparison keeps distance and score", func(t *testing.T) {
		comparison, err := engine.Compare(Path, first, second)
		require.NoError(t, err)

		assert.Equal(t, first, comparison.First)
		assert.Equal(t, second, comparison.Second)
		assert.Equal(t, model.MeasurePath, comparison.Measure)
		assert.Equal(t, 0.5, comparison.Score)
		assert.Equal(t, 2.0, comparison.Distance)
		assert.True(t, comparison.Connected)
	})

	t.Run("Degenerate taxonomy", func(t *testing.T) {
		taxonomy := &model.Taxonomy{}
		taxonomy.AddNode(entity.String())
		taxonomy.AddNode(car.String())
		degenerate, err := NewEngine(taxonomy, nil, testLogger())
		require.NoError(t, err)

		_, err = degenerate.Compare(LCH, first, first)
		assert.ErrorIs(t, err, ErrDegenerateTaxonomy)
	})
}
