package taxonomy

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/siherrmann/metonym/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fourNodeTaxonomy is root -> a -> b, root -> c with unit weights
func fourNodeTaxonomy() (*model.Taxonomy, *model.EngineConfig) {
	t := &model.Taxonomy{Directed: true}
	t.AddEdge("root//root", "a//a", 1)
	t.AddEdge("a//a", "b//b", 1)
	t.AddEdge("root//root", "c//c", 1)

	return t, &model.EngineConfig{RootKey: "root//root"}
}

func TestNewEngine(t *testing.T) {
	t.Run("Four node taxonomy", func(t *testing.T) {
		taxonomy, config := fourNodeTaxonomy()
		engine, err := NewEngine(taxonomy, config, testLogger())
		require.NoError(t, err, "Expected NewEngine to not return an error")

		b := model.MustParseSenseKey("b//b")
		c := model.MustParseSenseKey("c//c")

		assert.Equal(t, 2.0, engine.Depth(), "Expected depth to be the longest root distance")
		assert.Equal(t, "root//root", engine.Root())
		assert.Equal(t, 4, engine.NodeCount())
		assert.Equal(t, 3, engine.EdgeCount())

		d, ok, err := engine.Distance(b, c)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 3.0, d, "Expected siblings under a common ancestor to be connected")

		lch, err := engine.LCHSimilarity(b, c)
		require.NoError(t, err)
		assert.InDelta(t, 0.0, lch, 1e-12)
		assert.False(t, math.Signbit(lch), "Expected a positive zero score")

		d, ok, err = engine.Distance(b, b)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 0.0, d)

		lch, err = engine.LCHSimilarity(b, b)
		require.NoError(t, err)
		assert.InDelta(t, -math.Log2(1.0/4.0), lch, 1e-12)

		path, err := engine.PathSimilarity(b, c)
		require.NoError(t, err)
		assert.InDelta(t, 1.0/3.0, path, 1e-12)
	})

	t.Run("Default config uses the WordNet root", func(t *testing.T) {
		engine, err := NewEngine(wordNetTaxonomy(), nil, testLogger())
		require.NoError(t, err)

		assert.Equal(t, model.DefaultRootKey, engine.Root())
		assert.Equal(t, 4.0, engine.Depth())
		assert.Equal(t, float64(model.DefaultMaxLength), engine.Config().MaxLength)
	})

	t.Run("Missing root", func(t *testing.T) {
		taxonomy := wordNetTaxonomy()
		_, err := NewEngine(taxonomy, &model.EngineConfig{RootKey: "thing.n.01//thing"}, testLogger())

		assert.ErrorIs(t, err, ErrRootNotFound)
		assert.ErrorIs(t, err, ErrLoad, "Expected a missing root to be a load error")
	})

	t.Run("Nil taxonomy", func(t *testing.T) {
		_, err := NewEngine(nil, nil, testLogger())
		assert.ErrorIs(t, err, ErrLoad)
	})

	t.Run("Negative weight", func(t *testing.T) {
		taxonomy := wordNetTaxonomy()
		taxonomy.AddEdge(entity.String(), orphan.String(), -1)

		_, err := NewEngine(taxonomy, nil, testLogger())
		assert.ErrorIs(t, err, ErrLoad)
	})

	t.Run("Infinite weight", func(t *testing.T) {
		taxonomy := wordNetTaxonomy()
		taxonomy.AddEdge(entity.String(), orphan.String(), math.Inf(1))

		_, err := NewEngine(taxonomy, nil, testLogger())
		assert.ErrorIs(t, err, ErrLoad)
	})

	t.Run("Empty endpoint", func(t *testing.T) {
		taxonomy := wordNetTaxonomy()
		taxonomy.AddEdge("", orphan.String(), 1)

		_, err := NewEngine(taxonomy, nil, testLogger())
		assert.ErrorIs(t, err, ErrLoad)
	})

	t.Run("Self loops are ignored", func(t *testing.T) {
		taxonomy := wordNetTaxonomy()
		taxonomy.AddEdge(car.String(), car.String(), 1)

		engine, err := NewEngine(taxonomy, nil, testLogger())
		require.NoError(t, err)
		assert.Equal(t, 8, engine.EdgeCount())
	})

	t.Run("Parallel edges keep the lightest weight", func(t *testing.T) {
		taxonomy := wordNetTaxonomy()
		taxonomy.AddEdge(bus.String(), vehicle.String(), 0.25)

		engine, err := NewEngine(taxonomy, nil, testLogger())
		require.NoError(t, err)
		assert.Equal(t, 8, engine.EdgeCount(), "Expected the reversed edge to merge with the existing pair")

		d, ok, err := engine.Distance(vehicle, bus)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 0.25, d)
	})

	t.Run("Undirected input counts edges both ways for depth", func(t *testing.T) {
		taxonomy := &model.Taxonomy{Directed: false}
		taxonomy.AddEdge("a//a", "root//root", 1)
		taxonomy.AddEdge("b//b", "a//a", 2)

		engine, err := NewEngine(taxonomy, &model.EngineConfig{RootKey: "root//root"}, testLogger())
		require.NoError(t, err)
		assert.Equal(t, 3.0, engine.Depth())
	})

	t.Run("Directed input pointing at the root has zero depth", func(t *testing.T) {
		taxonomy := &model.Taxonomy{Directed: true}
		taxonomy.AddEdge("a//a", "root//root", 1)

		engine, err := NewEngine(taxonomy, &model.EngineConfig{RootKey: "root//root"}, testLogger())
		require.NoError(t, err)
		assert.Equal(t, 0.0, engine.Depth())
	})
}

func TestLoad(t *testing.T) {
	for _, file := range []string{"taxonomy.gml", "taxonomy.dot", "taxonomy.json"} {
		t.Run("Load "+file, func(t *testing.T) {
			engine, err := Load(filepath.Join("..", "graphfile", "testdata", file), nil, testLogger())
			require.NoError(t, err, "Expected Load to not return an error")

			assert.Equal(t, 10, engine.NodeCount())
			assert.Equal(t, 4.0, engine.Depth())

			d, ok, err := engine.Distance(car, banana)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, 5.0, d)
		})
	}

	t.Run("Missing file is a load error", func(t *testing.T) {
		_, err := Load(filepath.Join("testdata", "missing.gml"), nil, testLogger())
		assert.ErrorIs(t, err, ErrLoad)
	})

	malformed := map[string]string{
		"Unterminated graph":   `graph [ node [ id 0 `,
		"Duplicate node label": `graph [ node [ id 0 label "entity.n.01//entity" ] node [ id 1 label "entity.n.01//entity" ] ]`,
	}
	for name, content := range malformed {
		t.Run(name+" is a load error", func(t *testing.T) {
			file := filepath.Join(t.TempDir(), "bad.gml")
			require.NoError(t, os.WriteFile(file, []byte(content), 0o600))

			engine, err := Load(file, nil, testLogger())
			assert.Nil(t, engine)
			assert.ErrorIs(t, err, ErrLoad)
		})
	}
}

func TestDegenerateTaxonomy(t *testing.T) {
	taxonomy := &model.Taxonomy{}
	taxonomy.AddNode(entity.String())
	taxonomy.AddNode(orphan.String())

	engine, err := NewEngine(taxonomy, nil, testLogger())
	require.NoError(t, err, "Expected a root without descendants to still load")
	assert.Equal(t, 0.0, engine.Depth())

	t.Run("Distance still works", func(t *testing.T) {
		d, ok, err := engine.Distance(entity, entity)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 0.0, d)
	})

	t.Run("LCH similarity is undefined", func(t *testing.T) {
		_, err := engine.LCHSimilarity(entity, entity)
		assert.ErrorIs(t, err, ErrDegenerateTaxonomy)
	})

	t.Run("Path similarity still works", func(t *testing.T) {
		s, err := engine.PathSimilarity(entity, orphan)
		require.NoError(t, err)
		assert.InDelta(t, 0.01, s, 1e-12)
	})
}

func TestDistance(t *testing.T) {
	engine := newWordNetEngine(t, 0)

	t.Run("Identity", func(t *testing.T) {
		for _, k := range allKeys() {
			d, ok, err := engine.Distance(k, k)
			require.NoError(t, err)
			assert.True(t, ok, "Expected %s to reach itself", k)
			assert.Equal(t, 0.0, d, "Expected distance(%s, %s) to be 0", k, k)
		}
	})

	t.Run("Symmetry", func(t *testing.T) {
		for _, a := range allKeys() {
			for _, b := range allKeys() {
				dab, okab, err := engine.Distance(a, b)
				require.NoError(t, err)
				dba, okba, err := engine.Distance(b, a)
				require.NoError(t, err)

				assert.Equal(t, okab, okba, "Expected connectivity of %s and %s to be symmetric", a, b)
				assert.Equal(t, dab, dba, "Expected distance of %s and %s to be symmetric", a, b)
			}
		}
	})

	t.Run("Cross branch distances", func(t *testing.T) {
		cases := []struct {
			a, b model.SenseKey
			want float64
		}{
			{car, bus, 2},
			{car, auto, 0},
			{auto, bus, 2},
			{car, banana, 5},
			{entity, bus, 4},
		}
		for _, c := range cases {
			d, ok, err := engine.Distance(c.a, c.b)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, c.want, d, "distance(%s, %s)", c.a, c.b)
		}
	})

	t.Run("No path is not an error", func(t *testing.T) {
		d, ok, err := engine.Distance(car, orphan)
		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 0.0, d)
	})

	t.Run("Unknown sense", func(t *testing.T) {
		_, _, err := engine.Distance(car, unknown)
		assert.ErrorIs(t, err, ErrNodeNotFound)

		_, _, err = engine.Distance(unknown, car)
		assert.ErrorIs(t, err, ErrNodeNotFound)

		d, ok, err := engine.Distance(car, bus)
		assert.NoError(t, err, "Expected the engine to stay usable after a failed query")
		assert.True(t, ok)
		assert.Equal(t, 2.0, d)
	})
}

func TestShortestPath(t *testing.T) {
	engine := newWordNetEngine(t, 0)

	t.Run("Path between branches", func(t *testing.T) {
		path, weight, ok, err := engine.ShortestPath(bus, banana)

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 5.0, weight)
		assert.Equal(t, []string{
			bus.String(), vehicle.String(), object.String(), physical.String(), food.String(), banana.String(),
		}, path)
	})

	t.Run("Path to itself", func(t *testing.T) {
		path, weight, ok, err := engine.ShortestPath(car, car)

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 0.0, weight)
		assert.Equal(t, []string{car.String()}, path)
	})

	t.Run("No path", func(t *testing.T) {
		path, _, ok, err := engine.ShortestPath(car, orphan)

		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, path)
	})

	t.Run("Unknown sense", func(t *testing.T) {
		_, _, _, err := engine.ShortestPath(car, unknown)
		assert.ErrorIs(t, err, ErrNodeNotFound)
	})
}

func TestEngineLookups(t *testing.T) {
	taxonomy := wordNetTaxonomy()
	taxonomy.AddNode("not a key")

	engine, err := NewEngine(taxonomy, nil, testLogger())
	require.NoError(t, err)

	assert.True(t, engine.Contains(car))
	assert.False(t, engine.Contains(unknown))
	assert.Equal(t, allKeys(), engine.Keys(), "Expected keys in load order without malformed names")
}
