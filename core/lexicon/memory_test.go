package lexicon

import (
	"context"
	"testing"

	"github.com/siherrmann/metonym/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSenses() []*model.Sense {
	return []*model.Sense{
		model.NewSense(model.MustParseSenseKey("car.n.01//car"), "a motor vehicle with four wheels"),
		model.NewSense(model.MustParseSenseKey("car.n.01//auto"), "a motor vehicle with four wheels"),
		model.NewSense(model.MustParseSenseKey("car.n.02//car"), "a wheeled vehicle adapted to the rails of railroad"),
		model.NewSense(model.MustParseSenseKey("bus.n.01//bus"), "a vehicle carrying many passengers"),
		model.NewSense(model.MustParseSenseKey("banana.n.02//banana"), "elongated crescent-shaped yellow fruit"),
		model.NewSense(model.MustParseSenseKey("ice_cream.n.01//ice_cream"), "frozen dessert"),
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "ice_cream", Normalize("  Ice   Cream "))
	assert.Equal(t, "car", Normalize("CAR"))
	assert.Equal(t, "", Normalize("   "))
}

func TestStem(t *testing.T) {
	assert.Equal(t, "car", Stem("Cars"))
	assert.Equal(t, Stem("car"), Stem("cars"), "Expected plural and singular to share a stem")
}

func TestNewMemory(t *testing.T) {
	t.Run("Index senses", func(t *testing.T) {
		m, err := NewMemory(testSenses())
		require.NoError(t, err, "Expected NewMemory to not return an error")

		assert.Equal(t, 6, m.Len())
		assert.Equal(t, []string{"auto", "banana", "bus", "car", "ice_cream"}, m.Words())

		s, ok := m.Sense(model.MustParseSenseKey("bus.n.01//bus"))
		assert.True(t, ok)
		assert.Equal(t, "a vehicle carrying many passengers", s.Definition)
	})

	t.Run("Group senses into synsets", func(t *testing.T) {
		m, err := NewMemory(testSenses())
		require.NoError(t, err)

		synset, ok := m.Synset("car.n.01")
		require.True(t, ok, "Expected synset car.n.01 to exist")
		assert.Len(t, synset.Senses, 2)
		assert.Equal(t, "car", synset.Senses[0].Key.Lemma)
		assert.Equal(t, "auto", synset.Senses[1].Key.Lemma)

		_, ok = m.Synset("train.n.01")
		assert.False(t, ok)
	})

	t.Run("Duplicate key", func(t *testing.T) {
		senses := append(testSenses(), model.NewSense(model.MustParseSenseKey("car.n.01//car"), "again"))

		_, err := NewMemory(senses)
		assert.ErrorIs(t, err, model.ErrAmbiguousSense)
	})

	t.Run("Invalid key", func(t *testing.T) {
		_, err := NewMemory([]*model.Sense{{Key: model.SenseKey{Synset: "car.n.01"}}})
		assert.ErrorIs(t, err, model.ErrMalformedKey)
	})

	t.Run("From keys", func(t *testing.T) {
		m, err := NewMemoryFromKeys([]model.SenseKey{
			model.MustParseSenseKey("car.n.01//car"),
			model.MustParseSenseKey("car.n.02//car"),
		})
		require.NoError(t, err)

		senses, err := m.Senses(context.Background(), "car")
		require.NoError(t, err)
		assert.Len(t, senses, 2)

		definition, err := m.Definition(context.Background(), model.MustParseSenseKey("car.n.02//car"))
		require.NoError(t, err)
		assert.Empty(t, definition)
	})
}

func TestMemorySenses(t *testing.T) {
	m, err := NewMemory(testSenses())
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("Exact word keeps insertion order", func(t *testing.T) {
		senses, err := m.Senses(ctx, "Car")
		require.NoError(t, err)

		require.Len(t, senses, 2)
		assert.Equal(t, "car.n.01//car", senses[0].Key.String())
		assert.Equal(t, "car.n.02//car", senses[1].Key.String())
	})

	t.Run("Multi word lemma", func(t *testing.T) {
		senses, err := m.Senses(ctx, "ice cream")
		require.NoError(t, err)

		require.Len(t, senses, 1)
		assert.Equal(t, "ice cream", senses[0].Word)
	})

	t.Run("Inflected form", func(t *testing.T) {
		senses, err := m.Senses(ctx, "cars")
		require.NoError(t, err, "Expected the stem index to resolve plurals")
		assert.Len(t, senses, 2)
	})

	t.Run("Result is a copy", func(t *testing.T) {
		senses, err := m.Senses(ctx, "car")
		require.NoError(t, err)
		senses[0] = nil

		senses, err = m.Senses(ctx, "car")
		require.NoError(t, err)
		assert.NotNil(t, senses[0])
	})

	t.Run("Unknown word with suggestion", func(t *testing.T) {
		_, err := m.Senses(ctx, "bannana")
		assert.ErrorIs(t, err, ErrWordNotFound)
		assert.Contains(t, err.Error(), "banana")
	})

	t.Run("Empty word", func(t *testing.T) {
		_, err := m.Senses(ctx, " ")
		assert.ErrorIs(t, err, ErrWordNotFound)
	})

	t.Run("Cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := m.Senses(cancelled, "car")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestMemoryDefinition(t *testing.T) {
	m, err := NewMemory(testSenses())
	require.NoError(t, err)

	definition, err := m.Definition(context.Background(), model.MustParseSenseKey("banana.n.02//banana"))
	require.NoError(t, err)
	assert.Equal(t, "elongated crescent-shaped yellow fruit", definition)

	_, err = m.Definition(context.Background(), model.MustParseSenseKey("banana.n.01//banana"))
	assert.ErrorIs(t, err, model.ErrSenseNotFound)

	_, err = m.Definition(context.Background(), model.MustParseSenseKey("car.n.01//automobile"))
	assert.ErrorIs(t, err, model.ErrSenseNotFound, "Expected an unknown lemma of a known synset to fail")
}

func TestSuggest(t *testing.T) {
	m, err := NewMemory(testSenses())
	require.NoError(t, err)

	assert.Equal(t, []string{"banana"}, m.Suggest("bannana", 1))
	assert.LessOrEqual(t, len(m.Suggest("cat", 2)), 2)
	assert.Nil(t, m.Suggest("banana", 0))
}
