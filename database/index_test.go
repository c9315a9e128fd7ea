package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeWordIndexType(t *testing.T) {
	sensesDbHandler, _ := initHandlers(t)
	insertTestSenses(t, sensesDbHandler)

	ctx := context.Background()

	t.Run("Change index to GiST with default params", func(t *testing.T) {
		err := sensesDbHandler.ChangeWordIndexType(ctx, "gist", map[string]interface{}{})
		assert.NoError(t, err, "Expected ChangeWordIndexType to gist to not return an error")
	})

	t.Run("Change index to GiST with custom params", func(t *testing.T) {
		err := sensesDbHandler.ChangeWordIndexType(ctx, "gist", map[string]interface{}{"siglen": 32})
		assert.NoError(t, err, "Expected ChangeWordIndexType to gist with custom params to not return an error")

		words, err := sensesDbHandler.SearchWords("ice creem", 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"ice_cream"}, words, "Expected search to work with a GiST index")
	})

	t.Run("Change index with invalid siglen", func(t *testing.T) {
		err := sensesDbHandler.ChangeWordIndexType(ctx, "gist", map[string]interface{}{"siglen": 0})
		assert.Error(t, err, "Expected error for siglen out of range")
	})

	t.Run("Change index with unsupported index type", func(t *testing.T) {
		err := sensesDbHandler.ChangeWordIndexType(ctx, "hnsw", map[string]interface{}{})
		assert.Error(t, err, "Expected error when using unsupported index type")
		assert.Contains(t, err.Error(), "unsupported index type", "Expected error message to mention unsupported index type")
	})

	t.Run("Change index with timeout context", func(t *testing.T) {
		shortCtx, cancel := context.WithTimeout(ctx, 1*time.Nanosecond)
		defer cancel()

		time.Sleep(10 * time.Millisecond)

		// May succeed if the operation is fast enough, it must not panic
		_ = sensesDbHandler.ChangeWordIndexType(shortCtx, "gin", map[string]interface{}{})
	})

	t.Run("Change index back to GIN", func(t *testing.T) {
		err := sensesDbHandler.ChangeWordIndexType(ctx, "gin", map[string]interface{}{})
		assert.NoError(t, err, "Expected ChangeWordIndexType to gin to not return an error")
	})
}
