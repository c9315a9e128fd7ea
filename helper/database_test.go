package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatabaseConfiguration(t *testing.T) {
	t.Run("Valid configuration from environment", func(t *testing.T) {
		SetTestDatabaseConfigEnvs(t, "5433")

		config, err := NewDatabaseConfiguration()
		require.NoError(t, err, "Expected NewDatabaseConfiguration to not return an error")
		assert.Equal(t, "localhost", config.Host)
		assert.Equal(t, "5433", config.Port)
		assert.Equal(t, "disable", config.SSLMode)
		assert.True(t, config.WithTableDrop, "Expected WithTableDrop to be parsed")
	})

	t.Run("Missing host returns an error", func(t *testing.T) {
		SetTestDatabaseConfigEnvs(t, "5433")
		t.Setenv("METONYM_DB_HOST", "")

		_, err := NewDatabaseConfiguration()
		assert.Error(t, err, "Expected an error for missing host")
		assert.Contains(t, err.Error(), "must be set")
	})

	t.Run("Invalid table drop flag returns an error", func(t *testing.T) {
		SetTestDatabaseConfigEnvs(t, "5433")
		t.Setenv("METONYM_DB_WITH_TABLE_DROP", "maybe")

		_, err := NewDatabaseConfiguration()
		assert.Error(t, err, "Expected an error for an invalid boolean")
	})

	t.Run("DSN contains all parts", func(t *testing.T) {
		config := &DatabaseConfiguration{
			Host:     "db",
			Port:     "5432",
			Database: "taxonomy",
			Username: "reader",
			Password: "secret",
			Schema:   "public",
			SSLMode:  "disable",
		}

		dsn := config.DSN()
		assert.Contains(t, dsn, "host=db")
		assert.Contains(t, dsn, "dbname=taxonomy")
		assert.Contains(t, dsn, "sslmode=disable")
		assert.Contains(t, dsn, "search_path=public")
	})
}

func TestDatabaseCloseNil(t *testing.T) {
	var db *Database
	assert.NoError(t, db.Close(), "Expected Close on a nil database to be a no-op")
}
