package database

import (
	"context"
	"log"
	"testing"

	"github.com/siherrmann/metonym/helper"
	loadSql "github.com/siherrmann/metonym/sql"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
)

var dbPort string

func TestMain(m *testing.M) {
	var teardown func(ctx context.Context, opts ...testcontainers.TerminateOption) error
	var err error
	teardown, dbPort, err = helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("error starting postgres container: %v", err)
	}

	m.Run()

	if teardown != nil && teardown(context.Background()) != nil {
		log.Fatalf("error tearing down postgres container: %v", err)
	}
}

func initDB(t *testing.T) *helper.Database {
	helper.SetTestDatabaseConfigEnvs(t, dbPort)
	dbConfig, err := helper.NewDatabaseConfiguration()
	require.NoError(t, err, "failed to create database configuration")
	db := helper.NewTestDatabase(dbConfig)

	err = loadSql.Init(db.Instance)
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return db
}

// initHandlers creates fresh senses and edges tables
func initHandlers(t *testing.T) (*SensesDBHandler, *EdgesDBHandler) {
	db := initDB(t)

	senses, err := NewSensesDBHandler(db, true)
	require.NoError(t, err, "Expected NewSensesDBHandler to not return an error")

	edges, err := NewEdgesDBHandler(db, true)
	require.NoError(t, err, "Expected NewEdgesDBHandler to not return an error")

	return senses, edges
}
