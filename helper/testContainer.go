package helper

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testDatabase = "database"
	testUsername = "user"
	testPassword = "password"
)

// MustStartPostgresContainer starts a throwaway Postgres container.
// It returns the terminate function and the mapped host port.
func MustStartPostgresContainer() (func(ctx context.Context, opts ...testcontainers.TerminateOption) error, string, error) {
	ctx := context.Background()

	container, err := postgres.Run(
		ctx,
		"postgres:17-alpine",
		postgres.WithDatabase(testDatabase),
		postgres.WithUsername(testUsername),
		postgres.WithPassword(testPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", NewError("start postgres container", err)
	}

	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return container.Terminate, "", NewError("mapped port", err)
	}

	return container.Terminate, port.Port(), nil
}

// SetTestDatabaseConfigEnvs points the METONYM_DB_* variables at a test container
func SetTestDatabaseConfigEnvs(t *testing.T, port string) {
	t.Setenv("METONYM_DB_HOST", "localhost")
	t.Setenv("METONYM_DB_PORT", port)
	t.Setenv("METONYM_DB_DATABASE", testDatabase)
	t.Setenv("METONYM_DB_USERNAME", testUsername)
	t.Setenv("METONYM_DB_PASSWORD", testPassword)
	t.Setenv("METONYM_DB_SCHEMA", "public")
	t.Setenv("METONYM_DB_SSLMODE", "disable")
	t.Setenv("METONYM_DB_WITH_TABLE_DROP", "true")
}
