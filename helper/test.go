package helper

import (
	"context"
	"log"
	"log/slog"
	"os"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const (
	testDbName     = "database"
	testDbUser     = "user"
	testDbPassword = "password"
)

// MustStartPostgresContainer starts a PostgreSQL container for tests and examples.
// It returns the teardown function and the mapped host port.
func MustStartPostgresContainer() (func(ctx context.Context, opts ...testcontainers.TerminateOption) error, string, error) {
	ctx := context.Background()

	container, err := postgres.Run(
		ctx,
		"postgres:17-alpine",
		postgres.WithDatabase(testDbName),
		postgres.WithUsername(testDbUser),
		postgres.WithPassword(testDbPassword),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, "", NewError("start postgres container", err)
	}

	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return container.Terminate, "", NewError("get mapped port", err)
	}

	return container.Terminate, port.Port(), nil
}

// SetTestDatabaseConfigEnvs sets the database environment for the test container
func SetTestDatabaseConfigEnvs(t *testing.T, port string) {
	t.Setenv("MEDGRAPH_DB_HOST", "localhost")
	t.Setenv("MEDGRAPH_DB_PORT", port)
	t.Setenv("MEDGRAPH_DB_DATABASE", testDbName)
	t.Setenv("MEDGRAPH_DB_USERNAME", testDbUser)
	t.Setenv("MEDGRAPH_DB_PASSWORD", testDbPassword)
	t.Setenv("MEDGRAPH_DB_SCHEMA", "public")
	t.Setenv("MEDGRAPH_DB_SSLMODE", "disable")
}

// NewTestDatabase connects to the test database and fails hard if that is not possible
func NewTestDatabase(config *DatabaseConfiguration) *Database {
	logger := slog.New(NewPrettyHandler(os.Stdout, PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{Level: slog.LevelWarn},
	}))

	db, err := NewDatabase("test", config, logger)
	if err != nil {
		log.Fatalf("error connecting to test database: %v", err)
	}

	return db
}
