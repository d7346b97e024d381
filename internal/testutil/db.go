package testutil

import (
	"context"
	"fmt"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// StartPostgres starts a PostgreSQL 16 container and returns its DSN and a
// function that terminates it.
// Uses the postgres module with BasicWaitStrategies (log occurrence(2) + port check).
func StartPostgres(ctx context.Context) (dsn string, terminate func(), err error) {
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return "", nil, fmt.Errorf("starting postgres container: %w", err)
	}
	terminate = func() {
		_ = testcontainers.TerminateContainer(container)
	}

	dsn, err = container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		terminate()
		return "", nil, fmt.Errorf("getting connection string: %w", err)
	}
	return dsn, terminate, nil
}
