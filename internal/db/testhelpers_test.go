package db

import (
	"context"
	"flag"
	"log"
	"os"
	"testing"

	"github.com/udisondev/pf2egrid/internal/testutil"
)

// testDB is shared by all tests in the package; nil when no container runs.
var testDB *DB

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	dsn, terminate, err := testutil.StartPostgres(ctx)
	if err != nil {
		log.Printf("postgres unavailable, skipping database tests: %v", err)
		os.Exit(m.Run())
	}

	code := func() int {
		defer terminate()

		if err := RunMigrations(ctx, dsn); err != nil {
			log.Printf("running migrations: %v", err)
			return 1
		}
		testDB, err = New(ctx, dsn, 4)
		if err != nil {
			log.Printf("connecting to test db: %v", err)
			return 1
		}
		defer testDB.Close()

		return m.Run()
	}()
	os.Exit(code)
}

// setupTestDB returns the shared repository after clearing all scenes.
func setupTestDB(tb testing.TB) *SceneRepository {
	tb.Helper()
	if testDB == nil {
		tb.Skip("database tests need a postgres container")
	}
	if _, err := testDB.Pool().Exec(context.Background(), "TRUNCATE scenes CASCADE"); err != nil {
		tb.Fatalf("cleanup: %v", err)
	}
	return testDB.Scenes()
}
