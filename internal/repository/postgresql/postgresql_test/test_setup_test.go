package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/hris-attendance/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance/internal/repository/postgresql"
	"github.com/stretchr/testify/require"
)

// newTestDB connects to TEST_DATABASE_URL, applies the migrations and
// empties every table. Tests are skipped when the variable is unset.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 10, MinConns: 1})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	_, err = postgresql.Migrate(ctx, db)
	require.NoError(t, err)
	require.NoError(t, truncateAll(ctx, db))
	return db
}

func truncateAll(ctx context.Context, db *database.DB) error {
	tables := []string{
		"attendance_records",
		"leave_requests",
		"performance_records",
		"holidays",
		"system_settings",
		"employees",
	}
	for _, table := range tables {
		if _, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}
	return nil
}
