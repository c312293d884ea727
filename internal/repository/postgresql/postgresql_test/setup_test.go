package postgresql_test

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var (
	testDB     *database.DB
	testDBErr  error
	testDBOnce sync.Once
)

// testDatabase connects to TEST_DATABASE_URL, migrating it once, and empties
// every table. Tests are skipped when the variable is unset.
func testDatabase(t *testing.T) *database.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	testDBOnce.Do(func() {
		if testDBErr = database.RunMigrations(dsn); testDBErr != nil {
			return
		}
		testDB, testDBErr = database.NewPostgreSQLDB(context.Background(), dsn, database.PoolOptions{MaxConns: 10})
	})
	require.NoError(t, testDBErr)

	_, err := testDB.Exec(context.Background(), "TRUNCATE TABLE revoked_tokens, leave_balances, attendance, holidays, users CASCADE")
	require.NoError(t, err)
	return testDB
}

func createTestUser(t *testing.T, db *database.DB, username, department string, role user.Role) user.User {
	t.Helper()
	created, err := postgresql.NewUserRepository(db).Create(context.Background(), user.User{
		ID:           uuid.New().String(),
		Username:     username,
		Name:         "User " + username,
		Department:   department,
		Role:         role,
		PasswordHash: "not-a-real-hash",
	})
	require.NoError(t, err)
	return created
}
