package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrms-core-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrms-core-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup holds a connection to the integration database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the schema. The
// test is skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 5, MinConns: 1})
	require.NoError(t, err)
	require.NoError(t, postgresql.ApplySchema(ctx, db))

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.TruncateAllTables(ctx))
	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables removes all rows, children first.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"notifications",
		"leave_applications",
		"leave_balances",
		"leave_plan_allocations",
		"payroll_slips",
		"payroll_runs",
		"salary_structures",
		"attendances",
		"employees",
		"leave_plans",
		"leave_types",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}

func newUUID(t *testing.T) string {
	t.Helper()
	id, err := uuid.NewV7()
	require.NoError(t, err)
	return id.String()
}

// createEmployee inserts an active employee and returns its id.
func (t *TestDatabaseSetup) createEmployee(tt *testing.T, code string, hired time.Time, planID *string) string {
	tt.Helper()
	id := newUUID(tt)
	_, err := t.DB.Exec(context.Background(), `
		INSERT INTO employees (id, employee_code, full_name, hire_date, employment_status, leave_plan_id)
		VALUES ($1, $2, $3, $4, 'active', $5)
	`, id, code, "Employee "+code, hired, planID)
	require.NoError(tt, err)
	return id
}

func (t *TestDatabaseSetup) recordAttendance(tt *testing.T, employeeID string, date time.Time, status string) {
	tt.Helper()
	_, err := t.DB.Exec(context.Background(), `
		INSERT INTO attendances (id, employee_id, date, status) VALUES ($1, $2, $3, $4)
	`, newUUID(tt), employeeID, date, status)
	require.NoError(tt, err)
}
