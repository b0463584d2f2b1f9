package postgresql

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/hrms-core-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-core-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const leaveBalanceColumns = `id, employee_id, leave_type_id, leave_year,
		allocated_days, carry_forward_days, used_days, created_at, updated_at`

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

func scanLeaveBalance(row pgx.Row) (leave.LeaveBalance, error) {
	var b leave.LeaveBalance
	err := row.Scan(
		&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.LeaveYear,
		&b.AllocatedDays, &b.CarryForwardDays, &b.UsedDays, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func notFoundBalance(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return leave.ErrLeaveBalanceNotFound
	}
	return err
}

// Create implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) Create(ctx context.Context, b leave.LeaveBalance) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (
			id, employee_id, leave_type_id, leave_year,
			allocated_days, carry_forward_days, used_days
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + leaveBalanceColumns

	created, err := scanLeaveBalance(q.QueryRow(ctx, query,
		b.ID, b.EmployeeID, b.LeaveTypeID, b.LeaveYear,
		b.AllocatedDays, b.CarryForwardDays, b.UsedDays,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return leave.LeaveBalance{}, leave.ErrBalanceAlreadyExists
		}
		return leave.LeaveBalance{}, err
	}
	return created, nil
}

// GetByEmployeeYear implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) GetByEmployeeYear(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveBalanceColumns + `
		FROM leave_balances
		WHERE employee_id = $1 AND leave_year = $2
		ORDER BY leave_type_id
	`

	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := make([]leave.LeaveBalance, 0)
	for rows.Next() {
		b, err := scanLeaveBalance(rows)
		if err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}

	return balances, rows.Err()
}

// GetByEmployeeTypeYear implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) GetByEmployeeTypeYear(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveBalanceColumns + `
		FROM leave_balances
		WHERE employee_id = $1 AND leave_type_id = $2 AND leave_year = $3
	`

	b, err := scanLeaveBalance(q.QueryRow(ctx, query, employeeID, leaveTypeID, year))
	return b, notFoundBalance(err)
}

// GetForUpdate implements leave.LeaveBalanceRepository. Only meaningful inside
// a transaction.
func (r *leaveBalanceRepositoryImpl) GetForUpdate(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveBalanceColumns + `
		FROM leave_balances
		WHERE employee_id = $1 AND leave_type_id = $2 AND leave_year = $3
		FOR UPDATE
	`

	b, err := scanLeaveBalance(q.QueryRow(ctx, query, employeeID, leaveTypeID, year))
	return b, notFoundBalance(err)
}

// UpdateAllocation implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) UpdateAllocation(ctx context.Context, id string, allocatedDays decimal.Decimal) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET allocated_days = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + leaveBalanceColumns

	b, err := scanLeaveBalance(q.QueryRow(ctx, query, allocatedDays, id))
	return b, notFoundBalance(err)
}

// UpdateCarryForward implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) UpdateCarryForward(ctx context.Context, id string, carryForwardDays decimal.Decimal) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET carry_forward_days = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + leaveBalanceColumns

	b, err := scanLeaveBalance(q.QueryRow(ctx, query, carryForwardDays, id))
	return b, notFoundBalance(err)
}

// AdjustUsedDays implements leave.LeaveBalanceRepository. The WHERE clause is
// the guard: a row that would go negative is not updated.
func (r *leaveBalanceRepositoryImpl) AdjustUsedDays(ctx context.Context, id string, delta decimal.Decimal) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET used_days = used_days + $1, updated_at = NOW()
		WHERE id = $2
		  AND used_days + $1 >= 0
		  AND allocated_days + carry_forward_days - (used_days + $1) >= 0
		RETURNING ` + leaveBalanceColumns

	b, err := scanLeaveBalance(q.QueryRow(ctx, query, delta, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return leave.LeaveBalance{}, leave.ErrInvariantViolation
	}
	return b, err
}
