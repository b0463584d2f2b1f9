package postgresql

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/hrms-core-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-core-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const leaveTypeColumns = `id, code, name, description, is_paid, requires_approval,
		can_carry_forward, max_carry_forward_days, is_active, created_at, updated_at`

type leaveTypeRepositoryImpl struct {
	db *database.DB
}

func NewLeaveTypeRepository(db *database.DB) leave.LeaveTypeRepository {
	return &leaveTypeRepositoryImpl{db: db}
}

func scanLeaveType(row pgx.Row) (leave.LeaveType, error) {
	var lt leave.LeaveType
	err := row.Scan(
		&lt.ID, &lt.Code, &lt.Name, &lt.Description, &lt.IsPaid, &lt.RequiresApproval,
		&lt.CanCarryForward, &lt.MaxCarryForwardDays, &lt.IsActive, &lt.CreatedAt, &lt.UpdatedAt,
	)
	return lt, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Create implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) Create(ctx context.Context, leaveType leave.LeaveType) (leave.LeaveType, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		INSERT INTO leave_types (
			id, code, name, description, is_paid, requires_approval,
			can_carry_forward, max_carry_forward_days, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + leaveTypeColumns

	created, err := scanLeaveType(q.QueryRow(ctx, query,
		leaveType.ID, leaveType.Code, leaveType.Name, leaveType.Description, leaveType.IsPaid, leaveType.RequiresApproval,
		leaveType.CanCarryForward, leaveType.MaxCarryForwardDays, leaveType.IsActive,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return leave.LeaveType{}, leave.ErrLeaveTypeCodeExists
		}
		return leave.LeaveType{}, err
	}
	return created, nil
}

// GetByID implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveType, error) {
	q := GetQuerier(ctx, l.db)

	query := `SELECT ` + leaveTypeColumns + ` FROM leave_types WHERE id = $1`

	lt, err := scanLeaveType(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveType{}, err
	}
	return lt, nil
}

// GetByIDs implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) GetByIDs(ctx context.Context, ids []string) (map[string]leave.LeaveType, error) {
	types, err := l.query(ctx, `SELECT `+leaveTypeColumns+` FROM leave_types WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]leave.LeaveType, len(types))
	for _, lt := range types {
		byID[lt.ID] = lt
	}
	return byID, nil
}

// List implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) List(ctx context.Context, activeOnly bool) ([]leave.LeaveType, error) {
	query := `
		SELECT ` + leaveTypeColumns + `
		FROM leave_types
		WHERE is_active OR NOT $1
		ORDER BY code
	`
	return l.query(ctx, query, activeOnly)
}

func (l *leaveTypeRepositoryImpl) query(ctx context.Context, query string, args ...any) ([]leave.LeaveType, error) {
	q := GetQuerier(ctx, l.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := make([]leave.LeaveType, 0)
	for rows.Next() {
		lt, err := scanLeaveType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, lt)
	}

	return types, rows.Err()
}

// Deactivate implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, l.db)

	query := `
		UPDATE leave_types
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return leave.ErrLeaveTypeNotFound
	}
	return nil
}
