package postgresql

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/hrms-core-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-core-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const leaveApplicationColumns = `id, employee_id, leave_type_id, leave_year,
		start_date, end_date, total_days, reason,
		status, applied_at, applied_by, approved_by, approved_at,
		rejected_by, rejected_at, rejection_reason, cancelled_by, cancelled_at,
		created_at, updated_at`

type leaveApplicationRepositoryImpl struct {
	db *database.DB
}

func NewLeaveApplicationRepository(db *database.DB) leave.LeaveApplicationRepository {
	return &leaveApplicationRepositoryImpl{db: db}
}

func scanLeaveApplication(row pgx.Row) (leave.LeaveApplication, error) {
	var a leave.LeaveApplication
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.LeaveTypeID, &a.LeaveYear,
		&a.StartDate, &a.EndDate, &a.TotalDays, &a.Reason,
		&a.Status, &a.AppliedAt, &a.AppliedBy, &a.ApprovedBy, &a.ApprovedAt,
		&a.RejectedBy, &a.RejectedAt, &a.RejectionReason, &a.CancelledBy, &a.CancelledAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return leave.LeaveApplication{}, leave.ErrLeaveApplicationNotFound
	}
	return a, err
}

// Create implements leave.LeaveApplicationRepository.
func (r *leaveApplicationRepositoryImpl) Create(ctx context.Context, a leave.LeaveApplication) (leave.LeaveApplication, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_applications (
			id, employee_id, leave_type_id, leave_year,
			start_date, end_date, total_days, reason,
			status, applied_at, applied_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + leaveApplicationColumns

	return scanLeaveApplication(q.QueryRow(ctx, query,
		a.ID, a.EmployeeID, a.LeaveTypeID, a.LeaveYear,
		a.StartDate, a.EndDate, a.TotalDays, a.Reason,
		a.Status, a.AppliedAt, a.AppliedBy,
	))
}

// GetByID implements leave.LeaveApplicationRepository.
func (r *leaveApplicationRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveApplication, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveApplicationColumns + ` FROM leave_applications WHERE id = $1`

	return scanLeaveApplication(q.QueryRow(ctx, query, id))
}

// GetForUpdate implements leave.LeaveApplicationRepository.
func (r *leaveApplicationRepositoryImpl) GetForUpdate(ctx context.Context, id string) (leave.LeaveApplication, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveApplicationColumns + ` FROM leave_applications WHERE id = $1 FOR UPDATE`

	return scanLeaveApplication(q.QueryRow(ctx, query, id))
}

// UpdateStatus implements leave.LeaveApplicationRepository.
func (r *leaveApplicationRepositoryImpl) UpdateStatus(ctx context.Context, a leave.LeaveApplication, from leave.ApplicationStatus) (leave.LeaveApplication, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_applications
		SET status = $1,
			approved_by = $2, approved_at = $3,
			rejected_by = $4, rejected_at = $5, rejection_reason = $6,
			cancelled_by = $7, cancelled_at = $8,
			updated_at = NOW()
		WHERE id = $9 AND status = $10
		RETURNING ` + leaveApplicationColumns

	updated, err := scanLeaveApplication(q.QueryRow(ctx, query,
		a.Status,
		a.ApprovedBy, a.ApprovedAt,
		a.RejectedBy, a.RejectedAt, a.RejectionReason,
		a.CancelledBy, a.CancelledAt,
		a.ID, from,
	))
	if errors.Is(err, leave.ErrLeaveApplicationNotFound) {
		return leave.LeaveApplication{}, leave.ErrApplicationAlreadyProcessed
	}
	return updated, err
}
