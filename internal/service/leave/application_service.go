package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/hrms-core-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-core-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-core-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-core-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// Apply records a pending application after checking the current balance.
// The balance itself is only debited on approval.
func (l *LeaveServiceImpl) Apply(ctx context.Context, actor user.Actor, req leave.ApplyLeaveRequest) (leave.LeaveApplicationResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveApplicationResponse{}, err
	}

	employeeID := req.EmployeeID
	if employeeID == "" {
		employeeID = actor.EmployeeID
	}
	if employeeID == "" {
		return leave.LeaveApplicationResponse{}, user.ErrEmployeeIDRequired
	}
	if !actor.Owns(employeeID) && !actor.IsAdmin() {
		return leave.LeaveApplicationResponse{}, user.ErrInsufficientPermissions
	}

	emp, err := l.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return leave.LeaveApplicationResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if !emp.IsActive() {
		return leave.LeaveApplicationResponse{}, employee.ErrEmployeeInactive
	}
	if emp.LeavePlanID == nil {
		return leave.LeaveApplicationResponse{}, employee.ErrLeavePlanNotAssigned
	}

	leaveType, err := l.LeaveTypeRepository.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		return leave.LeaveApplicationResponse{}, fmt.Errorf("failed to get leave type: %w", err)
	}
	if !leaveType.IsActive {
		return leave.LeaveApplicationResponse{}, leave.ErrLeaveTypeInactive
	}

	plan, err := l.LeavePlanRepository.GetByID(ctx, *emp.LeavePlanID)
	if err != nil {
		return leave.LeaveApplicationResponse{}, fmt.Errorf("failed to get leave plan: %w", err)
	}

	startDate, endDate := req.Dates()
	leaveYear := LeaveYearOf(plan, startDate)
	if LeaveYearOf(plan, endDate) != leaveYear {
		return leave.LeaveApplicationResponse{}, validator.ValidationErrors{{
			Field:   "end_date",
			Message: "leave must not span two leave years",
		}}
	}

	balance, err := l.LeaveBalanceRepository.GetByEmployeeTypeYear(ctx, emp.ID, leaveType.ID, leaveYear)
	if err != nil {
		if !errors.Is(err, leave.ErrLeaveBalanceNotFound) {
			return leave.LeaveApplicationResponse{}, fmt.Errorf("failed to get leave balance: %w", err)
		}
		balance = leave.LeaveBalance{EmployeeID: emp.ID, LeaveTypeID: leaveType.ID, LeaveYear: leaveYear}
	}
	if balance.AvailableDays().LessThan(req.TotalDays) {
		return leave.LeaveApplicationResponse{}, leave.NewInsufficientBalanceError(balance, req.TotalDays)
	}

	id, err := newID()
	if err != nil {
		return leave.LeaveApplicationResponse{}, err
	}

	now := l.now()
	created, err := l.LeaveApplicationRepository.Create(ctx, leave.LeaveApplication{
		ID:          id,
		EmployeeID:  emp.ID,
		LeaveTypeID: leaveType.ID,
		LeaveYear:   leaveYear,
		StartDate:   startDate,
		EndDate:     endDate,
		TotalDays:   req.TotalDays,
		Reason:      strings.TrimSpace(req.Reason),
		Status:      leave.ApplicationStatusPending,
		AppliedAt:   now,
		AppliedBy:   actor.UserID,
	})
	if err != nil {
		return leave.LeaveApplicationResponse{}, fmt.Errorf("failed to create leave application: %w", err)
	}

	slog.Info("Leave application submitted",
		"application_id", created.ID,
		"employee_id", created.EmployeeID,
		"leave_type_id", created.LeaveTypeID,
		"total_days", created.TotalDays.String(),
	)

	return toApplicationResponse(created), nil
}

// Approve debits the balance and moves the application to approved in one
// transaction, holding row locks on both.
func (l *LeaveServiceImpl) Approve(ctx context.Context, actor user.Actor, applicationID string) (leave.ApproveLeaveResponse, error) {
	if !actor.CanApprove() {
		return leave.ApproveLeaveResponse{}, user.ErrInsufficientPermissions
	}

	var resp leave.ApproveLeaveResponse
	err := l.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		app, err := l.LeaveApplicationRepository.GetForUpdate(ctx, applicationID)
		if err != nil {
			return err
		}
		if !app.Status.CanTransitionTo(leave.ApplicationStatusApproved) {
			return leave.ErrApplicationAlreadyProcessed
		}

		balance, err := l.LeaveBalanceRepository.GetForUpdate(ctx, app.EmployeeID, app.LeaveTypeID, app.LeaveYear)
		if err != nil {
			if errors.Is(err, leave.ErrLeaveBalanceNotFound) {
				empty := leave.LeaveBalance{EmployeeID: app.EmployeeID, LeaveTypeID: app.LeaveTypeID, LeaveYear: app.LeaveYear}
				return leave.NewInsufficientBalanceError(empty, app.TotalDays)
			}
			return fmt.Errorf("failed to lock leave balance: %w", err)
		}
		if balance.AvailableDays().LessThan(app.TotalDays) {
			return leave.NewInsufficientBalanceError(balance, app.TotalDays)
		}

		updated, err := l.debit(ctx, balance, app.TotalDays)
		if err != nil {
			return err
		}

		now := l.now()
		app.Status = leave.ApplicationStatusApproved
		app.ApprovedBy = &actor.UserID
		app.ApprovedAt = &now
		saved, err := l.LeaveApplicationRepository.UpdateStatus(ctx, app, leave.ApplicationStatusPending)
		if err != nil {
			return err
		}

		resp = leave.ApproveLeaveResponse{
			Application:    toApplicationResponse(saved),
			UpdatedBalance: toBalanceResponse(updated),
		}
		return nil
	})
	if err != nil {
		logInvariantViolation(err, applicationID)
		return leave.ApproveLeaveResponse{}, err
	}

	slog.Info("Leave application approved",
		"application_id", applicationID,
		"approved_by", actor.UserID,
		"available_days", resp.UpdatedBalance.AvailableDays.String(),
	)
	return resp, nil
}

func (l *LeaveServiceImpl) Reject(ctx context.Context, actor user.Actor, req leave.RejectLeaveRequest) (leave.LeaveApplicationResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveApplicationResponse{}, err
	}
	if !actor.CanApprove() {
		return leave.LeaveApplicationResponse{}, user.ErrInsufficientPermissions
	}

	var resp leave.LeaveApplicationResponse
	err := l.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		app, err := l.LeaveApplicationRepository.GetForUpdate(ctx, req.ApplicationID)
		if err != nil {
			return err
		}
		if !app.Status.CanTransitionTo(leave.ApplicationStatusRejected) {
			return leave.ErrApplicationAlreadyProcessed
		}

		now := l.now()
		reason := strings.TrimSpace(req.Reason)
		app.Status = leave.ApplicationStatusRejected
		app.RejectedBy = &actor.UserID
		app.RejectedAt = &now
		app.RejectionReason = &reason

		saved, err := l.LeaveApplicationRepository.UpdateStatus(ctx, app, leave.ApplicationStatusPending)
		if err != nil {
			return err
		}
		resp = toApplicationResponse(saved)
		return nil
	})
	if err != nil {
		return leave.LeaveApplicationResponse{}, err
	}

	slog.Info("Leave application rejected", "application_id", req.ApplicationID, "rejected_by", actor.UserID)
	return resp, nil
}

// Cancel is open to the applicant and admins. Cancelling an approved
// application re-credits the days it consumed.
func (l *LeaveServiceImpl) Cancel(ctx context.Context, actor user.Actor, applicationID string) (leave.CancelLeaveResponse, error) {
	var resp leave.CancelLeaveResponse
	err := l.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		app, err := l.LeaveApplicationRepository.GetForUpdate(ctx, applicationID)
		if err != nil {
			return err
		}
		if !actor.Owns(app.EmployeeID) && !actor.IsAdmin() {
			return leave.ErrNotApplicationOwner
		}
		if !app.Status.CanTransitionTo(leave.ApplicationStatusCancelled) {
			return leave.ErrApplicationAlreadyProcessed
		}

		previous := app.Status
		if previous == leave.ApplicationStatusApproved {
			balance, err := l.LeaveBalanceRepository.GetForUpdate(ctx, app.EmployeeID, app.LeaveTypeID, app.LeaveYear)
			if err != nil {
				return fmt.Errorf("failed to lock leave balance: %w", err)
			}
			updated, err := l.debit(ctx, balance, app.TotalDays.Neg())
			if err != nil {
				return err
			}
			credited := toBalanceResponse(updated)
			resp.UpdatedBalance = &credited
		}

		now := l.now()
		app.Status = leave.ApplicationStatusCancelled
		app.CancelledBy = &actor.UserID
		app.CancelledAt = &now

		saved, err := l.LeaveApplicationRepository.UpdateStatus(ctx, app, previous)
		if err != nil {
			return err
		}
		resp.Application = toApplicationResponse(saved)
		return nil
	})
	if err != nil {
		logInvariantViolation(err, applicationID)
		return leave.CancelLeaveResponse{}, err
	}

	slog.Info("Leave application cancelled",
		"application_id", applicationID,
		"cancelled_by", actor.UserID,
		"recredited", resp.UpdatedBalance != nil,
	)
	return resp, nil
}

// debit moves usedDays by delta through the guarded update. A negative delta
// re-credits the balance.
func (l *LeaveServiceImpl) debit(ctx context.Context, balance leave.LeaveBalance, delta decimal.Decimal) (leave.LeaveBalance, error) {
	violation := func(detail string) error {
		return &leave.InvariantViolationError{
			EmployeeID:  balance.EmployeeID,
			LeaveTypeID: balance.LeaveTypeID,
			LeaveYear:   balance.LeaveYear,
			Detail:      detail,
		}
	}

	updated, err := l.LeaveBalanceRepository.AdjustUsedDays(ctx, balance.ID, delta)
	if err != nil {
		if errors.Is(err, leave.ErrInvariantViolation) {
			return leave.LeaveBalance{}, violation(fmt.Sprintf("guarded update of used days by %s matched no row", delta))
		}
		return leave.LeaveBalance{}, fmt.Errorf("failed to update leave balance: %w", err)
	}
	if updated.AvailableDays().IsNegative() || updated.UsedDays.IsNegative() {
		return leave.LeaveBalance{}, violation(fmt.Sprintf("balance after update: available %s, used %s",
			updated.AvailableDays(), updated.UsedDays))
	}
	return updated, nil
}

func logInvariantViolation(err error, applicationID string) {
	var violation *leave.InvariantViolationError
	if errors.As(err, &violation) {
		slog.Error("Leave balance invariant violated",
			"application_id", applicationID,
			"employee_id", violation.EmployeeID,
			"leave_type_id", violation.LeaveTypeID,
			"leave_year", violation.LeaveYear,
			"detail", violation.Detail,
		)
	}
}
